package render

import (
	"fmt"

	"rei/document"
)

// Line formats a document line for display.
func Line(l document.Line) string {
	switch l := l.(type) {
	case document.Heading, document.Plain:
		return l.Text()
	case document.Link:
		return fmt.Sprintf("[%d] => %s", l.ID, l.Label)
	}
	return ""
}

// Numbered formats a line prefixed with its 1-based index.
func Numbered(index int, l document.Line) string {
	return fmt.Sprintf("%d\t%s", index+1, Line(l))
}
