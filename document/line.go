// Package document turns gemtext bodies into an addressable buffer of lines.
package document

import (
	"net/url"
	"strings"
)

// Line is one rendered line of a gemtext document. The set of
// implementations is closed: Heading, Plain and Link.
type Line interface {
	// Text returns the visible text of the line, used by search.
	Text() string
	isLine()
}

// Heading is a #, ## or ### line. Body excludes the markers; Text restores
// them so search sees the heading as displayed.
type Heading struct {
	Level int
	Body  string
}

// Plain is an ordinary text line, including lines of a preformatted block.
type Plain struct {
	Body string
}

// Link is a => line with a resolved target.
type Link struct {
	ID     int
	Label  string
	Target *url.URL
}

func (h Heading) Text() string {
	return strings.TrimRight(strings.Repeat("#", h.Level)+" "+h.Body, " ")
}

func (p Plain) Text() string { return p.Body }
func (l Link) Text() string  { return l.Label }

func (Heading) isLine() {}
func (Plain) isLine()   {}
func (Link) isLine()    {}
