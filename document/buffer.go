package document

import "net/url"

// Buffer holds the lines of the loaded document and the cursor into them.
// The zero value is an empty buffer.
type Buffer struct {
	lines  []Line
	cursor int
	url    *url.URL
}

// Len returns the number of lines.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Cursor returns the current line index.
func (b *Buffer) Cursor() int {
	return b.cursor
}

// SetCursor moves the cursor, clamping to [0, Len-1].
func (b *Buffer) SetCursor(pos int) {
	if pos >= len(b.lines) {
		pos = len(b.lines) - 1
	}
	if pos < 0 {
		pos = 0
	}
	b.cursor = pos
}

// Line returns the line at index i, or nil when i is out of range.
func (b *Buffer) Line(i int) Line {
	if i < 0 || i >= len(b.lines) {
		return nil
	}
	return b.lines[i]
}

// Lines returns the buffer's lines. The slice must not be modified.
func (b *Buffer) Lines() []Line {
	return b.lines
}

// URL returns the URL of the loaded document, or nil if nothing is loaded.
func (b *Buffer) URL() *url.URL {
	return b.url
}

// FindLink returns the first link carrying id.
func (b *Buffer) FindLink(id int) (Link, bool) {
	for _, line := range b.lines {
		if l, ok := line.(Link); ok && l.ID == id {
			return l, true
		}
	}
	return Link{}, false
}
