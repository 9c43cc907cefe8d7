// Package command parses ed-style input lines into typed commands.
package command

import "net/url"

// Command is one parsed input line. The set of implementations is closed;
// consumers switch over every variant.
type Command interface {
	isCommand()
}

type (
	// GoURL fetches URL and appends it to history.
	GoURL struct{ URL *url.URL }

	// SearchForwards searches from the cursor towards the end.
	SearchForwards struct{ Pattern string }

	// SearchBackwards searches from the cursor towards the start.
	SearchBackwards struct{ Pattern string }

	// FollowLink fetches the target of the link numbered ID.
	FollowLink struct{ ID int }

	// JumpToLine moves the cursor to a 0-based line.
	JumpToLine struct{ Line int }

	// GoBack steps Depth entries back through history.
	GoBack struct{ Depth int }

	// GoForward steps Depth entries forward through history.
	GoForward struct{ Depth int }

	// Print prints the current line, or the inclusive span [Start, Stop]
	// when Range is set.
	Print struct {
		Range       bool
		Start, Stop int
	}

	// Enumerate is Print with 1-based line numbers.
	Enumerate struct {
		Range       bool
		Start, Stop int
	}

	// Page prints Size lines from the cursor.
	Page struct{ Size int }

	// History lists the first Depth entries, or all when Depth <= 0.
	History struct{ Depth int }

	// Clear clears the terminal.
	Clear struct{}

	// AddBookmark stores the current URL under Key.
	AddBookmark struct{ Key rune }

	// GoBookmark fetches the URL stored under Key.
	GoBookmark struct{ Key rune }

	// SaveBookmarks writes the bookmarks to disk.
	SaveBookmarks struct{}

	// ListBookmarks prints every bookmark.
	ListBookmarks struct{}

	// Empty is a bare return; it prints the current line and advances.
	Empty struct{}

	// Invalid is any input the grammar does not accept.
	Invalid struct{ Input string }

	// Quit ends the session.
	Quit struct{}
)

func (GoURL) isCommand()           {}
func (SearchForwards) isCommand()  {}
func (SearchBackwards) isCommand() {}
func (FollowLink) isCommand()      {}
func (JumpToLine) isCommand()      {}
func (GoBack) isCommand()          {}
func (GoForward) isCommand()       {}
func (Print) isCommand()           {}
func (Enumerate) isCommand()       {}
func (Page) isCommand()            {}
func (History) isCommand()         {}
func (Clear) isCommand()           {}
func (AddBookmark) isCommand()     {}
func (GoBookmark) isCommand()      {}
func (SaveBookmarks) isCommand()   {}
func (ListBookmarks) isCommand()   {}
func (Empty) isCommand()           {}
func (Invalid) isCommand()         {}
func (Quit) isCommand()            {}
