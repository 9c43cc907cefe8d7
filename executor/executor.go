// Package executor carries out parsed commands against the browser state.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"

	"github.com/tliron/commonlog"

	"rei/bookmarks"
	"rei/command"
	"rei/document"
	"rei/fetcher"
	"rei/render"
	"rei/session"
)

func log() commonlog.Logger { return commonlog.GetLogger("rei.executor") }

// ErrorMarker is printed for invalid input and failed addressing or search.
const ErrorMarker = "?"

// Fetcher retrieves a URL. *fetcher.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, u *url.URL) (*fetcher.Response, error)
}

// Executor owns the line buffer, history and bookmarks of one session and
// is their only mutator. It is not safe for concurrent use.
type Executor struct {
	buf   *document.Buffer
	hist  *session.History
	marks *bookmarks.Map
	fetch Fetcher
	out   io.Writer
}

// New creates an executor writing to out. A nil hist starts an empty
// history and a nil marks an empty, unsaveable bookmark map.
func New(f Fetcher, hist *session.History, marks *bookmarks.Map, out io.Writer) *Executor {
	if hist == nil {
		hist = &session.History{}
	}
	if marks == nil {
		marks = bookmarks.New("")
	}
	return &Executor{
		buf:   &document.Buffer{},
		hist:  hist,
		marks: marks,
		fetch: f,
		out:   out,
	}
}

// Buffer returns the line buffer.
func (e *Executor) Buffer() *document.Buffer { return e.buf }

// History returns the navigation history.
func (e *Executor) History() *session.History { return e.hist }

// Bookmarks returns the bookmark map.
func (e *Executor) Bookmarks() *bookmarks.Map { return e.marks }

// Execute runs cmd to completion. It reports whether the session should end.
func (e *Executor) Execute(ctx context.Context, cmd command.Command) (quit bool) {
	switch cmd := cmd.(type) {
	case command.JumpToLine:
		if cmd.Line < 0 || cmd.Line >= e.buf.Len() {
			e.marker()
			return false
		}
		e.buf.SetCursor(cmd.Line)
		e.println(render.Line(e.buf.Line(cmd.Line)))

	case command.GoURL:
		e.goURL(ctx, cmd.URL, true)

	case command.Print:
		e.print(cmd.Range, cmd.Start, cmd.Stop, false)

	case command.Enumerate:
		e.print(cmd.Range, cmd.Start, cmd.Stop, true)

	case command.Page:
		cursor := e.buf.Cursor()
		stop := e.buf.Len() - 1
		if cmd.Size < stop-cursor {
			stop = cursor + cmd.Size
		}
		e.print(true, cursor, stop, false)

	case command.FollowLink:
		if link, ok := e.buf.FindLink(cmd.ID); ok {
			e.goURL(ctx, link.Target, true)
		}

	case command.GoBack:
		if u, ok := e.hist.Back(cmd.Depth); ok {
			e.goURL(ctx, u, false)
		}

	case command.GoForward:
		if u, ok := e.hist.Forward(cmd.Depth); ok {
			e.goURL(ctx, u, false)
		}

	case command.History:
		e.listHistory(cmd.Depth)

	case command.SearchForwards:
		e.search(cmd.Pattern, true)

	case command.SearchBackwards:
		e.search(cmd.Pattern, false)

	case command.Clear:
		fmt.Fprint(e.out, render.Reset)

	case command.AddBookmark:
		u := e.buf.URL()
		if u == nil {
			e.println(bookmarks.ErrNoPage.Error())
			return false
		}
		e.marks.Set(cmd.Key, u.String())
		log().Debugf("bookmarked %s as %c", u, cmd.Key)

	case command.GoBookmark:
		u, err := e.marks.Lookup(cmd.Key)
		if err != nil {
			e.println(err.Error())
			return false
		}
		e.goURL(ctx, u, true)

	case command.SaveBookmarks:
		if err := e.marks.Save(); err != nil {
			e.println(err.Error())
			return false
		}
		e.println(fmt.Sprint(e.marks.Len()))

	case command.ListBookmarks:
		for _, k := range e.marks.Keys() {
			u, _ := e.marks.Get(k)
			e.println(fmt.Sprintf("%c %s", k, u))
		}

	case command.Quit:
		return true

	case command.Empty:
		e.print(false, 0, 0, false)

	case command.Invalid:
		log().Debugf("invalid input %q", cmd.Input)
		e.marker()

	default:
		log().Errorf("unhandled command %T", cmd)
		e.marker()
	}
	return false
}

// Revisit fetches the current history entry without adding a new one.
func (e *Executor) Revisit(ctx context.Context) {
	if u := e.hist.Current(); u != nil {
		e.goURL(ctx, u, false)
	}
}

// goURL fetches u and loads it. Nothing is mutated unless the fetch and
// load both succeed.
func (e *Executor) goURL(ctx context.Context, u *url.URL, addToHistory bool) {
	resp, err := e.fetch.Fetch(ctx, u)
	if err != nil {
		log().Debugf("fetch %s: %s", u, err)
		e.println(err.Error())
		return
	}
	if !resp.Success() {
		e.println(fmt.Sprintf("%s: status %d %s", u, resp.Status, resp.Meta))
		return
	}

	target := resp.URL
	if target == nil {
		target = u
	}
	skipped, err := e.buf.Load(resp.Meta, string(resp.Body), target)
	for _, line := range skipped {
		e.println("unable to parse link: " + line)
	}
	if err != nil {
		var ng *document.NotGemtextError
		if errors.As(err, &ng) {
			log().Infof("refusing %s: %s", target, ng.Meta)
		}
		e.println(err.Error())
		return
	}

	if addToHistory {
		e.hist.Add(target)
	}
	e.println(fmt.Sprint(len(resp.Body)))
}

// print emits the current line and advances, or emits the inclusive range
// [start, stop] clamped to the buffer and leaves the cursor on stop.
func (e *Executor) print(ranged bool, start, stop int, numbered bool) {
	n := e.buf.Len()
	if n == 0 {
		return
	}

	if !ranged {
		cursor := e.buf.Cursor()
		e.emit(cursor, numbered)
		e.buf.SetCursor(cursor + 1)
		return
	}

	if start >= n {
		start, stop = n-1, n-1
	}
	start = max(start, 0)
	stop = max(min(stop, n-1), start)
	for i := start; i <= stop; i++ {
		e.emit(i, numbered)
	}
	e.buf.SetCursor(stop)
}

func (e *Executor) emit(i int, numbered bool) {
	line := e.buf.Line(i)
	if numbered {
		e.println(render.Numbered(i, line))
		return
	}
	e.println(render.Line(line))
}

// search moves the cursor to the first line from the cursor, inclusive,
// whose visible text matches pattern.
func (e *Executor) search(pattern string, forward bool) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		log().Debugf("bad pattern %q: %s", pattern, err)
		e.marker()
		return
	}

	step := 1
	if !forward {
		step = -1
	}
	for i := e.buf.Cursor(); i >= 0 && i < e.buf.Len(); i += step {
		line := e.buf.Line(i)
		if re.MatchString(line.Text()) {
			e.buf.SetCursor(i)
			e.println(render.Line(line))
			return
		}
	}
	e.marker()
}

// listHistory prints the first depth entries, or all when depth <= 0,
// marking the current one with >.
func (e *Executor) listHistory(depth int) {
	entries := e.hist.Entries()
	limit := len(entries)
	if depth > 0 && depth < limit {
		limit = depth
	}
	for i := 0; i < limit; i++ {
		mark := ""
		if i == e.hist.Pos() {
			mark = ">"
		}
		e.println(fmt.Sprintf("%s%d\t%s", mark, i+1, entries[i]))
	}
}

func (e *Executor) marker() {
	e.println(ErrorMarker)
}

func (e *Executor) println(s string) {
	fmt.Fprintln(e.out, s)
}
