package command

import (
	"reflect"
	"testing"
)

type fakeBuffer struct {
	length, cursor int
}

func (f fakeBuffer) Len() int    { return f.length }
func (f fakeBuffer) Cursor() int { return f.cursor }

func TestResolve(t *testing.T) {
	tests := []struct {
		token          string
		length, cursor int
		want           int
	}{
		{"-5", 100, 50, 45},
		{"+5", 100, 50, 55},
		{"$", 100, 50, 99},
		{".", 100, 50, 50},
		{"7", 100, 50, 6},
		{"1", 100, 50, 0},
		{"+500", 100, 50, 99},
		{"+9223372036854775807", 100, 50, 99},
		{"-500", 100, 50, 0},
		{"$", 0, 0, 0},
		{"++5", 100, 50, 50},
		{"--5", 100, 50, 50},
		{"x", 100, 50, 50},
		{"99999999999999999999999", 100, 50, 50},
	}
	for _, tt := range tests {
		if got := Resolve(tt.token, tt.length, tt.cursor); got != tt.want {
			t.Errorf("Resolve(%q, %d, %d) = %d, want %d", tt.token, tt.length, tt.cursor, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	buf := fakeBuffer{length: 100, cursor: 50}

	tests := []struct {
		name string
		in   string
		want Command
	}{
		{"empty", "", Empty{}},
		{"whitespace only", "   \n", Empty{}},
		{"absolute line", "10", JumpToLine{Line: 9}},
		{"relative forward", "+3", JumpToLine{Line: 53}},
		{"relative back", "-3\n", JumpToLine{Line: 47}},
		{"last line", "$", JumpToLine{Line: 99}},

		{"address print", "5p", Print{Range: true, Start: 4, Stop: 4}},
		{"address enumerate", "+2n", Enumerate{Range: true, Start: 52, Stop: 52}},
		{"whole buffer print", "%p", Print{Range: true, Start: 0, Stop: 100}},
		{"whole buffer enumerate", "%n", Enumerate{Range: true, Start: 0, Stop: 100}},
		{"address bad letter", "5x", Invalid{Input: "5x"}},
		{"address letters", "5pp", Invalid{Input: "5pp"}},

		{"range print", "1,10p", Print{Range: true, Start: 0, Stop: 9}},
		{"range to end", ".,$n", Enumerate{Range: true, Start: 50, Stop: 99}},
		{"range relative", "-2,+2p", Print{Range: true, Start: 48, Stop: 52}},
		{"range reversed", "10,5p", Print{Range: true, Start: 9, Stop: 9}},
		{"range huge relative end", "5,+9223372036854775807p", Print{Range: true, Start: 4, Stop: 99}},
		{"range bad letter", "1,2q", Invalid{Input: "1,2q"}},

		{"print current", "p", Print{Range: true, Start: 50, Stop: 50}},
		{"enumerate current", "n", Enumerate{Range: true, Start: 50, Stop: 50}},
		{"page", "z", Page{Size: DefaultPageSize}},
		{"quit", "q", Quit{}},
		{"back", "b", GoBack{Depth: 1}},
		{"forward", "f", GoForward{Depth: 1}},
		{"history", "h", History{Depth: -1}},
		{"clear", "c", Clear{}},
		{"save bookmarks", "w", SaveBookmarks{}},
		{"list bookmarks", "m", ListBookmarks{}},
		{"unknown letter", "x", Invalid{Input: "x"}},
		{"letter sequence", "pq", Invalid{Input: "pq"}},

		{"follow link", "l 3", FollowLink{ID: 3}},
		{"follow bad link", "l three", Invalid{Input: "l three"}},
		{"page size", "z 10", Page{Size: 10}},
		{"page bad size", "z ten", Page{Size: DefaultPageSize}},
		{"back depth", "b 3", GoBack{Depth: 3}},
		{"back bad depth", "b x", GoBack{Depth: 1}},
		{"forward depth", "f 2", GoForward{Depth: 2}},
		{"forward bad depth", "f x", GoForward{Depth: 1}},
		{"history depth", "h 5", History{Depth: 5}},
		{"history bad depth", "h x", History{Depth: -1}},
		{"add bookmark", "m a", AddBookmark{Key: 'a'}},
		{"add bookmark long key", "m ab", Invalid{Input: "m ab"}},
		{"unknown letter arg", "x 5", Invalid{Input: "x 5"}},

		{"search forwards", "/foo.*bar/", SearchForwards{Pattern: "foo.*bar"}},
		{"search backwards", "?baz?", SearchBackwards{Pattern: "baz"}},
		{"search mixed delimiters", "/foo?", Invalid{Input: "/foo?"}},

		{"go bookmark", "'a", GoBookmark{Key: 'a'}},
		{"go bookmark multibyte", "'é", GoBookmark{Key: 'é'}},

		{"garbage", "!!", Invalid{Input: "!!"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.in, buf)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseGoURL(t *testing.T) {
	buf := fakeBuffer{}
	tests := []struct {
		in   string
		want string
	}{
		{"g gemini://example.com/", "gemini://example.com/"},
		{"g example.com/page.gmi", "gemini://example.com/page.gmi"},
	}
	for _, tt := range tests {
		cmd, ok := Parse(tt.in, buf).(GoURL)
		if !ok {
			t.Fatalf("Parse(%q): expected GoURL, got %#v", tt.in, Parse(tt.in, buf))
		}
		if cmd.URL.String() != tt.want {
			t.Errorf("Parse(%q) URL = %q, want %q", tt.in, cmd.URL, tt.want)
		}
	}

	if _, ok := Parse("g exa%zzmple", buf).(Invalid); !ok {
		t.Error("expected unparseable URL to be invalid")
	}
}

func TestParseEmptyBuffer(t *testing.T) {
	buf := fakeBuffer{}
	if got := Parse("$", buf); got != (JumpToLine{Line: 0}) {
		t.Errorf("expected JumpToLine 0, got %#v", got)
	}
	if got := Parse("%p", buf); got != (Print{Range: true, Start: 0, Stop: 0}) {
		t.Errorf("expected empty whole-buffer print, got %#v", got)
	}
}

func TestParserPageSize(t *testing.T) {
	p := NewParser(40)
	if got := p.Parse("z", fakeBuffer{}); got != (Page{Size: 40}) {
		t.Errorf("expected Page 40, got %#v", got)
	}
	if got := p.Parse("z x", fakeBuffer{}); got != (Page{Size: 40}) {
		t.Errorf("expected fallback Page 40, got %#v", got)
	}
	if got := NewParser(0).Parse("z", fakeBuffer{}); got != (Page{Size: DefaultPageSize}) {
		t.Errorf("expected default page size, got %#v", got)
	}
}
