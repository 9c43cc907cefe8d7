package command

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DefaultPageSize is the number of lines z prints without an argument.
const DefaultPageSize = 24

const geminiPrefix = "gemini://"

// Grammar, compiled once. Tried in this order.
var (
	addressRE     = regexp.MustCompile(`^([+-]+[0-9]+|[0-9]+|\$)$`)
	addressCmdRE  = regexp.MustCompile(`^(%|[+-]+[0-9]+|[0-9]+)([a-z]+)$`)
	rangeCmdRE    = regexp.MustCompile(`^([+-]+[0-9]+|[0-9]+|\$|\.),([+-]+[0-9]+|[0-9]+|\$|\.)([a-z]+)$`)
	letterRE      = regexp.MustCompile(`^([a-z$]+)$`)
	letterArgRE   = regexp.MustCompile(`^([a-z])\s+(\S+)$`)
	searchRE      = regexp.MustCompile(`^(?:/(.*)/|\?(.*)\?)$`)
	bookmarkJmpRE = regexp.MustCompile(`^'(\S)$`)
)

// Addressable is the buffer state addresses are resolved against.
type Addressable interface {
	Len() int
	Cursor() int
}

// Parser turns input lines into commands.
type Parser struct {
	pageSize int
}

// NewParser returns a parser whose bare z pages pageSize lines.
// A non-positive pageSize selects DefaultPageSize.
func NewParser(pageSize int) *Parser {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Parser{pageSize: pageSize}
}

// Parse parses input with the default page size.
func Parse(input string, buf Addressable) Command {
	return NewParser(DefaultPageSize).Parse(input, buf)
}

// Parse converts one line of input into a Command. Input the grammar does
// not accept yields Invalid; Parse never fails otherwise.
func (p *Parser) Parse(input string, buf Addressable) Command {
	in := strings.TrimSpace(input)
	length, cursor := buf.Len(), buf.Cursor()

	if in == "" {
		return Empty{}
	}

	if m := addressRE.FindStringSubmatch(in); m != nil {
		return JumpToLine{Line: Resolve(m[1], length, cursor)}
	}

	if m := addressCmdRE.FindStringSubmatch(in); m != nil {
		start, stop := 0, length
		if m[1] != "%" {
			start = Resolve(m[1], length, cursor)
			stop = start
		}
		return printCommand(m[2], start, stop, in)
	}

	if m := rangeCmdRE.FindStringSubmatch(in); m != nil {
		start := Resolve(m[1], length, cursor)
		stop := Resolve(m[2], length, cursor)
		if stop < start {
			stop = start
		}
		return printCommand(m[3], start, stop, in)
	}

	if m := letterRE.FindStringSubmatch(in); m != nil {
		switch m[1] {
		case "p":
			return Print{Range: true, Start: cursor, Stop: cursor}
		case "n":
			return Enumerate{Range: true, Start: cursor, Stop: cursor}
		case "z":
			return Page{Size: p.pageSize}
		case "q":
			return Quit{}
		case "$":
			return JumpToLine{Line: length}
		case "b":
			return GoBack{Depth: 1}
		case "f":
			return GoForward{Depth: 1}
		case "h":
			return History{Depth: -1}
		case "c":
			return Clear{}
		case "w":
			return SaveBookmarks{}
		case "m":
			return ListBookmarks{}
		}
		return Invalid{Input: in}
	}

	if m := letterArgRE.FindStringSubmatch(in); m != nil {
		return p.parseWithArg(m[1], m[2], in)
	}

	if m := searchRE.FindStringSubmatch(in); m != nil {
		if strings.HasPrefix(in, "/") {
			return SearchForwards{Pattern: m[1]}
		}
		return SearchBackwards{Pattern: m[2]}
	}

	if m := bookmarkJmpRE.FindStringSubmatch(in); m != nil {
		key, _ := utf8.DecodeRuneInString(m[1])
		return GoBookmark{Key: key}
	}

	return Invalid{Input: in}
}

func (p *Parser) parseWithArg(letter, arg, in string) Command {
	switch letter {
	case "g":
		u, ok := parseGoURL(arg)
		if !ok {
			return Invalid{Input: in}
		}
		return GoURL{URL: u}
	case "l":
		id, ok := parseCount(arg)
		if !ok {
			return Invalid{Input: in}
		}
		return FollowLink{ID: id}
	case "z":
		size, ok := parseCount(arg)
		if !ok {
			size = p.pageSize
		}
		return Page{Size: size}
	case "b":
		depth, ok := parseCount(arg)
		if !ok {
			depth = 1
		}
		return GoBack{Depth: depth}
	case "f":
		depth, ok := parseCount(arg)
		if !ok {
			depth = 1
		}
		return GoForward{Depth: depth}
	case "h":
		depth, err := strconv.Atoi(arg)
		if err != nil {
			depth = -1
		}
		return History{Depth: depth}
	case "m":
		if utf8.RuneCountInString(arg) != 1 {
			return Invalid{Input: in}
		}
		key, _ := utf8.DecodeRuneInString(arg)
		return AddBookmark{Key: key}
	}
	return Invalid{Input: in}
}

func printCommand(letter string, start, stop int, in string) Command {
	switch letter {
	case "p":
		return Print{Range: true, Start: start, Stop: stop}
	case "n":
		return Enumerate{Range: true, Start: start, Stop: stop}
	}
	return Invalid{Input: in}
}

// parseGoURL prefixes gemini:// onto targets that lack it.
func parseGoURL(arg string) (*url.URL, bool) {
	if !strings.HasPrefix(arg, geminiPrefix) {
		arg = geminiPrefix + arg
	}
	u, err := url.Parse(arg)
	if err != nil {
		return nil, false
	}
	return u, true
}

// Resolve converts an address token to a 0-based line index:
//
//	$   last line
//	.   current line
//	+N  N lines after the cursor, stopping at the last line
//	-N  N lines before the cursor, stopping at the first line
//	N   line N, 1-based
//
// Anything else resolves to the cursor.
func Resolve(token string, length, cursor int) int {
	if length < 1 {
		length = 1
	}
	switch {
	case token == "$":
		return length - 1
	case token == ".":
		return cursor
	case strings.HasPrefix(token, "+"):
		n, ok := parseCount(token[1:])
		if !ok {
			return cursor
		}
		if n >= length-1-cursor {
			return length - 1
		}
		return cursor + n
	case strings.HasPrefix(token, "-"):
		n, ok := parseCount(token[1:])
		if !ok {
			return cursor
		}
		return max(cursor-n, 0)
	}
	n, ok := parseCount(token)
	if !ok {
		return cursor
	}
	return n - 1
}

// parseCount parses an unsigned decimal that fits in an int.
func parseCount(s string) (int, bool) {
	n, err := strconv.ParseUint(s, 10, strconv.IntSize-1)
	if err != nil {
		return 0, false
	}
	return int(n), true
}
