// Package bookmarks provides the single-character bookmark store.
package bookmarks

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/tliron/commonlog"
)

func log() commonlog.Logger { return commonlog.GetLogger("rei.bookmarks") }

// FileName is the bookmark file kept in the user's home directory.
const FileName = ".reimarks"

var (
	// ErrNoPage is returned when bookmarking with nothing loaded.
	ErrNoPage = errors.New("no page loaded")
	// ErrUnknown is returned for a key with no bookmark.
	ErrUnknown = errors.New("no such bookmark")
)

// Map stores bookmarks keyed by a single character.
type Map struct {
	path  string
	marks map[rune]string
}

// DefaultPath returns ~/.reimarks.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, FileName), nil
}

// New returns an empty map that saves to path.
func New(path string) *Map {
	return &Map{path: path, marks: make(map[rune]string)}
}

// Load reads bookmarks from path. A missing file yields an empty map.
// Malformed records are skipped.
func Load(path string) (*Map, error) {
	m := New(path)

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return m, fmt.Errorf("opening bookmarks: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || utf8.RuneCountInString(fields[0]) != 1 {
			continue
		}
		key, _ := utf8.DecodeRuneInString(fields[0])
		m.marks[key] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return m, fmt.Errorf("reading bookmarks: %w", err)
	}

	log().Debugf("loaded %d bookmarks from %s", len(m.marks), path)
	return m, nil
}

// LoadDefault loads from DefaultPath. Failing to locate the home directory
// or read the file degrades to an empty map, with the error returned for
// reporting.
func LoadDefault() (*Map, error) {
	path, err := DefaultPath()
	if err != nil {
		return New(""), fmt.Errorf("locating bookmarks: %w", err)
	}
	return Load(path)
}

// Path returns the file the map saves to.
func (m *Map) Path() string {
	return m.path
}

// Set stores u under key, replacing any previous bookmark.
func (m *Map) Set(key rune, u string) {
	m.marks[key] = u
}

// Get returns the raw URL stored under key.
func (m *Map) Get(key rune) (string, bool) {
	u, ok := m.marks[key]
	return u, ok
}

// Lookup returns the bookmark under key parsed as an absolute URL.
func (m *Map) Lookup(key rune) (*url.URL, error) {
	raw, ok := m.marks[key]
	if !ok {
		return nil, fmt.Errorf("%w: %c", ErrUnknown, key)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("bookmark %c: %w", key, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("bookmark %c: %q is not an absolute URL", key, raw)
	}
	return u, nil
}

// Keys returns the bookmark keys in ascending order.
func (m *Map) Keys() []rune {
	keys := make([]rune, 0, len(m.marks))
	for k := range m.marks {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of bookmarks.
func (m *Map) Len() int {
	return len(m.marks)
}

// Save writes every bookmark to the map's path as "<char> <url>" records.
func (m *Map) Save() error {
	if m.path == "" {
		return errors.New("no bookmark file")
	}

	var sb strings.Builder
	for _, k := range m.Keys() {
		fmt.Fprintf(&sb, "%c %s\n", k, m.marks[k])
	}
	if err := os.WriteFile(m.path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("writing bookmarks: %w", err)
	}

	log().Infof("saved %d bookmarks to %s", len(m.marks), m.path)
	return nil
}
