// Package session holds the navigation history and saves it between runs.
package session

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"
)

func log() commonlog.Logger { return commonlog.GetLogger("rei.session") }

// History is the list of visited URLs with a current position.
// Adding while not at the tail discards the forward entries first.
type History struct {
	entries []*url.URL
	pos     int
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Pos returns the index of the current entry.
func (h *History) Pos() int {
	return h.pos
}

// Current returns the entry at the current position, or nil when empty.
func (h *History) Current() *url.URL {
	if len(h.entries) == 0 {
		return nil
	}
	return h.entries[h.pos]
}

// Entries returns the history entries. The slice must not be modified.
func (h *History) Entries() []*url.URL {
	return h.entries
}

// Add appends u after the current position, dropping anything forward of it.
func (h *History) Add(u *url.URL) {
	if len(h.entries) == 0 {
		h.pos = -1
	}
	h.entries = append(h.entries[:h.pos+1], u)
	h.pos = len(h.entries) - 1
}

// Back moves the position depth entries towards the start, stopping at the
// first entry. It returns false without moving when already there.
func (h *History) Back(depth int) (*url.URL, bool) {
	if depth < 1 {
		depth = 1
	}
	if len(h.entries) <= 1 || h.pos == 0 {
		return nil, false
	}
	h.pos = max(h.pos-depth, 0)
	return h.entries[h.pos], true
}

// Forward moves the position depth entries towards the end, stopping at the
// last entry. It returns false without moving when already there.
func (h *History) Forward(depth int) (*url.URL, bool) {
	if depth < 1 {
		depth = 1
	}
	last := len(h.entries) - 1
	if len(h.entries) <= 1 || h.pos == last {
		return nil, false
	}
	if depth >= last-h.pos {
		h.pos = last
	} else {
		h.pos += depth
	}
	return h.entries[h.pos], true
}

// Snapshot is the on-disk form of a History.
type Snapshot struct {
	Entries []string `json:"entries"`
	Pos     int      `json:"pos"`
}

// Snapshot returns the serialisable state of h.
func (h *History) Snapshot() Snapshot {
	s := Snapshot{Pos: h.pos, Entries: make([]string, len(h.entries))}
	for i, u := range h.entries {
		s.Entries[i] = u.String()
	}
	return s
}

// Restore builds a History from a snapshot. Unparseable entries are dropped
// and the position is clamped to the surviving entries.
func Restore(s Snapshot) *History {
	h := &History{}
	for i, raw := range s.Entries {
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() {
			log().Warningf("dropping history entry %q", raw)
			if i < s.Pos {
				s.Pos--
			}
			continue
		}
		h.entries = append(h.entries, u)
	}
	h.pos = max(min(s.Pos, len(h.entries)-1), 0)
	return h
}

// Path returns the session file path.
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "rei", "session.json"), nil
}

// Load reads the history saved at path.
func Load(path string) (*History, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing session %s: %w", path, err)
	}

	return Restore(s), nil
}

// Save writes h to path, creating the directory if needed.
func Save(path string, h *History) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(h.Snapshot(), "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
