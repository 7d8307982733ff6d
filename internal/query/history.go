package query

import (
	"strconv"
	"strings"
	"sync"
)

// Location is one address bar entry.
type Location struct {
	Path  string
	Query string
}

// ListLocation returns the list view location for p.
func ListLocation(p Params) Location {
	return Location{Path: "/", Query: Encode(p)}
}

// DetailLocation returns the detail view location for a resource id.
func DetailLocation(id int) Location {
	return Location{Path: "/character/" + strconv.Itoa(id)}
}

// String renders the location the way it appears in the address bar.
func (l Location) String() string {
	path := l.Path
	if path == "" {
		path = "/"
	}
	if l.Query == "" {
		return path
	}
	return path + "?" + l.Query
}

// ParseLocation splits raw into path and query.
func ParseLocation(raw string) Location {
	raw = strings.TrimSpace(raw)
	path, q, _ := strings.Cut(raw, "?")
	if path == "" {
		path = "/"
	}
	return Location{Path: path, Query: q}
}

// History is the address bar with back/forward navigation. Replace rewrites
// the current entry in place so that canonical query updates do not pile up
// as history; only Push creates a new entry.
type History struct {
	mu      sync.Mutex
	entries []Location
	index   int
}

// NewHistory starts a history at initial.
func NewHistory(initial Location) *History {
	return &History{entries: []Location{initial}}
}

// Current returns the active entry.
func (h *History) Current() Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Push records a navigation and drops any forward entries.
func (h *History) Push(loc Location) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], loc)
	h.index = len(h.entries) - 1
}

// Replace overwrites the active entry.
func (h *History) Replace(loc Location) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.index] = loc
}

// Back moves one entry back. It returns false at the first entry.
func (h *History) Back() (Location, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index == 0 {
		return h.entries[0], false
	}
	h.index--
	return h.entries[h.index], true
}

// Forward moves one entry forward. It returns false at the last entry.
func (h *History) Forward() (Location, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index >= len(h.entries)-1 {
		return h.entries[h.index], false
	}
	h.index++
	return h.entries[h.index], true
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
