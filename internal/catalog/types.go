package catalog

import (
	"strings"
	"time"
)

// Place is an origin or current location reference.
type Place struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Resource mirrors a character record of the catalog API.
type Resource struct {
	ID       int      `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Status   string   `json:"status" yaml:"status"`
	Species  string   `json:"species" yaml:"species"`
	Type     string   `json:"type" yaml:"type"`
	Gender   string   `json:"gender" yaml:"gender"`
	Origin   Place    `json:"origin" yaml:"origin"`
	Location Place    `json:"location" yaml:"location"`
	Image    string   `json:"image" yaml:"image"`
	Episode  []string `json:"episode" yaml:"episode"`
	URL      string   `json:"url" yaml:"url"`
	Created  string   `json:"created" yaml:"created"`
}

// Clone returns a copy that shares no slices with r.
func (r Resource) Clone() Resource {
	if r.Episode != nil {
		r.Episode = append([]string(nil), r.Episode...)
	}
	return r
}

// ParsedCreated returns the creation timestamp, or the zero time when it is
// missing or malformed.
func (r Resource) ParsedCreated() time.Time {
	value := strings.TrimSpace(r.Created)
	if value == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts
	}
	return time.Time{}
}

// Info is the pagination envelope of a list response.
type Info struct {
	Count int     `json:"count" yaml:"count"`
	Pages int     `json:"pages" yaml:"pages"`
	Next  *string `json:"next" yaml:"next"`
	Prev  *string `json:"prev" yaml:"prev"`
}

// Page is one page of list results.
type Page struct {
	Info    Info       `json:"info" yaml:"info"`
	Results []Resource `json:"results" yaml:"results"`
}

// EmptyPage is what the list endpoint's 404 means: nothing matched.
func EmptyPage() Page {
	return Page{Results: []Resource{}}
}

// Clone returns a deep copy of p.
func (p Page) Clone() Page {
	out := Page{Info: p.Info}
	if p.Info.Next != nil {
		next := *p.Info.Next
		out.Info.Next = &next
	}
	if p.Info.Prev != nil {
		prev := *p.Info.Prev
		out.Info.Prev = &prev
	}
	out.Results = make([]Resource, len(p.Results))
	for i, r := range p.Results {
		out.Results[i] = r.Clone()
	}
	return out
}

// Filter holds the server-side list filters. Empty fields are not sent.
type Filter struct {
	Name    string
	Status  string
	Gender  string
	Species string
}

// IsZero reports whether no filter is set.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Name) == "" &&
		strings.TrimSpace(f.Status) == "" &&
		strings.TrimSpace(f.Gender) == "" &&
		strings.TrimSpace(f.Species) == ""
}
