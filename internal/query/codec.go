package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Canonical address bar keys.
const (
	KeyPage      = "page"
	KeyName      = "name"
	KeyStatus    = "status"
	KeyGender    = "gender"
	KeySpecies   = "species"
	KeySortBy    = "sortBy"
	KeySortOrder = "sortOrder"
	KeyFavorites = "favorites"
)

// Decode parses a query string into Params. Missing keys take their default
// and malformed values fall back to the default for that field, so Decode
// never fails. A leading "?" is accepted.
func Decode(raw string) Params {
	p := Defaults()

	raw = strings.TrimPrefix(strings.TrimSpace(raw), "?")
	if raw == "" {
		return p
	}
	// ParseQuery keeps every pair it could parse even when it reports an error.
	values, _ := url.ParseQuery(raw)

	if v := values.Get(KeyPage); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 1 {
			p.Page = n
		}
	}
	p.Name = values.Get(KeyName)
	p.Species = values.Get(KeySpecies)
	if s, ok := ParseStatus(values.Get(KeyStatus)); ok {
		p.Status = s
	}
	if g, ok := ParseGender(values.Get(KeyGender)); ok {
		p.Gender = g
	}
	if f, ok := ParseSortField(values.Get(KeySortBy)); ok {
		p.Sort.By = f
	}
	if o, ok := ParseSortOrder(values.Get(KeySortOrder)); ok {
		p.Sort.Order = o
	}
	switch strings.ToLower(strings.TrimSpace(values.Get(KeyFavorites))) {
	case "true", "1":
		p.Favorites = true
	}
	return p
}

// Encode renders the minimal canonical query string for p: fields equal to
// their default are omitted and keys always appear in the same order.
// The result has no leading "?".
func Encode(p Params) string {
	p = p.Normalize()
	def := Defaults()

	var parts []string
	add := func(key, value string) {
		parts = append(parts, key+"="+url.QueryEscape(value))
	}

	if p.Name != "" {
		add(KeyName, p.Name)
	}
	if p.Status != def.Status {
		add(KeyStatus, string(p.Status))
	}
	if p.Gender != def.Gender {
		add(KeyGender, string(p.Gender))
	}
	if p.Species != "" {
		add(KeySpecies, p.Species)
	}
	if p.Page != def.Page {
		add(KeyPage, strconv.Itoa(p.Page))
	}
	if p.Sort.By != def.Sort.By {
		add(KeySortBy, string(p.Sort.By))
	}
	if p.Sort.Order != def.Sort.Order {
		add(KeySortOrder, string(p.Sort.Order))
	}
	if p.Favorites {
		add(KeyFavorites, "true")
	}
	return strings.Join(parts, "&")
}

// Canonical decodes and re-encodes raw.
func Canonical(raw string) string {
	return Encode(Decode(raw))
}

// Equivalent reports whether a and b encode to the same query string.
func Equivalent(a, b Params) bool {
	return Encode(a) == Encode(b)
}
