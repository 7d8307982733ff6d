package results

import (
	"strings"

	"github.com/five82/portal/internal/catalog"
)

// FilterByFavorites keeps the records whose id is in set, in their original
// order.
func FilterByFavorites(list []catalog.Resource, set map[int]bool) []catalog.Resource {
	out := make([]catalog.Resource, 0, len(list))
	for _, r := range list {
		if set[r.ID] {
			out = append(out, r)
		}
	}
	return out
}

// Match applies the server-side filters locally. Name and species match as
// case-insensitive substrings, status and gender as case-insensitive
// equality. Empty filter fields match everything.
func Match(list []catalog.Resource, f catalog.Filter) []catalog.Resource {
	name := strings.ToLower(strings.TrimSpace(f.Name))
	species := strings.ToLower(strings.TrimSpace(f.Species))
	status := strings.TrimSpace(f.Status)
	gender := strings.TrimSpace(f.Gender)

	out := make([]catalog.Resource, 0, len(list))
	for _, r := range list {
		if name != "" && !strings.Contains(strings.ToLower(r.Name), name) {
			continue
		}
		if species != "" && !strings.Contains(strings.ToLower(r.Species), species) {
			continue
		}
		if status != "" && !strings.EqualFold(r.Status, status) {
			continue
		}
		if gender != "" && !strings.EqualFold(r.Gender, gender) {
			continue
		}
		out = append(out, r)
	}
	return out
}
