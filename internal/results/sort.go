// Package results post-processes fetched records on the client: favorites
// filtering, local matching, sorting and pagination. Every function is pure
// and leaves its input untouched.
package results

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/five82/portal/internal/catalog"
	"github.com/five82/portal/internal/query"
)

// Sort returns a stably sorted copy of list. Names and species compare with
// English collation: letters first, then accents, then case with lowercase
// ahead. Ids compare numerically.
// Descending order negates the comparator rather than reversing the result,
// so equal keys keep their original relative order in both directions.
func Sort(list []catalog.Resource, by query.SortField, order query.SortOrder) []catalog.Resource {
	out := slices.Clone(list)
	if out == nil {
		out = []catalog.Resource{}
	}

	compare := comparator(by)
	if order == query.Desc {
		asc := compare
		compare = func(a, b catalog.Resource) int { return -asc(a, b) }
	}
	slices.SortStableFunc(out, compare)
	return out
}

func comparator(by query.SortField) func(a, b catalog.Resource) int {
	switch by {
	case query.SortByName:
		c := collate.New(language.English)
		return func(a, b catalog.Resource) int { return c.CompareString(a.Name, b.Name) }
	case query.SortBySpecies:
		c := collate.New(language.English)
		return func(a, b catalog.Resource) int { return c.CompareString(a.Species, b.Species) }
	default:
		return func(a, b catalog.Resource) int { return cmp.Compare(a.ID, b.ID) }
	}
}
