package results

import "github.com/five82/portal/internal/catalog"

// PageSize matches the remote API's page size.
const PageSize = 20

// Paginate slices list into the requested 1-based page and fills Info the
// way the remote API would. Pages past the end are empty. Next and Prev stay
// nil; callers derive navigation from Pages.
func Paginate(list []catalog.Resource, page, size int) catalog.Page {
	if size <= 0 {
		size = PageSize
	}
	if page < 1 {
		page = 1
	}
	total := len(list)
	pages := (total + size - 1) / size

	out := catalog.Page{
		Info:    catalog.Info{Count: total, Pages: pages},
		Results: []catalog.Resource{},
	}
	start := (page - 1) * size
	if start >= total {
		return out
	}
	end := min(start+size, total)
	for _, r := range list[start:end] {
		out.Results = append(out.Results, r.Clone())
	}
	return out
}

// Ellipsis marks a gap in a Window.
const Ellipsis = 0

// Window returns the page numbers a pager shows around current: at most five
// numbers, with the first and last page always present and Ellipsis where
// pages are skipped. It returns nil when there is at most one page.
func Window(current, total int) []int {
	if total <= 1 {
		return nil
	}
	current = max(1, min(current, total))

	const maxShown = 5
	if total <= maxShown {
		out := make([]int, 0, total)
		for i := 1; i <= total; i++ {
			out = append(out, i)
		}
		return out
	}
	switch {
	case current <= 3:
		return []int{1, 2, 3, 4, Ellipsis, total}
	case current >= total-2:
		return []int{1, Ellipsis, total - 3, total - 2, total - 1, total}
	default:
		return []int{1, Ellipsis, current - 1, current, current + 1, Ellipsis, total}
	}
}
