package detail

import (
	"path"
	"strconv"
	"strings"

	"github.com/five82/portal/internal/catalog"
)

// EpisodeNumbers returns the number at the end of each episode URL, skipping
// URLs that do not end in one.
func EpisodeNumbers(r catalog.Resource) []int {
	out := make([]int, 0, len(r.Episode))
	for _, u := range r.Episode {
		if n, ok := episodeNumber(u); ok {
			out = append(out, n)
		}
	}
	return out
}

// FirstSeen returns the episode number of the first episode URL.
func FirstSeen(r catalog.Resource) (int, bool) {
	if len(r.Episode) == 0 {
		return 0, false
	}
	return episodeNumber(r.Episode[0])
}

func episodeNumber(u string) (int, bool) {
	n, err := strconv.Atoi(path.Base(strings.TrimRight(strings.TrimSpace(u), "/")))
	if err != nil {
		return 0, false
	}
	return n, true
}
