// Package selector picks one search candidate, steering away from ids that
// were applied recently.
package selector

import (
	"math/rand/v2"

	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/src/wallhaven"
)

// Selector chooses uniformly at random among fresh candidates, falling back
// to the whole list when every candidate is recent.
type Selector struct {
	intN func(n int) int
}

// New returns a Selector drawing from the global random source.
func New() *Selector {
	return &Selector{intN: rand.IntN}
}

// NewWithRand returns a Selector drawing from r, for reproducible picks.
func NewWithRand(r *rand.Rand) *Selector {
	return &Selector{intN: r.IntN}
}

// Select returns the chosen candidate, or false when there are none.
func (s *Selector) Select(candidates []wallhaven.Wallpaper, recent map[string]struct{}) (wallhaven.Wallpaper, bool) {
	if len(candidates) == 0 {
		return wallhaven.Wallpaper{}, false
	}

	fresh := make([]wallhaven.Wallpaper, 0, len(candidates))
	for _, c := range candidates {
		if _, seen := recent[c.ID]; !seen {
			fresh = append(fresh, c)
		}
	}

	pool := fresh
	if len(pool) == 0 {
		pool = candidates
	}
	return pool[s.intN(len(pool))], true
}
