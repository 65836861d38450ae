package search

import (
	"sync/atomic"

	"github.com/mindx-labs/coursecms/internal/catalog"
)

// Runner tracks query generations so a slow or superseded query can never
// overwrite the results of a newer one. Each keystroke calls Begin; the
// computation then delivers through Finish, which rejects stale generations.
type Runner struct {
	gen atomic.Uint64
}

// Begin registers a new query generation, invalidating all earlier ones.
func (r *Runner) Begin() uint64 {
	return r.gen.Add(1)
}

// Finish runs the query and returns its results if gen is still the latest
// generation. Stale generations return (nil, false) and their work is thrown
// away.
func (r *Runner) Finish(gen uint64, tree catalog.Tree, query string) ([]Result, bool) {
	results := Search(tree, query)
	if r.gen.Load() != gen {
		return nil, false
	}
	return results, true
}

// Latest reports whether gen is the most recent generation.
func (r *Runner) Latest(gen uint64) bool {
	return r.gen.Load() == gen
}
