package keymap

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Search returns the bindings whose name, description or combo text
// fuzzily contains query, best matches first. An empty query returns
// every binding.
func (r *Registry) Search(query string) []Binding {
	bindings := r.Bindings()
	if query == "" {
		return bindings
	}

	type hit struct {
		binding  Binding
		distance int
	}

	hits := make([]hit, 0)
	for _, b := range bindings {
		best := -1
		for _, target := range searchTargets(b) {
			d := fuzzy.RankMatchNormalizedFold(query, target)
			if d >= 0 && (best < 0 || d < best) {
				best = d
			}
		}
		if best >= 0 {
			hits = append(hits, hit{binding: b, distance: best})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].distance < hits[j].distance
	})

	out := make([]Binding, len(hits))
	for i, h := range hits {
		out[i] = h.binding
	}
	return out
}

func searchTargets(b Binding) []string {
	targets := []string{b.Name}
	if b.Description != "" {
		targets = append(targets, b.Description)
	}
	return append(targets, b.ComboStrings()...)
}
