// Package stepcache precomputes, for every NFA state and alphabet symbol, the
// set of states reachable by taking the epsilon-closure, consuming the symbol,
// and taking the epsilon-closure again.
//
// Because move and epsilon-closure both distribute over set union, the step of
// any set of states is the union of the steps of its members. The cache is
// therefore computed once per state and reused for every subset the subset
// construction later encounters.
package stepcache

import (
	"GoDFA/internal/automaton"
)

// Cache holds step(s, c) for every state s and symbol c of one NFA.
// It is immutable once built and safe for concurrent readers.
type Cache struct {
	nfa   *automaton.Automaton
	steps map[automaton.Label]map[automaton.Symbol]automaton.LabelSet
}

// Build computes the cache for nfa. Each (state, symbol) pair is computed
// independently with its own traversal state.
func Build(nfa *automaton.Automaton) *Cache {
	alphabet := nfa.Alphabet()
	labels := nfa.Labels()
	c := &Cache{
		nfa:   nfa,
		steps: make(map[automaton.Label]map[automaton.Symbol]automaton.LabelSet, len(labels)),
	}
	for _, l := range labels {
		bySymbol := make(map[automaton.Symbol]automaton.LabelSet, len(alphabet))
		for _, sym := range alphabet {
			bySymbol[sym] = symbolicStep(nfa, l, sym)
		}
		c.steps[l] = bySymbol
	}
	return c
}

// Automaton returns the NFA the cache was derived from.
func (c *Cache) Automaton() *automaton.Automaton { return c.nfa }

// Step returns epsilon-closure(move(epsilon-closure({s}), sym)).
// A symbol outside the alphabet or an unknown state yields the empty set.
func (c *Cache) Step(s automaton.Label, sym automaton.Symbol) automaton.LabelSet {
	return c.steps[s][sym]
}

// StepUnion returns the step of a whole set: the union of Step(s, sym) over
// every s in set.
func (c *Cache) StepUnion(set automaton.LabelSet, sym automaton.Symbol) automaton.LabelSet {
	parts := make([]automaton.LabelSet, 0, set.Len())
	set.Each(func(s automaton.Label) {
		if step := c.Step(s, sym); !step.Empty() {
			parts = append(parts, step)
		}
	})
	return automaton.UnionAll(parts...)
}
