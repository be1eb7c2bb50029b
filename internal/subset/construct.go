// Package subset converts an NFA into an equivalent DFA by subset
// construction over the symbolic step cache.
package subset

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"GoDFA/internal/automaton"
	"GoDFA/internal/stepcache"
)

var ErrStateLimitExceeded = errors.New("DFA state limit exceeded during construction")

// Result is a constructed DFA together with the NFA label set behind each of
// its states.
type Result struct {
	DFA *automaton.Automaton

	// Sets[i] is the NFA label set identified by DFA label i.
	Sets []automaton.LabelSet
}

// Convert builds the step cache for nfa and determinizes it.
func Convert(nfa *automaton.Automaton, opts Options) (*Result, error) {
	return Determinize(stepcache.Build(nfa), opts)
}

// Determinize runs subset construction using only the cache's step function.
//
// DFA labels are assigned in discovery order starting at 0 for the seed set.
// Sets are expanded breadth-first, each exactly once, for every alphabet
// symbol in declared order. The empty set becomes an ordinary non-accepting
// trap state looping to itself, so the result is a complete DFA.
func Determinize(cache *stepcache.Cache, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	nfa := cache.Automaton()
	alphabet := nfa.Alphabet()
	nfaAccepting := nfa.Accepting()

	seed := SeedSet(nfa, opts.Seed)

	b := automaton.NewBuilder(alphabet...)
	sets := []automaton.LabelSet{seed}
	setToLabel := map[string]automaton.Label{seed.Key(): 0}
	queue := []automaton.Label{0}

	b.State(0).Initial(0)
	if seed.Intersects(nfaAccepting) {
		b.Accept(0)
	}

	for len(queue) > 0 {
		currLabel := queue[0]
		queue = queue[1:]
		curr := sets[currLabel]

		for _, sym := range alphabet {
			next := cache.StepUnion(curr, sym)
			key := next.Key()

			nextLabel, exists := setToLabel[key]
			if !exists {
				if opts.MaxStates > 0 && len(sets) >= opts.MaxStates {
					return nil, fmt.Errorf("%w: more than %d states", ErrStateLimitExceeded, opts.MaxStates)
				}
				nextLabel = automaton.Label(len(sets))
				setToLabel[key] = nextLabel
				sets = append(sets, next)
				queue = append(queue, nextLabel)
				b.State(nextLabel)
				if next.Intersects(nfaAccepting) {
					b.Accept(nextLabel)
				}
			}
			b.On(currLabel, sym, nextLabel)
		}
	}

	dfa, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("assemble DFA: %w", err)
	}

	logger.Debug("subset construction complete",
		"nfa_states", nfa.Len(),
		"dfa_states", dfa.Len(),
		"alphabet", len(alphabet),
		"seed", opts.Seed.String(),
		"duration", time.Since(start),
	)

	return &Result{DFA: dfa, Sets: sets}, nil
}

// SetOf returns the NFA label set behind a DFA label.
func (r *Result) SetOf(l automaton.Label) (automaton.LabelSet, bool) {
	if l < 0 || int(l) >= len(r.Sets) {
		return automaton.LabelSet{}, false
	}
	return r.Sets[l], true
}
