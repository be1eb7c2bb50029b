package stepcache

import (
	"GoDFA/internal/automaton"
)

// phase records whether a traversal path has consumed its one symbol yet.
type phase uint8

const (
	preSymbol phase = iota
	postSymbol
)

type visit struct {
	label automaton.Label
	phase phase
}

// symbolicStep runs a breadth-first traversal from s carrying a phase marker.
//
// Epsilon successors are always enqueued with the phase unchanged. A state
// dequeued before the symbol additionally enqueues its sym-successors in the
// post-symbol phase. A state dequeued after the symbol joins the result. The
// unconditional epsilon rule is what produces the trailing closure.
//
// Visited (label, phase) pairs are never enqueued twice, so epsilon cycles
// terminate.
func symbolicStep(nfa *automaton.Automaton, s automaton.Label, sym automaton.Symbol) automaton.LabelSet {
	start := visit{label: s, phase: preSymbol}
	seen := map[visit]bool{start: true}
	queue := []visit{start}
	var result []automaton.Label

	enqueue := func(v visit) {
		if !seen[v] {
			seen[v] = true
			queue = append(queue, v)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		// Epsilon transitions
		nfa.Epsilon(curr.label).Each(func(next automaton.Label) {
			enqueue(visit{label: next, phase: curr.phase})
		})

		if curr.phase == preSymbol {
			nfa.Transitions(curr.label, sym).Each(func(next automaton.Label) {
				enqueue(visit{label: next, phase: postSymbol})
			})
			continue
		}
		result = append(result, curr.label)
	}

	return automaton.NewLabelSet(result...)
}
