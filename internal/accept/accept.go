// Package accept decides membership of input strings.
package accept

import (
	"GoDFA/internal/automaton"
)

// Accepts walks dfa from its initial state along input and reports whether
// the state reached after the last symbol is accepting.
//
// A symbol outside the alphabet or a missing transition rejects immediately.
// Once the walk enters a state from which no accepting state is reachable the
// verdict is already a rejection and the rest of the input is not read.
func Accepts(dfa *automaton.Automaton, input string) bool {
	return Run(dfa, dfa.HasSymbol, input)
}

// Run walks any Runner over input. inAlphabet gates every symbol before it is
// stepped; a nil inAlphabet admits all symbols.
func Run(r automaton.Runner, inAlphabet func(automaton.Symbol) bool, input string) bool {
	state := r.Start()
	if !r.CanMatch(state) {
		return false
	}
	for _, ch := range input {
		c := automaton.Symbol(ch)
		if inAlphabet != nil && !inAlphabet(c) {
			return false
		}
		state = r.Step(state, c)
		if state == automaton.Dead || !r.CanMatch(state) {
			return false
		}
	}
	return r.IsAccept(state)
}

// Simulate decides membership directly on an NFA by tracking the set of
// states reachable through epsilon and symbol edges. The initial set is the
// epsilon-closure of the initial label.
func Simulate(nfa *automaton.Automaton, input string) bool {
	return SimulateFrom(nfa, automaton.EpsilonClosure(nfa, automaton.NewLabelSet(nfa.Initial())), input)
}

// SimulateFrom is Simulate starting from an arbitrary set of states. The
// start set is closed under epsilon before each symbol is consumed but not
// before the final acceptance check, so an unclosed start set only matters
// for the empty input.
func SimulateFrom(nfa *automaton.Automaton, start automaton.LabelSet, input string) bool {
	current := start
	for _, ch := range input {
		c := automaton.Symbol(ch)
		if !nfa.HasSymbol(c) {
			return false
		}
		current = automaton.EpsilonClosure(nfa, automaton.Move(nfa, automaton.EpsilonClosure(nfa, current), c))
		if current.Empty() {
			return false
		}
	}
	return current.Intersects(nfa.Accepting())
}
