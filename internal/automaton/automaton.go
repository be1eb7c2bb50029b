package automaton

import (
	"maps"
	"slices"
)

// Label identifies a state within its owning Automaton. Labels are non-negative.
type Label int

// Symbol is a single character of an automaton's alphabet.
type Symbol rune

// Dead is the sink returned by Step when no transition exists.
const Dead Label = -1

// Runner walks a deterministic automaton one symbol at a time.
//
// Properties:
//   - Deterministic: at most one transition per (state, symbol)
//   - Finite: bounded state count
//   - No ε-transitions
type Runner interface {
	// Start returns the initial state.
	Start() Label

	// Step returns the next state for the given symbol.
	// Returns Dead if no transition exists.
	Step(state Label, c Symbol) Label

	// IsAccept returns true if the state is an accepting state.
	IsAccept(state Label) bool

	// CanMatch returns true if any accepting state is reachable from this state.
	// Used to stop a walk early once the verdict can only be a rejection.
	CanMatch(state Label) bool
}

// State is one node of an Automaton.
type State struct {
	Label Label

	// Transitions maps a symbol to its successor labels. A missing entry means
	// the state has no transition on that symbol.
	Transitions map[Symbol]LabelSet

	// Epsilon holds the successors reachable without consuming input.
	Epsilon LabelSet

	// Accepting mirrors membership in the owning automaton's accepting set.
	Accepting bool
}

// Automaton is a labelled-state graph shared by NFAs and DFAs. A DFA is simply
// an Automaton for which IsDeterministic reports true.
//
// An Automaton is immutable once built and safe for concurrent readers.
type Automaton struct {
	states    map[Label]*State
	accepting LabelSet
	alphabet  []Symbol
	symbols   map[Symbol]struct{}
	initial   Label

	// Derived at build time.
	labels        []Label
	live          map[Label]bool
	deterministic bool
}

var _ Runner = (*Automaton)(nil)

// Initial returns the initial state's label.
func (a *Automaton) Initial() Label { return a.initial }

// Alphabet returns the symbols in declared order. The slice is a copy.
func (a *Automaton) Alphabet() []Symbol { return slices.Clone(a.alphabet) }

// HasSymbol reports whether c belongs to the alphabet.
func (a *Automaton) HasSymbol(c Symbol) bool {
	_, ok := a.symbols[c]
	return ok
}

// Accepting returns the accepting-label set.
func (a *Automaton) Accepting() LabelSet { return a.accepting }

// Labels returns every state label in ascending order. The slice is a copy.
func (a *Automaton) Labels() []Label { return slices.Clone(a.labels) }

// Len returns the number of states.
func (a *Automaton) Len() int { return len(a.states) }

// State returns a copy of the state labelled l.
func (a *Automaton) State(l Label) (State, bool) {
	st, ok := a.states[l]
	if !ok {
		return State{}, false
	}
	cp := *st
	cp.Transitions = maps.Clone(st.Transitions)
	return cp, true
}

// Transitions returns the successors of l on c, or the empty set when the
// state has no transition on c. An unknown label also yields the empty set.
func (a *Automaton) Transitions(l Label, c Symbol) LabelSet {
	st, ok := a.states[l]
	if !ok {
		return LabelSet{}
	}
	return st.Transitions[c]
}

// Epsilon returns the epsilon successors of l.
func (a *Automaton) Epsilon(l Label) LabelSet {
	st, ok := a.states[l]
	if !ok {
		return LabelSet{}
	}
	return st.Epsilon
}

// IsAccepting reports whether l is in the accepting set.
func (a *Automaton) IsAccepting(l Label) bool { return a.accepting.Contains(l) }

// IsDeterministic reports whether every state has at most one successor per
// symbol and no epsilon transitions.
func (a *Automaton) IsDeterministic() bool { return a.deterministic }

// Start implements Runner.
func (a *Automaton) Start() Label { return a.initial }

// Step implements Runner. It follows the unique transition of state on c and
// returns Dead when there is none. Step is only meaningful on a deterministic
// automaton: a state with several successors on c also yields Dead.
func (a *Automaton) Step(state Label, c Symbol) Label {
	if state == Dead {
		return Dead
	}
	next := a.Transitions(state, c)
	if next.Len() != 1 {
		return Dead
	}
	return next.At(0)
}

// IsAccept implements Runner.
func (a *Automaton) IsAccept(state Label) bool {
	if state == Dead {
		return false
	}
	return a.IsAccepting(state)
}

// CanMatch implements Runner.
func (a *Automaton) CanMatch(state Label) bool {
	if state == Dead {
		return false
	}
	return a.live[state]
}

// deriveLive marks every state from which an accepting state is reachable,
// walking symbol and epsilon edges backwards from the accepting set.
func (a *Automaton) deriveLive() {
	reverse := make(map[Label][]Label, len(a.states))
	for _, st := range a.states {
		for _, succ := range st.Transitions {
			succ.Each(func(to Label) {
				reverse[to] = append(reverse[to], st.Label)
			})
		}
		st.Epsilon.Each(func(to Label) {
			reverse[to] = append(reverse[to], st.Label)
		})
	}

	live := make(map[Label]bool, len(a.states))
	stack := a.accepting.Labels()
	for _, l := range stack {
		live[l] = true
	}
	for len(stack) > 0 {
		l := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, from := range reverse[l] {
			if !live[from] {
				live[from] = true
				stack = append(stack, from)
			}
		}
	}
	a.live = live
}

func (a *Automaton) deriveDeterministic() {
	a.deterministic = true
	for _, st := range a.states {
		if !st.Epsilon.Empty() {
			a.deterministic = false
			return
		}
		for _, succ := range st.Transitions {
			if succ.Len() > 1 {
				a.deterministic = false
				return
			}
		}
	}
}
