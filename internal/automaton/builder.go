package automaton

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Builder assembles an Automaton. Problems are collected as calls are made and
// reported together by Build, which never returns a partially built automaton.
type Builder struct {
	alphabet  []Symbol
	symbols   map[Symbol]struct{}
	states    map[Label]*State
	edges     []edge
	accepting []Label
	initial   *Label
	errs      []error
}

type edge struct {
	from    Label
	sym     Symbol
	epsilon bool
	to      []Label
}

// NewBuilder starts an automaton over the given alphabet, in declared order.
func NewBuilder(alphabet ...Symbol) *Builder {
	b := &Builder{
		alphabet: make([]Symbol, 0, len(alphabet)),
		symbols:  make(map[Symbol]struct{}, len(alphabet)),
		states:   make(map[Label]*State),
	}
	for _, c := range alphabet {
		if _, ok := b.symbols[c]; ok {
			b.errs = append(b.errs, fmt.Errorf("%w: %q", ErrDuplicateSymbol, c))
			continue
		}
		b.symbols[c] = struct{}{}
		b.alphabet = append(b.alphabet, c)
	}
	return b
}

// State declares a state with no transitions. Declaring a label that already
// exists is a no-op.
func (b *Builder) State(labels ...Label) *Builder {
	for _, l := range labels {
		if l < 0 {
			b.errs = append(b.errs, fmt.Errorf("%w: %d", ErrNegativeLabel, l))
			continue
		}
		if _, ok := b.states[l]; !ok {
			b.states[l] = &State{Label: l, Transitions: make(map[Symbol]LabelSet)}
		}
	}
	return b
}

// AddState inserts a fully described state keyed by its label. Inserting a
// label twice is an error. An accepting state joins the accepting set.
func (b *Builder) AddState(st State) *Builder {
	if st.Label < 0 {
		b.errs = append(b.errs, fmt.Errorf("%w: %d", ErrNegativeLabel, st.Label))
		return b
	}
	if _, ok := b.states[st.Label]; ok {
		b.errs = append(b.errs, fmt.Errorf("%w: %d", ErrDuplicateState, st.Label))
		return b
	}
	cp := st
	cp.Transitions = make(map[Symbol]LabelSet, len(st.Transitions))
	for c, succ := range st.Transitions {
		if !succ.Empty() {
			cp.Transitions[c] = succ
		}
	}
	b.states[st.Label] = &cp
	if st.Accepting {
		b.accepting = append(b.accepting, st.Label)
	}
	return b
}

// On adds transitions from one state to the given targets on symbol c.
// Repeated calls for the same state and symbol accumulate.
func (b *Builder) On(from Label, c Symbol, to ...Label) *Builder {
	b.edges = append(b.edges, edge{from: from, sym: c, to: to})
	return b
}

// Epsilon adds epsilon transitions from one state to the given targets.
func (b *Builder) Epsilon(from Label, to ...Label) *Builder {
	b.edges = append(b.edges, edge{from: from, epsilon: true, to: to})
	return b
}

// Accept marks labels as accepting.
func (b *Builder) Accept(labels ...Label) *Builder {
	b.accepting = append(b.accepting, labels...)
	return b
}

// Initial designates the initial state.
func (b *Builder) Initial(l Label) *Builder {
	b.initial = &l
	return b
}

// Build validates the description and returns the immutable Automaton.
func (b *Builder) Build() (*Automaton, error) {
	errs := slices.Clone(b.errs)

	states := make(map[Label]*State, len(b.states))
	for l, st := range b.states {
		cp := *st
		cp.Transitions = maps.Clone(st.Transitions)
		if cp.Transitions == nil {
			cp.Transitions = make(map[Symbol]LabelSet)
		}
		cp.Accepting = false
		states[l] = &cp
	}

	// Validate: initial exists
	if b.initial == nil {
		errs = append(errs, ErrNoInitial)
	} else if _, ok := states[*b.initial]; !ok {
		errs = append(errs, fmt.Errorf("%w: initial state %d", ErrUnknownState, *b.initial))
	}

	for _, e := range b.edges {
		st, ok := states[e.from]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: transition from state %d", ErrUnknownState, e.from))
			continue
		}
		if e.epsilon {
			st.Epsilon = st.Epsilon.Union(NewLabelSet(e.to...))
			continue
		}
		if len(e.to) == 0 {
			continue
		}
		st.Transitions[e.sym] = st.Transitions[e.sym].Union(NewLabelSet(e.to...))
	}

	labels := make([]Label, 0, len(states))
	for l := range states {
		labels = append(labels, l)
	}
	slices.Sort(labels)

	// Validate: all transitions reference defined states and symbols
	for _, l := range labels {
		st := states[l]
		syms := make([]Symbol, 0, len(st.Transitions))
		for c := range st.Transitions {
			syms = append(syms, c)
		}
		slices.Sort(syms)
		for _, c := range syms {
			if _, ok := b.symbols[c]; !ok {
				errs = append(errs, fmt.Errorf("%w: %q on state %d", ErrUnknownSymbol, c, l))
			}
			st.Transitions[c].Each(func(to Label) {
				if _, ok := states[to]; !ok {
					errs = append(errs, fmt.Errorf("%w: %d --%c--> %d", ErrDanglingTransition, l, c, to))
				}
			})
		}
		st.Epsilon.Each(func(to Label) {
			if _, ok := states[to]; !ok {
				errs = append(errs, fmt.Errorf("%w: %d --ε--> %d", ErrDanglingTransition, l, to))
			}
		})
	}

	accepting := NewLabelSet(b.accepting...)
	accepting.Each(func(l Label) {
		st, ok := states[l]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %d", ErrUnknownAccepting, l))
			return
		}
		st.Accepting = true
	})

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	a := &Automaton{
		states:    states,
		accepting: accepting,
		alphabet:  slices.Clone(b.alphabet),
		symbols:   maps.Clone(b.symbols),
		initial:   *b.initial,
		labels:    labels,
	}
	a.deriveLive()
	a.deriveDeterministic()
	return a, nil
}
