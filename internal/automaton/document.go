package automaton

import (
	"fmt"
	"unicode/utf8"
)

// Document is the JSON form of an Automaton. Labels and symbols are emitted in
// ascending order so equal automata encode to identical bytes.
type Document struct {
	Alphabet  []string        `json:"alphabet"`
	Initial   Label           `json:"initial"`
	Accepting []Label         `json:"accepting"`
	States    []StateDocument `json:"states"`
}

// StateDocument is the JSON form of a State.
type StateDocument struct {
	Label       Label              `json:"label"`
	Transitions map[string][]Label `json:"transitions,omitempty"`
	Epsilon     []Label            `json:"epsilon,omitempty"`
}

// Document returns the JSON form of the automaton.
func (a *Automaton) Document() Document {
	doc := Document{
		Alphabet:  make([]string, len(a.alphabet)),
		Initial:   a.initial,
		Accepting: a.accepting.Labels(),
		States:    make([]StateDocument, 0, len(a.labels)),
	}
	if doc.Accepting == nil {
		doc.Accepting = []Label{}
	}
	for i, c := range a.alphabet {
		doc.Alphabet[i] = string(rune(c))
	}
	for _, l := range a.labels {
		st := a.states[l]
		sd := StateDocument{Label: l}
		if len(st.Transitions) > 0 {
			sd.Transitions = make(map[string][]Label, len(st.Transitions))
			for c, succ := range st.Transitions {
				sd.Transitions[string(rune(c))] = succ.Labels()
			}
		}
		if !st.Epsilon.Empty() {
			sd.Epsilon = st.Epsilon.Labels()
		}
		doc.States = append(doc.States, sd)
	}
	return doc
}

// FromDocument rebuilds an Automaton, applying the same validation as Build.
func FromDocument(doc Document) (*Automaton, error) {
	alphabet := make([]Symbol, 0, len(doc.Alphabet))
	for _, s := range doc.Alphabet {
		c, err := parseSymbol(s)
		if err != nil {
			return nil, err
		}
		alphabet = append(alphabet, c)
	}

	b := NewBuilder(alphabet...)
	seen := make(map[Label]bool, len(doc.States))
	for _, sd := range doc.States {
		if seen[sd.Label] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateState, sd.Label)
		}
		seen[sd.Label] = true
		b.State(sd.Label)
	}
	for _, sd := range doc.States {
		for s, to := range sd.Transitions {
			c, err := parseSymbol(s)
			if err != nil {
				return nil, err
			}
			b.On(sd.Label, c, to...)
		}
		if len(sd.Epsilon) > 0 {
			b.Epsilon(sd.Label, sd.Epsilon...)
		}
	}
	return b.Accept(doc.Accepting...).Initial(doc.Initial).Build()
}

func parseSymbol(s string) (Symbol, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSymbol, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return Symbol(r), nil
}
