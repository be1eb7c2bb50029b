// Package render prints automata and acceptance verdicts.
package render

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"

	"GoDFA/internal/accept"
	"GoDFA/internal/automaton"
)

const (
	cellWidth = 20
	ruleWidth = 93
	sepWidth  = 77
)

// Options configures WriteTable.
type Options struct {
	// Epsilon adds an "L" column listing epsilon successors. Used for NFAs.
	Epsilon bool
}

// WriteTable prints the transition table of a: one row per state in label
// order, one column per symbol in sorted order, "/" for an empty cell.
func WriteTable(w io.Writer, a *automaton.Automaton, opts Options) error {
	bw := bufio.NewWriter(w)

	sigma := a.Alphabet()
	slices.Sort(sigma)

	bw.WriteString("Sigma: \n")
	fmt.Fprintf(bw, "%3s", "")
	for _, c := range sigma {
		fmt.Fprintf(bw, "%*c", cellWidth, rune(c))
	}
	if opts.Epsilon {
		fmt.Fprintf(bw, "%*c", cellWidth, 'L')
	}
	bw.WriteByte('\n')
	writeRule(bw, ruleWidth)

	for _, l := range a.Labels() {
		fmt.Fprintf(bw, "%3d:", l)
		for _, c := range sigma {
			next := a.Transitions(l, c)
			if next.Empty() {
				fmt.Fprintf(bw, "%*c", cellWidth, '/')
			} else {
				fmt.Fprintf(bw, "%*s", cellWidth, next.String())
			}
		}
		if opts.Epsilon {
			fmt.Fprintf(bw, "%*s%s", cellWidth, "", a.Epsilon(l).String())
		}
		bw.WriteByte('\n')
	}

	writeRule(bw, ruleWidth)
	fmt.Fprintf(bw, "Initial State: %d\n", a.Initial())
	fmt.Fprintf(bw, "Accepting State(s): %s\n", a.Accepting().String())

	return bw.Flush()
}

// WriteVerdicts prints True or False for each verdict, in order, separated by
// spaces and terminated by a newline.
func WriteVerdicts(w io.Writer, verdicts []accept.Verdict) error {
	tokens := make([]string, len(verdicts))
	for i, v := range verdicts {
		tokens[i] = token(v.Accepted)
	}
	_, err := io.WriteString(w, strings.Join(tokens, " ")+"\n")
	return err
}

// Report is everything printed for one conversion run.
type Report struct {
	NFA      *automaton.Automaton
	DFA      *automaton.Automaton
	Source   string // name of the strings file
	Verdicts []accept.Verdict
}

// WriteReport prints the NFA table, a separator, the DFA table and the
// verdicts under a header naming the strings file.
func WriteReport(w io.Writer, r Report) error {
	if err := WriteTable(w, r.NFA, Options{Epsilon: true}); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n%s\n\n", strings.Repeat("-", sepWidth)); err != nil {
		return err
	}
	if err := WriteTable(w, r.DFA, Options{}); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Parsing results of strings in %s:\n", r.Source); err != nil {
		return err
	}
	return WriteVerdicts(w, r.Verdicts)
}

func token(accepted bool) string {
	if accepted {
		return "True"
	}
	return "False"
}

func writeRule(bw *bufio.Writer, n int) {
	bw.WriteString(strings.Repeat("-", n))
	bw.WriteByte('\n')
}
