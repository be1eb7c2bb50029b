package render

import (
	"bytes"
	"slices"
	"strconv"
	"strings"

	"GoDFA/internal/automaton"
)

const epsilonLabel = "ε"

// graphEdge is every symbol leading from one state to another, merged into a
// single labelled edge.
type graphEdge struct {
	from, to automaton.Label
	labels   []string
}

// edges returns the merged edges of a ordered by source then target. Labels
// keep alphabet order with epsilon last.
func edges(a *automaton.Automaton) []graphEdge {
	type pair struct{ from, to automaton.Label }
	merged := make(map[pair]*graphEdge)
	var order []pair

	add := func(from, to automaton.Label, label string) {
		p := pair{from, to}
		e, ok := merged[p]
		if !ok {
			e = &graphEdge{from: from, to: to}
			merged[p] = e
			order = append(order, p)
		}
		e.labels = append(e.labels, label)
	}

	for _, l := range a.Labels() {
		for _, c := range a.Alphabet() {
			a.Transitions(l, c).Each(func(to automaton.Label) {
				add(l, to, string(rune(c)))
			})
		}
		a.Epsilon(l).Each(func(to automaton.Label) {
			add(l, to, epsilonLabel)
		})
	}

	slices.SortFunc(order, func(x, y pair) int {
		if x.from != y.from {
			return int(x.from) - int(y.from)
		}
		return int(x.to) - int(y.to)
	})
	out := make([]graphEdge, len(order))
	for i, p := range order {
		out[i] = *merged[p]
	}
	return out
}

// ToDOT renders a as a Graphviz digraph. Accepting states are double circles
// and the initial state is pointed to by an unlabelled point node.
func ToDOT(a *automaton.Automaton) string {
	var buf bytes.Buffer
	buf.WriteString("digraph automaton {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=circle];\n")
	buf.WriteString("  __start [shape=point,label=\"\"];\n")

	for _, l := range a.Labels() {
		if a.IsAccepting(l) {
			buf.WriteString("  \"" + strconv.Itoa(int(l)) + "\" [shape=doublecircle];\n")
		}
	}
	buf.WriteString("  __start -> \"" + strconv.Itoa(int(a.Initial())) + "\";\n")

	for _, e := range edges(a) {
		buf.WriteString("  \"")
		buf.WriteString(strconv.Itoa(int(e.from)))
		buf.WriteString("\" -> \"")
		buf.WriteString(strconv.Itoa(int(e.to)))
		buf.WriteString("\" [label=\"")
		buf.WriteString(dotEscape(strings.Join(e.labels, ",")))
		buf.WriteString("\"];\n")
	}
	buf.WriteString("}\n")
	return buf.String()
}

// ToMermaid renders a as a Mermaid stateDiagram-v2. States are named sN since
// Mermaid identifiers cannot start with a digit.
func ToMermaid(a *automaton.Automaton) string {
	var buf bytes.Buffer
	buf.WriteString("stateDiagram-v2\n")
	buf.WriteString("[*] --> ")
	buf.WriteString(mermaidID(a.Initial()))
	buf.WriteByte('\n')

	// declare every state so isolated ones stay visible
	for _, l := range a.Labels() {
		buf.WriteString("state \"")
		buf.WriteString(strconv.Itoa(int(l)))
		buf.WriteString("\" as ")
		buf.WriteString(mermaidID(l))
		buf.WriteByte('\n')
	}

	for _, e := range edges(a) {
		buf.WriteString(mermaidID(e.from))
		buf.WriteString(" --> ")
		buf.WriteString(mermaidID(e.to))
		buf.WriteString(" : ")
		buf.WriteString(mermaidEscape(strings.Join(e.labels, ",")))
		buf.WriteByte('\n')
	}

	for _, l := range a.Accepting().Labels() {
		buf.WriteString(mermaidID(l))
		buf.WriteString(" --> [*]\n")
	}
	return buf.String()
}

func mermaidID(l automaton.Label) string { return "s" + strconv.Itoa(int(l)) }

func dotEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// mermaidEscape keeps edge labels on one line and away from the ':' separator.
func mermaidEscape(s string) string {
	return strings.NewReplacer(":", "#58;", ";", "#59;", "\n", " ").Replace(s)
}
