package definition

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"GoDFA/internal/automaton"
)

// Format writes a in the definition format. Parse(Format(a)) describes the
// same automaton.
func Format(w io.Writer, a *automaton.Automaton) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(strconv.Itoa(a.Len()))
	bw.WriteByte('\n')

	alphabet := a.Alphabet()
	syms := make([]string, len(alphabet))
	for i, c := range alphabet {
		syms[i] = string(rune(c))
	}
	bw.WriteString(strings.Join(syms, " "))
	bw.WriteByte('\n')

	for _, l := range a.Labels() {
		bw.WriteString(strconv.Itoa(int(l)))
		bw.WriteByte(':')
		for _, c := range alphabet {
			bw.WriteByte(' ')
			writeGroup(bw, a.Transitions(l, c))
		}
		bw.WriteByte(' ')
		writeGroup(bw, a.Epsilon(l))
		bw.WriteByte('\n')
	}

	bw.WriteString(strconv.Itoa(int(a.Initial())))
	bw.WriteByte('\n')
	writeGroup(bw, a.Accepting())
	bw.WriteByte('\n')

	return bw.Flush()
}

func writeGroup(bw *bufio.Writer, set automaton.LabelSet) {
	bw.WriteByte('{')
	for i, l := range set.Labels() {
		if i > 0 {
			bw.WriteByte(',')
		}
		bw.WriteString(strconv.Itoa(int(l)))
	}
	bw.WriteByte('}')
}
