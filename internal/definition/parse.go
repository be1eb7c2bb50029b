// Package definition reads and writes the line-oriented automaton definition
// format and the candidate-strings file.
//
// A definition looks like:
//
//	2
//	a b
//	1: {1,2} {1} {}
//	2: {} {} {}
//	1
//	{2}
//
// The first line is the state count, the second the space-separated alphabet.
// Each state line holds one brace group per symbol in declared order followed
// by one group of epsilon successors. The second-to-last line is the initial
// label and the last line the accepting set.
package definition

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"GoDFA/internal/automaton"
)

var ErrMalformed = errors.New("malformed definition")

// line is one non-blank input line with its 1-based position.
type line struct {
	num  int
	text string
}

func malformed(num int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformed, num, fmt.Sprintf(format, args...))
}

// LoadFile parses the definition stored at path.
func LoadFile(path string) (*automaton.Automaton, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open definition: %w", err)
	}
	defer f.Close()

	a, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return a, nil
}

// ParseString parses a definition held in memory.
func ParseString(s string) (*automaton.Automaton, error) {
	return Parse(strings.NewReader(s))
}

// Parse reads a definition and builds the automaton it describes. Blank lines
// are ignored. The state count on the first line must be an integer but is
// not checked against the state lines.
func Parse(r io.Reader) (*automaton.Automaton, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	if len(lines) < 4 {
		return nil, fmt.Errorf("%w: need at least 4 lines, got %d", ErrMalformed, len(lines))
	}

	head := lines[0]
	if _, err := strconv.Atoi(strings.TrimSpace(head.text)); err != nil {
		return nil, malformed(head.num, "state count %q is not an integer", strings.TrimSpace(head.text))
	}

	alphabet, err := parseAlphabet(lines[1])
	if err != nil {
		return nil, err
	}
	b := automaton.NewBuilder(alphabet...)

	for _, ln := range lines[2 : len(lines)-2] {
		st, err := parseState(ln, alphabet)
		if err != nil {
			return nil, err
		}
		b.AddState(st)
	}

	initLine := lines[len(lines)-2]
	initial, err := parseLabel(initLine, strings.TrimSpace(initLine.text))
	if err != nil {
		return nil, err
	}
	b.Initial(initial)

	accLine := lines[len(lines)-1]
	text := strings.TrimSpace(accLine.text)
	if !strings.HasPrefix(text, "{") || !strings.HasSuffix(text, "}") || len(text) < 2 {
		return nil, malformed(accLine.num, "accepting set %q must be a brace group", text)
	}
	accepting, err := parseGroup(accLine, text[1:len(text)-1])
	if err != nil {
		return nil, err
	}
	b.Accept(accepting...)

	a, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return a, nil
}

func readLines(r io.Reader) ([]line, error) {
	var lines []line
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	num := 0
	for scanner.Scan() {
		num++
		text := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, line{num: num, text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	return lines, nil
}

func parseAlphabet(ln line) ([]automaton.Symbol, error) {
	fields := strings.Fields(ln.text)
	alphabet := make([]automaton.Symbol, 0, len(fields))
	for _, f := range fields {
		r, size := utf8.DecodeRuneInString(f)
		if r == utf8.RuneError || size != len(f) {
			return nil, malformed(ln.num, "symbol %q is not a single character", f)
		}
		alphabet = append(alphabet, automaton.Symbol(r))
	}
	return alphabet, nil
}

func parseLabel(ln line, s string) (automaton.Label, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, malformed(ln.num, "label %q is not an integer", s)
	}
	return automaton.Label(n), nil
}

// parseState reads "<label>: {..} {..} ... {eps}".
func parseState(ln line, alphabet []automaton.Symbol) (automaton.State, error) {
	head, rest, ok := strings.Cut(ln.text, ":")
	if !ok {
		return automaton.State{}, malformed(ln.num, "state line has no ':' after the label")
	}
	label, err := parseLabel(ln, strings.TrimSpace(head))
	if err != nil {
		return automaton.State{}, err
	}

	groups, err := splitGroups(ln, rest)
	if err != nil {
		return automaton.State{}, err
	}
	if len(groups) != len(alphabet)+1 {
		return automaton.State{}, malformed(ln.num, "state %d has %d groups, want %d (one per symbol plus epsilon)",
			label, len(groups), len(alphabet)+1)
	}

	st := automaton.State{
		Label:       label,
		Transitions: make(map[automaton.Symbol]automaton.LabelSet, len(alphabet)),
	}
	for i, sym := range alphabet {
		targets, err := parseGroup(ln, groups[i])
		if err != nil {
			return automaton.State{}, err
		}
		if len(targets) > 0 {
			st.Transitions[sym] = automaton.NewLabelSet(targets...)
		}
	}
	eps, err := parseGroup(ln, groups[len(alphabet)])
	if err != nil {
		return automaton.State{}, err
	}
	st.Epsilon = automaton.NewLabelSet(eps...)
	return st, nil
}

// splitGroups returns the contents of each brace group in s, without braces.
func splitGroups(ln line, s string) ([]string, error) {
	var groups []string
	for {
		s = strings.TrimLeft(s, " \t")
		if s == "" {
			return groups, nil
		}
		if s[0] != '{' {
			return nil, malformed(ln.num, "expected '{' at %q", s)
		}
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return nil, malformed(ln.num, "unterminated brace group")
		}
		inner := s[1:end]
		if strings.ContainsRune(inner, '{') {
			return nil, malformed(ln.num, "nested brace group")
		}
		groups = append(groups, inner)
		s = s[end+1:]
	}
}

// parseGroup parses a comma-separated label list. An empty or all-blank list
// yields no labels.
func parseGroup(ln line, inner string) ([]automaton.Label, error) {
	if strings.TrimSpace(inner) == "" {
		return nil, nil
	}
	parts := strings.Split(inner, ",")
	labels := make([]automaton.Label, 0, len(parts))
	for _, p := range parts {
		l, err := parseLabel(ln, strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, nil
}
