package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"GoDFA/internal/automaton"
)

// EndsInADefinition is the definition-file form of EndsInA.
const EndsInADefinition = `2
a b
1: {1,2} {1} {}
2: {} {} {}
1
{2}
`

// EndsInAStrings is a strings file exercising EndsInA.
const EndsInAStrings = "a\nb\nba\nab\n\nbbba\nc\n"

// WithTempDir creates a temporary directory, calls fn with its path,
// and cleans up afterwards.
func WithTempDir(t *testing.T, fn func(dir string)) {
	t.Helper()
	dir := t.TempDir()
	fn(dir)
}

// WriteFile writes content to dir/name and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile %s: %v", path, err)
	}
	return path
}

// MustBuild builds b or fails the test.
func MustBuild(t testing.TB, b *automaton.Builder) *automaton.Automaton {
	t.Helper()
	a, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return a
}

// EndsInA accepts strings over {a,b} ending in 'a': state 1 loops on a and b
// and moves to the accepting state 2 on a.
func EndsInA(t testing.TB) *automaton.Automaton {
	t.Helper()
	return MustBuild(t, automaton.NewBuilder('a', 'b').
		State(1, 2).
		On(1, 'a', 1, 2).
		On(1, 'b', 1).
		Accept(2).
		Initial(1))
}

// EndsInANoAccept is EndsInA with an empty accepting set.
func EndsInANoAccept(t testing.TB) *automaton.Automaton {
	t.Helper()
	return MustBuild(t, automaton.NewBuilder('a', 'b').
		State(1, 2).
		On(1, 'a', 1, 2).
		On(1, 'b', 1).
		Initial(1))
}

// EpsilonToAccepting has initial state 0 with an epsilon edge to the
// accepting state 1, over the alphabet {a}.
func EpsilonToAccepting(t testing.TB) *automaton.Automaton {
	t.Helper()
	return MustBuild(t, automaton.NewBuilder('a').
		State(0, 1).
		Epsilon(0, 1).
		Accept(1).
		Initial(0))
}

// EpsilonCycle has states 0 and 1 joined by epsilon edges in both
// directions. 0 reads 'a' into the accepting state 2, which loops back to 1
// on 'b'.
func EpsilonCycle(t testing.TB) *automaton.Automaton {
	t.Helper()
	return MustBuild(t, automaton.NewBuilder('a', 'b').
		State(0, 1, 2).
		Epsilon(0, 1).
		Epsilon(1, 0).
		On(0, 'a', 2).
		On(2, 'b', 1).
		Accept(2).
		Initial(0))
}

// Textbook is the Thompson construction of (a|b)*abb.
func Textbook(t testing.TB) *automaton.Automaton {
	t.Helper()
	return MustBuild(t, automaton.NewBuilder('a', 'b').
		State(0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10).
		Epsilon(0, 1, 7).
		Epsilon(1, 2, 4).
		On(2, 'a', 3).
		Epsilon(3, 6).
		On(4, 'b', 5).
		Epsilon(5, 6).
		Epsilon(6, 1, 7).
		On(7, 'a', 8).
		On(8, 'b', 9).
		On(9, 'b', 10).
		Accept(10).
		Initial(0))
}

// NthFromLast accepts strings over {a,b} whose n-th symbol from the end is
// 'a'. Its DFA needs 2^n states.
func NthFromLast(t testing.TB, n int) *automaton.Automaton {
	t.Helper()
	b := automaton.NewBuilder('a', 'b')
	for i := 0; i <= n; i++ {
		b.State(automaton.Label(i))
	}
	b.On(0, 'a', 0, 1).On(0, 'b', 0)
	for i := 1; i < n; i++ {
		b.On(automaton.Label(i), 'a', automaton.Label(i+1))
		b.On(automaton.Label(i), 'b', automaton.Label(i+1))
	}
	return MustBuild(t, b.Accept(automaton.Label(n)).Initial(0))
}

// AllStrings returns every string over alphabet of length at most maxLen,
// shortest first.
func AllStrings(alphabet []automaton.Symbol, maxLen int) []string {
	out := []string{""}
	frontier := []string{""}
	for n := 1; n <= maxLen; n++ {
		next := make([]string, 0, len(frontier)*len(alphabet))
		for _, prefix := range frontier {
			for _, c := range alphabet {
				next = append(next, prefix+string(rune(c)))
			}
		}
		out = append(out, next...)
		frontier = next
	}
	return out
}
