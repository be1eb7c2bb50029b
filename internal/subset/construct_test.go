package subset

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"GoDFA/internal/accept"
	"GoDFA/internal/automaton"
	"GoDFA/internal/testutil"
)

func mustConvert(t *testing.T, nfa *automaton.Automaton, opts Options) *Result {
	t.Helper()
	res, err := Convert(nfa, opts)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	return res
}

func assertDeterministic(t *testing.T, dfa *automaton.Automaton) {
	t.Helper()
	if !dfa.IsDeterministic() {
		t.Error("IsDeterministic() = false")
	}
	for _, l := range dfa.Labels() {
		if !dfa.Epsilon(l).Empty() {
			t.Errorf("state %d has epsilon successors %s", l, dfa.Epsilon(l))
		}
		for _, sym := range dfa.Alphabet() {
			if n := dfa.Transitions(l, sym).Len(); n != 1 {
				t.Errorf("state %d on %c has %d successors, want 1", l, sym, n)
			}
		}
	}
}

func assertEquivalent(t *testing.T, nfa, dfa *automaton.Automaton, maxLen int) {
	t.Helper()
	for _, w := range testutil.AllStrings(nfa.Alphabet(), maxLen) {
		if got, want := accept.Accepts(dfa, w), accept.Simulate(nfa, w); got != want {
			t.Fatalf("input %q: DFA = %v, NFA = %v", w, got, want)
		}
	}
}

// --- Scenarios ---

func TestConvert_EmptyStringThroughEpsilon(t *testing.T) {
	nfa := testutil.EpsilonToAccepting(t)

	res := mustConvert(t, nfa, DefaultOptions())
	if !accept.Accepts(res.DFA, "") {
		t.Error(`closure seed: "" should be accepted`)
	}
	if accept.Accepts(res.DFA, "a") {
		t.Error(`closure seed: "a" should be rejected`)
	}

	legacy := mustConvert(t, nfa, Options{Seed: SeedInitialLabel})
	if accept.Accepts(legacy.DFA, "") {
		t.Error(`initial-label seed: "" should be rejected`)
	}
	if got := legacy.Sets[0].String(); got != "[0]" {
		t.Errorf("initial-label seed set = %s, want [0]", got)
	}
}

func TestConvert_EndsInA(t *testing.T) {
	res := mustConvert(t, testutil.EndsInA(t), DefaultOptions())

	tests := []struct {
		input string
		want  bool
	}{
		{"a", true},
		{"b", false},
		{"ba", true},
		{"ab", false},
		{"", false},
		{"bbba", true},
		{"aaab", false},
	}
	for _, tt := range tests {
		if got := accept.Accepts(res.DFA, tt.input); got != tt.want {
			t.Errorf("Accepts(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if res.DFA.Len() != 2 {
		t.Errorf("DFA has %d states, want 2", res.DFA.Len())
	}
	if got := res.Sets[1].String(); got != "[1, 2]" {
		t.Errorf("state 1 = %s, want [1, 2]", got)
	}
}

func TestConvert_NoAcceptingStates(t *testing.T) {
	res := mustConvert(t, testutil.EndsInANoAccept(t), DefaultOptions())
	if !res.DFA.Accepting().Empty() {
		t.Fatalf("DFA accepting = %s, want []", res.DFA.Accepting())
	}
	for _, w := range testutil.AllStrings(res.DFA.Alphabet(), 5) {
		if accept.Accepts(res.DFA, w) {
			t.Fatalf("Accepts(%q) = true with no accepting states", w)
		}
	}
}

func TestConvert_SymbolOutsideAlphabet(t *testing.T) {
	res := mustConvert(t, testutil.EndsInA(t), DefaultOptions())
	for _, w := range []string{"c", "ac", "ca", "a c"} {
		if accept.Accepts(res.DFA, w) {
			t.Errorf("Accepts(%q) = true, want false", w)
		}
	}
}

func TestConvert_EpsilonCycle(t *testing.T) {
	nfa := testutil.EpsilonCycle(t)
	res := mustConvert(t, nfa, DefaultOptions())

	if got := res.Sets[0].String(); got != "[0, 1]" {
		t.Errorf("seed set = %s, want [0, 1]", got)
	}
	assertDeterministic(t, res.DFA)
	assertEquivalent(t, nfa, res.DFA, 6)
}

// --- Properties ---

func TestConvert_TextbookHasFiveStates(t *testing.T) {
	nfa := testutil.Textbook(t)
	res := mustConvert(t, nfa, DefaultOptions())

	if res.DFA.Len() != 5 {
		t.Errorf("DFA has %d states, want 5", res.DFA.Len())
	}
	if got := res.Sets[0].String(); got != "[0, 1, 2, 4, 7]" {
		t.Errorf("seed set = %s, want [0, 1, 2, 4, 7]", got)
	}
	assertDeterministic(t, res.DFA)
	assertEquivalent(t, nfa, res.DFA, 6)
}

func TestConvert_LanguageEquivalence(t *testing.T) {
	fixtures := map[string]*automaton.Automaton{
		"ends-in-a":     testutil.EndsInA(t),
		"no-accept":     testutil.EndsInANoAccept(t),
		"eps-accepting": testutil.EpsilonToAccepting(t),
		"epsilon-cycle": testutil.EpsilonCycle(t),
		"textbook":      testutil.Textbook(t),
		"third-last":    testutil.NthFromLast(t, 3),
	}

	for name, nfa := range fixtures {
		t.Run(name, func(t *testing.T) {
			res := mustConvert(t, nfa, DefaultOptions())
			assertDeterministic(t, res.DFA)
			assertEquivalent(t, nfa, res.DFA, 6)

			if res.DFA.Initial() != 0 {
				t.Errorf("DFA initial = %d, want 0", res.DFA.Initial())
			}
			seed := automaton.EpsilonClosure(nfa, automaton.NewLabelSet(nfa.Initial()))
			if !res.Sets[0].Equal(seed) {
				t.Errorf("label 0 = %s, want seed %s", res.Sets[0], seed)
			}
			if res.DFA.Len() > 1<<nfa.Len() {
				t.Errorf("DFA has %d states, bound is %d", res.DFA.Len(), 1<<nfa.Len())
			}
			if len(res.Sets) != res.DFA.Len() {
				t.Errorf("len(Sets) = %d, DFA states = %d", len(res.Sets), res.DFA.Len())
			}
		})
	}
}

func TestConvert_SetsAreUnique(t *testing.T) {
	res := mustConvert(t, testutil.NthFromLast(t, 3), DefaultOptions())
	seen := make(map[string]automaton.Label)
	for i, set := range res.Sets {
		if prev, dup := seen[set.Key()]; dup {
			t.Fatalf("labels %d and %d share set %s", prev, i, set)
		}
		seen[set.Key()] = automaton.Label(i)
	}
}

func TestConvert_AcceptingIffIntersects(t *testing.T) {
	nfa := testutil.Textbook(t)
	res := mustConvert(t, nfa, DefaultOptions())
	for i, set := range res.Sets {
		l := automaton.Label(i)
		if got, want := res.DFA.IsAccepting(l), set.Intersects(nfa.Accepting()); got != want {
			t.Errorf("state %d %s: accepting = %v, want %v", l, set, got, want)
		}
	}
}

func TestConvert_TrapStateLoops(t *testing.T) {
	// Only "a" is accepted; everything else falls into the empty set.
	nfa := testutil.MustBuild(t, automaton.NewBuilder('a', 'b').
		State(0, 1).
		On(0, 'a', 1).
		Accept(1).
		Initial(0))
	res := mustConvert(t, nfa, DefaultOptions())

	trap := automaton.Dead
	for i, set := range res.Sets {
		if set.Empty() {
			trap = automaton.Label(i)
		}
	}
	if trap == automaton.Dead {
		t.Fatal("no trap state was created")
	}
	if res.DFA.IsAccepting(trap) || res.DFA.CanMatch(trap) {
		t.Error("trap state must not accept")
	}
	for _, sym := range res.DFA.Alphabet() {
		if next := res.DFA.Step(trap, sym); next != trap {
			t.Errorf("trap on %c -> %d, want %d", sym, next, trap)
		}
	}
}

func TestConvert_StateLimit(t *testing.T) {
	nfa := testutil.NthFromLast(t, 4)

	_, err := Convert(nfa, Options{MaxStates: 8})
	if !errors.Is(err, ErrStateLimitExceeded) {
		t.Fatalf("err = %v, want ErrStateLimitExceeded", err)
	}

	res := mustConvert(t, nfa, Options{MaxStates: 16})
	if res.DFA.Len() != 16 {
		t.Errorf("DFA has %d states, want 16", res.DFA.Len())
	}

	unbounded := mustConvert(t, nfa, Options{})
	if unbounded.DFA.Len() != 16 {
		t.Errorf("unbounded DFA has %d states, want 16", unbounded.DFA.Len())
	}
}

func TestDeterminize_LogsSummary(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	opts := DefaultOptions()
	opts.Logger = logger
	mustConvert(t, testutil.EndsInA(t), opts)

	out := buf.String()
	for _, want := range []string{"subset construction complete", "dfa_states=2", "seed=closure"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestResult_SetOf(t *testing.T) {
	res := mustConvert(t, testutil.EndsInA(t), DefaultOptions())
	if set, ok := res.SetOf(0); !ok || set.String() != "[1]" {
		t.Errorf("SetOf(0) = %s, %v", set, ok)
	}
	if _, ok := res.SetOf(99); ok {
		t.Error("SetOf(99) should report false")
	}
	if _, ok := res.SetOf(automaton.Dead); ok {
		t.Error("SetOf(Dead) should report false")
	}
}

func TestSeedSet(t *testing.T) {
	nfa := testutil.Textbook(t)
	if got := SeedSet(nfa, SeedClosure).String(); got != "[0, 1, 2, 4, 7]" {
		t.Errorf("closure seed = %s", got)
	}
	if got := SeedSet(nfa, SeedInitialLabel).String(); got != "[0]" {
		t.Errorf("initial seed = %s", got)
	}
}

func TestParseSeedMode(t *testing.T) {
	tests := []struct {
		in      string
		want    SeedMode
		wantErr bool
	}{
		{"", SeedClosure, false},
		{"closure", SeedClosure, false},
		{"initial", SeedInitialLabel, false},
		{"raw", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSeedMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSeedMode(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSeedMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := SeedMode(7).String(); got != "SeedMode(7)" {
		t.Errorf("String = %s", got)
	}
}
