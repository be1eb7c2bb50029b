package accept

import (
	"context"
	"errors"
	"testing"

	"GoDFA/internal/automaton"
	"GoDFA/internal/testutil"
)

// evenAs is a complete DFA over {a,b} accepting strings with an even number of a's.
func evenAs(t *testing.T) *automaton.Automaton {
	t.Helper()
	return testutil.MustBuild(t, automaton.NewBuilder('a', 'b').
		State(0, 1).
		On(0, 'a', 1).On(0, 'b', 0).
		On(1, 'a', 0).On(1, 'b', 1).
		Accept(0).
		Initial(0))
}

// onlyAB is a partial DFA accepting exactly "ab".
func onlyAB(t *testing.T) *automaton.Automaton {
	t.Helper()
	return testutil.MustBuild(t, automaton.NewBuilder('a', 'b').
		State(0, 1, 2).
		On(0, 'a', 1).
		On(1, 'b', 2).
		Accept(2).
		Initial(0))
}

// countingRunner wraps a Runner and counts Step calls.
type countingRunner struct {
	automaton.Runner
	steps int
}

func (r *countingRunner) Step(s automaton.Label, c automaton.Symbol) automaton.Label {
	r.steps++
	return r.Runner.Step(s, c)
}

func TestAccepts(t *testing.T) {
	dfa := evenAs(t)
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"a", false},
		{"aa", true},
		{"abab", true},
		{"bab", false},
		{"bbbb", true},
		{"aac", false},
		{"c", false},
	}
	for _, tt := range tests {
		if got := Accepts(dfa, tt.input); got != tt.want {
			t.Errorf("Accepts(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestAccepts_MissingTransitionRejects(t *testing.T) {
	dfa := onlyAB(t)
	tests := []struct {
		input string
		want  bool
	}{
		{"ab", true},
		{"", false},
		{"a", false},
		{"b", false},
		{"abb", false},
		{"ba", false},
	}
	for _, tt := range tests {
		if got := Accepts(dfa, tt.input); got != tt.want {
			t.Errorf("Accepts(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestAccepts_IsPure(t *testing.T) {
	dfa := onlyAB(t)
	for _, w := range []string{"ab", "abx", "xab", "bbbb"} {
		first := Accepts(dfa, w)
		for i := 0; i < 3; i++ {
			if got := Accepts(dfa, w); got != first {
				t.Fatalf("Accepts(%q) changed from %v to %v", w, first, got)
			}
		}
	}
}

func TestRun_StopsOnDeadState(t *testing.T) {
	r := &countingRunner{Runner: onlyAB(t)}
	if Run(r, nil, "bababababa") {
		t.Fatal("Run accepted")
	}
	if r.steps != 1 {
		t.Errorf("Step called %d times, want 1", r.steps)
	}
}

func TestRun_StopsWhenNoAcceptReachable(t *testing.T) {
	// State 2 is a non-accepting sink; the walk can stop as soon as it is entered.
	dfa := testutil.MustBuild(t, automaton.NewBuilder('a', 'b').
		State(0, 1, 2).
		On(0, 'a', 1).On(0, 'b', 2).
		On(1, 'a', 1).On(1, 'b', 1).
		On(2, 'a', 2).On(2, 'b', 2).
		Accept(1).
		Initial(0))

	r := &countingRunner{Runner: dfa}
	if Run(r, dfa.HasSymbol, "baaaaaaa") {
		t.Fatal("Run accepted")
	}
	if r.steps != 1 {
		t.Errorf("Step called %d times, want 1", r.steps)
	}
	if !Accepts(dfa, "abba") {
		t.Error(`Accepts("abba") = false`)
	}
}

func TestRun_AlphabetGate(t *testing.T) {
	r := &countingRunner{Runner: evenAs(t)}
	if Run(r, func(c automaton.Symbol) bool { return c == 'b' }, "ba") {
		t.Fatal("Run accepted a gated symbol")
	}
	if r.steps != 1 {
		t.Errorf("Step called %d times, want 1", r.steps)
	}
}

func TestSimulate(t *testing.T) {
	tests := []struct {
		name  string
		nfa   *automaton.Automaton
		input string
		want  bool
	}{
		{"ends-in-a a", testutil.EndsInA(t), "a", true},
		{"ends-in-a ab", testutil.EndsInA(t), "ab", false},
		{"ends-in-a ba", testutil.EndsInA(t), "ba", true},
		{"ends-in-a outside alphabet", testutil.EndsInA(t), "ca", false},
		{"epsilon accepting empty", testutil.EpsilonToAccepting(t), "", true},
		{"epsilon accepting a", testutil.EpsilonToAccepting(t), "a", false},
		{"cycle a", testutil.EpsilonCycle(t), "a", true},
		{"cycle aba", testutil.EpsilonCycle(t), "aba", true},
		{"cycle ab", testutil.EpsilonCycle(t), "ab", false},
		{"textbook abb", testutil.Textbook(t), "abb", true},
		{"textbook babb", testutil.Textbook(t), "babb", true},
		{"textbook abab", testutil.Textbook(t), "abab", false},
		{"no accept", testutil.EndsInANoAccept(t), "a", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Simulate(tt.nfa, tt.input); got != tt.want {
				t.Errorf("Simulate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSimulateFrom(t *testing.T) {
	nfa := testutil.EpsilonToAccepting(t)
	raw := automaton.NewLabelSet(nfa.Initial())

	tests := []struct {
		name  string
		start automaton.LabelSet
		input string
		want  bool
	}{
		{"raw initial empty", raw, "", false},
		{"closed initial empty", automaton.EpsilonClosure(nfa, raw), "", true},
		{"raw initial a", raw, "a", false},
		{"empty start", automaton.LabelSet{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SimulateFrom(nfa, tt.start, tt.input); got != tt.want {
				t.Errorf("SimulateFrom(%s, %q) = %v, want %v", tt.start, tt.input, got, tt.want)
			}
		})
	}

	// A raw start agrees with the closed start on every non-empty input.
	cycle := testutil.EpsilonCycle(t)
	cycleRaw := automaton.NewLabelSet(cycle.Initial())
	for _, s := range testutil.AllStrings(cycle.Alphabet(), 5)[1:] {
		if got, want := SimulateFrom(cycle, cycleRaw, s), Simulate(cycle, s); got != want {
			t.Errorf("%q: raw start = %v, closed start = %v", s, got, want)
		}
	}
}

// --- EvaluateAll Tests ---

func TestEvaluateAll_PreservesOrder(t *testing.T) {
	dfa := evenAs(t)
	inputs := testutil.AllStrings(dfa.Alphabet(), 6)

	for _, workers := range []int{0, 1, 3, 64} {
		verdicts, err := EvaluateAll(context.Background(), dfa, inputs, workers)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if len(verdicts) != len(inputs) {
			t.Fatalf("workers=%d: got %d verdicts, want %d", workers, len(verdicts), len(inputs))
		}
		for i, v := range verdicts {
			if v.Input != inputs[i] {
				t.Fatalf("workers=%d: verdict %d is for %q, want %q", workers, i, v.Input, inputs[i])
			}
			if v.Accepted != Accepts(dfa, inputs[i]) {
				t.Fatalf("workers=%d: verdict for %q = %v", workers, v.Input, v.Accepted)
			}
		}
	}
}

func TestEvaluateAll_Empty(t *testing.T) {
	verdicts, err := EvaluateAll(context.Background(), evenAs(t), nil, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(verdicts) != 0 {
		t.Errorf("got %d verdicts, want 0", len(verdicts))
	}
}

func TestEvaluateAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inputs := testutil.AllStrings([]automaton.Symbol{'a', 'b'}, 10)
	_, err := EvaluateAll(ctx, evenAs(t), inputs, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
