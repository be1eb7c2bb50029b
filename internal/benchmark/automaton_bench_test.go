package benchmark

import (
	"testing"

	"GoDFA/internal/automaton"
	"GoDFA/internal/definition"
	"GoDFA/internal/stepcache"
	"GoDFA/internal/subset"
	"GoDFA/internal/testutil"
)

func BenchmarkAutomaton_Build_Textbook(b *testing.B) {
	for i := 0; i < b.N; i++ {
		testutil.Textbook(b)
	}
}

func BenchmarkAutomaton_Parse(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := definition.ParseString(testutil.EndsInADefinition); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAutomaton_EpsilonClosure(b *testing.B) {
	nfa := testutil.Textbook(b)
	seed := automaton.NewLabelSet(nfa.Initial())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		automaton.EpsilonClosure(nfa, seed)
	}
}

func BenchmarkStepCache_Build_Textbook(b *testing.B) {
	nfa := testutil.Textbook(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		stepcache.Build(nfa)
	}
}

func BenchmarkStepCache_StepUnion(b *testing.B) {
	nfa := testutil.Textbook(b)
	cache := stepcache.Build(nfa)
	set := automaton.NewLabelSet(nfa.Labels()...)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.StepUnion(set, 'a')
	}
}

func BenchmarkSubset_Convert_Textbook(b *testing.B) {
	nfa := testutil.Textbook(b)
	opts := subset.DefaultOptions()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := subset.Convert(nfa, opts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSubset_Convert_NthFromLast8(b *testing.B) {
	nfa := testutil.NthFromLast(b, 8)
	opts := subset.DefaultOptions()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := subset.Convert(nfa, opts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSubset_Determinize_CachedSteps(b *testing.B) {
	cache := stepcache.Build(testutil.NthFromLast(b, 8))
	opts := subset.DefaultOptions()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := subset.Determinize(cache, opts); err != nil {
			b.Fatal(err)
		}
	}
}
