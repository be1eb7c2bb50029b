package subset

import (
	"fmt"
	"log/slog"

	"GoDFA/internal/automaton"
)

// DefaultMaxStates bounds DFA size when Options come from DefaultOptions.
const DefaultMaxStates = 1 << 16

// SeedMode selects the NFA label set behind DFA state 0.
type SeedMode int

const (
	// SeedClosure seeds with the epsilon-closure of the NFA initial label, so
	// the empty string is accepted whenever an accepting state is reachable
	// from the initial state without input.
	SeedClosure SeedMode = iota

	// SeedInitialLabel seeds with the raw initial label only. The empty string
	// is then accepted only if the initial state itself accepts.
	SeedInitialLabel
)

func (m SeedMode) String() string {
	switch m {
	case SeedClosure:
		return "closure"
	case SeedInitialLabel:
		return "initial"
	default:
		return fmt.Sprintf("SeedMode(%d)", int(m))
	}
}

// SeedSet returns the NFA label set mode selects for DFA state 0.
func SeedSet(nfa *automaton.Automaton, mode SeedMode) automaton.LabelSet {
	seed := automaton.NewLabelSet(nfa.Initial())
	if mode == SeedClosure {
		seed = automaton.EpsilonClosure(nfa, seed)
	}
	return seed
}

// ParseSeedMode parses "closure" or "initial".
func ParseSeedMode(s string) (SeedMode, error) {
	switch s {
	case "", "closure":
		return SeedClosure, nil
	case "initial":
		return SeedInitialLabel, nil
	default:
		return 0, fmt.Errorf("unknown seed mode %q (want closure or initial)", s)
	}
}

// Options configures subset construction.
type Options struct {
	// Seed selects the NFA label set behind DFA state 0. Default: SeedClosure.
	Seed SeedMode

	// MaxStates aborts construction with ErrStateLimitExceeded once the DFA
	// would exceed this many states. Zero or negative means unbounded.
	MaxStates int

	// Logger for construction events. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Seed:      SeedClosure,
		MaxStates: DefaultMaxStates,
	}
}
