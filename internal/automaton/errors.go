package automaton

import "errors"

// Build errors. Build reports every problem it finds, joined with errors.Join,
// so callers test for a specific one with errors.Is.
var (
	ErrNoInitial          = errors.New("initial state not set")
	ErrUnknownState       = errors.New("state not defined")
	ErrDanglingTransition = errors.New("transition references undefined state")
	ErrUnknownSymbol      = errors.New("symbol not in alphabet")
	ErrDuplicateSymbol    = errors.New("duplicate alphabet symbol")
	ErrDuplicateState     = errors.New("duplicate state label")
	ErrNegativeLabel      = errors.New("state label must be non-negative")
	ErrUnknownAccepting   = errors.New("accepting label not defined")
	ErrInvalidSymbol      = errors.New("symbol must be a single character")
)
