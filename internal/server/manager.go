package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"GoDFA/internal/accept"
	"GoDFA/internal/automaton"
	"GoDFA/internal/definition"
	"GoDFA/internal/store"
	"GoDFA/internal/subset"
)

var (
	ErrAutomatonNotFound = errors.New("automaton not found")
	ErrAutomatonExists   = errors.New("automaton already exists")
)

// Entry holds the runtime state of one registered automaton. It is immutable
// once registered and shared by concurrent requests.
type Entry struct {
	Name       string
	Definition string
	Seed       subset.SeedMode
	CreatedAt  time.Time
	NFA        *automaton.Automaton
	DFA        *automaton.Automaton
}

// Info returns the JSON-friendly description of the entry.
func (e *Entry) Info() map[string]any {
	return map[string]any{
		"name":       e.Name,
		"seed":       e.Seed.String(),
		"created_at": e.CreatedAt,
		"nfa_states": e.NFA.Len(),
		"dfa_states": e.DFA.Len(),
		"alphabet":   e.NFA.Document().Alphabet,
		"nfa":        e.NFA.Document(),
		"dfa":        e.DFA.Document(),
	}
}

// AutomatonManager owns every registered automaton and keeps the on-disk
// store in step with memory.
type AutomatonManager struct {
	cfg    Config
	store  *store.Store
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewAutomatonManager opens the store under cfg.DataDir and loads every
// record it holds. Records that cannot be loaded are logged and skipped.
func NewAutomatonManager(cfg Config, logger *slog.Logger) (*AutomatonManager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	st, err := store.Open(cfg.DataDir, store.Options{Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	m := &AutomatonManager{
		cfg:     cfg,
		store:   st,
		logger:  logger.With("component", "manager"),
		entries: make(map[string]*Entry),
	}
	if err := m.loadExisting(); err != nil {
		return nil, fmt.Errorf("load existing automata: %w", err)
	}
	return m, nil
}

func (m *AutomatonManager) loadExisting() error {
	records, _, err := m.store.LoadAll()
	if err != nil {
		return err
	}
	for _, rec := range records {
		e, err := entryFromRecord(rec)
		if err != nil {
			m.logger.Error("failed to load automaton", "name", rec.Name, "error", err)
			continue
		}
		m.entries[e.Name] = e
		m.logger.Info("automaton loaded", "name", e.Name, "dfa_states", e.DFA.Len())
	}
	return nil
}

func entryFromRecord(rec *store.Record) (*Entry, error) {
	seed, err := subset.ParseSeedMode(rec.Seed)
	if err != nil {
		return nil, err
	}
	nfa, err := definition.ParseString(rec.Definition)
	if err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	dfa, err := automaton.FromDocument(rec.DFA)
	if err != nil {
		return nil, fmt.Errorf("rebuild DFA: %w", err)
	}
	if !dfa.IsDeterministic() {
		return nil, fmt.Errorf("%w: stored DFA is not deterministic", store.ErrRecordCorrupt)
	}
	return &Entry{
		Name:       rec.Name,
		Definition: rec.Definition,
		Seed:       seed,
		CreatedAt:  rec.CreatedAt,
		NFA:        nfa,
		DFA:        dfa,
	}, nil
}

// Register parses def, converts it to a DFA and persists the result under
// name. Conversion runs outside the registry lock.
func (m *AutomatonManager) Register(name, def string, seed subset.SeedMode) (*Entry, error) {
	if err := store.ValidateName(name); err != nil {
		return nil, err
	}
	if m.exists(name) {
		return nil, fmt.Errorf("%w: %s", ErrAutomatonExists, name)
	}

	nfa, err := definition.ParseString(def)
	if err != nil {
		return nil, err
	}
	res, err := subset.Convert(nfa, subset.Options{
		Seed:      seed,
		MaxStates: m.cfg.MaxDFAStates,
		Logger:    m.logger.With("automaton", name),
	})
	if err != nil {
		return nil, err
	}

	e := &Entry{
		Name:       name,
		Definition: def,
		Seed:       seed,
		CreatedAt:  time.Now().UTC(),
		NFA:        nfa,
		DFA:        res.DFA,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAutomatonExists, name)
	}
	rec := &store.Record{
		Name:       e.Name,
		Definition: e.Definition,
		Seed:       e.Seed.String(),
		CreatedAt:  e.CreatedAt,
		NFAStates:  nfa.Len(),
		DFAStates:  res.DFA.Len(),
		DFA:        res.DFA.Document(),
	}
	if err := m.store.Save(rec); err != nil {
		return nil, fmt.Errorf("persist automaton: %w", err)
	}
	m.entries[name] = e

	m.logger.Info("automaton registered",
		"name", name,
		"seed", seed.String(),
		"nfa_states", nfa.Len(),
		"dfa_states", res.DFA.Len(),
	)
	return e, nil
}

func (m *AutomatonManager) exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[name]
	return ok
}

// Get returns the entry registered under name.
func (m *AutomatonManager) Get(name string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAutomatonNotFound, name)
	}
	return e, nil
}

// List returns the registered names, sorted.
func (m *AutomatonManager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Delete removes the automaton from memory and disk.
func (m *AutomatonManager) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[name]; !ok {
		return fmt.Errorf("%w: %s", ErrAutomatonNotFound, name)
	}
	if err := m.store.Delete(name); err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		return fmt.Errorf("remove automaton: %w", err)
	}
	delete(m.entries, name)
	m.logger.Info("automaton deleted", "name", name)
	return nil
}

// Match evaluates inputs against the DFA registered under name, in parallel,
// bounded by the configured match timeout.
func (m *AutomatonManager) Match(ctx context.Context, name string, inputs []string) ([]accept.Verdict, error) {
	e, err := m.Get(name)
	if err != nil {
		return nil, err
	}
	if m.cfg.MatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.MatchTimeout)
		defer cancel()
	}
	return accept.EvaluateAll(ctx, e.DFA, inputs, m.cfg.MatchWorkers)
}
