package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"GoDFA/internal/automaton"
	"GoDFA/internal/storage"
)

var ErrRecordCorrupt = errors.New("record checksum verification failed")

// Record is the persisted form of one registered automaton: the definition
// text it was parsed from and the DFA produced for it.
type Record struct {
	Name       string             `json:"name"`
	Definition string             `json:"definition"`
	Seed       string             `json:"seed"`
	CreatedAt  time.Time          `json:"created_at"`
	NFAStates  int                `json:"nfa_states"`
	DFAStates  int                `json:"dfa_states"`
	DFA        automaton.Document `json:"dfa"`
	Checksum   storage.Checksum   `json:"checksum"`
}

// MarshalRecord serializes r to JSON and stamps its checksum. The checksum
// is computed over the JSON with the checksum field empty.
func MarshalRecord(r *Record) ([]byte, error) {
	payload, err := checksumPayload(r)
	if err != nil {
		return nil, fmt.Errorf("compute record checksum: %w", err)
	}
	r.Checksum = storage.ComputeChecksum(payload)

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return data, nil
}

// UnmarshalRecord deserializes a record and verifies its checksum.
func UnmarshalRecord(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: unmarshal record: %v", ErrRecordCorrupt, err)
	}

	payload, err := checksumPayload(&r)
	if err != nil {
		return nil, fmt.Errorf("compute record checksum for verification: %w", err)
	}
	if err := storage.VerifyChecksum(payload, r.Checksum); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecordCorrupt, err)
	}
	return &r, nil
}

// checksumPayload returns the bytes the checksum covers: r encoded with an
// empty checksum field.
func checksumPayload(r *Record) ([]byte, error) {
	saved := r.Checksum
	r.Checksum = ""
	defer func() { r.Checksum = saved }()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal for checksum: %w", err)
	}
	return data, nil
}
