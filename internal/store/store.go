// Package store persists registered automata on disk, one checksummed JSON
// record per automaton.
//
// Layout under the root directory:
//
//	automata/<name>.json   committed records
//	tmp/                   in-flight atomic writes, emptied on Open
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"GoDFA/internal/storage"
)

const recordExt = ".json"

// maxNameLen bounds automaton names so record file names stay portable.
const maxNameLen = 128

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrInvalidName    = errors.New("invalid automaton name")
)

// Options configures a Store.
type Options struct {
	// Logger for store events. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Store reads and writes automaton records under one root directory.
// Methods are safe for concurrent use on distinct names; callers serialize
// writes to the same name.
type Store struct {
	root   string
	logger *slog.Logger
}

// Open prepares root for use: it creates the directory layout and removes
// whatever an interrupted write left in tmp/.
func Open(root string, opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{root: root, logger: logger.With("component", "store")}

	for _, dir := range []string{s.AutomataDir(), s.TmpDir()} {
		if err := storage.EnsureDir(dir); err != nil {
			return nil, fmt.Errorf("ensure directory %s: %w", dir, err)
		}
	}

	removed, err := storage.RemoveDirContents(s.TmpDir())
	if err != nil {
		s.logger.Warn("non-fatal error cleaning tmp", "error", err)
	}
	for _, p := range removed {
		s.logger.Info("removed stale tmp file", "path", p)
	}
	return s, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// AutomataDir returns the directory holding committed records.
func (s *Store) AutomataDir() string { return filepath.Join(s.root, "automata") }

// TmpDir returns the staging directory for atomic writes.
func (s *Store) TmpDir() string { return filepath.Join(s.root, "tmp") }

// RecordPath returns the file path of the record for name.
func (s *Store) RecordPath(name string) string {
	return filepath.Join(s.AutomataDir(), name+recordExt)
}

// ValidateName checks that name can be used as a record file name: 1 to 128
// characters from [A-Za-z0-9._-], not starting with a dot.
func ValidateName(name string) error {
	if name == "" || len(name) > maxNameLen {
		return fmt.Errorf("%w: length must be 1..%d", ErrInvalidName, maxNameLen)
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidName, name)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '_', r == '-':
		default:
			return fmt.Errorf("%w: %q contains %q", ErrInvalidName, name, r)
		}
	}
	return nil
}

// Save durably writes r, replacing any previous record with the same name.
func (s *Store) Save(r *Record) error {
	if err := ValidateName(r.Name); err != nil {
		return err
	}
	data, err := MarshalRecord(r)
	if err != nil {
		return err
	}
	if err := storage.AtomicWriteFile(s.RecordPath(r.Name), data, s.TmpDir()); err != nil {
		return fmt.Errorf("save record %s: %w", r.Name, err)
	}
	s.logger.Debug("record saved", "name", r.Name, "checksum", r.Checksum)
	return nil
}

// Load reads and verifies the record for name.
func (s *Store) Load(name string) (*Record, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.RecordPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, name)
		}
		return nil, fmt.Errorf("read record %s: %w", name, err)
	}
	r, err := UnmarshalRecord(data)
	if err != nil {
		return nil, fmt.Errorf("load record %s: %w", name, err)
	}
	if r.Name != name {
		return nil, fmt.Errorf("%w: file %s holds record %q", ErrRecordCorrupt, name, r.Name)
	}
	return r, nil
}

// List returns the names of all committed records, sorted.
func (s *Store) List() ([]string, error) {
	files, err := storage.ListFiles(s.AutomataDir(), recordExt)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, strings.TrimSuffix(f, recordExt))
	}
	return names, nil
}

// LoadAll loads every committed record. Records that fail to load are
// skipped and logged; their names are returned in skipped.
func (s *Store) LoadAll() (records []*Record, skipped []string, err error) {
	names, err := s.List()
	if err != nil {
		return nil, nil, err
	}
	for _, name := range names {
		r, err := s.Load(name)
		if err != nil {
			s.logger.Error("skipping unreadable record", "name", name, "error", err)
			skipped = append(skipped, name)
			continue
		}
		records = append(records, r)
	}
	return records, skipped, nil
}

// Delete removes the record for name.
func (s *Store) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	path := s.RecordPath(name)
	if !storage.FileExists(path) {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, name)
	}
	if err := storage.RemoveFile(path); err != nil {
		return fmt.Errorf("delete record %s: %w", name, err)
	}
	s.logger.Debug("record deleted", "name", name)
	return nil
}
