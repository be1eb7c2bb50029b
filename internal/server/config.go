package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"GoDFA/internal/subset"
)

// Config configures the automaton service.
type Config struct {
	// Port the HTTP server listens on.
	Port string `json:"port"`

	// DataDir is the root of the on-disk automaton store.
	DataDir string `json:"data_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level"`

	// MaxDFAStates bounds subset construction per registered automaton.
	// Zero or negative means unbounded.
	MaxDFAStates int `json:"max_dfa_states"`

	// MatchWorkers is the number of goroutines evaluating one match request.
	// Zero or negative uses GOMAXPROCS.
	MatchWorkers int `json:"match_workers"`

	// MatchTimeout is the maximum time for one match request.
	MatchTimeout time.Duration `json:"match_timeout"`

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `json:"max_body_bytes"`

	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:         "8080",
		DataDir:      "data",
		LogLevel:     "info",
		MaxDFAStates: subset.DefaultMaxStates,
		MatchTimeout: 10 * time.Second,
		MaxBodyBytes: 8 << 20,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// Environment variables read by LoadConfig.
const (
	EnvPort         = "GODFA_PORT"
	EnvDataDir      = "GODFA_DATA_DIR"
	EnvLogLevel     = "GODFA_LOG_LEVEL"
	EnvMaxDFAStates = "GODFA_MAX_DFA_STATES"
	EnvMatchWorkers = "GODFA_MATCH_WORKERS"
)

var ErrInvalidConfig = errors.New("invalid config")

// LoadConfig starts from DefaultConfig, overlays the JSON file at path when
// path is non-empty, then applies environment overrides read through getenv.
func LoadConfig(path string, getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
		}
	}

	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvPort); v != "" {
		cfg.Port = v
	}
	if v := getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	for _, o := range []struct {
		key string
		dst *int
	}{
		{EnvMaxDFAStates, &cfg.MaxDFAStates},
		{EnvMatchWorkers, &cfg.MatchWorkers},
	} {
		v := getenv(o.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, o.key, v)
		}
		*o.dst = n
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields that have no usable fallback.
func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, fmt.Errorf("%w: port is empty", ErrInvalidConfig))
	}
	if c.DataDir == "" {
		errs = append(errs, fmt.Errorf("%w: data_dir is empty", ErrInvalidConfig))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}
