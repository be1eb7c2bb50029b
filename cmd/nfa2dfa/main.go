// Command nfa2dfa converts an NFA definition to an equivalent DFA, prints both
// transition tables and reports which strings the DFA accepts.
//
//	nfa2dfa [flags] <definition> <strings>
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"GoDFA/internal/accept"
	"GoDFA/internal/automaton"
	"GoDFA/internal/definition"
	"GoDFA/internal/render"
	"GoDFA/internal/subset"
)

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdout, os.Stderr)
}

type options struct {
	seed      subset.SeedMode
	maxStates int
	format    string
	workers   int
	verify    bool
	level     slog.Level
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("nfa2dfa", flag.ContinueOnError)
	fs.SetOutput(stderr)
	seedFlag := fs.String("seed", "closure", "DFA start state: closure (epsilon-closure of the initial state) or initial")
	maxStates := fs.Int("max-states", subset.DefaultMaxStates, "abort if the DFA grows beyond this many states (0 = unbounded)")
	format := fs.String("format", "table", "output format: table, json, dot or mermaid")
	workers := fs.Int("workers", 0, "parallel string evaluators (0 = GOMAXPROCS)")
	verify := fs.Bool("verify", false, "cross-check every verdict against direct NFA simulation")
	logLevel := fs.String("log-level", "warn", "log level: debug, info, warn or error")
	var usageErr error
	fs.Usage = func() {
		usageErr = errors.Join(
			usageErr,
			writef(stderr, "Usage: %s [flags] <definition> <strings>\n\n", fs.Name()),
			writeln(stderr, "Converts an NFA with epsilon moves to a DFA and evaluates strings against it."),
			writeln(stderr),
			writeln(stderr, "Options:"),
		)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	usage := func(msg string) int {
		if err := writeln(stderr, "error: "+msg); err != nil {
			return 1
		}
		fs.Usage()
		if usageErr != nil {
			return 1
		}
		return 2
	}

	opts := options{
		maxStates: *maxStates,
		format:    *format,
		workers:   *workers,
		verify:    *verify,
	}
	var err error
	if opts.seed, err = subset.ParseSeedMode(*seedFlag); err != nil {
		return usage(err.Error())
	}
	if err := opts.level.UnmarshalText([]byte(*logLevel)); err != nil {
		return usage(fmt.Sprintf("invalid -log-level %q", *logLevel))
	}
	if opts.maxStates < 0 {
		return usage("-max-states must not be negative")
	}
	switch opts.format {
	case "table", "json":
		if fs.NArg() != 2 {
			return usage("a definition file and a strings file are required")
		}
	case "dot", "mermaid":
		if fs.NArg() < 1 || fs.NArg() > 2 {
			return usage("a definition file is required")
		}
	default:
		return usage(fmt.Sprintf("unknown -format %q", opts.format))
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: opts.level}))

	if err := convert(context.Background(), fs.Args(), opts, stdout, stderr, logger); err != nil {
		_ = writef(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func convert(ctx context.Context, paths []string, opts options, stdout, stderr io.Writer, logger *slog.Logger) error {
	nfa, err := definition.LoadFile(paths[0])
	if err != nil {
		return err
	}
	res, err := subset.Convert(nfa, subset.Options{
		Seed:      opts.seed,
		MaxStates: opts.maxStates,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("convert %s: %w", paths[0], err)
	}

	switch opts.format {
	case "dot":
		return writeString(stdout, render.ToDOT(res.DFA))
	case "mermaid":
		return writeString(stdout, render.ToMermaid(res.DFA))
	}

	inputs, err := definition.LoadStrings(paths[1])
	if err != nil {
		return err
	}
	verdicts, err := accept.EvaluateAll(ctx, res.DFA, inputs, opts.workers)
	if err != nil {
		return err
	}
	logger.Info("strings evaluated", "path", paths[1], "count", len(verdicts))

	if opts.verify {
		if err := verifyVerdicts(nfa, opts.seed, verdicts, stderr); err != nil {
			return err
		}
	}

	if opts.format == "json" {
		return writeJSONReport(stdout, nfa, res, verdicts)
	}
	return render.WriteReport(stdout, render.Report{
		NFA:      nfa,
		DFA:      res.DFA,
		Source:   filepath.Base(paths[1]),
		Verdicts: verdicts,
	})
}

var errVerifyFailed = errors.New("DFA disagrees with NFA simulation")

// verifyVerdicts simulates the NFA from the same seed the DFA was built from
// and reports every verdict the two disagree on.
func verifyVerdicts(nfa *automaton.Automaton, seed subset.SeedMode, verdicts []accept.Verdict, stderr io.Writer) error {
	start := subset.SeedSet(nfa, seed)
	mismatches := 0
	for i, v := range verdicts {
		if want := accept.SimulateFrom(nfa, start, v.Input); want != v.Accepted {
			mismatches++
			if err := writef(stderr, "mismatch: string %d %q: dfa=%t nfa=%t\n", i+1, v.Input, v.Accepted, want); err != nil {
				return err
			}
		}
	}
	if mismatches > 0 {
		return fmt.Errorf("%w on %d of %d strings", errVerifyFailed, mismatches, len(verdicts))
	}
	return nil
}

type jsonState struct {
	Label int    `json:"label"`
	Set   string `json:"set"`
}

func writeJSONReport(w io.Writer, nfa *automaton.Automaton, res *subset.Result, verdicts []accept.Verdict) error {
	sets := make([]jsonState, 0, res.DFA.Len())
	for _, l := range res.DFA.Labels() {
		set, _ := res.SetOf(l)
		sets = append(sets, jsonState{Label: int(l), Set: set.String()})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"nfa":     nfa.Document(),
		"dfa":     res.DFA.Document(),
		"sets":    sets,
		"results": verdicts,
	})
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
