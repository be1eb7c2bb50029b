package accept

import (
	"context"
	"runtime"
	"sync"

	"GoDFA/internal/automaton"
)

// Verdict is the outcome for one input string.
type Verdict struct {
	Input    string `json:"input"`
	Accepted bool   `json:"accepted"`
}

// EvaluateAll runs Accepts for every input, fanning the work out over
// workers goroutines. Verdicts keep the order of inputs. workers <= 0 uses
// GOMAXPROCS. Returns ctx.Err() if the context is cancelled before every
// input has been evaluated.
func EvaluateAll(ctx context.Context, dfa *automaton.Automaton, inputs []string, workers int) ([]Verdict, error) {
	verdicts := make([]Verdict, len(inputs))
	if len(inputs) == 0 {
		return verdicts, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	next := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				verdicts[i] = Verdict{Input: inputs[i], Accepted: Accepts(dfa, inputs[i])}
			}
		}()
	}

	var err error
feed:
	for i := range inputs {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case next <- i:
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		}
	}
	close(next)
	wg.Wait()

	if err != nil {
		return nil, err
	}
	return verdicts, nil
}
