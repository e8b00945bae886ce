package sim

import (
	"context"
	"sync"
)

// Ensemble runs independent simulators side by side. Each simulator is
// still ticked by exactly one goroutine.
type Ensemble struct {
	sims []*Simulator
}

func NewEnsemble(sims ...*Simulator) *Ensemble {
	return &Ensemble{sims: sims}
}

// Run ticks every simulator the same number of times.
func (e *Ensemble) Run(ctx context.Context, ticks int) ([]*Result, error) {
	counts := make([]int, len(e.sims))
	for i := range counts {
		counts[i] = ticks
	}
	results, errs := e.RunEach(ctx, counts)
	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// RunEach ticks simulator i ticks[i] times and reports each run's error
// separately. A missing or non-positive tick count fails that run with
// ErrInvalidParams, as Simulator.Run does.
func (e *Ensemble) RunEach(ctx context.Context, ticks []int) ([]*Result, []error) {
	results := make([]*Result, len(e.sims))
	errs := make([]error, len(e.sims))

	var wg sync.WaitGroup
	for i, s := range e.sims {
		wg.Add(1)
		go func(idx int, s *Simulator) {
			defer wg.Done()
			n := 0
			if idx < len(ticks) {
				n = ticks[idx]
			}
			results[idx], errs[idx] = s.Run(ctx, n)
		}(i, s)
	}

	wg.Wait()
	return results, errs
}
