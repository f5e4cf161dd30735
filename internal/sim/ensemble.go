package sim

import (
	"context"
	"sync"

	"github.com/san-kum/beadsim/internal/noise"
	"github.com/san-kum/beadsim/internal/physics"
)

// Ensemble runs independent realizations of the same bead in parallel.
// Realization idx draws its axis streams from noise.Split(seed+idx, axis),
// so the whole ensemble reproduces from a single run seed.
type Ensemble struct {
	params  physics.Parameters
	numRuns int
	seed    uint64
}

func NewEnsemble(params physics.Parameters, numRuns int, seed uint64) *Ensemble {
	return &Ensemble{params: params, numRuns: numRuns, seed: seed}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			var sources [physics.AxisCount]noise.Source
			for a := 0; a < physics.AxisCount; a++ {
				sources[a] = noise.NewGaussian(noise.Split(e.seed+uint64(idx), a))
			}

			s := New(e.params, sources)
			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
