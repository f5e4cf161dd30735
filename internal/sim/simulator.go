// Package sim integrates the overdamped Langevin motion of a tethered bead.
//
// Each axis evolves as an independent Euler–Maruyama chain
//
//	p[i] = p[i-1] + k*D*(-p[i-1])*dt/(kB*T) - kTether*p[i-1]*dt/gamma + sqrt(kB*T/k)*N(0,1)
//
// where k is the per-axis stiffness from physics.Parameters. The thermal
// kick carries the full equipartition amplitude sqrt(kB*T/k) at every step;
// it is not scaled by sqrt(dt), matching the reference discretization.
package sim

import (
	"context"
	"sync"

	"github.com/san-kum/beadsim/internal/noise"
	"github.com/san-kum/beadsim/internal/physics"
)

// Simulator advances the three axes of one bead. The three axes are
// mutually independent and run concurrently; each consumes its own noise
// source, so results are bit-identical across runs for equal seeds.
type Simulator struct {
	params    physics.Parameters
	sources   [physics.AxisCount]noise.Source
	observers []Observer
}

func New(params physics.Parameters, sources [physics.AxisCount]noise.Source) *Simulator {
	return &Simulator{params: params, sources: sources}
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates all axes to completion. On context cancellation the
// partial result is returned together with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result := &Result{StepsTaken: cfg.Steps}
	var (
		errs [physics.AxisCount]error
		done [physics.AxisCount]int
	)

	var wg sync.WaitGroup
	for axis := physics.X; axis < physics.AxisCount; axis++ {
		wg.Add(1)
		go func(a physics.Axis) {
			defer wg.Done()
			var err error
			result.Full[a], result.Captured[a], done[a], err = s.runAxis(ctx, a, cfg)
			result.NonFinite[a] = !result.Full[a].IsFinite()
			errs[a] = err
		}(axis)
	}
	wg.Wait()

	for _, d := range done {
		if d < result.StepsTaken {
			result.StepsTaken = d
		}
	}
	for _, err := range errs {
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

func (s *Simulator) runAxis(ctx context.Context, axis physics.Axis, cfg Config) (Series, Series, int, error) {
	var (
		kBT   = s.params.ThermalEnergy()
		relax = s.params.Stiffness(axis) * s.params.Diffusion * cfg.Dt / kBT
		pull  = s.params.TetherStiffness * cfg.Dt / s.params.Friction()
		amp   = s.params.ThermalAmplitude(axis)
		src   = s.sources[axis]
	)

	full := make(Series, cfg.Steps)
	captured := make(Series, 0, cfg.Steps/cfg.CaptureEvery)

	capture := func(step int, v float64) {
		captured = append(captured, v)
		t := float64(step+1) * cfg.Dt
		for _, o := range s.observers {
			o.OnCapture(axis, v, t)
		}
	}

	// Camera samples land on 1-based step indices that are exact multiples
	// of the stride, so the pinned initial position is only ever captured
	// in the stride-1 case.
	if cfg.CaptureEvery == 1 {
		capture(0, 0)
	}

	pos := 0.0
	for i := 1; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return full[:i], captured, i, ctx.Err()
		default:
		}

		pos += -relax*pos - pull*pos + amp*src.Norm()
		full[i] = pos
		if (i+1)%cfg.CaptureEvery == 0 {
			capture(i, pos)
		}
	}
	return full, captured, cfg.Steps, nil
}

// Decimate returns the camera subsequence of a full-resolution series for a
// given stride: values at 1-based indices stride, 2*stride, ...
func Decimate(full Series, stride int) Series {
	if stride < 1 {
		stride = 1
	}
	out := make(Series, 0, len(full)/stride)
	for i := stride - 1; i < len(full); i += stride {
		out = append(out, full[i])
	}
	return out
}
