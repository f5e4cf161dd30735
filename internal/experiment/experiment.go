// Package experiment wires the trajectory integrator to the spectral
// analyzer: one call takes a validated parameter set to per-axis spectra,
// fits and summary statistics.
package experiment

import (
	"context"
	"sync"
	"time"

	"github.com/san-kum/beadsim/internal/metrics"
	"github.com/san-kum/beadsim/internal/noise"
	"github.com/san-kum/beadsim/internal/physics"
	"github.com/san-kum/beadsim/internal/sim"
	"github.com/san-kum/beadsim/internal/spectral"
)

// AxisResult is the full analyzer output for one axis. A failed fit leaves
// Fit nil and FitErr set; the PSD and summary are still valid so the raw
// spectrum is never discarded.
type AxisResult struct {
	Axis      physics.Axis
	PSD       *spectral.PSD
	Fit       *spectral.Fit
	FitErr    error
	Summary   spectral.Summary
	NonFinite bool
}

// Report is the immutable outcome of one pipeline run.
type Report struct {
	Params  physics.Parameters
	Seed    uint64
	Sim     *sim.Result
	Axes    [physics.AxisCount]AxisResult
	Metrics map[string]float64
	Elapsed time.Duration
}

// Options tune the analyzer half of the pipeline. The zero value reproduces
// the reference computation.
type Options struct {
	Spectral spectral.Options
}

// Run executes the whole pipeline: validate, integrate, analyze.
// Configuration errors abort before any step runs; per-axis fit failures
// are recorded on the axis result and do not stop the other axes.
func Run(ctx context.Context, params physics.Parameters, seed uint64, opts Options) (*Report, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	var sources [physics.AxisCount]noise.Source
	for a := 0; a < physics.AxisCount; a++ {
		sources[a] = noise.NewGaussian(noise.Split(seed, a))
	}

	perAxis := metrics.NewPerAxis(func() []metrics.Metric {
		return []metrics.Metric{metrics.NewVariance(), metrics.NewRMS(), metrics.NewNonFinite()}
	})

	simulator := sim.New(params, sources)
	simulator.AddObserver(perAxis)

	cfg := sim.Config{Dt: params.Dt, Steps: params.Steps, CaptureEvery: params.CaptureStride()}
	simResult, err := simulator.Run(ctx, cfg)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Params:  params,
		Seed:    seed,
		Sim:     simResult,
		Metrics: perAxis.Values(),
	}

	fs := params.SampleRate()
	var wg sync.WaitGroup
	for axis := physics.X; axis < physics.AxisCount; axis++ {
		wg.Add(1)
		go func(a physics.Axis) {
			defer wg.Done()
			report.Axes[a] = Analyze(a, simResult.Captured[a], fs, opts.Spectral)
			report.Axes[a].NonFinite = simResult.NonFinite[a]
		}(axis)
	}
	wg.Wait()

	report.Elapsed = time.Since(start)
	return report, nil
}

// Analyze runs the stateless analyzer on one captured series: periodogram,
// Lorentzian fit, summary statistics. Axes may be analyzed in any order or
// in parallel with identical results.
func Analyze(axis physics.Axis, captured []float64, fs float64, opts spectral.Options) AxisResult {
	res := AxisResult{
		Axis:    axis,
		Summary: spectral.Summarize(captured),
	}

	psd, err := spectral.Periodogram(captured, fs, opts)
	if err != nil {
		res.FitErr = err
		return res
	}
	res.PSD = psd

	fit, err := spectral.FitLorentzian(psd)
	if err != nil {
		res.FitErr = err
		return res
	}
	res.Fit = fit
	return res
}

// FitFailed reports whether any axis's fit did not converge.
func (r *Report) FitFailed() bool {
	for _, ax := range r.Axes {
		if ax.FitErr != nil {
			return true
		}
	}
	return false
}
