package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/beadsim/internal/physics"
)

// Series is an ordered sequence of positions along one axis, in meters.
type Series []float64

func (s Series) Clone() Series {
	c := make(Series, len(s))
	copy(c, s)
	return c
}

// IsFinite reports whether every value in the series is a real number.
func (s Series) IsFinite() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Trajectory bundles the three per-axis series of one run, indexed by
// physics.Axis.
type Trajectory [physics.AxisCount]Series

// Config holds the discretization of a run.
type Config struct {
	Dt           float64 // s per step
	Steps        int     // number of positions in the full trajectory
	CaptureEvery int     // steps between camera samples
}

// ErrInvalidConfig indicates a run configuration rejected before stepping.
var ErrInvalidConfig = errors.New("sim: invalid configuration")

func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt = %g", ErrInvalidConfig, c.Dt)
	}
	if c.Steps < 1 {
		return fmt.Errorf("%w: steps = %d", ErrInvalidConfig, c.Steps)
	}
	if c.CaptureEvery < 1 {
		return fmt.Errorf("%w: capture stride = %d", ErrInvalidConfig, c.CaptureEvery)
	}
	return nil
}

// Observer is notified of every captured (camera) sample. Captures for a
// single axis arrive in order; different axes may notify concurrently, so
// implementations must not share state across axes.
type Observer interface {
	OnCapture(axis physics.Axis, value, t float64)
}

// Result is the immutable outcome of one run. NonFinite flags axes whose
// trajectory carries NaN or Inf values; such values are propagated, not
// masked, and the flag is the detectable summary of the degeneracy.
type Result struct {
	Full       Trajectory
	Captured   Trajectory
	NonFinite  [physics.AxisCount]bool
	StepsTaken int
}

// AnyNonFinite reports whether any axis produced a non-finite value.
func (r *Result) AnyNonFinite() bool {
	for _, bad := range r.NonFinite {
		if bad {
			return true
		}
	}
	return false
}
