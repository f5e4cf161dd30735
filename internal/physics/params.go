package physics

import (
	"errors"
	"fmt"
	"math"
)

// Boltzmann constant in J/K.
const Boltzmann = 1.380649e-23

// Axis indexes the three independent spatial coordinates of the bead.
type Axis int

const (
	X Axis = iota
	Y
	Z

	AxisCount = 3
)

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// Domain errors for parameter validation.
var (
	// ErrNonPositive indicates a parameter that must be strictly positive.
	ErrNonPositive = errors.New("physics: parameter must be positive")

	// ErrOverstretched indicates an extension at or beyond the contour
	// length, where the worm-like-chain stiffness diverges.
	ErrOverstretched = errors.New("physics: extension must be smaller than contour length")
)

// Parameters describe a bead tethered by a polymer linker under constant
// external force. All values are SI: meters, seconds, Newtons, Kelvin.
type Parameters struct {
	Temperature       float64 `json:"temperature" yaml:"temperature"`               // K
	Force             float64 `json:"force" yaml:"force"`                           // N, constant external force
	Extension         float64 `json:"extension" yaml:"extension"`                   // m, tether extension
	BeadRadius        float64 `json:"bead_radius" yaml:"bead_radius"`               // m
	PersistenceLength float64 `json:"persistence_length" yaml:"persistence_length"` // m
	ContourLength     float64 `json:"contour_length" yaml:"contour_length"`         // m
	Diffusion         float64 `json:"diffusion" yaml:"diffusion"`                   // m^2/s
	Dt                float64 `json:"dt" yaml:"dt"`                                 // s, simulation timestep
	Steps             int     `json:"steps" yaml:"steps"`                           // number of simulated steps
	CaptureInterval   float64 `json:"capture_interval" yaml:"capture_interval"`     // s, camera sampling period
	TetherStiffness   float64 `json:"tether_stiffness" yaml:"tether_stiffness"`     // N/m
}

// Default returns the reference magnetic-tweezers configuration: a 1 um bead
// on a 7 um DNA tether stretched to 4.9 um under 10 pN at room temperature.
func Default() Parameters {
	return Parameters{
		Temperature:       298,
		Force:             1e-11,
		Extension:         4.9e-6,
		BeadRadius:        1e-6,
		PersistenceLength: 50e-9,
		ContourLength:     7e-6,
		Diffusion:         1e-12,
		Dt:                5e-6,
		Steps:             1000000,
		CaptureInterval:   0.001,
		TetherStiffness:   6e-4,
	}
}

// Validate checks the parameter set before any simulation step runs.
// A configuration error here aborts the run; it is never deferred to a NaN
// surfacing mid-trajectory.
func (p *Parameters) Validate() error {
	positives := []struct {
		name string
		val  float64
	}{
		{"temperature", p.Temperature},
		{"force", p.Force},
		{"extension", p.Extension},
		{"bead_radius", p.BeadRadius},
		{"persistence_length", p.PersistenceLength},
		{"contour_length", p.ContourLength},
		{"diffusion", p.Diffusion},
		{"dt", p.Dt},
		{"capture_interval", p.CaptureInterval},
		{"tether_stiffness", p.TetherStiffness},
	}
	for _, q := range positives {
		if q.val <= 0 || math.IsNaN(q.val) || math.IsInf(q.val, 0) {
			return fmt.Errorf("%w: %s = %g", ErrNonPositive, q.name, q.val)
		}
	}
	if p.Steps < 1 {
		return fmt.Errorf("%w: steps = %d", ErrNonPositive, p.Steps)
	}
	if p.Extension >= p.ContourLength {
		return fmt.Errorf("%w: extension %g >= contour length %g",
			ErrOverstretched, p.Extension, p.ContourLength)
	}
	return nil
}

// ThermalEnergy returns kB*T in Joules.
func (p *Parameters) ThermalEnergy() float64 {
	return Boltzmann * p.Temperature
}

// Friction returns the drag coefficient gamma = kB*T/D from the Einstein
// relation, in N*s/m.
func (p *Parameters) Friction() float64 {
	return p.ThermalEnergy() / p.Diffusion
}

// Stiffness returns the effective spring coefficient for one axis, in N/m.
// The transverse axes see the pendulum stiffness of the stretched tether
// (F/Lext and F/(Lext+R)); the pulling axis sees the entropic worm-like-chain
// stiffness, which diverges as the extension approaches the contour length.
func (p *Parameters) Stiffness(axis Axis) float64 {
	switch axis {
	case X:
		return p.Force / p.Extension
	case Y:
		return p.Force / (p.Extension + p.BeadRadius)
	default:
		rel := p.Extension / p.ContourLength
		return p.ThermalEnergy() / (2 * p.PersistenceLength * p.ContourLength) *
			(2 + 1/((1-rel)*(1-rel)*(1-rel)))
	}
}

// ThermalAmplitude returns the equipartition displacement scale
// sqrt(kB*T/k) for one axis, in meters.
func (p *Parameters) ThermalAmplitude(axis Axis) float64 {
	return math.Sqrt(p.ThermalEnergy() / p.Stiffness(axis))
}

// CaptureStride returns the number of simulation steps between camera
// samples, rounded to the nearest integer and never less than one.
func (p *Parameters) CaptureStride() int {
	stride := int(math.Round(p.CaptureInterval / p.Dt))
	if stride < 1 {
		stride = 1
	}
	return stride
}

// CaptureCount returns the captured-series length floor(Steps/stride).
func (p *Parameters) CaptureCount() int {
	return p.Steps / p.CaptureStride()
}

// SampleRate returns the camera sampling rate 1/CaptureInterval in Hz.
func (p *Parameters) SampleRate() float64 {
	return 1 / p.CaptureInterval
}
