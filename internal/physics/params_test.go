package physics

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	p := Default()
	if err := p.Validate(); err != nil {
		t.Fatalf("default parameters should validate: %v", err)
	}
}

func TestValidateRejectsNonPositive(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Parameters)
	}{
		{"zero temperature", func(p *Parameters) { p.Temperature = 0 }},
		{"negative force", func(p *Parameters) { p.Force = -1e-12 }},
		{"zero extension", func(p *Parameters) { p.Extension = 0 }},
		{"zero dt", func(p *Parameters) { p.Dt = 0 }},
		{"zero capture interval", func(p *Parameters) { p.CaptureInterval = 0 }},
		{"zero steps", func(p *Parameters) { p.Steps = 0 }},
		{"nan diffusion", func(p *Parameters) { p.Diffusion = math.NaN() }},
		{"inf stiffness", func(p *Parameters) { p.TetherStiffness = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Default()
			tt.mutate(&p)
			if err := p.Validate(); !errors.Is(err, ErrNonPositive) {
				t.Errorf("expected ErrNonPositive, got %v", err)
			}
		})
	}
}

func TestValidateRejectsOverstretch(t *testing.T) {
	p := Default()
	p.Extension = p.ContourLength
	if err := p.Validate(); !errors.Is(err, ErrOverstretched) {
		t.Errorf("expected ErrOverstretched at full extension, got %v", err)
	}

	p.Extension = p.ContourLength * 1.5
	if err := p.Validate(); !errors.Is(err, ErrOverstretched) {
		t.Errorf("expected ErrOverstretched beyond contour length, got %v", err)
	}
}

func TestAxialStiffnessFiniteAndPositive(t *testing.T) {
	extensions := []float64{1e-7, 1e-6, 3.5e-6, 6e-6, 6.99e-6}
	for _, ext := range extensions {
		p := Default()
		p.Extension = ext
		kz := p.Stiffness(Z)
		if math.IsNaN(kz) || math.IsInf(kz, 0) {
			t.Errorf("extension %g: kz not finite: %g", ext, kz)
		}
		if kz <= 0 {
			t.Errorf("extension %g: kz not positive: %g", ext, kz)
		}
	}
}

func TestStiffnessOrdering(t *testing.T) {
	p := Default()
	kx := p.Stiffness(X)
	ky := p.Stiffness(Y)
	if ky >= kx {
		t.Errorf("ky should be softer than kx (longer lever arm): kx=%g ky=%g", kx, ky)
	}
	if got, want := kx, p.Force/p.Extension; math.Abs(got-want) > 1e-20 {
		t.Errorf("kx = %g, want %g", got, want)
	}
}

func TestFrictionEinsteinRelation(t *testing.T) {
	p := Default()
	want := Boltzmann * p.Temperature / p.Diffusion
	if got := p.Friction(); math.Abs(got-want)/want > 1e-15 {
		t.Errorf("friction = %g, want %g", got, want)
	}
}

func TestCaptureStride(t *testing.T) {
	tests := []struct {
		dt, interval float64
		steps        int
		stride       int
		count        int
	}{
		{5e-6, 0.001, 1000000, 200, 5000},
		{0.01, 0.1, 1000, 10, 100},
		{0.01, 0.095, 1000, 10, 100},  // non-exact multiple rounds to nearest
		{0.01, 0.004, 1000, 1, 1000},  // interval below dt clamps to 1
		{0.01, 0.025, 101, 3, 33},     // truncating division on the count
	}

	for _, tt := range tests {
		p := Default()
		p.Dt = tt.dt
		p.CaptureInterval = tt.interval
		p.Steps = tt.steps
		if got := p.CaptureStride(); got != tt.stride {
			t.Errorf("dt=%g interval=%g: stride = %d, want %d", tt.dt, tt.interval, got, tt.stride)
		}
		if got := p.CaptureCount(); got != tt.count {
			t.Errorf("dt=%g interval=%g steps=%d: count = %d, want %d",
				tt.dt, tt.interval, tt.steps, got, tt.count)
		}
	}
}

func TestAxisString(t *testing.T) {
	if X.String() != "x" || Y.String() != "y" || Z.String() != "z" {
		t.Errorf("unexpected axis names: %s %s %s", X, Y, Z)
	}
}
