package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/beadsim/internal/physics"
)

func TestVarianceMatchesTwoPass(t *testing.T) {
	data := []float64{1.5, -2.25, 0.0, 3.75, 1.125, -0.5}

	v := NewVariance()
	for _, x := range data {
		v.Observe(x)
	}

	var mean float64
	for _, x := range data {
		mean += x
	}
	mean /= float64(len(data))
	var want float64
	for _, x := range data {
		want += (x - mean) * (x - mean)
	}
	want /= float64(len(data))

	if math.Abs(v.Value()-want) > 1e-12 {
		t.Errorf("variance = %g, want %g", v.Value(), want)
	}
	if math.Abs(v.Mean()-mean) > 1e-12 {
		t.Errorf("mean = %g, want %g", v.Mean(), mean)
	}
}

func TestVarianceDegenerate(t *testing.T) {
	v := NewVariance()
	if v.Value() != 0 {
		t.Error("empty variance should be 0")
	}

	for i := 0; i < 5; i++ {
		v.Observe(3.25)
	}
	if v.Value() != 0 {
		t.Errorf("constant series variance = %g, want 0", v.Value())
	}
}

func TestRMS(t *testing.T) {
	r := NewRMS()
	if r.Value() != 0 {
		t.Error("empty RMS should be 0")
	}

	for i := 0; i < 4; i++ {
		r.Observe(-2.5)
	}
	if got := r.Value(); math.Abs(got-2.5) > 1e-12 {
		t.Errorf("RMS of constant -2.5 = %g, want 2.5", got)
	}

	r.Reset()
	r.Observe(3)
	r.Observe(4)
	if got, want := r.Value(), math.Sqrt(12.5); math.Abs(got-want) > 1e-12 {
		t.Errorf("RMS = %g, want %g", got, want)
	}
}

func TestNonFinite(t *testing.T) {
	n := NewNonFinite()
	n.Observe(1)
	n.Observe(math.NaN())
	n.Observe(math.Inf(1))
	n.Observe(math.Inf(-1))
	n.Observe(0)

	if got := n.Value(); got != 3 {
		t.Errorf("non-finite count = %g, want 3", got)
	}

	n.Reset()
	if n.Value() != 0 {
		t.Error("reset should clear the count")
	}
}

func TestReset(t *testing.T) {
	v := NewVariance()
	v.Observe(1)
	v.Observe(2)
	v.Reset()
	v.Observe(5)
	if v.Value() != 0 {
		t.Errorf("variance after reset with one sample = %g, want 0", v.Value())
	}
}

func TestPerAxisIsolation(t *testing.T) {
	p := NewPerAxis(func() []Metric { return []Metric{NewVariance(), NewRMS()} })

	p.OnCapture(physics.X, 2, 0.1)
	p.OnCapture(physics.X, -2, 0.2)
	p.OnCapture(physics.Y, 10, 0.1)

	vals := p.Values()
	if got := vals["x.variance"]; math.Abs(got-4) > 1e-12 {
		t.Errorf("x.variance = %g, want 4", got)
	}
	if got := vals["x.rmsd"]; math.Abs(got-2) > 1e-12 {
		t.Errorf("x.rmsd = %g, want 2", got)
	}
	if got := vals["y.variance"]; got != 0 {
		t.Errorf("y.variance = %g, want 0 (single sample)", got)
	}
	if got := vals["z.rmsd"]; got != 0 {
		t.Errorf("z.rmsd = %g, want 0 (no samples)", got)
	}

	p.Reset()
	if p.Values()["x.rmsd"] != 0 {
		t.Error("reset should clear every axis")
	}
}
