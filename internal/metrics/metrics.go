// Package metrics provides streaming statistics over captured camera
// samples. Each metric is a single-axis accumulator; PerAxis fans one set
// of metrics out over the three axes of a run.
package metrics

import "math"

type Metric interface {
	Name() string
	Observe(v float64)
	Value() float64
	Reset()
}

// Variance accumulates the population variance of the observed samples
// with Welford's update, so a million-sample run needs no second pass.
type Variance struct {
	n    int
	mean float64
	m2   float64
}

func NewVariance() *Variance { return &Variance{} }

func (v *Variance) Name() string { return "variance" }

func (v *Variance) Observe(x float64) {
	v.n++
	d := x - v.mean
	v.mean += d / float64(v.n)
	v.m2 += d * (x - v.mean)
}

func (v *Variance) Value() float64 {
	if v.n == 0 {
		return 0
	}
	return v.m2 / float64(v.n)
}

func (v *Variance) Reset() { *v = Variance{} }

// Mean exposes the running mean alongside the variance.
func (v *Variance) Mean() float64 { return v.mean }

// RMS accumulates the root-mean-square displacement of the observed samples.
type RMS struct {
	n     int
	sumSq float64
}

func NewRMS() *RMS { return &RMS{} }

func (r *RMS) Name() string { return "rmsd" }

func (r *RMS) Observe(x float64) {
	r.n++
	r.sumSq += x * x
}

func (r *RMS) Value() float64 {
	if r.n == 0 {
		return 0
	}
	return math.Sqrt(r.sumSq / float64(r.n))
}

func (r *RMS) Reset() { *r = RMS{} }

// NonFinite counts NaN and Inf samples so a degenerate trajectory is
// detectable before anything is written to disk.
type NonFinite struct {
	count int
}

func NewNonFinite() *NonFinite { return &NonFinite{} }

func (n *NonFinite) Name() string { return "non_finite_samples" }

func (n *NonFinite) Observe(x float64) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		n.count++
	}
}

func (n *NonFinite) Value() float64 { return float64(n.count) }

func (n *NonFinite) Reset() { n.count = 0 }
