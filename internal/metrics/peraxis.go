package metrics

import "github.com/san-kum/beadsim/internal/physics"

// PerAxis holds one independent metric set per axis and satisfies
// sim.Observer. Axes never share an accumulator, so concurrent axis
// goroutines need no locking.
type PerAxis struct {
	sets [physics.AxisCount][]Metric
}

// NewPerAxis builds a PerAxis whose per-axis sets come from factory, called
// once per axis.
func NewPerAxis(factory func() []Metric) *PerAxis {
	p := &PerAxis{}
	for a := 0; a < physics.AxisCount; a++ {
		p.sets[a] = factory()
	}
	return p
}

func (p *PerAxis) OnCapture(axis physics.Axis, v, t float64) {
	for _, m := range p.sets[axis] {
		m.Observe(v)
	}
}

// Axis returns the metric set for one axis.
func (p *PerAxis) Axis(axis physics.Axis) []Metric { return p.sets[axis] }

// Values flattens the current metric values into a name-keyed map with
// axis-prefixed keys ("x.variance", ...).
func (p *PerAxis) Values() map[string]float64 {
	out := make(map[string]float64)
	for a := 0; a < physics.AxisCount; a++ {
		for _, m := range p.sets[a] {
			out[physics.Axis(a).String()+"."+m.Name()] = m.Value()
		}
	}
	return out
}

// Reset resets every metric on every axis.
func (p *PerAxis) Reset() {
	for a := range p.sets {
		for _, m := range p.sets[a] {
			m.Reset()
		}
	}
}
