// Package noise provides the injectable randomness sources driving the
// thermal term of the bead simulation. Every source is seedable so that
// runs reproduce bit-identically.
package noise

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source yields independent standard-normal draws, one per (axis, step).
type Source interface {
	Norm() float64
}

// Gaussian draws from N(0,1) using gonum's ziggurat sampler over a seeded
// PCG stream. Not safe for concurrent use; give each axis its own instance.
type Gaussian struct {
	dist distuv.Normal
}

// NewGaussian returns a standard-normal source seeded with seed.
func NewGaussian(seed uint64) *Gaussian {
	return &Gaussian{dist: distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)}}
}

func (g *Gaussian) Norm() float64 { return g.dist.Rand() }

// Zero is a degenerate source whose draws are always zero. It exposes the
// pure-drift behavior of the integrator in tests.
type Zero struct{}

func (Zero) Norm() float64 { return 0 }

// Split derives the stream seed for one axis from a run seed. The mix keeps
// per-axis streams decorrelated even for adjacent run seeds.
func Split(seed uint64, axis int) uint64 {
	s := seed + uint64(axis+1)*0x9e3779b97f4a7c15
	s ^= s >> 30
	s *= 0xbf58476d1ce4e5b9
	s ^= s >> 27
	return s
}
