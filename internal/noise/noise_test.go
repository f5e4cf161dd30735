package noise

import (
	"math"
	"testing"
)

func TestGaussianDeterministic(t *testing.T) {
	a := NewGaussian(42)
	b := NewGaussian(42)

	for i := 0; i < 1000; i++ {
		if a.Norm() != b.Norm() {
			t.Fatalf("draw %d differs between equally-seeded sources", i)
		}
	}
}

func TestGaussianSeedsDiffer(t *testing.T) {
	a := NewGaussian(1)
	b := NewGaussian(2)

	same := 0
	for i := 0; i < 100; i++ {
		if a.Norm() == b.Norm() {
			same++
		}
	}
	if same == 100 {
		t.Error("differently-seeded sources produced identical streams")
	}
}

func TestGaussianMoments(t *testing.T) {
	g := NewGaussian(7)
	const n = 200000

	var sum, sumSq float64
	for i := 0; i < n; i++ {
		v := g.Norm()
		sum += v
		sumSq += v * v
	}
	mean := sum / n
	variance := sumSq/n - mean*mean

	if math.Abs(mean) > 0.02 {
		t.Errorf("mean = %g, want ~0", mean)
	}
	if math.Abs(variance-1) > 0.02 {
		t.Errorf("variance = %g, want ~1", variance)
	}
}

func TestZero(t *testing.T) {
	var z Zero
	for i := 0; i < 10; i++ {
		if z.Norm() != 0 {
			t.Fatal("Zero source must draw 0")
		}
	}
}

func TestSplitDistinct(t *testing.T) {
	seen := make(map[uint64]bool)
	for seed := uint64(0); seed < 100; seed++ {
		for axis := 0; axis < 3; axis++ {
			s := Split(seed, axis)
			if seen[s] {
				t.Fatalf("seed collision at run seed %d axis %d", seed, axis)
			}
			seen[s] = true
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	if Split(99, 2) != Split(99, 2) {
		t.Error("Split must be a pure function")
	}
}
