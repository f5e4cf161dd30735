package spectral

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Summary holds the scalar statistics of one captured series.
type Summary struct {
	Variance float64 `json:"variance"` // population variance, m^2
	RMSD     float64 `json:"rmsd"`     // root-mean-square displacement, m
}

// Summarize computes population variance and RMSD of a series. Both are
// independent of the PSD pipeline and of the other axes.
func Summarize(series []float64) Summary {
	n := len(series)
	if n == 0 {
		return Summary{}
	}

	mean := stat.Mean(series, nil)
	var ss, sq float64
	for _, v := range series {
		d := v - mean
		ss += d * d
		sq += v * v
	}
	return Summary{
		Variance: ss / float64(n),
		RMSD:     math.Sqrt(sq / float64(n)),
	}
}
