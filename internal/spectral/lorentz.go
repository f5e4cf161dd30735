package spectral

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// Lorentzian evaluates the reference lineshape 10*g^2/((f-f0)^2+g^2).
//
// The amp parameter is carried in the fit signature for compatibility with
// the reference model but does not enter the curve; its fitted value is
// meaningless and its covariance entries come out zero. Do not remove it
// without revisiting upstream consumers of the three-parameter vector.
func Lorentzian(f, f0, gamma, amp float64) float64 {
	_ = amp
	d := f - f0
	return 10 * gamma * gamma / (d*d + gamma*gamma)
}

// Fit holds the Lorentzian fit of one PSD.
type Fit struct {
	F0       float64       `json:"f0"`       // center frequency, Hz
	Gamma    float64       `json:"gamma"`    // linewidth, Hz
	Amp      float64       `json:"amp"`      // vestigial, see Lorentzian
	Cov      *mat.SymDense `json:"-"`        // 3x3 parameter covariance
	Residual float64       `json:"residual"` // sum of squared residuals
}

// CovMatrix returns the covariance as a plain 3x3 array for serialization.
func (f *Fit) CovMatrix() [3][3]float64 {
	var out [3][3]float64
	if f.Cov == nil {
		return out
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = f.Cov.At(i, j)
		}
	}
	return out
}

// FitError reports a fit that did not converge. The PSD it was attempted on
// is still valid; callers keep the raw spectrum.
type FitError struct {
	Status string
	Err    error
}

func (e *FitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("spectral: lorentzian fit failed (%s): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("spectral: lorentzian fit failed (%s)", e.Status)
}

func (e *FitError) Unwrap() error { return e.Err }

var errMismatchedPSD = errors.New("spectral: psd frequency and power lengths differ")

// FitLorentzian fits the Lorentzian model to a PSD by nonlinear least
// squares over every bin including DC, starting from (f0, gamma, amp) =
// (0, 1, 1). Non-convergence and non-finite residuals surface as *FitError.
func FitLorentzian(psd *PSD) (*Fit, error) {
	if len(psd.Freqs) == 0 || len(psd.Freqs) != len(psd.Power) {
		return nil, errMismatchedPSD
	}

	ssr := func(p []float64) float64 {
		var sum float64
		for i, f := range psd.Freqs {
			r := Lorentzian(f, p[0], p[1], p[2]) - psd.Power[i]
			sum += r * r
		}
		return sum
	}

	problem := optimize.Problem{Func: ssr}
	initial := []float64{0, 1, 1}
	settings := &optimize.Settings{
		MajorIterations: 5000,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-15,
			Relative:   1e-12,
			Iterations: 100,
		},
	}

	res, err := optimize.Minimize(problem, initial, settings, &optimize.NelderMead{})
	if err != nil {
		return nil, &FitError{Status: "minimizer error", Err: err}
	}
	if res.Status == optimize.Failure || res.Status == optimize.IterationLimit {
		return nil, &FitError{Status: res.Status.String()}
	}
	if math.IsNaN(res.F) || math.IsInf(res.F, 0) {
		return nil, &FitError{Status: "non-finite residual"}
	}
	for _, p := range res.X {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, &FitError{Status: "non-finite parameter"}
		}
	}

	fit := &Fit{
		F0:       res.X[0],
		Gamma:    res.X[1],
		Amp:      res.X[2],
		Residual: res.F,
	}
	fit.Cov = covariance(psd, res.X, res.F)
	return fit, nil
}

// covariance estimates the parameter covariance s^2*(J^T J)^+ at the
// optimum through a forward-difference Jacobian and an SVD pseudo-inverse.
// The pseudo-inverse keeps the estimate defined despite the identically
// zero amp column.
func covariance(psd *PSD, params []float64, ssr float64) *mat.SymDense {
	m := len(psd.Freqs)
	n := len(params)

	jac := mat.NewDense(m, n, nil)
	fd.Jacobian(jac, func(y, p []float64) {
		for i, f := range psd.Freqs {
			y[i] = Lorentzian(f, p[0], p[1], p[2])
		}
	}, params, nil)

	var svd mat.SVD
	if !svd.Factorize(jac, mat.SVDThin) {
		return nil
	}
	values := svd.Values(nil)
	var v mat.Dense
	svd.VTo(&v)

	dof := m - n
	if dof < 1 {
		dof = 1
	}
	sigma2 := ssr / float64(dof)
	tol := floats.Max(values) * float64(m) * 1e-12

	cov := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var sum float64
			for k, s := range values {
				if s <= tol {
					continue
				}
				sum += v.At(i, k) * v.At(j, k) / (s * s)
			}
			cov.SetSym(i, j, sigma2*sum)
		}
	}
	return cov
}
