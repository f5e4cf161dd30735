// Package spectral estimates power spectral densities of captured bead
// trajectories and fits Lorentzian lineshapes to recover corner frequencies.
package spectral

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// Errors surfaced by the analyzer.
var (
	ErrShortSeries   = errors.New("spectral: series too short for a periodogram")
	ErrBadSampleRate = errors.New("spectral: sample rate must be positive")
)

// PSD is a one-sided power spectral density estimate: len(series)/2+1
// ascending frequency bins from DC to Nyquist, power in signal^2/Hz.
type PSD struct {
	Freqs []float64 `json:"freqs"`
	Power []float64 `json:"power"`
}

// Window selects the taper applied before the transform.
type Window int

const (
	Rectangular Window = iota
	Hann
)

func ParseWindow(name string) (Window, error) {
	switch name {
	case "", "rect", "rectangular", "boxcar":
		return Rectangular, nil
	case "hann", "hanning":
		return Hann, nil
	}
	return Rectangular, fmt.Errorf("spectral: unknown window %q", name)
}

// Options control the periodogram estimate. The zero value reproduces the
// reference computation: a single rectangular window over the whole series,
// no detrending.
type Options struct {
	Window  Window
	Detrend bool // subtract the series mean before transforming
}

// Periodogram computes the classical single-window periodogram density
// estimate of series sampled at fs Hz: |X_k|^2 / (fs * sum(w^2)), with
// interior bins doubled to fold the negative frequencies into the one-sided
// spectrum. DC, and Nyquist when the length is even, are not doubled.
func Periodogram(series []float64, fs float64, opts Options) (*PSD, error) {
	n := len(series)
	if n < 2 {
		return nil, fmt.Errorf("%w: %d samples", ErrShortSeries, n)
	}
	if fs <= 0 || math.IsNaN(fs) || math.IsInf(fs, 0) {
		return nil, fmt.Errorf("%w: %g", ErrBadSampleRate, fs)
	}

	buf := make([]float64, n)
	copy(buf, series)

	if opts.Detrend {
		mean := stat.Mean(buf, nil)
		for i := range buf {
			buf[i] -= mean
		}
	}

	wss := float64(n) // sum of squared window values; n for the boxcar
	if opts.Window == Hann {
		wss = 0
		for i := range buf {
			w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
			buf[i] *= w
			wss += w * w
		}
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, buf)

	psd := &PSD{
		Freqs: make([]float64, len(coeffs)),
		Power: make([]float64, len(coeffs)),
	}
	scale := 1 / (fs * wss)
	nyquist := n%2 == 0 // for even lengths the last bin holds fs/2 exactly
	for k, c := range coeffs {
		mag := cmplx.Abs(c)
		p := mag * mag * scale
		if k != 0 && !(nyquist && k == len(coeffs)-1) {
			p *= 2
		}
		psd.Freqs[k] = fft.Freq(k) * fs
		psd.Power[k] = p
	}
	return psd, nil
}

// BinWidth returns the frequency resolution of the estimate.
func (p *PSD) BinWidth() float64 {
	if len(p.Freqs) < 2 {
		return 0
	}
	return p.Freqs[1] - p.Freqs[0]
}

// PeakBin returns the index of the largest power value, ignoring the DC bin
// when the spectrum has more than one bin.
func (p *PSD) PeakBin() int {
	start := 0
	if len(p.Power) > 1 {
		start = 1
	}
	best := start
	for k := start; k < len(p.Power); k++ {
		if p.Power[k] > p.Power[best] {
			best = k
		}
	}
	return best
}

// IsFinite reports whether all bins hold real values.
func (p *PSD) IsFinite() bool {
	for _, v := range p.Power {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
