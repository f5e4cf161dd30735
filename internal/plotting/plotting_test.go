package plotting

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/beadsim/internal/spectral"
)

func TestTraceWritesPNG(t *testing.T) {
	times := make([]float64, 100)
	series := make([]float64, 100)
	for i := range times {
		times[i] = float64(i) * 0.001
		series[i] = math.Sin(float64(i) / 10)
	}

	path := filepath.Join(t.TempDir(), "trace.png")
	if err := Trace(path, "x trace", times, series); err != nil {
		t.Fatalf("trace render failed: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("missing or empty output: %v", err)
	}
}

func TestTraceRejectsMismatchedLengths(t *testing.T) {
	if err := Trace(filepath.Join(t.TempDir(), "t.png"), "t", []float64{1}, []float64{1, 2}); err == nil {
		t.Error("mismatched lengths accepted")
	}
}

func TestPSDWithFitOverlay(t *testing.T) {
	psd := &spectral.PSD{}
	for f := 0.0; f < 50; f += 0.5 {
		psd.Freqs = append(psd.Freqs, f)
		psd.Power = append(psd.Power, spectral.Lorentzian(f, 5, 2, 1))
	}
	fit := &spectral.Fit{F0: 5, Gamma: 2, Amp: 1}

	path := filepath.Join(t.TempDir(), "psd.png")
	if err := PSD(path, "x psd", psd, fit); err != nil {
		t.Fatalf("psd render failed: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("missing or empty output: %v", err)
	}

	// No fit overlay is fine too.
	if err := PSD(filepath.Join(t.TempDir(), "nofit.png"), "psd", psd, nil); err != nil {
		t.Fatalf("fitless render failed: %v", err)
	}
}
