// Package export serializes analysis reports as JSON documents. The full
// resolution trajectory is deliberately left out; the captured series and
// everything derived from it round-trips.
package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/beadsim/internal/experiment"
	"github.com/san-kum/beadsim/internal/physics"
	"github.com/san-kum/beadsim/internal/spectral"
)

type AxisDocument struct {
	Axis       string           `json:"axis"`
	Captured   []float64        `json:"captured"`
	PSD        *spectral.PSD    `json:"psd,omitempty"`
	F0         float64          `json:"f0"`
	Gamma      float64          `json:"gamma"`
	Amp        float64          `json:"amp"`
	Covariance [3][3]float64    `json:"covariance"`
	Summary    spectral.Summary `json:"summary"`
	FitFailed  bool             `json:"fit_failed"`
	FitMessage string           `json:"fit_message,omitempty"`
	NonFinite  bool             `json:"non_finite"`
}

type Document struct {
	Params    physics.Parameters `json:"params"`
	Seed      uint64             `json:"seed"`
	ElapsedMS int64              `json:"elapsed_ms"`
	Axes      [3]AxisDocument    `json:"axes"`
}

// NewDocument flattens a report for serialization.
func NewDocument(report *experiment.Report) *Document {
	doc := &Document{
		Params:    report.Params,
		Seed:      report.Seed,
		ElapsedMS: report.Elapsed.Milliseconds(),
	}
	for a := 0; a < physics.AxisCount; a++ {
		ax := report.Axes[a]
		ad := AxisDocument{
			Axis:      physics.Axis(a).String(),
			Captured:  report.Sim.Captured[a],
			PSD:       ax.PSD,
			Summary:   ax.Summary,
			NonFinite: ax.NonFinite,
		}
		if ax.Fit != nil {
			ad.F0 = ax.Fit.F0
			ad.Gamma = ax.Fit.Gamma
			ad.Amp = ax.Fit.Amp
			ad.Covariance = ax.Fit.CovMatrix()
		}
		if ax.FitErr != nil {
			ad.FitFailed = true
			ad.FitMessage = ax.FitErr.Error()
		}
		doc.Axes[a] = ad
	}
	return doc
}

// JSON writes the report document to path.
func JSON(path string, report *experiment.Report) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return Write(file, report)
}

// Write encodes the report document onto w with indentation.
func Write(w io.Writer, report *experiment.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(report))
}
