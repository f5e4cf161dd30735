// Package plotting renders run artifacts as PNG files with gonum/plot.
// Every render is an independent call taking explicit data and a target
// path; there is no shared figure state.
package plotting

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/beadsim/internal/spectral"
)

// Trace renders one captured axis against time.
func Trace(path, title string, times, series []float64) error {
	if len(times) != len(series) {
		return fmt.Errorf("plotting: %d times vs %d samples", len(times), len(series))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "position (m)"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(series))
	for i := range series {
		pts[i].X = times[i]
		pts[i].Y = series[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

// PSD renders one axis's spectrum as a scatter, overlaying the fitted
// Lorentzian when a fit is available.
func PSD(path, title string, psd *spectral.PSD, fit *spectral.Fit) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "frequency (Hz)"
	p.Y.Label.Text = "power (signal²/Hz)"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(psd.Freqs))
	for i := range psd.Freqs {
		pts[i].X = psd.Freqs[i]
		pts[i].Y = psd.Power[i]
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(scatter)
	p.Legend.Add("periodogram", scatter)

	if fit != nil {
		model := make(plotter.XYs, len(psd.Freqs))
		for i, f := range psd.Freqs {
			model[i].X = f
			model[i].Y = spectral.Lorentzian(f, fit.F0, fit.Gamma, fit.Amp)
		}
		line, err := plotter.NewLine(model)
		if err != nil {
			return err
		}
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("lorentzian f0=%.3g Hz", fit.F0), line)
	}

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
