// Package storage persists runs as flat files: one directory per run with
// a metadata document, the captured trajectory and the per-axis spectra.
// The numeric core never depends on a sink succeeding.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/beadsim/internal/experiment"
	"github.com/san-kum/beadsim/internal/physics"
	"github.com/san-kum/beadsim/internal/spectral"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Dir returns the directory of a stored run.
func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// AxisMetadata is the scalar outcome of one axis, stored in metadata.json.
type AxisMetadata struct {
	Axis       string        `json:"axis"`
	Variance   float64       `json:"variance"`
	RMSD       float64       `json:"rmsd"`
	F0         float64       `json:"f0"`
	Gamma      float64       `json:"gamma"`
	Amp        float64       `json:"amp"`
	Covariance [3][3]float64 `json:"covariance"`
	FitFailed  bool          `json:"fit_failed"`
	FitMessage string        `json:"fit_message,omitempty"`
	NonFinite  bool          `json:"non_finite"`
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      uint64             `json:"seed"`
	Params    physics.Parameters `json:"params"`
	Axes      [3]AxisMetadata    `json:"axes"`
	ElapsedMS int64              `json:"elapsed_ms"`
}

// Save writes one run directory and returns its id.
func (s *Store) Save(report *experiment.Report) (string, error) {
	runID := fmt.Sprintf("bead_%d", time.Now().UnixNano())
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		Seed:      report.Seed,
		Params:    report.Params,
		ElapsedMS: report.Elapsed.Milliseconds(),
	}
	for a := 0; a < physics.AxisCount; a++ {
		ax := report.Axes[a]
		am := AxisMetadata{
			Axis:      physics.Axis(a).String(),
			Variance:  ax.Summary.Variance,
			RMSD:      ax.Summary.RMSD,
			NonFinite: ax.NonFinite,
		}
		if ax.Fit != nil {
			am.F0 = ax.Fit.F0
			am.Gamma = ax.Fit.Gamma
			am.Amp = ax.Fit.Amp
			am.Covariance = ax.Fit.CovMatrix()
		}
		if ax.FitErr != nil {
			am.FitFailed = true
			am.FitMessage = ax.FitErr.Error()
		}
		meta.Axes[a] = am
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := s.writeCaptured(runDir, report); err != nil {
		return "", err
	}
	for a := 0; a < physics.AxisCount; a++ {
		if psd := report.Axes[a].PSD; psd != nil {
			name := fmt.Sprintf("psd_%s.csv", physics.Axis(a))
			if err := writePSD(filepath.Join(runDir, name), psd); err != nil {
				return "", err
			}
		}
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (s *Store) writeCaptured(runDir string, report *experiment.Report) error {
	file, err := os.Create(filepath.Join(runDir, "captured.csv"))
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"time", "x", "y", "z"}); err != nil {
		return err
	}

	stride := report.Params.CaptureStride()
	captured := report.Sim.Captured
	for i := 0; i < len(captured[physics.X]); i++ {
		t := float64(i+1) * float64(stride) * report.Params.Dt
		row := []string{fmtFloat(t)}
		for a := 0; a < physics.AxisCount; a++ {
			row = append(row, fmtFloat(captured[a][i]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writePSD(path string, psd *spectral.PSD) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"freq", "power"}); err != nil {
		return err
	}
	for i := range psd.Freqs {
		if err := w.Write([]string{fmtFloat(psd.Freqs[i]), fmtFloat(psd.Power[i])}); err != nil {
			return err
		}
	}
	return nil
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 17, 64)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadCaptured reads the camera trajectory back: sample times and the three
// per-axis series.
func (s *Store) LoadCaptured(runID string) ([]float64, [3][]float64, error) {
	var series [3][]float64

	records, err := readCSV(filepath.Join(s.Dir(runID), "captured.csv"))
	if err != nil {
		return nil, series, err
	}

	times := make([]float64, 0, len(records))
	for _, record := range records {
		if len(record) < 4 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		vals := [3]float64{}
		ok := true
		for a := 0; a < physics.AxisCount; a++ {
			vals[a], err = strconv.ParseFloat(record[a+1], 64)
			if err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		times = append(times, t)
		for a := 0; a < physics.AxisCount; a++ {
			series[a] = append(series[a], vals[a])
		}
	}
	return times, series, nil
}

// LoadPSD reads one axis's stored spectrum.
func (s *Store) LoadPSD(runID string, axis physics.Axis) (*spectral.PSD, error) {
	records, err := readCSV(filepath.Join(s.Dir(runID), fmt.Sprintf("psd_%s.csv", axis)))
	if err != nil {
		return nil, err
	}

	psd := &spectral.PSD{}
	for _, record := range records {
		if len(record) < 2 {
			continue
		}
		f, err1 := strconv.ParseFloat(record[0], 64)
		p, err2 := strconv.ParseFloat(record[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		psd.Freqs = append(psd.Freqs, f)
		psd.Power = append(psd.Power, p)
	}
	return psd, nil
}

// readCSV returns the data rows of a headered CSV file.
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, nil
	}
	return records[1:], nil
}
