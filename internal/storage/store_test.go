package storage

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/beadsim/internal/experiment"
	"github.com/san-kum/beadsim/internal/physics"
)

func smallReport(t *testing.T) *experiment.Report {
	t.Helper()
	p := physics.Default()
	p.Steps = 20000 // 100 captured samples
	report, err := experiment.Run(context.Background(), p, 42, experiment.Options{})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	return report
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	report := smallReport(t)
	runID, err := st.Save(report)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Seed != 42 {
		t.Errorf("seed = %d, want 42", meta.Seed)
	}
	if meta.Params.Steps != report.Params.Steps {
		t.Errorf("steps = %d, want %d", meta.Params.Steps, report.Params.Steps)
	}
	for a := 0; a < physics.AxisCount; a++ {
		ax := meta.Axes[a]
		if ax.Axis != physics.Axis(a).String() {
			t.Errorf("axis %d labeled %q", a, ax.Axis)
		}
		if ax.FitFailed {
			t.Errorf("axis %s stored a fit failure: %s", ax.Axis, ax.FitMessage)
		}
		want := report.Axes[a].Summary.Variance
		if math.Abs(ax.Variance-want) > 1e-30 {
			t.Errorf("axis %s variance %g, want %g", ax.Axis, ax.Variance, want)
		}
	}
}

func TestCapturedRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	report := smallReport(t)
	runID, err := st.Save(report)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	times, series, err := st.LoadCaptured(runID)
	if err != nil {
		t.Fatalf("load captured failed: %v", err)
	}

	wantLen := len(report.Sim.Captured[physics.X])
	if len(times) != wantLen {
		t.Fatalf("loaded %d samples, want %d", len(times), wantLen)
	}
	for a := 0; a < physics.AxisCount; a++ {
		for i, v := range series[a] {
			if v != report.Sim.Captured[a][i] {
				t.Fatalf("axis %s sample %d: %g != %g",
					physics.Axis(a), i, v, report.Sim.Captured[a][i])
			}
		}
	}

	// Sample times follow the camera grid.
	dtCam := float64(report.Params.CaptureStride()) * report.Params.Dt
	if math.Abs(times[0]-dtCam) > 1e-12 {
		t.Errorf("first sample at %g, want %g", times[0], dtCam)
	}
}

func TestPSDRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	report := smallReport(t)
	runID, err := st.Save(report)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for a := 0; a < physics.AxisCount; a++ {
		psd, err := st.LoadPSD(runID, physics.Axis(a))
		if err != nil {
			t.Fatalf("load psd %s: %v", physics.Axis(a), err)
		}
		orig := report.Axes[a].PSD
		if len(psd.Freqs) != len(orig.Freqs) {
			t.Fatalf("axis %s: %d bins, want %d", physics.Axis(a), len(psd.Freqs), len(orig.Freqs))
		}
		for i := range orig.Freqs {
			if psd.Freqs[i] != orig.Freqs[i] || psd.Power[i] != orig.Power[i] {
				t.Fatalf("axis %s bin %d differs after round trip", physics.Axis(a), i)
			}
		}
	}
}

func TestListRuns(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("fresh store lists %d runs", len(runs))
	}

	report := smallReport(t)
	if _, err := st.Save(report); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("listed %d runs, want 1", len(runs))
	}
}

func TestListMissingBaseDir(t *testing.T) {
	st := New(t.TempDir() + "/never-created")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list on missing dir: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestLoadUnknownRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("bead_0"); err == nil {
		t.Error("expected error for unknown run")
	}
	if _, _, err := st.LoadCaptured("bead_0"); err == nil {
		t.Error("expected error for unknown captured series")
	}
	if _, err := st.LoadPSD("bead_0", physics.X); err == nil {
		t.Error("expected error for unknown psd")
	}
}
