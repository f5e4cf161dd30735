package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/beadsim/internal/config"
	"github.com/san-kum/beadsim/internal/experiment"
	"github.com/san-kum/beadsim/internal/export"
	"github.com/san-kum/beadsim/internal/physics"
	"github.com/san-kum/beadsim/internal/plotting"
	"github.com/san-kum/beadsim/internal/spectral"
	"github.com/san-kum/beadsim/internal/storage"
	"github.com/san-kum/beadsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       uint64

	temperature       float64
	force             float64
	extension         float64
	beadRadius        float64
	persistenceLength float64
	contourLength     float64
	diffusion         float64
	dt                float64
	steps             int
	captureInterval   float64
	tetherStiffness   float64

	window  string
	detrend bool
	outDir  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "beadsim",
		Short: "tethered-bead Brownian dynamics and spectral analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.Browse(storage.New(dataDir), "")
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".beadsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate a trajectory and analyze its spectrum",
		RunE:  runPipeline,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "start from a named preset")
	runCmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	runCmd.Flags().Float64Var(&temperature, "temperature", 298, "temperature (K)")
	runCmd.Flags().Float64Var(&force, "force", 1e-11, "pulling force (N)")
	runCmd.Flags().Float64Var(&extension, "extension", 4.9e-6, "tether extension (m)")
	runCmd.Flags().Float64Var(&beadRadius, "bead-radius", 1e-6, "bead radius (m)")
	runCmd.Flags().Float64Var(&persistenceLength, "persistence-length", 50e-9, "persistence length (m)")
	runCmd.Flags().Float64Var(&contourLength, "contour-length", 7e-6, "contour length (m)")
	runCmd.Flags().Float64Var(&diffusion, "diffusion", 1e-12, "diffusion coefficient (m^2/s)")
	runCmd.Flags().Float64Var(&dt, "dt", 5e-6, "timestep (s)")
	runCmd.Flags().IntVar(&steps, "steps", 1000000, "number of steps")
	runCmd.Flags().Float64Var(&captureInterval, "capture-interval", 0.001, "camera sampling period (s)")
	runCmd.Flags().Float64Var(&tetherStiffness, "stiffness", 6e-4, "tether stiffness (N/m)")
	runCmd.Flags().StringVar(&window, "window", "rect", "spectral window (rect, hann)")
	runCmd.Flags().BoolVar(&detrend, "detrend", false, "subtract the mean before the PSD")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "terminal plots of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "write PNG plots of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().StringVar(&outDir, "out", ".", "output directory for images")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "recompute spectra and fits from a stored trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&window, "window", "rect", "spectral window (rect, hann)")
	analyzeCmd.Flags().BoolVar(&detrend, "detrend", false, "subtract the mean before the PSD")

	viewCmd := &cobra.Command{
		Use:   "view [run_id]",
		Short: "interactive run browser",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) > 0 {
				runID = args[0]
			}
			return viz.Browse(storage.New(dataDir), runID)
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "print the captured trajectory as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, renderCmd, analyzeCmd, viewCmd, exportCmd, exportCSVCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveConfig layers flag values over config file over preset over
// defaults. An explicit flag always wins.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := map[string]func(){
		"seed":               func() { cfg.Seed = seed },
		"window":             func() { cfg.Window = window },
		"detrend":            func() { cfg.Detrend = detrend },
		"temperature":        func() { cfg.Physics.Temperature = temperature },
		"force":              func() { cfg.Physics.Force = force },
		"extension":          func() { cfg.Physics.Extension = extension },
		"bead-radius":        func() { cfg.Physics.BeadRadius = beadRadius },
		"persistence-length": func() { cfg.Physics.PersistenceLength = persistenceLength },
		"contour-length":     func() { cfg.Physics.ContourLength = contourLength },
		"diffusion":          func() { cfg.Physics.Diffusion = diffusion },
		"dt":                 func() { cfg.Physics.Dt = dt },
		"steps":              func() { cfg.Physics.Steps = steps },
		"capture-interval":   func() { cfg.Physics.CaptureInterval = captureInterval },
		"stiffness":          func() { cfg.Physics.TetherStiffness = tetherStiffness },
	}
	for name, apply := range flags {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	return cfg, nil
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	spectralOpts, err := cfg.SpectralOptions()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("simulating %d steps, %d captured samples per axis...\n",
		cfg.Physics.Steps, cfg.Physics.CaptureCount())

	report, err := experiment.Run(ctx, cfg.Physics, cfg.Seed, experiment.Options{Spectral: spectralOpts})
	if err != nil {
		return err
	}

	runID, err := st.Save(report)
	if err != nil {
		return err
	}
	if err := export.JSON(filepath.Join(st.Dir(runID), "report.json"), report); err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", report.Elapsed)
	fmt.Printf("run id: %s\n\n", runID)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AXIS\tVARIANCE\tRMSD\tF0\tGAMMA\tFIT")
	for _, ax := range report.Axes {
		status := "ok"
		f0, gamma := "-", "-"
		if ax.FitErr != nil {
			status = ax.FitErr.Error()
		} else if ax.Fit != nil {
			f0 = fmt.Sprintf("%.4g Hz", ax.Fit.F0)
			gamma = fmt.Sprintf("%.4g Hz", ax.Fit.Gamma)
		}
		fmt.Fprintf(w, "%s\t%.6e\t%.6e\t%s\t%s\t%s\n",
			ax.Axis, ax.Summary.Variance, ax.Summary.RMSD, f0, gamma, status)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSEED\tFORCE\tEXTENSION\tSTEPS\tFIT")
	for _, run := range runs {
		fitStatus := "ok"
		for _, ax := range run.Axes {
			if ax.FitFailed {
				fitStatus = "failed"
				break
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2gpN\t%.2gum\t%d\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Params.Force*1e12,
			run.Params.Extension*1e6,
			run.Params.Steps,
			fitStatus,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	_, captured, err := st.LoadCaptured(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d per axis\n\n", len(captured[physics.X]))

	for axis := physics.X; axis < physics.AxisCount; axis++ {
		series := captured[axis]
		if len(series) < 2 {
			continue
		}
		graph := asciigraph.Plot(series,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s position (m)", axis)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func renderRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	times, captured, err := st.LoadCaptured(runID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	for axis := physics.X; axis < physics.AxisCount; axis++ {
		tracePath := filepath.Join(outDir, fmt.Sprintf("%s_trace_%s.png", runID, axis))
		title := fmt.Sprintf("%s: %s position", runID, axis)
		if err := plotting.Trace(tracePath, title, times, captured[axis]); err != nil {
			return err
		}
		fmt.Println(tracePath)

		psd, err := st.LoadPSD(runID, axis)
		if err != nil {
			continue
		}
		var fit *spectral.Fit
		if am := meta.Axes[axis]; !am.FitFailed {
			fit = &spectral.Fit{F0: am.F0, Gamma: am.Gamma, Amp: am.Amp}
		}
		psdPath := filepath.Join(outDir, fmt.Sprintf("%s_psd_%s.png", runID, axis))
		title = fmt.Sprintf("%s: %s spectrum", runID, axis)
		if err := plotting.PSD(psdPath, title, psd, fit); err != nil {
			return err
		}
		fmt.Println(psdPath)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	_, captured, err := st.LoadCaptured(runID)
	if err != nil {
		return err
	}

	w, err := spectral.ParseWindow(window)
	if err != nil {
		return err
	}
	opts := spectral.Options{Window: w, Detrend: detrend}
	fs := meta.Params.SampleRate()

	fmt.Printf("run: %s  (fs = %.1f Hz)\n\n", meta.ID, fs)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "AXIS\tVARIANCE\tRMSD\tF0\tGAMMA\tFIT")
	for axis := physics.X; axis < physics.AxisCount; axis++ {
		res := experiment.Analyze(axis, captured[axis], fs, opts)
		status := "ok"
		f0, gamma := "-", "-"
		if res.FitErr != nil {
			status = res.FitErr.Error()
		} else if res.Fit != nil {
			f0 = fmt.Sprintf("%.4g Hz", res.Fit.F0)
			gamma = fmt.Sprintf("%.4g Hz", res.Fit.Gamma)
		}
		fmt.Fprintf(tw, "%s\t%.6e\t%.6e\t%s\t%s\t%s\n",
			axis, res.Summary.Variance, res.Summary.RMSD, f0, gamma, status)
	}
	return tw.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	times, captured, err := st.LoadCaptured(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "x", "y", "z"}); err != nil {
		return err
	}
	for i := range times {
		row := []string{strconv.FormatFloat(times[i], 'g', 17, 64)}
		for axis := physics.X; axis < physics.AxisCount; axis++ {
			row = append(row, strconv.FormatFloat(captured[axis][i], 'g', 17, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
