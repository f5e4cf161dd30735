// Package viz provides an interactive terminal browser over saved runs.
package viz

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/beadsim/internal/physics"
	"github.com/san-kum/beadsim/internal/spectral"
	"github.com/san-kum/beadsim/internal/storage"
)

const (
	stateList = iota
	stateDetail
)

const (
	paneTrace = iota
	paneSpectrum
)

type browser struct {
	store  *storage.Store
	runs   []storage.RunMetadata
	cursor int

	state int
	pane  int
	axis  physics.Axis

	meta     *storage.RunMetadata
	times    []float64
	captured [3][]float64
	psds     [3]*spectral.PSD

	width, height int
	err           error
}

func newBrowser(store *storage.Store) (*browser, error) {
	runs, err := store.List()
	if err != nil {
		return nil, err
	}
	return &browser{store: store, runs: runs, width: 80, height: 24}, nil
}

func (b browser) Init() tea.Cmd { return nil }

func (b browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
	}
	return b, nil
}

func (b browser) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch b.state {
	case stateList:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return b, tea.Quit
		case "up", "k":
			if b.cursor > 0 {
				b.cursor--
			}
		case "down", "j":
			if b.cursor < len(b.runs)-1 {
				b.cursor++
			}
		case "enter", " ":
			if len(b.runs) > 0 {
				b.open(b.runs[b.cursor].ID)
			}
		}
	case stateDetail:
		switch msg.String() {
		case "q", "ctrl+c":
			return b, tea.Quit
		case "esc":
			b.state = stateList
			b.err = nil
		case "tab":
			b.pane = (b.pane + 1) % 2
		case "a", "right", "l":
			b.axis = (b.axis + 1) % physics.AxisCount
		case "left", "h":
			b.axis = (b.axis + physics.AxisCount - 1) % physics.AxisCount
		case "x":
			b.axis = physics.X
		case "y":
			b.axis = physics.Y
		case "z":
			b.axis = physics.Z
		}
	}
	return b, nil
}

func (b *browser) open(runID string) {
	meta, err := b.store.Load(runID)
	if err != nil {
		b.err = err
		return
	}
	times, captured, err := b.store.LoadCaptured(runID)
	if err != nil {
		b.err = err
		return
	}
	var psds [3]*spectral.PSD
	for a := physics.X; a < physics.AxisCount; a++ {
		psd, err := b.store.LoadPSD(runID, a)
		if err != nil {
			continue
		}
		psds[a] = psd
	}
	b.meta, b.times, b.captured, b.psds = meta, times, captured, psds
	b.state, b.pane, b.axis, b.err = stateDetail, paneTrace, physics.X, nil
}

func (b browser) View() string {
	if b.state == stateDetail && b.meta != nil {
		return b.viewDetail()
	}
	return b.viewList()
}

func (b browser) viewList() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("SAVED RUNS") + "\n\n")
	if len(b.runs) == 0 {
		s.WriteString(labelStyle.Render("  (no runs)") + "\n")
	}
	for i, run := range b.runs {
		line := fmt.Sprintf("%-28s %s  F=%.1fpN  seed=%d",
			run.ID, run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.Force*1e12, run.Seed)
		if i == b.cursor {
			s.WriteString(headerStyle.Render("▸ "+line) + "\n")
		} else {
			s.WriteString(labelStyle.Render("  ") + valueStyle.Render(line) + "\n")
		}
	}
	if b.err != nil {
		s.WriteString("\n" + warnStyle.Render(b.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("j/k navigate  enter open  q quit"))
	return s.String()
}

func (b browser) viewDetail() string {
	graphW := b.width - 52
	if graphW < 30 {
		graphW = 30
	}
	graphH := b.height - 8
	if graphH < 6 {
		graphH = 6
	}
	if graphH > 16 {
		graphH = 16
	}

	var graph string
	switch b.pane {
	case paneTrace:
		graph = b.traceGraph(graphW, graphH)
	case paneSpectrum:
		graph = b.spectrumGraph(graphW, graphH)
	}

	var s strings.Builder
	am := b.meta.Axes[b.axis]
	s.WriteString(headerStyle.Render(b.meta.ID) + "\n")
	s.WriteString(labelStyle.Render("Axis") + valueStyle.Render(b.axis.String()) + "\n")
	s.WriteString(labelStyle.Render("Seed") + valueStyle.Render(fmt.Sprintf("%d", b.meta.Seed)) + "\n")
	s.WriteString(labelStyle.Render("Samples") + valueStyle.Render(fmt.Sprintf("%d", len(b.captured[b.axis]))) + "\n")
	s.WriteString(labelStyle.Render("Force") + valueStyle.Render(fmt.Sprintf("%.2f pN", b.meta.Params.Force*1e12)) + "\n")
	s.WriteString(labelStyle.Render("Extension") + valueStyle.Render(fmt.Sprintf("%.2f µm", b.meta.Params.Extension*1e6)) + "\n")
	s.WriteString("\n")
	s.WriteString(labelStyle.Render("Variance") + valueStyle.Render(fmt.Sprintf("%.4e m²", am.Variance)) + "\n")
	s.WriteString(labelStyle.Render("RMSD") + valueStyle.Render(fmt.Sprintf("%.4e m", am.RMSD)) + "\n")
	if am.FitFailed {
		s.WriteString(labelStyle.Render("Fit") + warnStyle.Render("failed") + "\n")
		if am.FitMessage != "" {
			s.WriteString(labelStyle.Render("") + warnStyle.Render(am.FitMessage) + "\n")
		}
	} else {
		s.WriteString(labelStyle.Render("Corner f0") + valueStyle.Render(fmt.Sprintf("%.3f Hz", am.F0)) + "\n")
		s.WriteString(labelStyle.Render("Width γ") + valueStyle.Render(fmt.Sprintf("%.3f Hz", am.Gamma)) + "\n")
	}
	if am.NonFinite {
		s.WriteString(labelStyle.Render("Trace") + warnStyle.Render("non-finite samples") + "\n")
	}
	s.WriteString(helpStyle.Render("tab pane  h/l axis  esc back  q quit"))
	statsView := statsStyle.Render(s.String())

	var title string
	if b.pane == paneTrace {
		title = fmt.Sprintf("%s position (m)", b.axis)
	} else {
		title = fmt.Sprintf("%s spectrum log₁₀ P(f)", b.axis)
	}
	graphView := graphStyle.Render(headerStyle.Render(title) + "\n" + graph)
	return lipgloss.JoinHorizontal(lipgloss.Top, graphView, statsView)
}

func (b browser) traceGraph(w, h int) string {
	series := b.captured[b.axis]
	if len(series) < 2 {
		return "(empty trace)"
	}
	return asciigraph.Plot(downsample(series, w*2),
		asciigraph.Height(h), asciigraph.Width(w))
}

func (b browser) spectrumGraph(w, h int) string {
	psd := b.psds[b.axis]
	if psd == nil || len(psd.Power) < 2 {
		return "(no spectrum on disk)"
	}
	// log scale, skipping the DC bin and non-positive power
	logs := make([]float64, 0, len(psd.Power)-1)
	for _, p := range psd.Power[1:] {
		if p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p) {
			logs = append(logs, math.Log10(p))
		}
	}
	if len(logs) < 2 {
		return "(spectrum not plottable)"
	}
	return asciigraph.Plot(downsample(logs, w*2),
		asciigraph.Height(h), asciigraph.Width(w))
}

// downsample thins a series to at most n points by striding, keeping the
// endpoints. asciigraph handles width itself but interpolates poorly on
// very long inputs.
func downsample(series []float64, n int) []float64 {
	if n < 2 || len(series) <= n {
		return series
	}
	out := make([]float64, 0, n)
	stride := float64(len(series)-1) / float64(n-1)
	for i := 0; i < n; i++ {
		out = append(out, series[int(float64(i)*stride)])
	}
	return out
}

// Browse opens the run browser over the given store. A non-empty runID
// skips the list and opens that run directly.
func Browse(store *storage.Store, runID string) error {
	b, err := newBrowser(store)
	if err != nil {
		return err
	}
	if runID != "" {
		b.open(runID)
		if b.err != nil {
			return b.err
		}
		for i, run := range b.runs {
			if run.ID == runID {
				b.cursor = i
				break
			}
		}
	}
	_, err = tea.NewProgram(*b, tea.WithAltScreen()).Run()
	return err
}
