package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/wave2d/internal/sim"
	"gonum.org/v1/gonum/floats"
)

const (
	historyCapacity = 240
	defaultFPS      = 30
	maxStepsFrame   = 64
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(44)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

// LiveOptions configure the interactive view.
type LiveOptions struct {
	Title         string
	FPS           int
	StepsPerFrame int
	Palette       string
	// Range of values mapped onto the palette; a zero range is chosen from
	// the initial field.
	Range         Range
	Width, Height int
	GIFPath       string
}

type frameMsg time.Time

// Model drives a simulator from the Bubble Tea frame loop and draws the
// value grid as a heat map.
type Model struct {
	sim      *sim.Simulator
	opts     LiveOptions
	heatmap  *Heatmap
	steps    int
	running  bool
	err      error
	fps      float64
	lastTick time.Time

	energyHistory []float64
	probeHistory  []float64

	recorder  *Recorder
	recording bool
	saved     string
	showHelp  bool
}

// NewModel prepares a live view over s.
func NewModel(s *sim.Simulator, opts LiveOptions) Model {
	if opts.FPS <= 0 {
		opts.FPS = defaultFPS
	}
	if opts.StepsPerFrame <= 0 {
		opts.StepsPerFrame = 1
	}
	if opts.Width <= 0 {
		opts.Width = 64
	}
	if opts.Height <= 0 {
		opts.Height = 32
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "wave2d.gif"
	}
	if opts.Range.Min == opts.Range.Max {
		opts.Range = AutoRange(s.Field().Value.Data())
	}
	pal := GetPalette(opts.Palette)
	opts.Palette = pal.Name
	return Model{
		sim:           s,
		opts:          opts,
		heatmap:       NewHeatmap(opts.Width, opts.Height, pal, opts.Range),
		steps:         opts.StepsPerFrame,
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
		probeHistory:  make([]float64, 0, historyCapacity),
		recorder:      NewRecorder(pal, opts.Range, 2, 100/opts.FPS),
	}
}

// AutoRange spans the min and max of values, or ±max|v| when the values
// are constant.
func AutoRange(values []float64) Range {
	if len(values) == 0 {
		return UnitRange
	}
	lo, hi := floats.Min(values), floats.Max(values)
	if hi-lo > 1e-12 {
		return Range{Min: lo, Max: hi}
	}
	return SymmetricRange(max(-lo, hi))
}

func (m Model) frame() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.frame() }

// Update handles input and advances the simulation once per frame.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.recording {
				m.stopRecording()
			}
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "r":
			m.reset()
		case "n":
			if !m.running && m.err == nil {
				m.advance(1)
			}
		case "p":
			m.cyclePalette()
		case "+", "=":
			m.steps = min(m.steps*2, maxStepsFrame)
		case "-", "_":
			m.steps = max(m.steps/2, 1)
		case "g":
			if m.recording {
				m.stopRecording()
			} else {
				m.recorder.Reset()
				m.recording = true
				m.saved = ""
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case frameMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			if d := now.Sub(m.lastTick).Seconds(); d > 0 {
				inst := 1 / d
				if m.fps == 0 {
					m.fps = inst
				} else {
					m.fps = 0.9*m.fps + 0.1*inst
				}
			}
		}
		m.lastTick = now
		if m.running && m.err == nil {
			m.advance(m.steps)
		}
		if m.recording {
			m.recorder.Capture(m.sim.Field().Value)
		}
		return m, m.frame()
	}
	return m, nil
}

func (m *Model) advance(n int) {
	for k := 0; k < n; k++ {
		if err := m.sim.Tick(); err != nil {
			m.err = err
			m.running = false
			break
		}
	}
	smp := m.sim.Sample()
	m.energyHistory = appendBounded(m.energyHistory, smp.Energy)
	m.probeHistory = appendBounded(m.probeHistory, smp.Probe)
}

// stepsGauge places steps on a log2 scale from 1 to maxStepsFrame.
func stepsGauge(steps int) float64 {
	if steps <= 1 {
		return 0
	}
	return math.Log2(float64(steps)) / math.Log2(maxStepsFrame)
}

func appendBounded(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (m *Model) reset() {
	m.sim.Reset()
	m.err = nil
	m.running = true
	m.energyHistory = m.energyHistory[:0]
	m.probeHistory = m.probeHistory[:0]
}

func (m *Model) cyclePalette() {
	names := PaletteNames()
	next := names[0]
	for i, name := range names {
		if name == m.heatmap.Palette.Name {
			next = names[(i+1)%len(names)]
			break
		}
	}
	pal := GetPalette(next)
	m.heatmap.Palette = pal
	m.recorder.SetPalette(pal)
}

func (m *Model) stopRecording() {
	m.recording = false
	if err := m.recorder.Save(m.opts.GIFPath); err != nil {
		m.saved = "gif: " + err.Error()
		return
	}
	m.saved = fmt.Sprintf("saved %d frames to %s", m.recorder.Frames(), m.opts.GIFPath)
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return ErrorStyle.Render("HALTED")
	case m.recording:
		return StatusRecording.Render(fmt.Sprintf("● REC %d", m.recorder.Frames()))
	case !m.running:
		return StatusPaused.Render("PAUSED")
	default:
		return StatusRunning.Render("RUNNING")
	}
}

func metricLine(label, value string) string {
	return MetricLabel.Render(label) + MetricValue.Render(value) + "\n"
}

// View renders the heat map beside the stats panel.
func (m Model) View() string {
	f := m.sim.Field()
	canvasView := canvasStyle.Render(m.heatmap.Render(f.Value) + "\n" + m.heatmap.Legend(m.heatmap.Width))

	var s strings.Builder
	title := m.opts.Title
	if title == "" {
		title = "wave2d"
	}
	s.WriteString(HeaderStyle.Render(GradientText(strings.ToUpper(title), "#00ffff", "#ff00ff")) + "\n")
	s.WriteString(m.status() + "\n\n")

	p := m.sim.Params()
	nx, ny := m.sim.Size()
	s.WriteString(metricLine("Grid", fmt.Sprintf("%dx%d", nx, ny)))
	s.WriteString(metricLine("Time", fmt.Sprintf("%.3f", m.sim.Time())))
	s.WriteString(metricLine("Tick", fmt.Sprintf("%d", m.sim.Ticks())))
	s.WriteString(metricLine("FPS", fmt.Sprintf("%.1f", m.fps)))
	s.WriteString(metricLine("Steps/frame", fmt.Sprintf("%d", m.steps)))
	s.WriteString(MetricLabel.Render("") + ProgressBar(stepsGauge(m.steps), 20) + "\n")
	s.WriteString(metricLine("CFL", fmt.Sprintf("%.3f", p.CFLNumber())))
	s.WriteString(metricLine("Max |u|", fmt.Sprintf("%.4g", f.Value.MaxAbs())))
	if n := len(m.energyHistory); n > 0 {
		s.WriteString(metricLine("Energy", fmt.Sprintf("%.6g", m.energyHistory[n-1])))
	}
	s.WriteString(metricLine("Palette", m.heatmap.Palette.Name))
	s.WriteString(metricLine("Range", fmt.Sprintf("[%.3g, %.3g]", m.heatmap.Range.Min, m.heatmap.Range.Max)))

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if len(m.probeHistory) > 1 {
		s.WriteString(MetricLabel.Render("Probe") + SparklineChart(m.probeHistory, 28) + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + ErrorStyle.Render(m.err.Error()) + "\n")
	}
	if m.saved != "" {
		s.WriteString("\n" + SuccessStyle.Render(m.saved) + "\n")
	}
	s.WriteString("\n" + Separator(30) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause N:Step R:Reset Q:Quit\nP:Palette G:Record +/-:Speed ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  N        - Single tick while paused ║
║  R        - Reseed and restart       ║
║  P        - Cycle palettes           ║
║  + / -    - Double/halve steps/frame ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n" + mainView
	}
	return mainView
}

// Run opens the live view full screen and blocks until the user quits.
func Run(s *sim.Simulator, opts LiveOptions) error {
	p := tea.NewProgram(NewModel(s, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
