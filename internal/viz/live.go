package viz

import (
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/artplum/internal/driver"
	"github.com/san-kum/artplum/internal/export"
	"github.com/san-kum/artplum/internal/hero"
	"github.com/san-kum/artplum/internal/plum"
)

const (
	DefaultCols     = 80
	DefaultRows     = 24
	DefaultGIFPath  = "artplum.gif"
	historyCapacity = 600
	// recordEvery keeps every 4th refresh, 15 frames per second at 60 Hz.
	recordEvery = 4
	gifDelay    = 7
	maxFrames   = 300
	shownCounts = 4
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type Options struct {
	// Cols and Rows size the braille canvas in terminal cells.
	Cols, Rows int
	// Intro plays the loader sequence before the drawing is armed.
	Intro   bool
	GIFPath string
	Logger  *log.Logger
	// Clock overrides the wall clock, for tests.
	Clock driver.Clock
}

// tracker is the driver observer that feeds the terminal view: it strokes
// every segment onto the braille canvas and keeps the pending history.
type tracker struct {
	canvas  *Canvas
	pending []float64
	last    plum.TickStats
}

func (t *tracker) OnSegment(seg plum.Segment) {
	t.canvas.StrokeLine(seg.From.X, seg.From.Y, seg.To.X, seg.To.Y)
}

func (t *tracker) OnTick(stats plum.TickStats) {
	t.last = stats
	if stats.Empty {
		return
	}
	t.pending = append(t.pending, float64(stats.Pending))
	if len(t.pending) > historyCapacity {
		t.pending = t.pending[len(t.pending)-historyCapacity:]
	}
}

func (t *tracker) reset() {
	t.canvas.Clear()
	t.pending = t.pending[:0]
	t.last = plum.TickStats{}
}

// Model is the bubbletea model of the live terminal view.
type Model struct {
	view    *hero.View
	intro   *hero.Intro
	tracker *tracker
	canvas  *Canvas
	logger  *log.Logger
	gifPath string

	refreshes int
	recording bool
	frames    []image.Image
	showHelp  bool
	message   string
}

func NewModel(cfg hero.Config, opts Options) Model {
	if opts.Cols <= 0 {
		opts.Cols = DefaultCols
	}
	if opts.Rows <= 0 {
		opts.Rows = DefaultRows
	}
	if opts.GIFPath == "" {
		opts.GIFPath = DefaultGIFPath
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}

	canvas := NewCanvas(opts.Cols, opts.Rows)
	canvas.Fit(cfg.Driver.Width, cfg.Driver.Height)
	tr := &tracker{canvas: canvas}

	heroOpts := []hero.Option{
		hero.WithLogger(opts.Logger),
		hero.WithDriverOptions(driver.WithObserver(tr)),
	}
	if opts.Clock != nil {
		heroOpts = append(heroOpts, hero.WithClock(opts.Clock))
	}

	m := Model{
		view:    hero.New(cfg, heroOpts...),
		tracker: tr,
		canvas:  canvas,
		logger:  opts.Logger,
		gifPath: opts.GIFPath,
	}
	if opts.Intro {
		m.intro = hero.NewIntro()
		m.view.Attach(m.intro)
	} else {
		m.view.SetLoading(false)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Hero() *hero.View { return m.view }
func (m Model) Canvas() *Canvas  { return m.canvas }
func (m Model) Recording() bool  { return m.recording }

// Update handles keys and display refreshes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.view.Close()
			return m, tea.Quit
		case "r":
			m.restart()
		case "t":
			m.message = "theme: " + NextTheme()
		case "g":
			if m.recording {
				m.message = m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]image.Image, 0, maxFrames)
				m.message = "recording"
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.view.Update()
		m.refreshes++
		if m.recording && m.refreshes%recordEvery == 0 && len(m.frames) < maxFrames {
			if img := m.view.Frame(); img != nil {
				m.frames = append(m.frames, export.Paletted(img))
			}
		}
		return m, tick()
	}
	return m, nil
}

// restart cancels the current drawing and grows a new one immediately.
func (m *Model) restart() {
	m.tracker.reset()
	m.intro = nil
	if err := m.view.Restart(); err != nil {
		m.message = "restart failed: " + err.Error()
		return
	}
	m.message = "restarted"
}

func (m *Model) saveGIF() string {
	if len(m.frames) == 0 {
		return "nothing recorded"
	}
	f, err := os.Create(m.gifPath)
	if err != nil {
		m.logger.Printf("viz: gif: %v", err)
		return "gif: " + err.Error()
	}
	defer f.Close()

	if err := export.GIF(f, m.frames, gifDelay); err != nil {
		m.logger.Printf("viz: gif: %v", err)
		return "gif: " + err.Error()
	}
	return fmt.Sprintf("saved %d frames to %s", len(m.frames), m.gifPath)
}

func (m Model) status(st styles) string {
	d := m.view.Driver()
	switch {
	case m.recording:
		return st.recording.Render("● REC")
	case m.view.Disabled():
		return st.stopped.Render("DISABLED")
	case m.view.Loading():
		return st.stopped.Render(AnimatedSpinner(m.refreshes) + " LOADING")
	case d.State() == driver.Running:
		return st.running.Render(AnimatedSpinner(m.refreshes) + " GROWING")
	case d.State() == driver.Stopped:
		return st.stopped.Render("DONE")
	}
	return st.stopped.Render("WAITING")
}

func (m Model) View() string {
	st := themed(CurrentTheme)
	d := m.view.Driver()
	stats := d.Stats()

	var s strings.Builder
	s.WriteString(st.header.Render("ARTPLUM") + "\n")
	s.WriteString(m.status(st) + "\n\n")

	if m.intro != nil && !m.intro.Done() {
		s.WriteString(ProgressBar(m.intro.Progress(), 20) + "\n\n")
	}

	if len(m.tracker.pending) > 1 {
		chart := asciigraph.Plot(m.tracker.pending, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Pending"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("State", d.State().String())
	row("Tick", fmt.Sprintf("%d", m.tracker.last.Tick))
	row("Segments", fmt.Sprintf("%d", stats.Segments))
	row("Pending", fmt.Sprintf("%d", m.tracker.last.Pending))
	row("Peak", fmt.Sprintf("%d", stats.PeakPending))
	row("Opacity", fmt.Sprintf("%.2f", m.view.Opacity()))

	if sched := d.Scheduler(); sched != nil && sched.Lineages() > 0 {
		s.WriteString("\nLINEAGES\n")
		n := sched.Lineages()
		if n > shownCounts {
			n = shownCounts
		}
		for i := 0; i < n; i++ {
			row(fmt.Sprintf("  #%d", i), fmt.Sprintf("%d", sched.Counter(i)))
		}
	}

	if m.message != "" {
		s.WriteString("\n" + st.value.Render(m.message) + "\n")
	}
	s.WriteString(st.help.Render("─────────────────────\nR:Restart T:Theme Q:Quit\nG:Record  ?:Help"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, st.canvas.Render(m.canvas.String()), st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + main
	}
	return main
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  R        - Restart the drawing      ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run starts the live view in the alternate screen.
func Run(cfg hero.Config, opts Options) error {
	p := tea.NewProgram(NewModel(cfg, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
