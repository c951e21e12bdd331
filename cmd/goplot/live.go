package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/njchilds90/goplot"
)

const (
	liveCols = 80
	liveRows = 24

	// frameDT is how far t advances per frame while animating.
	frameDT = 0.05
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	sideStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

const (
	gridColor = "238"
	axisColor = "245"
)

type tickMsg time.Time

// inputMode is what the input line is collecting, if anything.
type inputMode int

const (
	inputNone inputMode = iota
	inputExpr
	inputRange
)

var inputPrompts = map[inputMode]string{inputExpr: "add> ", inputRange: "range> "}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// liveModel is the animated playground. It owns time: t only moves while
// animating, and curves are resampled only when something they depend on
// changed.
type liveModel struct {
	pg        *goplot.Playground
	r         goplot.SampleRange
	sampler   goplot.Sampler
	t         float64
	animating bool
	grid      bool
	vp        goplot.Viewport
	dots      *Canvas
	preset    int
	gallery   int
	mode      inputMode
	input     string
	dirty     bool
	status    string
	savePath  string
}

func newLiveModel(pg *goplot.Playground, sess *goplot.Session, savePath string) liveModel {
	c := NewCanvas(liveCols, liveRows)
	w, h := c.Size()
	return liveModel{
		pg:        pg,
		r:         sess.Range,
		sampler:   sess.Sampler(),
		t:         sess.Time,
		animating: sess.Animate,
		grid:      sess.Grid,
		vp:        goplot.Viewport{Width: float64(w), Height: float64(h)},
		dots:      c,
		dirty:     true,
		savePath:  savePath,
	}
}

func (m liveModel) Init() tea.Cmd { return tick() }

func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.updateInput(msg)
		}
		m.status = ""
		switch key := msg.String(); key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.animating = !m.animating
		case "r":
			m.t = 0
		case "g":
			m.grid = !m.grid
		case "left", "h":
			m.pan(-0.1)
		case "right", "l":
			m.pan(0.1)
		case "+", "=":
			m.zoom(0.8)
		case "-", "_":
			m.zoom(1.25)
		case "]":
			m.r.Precision = goplot.ClampPrecision(m.r.Precision + 50)
		case "[":
			m.r.Precision = goplot.ClampPrecision(m.r.Precision - 50)
		case "p":
			if _, err := m.pg.AddPreset(m.preset % len(goplot.Presets)); err != nil {
				m.status = err.Error()
			}
			m.preset++
		case "a", "/":
			m.mode = inputExpr
		case "m":
			m.mode = inputRange
			m.input = fmt.Sprintf("%g %g", m.r.Min, m.r.Max)
		case "s":
			g := goplot.Gallery[m.gallery%len(goplot.Gallery)]
			if _, err := m.pg.Add(g.Text); err != nil {
				m.status = err.Error()
			} else {
				m.status = g.Name + ": " + g.Description
			}
			m.gallery++
		case "d":
			m.addDerivative()
		case "x":
			if exprs := m.pg.Expressions(); len(exprs) > 0 {
				_ = m.pg.Remove(exprs[len(exprs)-1].ID)
			}
		case "c":
			m.pg.Clear()
		case "w":
			m.save()
		default:
			if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
				m.toggle(int(key[0] - '1'))
			}
		}
		m.dirty = true
	case tickMsg:
		if m.animating {
			m.t += frameDT
			if m.pg.TimeVarying() {
				m.dirty = true
			}
		}
		if m.dirty {
			m.draw()
			m.dirty = false
		}
		return m, tick()
	}
	return m, nil
}

// updateInput edits the input line. Enter submits it and Esc drops it.
func (m liveModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.mode, m.input = inputNone, ""
	case tea.KeyEnter:
		m.submit()
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

// submit applies the input line. A typed expression is added even when it
// does not compile; the entry then carries the error and the status shows
// where it is.
func (m *liveModel) submit() {
	mode, text := m.mode, m.input
	m.mode, m.input = inputNone, ""
	m.dirty = true
	switch mode {
	case inputExpr:
		e, err := m.pg.Add(text)
		if err != nil {
			m.status = err.Error()
			return
		}
		if e.Err != nil {
			m.status = goplot.Snippet(e.Err, e.Text)
		}
	case inputRange:
		m.setRange(text)
	}
}

func (m *liveModel) setRange(text string) {
	var r goplot.SampleRange
	if _, err := fmt.Sscan(text, &r.Min, &r.Max); err != nil {
		m.status = "range: want MIN MAX"
		return
	}
	r.Precision = m.r.Precision
	if err := r.Validate(); err != nil {
		m.status = err.Error()
		return
	}
	m.r = r
}

func (m *liveModel) pan(frac float64) {
	d := (m.r.Max - m.r.Min) * frac
	m.r.Min += d
	m.r.Max += d
}

func (m *liveModel) zoom(factor float64) {
	mid, half := (m.r.Min+m.r.Max)/2, (m.r.Max-m.r.Min)/2*factor
	if half < 1e-6 || half > 1e6 {
		return
	}
	m.r.Min, m.r.Max = mid-half, mid+half
}

func (m *liveModel) toggle(i int) {
	exprs := m.pg.Expressions()
	if i >= len(exprs) {
		return
	}
	_, _ = m.pg.Toggle(exprs[i].ID)
}

func (m *liveModel) addDerivative() {
	exprs := m.pg.Expressions()
	for i := len(exprs) - 1; i >= 0; i-- {
		if exprs[i].Valid() {
			if _, err := m.pg.AddDerivative(exprs[i].ID); err != nil {
				m.status = err.Error()
			}
			return
		}
	}
	m.status = "no valid expression to differentiate"
}

func (m *liveModel) save() {
	if m.savePath == "" {
		m.status = "no -session file to write"
		return
	}
	sess := goplot.SessionFromPlayground(m.pg, m.r, m.sampler, m.grid)
	sess.Animate, sess.Time = m.animating, m.t
	f, err := os.Create(m.savePath)
	if err != nil {
		m.status = err.Error()
		return
	}
	defer f.Close()
	if err := sess.Save(f); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "saved " + m.savePath
}

// draw repaints the dot canvas from the current playground state.
func (m *liveModel) draw() {
	m.dots.Clear()
	vp := m.vp
	if m.grid {
		drawGrid(m.dots, m.r, vp)
	}
	curves, err := m.pg.Curves(m.r, m.t, m.sampler)
	if err != nil {
		m.status = err.Error()
		return
	}
	for _, c := range curves {
		drawCurve(m.dots, c, m.r, vp)
	}
}

func drawGrid(dots *Canvas, r goplot.SampleRange, vp goplot.Viewport) {
	g, err := goplot.Grid(r, vp)
	if err != nil {
		return
	}
	w, h := dots.Size()
	for _, px := range g.Vertical {
		x := int(math.Round(px))
		for y := 0; y < h; y += 4 {
			dots.Set(x, y, gridColor)
		}
	}
	for _, py := range g.Horizontal {
		y := int(math.Round(py))
		for x := 0; x < w; x += 4 {
			dots.Set(x, y, gridColor)
		}
	}
	y := int(math.Round(g.XAxis))
	dots.DrawLine(0, y, w-1, y, axisColor)
	if g.HasYAxis {
		x := int(math.Round(g.YAxis))
		dots.DrawLine(x, 0, x, h-1, axisColor)
	}
}

func drawCurve(dots *Canvas, c goplot.Curve, r goplot.SampleRange, vp goplot.Viewport) {
	mapped, err := goplot.MapPoints(c.Points, r, vp)
	if err != nil {
		return
	}
	for _, stroke := range goplot.Strokes(mapped, vp) {
		prev := stroke[0]
		dots.Set(int(math.Round(prev.PX)), int(math.Round(prev.PY)), c.Color)
		for _, p := range stroke[1:] {
			dots.DrawLine(int(math.Round(prev.PX)), int(math.Round(prev.PY)),
				int(math.Round(p.PX)), int(math.Round(p.PY)), c.Color)
			prev = p
		}
	}
}

func (m liveModel) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("EQUATION PLAYGROUND") + "\n")
	state := "PAUSED"
	if m.animating {
		state = "ANIMATING"
	}
	s.WriteString(state + "\n\n")
	s.WriteString(labelStyle.Render("t") + valueStyle.Render(fmt.Sprintf("%.2f", m.t)) + "\n")
	s.WriteString(labelStyle.Render("range") + valueStyle.Render(fmt.Sprintf("[%.3g, %.3g]", m.r.Min, m.r.Max)) + "\n")
	s.WriteString(labelStyle.Render("precision") + valueStyle.Render(fmt.Sprint(m.r.Precision)) + "\n")
	lo, hi := goplot.VisibleY(m.vp)
	s.WriteString(labelStyle.Render("y") + valueStyle.Render(fmt.Sprintf("[%g, %g]", lo, hi)) + "\n\n")

	s.WriteString("EXPRESSIONS\n")
	exprs := m.pg.Expressions()
	if len(exprs) == 0 {
		s.WriteString(mutedStyle.Render("  (none, press p)") + "\n")
	}
	for i, e := range exprs {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color)).Render("━━")
		line := fmt.Sprintf("%d %s %s", i+1, swatch, e.Text)
		switch {
		case e.Err != nil:
			s.WriteString(errStyle.Render(line) + "\n")
			s.WriteString(errStyle.Render("    "+e.Err.Error()) + "\n")
		case !e.Visible:
			s.WriteString(mutedStyle.Render(line+" (hidden)") + "\n")
		default:
			s.WriteString(line + "\n")
		}
	}
	if m.mode != inputNone {
		s.WriteString("\n" + valueStyle.Render(inputPrompts[m.mode]+m.input+"█") + "\n")
	}
	if m.status != "" {
		s.WriteString("\n" + mutedStyle.Render(m.status) + "\n")
	}
	s.WriteString(helpStyle.Render("─────────────────────\nSP:Animate R:Reset-t G:Grid Q:Quit\n←→:Pan +-:Zoom [ ]:Precision\nA:Add M:Range S:Gallery P:Preset\nD:Derivative X:Drop C:Clear\n1-9:Toggle W:Save ESC:Cancel"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.dots.String()), sideStyle.Render(s.String()))
}

func runLive(args []string) error {
	fs := flag.NewFlagSet("live", flag.ContinueOnError)
	sessionPath := fs.String("session", "", "YAML session to load, and to write with W")
	animate := fs.Bool("animate", true, "start animating")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess := goplot.DefaultSession()
	sess.Animate = *animate
	var pg *goplot.Playground
	if *sessionPath != "" {
		loaded, err := loadSessionFile(*sessionPath)
		switch {
		case err == nil:
			sess = loaded
			pg = sess.Playground()
			fs.Visit(func(f *flag.Flag) {
				if f.Name == "animate" {
					sess.Animate = *animate
				}
			})
		case errors.Is(err, os.ErrNotExist):
			// A new file is written on the first save.
		default:
			return err
		}
	}
	if pg == nil {
		if fs.NArg() == 0 {
			pg = goplot.DefaultPlayground()
		} else {
			pg = goplot.NewPlayground()
		}
	}
	for _, text := range fs.Args() {
		if _, err := pg.Add(text); err != nil {
			return err
		}
	}
	_, err := tea.NewProgram(newLiveModel(pg, sess, *sessionPath), tea.WithAltScreen()).Run()
	return err
}
