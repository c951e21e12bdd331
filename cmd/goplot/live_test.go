package main

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/njchilds90/goplot"
)

// ============================================================
// Live playground model
// ============================================================

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m liveModel, keys ...string) liveModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(liveModel)
	}
	return m
}

func frame(m liveModel) liveModel {
	next, _ := m.Update(tickMsg{})
	return next.(liveModel)
}

func newTestModel(savePath string) liveModel {
	return newLiveModel(goplot.DefaultPlayground(), goplot.DefaultSession(), savePath)
}

func TestLive_TimeOnlyMovesWhileAnimating(t *testing.T) {
	m := newTestModel("")
	m = frame(m)
	if m.t != 0 {
		t.Fatalf("paused model advanced t to %g", m.t)
	}
	m = press(m, " ")
	m = frame(frame(m))
	if m.t < 2*frameDT-1e-9 || m.t > 2*frameDT+1e-9 {
		t.Errorf("t = %g after two frames", m.t)
	}
	m = press(m, "r")
	if m.t != 0 {
		t.Errorf("reset left t = %g", m.t)
	}
}

func TestLive_PanZoomPrecision(t *testing.T) {
	m := newTestModel("")
	m = press(m, "l")
	if m.r.Min != -8 || m.r.Max != 12 {
		t.Errorf("pan right gave [%g, %g]", m.r.Min, m.r.Max)
	}
	m = press(m, "left", "+")
	if m.r.Min != -8 || m.r.Max != 8 {
		t.Errorf("zoom in gave [%g, %g]", m.r.Min, m.r.Max)
	}
	m = press(m, "]")
	if m.r.Precision != 150 {
		t.Errorf("precision %d", m.r.Precision)
	}
	for i := 0; i < 20; i++ {
		m = press(m, "[")
	}
	if m.r.Precision != goplot.MinPrecision {
		t.Errorf("precision %d not held at the minimum", m.r.Precision)
	}
}

func TestLive_Expressions(t *testing.T) {
	m := newTestModel("")
	m = press(m, "p", "d")
	exprs := m.pg.Expressions()
	if len(exprs) != 4 || exprs[2].Text != goplot.Presets[0] {
		t.Fatalf("entries after p, d: %d", len(exprs))
	}
	m = press(m, "1")
	if m.pg.Expressions()[0].Visible {
		t.Errorf("1 did not hide the first entry")
	}
	m = press(m, "x")
	if m.pg.Len() != 3 {
		t.Errorf("x left %d entries", m.pg.Len())
	}
	m = press(m, "c", "d")
	if m.pg.Len() != 0 || m.status == "" {
		t.Errorf("derivative on an empty playground: len %d status %q", m.pg.Len(), m.status)
	}
}

func TestLive_DrawAndView(t *testing.T) {
	m := frame(newTestModel(""))
	if !strings.ContainsFunc(m.dots.Plain(), func(r rune) bool { return r > 0x2800 }) {
		t.Errorf("nothing drawn")
	}
	view := m.View()
	for _, want := range []string{"EQUATION PLAYGROUND", "PAUSED", "sin(x)", "cos(x)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q", want)
		}
	}
}

func TestLive_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	m := press(newTestModel(path), "g", "w")
	if !strings.HasPrefix(m.status, "saved") {
		t.Fatalf("status %q", m.status)
	}
	sess, err := loadSessionFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sess.Grid || len(sess.Expressions) != 2 {
		t.Errorf("saved session %+v", sess)
	}
	if m := press(newTestModel(""), "w"); m.status == "" {
		t.Errorf("save without a path gave no status")
	}
}

// typed sends each rune of text as its own key press.
func typed(m liveModel, text string) liveModel {
	keys := make([]string, 0, len(text))
	for _, r := range text {
		keys = append(keys, string(r))
	}
	return press(m, keys...)
}

func TestLive_TypeExpression(t *testing.T) {
	m := press(newTestModel(""), "a")
	if m.mode != inputExpr {
		t.Fatalf("a did not open the input line")
	}
	m = typed(m, "x^2 + q")
	if m.pg.Len() != 2 {
		t.Errorf("keys typed into the input line ran as commands")
	}
	m = press(m, "backspace", "backspace", "backspace", "backspace")
	m = press(typed(m, " - 1"), "enter")
	if m.mode != inputNone || m.input != "" {
		t.Errorf("input line still open: %q", m.input)
	}
	exprs := m.pg.Expressions()
	if len(exprs) != 3 || exprs[2].Text != "x^2 - 1" || !exprs[2].Valid() {
		t.Fatalf("entries %d, last %q", len(exprs), exprs[len(exprs)-1].Text)
	}
	if !strings.Contains(m.View(), "x^2 - 1") {
		t.Errorf("view lacks the typed entry")
	}
}

func TestLive_TypeInvalidExpression(t *testing.T) {
	m := press(typed(press(newTestModel(""), "/"), "2x"), "enter")
	exprs := m.pg.Expressions()
	if len(exprs) != 3 || exprs[2].Valid() {
		t.Fatalf("invalid entry not kept: %d entries", len(exprs))
	}
	if !strings.Contains(m.status, "invalid expression") || !strings.Contains(m.status, "^") {
		t.Errorf("status %q lacks the caret snippet", m.status)
	}
	m = press(m, "a", "enter")
	if m.pg.Len() != 3 || m.status == "" {
		t.Errorf("blank input: len %d status %q", m.pg.Len(), m.status)
	}
}

func TestLive_CancelInput(t *testing.T) {
	m := press(typed(press(newTestModel(""), "a"), "tan(x)"), "esc")
	if m.mode != inputNone || m.pg.Len() != 2 {
		t.Errorf("esc: mode %d, %d entries", m.mode, m.pg.Len())
	}
}

func TestLive_EditRange(t *testing.T) {
	m := press(newTestModel(""), "m")
	if m.input != "-10 10" {
		t.Fatalf("range input prefilled with %q", m.input)
	}
	for range m.input {
		m = press(m, "backspace")
	}
	m = press(typed(m, "-2 3.5"), "enter")
	if m.r.Min != -2 || m.r.Max != 3.5 || m.r.Precision != goplot.DefaultRange.Precision {
		t.Errorf("range %+v", m.r)
	}
	m = press(typed(press(m, "m", "backspace", "backspace", "backspace"), "-9"), "enter")
	if m.r.Max != 3.5 || m.status == "" {
		t.Errorf("reversed range accepted: %+v, status %q", m.r, m.status)
	}
}

func TestLive_Gallery(t *testing.T) {
	m := newTestModel("")
	for range goplot.Gallery {
		m = press(m, "s")
	}
	exprs := m.pg.Expressions()
	if len(exprs) != 2+len(goplot.Gallery) {
		t.Fatalf("got %d entries", len(exprs))
	}
	for i, g := range goplot.Gallery {
		if e := exprs[2+i]; e.Text != g.Text || !e.Valid() {
			t.Errorf("gallery %d added %q (%v)", i, e.Text, e.Err)
		}
	}
	if !m.pg.TimeVarying() {
		t.Errorf("gallery entries should animate")
	}
}
