package goplot

import (
	"fmt"
	"strings"
)

// ============================================================
// Playground
// ============================================================

// Palette is the colour cycle for new expressions.
var Palette = []string{
	"#8B5CF6", "#10B981", "#F59E0B", "#EF4444",
	"#3B82F6", "#8B5A3C", "#EC4899", "#6B7280",
}

// Presets are the one-click expressions offered next to the input box.
var Presets = []string{
	"sin(x)", "cos(x)", "tan(x)", "x^2", "x^3", "sqrt(x)",
	"log(x)", "exp(x)", "sin(x) + cos(2*x)", "x * sin(x)", "sin(x) * cos(x)", "abs(x)",
}

// GalleryEntry is a named showcase function.
type GalleryEntry struct {
	Name        string `json:"name"`
	Text        string `json:"text"`
	Description string `json:"description"`
}

// Gallery lists the showcase functions; the time-varying ones animate.
var Gallery = []GalleryEntry{
	{"Sine Wave", "sin(x + t)", "travelling sine wave"},
	{"Complex Wave", "sin(x + t) * cos(x/2 + t/2)", "product of two waves"},
	{"Exponential Growth", "e^(x/10) * (1 + 0.1*sin(t))", "slowly breathing exponential"},
	{"Polynomial", "(x^3 - 3*x^2 + 2*x) / 10", "cubic with roots at 0, 1 and 2"},
	{"Fourier Series", fourierText(10), "partial sum of a square wave"},
}

func fourierText(terms int) string {
	var parts []string
	for n := 1; n <= terms; n++ {
		k := 2*n - 1
		parts = append(parts, fmt.Sprintf("sin(%d*(x + t))/%d", k, k))
	}
	return "4/pi*(" + strings.Join(parts, " + ") + ")"
}

// Expression is one playground entry. An entry whose text fails to compile
// is kept with Err set and is never plotted.
type Expression struct {
	ID       int       `json:"id"`
	Text     string    `json:"text"`
	Color    string    `json:"color"`
	Visible  bool      `json:"visible"`
	Err      error     `json:"-"`
	Compiled *Compiled `json:"-"`
}

// Valid reports whether the entry compiled.
func (e *Expression) Valid() bool { return e.Err == nil && e.Compiled != nil }

// Plotted reports whether the entry is drawn.
func (e *Expression) Plotted() bool { return e.Visible && e.Valid() }

func (e *Expression) recompile() {
	e.Compiled, e.Err = Compile(e.Text)
}

// Curve is a sampled playground entry ready for a renderer.
type Curve struct {
	ID     int         `json:"id"`
	Label  string      `json:"label"`
	Color  string      `json:"color"`
	Points []PlotPoint `json:"points"`
}

// Playground is an insertion-ordered set of expressions. It is not safe for
// concurrent use.
type Playground struct {
	exprs  []*Expression
	nextID int
}

// NewPlayground returns an empty playground.
func NewPlayground() *Playground { return &Playground{nextID: 1} }

// DefaultPlayground returns a playground seeded with sin(x) and cos(x).
func DefaultPlayground() *Playground {
	pg := NewPlayground()
	pg.Add("sin(x)")
	pg.Add("cos(x)")
	return pg
}

// Add appends text as a new visible entry coloured by position in Palette.
// Blank text is refused with ErrEmpty. Text that does not compile is still
// added; the returned entry carries the compile error.
func (pg *Playground) Add(text string) (*Expression, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmpty
	}
	e := &Expression{
		ID:      pg.nextID,
		Text:    text,
		Color:   Palette[len(pg.exprs)%len(Palette)],
		Visible: true,
	}
	pg.nextID++
	e.recompile()
	pg.exprs = append(pg.exprs, e)
	return e, nil
}

// AddPreset adds Presets[i].
func (pg *Playground) AddPreset(i int) (*Expression, error) {
	if i < 0 || i >= len(Presets) {
		return nil, fmt.Errorf("preset %d: %w", i, ErrNotFound)
	}
	return pg.Add(Presets[i])
}

// AddDerivative adds d/dx of entry id as a new entry.
func (pg *Playground) AddDerivative(id int) (*Expression, error) {
	e, err := pg.Get(id)
	if err != nil {
		return nil, err
	}
	if !e.Valid() {
		return nil, fmt.Errorf("derivative of %q: %w", e.Text, e.Err)
	}
	return pg.Add(Diff(e.Compiled.Expr(), "x").String())
}

// Get returns the entry with the given id.
func (pg *Playground) Get(id int) (*Expression, error) {
	for _, e := range pg.exprs {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, fmt.Errorf("id %d: %w", id, ErrNotFound)
}

// Remove deletes entry id.
func (pg *Playground) Remove(id int) error {
	for i, e := range pg.exprs {
		if e.ID == id {
			pg.exprs = append(pg.exprs[:i], pg.exprs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("id %d: %w", id, ErrNotFound)
}

// Toggle flips the visibility of entry id and returns the new state.
func (pg *Playground) Toggle(id int) (bool, error) {
	e, err := pg.Get(id)
	if err != nil {
		return false, err
	}
	e.Visible = !e.Visible
	return e.Visible, nil
}

// SetText replaces the text of entry id and recompiles it. The returned
// error is the lookup failure; compile failures land on the entry.
func (pg *Playground) SetText(id int, text string) (*Expression, error) {
	e, err := pg.Get(id)
	if err != nil {
		return nil, err
	}
	e.Text = strings.TrimSpace(text)
	e.recompile()
	return e, nil
}

// Clear removes every entry. IDs are not reused.
func (pg *Playground) Clear() { pg.exprs = nil }

// Len returns the number of entries.
func (pg *Playground) Len() int { return len(pg.exprs) }

// Expressions returns the entries in insertion order.
func (pg *Playground) Expressions() []*Expression {
	return append([]*Expression(nil), pg.exprs...)
}

// TimeVarying reports whether any plotted entry references t.
func (pg *Playground) TimeVarying() bool {
	for _, e := range pg.exprs {
		if e.Plotted() && e.Compiled.TimeVarying() {
			return true
		}
	}
	return false
}

// Curves samples every plotted entry at time t, in insertion order.
func (pg *Playground) Curves(r SampleRange, t float64, s Sampler) ([]Curve, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	var curves []Curve
	for _, e := range pg.exprs {
		if !e.Plotted() {
			continue
		}
		points, err := s.Sample(e.Compiled, r, t)
		if err != nil {
			return nil, err
		}
		curves = append(curves, Curve{ID: e.ID, Label: e.Text, Color: e.Color, Points: points})
	}
	return curves, nil
}
