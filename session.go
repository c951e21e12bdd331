package goplot

import (
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ============================================================
// Session file
// ============================================================

// Session is the on-disk form of a playground and its view settings:
//
//	range: {min: -10, max: 10, precision: 100}
//	clamp: 100
//	grid: true
//	animate: false
//	expressions:
//	  - text: sin(x + t)
//	    color: "#8B5CF6"
//	  - text: cos(x)
//	    hidden: true
type Session struct {
	Range       SampleRange   `yaml:"range"`
	Clamp       float64       `yaml:"clamp"`
	Grid        bool          `yaml:"grid"`
	Animate     bool          `yaml:"animate"`
	Time        float64       `yaml:"t,omitempty"`
	Expressions []SessionExpr `yaml:"expressions"`
}

// SessionExpr is one saved playground entry. An empty Color takes the next
// palette colour on load.
type SessionExpr struct {
	Text   string `yaml:"text"`
	Color  string `yaml:"color,omitempty"`
	Hidden bool   `yaml:"hidden,omitempty"`
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// DefaultSession returns the settings a fresh playground starts with.
func DefaultSession() *Session {
	return &Session{Range: DefaultRange, Clamp: DefaultClamp, Grid: true}
}

// LoadSession decodes a YAML session on top of DefaultSession. Unknown keys
// are rejected. Precision is clamped to [MinPrecision, MaxPrecision] as the
// interactive input does.
func LoadSession(r io.Reader) (*Session, error) {
	s := DefaultSession()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	s.Range.Precision = ClampPrecision(s.Range.Precision)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the range, clamp and colours. Expression text is not
// compiled here; bad text is kept and surfaces on the playground entry.
func (s *Session) Validate() error {
	if err := s.Range.Validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if math.IsNaN(s.Clamp) || math.IsInf(s.Clamp, 0) || s.Clamp <= 0 {
		return fmt.Errorf("session: %w", &RangeError{Field: "clamp", Msg: fmt.Sprintf("%g is not a positive magnitude", s.Clamp)})
	}
	if math.IsNaN(s.Time) || math.IsInf(s.Time, 0) {
		return fmt.Errorf("session: %w", &RangeError{Field: "t", Msg: "must be finite"})
	}
	for i, e := range s.Expressions {
		if e.Color != "" && !hexColor.MatchString(e.Color) {
			return fmt.Errorf("session: expression %d: color %q is not #RRGGBB", i+1, e.Color)
		}
	}
	return nil
}

// Save encodes s as YAML.
func (s *Session) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return enc.Close()
}

// Sampler returns the sampler configured by s.
func (s *Session) Sampler() Sampler { return Sampler{Clamp: s.Clamp} }

// Playground builds a playground holding the saved expressions. Blank
// entries are skipped.
func (s *Session) Playground() *Playground {
	pg := NewPlayground()
	for _, se := range s.Expressions {
		e, err := pg.Add(se.Text)
		if err != nil {
			continue
		}
		if se.Color != "" {
			e.Color = se.Color
		}
		e.Visible = !se.Hidden
	}
	return pg
}

// SessionFromPlayground captures pg with the given view settings.
func SessionFromPlayground(pg *Playground, r SampleRange, s Sampler, grid bool) *Session {
	sess := &Session{Range: r, Clamp: s.clamp(), Grid: grid, Animate: pg.TimeVarying()}
	for _, e := range pg.Expressions() {
		sess.Expressions = append(sess.Expressions, SessionExpr{Text: e.Text, Color: e.Color, Hidden: !e.Visible})
	}
	return sess
}
