package goplot

import (
	"encoding/json"
	"fmt"
	"math"
)

// ============================================================
// Sample range and points
// ============================================================

// DefaultClamp is the display magnitude bound applied by Sample.
const DefaultClamp = 100

// Precision bounds used by interactive front ends.
const (
	MinPrecision = 50
	MaxPrecision = 500
)

// MaxSamplePrecision is the largest precision any range may ask for.
const MaxSamplePrecision = 1000000

// SampleRange is the x domain [Min, Max] sampled at Precision equal steps.
type SampleRange struct {
	Min       float64 `json:"min" yaml:"min"`
	Max       float64 `json:"max" yaml:"max"`
	Precision int     `json:"precision" yaml:"precision"`
}

// DefaultRange is the playground's initial domain.
var DefaultRange = SampleRange{Min: -10, Max: 10, Precision: 100}

// Validate reports a *RangeError unless Min < Max, both are finite with a
// finite span, and 2 <= Precision <= MaxSamplePrecision.
func (r SampleRange) Validate() error {
	if err := r.validateBounds(); err != nil {
		return err
	}
	if r.Precision < 2 {
		return &RangeError{Field: "precision", Msg: fmt.Sprintf("%d is below 2", r.Precision)}
	}
	if r.Precision > MaxSamplePrecision {
		return &RangeError{Field: "precision", Msg: fmt.Sprintf("%d is above %d", r.Precision, MaxSamplePrecision)}
	}
	return nil
}

func (r SampleRange) validateBounds() error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return &RangeError{Field: "range", Msg: "bounds must be finite"}
	}
	if r.Min >= r.Max {
		return &RangeError{Field: "range", Msg: fmt.Sprintf("min %g is not below max %g", r.Min, r.Max)}
	}
	if math.IsInf(r.Max-r.Min, 0) {
		return &RangeError{Field: "range", Msg: fmt.Sprintf("span from %g to %g overflows", r.Min, r.Max)}
	}
	return nil
}

// Step is the distance between consecutive samples.
func (r SampleRange) Step() float64 { return (r.Max - r.Min) / float64(r.Precision) }

// ClampPrecision limits a user-supplied precision to [MinPrecision, MaxPrecision].
func ClampPrecision(n int) int {
	switch {
	case n < MinPrecision:
		return MinPrecision
	case n > MaxPrecision:
		return MaxPrecision
	}
	return n
}

// PointKind tells the renderer how to stroke a point.
type PointKind int

const (
	// Normal points are connected to their neighbours.
	Normal PointKind = iota
	// Clamped points had |y| at or above the clamp bound and carry
	// sign(y)*clamp. They stay connected.
	Clamped
	// Break points are undefined (Y is NaN); the renderer starts a new
	// sub-path after one.
	Break
)

var kindNames = [...]string{"normal", "clamped", "break"}

func (k PointKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("PointKind(%d)", int(k))
	}
	return kindNames[k]
}

func (k PointKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Point is a position in math coordinates.
type Point struct {
	X float64
	Y float64
}

// PlotPoint is one sample of a curve.
type PlotPoint struct {
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
	Kind PointKind `json:"kind"`
}

func (p PlotPoint) Point() Point { return Point{X: p.X, Y: p.Y} }

// MarshalJSON writes break points with a null y, since JSON has no NaN.
func (p PlotPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(wirePoint{X: p.X, Y: finiteOrNil(p.Y), Kind: p.Kind})
}

type wirePoint struct {
	X    float64   `json:"x"`
	Y    *float64  `json:"y"`
	Kind PointKind `json:"kind"`
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ============================================================
// Sampler
// ============================================================

// Sampler turns a compiled expression into tagged points. The zero value
// clamps at DefaultClamp.
type Sampler struct {
	// Clamp is the magnitude at which finite values are capped. Zero or
	// negative means DefaultClamp.
	Clamp float64
}

func (s Sampler) clamp() float64 {
	if s.Clamp > 0 {
		return s.Clamp
	}
	return DefaultClamp
}

// Sample evaluates c at r.Precision+1 evenly spaced x values from r.Min to
// r.Max inclusive, at animation time t. An invalid range yields an empty slice
// and a *RangeError. The result depends only on (c, r, t, s.Clamp).
func (s Sampler) Sample(c *Compiled, r SampleRange, t float64) ([]PlotPoint, error) {
	if err := r.Validate(); err != nil {
		return []PlotPoint{}, err
	}
	clamp := s.clamp()
	step := r.Step()
	points := make([]PlotPoint, r.Precision+1)
	for i := range points {
		x := r.Min + float64(i)*step
		if i == r.Precision {
			x = r.Max
		}
		points[i] = s.classify(x, c, t, clamp)
	}
	return points, nil
}

func (s Sampler) classify(x float64, c *Compiled, t, clamp float64) PlotPoint {
	y, err := c.Eval(x, t)
	switch {
	case err != nil:
		return PlotPoint{X: x, Y: math.NaN(), Kind: Break}
	case math.Abs(y) >= clamp:
		return PlotPoint{X: x, Y: math.Copysign(clamp, y), Kind: Clamped}
	}
	return PlotPoint{X: x, Y: y, Kind: Normal}
}

// Sample uses the default Sampler.
func Sample(c *Compiled, r SampleRange, t float64) ([]PlotPoint, error) {
	return Sampler{}.Sample(c, r, t)
}

// Ys returns the y values of points, NaN for breaks.
func Ys(points []PlotPoint) []float64 {
	ys := make([]float64, len(points))
	for i, p := range points {
		ys[i] = p.Y
	}
	return ys
}
