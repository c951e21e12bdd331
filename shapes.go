package goplot

import (
	"fmt"
	"math"
)

// ============================================================
// Parametric shapes
// ============================================================

// ShapeKind selects one of the closed parametric figures.
type ShapeKind string

const (
	Circle     ShapeKind = "circle"
	Spiral     ShapeKind = "spiral"
	Lemniscate ShapeKind = "lemniscate"
	Rose       ShapeKind = "rose"
	Hyperbola  ShapeKind = "hyperbola"
	Cardioid   ShapeKind = "cardioid"
)

// ShapeKinds lists every kind in display order.
var ShapeKinds = []ShapeKind{Circle, Spiral, Lemniscate, Rose, Hyperbola, Cardioid}

// DefaultShapePoints is the number of samples per figure.
const DefaultShapePoints = 200

// Shape is a parametric figure centred on Center. Rotation and MorphPhase are
// in radians; time t turns and morphs the figure.
type Shape struct {
	Kind       ShapeKind `json:"kind" yaml:"kind"`
	Center     Point     `json:"center" yaml:"center"`
	Size       float64   `json:"size" yaml:"size"`
	Rotation   float64   `json:"rotation" yaml:"rotation"`
	MorphPhase float64   `json:"morphPhase" yaml:"morphPhase"`
}

// at returns the offset from the centre for parameter angle in [0, 2π).
func (s Shape) at(angle, t float64) (x, y float64, ok bool) {
	size, rot := s.Size, s.Rotation
	switch s.Kind {
	case Circle:
		a := angle + rot + t*0.01
		return size * math.Cos(a), size * math.Sin(a), true
	case Spiral:
		r := size * (1 + 0.1*angle)
		a := angle + rot + t*0.02
		return r * math.Cos(a), r * math.Sin(a), true
	case Lemniscate:
		r := size * math.Cos(2*angle)
		return r * math.Cos(angle+rot+t*0.015), r * math.Sin(2*angle+s.MorphPhase+t*0.015), true
	case Rose:
		k := 3 + math.Sin(t*0.01)*2
		r := size * math.Cos(k*angle)
		a := angle + rot + t*0.01
		return r * math.Cos(a), r * math.Sin(a), true
	case Hyperbola:
		u := (angle - math.Pi) * 2 * 0.1
		return size * math.Cosh(u) * math.Cos(rot+t*0.01), size * math.Sinh(u) * math.Sin(rot+t*0.01), true
	case Cardioid:
		r := size * (1 + math.Cos(angle+s.MorphPhase+t*0.01))
		return r * math.Cos(angle+rot), r * math.Sin(angle+rot), true
	}
	return 0, 0, false
}

// SampleParametric returns n points around s at time t, for angles i/n*2π with
// i = 0..n-1. The figure is closed by the caller joining the last point to
// the first. Unknown kinds and n outside [2, MaxSamplePrecision] are errors.
func SampleParametric(s Shape, n int, t float64) ([]PlotPoint, error) {
	if n < 2 {
		return []PlotPoint{}, &RangeError{Field: "points", Msg: fmt.Sprintf("%d is below 2", n)}
	}
	if n > MaxSamplePrecision {
		return []PlotPoint{}, &RangeError{Field: "points", Msg: fmt.Sprintf("%d is above %d", n, MaxSamplePrecision)}
	}
	if _, _, ok := s.at(0, 0); !ok {
		return []PlotPoint{}, fmt.Errorf("goplot: unknown shape kind %q", s.Kind)
	}
	points := make([]PlotPoint, n)
	for i := range points {
		angle := float64(i) / float64(n) * 2 * math.Pi
		x, y, _ := s.at(angle, t)
		points[i] = PlotPoint{X: s.Center.X + x, Y: s.Center.Y + y, Kind: Normal}
	}
	return points, nil
}

// ShapeBounds returns the bounding box of points, ignoring breaks.
func ShapeBounds(points []PlotPoint) (lo, hi Point) {
	lo = Point{X: math.Inf(1), Y: math.Inf(1)}
	hi = Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, p := range points {
		if p.Kind == Break {
			continue
		}
		lo.X, hi.X = math.Min(lo.X, p.X), math.Max(hi.X, p.X)
		lo.Y, hi.Y = math.Min(lo.Y, p.Y), math.Max(hi.Y, p.Y)
	}
	return lo, hi
}
