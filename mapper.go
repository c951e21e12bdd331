package goplot

import (
	"encoding/json"
	"fmt"
	"math"
)

// ============================================================
// Coordinate mapping
// ============================================================

// Viewport is the drawing surface in device units (pixels, braille dots).
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Validate reports a *RangeError for non-positive or non-finite sizes.
func (vp Viewport) Validate() error {
	for _, side := range []struct {
		name string
		v    float64
	}{{"viewport width", vp.Width}, {"viewport height", vp.Height}} {
		if math.IsNaN(side.v) || math.IsInf(side.v, 0) || side.v <= 0 {
			return &RangeError{Field: side.name, Msg: fmt.Sprintf("%g is not a positive size", side.v)}
		}
	}
	return nil
}

// YScale is the device units per math unit on the vertical axis. It depends
// on the height only, so the visible y band does not change with the domain.
func (vp Viewport) YScale() float64 { return vp.Height / 8 }

// VisibleY returns the math y interval that fits the viewport: always ±4.
func VisibleY(vp Viewport) (lo, hi float64) {
	half := vp.Height / 2 / vp.YScale()
	return -half, half
}

// DevicePoint is a sample mapped into device coordinates.
type DevicePoint struct {
	PX   float64   `json:"px"`
	PY   float64   `json:"py"`
	Kind PointKind `json:"kind"`
}

// MarshalJSON writes break points with a null py.
func (d DevicePoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		PX   float64   `json:"px"`
		PY   *float64  `json:"py"`
		Kind PointKind `json:"kind"`
	}{d.PX, finiteOrNil(d.PY), d.Kind})
}

// ToDevice maps p into vp:
//
//	px = (x - Min) / (Max - Min) * Width
//	py = Height/2 - y * Height/8
//
// Degenerate ranges or viewports yield a *RangeError instead of NaN or Inf.
func ToDevice(p Point, r SampleRange, vp Viewport) (DevicePoint, error) {
	if err := r.validateBounds(); err != nil {
		return DevicePoint{}, err
	}
	if err := vp.Validate(); err != nil {
		return DevicePoint{}, err
	}
	return toDevice(p, r, vp), nil
}

func toDevice(p Point, r SampleRange, vp Viewport) DevicePoint {
	return DevicePoint{
		PX: (p.X - r.Min) / (r.Max - r.Min) * vp.Width,
		PY: vp.Height/2 - p.Y*vp.YScale(),
	}
}

// MapPoints maps every sample, keeping its kind. Break points keep a NaN PY.
func MapPoints(points []PlotPoint, r SampleRange, vp Viewport) ([]DevicePoint, error) {
	if err := r.validateBounds(); err != nil {
		return nil, err
	}
	if err := vp.Validate(); err != nil {
		return nil, err
	}
	out := make([]DevicePoint, len(points))
	for i, p := range points {
		d := toDevice(p.Point(), r, vp)
		if p.Kind == Break {
			d.PY = math.NaN()
		}
		d.Kind = p.Kind
		out[i] = d
	}
	return out, nil
}

// Strokes splits mapped points into connected sub-paths. A new sub-path
// starts after every Break point and wherever two consecutive points are
// more than half the viewport height apart, which is where a curve crosses
// an asymptote between samples. The strokes share points' backing array.
func Strokes(points []DevicePoint, vp Viewport) [][]DevicePoint {
	runs := splitRuns(len(points),
		func(i int) bool { return points[i].Kind == Break },
		func(i int) float64 { return points[i].PY },
		vp.Height/2)
	strokes := make([][]DevicePoint, len(runs))
	for i, run := range runs {
		strokes[i] = points[run[0]:run[1]]
	}
	return strokes
}

// splitRuns returns the [start, end) index runs of a sampled curve of n
// points. A run ends before every break and between consecutive points whose
// y values differ by more than jump.
func splitRuns(n int, isBreak func(int) bool, y func(int) float64, jump float64) [][2]int {
	var runs [][2]int
	start := -1
	for i := 0; i < n; i++ {
		if isBreak(i) {
			if start >= 0 {
				runs = append(runs, [2]int{start, i})
			}
			start = -1
			continue
		}
		if start >= 0 && math.Abs(y(i)-y(i-1)) > jump {
			runs = append(runs, [2]int{start, i})
			start = -1
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		runs = append(runs, [2]int{start, n})
	}
	return runs
}

// ============================================================
// Grid
// ============================================================

// GridLines holds the background grid in device coordinates.
type GridLines struct {
	Vertical   []float64 `json:"vertical"`   // px of each vertical line
	Horizontal []float64 `json:"horizontal"` // py of each horizontal line
	XAxis      float64   `json:"xAxis"`      // py of y = 0
	YAxis      float64   `json:"yAxis"`      // px of x = 0, valid when HasYAxis
	HasYAxis   bool      `json:"hasYAxis"`
}

// Grid lays out the background grid: vertical lines every twentieth of the
// domain, horizontal lines for y = -10..10 step 2 spread over half the height
// each way, the x axis through the middle and the y axis at x = 0 when the
// domain contains it.
func Grid(r SampleRange, vp Viewport) (GridLines, error) {
	if err := r.validateBounds(); err != nil {
		return GridLines{}, err
	}
	if err := vp.Validate(); err != nil {
		return GridLines{}, err
	}
	var g GridLines
	step := (r.Max - r.Min) / 20
	for i := 0; i <= 20; i++ {
		x := r.Min + float64(i)*step
		g.Vertical = append(g.Vertical, (x-r.Min)/(r.Max-r.Min)*vp.Width)
	}
	half := vp.Height / 2
	for y := -10; y <= 10; y += 2 {
		g.Horizontal = append(g.Horizontal, half-(float64(y)/20)*half)
	}
	g.XAxis = half
	if px := (0 - r.Min) / (r.Max - r.Min) * vp.Width; px >= 0 && px <= vp.Width {
		g.YAxis, g.HasYAxis = px, true
	}
	return g, nil
}
