package goplot_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/njchilds90/goplot"
)

var vp800 = goplot.Viewport{Width: 800, Height: 400}

// ============================================================
// ToDevice
// ============================================================

func TestToDevice_Ends(t *testing.T) {
	r := goplot.DefaultRange
	lo, err := goplot.ToDevice(goplot.Point{X: r.Min, Y: 0}, r, vp800)
	if err != nil {
		t.Fatalf("ToDevice: %v", err)
	}
	hi, _ := goplot.ToDevice(goplot.Point{X: r.Max, Y: 0}, r, vp800)
	if !approx(lo.PX, 0) || !approx(hi.PX, 800) {
		t.Errorf("px at ends = %g, %g; want 0, 800", lo.PX, hi.PX)
	}
	if lo.PY != 200 {
		t.Errorf("py of y=0 = %g, want 200", lo.PY)
	}
}

func TestToDevice_VerticalScale(t *testing.T) {
	r := goplot.SampleRange{Min: -3, Max: 7, Precision: 10}
	cases := []struct{ y, py float64 }{{4, 0}, {-4, 400}, {1, 150}, {-2, 300}}
	for _, c := range cases {
		d, _ := goplot.ToDevice(goplot.Point{X: 0, Y: c.y}, r, vp800)
		if !approx(d.PY, c.py) {
			t.Errorf("y=%g -> py %g, want %g", c.y, d.PY, c.py)
		}
	}
}

func TestToDevice_Errors(t *testing.T) {
	p := goplot.Point{X: 0, Y: 0}
	if _, err := goplot.ToDevice(p, goplot.SampleRange{Min: 1, Max: 1}, vp800); !errors.Is(err, goplot.ErrRange) {
		t.Errorf("degenerate range: err = %v", err)
	}
	if d, err := goplot.ToDevice(p, goplot.SampleRange{Min: -1e308, Max: 1e308}, vp800); !errors.Is(err, goplot.ErrRange) {
		t.Errorf("overflowing span: got %+v, err = %v", d, err)
	}
	for _, vp := range []goplot.Viewport{{Width: 0, Height: 10}, {Width: 10, Height: -1}, {Width: math.NaN(), Height: 10}} {
		if _, err := goplot.ToDevice(p, goplot.DefaultRange, vp); !errors.Is(err, goplot.ErrRange) {
			t.Errorf("viewport %+v: err = %v", vp, err)
		}
	}
}

func TestVisibleY(t *testing.T) {
	for _, vp := range []goplot.Viewport{vp800, {Width: 160, Height: 96}} {
		lo, hi := goplot.VisibleY(vp)
		if lo != -4 || hi != 4 {
			t.Errorf("VisibleY(%+v) = [%g, %g], want [-4, 4]", vp, lo, hi)
		}
	}
}

// ============================================================
// MapPoints and Strokes
// ============================================================

func TestMapPoints_KeepsKinds(t *testing.T) {
	points := []goplot.PlotPoint{
		{X: -10, Y: 0, Kind: goplot.Normal},
		{X: 0, Y: math.NaN(), Kind: goplot.Break},
		{X: 10, Y: 100, Kind: goplot.Clamped},
	}
	mapped, err := goplot.MapPoints(points, goplot.DefaultRange, vp800)
	if err != nil {
		t.Fatalf("MapPoints: %v", err)
	}
	if mapped[0].Kind != goplot.Normal || mapped[1].Kind != goplot.Break || mapped[2].Kind != goplot.Clamped {
		t.Errorf("kinds not kept: %+v", mapped)
	}
	if !math.IsNaN(mapped[1].PY) || mapped[1].PX != 400 {
		t.Errorf("break mapped to %+v, want px 400 and NaN py", mapped[1])
	}
	if mapped[2].PY != 200-100*50 {
		t.Errorf("clamped py = %g", mapped[2].PY)
	}
	b, err := json.Marshal(mapped[1])
	if err != nil || string(b) != `{"px":400,"py":null,"kind":"break"}` {
		t.Errorf("json = %s, %v", b, err)
	}
}

func dev(px, py float64, kind goplot.PointKind) goplot.DevicePoint {
	return goplot.DevicePoint{PX: px, PY: py, Kind: kind}
}

func TestStrokes_SplitAtBreaks(t *testing.T) {
	nan := math.NaN()
	points := []goplot.DevicePoint{
		dev(0, 10, goplot.Normal), dev(1, 11, goplot.Normal),
		dev(2, nan, goplot.Break),
		dev(3, 12, goplot.Normal),
		dev(4, nan, goplot.Break), dev(5, nan, goplot.Break),
		dev(6, 13, goplot.Normal), dev(7, 14, goplot.Normal),
	}
	strokes := goplot.Strokes(points, vp800)
	if len(strokes) != 3 {
		t.Fatalf("got %d strokes, want 3: %v", len(strokes), strokes)
	}
	lens := []int{len(strokes[0]), len(strokes[1]), len(strokes[2])}
	if lens[0] != 2 || lens[1] != 1 || lens[2] != 2 {
		t.Errorf("stroke lengths %v, want [2 1 2]", lens)
	}
}

func TestStrokes_SplitAtJumps(t *testing.T) {
	// tan(x) across its pole: +100 clamped next to -100 clamped.
	points := []goplot.DevicePoint{
		dev(0, 150, goplot.Normal),
		dev(1, -4800, goplot.Clamped),
		dev(2, 5200, goplot.Clamped),
		dev(3, 250, goplot.Normal),
	}
	strokes := goplot.Strokes(points, vp800)
	if len(strokes) != 4 {
		t.Errorf("got %d strokes, want 4", len(strokes))
	}
	small := []goplot.DevicePoint{dev(0, 0, goplot.Normal), dev(1, 200, goplot.Normal), dev(2, 0, goplot.Normal)}
	if n := len(goplot.Strokes(small, vp800)); n != 1 {
		t.Errorf("jumps of exactly half the height split into %d strokes, want 1", n)
	}
}

func TestStrokes_Empty(t *testing.T) {
	if s := goplot.Strokes(nil, vp800); len(s) != 0 {
		t.Errorf("Strokes(nil) = %v", s)
	}
	only := []goplot.DevicePoint{dev(0, math.NaN(), goplot.Break)}
	if s := goplot.Strokes(only, vp800); len(s) != 0 {
		t.Errorf("all-break input gave %v", s)
	}
}

// ============================================================
// Grid
// ============================================================

func TestGrid(t *testing.T) {
	g, err := goplot.Grid(goplot.DefaultRange, vp800)
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if len(g.Vertical) != 21 || g.Vertical[0] != 0 || g.Vertical[10] != 400 || g.Vertical[20] != 800 {
		t.Errorf("vertical lines %v", g.Vertical)
	}
	if len(g.Horizontal) != 11 {
		t.Fatalf("got %d horizontal lines, want 11", len(g.Horizontal))
	}
	// y = -10 sits half way down the lower half, y = 10 half way up.
	if g.Horizontal[0] != 300 || g.Horizontal[5] != 200 || g.Horizontal[10] != 100 {
		t.Errorf("horizontal lines %v", g.Horizontal)
	}
	if g.XAxis != 200 || !g.HasYAxis || g.YAxis != 400 {
		t.Errorf("axes x=%g y=%g (%v)", g.XAxis, g.YAxis, g.HasYAxis)
	}
}

func TestGrid_NoYAxisOutsideRange(t *testing.T) {
	g, _ := goplot.Grid(goplot.SampleRange{Min: 1, Max: 5, Precision: 10}, vp800)
	if g.HasYAxis {
		t.Errorf("y axis drawn for range [1, 5]")
	}
	if _, err := goplot.Grid(goplot.SampleRange{Min: 5, Max: 1}, vp800); !errors.Is(err, goplot.ErrRange) {
		t.Errorf("reversed range: err = %v", err)
	}
}
