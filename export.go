package goplot

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ============================================================
// Image export
// ============================================================

// ExportFormats lists the formats Export accepts.
var ExportFormats = []string{"png", "svg", "pdf"}

// ExportOptions controls Export. The zero value draws a 8×4 inch plot with a
// grid and a legend.
type ExportOptions struct {
	Width, Height vg.Length
	Title         string
	NoGrid        bool
	NoLegend      bool
}

func (o ExportOptions) size() (vg.Length, vg.Length) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 8 * vg.Inch
	}
	if h <= 0 {
		h = 4 * vg.Inch
	}
	return w, h
}

// Export renders curves over r with the playground's fixed vertical scale
// (y in VisibleY) and writes the image to w. A curve is split into separate
// lines at Break points and wherever y jumps by more than half the visible
// height, the same rule Strokes applies, so asymptotes are not bridged.
func Export(w io.Writer, format string, curves []Curve, r SampleRange, opts ExportOptions) error {
	format = strings.ToLower(format)
	if !validFormat(format) {
		return fmt.Errorf("export: unknown format %q (want one of %s)", format, strings.Join(ExportFormats, ", "))
	}
	if err := r.validateBounds(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	width, height := opts.size()
	lo, hi := VisibleY(Viewport{Width: float64(width), Height: float64(height)})

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	if !opts.NoGrid {
		p.Add(plotter.NewGrid())
	}

	for _, c := range curves {
		col, err := ParseColor(c.Color)
		if err != nil {
			return fmt.Errorf("export %q: %w", c.Label, err)
		}
		for i, seg := range segments(c.Points, (hi-lo)/2) {
			line, err := plotter.NewLine(seg)
			if err != nil {
				return fmt.Errorf("export %q: %w", c.Label, err)
			}
			line.Color = col
			line.Width = vg.Points(2)
			p.Add(line)
			if i == 0 && !opts.NoLegend {
				p.Legend.Add(c.Label, line)
			}
		}
	}
	p.Legend.Top = true
	// Add widens the axes to the data; the view is fixed afterwards.
	p.X.Min, p.X.Max = r.Min, r.Max
	p.Y.Min, p.Y.Max = lo, hi

	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func validFormat(f string) bool {
	for _, ok := range ExportFormats {
		if f == ok {
			return true
		}
	}
	return false
}

// segments splits points into lines using the Strokes rule, with jump in
// data units.
func segments(points []PlotPoint, jump float64) []plotter.XYs {
	runs := splitRuns(len(points),
		func(i int) bool { return points[i].Kind == Break },
		func(i int) float64 { return points[i].Y },
		jump)
	out := make([]plotter.XYs, len(runs))
	for i, run := range runs {
		xys := make(plotter.XYs, 0, run[1]-run[0])
		for _, p := range points[run[0]:run[1]] {
			xys = append(xys, plotter.XY{X: p.X, Y: p.Y})
		}
		out[i] = xys
	}
	return out
}

// ParseColor parses "#RRGGBB".
func ParseColor(s string) (color.RGBA, error) {
	if !hexColor.MatchString(s) {
		return color.RGBA{}, fmt.Errorf("color %q is not #RRGGBB", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, err
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
