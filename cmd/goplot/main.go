// cmd/goplot/main.go — command-line front end for the equation playground
//
// Usage:
//
//	goplot eval [-x 1] [-t 0] EXPR
//	goplot plot [-min -10] [-max 10] [-precision 100] [-t 0] EXPR...
//	goplot export -o out.png [-format png] [-session s.yaml] EXPR...
//	goplot repl
//	goplot live [-session s.yaml] [EXPR...]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/njchilds90/goplot"
)

const usage = `goplot — plot expressions in x and t

Commands:
  eval     evaluate an expression at one point
  plot     draw expressions as an ASCII chart
  export   render expressions to PNG, SVG or PDF
  repl     interactive evaluator
  live     animated terminal playground

Run 'goplot <command> -h' for flags.
`

func main() {
	log.SetFlags(0)
	log.SetPrefix("goplot: ")
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	var err error
	args := os.Args[2:]
	switch os.Args[1] {
	case "eval":
		err = runEval(os.Stdout, args)
	case "plot":
		err = runPlot(os.Stdout, args)
	case "export":
		err = runExport(args)
	case "repl":
		err = runREPL()
	case "live":
		err = runLive(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// ---- eval ------------------------------------------------------------------

func runEval(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	x := fs.Float64("x", 0, "value of x")
	t := fs.Float64("t", 0, "value of t")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("eval: missing expression")
	}
	text := strings.Join(fs.Args(), " ")
	c, err := goplot.Compile(text)
	if err != nil {
		return errors.New(goplot.Snippet(err, text))
	}
	y, err := c.Eval(*x, *t)
	if err != nil {
		return fmt.Errorf("%s at x=%g t=%g: %w", c, *x, *t, err)
	}
	fmt.Fprintln(w, formatValue(y))
	return nil
}

func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.10g", v)
}

// ---- plot ------------------------------------------------------------------

type rangeFlags struct {
	min, max  *float64
	precision *int
	clamp     *float64
	t         *float64
}

func addRangeFlags(fs *flag.FlagSet) rangeFlags {
	return rangeFlags{
		min:       fs.Float64("min", goplot.DefaultRange.Min, "left end of the x range"),
		max:       fs.Float64("max", goplot.DefaultRange.Max, "right end of the x range"),
		precision: fs.Int("precision", goplot.DefaultRange.Precision, "number of sample steps"),
		clamp:     fs.Float64("clamp", goplot.DefaultClamp, "magnitude at which y is capped"),
		t:         fs.Float64("t", 0, "animation time"),
	}
}

func (rf rangeFlags) sampleRange() goplot.SampleRange {
	return goplot.SampleRange{Min: *rf.min, Max: *rf.max, Precision: *rf.precision}
}

func playgroundFromArgs(exprs []string) (*goplot.Playground, error) {
	pg := goplot.NewPlayground()
	for _, text := range exprs {
		e, err := pg.Add(text)
		if err != nil {
			return nil, err
		}
		if e.Err != nil {
			return nil, errors.New(goplot.Snippet(e.Err, e.Text))
		}
	}
	return pg, nil
}

func runPlot(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("plot", flag.ContinueOnError)
	rf := addRangeFlags(fs)
	height := fs.Int("height", 16, "chart height in rows")
	width := fs.Int("width", 72, "chart width in columns")
	band := fs.Float64("band", 4, "hide points with |y| above this")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("plot: missing expression")
	}
	pg, err := playgroundFromArgs(fs.Args())
	if err != nil {
		return err
	}
	curves, err := pg.Curves(rf.sampleRange(), *rf.t, goplot.Sampler{Clamp: *rf.clamp})
	if err != nil {
		return err
	}
	fmt.Fprintln(w, chart(curves, *height, *width, *band))
	fmt.Fprintln(w, legend(curves))
	return nil
}

// chart draws curves with asciigraph. Breaks and points outside ±band become
// gaps, matching what the canvas would show.
func chart(curves []goplot.Curve, height, width int, band float64) string {
	series := make([][]float64, len(curves))
	for i, c := range curves {
		ys := goplot.Ys(c.Points)
		for j, y := range ys {
			if math.Abs(y) > band {
				ys[j] = math.NaN()
			}
		}
		series[i] = ys
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(-band),
		asciigraph.UpperBound(band),
	)
}

func legend(curves []goplot.Curve) string {
	var b strings.Builder
	for i, c := range curves {
		if i > 0 {
			b.WriteString("  ")
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("━━")
		b.WriteString(swatch + " " + c.Label)
	}
	return b.String()
}

// ---- export ----------------------------------------------------------------

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	rf := addRangeFlags(fs)
	out := fs.String("o", "plot.png", "output file")
	format := fs.String("format", "", "png, svg or pdf (default from -o)")
	sessionPath := fs.String("session", "", "YAML session to load")
	title := fs.String("title", "", "plot title")
	noGrid := fs.Bool("nogrid", false, "omit the grid")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r, sampler, t := rf.sampleRange(), goplot.Sampler{Clamp: *rf.clamp}, *rf.t
	var pg *goplot.Playground
	grid := !*noGrid
	if *sessionPath != "" {
		sess, err := loadSessionFile(*sessionPath)
		if err != nil {
			return err
		}
		pg, r, sampler, t = sess.Playground(), sess.Range, sess.Sampler(), sess.Time
		grid = grid && sess.Grid
		for _, text := range fs.Args() {
			if _, err := pg.Add(text); err != nil {
				return err
			}
		}
	} else {
		if fs.NArg() == 0 {
			return errors.New("export: missing expression")
		}
		var err error
		if pg, err = playgroundFromArgs(fs.Args()); err != nil {
			return err
		}
	}

	curves, err := pg.Curves(r, t, sampler)
	if err != nil {
		return err
	}
	f := *format
	if f == "" {
		f = strings.TrimPrefix(filepath.Ext(*out), ".")
	}
	file, err := os.Create(*out)
	if err != nil {
		return err
	}
	opts := goplot.ExportOptions{Title: *title, NoGrid: !grid}
	if err := goplot.Export(file, f, curves, r, opts); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	log.Printf("wrote %d curves to %s", len(curves), *out)
	return nil
}

func loadSessionFile(path string) (*goplot.Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sess, err := goplot.LoadSession(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sess, nil
}
