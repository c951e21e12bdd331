package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/njchilds90/goplot"
)

const (
	historyFile = ".goplot_history"
	prompt      = "goplot> "
)

const replHelp = `Enter an expression to evaluate it at the current x and t.

Commands:
  :x N                set x
  :t N                set t
  :range MIN MAX [N]  set the plot range and precision
  :sample EXPR        plot EXPR over the range
  :ast EXPR           print the syntax tree as JSON
  :latex EXPR         print EXPR as LaTeX
  :diff EXPR          differentiate EXPR with respect to x
  :env                show x, t and the range
  :help               this text
  :quit               leave
`

// replState is everything a REPL line can read or change.
type replState struct {
	x, t float64
	r    goplot.SampleRange
}

func newReplState() *replState { return &replState{r: goplot.DefaultRange} }

func runREPL() error {
	fmt.Println("goplot REPL. Type :help for help.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(complete)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	st := newReplState()
	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			break
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if done := st.handle(os.Stdout, line); done {
			break
		}
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return nil
}

// complete offers command and function names for the word under the cursor.
func complete(line string) []string {
	words := []string{":x", ":t", ":range", ":sample", ":ast", ":latex", ":diff", ":env", ":help", ":quit"}
	for _, f := range goplot.FunctionNames() {
		words = append(words, f+"(")
	}
	i := strings.LastIndexAny(line, " +-*/^(") + 1
	head, word := line[:i], line[i:]
	if word == "" {
		return nil
	}
	var out []string
	for _, w := range words {
		if strings.HasPrefix(w, strings.ToLower(word)) {
			out = append(out, head+w)
		}
	}
	return out
}

// handle runs one line and reports whether the REPL should exit.
func (st *replState) handle(w io.Writer, line string) bool {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ":") {
		st.eval(w, line)
		return false
	}
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(cmd) {
	case ":quit", ":exit", ":q":
		return true
	case ":help":
		fmt.Fprint(w, replHelp)
	case ":x", ":t":
		v, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			fmt.Fprintf(w, "usage: %s N\n", cmd)
			return false
		}
		if cmd == ":x" {
			st.x = v
		} else {
			st.t = v
		}
		fmt.Fprintf(w, "%s = %g\n", cmd[1:], v)
	case ":range":
		st.setRange(w, rest)
	case ":env":
		fmt.Fprintf(w, "x = %g, t = %g, range [%g, %g] in %d steps\n", st.x, st.t, st.r.Min, st.r.Max, st.r.Precision)
	case ":sample":
		c, ok := compileOrReport(w, rest)
		if !ok {
			return false
		}
		points, err := goplot.Sample(c, st.r, st.t)
		if err != nil {
			fmt.Fprintln(w, err)
			return false
		}
		curve := goplot.Curve{Label: c.Text(), Color: goplot.Palette[0], Points: points}
		fmt.Fprintln(w, chart([]goplot.Curve{curve}, 12, 64, 4))
		fmt.Fprintln(w, summarize(points))
	case ":ast":
		c, ok := compileOrReport(w, rest)
		if !ok {
			return false
		}
		b, err := json.MarshalIndent(goplot.Tree(c.Expr()), "", "  ")
		if err != nil {
			fmt.Fprintln(w, err)
			return false
		}
		fmt.Fprintln(w, string(b))
	case ":latex":
		if c, ok := compileOrReport(w, rest); ok {
			fmt.Fprintln(w, goplot.LaTeX(c.Expr()))
		}
	case ":diff":
		if c, ok := compileOrReport(w, rest); ok {
			fmt.Fprintln(w, goplot.Diff(c.Expr(), "x"))
		}
	default:
		fmt.Fprintln(w, "unknown command. Type :help for help.")
	}
	return false
}

func (st *replState) eval(w io.Writer, text string) {
	c, ok := compileOrReport(w, text)
	if !ok {
		return
	}
	y, err := c.Eval(st.x, st.t)
	if err != nil {
		fmt.Fprintf(w, "undefined at x=%g t=%g\n", st.x, st.t)
		return
	}
	fmt.Fprintln(w, formatValue(y))
}

func (st *replState) setRange(w io.Writer, rest string) {
	fields := strings.Fields(rest)
	if len(fields) < 2 || len(fields) > 3 {
		fmt.Fprintln(w, "usage: :range MIN MAX [PRECISION]")
		return
	}
	r := st.r
	var err error
	if r.Min, err = strconv.ParseFloat(fields[0], 64); err != nil {
		fmt.Fprintln(w, "bad MIN:", fields[0])
		return
	}
	if r.Max, err = strconv.ParseFloat(fields[1], 64); err != nil {
		fmt.Fprintln(w, "bad MAX:", fields[1])
		return
	}
	if len(fields) == 3 {
		n, err := strconv.Atoi(fields[2])
		if err != nil {
			fmt.Fprintln(w, "bad PRECISION:", fields[2])
			return
		}
		r.Precision = goplot.ClampPrecision(n)
	}
	if err := r.Validate(); err != nil {
		fmt.Fprintln(w, err)
		return
	}
	st.r = r
	fmt.Fprintf(w, "range [%g, %g] in %d steps\n", r.Min, r.Max, r.Precision)
}

func compileOrReport(w io.Writer, text string) (*goplot.Compiled, bool) {
	c, err := goplot.Compile(text)
	if err != nil {
		fmt.Fprintln(w, goplot.Snippet(err, text))
		return nil, false
	}
	return c, true
}

func summarize(points []goplot.PlotPoint) string {
	var counts [3]int
	for _, p := range points {
		counts[p.Kind]++
	}
	return fmt.Sprintf("%d points: %d normal, %d clamped, %d breaks",
		len(points), counts[goplot.Normal], counts[goplot.Clamped], counts[goplot.Break])
}
