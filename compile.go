package goplot

import (
	"math"
	"sort"
)

// Compiled is a validated expression ready for evaluation. It is immutable
// and safe for concurrent use.
type Compiled struct {
	text string
	root Expr
	vars []string
}

// Compile parses text into a Compiled form. Failures are *CompileError values
// wrapping ErrInvalidExpression.
func Compile(text string) (*Compiled, error) {
	root, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return newCompiled(text, root), nil
}

// MustCompile is like Compile but panics on error. It is meant for
// expressions fixed at build time, such as presets.
func MustCompile(text string) *Compiled {
	c, err := Compile(text)
	if err != nil {
		panic("goplot: " + Snippet(err, text))
	}
	return c
}

// FromExpr wraps an already built tree, e.g. the result of Diff.
func FromExpr(e Expr) *Compiled { return newCompiled(e.String(), e) }

func newCompiled(text string, root Expr) *Compiled {
	set := FreeVars(root)
	vars := make([]string, 0, len(set))
	for v := range set {
		vars = append(vars, v)
	}
	sort.Strings(vars)
	return &Compiled{text: text, root: root, vars: vars}
}

func (c *Compiled) Text() string   { return c.text }
func (c *Compiled) Expr() Expr     { return c.root }
func (c *Compiled) String() string { return c.root.String() }

// Vars returns the free variables in sorted order.
func (c *Compiled) Vars() []string { return append([]string(nil), c.vars...) }

// TimeVarying reports whether the expression references t, i.e. whether a
// render loop has to resample it every frame.
func (c *Compiled) TimeVarying() bool {
	for _, v := range c.vars {
		if v == "t" {
			return true
		}
	}
	return false
}

// Eval evaluates at (x, t). A NaN or infinite result yields ErrUndefined.
func (c *Compiled) Eval(x, t float64) (float64, error) {
	v := c.root.Eval(Env{X: x, T: t})
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return math.NaN(), ErrUndefined
	}
	return v, nil
}

// Evaluate is the package-level form of c.Eval.
func Evaluate(c *Compiled, x, t float64) (float64, error) { return c.Eval(x, t) }
