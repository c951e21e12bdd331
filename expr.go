package goplot

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is a node of a compiled expression. The node set is closed: numbers,
// the constants pi and e, the variables x and t, negation, the four
// arithmetic operators, '^', and calls to the built-in functions.
type Expr interface {
	String() string
	LaTeX() string
	Eval(env Env) float64
	Diff(varName string) Expr
	Equal(other Expr) bool
	exprType() string
	prec() int
	collectVars(out map[string]struct{})
	toJSON() map[string]interface{}
}

// Env binds the two free variables.
type Env struct {
	X float64
	T float64
}

// Binding strength used by String to decide where parentheses go.
const (
	precAdd = iota + 1
	precMul
	precUnary
	precPow
	precAtom
)

// ============================================================
// Num — numeric literal
// ============================================================

type Num struct{ val float64 }

func N(v float64) *Num { return &Num{val: v} }

func (n *Num) Value() float64        { return n.val }
func (n *Num) Eval(Env) float64      { return n.val }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val == o.val }
func (n *Num) exprType() string      { return "num" }

func (n *Num) collectVars(map[string]struct{}) {}

func (n *Num) prec() int {
	if n.val < 0 {
		return precUnary
	}
	return precAtom
}

func (n *Num) String() string { return strconv.FormatFloat(n.val, 'f', -1, 64) }
func (n *Num) LaTeX() string  { return n.String() }

func (n *Num) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": n.val}
}

func isNum(e Expr, v float64) bool {
	n, ok := e.(*Num)
	return ok && n.val == v
}

// ============================================================
// Const — pi and e
// ============================================================

type Const struct{ name string }

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

func (c *Const) Name() string          { return c.name }
func (c *Const) Eval(Env) float64      { return constants[c.name] }
func (c *Const) Diff(string) Expr      { return N(0) }
func (c *Const) Equal(other Expr) bool { o, ok := other.(*Const); return ok && c.name == o.name }
func (c *Const) exprType() string      { return "const" }
func (c *Const) prec() int             { return precAtom }
func (c *Const) String() string        { return c.name }

func (c *Const) collectVars(map[string]struct{}) {}

func (c *Const) LaTeX() string {
	if c.name == "pi" {
		return "\\pi"
	}
	return "e"
}

func (c *Const) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "const", "name": c.name}
}

// ============================================================
// Var — x and t
// ============================================================

type Var struct{ name string }

func (v *Var) Name() string          { return v.name }
func (v *Var) Equal(other Expr) bool { o, ok := other.(*Var); return ok && v.name == o.name }
func (v *Var) exprType() string      { return "var" }
func (v *Var) prec() int             { return precAtom }
func (v *Var) String() string        { return v.name }
func (v *Var) LaTeX() string         { return v.name }

func (v *Var) Eval(env Env) float64 {
	if v.name == "t" {
		return env.T
	}
	return env.X
}

func (v *Var) Diff(varName string) Expr {
	if v.name == varName {
		return N(1)
	}
	return N(0)
}

func (v *Var) collectVars(out map[string]struct{}) { out[v.name] = struct{}{} }

func (v *Var) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "var", "name": v.name}
}

// ============================================================
// Neg — unary minus
// ============================================================

type Neg struct{ arg Expr }

func (n *Neg) Arg() Expr                { return n.arg }
func (n *Neg) Eval(env Env) float64     { return -n.arg.Eval(env) }
func (n *Neg) Diff(varName string) Expr { return negOf(n.arg.Diff(varName)) }
func (n *Neg) Equal(other Expr) bool    { o, ok := other.(*Neg); return ok && n.arg.Equal(o.arg) }
func (n *Neg) exprType() string         { return "neg" }
func (n *Neg) prec() int                { return precUnary }
func (n *Neg) String() string           { return "-" + wrap(n.arg, precUnary) }
func (n *Neg) LaTeX() string            { return "-" + wrapLaTeX(n.arg, precUnary) }

func (n *Neg) collectVars(out map[string]struct{}) { n.arg.collectVars(out) }

func (n *Neg) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "neg", "arg": n.arg.toJSON()}
}

// ============================================================
// Binary — + - * / ^
// ============================================================

type Binary struct {
	op          byte
	left, right Expr
}

var opPrec = map[byte]int{'+': precAdd, '-': precAdd, '*': precMul, '/': precMul, '^': precPow}

func (b *Binary) Op() byte         { return b.op }
func (b *Binary) Left() Expr       { return b.left }
func (b *Binary) Right() Expr      { return b.right }
func (b *Binary) prec() int        { return opPrec[b.op] }
func (b *Binary) exprType() string { return "binary" }

func (b *Binary) Eval(env Env) float64 {
	l, r := b.left.Eval(env), b.right.Eval(env)
	switch b.op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	case '/':
		return l / r
	case '^':
		return math.Pow(l, r)
	}
	return math.NaN()
}

func (b *Binary) Equal(other Expr) bool {
	o, ok := other.(*Binary)
	return ok && b.op == o.op && b.left.Equal(o.left) && b.right.Equal(o.right)
}

// sides returns the minimum binding strength each operand needs to be printed
// without parentheses. '^' is right-associative, the rest left-associative.
func (b *Binary) sides() (int, int) {
	p := b.prec()
	if b.op == '^' {
		return precPow + 1, precUnary
	}
	return p, p + 1
}

func (b *Binary) String() string {
	lp, rp := b.sides()
	if b.op == '^' {
		return wrap(b.left, lp) + "^" + wrap(b.right, rp)
	}
	return wrap(b.left, lp) + " " + string(b.op) + " " + wrap(b.right, rp)
}

func (b *Binary) LaTeX() string {
	switch b.op {
	case '/':
		return "\\frac{" + b.left.LaTeX() + "}{" + b.right.LaTeX() + "}"
	case '^':
		return wrapLaTeX(b.left, precPow+1) + "^{" + b.right.LaTeX() + "}"
	case '*':
		lp, rp := b.sides()
		return wrapLaTeX(b.left, lp) + " \\cdot " + wrapLaTeX(b.right, rp)
	}
	lp, rp := b.sides()
	return wrapLaTeX(b.left, lp) + " " + string(b.op) + " " + wrapLaTeX(b.right, rp)
}

func (b *Binary) Diff(varName string) Expr {
	dl, dr := b.left.Diff(varName), b.right.Diff(varName)
	switch b.op {
	case '+':
		return addOf(dl, dr)
	case '-':
		return subOf(dl, dr)
	case '*':
		return addOf(mulOf(dl, b.right), mulOf(b.left, dr))
	case '/':
		return divOf(subOf(mulOf(dl, b.right), mulOf(b.left, dr)), powOf(b.right, N(2)))
	}
	// '^'
	switch {
	case !dependsOn(b.right, varName):
		// d(u^n) = n*u^(n-1)*u'
		return mulOf(mulOf(b.right, powOf(b.left, subOf(b.right, N(1)))), dl)
	case !dependsOn(b.left, varName):
		// d(a^v) = a^v*ln(a)*v'
		return mulOf(mulOf(b, callOf("ln", b.left)), dr)
	}
	// d(u^v) = u^v*(v'*ln(u) + v*u'/u)
	return mulOf(b, addOf(mulOf(dr, callOf("ln", b.left)), divOf(mulOf(b.right, dl), b.left)))
}

func (b *Binary) collectVars(out map[string]struct{}) {
	b.left.collectVars(out)
	b.right.collectVars(out)
}

func (b *Binary) toJSON() map[string]interface{} {
	return map[string]interface{}{
		"type":  "binary",
		"op":    string(b.op),
		"left":  b.left.toJSON(),
		"right": b.right.toJSON(),
	}
}

// ============================================================
// Call — built-in function application
// ============================================================

type Call struct {
	name string
	arg  Expr
}

// functions maps every callable name to its implementation. ln and log are
// both the natural logarithm.
var functions = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"log":  math.Log,
	"ln":   math.Log,
	"sqrt": math.Sqrt,
	"abs":  math.Abs,
	"exp":  math.Exp,
}

// FunctionNames lists the callable names in sorted order.
func FunctionNames() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Call) FuncName() string     { return c.name }
func (c *Call) Arg() Expr            { return c.arg }
func (c *Call) Eval(env Env) float64 { return functions[c.name](c.arg.Eval(env)) }
func (c *Call) exprType() string     { return "call" }
func (c *Call) prec() int            { return precAtom }
func (c *Call) String() string       { return c.name + "(" + c.arg.String() + ")" }

func (c *Call) collectVars(out map[string]struct{}) { c.arg.collectVars(out) }

func (c *Call) Equal(other Expr) bool {
	o, ok := other.(*Call)
	return ok && c.name == o.name && c.arg.Equal(o.arg)
}

func (c *Call) LaTeX() string {
	switch c.name {
	case "sqrt":
		return "\\sqrt{" + c.arg.LaTeX() + "}"
	case "abs":
		return "\\left|" + c.arg.LaTeX() + "\\right|"
	case "exp":
		return "e^{" + c.arg.LaTeX() + "}"
	}
	return "\\" + c.name + "\\left(" + c.arg.LaTeX() + "\\right)"
}

func (c *Call) Diff(varName string) Expr {
	u := c.arg
	du := u.Diff(varName)
	if isNum(du, 0) {
		return N(0)
	}
	var outer Expr
	switch c.name {
	case "sin":
		outer = callOf("cos", u)
	case "cos":
		outer = negOf(callOf("sin", u))
	case "tan":
		outer = divOf(N(1), powOf(callOf("cos", u), N(2)))
	case "log", "ln":
		outer = divOf(N(1), u)
	case "sqrt":
		outer = divOf(N(1), mulOf(N(2), c))
	case "abs":
		outer = divOf(u, c)
	case "exp":
		outer = c
	default:
		return &Num{val: math.NaN()}
	}
	return mulOf(outer, du)
}

func (c *Call) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "call", "name": c.name, "arg": c.arg.toJSON()}
}

// ============================================================
// Formatting helpers
// ============================================================

func wrap(e Expr, min int) string {
	if e.prec() < min {
		return "(" + e.String() + ")"
	}
	return e.String()
}

func wrapLaTeX(e Expr, min int) string {
	if e.prec() < min {
		return "\\left(" + e.LaTeX() + "\\right)"
	}
	return e.LaTeX()
}

// ============================================================
// Free variables
// ============================================================

// FreeVars returns the variables e references.
func FreeVars(e Expr) map[string]struct{} {
	out := map[string]struct{}{}
	e.collectVars(out)
	return out
}

func dependsOn(e Expr, varName string) bool {
	_, ok := FreeVars(e)[varName]
	return ok
}

// ============================================================
// Simplifying constructors (used by Diff)
// ============================================================

// fold returns a literal for f when the result is finite, else nil.
func fold(f float64) Expr {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return N(f)
}

func addOf(a, b Expr) Expr {
	switch {
	case isNum(a, 0):
		return b
	case isNum(b, 0):
		return a
	}
	if x, ok := a.(*Num); ok {
		if y, ok := b.(*Num); ok {
			if r := fold(x.val + y.val); r != nil {
				return r
			}
		}
	}
	if n, ok := b.(*Neg); ok {
		return &Binary{op: '-', left: a, right: n.arg}
	}
	return &Binary{op: '+', left: a, right: b}
}

func subOf(a, b Expr) Expr {
	switch {
	case isNum(b, 0):
		return a
	case isNum(a, 0):
		return negOf(b)
	}
	if x, ok := a.(*Num); ok {
		if y, ok := b.(*Num); ok {
			if r := fold(x.val - y.val); r != nil {
				return r
			}
		}
	}
	return &Binary{op: '-', left: a, right: b}
}

func mulOf(a, b Expr) Expr {
	switch {
	case isNum(a, 0) || isNum(b, 0):
		return N(0)
	case isNum(a, 1):
		return b
	case isNum(b, 1):
		return a
	case isNum(a, -1):
		return negOf(b)
	case isNum(b, -1):
		return negOf(a)
	}
	if x, ok := a.(*Num); ok {
		if y, ok := b.(*Num); ok {
			if r := fold(x.val * y.val); r != nil {
				return r
			}
		}
	}
	// Keep numeric coefficients on the left.
	if _, ok := b.(*Num); ok {
		a, b = b, a
	}
	return &Binary{op: '*', left: a, right: b}
}

func divOf(a, b Expr) Expr {
	switch {
	case isNum(a, 0) && !isNum(b, 0):
		return N(0)
	case isNum(b, 1):
		return a
	}
	if x, ok := a.(*Num); ok {
		if y, ok := b.(*Num); ok && y.val != 0 {
			if r := fold(x.val / y.val); r != nil && r.(*Num).val == math.Trunc(r.(*Num).val) {
				return r
			}
		}
	}
	return &Binary{op: '/', left: a, right: b}
}

func powOf(a, b Expr) Expr {
	switch {
	case isNum(b, 0):
		return N(1)
	case isNum(b, 1):
		return a
	}
	if x, ok := a.(*Num); ok {
		if y, ok := b.(*Num); ok {
			if r := fold(math.Pow(x.val, y.val)); r != nil {
				return r
			}
		}
	}
	return &Binary{op: '^', left: a, right: b}
}

func negOf(a Expr) Expr {
	switch v := a.(type) {
	case *Num:
		return N(-v.val)
	case *Neg:
		return v.arg
	}
	return &Neg{arg: a}
}

func callOf(name string, arg Expr) Expr { return &Call{name: name, arg: arg} }

// ============================================================
// Top-level convenience functions
// ============================================================

func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }

// Diff differentiates e with respect to varName ("x" or "t").
func Diff(e Expr, varName string) Expr { return e.Diff(varName) }

// Eval evaluates e directly, without the finiteness check Compiled.Eval adds.
func Eval(e Expr, x, t float64) float64 { return e.Eval(Env{X: x, T: t}) }

func parseOp(op string) (byte, error) {
	if len(op) == 1 {
		if _, ok := opPrec[op[0]]; ok {
			return op[0], nil
		}
	}
	return 0, fmt.Errorf("unknown operator %q", op)
}
