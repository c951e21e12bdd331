package goplot

import (
	"encoding/json"
	"fmt"
	"math"
)

// ============================================================
// MCP Tool Interface
// ============================================================

// MaxToolPrecision bounds the precision a tool call may request.
const MaxToolPrecision = 10000

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func HandleToolCall(req ToolRequest) ToolResponse {
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getNumber := func(key string, def float64) (float64, error) {
		v, ok := req.Params[key]
		if !ok {
			return def, nil
		}
		f, ok := v.(float64)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("param %s must be a finite number", key)
		}
		return f, nil
	}
	getInt := func(key string, def int) (int, error) {
		f, err := getNumber(key, float64(def))
		if err != nil {
			return 0, err
		}
		if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
			return 0, fmt.Errorf("param %s must be an integer", key)
		}
		return int(f), nil
	}
	// getCompiled accepts either "text" or a JSON tree under "expr".
	getCompiled := func() (*Compiled, error) {
		if text, err := getString("text"); err == nil {
			return Compile(text)
		}
		v, ok := req.Params["expr"]
		if !ok {
			return nil, fmt.Errorf("missing param: text or expr")
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid type for param expr")
		}
		e, err := FromJSON(m)
		if err != nil {
			return nil, err
		}
		return FromExpr(e), nil
	}
	getRange := func() (SampleRange, error) {
		var r SampleRange
		var err error
		if r.Min, err = getNumber("min", DefaultRange.Min); err != nil {
			return r, err
		}
		if r.Max, err = getNumber("max", DefaultRange.Max); err != nil {
			return r, err
		}
		if r.Precision, err = getInt("precision", DefaultRange.Precision); err != nil {
			return r, err
		}
		if r.Precision > MaxToolPrecision {
			return r, &RangeError{Field: "precision", Msg: fmt.Sprintf("%d is above %d", r.Precision, MaxToolPrecision)}
		}
		return r, r.Validate()
	}
	getSampler := func() (Sampler, error) {
		clamp, err := getNumber("clamp", DefaultClamp)
		return Sampler{Clamp: clamp}, err
	}
	respond := func(c *Compiled) ToolResponse {
		e := c.Expr()
		return ToolResponse{
			Result: map[string]interface{}{"tree": e.toJSON(), "vars": c.Vars()},
			LaTeX:  LaTeX(e),
			String: String(e),
		}
	}
	fail := func(err error) ToolResponse { return ToolResponse{Error: err.Error()} }

	switch req.Tool {
	case "compile":
		c, err := getCompiled()
		if err != nil {
			return fail(err)
		}
		return respond(c)

	case "evaluate":
		c, err := getCompiled()
		if err != nil {
			return fail(err)
		}
		x, err := getNumber("x", 0)
		if err != nil {
			return fail(err)
		}
		t, err := getNumber("t", 0)
		if err != nil {
			return fail(err)
		}
		y, err := c.Eval(x, t)
		if err != nil {
			return ToolResponse{Result: nil, String: c.String(), Error: err.Error()}
		}
		return ToolResponse{Result: y, String: fmt.Sprintf("%s = %g", c.String(), y)}

	case "sample":
		c, err := getCompiled()
		if err != nil {
			return fail(err)
		}
		r, err := getRange()
		if err != nil {
			return fail(err)
		}
		s, err := getSampler()
		if err != nil {
			return fail(err)
		}
		t, err := getNumber("t", 0)
		if err != nil {
			return fail(err)
		}
		points, err := s.Sample(c, r, t)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: points, String: fmt.Sprintf("%d points", len(points))}

	case "plot":
		c, err := getCompiled()
		if err != nil {
			return fail(err)
		}
		r, err := getRange()
		if err != nil {
			return fail(err)
		}
		s, err := getSampler()
		if err != nil {
			return fail(err)
		}
		t, err := getNumber("t", 0)
		if err != nil {
			return fail(err)
		}
		var vp Viewport
		if vp.Width, err = getNumber("width", 800); err != nil {
			return fail(err)
		}
		if vp.Height, err = getNumber("height", 400); err != nil {
			return fail(err)
		}
		points, err := s.Sample(c, r, t)
		if err != nil {
			return fail(err)
		}
		mapped, err := MapPoints(points, r, vp)
		if err != nil {
			return fail(err)
		}
		grid, err := Grid(r, vp)
		if err != nil {
			return fail(err)
		}
		strokes := Strokes(mapped, vp)
		return ToolResponse{
			Result: map[string]interface{}{"strokes": strokes, "grid": grid},
			String: fmt.Sprintf("%d strokes", len(strokes)),
		}

	case "derivative":
		c, err := getCompiled()
		if err != nil {
			return fail(err)
		}
		v := "x"
		if s, err := getString("var"); err == nil {
			v = s
		}
		if v != "x" && v != "t" {
			return ToolResponse{Error: fmt.Sprintf("unknown variable: %s", v)}
		}
		return respond(FromExpr(Diff(c.Expr(), v)))

	case "shape":
		kind, err := getString("kind")
		if err != nil {
			return fail(err)
		}
		s := Shape{Kind: ShapeKind(kind)}
		if s.Size, err = getNumber("size", 1); err != nil {
			return fail(err)
		}
		if s.Rotation, err = getNumber("rotation", 0); err != nil {
			return fail(err)
		}
		if s.MorphPhase, err = getNumber("morphPhase", 0); err != nil {
			return fail(err)
		}
		n, err := getInt("points", DefaultShapePoints)
		if err != nil {
			return fail(err)
		}
		if n > MaxToolPrecision {
			return ToolResponse{Error: fmt.Sprintf("points %d is above %d", n, MaxToolPrecision)}
		}
		t, err := getNumber("t", 0)
		if err != nil {
			return fail(err)
		}
		points, err := SampleParametric(s, n, t)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: points, String: fmt.Sprintf("%s with %d points", kind, len(points))}

	case "presets":
		return ToolResponse{
			Result: map[string]interface{}{"presets": Presets, "gallery": Gallery, "functions": FunctionNames()},
			String: fmt.Sprintf("%d presets, %d gallery entries", len(Presets), len(Gallery)),
		}

	case "mcp_spec":
		return ToolResponse{Result: MCPToolSpec(), String: "MCP tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

func MCPToolSpec() string {
	rangeProps := func(extra map[string]string) map[string]string {
		props := map[string]string{
			"text": "string", "expr": "object", "min": "number", "max": "number",
			"precision": "integer", "clamp": "number", "t": "number",
		}
		for k, v := range extra {
			props[k] = v
		}
		return props
	}
	tools := []map[string]interface{}{
		ts("compile", "Parse an expression in x and t. Give text or a JSON tree as expr", []string{}, map[string]string{"text": "string", "expr": "object"}),
		ts("evaluate", "Evaluate at x and t (both default 0)", []string{}, map[string]string{"text": "string", "expr": "object", "x": "number", "t": "number"}),
		ts("sample", "Sample over [min,max] in precision steps. Points are normal, clamped or break", []string{}, rangeProps(nil)),
		ts("plot", "Sample and map into a width×height viewport; returns strokes and grid", []string{}, rangeProps(map[string]string{"width": "number", "height": "number"})),
		ts("derivative", "Symbolic derivative with respect to var (x or t)", []string{}, map[string]string{"text": "string", "expr": "object", "var": "string"}),
		ts("shape", "Sample a parametric figure: circle, spiral, lemniscate, rose, hyperbola, cardioid", []string{"kind"}, map[string]string{
			"kind": "string", "size": "number", "rotation": "number", "morphPhase": "number", "points": "integer", "t": "number",
		}),
		ts("presets", "List preset expressions, gallery entries and functions", []string{}, map[string]string{}),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
