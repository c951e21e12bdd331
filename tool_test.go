package goplot_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/njchilds90/goplot"
)

// ============================================================
// MCP tool interface tests
// ============================================================

// roundTrip pushes resp through JSON the way the HTTP server does.
func roundTrip(t *testing.T, resp goplot.ToolResponse) map[string]interface{} {
	t.Helper()
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return m
}

func TestHandleToolCall_Compile(t *testing.T) {
	resp := goplot.HandleToolCall(goplot.ToolRequest{
		Tool:   "compile",
		Params: map[string]interface{}{"text": "SIN(x + t)"},
	})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if resp.String != "sin(x + t)" {
		t.Errorf("string = %q", resp.String)
	}
	if !strings.Contains(resp.LaTeX, `\sin`) {
		t.Errorf("latex = %q", resp.LaTeX)
	}
	vars := roundTrip(t, resp)["result"].(map[string]interface{})["vars"].([]interface{})
	if len(vars) != 2 || vars[0] != "t" || vars[1] != "x" {
		t.Errorf("vars = %v", vars)
	}
}

func TestHandleToolCall_CompileError(t *testing.T) {
	resp := goplot.HandleToolCall(goplot.ToolRequest{
		Tool:   "compile",
		Params: map[string]interface{}{"text": "alert(1)"},
	})
	if !strings.Contains(resp.Error, "invalid expression") {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestHandleToolCall_EvaluateTree(t *testing.T) {
	j, _ := goplot.ToJSON(goplot.MustCompile("x^2").Expr())
	var m map[string]interface{}
	json.Unmarshal([]byte(j), &m)

	resp := goplot.HandleToolCall(goplot.ToolRequest{
		Tool:   "evaluate",
		Params: map[string]interface{}{"expr": m, "x": -3.0},
	})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if resp.Result != 9.0 {
		t.Errorf("result = %v, want 9", resp.Result)
	}
}

func TestHandleToolCall_EvaluateUndefined(t *testing.T) {
	resp := goplot.HandleToolCall(goplot.ToolRequest{
		Tool:   "evaluate",
		Params: map[string]interface{}{"text": "1/x"},
	})
	if !strings.Contains(resp.Error, "undefined") {
		t.Errorf("error = %q", resp.Error)
	}
	roundTrip(t, resp)
}

func TestHandleToolCall_Sample(t *testing.T) {
	resp := goplot.HandleToolCall(goplot.ToolRequest{
		Tool:   "sample",
		Params: map[string]interface{}{"text": "1/x", "min": -1.0, "max": 1.0, "precision": 4.0},
	})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	points := roundTrip(t, resp)["result"].([]interface{})
	if len(points) != 5 {
		t.Fatalf("got %d points", len(points))
	}
	mid := points[2].(map[string]interface{})
	if mid["kind"] != "break" || mid["y"] != nil {
		t.Errorf("middle point %v, want a null break", mid)
	}
}

func TestHandleToolCall_SampleLimits(t *testing.T) {
	for _, params := range []map[string]interface{}{
		{"text": "x", "precision": float64(goplot.MaxToolPrecision + 1)},
		{"text": "x", "precision": 2.5},
		{"text": "x", "precision": 1e300},
		{"text": "x", "min": -1e308, "max": 1e308},
		{"text": "x", "min": 1.0, "max": 1.0},
		{"text": "x", "min": "zero"},
	} {
		resp := goplot.HandleToolCall(goplot.ToolRequest{Tool: "sample", Params: params})
		if resp.Error == "" {
			t.Errorf("params %v accepted", params)
		}
	}
}

func TestHandleToolCall_Plot(t *testing.T) {
	resp := goplot.HandleToolCall(goplot.ToolRequest{
		Tool:   "plot",
		Params: map[string]interface{}{"text": "tan(x)", "width": 800.0, "height": 400.0},
	})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	result := roundTrip(t, resp)["result"].(map[string]interface{})
	strokes := result["strokes"].([]interface{})
	if len(strokes) < 2 {
		t.Errorf("tan(x) over [-10, 10] drew %d strokes, want several", len(strokes))
	}
	grid := result["grid"].(map[string]interface{})
	if len(grid["vertical"].([]interface{})) != 21 {
		t.Errorf("grid %v", grid)
	}
}

func TestHandleToolCall_Derivative(t *testing.T) {
	resp := goplot.HandleToolCall(goplot.ToolRequest{
		Tool:   "derivative",
		Params: map[string]interface{}{"text": "x^2"},
	})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if resp.String != "2 * x" {
		t.Errorf("d/dx(x^2) = %q", resp.String)
	}
	resp = goplot.HandleToolCall(goplot.ToolRequest{
		Tool:   "derivative",
		Params: map[string]interface{}{"text": "x", "var": "y"},
	})
	if resp.Error == "" {
		t.Errorf("derivative by y accepted")
	}
}

func TestHandleToolCall_Shape(t *testing.T) {
	resp := goplot.HandleToolCall(goplot.ToolRequest{
		Tool:   "shape",
		Params: map[string]interface{}{"kind": "rose", "size": 2.0, "points": 50.0},
	})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if n := len(roundTrip(t, resp)["result"].([]interface{})); n != 50 {
		t.Errorf("got %d points", n)
	}
}

func TestHandleToolCall_Presets(t *testing.T) {
	resp := goplot.HandleToolCall(goplot.ToolRequest{Tool: "presets"})
	result := roundTrip(t, resp)["result"].(map[string]interface{})
	if len(result["presets"].([]interface{})) != len(goplot.Presets) {
		t.Errorf("presets %v", result["presets"])
	}
}

func TestHandleToolCall_MissingParam(t *testing.T) {
	resp := goplot.HandleToolCall(goplot.ToolRequest{Tool: "evaluate", Params: map[string]interface{}{}})
	if !strings.Contains(resp.Error, "missing param") {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestHandleToolCall_UnknownTool(t *testing.T) {
	resp := goplot.HandleToolCall(goplot.ToolRequest{Tool: "eval_js"})
	if resp.Error == "" {
		t.Error("expected error for unknown tool")
	}
}

func TestMCPToolSpec(t *testing.T) {
	spec := goplot.MCPToolSpec()
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(spec), &m); err != nil {
		t.Fatalf("MCPToolSpec not valid JSON: %v", err)
	}
	tools, ok := m["tools"].([]interface{})
	if !ok || len(tools) == 0 {
		t.Fatal("MCPToolSpec has no tools")
	}
	names := map[string]bool{}
	for _, raw := range tools {
		names[raw.(map[string]interface{})["name"].(string)] = true
	}
	for _, want := range []string{"compile", "evaluate", "sample", "plot", "derivative", "shape", "presets", "mcp_spec"} {
		if !names[want] {
			t.Errorf("spec lacks %s", want)
		}
	}
}
