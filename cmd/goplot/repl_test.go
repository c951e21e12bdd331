package main

import (
	"bytes"
	"strings"
	"testing"
)

// ============================================================
// REPL command handling
// ============================================================

func replRun(st *replState, lines ...string) string {
	var buf bytes.Buffer
	for _, l := range lines {
		st.handle(&buf, l)
	}
	return buf.String()
}

func TestREPL_Eval(t *testing.T) {
	st := newReplState()
	if got := replRun(st, "1 + 2 * 3"); got != "7\n" {
		t.Errorf("got %q", got)
	}
	if got := replRun(st, ":x 3", "x^2"); got != "x = 3\n9\n" {
		t.Errorf("got %q", got)
	}
	if got := replRun(st, ":t 2", "x * t"); got != "t = 2\n6\n" {
		t.Errorf("got %q", got)
	}
	if got := replRun(st, ":x 0", "1/x"); !strings.Contains(got, "undefined at x=0") {
		t.Errorf("got %q", got)
	}
}

func TestREPL_CompileError(t *testing.T) {
	got := replRun(newReplState(), "sin(x")
	if !strings.Contains(got, "invalid expression") || !strings.Contains(got, "^") {
		t.Errorf("got %q", got)
	}
}

func TestREPL_Commands(t *testing.T) {
	st := newReplState()
	if got := replRun(st, ":diff x^2"); got != "2 * x\n" {
		t.Errorf(":diff = %q", got)
	}
	if got := replRun(st, ":latex sqrt(x)"); !strings.Contains(got, `\sqrt`) {
		t.Errorf(":latex = %q", got)
	}
	if got := replRun(st, ":ast x"); !strings.Contains(got, `"type"`) {
		t.Errorf(":ast = %q", got)
	}
	if got := replRun(st, ":sample 1/x"); !strings.Contains(got, "101 points") || !strings.Contains(got, "1 breaks") {
		t.Errorf(":sample = %q", got)
	}
	if got := replRun(st, ":bogus"); !strings.Contains(got, "unknown command") {
		t.Errorf(":bogus = %q", got)
	}
}

func TestREPL_Range(t *testing.T) {
	st := newReplState()
	replRun(st, ":range -1 1 80")
	if st.r.Min != -1 || st.r.Max != 1 || st.r.Precision != 80 {
		t.Errorf("range %+v", st.r)
	}
	replRun(st, ":range 0 2 10")
	if st.r.Precision != 50 {
		t.Errorf("precision %d not clamped to 50", st.r.Precision)
	}
	before := st.r
	for _, bad := range []string{":range 1", ":range a 1", ":range 2 2", ":range 3 1"} {
		replRun(st, bad)
		if st.r != before {
			t.Errorf("%q changed the range to %+v", bad, st.r)
		}
	}
	if got := replRun(st, ":env"); !strings.Contains(got, "range [0, 2] in 50 steps") {
		t.Errorf(":env = %q", got)
	}
}

func TestREPL_Quit(t *testing.T) {
	st := newReplState()
	for _, q := range []string{":quit", ":exit", ":q", ":QUIT"} {
		if !st.handle(&bytes.Buffer{}, q) {
			t.Errorf("%s did not quit", q)
		}
	}
	if st.handle(&bytes.Buffer{}, ":help") {
		t.Errorf(":help quit")
	}
}

func TestComplete(t *testing.T) {
	got := complete("1 + co")
	if len(got) != 1 || got[0] != "1 + cos(" {
		t.Errorf("complete = %v", got)
	}
	if got := complete(":ra"); len(got) != 1 || got[0] != ":range" {
		t.Errorf("complete = %v", got)
	}
	if got := complete("x + "); got != nil {
		t.Errorf("complete on empty word = %v", got)
	}
}
