package goplot

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================
// Error taxonomy
// ============================================================

var (
	// ErrInvalidExpression is wrapped by every *CompileError.
	ErrInvalidExpression = errors.New("goplot: invalid expression")

	// ErrUndefined is returned by Eval when the result is NaN or infinite.
	ErrUndefined = errors.New("goplot: undefined")

	// ErrRange is wrapped by every *RangeError.
	ErrRange = errors.New("goplot: invalid range")

	// ErrEmpty is returned when a playground entry is blank.
	ErrEmpty = errors.New("goplot: empty expression")

	// ErrNotFound is returned for unknown playground IDs.
	ErrNotFound = errors.New("goplot: expression not found")
)

// CompileError reports why text could not be compiled. Pos is the byte offset
// of the offending token in Text.
type CompileError struct {
	Text string
	Pos  int
	Msg  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("invalid expression at column %d: %s", e.Pos+1, e.Msg)
}

func (e *CompileError) Unwrap() error { return ErrInvalidExpression }

func compileErr(text string, pos int, format string, args ...interface{}) *CompileError {
	return &CompileError{Text: text, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// RangeError reports a degenerate sample range or viewport.
type RangeError struct {
	Field string
	Msg   string
}

func (e *RangeError) Error() string {
	if e.Field == "" {
		return "invalid range: " + e.Msg
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func (e *RangeError) Unwrap() error { return ErrRange }

// Snippet renders err against src with a caret under the failing column:
//
//	invalid expression at column 5: unexpected ')'
//	  sin()
//	      ^
//
// Errors other than *CompileError come back as their plain message.
func Snippet(err error, src string) string {
	var ce *CompileError
	if !errors.As(err, &ce) {
		if err == nil {
			return ""
		}
		return err.Error()
	}
	if src == "" {
		src = ce.Text
	}
	// Only the line holding the error is shown.
	line, col := src, ce.Pos
	if col > len(line) {
		col = len(line)
	}
	if col < 0 {
		col = 0
	}
	if i := strings.LastIndexByte(line[:col], '\n'); i >= 0 {
		line = line[i+1:]
		col -= i + 1
	}
	if j := strings.IndexByte(line, '\n'); j >= 0 {
		line = line[:j]
	}
	pad := strings.Map(func(r rune) rune {
		if r == '\t' {
			return '\t'
		}
		return ' '
	}, line[:col])
	return fmt.Sprintf("%s\n  %s\n  %s^", ce.Error(), line, pad)
}
