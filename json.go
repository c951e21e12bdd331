package goplot

import (
	"encoding/json"
	"fmt"
	"math"
)

// ============================================================
// JSON Serialization
// ============================================================

func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// Tree returns the JSON-ready form of e.
func Tree(e Expr) map[string]interface{} { return e.toJSON() }

// FromJSON rebuilds a tree produced by ToJSON. Only the nodes the parser can
// produce are accepted: unknown types, operators, constants, variables or
// functions are rejected.
func FromJSON(data map[string]interface{}) (Expr, error) {
	return fromJSON(data, 0)
}

func fromJSON(data map[string]interface{}, depth int) (Expr, error) {
	if data == nil {
		return nil, fmt.Errorf("expression must be an object")
	}
	if depth > MaxDepth {
		return nil, fmt.Errorf("expression nested deeper than %d levels", MaxDepth)
	}
	typ, ok := data["type"].(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("field 'type' must be a non-empty string")
	}

	subObj := func(field string) (Expr, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an object", typ, field)
		}
		return fromJSON(m, depth+1)
	}
	subString := func(field string) (string, error) {
		s, ok := data[field].(string)
		if !ok || s == "" {
			return "", fmt.Errorf("%s: %q must be a non-empty string", typ, field)
		}
		return s, nil
	}

	switch typ {
	case "num":
		v, ok := data["value"].(float64)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("num: 'value' must be a finite number")
		}
		return N(v), nil

	case "const":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		if _, ok := constants[name]; !ok {
			return nil, fmt.Errorf("const: unknown constant %q", name)
		}
		return &Const{name: name}, nil

	case "var":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		if name != "x" && name != "t" {
			return nil, fmt.Errorf("var: unknown variable %q", name)
		}
		return &Var{name: name}, nil

	case "neg":
		arg, err := subObj("arg")
		if err != nil {
			return nil, err
		}
		return &Neg{arg: arg}, nil

	case "binary":
		opStr, err := subString("op")
		if err != nil {
			return nil, err
		}
		op, err := parseOp(opStr)
		if err != nil {
			return nil, fmt.Errorf("binary: %w", err)
		}
		left, err := subObj("left")
		if err != nil {
			return nil, err
		}
		right, err := subObj("right")
		if err != nil {
			return nil, err
		}
		return &Binary{op: op, left: left, right: right}, nil

	case "call":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		if _, ok := functions[name]; !ok {
			return nil, fmt.Errorf("call: unknown function %q", name)
		}
		arg, err := subObj("arg")
		if err != nil {
			return nil, err
		}
		return &Call{name: name, arg: arg}, nil
	}
	return nil, fmt.Errorf("unknown expression type %q", typ)
}
