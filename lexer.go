package goplot

import (
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokLParen
	tokRParen
)

var tokenNames = map[tokenKind]string{
	tokEOF:    "end of input",
	tokNumber: "number",
	tokIdent:  "identifier",
	tokPlus:   "'+'",
	tokMinus:  "'-'",
	tokStar:   "'*'",
	tokSlash:  "'/'",
	tokCaret:  "'^'",
	tokLParen: "'('",
	tokRParen: "')'",
}

func (k tokenKind) String() string { return tokenNames[k] }

type token struct {
	kind tokenKind
	pos  int
	text string // lower-cased for identifiers
	num  float64
}

// describe is used in error messages.
func (t token) describe() string {
	switch t.kind {
	case tokNumber:
		return "number " + t.text
	case tokIdent:
		return "'" + t.text + "'"
	}
	return t.kind.String()
}

// lex splits src into tokens. It rejects every byte outside the language:
// digits, '.', letters, the five operators, parentheses and whitespace.
func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || c == '.':
			start := i
			for i < len(src) && isDigit(src[i]) {
				i++
			}
			if i < len(src) && src[i] == '.' {
				i++
				for i < len(src) && isDigit(src[i]) {
					i++
				}
			}
			lit := src[start:i]
			if lit == "." {
				return nil, compileErr(src, start, "unexpected '.'")
			}
			v, err := strconv.ParseFloat(lit, 64)
			if err != nil {
				return nil, compileErr(src, start, "malformed number %q", lit)
			}
			toks = append(toks, token{kind: tokNumber, pos: start, text: lit, num: v})
		case isLetter(c):
			start := i
			for i < len(src) && (isLetter(src[i]) || isDigit(src[i])) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, pos: start, text: strings.ToLower(src[start:i])})
		default:
			kind, ok := punct[c]
			if !ok {
				return nil, compileErr(src, i, "unexpected character %q", decodeAt(src, i))
			}
			toks = append(toks, token{kind: kind, pos: i, text: string(c)})
			i++
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}

var punct = map[byte]tokenKind{
	'+': tokPlus,
	'-': tokMinus,
	'*': tokStar,
	'/': tokSlash,
	'^': tokCaret,
	'(': tokLParen,
	')': tokRParen,
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

// decodeAt returns the rune starting at byte i, for error messages only.
func decodeAt(s string, i int) rune {
	for _, r := range s[i:] {
		return r
	}
	return 0
}
