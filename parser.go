package goplot

// Grammar, lowest to highest binding:
//
//	expr    := term (('+' | '-') term)*
//	term    := unary (('*' | '/') unary)*
//	unary   := ('+' | '-') unary | power
//	power   := primary ('^' unary)?
//	primary := number | constant | variable | func '(' expr ')' | '(' expr ')'
//
// '^' is right-associative and binds tighter than unary minus, so -x^2 is
// -(x^2) and 2^-1 is 0.5. Adjacent operands ("2x", "(x)(x)") are an error.

const (
	// MaxDepth bounds nesting of parentheses, unary operators and exponents.
	MaxDepth = 256

	// MaxLength bounds the source text in bytes.
	MaxLength = 4096
)

type parser struct {
	src   string
	toks  []token
	pos   int
	depth int
}

// Parse turns text into an expression tree. Most callers want Compile.
func Parse(text string) (Expr, error) {
	if len(text) > MaxLength {
		return nil, compileErr(text, MaxLength, "expression longer than %d bytes", MaxLength)
	}
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	if toks[0].kind == tokEOF {
		return nil, compileErr(text, 0, "empty expression")
	}
	p := &parser{src: text, toks: toks}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.unexpected(tok)
	}
	return e, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) unexpected(tok token) error {
	prev := p.prevOperand()
	switch {
	case tok.kind == tokEOF:
		return compileErr(p.src, tok.pos, "unexpected end of expression")
	case prev && (tok.kind == tokNumber || tok.kind == tokIdent || tok.kind == tokLParen):
		return compileErr(p.src, tok.pos, "missing operator before %s", tok.describe())
	}
	return compileErr(p.src, tok.pos, "unexpected %s", tok.describe())
}

// prevOperand reports whether the token before the cursor ends an operand.
func (p *parser) prevOperand() bool {
	if p.pos == 0 {
		return false
	}
	switch p.toks[p.pos-1].kind {
	case tokNumber, tokIdent, tokRParen:
		return true
	}
	return false
}

func (p *parser) enter(tok token) error {
	p.depth++
	if p.depth > MaxDepth {
		return compileErr(p.src, tok.pos, "expression nested deeper than %d levels", MaxDepth)
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) expr() (Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokPlus && tok.kind != tokMinus {
			return left, nil
		}
		p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &Binary{op: tok.text[0], left: left, right: right}
	}
}

func (p *parser) term() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokStar && tok.kind != tokSlash {
			return left, nil
		}
		p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &Binary{op: tok.text[0], left: left, right: right}
	}
}

func (p *parser) unary() (Expr, error) {
	tok := p.peek()
	if tok.kind != tokPlus && tok.kind != tokMinus {
		return p.power()
	}
	p.next()
	if err := p.enter(tok); err != nil {
		return nil, err
	}
	defer p.leave()
	arg, err := p.unary()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokPlus {
		return arg, nil
	}
	return &Neg{arg: arg}, nil
}

func (p *parser) power() (Expr, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	if tok.kind != tokCaret {
		return base, nil
	}
	p.next()
	if err := p.enter(tok); err != nil {
		return nil, err
	}
	defer p.leave()
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &Binary{op: '^', left: base, right: exp}, nil
}

func (p *parser) primary() (Expr, error) {
	tok := p.peek()
	switch tok.kind {
	case tokNumber:
		p.next()
		return N(tok.num), nil

	case tokLParen:
		p.next()
		return p.group(tok)

	case tokIdent:
		p.next()
		if _, ok := constants[tok.text]; ok {
			return &Const{name: tok.text}, nil
		}
		if tok.text == "x" || tok.text == "t" {
			return &Var{name: tok.text}, nil
		}
		if _, ok := functions[tok.text]; ok {
			open := p.peek()
			if open.kind != tokLParen {
				return nil, compileErr(p.src, open.pos, "function %s needs a parenthesised argument", tok.text)
			}
			p.next()
			arg, err := p.group(open)
			if err != nil {
				return nil, err
			}
			return &Call{name: tok.text, arg: arg}, nil
		}
		return nil, compileErr(p.src, tok.pos, "unknown identifier '%s'", tok.text)
	}
	return nil, p.unexpected(tok)
}

// group parses the inside of a parenthesis whose '(' has been consumed.
func (p *parser) group(open token) (Expr, error) {
	if err := p.enter(open); err != nil {
		return nil, err
	}
	defer p.leave()
	if p.peek().kind == tokRParen {
		return nil, compileErr(p.src, p.peek().pos, "empty parentheses")
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	closeTok := p.peek()
	if closeTok.kind != tokRParen {
		if closeTok.kind == tokEOF {
			return nil, compileErr(p.src, open.pos, "unclosed '('")
		}
		return nil, p.unexpected(closeTok)
	}
	p.next()
	return e, nil
}
