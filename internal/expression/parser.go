package expression

import "strconv"

// Binding powers. '**' is right associative and binds tighter than a
// prefix sign, so -2**2 is -(2**2).
const (
	precAdditive       = 10
	precMultiplicative = 20
	precUnary          = 30
	precPower          = 40
)

var infixOps = map[tokenKind]struct {
	op    BinaryOp
	prec  int
	right bool
}{
	tokPlus:    {OpAdd, precAdditive, false},
	tokMinus:   {OpSub, precAdditive, false},
	tokStar:    {OpMul, precMultiplicative, false},
	tokSlash:   {OpDiv, precMultiplicative, false},
	tokPercent: {OpMod, precMultiplicative, false},
	tokPow:     {OpPow, precPower, true},
}

type parser struct {
	toks     []token
	pos      int
	depth    int
	maxDepth int
}

// Parse builds the restricted tree for a canonical expression. maxDepth
// bounds recursion; values below 1 disable the bound.
func Parse(canonical string, maxDepth int) (Node, error) {
	toks, err := lex(canonical)
	if err != nil {
		return nil, err
	}
	if len(toks) == 1 {
		return nil, errorf(KindSyntax, -1, "empty expression")
	}

	p := &parser{toks: toks, maxDepth: maxDepth}
	n, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, errorf(KindSyntax, t.pos, "unexpected %s", describe(t))
	}
	return n, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind) error {
	if t := p.next(); t.kind != kind {
		return errorf(KindSyntax, t.pos, "expected %s, found %s", kind, describe(t))
	}
	return nil
}

func (p *parser) expr(minPrec int) (Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return nil, errorf(KindLimit, p.peek().pos, "expression nesting exceeds maximum depth %d", p.maxDepth)
	}

	left, err := p.prefix()
	if err != nil {
		return nil, err
	}

	for {
		info, ok := infixOps[p.peek().kind]
		if !ok || info.prec < minPrec {
			return left, nil
		}
		p.next()

		nextMin := info.prec + 1
		if info.right {
			nextMin = info.prec
		}
		right, err := p.expr(nextMin)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: info.op, Left: left, Right: right}
	}
}

func (p *parser) prefix() (Node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return &NumberLit{Value: t.num}, nil

	case tokMinus, tokPlus:
		x, err := p.expr(precUnary)
		if err != nil {
			return nil, err
		}
		op := OpNeg
		if t.kind == tokPlus {
			op = OpPlus
		}
		return &UnaryExpr{Op: op, X: x}, nil

	case tokLParen:
		x, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return x, nil

	case tokIdent:
		return p.identifier(t)
	}
	return nil, errorf(KindSyntax, t.pos, "unexpected %s", describe(t))
}

func (p *parser) identifier(t token) (Node, error) {
	if p.peek().kind == tokLParen {
		f, ok := functions[t.text]
		if !ok {
			return nil, errorf(KindUnknownIdentifier, t.pos, "unknown function %q", t.text)
		}
		p.next()
		args, err := p.arguments()
		if err != nil {
			return nil, err
		}
		if len(args) < f.MinArgs || (f.MaxArgs >= 0 && len(args) > f.MaxArgs) {
			return nil, errorf(KindSyntax, t.pos, "%s expects %s, got %d", f.Name, arity(f), len(args))
		}
		return &CallExpr{Func: f, Args: args}, nil
	}

	if v, ok := constants[t.text]; ok {
		return &Constant{Name: t.text, Value: v}, nil
	}
	if _, ok := functions[t.text]; ok {
		return nil, errorf(KindSyntax, t.pos, "function %s must be called with parentheses", t.text)
	}
	return nil, errorf(KindUnknownIdentifier, t.pos, "unknown identifier %q", t.text)
}

func (p *parser) arguments() ([]Node, error) {
	if p.peek().kind == tokRParen {
		p.next()
		return nil, nil
	}
	var args []Node
	for {
		a, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		args = append(args, a)

		t := p.next()
		switch t.kind {
		case tokComma:
			continue
		case tokRParen:
			return args, nil
		}
		return nil, errorf(KindSyntax, t.pos, "expected ',' or ')', found %s", describe(t))
	}
}

func arity(f *Function) string {
	switch {
	case f.MaxArgs < 0:
		return pluralArgs(f.MinArgs) + " or more"
	case f.MinArgs == f.MaxArgs:
		return pluralArgs(f.MinArgs)
	}
	return pluralArgs(f.MinArgs) + " to " + pluralArgs(f.MaxArgs)
}

func pluralArgs(n int) string {
	if n == 1 {
		return "1 argument"
	}
	return strconv.Itoa(n) + " arguments"
}

func describe(t token) string {
	switch t.kind {
	case tokNumber, tokIdent:
		return t.kind.String() + " " + strconv.Quote(t.text)
	}
	return t.kind.String()
}
