package expression

import (
	"go/ast"
	goparser "go/parser"
	gotoken "go/token"
	"math"
	"strconv"
	"strings"
)

const fallbackAlphabet = "0123456789.+-*/%() \t\r\n"

// EvaluateFallback is the last-resort evaluator. It accepts plain
// arithmetic only: every character must be in fallbackAlphabet, and the
// parsed tree may contain nothing but literals, parentheses, signs and the
// five arithmetic operators.
func EvaluateFallback(input string) (float64, error) {
	for i, r := range input {
		if !strings.ContainsRune(fallbackAlphabet, r) {
			return 0, errorf(KindSyntax, i, "fallback evaluator supports plain arithmetic only, found %q", r)
		}
	}
	if strings.TrimSpace(input) == "" {
		return 0, errorf(KindSyntax, -1, "empty expression")
	}

	node, err := goparser.ParseExpr(input)
	if err != nil {
		return 0, errorf(KindSyntax, -1, "malformed arithmetic: %v", err)
	}
	return evalArithmetic(node)
}

func evalArithmetic(node ast.Expr) (float64, error) {
	switch n := node.(type) {
	case *ast.BasicLit:
		if n.Kind != gotoken.INT && n.Kind != gotoken.FLOAT {
			return 0, errorf(KindSyntax, int(n.Pos())-1, "unsupported literal %s", n.Value)
		}
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil && !isRangeErr(err) {
			return 0, errorf(KindSyntax, int(n.Pos())-1, "malformed number %s", n.Value)
		}
		return v, nil

	case *ast.ParenExpr:
		return evalArithmetic(n.X)

	case *ast.UnaryExpr:
		x, err := evalArithmetic(n.X)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case gotoken.SUB:
			return -x, nil
		case gotoken.ADD:
			return x, nil
		}

	case *ast.BinaryExpr:
		l, err := evalArithmetic(n.X)
		if err != nil {
			return 0, err
		}
		r, err := evalArithmetic(n.Y)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case gotoken.ADD:
			return l + r, nil
		case gotoken.SUB:
			return l - r, nil
		case gotoken.MUL:
			return l * r, nil
		case gotoken.QUO:
			return l / r, nil
		case gotoken.REM:
			return math.Mod(l, r), nil
		}
	}
	return 0, errorf(KindSyntax, int(node.Pos())-1, "unsupported construct in arithmetic")
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}
