package expression

import (
	"math"
	"strconv"
	"strings"
)

// Node is an element of the restricted expression tree. Evaluation never
// fails: domain problems surface as NaN or ±Inf.
type Node interface {
	Eval() float64
	String() string
	Depth() int
}

// UnaryOp identifies a prefix operator.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpPlus
)

// BinaryOp identifies an infix operator.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
)

var binarySymbols = map[BinaryOp]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpMod: "%",
	OpPow: "**",
}

// NumberLit is a numeric literal.
type NumberLit struct {
	Value float64
}

// Constant is a named symbolic constant such as PI.
type Constant struct {
	Name  string
	Value float64
}

// UnaryExpr applies a prefix operator.
type UnaryExpr struct {
	Op UnaryOp
	X  Node
}

// BinaryExpr applies an infix operator.
type BinaryExpr struct {
	Op          BinaryOp
	Left, Right Node
}

// CallExpr invokes a whitelisted function.
type CallExpr struct {
	Func *Function
	Args []Node
}

func (n *NumberLit) Eval() float64  { return n.Value }
func (n *NumberLit) String() string { return strconv.FormatFloat(n.Value, 'g', -1, 64) }
func (n *NumberLit) Depth() int     { return 1 }

func (c *Constant) Eval() float64  { return c.Value }
func (c *Constant) String() string { return c.Name }
func (c *Constant) Depth() int     { return 1 }

func (u *UnaryExpr) Eval() float64 {
	x := u.X.Eval()
	if u.Op == OpNeg {
		return -x
	}
	return x
}

func (u *UnaryExpr) String() string {
	if u.Op == OpNeg {
		return "(-" + u.X.String() + ")"
	}
	return "(+" + u.X.String() + ")"
}

func (u *UnaryExpr) Depth() int { return 1 + u.X.Depth() }

func (b *BinaryExpr) Eval() float64 {
	l, r := b.Left.Eval(), b.Right.Eval()
	switch b.Op {
	case OpAdd:
		return l + r
	case OpSub:
		return l - r
	case OpMul:
		return l * r
	case OpDiv:
		return l / r
	case OpMod:
		return math.Mod(l, r)
	case OpPow:
		return math.Pow(l, r)
	}
	panic("expression: unknown binary operator")
}

func (b *BinaryExpr) String() string {
	return "(" + b.Left.String() + " " + binarySymbols[b.Op] + " " + b.Right.String() + ")"
}

func (b *BinaryExpr) Depth() int { return 1 + max(b.Left.Depth(), b.Right.Depth()) }

func (c *CallExpr) Eval() float64 {
	args := make([]float64, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.Eval()
	}
	return c.Func.call(args)
}

func (c *CallExpr) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Func.Name + "(" + strings.Join(parts, ", ") + ")"
}

func (c *CallExpr) Depth() int {
	d := 0
	for _, a := range c.Args {
		d = max(d, a.Depth())
	}
	return 1 + d
}
