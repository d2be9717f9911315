package ast

import (
	"strings"
)

// UnaryOp is the closed set of unary operators (`-`, `!`).
type UnaryOp int

const (
	UnaryNeg UnaryOp = iota // -
	UnaryNot                // !
)

// UnaryExpression applies a prefix operator to a single operand.
type UnaryExpression struct {
	exprBase
	Op      UnaryOp
	Operand Expression
}

func (u *UnaryExpression) String() string {
	op := "-"
	if u.Op == UnaryNot {
		op = "!"
	}
	return "(" + op + u.Operand.String() + ")"
}

// BinaryOp is the closed set of arithmetic/bitwise/logical binary operators.
// Comparison and equality are modeled separately (ComparisonExpression)
// so lowering can choose integer/float predicates without re-dispatching
// on operator family (§4.2).
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd // &&
	OpOr  // ||
	OpBitAnd
	OpBitOr
	OpBitXor
)

var binaryOpStrings = map[BinaryOp]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%",
	OpAnd: "&&", OpOr: "||",
	OpBitAnd: "&", OpBitOr: "|", OpBitXor: "^",
}

func (op BinaryOp) String() string { return binaryOpStrings[op] }

// BinaryExpression is a dyadic arithmetic, bitwise, or logical operation.
type BinaryExpression struct {
	exprBase
	Op          BinaryOp
	Left, Right Expression
}

func (b *BinaryExpression) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}

// CompareOp is the closed set of relational/equality operators.
type CompareOp int

const (
	CmpEq CompareOp = iota // ==
	CmpNe                  // !=
	CmpGt                  // >
	CmpGe                  // >=
	CmpLt                  // <
	CmpLe                  // <=
)

var compareOpStrings = map[CompareOp]string{
	CmpEq: "==", CmpNe: "!=", CmpGt: ">", CmpGe: ">=", CmpLt: "<", CmpLe: "<=",
}

func (op CompareOp) String() string { return compareOpStrings[op] }

// ComparisonExpression is a relational or equality test. Kept distinct from
// BinaryExpression per §4.2 so the lowering pass can dispatch directly to
// ordered-float or signed-integer predicates.
type ComparisonExpression struct {
	exprBase
	Op          CompareOp
	Left, Right Expression
}

func (c *ComparisonExpression) String() string {
	return "(" + c.Left.String() + " " + c.Op.String() + " " + c.Right.String() + ")"
}

// CallExpression invokes a named function with an ordered argument list.
type CallExpression struct {
	exprBase
	Function string
	Args     []Expression
}

func (c *CallExpression) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return c.Function + "(" + strings.Join(args, ", ") + ")"
}

// ArrayAccessExpression indexes into a declared array variable.
type ArrayAccessExpression struct {
	exprBase
	Array Expression // always *Identifier naming the array
	Index Expression
}

func (a *ArrayAccessExpression) String() string {
	return a.Array.String() + "[" + a.Index.String() + "]"
}

// AssignmentExpression stores Value into Target. Target is structurally
// restricted to Identifier | ArrayAccessExpression (§3.2).
type AssignmentExpression struct {
	exprBase
	Target Expression
	Value  Expression
}

func (a *AssignmentExpression) String() string {
	return "(" + a.Target.String() + " = " + a.Value.String() + ")"
}
