// Package ast defines the typed abstract syntax tree produced by the parser.
//
// The tree is strict: every node exclusively owns its children, there is no
// sharing and no cycles. Two disjoint node families exist — Expression
// (produces a value) and Statement (produces an effect) — matching the
// teacher's Node/Expression/Statement interface split.
package ast

import "github.com/mlang-dev/mlang/lexer"

// Node is implemented by every AST node.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() lexer.Position
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is a node that produces an effect.
type Statement interface {
	Node
	statementNode()
}

// TypeKind is the closed set of surface scalar kinds plus array (§3.4).
type TypeKind int

const (
	IntType TypeKind = iota
	BigIntType
	FloatType
	CharType
	BoolType
	StringType
	VoidType
	ArrayKind
)

func (k TypeKind) String() string {
	switch k {
	case IntType:
		return "int"
	case BigIntType:
		return "bigint"
	case FloatType:
		return "float"
	case CharType:
		return "char"
	case BoolType:
		return "bool"
	case StringType:
		return "string"
	case VoidType:
		return "void"
	case ArrayKind:
		return "array"
	default:
		return "unknown"
	}
}

// Type is a surface type: a scalar kind, or an array of a scalar Elem with a
// fixed length Len.
type Type struct {
	Kind TypeKind
	Elem *Type // non-nil only when Kind == ArrayKind
	Len  int   // only meaningful when Kind == ArrayKind
}

func (t *Type) String() string {
	if t == nil {
		return "<nil type>"
	}
	if t.Kind == ArrayKind {
		return t.Elem.String() + "[]"
	}
	return t.Kind.String()
}

// Program is the root node: an ordered sequence of top-level declarations,
// each either a statement or a function declaration.
type Program struct {
	Declarations []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Declarations) > 0 {
		return p.Declarations[0].TokenLiteral()
	}
	return ""
}

func (p *Program) Pos() lexer.Position {
	if len(p.Declarations) > 0 {
		return p.Declarations[0].Pos()
	}
	return lexer.Position{}
}

func (p *Program) String() string {
	out := ""
	for _, d := range p.Declarations {
		out += d.String()
	}
	return out
}

// exprBase is embedded by every expression node. It carries the originating
// token and caches the type the lowering pass infers for it, the same
// GetType/SetType memoization idiom the teacher's literal nodes use.
type exprBase struct {
	Token lexer.Token
	typ   *Type
}

func (e *exprBase) TokenLiteral() string   { return e.Token.Literal }
func (e *exprBase) Pos() lexer.Position    { return e.Token.Pos }
func (e *exprBase) GetType() *Type         { return e.typ }
func (e *exprBase) SetType(t *Type)        { e.typ = t }
func (e *exprBase) expressionNode()        {}

// Identifier references a declared name.
type Identifier struct {
	exprBase
	Name string
}

func NewIdentifier(tok lexer.Token) *Identifier {
	return &Identifier{exprBase: exprBase{Token: tok}, Name: tok.Literal}
}

func (i *Identifier) String() string { return i.Name }

// IntegerLiteral is a surface `int` constant.
type IntegerLiteral struct {
	exprBase
	Value int64
}

func (l *IntegerLiteral) String() string { return l.Token.Literal }

// FloatLiteral is a surface `float` constant.
type FloatLiteral struct {
	exprBase
	Value float64
}

func (l *FloatLiteral) String() string { return l.Token.Literal }

// StringLiteral is a surface `string` constant (quotes stripped).
type StringLiteral struct {
	exprBase
	Value string
}

func (l *StringLiteral) String() string { return "\"" + l.Value + "\"" }

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	exprBase
	Value bool
}

func (l *BooleanLiteral) String() string { return l.Token.Literal }

// CharacterLiteral is a single-byte `char` constant.
type CharacterLiteral struct {
	exprBase
	Value byte
}

func (l *CharacterLiteral) String() string { return "'" + string(l.Value) + "'" }
