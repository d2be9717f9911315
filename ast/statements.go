package ast

import (
	"strings"

	"github.com/mlang-dev/mlang/lexer"
)

// stmtBase is embedded by every statement node.
type stmtBase struct {
	Token lexer.Token
}

func (s *stmtBase) TokenLiteral() string { return s.Token.Literal }
func (s *stmtBase) Pos() lexer.Position  { return s.Token.Pos }
func (s *stmtBase) statementNode()       {}

// ExpressionStatement wraps an expression evaluated for its side effect.
type ExpressionStatement struct {
	stmtBase
	Expr Expression
}

func (s *ExpressionStatement) String() string { return s.Expr.String() + ";" }

// VarDeclStatement declares a scalar variable with an optional initializer.
type VarDeclStatement struct {
	stmtBase
	Type        *Type
	Name        string
	Initializer Expression // nil if absent
}

func (s *VarDeclStatement) String() string {
	out := s.Type.String() + " " + s.Name
	if s.Initializer != nil {
		out += " = " + s.Initializer.String()
	}
	return out + ";"
}

// ArrayDeclStatement declares a fixed-size array with an optional brace
// initializer list.
type ArrayDeclStatement struct {
	stmtBase
	ElemType     *Type
	Name         string
	Size         int
	Initializers []Expression // nil if absent
}

func (s *ArrayDeclStatement) String() string {
	out := "array " + s.ElemType.String() + " " + s.Name + "[" + itoa(s.Size) + "]"
	if s.Initializers != nil {
		items := make([]string, len(s.Initializers))
		for i, e := range s.Initializers {
			items[i] = e.String()
		}
		out += " = {" + strings.Join(items, ", ") + "}"
	}
	return out + ";"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}

// PrintStatement evaluates its expression and writes it via the host
// printf-shaped runtime symbol.
type PrintStatement struct {
	stmtBase
	Value Expression
}

func (s *PrintStatement) String() string { return "print(" + s.Value.String() + ");" }

// BlockStatement is an ordered list of statements sharing one lexical scope.
type BlockStatement struct {
	stmtBase
	Statements []Statement
}

func (s *BlockStatement) String() string {
	var b strings.Builder
	b.WriteString("{ ")
	for _, stmt := range s.Statements {
		b.WriteString(stmt.String())
		b.WriteString(" ")
	}
	b.WriteString("}")
	return b.String()
}

// IfStatement is a conditional with an optional else branch.
type IfStatement struct {
	stmtBase
	Condition Expression
	Then      Statement
	Else      Statement // nil if absent
}

func (s *IfStatement) String() string {
	out := "if (" + s.Condition.String() + ") " + s.Then.String()
	if s.Else != nil {
		out += " else " + s.Else.String()
	}
	return out
}

// ForStatement is a three-clause loop: initializer statement, condition
// expression, update expression, then body.
type ForStatement struct {
	stmtBase
	Init      Statement  // nil if absent
	Condition Expression // nil if absent
	Update    Expression // nil if absent
	Body      Statement
}

func (s *ForStatement) String() string {
	init := ""
	if s.Init != nil {
		init = s.Init.String()
	}
	cond := ""
	if s.Condition != nil {
		cond = s.Condition.String()
	}
	update := ""
	if s.Update != nil {
		update = s.Update.String()
	}
	return "for (" + init + " " + cond + "; " + update + ") " + s.Body.String()
}

// WhileStatement is a condition-guarded loop.
type WhileStatement struct {
	stmtBase
	Condition Expression
	Body      Statement
}

func (s *WhileStatement) String() string {
	return "while (" + s.Condition.String() + ") " + s.Body.String()
}

// Param is one (type, name) pair in a function prototype's parameter list.
type Param struct {
	Type *Type
	Name string
}

// FunctionPrototype names a function's parameter and return types without a
// body — kept distinct from FunctionDecl per the original implementation's
// PrototypeFunction/FunctionNode split, since lowering needs parameter and
// return types available before the body is walked (recursive calls).
type FunctionPrototype struct {
	stmtBase
	Name       string
	Params     []Param
	ReturnType *Type
}

func (s *FunctionPrototype) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.Type.String() + " " + p.Name
	}
	return "function " + s.Name + "(" + strings.Join(params, ", ") + ") -> " + s.ReturnType.String()
}

// FunctionDecl is a prototype paired with its body block.
type FunctionDecl struct {
	stmtBase
	Prototype *FunctionPrototype
	Body      *BlockStatement
}

func (s *FunctionDecl) String() string {
	return s.Prototype.String() + " " + s.Body.String()
}

// ReturnStatement returns Value from the enclosing function. Only meaningful
// inside a function body; a top-level return is a lowering error (§3.2).
type ReturnStatement struct {
	stmtBase
	Value Expression // nil for a bare `return;` is not produced by this grammar but kept optional for void functions
}

func (s *ReturnStatement) String() string {
	if s.Value == nil {
		return "return;"
	}
	return "return " + s.Value.String() + ";"
}
