package ast_test

import (
	"testing"

	"github.com/mlang-dev/mlang/ast"
	"github.com/mlang-dev/mlang/lexer"
)

func TestTypeStringFormatsScalarsAndArrays(t *testing.T) {
	tests := []struct {
		typ  *ast.Type
		want string
	}{
		{&ast.Type{Kind: ast.IntType}, "int"},
		{&ast.Type{Kind: ast.BigIntType}, "bigint"},
		{&ast.Type{Kind: ast.ArrayKind, Elem: &ast.Type{Kind: ast.FloatType}, Len: 3}, "float[]"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestProgramStringConcatenatesDeclarations(t *testing.T) {
	lit := &ast.IntegerLiteral{Value: 1}
	lit.Token = lexer.Token{Literal: "1"}
	stmt := &ast.ExpressionStatement{Expr: lit}
	program := &ast.Program{Declarations: []ast.Statement{stmt}}
	if got, want := program.String(), "1;"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
