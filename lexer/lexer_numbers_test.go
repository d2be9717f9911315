package lexer

import "testing"

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input        string
		expectedType TokenType
		expectedLit  string
	}{
		{"0", INT, "0"},
		{"42", INT, "42"},
		{"3.14", FLOAT, "3.14"},
		{"1.5", FLOAT, "1.5"},
		{"10.", INT, "10"}, // trailing '.' with no digit after it is not part of the number
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Errorf("input %q: expected type %s, got %s", tt.input, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLit {
			t.Errorf("input %q: expected literal %q, got %q", tt.input, tt.expectedLit, tok.Literal)
		}
	}
}

func TestCharLiteral(t *testing.T) {
	l := New(`'a'`)
	tok := l.NextToken()
	if tok.Type != CHAR {
		t.Fatalf("expected CHAR, got %s", tok.Type)
	}
	if tok.Literal != "a" {
		t.Fatalf("expected literal %q, got %q", "a", tok.Literal)
	}
}

func TestStringLiteral(t *testing.T) {
	l := New(`"hello, world"`)
	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("expected STRING, got %s", tok.Type)
	}
	if tok.Literal != "hello, world" {
		t.Fatalf("expected literal %q, got %q", "hello, world", tok.Literal)
	}
}

func TestUnterminatedStringRecordsError(t *testing.T) {
	l := New(`"unterminated`)
	l.NextToken()
	if len(l.Errors()) != 1 {
		t.Fatalf("expected exactly one lexical error, got %d", len(l.Errors()))
	}
}
