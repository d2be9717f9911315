package lexer

import "testing"

func TestOperatorsAndPunctuation(t *testing.T) {
	input := `+ - * / % == != > >= < <= = -> && || ! & | ^ ( ) [ ] { } , . ; :`
	expected := []TokenType{
		PLUS, MINUS, ASTERISK, SLASH, PERCENT,
		EQ, NOT_EQ, GREATER, GEQ, LESS, LEQ, ASSIGN, ARROW,
		AND_AND, OR_OR, BANG, AMP, PIPE, CARET,
		LPAREN, RPAREN, LBRACK, RBRACK, LBRACE, RBRACE,
		COMMA, DOT, SEMICOLON, COLON,
		EOF,
	}

	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token %d: expected %s, got %s (literal %q)", i, want, tok.Type, tok.Literal)
		}
	}
}

func TestMinusDoesNotGreedilyConsumeArrow(t *testing.T) {
	l := New("- >")
	if tok := l.NextToken(); tok.Type != MINUS {
		t.Fatalf("expected MINUS, got %s", tok.Type)
	}
	if tok := l.NextToken(); tok.Type != GREATER {
		t.Fatalf("expected GREATER, got %s", tok.Type)
	}
}

func TestIllegalCharacterIsRecoverable(t *testing.T) {
	l := New("int x @ int y")
	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			break
		}
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("expected exactly one lexical error for '@', got %d", len(l.Errors()))
	}
	// scanning continues past the illegal byte rather than aborting
	if types[len(types)-2] != IDENT {
		t.Fatalf("expected scanning to continue after the illegal byte, last token before EOF was %s", types[len(types)-2])
	}
}
