package diag_test

import (
	"strings"
	"testing"

	"github.com/mlang-dev/mlang/diag"
	"github.com/mlang-dev/mlang/lexer"
)

func TestFormatIncludesSourceLineAndCaret(t *testing.T) {
	source := "int x = 1;\nint y = ;\n"
	e := diag.NewCompilerError(diag.SyntaxError, lexer.Position{Line: 2, Column: 9}, 1, "unexpected token", source, "prog.minilang")
	out := e.Format(false)

	if !strings.Contains(out, "syntax error in prog.minilang:2:9") {
		t.Errorf("expected a header with file and position, got:\n%s", out)
	}
	if !strings.Contains(out, "int y = ;") {
		t.Errorf("expected the offending source line to be quoted, got:\n%s", out)
	}
	if !strings.Contains(out, "unexpected token") {
		t.Errorf("expected the message to be included, got:\n%s", out)
	}
}

func TestFormatWithoutFileOmitsFileName(t *testing.T) {
	e := diag.NewCompilerError(diag.LexError, lexer.Position{Line: 1, Column: 1}, 1, "bad byte", "@", "")
	out := e.Format(false)
	if !strings.Contains(out, "lexical error at line 1:1") {
		t.Errorf("expected a file-less header, got:\n%s", out)
	}
}

func TestFormatColorWrapsCaretAndMessageInAnsiCodes(t *testing.T) {
	e := diag.NewCompilerError(diag.SemanticError, lexer.Position{Line: 1, Column: 1}, 1, "boom", "x", "")
	out := e.Format(true)
	if !strings.Contains(out, "\033[1;31m") || !strings.Contains(out, "\033[1m") {
		t.Errorf("expected ANSI color codes when color=true, got:\n%s", out)
	}
}

func TestLengthIsClampedToAtLeastOne(t *testing.T) {
	e := diag.NewCompilerError(diag.SyntaxError, lexer.Position{Line: 1, Column: 1}, 0, "msg", "x", "")
	out := e.Format(false)
	if !strings.Contains(out, "^") {
		t.Errorf("expected at least one caret, got:\n%s", out)
	}
}

func TestFormatErrorsEmpty(t *testing.T) {
	if got := diag.FormatErrors(nil, false); got != "" {
		t.Errorf("expected empty string for no errors, got %q", got)
	}
}

func TestFormatErrorsSingleOmitsNumbering(t *testing.T) {
	e := diag.NewCompilerError(diag.SyntaxError, lexer.Position{Line: 1, Column: 1}, 1, "oops", "x", "")
	out := diag.FormatErrors([]*diag.CompilerError{e}, false)
	if strings.Contains(out, "[Error 1 of 1]") {
		t.Errorf("single error should not be numbered, got:\n%s", out)
	}
}

func TestFormatErrorsBatchNumbersEach(t *testing.T) {
	e1 := diag.NewCompilerError(diag.SyntaxError, lexer.Position{Line: 1, Column: 1}, 1, "first", "x\ny", "")
	e2 := diag.NewCompilerError(diag.SemanticError, lexer.Position{Line: 2, Column: 1}, 1, "second", "x\ny", "")
	out := diag.FormatErrors([]*diag.CompilerError{e1, e2}, false)
	if !strings.Contains(out, "compilation failed with 2 error(s)") {
		t.Errorf("expected a summary header, got:\n%s", out)
	}
	if !strings.Contains(out, "[Error 1 of 2]") || !strings.Contains(out, "[Error 2 of 2]") {
		t.Errorf("expected both errors numbered, got:\n%s", out)
	}
}
