// Package diag renders positioned compiler diagnostics with source-line and
// caret context, shared uniformly across the lexical, syntactic, and
// semantic (lowering) failure classes (§7).
package diag

import (
	"fmt"
	"strings"

	"github.com/mlang-dev/mlang/lexer"
)

// Category classifies a CompilerError by the pipeline stage that raised it.
type Category int

const (
	IOError Category = iota
	LexError
	SyntaxError
	SemanticError
	BackendError
)

func (c Category) String() string {
	switch c {
	case IOError:
		return "I/O error"
	case LexError:
		return "lexical error"
	case SyntaxError:
		return "syntax error"
	case SemanticError:
		return "semantic error"
	case BackendError:
		return "backend error"
	default:
		return "error"
	}
}

// CompilerError is a single diagnostic with enough context to render a
// source-line-and-caret view without re-reading the file.
type CompilerError struct {
	Category Category
	Message  string
	Source   string
	File     string
	Pos      lexer.Position
	Length   int
}

func NewCompilerError(cat Category, pos lexer.Position, length int, message, source, file string) *CompilerError {
	if length < 1 {
		length = 1
	}
	return &CompilerError{Category: cat, Pos: pos, Length: length, Message: message, Source: source, File: file}
}

func (e *CompilerError) Error() string { return e.Format(false) }

// Format renders the error as a header line, the offending source line, and
// a caret underline. If color is true, ANSI codes highlight the caret and
// message.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(fmt.Sprintf("%s in %s:%d:%d\n", e.Category, e.File, e.Pos.Line, e.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("%s at line %d:%d\n", e.Category, e.Pos.Line, e.Pos.Column))
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString(strings.Repeat("^", e.Length))
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func (e *CompilerError) sourceLine(lineNum int) string {
	if e.Source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatErrors batches multiple diagnostics, numbering them when there is
// more than one.
func FormatErrors(errs []*CompilerError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "compilation failed with %d error(s):\n\n", len(errs))
	for i, e := range errs {
		fmt.Fprintf(&sb, "[Error %d of %d]\n", i+1, len(errs))
		sb.WriteString(e.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
