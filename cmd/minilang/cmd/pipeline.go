package cmd

import (
	"os"

	"github.com/mlang-dev/mlang/ast"
	"github.com/mlang-dev/mlang/backend"
	"github.com/mlang-dev/mlang/diag"
	"github.com/mlang-dev/mlang/lexer"
	"github.com/mlang-dev/mlang/lower"
	"github.com/mlang-dev/mlang/parser"
)

// readSource reads args[0], translating an os.ReadFile failure into the
// file-open exit class (§7).
func readSource(args []string) (input, filename string, err error) {
	filename = args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return "", filename, fileError(err)
	}
	return string(content), filename, nil
}

// parseSource scans and parses input, collecting lexical and syntactic
// diagnostics in the uniform CompilerError shape (§7).
func parseSource(input, filename string) (*ast.Program, []*diag.CompilerError) {
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()

	var errs []*diag.CompilerError
	for _, lerr := range p.LexerErrors() {
		errs = append(errs, diag.NewCompilerError(diag.LexError, lerr.Pos, 1, lerr.Message, input, filename))
	}
	for _, perr := range p.Errors() {
		errs = append(errs, diag.NewCompilerError(diag.SyntaxError, perr.Pos, perr.Length, perr.Message, input, filename))
	}
	return program, errs
}

// lowerProgram lowers program into a fresh backend.Module, collecting
// semantic diagnostics in the same CompilerError shape.
func lowerProgram(program *ast.Program, input, filename string) (*backend.Module, []*diag.CompilerError) {
	mod := backend.NewModule()
	d := lower.NewDriver(mod)
	lerrs := d.Lower(program)

	var errs []*diag.CompilerError
	for _, e := range lerrs {
		errs = append(errs, diag.NewCompilerError(diag.SemanticError, e.Pos, 1, e.Message, input, filename))
	}
	return mod, errs
}
