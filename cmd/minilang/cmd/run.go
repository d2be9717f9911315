package cmd

import (
	"fmt"
	"os"

	"github.com/mlang-dev/mlang/backend"
	"github.com/mlang-dev/mlang/diag"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Lex, parse, lower, and execute a minilang program",
	Long: `Run scans, parses, and lowers a minilang source file ahead of
execution, then hands the resulting module to the JIT host.

Examples:
  minilang run fib.minilang`,
	Args: cobra.ExactArgs(1),
	RunE: runProgram,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runProgram(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(args)
	if err != nil {
		return err
	}

	program, errs := parseSource(input, filename)
	if len(errs) > 0 {
		fmt.Fprint(os.Stderr, diag.FormatErrors(errs, true))
		return compileError(fmt.Errorf("parsing failed with %d error(s)", len(errs)))
	}

	mod, errs := lowerProgram(program, input, filename)
	if len(errs) > 0 {
		fmt.Fprint(os.Stderr, diag.FormatErrors(errs, true))
		return compileError(fmt.Errorf("lowering failed with %d error(s)", len(errs)))
	}

	engine := backend.NewEngine(mod)
	backend.BindPrintf(engine, os.Stdout)
	if err := engine.Run(); err != nil {
		return backendError(err)
	}
	return nil
}
