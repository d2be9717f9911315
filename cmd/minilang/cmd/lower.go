package cmd

import (
	"fmt"
	"os"

	"github.com/mlang-dev/mlang/backend"
	"github.com/mlang-dev/mlang/diag"
	"github.com/spf13/cobra"
)

var lowerCmd = &cobra.Command{
	Use:   "lower <file>",
	Short: "Lower a minilang file to backend IR and dump it",
	Long: `Lower scans, parses, and lowers a minilang source file to backend
IR, then prints the disassembled module, without executing it.

Examples:
  minilang lower fib.minilang`,
	Args: cobra.ExactArgs(1),
	RunE: lowerProgramCmd,
}

func init() {
	rootCmd.AddCommand(lowerCmd)
}

func lowerProgramCmd(_ *cobra.Command, args []string) error {
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

	fmt.Print(backend.DisassembleToString(mod))
	return nil
}
