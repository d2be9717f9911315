package cmd

import (
	"fmt"
	"os"

	"github.com/mlang-dev/mlang/diag"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Dump the parsed AST for a minilang file",
	Long: `Parse scans and parses a minilang source file and prints the
resulting AST, without lowering or executing it.

Examples:
  minilang parse fib.minilang`,
	Args: cobra.ExactArgs(1),
	RunE: parseProgram,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func parseProgram(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(args)
	if err != nil {
		return err
	}

	program, errs := parseSource(input, filename)
	if len(errs) > 0 {
		fmt.Fprint(os.Stderr, diag.FormatErrors(errs, true))
		return compileError(fmt.Errorf("parsing failed with %d error(s)", len(errs)))
	}

	fmt.Println(program.String())
	return nil
}
