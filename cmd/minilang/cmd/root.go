// Package cmd wires the cobra command surface described in spec.md §6.1
// (the CLI itself, and its exit-code taxonomy, are ambient/out-of-scope
// collaborators the spec describes only at the boundary).
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags, mirroring the teacher's trio)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "minilang",
	Short: "minilang compiler and JIT host",
	Long: `minilang is an ahead-of-parse, JIT-executed compiler for a small
statically-typed imperative language: a program is fully scanned, parsed,
type-checked, and lowered to backend IR before a single instruction runs.

Subcommands:
  run   lex, parse, lower, and execute a source file
  lex   dump the token stream (diagnostic)
  parse dump the parsed AST (diagnostic)
  lower lower to backend IR and dump it, without executing (diagnostic)`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the exit code to use.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if ec, ok := err.(*ExitError); ok {
			fmt.Fprintf(os.Stderr, "Error: %s\n", ec.Err)
			return ec.Code
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

// ExitError pairs an error with the process exit code it should produce,
// per spec.md §7's exit-code taxonomy (1 file-open failure, 2 compile
// error, 3 backend error) — the original's undifferentiated single exit
// code is flagged there as a defect this CLI fixes.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

func fileError(err error) error   { return &ExitError{Code: 1, Err: err} }
func compileError(err error) error { return &ExitError{Code: 2, Err: err} }
func backendError(err error) error { return &ExitError{Code: 3, Err: err} }
