// Command minilang is the CLI front end for the minilang compiler and JIT
// host: ahead-of-parse lex/parse/lower, then execute (§6.1).
package main

import (
	"os"

	"github.com/mlang-dev/mlang/cmd/minilang/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
