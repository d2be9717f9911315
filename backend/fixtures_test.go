package backend_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/mlang-dev/mlang/backend"
	"github.com/mlang-dev/mlang/lexer"
	"github.com/mlang-dev/mlang/lower"
	"github.com/mlang-dev/mlang/parser"
)

// TestEndToEndFixtures runs every `*.minilang` fixture under
// testdata/fixtures/endtoend through the full lex/parse/lower/execute
// pipeline and snapshots its captured stdout, grounded on the teacher's
// TestDWScriptFixtures harness (internal/interp/fixture_test.go).
func TestEndToEndFixtures(t *testing.T) {
	const dir = "../testdata/fixtures/endtoend"
	files, err := filepath.Glob(filepath.Join(dir, "*.minilang"))
	if err != nil {
		t.Fatalf("globbing fixtures: %v", err)
	}
	if len(files) == 0 {
		t.Fatalf("no fixtures found under %s", dir)
	}

	for _, path := range files {
		name := filepath.Base(path)
		t.Run(name, func(t *testing.T) {
			source, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading %s: %v", path, err)
			}

			l := lexer.New(string(source))
			p := parser.New(l)
			program := p.ParseProgram()
			if errs := p.Errors(); len(errs) > 0 {
				t.Fatalf("parse errors in %s: %v", name, errs)
			}
			if errs := p.LexerErrors(); len(errs) > 0 {
				t.Fatalf("lex errors in %s: %v", name, errs)
			}

			mod := backend.NewModule()
			d := lower.NewDriver(mod)
			if errs := d.Lower(program); len(errs) > 0 {
				t.Fatalf("lowering errors in %s: %v", name, errs)
			}

			var out bytes.Buffer
			engine := backend.NewEngine(mod)
			backend.BindPrintf(engine, &out)
			if err := engine.Run(); err != nil {
				t.Fatalf("execution failed for %s: %v", name, err)
			}

			snaps.MatchSnapshot(t, "stdout", out.String())
		})
	}
}
