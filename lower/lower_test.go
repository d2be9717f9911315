package lower_test

import (
	"testing"

	"github.com/mlang-dev/mlang/backend"
	"github.com/mlang-dev/mlang/lexer"
	"github.com/mlang-dev/mlang/lower"
	"github.com/mlang-dev/mlang/parser"
)

// lowerSource parses and lowers source, failing the test on any parse error
// (lowering errors are returned for the test to inspect itself).
func lowerSource(t *testing.T, source string) (*backend.Module, []*lower.LowerError) {
	t.Helper()
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	mod := backend.NewModule()
	d := lower.NewDriver(mod)
	errs := d.Lower(program)
	return mod, errs
}

func findFunc(mod *backend.Module, name string) *backend.Function {
	for _, fn := range mod.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// TestCoercionLawIdempotence is §8 law 1: coercing a value already at its
// target type is a no-op. float-typed variable initialized from an int
// literal should coerce once (SIToFP); re-lowering the same initializer
// expression shape in a second variable must not emit a second conversion
// chain rooted on the first's output.
func TestCoercionLawIdempotence(t *testing.T) {
	mod, errs := lowerSource(t, "float y = 1;\nfloat z = 2;\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected lowering errors: %v", errs)
	}
	main := findFunc(mod, "main")
	if main == nil {
		t.Fatalf("expected a synthesized main function")
	}
	var sitofp int
	for _, blk := range main.Blocks {
		for _, inst := range blk.Instructions {
			if inst.Op == backend.OpSIToFP {
				sitofp++
			}
		}
	}
	if sitofp != 2 {
		t.Fatalf("expected exactly one SIToFP per int-literal-to-float initializer (2 total), got %d", sitofp)
	}
}

// TestIntFloatMixedArithmeticCoercesOnce exercises unify (rules 1-4): adding
// an int and a float converts the int operand, nothing else.
func TestIntFloatMixedArithmeticCoercesOnce(t *testing.T) {
	mod, errs := lowerSource(t, "int x = 1;\nprint(x + 0.5);\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected lowering errors: %v", errs)
	}
	main := findFunc(mod, "main")
	var sitofp int
	for _, blk := range main.Blocks {
		for _, inst := range blk.Instructions {
			if inst.Op == backend.OpSIToFP {
				sitofp++
			}
		}
	}
	if sitofp != 1 {
		t.Fatalf("expected exactly one SIToFP (the int operand of the addition), got %d", sitofp)
	}
}

// TestNarrowingRejectedOnPlainInitializer: rule 5's narrowing half of coerce
// is gated to call/return sites (allowNarrow=true); a plain variable
// initializer assigning a float to an int must be a hard error.
func TestNarrowingRejectedOnPlainInitializer(t *testing.T) {
	_, errs := lowerSource(t, "int x = 1.5;\n")
	if len(errs) == 0 {
		t.Fatalf("expected a type-mismatch error narrowing float to int in a plain initializer")
	}
	if errs[0].Code != lower.ErrTypeMismatch {
		t.Fatalf("expected ErrTypeMismatch, got %d", errs[0].Code)
	}
}

// TestNarrowingAllowedAtCallSite: the same float-to-int narrowing is legal
// when passed as a call argument (allowNarrow=true at call sites).
func TestNarrowingAllowedAtCallSite(t *testing.T) {
	_, errs := lowerSource(t, `
function id(int a) -> int {
    return a;
}
print(id(1.9));
`)
	if len(errs) != 0 {
		t.Fatalf("unexpected lowering errors narrowing a float argument to an int parameter: %v", errs)
	}
}

// TestScopePushPopBalance is §8 law 2: a name declared inside a block is not
// visible after the block closes, but an outer name of the same identifier
// is unaffected by a shadowing inner declaration.
func TestScopePushPopBalance(t *testing.T) {
	_, errs := lowerSource(t, `
int x = 1;
{
    int x = 2;
    print(x);
}
print(x);
`)
	if len(errs) != 0 {
		t.Fatalf("unexpected lowering errors shadowing across a block: %v", errs)
	}
}

func TestUndeclaredNameAfterBlockCloses(t *testing.T) {
	_, errs := lowerSource(t, `
{
    int x = 2;
}
print(x);
`)
	if len(errs) == 0 {
		t.Fatalf("expected an undefined-name error referencing x outside its declaring block")
	}
	if errs[0].Code != lower.ErrUndefinedName {
		t.Fatalf("expected ErrUndefinedName, got %d", errs[0].Code)
	}
}

func TestRedeclarationWithinSameScopeIsRejected(t *testing.T) {
	_, errs := lowerSource(t, "int x = 1;\nint x = 2;\n")
	if len(errs) == 0 {
		t.Fatalf("expected a redeclaration error")
	}
	if errs[0].Code != lower.ErrRedeclared {
		t.Fatalf("expected ErrRedeclared, got %d", errs[0].Code)
	}
}

// TestTerminatorDiscipline is §8 law 3: every block in a lowered function
// ends in exactly one terminator, and a function whose every control path
// already returns is not double-terminated by the function-exit
// RetVoid synthesis.
func TestTerminatorDiscipline(t *testing.T) {
	mod, errs := lowerSource(t, `
function choose(int a, int b) -> int {
    if (a < b) {
        return a;
    } else {
        return b;
    }
}
print(choose(1, 2));
`)
	if len(errs) != 0 {
		t.Fatalf("unexpected lowering errors: %v", errs)
	}
	fn := findFunc(mod, "choose")
	if fn == nil {
		t.Fatalf("expected a lowered 'choose' function")
	}
	for bi, blk := range fn.Blocks {
		if len(blk.Instructions) == 0 {
			continue // an empty block can occur for a branch target never reached by fallthrough
		}
		last := blk.Instructions[len(blk.Instructions)-1]
		switch last.Op {
		case backend.OpRet, backend.OpRetVoid, backend.OpBr, backend.OpCondBr:
		default:
			t.Errorf("block %d does not end in a terminator: last op %s", bi, last.Op)
		}
	}
}

// TestMissingReturnOnSomePath is the corresponding negative case: a
// non-void function whose body can fall off the end without returning is
// rejected.
func TestMissingReturnOnSomePath(t *testing.T) {
	_, errs := lowerSource(t, `
function maybe(int a) -> int {
    if (a < 0) {
        return a;
    }
}
print(maybe(1));
`)
	if len(errs) == 0 {
		t.Fatalf("expected a missing-return error")
	}
	found := false
	for _, e := range errs {
		if e.Code == lower.ErrBadReturn {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ErrBadReturn among %v", errs)
	}
}

// TestReservedFunctionNamesRejected: "main" and "printf" are synthesized by
// the driver itself, so a user function declaring either name collides.
func TestReservedFunctionNamesRejected(t *testing.T) {
	for _, name := range []string{"main", "printf"} {
		_, errs := lowerSource(t, "function "+name+"() -> void { }\n")
		if len(errs) == 0 {
			t.Fatalf("expected a redeclaration error reusing reserved name %q", name)
		}
		if errs[0].Code != lower.ErrRedeclared {
			t.Fatalf("expected ErrRedeclared for %q, got %d", name, errs[0].Code)
		}
	}
}

func TestArrayInitializerLengthMismatchIsError(t *testing.T) {
	_, errs := lowerSource(t, "array int a[3] = {1, 2};\n")
	if len(errs) == 0 {
		t.Fatalf("expected an array-length mismatch error")
	}
	if errs[0].Code != lower.ErrArrayLength {
		t.Fatalf("expected ErrArrayLength, got %d", errs[0].Code)
	}
}

func TestForwardAndRecursiveCallsResolve(t *testing.T) {
	_, errs := lowerSource(t, `
print(fact(5));
function fact(int n) -> int {
    if (n < 2) {
        return 1;
    }
    return n * fact(n - 1);
}
`)
	if len(errs) != 0 {
		t.Fatalf("unexpected lowering errors on a forward and recursive call: %v", errs)
	}
}

func TestCallWithWrongArgCountIsError(t *testing.T) {
	_, errs := lowerSource(t, `
function add(int a, int b) -> int {
    return a + b;
}
print(add(1));
`)
	if len(errs) == 0 {
		t.Fatalf("expected an arg-count error")
	}
	if errs[0].Code != lower.ErrArgCount {
		t.Fatalf("expected ErrArgCount, got %d", errs[0].Code)
	}
}
