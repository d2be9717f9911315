// Package lower implements the lowering driver: it walks the typed AST
// (postorder for expressions, structured for statements, per spec.md
// §4.3) and emits backend IR through the abstract Builder seam, applying
// the coercion algebra of §4.3.2 at every site the algebra governs and
// maintaining the scope stack of §3.3.
//
// Grounded on the teacher's internal/bytecode.Compiler: a single-pass
// AST-walking emitter carrying locals/scope-depth/slot-allocation state in
// the same shape, generalized here to also apply a static coercion algebra
// the teacher's dynamically-typed Value model never needed.
package lower

import (
	"fmt"

	"github.com/mlang-dev/mlang/ast"
	"github.com/mlang-dev/mlang/backend"
	"github.com/mlang-dev/mlang/lexer"
)

// Driver lowers one parsed Program into one backend Module.
type Driver struct {
	b       backend.Builder
	scopes  scopeStack
	errors  []*LowerError
	funcs   map[string]backend.FuncHandle
	sigs    map[string]funcSig
	printfH backend.FuncHandle

	curFn      backend.FuncHandle
	curRet     backend.IRType
	terminated bool // true once the current block has a terminator (Br/CondBr/Ret/RetVoid)
}

// setInsertPoint moves the builder's cursor and marks the new block
// unterminated.
func (d *Driver) setInsertPoint(block backend.BlockHandle) {
	d.b.SetInsertPoint(block)
	d.terminated = false
}

func (d *Driver) emitBr(target backend.BlockHandle) {
	if d.terminated {
		return
	}
	d.b.Br(target)
	d.terminated = true
}

func (d *Driver) emitCondBr(cond backend.ValueHandle, then, els backend.BlockHandle) {
	d.b.CondBr(cond, then, els)
	d.terminated = true
}

func (d *Driver) emitRet(v backend.ValueHandle) {
	if d.terminated {
		return
	}
	d.b.Ret(v)
	d.terminated = true
}

func (d *Driver) emitRetVoid() {
	if d.terminated {
		return
	}
	d.b.RetVoid()
	d.terminated = true
}

// funcSig remembers a declared function's signature for call-site argument
// count and coercion checks; the Builder interface doesn't expose a query
// for an already-declared function's parameter types, so the driver tracks
// its own copy alongside the handle.
type funcSig struct {
	params []backend.IRType
	ret    backend.IRType
}

// NewDriver creates a lowering driver that emits into b.
func NewDriver(b backend.Builder) *Driver {
	return &Driver{b: b, funcs: make(map[string]backend.FuncHandle), sigs: make(map[string]funcSig)}
}

func (d *Driver) err(pos lexer.Position, code int, message string) error {
	e := &LowerError{Code: code, Message: message, Pos: pos}
	d.errors = append(d.errors, e)
	return e
}

// Errors returns every diagnostic accumulated during Lower.
func (d *Driver) Errors() []*LowerError { return d.errors }

// Lower runs the full two-pass lowering of program and returns the errors
// accumulated, if any. The module itself is available via the Builder the
// driver was constructed with (typically a *backend.Module).
func (d *Driver) Lower(program *ast.Program) []*LowerError {
	d.printfH = d.b.DeclareFunction("printf", []backend.IRType{backend.Str()}, backend.Void())

	// Pass 1: register every function's signature so forward and recursive
	// calls resolve regardless of declaration order.
	var funcDecls []*ast.FunctionDecl
	for _, stmt := range program.Declarations {
		fd, ok := stmt.(*ast.FunctionDecl)
		if !ok {
			continue
		}
		if fd.Prototype.Name == "main" || fd.Prototype.Name == "printf" {
			d.err(fd.Pos(), ErrRedeclared, fmt.Sprintf("%q is a reserved name", fd.Prototype.Name))
			continue
		}
		if _, exists := d.funcs[fd.Prototype.Name]; exists {
			d.err(fd.Pos(), ErrRedeclared, fmt.Sprintf("function %q redeclared", fd.Prototype.Name))
			continue
		}
		params := make([]backend.IRType, len(fd.Prototype.Params))
		for i, p := range fd.Prototype.Params {
			params[i] = irType(p.Type)
		}
		ret := irType(fd.Prototype.ReturnType)
		h := d.b.DeclareFunction(fd.Prototype.Name, params, ret)
		d.funcs[fd.Prototype.Name] = h
		d.sigs[fd.Prototype.Name] = funcSig{params: params, ret: ret}
		funcDecls = append(funcDecls, fd)
	}

	mainH := d.b.DeclareFunction("main", nil, backend.Void())
	d.funcs["main"] = mainH

	// Pass 2a: lower top-level statements (everything but function decls)
	// into the synthesized "main" entry function.
	d.b.Use(mainH)
	d.terminated = false
	d.curFn = mainH
	d.curRet = backend.Void()
	d.scopes.push()
	for _, stmt := range program.Declarations {
		if _, ok := stmt.(*ast.FunctionDecl); ok {
			continue
		}
		d.lowerStatement(stmt)
	}
	d.scopes.pop()
	d.emitRetVoid()

	// Pass 2b: lower each function body.
	for _, fd := range funcDecls {
		d.lowerFunctionBody(fd)
	}

	return d.errors
}

func (d *Driver) lowerFunctionBody(fd *ast.FunctionDecl) {
	h, ok := d.funcs[fd.Prototype.Name]
	if !ok {
		return
	}
	d.b.Use(h)
	d.terminated = false
	d.curFn = h
	d.curRet = irType(fd.Prototype.ReturnType)

	d.scopes.push()
	for i, p := range fd.Prototype.Params {
		ptyp := irType(p.Type)
		raw := d.b.Param(h, i)
		coerced, err := d.coerce(raw, ptyp, true, fd.Prototype.Pos())
		if err != nil {
			continue
		}
		slot := d.b.Alloca(ptyp)
		d.b.Store(slot, coerced)
		if !d.scopes.declare(p.Name, slot, ptyp) {
			d.err(fd.Prototype.Pos(), ErrRedeclared, fmt.Sprintf("parameter %q redeclared", p.Name))
		}
	}

	d.lowerStatement(fd.Body)
	d.scopes.pop()

	if !d.terminated {
		if d.curRet.Kind != backend.IRVoid {
			d.err(fd.Pos(), ErrBadReturn, fmt.Sprintf("function %q must return a value of type %s on every path", fd.Prototype.Name, d.curRet))
		}
		d.emitRetVoid()
	}
}
