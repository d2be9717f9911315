package lower

import (
	"fmt"

	"github.com/mlang-dev/mlang/ast"
	"github.com/mlang-dev/mlang/backend"
)

// lowerStatement dispatches on the concrete statement node. Once the current
// block has a terminator, any further statements in the same list are
// unreachable and are skipped rather than appended past the terminator.
func (d *Driver) lowerStatement(s ast.Statement) {
	if d.terminated {
		return
	}
	switch n := s.(type) {
	case *ast.ExpressionStatement:
		d.lowerExpression(n.Expr)
	case *ast.VarDeclStatement:
		d.lowerVarDecl(n)
	case *ast.ArrayDeclStatement:
		d.lowerArrayDecl(n)
	case *ast.PrintStatement:
		d.lowerPrint(n)
	case *ast.BlockStatement:
		d.lowerBlock(n)
	case *ast.IfStatement:
		d.lowerIf(n)
	case *ast.WhileStatement:
		d.lowerWhile(n)
	case *ast.ForStatement:
		d.lowerFor(n)
	case *ast.ReturnStatement:
		d.lowerReturn(n)
	case *ast.FunctionDecl:
		// Function bodies are lowered in pass 2b of Lower, never nested.
	default:
		d.err(s.Pos(), ErrTypeMismatch, fmt.Sprintf("unsupported statement %T", s))
	}
}

func (d *Driver) lowerVarDecl(n *ast.VarDeclStatement) {
	typ := irType(n.Type)
	slot := d.b.Alloca(typ)
	if n.Initializer != nil {
		v := d.lowerExpression(n.Initializer)
		coerced, err := d.coerce(v, typ, false, n.Initializer.Pos())
		if err == nil {
			v = coerced
		}
		d.b.Store(slot, v)
	}
	if !d.scopes.declare(n.Name, slot, typ) {
		d.err(n.Pos(), ErrRedeclared, fmt.Sprintf("%q redeclared in this scope", n.Name))
	}
}

func (d *Driver) lowerArrayDecl(n *ast.ArrayDeclStatement) {
	elemType := irType(n.ElemType)
	arrType := backend.Array(elemType, n.Size)
	slot := d.b.Alloca(arrType)

	if n.Initializers != nil {
		if len(n.Initializers) != n.Size {
			d.err(n.Pos(), ErrArrayLength, fmt.Sprintf("array %q declared with size %d but %d initializer(s)", n.Name, n.Size, len(n.Initializers)))
		}
		for i, elemExpr := range n.Initializers {
			// No per-element coercion is performed (§4.3.4 open question).
			v := d.lowerExpression(elemExpr)
			idx := d.b.ConstInt(backend.I32(), int64(i))
			elemSlot := d.b.GEP(slot, idx)
			d.b.Store(elemSlot, v)
		}
	}

	if !d.scopes.declare(n.Name, slot, arrType) {
		d.err(n.Pos(), ErrRedeclared, fmt.Sprintf("%q redeclared in this scope", n.Name))
	}
}

var printFormats = map[backend.IRTypeKind]map[int]string{
	backend.IRInt: {1: "%d\n", 8: "%c\n", 32: "%d\n", 128: "%lld\n"},
}

func (d *Driver) lowerPrint(n *ast.PrintStatement) {
	v := d.lowerExpression(n.Value)

	var format string
	switch v.Type.Kind {
	case backend.IRInt:
		format = printFormats[backend.IRInt][v.Type.Width]
	case backend.IRFloat:
		format = "%f\n"
	case backend.IRPtr:
		format = "%s\n"
	}
	if format == "" {
		d.err(n.Pos(), ErrTypeMismatch, fmt.Sprintf("cannot print a value of type %s", v.Type))
		return
	}

	// printf takes the format first, so park v while the format is pushed
	// beneath it.
	tmp := d.b.Alloca(v.Type)
	d.b.Store(tmp, v)
	fmtVal := d.b.ConstString(format)
	v = d.b.Load(tmp, v.Type)
	d.b.Call(d.printfH, []backend.ValueHandle{fmtVal, v})
}

func (d *Driver) lowerBlock(n *ast.BlockStatement) {
	d.scopes.push()
	for _, stmt := range n.Statements {
		d.lowerStatement(stmt)
	}
	d.scopes.pop()
}

func (d *Driver) lowerIf(n *ast.IfStatement) {
	cond := d.lowerExpression(n.Condition)
	cond, err := d.normalizeToBool(cond, n.Condition.Pos())
	if err != nil {
		return
	}

	thenBlk := d.b.NewBlock(d.curFn, "if.then")
	elseBlk := d.b.NewBlock(d.curFn, "if.else")
	mergeBlk := d.b.NewBlock(d.curFn, "if.merge")

	d.emitCondBr(cond, thenBlk, elseBlk)

	d.setInsertPoint(thenBlk)
	d.lowerStatement(n.Then)
	thenFallsThrough := !d.terminated
	d.emitBr(mergeBlk)

	d.setInsertPoint(elseBlk)
	if n.Else != nil {
		d.lowerStatement(n.Else)
	}
	elseFallsThrough := !d.terminated
	d.emitBr(mergeBlk)

	d.setInsertPoint(mergeBlk)
	// merge is unreachable, and so already "terminated" for the purposes of
	// the enclosing function's missing-return check, only when neither arm
	// falls through to it (e.g. `if (...) return a; else return b;`).
	d.terminated = !thenFallsThrough && !elseFallsThrough
}

func (d *Driver) lowerWhile(n *ast.WhileStatement) {
	condBlk := d.b.NewBlock(d.curFn, "while.cond")
	bodyBlk := d.b.NewBlock(d.curFn, "while.body")
	endBlk := d.b.NewBlock(d.curFn, "while.end")

	d.emitBr(condBlk)
	d.setInsertPoint(condBlk)
	cond := d.lowerExpression(n.Condition)
	if cond.Type.Kind == backend.IRFloat {
		d.err(n.Condition.Pos(), ErrTypeMismatch, "while condition rejects a floating-point value")
		return
	}
	cond, err := d.normalizeToBool(cond, n.Condition.Pos())
	if err != nil {
		return
	}
	d.emitCondBr(cond, bodyBlk, endBlk)

	d.setInsertPoint(bodyBlk)
	d.lowerStatement(n.Body)
	d.emitBr(condBlk)

	d.setInsertPoint(endBlk)
}

func (d *Driver) lowerFor(n *ast.ForStatement) {
	if n.Init != nil {
		d.lowerStatement(n.Init)
	}

	condBlk := d.b.NewBlock(d.curFn, "for.cond")
	bodyBlk := d.b.NewBlock(d.curFn, "for.body")
	endBlk := d.b.NewBlock(d.curFn, "for.end")

	d.emitBr(condBlk)
	d.setInsertPoint(condBlk)
	if n.Condition != nil {
		cond := d.lowerExpression(n.Condition)
		if cond.Type.Kind == backend.IRFloat {
			d.err(n.Condition.Pos(), ErrTypeMismatch, "for condition rejects a floating-point value")
			return
		}
		cond, err := d.normalizeToBool(cond, n.Condition.Pos())
		if err != nil {
			return
		}
		d.emitCondBr(cond, bodyBlk, endBlk)
	} else {
		d.emitBr(bodyBlk)
	}

	d.setInsertPoint(bodyBlk)
	d.lowerStatement(n.Body)
	if n.Update != nil {
		d.lowerExpression(n.Update)
	}
	d.emitBr(condBlk)

	d.setInsertPoint(endBlk)
}

func (d *Driver) lowerReturn(n *ast.ReturnStatement) {
	if n.Value == nil {
		if d.curRet.Kind != backend.IRVoid {
			d.err(n.Pos(), ErrBadReturn, fmt.Sprintf("function must return a value of type %s", d.curRet))
		}
		d.emitRetVoid()
		return
	}
	v := d.lowerExpression(n.Value)
	coerced, err := d.coerce(v, d.curRet, true, n.Value.Pos())
	if err != nil {
		return
	}
	d.emitRet(coerced)
}
