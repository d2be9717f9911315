package lower

import (
	"fmt"

	"github.com/mlang-dev/mlang/ast"
	"github.com/mlang-dev/mlang/backend"
)

// lowerExpression dispatches on the concrete expression node and returns the
// IR value it lowers to. Operands are always lowered before the operation
// that consumes them (strict postorder), matching the stack machine's
// evaluation order one-to-one.
func (d *Driver) lowerExpression(e ast.Expression) backend.ValueHandle {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		return d.b.ConstInt(backend.I32(), n.Value)
	case *ast.FloatLiteral:
		return d.b.ConstFloat(float32(n.Value))
	case *ast.StringLiteral:
		return d.b.ConstString(n.Value)
	case *ast.BooleanLiteral:
		v := int64(0)
		if n.Value {
			v = 1
		}
		return d.b.ConstInt(backend.I1(), v)
	case *ast.CharacterLiteral:
		return d.b.ConstInt(backend.I8(), int64(n.Value))
	case *ast.Identifier:
		return d.lowerIdentifier(n)
	case *ast.UnaryExpression:
		return d.lowerUnary(n)
	case *ast.BinaryExpression:
		return d.lowerBinary(n)
	case *ast.ComparisonExpression:
		return d.lowerComparison(n)
	case *ast.CallExpression:
		return d.lowerCall(n)
	case *ast.ArrayAccessExpression:
		slot, elemType := d.lowerArraySlot(n)
		return d.b.Load(slot, elemType)
	case *ast.AssignmentExpression:
		return d.lowerAssignment(n)
	default:
		d.err(e.Pos(), ErrTypeMismatch, fmt.Sprintf("unsupported expression %T", e))
		return backend.ValueHandle{Type: backend.Void()}
	}
}

func (d *Driver) lowerIdentifier(n *ast.Identifier) backend.ValueHandle {
	b, ok := d.scopes.lookup(n.Name)
	if !ok {
		d.err(n.Pos(), ErrUndefinedName, fmt.Sprintf("undefined name %q", n.Name))
		return backend.ValueHandle{Type: backend.Void()}
	}
	return d.b.Load(b.slot, b.typ)
}

func (d *Driver) lowerUnary(n *ast.UnaryExpression) backend.ValueHandle {
	v := d.lowerExpression(n.Operand)
	switch n.Op {
	case ast.UnaryNeg:
		// v is already on the stack, so negate it as v * -1.
		if v.Type.Kind == backend.IRFloat {
			negOne := d.b.ConstFloat(-1)
			return d.b.BinOp(backend.OpMulF, v, negOne)
		}
		negOne := d.b.ConstInt(v.Type, -1)
		return d.b.BinOp(backend.OpMulI, v, negOne)
	case ast.UnaryNot:
		// Bitwise-not, per the open-question resolution (§9): `!` is not
		// logical negation here. ~x == x XOR -1 under two's complement,
		// for any integer width.
		if v.Type.Kind != backend.IRInt {
			d.err(n.Pos(), ErrTypeMismatch, "operand of ! must be an integer")
			return v
		}
		negOne := d.b.ConstInt(v.Type, -1)
		return d.b.BinOp(backend.OpXorBits, v, negOne)
	default:
		d.err(n.Pos(), ErrTypeMismatch, "unknown unary operator")
		return v
	}
}

var bitwiseBinOps = map[ast.BinaryOp]backend.IROp{
	ast.OpAnd:    backend.OpAndBits,
	ast.OpOr:     backend.OpOrBits,
	ast.OpBitAnd: backend.OpAndBits,
	ast.OpBitOr:  backend.OpOrBits,
	ast.OpBitXor: backend.OpXorBits,
}

var arithIntOps = map[ast.BinaryOp]backend.IROp{
	ast.OpAdd: backend.OpAddI,
	ast.OpSub: backend.OpSubI,
	ast.OpMul: backend.OpMulI,
	ast.OpDiv: backend.OpDivI,
	ast.OpMod: backend.OpModI,
}

var arithFloatOps = map[ast.BinaryOp]backend.IROp{
	ast.OpAdd: backend.OpAddF,
	ast.OpSub: backend.OpSubF,
	ast.OpMul: backend.OpMulF,
	ast.OpDiv: backend.OpDivF,
}

func (d *Driver) lowerBinary(n *ast.BinaryExpression) backend.ValueHandle {
	left := d.lowerExpression(n.Left)
	right := d.lowerExpression(n.Right)

	if op, ok := bitwiseBinOps[n.Op]; ok {
		if left.Type.Kind == backend.IRFloat || right.Type.Kind == backend.IRFloat {
			d.err(n.Pos(), ErrTypeMismatch, "logical/bitwise operators reject floating-point operands")
			return left
		}
		l, r, err := d.unify(left, right, n.Pos())
		if err != nil {
			return l
		}
		return d.b.BinOp(op, l, r)
	}

	l, r, err := d.unify(left, right, n.Pos())
	if err != nil {
		return l
	}
	if l.Type.Kind == backend.IRFloat {
		op, ok := arithFloatOps[n.Op]
		if !ok {
			d.err(n.Pos(), ErrTypeMismatch, "modulo requires integer operands")
			return l
		}
		return d.b.BinOp(op, l, r)
	}
	op, ok := arithIntOps[n.Op]
	if !ok {
		d.err(n.Pos(), ErrTypeMismatch, "unsupported arithmetic operator")
		return l
	}
	return d.b.BinOp(op, l, r)
}

var intCmpOps = map[ast.CompareOp]backend.IRCmp{
	ast.CmpEq: backend.CmpEQI, ast.CmpNe: backend.CmpNEI,
	ast.CmpGt: backend.CmpGTI, ast.CmpGe: backend.CmpGEI,
	ast.CmpLt: backend.CmpLTI, ast.CmpLe: backend.CmpLEI,
}

var floatCmpOps = map[ast.CompareOp]backend.IRCmp{
	ast.CmpEq: backend.CmpEQF, ast.CmpNe: backend.CmpNEF,
	ast.CmpGt: backend.CmpGTF, ast.CmpGe: backend.CmpGEF,
	ast.CmpLt: backend.CmpLTF, ast.CmpLe: backend.CmpLEF,
}

func (d *Driver) lowerComparison(n *ast.ComparisonExpression) backend.ValueHandle {
	left := d.lowerExpression(n.Left)
	right := d.lowerExpression(n.Right)
	l, r, err := d.unify(left, right, n.Pos())
	if err != nil {
		return backend.ValueHandle{Type: backend.I1()}
	}
	if l.Type.Kind == backend.IRFloat {
		return d.b.Cmp(floatCmpOps[n.Op], l, r)
	}
	return d.b.Cmp(intCmpOps[n.Op], l, r)
}

func (d *Driver) lowerCall(n *ast.CallExpression) backend.ValueHandle {
	h, ok := d.funcs[n.Function]
	if !ok {
		d.err(n.Pos(), ErrUndefinedName, fmt.Sprintf("undefined function %q", n.Function))
		return backend.ValueHandle{Type: backend.Void()}
	}
	sig := d.sigs[n.Function]
	if len(n.Args) != len(sig.params) {
		d.err(n.Pos(), ErrArgCount, fmt.Sprintf("%q expects %d argument(s), got %d", n.Function, len(sig.params), len(n.Args)))
	}
	args := make([]backend.ValueHandle, 0, len(n.Args))
	for i, argExpr := range n.Args {
		v := d.lowerExpression(argExpr)
		if i < len(sig.params) {
			coerced, err := d.coerce(v, sig.params[i], true, argExpr.Pos())
			if err == nil {
				v = coerced
			}
		}
		args = append(args, v)
	}
	return d.b.Call(h, args)
}

// lowerArraySlot lowers the index expression and packages the element slot,
// used by both the read path (lowerExpression) and the assignment path.
func (d *Driver) lowerArraySlot(n *ast.ArrayAccessExpression) (backend.SlotHandle, backend.IRType) {
	ident, ok := n.Array.(*ast.Identifier)
	if !ok {
		d.err(n.Pos(), ErrNotArray, "array access target must be an identifier")
		return backend.SlotHandle{}, backend.Void()
	}
	b, ok := d.scopes.lookup(ident.Name)
	if !ok {
		d.err(n.Pos(), ErrUndefinedName, fmt.Sprintf("undefined name %q", ident.Name))
		return backend.SlotHandle{}, backend.Void()
	}
	if b.typ.Kind != backend.IRArray {
		d.err(n.Pos(), ErrNotArray, fmt.Sprintf("%q is not an array", ident.Name))
		return backend.SlotHandle{}, backend.Void()
	}
	index := d.lowerExpression(n.Index)
	slot := d.b.GEP(b.slot, index)
	return slot, *b.typ.Elem
}

func (d *Driver) lowerAssignment(n *ast.AssignmentExpression) backend.ValueHandle {
	switch target := n.Target.(type) {
	case *ast.Identifier:
		b, ok := d.scopes.lookup(target.Name)
		if !ok {
			d.err(target.Pos(), ErrUndefinedName, fmt.Sprintf("undefined name %q", target.Name))
			return d.lowerExpression(n.Value)
		}
		// Rule 4.3.3: the right-hand side is not coerced to the target's
		// type before the store (an intentionally carried-over looseness).
		v := d.lowerExpression(n.Value)
		d.b.Store(b.slot, v)
		return v
	case *ast.ArrayAccessExpression:
		ident, ok := target.Array.(*ast.Identifier)
		if !ok {
			d.err(target.Pos(), ErrNotArray, "array access target must be an identifier")
			return d.lowerExpression(n.Value)
		}
		b, ok := d.scopes.lookup(ident.Name)
		if !ok {
			d.err(target.Pos(), ErrUndefinedName, fmt.Sprintf("undefined name %q", ident.Name))
			return d.lowerExpression(n.Value)
		}
		if b.typ.Kind != backend.IRArray {
			d.err(target.Pos(), ErrNotArray, fmt.Sprintf("%q is not an array", ident.Name))
			return d.lowerExpression(n.Value)
		}
		// Value is pushed before the index, per module.go's Store(SlotElement)
		// contract: the runtime stack must hold [..., value, index] when the
		// store opcode executes.
		v := d.lowerExpression(n.Value)
		index := d.lowerExpression(target.Index)
		slot := d.b.GEP(b.slot, index)
		d.b.Store(slot, v)
		return v
	default:
		d.err(n.Pos(), ErrBadAssignTarget, "invalid assignment target")
		return d.lowerExpression(n.Value)
	}
}
