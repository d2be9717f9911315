package lower

import (
	"fmt"

	"github.com/mlang-dev/mlang/backend"
	"github.com/mlang-dev/mlang/lexer"
)

// unify applies coercion rules 1-4 and 7 to bring two operands to a common
// IR type: equal types pass through, an int/float pair converts the integer
// side to float, and two integers of different width sign-extend the
// narrower to the wider. Any other pairing (e.g. a pointer with an
// arithmetic operand) is rule 7's catch-all type error.
func (d *Driver) unify(a, b backend.ValueHandle, pos lexer.Position) (backend.ValueHandle, backend.ValueHandle, error) {
	if a.Type.Equal(b.Type) {
		return a, b, nil
	}
	// b sits above a on the stack, so converting a parks b in a temporary
	// slot, converts a, and reloads b on top.
	convertLeft := func(conv func(backend.ValueHandle, backend.IRType) backend.ValueHandle) (backend.ValueHandle, backend.ValueHandle, error) {
		tmp := d.b.Alloca(b.Type)
		d.b.Store(tmp, b)
		ca := conv(a, b.Type)
		return ca, d.b.Load(tmp, b.Type), nil
	}
	switch {
	case a.Type.Kind == backend.IRInt && b.Type.Kind == backend.IRFloat:
		return convertLeft(d.b.SIToFP)
	case a.Type.Kind == backend.IRFloat && b.Type.Kind == backend.IRInt:
		return a, d.b.SIToFP(b, a.Type), nil
	case a.Type.Kind == backend.IRInt && b.Type.Kind == backend.IRInt:
		if a.Type.Width < b.Type.Width {
			return convertLeft(d.b.SExt)
		}
		return a, d.b.SExt(b, a.Type), nil
	default:
		return a, b, d.err(pos, ErrTypeMismatch, fmt.Sprintf("incompatible operand types %s and %s", a.Type, b.Type))
	}
}

// coerce brings v to target. General sites (variable initializers; array
// element initializers are stored without coercion) only allow the widening half of the algebra (rules 1-4);
// call-argument and return-value sites pass allowNarrow=true to additionally
// permit rule 5's truncation and float-to-signed-int narrowing.
func (d *Driver) coerce(v backend.ValueHandle, target backend.IRType, allowNarrow bool, pos lexer.Position) (backend.ValueHandle, error) {
	if v.Type.Equal(target) {
		return v, nil
	}
	switch {
	case v.Type.Kind == backend.IRInt && target.Kind == backend.IRFloat:
		return d.b.SIToFP(v, target), nil
	case v.Type.Kind == backend.IRFloat && target.Kind == backend.IRInt:
		if !allowNarrow {
			return v, d.err(pos, ErrTypeMismatch, fmt.Sprintf("cannot assign %s to %s without narrowing", v.Type, target))
		}
		return d.b.FPToSI(v, target), nil
	case v.Type.Kind == backend.IRInt && target.Kind == backend.IRInt:
		if v.Type.Width < target.Width {
			return d.b.SExt(v, target), nil
		}
		if !allowNarrow {
			return v, d.err(pos, ErrTypeMismatch, fmt.Sprintf("cannot assign %s to %s without narrowing", v.Type, target))
		}
		return d.b.Trunc(v, target), nil
	default:
		return v, d.err(pos, ErrTypeMismatch, fmt.Sprintf("incompatible types %s and %s", v.Type, target))
	}
}

// normalizeToBool coerces an integer condition value to a 1-bit value by
// comparing against zero when it isn't already i1. Floats are rejected by
// the caller before this is reached (while/for conditions) or are rejected
// here directly (§4.3.4's conditional normalization only ever receives an
// integer-typed comparison/logical result in practice, but defend anyway).
func (d *Driver) normalizeToBool(v backend.ValueHandle, pos lexer.Position) (backend.ValueHandle, error) {
	if v.Type.Kind != backend.IRInt {
		return v, d.err(pos, ErrTypeMismatch, "condition must be an integer or boolean value")
	}
	if v.Type.Width == 1 {
		return v, nil
	}
	zero := d.b.ConstInt(v.Type, 0)
	return d.b.Cmp(backend.CmpNEI, v, zero), nil
}
