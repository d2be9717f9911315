package lower

import (
	"github.com/mlang-dev/mlang/ast"
	"github.com/mlang-dev/mlang/backend"
)

// irType maps a surface ast.Type to its IR counterpart (§4.3.1).
func irType(t *ast.Type) backend.IRType {
	if t == nil {
		return backend.Void()
	}
	switch t.Kind {
	case ast.IntType:
		return backend.I32()
	case ast.BigIntType:
		return backend.I128()
	case ast.FloatType:
		return backend.F32()
	case ast.CharType:
		return backend.I8()
	case ast.BoolType:
		return backend.I1()
	case ast.StringType:
		return backend.Str()
	case ast.VoidType:
		return backend.Void()
	case ast.ArrayKind:
		elem := irType(t.Elem)
		return backend.Array(elem, t.Len)
	default:
		return backend.Void()
	}
}
