// Package backend adapts the lowering driver's abstract Builder contract to
// a concrete execution engine. No LLVM or other JIT binding is available to
// build against here, so the adapter is grounded on the teacher's own
// bytecode engine instead: a per-function, per-block instruction stream
// executed by a small stack machine (§4.4). The lowering driver builds IR
// only through the Builder interface declared below (constructor-injected)
// and this package's IR type and handle definitions; it never touches Module
// or Engine directly, the same separation the teacher draws between its
// Compiler (emits ops) and VM (executes them).
package backend

import "fmt"

// IRTypeKind is the closed set of backend value shapes.
type IRTypeKind int

const (
	IRInt IRTypeKind = iota
	IRFloat
	IRPtr
	IRVoid
	IRArray
)

// IRType is a backend type: a signed integer of a given bit width, the
// single IEEE binary32 float type, a pointer (used for strings: pointer to
// 8-bit integer), void, or a fixed-size array of element type Elem.
type IRType struct {
	Kind  IRTypeKind
	Width int // bit width, meaningful for IRInt (1, 8, 32, 128)
	Elem  *IRType
	Len   int // element count, meaningful for IRArray
}

func I1() IRType   { return IRType{Kind: IRInt, Width: 1} }
func I8() IRType   { return IRType{Kind: IRInt, Width: 8} }
func I32() IRType  { return IRType{Kind: IRInt, Width: 32} }
func I128() IRType { return IRType{Kind: IRInt, Width: 128} }
func F32() IRType  { return IRType{Kind: IRFloat, Width: 32} }
func Str() IRType  { e := I8(); return IRType{Kind: IRPtr, Elem: &e} }
func Void() IRType { return IRType{Kind: IRVoid} }
func Array(elem IRType, n int) IRType {
	return IRType{Kind: IRArray, Elem: &elem, Len: n}
}

func (t IRType) String() string {
	switch t.Kind {
	case IRInt:
		return fmt.Sprintf("i%d", t.Width)
	case IRFloat:
		return "f32"
	case IRPtr:
		return "ptr"
	case IRVoid:
		return "void"
	case IRArray:
		return fmt.Sprintf("%s[%d]", t.Elem, t.Len)
	default:
		return "?"
	}
}

func (t IRType) Equal(other IRType) bool {
	if t.Kind != other.Kind || t.Width != other.Width || t.Len != other.Len {
		return false
	}
	if (t.Elem == nil) != (other.Elem == nil) {
		return false
	}
	if t.Elem != nil {
		return t.Elem.Equal(*other.Elem)
	}
	return true
}

// IROp names the dyadic arithmetic/bitwise operations BinOp accepts: the
// OpAddI..OpXorBits opcodes declared in opcode.go (integer division is
// signed). It is an alias of OpCode, so BinOp emits the opcode it is given.
// The integer/float variant is chosen by the lowering driver once it has
// applied the coercion algebra (§4.3.2), so each IROp already commits to
// one operand kind.
type IROp = OpCode

// IRCmp is the closed set of ordered comparison predicates.
type IRCmp int

const (
	CmpEQI IRCmp = iota
	CmpNEI
	CmpLTI
	CmpGTI
	CmpLEI
	CmpGEI
	CmpEQF
	CmpNEF
	CmpLTF
	CmpGTF
	CmpLEF
	CmpGEF
)

// FuncHandle, BlockHandle, and SlotHandle are opaque indices into a Module's
// function table, a function's block list, and a function's slot table
// respectively.
type FuncHandle int
type BlockHandle int

// SlotKind distinguishes a plain local storage slot from an array-element
// slot produced by GEP. An element slot defers its address computation to
// the runtime index value already sitting on the stack at the time Load or
// Store consumes it (see module.go).
type SlotKind int

const (
	SlotLocal SlotKind = iota
	SlotElement
)

type SlotHandle struct {
	Kind     SlotKind
	Index    int // local slot index, for both SlotLocal and the array base of SlotElement
	ElemType IRType
}

// ValueHandle is a typed, nominal reference to a value the stack machine has
// already pushed. It carries no runtime payload: the lowering driver always
// consumes a ValueHandle immediately after producing it, in the same strict
// postorder the stack machine itself evaluates in, so the type tag is all
// Builder needs to pick the right opcode on the next call.
type ValueHandle struct {
	Type IRType
}

// Builder is the abstract IR-construction capability the lowering driver
// depends on. The core never depends on a concrete backend.
type Builder interface {
	DeclareFunction(name string, params []IRType, ret IRType) FuncHandle
	// Use makes fn the current function for subsequent NewBlock/SetInsertPoint/
	// Alloca/Param calls, without re-declaring it. Needed because the driver
	// declares every function's signature in a first pass (so forward and
	// recursive calls resolve) before lowering any body in a second pass.
	Use(fn FuncHandle)
	SetInsertPoint(block BlockHandle)
	EntryBlock(fn FuncHandle) BlockHandle
	NewBlock(fn FuncHandle, label string) BlockHandle

	// Param yields the raw incoming value of fn's index'th parameter, for
	// the function-entry coerce-then-store sequence of §4.3.4.
	Param(fn FuncHandle, index int) ValueHandle

	Alloca(typ IRType) SlotHandle
	Load(slot SlotHandle, typ IRType) ValueHandle
	Store(slot SlotHandle, v ValueHandle)

	ConstInt(typ IRType, v int64) ValueHandle
	ConstFloat(v float32) ValueHandle
	ConstString(s string) ValueHandle

	SExt(v ValueHandle, to IRType) ValueHandle
	Trunc(v ValueHandle, to IRType) ValueHandle
	SIToFP(v ValueHandle, to IRType) ValueHandle
	FPToSI(v ValueHandle, to IRType) ValueHandle

	BinOp(op IROp, a, b ValueHandle) ValueHandle
	Cmp(op IRCmp, a, b ValueHandle) ValueHandle

	Call(fn FuncHandle, args []ValueHandle) ValueHandle
	GEP(base SlotHandle, index ValueHandle) SlotHandle

	Br(target BlockHandle)
	CondBr(cond ValueHandle, then, els BlockHandle)
	Ret(v ValueHandle)
	RetVoid()
}
