package backend_test

import (
	"testing"

	"github.com/mlang-dev/mlang/backend"
)

// TestTruncateResignsNarrowedValue exercises Trunc's two's-complement
// narrowing: a 32-bit value whose low 8 bits form a negative i8 pattern
// must come back negative, not as the unsigned low byte.
func TestTruncateResignsNarrowedValue(t *testing.T) {
	m := backend.NewModule()
	m.DeclareFunction("f", nil, backend.I8())
	c := m.ConstInt(backend.I32(), 200) // low byte 0xC8 -> -56 as a signed i8
	r := m.Trunc(c, backend.I8())
	m.Ret(r)

	e := backend.NewEngine(m)
	v, err := e.Invoke("f", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.I.Int64() != -56 {
		t.Fatalf("expected -56, got %s", v.I.String())
	}
}

func TestSExtPreservesValue(t *testing.T) {
	m := backend.NewModule()
	m.DeclareFunction("f", nil, backend.I32())
	c := m.ConstInt(backend.I8(), -5)
	r := m.SExt(c, backend.I32())
	m.Ret(r)

	e := backend.NewEngine(m)
	v, err := e.Invoke("f", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.I.Int64() != -5 {
		t.Fatalf("expected -5, got %s", v.I.String())
	}
}

// TestBitwiseNotIsXorWithMinusOne is the open-question resolution that `!`
// lowers to a two's-complement bitwise-not, modeled as XOR with -1.
func TestBitwiseNotIsXorWithMinusOne(t *testing.T) {
	m := backend.NewModule()
	m.DeclareFunction("f", nil, backend.I32())
	c := m.ConstInt(backend.I32(), 0)
	negOne := m.ConstInt(backend.I32(), -1)
	r := m.BinOp(backend.OpXorBits, c, negOne)
	m.Ret(r)

	e := backend.NewEngine(m)
	v, err := e.Invoke("f", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.I.Int64() != -1 {
		t.Fatalf("expected ~0 == -1, got %s", v.I.String())
	}
}

func TestIntegerDivisionByZeroIsRuntimeError(t *testing.T) {
	m := backend.NewModule()
	m.DeclareFunction("f", nil, backend.I32())
	a := m.ConstInt(backend.I32(), 1)
	zero := m.ConstInt(backend.I32(), 0)
	r := m.BinOp(backend.OpDivI, a, zero)
	m.Ret(r)

	e := backend.NewEngine(m)
	if _, err := e.Invoke("f", nil); err == nil {
		t.Fatalf("expected a division-by-zero runtime error")
	}
}

// TestArrayAccessOutOfBoundsIsRuntimeError exercises OpArrayGet's bounds
// check with an out-of-range Load.
func TestArrayAccessOutOfBoundsIsRuntimeError(t *testing.T) {
	m := backend.NewModule()
	m.DeclareFunction("f", nil, backend.I32())
	arrType := backend.Array(backend.I32(), 3)
	slot := m.Alloca(arrType)
	idx := m.ConstInt(backend.I32(), 5)
	elemSlot := m.GEP(slot, idx)
	r := m.Load(elemSlot, backend.I32())
	m.Ret(r)

	e := backend.NewEngine(m)
	if _, err := e.Invoke("f", nil); err == nil {
		t.Fatalf("expected an out-of-bounds runtime error")
	}
}

func TestArrayGetSetRoundTrip(t *testing.T) {
	m := backend.NewModule()
	m.DeclareFunction("f", nil, backend.I32())
	arrType := backend.Array(backend.I32(), 3)
	slot := m.Alloca(arrType)

	// value is pushed before the index, per the Store(SlotElement) contract.
	value := m.ConstInt(backend.I32(), 99)
	one := m.ConstInt(backend.I32(), 1)
	elemSlot := m.GEP(slot, one)
	m.Store(elemSlot, value)

	readBack := m.Load(m.GEP(slot, m.ConstInt(backend.I32(), 1)), backend.I32())
	m.Ret(readBack)

	e := backend.NewEngine(m)
	v, err := e.Invoke("f", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.I.Int64() != 99 {
		t.Fatalf("expected 99, got %s", v.I.String())
	}
}

// TestRecursiveCall exercises Call against a function that calls itself,
// confirming each invocation gets its own call frame.
func TestRecursiveCall(t *testing.T) {
	m := backend.NewModule()
	fact := m.DeclareFunction("fact", []backend.IRType{backend.I32()}, backend.I32())

	// Every ValueHandle is only stack-backed by the instruction that
	// produced it; a value consumed by one instruction (here, the Cmp) is
	// gone from the stack afterward and must be re-emitted (a fresh
	// Param/ConstInt call) wherever it is needed again.
	n := m.Param(fact, 0)
	one := m.ConstInt(backend.I32(), 1)
	cond := m.Cmp(backend.CmpLEI, n, one)

	thenBlk := m.NewBlock(fact, "then")
	elseBlk := m.NewBlock(fact, "else")
	m.CondBr(cond, thenBlk, elseBlk)

	m.SetInsertPoint(thenBlk)
	m.Ret(m.ConstInt(backend.I32(), 1))

	m.SetInsertPoint(elseBlk)
	n2 := m.Param(fact, 0)
	one2 := m.ConstInt(backend.I32(), 1)
	nMinusOne := m.BinOp(backend.OpSubI, n2, one2)
	recurse := m.Call(fact, []backend.ValueHandle{nMinusOne})
	n3 := m.Param(fact, 0)
	m.Ret(m.BinOp(backend.OpMulI, n3, recurse))

	m.DeclareFunction("run", nil, backend.I32())
	five := m.ConstInt(backend.I32(), 5)
	m.Ret(m.Call(fact, []backend.ValueHandle{five}))

	e := backend.NewEngine(m)
	v, err := e.Invoke("run", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.I.Int64() != 120 {
		t.Fatalf("expected 5! == 120, got %s", v.I.String())
	}
}
