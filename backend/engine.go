package backend

import (
	"fmt"
	"io"
	"math/big"
	"strings"
)

// ValueKind tags a runtime Value the same way IRTypeKind tags a static type.
type ValueKind int

const (
	vInt ValueKind = iota
	vFloat
	vStr
	vArray
)

// Value is the engine's runtime value representation. Integers are held in a
// big.Int regardless of declared width so that the 128-bit bigint type (the
// one minilang scalar with no native Go integer counterpart) needs no special
// casing; SExt only retags the width, and Trunc masks to Width bits and
// re-signs.
type Value struct {
	Kind  ValueKind
	Width int
	I     *big.Int
	F     float32
	S     string
	Arr   []Value
}

func intValue(width int, v int64) Value {
	return Value{Kind: vInt, Width: width, I: big.NewInt(v)}
}

func zeroValue(t IRType) Value {
	switch t.Kind {
	case IRInt:
		return intValue(t.Width, 0)
	case IRFloat:
		return Value{Kind: vFloat}
	case IRPtr:
		return Value{Kind: vStr}
	case IRArray:
		arr := make([]Value, t.Len)
		for i := range arr {
			arr[i] = zeroValue(*t.Elem)
		}
		return Value{Kind: vArray, Arr: arr}
	default:
		return Value{}
	}
}

// RuntimeError wraps an engine-detected failure (stack underflow, bad
// opcode operand) the same way the teacher's VM wraps its own.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string { return "engine: " + e.Message }

// HostFunc is a function implemented in Go and resolved by name rather than
// by executing a Module function's own blocks, mirroring how a JIT resolves
// an external symbol against the host process (§6.3).
type HostFunc func(args []Value) (Value, error)

type callFrame struct {
	fn     *Function
	block  int
	ip     int
	locals []Value
	args   []Value
}

// Engine executes a compiled Module: a stack machine with one call frame per
// active function invocation, grounded on the teacher's VM.Run loop but
// walking block-addressed instruction lists instead of a single flat stream.
type Engine struct {
	module *Module
	stack  []Value
	frames []callFrame
	hosts  map[string]HostFunc
}

// NewEngine creates an Engine bound to module.
func NewEngine(module *Module) *Engine {
	return &Engine{module: module, hosts: make(map[string]HostFunc)}
}

// RegisterHostFunc binds name to an externally-implemented function. A Call
// to a Module function declared with this name never executes that
// function's (empty) block list — it dispatches straight to fn instead.
func (e *Engine) RegisterHostFunc(name string, fn HostFunc) {
	e.hosts[name] = fn
}

func (e *Engine) push(v Value) { e.stack = append(e.stack, v) }

func (e *Engine) pop() (Value, error) {
	if len(e.stack) == 0 {
		return Value{}, &RuntimeError{"stack underflow"}
	}
	v := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return v, nil
}

func (e *Engine) popArgs(n int) ([]Value, error) {
	if len(e.stack) < n {
		return nil, &RuntimeError{"stack underflow collecting call arguments"}
	}
	args := make([]Value, n)
	copy(args, e.stack[len(e.stack)-n:])
	e.stack = e.stack[:len(e.stack)-n]
	return args, nil
}

// Lookup resolves a declared function by name, for use by Invoke or a host's
// own recursive calls back into the module.
func (e *Engine) Lookup(name string) (FuncHandle, bool) {
	for i, fn := range e.module.Functions {
		if fn.Name == name {
			return FuncHandle(i), true
		}
	}
	return 0, false
}

// Invoke calls a declared function by name with already-converted runtime
// arguments and returns its result (the zero Value for a void function).
func (e *Engine) Invoke(name string, args []Value) (Value, error) {
	h, ok := e.Lookup(name)
	if !ok {
		return Value{}, &RuntimeError{fmt.Sprintf("undefined function %q", name)}
	}
	return e.call(h, args)
}

// Run invokes the module's synthesized entry function (conventionally named
// "main"), which wraps the program's top-level statements.
func (e *Engine) Run() error {
	_, err := e.Invoke("main", nil)
	return err
}

func (e *Engine) call(h FuncHandle, args []Value) (Value, error) {
	fn := e.module.Functions[h]
	if host, ok := e.hosts[fn.Name]; ok {
		return host(args)
	}

	locals := make([]Value, len(fn.Locals))
	for i, t := range fn.Locals {
		locals[i] = zeroValue(t)
	}
	e.frames = append(e.frames, callFrame{fn: fn, block: 0, locals: locals, args: args})

	ret, err := e.runFrame()

	e.frames = e.frames[:len(e.frames)-1]
	return ret, err
}

// runFrame executes the current (topmost) call frame to completion, i.e.
// until a Ret/RetVoid terminates it, and returns its result.
func (e *Engine) runFrame() (Value, error) {
	frame := &e.frames[len(e.frames)-1]

	for {
		block := frame.fn.Blocks[frame.block]
		if frame.ip >= len(block.Instructions) {
			return Value{}, &RuntimeError{fmt.Sprintf("block %q fell off the end without a terminator", block.Label)}
		}
		inst := block.Instructions[frame.ip]
		frame.ip++

		switch inst.Op {
		case OpConstInt:
			c := e.module.Constants[inst.A]
			e.push(intValue(c.Width, c.I))
		case OpConstFloat:
			c := e.module.Constants[inst.A]
			e.push(Value{Kind: vFloat, F: c.F})
		case OpConstStr:
			c := e.module.Constants[inst.A]
			e.push(Value{Kind: vStr, S: c.S})

		case OpLoadParam:
			e.push(frame.args[inst.A])
		case OpLoadLocal:
			e.push(frame.locals[inst.A])
		case OpStoreLocal:
			v, err := e.pop()
			if err != nil {
				return Value{}, err
			}
			frame.locals[inst.A] = v

		case OpArrayGet:
			idx, err := e.pop()
			if err != nil {
				return Value{}, err
			}
			arr := frame.locals[inst.A].Arr
			i := int(idx.I.Int64())
			if i < 0 || i >= len(arr) {
				return Value{}, &RuntimeError{fmt.Sprintf("array index %d out of range (len %d)", i, len(arr))}
			}
			e.push(arr[i])
		case OpArraySet:
			idx, err := e.pop()
			if err != nil {
				return Value{}, err
			}
			val, err := e.pop()
			if err != nil {
				return Value{}, err
			}
			arr := frame.locals[inst.A].Arr
			i := int(idx.I.Int64())
			if i < 0 || i >= len(arr) {
				return Value{}, &RuntimeError{fmt.Sprintf("array index %d out of range (len %d)", i, len(arr))}
			}
			arr[i] = val

		case OpAddI, OpSubI, OpMulI, OpDivI, OpModI, OpAndBits, OpOrBits, OpXorBits:
			if err := e.binInt(inst.Op); err != nil {
				return Value{}, err
			}
		case OpNegI:
			v, err := e.pop()
			if err != nil {
				return Value{}, err
			}
			e.push(Value{Kind: vInt, Width: v.Width, I: new(big.Int).Neg(v.I)})
		case OpNotBits:
			v, err := e.pop()
			if err != nil {
				return Value{}, err
			}
			mask := widthMask(v.Width)
			e.push(Value{Kind: vInt, Width: v.Width, I: new(big.Int).And(new(big.Int).Not(v.I), mask)})

		case OpAddF, OpSubF, OpMulF, OpDivF:
			if err := e.binFloat(inst.Op); err != nil {
				return Value{}, err
			}
		case OpNegF:
			v, err := e.pop()
			if err != nil {
				return Value{}, err
			}
			e.push(Value{Kind: vFloat, F: -v.F})

		case OpSExt:
			v, err := e.pop()
			if err != nil {
				return Value{}, err
			}
			e.push(Value{Kind: vInt, Width: inst.A, I: new(big.Int).Set(v.I)})
		case OpTrunc:
			v, err := e.pop()
			if err != nil {
				return Value{}, err
			}
			e.push(Value{Kind: vInt, Width: inst.A, I: truncate(v.I, inst.A)})
		case OpSIToFP:
			v, err := e.pop()
			if err != nil {
				return Value{}, err
			}
			f, _ := new(big.Float).SetInt(v.I).Float32()
			e.push(Value{Kind: vFloat, F: f})
		case OpFPToSI:
			v, err := e.pop()
			if err != nil {
				return Value{}, err
			}
			i, _ := big.NewFloat(float64(v.F)).Int(nil)
			e.push(Value{Kind: vInt, Width: inst.A, I: truncate(i, inst.A)})

		case OpCmpEQI, OpCmpNEI, OpCmpLTI, OpCmpGTI, OpCmpLEI, OpCmpGEI:
			if err := e.cmpInt(inst.Op); err != nil {
				return Value{}, err
			}
		case OpCmpEQF, OpCmpNEF, OpCmpLTF, OpCmpGTF, OpCmpLEF, OpCmpGEF:
			if err := e.cmpFloat(inst.Op); err != nil {
				return Value{}, err
			}

		case OpCall:
			args, err := e.popArgs(inst.B)
			if err != nil {
				return Value{}, err
			}
			result, err := e.call(FuncHandle(inst.A), args)
			if err != nil {
				return Value{}, err
			}
			if e.module.Functions[inst.A].ReturnType.Kind != IRVoid {
				e.push(result)
			}

		case OpBr:
			frame.block = inst.A
			frame.ip = 0
		case OpCondBr:
			cond, err := e.pop()
			if err != nil {
				return Value{}, err
			}
			if cond.I.Sign() != 0 {
				frame.block = inst.A
			} else {
				frame.block = inst.B
			}
			frame.ip = 0
		case OpRet:
			v, err := e.pop()
			if err != nil {
				return Value{}, err
			}
			return v, nil
		case OpRetVoid:
			return Value{}, nil

		default:
			return Value{}, &RuntimeError{fmt.Sprintf("unhandled opcode %s", inst.Op)}
		}
	}
}

// BindPrintf registers the one external symbol minilang's print statement
// needs (§6.3) against w, the way a real JIT would resolve "printf" against
// the host process's libc. There is no dynamic-symbol table in a pure-Go
// backend, so resolution is this static registration instead.
func BindPrintf(e *Engine, w io.Writer) {
	e.RegisterHostFunc("printf", func(args []Value) (Value, error) {
		if len(args) != 2 {
			return Value{}, &RuntimeError{"printf expects a format string and one value"}
		}
		format, value := args[0].S, args[1]
		switch {
		case strings.Contains(format, "%c"):
			fmt.Fprintf(w, "%c\n", rune(value.I.Int64()))
		case strings.Contains(format, "%f"):
			fmt.Fprintf(w, "%f\n", value.F)
		case strings.Contains(format, "%s"):
			fmt.Fprintf(w, "%s\n", value.S)
		default:
			fmt.Fprintf(w, "%s\n", value.I.String())
		}
		return Value{}, nil
	})
}

func widthMask(width int) *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(width)), big.NewInt(1))
}

// truncate keeps the low `width` bits of v and sign-extends back out of them,
// matching two's-complement narrowing.
func truncate(v *big.Int, width int) *big.Int {
	mask := widthMask(width)
	r := new(big.Int).And(v, mask)
	signBit := new(big.Int).Lsh(big.NewInt(1), uint(width-1))
	if r.Cmp(signBit) >= 0 {
		r.Sub(r, new(big.Int).Lsh(big.NewInt(1), uint(width)))
	}
	return r
}

func (e *Engine) binInt(op OpCode) error {
	b, err := e.pop()
	if err != nil {
		return err
	}
	a, err := e.pop()
	if err != nil {
		return err
	}
	var r *big.Int
	switch op {
	case OpAddI:
		r = new(big.Int).Add(a.I, b.I)
	case OpSubI:
		r = new(big.Int).Sub(a.I, b.I)
	case OpMulI:
		r = new(big.Int).Mul(a.I, b.I)
	case OpDivI:
		if b.I.Sign() == 0 {
			return &RuntimeError{"integer division by zero"}
		}
		r = new(big.Int).Quo(a.I, b.I)
	case OpModI:
		if b.I.Sign() == 0 {
			return &RuntimeError{"integer division by zero"}
		}
		r = new(big.Int).Rem(a.I, b.I)
	case OpAndBits:
		r = new(big.Int).And(a.I, b.I)
	case OpOrBits:
		r = new(big.Int).Or(a.I, b.I)
	case OpXorBits:
		r = new(big.Int).Xor(a.I, b.I)
	}
	e.push(Value{Kind: vInt, Width: a.Width, I: truncate(r, a.Width)})
	return nil
}

func (e *Engine) binFloat(op OpCode) error {
	b, err := e.pop()
	if err != nil {
		return err
	}
	a, err := e.pop()
	if err != nil {
		return err
	}
	var r float32
	switch op {
	case OpAddF:
		r = a.F + b.F
	case OpSubF:
		r = a.F - b.F
	case OpMulF:
		r = a.F * b.F
	case OpDivF:
		if b.F == 0 {
			return &RuntimeError{"float division by zero"}
		}
		r = a.F / b.F
	}
	e.push(Value{Kind: vFloat, F: r})
	return nil
}

func boolValue(b bool) Value {
	if b {
		return intValue(1, 1)
	}
	return intValue(1, 0)
}

func (e *Engine) cmpInt(op OpCode) error {
	b, err := e.pop()
	if err != nil {
		return err
	}
	a, err := e.pop()
	if err != nil {
		return err
	}
	c := a.I.Cmp(b.I)
	var r bool
	switch op {
	case OpCmpEQI:
		r = c == 0
	case OpCmpNEI:
		r = c != 0
	case OpCmpLTI:
		r = c < 0
	case OpCmpGTI:
		r = c > 0
	case OpCmpLEI:
		r = c <= 0
	case OpCmpGEI:
		r = c >= 0
	}
	e.push(boolValue(r))
	return nil
}

func (e *Engine) cmpFloat(op OpCode) error {
	b, err := e.pop()
	if err != nil {
		return err
	}
	a, err := e.pop()
	if err != nil {
		return err
	}
	var r bool
	switch op {
	case OpCmpEQF:
		r = a.F == b.F
	case OpCmpNEF:
		r = a.F != b.F
	case OpCmpLTF:
		r = a.F < b.F
	case OpCmpGTF:
		r = a.F > b.F
	case OpCmpLEF:
		r = a.F <= b.F
	case OpCmpGEF:
		r = a.F >= b.F
	}
	e.push(boolValue(r))
	return nil
}
