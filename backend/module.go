package backend

import "fmt"

// ConstKind tags a Module's constant-pool entry.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstStr
)

// Constant is one module-global, read-only constant-pool entry.
type Constant struct {
	Kind  ConstKind
	I     int64
	Width int // meaningful for Kind == ConstInt
	F     float32
	S     string
}

// Block is one basic region: a straight-line instruction list ending in a
// terminator (Br/CondBr/Ret/RetVoid), addressed by index rather than by
// byte offset — a divergence from the teacher's flat, offset-patched
// instruction stream, made because the Builder contract above is explicitly
// block/region-shaped (EntryBlock/NewBlock/Br/CondBr), not offset-shaped.
type Block struct {
	Label        string
	Instructions []Instruction
	Terminated   bool
}

// Function is one module function: its signature, local-slot types
// (populated by Alloca), and its list of blocks (block 0 is always entry).
type Function struct {
	Name       string
	ParamTypes []IRType
	ReturnType IRType
	Locals     []IRType // slot index -> declared type
	Blocks     []*Block
}

// Module is the backend's analogue of the teacher's bytecode.Chunk: a
// compiled unit ready to hand to an Engine.
type Module struct {
	Functions []*Function
	Constants []Constant

	curFn    *Function
	curFnIdx int
	curBlock *Block
	curBlkNo int
}

// NewModule creates an empty module, ready to receive DeclareFunction calls.
func NewModule() *Module {
	return &Module{}
}

func (m *Module) addConst(c Constant) int {
	m.Constants = append(m.Constants, c)
	return len(m.Constants) - 1
}

// DeclareFunction registers a new function with an empty entry block and
// makes it the current function being built.
func (m *Module) DeclareFunction(name string, params []IRType, ret IRType) FuncHandle {
	fn := &Function{Name: name, ParamTypes: params, ReturnType: ret}
	fn.Blocks = append(fn.Blocks, &Block{Label: "entry"})
	m.Functions = append(m.Functions, fn)
	idx := len(m.Functions) - 1
	m.curFn = fn
	m.curFnIdx = idx
	m.curBlock = fn.Blocks[0]
	m.curBlkNo = 0
	return FuncHandle(idx)
}

func (m *Module) fn(h FuncHandle) *Function { return m.Functions[h] }

// Use makes fn the current function without declaring a new one, so a
// previously-declared signature (registered in the driver's forward-reference
// pass) can have its body lowered afterward.
func (m *Module) Use(fn FuncHandle) {
	f := m.fn(fn)
	m.curFn = f
	m.curFnIdx = int(fn)
	m.curBlock = f.Blocks[0]
	m.curBlkNo = 0
}

// Param yields fn's index'th incoming argument, raw (already coerced to the
// parameter's declared type by the call-site lowering of §4.3.2 rule 5,
// before the call was ever emitted).
func (m *Module) Param(fn FuncHandle, index int) ValueHandle {
	m.emit(Instruction{Op: OpLoadParam, A: index})
	return ValueHandle{Type: m.fn(fn).ParamTypes[index]}
}

// EntryBlock returns fn's entry block handle (always block 0).
func (m *Module) EntryBlock(fn FuncHandle) BlockHandle {
	return BlockHandle(0)
}

// NewBlock appends a fresh, empty block to fn and returns its handle. It
// does not change the insertion point.
func (m *Module) NewBlock(fn FuncHandle, label string) BlockHandle {
	f := m.fn(fn)
	f.Blocks = append(f.Blocks, &Block{Label: label})
	return BlockHandle(len(f.Blocks) - 1)
}

// SetInsertPoint moves the insertion cursor to a block of the current
// function (the function last touched by DeclareFunction or an explicit
// block belonging to it).
func (m *Module) SetInsertPoint(block BlockHandle) {
	m.curBlock = m.curFn.Blocks[block]
	m.curBlkNo = int(block)
}

func (m *Module) emit(inst Instruction) {
	m.curBlock.Instructions = append(m.curBlock.Instructions, inst)
}

// Alloca reserves a new local storage slot of typ in the current function.
func (m *Module) Alloca(typ IRType) SlotHandle {
	m.curFn.Locals = append(m.curFn.Locals, typ)
	return SlotHandle{Kind: SlotLocal, Index: len(m.curFn.Locals) - 1, ElemType: typ}
}

// Load reads slot's current value. For a SlotElement slot, the runtime
// index is assumed to already be on top of the stack (pushed by whatever
// lowered the index expression immediately before this call).
func (m *Module) Load(slot SlotHandle, typ IRType) ValueHandle {
	switch slot.Kind {
	case SlotElement:
		m.emit(Instruction{Op: OpArrayGet, A: slot.Index})
	default:
		m.emit(Instruction{Op: OpLoadLocal, A: slot.Index})
	}
	return ValueHandle{Type: typ}
}

// Store writes v into slot. For a SlotElement slot, both the index and the
// value (v) must already be on the stack, value pushed before index, per
// the assignment-lowering contract's ordering (§4.3.3).
func (m *Module) Store(slot SlotHandle, v ValueHandle) {
	switch slot.Kind {
	case SlotElement:
		m.emit(Instruction{Op: OpArraySet, A: slot.Index})
	default:
		m.emit(Instruction{Op: OpStoreLocal, A: slot.Index})
	}
}

func (m *Module) ConstInt(typ IRType, v int64) ValueHandle {
	idx := m.addConst(Constant{Kind: ConstInt, I: v, Width: typ.Width})
	m.emit(Instruction{Op: OpConstInt, A: idx})
	return ValueHandle{Type: typ}
}

func (m *Module) ConstFloat(v float32) ValueHandle {
	idx := m.addConst(Constant{Kind: ConstFloat, F: v})
	m.emit(Instruction{Op: OpConstFloat, A: idx})
	return ValueHandle{Type: F32()}
}

func (m *Module) ConstString(s string) ValueHandle {
	idx := m.addConst(Constant{Kind: ConstStr, S: s})
	m.emit(Instruction{Op: OpConstStr, A: idx})
	return ValueHandle{Type: Str()}
}

func (m *Module) SExt(v ValueHandle, to IRType) ValueHandle {
	m.emit(Instruction{Op: OpSExt, A: to.Width})
	return ValueHandle{Type: to}
}

func (m *Module) Trunc(v ValueHandle, to IRType) ValueHandle {
	m.emit(Instruction{Op: OpTrunc, A: to.Width})
	return ValueHandle{Type: to}
}

func (m *Module) SIToFP(v ValueHandle, to IRType) ValueHandle {
	m.emit(Instruction{Op: OpSIToFP})
	return ValueHandle{Type: to}
}

func (m *Module) FPToSI(v ValueHandle, to IRType) ValueHandle {
	m.emit(Instruction{Op: OpFPToSI, A: to.Width})
	return ValueHandle{Type: to}
}

var intBinOps = map[IROp]OpCode{
	OpAddI: OpAddI, OpSubI: OpSubI, OpMulI: OpMulI, OpDivI: OpDivI, OpModI: OpModI,
	OpAndBits: OpAndBits, OpOrBits: OpOrBits, OpXorBits: OpXorBits,
}
var floatBinOps = map[IROp]OpCode{
	OpAddF: OpAddF, OpSubF: OpSubF, OpMulF: OpMulF, OpDivF: OpDivF,
}

func (m *Module) BinOp(op IROp, a, b ValueHandle) ValueHandle {
	resultType := a.Type
	if oc, ok := intBinOps[op]; ok {
		m.emit(Instruction{Op: oc})
		return ValueHandle{Type: resultType}
	}
	if oc, ok := floatBinOps[op]; ok {
		m.emit(Instruction{Op: oc})
		return ValueHandle{Type: resultType}
	}
	panic(fmt.Sprintf("backend: unknown IROp %d", op))
}

var cmpOps = map[IRCmp]OpCode{
	CmpEQI: OpCmpEQI, CmpNEI: OpCmpNEI, CmpLTI: OpCmpLTI, CmpGTI: OpCmpGTI, CmpLEI: OpCmpLEI, CmpGEI: OpCmpGEI,
	CmpEQF: OpCmpEQF, CmpNEF: OpCmpNEF, CmpLTF: OpCmpLTF, CmpGTF: OpCmpGTF, CmpLEF: OpCmpLEF, CmpGEF: OpCmpGEF,
}

func (m *Module) Cmp(op IRCmp, a, b ValueHandle) ValueHandle {
	oc, ok := cmpOps[op]
	if !ok {
		panic(fmt.Sprintf("backend: unknown IRCmp %d", op))
	}
	m.emit(Instruction{Op: oc})
	return ValueHandle{Type: I1()}
}

func (m *Module) Call(fn FuncHandle, args []ValueHandle) ValueHandle {
	m.emit(Instruction{Op: OpCall, A: int(fn), B: len(args)})
	return ValueHandle{Type: m.fn(fn).ReturnType}
}

// GEP packages base and the already-pushed runtime index into an element
// slot handle; the address computation itself is deferred to Load/Store.
func (m *Module) GEP(base SlotHandle, index ValueHandle) SlotHandle {
	return SlotHandle{Kind: SlotElement, Index: base.Index, ElemType: *base.ElemType.Elem}
}

func (m *Module) Br(target BlockHandle) {
	m.emit(Instruction{Op: OpBr, A: int(target)})
	m.curBlock.Terminated = true
}

func (m *Module) CondBr(cond ValueHandle, then, els BlockHandle) {
	m.emit(Instruction{Op: OpCondBr, A: int(then), B: int(els)})
	m.curBlock.Terminated = true
}

func (m *Module) Ret(v ValueHandle) {
	m.emit(Instruction{Op: OpRet})
	m.curBlock.Terminated = true
}

func (m *Module) RetVoid() {
	m.emit(Instruction{Op: OpRetVoid})
	m.curBlock.Terminated = true
}
