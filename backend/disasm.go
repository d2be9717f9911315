package backend

import (
	"fmt"
	"io"
	"strings"
)

// Disassembler renders a Module's functions and blocks in human-readable
// form, grounded on the teacher's bytecode.Disassembler but walking blocks
// rather than a flat, offset-addressed instruction stream.
type Disassembler struct {
	w io.Writer
	m *Module
}

// NewDisassembler creates a Disassembler writing to w.
func NewDisassembler(m *Module, w io.Writer) *Disassembler {
	return &Disassembler{w: w, m: m}
}

// Disassemble prints every function in the module.
func (d *Disassembler) Disassemble() {
	if len(d.m.Constants) > 0 {
		fmt.Fprintf(d.w, "Constants:\n")
		for i, c := range d.m.Constants {
			fmt.Fprintf(d.w, "  [%04d] %s\n", i, c.String())
		}
		fmt.Fprintln(d.w)
	}

	for fi, fn := range d.m.Functions {
		d.disassembleFunction(fi, fn)
	}
}

func (d *Disassembler) disassembleFunction(index int, fn *Function) {
	fmt.Fprintf(d.w, "== func %d %s(%s) -> %s ==\n", index, fn.Name, paramList(fn.ParamTypes), fn.ReturnType)
	if len(fn.Locals) > 0 {
		fmt.Fprintf(d.w, "  locals: %s\n", typeList(fn.Locals))
	}
	for bi, blk := range fn.Blocks {
		fmt.Fprintf(d.w, "%s:\n", blockLabel(bi, blk))
		for ii, inst := range blk.Instructions {
			fmt.Fprintf(d.w, "  %04d %s\n", ii, d.instructionString(inst))
		}
	}
	fmt.Fprintln(d.w)
}

func blockLabel(index int, blk *Block) string {
	return fmt.Sprintf("%s [%d]", blk.Label, index)
}

func paramList(types []IRType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

func typeList(types []IRType) string {
	return paramList(types)
}

func (d *Disassembler) instructionString(inst Instruction) string {
	switch inst.Op {
	case OpConstInt, OpConstFloat, OpConstStr:
		if inst.A >= 0 && inst.A < len(d.m.Constants) {
			return fmt.Sprintf("%-12s %4d ; %s", inst.Op, inst.A, d.m.Constants[inst.A].String())
		}
		return fmt.Sprintf("%-12s %4d", inst.Op, inst.A)
	case OpBr:
		return fmt.Sprintf("%-12s -> [%d]", inst.Op, inst.A)
	case OpCondBr:
		return fmt.Sprintf("%-12s then=[%d] else=[%d]", inst.Op, inst.A, inst.B)
	case OpCall:
		return fmt.Sprintf("%-12s func=%d args=%d", inst.Op, inst.A, inst.B)
	case OpSExt, OpTrunc:
		return fmt.Sprintf("%-12s width=%d", inst.Op, inst.A)
	case OpLoadLocal, OpStoreLocal, OpLoadParam, OpArrayGet, OpArraySet:
		return fmt.Sprintf("%-12s %4d", inst.Op, inst.A)
	default:
		return fmt.Sprintf("%s", inst.Op)
	}
}

// String renders a constant-pool entry for disassembly output.
func (c Constant) String() string {
	switch c.Kind {
	case ConstInt:
		return fmt.Sprintf("%d (i%d)", c.I, c.Width)
	case ConstFloat:
		return fmt.Sprintf("%g", c.F)
	case ConstStr:
		return fmt.Sprintf("%q", c.S)
	default:
		return "<unknown const>"
	}
}

// DisassembleToString returns m's disassembly as a string.
func DisassembleToString(m *Module) string {
	var sb strings.Builder
	NewDisassembler(m, &sb).Disassemble()
	return sb.String()
}
