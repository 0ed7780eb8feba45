package grunt

import "fmt"

// patchKind distinguishes which field of a pending instruction a label
// resolves into.
type patchKind uint8

const (
	patchCall patchKind = iota
	patchJmpIf
)

type patch struct {
	index int
	label string
	kind  patchKind
}

// Builder assembles a Grunt program using named labels instead of raw
// addresses, the same technique the reference assembler uses to turn
// textual labels into resolved instruction indices, adapted here into a
// small Go API for programs authored directly in code.
type Builder struct {
	instrs  []Instruction
	labels  map[string]int
	pending []patch
	err     error
}

func NewBuilder() *Builder {
	return &Builder{labels: make(map[string]int)}
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Label marks the next instruction's address with name.
func (b *Builder) Label(name string) *Builder {
	if _, exists := b.labels[name]; exists {
		b.fail(fmt.Errorf("grunt: duplicate label %q", name))
		return b
	}
	b.labels[name] = len(b.instrs)
	return b
}

func (b *Builder) emit(ins Instruction) *Builder {
	b.instrs = append(b.instrs, ins)
	return b
}

func (b *Builder) PushB(v bool) *Builder { return b.emit(Instruction{Op: OpPushB, Lit: Bool(v)}) }
func (b *Builder) PushN(v uint32) *Builder { return b.emit(Instruction{Op: OpPushN, Lit: Num(v)}) }
func (b *Builder) PushS(idx uint32) *Builder { return b.emit(Instruction{Op: OpPushS, Lit: Str(idx)}) }

func (b *Builder) Pop(n uint32) *Builder    { return b.emit(Instruction{Op: OpPop, Rep: n}) }
func (b *Builder) Dup(n uint32) *Builder    { return b.emit(Instruction{Op: OpDup, Rep: n}) }
func (b *Builder) Roll(n uint32) *Builder   { return b.emit(Instruction{Op: OpRoll, Rep: n}) }
func (b *Builder) Input(n uint32) *Builder  { return b.emit(Instruction{Op: OpInput, Rep: n}) }
func (b *Builder) Rewind(n uint32) *Builder { return b.emit(Instruction{Op: OpRewind, Rep: n}) }
func (b *Builder) Eq(n uint32) *Builder     { return b.emit(Instruction{Op: OpEq, Rep: n}) }
func (b *Builder) And(n uint32) *Builder    { return b.emit(Instruction{Op: OpAnd, Rep: n}) }
func (b *Builder) Or(n uint32) *Builder     { return b.emit(Instruction{Op: OpOr, Rep: n}) }

func (b *Builder) Output() *Builder { return b.emit(Instruction{Op: OpOutput}) }
func (b *Builder) Flush() *Builder  { return b.emit(Instruction{Op: OpFlush}) }
func (b *Builder) Add() *Builder    { return b.emit(Instruction{Op: OpAdd}) }
func (b *Builder) Sub() *Builder    { return b.emit(Instruction{Op: OpSub}) }
func (b *Builder) Lt() *Builder     { return b.emit(Instruction{Op: OpLt}) }
func (b *Builder) Gt() *Builder     { return b.emit(Instruction{Op: OpGt}) }
func (b *Builder) Not() *Builder    { return b.emit(Instruction{Op: OpNot}) }
func (b *Builder) Return() *Builder { return b.emit(Instruction{Op: OpReturn}) }
func (b *Builder) Halt() *Builder   { return b.emit(Instruction{Op: OpHalt}) }

// Call emits a CALL whose target address resolves to label once the
// program is built.
func (b *Builder) Call(label string) *Builder {
	idx := len(b.instrs)
	b.emit(Instruction{Op: OpCall})
	b.pending = append(b.pending, patch{index: idx, label: label, kind: patchCall})
	return b
}

// JmpIf emits a JMPIF that jumps to label when true.
func (b *Builder) JmpIf(label string) *Builder {
	idx := len(b.instrs)
	b.emit(Instruction{Op: OpJmpIf})
	b.pending = append(b.pending, patch{index: idx, label: label, kind: patchJmpIf})
	return b
}

// Build resolves every label reference and returns the finished program.
// It also validates, at assembly time, the same forward-only rules the
// VM enforces at run time: a CALL target must be after the call site, and
// a JMPIF's literal (once rebiased as the VM computes it) must be at
// least 2. Catching these here turns an authoring mistake into a build
// error instead of a runtime NoLoops fault discovered only by running the
// program.
func (b *Builder) Build() ([]Instruction, error) {
	if b.err != nil {
		return nil, b.err
	}
	for _, p := range b.pending {
		addr, ok := b.labels[p.label]
		if !ok {
			return nil, fmt.Errorf("grunt: undefined label %q", p.label)
		}
		switch p.kind {
		case patchCall:
			if addr <= p.index {
				return nil, fmt.Errorf("grunt: CALL at %d targets non-forward label %q (%d)", p.index, p.label, addr)
			}
			b.instrs[p.index].Lit = PC(uint32(addr))
		case patchJmpIf:
			// The VM computes the jump target from the *post-increment*
			// pc, i.e. relative to p.index+1, as offset-1. Require the
			// literal to be at least 2 here too, matching InvalidLiteral.
			offset := addr - (p.index + 1) + 1
			if offset < 2 {
				return nil, fmt.Errorf("grunt: JMPIF at %d targets non-forward label %q (%d)", p.index, p.label, addr)
			}
			b.instrs[p.index].Lit = PC(uint32(offset))
		}
	}
	out := make([]Instruction, len(b.instrs))
	copy(out, b.instrs)
	return out, nil
}
