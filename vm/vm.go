// Package vm implements the SCISA virtual machine: a register CPU generic
// over its word width, with a memory-mapped I/O model and a lazy flag
// engine.
package vm

import (
	"github.com/pkg/errors"

	"github.com/mortie/scisa/op"
)

// Word is the CPU's natural integer size. The 8-bit configuration is the
// widely used one; the 16-bit one additionally enables MHA, LDW and STW.
type Word interface {
	~uint8 | ~uint16
}

// Runtime halt conditions. Once one is stored on the CPU, further Step
// calls are no-ops.
var (
	ErrPCOutOfBounds = errors.New("PC out of bounds")
	ErrIllegalLoad   = errors.New("illegal load")
	ErrIllegalStore  = errors.New("illegal store")
	ErrBadSpecial    = errors.New("bad special")
	ErrInvalidPop    = errors.New("invalid pop")
	ErrBadBitness    = errors.New("invalid instruction for bitness")
)

// CPU is the machine state. Program memory is separate from the data
// address space; the data space is an ordered list of RAM spans and I/O
// devices, I/O searched first.
type CPU[T Word] struct {
	PC  T
	SP  T
	Acc T
	X   T
	Y   T

	Flags Flags[T]

	// Err is the halt condition. The CPU has two states: running (nil)
	// and halted (set); there is no recovery.
	Err error

	IO   []MappedIO[T]
	DMem []MappedMem[T]
	PMem []byte
}

// New returns a CPU with the reset register state: PC 0, SP 128, flags in
// the Z family with a zero result.
func New[T Word]() *CPU[T] {
	return &CPU[T]{
		SP:    128,
		Flags: Flags[T]{Op: FlagOpZ},
	}
}

func (c *CPU[T]) wordBytes() int {
	return wordBits[T]() / 8
}

// Step executes up to n instructions, stopping early once Err is set.
// If Err is already set, Step does nothing.
func (c *CPU[T]) Step(n int) {
	if c.Err != nil {
		return
	}

	for i := 0; i < n && c.Err == nil; i++ {
		c.stepOne()
	}
}

func (c *CPU[T]) stepOne() {
	if int(c.PC) >= len(c.PMem) {
		c.Err = ErrPCOutOfBounds
		return
	}

	// pc keeps the instruction's own address; branches are relative to it.
	pc := c.PC

	instr := c.PMem[c.PC]
	c.PC++
	code, mode := op.Split(instr)

	var second byte
	if mode.HasImmediate() {
		if int(c.PC) >= len(c.PMem) {
			c.Err = ErrPCOutOfBounds
			return
		}
		second = c.PMem[c.PC]
		c.PC++
	}

	param := c.param(mode, second)

	switch code {
	case op.Special:
		c.special(op.SpecOp(mode))

	case op.Add:
		out := c.Acc + param
		c.Flags = Flags[T]{Out: out, A: c.Acc, B: param, Op: FlagOpAdd}
		c.Acc = out

	case op.Sub:
		out := c.Acc - param
		c.Flags = Flags[T]{Out: out, A: c.Acc, B: ^param, C: 1, Op: FlagOpAdd}
		c.Acc = out

	case op.Adc:
		var carry T
		if c.Flags.Carry() {
			carry = 1
		}
		out := c.Acc + param + carry
		c.Flags = Flags[T]{Out: out, A: c.Acc, B: param, C: carry, Op: FlagOpAdd}
		c.Acc = out

	case op.Xor:
		out := c.Acc ^ param
		c.Flags = Flags[T]{Out: out, Op: FlagOpZ}
		c.Acc = out

	case op.And:
		out := c.Acc & param
		c.Flags = Flags[T]{Out: out, Op: FlagOpZ}
		c.Acc = out

	case op.Or:
		out := c.Acc | param
		c.Flags = Flags[T]{Out: out, Op: FlagOpZ}
		c.Acc = out

	case op.Cmp:
		out := c.Acc - param
		c.Flags = Flags[T]{Out: out, A: c.Acc, B: ^param, C: 1, Op: FlagOpAdd}

	case op.Mvx:
		c.X = param

	case op.Mvy:
		c.Y = param

	case op.Mva:
		c.Acc = param

	case op.Mha:
		if c.wordBytes() == 1 {
			c.Err = ErrBadBitness
			return
		}
		c.Acc = param << 8

	case op.Sps:
		c.SP = param

	case op.Ldx:
		c.X = T(c.loadByte(param))
		c.Flags = Flags[T]{Out: c.X, Op: FlagOpZ}

	case op.Ldw:
		if c.wordBytes() == 1 {
			c.Err = ErrBadBitness
			return
		}
		c.Acc = c.loadWord(param)
		c.Flags = Flags[T]{Out: c.Acc, Op: FlagOpZ}

	case op.Lda:
		c.Acc = T(c.loadByte(param))
		c.Flags = Flags[T]{Out: c.Acc, Op: FlagOpZ}

	case op.Stx:
		c.storeByte(param, byte(c.X))

	case op.Stw:
		if c.wordBytes() == 1 {
			c.Err = ErrBadBitness
			return
		}
		c.storeWord(param, c.Acc)

	case op.Sta:
		c.storeByte(param, byte(c.Acc))

	case op.Jmp:
		c.PC = param

	case op.Jlr:
		c.Y = c.PC
		c.PC = param

	case op.B:
		c.PC = pc + param

	case op.Bcc:
		if !c.Flags.Carry() {
			c.PC = pc + param
		}

	case op.Bcs:
		if c.Flags.Carry() {
			c.PC = pc + param
		}

	case op.Beq:
		if c.Flags.Zero() {
			c.PC = pc + param
		}

	case op.Bne:
		if !c.Flags.Zero() {
			c.PC = pc + param
		}

	case op.Bmi:
		if c.Flags.Negative() {
			c.PC = pc + param
		}

	case op.Bpl:
		if !c.Flags.Negative() {
			c.PC = pc + param
		}

	case op.Bvs:
		if c.Flags.Overflow() {
			c.PC = pc + param
		}

	case op.Bvc:
		if !c.Flags.Overflow() {
			c.PC = pc + param
		}

	case op.Push:
		c.storeWord(c.SP, param)
		c.SP += T(c.wordBytes())

	case op.Pop:
		c.SP -= T(c.wordBytes())
		out := c.loadWord(c.SP)
		switch op.PopDest(mode) {
		case op.PopVoid:
		case op.PopX:
			c.X = out
		case op.PopY:
			c.Y = out
		case op.PopAcc:
			c.Acc = out
		default:
			c.Err = ErrInvalidPop
		}
	}
}

func (c *CPU[T]) special(sub op.SpecOp) {
	switch sub {
	case op.SpecNop:

	case op.SpecLsr:
		out := c.Acc >> 1
		c.Flags = Flags[T]{Out: out, C: c.Acc & 1, Op: FlagOpZ}
		c.Acc = out

	case op.SpecRor:
		var in T
		if c.Flags.Carry() {
			in = 1
		}
		carry := c.Acc & 1
		out := (c.Acc >> 1) | in<<(wordBits[T]()-1)
		c.Flags = Flags[T]{Out: out, C: carry, Op: FlagOpZ}
		c.Acc = out

	case op.SpecInc:
		out := c.Acc + 1
		c.Flags = Flags[T]{Out: out, A: c.Acc, B: 1, Op: FlagOpAdd}
		c.Acc = out

	default:
		c.Err = ErrBadSpecial
	}
}

// param evaluates the parameter mode against the current register state.
func (c *CPU[T]) param(mode op.ParamMode, second byte) T {
	switch mode {
	case op.ParamZero:
		return 0
	case op.ParamX:
		return c.X
	case op.ParamY:
		return c.Y
	case op.ParamAcc:
		return c.Acc
	case op.ParamImm:
		return T(second)
	case op.ParamXImm:
		return c.X + T(second)
	case op.ParamYImm:
		return c.Y + T(second)
	default:
		return c.Acc + T(second)
	}
}
