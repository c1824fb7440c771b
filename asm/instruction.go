package asm

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/mortie/scisa/op"
)

func emitInstr(a *Assembly, name, param string) error {
	if sc, ok := op.LookupSpecial(name); ok {
		if param != "" {
			return errors.Wrap(ErrExtraParameter, name)
		}
		a.emit(sc.Instr)
		return nil
	}

	if name == "POP" {
		return emitPop(a, param)
	}

	oc, ok := op.Lookup(name)
	if !ok {
		return errors.Wrap(ErrUnknownInstr, name)
	}
	return emitNormal(a, oc, param)
}

func emitPop(a *Assembly, param string) error {
	hi := byte(op.Pop) << 3
	switch param {
	case "VOID":
		a.emit(hi | byte(op.PopVoid))
	case "%X":
		a.emit(hi | byte(op.PopX))
	case "%Y":
		a.emit(hi | byte(op.PopY))
	case "%A":
		a.emit(hi | byte(op.PopAcc))
	default:
		return errors.Wrap(ErrBadPopParameter, param)
	}
	return nil
}

// emitNormal encodes an instruction taking the shared parameter grammar:
// a bare register, a numeric literal, an identifier (define or label), or
// register + constant.
func emitNormal(a *Assembly, oc op.OpCode, param string) error {
	hi := byte(oc.Code) << 3

	switch param {
	case "":
		return errors.Wrap(ErrNoParameter, oc.Name)
	case "%X":
		a.emit(hi | byte(op.ParamX))
		return nil
	case "%Y":
		a.emit(hi | byte(op.ParamY))
		return nil
	case "%A":
		a.emit(hi | byte(op.ParamAcc))
		return nil
	}

	if isNumericStr(param) {
		num := parseNumeric(param)
		if num == 0 {
			a.emit(hi | byte(op.ParamZero))
			return nil
		}
		a.emit(hi|byte(op.ParamImm), byte(num))
		return nil
	}

	if isIdentStr(param) {
		a.emit(hi | byte(op.ParamImm))
		a.emitConstRef(param, oc.Relative)
		return nil
	}

	if param[0] == op.RegisterChar {
		return emitRegisterConst(a, hi, param[1:])
	}

	return errors.Wrap(ErrBadParameter, param)
}

// emitConstRef emits the immediate byte for an identifier: the define's
// value if known, otherwise a 0 placeholder plus a relocation record.
func (a *Assembly) emitConstRef(ident string, relative bool) {
	if val, ok := a.Defines[ident]; ok {
		a.emit(byte(val))
		return
	}

	reloc := Relocation{
		Index: len(a.current().Content),
		Label: ident,
	}
	if relative {
		reloc.Kind = RelocRelative
		// The placeholder sits one past the instruction start; branches
		// take the distance from the opcode byte.
		reloc.Offset = -1
	} else {
		reloc.Kind = RelocAbsolute
	}
	a.Relocations = append(a.Relocations, reloc)
	a.emit(0)
}

func emitRegisterConst(a *Assembly, hi byte, rest string) error {
	if rest == "" {
		return ErrBadRegister
	}
	switch rest[0] {
	case 'X':
		a.emit(hi | byte(op.ParamXImm))
	case 'Y':
		a.emit(hi | byte(op.ParamYImm))
	case 'A':
		a.emit(hi | byte(op.ParamAccImm))
	default:
		return ErrBadRegister
	}

	rest = skipSpace(rest[1:])
	if !strings.HasPrefix(rest, "+") {
		return errors.Wrap(ErrBadParameter, rest)
	}
	rest = skipSpace(rest[1:])

	if isIdentStr(rest) {
		// Register offsets by label are always absolute; a PC-relative
		// offset makes no sense added to a register base.
		a.emitConstRef(rest, false)
		return nil
	}

	if isNumericStr(rest) {
		// A zero offset still emits its immediate byte: collapsing to the
		// plain register mode here would leave the already-emitted opcode
		// byte claiming a second byte that never comes.
		a.emit(byte(parseNumeric(rest)))
		return nil
	}

	return errors.Wrap(ErrBadParameter, rest)
}
