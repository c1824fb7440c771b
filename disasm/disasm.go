// Package disasm decodes SCISA instructions back into assembler syntax.
// It is the inverse of the instruction encoder, used by the debug drivers;
// output is not guaranteed to match the original source byte for byte
// (aliases, whitespace, collapsed zero immediates).
package disasm

import (
	"strings"

	"github.com/mortie/scisa/op"
)

// Instruction decodes one instruction from the start of buf and returns
// its textual form plus the number of bytes consumed (1 or 2). An empty
// buffer yields "OOB"; a two-byte instruction cut short keeps the mnemonic
// and marks the missing immediate.
func Instruction(buf []byte) (string, int) {
	if len(buf) == 0 {
		return "OOB", 1
	}

	code, mode := op.Split(buf[0])

	switch code {
	case op.Special:
		sub := op.SpecOp(mode)
		return sub.String(), 1
	case op.Pop:
		dest := op.PopDest(mode)
		if dest > op.PopAcc {
			return "BAD POP", 1
		}
		return "POP " + dest.String(), 1
	}

	var imm byte
	if mode.HasImmediate() {
		if len(buf) < 2 {
			return code.String() + " OOB", 1
		}
		imm = buf[1]
	}

	out := code.String() + " " + mode.Render(imm)
	if mode.HasImmediate() {
		return out, 2
	}
	return out, 1
}

// Dump decodes every instruction in buf, one per line.
func Dump(buf []byte) string {
	var sb strings.Builder
	for i := 0; i < len(buf); {
		text, n := Instruction(buf[i:])
		sb.WriteString(text)
		sb.WriteByte('\n')
		i += n
	}
	return sb.String()
}
