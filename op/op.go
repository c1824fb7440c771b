// Package op holds the SCISA instruction encoding tables shared by the
// assembler, the disassembler and the VM.
//
// An instruction is 1 or 2 bytes. The first byte is OOOOOPPP: a 5-bit
// opcode and a 3-bit parameter mode. Parameter modes with bit 2 set are
// followed by one immediate byte.
package op

// Code is a 5-bit opcode.
type Code byte

const (
	Special Code = 0b00000
	Add     Code = 0b00001
	Sub     Code = 0b00010
	Adc     Code = 0b00011
	Xor     Code = 0b00100
	And     Code = 0b00101
	Or      Code = 0b00110
	Cmp     Code = 0b00111
	Mvx     Code = 0b01000
	Mvy     Code = 0b01001
	Mva     Code = 0b01010
	Mha     Code = 0b01011
	Sps     Code = 0b01100
	Ldx     Code = 0b01101
	Ldw     Code = 0b01110
	Lda     Code = 0b01111
	Stx     Code = 0b10000
	Stw     Code = 0b10001
	Sta     Code = 0b10010
	Jmp     Code = 0b10011
	Jlr     Code = 0b10100
	B       Code = 0b10101
	Bcc     Code = 0b10110
	Bcs     Code = 0b10111
	Beq     Code = 0b11000
	Bne     Code = 0b11001
	Bmi     Code = 0b11010
	Bpl     Code = 0b11011
	Bvs     Code = 0b11100
	Bvc     Code = 0b11101
	Push    Code = 0b11110
	Pop     Code = 0b11111
)

// OpCode describes one mnemonic accepted by the assembler.
type OpCode struct {
	Name     string
	Aliases  []string
	Code     Code
	Relative bool // Branch family: label parameters relocate PC-relative.
}

// OpCodeTable lists every "normal" mnemonic, i.e. every opcode taking a
// parameter. SPECIAL (and the LSL/ROL pseudo ops) and POP have dedicated
// encodings and live in SpecialTable / the POP destination table instead.
var OpCodeTable = []OpCode{
	{"ADD", nil, Add, false},
	{"SUB", nil, Sub, false},
	{"ADC", nil, Adc, false},
	{"XOR", nil, Xor, false},
	{"AND", nil, And, false},
	{"OR", nil, Or, false},
	{"CMP", nil, Cmp, false},
	{"MVX", nil, Mvx, false},
	{"MVY", nil, Mvy, false},
	{"MVA", nil, Mva, false},
	{"MHA", nil, Mha, false},
	{"SPS", nil, Sps, false},
	{"LDX", nil, Ldx, false},
	{"LDW", []string{"LDY"}, Ldw, false},
	{"LDA", nil, Lda, false},
	{"STX", nil, Stx, false},
	{"STW", []string{"STY"}, Stw, false},
	{"STA", nil, Sta, false},
	{"JMP", nil, Jmp, false},
	{"JLR", nil, Jlr, false},
	{"B", nil, B, true},
	{"BCC", []string{"BGE"}, Bcc, true},
	{"BCS", []string{"BLT"}, Bcs, true},
	{"BEQ", []string{"BZS"}, Beq, true},
	{"BNE", []string{"BZC"}, Bne, true},
	{"BMI", nil, Bmi, true},
	{"BPL", nil, Bpl, true},
	{"BVS", nil, Bvs, true},
	{"BVC", nil, Bvc, true},
	{"PUSH", nil, Push, false},
}

// Lookup finds a normal mnemonic by name or alias. Names are expected
// uppercased.
func Lookup(name string) (OpCode, bool) {
	for _, oc := range OpCodeTable {
		if oc.Name == name {
			return oc, true
		}
		for _, alias := range oc.Aliases {
			if alias == name {
				return oc, true
			}
		}
	}
	return OpCode{}, false
}

func (c Code) String() string {
	switch c {
	case Special:
		return "SPECIAL"
	case Pop:
		return "POP"
	}
	for _, oc := range OpCodeTable {
		if oc.Code == c {
			return oc.Name
		}
	}
	return "???"
}

// SpecialOpCode describes a zero-parameter mnemonic whose whole
// instruction byte is a constant.
type SpecialOpCode struct {
	Name  string
	Instr byte
}

// SpecialTable maps the SPECIAL sub-opcodes plus the LSL/ROL pseudo
// instructions. LSL and ROL deliberately collide with ADD %A and ADC %A:
// adding the accumulator to itself is a left shift, with carry for ROL.
var SpecialTable = []SpecialOpCode{
	{"NOP", byte(SpecNop)},
	{"LSR", byte(SpecLsr)},
	{"ROR", byte(SpecRor)},
	{"INC", byte(SpecInc)},
	{"LSL", byte(Add)<<3 | byte(ParamAcc)},
	{"ROL", byte(Adc)<<3 | byte(ParamAcc)},
}

// LookupSpecial finds a zero-parameter mnemonic. Names are expected
// uppercased.
func LookupSpecial(name string) (SpecialOpCode, bool) {
	for _, sc := range SpecialTable {
		if sc.Name == name {
			return sc, true
		}
	}
	return SpecialOpCode{}, false
}

// Split decodes an instruction byte into its opcode and parameter mode.
func Split(instr byte) (Code, ParamMode) {
	return Code(instr >> 3), ParamMode(instr & 0b111)
}

// SpecOp is a SPECIAL sub-opcode, stored in the parameter mode bits.
type SpecOp byte

const (
	SpecNop SpecOp = 0b000
	SpecLsr SpecOp = 0b001
	SpecRor SpecOp = 0b010
	SpecInc SpecOp = 0b011
)

func (s SpecOp) String() string {
	switch s {
	case SpecNop:
		return "NOP"
	case SpecLsr:
		return "LSR"
	case SpecRor:
		return "ROR"
	case SpecInc:
		return "INC"
	default:
		return "BAD SPECIAL"
	}
}

// PopDest is a POP destination, stored in the parameter mode bits.
type PopDest byte

const (
	PopVoid PopDest = 0b000
	PopX    PopDest = 0b001
	PopY    PopDest = 0b010
	PopAcc  PopDest = 0b011
)

func (p PopDest) String() string {
	switch p {
	case PopVoid:
		return "VOID"
	case PopX:
		return "%X"
	case PopY:
		return "%Y"
	case PopAcc:
		return "%A"
	default:
		return "BAD POP"
	}
}
