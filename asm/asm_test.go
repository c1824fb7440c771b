package asm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/mortie/scisa/asm"
)

func assemble(t *testing.T, src string) *asm.Assembly {
	t.Helper()
	a, err := asm.Assemble("test", strings.NewReader(src))
	if err != nil {
		t.Fatalf("Assemble: %s", err)
	}
	return a
}

func assembleLink(t *testing.T, src string) *asm.Assembly {
	t.Helper()
	a := assemble(t, src)
	if err := asm.Link(a); err != nil {
		t.Fatalf("Link: %s", err)
	}
	return a
}

func TestAssembleEncodings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		text []byte
	}{
		{"nop", "NOP", []byte{0x00}},
		{"immediate", "MVA 5", []byte{0x54, 0x05}},
		{"zero collapses", "ADD 0", []byte{0x08}},
		{"negative immediate", "MVA -1", []byte{0x54, 0xff}},
		{"register", "ADD %X", []byte{0x09}},
		{"register y", "ADD %Y", []byte{0x0a}},
		{"register a", "ADD %A", []byte{0x0b}},
		{"register plus const", "LDA %X + 3", []byte{0x7d, 0x03}},
		{"register plus const tight", "LDA %Y+7", []byte{0x7e, 0x07}},
		{"register plus zero keeps immediate", "ADD %X + 0", []byte{0x0d, 0x00}},
		{"lsl is add acc", "LSL", []byte{0x0b}},
		{"rol is adc acc", "ROL", []byte{0x1b}},
		{"lsr", "LSR", []byte{0x01}},
		{"ror", "ROR", []byte{0x02}},
		{"inc", "INC", []byte{0x03}},
		{"pop void", "POP VOID", []byte{0xf8}},
		{"pop x", "POP %X", []byte{0xf9}},
		{"pop y", "POP %Y", []byte{0xfa}},
		{"pop a", "POP %A", []byte{0xfb}},
		{"push acc", "PUSH %A", []byte{0xf3}},
		{"lowercase folds", "mva 5", []byte{0x54, 0x05}},
		{"alias bge", "START:\nBGE START", []byte{0xb4, 0x00}},
		{"alias ldy", "LDY 9", []byte{0x74, 0x09}},
		{"alias sty", "STY 9", []byte{0x8c, 0x09}},
		{"comment stripped", "NOP ; comment", []byte{0x00}},
		{"blank lines", "\n\n  \nNOP\n\n", []byte{0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := assembleLink(t, tt.src)
			if !bytes.Equal(a.Text().Content, tt.text) {
				t.Errorf("TEXT = %#v, want %#v", a.Text().Content, tt.text)
			}
			if len(a.Data().Content) != 0 {
				t.Errorf("DATA = %#v, want empty", a.Data().Content)
			}
		})
	}
}

func TestAssembleBranchRelocation(t *testing.T) {
	a := assemble(t, "LOOP:\nNOP\nB LOOP\n")

	if len(a.Relocations) != 1 {
		t.Fatalf("got %d relocations, want 1", len(a.Relocations))
	}
	reloc := a.Relocations[0]
	if reloc.Kind != asm.RelocRelative || reloc.Label != "LOOP" || reloc.Index != 2 || reloc.Offset != -1 {
		t.Errorf("unexpected relocation %+v", reloc)
	}

	if err := asm.Link(a); err != nil {
		t.Fatalf("Link: %s", err)
	}
	want := []byte{0x00, 0xac, 0xff}
	if !bytes.Equal(a.Text().Content, want) {
		t.Errorf("TEXT = %#v, want %#v", a.Text().Content, want)
	}
	if a.Relocations != nil {
		t.Errorf("relocations not consumed: %+v", a.Relocations)
	}
}

func TestAssembleDataSection(t *testing.T) {
	src := ".DATA\nmsg:\n.STRING \"Hi\"\n.TEXT\nLDA msg\nSTA 255\n"
	a := assembleLink(t, src)

	wantData := []byte{'H', 'i', 0}
	if !bytes.Equal(a.Data().Content, wantData) {
		t.Errorf("DATA = %#v, want %#v", a.Data().Content, wantData)
	}
	wantText := []byte{0x7c, 0x00, 0x94, 0xff}
	if !bytes.Equal(a.Text().Content, wantText) {
		t.Errorf("TEXT = %#v, want %#v", a.Text().Content, wantText)
	}

	label, ok := a.Labels["MSG"]
	if !ok {
		t.Fatal("label MSG missing")
	}
	if label.Section != asm.SectionData || label.Offset != 0 {
		t.Errorf("label MSG = %+v, want DATA:0", label)
	}
}

func TestAssembleDirectives(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []byte
	}{
		{"byte", ".BYTE 65", []byte{65}},
		{"byte negative", ".BYTE -1", []byte{0xff}},
		{"byte truncates", ".BYTE 300", []byte{44}},
		{"word", ".WORD 513", []byte{0x01, 0x02}},
		{"word negative", ".WORD -2", []byte{0xfe, 0xff}},
		{"ascii", ".ASCII \"AB\"", []byte{'A', 'B'}},
		{"ascii keeps case", ".ASCII \"aB\"", []byte{'a', 'B'}},
		{"string terminates", ".STRING \"A\"", []byte{'A', 0}},
		{"escapes", `.ASCII "a\n\r\t\0\"\\"`, []byte{'a', '\n', '\r', '\t', 0, '"', '\\'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := assembleLink(t, tt.src)
			if !bytes.Equal(a.Text().Content, tt.want) {
				t.Errorf("TEXT = %#v, want %#v", a.Text().Content, tt.want)
			}
		})
	}
}

func TestAssembleDefines(t *testing.T) {
	src := ".DEFINE term 255\nSTA term\nSTA %X + term\n"
	a := assembleLink(t, src)

	want := []byte{0x94, 0xff, 0x95, 0xff}
	if !bytes.Equal(a.Text().Content, want) {
		t.Errorf("TEXT = %#v, want %#v", a.Text().Content, want)
	}
	if len(a.Relocations) != 0 {
		t.Errorf("defines should not relocate: %+v", a.Relocations)
	}
	if got := a.Defines["TERM"]; got != 255 {
		t.Errorf("define TERM = %d, want 255", got)
	}
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  error
	}{
		{"unknown instruction", "FROB 1", asm.ErrUnknownInstr},
		{"bare number line", "123", asm.ErrUnknownInstr},
		{"missing parameter", "ADD", asm.ErrNoParameter},
		{"special with parameter", "NOP 1", asm.ErrExtraParameter},
		{"bad register", "ADD %Q + 1", asm.ErrBadRegister},
		{"register without plus", "ADD %X 1", asm.ErrBadParameter},
		{"bad parameter", "ADD %X + %Y", asm.ErrBadParameter},
		{"bad pop", "POP 1", asm.ErrBadPopParameter},
		{"duplicate label", "A:\nA:", asm.ErrDuplicateLabel},
		{"label trailing garbage", "A: NOP", asm.ErrTrailingGarbage},
		{"bad label name", ".FOO:", asm.ErrBadLabelName},
		{"unknown directive", ".FROB", asm.ErrBadDirective},
		{"section with parameter", ".TEXT 1", asm.ErrExtraParameter},
		{"byte not numeric", ".BYTE x", asm.ErrBadValue},
		{"word not numeric", ".WORD", asm.ErrBadValue},
		{"missing quote", ".ASCII Hi", asm.ErrExpectedQuote},
		{"unterminated string", ".ASCII \"Hi", asm.ErrUnexpectedEOF},
		{"dangling escape", ".ASCII \"a\\", asm.ErrUnexpectedEOF},
		{"unknown escape", `.ASCII "\x"`, asm.ErrBadEscape},
		{"string trailing garbage", ".ASCII \"a\" b", asm.ErrTrailingGarbage},
		{"define bad name", ".DEFINE 1x 2", asm.ErrBadIdentifier},
		{"define bad value", ".DEFINE x y", asm.ErrBadValue},
		{"duplicate define", ".DEFINE x 1\n.DEFINE x 2", asm.ErrDuplicateDefine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := asm.Assemble("test", strings.NewReader(tt.src))
			if !errors.Is(err, tt.err) {
				t.Errorf("Assemble error = %v, want %v", err, tt.err)
			}
		})
	}
}

// Error messages carry the input name and line number.
func TestAssembleErrorPosition(t *testing.T) {
	_, err := asm.Assemble("prog.s", strings.NewReader("NOP\nNOP\nFROB\n"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "prog.s:3") {
		t.Errorf("error %q does not name prog.s:3", err)
	}
}
