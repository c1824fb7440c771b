package asm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/mortie/scisa/asm"
)

func TestLinkAbsolute(t *testing.T) {
	src := "JMP END\nNOP\nEND:\n"
	a := assembleLink(t, src)

	// END sits at offset 3: two bytes of JMP plus the NOP.
	want := []byte{0x9c, 0x03, 0x00}
	if !bytes.Equal(a.Text().Content, want) {
		t.Errorf("TEXT = %#v, want %#v", a.Text().Content, want)
	}
}

func TestLinkForwardBranch(t *testing.T) {
	src := "B SKIP\nNOP\nNOP\nSKIP:\n"
	a := assembleLink(t, src)

	// SKIP is at 4; the branch byte is at 1, so rel = 4 - (1 - 1) = 4.
	want := []byte{0xac, 0x04, 0x00, 0x00}
	if !bytes.Equal(a.Text().Content, want) {
		t.Errorf("TEXT = %#v, want %#v", a.Text().Content, want)
	}
}

func TestLinkDeterminism(t *testing.T) {
	src := "LOOP:\nLDA MSG\nSTA 255\nB LOOP\n.DATA\nMSG:\n.STRING \"hello\"\n"
	first := assembleLink(t, src)
	second := assembleLink(t, src)
	if !bytes.Equal(first.Text().Content, second.Text().Content) {
		t.Errorf("linking is not deterministic: %#v vs %#v",
			first.Text().Content, second.Text().Content)
	}
}

func TestLinkErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  error
	}{
		{
			"unknown label",
			"JMP NOWHERE\n",
			asm.ErrUnknownLabel,
		},
		{
			"unknown branch label",
			"B NOWHERE\n",
			asm.ErrUnknownLabel,
		},
		{
			"relative out of range",
			"START:\n" + strings.Repeat("NOP\n", 130) + "B START\n",
			asm.ErrRelativeRange,
		},
		{
			"absolute out of range",
			strings.Repeat("NOP\n", 300) + "JMP END\nEND:\n",
			asm.ErrAbsoluteRange,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := assemble(t, tt.src)
			if err := asm.Link(a); !errors.Is(err, tt.err) {
				t.Errorf("Link error = %v, want %v", err, tt.err)
			}
		})
	}
}

// Branch targets within range resolve to the extremes of the signed byte.
func TestLinkRelativeBounds(t *testing.T) {
	// 127 forward: B at 0, target at 127.
	src := "B END\n" + strings.Repeat("NOP\n", 125) + "END:\n"
	a := assembleLink(t, src)
	if got := a.Text().Content[1]; got != 0x7f {
		t.Errorf("forward branch byte = %#02x, want 0x7f", got)
	}

	// -128 backward: target 0, branch byte at 129.
	src = "START:\n" + strings.Repeat("NOP\n", 128) + "B START\n"
	a = assembleLink(t, src)
	if got := a.Text().Content[129]; got != 0x80 {
		t.Errorf("backward branch byte = %#02x, want 0x80", got)
	}
}
