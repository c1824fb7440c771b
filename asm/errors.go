package asm

import "github.com/pkg/errors"

// Stable error conditions. Assemble and Link wrap these with positional
// context; match with errors.Is.
var (
	ErrBadLabelName    = errors.New("invalid label name")
	ErrDuplicateLabel  = errors.New("duplicate label")
	ErrDuplicateDefine = errors.New("duplicate define")
	ErrTrailingGarbage = errors.New("unexpected trailing garbage")
	ErrUnknownInstr    = errors.New("unknown instruction")
	ErrBadDirective    = errors.New("invalid directive")
	ErrNoParameter     = errors.New("parameter expected")
	ErrExtraParameter  = errors.New("no parameter expected")
	ErrBadParameter    = errors.New("unsupported parameter")
	ErrBadRegister     = errors.New("bad register")
	ErrBadPopParameter = errors.New("unknown POP parameter")
	ErrBadValue        = errors.New("invalid value")
	ErrBadIdentifier   = errors.New("invalid identifier")
	ErrExpectedQuote   = errors.New("expected '\"'")
	ErrUnexpectedEOF   = errors.New("unexpected EOF")
	ErrBadEscape       = errors.New("unexpected escape")

	ErrUnknownLabel     = errors.New("invalid relocation")
	ErrAbsoluteRange    = errors.New("absolute relocation out of range")
	ErrRelativeRange    = errors.New("relative relocation out of range")
	ErrBadRelocation    = errors.New("invalid relocation type")
	ErrRelocationBounds = errors.New("relocation outside TEXT")
)
