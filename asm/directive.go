package asm

import (
	"github.com/pkg/errors"
)

// handleDirective processes a '.'-prefixed line. The directive name arrives
// uppercased, the parameter verbatim.
func handleDirective(a *Assembly, name, param string) error {
	switch name {
	case ".TEXT":
		if param != "" {
			return errors.Wrap(ErrExtraParameter, name)
		}
		a.Current = SectionText
		return nil

	case ".DATA":
		if param != "" {
			return errors.Wrap(ErrExtraParameter, name)
		}
		a.Current = SectionData
		return nil

	case ".ASCII":
		return emitString(a, param, false)

	case ".STRING":
		return emitString(a, param, true)

	case ".BYTE":
		if !isNumericStr(param) {
			return errors.Wrap(ErrBadValue, param)
		}
		a.emit(byte(parseNumeric(param)))
		return nil

	case ".WORD":
		if !isNumericStr(param) {
			return errors.Wrap(ErrBadValue, param)
		}
		num := uint16(parseNumeric(param))
		a.emit(byte(num&0x00ff), byte(num>>8))
		return nil

	case ".DEFINE":
		return handleDefine(a, param)
	}

	return errors.Wrap(ErrBadDirective, name)
}

// emitString parses a quoted string with \\ \" \n \r \t \0 escapes and
// appends its bytes to the current section. zeroTerm adds a trailing 0.
func emitString(a *Assembly, param string, zeroTerm bool) error {
	if param == "" || param[0] != '"' {
		return ErrExpectedQuote
	}

	i := 1
	for {
		if i >= len(param) {
			return ErrUnexpectedEOF
		}
		ch := param[i]
		i++

		if ch == '"' {
			break
		}

		if ch != '\\' {
			a.emit(ch)
			continue
		}

		if i >= len(param) {
			return ErrUnexpectedEOF
		}
		ch = param[i]
		i++
		switch ch {
		case '\\', '"':
			a.emit(ch)
		case 'n':
			a.emit('\n')
		case 'r':
			a.emit('\r')
		case 't':
			a.emit('\t')
		case '0':
			a.emit(0)
		default:
			return errors.Wrapf(ErrBadEscape, "\\%c", ch)
		}
	}

	if skipSpace(param[i:]) != "" {
		return errors.Wrap(ErrTrailingGarbage, "after string")
	}

	if zeroTerm {
		a.emit(0)
	}
	return nil
}

func handleDefine(a *Assembly, param string) error {
	if param == "" || !isInitialIdent(param[0]) {
		return ErrBadIdentifier
	}

	i := 1
	for i < len(param) && isIdent(param[i]) {
		i++
	}
	key := upperASCII(param[:i])

	val := skipSpace(param[i:])
	if !isNumericStr(val) {
		return errors.Wrap(ErrBadValue, val)
	}

	if _, ok := a.Defines[key]; ok {
		return errors.Wrap(ErrDuplicateDefine, key)
	}
	a.Defines[key] = parseNumeric(val)
	return nil
}

func upperASCII(s string) string {
	bs := []byte(s)
	for i, ch := range bs {
		if ch >= 'a' && ch <= 'z' {
			bs[i] = ch - 32
		}
	}
	return string(bs)
}
