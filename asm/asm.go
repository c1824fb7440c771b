// Package asm implements the SCISA assembler and linker.
//
// Assembling is two passes: Assemble turns source text into an Assembly
// holding the TEXT and DATA byte streams, the label and define tables and a
// relocation list; Link then resolves every relocation against the labels
// and patches the placeholder bytes in TEXT.
package asm

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/mortie/scisa/op"
)

// Assemble reads assembly source from r and returns the populated Assembly.
// The name parameter is only used in error messages; if r is a file, pass
// the file name.
func Assemble(name string, r io.Reader) (*Assembly, error) {
	a := NewAssembly()
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		if err := assembleLine(a, scanner.Text()); err != nil {
			return nil, errors.Wrapf(err, "%s:%d", name, lineno)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, name)
	}
	return a, nil
}

func assembleLine(a *Assembly, line string) error {
	if i := strings.IndexByte(line, op.CommentChar); i >= 0 {
		line = line[:i]
	}

	line = skipSpace(line)
	if line == "" {
		return nil
	}

	// The leading token: an identifier, optionally preceded by '.' for
	// directives.
	i := 0
	if isInitialIdent(line[0]) || line[0] == op.DirectiveChar {
		i = 1
		for i < len(line) && isIdent(line[i]) {
			i++
		}
	}
	tok := strings.ToUpper(line[:i])
	rest := skipSpace(line[i:])

	if rest != "" && rest[0] == op.LabelChar {
		if !isIdentStr(tok) {
			return ErrBadLabelName
		}
		if skipSpace(rest[1:]) != "" {
			return errors.Wrap(ErrTrailingGarbage, "after label")
		}
		if _, ok := a.Labels[tok]; ok {
			return errors.Wrap(ErrDuplicateLabel, tok)
		}
		a.Labels[tok] = Label{
			Section: a.Current,
			Offset:  len(a.current().Content),
		}
		return nil
	}

	param := trimRightSpace(rest)

	if tok == "" {
		return ErrUnknownInstr
	}

	if tok[0] == op.DirectiveChar {
		// Directive parameters keep their case: .ASCII strings must
		// survive verbatim.
		return handleDirective(a, tok, param)
	}

	return emitInstr(a, tok, strings.ToUpper(param))
}
