package asm

import (
	"github.com/pkg/errors"
)

// Link resolves every relocation against the label table and patches the
// placeholder bytes in TEXT. On success the relocation list is consumed;
// the Assembly is then read-only.
func Link(a *Assembly) error {
	text := a.Text()
	for _, reloc := range a.Relocations {
		if reloc.Index >= len(text.Content) {
			return errors.Wrapf(ErrRelocationBounds, "index %d", reloc.Index)
		}

		label, ok := a.Labels[reloc.Label]
		if !ok {
			return errors.Wrap(ErrUnknownLabel, reloc.Label)
		}
		target := a.Section(label.Section).Offset + label.Offset

		switch reloc.Kind {
		case RelocAbsolute:
			if target < 0 || target > 255 {
				return errors.Wrap(ErrAbsoluteRange, reloc.Label)
			}
			text.Content[reloc.Index] = byte(target)

		case RelocRelative:
			rel := target - (reloc.Index + reloc.Offset)
			if rel < -128 || rel > 127 {
				return errors.Wrap(ErrRelativeRange, reloc.Label)
			}
			text.Content[reloc.Index] = byte(rel)

		default:
			return ErrBadRelocation
		}
	}

	a.Relocations = nil
	return nil
}
