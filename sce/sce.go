// Package sce reads and writes the SCE object container: a 4-byte magic
// followed by any number of sections, each a 4-byte ASCII name, a 4-byte
// little-endian size, and that many bytes of content.
package sce

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Magic opens every SCE file: ESC 'S' 'C' 'E'.
var Magic = [4]byte{0x1b, 'S', 'C', 'E'}

var endian = binary.LittleEndian

var (
	ErrBadMagic       = errors.New("missing magic")
	ErrShortRead      = errors.New("short read")
	ErrUnknownSection = errors.New("unknown section name")
)

// Object is a decoded SCE image.
type Object struct {
	Text []byte
	Data []byte
}

// Encode writes the object to w, TEXT section first.
func Encode(w io.Writer, obj *Object) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return errors.Wrap(err, "write magic")
	}
	if err := writeSection(w, "TEXT", obj.Text); err != nil {
		return err
	}
	return writeSection(w, "DATA", obj.Data)
}

func writeSection(w io.Writer, name string, content []byte) error {
	hdr := make([]byte, 8)
	copy(hdr, name)
	endian.PutUint32(hdr[4:], uint32(len(content)))
	if _, err := w.Write(hdr); err != nil {
		return errors.Wrapf(err, "write %s header", name)
	}
	if _, err := w.Write(content); err != nil {
		return errors.Wrapf(err, "write %s content", name)
	}
	return nil
}

// Decode reads an SCE image from r. End of input terminates the section
// list; a truncated header or section body is an error.
func Decode(r io.Reader) (*Object, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, ErrBadMagic
	}
	if magic != Magic {
		return nil, ErrBadMagic
	}

	obj := &Object{}
	for {
		var hdr [8]byte
		_, err := io.ReadFull(r, hdr[:])
		if err == io.EOF {
			return obj, nil
		}
		if err != nil {
			return nil, errors.Wrap(ErrShortRead, "section header")
		}

		size := endian.Uint32(hdr[4:])
		content := make([]byte, size)
		if _, err := io.ReadFull(r, content); err != nil {
			return nil, errors.Wrap(ErrShortRead, "section content")
		}

		switch string(hdr[:4]) {
		case "TEXT":
			obj.Text = content
		case "DATA":
			obj.Data = content
		default:
			return nil, errors.Wrapf(ErrUnknownSection, "%q", hdr[:4])
		}
	}
}

// Load reads an SCE image from the file at path.
func Load(path string) (*Object, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "load")
	}
	defer f.Close()
	return Decode(f)
}
