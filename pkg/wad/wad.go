// Package wad reads and writes PWAD containers and the fixed-layout map
// records stored in them. All multi-byte fields are little-endian.
package wad

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	headerSize = 12
	dirEntry   = 16
)

// Lump is a named block of the container
type Lump struct {
	Name string
	Data []byte
}

// Wad is an ordered list of lumps
type Wad struct {
	Kind  string // "PWAD" or "IWAD"
	Lumps []Lump
}

// New creates an empty patch WAD
func New() *Wad {
	return &Wad{Kind: "PWAD"}
}

// Add appends a lump
func (w *Wad) Add(name string, data []byte) {
	w.Lumps = append(w.Lumps, Lump{Name: name, Data: data})
}

// Lump returns the first lump called name
func (w *Wad) Lump(name string) (Lump, bool) {
	for _, l := range w.Lumps {
		if l.Name == name {
			return l, true
		}
	}
	return Lump{}, false
}

// Name8 pads or truncates s to an 8 byte lump/texture name
func Name8(s string) [8]byte {
	var n [8]byte
	copy(n[:], strings.ToUpper(s))
	return n
}

// NameString strips the NUL padding of an 8 byte name
func NameString(n [8]byte) string {
	if i := bytes.IndexByte(n[:], 0); i >= 0 {
		return string(n[:i])
	}
	return string(n[:])
}

type header struct {
	Ident     [4]byte
	NumLumps  int32
	DirOffset int32
}

type entry struct {
	Offset int32
	Size   int32
	Name   [8]byte
}

// WriteTo writes the header, the lump data in order, then the directory
func (w *Wad) WriteTo(out io.Writer) (int64, error) {
	var buf bytes.Buffer
	kind := w.Kind
	if kind == "" {
		kind = "PWAD"
	}
	h := header{NumLumps: int32(len(w.Lumps))}
	copy(h.Ident[:], kind)

	offset := int32(headerSize)
	entries := make([]entry, len(w.Lumps))
	for i, l := range w.Lumps {
		entries[i] = entry{Offset: offset, Size: int32(len(l.Data)), Name: Name8(l.Name)}
		offset += int32(len(l.Data))
	}
	h.DirOffset = offset

	if err := binary.Write(&buf, binary.LittleEndian, h); err != nil {
		return 0, err
	}
	for _, l := range w.Lumps {
		buf.Write(l.Data)
	}
	if err := binary.Write(&buf, binary.LittleEndian, entries); err != nil {
		return 0, err
	}
	return buf.WriteTo(out)
}

// Bytes returns the encoded container
func (w *Wad) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = w.WriteTo(&buf)
	return buf.Bytes()
}

// ErrFormat marks data that is not a WAD
var ErrFormat = errors.New("wad: bad format")

// Decode parses a complete container
func Decode(data []byte) (*Wad, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrFormat, len(data))
	}
	var h header
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	kind := string(h.Ident[:])
	if kind != "PWAD" && kind != "IWAD" {
		return nil, fmt.Errorf("%w: identification %q", ErrFormat, kind)
	}
	end := int64(h.DirOffset) + int64(h.NumLumps)*dirEntry
	if h.NumLumps < 0 || h.DirOffset < headerSize || end > int64(len(data)) {
		return nil, fmt.Errorf("%w: directory out of range", ErrFormat)
	}
	entries := make([]entry, h.NumLumps)
	if err := binary.Read(bytes.NewReader(data[h.DirOffset:end]), binary.LittleEndian, entries); err != nil {
		return nil, err
	}
	w := &Wad{Kind: kind, Lumps: make([]Lump, len(entries))}
	for i, e := range entries {
		if e.Offset < 0 || e.Size < 0 || int64(e.Offset)+int64(e.Size) > int64(len(data)) {
			return nil, fmt.Errorf("%w: lump %s out of range", ErrFormat, NameString(e.Name))
		}
		w.Lumps[i] = Lump{Name: NameString(e.Name), Data: data[e.Offset : e.Offset+e.Size]}
	}
	return w, nil
}
