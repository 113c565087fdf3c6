package wad

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// NoSide is the sidedef index of a missing line side
const NoSide = -1

// Thing is a 10 byte THINGS record
type Thing struct {
	X, Y  int16
	Angle int16
	Type  int16
	Flags int16
}

// Linedef is a 14 byte LINEDEFS record
type Linedef struct {
	V1, V2  int16
	Flags   int16
	Special int16
	Tag     int16
	Right   int16
	Left    int16
}

// Sidedef is a 30 byte SIDEDEFS record
type Sidedef struct {
	XOff, YOff int16
	Upper      [8]byte
	Lower      [8]byte
	Middle     [8]byte
	Sector     int16
}

// Vertex is a 4 byte VERTEXES record
type Vertex struct {
	X, Y int16
}

// Sector is a 26 byte SECTORS record
type Sector struct {
	Floor, Ceil int16
	FloorTex    [8]byte
	CeilTex     [8]byte
	Light       int16
	Special     int16
	Tag         int16
}

// Map is one level's worth of records
type Map struct {
	Name     string
	Things   []Thing
	Linedefs []Linedef
	Sidedefs []Sidedef
	Vertexes []Vertex
	Sectors  []Sector
}

func encode(records interface{}) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, records)
	return buf.Bytes()
}

// AddMap appends the marker and lumps of m in engine order. Node builder
// lumps are written empty for an external builder to fill.
func (w *Wad) AddMap(m *Map) {
	w.Add(m.Name, nil)
	w.Add("THINGS", encode(m.Things))
	w.Add("LINEDEFS", encode(m.Linedefs))
	w.Add("SIDEDEFS", encode(m.Sidedefs))
	w.Add("VERTEXES", encode(m.Vertexes))
	w.Add("SEGS", nil)
	w.Add("SSECTORS", nil)
	w.Add("NODES", nil)
	w.Add("SECTORS", encode(m.Sectors))
	w.Add("REJECT", nil)
	w.Add("BLOCKMAP", nil)
}

// DecodeRecords splits a lump into fixed-size records of type T
func DecodeRecords[T any](data []byte) ([]T, error) {
	var zero T
	size := binary.Size(zero)
	if size <= 0 || len(data)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrFormat, len(data), size)
	}
	out := make([]T, len(data)/size)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadMap decodes the map whose marker lump is called name
func (w *Wad) ReadMap(name string) (*Map, error) {
	start := -1
	for i, l := range w.Lumps {
		if l.Name == name {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("wad: no map %s", name)
	}
	m := &Map{Name: name}
	var err error
	for _, l := range w.Lumps[start+1:] {
		switch l.Name {
		case "THINGS":
			m.Things, err = DecodeRecords[Thing](l.Data)
		case "LINEDEFS":
			m.Linedefs, err = DecodeRecords[Linedef](l.Data)
		case "SIDEDEFS":
			m.Sidedefs, err = DecodeRecords[Sidedef](l.Data)
		case "VERTEXES":
			m.Vertexes, err = DecodeRecords[Vertex](l.Data)
		case "SECTORS":
			m.Sectors, err = DecodeRecords[Sector](l.Data)
		case "SEGS", "SSECTORS", "NODES", "REJECT":
		case "BLOCKMAP":
			return m, nil
		default:
			return m, nil
		}
		if err != nil {
			return nil, fmt.Errorf("wad: %s: %w", l.Name, err)
		}
	}
	return m, nil
}

// PatchRef places a patch inside a texture
type PatchRef struct {
	Name string
	X, Y int16
}

// Texture is a composite wall texture definition
type Texture struct {
	Name          string
	Width, Height int16
	Patches       []PatchRef
}

type maptexture struct {
	Name       [8]byte
	Masked     int32
	Width      int16
	Height     int16
	ColumnDir  int32
	PatchCount int16
}

type mappatch struct {
	OriginX  int16
	OriginY  int16
	Patch    int16
	StepDir  int16
	Colormap int16
}

// AddTextures appends TEXTURE2 and PNAMES lumps. Patch names are numbered
// in first-use order.
func (w *Wad) AddTextures(textures []Texture) {
	var pnames [][8]byte
	index := make(map[[8]byte]int16)
	patchIndex := func(name string) int16 {
		n := Name8(name)
		if i, ok := index[n]; ok {
			return i
		}
		i := int16(len(pnames))
		index[n] = i
		pnames = append(pnames, n)
		return i
	}

	var body bytes.Buffer
	offsets := make([]int32, len(textures))
	base := int32(4 + 4*len(textures))
	for i, t := range textures {
		offsets[i] = base + int32(body.Len())
		_ = binary.Write(&body, binary.LittleEndian, maptexture{
			Name:       Name8(t.Name),
			Width:      t.Width,
			Height:     t.Height,
			PatchCount: int16(len(t.Patches)),
		})
		for _, p := range t.Patches {
			_ = binary.Write(&body, binary.LittleEndian, mappatch{
				OriginX: p.X,
				OriginY: p.Y,
				Patch:   patchIndex(p.Name),
				StepDir: 1,
			})
		}
	}

	var tex bytes.Buffer
	_ = binary.Write(&tex, binary.LittleEndian, int32(len(textures)))
	_ = binary.Write(&tex, binary.LittleEndian, offsets)
	tex.Write(body.Bytes())
	w.Add("TEXTURE2", tex.Bytes())

	var pn bytes.Buffer
	_ = binary.Write(&pn, binary.LittleEndian, int32(len(pnames)))
	_ = binary.Write(&pn, binary.LittleEndian, pnames)
	w.Add("PNAMES", pn.Bytes())
}
