package wadc

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmars/wadc/pkg/wad"
)

func TestEmptyGeometryGivesEmptyDirectory(t *testing.T) {
	res := compile(t, newTestWadC(), `main { 0 }`)
	data, err := res.WadBytes()
	require.NoError(t, err)
	require.Len(t, data, 12)
	assert.Equal(t, "PWAD", string(data[:4]))
	assert.Equal(t, int32(0), int32(binary.LittleEndian.Uint32(data[4:8])))
	assert.Equal(t, int32(12), int32(binary.LittleEndian.Uint32(data[8:12])))

	decoded, err := wad.Decode(data)
	require.NoError(t, err)
	assert.Empty(t, decoded.Lumps)
}

func TestSquareRoomWad(t *testing.T) {
	res := compile(t, newTestWadC(), squareRoom)
	data, err := res.WadBytes()
	require.NoError(t, err)

	w, err := wad.Decode(data)
	require.NoError(t, err)
	names := make([]string, len(w.Lumps))
	for i, l := range w.Lumps {
		names[i] = l.Name
	}
	assert.Equal(t, []string{
		"MAP01", "THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES", "SEGS",
		"SSECTORS", "NODES", "SECTORS", "REJECT", "BLOCKMAP",
	}, names)

	m, err := w.ReadMap("MAP01")
	require.NoError(t, err)
	require.Len(t, m.Linedefs, 4)
	require.Len(t, m.Sidedefs, 4)
	require.Len(t, m.Vertexes, 4)
	require.Len(t, m.Sectors, 1)
	for _, l := range m.Linedefs {
		assert.Equal(t, int16(LineImpassable), l.Flags)
		assert.Equal(t, int16(wad.NoSide), l.Left)
	}
	assert.Equal(t, "STARTAN3", wad.NameString(m.Sidedefs[0].Middle))
	assert.Equal(t, "FLOOR4_8", wad.NameString(m.Sectors[0].FloorTex))
	assert.Equal(t, int16(160), m.Sectors[0].Light)
}

func TestTwoSidedLinesLoseMiddleTexture(t *testing.T) {
	res := compile(t, newTestWadC(), `
		#"standard.h"
		main {
		  box(0, 128, 160, 256, 256)
		  step(64, 64)
		  ibox(32, 128, 200, 64, 64)
		}
	`)
	w, err := res.Wad()
	require.NoError(t, err)
	m, err := w.ReadMap("MAP01")
	require.NoError(t, err)

	twoSided := 0
	for _, l := range m.Linedefs {
		if l.Flags&LineTwoSided == 0 {
			continue
		}
		twoSided++
		assert.Equal(t, "-", wad.NameString(m.Sidedefs[l.Right].Middle))
		assert.Equal(t, "-", wad.NameString(m.Sidedefs[l.Left].Middle))
	}
	assert.Equal(t, 4, twoSided)
}

func TestLeftOnlyLinesAreFlipped(t *testing.T) {
	res := compile(t, newTestWadC(), `
		main {
		  straight(64) rotleft straight(64) rotleft straight(64) rotleft straight(64)
		  leftsector(0, 128, 160)
		}
	`)
	m, _, err := res.Geometry.Map("MAP01")
	require.NoError(t, err)
	for _, l := range m.Linedefs {
		assert.GreaterOrEqual(t, l.Right, int16(0), "front side must exist")
		assert.Equal(t, int16(wad.NoSide), l.Left)
	}
}

func TestUnclosedLinesAreDropped(t *testing.T) {
	res := compile(t, newTestWadC(), `main { straight(64) }`)
	m, dropped, err := res.Geometry.Map("MAP01")
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	assert.Empty(t, m.Linedefs)
}

func TestCoordinateOutOfRange(t *testing.T) {
	res := compile(t, newTestWadC(), `main { straight(40000) rotright straight(64) rotright straight(40000) rotright straight(64) rightsector(0, 128, 160) }`)
	_, err := res.WadBytes()
	assert.Error(t, err)
}

func TestThingOutOfRange(t *testing.T) {
	res := compile(t, newTestWadC(), `main { step(40000, 0) thing }`)
	_, err := res.WadBytes()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "thing y coordinate 40000")
}

func TestSectorHeightOutOfRange(t *testing.T) {
	res := compile(t, newTestWadC(), `main { straight(64) rotright straight(64) rotright straight(64) rotright straight(64) rightsector(0, 40000, 160) }`)
	_, _, err := res.Geometry.Map("MAP01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sector ceiling height 40000")

	_, err = res.WadBytes()
	assert.Error(t, err)
}

func TestTextureLumps(t *testing.T) {
	res := compile(t, newTestWadC(), `main { texture("WALL1", 128, 64) patch("P1", 0, 0) patch("P2", 64, 0) }`)
	w, err := res.Wad()
	require.NoError(t, err)
	require.Len(t, w.Lumps, 2, "texture-only run writes no map lumps")

	tex, ok := w.Lump("TEXTURE2")
	require.True(t, ok)
	// count, one offset, 22 byte maptexture, two 10 byte mappatches
	assert.Len(t, tex.Data, 4+4+22+2*10)

	pnames, ok := w.Lump("PNAMES")
	require.True(t, ok)
	assert.Len(t, pnames.Data, 4+2*8)
	assert.True(t, bytes.HasPrefix(pnames.Data[4:], []byte("P1\x00")))
}

func TestSerializationIsDeterministic(t *testing.T) {
	res := compile(t, newTestWadC(), squareRoom)
	a, err := res.WadBytes()
	require.NoError(t, err)
	b, err := res.WadBytes()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWriteWad(t *testing.T) {
	res := compile(t, newTestWadC(), squareRoom)
	path := filepath.Join(t.TempDir(), "room.wad")
	require.NoError(t, res.WriteWad(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PWAD", string(data[:4]))
}
