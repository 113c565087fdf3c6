package preview

import (
	"bytes"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmars/wadc"
)

const room = `
main {
  straight(256) rotright straight(256) rotright
  straight(256) rotright straight(256) rotright
  rightsector(0, 128, 160)
  step(128, 128) thing step(64, 0)
}
`

func run(t *testing.T, src string) *wadc.Result {
	t.Helper()
	config := wadc.DefaultConfig()
	config.Seed = 1
	w := wadc.New(config)
	w.Logger().SetOutput(io.Discard, io.Discard)
	res, err := w.Compile("room.wl", src)
	require.NoError(t, err)
	return res
}

// count returns how many pixels match want, or differ from it when invert
func count(c *Canvas, want color.Color, invert bool) int {
	r, g, b, a := want.RGBA()
	n := 0
	img := c.Image()
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			r2, g2, b2, a2 := img.At(x, y).RGBA()
			if (r == r2 && g == g2 && b == b2 && a == a2) != invert {
				n++
			}
		}
	}
	return n
}

func TestRenderDrawsWalls(t *testing.T) {
	c := Render(run(t, room), 200, 150)
	w, h := c.Size()
	assert.Equal(t, 200, w)
	assert.Equal(t, 150, h)
	assert.Greater(t, count(c, wadc.ColorBackground, true), 400)
	assert.Equal(t, 9, count(c, wadc.ColorThing, false))
}

func TestClip(t *testing.T) {
	x1, y1, x2, y2, ok := clip(-50, 10, 150, 10, 100, 100)
	require.True(t, ok)
	assert.InDelta(t, 1, x1, 1e-9)
	assert.InDelta(t, 99, x2, 1e-9)
	assert.InDelta(t, 10, y1, 1e-9)
	assert.InDelta(t, 10, y2, 1e-9)

	_, _, _, _, ok = clip(-50, -10, 150, -10, 100, 100)
	assert.False(t, ok)
}

func TestOffscreenLineIsIgnored(t *testing.T) {
	c := NewCanvas(20, 20)
	c.Clear(color.Black)
	c.DrawLine(-100, -100, -50, -60, color.White)
	assert.Equal(t, 20*20, count(c, color.Black, false))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.png")
	require.NoError(t, WriteFile(path, run(t, room), 64, 48))

	var buf bytes.Buffer
	require.NoError(t, Render(run(t, room), 64, 48).Encode(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
}
