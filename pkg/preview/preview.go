// Package preview renders a run into a raster image, for the -png flag of
// the command line tool.
package preview

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/vector"

	"github.com/redmars/wadc"
)

// Canvas is a wadc.Surface backed by an RGBA image
type Canvas struct {
	img   *image.RGBA
	Width float64 // stroke width in pixels
}

// NewCanvas creates a w×h canvas
func NewCanvas(w, h int) *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h)), Width: 1.2}
}

// Size implements wadc.Surface
func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Clear implements wadc.Surface
func (c *Canvas) Clear(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// DrawLine implements wadc.Surface
func (c *Canvas) DrawLine(x1, y1, x2, y2 float64, col color.Color) {
	w, h := c.Size()
	x1, y1, x2, y2, ok := clip(x1, y1, x2, y2, float64(w), float64(h))
	if !ok {
		return
	}
	dx, dy := x2-x1, y2-y1
	l := math.Hypot(dx, dy)
	if l < 1e-6 {
		c.DrawPoint(x1, y1, col)
		return
	}
	nx, ny := -dy/l*c.Width/2, dx/l*c.Width/2
	r := vector.NewRasterizer(w, h)
	r.MoveTo(float32(x1+nx), float32(y1+ny))
	r.LineTo(float32(x2+nx), float32(y2+ny))
	r.LineTo(float32(x2-nx), float32(y2-ny))
	r.LineTo(float32(x1-nx), float32(y1-ny))
	r.ClosePath()
	r.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}

// DrawPoint implements wadc.Surface
func (c *Canvas) DrawPoint(x, y float64, col color.Color) {
	rect := image.Rect(int(x)-1, int(y)-1, int(x)+2, int(y)+2).Intersect(c.img.Bounds())
	draw.Draw(c.img, rect, image.NewUniform(col), image.Point{}, draw.Over)
}

// Image returns the rendered image
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Encode writes the canvas as PNG
func (c *Canvas) Encode(w io.Writer) error {
	return png.Encode(w, c.img)
}

// Render draws res fitted onto a new w×h canvas
func Render(res *wadc.Result, w, h int) *Canvas {
	c := NewCanvas(w, h)
	wadc.Draw(c, res, wadc.FitView(res.Geometry, w, h))
	return c
}

// WriteFile renders res into a PNG file
func WriteFile(path string, res *wadc.Result, w, h int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Render(res, w, h).Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// clip trims a segment to the canvas less a one pixel border, leaving room
// for the stroke width (Liang-Barsky)
func clip(x1, y1, x2, y2, w, h float64) (float64, float64, float64, float64, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := x2-x1, y2-y1
	edges := [4][2]float64{
		{-dx, x1 - 1},
		{dx, w - 1 - x1},
		{-dy, y1 - 1},
		{dy, h - 1 - y1},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, r)
		}
	}
	return x1 + t0*dx, y1 + t0*dy, x1 + t1*dx, y1 + t1*dy, true
}
