package wadc

import "image/color"

// Surface is the 2D drawing target supplied by a host
type Surface interface {
	Size() (w, h int)
	Clear(c color.Color)
	DrawLine(x1, y1, x2, y2 float64, c color.Color)
	DrawPoint(x, y float64, c color.Color)
}

// Palette used by Draw
var (
	ColorBackground = color.RGBA{0, 0, 0, 255}
	ColorWall       = color.RGBA{255, 255, 255, 255}
	ColorTwoSided   = color.RGBA{128, 128, 128, 255}
	ColorSpecial    = color.RGBA{255, 255, 0, 255}
	ColorUnclosed   = color.RGBA{255, 64, 64, 255}
	ColorThing      = color.RGBA{0, 255, 0, 255}
	ColorCursor     = color.RGBA{64, 128, 255, 255}
	ColorPreview    = color.RGBA{255, 128, 0, 255}
)

func lineColor(l Line) color.Color {
	switch {
	case l.Right < 0 && l.Left < 0:
		return ColorUnclosed
	case l.Special != 0:
		return ColorSpecial
	case l.TwoSided():
		return ColorTwoSided
	default:
		return ColorWall
	}
}

// Draw paints the geometry of res through v. A nil result only clears the
// surface.
func Draw(s Surface, res *Result, v View) {
	s.Clear(ColorBackground)
	if res == nil {
		return
	}
	g := res.Geometry
	for _, l := range g.Lines {
		x1, y1 := v.ToScreen(g.Vertices[l.V1])
		x2, y2 := v.ToScreen(g.Vertices[l.V2])
		s.DrawLine(x1, y1, x2, y2, lineColor(l))
	}
	for _, t := range g.Things {
		x, y := v.ToScreen(Point{t.X, t.Y})
		s.DrawPoint(x, y, ColorThing)
	}
	drawCursor(s, res.Turtle, v)
}

// drawCursor marks the turtle with a short tick along its heading
func drawCursor(s Surface, t Turtle, v View) {
	x, y := v.ToScreen(Point{t.X, t.Y})
	tip := t.Relative(8*v.Scale, 0)
	tx, ty := v.ToScreen(tip)
	s.DrawPoint(x, y, ColorCursor)
	s.DrawLine(x, y, tx, ty, ColorCursor)
}

// DrawSegment paints a crosshair preview
func DrawSegment(s Surface, seg Segment, v View) {
	x1, y1 := v.ToScreen(seg.From)
	x2, y2 := v.ToScreen(seg.To)
	s.DrawLine(x1, y1, x2, y2, ColorPreview)
	s.DrawPoint(x2, y2, ColorPreview)
}
