package wadc

import "math"

// View maps world coordinates onto a host surface. Scale is world units
// per pixel; world y grows upwards while screen y grows downwards.
type View struct {
	XMid, YMid float64
	Scale      float64
	W, H       int
	// Zoomed is set once the user has panned or zoomed, so the next run
	// keeps looking at the same area.
	Zoomed bool
}

// FitView returns a view of size w×h showing all of g
func FitView(g *Geometry, w, h int) View {
	v := View{Scale: 1, W: w, H: h}
	lo, hi, ok := g.Bounds()
	if !ok || w <= 0 || h <= 0 {
		return v
	}
	v.XMid = float64(lo.X+hi.X) / 2
	v.YMid = float64(lo.Y+hi.Y) / 2
	// 10% margin on each side
	sx := float64(hi.X-lo.X) / (float64(w) * 0.8)
	sy := float64(hi.Y-lo.Y) / (float64(h) * 0.8)
	v.Scale = math.Max(math.Max(sx, sy), 0.05)
	return v
}

// ToScreen converts a world point into surface coordinates
func (v View) ToScreen(p Point) (float64, float64) {
	return float64(v.W)/2 + (float64(p.X)-v.XMid)/v.Scale,
		float64(v.H)/2 - (float64(p.Y)-v.YMid)/v.Scale
}

// ToWorld converts surface coordinates into a world point
func (v View) ToWorld(sx, sy float64) Point {
	return Point{
		X: int(math.Round(v.XMid + (sx-float64(v.W)/2)*v.Scale)),
		Y: int(math.Round(v.YMid - (sy-float64(v.H)/2)*v.Scale)),
	}
}

// Pan moves the view by a screen-space drag of dx, dy pixels
func (v *View) Pan(dx, dy float64) {
	v.XMid -= dx * v.Scale
	v.YMid += dy * v.Scale
	v.Zoomed = true
}

// Zoom rescales about the surface point cx, cy, which stays under the
// pointer. factor > 1 zooms out.
func (v *View) Zoom(cx, cy, factor float64) {
	if factor <= 0 {
		return
	}
	wx := v.XMid + (cx-float64(v.W)/2)*v.Scale
	wy := v.YMid - (cy-float64(v.H)/2)*v.Scale
	v.Scale *= factor
	v.XMid = wx - (cx-float64(v.W)/2)*v.Scale
	v.YMid = wy + (cy-float64(v.H)/2)*v.Scale
	v.Zoomed = true
}

// Resize changes the surface size keeping the centre
func (v *View) Resize(w, h int) {
	v.W, v.H = w, h
}

// Snap rounds p to the nearest multiple of grid
func Snap(p Point, grid int) Point {
	if grid <= 1 {
		return p
	}
	snap := func(n int) int {
		return int(math.Round(float64(n)/float64(grid))) * grid
	}
	return Point{X: snap(p.X), Y: snap(p.Y)}
}

// Segment is a preview line in world coordinates
type Segment struct {
	From, To Point
}

// Crosshair returns the segment the next interactive step would draw from
// cursor to the surface point sx, sy.
func Crosshair(v View, cursor Turtle, sx, sy float64, snap bool, grid int) Segment {
	to := v.ToWorld(sx, sy)
	if snap {
		to = Snap(to, grid)
	}
	return Segment{From: Point{cursor.X, cursor.Y}, To: to}
}
