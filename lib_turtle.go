package wadc

import "math"

// noArgs registers a zero-argument builtin that only has effects
func (w *WadC) noArgs(name string, fn func(ctx *Context) error) {
	w.RegisterBuiltin(name, 0, func(ctx *Context) (Value, error) {
		return Void, fn(ctx)
	})
}

// intArgs registers an effect-only builtin taking n integers
func (w *WadC) intArgs(name string, n int, fn func(ctx *Context, args []int) error) {
	w.RegisterBuiltin(name, n, func(ctx *Context) (Value, error) {
		args, err := ctx.Ints()
		if err != nil {
			return Void, err
		}
		return Void, fn(ctx, args)
	})
}

// lineTo draws from the turtle to p and moves there
func lineTo(ctx *Context, p Point) {
	t := ctx.Turtle()
	ctx.Geometry().AddLine(Point{t.X, t.Y}, p, t)
	t.X, t.Y = p.X, p.Y
}

// maxCurveSubdiv bounds the segments a single curve call may draw
const maxCurveSubdiv = 1024

// curvePoints samples the quadratic curve from the turtle through the
// control point forward units ahead to the end point forward/side away.
func curvePoints(t *Turtle, forward, side, subdiv int) []Point {
	start := Point{t.X, t.Y}
	ctrl := t.Relative(float64(forward), 0)
	end := t.Relative(float64(forward), float64(side))
	pts := make([]Point, 0, subdiv)
	for i := 1; i <= subdiv; i++ {
		u := float64(i) / float64(subdiv)
		a, b, c := (1-u)*(1-u), 2*(1-u)*u, u*u
		pts = append(pts, Point{
			X: roundInt(a*float64(start.X) + b*float64(ctrl.X) + c*float64(end.X)),
			Y: roundInt(a*float64(start.Y) + b*float64(ctrl.Y) + c*float64(end.Y)),
		})
	}
	return pts
}

func roundInt(f float64) int {
	return int(math.Round(f))
}

// RegisterTurtleLib registers the cursor movement and line drawing builtins
func (w *WadC) RegisterTurtleLib() {

	// ==================== drawing ====================

	// straight - draws a line forward
	w.intArgs("straight", 1, func(ctx *Context, a []int) error {
		lineTo(ctx, ctx.Turtle().Relative(float64(a[0]), 0))
		return nil
	})

	// draw - draws a line to a point relative to the cursor, heading kept
	w.intArgs("draw", 2, func(ctx *Context, a []int) error {
		lineTo(ctx, ctx.Turtle().Relative(float64(a[0]), float64(a[1])))
		return nil
	})

	// curve - draws subdiv segments along a curve tangent to the heading.
	// A sideways offset leaves the turtle turned a quarter towards it.
	w.intArgs("curve", 3, func(ctx *Context, a []int) error {
		if a[2] < 1 || a[2] > maxCurveSubdiv {
			return ctx.Fail("subdivisions must be between 1 and %d, got %d", maxCurveSubdiv, a[2])
		}
		t := ctx.Turtle()
		for _, p := range curvePoints(t, a[0], a[1], a[2]) {
			lineTo(ctx, p)
		}
		switch {
		case a[1] > 0:
			t.Turn(90)
		case a[1] < 0:
			t.Turn(-90)
		}
		return nil
	})

	w.intArgs("left", 1, func(ctx *Context, a []int) error {
		ctx.Turtle().Turn(-90)
		lineTo(ctx, ctx.Turtle().Relative(float64(a[0]), 0))
		return nil
	})

	w.intArgs("right", 1, func(ctx *Context, a []int) error {
		ctx.Turtle().Turn(90)
		lineTo(ctx, ctx.Turtle().Relative(float64(a[0]), 0))
		return nil
	})

	// ==================== movement ====================

	// step - jumps without drawing
	w.intArgs("step", 2, func(ctx *Context, a []int) error {
		t := ctx.Turtle()
		p := t.Relative(float64(a[0]), float64(a[1]))
		t.X, t.Y = p.X, p.Y
		return nil
	})

	w.noArgs("rotleft", func(ctx *Context) error {
		ctx.Turtle().Turn(-90)
		return nil
	})
	w.noArgs("rotright", func(ctx *Context) error {
		ctx.Turtle().Turn(90)
		return nil
	})
	w.noArgs("turnaround", func(ctx *Context) error {
		ctx.Turtle().Turn(180)
		return nil
	})

	// rotate - turns clockwise by an arbitrary number of degrees
	w.intArgs("rotate", 1, func(ctx *Context, a []int) error {
		ctx.Turtle().Turn(a[0])
		return nil
	})

	// ==================== texture alignment ====================

	w.intArgs("xoff", 1, func(ctx *Context, a []int) error {
		ctx.Turtle().XOff = a[0]
		return nil
	})
	w.intArgs("yoff", 1, func(ctx *Context, a []int) error {
		ctx.Turtle().YOff = a[0]
		return nil
	})

	// ==================== queries ====================

	w.RegisterBuiltin("getx", 0, func(ctx *Context) (Value, error) {
		return IntVal(ctx.Turtle().X), nil
	})
	w.RegisterBuiltin("gety", 0, func(ctx *Context) (Value, error) {
		return IntVal(ctx.Turtle().Y), nil
	})
	w.RegisterBuiltin("getorient", 0, func(ctx *Context) (Value, error) {
		return IntVal(ctx.Turtle().Heading), nil
	})
}
