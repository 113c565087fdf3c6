package wadc

import "strings"

// intOp registers a two-argument integer builtin
func (w *WadC) intOp(name string, op func(ctx *Context, a, b int) (Value, error)) {
	w.RegisterBuiltin(name, 2, func(ctx *Context) (Value, error) {
		a, err := ctx.Int(0)
		if err != nil {
			return Void, err
		}
		b, err := ctx.Int(1)
		if err != nil {
			return Void, err
		}
		return op(ctx, a, b)
	})
}

// RegisterMathLib registers arithmetic, comparison and value builtins
func (w *WadC) RegisterMathLib() {

	// ==================== arithmetic ====================

	w.intOp("add", func(_ *Context, a, b int) (Value, error) { return IntVal(a + b), nil })
	w.intOp("sub", func(_ *Context, a, b int) (Value, error) { return IntVal(a - b), nil })
	w.intOp("mul", func(_ *Context, a, b int) (Value, error) { return IntVal(a * b), nil })

	// div - truncating integer division
	w.intOp("div", func(ctx *Context, a, b int) (Value, error) {
		if b == 0 {
			return Void, ctx.Fail("division by zero")
		}
		return IntVal(a / b), nil
	})

	w.intOp("mod", func(ctx *Context, a, b int) (Value, error) {
		if b == 0 {
			return Void, ctx.Fail("division by zero")
		}
		return IntVal(a % b), nil
	})

	w.RegisterBuiltin("neg", 1, func(ctx *Context) (Value, error) {
		n, err := ctx.Int(0)
		if err != nil {
			return Void, err
		}
		return IntVal(-n), nil
	})

	// ==================== comparison ====================

	// eq - compares two ints or two strings
	w.RegisterBuiltin("eq", 2, func(ctx *Context) (Value, error) {
		a, b := ctx.Args[0], ctx.Args[1]
		if a.Kind != b.Kind || a.Kind == VoidValue {
			return Void, newError(ErrType, ctx.Position, "eq: cannot compare %s with %s", a.Kind, b.Kind)
		}
		return BoolVal(a.Equal(b)), nil
	})

	w.intOp("lessthan", func(_ *Context, a, b int) (Value, error) { return BoolVal(a < b), nil })

	// ==================== strings ====================

	w.RegisterBuiltin("concat", 2, func(ctx *Context) (Value, error) {
		a, err := ctx.String(0)
		if err != nil {
			return Void, err
		}
		b, err := ctx.String(1)
		if err != nil {
			return Void, err
		}
		return StrVal(a + b), nil
	})

	// str - formats an integer as a string
	w.RegisterBuiltin("str", 1, func(ctx *Context) (Value, error) {
		n, err := ctx.Int(0)
		if err != nil {
			return Void, err
		}
		return StrVal(IntVal(n).String()), nil
	})

	// ==================== runtime ====================

	// print - writes its arguments to the message area
	w.RegisterBuiltin("print", -1, func(ctx *Context) (Value, error) {
		parts := make([]string, len(ctx.Args))
		for i, a := range ctx.Args {
			parts[i] = a.String()
		}
		ctx.Logger().NoticeCat(CatEval, "%s", strings.Join(parts, " "))
		return Void, nil
	})

	// die - aborts the run with a message
	w.RegisterBuiltin("die", 1, func(ctx *Context) (Value, error) {
		return Void, ctx.Fail("%s", ctx.Args[0].String())
	})

	// seed - restarts the choice generator so a layout can be reproduced
	w.RegisterBuiltin("seed", 1, func(ctx *Context) (Value, error) {
		n, err := ctx.Int(0)
		if err != nil {
			return Void, err
		}
		ctx.State().Reseed(uint64(n))
		return Void, nil
	})

	// set / get - the value part of the global slots shared with !name
	w.RegisterBuiltin("set", 2, func(ctx *Context) (Value, error) {
		name, err := ctx.String(0)
		if err != nil {
			return Void, err
		}
		ctx.State().SetValue(name, ctx.Args[1])
		return ctx.Args[1], nil
	})

	w.RegisterBuiltin("get", 1, func(ctx *Context) (Value, error) {
		name, err := ctx.String(0)
		if err != nil {
			return Void, err
		}
		slot, ok := ctx.State().Slot(name)
		if !ok {
			return Void, newError(ErrUndefined, ctx.Position, "get: %s was never set", name)
		}
		return slot.Value, nil
	})
}
