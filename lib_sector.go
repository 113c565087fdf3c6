package wadc

// textureSetter registers a one-string builtin updating the drawing context
func (w *WadC) textureSetter(name string, set func(t *Turtle, tex string)) {
	w.RegisterBuiltin(name, 1, func(ctx *Context) (Value, error) {
		tex, err := ctx.String(0)
		if err != nil {
			return Void, err
		}
		set(ctx.Turtle(), tex)
		return Void, nil
	})
}

// closeSector turns the pending lines into a sector
func closeSector(ctx *Context, args []int, onRight, inner bool) error {
	t := ctx.Turtle()
	g := ctx.Geometry()
	if g.Pending() == 0 {
		ctx.Logger().WarnCat(CatGeometry, "%s [%s]: no lines drawn since the last sector", ctx.Name, ctx.Position)
	}
	if inner && g.CurrentSector() < 0 {
		return ctx.Fail("no enclosing sector")
	}
	id, replaced := g.CloseSector(Sector{
		Floor:    args[0],
		Ceil:     args[1],
		Light:    args[2],
		FloorTex: t.FloorTex,
		CeilTex:  t.CeilTex,
		Special:  t.SectorSpecial,
		Tag:      t.SectorTag,
	}, onRight, inner)
	if replaced > 0 {
		ctx.Logger().DebugCat(CatGeometry, "sector %d replaced %d existing sides", id, replaced)
	}
	return nil
}

// RegisterSectorLib registers the drawing-context, sector, thing and
// texture builtins.
func (w *WadC) RegisterSectorLib() {

	// ==================== drawing context ====================

	w.textureSetter("top", func(t *Turtle, tex string) { t.Top = tex })
	w.textureSetter("mid", func(t *Turtle, tex string) { t.Mid = tex })
	w.textureSetter("bot", func(t *Turtle, tex string) { t.Bot = tex })
	w.textureSetter("floor", func(t *Turtle, tex string) { t.FloorTex = tex })
	w.textureSetter("ceil", func(t *Turtle, tex string) { t.CeilTex = tex })

	// linetype - special and tag of subsequently drawn lines
	w.intArgs("linetype", 2, func(ctx *Context, a []int) error {
		t := ctx.Turtle()
		t.LineSpecial, t.LineTag = a[0], a[1]
		return nil
	})

	// sectortype - special and tag of subsequently closed sectors
	w.intArgs("sectortype", 2, func(ctx *Context, a []int) error {
		t := ctx.Turtle()
		t.SectorSpecial, t.SectorTag = a[0], a[1]
		return nil
	})

	// impassable - toggles the blocking flag for subsequently drawn lines
	w.noArgs("impassable", func(ctx *Context) error {
		ctx.Turtle().LineFlags ^= LineImpassable
		return nil
	})

	// light - changes the light level of the innermost open sector
	w.intArgs("light", 1, func(ctx *Context, a []int) error {
		g := ctx.Geometry()
		id := g.CurrentSector()
		if id < 0 {
			return ctx.Fail("no sector to light")
		}
		g.Sectors[id].Light = a[0]
		return nil
	})

	// ==================== sectors ====================

	w.intArgs("rightsector", 3, func(ctx *Context, a []int) error {
		return closeSector(ctx, a, true, false)
	})
	w.intArgs("leftsector", 3, func(ctx *Context, a []int) error {
		return closeSector(ctx, a, false, false)
	})
	w.intArgs("innerrightsector", 3, func(ctx *Context, a []int) error {
		return closeSector(ctx, a, true, true)
	})
	w.intArgs("innerleftsector", 3, func(ctx *Context, a []int) error {
		return closeSector(ctx, a, false, true)
	})

	w.noArgs("popsector", func(ctx *Context) error {
		if !ctx.Geometry().PopSector() {
			return ctx.Fail("no open sector")
		}
		return nil
	})

	// ==================== things ====================

	w.noArgs("thing", func(ctx *Context) error {
		ctx.Geometry().AddThing(ctx.Turtle())
		return nil
	})

	w.intArgs("setthing", 1, func(ctx *Context, a []int) error {
		ctx.Turtle().ThingType = a[0]
		return nil
	})

	// thingangle - fixed facing for placed things, -1 follows the heading
	w.intArgs("thingangle", 1, func(ctx *Context, a []int) error {
		ctx.Turtle().ThingAngle = a[0]
		return nil
	})

	// skill selection: things appear from the named skill upwards
	skill := map[string]int{
		"easy":          ThingEasy | ThingMedium | ThingHard,
		"hurtmeplenty":  ThingMedium | ThingHard,
		"ultraviolence": ThingHard,
	}
	for name, bits := range skill {
		bits := bits
		w.noArgs(name, func(ctx *Context) error {
			t := ctx.Turtle()
			t.ThingFlags = t.ThingFlags&^ThingAll | bits
			return nil
		})
	}

	w.noArgs("deaf", func(ctx *Context) error {
		ctx.Turtle().ThingFlags ^= ThingDeaf
		return nil
	})
	w.noArgs("friendly", func(ctx *Context) error {
		ctx.Turtle().ThingFlags ^= ThingFriendly
		return nil
	})

	// ==================== textures ====================

	// texture - defines a composite texture and selects it for patch
	w.RegisterBuiltin("texture", 3, func(ctx *Context) (Value, error) {
		name, err := ctx.String(0)
		if err != nil {
			return Void, err
		}
		width, err := ctx.Int(1)
		if err != nil {
			return Void, err
		}
		height, err := ctx.Int(2)
		if err != nil {
			return Void, err
		}
		ctx.State().Textures.Begin(name, width, height)
		return Void, nil
	})

	w.RegisterBuiltin("patch", 3, func(ctx *Context) (Value, error) {
		name, err := ctx.String(0)
		if err != nil {
			return Void, err
		}
		x, err := ctx.Int(1)
		if err != nil {
			return Void, err
		}
		y, err := ctx.Int(2)
		if err != nil {
			return Void, err
		}
		if !ctx.State().Textures.AddPatch(name, x, y) {
			ctx.Logger().WarnCat(CatGeometry, "patch [%s]: %s outside of a texture, ignored", ctx.Position, name)
		}
		return Void, nil
	})

	// ==================== map ====================

	w.RegisterBuiltin("mapname", 1, func(ctx *Context) (Value, error) {
		name, err := ctx.String(0)
		if err != nil {
			return Void, err
		}
		if len(name) > 8 {
			return Void, ctx.Fail("map name %q longer than 8 characters", name)
		}
		ctx.State().MapName = name
		return Void, nil
	})
}
