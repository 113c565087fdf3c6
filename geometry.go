package wadc

import (
	"math"
	"sort"
)

// Point is a map coordinate in engine units
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Vertex is a deduplicated map vertex
type Vertex = Point

// Line is a linedef between two vertices. Right and Left index Sides, -1
// when that side has no sector.
type Line struct {
	V1      int `yaml:"v1"`
	V2      int `yaml:"v2"`
	Right   int `yaml:"right"`
	Left    int `yaml:"left"`
	Flags   int `yaml:"flags"`
	Special int `yaml:"special"`
	Tag     int `yaml:"tag"`
}

// TwoSided reports whether both sides of the line face a sector
func (l Line) TwoSided() bool {
	return l.Right >= 0 && l.Left >= 0
}

// Side is a sidedef: the textures of one face of a line
type Side struct {
	XOff   int    `yaml:"xoff"`
	YOff   int    `yaml:"yoff"`
	Upper  string `yaml:"upper"`
	Lower  string `yaml:"lower"`
	Middle string `yaml:"middle"`
	Sector int    `yaml:"sector"`
}

// Sector is an enclosed floor/ceiling area
type Sector struct {
	Floor    int    `yaml:"floor"`
	Ceil     int    `yaml:"ceil"`
	FloorTex string `yaml:"floortex"`
	CeilTex  string `yaml:"ceiltex"`
	Light    int    `yaml:"light"`
	Special  int    `yaml:"special"`
	Tag      int    `yaml:"tag"`
}

// Thing is a placed map object
type Thing struct {
	X     int `yaml:"x"`
	Y     int `yaml:"y"`
	Angle int `yaml:"angle"`
	Type  int `yaml:"type"`
	Flags int `yaml:"flags"`
}

// Linedef flags
const (
	LineImpassable = 0x0001
	LineTwoSided   = 0x0004
)

// Thing flags
const (
	ThingEasy   = 0x0001
	ThingMedium = 0x0002
	ThingHard   = 0x0004
	ThingDeaf   = 0x0008
	ThingMulti  = 0x0010
	ThingAll    = ThingEasy | ThingMedium | ThingHard
)

// ThingFriendly is the MBF friendly-monster bit
const ThingFriendly = 0x0080

// Turtle is the drawing cursor threaded through the drawing builtins
type Turtle struct {
	X, Y int
	// Heading in degrees clockwise from north (+y)
	Heading int

	Top, Mid, Bot     string
	FloorTex, CeilTex string
	XOff, YOff        int
	LineSpecial       int
	LineTag           int
	LineFlags         int
	SectorSpecial     int
	SectorTag         int
	ThingType         int
	ThingFlags        int
	// ThingAngle overrides the facing of placed things, -1 follows Heading
	ThingAngle int
}

// NewTurtle returns the cursor state at the start of a run
func NewTurtle() Turtle {
	return Turtle{
		Top:        "STARTAN3",
		Mid:        "STARTAN3",
		Bot:        "STARTAN3",
		FloorTex:   "FLOOR4_8",
		CeilTex:    "CEIL3_5",
		ThingType:  1,
		ThingFlags: ThingAll,
		ThingAngle: -1,
	}
}

// Cursor is the part of the turtle saved and restored by !name / ^name
type Cursor struct {
	X, Y    int
	Heading int
}

// Cursor returns the position and heading of the turtle
func (t *Turtle) Cursor() Cursor {
	return Cursor{X: t.X, Y: t.Y, Heading: t.Heading}
}

// Restore moves the turtle back to c
func (t *Turtle) Restore(c Cursor) {
	t.X, t.Y, t.Heading = c.X, c.Y, c.Heading
}

// Turn rotates the heading clockwise by deg
func (t *Turtle) Turn(deg int) {
	t.Heading = ((t.Heading+deg)%360 + 360) % 360
}

// unit returns the forward and right unit vectors of the heading. Right
// angles are exact so axis-aligned drawing never accumulates error.
func (t *Turtle) unit() (fx, fy, rx, ry float64) {
	switch t.Heading {
	case 0:
		fx, fy = 0, 1
	case 90:
		fx, fy = 1, 0
	case 180:
		fx, fy = 0, -1
	case 270:
		fx, fy = -1, 0
	default:
		rad := float64(t.Heading) * math.Pi / 180
		fx, fy = math.Sin(rad), math.Cos(rad)
	}
	return fx, fy, fy, -fx
}

// Relative returns the point forward units ahead and side units to the
// right of the turtle.
func (t *Turtle) Relative(forward, side float64) Point {
	fx, fy, rx, ry := t.unit()
	return Point{
		X: t.X + int(math.Round(forward*fx+side*rx)),
		Y: t.Y + int(math.Round(forward*fy+side*ry)),
	}
}

// Local converts a world point into forward/side offsets from the turtle
func (t *Turtle) Local(p Point) (forward, side int) {
	fx, fy, rx, ry := t.unit()
	dx, dy := float64(p.X-t.X), float64(p.Y-t.Y)
	return int(math.Round(dx*fx + dy*fy)), int(math.Round(dx*rx + dy*ry))
}

// DoomAngle converts the heading into the engine's counter-clockwise
// from-east convention.
func (t *Turtle) DoomAngle() int {
	return ((90-t.Heading)%360 + 360) % 360
}

// pendingLine is a drawn line waiting for a sector builtin to claim it
type pendingLine struct {
	line     int
	reversed bool // drawn from V2 to V1
	side     Side
}

// Geometry accumulates the vertices, lines, sides, sectors and things of
// one run. Records are only ever appended; a failed run discards the
// whole graph.
type Geometry struct {
	Vertices []Vertex `yaml:"vertices"`
	Lines    []Line   `yaml:"lines"`
	Sides    []Side   `yaml:"sides"`
	Sectors  []Sector `yaml:"sectors"`
	Things   []Thing  `yaml:"things"`

	vindex  map[Vertex]int
	lindex  map[[2]int]int
	pending []pendingLine
	stack   []int // sectors opened by the sector builtins
}

// NewGeometry creates an empty geometry graph
func NewGeometry() *Geometry {
	return &Geometry{
		vindex: make(map[Vertex]int),
		lindex: make(map[[2]int]int),
	}
}

// Empty reports whether nothing has been drawn or placed
func (g *Geometry) Empty() bool {
	return len(g.Vertices) == 0 && len(g.Things) == 0 && len(g.Sectors) == 0
}

// Vertex returns the index of the vertex at p, adding it if needed
func (g *Geometry) Vertex(p Point) int {
	if i, ok := g.vindex[p]; ok {
		return i
	}
	g.Vertices = append(g.Vertices, p)
	i := len(g.Vertices) - 1
	g.vindex[p] = i
	return i
}

// AddLine draws a line from a to b using the texture context of t. A line
// already present between the same vertices is reused; drawing it in the
// opposite direction later attaches its other side.
func (g *Geometry) AddLine(a, b Point, t *Turtle) {
	if a == b {
		return
	}
	va, vb := g.Vertex(a), g.Vertex(b)
	pl := pendingLine{
		side: Side{XOff: t.XOff, YOff: t.YOff, Upper: t.Top, Lower: t.Bot, Middle: t.Mid},
	}
	if i, ok := g.lindex[[2]int{va, vb}]; ok {
		pl.line = i
	} else if i, ok := g.lindex[[2]int{vb, va}]; ok {
		pl.line = i
		pl.reversed = true
	} else {
		g.Lines = append(g.Lines, Line{
			V1: va, V2: vb, Right: -1, Left: -1,
			Flags: t.LineFlags, Special: t.LineSpecial, Tag: t.LineTag,
		})
		pl.line = len(g.Lines) - 1
		g.lindex[[2]int{va, vb}] = pl.line
	}
	g.pending = append(g.pending, pl)
}

// Pending returns how many drawn lines have not been claimed by a sector
func (g *Geometry) Pending() int {
	return len(g.pending)
}

// CurrentSector returns the innermost open sector, or -1
func (g *Geometry) CurrentSector() int {
	if len(g.stack) == 0 {
		return -1
	}
	return g.stack[len(g.stack)-1]
}

// PopSector leaves the innermost open sector
func (g *Geometry) PopSector() bool {
	if len(g.stack) == 0 {
		return false
	}
	g.stack = g.stack[:len(g.stack)-1]
	return true
}

// CloseSector creates a sector from the pending lines. onRight selects the
// side relative to drawing direction. For an inner sector the opposite
// side of every line is given to the enclosing sector. It returns the
// number of sides that replaced an existing one.
func (g *Geometry) CloseSector(sec Sector, onRight, inner bool) (int, int) {
	outer := g.CurrentSector()
	g.Sectors = append(g.Sectors, sec)
	id := len(g.Sectors) - 1

	replaced := 0
	for _, pl := range g.pending {
		line := &g.Lines[pl.line]
		// the line's own right side is the drawn right unless reversed
		ownRight := onRight != pl.reversed
		if g.attach(line, ownRight, pl.side, id) {
			replaced++
		}
		if inner && outer >= 0 {
			outerSide := pl.side
			if line.sideIndex(!ownRight) < 0 {
				g.attach(line, !ownRight, outerSide, outer)
			}
		}
	}
	g.pending = g.pending[:0]
	g.stack = append(g.stack, id)
	return id, replaced
}

func (l *Line) sideIndex(right bool) int {
	if right {
		return l.Right
	}
	return l.Left
}

// attach points one face of line at sector, reusing an existing sidedef
func (g *Geometry) attach(line *Line, right bool, side Side, sector int) bool {
	side.Sector = sector
	if idx := line.sideIndex(right); idx >= 0 {
		g.Sides[idx] = side
		return true
	}
	g.Sides = append(g.Sides, side)
	idx := len(g.Sides) - 1
	if right {
		line.Right = idx
	} else {
		line.Left = idx
	}
	return false
}

// AddThing places a thing at the turtle
func (g *Geometry) AddThing(t *Turtle) {
	angle := t.ThingAngle
	if angle < 0 {
		angle = t.DoomAngle()
	}
	g.Things = append(g.Things, Thing{
		X: t.X, Y: t.Y, Angle: angle, Type: t.ThingType, Flags: t.ThingFlags,
	})
}

// Bounds returns the bounding box of all vertices and things
func (g *Geometry) Bounds() (lo, hi Point, ok bool) {
	grow := func(p Point) {
		if !ok {
			lo, hi, ok = p, p, true
			return
		}
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	for _, v := range g.Vertices {
		grow(v)
	}
	for _, t := range g.Things {
		grow(Point{t.X, t.Y})
	}
	return lo, hi, ok
}

// Patch positions a patch graphic inside a texture
type Patch struct {
	Name string `yaml:"name"`
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
}

// Texture is a composite wall texture
type Texture struct {
	Name    string  `yaml:"name"`
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Patches []Patch `yaml:"patches"`
}

// TextureTable holds the texture definitions of one run
type TextureTable struct {
	byName  map[string]*Texture
	current *Texture
}

// NewTextureTable creates an empty table
func NewTextureTable() *TextureTable {
	return &TextureTable{byName: make(map[string]*Texture)}
}

// Begin selects name as the texture receiving patches, defining it first
// if needed.
func (tt *TextureTable) Begin(name string, width, height int) {
	t, ok := tt.byName[name]
	if !ok {
		t = &Texture{Name: name, Width: width, Height: height}
		tt.byName[name] = t
	}
	tt.current = t
}

// AddPatch attaches a patch to the current texture. It reports false when
// no texture has been begun.
func (tt *TextureTable) AddPatch(name string, x, y int) bool {
	if tt.current == nil {
		return false
	}
	tt.current.Patches = append(tt.current.Patches, Patch{Name: name, X: x, Y: y})
	return true
}

// Len returns the number of defined textures
func (tt *TextureTable) Len() int {
	return len(tt.byName)
}

// Textures returns the definitions sorted by name
func (tt *TextureTable) Textures() []Texture {
	names := make([]string, 0, len(tt.byName))
	for name := range tt.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Texture, len(names))
	for i, name := range names {
		t := tt.byName[name]
		out[i] = Texture{Name: t.Name, Width: t.Width, Height: t.Height, Patches: append([]Patch(nil), t.Patches...)}
	}
	return out
}
