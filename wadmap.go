package wadc

import (
	"fmt"
	"math"
	"os"

	"github.com/redmars/wadc/pkg/wad"
)

func int16Of(what string, n int) (int16, error) {
	if n < math.MinInt16 || n > math.MaxInt16 {
		return 0, fmt.Errorf("%s %d does not fit the map format", what, n)
	}
	return int16(n), nil
}

func texName(s string) [8]byte {
	if s == "" {
		s = "-"
	}
	return wad.Name8(s)
}

// Map converts the geometry into engine records. Lines that never got a
// sector are dropped; lines with only a left side are flipped so every
// line has a front side. Any field outside the 16-bit record range is an
// error rather than a wrapped value.
func (g *Geometry) Map(name string) (*wad.Map, int, error) {
	m := &wad.Map{Name: name}
	dropped := 0
	var n narrower

	for _, v := range g.Vertices {
		m.Vertexes = append(m.Vertexes, wad.Vertex{
			X: n.of("vertex x coordinate", v.X),
			Y: n.of("vertex y coordinate", v.Y),
		})
	}

	for _, s := range g.Sectors {
		m.Sectors = append(m.Sectors, wad.Sector{
			Floor:    n.of("sector floor height", s.Floor),
			Ceil:     n.of("sector ceiling height", s.Ceil),
			FloorTex: texName(s.FloorTex),
			CeilTex:  texName(s.CeilTex),
			Light:    n.of("sector light", s.Light),
			Special:  n.of("sector special", s.Special),
			Tag:      n.of("sector tag", s.Tag),
		})
	}

	for _, l := range g.Lines {
		if l.Right < 0 && l.Left < 0 {
			dropped++
			continue
		}
		if l.Right < 0 {
			l.V1, l.V2 = l.V2, l.V1
			l.Right, l.Left = l.Left, -1
		}
		flags := l.Flags
		twoSided := l.TwoSided()
		if twoSided {
			flags |= LineTwoSided
		} else {
			flags |= LineImpassable
		}
		ld := wad.Linedef{
			V1:      n.of("linedef start vertex", l.V1),
			V2:      n.of("linedef end vertex", l.V2),
			Flags:   n.of("linedef flags", flags),
			Special: n.of("linedef special", l.Special),
			Tag:     n.of("linedef tag", l.Tag),
			Right:   n.of("sidedef index", len(m.Sidedefs)),
			Left:    wad.NoSide,
		}
		m.Sidedefs = append(m.Sidedefs, n.sidedef(g.Sides[l.Right], twoSided))
		if twoSided {
			ld.Left = n.of("sidedef index", len(m.Sidedefs))
			m.Sidedefs = append(m.Sidedefs, n.sidedef(g.Sides[l.Left], twoSided))
		}
		m.Linedefs = append(m.Linedefs, ld)
	}

	for _, t := range g.Things {
		m.Things = append(m.Things, wad.Thing{
			X:     n.of("thing x coordinate", t.X),
			Y:     n.of("thing y coordinate", t.Y),
			Angle: n.of("thing angle", t.Angle),
			Type:  n.of("thing type", t.Type),
			Flags: n.of("thing flags", t.Flags),
		})
	}
	if n.err != nil {
		return nil, 0, n.err
	}
	return m, dropped, nil
}

// narrower converts record fields to int16, keeping the first range error
type narrower struct {
	err error
}

func (n *narrower) of(what string, v int) int16 {
	x, err := int16Of(what, v)
	if err != nil && n.err == nil {
		n.err = err
	}
	return x
}

// sidedef writes a side; two-sided lines get no middle texture
func (n *narrower) sidedef(s Side, twoSided bool) wad.Sidedef {
	mid := s.Middle
	if twoSided {
		mid = "-"
	}
	return wad.Sidedef{
		XOff:   n.of("sidedef x offset", s.XOff),
		YOff:   n.of("sidedef y offset", s.YOff),
		Upper:  texName(s.Upper),
		Lower:  texName(s.Lower),
		Middle: texName(mid),
		Sector: n.of("sidedef sector", s.Sector),
	}
}

// Wad serializes the result. Map lumps are only written when something was
// drawn or placed, texture lumps only when textures were defined, so an
// empty run produces a header with an empty directory.
func (r *Result) Wad() (*wad.Wad, error) {
	w := wad.New()
	if !r.Geometry.Empty() {
		m, _, err := r.Geometry.Map(r.MapName)
		if err != nil {
			return nil, err
		}
		w.AddMap(m)
	}
	if r.Textures.Len() > 0 {
		var n narrower
		var textures []wad.Texture
		for _, t := range r.Textures.Textures() {
			wt := wad.Texture{
				Name:   t.Name,
				Width:  n.of("texture "+t.Name+" width", t.Width),
				Height: n.of("texture "+t.Name+" height", t.Height),
			}
			for _, p := range t.Patches {
				wt.Patches = append(wt.Patches, wad.PatchRef{
					Name: p.Name,
					X:    n.of("patch "+p.Name+" x offset", p.X),
					Y:    n.of("patch "+p.Name+" y offset", p.Y),
				})
			}
			textures = append(textures, wt)
		}
		if n.err != nil {
			return nil, n.err
		}
		w.AddTextures(textures)
	}
	return w, nil
}

// WadBytes returns the encoded PWAD
func (r *Result) WadBytes() ([]byte, error) {
	w, err := r.Wad()
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// WriteWad writes the PWAD to path
func (r *Result) WriteWad(path string) error {
	data, err := r.WadBytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
