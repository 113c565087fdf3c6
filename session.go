package wadc

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrNoResult is returned by operations that need a successful run
var ErrNoResult = errors.New("no successful run yet")

// Session is the host adapter behind the editor and the CLI: it owns the
// source buffer, the last successful run and the view onto it. Hosts must
// not call it from more than one goroutine at a time.
type Session struct {
	w        *WadC
	Source   string
	Basename string

	result *Result
	view   View
	// cursor follows interactive steps so several can be added between runs
	cursor    Turtle
	insertPos int
}

// NewSession creates a session editing source stored at basename
func NewSession(w *WadC, basename, source string) *Session {
	return &Session{
		w:         w,
		Source:    source,
		Basename:  basename,
		view:      View{Scale: 1},
		cursor:    NewTurtle(),
		insertPos: -1,
	}
}

// WadC returns the interpreter the session runs on
func (s *Session) WadC() *WadC {
	return s.w
}

// SetSource replaces the source buffer. The last result stays displayable.
func (s *Session) SetSource(src string) {
	s.Source = src
	s.insertPos = -1
}

// Result returns the last successful run, or nil
func (s *Session) Result() *Result {
	return s.result
}

// View returns the current view
func (s *Session) View() View {
	return s.view
}

// Resize tells the session the surface size. The first size seen after a
// run fits the map onto it.
func (s *Session) Resize(w, h int) {
	if s.view.W == w && s.view.H == h {
		return
	}
	if s.result != nil && !s.view.Zoomed {
		s.view = FitView(s.result.Geometry, w, h)
		return
	}
	s.view.Resize(w, h)
}

// Run parses and evaluates the source. On failure the previous result and
// view are kept; the error carries the position to move the editor to.
func (s *Session) Run() (*Result, error) {
	s.w.Logger().NoticeCat(CatApp, "parsing...")
	res, err := s.w.Compile(s.Basename, s.Source)
	if err != nil {
		s.w.Logger().LangError(err)
		return nil, err
	}
	s.w.Logger().NoticeCat(CatApp, "done.")

	prev := s.view
	s.view = FitView(res.Geometry, prev.W, prev.H)
	if prev.Zoomed {
		s.view.XMid, s.view.YMid, s.view.Scale = prev.XMid, prev.YMid, prev.Scale
		s.view.Zoomed = true
	}
	s.result = res
	s.cursor = res.Turtle
	s.insertPos = res.Program.InsertPos
	return res, nil
}

// WadPath is the basename with its extension replaced by .wad
func (s *Session) WadPath() string {
	base := s.Basename
	if base == "" {
		base = "untitled.wl"
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".wad"
}

// WriteWad serializes the last successful run next to the source
func (s *Session) WriteWad() (string, error) {
	if s.result == nil {
		return "", ErrNoResult
	}
	path := s.WadPath()
	if err := s.result.WriteWad(path); err != nil {
		s.w.Logger().ErrorCat(CatWad, "writing %s: %v", path, err)
		return "", err
	}
	s.w.Logger().NoticeCat(CatWad, "wrote %s", path)
	return path, nil
}

// RunSaveWad runs the source and writes the WAD when the run succeeds
func (s *Session) RunSaveWad() (string, error) {
	if _, err := s.Run(); err != nil {
		return "", err
	}
	return s.WriteWad()
}

// AddStep appends a statement drawing to the surface point sx, sy. The
// target is snapped to the configured grid. Only the source changes; the
// map updates on the next Run.
func (s *Session) AddStep(sx, sy float64, kind StepKind) (ProgramTransform, error) {
	if s.result == nil {
		return ProgramTransform{}, ErrNoResult
	}
	target := Snap(s.view.ToWorld(sx, sy), s.w.Config().Grid)
	tr, err := AddStep(s.Source, s.insertPos, s.cursor, target, kind)
	if err != nil {
		return ProgramTransform{}, err
	}
	s.Source = tr.Source
	s.insertPos = tr.InsertPos
	s.cursor = advance(s.cursor, target, kind)
	s.w.Logger().DebugCat(CatApp, "added %s", tr.Statement)
	return tr, nil
}

// Pan drags the view by dx, dy pixels
func (s *Session) Pan(dx, dy float64) {
	s.view.Pan(dx, dy)
}

// Zoom rescales the view about cx, cy; factor > 1 zooms out
func (s *Session) Zoom(cx, cy, factor float64) {
	s.view.Zoom(cx, cy, factor)
}

// Crosshair previews the next interactive step
func (s *Session) Crosshair(sx, sy float64, snap bool) (Segment, bool) {
	if s.result == nil {
		return Segment{}, false
	}
	return Crosshair(s.view, s.cursor, sx, sy, snap, s.w.Config().Grid), true
}

// Draw paints the last successful run onto surface
func (s *Session) Draw(surface Surface) {
	w, h := surface.Size()
	s.Resize(w, h)
	Draw(surface, s.result, s.view)
}
