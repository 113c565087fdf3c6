package main

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/redmars/wadc"
	"github.com/redmars/wadc/pkg/preview"
)

// mapView shows the last successful run and turns pointer gestures into
// session operations: click zooms in, secondary click zooms out, drag pans,
// and ctrl/alt/shift click or drag appends a line/curve/jump step.
type mapView struct {
	widget.BaseWidget
	sess   *wadc.Session
	raster *canvas.Raster

	// pixels per fyne unit of the last rendered frame
	pxScale float32
	mods    fyne.KeyModifier
	preview *wadc.Segment
	dragPos fyne.Position

	onStep func(kind wadc.StepKind, x, y float64)
}

func newMapView(sess *wadc.Session) *mapView {
	m := &mapView{sess: sess, pxScale: 1}
	m.raster = canvas.NewRaster(m.render)
	m.ExtendBaseWidget(m)
	return m
}

func (m *mapView) render(w, h int) image.Image {
	if size := m.Size(); size.Width > 0 {
		m.pxScale = float32(w) / size.Width
	}
	c := preview.NewCanvas(w, h)
	m.sess.Draw(c)
	if m.preview != nil {
		wadc.DrawSegment(c, *m.preview, m.sess.View())
	}
	return c.Image()
}

// px converts a widget position into surface pixels
func (m *mapView) px(p fyne.Position) (float64, float64) {
	return float64(p.X * m.pxScale), float64(p.Y * m.pxScale)
}

func (m *mapView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(m.raster)
}

func (m *mapView) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

// stepKind maps held modifiers onto a step; ok is false without one
func stepKind(mods fyne.KeyModifier) (wadc.StepKind, bool) {
	switch {
	case mods&fyne.KeyModifierControl != 0:
		return wadc.StepLine, true
	case mods&fyne.KeyModifierAlt != 0:
		return wadc.StepCurve, true
	case mods&fyne.KeyModifierShift != 0:
		return wadc.StepJump, true
	}
	return wadc.StepLine, false
}

// MouseDown implements desktop.Mouseable
func (m *mapView) MouseDown(ev *desktop.MouseEvent) {
	m.mods = ev.Modifier
}

// MouseUp implements desktop.Mouseable
func (m *mapView) MouseUp(*desktop.MouseEvent) {}

// Tapped implements fyne.Tappable
func (m *mapView) Tapped(ev *fyne.PointEvent) {
	x, y := m.px(ev.Position)
	if kind, ok := stepKind(m.mods); ok {
		m.step(kind, x, y)
		return
	}
	m.sess.Zoom(x, y, 0.5)
	m.raster.Refresh()
}

// TappedSecondary implements fyne.SecondaryTappable
func (m *mapView) TappedSecondary(ev *fyne.PointEvent) {
	x, y := m.px(ev.Position)
	m.sess.Zoom(x, y, 2)
	m.raster.Refresh()
}

// Dragged implements fyne.Draggable
func (m *mapView) Dragged(ev *fyne.DragEvent) {
	m.dragPos = ev.Position
	if _, ok := stepKind(m.mods); ok {
		x, y := m.px(ev.Position)
		if seg, ok := m.sess.Crosshair(x, y, m.mods&fyne.KeyModifierControl != 0); ok {
			m.preview = &seg
		}
	} else {
		m.sess.Pan(float64(ev.Dragged.DX*m.pxScale), float64(ev.Dragged.DY*m.pxScale))
	}
	m.raster.Refresh()
}

// DragEnd implements fyne.Draggable
func (m *mapView) DragEnd() {
	m.preview = nil
	if kind, ok := stepKind(m.mods); ok {
		x, y := m.px(m.dragPos)
		m.step(kind, x, y)
		return
	}
	m.raster.Refresh()
}

func (m *mapView) step(kind wadc.StepKind, x, y float64) {
	if m.onStep != nil {
		m.onStep(kind, x, y)
	}
	m.raster.Refresh()
}
