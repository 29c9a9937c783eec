package interact

import (
	"strings"

	"github.com/ByLCY/thumbcraft/scene"
)

// Placement positions the inline edit affordance in display coordinates.
type Placement struct {
	X        float64
	Y        float64
	FontSize float64
}

// EditSession is the inline editor for one layer. The affordance is drawn by the host
// on top of the render surface at Placement.
type EditSession struct {
	layer     scene.TextLayer
	canvas    scene.Canvas
	buffer    *EditBuffer
	placement Placement
	focused   bool
}

func newEditSession(layer scene.TextLayer, canvas scene.Canvas, displayW, displayH float64) *EditSession {
	s := &EditSession{
		layer:  layer,
		canvas: canvas,
		buffer: NewEditBuffer(layer.Content),
	}
	s.resize(displayW, displayH)
	s.focused = true
	s.buffer.SelectAll()
	return s
}

// LayerID returns the id of the layer being edited.
func (s *EditSession) LayerID() string { return s.layer.ID }

// Buffer returns the edit buffer.
func (s *EditSession) Buffer() *EditBuffer { return s.buffer }

// Placement returns where the affordance is shown.
func (s *EditSession) Placement() Placement { return s.placement }

// Focused reports whether the affordance holds keyboard focus.
func (s *EditSession) Focused() bool { return s.focused }

// Style returns the style of the layer being edited.
func (s *EditSession) Style() scene.Style { return s.layer.Style }

func (s *EditSession) resize(displayW, displayH float64) {
	sx, sy := displayScale(s.canvas, displayW, displayH)
	s.placement = Placement{
		X:        s.layer.Position.X * sx,
		Y:        s.layer.Position.Y * sy,
		FontSize: s.layer.Style.FontSize * sy,
	}
}

// confirmedText is the text committed on confirm: trimmed, or "Text" when empty.
func (s *EditSession) confirmedText() string {
	text := strings.TrimSpace(s.buffer.String())
	if text == "" {
		return "Text"
	}
	return text
}

func displayScale(c scene.Canvas, displayW, displayH float64) (sx, sy float64) {
	w, h := float64(c.Width), float64(c.Height)
	if w <= 0 {
		w = scene.DefaultWidth
	}
	if h <= 0 {
		h = scene.DefaultHeight
	}
	if displayW <= 0 || displayH <= 0 {
		return 1, 1
	}
	return displayW / w, displayH / h
}
