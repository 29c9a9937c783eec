// Package hittest maps canvas points to text layers using the same text measurement as
// the renderer, so a layer is hit exactly where it is drawn.
package hittest

import (
	"github.com/ByLCY/thumbcraft/layout"
	"github.com/ByLCY/thumbcraft/scene"
)

// Rect is an axis-aligned box in logical canvas pixels.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p scene.Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Inset grows (d>0) or shrinks (d<0) r by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// Scale multiplies every component by s.
func (r Rect) Scale(s float64) Rect {
	return Rect{X: r.X * s, Y: r.Y * s, Width: r.Width * s, Height: r.Height * s}
}

// Bounds returns the layer's box: its position, the measured advance width of its
// content and a height equal to the font size.
func Bounds(layer scene.TextLayer, m layout.Metrics) (Rect, error) {
	ext, err := m.Measure(layer.Content, layer.Style.Font())
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: layer.Position.X, Y: layer.Position.Y, Width: ext.Width, Height: layer.Style.FontSize}, nil
}

// HitTest returns the id of the topmost layer whose bounds contain p. Layers that
// cannot be measured are skipped.
func HitTest(s scene.Scene, p scene.Point, m layout.Metrics) (string, bool) {
	for i := len(s.Layers) - 1; i >= 0; i-- {
		b, err := Bounds(s.Layers[i], m)
		if err != nil {
			continue
		}
		if b.Contains(p) {
			return s.Layers[i].ID, true
		}
	}
	return "", false
}
