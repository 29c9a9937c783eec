package hittest

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/ByLCY/thumbcraft/layout"
	"github.com/ByLCY/thumbcraft/scene"
)

type stubMetrics struct{}

func (stubMetrics) Measure(content string, font layout.Font) (layout.Extent, error) {
	if content == "unmeasurable" {
		return layout.Extent{}, errors.New("boom")
	}
	n := float64(utf8.RuneCountInString(content))
	return layout.Extent{Width: n * font.Size * 0.5, Ascent: font.Size * 0.8}, nil
}

func layer(id, content string, x, y, size float64) scene.TextLayer {
	st := scene.DefaultStyle()
	st.FontSize = size
	return scene.TextLayer{ID: id, Content: content, Position: scene.Point{X: x, Y: y}, Style: st}
}

func TestBoundsUsesMeasuredWidthAndFontSize(t *testing.T) {
	b, err := Bounds(layer("a", "HELLO", 100, 50, 40), stubMetrics{})
	if err != nil {
		t.Fatalf("bounds failed: %v", err)
	}
	if b != (Rect{X: 100, Y: 50, Width: 100, Height: 40}) {
		t.Fatalf("unexpected bounds %+v", b)
	}
}

func TestHitTestInclusiveEdgesAndTopmost(t *testing.T) {
	s := scene.New()
	s = s.AddLayer(layer("bottom", "HELLO", 100, 50, 40))
	s = s.AddLayer(layer("top", "HI", 150, 60, 40))

	cases := []struct {
		p    scene.Point
		want string
		ok   bool
	}{
		{scene.Point{X: 100, Y: 50}, "bottom", true},
		{scene.Point{X: 200, Y: 90}, "bottom", true},
		{scene.Point{X: 160, Y: 70}, "top", true},
		{scene.Point{X: 190, Y: 100}, "top", true},
		{scene.Point{X: 99.9, Y: 50}, "", false},
		{scene.Point{X: 200.1, Y: 60}, "", false},
		{scene.Point{X: 120, Y: 90.5}, "", false},
	}
	for _, c := range cases {
		got, ok := HitTest(s, c.p, stubMetrics{})
		if got != c.want || ok != c.ok {
			t.Fatalf("HitTest(%v) = %q,%v want %q,%v", c.p, got, ok, c.want, c.ok)
		}
	}
}

func TestHitTestSkipsUnmeasurableLayers(t *testing.T) {
	s := scene.New().AddLayer(layer("a", "HELLO", 0, 0, 40)).AddLayer(layer("b", "unmeasurable", 0, 0, 40))
	if got, ok := HitTest(s, scene.Point{X: 10, Y: 10}, stubMetrics{}); !ok || got != "a" {
		t.Fatalf("expected fallthrough to a, got %q %v", got, ok)
	}
}

// Every point reported as a hit lies inside the bounds computed by the same metrics.
func TestHitTestConsistentWithBounds(t *testing.T) {
	s := scene.New().AddLayer(layer("a", "Consistency", 37, 91, 33))
	b, _ := Bounds(s.Layers[0], stubMetrics{})
	for x := 0.0; x <= 400; x += 3.5 {
		for y := 0.0; y <= 200; y += 2.5 {
			p := scene.Point{X: x, Y: y}
			_, ok := HitTest(s, p, stubMetrics{})
			if ok != b.Contains(p) {
				t.Fatalf("hit/bounds disagree at %v", p)
			}
		}
	}
}
