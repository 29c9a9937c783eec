package layout

import (
	"math"
	"testing"
	"unicode/utf8"
)

// stubMetrics 是一个最小实现，仅用于测试：每个字符宽度为字号的一半。
type stubMetrics struct{}

func (stubMetrics) Measure(content string, font Font) (Extent, error) {
	n := float64(utf8.RuneCountInString(content))
	return Extent{Width: n * font.Size * 0.5, Ascent: font.Size * 0.8, CapHeight: font.Size * 0.7}, nil
}

func TestWrapGreedyBreaksOnSpaces(t *testing.T) {
	font := Font{Family: "Inter", Size: 100, Weight: "800"}
	lines, err := Wrap(stubMetrics{}, "How to Build AMAZING Apps Fast", font, 1024)
	if err != nil {
		t.Fatalf("wrap failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %+v", len(lines), lines)
	}
	if lines[0].Content != "How to Build AMAZING" || lines[1].Content != "Apps Fast" {
		t.Fatalf("unexpected lines: %+v", lines)
	}
	if lines[0].Width != 1000 || lines[1].Width != 450 {
		t.Fatalf("unexpected widths: %g %g", lines[0].Width, lines[1].Width)
	}
}

func TestWrapKeepsOverlongWordOnItsOwnLine(t *testing.T) {
	font := Font{Size: 10}
	lines, err := Wrap(stubMetrics{}, "a supercalifragilistic b", font, 20)
	if err != nil {
		t.Fatalf("wrap failed: %v", err)
	}
	if len(lines) != 3 || lines[1].Content != "supercalifragilistic" {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestWrapEmptyText(t *testing.T) {
	lines, err := Wrap(stubMetrics{}, "   ", Font{Size: 10}, 100)
	if err != nil {
		t.Fatalf("wrap failed: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected no lines, got %+v", lines)
	}
}

func TestPlaceTextCentered(t *testing.T) {
	font := Font{Family: "Inter", Size: 100, Weight: "800"}
	p, err := PlaceText(stubMetrics{}, "How to Build AMAZING Apps Fast", font, PlaceOptions{})
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if p.LineHeight != 120 {
		t.Fatalf("line height = %g, want 120", p.LineHeight)
	}
	if got := p.Lines[0].Baseline; got != 240 {
		t.Fatalf("first baseline = %g, want 240", got)
	}
	if got := p.Lines[1].Baseline; got != 360 {
		t.Fatalf("second baseline = %g, want 360", got)
	}
	if p.Lines[0].X != 140 || p.Lines[1].X != 415 {
		t.Fatalf("centered x mismatch: %g %g", p.Lines[0].X, p.Lines[1].X)
	}
	if p.Ascent != 80 {
		t.Fatalf("ascent = %g, want 80", p.Ascent)
	}
}

func TestPlaceTextAnchors(t *testing.T) {
	font := Font{Size: 100}
	text := "How to Build AMAZING Apps Fast"

	topLeft, err := PlaceText(stubMetrics{}, text, font, PlaceOptions{Position: "top-left", Align: "center"})
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if topLeft.Align != "left" || topLeft.Lines[0].X != 80 {
		t.Fatalf("left keyword should override align: %+v", topLeft)
	}
	if topLeft.Lines[0].Baseline != 180 {
		t.Fatalf("top anchored text should start at font size + margin, got %g", topLeft.Lines[0].Baseline)
	}

	bottom, err := PlaceText(stubMetrics{}, text, font, PlaceOptions{Position: "bottom"})
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if bottom.Lines[0].Baseline != 400 || bottom.Lines[1].Baseline != 520 {
		t.Fatalf("bottom anchored text should grow upward: %+v", bottom.Lines)
	}

	right, err := PlaceText(stubMetrics{}, "Apps Fast", font, PlaceOptions{Position: "right"})
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if got := right.Lines[0].X + right.Lines[0].Width; math.Abs(got-1200) > 1e-9 {
		t.Fatalf("right aligned line should end at the margin, got %g", got)
	}
}

func TestFontString(t *testing.T) {
	if got := (Font{Family: "Inter", Size: 48, Weight: "bold"}).String(); got != "bold 48px Inter" {
		t.Fatalf("unexpected font string %q", got)
	}
	if got := (Font{Family: "Oswald", Size: 54.4}).String(); got != "normal 54.4px Oswald" {
		t.Fatalf("unexpected font string %q", got)
	}
}
