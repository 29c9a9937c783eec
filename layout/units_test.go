package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 48, 54.4, 72, 120, 1000}
	for _, px := range samples {
		back := PtToPx(PxToPt(px))
		if diff := math.Abs(back - px); diff > 1e-9 {
			t.Fatalf("px→pt→px 往返误差过大: in=%g back=%g diff=%g", px, back, diff)
		}
	}
}

func TestParseWeight(t *testing.T) {
	cases := map[string]int{
		"":        400,
		"normal":  400,
		"bold":    700,
		"Bold":    700,
		"900":     900,
		" 800 ":   800,
		"lighter": 300,
		"heavy":   400,
		"0":       400,
	}
	for in, want := range cases {
		if got := ParseWeight(in); got != want {
			t.Fatalf("ParseWeight(%q) = %d, want %d", in, got, want)
		}
	}
	if !IsBold("600") || IsBold("500") {
		t.Fatalf("bold threshold should be 600")
	}
}
