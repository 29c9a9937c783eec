package layout

import (
	"strconv"
	"strings"
)

// Conversion constants between pt and mm. The canvas backend works in mm; one logical
// pixel is drawn as one mm and rasterized at one dot per mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// PxToPt converts a pixel font size into the point size expected by font faces.
func PxToPt(px float64) float64 { return px * MmToPt }

// PtToPx converts a point value reported by a font face back to pixels.
func PtToPx(pt float64) float64 { return pt * PtToMm }

// Weight keywords accepted by ParseWeight.
const (
	WeightNormal = 400
	WeightBold   = 700
)

// ParseWeight converts a CSS font-weight ("bold", "normal", "800", ...) to its
// numeric value. Unknown values are treated as normal.
func ParseWeight(weight string) int {
	w := strings.ToLower(strings.TrimSpace(weight))
	switch w {
	case "", "normal", "regular":
		return WeightNormal
	case "bold":
		return WeightBold
	case "bolder":
		return 800
	case "lighter":
		return 300
	}
	n, err := strconv.Atoi(w)
	if err != nil || n < 1 || n > 1000 {
		return WeightNormal
	}
	return n
}

// IsBold reports whether the weight renders as bold (600 and above).
func IsBold(weight string) bool { return ParseWeight(weight) >= 600 }
