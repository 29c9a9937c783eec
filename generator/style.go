package generator

import (
	"math"
	"slices"
)

// Tier is a base font size class.
type Tier string

const (
	Small  Tier = "small"
	Medium Tier = "medium"
	Large  Tier = "large"
	XLarge Tier = "xlarge"
)

var tierSizes = map[Tier]float64{
	Small:  32,
	Medium: 48,
	Large:  64,
	XLarge: 80,
}

// Font size bounds applied by OptimalFontSize.
const (
	MinFontSize = 24
	MaxFontSize = 120
)

// OptimalFontSize scales the tier's base size by the title length, the word count and
// punctuation, then clamps it to [MinFontSize, MaxFontSize]. Unknown tiers use Medium.
func OptimalFontSize(tier Tier, a Analysis) float64 {
	size, ok := tierSizes[tier]
	if !ok {
		size = tierSizes[Medium]
	}

	switch {
	case a.Length > 50:
		size *= 0.7
	case a.Length > 30:
		size *= 0.85
	case a.Length < 15:
		size *= 1.3
	}

	switch {
	case a.WordCount > 8:
		size *= 0.8
	case a.WordCount < 4:
		size *= 1.2
	}

	if a.HasQuestion || a.HasExclamation {
		size *= 1.1
	}
	return math.Max(MinFontSize, math.Min(size, MaxFontSize))
}

// StyleConfig is one row of the style table.
type StyleConfig struct {
	Colors   [5]string `json:"colors"`
	Fonts    [3]string `json:"fonts"`
	Effects  []string  `json:"effects"`
	Overlays []string  `json:"overlays"`
}

// DefaultStyle is used for unknown style names.
const DefaultStyle = "tech"

var styleOrder = []string{"gaming", "tech", "tutorial", "vlog", "news"}

var styles = map[string]StyleConfig{
	"gaming": {
		Colors:   [5]string{"#00ff41", "#ff0080", "#00d4ff", "#ffff00", "#ff6b6b"},
		Fonts:    [3]string{"Oswald", "Bebas Neue", "Inter"},
		Effects:  []string{"neon-glow", "electric-border", "pixel-shadow"},
		Overlays: []string{"gaming-gradient", "tech-grid"},
	},
	"tech": {
		Colors:   [5]string{"#667eea", "#764ba2", "#4facfe", "#00f2fe", "#667eea"},
		Fonts:    [3]string{"Inter", "Roboto", "Montserrat"},
		Effects:  []string{"glass-morphism", "subtle-glow", "clean-shadow"},
		Overlays: []string{"tech-gradient", "minimal-overlay"},
	},
	"tutorial": {
		Colors:   [5]string{"#FFA726", "#42A5F5", "#66BB6A", "#EF5350", "#AB47BC"},
		Fonts:    [3]string{"Montserrat", "Poppins", "Inter"},
		Effects:  []string{"friendly-shadow", "warm-glow", "soft-border"},
		Overlays: []string{"education-gradient", "learning-pattern"},
	},
	"vlog": {
		Colors:   [5]string{"#FF8A80", "#FFD54F", "#A7FFEB", "#B39DDB", "#FFCC02"},
		Fonts:    [3]string{"Poppins", "Inter", "Quicksand"},
		Effects:  []string{"casual-shadow", "lifestyle-glow", "personal-border"},
		Overlays: []string{"vlog-gradient", "personal-overlay"},
	},
	"news": {
		Colors:   [5]string{"#D32F2F", "#1976D2", "#388E3C", "#F57C00", "#7B1FA2"},
		Fonts:    [3]string{"Inter", "Roboto", "Montserrat"},
		Effects:  []string{"professional-shadow", "news-border", "authority-glow"},
		Overlays: []string{"news-gradient", "breaking-overlay"},
	},
}

// StyleFor returns the style table row for name, falling back to DefaultStyle.
func StyleFor(name string) StyleConfig {
	s, ok := styles[name]
	if !ok {
		s = styles[DefaultStyle]
	}
	s.Effects = slices.Clone(s.Effects)
	s.Overlays = slices.Clone(s.Overlays)
	return s
}

// Styles lists the known style names in table order.
func Styles() []string {
	return slices.Clone(styleOrder)
}
