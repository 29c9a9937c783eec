package generator

import "github.com/ByLCY/thumbcraft/scene"

// Template ids in generation order.
const (
	BoldCenter     = "bold-center"
	TopBanner      = "top-banner"
	SideSplit      = "side-split"
	BottomOverlay  = "bottom-overlay"
	CornerEmphasis = "corner-emphasis"
	Adaptive       = "ai-optimized"
)

// Order is the order of the specs returned by Generate.
var Order = []string{BoldCenter, TopBanner, SideSplit, BottomOverlay, CornerEmphasis, Adaptive}

// negativeColor replaces the style colour for negative titles.
const negativeColor = "#ff4757"

func gradient(stops ...scene.GradientStop) scene.Overlay {
	return scene.Overlay{Type: scene.OverlayGradient, Stops: stops}
}

func stop(pos float64, color string) scene.GradientStop {
	return scene.GradientStop{Position: pos, Color: color}
}

// Generate returns six RenderSpecs for title in Order: five fixed layout recipes and
// one adaptive recipe driven by the title analysis. Unknown styles use DefaultStyle.
func Generate(title, imageRef, styleName string) []scene.RenderSpec {
	a := Analyze(title)
	st := StyleFor(styleName)

	spec := func(id, name, position, align string, style scene.Style, overlay scene.Overlay) scene.RenderSpec {
		return scene.RenderSpec{
			ID:              id,
			Name:            name,
			Title:           title,
			BackgroundImage: imageRef,
			Layout:          scene.SpecLayout{TextPosition: position, TextAlign: align},
			TextStyle:       style,
			Overlay:         overlay,
		}
	}

	return []scene.RenderSpec{
		spec(BoldCenter, "Bold Center", "center", "center", scene.Style{
			FontFamily:  st.Fonts[0],
			FontSize:    OptimalFontSize(Large, a),
			FontWeight:  "900",
			Color:       st.Colors[0],
			Stroke:      "#000000",
			StrokeWidth: 3,
			Shadow:      scene.ParseShadow("0 0 20px rgba(0,0,0,0.8)"),
		}, gradient(stop(0, "rgba(0,0,0,0.7)"), stop(0.5, "rgba(0,0,0,0.3)"), stop(1, "rgba(0,0,0,0.7)"))),

		spec(TopBanner, "Top Banner", "top", "center", scene.Style{
			FontFamily: st.Fonts[1],
			FontSize:   OptimalFontSize(Medium, a),
			FontWeight: "800",
			Color:      "#ffffff",
			Shadow:     scene.ParseShadow("2px 2px 8px rgba(0,0,0,0.8)"),
		}, gradient(stop(0, "rgba(0,0,0,0.8)"), stop(0.6, "rgba(0,0,0,0.2)"), stop(1, "rgba(0,0,0,0)"))),

		spec(SideSplit, "Side Split", "left", "left", scene.Style{
			FontFamily:  st.Fonts[0],
			FontSize:    OptimalFontSize(Large, a),
			FontWeight:  "700",
			Color:       st.Colors[1],
			Stroke:      "#ffffff",
			StrokeWidth: 2,
			Shadow:      scene.ParseShadow("2px 2px 6px rgba(0,0,0,0.6)"),
		}, gradient(stop(0, "rgba(0,0,0,0.9)"), stop(0.5, "rgba(0,0,0,0.3)"), stop(1, "rgba(0,0,0,0)"))),

		spec(BottomOverlay, "Bottom Overlay", "bottom", "center", scene.Style{
			FontFamily: st.Fonts[1],
			FontSize:   OptimalFontSize(Medium, a),
			FontWeight: "800",
			Color:      "#ffffff",
			Shadow:     scene.ParseShadow("2px 2px 8px rgba(0,0,0,0.8)"),
		}, gradient(stop(0, "rgba(0,0,0,0)"), stop(0.4, "rgba(0,0,0,0.2)"), stop(1, "rgba(0,0,0,0.8)"))),

		spec(CornerEmphasis, "Corner Power", "top-left", "left", scene.Style{
			FontFamily:  st.Fonts[0],
			FontSize:    OptimalFontSize(Large, a),
			FontWeight:  "900",
			Color:       st.Colors[2],
			Stroke:      "#000000",
			StrokeWidth: 3,
			Shadow:      scene.ParseShadow("0 0 15px rgba(0,0,0,0.7)"),
		}, gradient(stop(0, "rgba(0,0,0,0.8)"), stop(0.7, "rgba(0,0,0,0.2)"), stop(1, "rgba(0,0,0,0)"))),

		adaptive(title, imageRef, a, st),
	}
}

// adaptive picks colour, position and size from the analysis. The sentiment branch and
// the punctuation branch are independent; a question wins over an exclamation.
func adaptive(title, imageRef string, a Analysis, st StyleConfig) scene.RenderSpec {
	position := "center"
	style := scene.Style{
		FontFamily:  st.Fonts[0],
		FontSize:    OptimalFontSize(Large, a),
		FontWeight:  "800",
		Color:       st.Colors[0],
		Stroke:      "#000000",
		StrokeWidth: 2,
		Shadow:      scene.ParseShadow("2px 2px 8px rgba(0,0,0,0.7)"),
	}

	switch a.Sentiment {
	case Positive:
		style.Color = st.Colors[3]
		style.FontSize *= 1.1
	case Negative:
		style.Color = negativeColor
		position = "top"
	}

	switch {
	case a.HasQuestion:
		position = "bottom"
		style.FontWeight = "700"
	case a.HasExclamation:
		style.FontSize *= 1.2
		style.Color = st.Colors[4]
	}

	return scene.RenderSpec{
		ID:              Adaptive,
		Name:            "AI Optimized",
		Title:           title,
		BackgroundImage: imageRef,
		Layout:          scene.SpecLayout{TextPosition: position, TextAlign: "center"},
		TextStyle:       style,
		Overlay:         gradient(stop(0, "rgba(0,0,0,0.6)"), stop(0.5, "rgba(0,0,0,0.2)"), stop(1, "rgba(0,0,0,0.6)")),
	}
}
