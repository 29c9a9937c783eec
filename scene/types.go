// Package scene holds the thumbnail document model: a canvas, an optional background
// image and an ordered stack of text layers. Scenes are values; every operation returns
// a new snapshot and never mutates slices shared with earlier snapshots.
package scene

import (
	"fmt"
	"strconv"

	"github.com/ByLCY/thumbcraft/layout"
)

// Default canvas values.
const (
	DefaultWidth           = 1280
	DefaultHeight          = 720
	DefaultBackgroundColor = "#1a1a1a"
	DefaultContent         = "Double-click to edit"
)

// Canvas is the logical drawing area.
type Canvas struct {
	Width           int    `yaml:"width" json:"width"`
	Height          int    `yaml:"height" json:"height"`
	BackgroundColor string `yaml:"backgroundColor" json:"backgroundColor"`
}

// Point is a position in logical canvas pixels.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Shadow is a text shadow. Color may be "currentColor", which resolves to the layer's
// fill colour at draw time.
type Shadow struct {
	OffsetX float64 `yaml:"offsetX" json:"offsetX"`
	OffsetY float64 `yaml:"offsetY" json:"offsetY"`
	Blur    float64 `yaml:"blur" json:"blur"`
	Color   string  `yaml:"color" json:"color"`
}

// String formats the shadow as a CSS text-shadow descriptor.
func (s Shadow) String() string {
	return fmt.Sprintf("%spx %spx %spx %s", fmtNum(s.OffsetX), fmtNum(s.OffsetY), fmtNum(s.Blur), s.Color)
}

func fmtNum(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// Style is the visual style of a text layer. An empty Stroke or a nil Shadow means the
// attribute is absent.
type Style struct {
	FontFamily  string  `yaml:"fontFamily" json:"fontFamily"`
	FontSize    float64 `yaml:"fontSize" json:"fontSize"`
	FontWeight  string  `yaml:"fontWeight" json:"fontWeight"`
	Color       string  `yaml:"color" json:"color"`
	Stroke      string  `yaml:"stroke,omitempty" json:"stroke,omitempty"`
	StrokeWidth float64 `yaml:"strokeWidth,omitempty" json:"strokeWidth,omitempty"`
	Shadow      *Shadow `yaml:"textShadow,omitempty" json:"textShadow,omitempty"`
}

// Font returns the font used both to draw and to hit-test text in this style.
func (s Style) Font() layout.Font {
	return layout.Font{Family: s.FontFamily, Size: s.FontSize, Weight: s.FontWeight}
}

// HasStroke reports whether the outline should be drawn.
func (s Style) HasStroke() bool { return s.Stroke != "" && s.StrokeWidth > 0 }

func (s Style) clone() Style {
	if s.Shadow != nil {
		sh := *s.Shadow
		s.Shadow = &sh
	}
	return s
}

// DefaultStyle is the style of a freshly added layer.
func DefaultStyle() Style {
	return Style{
		FontFamily: "Inter",
		FontSize:   48,
		FontWeight: "bold",
		Color:      "#ffffff",
		Shadow:     &Shadow{OffsetX: 2, OffsetY: 2, Blur: 4, Color: "rgba(0,0,0,0.5)"},
	}
}

// TextLayer is one positioned text element. Position is the top-left corner of its
// bounding box.
type TextLayer struct {
	ID       string `yaml:"id" json:"id"`
	Content  string `yaml:"content" json:"content"`
	Position Point  `yaml:"position" json:"position"`
	Style    Style  `yaml:"style" json:"style"`
}

func (l TextLayer) clone() TextLayer {
	l.Style = l.Style.clone()
	return l
}

// Scene is a snapshot of the document. Layer order is z-order, last on top.
type Scene struct {
	Canvas          Canvas      `yaml:"canvas" json:"canvas"`
	BackgroundImage string      `yaml:"backgroundImage,omitempty" json:"backgroundImage,omitempty"`
	Layers          []TextLayer `yaml:"layers" json:"layers"`
	Selected        string      `yaml:"selected,omitempty" json:"selected,omitempty"`
}

// New returns an empty scene with the default 1280×720 canvas.
func New() Scene {
	return Scene{Canvas: Canvas{Width: DefaultWidth, Height: DefaultHeight, BackgroundColor: DefaultBackgroundColor}}
}

// GradientStop is one colour stop of an overlay gradient.
type GradientStop struct {
	Position float64 `yaml:"position" json:"position"`
	Color    string  `yaml:"color" json:"color"`
}

// Overlay types.
const (
	OverlayGradient = "gradient"
	OverlaySolid    = "solid"
	OverlayNone     = "none"
)

// Overlay is composited over the background image of a RenderSpec.
type Overlay struct {
	Type  string         `yaml:"type" json:"type"`
	Stops []GradientStop `yaml:"stops,omitempty" json:"stops,omitempty"`
	Color string         `yaml:"color,omitempty" json:"color,omitempty"`
}

// SpecLayout places the title of a RenderSpec.
type SpecLayout struct {
	TextPosition string `yaml:"textPosition" json:"textPosition"`
	TextAlign    string `yaml:"textAlign" json:"textAlign"`
}

// RenderSpec is a generated composition that has not been materialized into layers.
type RenderSpec struct {
	ID              string     `yaml:"id" json:"id"`
	Name            string     `yaml:"name" json:"name"`
	Title           string     `yaml:"title" json:"title"`
	BackgroundImage string     `yaml:"backgroundImage,omitempty" json:"backgroundImage,omitempty"`
	Layout          SpecLayout `yaml:"layout" json:"layout"`
	TextStyle       Style      `yaml:"textStyle" json:"textStyle"`
	Overlay         Overlay    `yaml:"overlay" json:"overlay"`
}

// Template is a canned scene: a background colour and a set of layers.
type Template struct {
	ID              string      `yaml:"id" json:"id"`
	Name            string      `yaml:"name" json:"name"`
	Category        string      `yaml:"category" json:"category"`
	BackgroundColor string      `yaml:"backgroundColor" json:"backgroundColor"`
	Layers          []TextLayer `yaml:"layers" json:"layers"`
}
