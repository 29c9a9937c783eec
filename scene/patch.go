package scene

// StylePatch is a partial style update. Nil fields are left unchanged; ClearStroke and
// ClearShadow remove the attribute.
type StylePatch struct {
	FontFamily  *string  `yaml:"fontFamily,omitempty"`
	FontSize    *float64 `yaml:"fontSize,omitempty"`
	FontWeight  *string  `yaml:"fontWeight,omitempty"`
	Color       *string  `yaml:"color,omitempty"`
	Stroke      *string  `yaml:"stroke,omitempty"`
	StrokeWidth *float64 `yaml:"strokeWidth,omitempty"`
	Shadow      *Shadow  `yaml:"textShadow,omitempty"`
	ClearStroke bool     `yaml:"clearStroke,omitempty"`
	ClearShadow bool     `yaml:"clearShadow,omitempty"`
}

// Apply merges the patch over s.
func (p StylePatch) Apply(s Style) Style {
	s = s.clone()
	if p.FontFamily != nil {
		s.FontFamily = *p.FontFamily
	}
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	if p.FontWeight != nil {
		s.FontWeight = *p.FontWeight
	}
	if p.Color != nil {
		s.Color = *p.Color
	}
	if p.Stroke != nil {
		s.Stroke = *p.Stroke
	}
	if p.StrokeWidth != nil {
		s.StrokeWidth = *p.StrokeWidth
	}
	if p.ClearStroke {
		s.Stroke, s.StrokeWidth = "", 0
	}
	if p.Shadow != nil {
		sh := *p.Shadow
		s.Shadow = &sh
	}
	if p.ClearShadow {
		s.Shadow = nil
	}
	return s
}

// LayerPatch is a partial layer update.
type LayerPatch struct {
	Content  *string     `yaml:"content,omitempty"`
	Position *Point      `yaml:"position,omitempty"`
	Style    *StylePatch `yaml:"style,omitempty"`
}

// Apply merges the patch over l. The layer id is never changed.
func (p LayerPatch) Apply(l TextLayer) TextLayer {
	l = l.clone()
	if p.Content != nil {
		l.Content = *p.Content
	}
	if p.Position != nil {
		l.Position = *p.Position
	}
	if p.Style != nil {
		l.Style = p.Style.Apply(l.Style)
	}
	return l
}

// ContentPatch is shorthand for a patch that only replaces the text.
func ContentPatch(content string) LayerPatch { return LayerPatch{Content: &content} }

// MovePatch is shorthand for a patch that only moves the layer.
func MovePatch(p Point) LayerPatch { return LayerPatch{Position: &p} }
