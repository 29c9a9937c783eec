package layout

// PlaceOptions 配置多行标题的排版，所有长度均为逻辑像素。
type PlaceOptions struct {
	CanvasWidth  float64
	CanvasHeight float64
	// Position 为 center/top/bottom/left/right 以及 top-left 之类的组合关键字。
	Position string
	// Align 为 left/center/right，位置关键字中的 left/right 优先。
	Align string
	// Margin 是靠边放置时与画布边缘的距离。
	Margin float64
	// MaxWidthRatio 是单行最大宽度占画布宽度的比例。
	MaxWidthRatio float64
	// LineHeightRatio 是行高相对字号的倍数。
	LineHeightRatio float64
}

// DefaultPlaceOptions 返回 1280×720 画布下的默认排版参数。
func DefaultPlaceOptions() PlaceOptions {
	return PlaceOptions{
		CanvasWidth:     1280,
		CanvasHeight:    720,
		Position:        "center",
		Align:           "center",
		Margin:          80,
		MaxWidthRatio:   0.8,
		LineHeightRatio: 1.2,
	}
}

func (o PlaceOptions) withDefaults() PlaceOptions {
	def := DefaultPlaceOptions()
	if o.CanvasWidth <= 0 {
		o.CanvasWidth = def.CanvasWidth
	}
	if o.CanvasHeight <= 0 {
		o.CanvasHeight = def.CanvasHeight
	}
	if o.Position == "" {
		o.Position = def.Position
	}
	if o.Align == "" {
		o.Align = def.Align
	}
	if o.Margin <= 0 {
		o.Margin = def.Margin
	}
	if o.MaxWidthRatio <= 0 {
		o.MaxWidthRatio = def.MaxWidthRatio
	}
	if o.LineHeightRatio <= 0 {
		o.LineHeightRatio = def.LineHeightRatio
	}
	return o
}
