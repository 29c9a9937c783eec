package layout

import (
	"fmt"
	"strings"
)

// 该文件定义测量、排版与调试 JSON 共用的类型。坐标与字号均为逻辑像素（1280×720 画布）。

// Font 描述绘制与命中测试共用的字体，二者必须使用同一个值构造。
type Font struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
	Weight string  `json:"weight"`
}

// String 返回 "<weight> <size>px <family>" 形式的字体描述。
func (f Font) String() string {
	weight := strings.TrimSpace(f.Weight)
	if weight == "" {
		weight = "normal"
	}
	return fmt.Sprintf("%s %gpx %s", weight, f.Size, f.Family)
}

// Scaled 返回字号乘以 scale 后的字体，不做取整。
func (f Font) Scaled(scale float64) Font {
	f.Size *= scale
	return f
}

// Extent 是一段文本在给定字体下的测量结果。
type Extent struct {
	Width     float64 `json:"width"`
	Ascent    float64 `json:"ascent"`
	CapHeight float64 `json:"capHeight"`
}

// Metrics 负责测量文本宽度，渲染与命中测试必须共用同一个实现。
type Metrics interface {
	Measure(content string, font Font) (Extent, error)
}

// Line 表示排版后的一行文本。X 为行左边缘，Baseline 为基线 y。
type Line struct {
	Content  string  `json:"content"`
	X        float64 `json:"x"`
	Baseline float64 `json:"baseline"`
	Width    float64 `json:"width"`
}

// Placement 保存多行标题的排版结果。
type Placement struct {
	Font       Font    `json:"font"`
	Align      string  `json:"align"`
	AnchorX    float64 `json:"anchorX"`
	AnchorY    float64 `json:"anchorY"`
	LineHeight float64 `json:"lineHeight"`
	Ascent     float64 `json:"ascent"`
	Lines      []Line  `json:"lines"`
}

// Height 返回所有行占用的总高度。
func (p Placement) Height() float64 {
	return float64(len(p.Lines)) * p.LineHeight
}
