package layout

import (
	"fmt"
	"strings"
)

// Wrap 按空格分词并贪心装行：若追加下一个词后行宽超过 maxWidth 且当前行非空，则换行。
// 单个超宽的词独占一行，不在词内拆分。maxWidth<=0 表示不限宽。
func Wrap(m Metrics, text string, font Font, maxWidth float64) ([]Line, error) {
	if m == nil {
		return nil, fmt.Errorf("缺少文本测量实现")
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	var (
		lines   []Line
		current string
		width   float64
	)
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		ext, err := m.Measure(candidate, font)
		if err != nil {
			return nil, fmt.Errorf("测量文本 %q 失败: %w", candidate, err)
		}
		if maxWidth > 0 && ext.Width > maxWidth && current != "" {
			lines = append(lines, Line{Content: current, Width: width})
			single, err := m.Measure(word, font)
			if err != nil {
				return nil, fmt.Errorf("测量文本 %q 失败: %w", word, err)
			}
			current, width = word, single.Width
			continue
		}
		current, width = candidate, ext.Width
	}
	lines = append(lines, Line{Content: current, Width: width})
	return lines, nil
}

// PlaceText 在画布上排版多行标题。
//
// 锚点默认位于画布中心；位置关键字包含 top 时锚点 y 为 字号+边距，且文本自锚点向下生长；
// 包含 bottom 时锚点 y 为 画布高-边距，文本自锚点向上生长；其余情况下文本围绕锚点垂直居中。
// 关键字 left/right 将锚点 x 移到对应边距并覆盖对齐方式。第 i 行基线位于 startY + i×行高。
func PlaceText(m Metrics, text string, font Font, opts PlaceOptions) (Placement, error) {
	opts = opts.withDefaults()
	lines, err := Wrap(m, text, font, opts.CanvasWidth*opts.MaxWidthRatio)
	if err != nil {
		return Placement{}, err
	}
	ext, err := m.Measure(text, font)
	if err != nil {
		return Placement{}, fmt.Errorf("测量文本 %q 失败: %w", text, err)
	}

	pos := strings.ToLower(opts.Position)
	align := strings.ToLower(opts.Align)
	x, y := opts.CanvasWidth/2, opts.CanvasHeight/2
	top := strings.Contains(pos, "top")
	bottom := strings.Contains(pos, "bottom")
	switch {
	case top:
		y = font.Size + opts.Margin
	case bottom:
		y = opts.CanvasHeight - opts.Margin
	}
	switch {
	case strings.Contains(pos, "left"):
		x, align = opts.Margin, "left"
	case strings.Contains(pos, "right"):
		x, align = opts.CanvasWidth-opts.Margin, "right"
	}

	lineHeight := font.Size * opts.LineHeightRatio
	total := float64(len(lines)) * lineHeight
	startY := y - total/2
	switch {
	case top:
		startY = y
	case bottom:
		startY = y - total
	}

	for i := range lines {
		lines[i].Baseline = startY + float64(i)*lineHeight
		switch align {
		case "left", "start":
			lines[i].X = x
		case "right", "end":
			lines[i].X = x - lines[i].Width
		default:
			lines[i].X = x - lines[i].Width/2
		}
	}
	return Placement{
		Font:       font,
		Align:      align,
		AnchorX:    x,
		AnchorY:    y,
		LineHeight: lineHeight,
		Ascent:     ext.Ascent,
		Lines:      lines,
	}, nil
}
