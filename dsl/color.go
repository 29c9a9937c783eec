package dsl

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// namedColors covers the CSS keywords used by templates and presets.
var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#008000",
	"lime":    "#00ff00",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"gray":    "#808080",
	"grey":    "#808080",
	"silver":  "#c0c0c0",
	"gold":    "#ffd700",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
	"pink":    "#ffc0cb",
}

// ParseColor parses a CSS colour: #rgb, #rrggbb, #rrggbbaa, rgb()/rgba(), a named
// colour or "transparent".
func ParseColor(s string) (color.NRGBA, error) {
	val, err := colorParser.ParseString("", strings.TrimSpace(s))
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("解析颜色 %q 失败: %w", s, err)
	}
	return resolve(val)
}

// MustColor is ParseColor for trusted literals; invalid input yields opaque black.
func MustColor(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		return color.NRGBA{A: 255}
	}
	return c
}

func resolve(val *ColorValue) (color.NRGBA, error) {
	switch {
	case val.Hex != nil:
		return parseHex(*val.Hex)
	case val.Func != nil:
		return parseFunc(val.Func)
	case val.Name != nil:
		name := strings.ToLower(*val.Name)
		if name == "transparent" {
			return color.NRGBA{}, nil
		}
		if name == "currentcolor" {
			return color.NRGBA{}, ErrCurrentColor
		}
		hex, ok := namedColors[name]
		if !ok {
			return color.NRGBA{}, fmt.Errorf("未知颜色名 %s", *val.Name)
		}
		return parseHex(hex)
	}
	return color.NRGBA{}, fmt.Errorf("空颜色值")
}

func parseHex(hex string) (color.NRGBA, error) {
	alpha := uint8(255)
	switch len(hex) {
	case 4, 7:
	case 9:
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("无效颜色 %s: %w", hex, err)
		}
		alpha = uint8(a)
		hex = hex[:7]
	default:
		return color.NRGBA{}, fmt.Errorf("无效颜色 %s", hex)
	}
	c, err := colorful.Hex(strings.ToLower(hex))
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("无效颜色 %s: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

func parseFunc(fn *ColorFunc) (color.NRGBA, error) {
	args := append([]string(nil), fn.Args...)
	if fn.Alpha != nil {
		args = append(args, *fn.Alpha)
	}
	if len(args) != 3 && len(args) != 4 {
		return color.NRGBA{}, fmt.Errorf("%s 需要 3 或 4 个参数，实际 %d", fn.Name, len(args))
	}
	var channels [3]uint8
	for i := 0; i < 3; i++ {
		v, err := parseChannel(args[i])
		if err != nil {
			return color.NRGBA{}, err
		}
		channels[i] = v
	}
	alpha := uint8(255)
	if len(args) == 4 {
		a, err := parseAlpha(args[3])
		if err != nil {
			return color.NRGBA{}, err
		}
		alpha = a
	}
	return color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: alpha}, nil
}

func parseChannel(raw string) (uint8, error) {
	if strings.HasSuffix(raw, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("无效颜色通道 %s: %w", raw, err)
		}
		return clampByte(v / 100 * 255), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("无效颜色通道 %s: %w", raw, err)
	}
	return clampByte(v), nil
}

func parseAlpha(raw string) (uint8, error) {
	scale := 1.0
	if strings.HasSuffix(raw, "%") {
		scale = 100
		raw = strings.TrimSuffix(raw, "%")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("无效透明度 %s: %w", raw, err)
	}
	return clampByte(v / scale * 255), nil
}

func clampByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}
