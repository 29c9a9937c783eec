package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// builtin 是随程序分发的 Go 字体家族，以 embed:<name> 访问。
var builtin = map[string][]byte{
	"Go-Regular.ttf":       goregular.TTF,
	"Go-Italic.ttf":        goitalic.TTF,
	"Go-Medium.ttf":        gomedium.TTF,
	"Go-Medium-Italic.ttf": gomediumitalic.TTF,
	"Go-Bold.ttf":          gobold.TTF,
	"Go-Bold-Italic.ttf":   gobolditalic.TTF,
}

// Load 返回内置字体的字节数据，path 可写为 "embed:Go-Bold.ttf" 或直接 "Go-Bold.ttf"。
func Load(path string) ([]byte, error) {
	name := strings.TrimPrefix(path, "embed:")
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 不存在", name)
	}
	return data, nil
}

// Names 返回全部内置字体文件名（已排序）。
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForWeight 返回与数值字重最接近的内置字体路径（embed: 形式）。
// 600 及以上使用粗体，500 使用中等字重，其余使用常规字重。
func ForWeight(weight int, italic bool) string {
	name := "Go-Regular"
	switch {
	case weight >= 600:
		name = "Go-Bold"
	case weight >= 500:
		name = "Go-Medium"
	}
	switch {
	case italic && name == "Go-Regular":
		name = "Go-Italic"
	case italic:
		name += "-Italic"
	}
	return "embed:" + name + ".ttf"
}
