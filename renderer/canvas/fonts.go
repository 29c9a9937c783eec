package canvasrenderer

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/thumbcraft/fonts"
	"github.com/ByLCY/thumbcraft/layout"
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// fontFace 创建指定字号（px）与颜色的字体面；字体系统使用 pt，这里做一次 px→pt。
func (r *Renderer) fontFace(font layout.Font, col color.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(layout.PxToPt(font.Size), col, style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.Font) (*canvas.FontFamily, canvas.FontStyle, error) {
	weight := layout.ParseWeight(font.Weight)
	key := fontCacheKey(font.Family, weight)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(weight)
	familyName := font.Family
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)

	if err := r.loadFontIntoFamily(family, font.Family, weight, style); err != nil {
		r.log.Warn("字体加载失败，使用后备字体", "family", font.Family, "weight", weight, "err", err)
		fallback, fbStyle, fbErr := r.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: fbStyle}
		return fallback, fbStyle, nil
	}

	entry := &fontFamilyEntry{family: family, style: style}
	r.fontFamilies[key] = entry
	return family, style, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, name string, weight int, style canvas.FontStyle) error {
	data, err := r.loadFontBytes(name, weight)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

// loadFontBytes 依次查找 "Family:weight"、"Family" 两种注入字体，找不到时使用最接近字重的内置字体。
func (r *Renderer) loadFontBytes(name string, weight int) ([]byte, error) {
	for _, key := range []string{name + ":" + strconv.Itoa(weight), name} {
		res, ok := r.fonts[key]
		if !ok {
			continue
		}
		return r.readFontResource(res)
	}
	return fonts.Load(fonts.ForWeight(weight, false))
}

func (r *Renderer) readFontResource(res Resource) ([]byte, error) {
	if len(res.Bytes) > 0 {
		return res.Bytes, nil
	}
	src := res.Path
	if src == "" {
		return nil, fmt.Errorf("字体资源缺少 src")
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func (r *Renderer) fallback() (*canvas.FontFamily, canvas.FontStyle, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, canvas.FontRegular, nil
	}
	data, err := fonts.Load("embed:Go-Regular.ttf")
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily("thumbcraft-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, canvas.FontRegular, err
	}
	r.fallbackFamily = family
	return family, canvas.FontRegular, nil
}

// parseFontStyle 将数值字重映射为 canvas 的字体样式。
func parseFontStyle(weight int) canvas.FontStyle {
	switch {
	case weight >= 900:
		return canvas.FontBlack
	case weight >= 800:
		return canvas.FontExtraBold
	case weight >= 700:
		return canvas.FontBold
	case weight >= 600:
		return canvas.FontSemiBold
	case weight >= 500:
		return canvas.FontMedium
	case weight >= 400:
		return canvas.FontRegular
	case weight >= 300:
		return canvas.FontLight
	case weight >= 200:
		return canvas.FontExtraLight
	default:
		return canvas.FontThin
	}
}

func fontCacheKey(family string, weight int) string {
	return fmt.Sprintf("%s|%d", strings.ToLower(family), weight)
}
