// Package templates is the built-in template gallery: canned scenes, font choices and
// style presets. Template text may contain ${path} placeholders filled from caller data.
package templates

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/thumbcraft/binding"
	"github.com/ByLCY/thumbcraft/scene"
)

//go:embed gallery.yaml
var builtin []byte

// FontInfo is a font offered by the gallery.
type FontInfo struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

// Effect is a named style preset applied on top of a layer's style.
type Effect struct {
	ID    string           `yaml:"id"`
	Name  string           `yaml:"name"`
	Style scene.StylePatch `yaml:"style"`
}

// ColorScheme is a named palette.
type ColorScheme struct {
	ID     string   `yaml:"id"`
	Name   string   `yaml:"name"`
	Colors []string `yaml:"colors"`
}

// Presets groups the style presets.
type Presets struct {
	TextEffects  []Effect      `yaml:"textEffects"`
	ColorSchemes []ColorScheme `yaml:"colorSchemes"`
}

// Gallery is a set of templates and presets.
type Gallery struct {
	Templates []scene.Template `yaml:"templates"`
	Fonts     []FontInfo       `yaml:"fonts"`
	Presets   Presets          `yaml:"presets"`
}

// Builtin parses the embedded gallery.
func Builtin() (*Gallery, error) {
	return Parse(bytes.NewReader(builtin))
}

// Parse reads a gallery document. Template ids must be non-empty and unique.
func Parse(r io.Reader) (*Gallery, error) {
	var g Gallery
	if err := yaml.NewDecoder(r).Decode(&g); err != nil {
		return nil, fmt.Errorf("解析模板库失败: %w", err)
	}
	seen := make(map[string]bool, len(g.Templates))
	for _, t := range g.Templates {
		if t.ID == "" {
			return nil, fmt.Errorf("模板 %q 缺少 id", t.Name)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("模板 id 重复: %s", t.ID)
		}
		seen[t.ID] = true
	}
	return &g, nil
}

// LoadFile reads a gallery file.
func LoadFile(path string) (*Gallery, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开模板库 %s 失败: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Merge adds other's templates and presets to g. Templates and presets with an
// existing id replace the earlier entry in place.
func (g *Gallery) Merge(other *Gallery) {
	if other == nil {
		return
	}
	for _, t := range other.Templates {
		if i := g.index(t.ID); i >= 0 {
			g.Templates[i] = t
			continue
		}
		g.Templates = append(g.Templates, t)
	}
	for _, f := range other.Fonts {
		if !g.hasFont(f.Name) {
			g.Fonts = append(g.Fonts, f)
		}
	}
	for _, e := range other.Presets.TextEffects {
		if i := g.effectIndex(e.ID); i >= 0 {
			g.Presets.TextEffects[i] = e
			continue
		}
		g.Presets.TextEffects = append(g.Presets.TextEffects, e)
	}
	g.Presets.ColorSchemes = append(g.Presets.ColorSchemes, other.Presets.ColorSchemes...)
}

func (g *Gallery) index(id string) int {
	for i, t := range g.Templates {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (g *Gallery) effectIndex(id string) int {
	for i, e := range g.Presets.TextEffects {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (g *Gallery) hasFont(name string) bool {
	for _, f := range g.Fonts {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Lookup returns a deep copy of the template id.
func (g *Gallery) Lookup(id string) (scene.Template, bool) {
	i := g.index(id)
	if i < 0 {
		return scene.Template{}, false
	}
	var out scene.Template
	if err := copier.CopyWithOption(&out, &g.Templates[i], copier.Option{DeepCopy: true}); err != nil {
		return scene.Template{}, false
	}
	return out, true
}

// Instantiate returns the template id with placeholders in layer contents filled from
// data.
func (g *Gallery) Instantiate(id string, data any) (scene.Template, bool) {
	t, ok := g.Lookup(id)
	if !ok {
		return t, false
	}
	for i := range t.Layers {
		t.Layers[i].Content = binding.Interpolate(t.Layers[i].Content, data)
	}
	return t, true
}

// WithData returns a template source whose templates are instantiated with data, for
// use as scene.Options.Templates.
func (g *Gallery) WithData(data any) scene.TemplateSource {
	return boundGallery{g: g, data: data}
}

type boundGallery struct {
	g    *Gallery
	data any
}

func (b boundGallery) Lookup(id string) (scene.Template, bool) {
	return b.g.Instantiate(id, b.data)
}

// Filter returns the templates in category ("" or "all" for every category) whose name
// contains search, case-insensitively.
func (g *Gallery) Filter(category, search string) []scene.Template {
	search = strings.ToLower(search)
	var out []scene.Template
	for _, t := range g.Templates {
		if category != "" && category != "all" && t.Category != category {
			continue
		}
		if !strings.Contains(strings.ToLower(t.Name), search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Categories lists template categories in first-seen order.
func (g *Gallery) Categories() []string {
	var out []string
	seen := map[string]bool{}
	for _, t := range g.Templates {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	return out
}

// Effect returns the style preset id.
func (g *Gallery) Effect(id string) (scene.StylePatch, bool) {
	if i := g.effectIndex(id); i >= 0 {
		return g.Presets.TextEffects[i].Style, true
	}
	return scene.StylePatch{}, false
}
