package scene

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/thumbcraft/dsl"
)

// UnmarshalYAML accepts either a mapping or a CSS descriptor such as
// "2px 2px 4px rgba(0,0,0,0.5)". A malformed descriptor leaves the zero value, which
// Style and StylePatch drop.
func (s *Shadow) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*s = Shadow{}
		if parsed := ParseShadow(node.Value); parsed != nil {
			*s = *parsed
		}
		return nil
	}
	type plain Shadow
	return node.Decode((*plain)(s))
}

// ParseShadow parses a CSS text-shadow descriptor. It returns nil for malformed
// descriptors, which draw no shadow.
func ParseShadow(desc string) *Shadow {
	parsed, err := dsl.ParseShadow(desc)
	if err != nil {
		return nil
	}
	return &Shadow{OffsetX: parsed.OffsetX, OffsetY: parsed.OffsetY, Blur: parsed.Blur, Color: parsed.Color}
}

// MarshalYAML writes the shadow as a CSS descriptor.
func (s Shadow) MarshalYAML() (any, error) { return s.String(), nil }

// UnmarshalYAML decodes a style and drops shadows that failed to parse.
func (s *Style) UnmarshalYAML(node *yaml.Node) error {
	type plain Style
	if err := node.Decode((*plain)(s)); err != nil {
		return err
	}
	s.Shadow = usableShadow(s.Shadow)
	return nil
}

// UnmarshalYAML decodes a style patch and drops shadows that failed to parse, so a
// broken preset leaves the layer's shadow untouched.
func (p *StylePatch) UnmarshalYAML(node *yaml.Node) error {
	type plain StylePatch
	if err := node.Decode((*plain)(p)); err != nil {
		return err
	}
	p.Shadow = usableShadow(p.Shadow)
	return nil
}

// usableShadow returns nil for a zero shadow or one without a colour.
func usableShadow(sh *Shadow) *Shadow {
	if sh == nil || *sh == (Shadow{}) || sh.Color == "" {
		return nil
	}
	return sh
}

// Decode reads a scene document. Missing canvas fields take the defaults.
func Decode(r io.Reader) (Scene, error) {
	s := New()
	if err := yaml.NewDecoder(r).Decode(&s); err != nil && err != io.EOF {
		return Scene{}, fmt.Errorf("解析场景失败: %w", err)
	}
	if s.Canvas.Width <= 0 {
		s.Canvas.Width = DefaultWidth
	}
	if s.Canvas.Height <= 0 {
		s.Canvas.Height = DefaultHeight
	}
	if s.Canvas.BackgroundColor == "" {
		s.Canvas.BackgroundColor = DefaultBackgroundColor
	}
	seen := map[string]bool{}
	for _, l := range s.Layers {
		if l.ID == "" {
			return Scene{}, fmt.Errorf("图层缺少 id")
		}
		if seen[l.ID] {
			return Scene{}, fmt.Errorf("图层 id %s 重复", l.ID)
		}
		seen[l.ID] = true
	}
	return s, nil
}

// LoadFile reads a scene document from path.
func LoadFile(path string) (Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scene{}, fmt.Errorf("无法打开场景文件 %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes s as YAML.
func Encode(w io.Writer, s Scene) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("写入场景失败: %w", err)
	}
	return enc.Close()
}
