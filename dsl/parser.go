package dsl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	valueLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Length", Pattern: `[-+]?(?:\d+\.\d*|\.\d+|\d+)px`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.\d*|\.\d+|\d+)%?`},
		{Name: "Hex", Pattern: `#[0-9A-Fa-f]+`},
		{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9-]*`},
		{Name: "Punct", Pattern: `[(),/]`},
	})

	shadowParser = participle.MustBuild[ShadowList](
		participle.Lexer(valueLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)

	colorParser = participle.MustBuild[ColorValue](
		participle.Lexer(valueLexer),
		participle.Elide("Whitespace"),
	)
)

// ErrCurrentColor is returned by ParseColor for the currentColor keyword, which
// only has a meaning relative to the text colour of the element being drawn.
var ErrCurrentColor = errors.New("dsl: currentColor must be resolved by the caller")

// ShadowList is the root AST node of a text-shadow descriptor.
type ShadowList struct {
	Shadows []*ShadowValue `parser:"@@ ( ',' @@ )*"`
}

// ShadowValue is one `<offset-x> <offset-y> [<blur>] [<color>]` entry. The colour may
// also lead the lengths, as CSS allows.
type ShadowValue struct {
	Leading *ColorValue `parser:"@@?"`
	OffsetX string      `parser:"@(Length | Number)"`
	OffsetY string      `parser:"@(Length | Number)"`
	Blur    *string     `parser:"@(Length | Number)?"`
	Color   *ColorValue `parser:"@@?"`
}

// ColorValue is a hex literal, an rgb()/rgba() call or a named colour.
type ColorValue struct {
	Hex  *string    `parser:"  @Hex"`
	Func *ColorFunc `parser:"| @@"`
	Name *string    `parser:"| @Ident"`
}

// ColorFunc captures rgb(r, g, b) / rgba(r, g, b, a) and the space separated
// rgb(r g b / a) form.
type ColorFunc struct {
	Name  string   `parser:"@('rgb' | 'rgba')"`
	Args  []string `parser:"'(' @Number ( ','? @Number )*"`
	Alpha *string  `parser:"( '/' @Number )? ')'"`
}

// String renders the colour back into canonical CSS text.
func (c *ColorValue) String() string {
	switch {
	case c == nil:
		return ""
	case c.Hex != nil:
		return strings.ToLower(*c.Hex)
	case c.Func != nil:
		args := append([]string(nil), c.Func.Args...)
		if c.Func.Alpha != nil {
			args = append(args, *c.Func.Alpha)
		}
		return fmt.Sprintf("%s(%s)", strings.ToLower(c.Func.Name), strings.Join(args, ","))
	case c.Name != nil:
		return *c.Name
	default:
		return ""
	}
}

// Shadow is a parsed text shadow in pixels.
type Shadow struct {
	OffsetX float64
	OffsetY float64
	Blur    float64
	Color   string
}

// ParseShadow parses a CSS text-shadow descriptor such as
// "2px 2px 4px rgba(0,0,0,0.5)". Only the first shadow of a comma separated list is
// used. Lengths need a px unit except for a bare 0; a missing colour defaults to
// currentColor.
func ParseShadow(descriptor string) (Shadow, error) {
	list, err := shadowParser.ParseString("", descriptor)
	if err != nil {
		return Shadow{}, fmt.Errorf("解析阴影 %q 失败: %w", descriptor, err)
	}
	first := list.Shadows[0]

	var out Shadow
	if out.OffsetX, err = parsePx(first.OffsetX); err != nil {
		return Shadow{}, err
	}
	if out.OffsetY, err = parsePx(first.OffsetY); err != nil {
		return Shadow{}, err
	}
	if first.Blur != nil {
		if out.Blur, err = parsePx(*first.Blur); err != nil {
			return Shadow{}, err
		}
		if out.Blur < 0 {
			return Shadow{}, fmt.Errorf("阴影模糊半径不能为负: %s", *first.Blur)
		}
	}

	col := first.Color
	if col == nil {
		col = first.Leading
	}
	if col == nil {
		out.Color = "currentColor"
		return out, nil
	}
	out.Color = col.String()
	if !strings.EqualFold(out.Color, "currentColor") {
		if _, err := resolve(col); err != nil {
			return Shadow{}, err
		}
	}
	return out, nil
}

func parsePx(raw string) (float64, error) {
	if strings.HasSuffix(raw, "%") {
		return 0, fmt.Errorf("阴影偏移不支持百分比: %s", raw)
	}
	num := strings.TrimSuffix(raw, "px")
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("无效长度 %s: %w", raw, err)
	}
	if num == raw && v != 0 {
		return 0, fmt.Errorf("长度 %s 缺少 px 单位", raw)
	}
	return v, nil
}
