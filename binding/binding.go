// Package binding fills ${path} placeholders in template text from caller data, so a
// canned template can carry the video title, episode number and so on.
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var placeholder = regexp.MustCompile(`\$\{([^}]+)\}`)

// Data is placeholder data: nested maps and lists as produced by ParseData.
type Data = map[string]any

// ParseData decodes raw JSON or YAML into placeholder data. Empty input yields nil.
func ParseData(raw string) (Data, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out Data
	if err := yaml.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("解析模板数据失败: %w", err)
	}
	return out, nil
}

// Interpolate replaces every ${a.b[0].c} in text with the value found in data.
// Placeholders whose path does not resolve are kept verbatim.
func Interpolate(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path == "" {
			return match
		}
		if val, ok := Lookup(data, path); ok && val != nil {
			return format(val)
		}
		return match
	})
}

// Placeholders returns the paths referenced by text, in order of appearance.
func Placeholders(text string) []string {
	var out []string
	for _, m := range placeholder.FindAllStringSubmatch(text, -1) {
		if p := strings.TrimSpace(m[1]); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// Lookup resolves a dotted path with optional [n] indexes against data.
func Lookup(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := splitSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			if current, ok = field(current, name); !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			if current, ok = element(current, idx); !ok {
				return nil, false
			}
		}
	}
	return current, true
}

// splitSegment splits "items[1][2]" into "items" and [1 2].
func splitSegment(segment string) (string, []int, bool) {
	i := strings.IndexByte(segment, '[')
	if i < 0 {
		return segment, nil, true
	}
	name, rest := segment[:i], segment[i:]
	var indexes []int
	for rest != "" {
		end := strings.IndexByte(rest, ']')
		if rest[0] != '[' || end < 0 {
			return "", nil, false
		}
		n, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, n)
		rest = rest[end+1:]
	}
	return name, indexes, true
}

func field(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		v, ok := c[key]
		return v, ok
	case map[string]string:
		v, ok := c[key]
		return v, ok
	case map[any]any:
		v, ok := c[key]
		return v, ok
	default:
		return nil, false
	}
}

func element(current any, idx int) (any, bool) {
	switch c := current.(type) {
	case []any:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	case []string:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}
