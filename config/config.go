// Package config loads thumbcraft settings from a YAML or TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/thumbcraft/interact"
	"github.com/ByLCY/thumbcraft/scene"
)

// Canvas is the logical canvas.
type Canvas struct {
	Width           int    `yaml:"width" toml:"width"`
	Height          int    `yaml:"height" toml:"height"`
	BackgroundColor string `yaml:"backgroundColor" toml:"backgroundColor"`
}

// Preview is the size of generated variation previews.
type Preview struct {
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`
}

// Interaction holds the pointer constants.
type Interaction struct {
	DragThreshold float64 `yaml:"dragThreshold" toml:"dragThreshold"`
	DoubleClickMs int     `yaml:"doubleClickMs" toml:"doubleClickMs"`
	ReservedRight float64 `yaml:"reservedRight" toml:"reservedRight"`
	BottomMargin  float64 `yaml:"bottomMargin" toml:"bottomMargin"`
}

// Font registers a font file for a family, optionally for one weight only.
type Font struct {
	Family string `yaml:"family" toml:"family"`
	Weight int    `yaml:"weight,omitempty" toml:"weight,omitempty"`
	// Src is a file path (relative to the config file) or embed:<name>.
	Src string `yaml:"src" toml:"src"`
}

// Config is the whole configuration.
type Config struct {
	Canvas      Canvas      `yaml:"canvas" toml:"canvas"`
	Preview     Preview     `yaml:"preview" toml:"preview"`
	Interaction Interaction `yaml:"interaction" toml:"interaction"`
	Fonts       []Font      `yaml:"fonts" toml:"fonts"`
	// Templates is an optional gallery file merged over the built-in templates.
	Templates string `yaml:"templates,omitempty" toml:"templates,omitempty"`
	// Style is the default generator style.
	Style    string `yaml:"style" toml:"style"`
	LogLevel string `yaml:"logLevel" toml:"logLevel"`

	// dir is the directory of the loaded file; relative paths resolve against it.
	dir string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Canvas: Canvas{
			Width:           scene.DefaultWidth,
			Height:          scene.DefaultHeight,
			BackgroundColor: scene.DefaultBackgroundColor,
		},
		Preview: Preview{Width: 320, Height: 180},
		Interaction: Interaction{
			DragThreshold: 5,
			DoubleClickMs: 300,
			ReservedRight: 200,
			BottomMargin:  20,
		},
		Style:    "tech",
		LogLevel: "info",
	}
}

// Load reads path over the defaults. The format follows the extension: .toml is TOML,
// anything else is YAML. A leading ~ is expanded.
func Load(path string) (Config, error) {
	cfg := Default()
	expanded, err := homedir.Expand(path)
	if err != nil {
		return cfg, fmt.Errorf("展开路径 %s 失败: %w", path, err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return cfg, fmt.Errorf("读取配置 %s 失败: %w", expanded, err)
	}
	switch strings.ToLower(filepath.Ext(expanded)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("解析配置 %s 失败: %w", expanded, err)
	}
	cfg.dir = filepath.Dir(expanded)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("配置 %s 无效: %w", expanded, err)
	}
	return cfg, nil
}

// Validate checks the value ranges.
func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("画布尺寸必须为正: %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		return fmt.Errorf("预览尺寸必须为正: %dx%d", c.Preview.Width, c.Preview.Height)
	}
	if c.Interaction.DragThreshold < 0 || c.Interaction.DoubleClickMs < 0 {
		return fmt.Errorf("交互参数不能为负")
	}
	for i, f := range c.Fonts {
		if f.Family == "" || f.Src == "" {
			return fmt.Errorf("第 %d 个字体缺少 family 或 src", i+1)
		}
	}
	return nil
}

// Dir returns the directory of the loaded file, or "" for Default.
func (c Config) Dir() string { return c.dir }

// Resolve expands ~ and makes a relative path relative to the config directory.
func (c Config) Resolve(path string) string {
	if path == "" || strings.HasPrefix(path, "embed:") {
		return path
	}
	if expanded, err := homedir.Expand(path); err == nil {
		path = expanded
	}
	if !filepath.IsAbs(path) && c.dir != "" {
		path = filepath.Join(c.dir, path)
	}
	return path
}

// InteractConfig converts the interaction settings for interact.NewController.
func (c Config) InteractConfig() interact.Config {
	return interact.Config{
		DragThreshold: c.Interaction.DragThreshold,
		DoubleClick:   time.Duration(c.Interaction.DoubleClickMs) * time.Millisecond,
		ReservedRight: c.Interaction.ReservedRight,
		BottomMargin:  c.Interaction.BottomMargin,
	}
}

// FontSources maps "Family" or "Family:<weight>" to resolved font sources.
func (c Config) FontSources() map[string]string {
	out := make(map[string]string, len(c.Fonts))
	for _, f := range c.Fonts {
		key := f.Family
		if f.Weight > 0 {
			key += ":" + strconv.Itoa(f.Weight)
		}
		out[key] = c.Resolve(f.Src)
	}
	return out
}

// NewScene returns an empty scene with the configured canvas.
func (c Config) NewScene() scene.Scene {
	s := scene.New()
	s.Canvas = scene.Canvas{Width: c.Canvas.Width, Height: c.Canvas.Height, BackgroundColor: c.Canvas.BackgroundColor}
	return s
}
