package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1280, cfg.Canvas.Width)
	assert.Equal(t, 720, cfg.Canvas.Height)
	assert.Equal(t, "#1a1a1a", cfg.Canvas.BackgroundColor)

	ic := cfg.InteractConfig()
	assert.Equal(t, 5.0, ic.DragThreshold)
	assert.Equal(t, 300*time.Millisecond, ic.DoubleClick)
	assert.Equal(t, 200.0, ic.ReservedRight)
	assert.Equal(t, 20.0, ic.BottomMargin)

	s := cfg.NewScene()
	assert.Equal(t, 1280, s.Canvas.Width)
	assert.Empty(t, s.Layers)
}

func TestLoadYAMLKeepsUnsetDefaults(t *testing.T) {
	path := writeFile(t, "thumbcraft.yaml", `
canvas:
  backgroundColor: "#000000"
interaction:
  doubleClickMs: 450
fonts:
  - family: Inter
    src: fonts/Inter.ttf
  - family: Inter
    weight: 700
    src: embed:Go-Bold.ttf
style: gaming
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "#000000", cfg.Canvas.BackgroundColor)
	assert.Equal(t, 1280, cfg.Canvas.Width)
	assert.Equal(t, 450*time.Millisecond, cfg.InteractConfig().DoubleClick)
	assert.Equal(t, 5.0, cfg.Interaction.DragThreshold)
	assert.Equal(t, "gaming", cfg.Style)

	assert.Equal(t, map[string]string{
		"Inter":     filepath.Join(filepath.Dir(path), "fonts", "Inter.ttf"),
		"Inter:700": "embed:Go-Bold.ttf",
	}, cfg.FontSources())
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "thumbcraft.toml", `
style = "news"
templates = "gallery.yaml"

[preview]
width = 640
height = 360

[[fonts]]
family = "Roboto"
src = "/usr/share/fonts/Roboto.ttf"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Preview.Width)
	assert.Equal(t, 360, cfg.Preview.Height)
	assert.Equal(t, "news", cfg.Style)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "gallery.yaml"), cfg.Resolve(cfg.Templates))
	assert.Equal(t, "/usr/share/fonts/Roboto.ttf", cfg.FontSources()["Roboto"])
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load(writeFile(t, "bad.yaml", "canvas:\n  width: -1\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "font.yaml", "fonts:\n  - family: Inter\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "broken.toml", "style = \n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolveExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	cfg := Default()
	assert.Equal(t, filepath.Join(home, "fonts", "a.ttf"), cfg.Resolve("~/fonts/a.ttf"))
	assert.Equal(t, "relative.ttf", cfg.Resolve("relative.ttf"))
}
