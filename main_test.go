package main

import (
	"context"
	"encoding/json"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/thumbcraft/config"
	canvasrenderer "github.com/ByLCY/thumbcraft/renderer/canvas"
	"github.com/ByLCY/thumbcraft/scene"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRunGeneratesFromTitle(t *testing.T) {
	dir := t.TempDir()
	o := options{
		title:      "How to Build AMAZING Apps Fast",
		style:      "tech",
		pick:       "ai-optimized",
		outPath:    filepath.Join(dir, "out", "thumb.png"),
		previewDir: filepath.Join(dir, "previews"),
		debugPath:  filepath.Join(dir, "debug.json"),
	}
	log := quietLogger()
	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{BaseDir: dir, Logger: log})
	if err := run(context.Background(), o, config.Default(), r, log); err != nil {
		t.Fatalf("run 失败: %v", err)
	}

	f, err := os.Open(o.outPath)
	if err != nil {
		t.Fatalf("缺少输出: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("输出不是 PNG: %v", err)
	}
	if cfg.Width != 1280 || cfg.Height != 720 {
		t.Fatalf("export size = %dx%d, want 1280x720", cfg.Width, cfg.Height)
	}

	previews, _ := filepath.Glob(filepath.Join(o.previewDir, "*.png"))
	if len(previews) != 6 {
		t.Fatalf("previews = %d, want 6", len(previews))
	}

	raw, err := os.ReadFile(o.debugPath)
	if err != nil {
		t.Fatalf("缺少调试 JSON: %v", err)
	}
	var debug struct {
		Scene scene.Scene        `json:"scene"`
		Specs []scene.RenderSpec `json:"specs"`
	}
	if err := json.Unmarshal(raw, &debug); err != nil {
		t.Fatalf("解析调试 JSON 失败: %v", err)
	}
	if len(debug.Specs) != 6 || len(debug.Scene.Layers) == 0 {
		t.Fatalf("unexpected debug output: %d specs, %d layers", len(debug.Specs), len(debug.Scene.Layers))
	}
	if got := debug.Scene.Layers[0].ID; got != "ai-optimized-line-1" {
		t.Fatalf("first layer id = %q", got)
	}
}

func TestRunAppliesTemplateWithData(t *testing.T) {
	dir := t.TempDir()
	o := options{
		templateID: "episode",
		dataRaw:    `{"title": "Night Dive", "episode": 3}`,
		outPath:    filepath.Join(dir, "thumb.pdf"),
		debugPath:  filepath.Join(dir, "debug.json"),
	}
	log := quietLogger()
	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{BaseDir: dir, Logger: log})
	if err := run(context.Background(), o, config.Default(), r, log); err != nil {
		t.Fatalf("run 失败: %v", err)
	}

	raw, err := os.ReadFile(o.debugPath)
	if err != nil {
		t.Fatalf("缺少调试 JSON: %v", err)
	}
	var debug struct {
		Scene scene.Scene `json:"scene"`
	}
	if err := json.Unmarshal(raw, &debug); err != nil {
		t.Fatalf("解析调试 JSON 失败: %v", err)
	}
	if len(debug.Scene.Layers) != 2 || debug.Scene.Layers[1].Content != "Night Dive" {
		t.Fatalf("template not instantiated: %+v", debug.Scene.Layers)
	}

	pdf, err := os.ReadFile(o.outPath)
	if err != nil || len(pdf) < 4 || string(pdf[:4]) != "%PDF" {
		t.Fatalf("expected a PDF, err=%v", err)
	}
}

func TestRunRejectsUnknownTemplate(t *testing.T) {
	o := options{templateID: "missing", outPath: filepath.Join(t.TempDir(), "x.png")}
	log := quietLogger()
	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{Logger: log})
	if err := run(context.Background(), o, config.Default(), r, log); err == nil {
		t.Fatal("expected an error for an unknown template")
	}
}
