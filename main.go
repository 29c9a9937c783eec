package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/thumbcraft/binding"
	"github.com/ByLCY/thumbcraft/config"
	"github.com/ByLCY/thumbcraft/export"
	"github.com/ByLCY/thumbcraft/generator"
	"github.com/ByLCY/thumbcraft/layout"
	"github.com/ByLCY/thumbcraft/renderer"
	canvasrenderer "github.com/ByLCY/thumbcraft/renderer/canvas"
	"github.com/ByLCY/thumbcraft/scene"
	"github.com/ByLCY/thumbcraft/templates"
)

type options struct {
	configPath string
	scenePath  string
	templateID string
	dataRaw    string
	title      string
	image      string
	style      string
	pick       string
	outPath    string
	format     string
	previewDir string
	debugPath  string
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "配置文件路径（YAML 或 TOML）")
	flag.StringVar(&o.scenePath, "scene", "", "场景 YAML 文件")
	flag.StringVar(&o.templateID, "template", "", "应用的模板 id")
	flag.StringVar(&o.dataRaw, "data", "", "模板占位符数据（JSON 或 YAML）")
	flag.StringVar(&o.title, "title", "", "根据标题生成六种候选构图")
	flag.StringVar(&o.image, "image", "", "背景图片路径或 data: URL")
	flag.StringVar(&o.style, "style", "", "生成风格：gaming/tech/tutorial/vlog/news")
	flag.StringVar(&o.pick, "pick", generator.BoldCenter, "导出的候选构图 id")
	flag.StringVar(&o.outPath, "out", "output/thumbnail.png", "输出路径")
	flag.StringVar(&o.format, "format", "", "输出格式 png|jpeg|bmp|pdf，默认按扩展名")
	flag.StringVar(&o.previewDir, "previews", "", "候选构图预览输出目录")
	flag.StringVar(&o.debugPath, "debug", "", "调试 JSON 输出路径")
	flag.Parse()

	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir: baseDir(o),
		Fonts:   fontResources(cfg),
		Logger:  log,
	})
	if err := run(context.Background(), o, cfg, r, log); err != nil {
		log.Error("生成缩略图失败", "err", err)
		os.Exit(1)
	}
	fmt.Printf("已生成缩略图：%s\n", o.outPath)
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func baseDir(o options) string {
	if o.scenePath != "" {
		return filepath.Dir(o.scenePath)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func fontResources(cfg config.Config) map[string]canvasrenderer.Resource {
	out := map[string]canvasrenderer.Resource{}
	for key, src := range cfg.FontSources() {
		out[key] = canvasrenderer.Resource{Path: src}
	}
	return out
}

// metricsRenderer 同时负责绘制与文本测量。
type metricsRenderer interface {
	renderer.Renderer
	layout.Metrics
}

// run 串联配置、模板、生成与导出。
func run(ctx context.Context, o options, cfg config.Config, r metricsRenderer, log *slog.Logger) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}

	gallery, err := templates.Builtin()
	if err != nil {
		return err
	}
	if cfg.Templates != "" {
		user, err := templates.LoadFile(cfg.Resolve(cfg.Templates))
		if err != nil {
			return err
		}
		gallery.Merge(user)
	}

	data, err := binding.ParseData(o.dataRaw)
	if err != nil {
		return err
	}

	initial := cfg.NewScene()
	if o.scenePath != "" {
		if initial, err = scene.LoadFile(o.scenePath); err != nil {
			return err
		}
	}
	editor := scene.NewEditor(initial, scene.Options{Templates: gallery.WithData(data)})

	if o.templateID != "" {
		if _, ok := gallery.Lookup(o.templateID); !ok {
			return fmt.Errorf("未知模板: %s", o.templateID)
		}
		editor.ApplyTemplate(o.templateID)
		log.Info("已应用模板", "template", o.templateID)
	}
	if o.image != "" {
		editor.SetBackgroundImage(o.image)
	}

	debug := map[string]any{}
	if o.title != "" {
		style := o.style
		if style == "" {
			style = cfg.Style
		}
		specs := generator.Generate(o.title, editor.Snapshot().BackgroundImage, style)
		debug["analysis"] = generator.Analyze(o.title)
		debug["specs"] = specs
		log.Info("已生成候选构图", "count", len(specs), "style", style)

		if o.previewDir != "" {
			paths, err := export.SavePreviews(ctx, o.previewDir, r, specs, cfg.Preview.Width, cfg.Preview.Height)
			if err != nil {
				return err
			}
			log.Info("已输出预览", "files", strings.Join(paths, ", "))
		}

		spec, ok := pickSpec(specs, o.pick)
		if !ok {
			return fmt.Errorf("未知候选构图: %s", o.pick)
		}
		layers, err := generator.Materialize(spec, r)
		if err != nil {
			return err
		}
		editor.ImportLayers(spec.BackgroundImage, layers)
	}

	final := editor.Snapshot()
	debug["scene"] = final
	if o.debugPath != "" {
		if err := layout.WriteDebugJSON(debug, o.debugPath); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(o.outPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	return writeOutput(ctx, o, r, final)
}

func pickSpec(specs []scene.RenderSpec, id string) (scene.RenderSpec, bool) {
	for _, s := range specs {
		if s.ID == id {
			return s, true
		}
	}
	return scene.RenderSpec{}, false
}

func writeOutput(ctx context.Context, o options, r renderer.Renderer, s scene.Scene) error {
	meta := export.Meta{Title: o.title, Creator: "thumbcraft"}
	format := strings.ToLower(o.format)
	if format == "" {
		return export.Save(ctx, o.outPath, r, s, meta)
	}
	f, err := os.Create(o.outPath)
	if err != nil {
		return fmt.Errorf("创建输出文件失败: %w", err)
	}
	if format == export.FormatPDF {
		err = export.PDF(ctx, f, r, s, meta)
	} else {
		err = export.Raster(ctx, f, r, s, format)
	}
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
