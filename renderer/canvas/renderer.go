package canvasrenderer

import (
	"context"
	"image"
	"log/slog"
	"os"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/thumbcraft/layout"
	"github.com/ByLCY/thumbcraft/renderer"
	"github.com/ByLCY/thumbcraft/scene"
)

// Renderer draws scenes via github.com/tdewolff/canvas and doubles as the text
// measurement used for layout and hit testing.
type Renderer struct {
	baseDir string

	// injected resources
	fonts map[string]Resource

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily

	loader   ImageLoader
	dispatch func(func())
	log      *slog.Logger

	imgMu  sync.Mutex
	images map[string]*decodeEntry
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Metrics    = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	// Fonts maps "Family" or "Family:<weight>" to a font file. Families without an
	// entry use the built-in Go fonts at the nearest weight.
	Fonts map[string]Resource
	// Images are background images accessible via built-in:<name>.
	Images map[string]Resource
	// Loader replaces the default built-in:/data:/path loader.
	Loader ImageLoader
	// Dispatch runs decode continuations, e.g. by posting them to a UI loop. By
	// default they run on the decoding goroutine.
	Dispatch func(func())
	Logger   *slog.Logger
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		fonts:        map[string]Resource{},
		fontFamilies: map[string]*fontFamilyEntry{},
		loader:       opts.Loader,
		dispatch:     opts.Dispatch,
		log:          opts.Logger,
		images:       map[string]*decodeEntry{},
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	if r.dispatch == nil {
		r.dispatch = func(fn func()) { fn() }
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		r.fonts[name] = res
	}
	if r.loader == nil {
		blobs := map[string][]byte{}
		for name, res := range opts.Images {
			if name == "" {
				continue
			}
			if len(res.Bytes) > 0 {
				blobs[name] = res.Bytes
				continue
			}
			if res.Path != "" {
				data, _ := os.ReadFile(res.Path) // 读取失败时在绘制阶段报告找不到资源
				if len(data) > 0 {
					blobs[name] = data
				}
			}
		}
		r.loader = &sourceLoader{baseDir: opts.BaseDir, blobs: blobs}
	}
	return r
}

// Measure implements layout.Metrics. Width and ascent are in pixels at font.Size.
func (r *Renderer) Measure(content string, font layout.Font) (layout.Extent, error) {
	face, err := r.fontFace(font, canvas.Black)
	if err != nil {
		return layout.Extent{}, err
	}
	m := face.Metrics()
	return layout.Extent{Width: face.TextWidth(content), Ascent: m.Ascent, CapHeight: m.CapHeight}, nil
}

// DrawScene draws s onto target. The canvas fill is painted immediately; when a
// background image is set and not yet decoded, the image and layers are painted once
// the decode completes. A frame superseded by a newer draw on the same surface
// finishes with renderer.ErrStale and leaves the pixels untouched.
func (r *Renderer) DrawScene(ctx context.Context, s scene.Scene, target *renderer.Surface) *renderer.Frame {
	w, h := s.Canvas.Width, s.Canvas.Height
	if w <= 0 || h <= 0 {
		w, h = scene.DefaultWidth, scene.DefaultHeight
	}
	sx, sy := target.Scale(w, h)
	job := &drawJob{
		r:      r,
		fill:   s.Canvas.BackgroundColor,
		bgRef:  s.BackgroundImage,
		sx:     sx,
		sy:     sy,
		layers: func(img *image.RGBA) { r.paintLayers(img, s, sx, sy) },
	}
	return job.run(ctx, target)
}

// DrawSpec draws a generated composition: the title is wrapped and anchored per the
// spec layout on a 1280×720 logical canvas and scaled onto target.
func (r *Renderer) DrawSpec(ctx context.Context, spec scene.RenderSpec, target *renderer.Surface) *renderer.Frame {
	sx, sy := target.Scale(scene.DefaultWidth, scene.DefaultHeight)
	job := &drawJob{
		r:       r,
		fill:    scene.DefaultBackgroundColor,
		bgRef:   spec.BackgroundImage,
		sx:      sx,
		sy:      sy,
		overlay: &spec.Overlay,
		layers:  func(img *image.RGBA) { r.paintSpecText(img, spec, sx, sy) },
	}
	return job.run(ctx, target)
}

// drawJob carries one draw through its optional asynchronous decode.
type drawJob struct {
	r       *Renderer
	fill    string
	bgRef   string
	sx, sy  float64
	overlay *scene.Overlay
	layers  func(img *image.RGBA)
}

func (j *drawJob) run(ctx context.Context, target *renderer.Surface) *renderer.Frame {
	gen := target.Begin()
	frame := renderer.NewFrame(gen)
	if err := ctx.Err(); err != nil {
		frame.Finish(err)
		return frame
	}
	if err := target.Paint(gen, func(img *image.RGBA) { fillColor(img, j.fill) }); err != nil {
		frame.Finish(err)
		return frame
	}
	if j.bgRef == "" {
		frame.Finish(target.Paint(gen, j.layers))
		return frame
	}

	entry := j.r.decode(j.bgRef)
	if entry.ready() {
		frame.Finish(target.Paint(gen, func(img *image.RGBA) { j.finish(img, entry) }))
		return frame
	}
	go func() {
		select {
		case <-entry.done:
		case <-ctx.Done():
			frame.Finish(ctx.Err())
			return
		}
		j.r.dispatch(func() {
			if err := ctx.Err(); err != nil {
				frame.Finish(err)
				return
			}
			frame.Finish(target.Paint(gen, func(img *image.RGBA) { j.finish(img, entry) }))
		})
	}()
	return frame
}

// finish paints everything after the fill for a decoded (or failed) background.
func (j *drawJob) finish(img *image.RGBA, entry *decodeEntry) {
	if entry.err != nil {
		j.r.log.Warn("背景图解码失败，仅保留底色", "ref", shortRef(j.bgRef), "err", entry.err)
		j.r.forget(j.bgRef, entry) // 失败不缓存，下次绘制重新加载
	} else {
		drawBackground(img, entry.img)
		if j.overlay != nil {
			drawOverlay(img, *j.overlay)
		}
	}
	j.layers(img)
}
