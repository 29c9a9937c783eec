package canvasrenderer

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ByLCY/thumbcraft/generator"
	"github.com/ByLCY/thumbcraft/hittest"
	"github.com/ByLCY/thumbcraft/layout"
	"github.com/ByLCY/thumbcraft/renderer"
	"github.com/ByLCY/thumbcraft/scene"
)

func quietRenderer(opts Options) *Renderer {
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRendererWithOptions(opts)
}

func solidPNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func waitFrame(t *testing.T, f *renderer.Frame) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return f.Wait(ctx)
}

func countPixels(img *image.RGBA, r image.Rectangle, pred func(color.RGBA) bool) int {
	n := 0
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if pred(img.RGBAAt(x, y)) {
				n++
			}
		}
	}
	return n
}

func plainLayer(id, content string, x, y, size float64) scene.TextLayer {
	st := scene.DefaultStyle()
	st.FontSize = size
	st.Shadow = nil
	return scene.TextLayer{ID: id, Content: content, Position: scene.Point{X: x, Y: y}, Style: st}
}

func TestMeasureGrowsWithContent(t *testing.T) {
	r := quietRenderer(Options{})
	font := layout.Font{Family: "Inter", Size: 48, Weight: "bold"}
	short, err := r.Measure("Hi", font)
	if err != nil {
		t.Fatalf("measure failed: %v", err)
	}
	long, err := r.Measure("Hello there", font)
	if err != nil {
		t.Fatalf("measure failed: %v", err)
	}
	if short.Width <= 0 || long.Width <= short.Width {
		t.Fatalf("width should grow with content: %g vs %g", short.Width, long.Width)
	}
	if short.Ascent <= 0 || short.Ascent > 48 {
		t.Fatalf("ascent should be within the font size, got %g", short.Ascent)
	}
	double, _ := r.Measure("Hello there", font.Scaled(2))
	if diff := double.Width - 2*long.Width; diff > 0.5 || diff < -0.5 {
		t.Fatalf("width should scale linearly with size: %g vs %g", double.Width, long.Width)
	}
}

func TestDrawSceneFillsAndDrawsText(t *testing.T) {
	r := quietRenderer(Options{})
	s := scene.New().AddLayer(plainLayer("a", "MMMM", 100, 100, 96))
	surf := renderer.NewSurface(1280, 720)

	f := r.DrawScene(context.Background(), s, surf)
	select {
	case <-f.Done():
	default:
		t.Fatalf("a scene without background image should draw synchronously")
	}
	if err := f.Err(); err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	img := surf.Image()
	if got := img.RGBAAt(5, 5); got != (color.RGBA{R: 26, G: 26, B: 26, A: 255}) {
		t.Fatalf("expected #1a1a1a fill, got %+v", got)
	}
	bounds, err := hittest.Bounds(s.Layers[0], r)
	if err != nil {
		t.Fatalf("bounds failed: %v", err)
	}
	box := image.Rect(int(bounds.X), int(bounds.Y), int(bounds.X+bounds.Width)+1, int(bounds.Y+bounds.Height)+1)
	if n := countPixels(img, box, func(c color.RGBA) bool { return c.R > 200 && c.G > 200 }); n == 0 {
		t.Fatalf("expected white glyph pixels inside %v", box)
	}
	outside := image.Rect(0, 300, 1280, 720)
	if n := countPixels(img, outside, func(c color.RGBA) bool { return c.R > 60 }); n != 0 {
		t.Fatalf("no text expected below the layer, found %d pixels", n)
	}
}

func TestDrawSceneScalesToPreview(t *testing.T) {
	r := quietRenderer(Options{})
	s := scene.New().AddLayer(plainLayer("a", "MMMM", 400, 400, 96))
	surf := renderer.NewSurface(320, 180)
	if err := waitFrame(t, r.DrawScene(context.Background(), s, surf)); err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	img := surf.Image()
	if n := countPixels(img, image.Rect(100, 100, 180, 130), func(c color.RGBA) bool { return c.R > 200 }); n == 0 {
		t.Fatalf("expected scaled glyphs near (100,100)")
	}
	if n := countPixels(img, image.Rect(0, 0, 90, 90), func(c color.RGBA) bool { return c.R > 60 }); n != 0 {
		t.Fatalf("unexpected ink in the top-left corner")
	}
}

func TestSelectionOutlineIsRed(t *testing.T) {
	r := quietRenderer(Options{})
	s := scene.New().AddLayer(plainLayer("a", "Selected", 200, 200, 48)).SelectLayer("a")
	surf := renderer.NewSurface(1280, 720)
	if err := waitFrame(t, r.DrawScene(context.Background(), s, surf)); err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	red := func(c color.RGBA) bool { return c.R > 180 && c.G < 80 && c.B < 80 }
	// the top edge of the outline runs 5px above the layer
	if n := countPixels(surf.Image(), image.Rect(190, 192, 400, 198), red); n == 0 {
		t.Fatalf("expected a red dashed outline above the layer")
	}
}

type gateLoader struct {
	gate  chan struct{}
	img   image.Image
	err   error
	calls atomic.Int32
}

func (g *gateLoader) Load(ctx context.Context, ref string) (image.Image, error) {
	g.calls.Add(1)
	<-g.gate
	return g.img, g.err
}

func TestStaleDecodeDoesNotOverwriteNewerFrame(t *testing.T) {
	loader := &gateLoader{gate: make(chan struct{}), img: image.NewRGBA(image.Rect(0, 0, 4, 4))}
	r := quietRenderer(Options{Loader: loader})
	surf := renderer.NewSurface(64, 36)

	slow := r.DrawScene(context.Background(), scene.New().SetBackgroundImage("slow.png"), surf)
	newer := r.DrawScene(context.Background(), scene.New().SetCanvasBackgroundColor("#ff0000"), surf)
	if err := waitFrame(t, newer); err != nil {
		t.Fatalf("newer frame failed: %v", err)
	}
	close(loader.gate)
	if err := waitFrame(t, slow); !errors.Is(err, renderer.ErrStale) {
		t.Fatalf("expected ErrStale for superseded frame, got %v", err)
	}
	if got := surf.Image().RGBAAt(10, 10); got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("newer frame must win, got %+v", got)
	}
}

func TestDecodedImageIsCachedAndDrawnSynchronously(t *testing.T) {
	loader := &gateLoader{gate: make(chan struct{})}
	bg := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range bg.Pix {
		bg.Pix[i] = 255
	}
	loader.img = bg
	close(loader.gate)
	r := quietRenderer(Options{Loader: loader})
	s := scene.New().SetBackgroundImage("bg.png")

	surf := renderer.NewSurface(32, 18)
	if err := waitFrame(t, r.DrawScene(context.Background(), s, surf)); err != nil {
		t.Fatalf("first draw failed: %v", err)
	}
	second := r.DrawScene(context.Background(), s, surf)
	select {
	case <-second.Done():
	default:
		t.Fatalf("cached image should draw synchronously")
	}
	if loader.calls.Load() != 1 {
		t.Fatalf("expected one decode, got %d", loader.calls.Load())
	}
	if got := surf.Image().RGBAAt(16, 9); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("image should be stretched over the surface, got %+v", got)
	}
}

func TestDecodeFailureKeepsFillAndDrawsLayers(t *testing.T) {
	r := quietRenderer(Options{})
	s := scene.New().SetBackgroundImage("data:image/png;base64,bm90IGFuIGltYWdl").
		AddLayer(plainLayer("a", "MMMM", 100, 100, 96))
	surf := renderer.NewSurface(1280, 720)
	if err := waitFrame(t, r.DrawScene(context.Background(), s, surf)); err != nil {
		t.Fatalf("decode failure must not fail the frame: %v", err)
	}
	img := surf.Image()
	if got := img.RGBAAt(5, 5); got != (color.RGBA{R: 26, G: 26, B: 26, A: 255}) {
		t.Fatalf("expected fill to remain, got %+v", got)
	}
	if n := countPixels(img, image.Rect(100, 100, 400, 200), func(c color.RGBA) bool { return c.R > 200 }); n == 0 {
		t.Fatalf("layers must still be drawn")
	}
}

func TestDispatchRunsContinuation(t *testing.T) {
	var dispatched atomic.Int32
	loader := &gateLoader{gate: make(chan struct{}), img: image.NewRGBA(image.Rect(0, 0, 2, 2))}
	r := quietRenderer(Options{
		Loader:   loader,
		Dispatch: func(fn func()) { dispatched.Add(1); fn() },
	})
	surf := renderer.NewSurface(16, 9)
	frame := r.DrawScene(context.Background(), scene.New().SetBackgroundImage("bg.png"), surf)
	close(loader.gate)
	if err := waitFrame(t, frame); err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	if dispatched.Load() != 1 {
		t.Fatalf("expected the continuation to be dispatched once, got %d", dispatched.Load())
	}
}

func TestDrawSpecOverlayDarkensImage(t *testing.T) {
	white := base64.StdEncoding.EncodeToString(solidPNG(t, color.White))
	r := quietRenderer(Options{})
	spec := scene.RenderSpec{
		ID:              "bold-center",
		BackgroundImage: "data:image/png;base64," + white,
		Layout:          scene.SpecLayout{TextPosition: "center", TextAlign: "center"},
		TextStyle:       scene.DefaultStyle(),
		Overlay: scene.Overlay{Type: scene.OverlayGradient, Stops: []scene.GradientStop{
			{Position: 0, Color: "rgba(0,0,0,0.7)"},
			{Position: 0.5, Color: "rgba(0,0,0,0.3)"},
			{Position: 1, Color: "rgba(0,0,0,0.7)"},
		}},
	}
	surf := renderer.NewSurface(320, 180)
	if err := waitFrame(t, r.DrawSpec(context.Background(), spec, surf)); err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	img := surf.Image()
	corner := img.RGBAAt(0, 0)
	if corner.R < 70 || corner.R > 84 {
		t.Fatalf("corner should be white under 70%% black, got %+v", corner)
	}
	mid := img.RGBAAt(160, 90)
	if mid.R < 170 || mid.R > 186 {
		t.Fatalf("centre should be white under 30%% black, got %+v", mid)
	}
}

func TestDrawSpecWithoutImageSkipsOverlay(t *testing.T) {
	r := quietRenderer(Options{})
	spec := scene.RenderSpec{
		Title:     "How to Build AMAZING Apps Fast",
		Layout:    scene.SpecLayout{TextPosition: "top", TextAlign: "center"},
		TextStyle: scene.DefaultStyle(),
		Overlay:   scene.Overlay{Type: scene.OverlaySolid, Color: "rgba(255,0,0,1)"},
	}
	spec.TextStyle.FontSize = 54.4
	surf := renderer.NewSurface(320, 180)
	if err := waitFrame(t, r.DrawSpec(context.Background(), spec, surf)); err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	img := surf.Image()
	if got := img.RGBAAt(0, 179); got != (color.RGBA{R: 26, G: 26, B: 26, A: 255}) {
		t.Fatalf("no overlay without a drawn image, got %+v", got)
	}
	if n := countPixels(img, image.Rect(0, 0, 320, 60), func(c color.RGBA) bool { return c.R > 200 && c.G > 200 }); n == 0 {
		t.Fatalf("expected the wrapped title near the top")
	}
}

func drawPixels(t *testing.T, r *Renderer, s scene.Scene, w, h int) []byte {
	t.Helper()
	surf := renderer.NewSurface(w, h)
	if err := waitFrame(t, r.DrawScene(context.Background(), s, surf)); err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	return surf.Image().Pix
}

func TestShadowWithoutColorIsNotDrawn(t *testing.T) {
	r := quietRenderer(Options{})
	plain := plainLayer("a", "Ghost", 100, 100, 96)
	plain.Style.Color = "rgba(255,255,255,0.5)"
	zero := plain
	zero.Style.Shadow = &scene.Shadow{}

	want := drawPixels(t, r, scene.New().AddLayer(plain), 640, 360)
	got := drawPixels(t, r, scene.New().AddLayer(zero), 640, 360)
	if !bytes.Equal(want, got) {
		t.Fatalf("a shadow without colour must not change the frame")
	}
}

func TestMaterializedSpecsRenderLikeSpecs(t *testing.T) {
	r := quietRenderer(Options{})
	specs := generator.Generate("How to Build AMAZING Apps Fast", "", "tech")
	for _, size := range []image.Point{{X: 1280, Y: 720}, {X: 320, Y: 180}} {
		for _, spec := range specs {
			surf := renderer.NewSurface(size.X, size.Y)
			if err := waitFrame(t, r.DrawSpec(context.Background(), spec, surf)); err != nil {
				t.Fatalf("%s: draw spec failed: %v", spec.ID, err)
			}

			layers, err := generator.Materialize(spec, r)
			if err != nil {
				t.Fatalf("%s: materialize failed: %v", spec.ID, err)
			}
			s := scene.New()
			for _, l := range layers {
				s = s.AddLayer(l)
			}
			got := drawPixels(t, r, s, size.X, size.Y)
			if !bytes.Equal(surf.Image().Pix, got) {
				t.Fatalf("%s at %v: materialized layers differ from the spec rendering", spec.ID, size)
			}
		}
	}
}

type flakyLoader struct {
	calls atomic.Int32
	img   image.Image
}

func (f *flakyLoader) Load(ctx context.Context, ref string) (image.Image, error) {
	if f.calls.Add(1) == 1 {
		return nil, errors.New("not there yet")
	}
	return f.img, nil
}

func TestFailedDecodeIsRetriedOnNextDraw(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range bg.Pix {
		bg.Pix[i] = 255
	}
	loader := &flakyLoader{img: bg}
	r := quietRenderer(Options{Loader: loader})
	s := scene.New().SetBackgroundImage("late.png")
	surf := renderer.NewSurface(32, 18)

	if err := waitFrame(t, r.DrawScene(context.Background(), s, surf)); err != nil {
		t.Fatalf("first draw failed: %v", err)
	}
	if got := surf.Image().RGBAAt(16, 9); got != (color.RGBA{R: 26, G: 26, B: 26, A: 255}) {
		t.Fatalf("failed decode should keep the fill, got %+v", got)
	}
	if err := waitFrame(t, r.DrawScene(context.Background(), s, surf)); err != nil {
		t.Fatalf("second draw failed: %v", err)
	}
	if loader.calls.Load() != 2 {
		t.Fatalf("expected the failed decode to be retried, got %d loads", loader.calls.Load())
	}
	if got := surf.Image().RGBAAt(16, 9); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("retried image should be drawn, got %+v", got)
	}
}
