package export

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "golang.org/x/image/bmp"

	"github.com/ByLCY/thumbcraft/dsl"
	"github.com/ByLCY/thumbcraft/renderer"
	"github.com/ByLCY/thumbcraft/scene"
)

// fillRenderer paints scenes with their background colour and specs with their text
// colour, recording what it was asked to draw.
type fillRenderer struct {
	mu        sync.Mutex
	selected  []string
	inflight  atomic.Int32
	peak      atomic.Int32
	specDelay time.Duration
}

func paintSolid(target *renderer.Surface, css string) *renderer.Frame {
	gen := target.Begin()
	frame := renderer.NewFrame(gen)
	c := dsl.MustColor(css)
	frame.Finish(target.Paint(gen, func(img *image.RGBA) {
		draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	}))
	return frame
}

func (f *fillRenderer) DrawScene(_ context.Context, s scene.Scene, target *renderer.Surface) *renderer.Frame {
	f.mu.Lock()
	f.selected = append(f.selected, s.Selected)
	f.mu.Unlock()
	return paintSolid(target, s.Canvas.BackgroundColor)
}

func (f *fillRenderer) DrawSpec(_ context.Context, spec scene.RenderSpec, target *renderer.Surface) *renderer.Frame {
	n := f.inflight.Add(1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(f.specDelay)
	defer f.inflight.Add(-1)
	return paintSolid(target, spec.TextStyle.Color)
}

func testScene() scene.Scene {
	s := scene.New()
	s.Canvas.BackgroundColor = "#336699"
	s.Selected = "title"
	return s
}

func TestPNGIsFullResolutionWithoutSelection(t *testing.T) {
	r := &fillRenderer{}
	var buf bytes.Buffer
	require.NoError(t, PNG(context.Background(), &buf, r, testScene()))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1280, 720), img.Bounds())
	assert.Equal(t, color.RGBAModel.Convert(color.NRGBA{R: 0x33, G: 0x66, B: 0x99, A: 255}), color.RGBAModel.Convert(img.At(640, 360)))
	assert.Equal(t, []string{""}, r.selected)
}

func TestRasterFormats(t *testing.T) {
	r := &fillRenderer{}
	for _, format := range []string{FormatJPEG, FormatBMP} {
		var buf bytes.Buffer
		require.NoError(t, Raster(context.Background(), &buf, r, testScene(), format))
		_, name, err := image.DecodeConfig(&buf)
		require.NoError(t, err)
		assert.Equal(t, format, name)
	}
	assert.Error(t, Raster(context.Background(), &bytes.Buffer{}, r, testScene(), "tiff"))
}

func TestPDFHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(context.Background(), &buf, &fillRenderer{}, testScene(), Meta{Title: "thumb", Keywords: []string{"a", "b"}}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatPNG, FormatFromPath("out.png"))
	assert.Equal(t, FormatJPEG, FormatFromPath("out.JPG"))
	assert.Equal(t, FormatPDF, FormatFromPath("/tmp/a.pdf"))
	assert.Equal(t, FormatBMP, FormatFromPath("x.bmp"))
	assert.Equal(t, FormatPNG, FormatFromPath("noext"))
}

func TestSaveByExtension(t *testing.T) {
	dir := t.TempDir()
	r := &fillRenderer{}
	for _, name := range []string{"a.png", "b.pdf", "c.jpg"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(context.Background(), path, r, testScene(), Meta{}))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func specs(colors ...string) []scene.RenderSpec {
	out := make([]scene.RenderSpec, len(colors))
	for i, c := range colors {
		out[i] = scene.RenderSpec{ID: string(rune('a' + i)), TextStyle: scene.Style{Color: c}}
	}
	return out
}

func TestPreviewsKeepOrderAndRunConcurrently(t *testing.T) {
	r := &fillRenderer{specDelay: 20 * time.Millisecond}
	in := specs("#ff0000", "#00ff00", "#0000ff", "#ffffff", "#000000", "#808080")
	imgs, err := Previews(context.Background(), r, in, 0, 0)
	require.NoError(t, err)
	require.Len(t, imgs, len(in))
	for i, img := range imgs {
		assert.Equal(t, image.Rect(0, 0, PreviewWidth, PreviewHeight), img.Bounds())
		want := color.RGBAModel.Convert(dsl.MustColor(in[i].TextStyle.Color))
		assert.Equal(t, want, color.RGBAModel.Convert(img.At(10, 10)), "preview %d", i)
	}
	if runtime.GOMAXPROCS(0) > 1 {
		assert.Greater(t, r.peak.Load(), int32(1))
	}
}

func TestSavePreviews(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "previews")
	paths, err := SavePreviews(context.Background(), dir, &fillRenderer{}, specs("#ff0000", "#00ff00"), 64, 36)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png")}, paths)

	f, err := os.Open(paths[1])
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 36, cfg.Height)
}
