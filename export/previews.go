package export

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"

	"github.com/anthonynsimon/bild/imgio"
	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/thumbcraft/renderer"
	"github.com/ByLCY/thumbcraft/scene"
)

// Preview sizes used when none are given.
const (
	PreviewWidth  = 320
	PreviewHeight = 180
)

// Previews renders every spec at w×h, each on its own surface, concurrently. The
// result keeps the order of specs.
func Previews(ctx context.Context, r renderer.Renderer, specs []scene.RenderSpec, w, h int) ([]*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		w, h = PreviewWidth, PreviewHeight
	}
	out := make([]*image.RGBA, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, spec := range specs {
		g.Go(func() error {
			surface := renderer.NewSurface(w, h)
			if err := r.DrawSpec(gctx, spec, surface).Wait(gctx); err != nil {
				return fmt.Errorf("渲染预览 %s 失败: %w", spec.ID, err)
			}
			out[i] = surface.Image()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// SavePreviews renders the previews and writes them to dir as <spec id>.png. It
// returns the written paths in spec order.
func SavePreviews(ctx context.Context, dir string, r renderer.Renderer, specs []scene.RenderSpec, w, h int) ([]string, error) {
	imgs, err := Previews(ctx, r, specs, w, h)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建预览目录失败: %w", err)
	}
	paths := make([]string, len(imgs))
	for i, img := range imgs {
		paths[i] = filepath.Join(dir, specs[i].ID+".png")
		if err := imgio.Save(paths[i], img, imgio.PNGEncoder()); err != nil {
			return nil, fmt.Errorf("保存预览 %s 失败: %w", paths[i], err)
		}
	}
	return paths, nil
}
