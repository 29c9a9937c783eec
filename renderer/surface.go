package renderer

import (
	"context"
	"errors"
	"image"
	"image/draw"
	"sync"
)

// ErrStale reports a frame whose pixels were dropped because a newer draw started on
// the same surface before it completed.
var ErrStale = errors.New("renderer: frame superseded by a newer draw")

// Surface is a raster target. Every draw starts a new generation; only work belonging
// to the current generation may touch the pixels.
type Surface struct {
	mu  sync.Mutex
	img *image.RGBA
	gen uint64
}

// NewSurface allocates a transparent w×h surface.
func NewSurface(w, h int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// Bounds returns the pixel bounds of the surface.
func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }

// Scale returns the factors mapping a logical canvas of w×h onto the surface.
func (s *Surface) Scale(w, h int) (sx, sy float64) {
	b := s.Bounds()
	if w <= 0 || h <= 0 {
		return 1, 1
	}
	return float64(b.Dx()) / float64(w), float64(b.Dy()) / float64(h)
}

// Begin starts a new generation and returns it, invalidating all earlier ones.
func (s *Surface) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// Generation returns the current generation.
func (s *Surface) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Paint runs fn on the pixels if gen is still current, holding the surface lock.
func (s *Surface) Paint(gen uint64, fn func(img *image.RGBA)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return ErrStale
	}
	fn(s.img)
	return nil
}

// Image returns a copy of the current pixels.
func (s *Surface) Image() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := image.NewRGBA(s.img.Bounds())
	draw.Draw(out, out.Bounds(), s.img, s.img.Bounds().Min, draw.Src)
	return out
}

// Frame tracks one draw call.
type Frame struct {
	gen  uint64
	once sync.Once
	done chan struct{}
	err  error
}

// NewFrame returns a pending frame for generation gen.
func NewFrame(gen uint64) *Frame {
	return &Frame{gen: gen, done: make(chan struct{})}
}

// Finish completes the frame. Only the first call has an effect.
func (f *Frame) Finish(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Generation returns the surface generation this frame belongs to.
func (f *Frame) Generation() uint64 { return f.gen }

// Done is closed when the frame completes.
func (f *Frame) Done() <-chan struct{} { return f.done }

// Err returns the frame result; nil while pending.
func (f *Frame) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// Wait blocks until the frame completes or ctx ends.
func (f *Frame) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
