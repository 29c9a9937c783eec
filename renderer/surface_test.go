package renderer

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"
)

func TestPaintDropsStaleGenerations(t *testing.T) {
	s := NewSurface(4, 4)
	first := s.Begin()
	second := s.Begin()

	err := s.Paint(first, func(img *image.RGBA) { img.Set(0, 0, color.RGBA{R: 255, A: 255}) })
	if !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	if err := s.Paint(second, func(img *image.RGBA) { img.Set(0, 0, color.RGBA{G: 255, A: 255}) }); err != nil {
		t.Fatalf("current generation should paint: %v", err)
	}
	if got := s.Image().RGBAAt(0, 0); got != (color.RGBA{G: 255, A: 255}) {
		t.Fatalf("unexpected pixel %+v", got)
	}
}

func TestScale(t *testing.T) {
	sx, sy := NewSurface(320, 180).Scale(1280, 720)
	if sx != 0.25 || sy != 0.25 {
		t.Fatalf("unexpected scale %g %g", sx, sy)
	}
}

func TestFrameLifecycle(t *testing.T) {
	f := NewFrame(3)
	if f.Err() != nil {
		t.Fatalf("pending frame should report nil")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := f.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline, got %v", err)
	}
	f.Finish(ErrStale)
	f.Finish(nil)
	if err := f.Wait(context.Background()); !errors.Is(err, ErrStale) {
		t.Fatalf("first Finish wins, got %v", err)
	}
	if f.Generation() != 3 {
		t.Fatalf("generation mismatch")
	}
}
