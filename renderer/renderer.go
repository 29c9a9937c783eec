package renderer

import (
	"context"

	"github.com/ByLCY/thumbcraft/scene"
)

// Renderer draws scenes and generated compositions onto a Surface.
// Both methods return immediately; the returned Frame completes once every pixel of
// the draw is on the surface, which may be after an asynchronous background decode.
type Renderer interface {
	DrawScene(ctx context.Context, s scene.Scene, target *Surface) *Frame
	DrawSpec(ctx context.Context, spec scene.RenderSpec, target *Surface) *Frame
}
