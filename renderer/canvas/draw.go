package canvasrenderer

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"github.com/anthonynsimon/bild/blur"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	xdraw "golang.org/x/image/draw"

	"github.com/ByLCY/thumbcraft/dsl"
	"github.com/ByLCY/thumbcraft/hittest"
	"github.com/ByLCY/thumbcraft/layout"
	"github.com/ByLCY/thumbcraft/scene"
)

// Selection outline appearance, in surface pixels.
const (
	selectionPad   = 5
	selectionWidth = 2
	selectionDash  = 5
)

var selectionColor = canvas.Hex("#ff0000")

var opaqueBlack = color.NRGBA{A: 255}

// textRun is one line of text ready to draw in surface pixels.
type textRun struct {
	content     string
	font        layout.Font
	x, top      float64
	fill        color.NRGBA
	stroke      *color.NRGBA
	strokeWidth float64
	shadow      *scene.Shadow
}

// resolveColor parses a CSS colour; currentColor resolves to current and invalid
// colours fall back to opaque black.
func resolveColor(s string, current color.NRGBA) color.NRGBA {
	c, err := dsl.ParseColor(s)
	if errors.Is(err, dsl.ErrCurrentColor) {
		return current
	}
	if err != nil {
		return opaqueBlack
	}
	return c
}

func fillColor(img *image.RGBA, css string) {
	c := resolveColor(css, opaqueBlack)
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// drawBackground stretches src over the whole surface without keeping aspect ratio.
func drawBackground(img *image.RGBA, src image.Image) {
	if src == nil {
		return
	}
	xdraw.BiLinear.Scale(img, img.Bounds(), src, src.Bounds(), xdraw.Over, nil)
}

// drawOverlay composites a gradient along the (0,0)→(w,h) diagonal, or a solid fill.
func drawOverlay(img *image.RGBA, ov scene.Overlay) {
	b := img.Bounds()
	switch ov.Type {
	case scene.OverlaySolid:
		c := resolveColor(ov.Color, color.NRGBA{A: 102})
		draw.Draw(img, b, &image.Uniform{C: c}, image.Point{}, draw.Over)
	case scene.OverlayGradient:
		if len(ov.Stops) == 0 {
			return
		}
		draw.Draw(img, b, gradientImage(b, ov.Stops), b.Min, draw.Over)
	}
}

type resolvedStop struct {
	pos   float64
	color colorful.Color
	alpha float64
}

func gradientImage(b image.Rectangle, stops []scene.GradientStop) *image.NRGBA {
	rs := make([]resolvedStop, 0, len(stops))
	for _, s := range stops {
		c := resolveColor(s.Color, opaqueBlack)
		cf, _ := colorful.MakeColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
		rs = append(rs, resolvedStop{pos: clamp01(s.Position), color: cf, alpha: float64(c.A) / 255})
	}
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].pos < rs[j].pos })

	out := image.NewNRGBA(b)
	w, h := float64(b.Dx()), float64(b.Dy())
	denom := w*w + h*h
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			t := 0.0
			if denom > 0 {
				t = (float64(x)*w + float64(y)*h) / denom
			}
			out.SetNRGBA(b.Min.X+x, b.Min.Y+y, sampleStops(rs, t))
		}
	}
	return out
}

func sampleStops(stops []resolvedStop, t float64) color.NRGBA {
	if t <= stops[0].pos {
		return toNRGBA(stops[0].color, stops[0].alpha)
	}
	last := stops[len(stops)-1]
	if t >= last.pos {
		return toNRGBA(last.color, last.alpha)
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t > b.pos {
			continue
		}
		f := 0.0
		if b.pos > a.pos {
			f = (t - a.pos) / (b.pos - a.pos)
		}
		return toNRGBA(a.color.BlendRgb(b.color, f), a.alpha+(b.alpha-a.alpha)*f)
	}
	return toNRGBA(last.color, last.alpha)
}

func toNRGBA(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(alpha) * 255))}
}

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }

// paintLayers draws every layer in z-order and then the selection outline.
func (r *Renderer) paintLayers(img *image.RGBA, s scene.Scene, sx, sy float64) {
	for _, l := range s.Layers {
		r.drawRun(img, r.layerRun(l, sx, sy))
	}
	if sel, ok := s.SelectedLayer(); ok {
		r.drawSelection(img, sel, sx, sy)
	}
}

func (r *Renderer) layerRun(l scene.TextLayer, sx, sy float64) textRun {
	st := l.Style
	fill := resolveColor(st.Color, opaqueBlack)
	run := textRun{
		content: l.Content,
		font:    st.Font().Scaled(sy),
		x:       l.Position.X * sx,
		top:     l.Position.Y * sy,
		fill:    fill,
		shadow:  scaleShadow(st.Shadow, sx, sy),
	}
	if st.HasStroke() {
		c := resolveColor(st.Stroke, fill)
		run.stroke = &c
		run.strokeWidth = st.StrokeWidth * sy
	}
	return run
}

// scaleShadow maps a shadow to surface pixels. A shadow without a colour is not drawn.
func scaleShadow(sh *scene.Shadow, sx, sy float64) *scene.Shadow {
	if sh == nil || sh.Color == "" {
		return nil
	}
	out := *sh
	out.OffsetX *= sx
	out.OffsetY *= sy
	out.Blur *= sy
	return &out
}

// paintSpecText wraps and anchors the title of spec in logical space, then draws each
// line scaled onto the surface.
func (r *Renderer) paintSpecText(img *image.RGBA, spec scene.RenderSpec, sx, sy float64) {
	st := spec.TextStyle
	placement, err := layout.PlaceText(r, spec.Title, st.Font(), layout.PlaceOptions{
		Position: spec.Layout.TextPosition,
		Align:    spec.Layout.TextAlign,
	})
	if err != nil {
		r.log.Warn("标题排版失败", "spec", spec.ID, "err", err)
		return
	}
	for _, line := range placement.Lines {
		l := scene.TextLayer{
			Content:  line.Content,
			Position: scene.Point{X: line.X, Y: line.Baseline - placement.Ascent},
			Style:    st,
		}
		r.drawRun(img, r.layerRun(l, sx, sy))
	}
}

// drawRun draws the shadow, then the fill, then the stroke of one text run.
func (r *Renderer) drawRun(img *image.RGBA, run textRun) {
	if run.content == "" || run.font.Size <= 0 {
		return
	}
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	if run.shadow != nil {
		col := resolveColor(run.shadow.Color, run.fill)
		face, err := r.fontFace(run.font, col)
		if err != nil {
			r.log.Warn("阴影字体加载失败", "font", run.font.String(), "err", err)
		} else {
			c := canvas.New(w, h)
			ctx := canvas.NewContext(c)
			ctx.SetCoordSystem(canvas.CartesianIV)
			baseline := run.top + face.Metrics().Ascent
			ctx.DrawText(run.x+run.shadow.OffsetX, baseline+run.shadow.OffsetY, canvas.NewTextLine(face, run.content, canvas.Left))
			layer := image.Image(rasterizer.Draw(c, canvas.DPMM(1), canvas.DefaultColorSpace))
			if run.shadow.Blur > 0 {
				layer = blur.Gaussian(layer, run.shadow.Blur/2)
			}
			draw.Draw(img, b, layer, image.Point{}, draw.Over)
		}
	}

	face, err := r.fontFace(run.font, run.fill)
	if err != nil {
		r.log.Warn("字体加载失败", "font", run.font.String(), "err", err)
		return
	}
	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)
	baseline := run.top + face.Metrics().Ascent
	ctx.DrawText(run.x, baseline, canvas.NewTextLine(face, run.content, canvas.Left))

	if run.stroke != nil {
		path, _, err := face.ToPath(run.content)
		if err != nil {
			r.log.Warn("描边路径生成失败", "font", run.font.String(), "err", err)
		} else {
			// 字形轮廓为 y 轴向上，需翻转到左上角原点坐标系
			path = path.Transform(canvas.Identity.ReflectY())
			ctx.SetFillColor(color.Transparent)
			ctx.SetStrokeColor(*run.stroke)
			ctx.SetStrokeWidth(run.strokeWidth)
			ctx.DrawPath(run.x, baseline, path)
		}
	}
	draw.Draw(img, b, rasterizer.Draw(c, canvas.DPMM(1), canvas.DefaultColorSpace), image.Point{}, draw.Over)
}

// drawSelection strokes a dashed rectangle just outside the layer's hit-test bounds.
func (r *Renderer) drawSelection(img *image.RGBA, l scene.TextLayer, sx, sy float64) {
	bounds, err := hittest.Bounds(l, r)
	if err != nil {
		r.log.Warn("选中框测量失败", "layer", l.ID, "err", err)
		return
	}
	box := hittest.Rect{X: bounds.X * sx, Y: bounds.Y * sy, Width: bounds.Width * sx, Height: bounds.Height * sy}.Inset(selectionPad)

	b := img.Bounds()
	c := canvas.New(float64(b.Dx()), float64(b.Dy()))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)
	ctx.SetFillColor(color.Transparent)
	ctx.SetStrokeColor(selectionColor)
	ctx.SetStrokeWidth(selectionWidth)
	ctx.SetDashes(0, selectionDash, selectionDash)
	ctx.DrawPath(box.X, box.Y, canvas.Rectangle(box.Width, box.Height))
	draw.Draw(img, b, rasterizer.Draw(c, canvas.DPMM(1), canvas.DefaultColorSpace), image.Point{}, draw.Over)
}
