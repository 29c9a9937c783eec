// Package export renders scenes at full resolution and serializes them: raster files
// through bild's encoders, single page PDFs through the tdewolff/canvas PDF writer,
// and concurrent preview strips for generated variations.
package export

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/thumbcraft/renderer"
	"github.com/ByLCY/thumbcraft/scene"
)

// Supported formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatBMP  = "bmp"
	FormatPDF  = "pdf"
)

// jpegQuality is used for JPEG output.
const jpegQuality = 95

// cssDPI maps one logical pixel to a CSS pixel on PDF pages.
const cssDPI = 96.0

// Meta is written into the PDF info dictionary.
type Meta struct {
	Title    string
	Subject  string
	Keywords []string
	Author   string
	Creator  string
}

// FormatFromPath infers a format from the file extension, defaulting to PNG.
func FormatFromPath(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "jpg", "jpeg":
		return FormatJPEG
	case "bmp":
		return FormatBMP
	case "pdf":
		return FormatPDF
	default:
		return FormatPNG
	}
}

// Render draws s on a new surface at its full canvas resolution and waits for the
// frame. The selection outline is never exported.
func Render(ctx context.Context, r renderer.Renderer, s scene.Scene) (*image.RGBA, error) {
	w, h := s.Canvas.Width, s.Canvas.Height
	if w <= 0 || h <= 0 {
		w, h = scene.DefaultWidth, scene.DefaultHeight
	}
	s.Selected = ""
	surface := renderer.NewSurface(w, h)
	if err := r.DrawScene(ctx, s, surface).Wait(ctx); err != nil {
		return nil, fmt.Errorf("渲染场景失败: %w", err)
	}
	return surface.Image(), nil
}

func encoder(format string) (imgio.Encoder, error) {
	switch format {
	case FormatPNG, "":
		return imgio.PNGEncoder(), nil
	case FormatJPEG, "jpg":
		return imgio.JPEGEncoder(jpegQuality), nil
	case FormatBMP:
		return imgio.BMPEncoder(), nil
	default:
		return nil, fmt.Errorf("不支持的位图格式: %s", format)
	}
}

// Raster renders s and writes it to w in a raster format (png, jpeg or bmp).
func Raster(ctx context.Context, w io.Writer, r renderer.Renderer, s scene.Scene, format string) error {
	enc, err := encoder(format)
	if err != nil {
		return err
	}
	img, err := Render(ctx, r, s)
	if err != nil {
		return err
	}
	if err := enc(w, img); err != nil {
		return fmt.Errorf("编码 %s 失败: %w", format, err)
	}
	return nil
}

// PNG renders s and writes it to w as PNG.
func PNG(ctx context.Context, w io.Writer, r renderer.Renderer, s scene.Scene) error {
	return Raster(ctx, w, r, s, FormatPNG)
}

// PDF renders s and places the raster on a single page sized to the canvas at 96 DPI.
func PDF(ctx context.Context, w io.Writer, r renderer.Renderer, s scene.Scene, meta Meta) error {
	img, err := Render(ctx, r, s)
	if err != nil {
		return err
	}
	return WritePDF(w, img, meta)
}

// WritePDF writes img as a single page PDF.
func WritePDF(w io.Writer, img image.Image, meta Meta) error {
	b := img.Bounds()
	dpmm := cssDPI / 25.4
	width := float64(b.Dx()) / dpmm
	height := float64(b.Dy()) / dpmm

	writer := pdf.New(w, width, height, nil)
	writer.SetInfo(meta.Title, meta.Subject, strings.Join(meta.Keywords, ", "), meta.Author, meta.Creator)

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.DrawImage(0, 0, img, canvas.DPMM(dpmm))
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return nil
}

func savePDF(path string, img image.Image, meta Meta) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建 %s 失败: %w", path, err)
	}
	if err := WritePDF(f, img, meta); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Save renders s into path, choosing the format from the extension.
func Save(ctx context.Context, path string, r renderer.Renderer, s scene.Scene, meta Meta) error {
	format := FormatFromPath(path)
	if format == FormatPDF {
		img, err := Render(ctx, r, s)
		if err != nil {
			return err
		}
		return savePDF(path, img, meta)
	}
	enc, err := encoder(format)
	if err != nil {
		return err
	}
	img, err := Render(ctx, r, s)
	if err != nil {
		return err
	}
	if err := imgio.Save(path, img, enc); err != nil {
		return fmt.Errorf("保存 %s 失败: %w", path, err)
	}
	return nil
}
