package canvasrenderer

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImageLoader resolves and decodes a background image reference.
type ImageLoader interface {
	Load(ctx context.Context, ref string) (image.Image, error)
}

// sourceLoader understands built-in:<name>, data: URLs and file paths relative to
// baseDir.
type sourceLoader struct {
	baseDir string
	blobs   map[string][]byte
}

func (l *sourceLoader) Load(ctx context.Context, ref string) (image.Image, error) {
	data, err := l.read(ref)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decodeImage(ref, data)
}

func (l *sourceLoader) read(ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, "built-in:") || strings.HasPrefix(ref, "builtin:"):
		name := strings.TrimPrefix(strings.TrimPrefix(ref, "built-in:"), "builtin:")
		blob, ok := l.blobs[name]
		if !ok {
			return nil, fmt.Errorf("找不到内置图片资源 built-in:%s", name)
		}
		return blob, nil
	case strings.HasPrefix(ref, "data:"):
		return decodeDataURL(ref)
	}
	if l.baseDir == "" && !filepath.IsAbs(ref) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用路径：%s（请改用 built-in: 或 data:）", ref)
	}
	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", ref, err)
	}
	return data, nil
}

func decodeDataURL(ref string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("无效的 data URL")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("解码 data URL 失败: %w", err)
		}
		return data, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("解码 data URL 失败: %w", err)
	}
	return []byte(text), nil
}

// decodeImage sniffs the content and decodes the supported raster formats.
func decodeImage(ref string, data []byte) (image.Image, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return nil, fmt.Errorf("无法识别图片 %s 的格式", shortRef(ref))
	}
	switch kind.MIME.Subtype {
	case "png", "jpeg", "gif", "bmp", "webp":
	default:
		return nil, fmt.Errorf("不支持的图片格式 %s（%s）", kind.MIME.Value, shortRef(ref))
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("解码图片 %s 失败: %w", shortRef(ref), err)
	}
	return img, nil
}

func shortRef(ref string) string {
	if len(ref) > 48 {
		return ref[:48] + "…"
	}
	return ref
}

// decodeEntry is one cached decode. done is closed once img/err are set.
type decodeEntry struct {
	done chan struct{}
	img  image.Image
	err  error
}

func (e *decodeEntry) ready() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// decode returns the cache entry for ref, starting an asynchronous decode on first
// use. Concurrent callers share one decode.
func (r *Renderer) decode(ref string) *decodeEntry {
	r.imgMu.Lock()
	defer r.imgMu.Unlock()
	if entry, ok := r.images[ref]; ok {
		return entry
	}
	entry := &decodeEntry{done: make(chan struct{})}
	r.images[ref] = entry
	go func() {
		defer close(entry.done)
		entry.img, entry.err = r.loader.Load(context.Background(), ref)
	}()
	return entry
}

// forget drops entry from the cache so the next draw of ref loads it again. A newer
// entry for the same ref is left alone.
func (r *Renderer) forget(ref string, entry *decodeEntry) {
	r.imgMu.Lock()
	defer r.imgMu.Unlock()
	if r.images[ref] == entry {
		delete(r.images, ref)
	}
}
