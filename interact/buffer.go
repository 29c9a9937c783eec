package interact

import (
	"strings"

	"github.com/rivo/uniseg"
)

// EditBuffer is the text being edited inline. Positions count grapheme clusters, so
// cursor movement and deletion never split an emoji or a combining sequence.
type EditBuffer struct {
	clusters []string
	cursor   int
	anchor   int
}

// NewEditBuffer returns a buffer holding text with the cursor at the end.
func NewEditBuffer(text string) *EditBuffer {
	b := &EditBuffer{clusters: graphemes(text)}
	b.cursor = len(b.clusters)
	b.anchor = b.cursor
	return b
}

func graphemes(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// String returns the buffer contents.
func (b *EditBuffer) String() string { return strings.Join(b.clusters, "") }

// Len returns the number of grapheme clusters.
func (b *EditBuffer) Len() int { return len(b.clusters) }

// Cursor returns the cursor position in clusters.
func (b *EditBuffer) Cursor() int { return b.cursor }

// Selection returns the selected cluster range [start, end).
func (b *EditBuffer) Selection() (start, end int) {
	if b.anchor < b.cursor {
		return b.anchor, b.cursor
	}
	return b.cursor, b.anchor
}

// SelectedText returns the selected text.
func (b *EditBuffer) SelectedText() string {
	start, end := b.Selection()
	return strings.Join(b.clusters[start:end], "")
}

// SelectAll selects the whole buffer.
func (b *EditBuffer) SelectAll() {
	b.anchor = 0
	b.cursor = len(b.clusters)
}

// Insert replaces the selection with s.
func (b *EditBuffer) Insert(s string) {
	start, end := b.Selection()
	prefix := strings.Join(b.clusters[:start], "") + s
	text := prefix + strings.Join(b.clusters[end:], "")
	b.clusters = graphemes(text)
	b.cursor = len(graphemes(prefix))
	if b.cursor > len(b.clusters) {
		b.cursor = len(b.clusters)
	}
	b.anchor = b.cursor
}

// Backspace deletes the selection, or the cluster before the cursor.
func (b *EditBuffer) Backspace() {
	if b.deleteSelection() || b.cursor == 0 {
		return
	}
	b.remove(b.cursor-1, b.cursor)
}

// Delete deletes the selection, or the cluster after the cursor.
func (b *EditBuffer) Delete() {
	if b.deleteSelection() || b.cursor == len(b.clusters) {
		return
	}
	b.remove(b.cursor, b.cursor+1)
}

func (b *EditBuffer) deleteSelection() bool {
	start, end := b.Selection()
	if start == end {
		return false
	}
	b.remove(start, end)
	return true
}

func (b *EditBuffer) remove(start, end int) {
	clusters := make([]string, 0, len(b.clusters)-(end-start))
	clusters = append(clusters, b.clusters[:start]...)
	b.clusters = append(clusters, b.clusters[end:]...)
	b.cursor, b.anchor = start, start
}

// Left moves the cursor one cluster left; extend keeps the selection anchor.
func (b *EditBuffer) Left(extend bool) {
	if !extend {
		if start, end := b.Selection(); start != end {
			b.cursor, b.anchor = start, start
			return
		}
	}
	if b.cursor > 0 {
		b.cursor--
	}
	b.collapse(extend)
}

// Right moves the cursor one cluster right.
func (b *EditBuffer) Right(extend bool) {
	if !extend {
		if start, end := b.Selection(); start != end {
			b.cursor, b.anchor = end, end
			return
		}
	}
	if b.cursor < len(b.clusters) {
		b.cursor++
	}
	b.collapse(extend)
}

// Home moves the cursor to the start.
func (b *EditBuffer) Home(extend bool) {
	b.cursor = 0
	b.collapse(extend)
}

// End moves the cursor to the end.
func (b *EditBuffer) End(extend bool) {
	b.cursor = len(b.clusters)
	b.collapse(extend)
}

func (b *EditBuffer) collapse(extend bool) {
	if !extend {
		b.anchor = b.cursor
	}
}
