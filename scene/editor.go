package scene

import (
	"reflect"

	"github.com/google/uuid"

	"github.com/ByLCY/thumbcraft/layout"
)

// Font size bounds used by NudgeFontSize.
const (
	MinFontSize = 12
	MaxFontSize = 120
)

// DuplicateOffset is how far a duplicated layer is shifted from its source.
const DuplicateOffset = 20

// TemplateSource resolves template ids for Editor.ApplyTemplate.
type TemplateSource interface {
	Lookup(id string) (Template, bool)
}

// Options configures an Editor.
type Options struct {
	// NewID generates layer ids; defaults to uuid.NewString.
	NewID func() string
	// Templates resolves ApplyTemplate ids; nil makes ApplyTemplate a no-op.
	Templates TemplateSource
}

// change is one undo step: the scene before and after a command or a group of
// commands. Selection is not part of the history.
type change struct {
	before Scene
	after  Scene
}

// Editor owns the current scene snapshot and a command history. It is not safe for
// concurrent use; all commands run on the caller's event loop.
type Editor struct {
	opts    Options
	current Scene

	undo []change
	redo []change

	depth       int
	groupBefore Scene
}

// NewEditor returns an editor positioned at initial.
func NewEditor(initial Scene, opts Options) *Editor {
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Editor{opts: opts, current: initial.Clone()}
}

// Snapshot returns the current scene. The value is never mutated by later commands.
func (e *Editor) Snapshot() Scene { return e.current }

// commit installs next as the current scene and records it in the history unless only
// the selection changed.
func (e *Editor) commit(next Scene) {
	prev := e.current
	e.current = next
	if e.depth > 0 {
		return
	}
	e.record(prev, next)
}

func (e *Editor) record(before, after Scene) {
	if sameDocument(before, after) {
		return
	}
	e.undo = append(e.undo, change{before: before, after: after})
	e.redo = nil
}

func sameDocument(a, b Scene) bool {
	a.Selected, b.Selected = "", ""
	return reflect.DeepEqual(a, b)
}

// Begin starts a group: every command until the matching End becomes one undo step.
// Groups nest; only the outermost End records.
func (e *Editor) Begin() {
	if e.depth == 0 {
		e.groupBefore = e.current
	}
	e.depth++
}

// End closes the group opened by Begin.
func (e *Editor) End() {
	if e.depth == 0 {
		return
	}
	e.depth--
	if e.depth == 0 {
		e.record(e.groupBefore, e.current)
		e.groupBefore = Scene{}
	}
}

// CanUndo reports whether Undo has anything to revert.
func (e *Editor) CanUndo() bool { return len(e.undo) > 0 }

// CanRedo reports whether Redo has anything to reapply.
func (e *Editor) CanRedo() bool { return len(e.redo) > 0 }

// Undo reverts the most recent step. The current selection is kept unless the layer it
// points at no longer exists.
func (e *Editor) Undo() bool {
	if len(e.undo) == 0 || e.depth > 0 {
		return false
	}
	last := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	e.redo = append(e.redo, last)
	e.current = e.restore(last.before)
	return true
}

// Redo reapplies the most recently undone step.
func (e *Editor) Redo() bool {
	if len(e.redo) == 0 || e.depth > 0 {
		return false
	}
	last := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
	e.undo = append(e.undo, last)
	e.current = e.restore(last.after)
	return true
}

func (e *Editor) restore(s Scene) Scene {
	s.Selected = e.current.Selected
	if s.Index(s.Selected) < 0 {
		s.Selected = ""
	}
	return s
}

// AddLayer adds a text layer with the default style merged with overrides, selects it
// and returns its id. Empty content gets the placeholder text.
func (e *Editor) AddLayer(content string, position Point, overrides StylePatch) string {
	if content == "" {
		content = DefaultContent
	}
	id := e.newID(nil)
	layer := TextLayer{
		ID:       id,
		Content:  content,
		Position: position,
		Style:    overrides.Apply(DefaultStyle()),
	}
	e.commit(e.current.AddLayer(layer).SelectLayer(id))
	return id
}

// UpdateLayer shallow-merges patch into the layer. Unknown ids are ignored.
func (e *Editor) UpdateLayer(id string, patch LayerPatch) {
	e.commit(e.current.UpdateLayer(id, patch))
}

// DeleteLayer removes the layer, clearing the selection if needed.
func (e *Editor) DeleteLayer(id string) {
	e.commit(e.current.DeleteLayer(id))
}

// SelectLayer sets the selection ("" clears). Selection changes are not undoable.
func (e *Editor) SelectLayer(id string) {
	e.commit(e.current.SelectLayer(id))
}

// SetBackgroundImage sets or clears the background image reference.
func (e *Editor) SetBackgroundImage(ref string) {
	e.commit(e.current.SetBackgroundImage(ref))
}

// SetCanvasBackgroundColor changes the canvas fill colour.
func (e *Editor) SetCanvasBackgroundColor(color string) {
	e.commit(e.current.SetCanvasBackgroundColor(color))
}

// ApplyTemplate replaces the layers with those of the template id. Unknown templates
// are ignored.
func (e *Editor) ApplyTemplate(templateID string) {
	if e.opts.Templates == nil {
		return
	}
	t, ok := e.opts.Templates.Lookup(templateID)
	if !ok {
		return
	}
	e.commit(e.current.ApplyTemplate(t))
}

// DuplicateLayer copies the layer on top of the stack, offset down and right, selects
// the copy and returns its id. Unknown ids return "".
func (e *Editor) DuplicateLayer(id string) string {
	src, ok := e.current.Layer(id)
	if !ok {
		return ""
	}
	dup := src.clone()
	dup.ID = e.newID(nil)
	dup.Position.X += DuplicateOffset
	dup.Position.Y += DuplicateOffset
	e.commit(e.current.AddLayer(dup).SelectLayer(dup.ID))
	return dup.ID
}

// NudgeFontSize changes the font size by delta, clamped to [MinFontSize, MaxFontSize].
func (e *Editor) NudgeFontSize(id string, delta float64) {
	l, ok := e.current.Layer(id)
	if !ok {
		return
	}
	size := l.Style.FontSize + delta
	if size < MinFontSize {
		size = MinFontSize
	}
	if size > MaxFontSize {
		size = MaxFontSize
	}
	e.UpdateLayer(id, LayerPatch{Style: &StylePatch{FontSize: &size}})
}

// ToggleBold switches the weight between 700 and 400.
func (e *Editor) ToggleBold(id string) {
	l, ok := e.current.Layer(id)
	if !ok {
		return
	}
	weight := "700"
	if layout.IsBold(l.Style.FontWeight) {
		weight = "400"
	}
	e.UpdateLayer(id, LayerPatch{Style: &StylePatch{FontWeight: &weight}})
}

// ImportLayers replaces the layer stack and background image, typically with a
// materialized RenderSpec. Layers without an id, or whose id repeats, get a fresh one.
func (e *Editor) ImportLayers(backgroundImage string, layers []TextLayer) {
	fresh := cloneLayers(layers)
	taken := make(map[string]bool, len(fresh))
	keep := make([]bool, len(fresh))
	for i, l := range fresh {
		if l.ID != "" && !taken[l.ID] {
			taken[l.ID] = true
			keep[i] = true
		}
	}
	for i := range fresh {
		if !keep[i] {
			fresh[i].ID = e.newID(taken)
			taken[fresh[i].ID] = true
		}
	}
	if fresh == nil {
		fresh = []TextLayer{}
	}
	e.commit(e.current.SetBackgroundImage(backgroundImage).ReplaceLayers(fresh))
}

// maxIDAttempts bounds how often Options.NewID is retried before falling back to a uuid.
const maxIDAttempts = 16

// newID returns an id unused by the current scene and by taken.
func (e *Editor) newID(taken map[string]bool) string {
	for range maxIDAttempts {
		id := e.opts.NewID()
		if id != "" && !taken[id] && e.current.Index(id) < 0 {
			return id
		}
	}
	for {
		id := uuid.NewString()
		if !taken[id] && e.current.Index(id) < 0 {
			return id
		}
	}
}
