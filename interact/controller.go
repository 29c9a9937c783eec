// Package interact turns pointer and keyboard input into scene commands: selecting,
// dragging and inline editing of text layers.
package interact

import (
	"log/slog"
	"math"
	"time"

	"github.com/ByLCY/thumbcraft/hittest"
	"github.com/ByLCY/thumbcraft/layout"
	"github.com/ByLCY/thumbcraft/scene"
)

// State is the controller state.
type State int

const (
	Idle State = iota
	Armed
	Dragging
	Editing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Dragging:
		return "dragging"
	case Editing:
		return "editing"
	default:
		return "unknown"
	}
}

// Key identifies a key relevant to inline editing.
type Key int

const (
	KeyEnter Key = iota + 1
	KeyEscape
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeySelectAll
)

// KeyEvent is a key press.
type KeyEvent struct {
	Key   Key
	Shift bool
}

// Painter redraws the host surface. The controller calls Paint once after every
// committed mutation.
type Painter interface {
	Paint(s scene.Scene)
}

// PainterFunc adapts a function to Painter.
type PainterFunc func(scene.Scene)

// Paint calls f(s).
func (f PainterFunc) Paint(s scene.Scene) { f(s) }

// Config holds the interaction constants.
type Config struct {
	DragThreshold float64
	DoubleClick   time.Duration
	ReservedRight float64
	BottomMargin  float64
}

// DefaultConfig returns a 5px drag threshold, a 300ms double-click window, 200px
// reserved on the right and a 20px bottom margin.
func DefaultConfig() Config {
	return Config{
		DragThreshold: 5,
		DoubleClick:   300 * time.Millisecond,
		ReservedRight: 200,
		BottomMargin:  20,
	}
}

// Options configures a Controller.
type Options struct {
	Config  Config
	Metrics layout.Metrics
	Painter Painter
	Logger  *slog.Logger
	// DisplayWidth/DisplayHeight is the size at which the scene is shown; pointer
	// coordinates arrive in this space. Zero means the canvas size.
	DisplayWidth  float64
	DisplayHeight float64
}

// Controller is the pointer/keyboard state machine. It is not safe for concurrent use.
type Controller struct {
	editor  *scene.Editor
	metrics layout.Metrics
	painter Painter
	cfg     Config
	log     *slog.Logger

	displayW, displayH float64

	state   State
	layerID string
	grab    scene.Point
	start   scene.Point

	lastDownID string
	lastDownAt time.Time

	session *EditSession
}

// NewController returns an idle controller driving editor.
func NewController(editor *scene.Editor, opts Options) *Controller {
	cfg := opts.Config
	def := DefaultConfig()
	if cfg.DragThreshold <= 0 {
		cfg.DragThreshold = def.DragThreshold
	}
	if cfg.DoubleClick <= 0 {
		cfg.DoubleClick = def.DoubleClick
	}
	if cfg.ReservedRight <= 0 {
		cfg.ReservedRight = def.ReservedRight
	}
	if cfg.BottomMargin <= 0 {
		cfg.BottomMargin = def.BottomMargin
	}
	c := &Controller{
		editor:   editor,
		metrics:  opts.Metrics,
		painter:  opts.Painter,
		cfg:      cfg,
		log:      opts.Logger,
		displayW: opts.DisplayWidth,
		displayH: opts.DisplayHeight,
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.painter == nil {
		c.painter = PainterFunc(func(scene.Scene) {})
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// LayerID returns the layer being armed, dragged or edited.
func (c *Controller) LayerID() string { return c.layerID }

// Session returns the open edit session, or nil.
func (c *Controller) Session() *EditSession { return c.session }

func (c *Controller) paint() { c.painter.Paint(c.editor.Snapshot()) }

func (c *Controller) toLogical(p scene.Point) scene.Point {
	sx, sy := displayScale(c.editor.Snapshot().Canvas, c.displayW, c.displayH)
	return scene.Point{X: p.X / sx, Y: p.Y / sy}
}

// PointerDown handles a press at display point p.
func (c *Controller) PointerDown(p scene.Point, at time.Time) {
	if c.state == Editing {
		c.confirm()
	}
	pt := c.toLogical(p)
	s := c.editor.Snapshot()
	id, hit := "", false
	if c.metrics != nil {
		id, hit = hittest.HitTest(s, pt, c.metrics)
	}

	if !hit {
		c.reset()
		c.lastDownID = ""
		c.editor.SelectLayer("")
		c.paint()
		return
	}

	if id == c.lastDownID && at.Sub(c.lastDownAt) < c.cfg.DoubleClick {
		c.reset()
		c.beginEdit(id)
		return
	}

	layer, _ := s.Layer(id)
	c.endDrag()
	c.state = Armed
	c.layerID = id
	c.start = pt
	c.grab = scene.Point{X: pt.X - layer.Position.X, Y: pt.Y - layer.Position.Y}
	c.lastDownID, c.lastDownAt = id, at
	c.editor.SelectLayer(id)
	c.paint()
}

// PointerMove handles motion to display point p.
func (c *Controller) PointerMove(p scene.Point) {
	pt := c.toLogical(p)
	switch c.state {
	case Armed:
		if math.Hypot(pt.X-c.start.X, pt.Y-c.start.Y) <= c.cfg.DragThreshold {
			return
		}
		c.state = Dragging
		c.editor.Begin()
		c.log.Debug("开始拖动", "layer", c.layerID)
		c.drag(pt)
	case Dragging:
		c.drag(pt)
	}
}

func (c *Controller) drag(pt scene.Point) {
	s := c.editor.Snapshot()
	layer, ok := s.Layer(c.layerID)
	if !ok {
		c.reset()
		return
	}
	x := pt.X - c.grab.X
	y := pt.Y - c.grab.Y
	x = math.Max(0, math.Min(x, float64(s.Canvas.Width)-c.cfg.ReservedRight))
	y = math.Max(layer.Style.FontSize, math.Min(y, float64(s.Canvas.Height)-c.cfg.BottomMargin))
	c.editor.UpdateLayer(c.layerID, scene.MovePatch(scene.Point{X: x, Y: y}))
	c.paint()
}

// PointerUp ends an armed press or a drag.
func (c *Controller) PointerUp(scene.Point) { c.release() }

// PointerLeave ends an armed press or a drag when the pointer leaves the surface.
func (c *Controller) PointerLeave() { c.release() }

func (c *Controller) release() {
	if c.state == Armed || c.state == Dragging {
		c.reset()
	}
}

// Key handles a key press. Keys only matter while editing.
func (c *Controller) Key(ev KeyEvent) {
	if c.state != Editing || c.session == nil {
		return
	}
	b := c.session.buffer
	switch ev.Key {
	case KeyEnter:
		if ev.Shift {
			b.Insert("\n")
			return
		}
		c.confirm()
	case KeyEscape:
		c.cancel()
	case KeyBackspace:
		b.Backspace()
	case KeyDelete:
		b.Delete()
	case KeyLeft:
		b.Left(ev.Shift)
	case KeyRight:
		b.Right(ev.Shift)
	case KeyHome:
		b.Home(ev.Shift)
	case KeyEnd:
		b.End(ev.Shift)
	case KeySelectAll:
		b.SelectAll()
	}
}

// TypeText inserts text typed while editing.
func (c *Controller) TypeText(text string) {
	if c.state != Editing || c.session == nil {
		return
	}
	c.session.buffer.Insert(text)
}

// Blur reports that the edit affordance lost focus, which confirms the edit.
func (c *Controller) Blur() {
	if c.state == Editing {
		c.confirm()
	}
}

// Resize updates the display size and repositions an open edit affordance.
func (c *Controller) Resize(w, h float64) {
	c.displayW, c.displayH = w, h
	if c.session != nil {
		c.session.resize(w, h)
	}
}

func (c *Controller) beginEdit(id string) {
	s := c.editor.Snapshot()
	layer, ok := s.Layer(id)
	if !ok {
		return
	}
	c.state = Editing
	c.layerID = id
	c.lastDownID, c.lastDownAt = "", time.Time{}
	c.session = newEditSession(layer, s.Canvas, c.displayW, c.displayH)
	c.log.Debug("进入编辑", "layer", id)
}

func (c *Controller) confirm() {
	if c.session == nil {
		c.reset()
		return
	}
	id, text := c.session.LayerID(), c.session.confirmedText()
	c.session = nil
	c.reset()
	c.editor.UpdateLayer(id, scene.ContentPatch(text))
	c.paint()
}

func (c *Controller) cancel() {
	c.session = nil
	c.reset()
}

func (c *Controller) endDrag() {
	if c.state == Dragging {
		c.editor.End()
	}
}

// reset returns to Idle, closing a drag group and any edit session.
func (c *Controller) reset() {
	c.endDrag()
	c.state = Idle
	c.layerID = ""
	c.session = nil
}
