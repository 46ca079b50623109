package floorplan

import (
	"math"

	"iot-planner/internal/planner/geometry"
	"iot-planner/internal/planner/models"
)

// ============================================================
// Editor modes & events
// ============================================================

type Mode string

const (
	ModeSelect   Mode = "select"
	ModeDrawRoom Mode = "draw-room"
	ModeDrawWall Mode = "draw-wall"
)

type Key string

const (
	KeyEscape    Key = "Escape"
	KeyDelete    Key = "Delete"
	KeyBackspace Key = "Backspace"
)

const (
	// SnapRadius is how close (world units) a click must land to the chain
	// start to close the loop.
	SnapRadius = 0.5
	zoomStep   = 1.1

	minViewWidth = 1.0
	maxViewWidth = 1000.0
)

// Target is the plan element under the pointer. A zero Target is empty
// canvas.
type Target struct {
	ID   string
	Kind models.ElementKind
}

func (t Target) Empty() bool { return t.ID == "" }

// PointerEvent carries a pointer position in screen pixels.
type PointerEvent struct {
	X, Y   float64
	Shift  bool
	Target Target
}

// WheelEvent zooms around the cursor; positive DeltaY zooms out.
type WheelEvent struct {
	X, Y   float64
	DeltaY float64
}

// EditorPreview is the in-progress geometry a renderer draws on top of the
// plan.
type EditorPreview struct {
	Room    *geometry.Rectangle  `json:"room,omitempty"`
	Chain   []geometry.Point2D   `json:"chain,omitempty"`
	Segment *[2]geometry.Point2D `json:"segment,omitempty"`
}

// ============================================================
// Editor
// ============================================================

// Editor is the interactive 2D floor-plan editor. It is driven by a single
// event loop and holds no locks.
type Editor struct {
	store   *Store
	viewBox geometry.ViewBox
	width   float64
	height  float64
	mode    Mode

	selection Target

	// room drag
	drawing bool
	anchor  geometry.Point2D
	current geometry.Point2D

	// wall chain
	chain  []geometry.Point2D
	cursor geometry.Point2D

	// pan
	panning  bool
	panStart geometry.Point2D
	panView  geometry.ViewBox
}

// NewEditor returns an editor in select mode showing vb inside a
// width x height pixel viewport.
func NewEditor(store *Store, vb geometry.ViewBox, width, height float64) *Editor {
	return &Editor{
		store:   store,
		viewBox: vb,
		width:   width,
		height:  height,
		mode:    ModeSelect,
	}
}

func (e *Editor) Store() *Store                     { return e.store }
func (e *Editor) Mode() Mode                        { return e.mode }
func (e *Editor) ViewBox() geometry.ViewBox         { return e.viewBox }
func (e *Editor) Selection() Target                 { return e.selection }
func (e *Editor) Chain() []geometry.Point2D         { return append([]geometry.Point2D(nil), e.chain...) }
func (e *Editor) SetViewport(width, height float64) { e.width, e.height = width, height }

// SetMode switches tools and drops any in-progress interaction.
func (e *Editor) SetMode(m Mode) {
	e.mode = m
	e.reset()
	e.selection = Target{}
}

func (e *Editor) toWorld(x, y float64) geometry.Point2D {
	return geometry.ScreenToWorld(x, y, e.viewBox, e.width, e.height)
}

// PointerDown starts a drag, a selection or a wall-chain click.
func (e *Editor) PointerDown(ev PointerEvent) {
	p := e.toWorld(ev.X, ev.Y)
	switch e.mode {
	case ModeSelect:
		if !ev.Target.Empty() {
			e.selection = ev.Target
			return
		}
		e.selection = Target{}
		e.panning = true
		e.panStart = geometry.Pt(ev.X, ev.Y)
		e.panView = e.viewBox

	case ModeDrawRoom:
		if !ev.Target.Empty() {
			return
		}
		e.drawing = true
		e.anchor = p
		e.current = p

	case ModeDrawWall:
		e.clickChain(p, ev)
	}
}

// PointerMove updates the live drag, chain cursor or pan.
func (e *Editor) PointerMove(ev PointerEvent) {
	switch e.mode {
	case ModeSelect:
		if !e.panning {
			return
		}
		dx := (ev.X - e.panStart.X) * e.panView.Width / e.width
		dy := (ev.Y - e.panStart.Y) * e.panView.Height / e.height
		e.viewBox.X = e.panView.X - dx
		e.viewBox.Y = e.panView.Y - dy

	case ModeDrawRoom:
		if e.drawing {
			e.current = e.toWorld(ev.X, ev.Y)
		}

	case ModeDrawWall:
		if len(e.chain) > 0 {
			e.cursor = e.constrain(e.toWorld(ev.X, ev.Y), ev.Shift)
		}
	}
}

// PointerUp finishes a room drag or a pan. Wall chains ignore it.
func (e *Editor) PointerUp(ev PointerEvent) {
	switch e.mode {
	case ModeSelect:
		e.panning = false
	case ModeDrawRoom:
		if !e.drawing {
			return
		}
		e.current = e.toWorld(ev.X, ev.Y)
		e.store.AddRectangleRoom(geometry.RectangleFromCorners(e.anchor, e.current))
		e.drawing = false
	}
}

// Wheel zooms the view box keeping the world point under the cursor fixed.
func (e *Editor) Wheel(ev WheelEvent) {
	if ev.DeltaY == 0 {
		return
	}
	factor := zoomStep
	if ev.DeltaY < 0 {
		factor = 1 / zoomStep
	}
	newWidth := math.Min(math.Max(e.viewBox.Width*factor, minViewWidth), maxViewWidth)
	factor = newWidth / e.viewBox.Width
	if factor == 1 {
		return
	}

	anchor := e.toWorld(ev.X, ev.Y)
	vb := e.viewBox
	vb.Width *= factor
	vb.Height *= factor
	vb.X = anchor.X - (ev.X/e.width)*vb.Width
	vb.Y = anchor.Y - (ev.Y/e.height)*vb.Height
	e.viewBox = vb
}

// KeyDown handles Escape (abort the current gesture) and Delete.
func (e *Editor) KeyDown(k Key) {
	switch k {
	case KeyEscape:
		// Segments already committed by the chain stay.
		e.reset()
	case KeyDelete, KeyBackspace:
		if e.mode != ModeSelect || e.selection.Empty() {
			return
		}
		e.store.Remove(e.selection.ID, e.selection.Kind)
		e.selection = Target{}
	}
}

// Preview returns what is being drawn right now.
func (e *Editor) Preview() EditorPreview {
	var out EditorPreview
	if e.drawing {
		r := geometry.RectangleFromCorners(e.anchor, e.current)
		out.Room = &r
	}
	if len(e.chain) > 0 {
		out.Chain = e.Chain()
		out.Segment = &[2]geometry.Point2D{e.chain[len(e.chain)-1], e.cursor}
	}
	return out
}

// ============================================================
// Wall chain
// ============================================================

func (e *Editor) clickChain(p geometry.Point2D, ev PointerEvent) {
	if len(e.chain) == 0 {
		if !ev.Target.Empty() {
			return
		}
		e.chain = []geometry.Point2D{p}
		e.cursor = p
		return
	}

	start := e.chain[0]
	last := e.chain[len(e.chain)-1]
	if len(e.chain) >= 3 && geometry.Distance(p, start) <= SnapRadius {
		e.store.AddWall(last, start)
		e.store.AddPolygonRoom(e.chain)
		e.chain = nil
		return
	}

	p = e.constrain(p, ev.Shift)
	if _, ok := e.store.AddWall(last, p); !ok {
		return
	}
	e.chain = append(e.chain, p)
	e.cursor = p
}

func (e *Editor) constrain(p geometry.Point2D, shift bool) geometry.Point2D {
	if !shift || len(e.chain) == 0 {
		return p
	}
	return geometry.SnapToAxis(e.chain[len(e.chain)-1], p)
}

func (e *Editor) reset() {
	e.drawing = false
	e.chain = nil
	e.panning = false
}
