// Package edit implements the interactive edit engine: pointer gestures
// that create, move, resize and pan, the selection, and a single-slot undo.
//
// The engine owns the live region list. UIs forward pointer events and
// prompt results to it and redraw when it reports a change.
package edit

import (
	"image"
	"math"
	"strings"

	"github.com/ha1tch/atlas-toolkit/pkg/region"
	"github.com/ha1tch/atlas-toolkit/pkg/view"
)

// MinCreateSize is the smallest width and height, in map units, of a
// rectangle drawn with the create gesture.
const MinCreateSize = 4

// State is the gesture currently in progress.
type State int

const (
	StateIdle State = iota
	StateCreating
	StateMoving
	StateResizing
	StatePanning
)

func (s State) String() string {
	switch s {
	case StateCreating:
		return "Creating"
	case StateMoving:
		return "Moving"
	case StateResizing:
		return "Resizing"
	case StatePanning:
		return "Panning"
	}
	return "Idle"
}

// Button is a pointer button.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// Modifiers is a set of keyboard modifiers held during a pointer event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// PointerEvent is a pointer press, motion or release in viewport pixels.
type PointerEvent struct {
	Pos    image.Point
	Button Button
	Mods   Modifiers
}

// Engine applies gestures and commands to a region list.
type Engine struct {
	regions []*region.Region
	view    view.View
	state   State

	sel view.Selection

	// gesture state
	createStart view.PointF
	preview     region.Rect
	pending     *region.Rect
	dragFrom    image.Point
	handle      view.Handle

	undo    []*region.Region
	hasUndo bool

	// CreateModifier must be held on a left press to start drawing a new
	// region.
	CreateModifier Modifiers

	listeners []func()
}

// New returns an idle engine over regions shown through v.
func New(regions []*region.Region, v view.View) *Engine {
	if regions == nil {
		regions = make([]*region.Region, 0)
	}
	if v.Zoom == 0 {
		v.Zoom = 1
	}
	return &Engine{
		regions:        regions,
		view:           v,
		CreateModifier: ModShift,
	}
}

// OnChange registers fn to run after every model or view change.
func (e *Engine) OnChange(fn func()) {
	e.listeners = append(e.listeners, fn)
}

func (e *Engine) changed() {
	for _, fn := range e.listeners {
		fn()
	}
}

// Regions returns the live region list. Callers must not modify it
// directly.
func (e *Engine) Regions() []*region.Region { return e.regions }

// View returns the current view.
func (e *Engine) View() view.View { return e.view }

// SetView replaces the view, clamping its zoom.
func (e *Engine) SetView(v view.View) {
	v.Zoom = view.ClampZoom(v.Zoom)
	e.view = v
	e.changed()
}

// State returns the gesture in progress.
func (e *Engine) State() State { return e.state }

// Selection returns the selected region and rectangle.
// The region is nil when nothing is selected.
func (e *Engine) Selection() view.Selection { return e.sel }

// SelectedIndex returns the list index of the selected region, or -1.
func (e *Engine) SelectedIndex() int {
	if e.sel.Region == nil {
		return -1
	}
	for i, r := range e.regions {
		if r == e.sel.Region {
			return i
		}
	}
	return -1
}

// Preview returns the rectangle being drawn, or awaiting a name.
func (e *Engine) Preview() (region.Rect, bool) {
	if e.pending != nil {
		return *e.pending, true
	}
	if e.state == StateCreating {
		return e.preview, true
	}
	return region.Rect{}, false
}

// AwaitingName reports whether a drawn rectangle waits for CommitCreate or
// CancelCreate.
func (e *Engine) AwaitingName() bool { return e.pending != nil }

// CanUndo reports whether the undo slot holds a snapshot.
func (e *Engine) CanUndo() bool { return e.hasUndo }

// SetRegions replaces the model after a load. The selection and the undo
// slot are cleared.
func (e *Engine) SetRegions(regions []*region.Region) {
	if regions == nil {
		regions = make([]*region.Region, 0)
	}
	e.regions = regions
	e.sel = view.Selection{}
	e.state = StateIdle
	e.pending = nil
	e.undo = nil
	e.hasUndo = false
	e.changed()
}

// pushUndo stores the model as it is before a mutation.
func (e *Engine) pushUndo() {
	e.undo = region.CloneAll(e.regions)
	e.hasUndo = true
}

// Undo restores the snapshot taken before the last mutation and clears the
// selection. Repeating it restores the same snapshot again.
func (e *Engine) Undo() Outcome {
	if !e.hasUndo || e.state != StateIdle {
		return OutcomeNothing
	}
	e.regions = region.CloneAll(e.undo)
	e.sel = view.Selection{}
	e.pending = nil
	e.changed()
	return OutcomeUndone
}

// mapPoint converts a viewport position to map space.
func (e *Engine) mapPoint(p image.Point) view.PointF {
	return e.view.ViewportToMap(p)
}

// PointerDown starts a gesture. Nothing happens while a gesture is already
// in progress or a drawn rectangle awaits its name.
func (e *Engine) PointerDown(ev PointerEvent) Outcome {
	if e.state != StateIdle || e.pending != nil || !e.view.Valid() {
		return OutcomeNone
	}

	switch ev.Button {
	case ButtonMiddle:
		e.state = StatePanning
		e.dragFrom = ev.Pos
		return OutcomeNone
	case ButtonRight:
		if e.sel.Region != nil {
			return OutcomeMenu
		}
		return OutcomeNone
	case ButtonLeft:
	default:
		return OutcomeNone
	}

	if e.CreateModifier != 0 && ev.Mods&e.CreateModifier == e.CreateModifier {
		e.state = StateCreating
		e.createStart = e.mapPoint(ev.Pos)
		e.preview = region.RectXYWH(int(e.createStart.X), int(e.createStart.Y), 0, 0)
		e.changed()
		return OutcomeNone
	}

	hit := e.view.Resolve(e.regions, &e.sel, ev.Pos)
	switch hit.Kind {
	case view.HitHandle:
		e.pushUndo()
		e.state = StateResizing
		e.handle = hit.Handle
		e.dragFrom = ev.Pos
	case view.HitRegion:
		e.pushUndo()
		e.sel = view.Selection{Region: hit.Region, Rect: hit.Rect, HasRect: true}
		e.state = StateMoving
		e.dragFrom = ev.Pos
	default:
		e.sel = view.Selection{}
		e.state = StatePanning
		e.dragFrom = ev.Pos
	}
	e.changed()
	return OutcomeNone
}

// PointerMove advances the gesture in progress.
func (e *Engine) PointerMove(ev PointerEvent) {
	switch e.state {
	case StateCreating:
		end := e.mapPoint(ev.Pos)
		e.preview = region.RectXYWH(
			int(math.Min(e.createStart.X, end.X)),
			int(math.Min(e.createStart.Y, end.Y)),
			int(math.Abs(end.X-e.createStart.X)),
			int(math.Abs(end.Y-e.createStart.Y)),
		)

	case StateResizing:
		if e.sel.Region == nil {
			return
		}
		cur := e.mapPoint(ev.Pos)
		resized := view.ResizeRect(e.sel.Rect, e.handle, int(cur.X), int(cur.Y))
		e.sel.Region.ReplaceRect(e.sel.Rect, resized)
		e.sel.Rect = resized
		e.dragFrom = ev.Pos

	case StateMoving:
		if e.sel.Region == nil {
			return
		}
		from := e.mapPoint(e.dragFrom)
		to := e.mapPoint(ev.Pos)
		dx := int(to.X - from.X)
		dy := int(to.Y - from.Y)
		moved := e.sel.Rect.Translate(dx, dy)
		e.sel.Region.ReplaceRect(e.sel.Rect, moved)
		e.sel.Rect = moved
		e.dragFrom = ev.Pos

	case StatePanning:
		e.view = e.view.Translate(ev.Pos.Sub(e.dragFrom))
		e.dragFrom = ev.Pos

	default:
		return
	}
	e.changed()
}

// PointerUp ends the gesture in progress. A create gesture large enough to
// keep ends in OutcomeNeedsName; the UI then prompts and calls CommitCreate
// or CancelCreate.
func (e *Engine) PointerUp(ev PointerEvent) Outcome {
	prev := e.state
	e.state = StateIdle

	switch prev {
	case StateResizing:
		return OutcomeResized
	case StateMoving:
		return OutcomeMoved
	case StatePanning:
		return OutcomePanned
	case StateCreating:
		rect := e.preview
		e.preview = region.Rect{}
		if rect.Width() < MinCreateSize || rect.Height() < MinCreateSize {
			e.changed()
			return OutcomeTooSmall
		}
		e.pending = &rect
		e.changed()
		return OutcomeNeedsName
	}
	return OutcomeNone
}

// CommitCreate adds the pending rectangle as a new region called name.
// A blank name cancels.
func (e *Engine) CommitCreate(name string) Outcome {
	if e.pending == nil {
		return OutcomeNothing
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return e.CancelCreate()
	}
	rect := *e.pending
	e.pending = nil

	e.pushUndo()
	r := region.New(name)
	r.AddRect(rect)
	e.regions = append(e.regions, r)
	e.changed()
	return OutcomeCreated
}

// CancelCreate discards the pending rectangle.
func (e *Engine) CancelCreate() Outcome {
	if e.pending == nil {
		return OutcomeNothing
	}
	e.pending = nil
	e.changed()
	return OutcomeCancelled
}

// idleSelection returns the selected region when commands may run on it.
func (e *Engine) idleSelection() *region.Region {
	if e.state != StateIdle || e.pending != nil {
		return nil
	}
	return e.sel.Region
}

// Rename renames the selected region. A blank name changes nothing.
func (e *Engine) Rename(name string) Outcome {
	r := e.idleSelection()
	name = strings.TrimSpace(name)
	if r == nil || name == "" {
		return OutcomeNothing
	}
	e.pushUndo()
	r.Name = name
	e.changed()
	return OutcomeRenamed
}

// Delete removes the selected region. Call it only after the user
// confirmed.
func (e *Engine) Delete() Outcome {
	r := e.idleSelection()
	if r == nil {
		return OutcomeNothing
	}
	i := e.SelectedIndex()
	if i < 0 {
		return OutcomeNothing
	}
	e.pushUndo()
	e.regions = append(e.regions[:i], e.regions[i+1:]...)
	e.sel = view.Selection{}
	e.changed()
	return OutcomeDeleted
}

// EditTags applies a tag editor result to the selected region: blank
// values remove tags, others are set.
func (e *Engine) EditTags(edits map[string]string) Outcome {
	r := e.idleSelection()
	if r == nil {
		return OutcomeNothing
	}
	e.pushUndo()
	region.ApplyTagEdits(r, edits)
	e.changed()
	return OutcomeTagsEdited
}

// Select selects the region at index i and its first rectangle.
// An out-of-range index clears the selection.
func (e *Engine) Select(i int) {
	if i < 0 || i >= len(e.regions) {
		e.sel = view.Selection{}
	} else {
		r := e.regions[i]
		e.sel = view.Selection{Region: r}
		if len(r.Bounds) > 0 {
			e.sel.Rect = r.Bounds[0]
			e.sel.HasRect = true
		}
	}
	e.changed()
}

// SetVisible shows or hides the region at index i. Visibility is not
// undoable.
func (e *Engine) SetVisible(i int, visible bool) {
	if i < 0 || i >= len(e.regions) {
		return
	}
	e.regions[i].Visible = visible
	e.changed()
}

// ToggleAll shows every region if any is hidden, otherwise hides all.
func (e *Engine) ToggleAll() bool {
	v := region.ToggleAll(e.regions)
	e.changed()
	return v
}

// ZoomAt zooms to z keeping the map point under anchor in place.
func (e *Engine) ZoomAt(anchor image.Point, z float64) {
	e.view = e.view.ZoomAt(anchor, z)
	e.changed()
}

// ZoomStep zooms in (steps > 0) or out around anchor.
func (e *Engine) ZoomStep(anchor image.Point, steps int) {
	e.ZoomAt(anchor, view.StepZoom(e.view.Zoom, steps))
}

// CenterOnSelection pans so the selected rectangle's centre sits in the
// middle of a viewport of the given size.
func (e *Engine) CenterOnSelection(viewportW, viewportH int) bool {
	if e.sel.Region == nil {
		return false
	}
	rect := e.sel.Rect
	if !e.sel.HasRect {
		ext, ok := e.sel.Region.Extent()
		if !ok {
			return false
		}
		rect = ext
	}
	c := view.PointF{
		X: float64(rect.Left+rect.Right) / 2,
		Y: float64(rect.Top+rect.Bottom) / 2,
	}
	e.view = e.view.CenterOn(c, viewportW, viewportH)
	e.changed()
	return true
}
