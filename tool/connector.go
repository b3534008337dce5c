package tool

import (
	"github.com/gekko3d/brushedit/geom"
	"github.com/gekko3d/brushedit/logging"
	"github.com/gekko3d/brushedit/pick"
	"github.com/gekko3d/brushedit/render"
)

// PickFunc adds scene hits for ray, e.g. brushes of the document.
type PickFunc func(ray geom.Ray, result *pick.Result)

// Connector feeds canonical events of one view into its tool chain. It
// maintains the input state, refreshes the pick result and owns the
// view's single active gesture tracker.
type Connector struct {
	box     *Box
	chain   *Chain
	input   *InputState
	pickFn  PickFunc
	tracker GestureTracker
	log     logging.Logger
}

var _ EventProcessor = (*Connector)(nil)

func NewConnector(box *Box, camera *geom.Camera, pickFn PickFunc, logger logging.Logger) *Connector {
	c := &Connector{
		box:    box,
		chain:  NewChain(box.Eligible),
		input:  NewInputState(camera),
		pickFn: pickFn,
		log:    logging.OrNop(logger),
	}
	box.AddInterruptHandler(c.CancelDrag)
	return c
}

// AddController appends c to the chain and registers its tool with the box.
func (c *Connector) AddController(controller Controller) {
	c.box.AddTool(controller.Tool())
	c.chain.Append(controller)
}

func (c *Connector) Chain() *Chain {
	return c.chain
}

func (c *Connector) Input() *InputState {
	return c.input
}

func (c *Connector) Dragging() bool {
	return c.tracker != nil
}

func (c *Connector) SetCamera(camera *geom.Camera) {
	c.input.SetCamera(camera)
	c.UpdatePickResult()
}

// UpdatePickResult recomputes the pick ray and pick result for the current pointer position.
func (c *Connector) UpdatePickResult() {
	camera := c.input.Camera()
	if camera == nil {
		return
	}
	ray := camera.PickRay(c.input.MouseX(), c.input.MouseY())
	c.input.SetPickRay(ray)

	result := pick.NewResult()
	if c.pickFn != nil {
		c.pickFn(ray, result)
	}
	c.chain.Pick(c.input, result)
	c.input.SetPickResult(result)
}

// SetModifierKeys replaces the modifier state, for platforms that report
// modifiers alongside pointer events. Returns whether the state changed.
func (c *Connector) SetModifierKeys(keys ModifierKeys) bool {
	if keys == c.input.ModifierKeys() {
		return false
	}
	c.input.SetModifierKeys(keys)
	c.modifierKeyChange()
	return true
}

func (c *Connector) modifierKeyChange() {
	c.UpdatePickResult()
	if c.tracker != nil {
		c.tracker.ModifierKeyChange(c.input)
		return
	}
	c.chain.ModifierKeyChange(c.input)
}

func (c *Connector) ProcessKey(e KeyEvent) {
	mod := e.Key.Modifier()
	if mod == ModNone {
		return
	}
	keys := c.input.ModifierKeys()
	if e.Type == KeyDown {
		keys |= mod
	} else {
		keys &^= mod
	}
	c.SetModifierKeys(keys)
}

func (c *Connector) mouseMoved(x, y float64) {
	c.input.MouseMove(x, y, x-c.input.MouseX(), y-c.input.MouseY())
}

func (c *Connector) ProcessMouse(e MouseEvent) {
	switch e.Type {
	case MouseButtonDown:
		c.mouseMoved(e.X, e.Y)
		c.input.MouseDown(e.Button)
		c.UpdatePickResult()
		c.chain.MouseDown(c.input)
	case MouseButtonUp:
		c.mouseMoved(e.X, e.Y)
		c.chain.MouseUp(c.input)
		c.input.MouseUp(e.Button)
		c.UpdatePickResult()
	case MouseClick, MouseDoubleClick:
		// Clicks arrive after the release; the button is reported as held
		// while controllers see the click.
		c.mouseMoved(e.X, e.Y)
		c.UpdatePickResult()
		c.input.MouseDown(e.Button)
		if e.Type == MouseClick {
			c.chain.MouseClick(c.input)
		} else {
			c.chain.MouseDoubleClick(c.input)
		}
		c.input.MouseUp(e.Button)
	case MouseMotion:
		c.mouseMoved(e.X, e.Y)
		c.UpdatePickResult()
		if c.tracker == nil {
			c.chain.MouseMove(c.input)
		}
	case MouseDragStart:
		c.mouseMoved(e.X, e.Y)
		c.input.MouseDown(e.Button)
		c.UpdatePickResult()
		c.startTracker(c.chain.AcceptMouseDrag)
	case MouseDrag:
		c.mouseMoved(e.X, e.Y)
		c.UpdatePickResult()
		c.updateTracker()
	case MouseDragEnd:
		c.mouseMoved(e.X, e.Y)
		c.UpdatePickResult()
		c.endTracker()
	}
}

func (c *Connector) ProcessScroll(e ScrollEvent) {
	if e.Axis == ScrollHorizontal {
		c.input.Scroll(e.Distance, 0)
	} else {
		c.input.Scroll(0, e.Distance)
	}
	if c.tracker != nil {
		c.tracker.MouseScroll(c.input)
	} else {
		c.chain.MouseScroll(c.input)
	}
	c.input.Scroll(0, 0)
}

func (c *Connector) ProcessGesture(e GestureEvent) {
	c.mouseMoved(e.X, e.Y)
	switch e.Type {
	case GestureStart:
		c.UpdatePickResult()
		c.startTracker(c.chain.AcceptGesture)
	case GesturePan:
		c.UpdatePickResult()
		c.updateTracker()
	case GestureZoom:
		c.input.SetGestureZoom(e.Value)
		c.updateTracker()
	case GestureRotate:
		c.input.SetGestureRotation(e.Value)
		c.updateTracker()
	case GestureEnd:
		c.endTracker()
		c.input.SetGestureZoom(0)
		c.input.SetGestureRotation(0)
	}
}

func (c *Connector) ProcessCancel(CancelEvent) {
	c.Cancel()
}

// Cancel aborts the active gesture if there is one, otherwise asks the chain to cancel.
func (c *Connector) Cancel() bool {
	if c.tracker != nil {
		c.CancelDrag()
		return true
	}
	return c.chain.Cancel()
}

func (c *Connector) CancelDrag() {
	if c.tracker == nil {
		return
	}
	tracker := c.tracker
	c.tracker = nil
	c.input.SetAnyToolDragging(false)
	tracker.Cancel()
	c.UpdatePickResult()
}

func (c *Connector) startTracker(accept func(*InputState) GestureTracker) {
	if c.tracker != nil {
		c.log.Warnf("ignoring gesture start while another gesture is active")
		return
	}
	if tracker := accept(c.input); tracker != nil {
		c.tracker = tracker
		c.input.SetAnyToolDragging(true)
	}
}

func (c *Connector) updateTracker() {
	if c.tracker == nil {
		return
	}
	if !c.tracker.Update(c.input) {
		c.endTracker()
	}
}

func (c *Connector) endTracker() {
	if c.tracker == nil {
		return
	}
	tracker := c.tracker
	c.tracker = nil
	c.input.SetAnyToolDragging(false)
	tracker.End(c.input)
	c.UpdatePickResult()
}

// SetRenderOptions lets eligible controllers and the active tracker adjust ctx.
func (c *Connector) SetRenderOptions(ctx *render.Context) {
	c.chain.SetRenderOptions(c.input, ctx)
	if c.tracker != nil {
		c.tracker.SetRenderOptions(c.input, ctx)
	}
}

func (c *Connector) Render(ctx *render.Context, batch *render.Batch) {
	c.chain.Render(c.input, ctx, batch)
	if c.tracker != nil {
		c.tracker.Render(c.input, ctx, batch)
	}
}
