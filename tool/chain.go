package tool

import (
	"github.com/gekko3d/brushedit/pick"
	"github.com/gekko3d/brushedit/render"
)

// Chain dispatches events to controllers in registration order. Only
// eligible controllers see events; the first one to consume an event stops it.
type Chain struct {
	controllers []Controller
	eligible    func(Tool) bool
}

// NewChain creates a chain. A nil eligible predicate admits every active tool.
func NewChain(eligible func(Tool) bool) *Chain {
	if eligible == nil {
		eligible = func(t Tool) bool { return t.Active() }
	}
	return &Chain{eligible: eligible}
}

func (c *Chain) Append(controller Controller) {
	c.controllers = append(c.controllers, controller)
}

func (c *Chain) Controllers() []Controller {
	return c.controllers
}

func (c *Chain) each(f func(Controller)) {
	for _, controller := range c.controllers {
		if c.eligible(controller.Tool()) {
			f(controller)
		}
	}
}

func (c *Chain) first(f func(Controller) bool) bool {
	for _, controller := range c.controllers {
		if c.eligible(controller.Tool()) && f(controller) {
			return true
		}
	}
	return false
}

func (c *Chain) Pick(in *InputState, result *pick.Result) {
	c.each(func(controller Controller) { controller.Pick(in, result) })
}

func (c *Chain) ModifierKeyChange(in *InputState) {
	c.each(func(controller Controller) { controller.ModifierKeyChange(in) })
}

func (c *Chain) MouseDown(in *InputState) bool {
	return c.first(func(controller Controller) bool { return controller.MouseDown(in) })
}

func (c *Chain) MouseUp(in *InputState) bool {
	return c.first(func(controller Controller) bool { return controller.MouseUp(in) })
}

func (c *Chain) MouseClick(in *InputState) bool {
	return c.first(func(controller Controller) bool { return controller.MouseClick(in) })
}

func (c *Chain) MouseDoubleClick(in *InputState) bool {
	return c.first(func(controller Controller) bool { return controller.MouseDoubleClick(in) })
}

func (c *Chain) MouseMove(in *InputState) {
	c.each(func(controller Controller) { controller.MouseMove(in) })
}

func (c *Chain) MouseScroll(in *InputState) {
	c.each(func(controller Controller) { controller.MouseScroll(in) })
}

func (c *Chain) AcceptMouseDrag(in *InputState) GestureTracker {
	var tracker GestureTracker
	c.first(func(controller Controller) bool {
		tracker = controller.AcceptMouseDrag(in)
		return tracker != nil
	})
	return tracker
}

func (c *Chain) AcceptGesture(in *InputState) GestureTracker {
	var tracker GestureTracker
	c.first(func(controller Controller) bool {
		tracker = controller.AcceptGesture(in)
		return tracker != nil
	})
	return tracker
}

func (c *Chain) SetRenderOptions(in *InputState, ctx *render.Context) {
	c.each(func(controller Controller) { controller.SetRenderOptions(in, ctx) })
}

func (c *Chain) Render(in *InputState, ctx *render.Context, batch *render.Batch) {
	c.each(func(controller Controller) { controller.Render(in, ctx, batch) })
}

func (c *Chain) Cancel() bool {
	return c.first(func(controller Controller) bool { return controller.Cancel() })
}
