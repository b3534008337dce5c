package tool

import (
	"github.com/gekko3d/brushedit/pick"
	"github.com/gekko3d/brushedit/render"
)

// Controller adapts a tool to input events. Boolean results report
// whether the event was consumed.
type Controller interface {
	Tool() Tool
	Pick(in *InputState, result *pick.Result)
	ModifierKeyChange(in *InputState)
	MouseDown(in *InputState) bool
	MouseUp(in *InputState) bool
	MouseClick(in *InputState) bool
	MouseDoubleClick(in *InputState) bool
	MouseMove(in *InputState)
	MouseScroll(in *InputState)
	AcceptMouseDrag(in *InputState) GestureTracker
	AcceptGesture(in *InputState) GestureTracker
	SetRenderOptions(in *InputState, ctx *render.Context)
	Render(in *InputState, ctx *render.Context, batch *render.Batch)
	Cancel() bool
}

// NopController ignores every event. Embed it and override what you need.
type NopController struct{}

func (NopController) Pick(*InputState, *pick.Result)                     {}
func (NopController) ModifierKeyChange(*InputState)                      {}
func (NopController) MouseDown(*InputState) bool                         { return false }
func (NopController) MouseUp(*InputState) bool                           { return false }
func (NopController) MouseClick(*InputState) bool                        { return false }
func (NopController) MouseDoubleClick(*InputState) bool                  { return false }
func (NopController) MouseMove(*InputState)                              {}
func (NopController) MouseScroll(*InputState)                            {}
func (NopController) AcceptMouseDrag(*InputState) GestureTracker         { return nil }
func (NopController) AcceptGesture(*InputState) GestureTracker           { return nil }
func (NopController) SetRenderOptions(*InputState, *render.Context)      {}
func (NopController) Render(*InputState, *render.Context, *render.Batch) {}
func (NopController) Cancel() bool                                       { return false }

// Group combines several controllers of one tool. Events go to every
// member in order; consuming events stop at the first member that consumes.
type Group struct {
	tool        Tool
	controllers []Controller
}

func NewGroup(t Tool, controllers ...Controller) *Group {
	return &Group{tool: t, controllers: controllers}
}

func (g *Group) Add(c Controller) {
	g.controllers = append(g.controllers, c)
}

func (g *Group) Tool() Tool {
	return g.tool
}

func (g *Group) Pick(in *InputState, result *pick.Result) {
	for _, c := range g.controllers {
		c.Pick(in, result)
	}
}

func (g *Group) ModifierKeyChange(in *InputState) {
	for _, c := range g.controllers {
		c.ModifierKeyChange(in)
	}
}

func (g *Group) MouseDown(in *InputState) bool {
	return g.first(func(c Controller) bool { return c.MouseDown(in) })
}

func (g *Group) MouseUp(in *InputState) bool {
	return g.first(func(c Controller) bool { return c.MouseUp(in) })
}

func (g *Group) MouseClick(in *InputState) bool {
	return g.first(func(c Controller) bool { return c.MouseClick(in) })
}

func (g *Group) MouseDoubleClick(in *InputState) bool {
	return g.first(func(c Controller) bool { return c.MouseDoubleClick(in) })
}

func (g *Group) MouseMove(in *InputState) {
	for _, c := range g.controllers {
		c.MouseMove(in)
	}
}

func (g *Group) MouseScroll(in *InputState) {
	for _, c := range g.controllers {
		c.MouseScroll(in)
	}
}

func (g *Group) AcceptMouseDrag(in *InputState) GestureTracker {
	for _, c := range g.controllers {
		if tracker := c.AcceptMouseDrag(in); tracker != nil {
			return tracker
		}
	}
	return nil
}

func (g *Group) AcceptGesture(in *InputState) GestureTracker {
	for _, c := range g.controllers {
		if tracker := c.AcceptGesture(in); tracker != nil {
			return tracker
		}
	}
	return nil
}

func (g *Group) SetRenderOptions(in *InputState, ctx *render.Context) {
	for _, c := range g.controllers {
		c.SetRenderOptions(in, ctx)
	}
}

func (g *Group) Render(in *InputState, ctx *render.Context, batch *render.Batch) {
	for _, c := range g.controllers {
		c.Render(in, ctx, batch)
	}
}

// Cancel cancels every member and reports whether any of them had something to cancel.
func (g *Group) Cancel() bool {
	cancelled := false
	for _, c := range g.controllers {
		if c.Cancel() {
			cancelled = true
		}
	}
	return cancelled
}

func (g *Group) first(f func(Controller) bool) bool {
	for _, c := range g.controllers {
		if f(c) {
			return true
		}
	}
	return false
}
