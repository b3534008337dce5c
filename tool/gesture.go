package tool

import "github.com/gekko3d/brushedit/render"

// GestureTracker owns a drag or gesture between its acceptance and its
// end or cancellation. The connector holds at most one at a time.
type GestureTracker interface {
	ModifierKeyChange(in *InputState)
	MouseScroll(in *InputState)
	// Update returns false to end the gesture.
	Update(in *InputState) bool
	End(in *InputState)
	Cancel()
	SetRenderOptions(in *InputState, ctx *render.Context)
	Render(in *InputState, ctx *render.Context, batch *render.Batch)
}
