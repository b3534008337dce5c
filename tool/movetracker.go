package tool

import (
	"github.com/gekko3d/brushedit/geom"
	"github.com/gekko3d/brushedit/logging"
	"github.com/gekko3d/brushedit/render"

	"github.com/go-gl/mathgl/mgl64"
)

// MoveDelegate is the tool side of a free handle move.
type MoveDelegate interface {
	Move(in *InputState, state DragState, proposed mgl64.Vec3) DragStatus
	End(in *InputState, state DragState)
	Cancel(state DragState)
	Render(in *InputState, state DragState, ctx *render.Context, batch *render.Batch)
	MakeDragHandleSnapper(in *InputState, mode SnapMode) HandleSnapper
}

type moveMode int

const (
	moveDefault moveMode = iota
	moveVertical
)

var zAxis = mgl64.Vec3{0, 0, 1}

// CreateMoveHandleDragTracker starts a free move of a handle. In a 3D view
// the handle moves on the horizontal plane through the hit point, or along
// the vertical line when Alt is held. In a 2D view it moves on the view
// plane. Shift restricts the movement to the dominant axis; Ctrl/Cmd
// requests absolute snapping.
func CreateMoveHandleDragTracker(delegate MoveDelegate, in *InputState, initialHandlePosition, initialHitPoint mgl64.Vec3, logger logging.Logger) GestureTracker {
	return CreateHandleDragTracker(&moveHandleDragDelegate{inner: delegate}, in, initialHandlePosition, initialHitPoint, logger)
}

// SnapModeOf returns the snap mode requested by the current modifiers.
func SnapModeOf(in *InputState) SnapMode {
	if in.ModifierKeysDown(ModCtrlCmd) {
		return SnapAbsolute
	}
	return SnapRelative
}

type moveHandleDragDelegate struct {
	inner MoveDelegate
	mode  moveMode
}

func moveModeOf(in *InputState) moveMode {
	if in.Camera().Projection == geom.Perspective && in.ModifierKeysDown(ModAlt) {
		return moveVertical
	}
	return moveDefault
}

func (d *moveHandleDragDelegate) Start(in *InputState, initialHandlePosition, handleOffset mgl64.Vec3) HandlePositionProposer {
	d.mode = moveModeOf(in)
	return d.makeProposer(in, initialHandlePosition.Sub(handleOffset), handleOffset)
}

func (d *moveHandleDragDelegate) makeProposer(in *InputState, anchor, handleOffset mgl64.Vec3) HandlePositionProposer {
	var picker HandlePicker
	switch camera := in.Camera(); {
	case camera.Projection == geom.Orthographic:
		picker = MakePlaneHandlePicker(geom.OrthogonalPlane(anchor, geom.FirstAxis(camera.Direction)), handleOffset)
	case d.mode == moveVertical:
		picker = MakeLineHandlePicker(geom.Line{Point: anchor, Direction: zAxis}, handleOffset)
	default:
		picker = MakePlaneHandlePicker(geom.OrthogonalPlane(anchor, zAxis), handleOffset)
	}

	return func(in *InputState, state DragState) (mgl64.Vec3, bool) {
		picked, ok := picker(in)
		if !ok {
			return mgl64.Vec3{}, false
		}
		snapped, ok := d.inner.MakeDragHandleSnapper(in, SnapModeOf(in))(in, state, picked)
		if !ok {
			return mgl64.Vec3{}, false
		}
		if in.ModifierKeysDown(ModShift) {
			snapped = constrict(state.InitialHandlePosition, snapped)
		}
		return snapped, true
	}
}

// constrict projects p onto the axis along which it moved furthest from origin.
func constrict(origin, p mgl64.Vec3) mgl64.Vec3 {
	delta := p.Sub(origin)
	if delta.Len() == 0 {
		return p
	}
	axis := geom.FirstAxis(delta)
	return origin.Add(axis.Mul(delta.Dot(axis)))
}

func (d *moveHandleDragDelegate) ModifierKeyChange(in *InputState, state DragState) (HandlePositionProposer, DragState) {
	mode := moveModeOf(in)
	if mode == d.mode {
		return nil, state
	}
	d.mode = mode
	rebased := state
	rebased.InitialHandlePosition = state.CurrentHandlePosition
	return d.makeProposer(in, state.CurrentHandlePosition.Sub(state.HandleOffset), state.HandleOffset), rebased
}

func (d *moveHandleDragDelegate) Update(in *InputState, state DragState, proposed mgl64.Vec3) DragStatus {
	return d.inner.Move(in, state, proposed)
}

func (d *moveHandleDragDelegate) End(in *InputState, state DragState) {
	d.inner.End(in, state)
}

func (d *moveHandleDragDelegate) Cancel(state DragState) {
	d.inner.Cancel(state)
}

func (d *moveHandleDragDelegate) Render(in *InputState, state DragState, ctx *render.Context, batch *render.Batch) {
	d.inner.Render(in, state, ctx, batch)
}

func (d *moveHandleDragDelegate) SetRenderOptions(in *InputState, ctx *render.Context) {
	if o, ok := d.inner.(RenderOptionsDelegate); ok {
		o.SetRenderOptions(in, ctx)
	}
}
