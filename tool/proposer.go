package tool

import (
	"github.com/gekko3d/brushedit/geom"

	"github.com/go-gl/mathgl/mgl64"
)

// HandlePicker maps the pointer to a raw handle position.
type HandlePicker func(in *InputState) (mgl64.Vec3, bool)

// HandleSnapper adjusts a raw handle position, typically to the grid.
type HandleSnapper func(in *InputState, state DragState, proposed mgl64.Vec3) (mgl64.Vec3, bool)

// HandlePositionProposer produces the next candidate handle position.
type HandlePositionProposer func(in *InputState, state DragState) (mgl64.Vec3, bool)

type SnapMode int

const (
	// SnapRelative snaps the accumulated delta to the grid.
	SnapRelative SnapMode = iota
	// SnapAbsolute snaps the handle position itself to the grid.
	SnapAbsolute
)

func (m SnapMode) String() string {
	if m == SnapAbsolute {
		return "absolute"
	}
	return "relative"
}

func MakeHandlePositionProposer(picker HandlePicker, snapper HandleSnapper) HandlePositionProposer {
	return func(in *InputState, state DragState) (mgl64.Vec3, bool) {
		picked, ok := picker(in)
		if !ok {
			return mgl64.Vec3{}, false
		}
		return snapper(in, state, picked)
	}
}

// MakePlaneHandlePicker intersects the pick ray with plane and adds handleOffset.
func MakePlaneHandlePicker(plane geom.Plane, handleOffset mgl64.Vec3) HandlePicker {
	return func(in *InputState) (mgl64.Vec3, bool) {
		ray := in.PickRay()
		distance, ok := plane.IntersectRay(ray)
		if !ok {
			return mgl64.Vec3{}, false
		}
		return ray.PointAt(distance).Add(handleOffset), true
	}
}

// MakeLineHandlePicker picks the point of line closest to the pick ray and adds handleOffset.
func MakeLineHandlePicker(line geom.Line, handleOffset mgl64.Vec3) HandlePicker {
	return func(in *InputState) (mgl64.Vec3, bool) {
		rayDistance, lineDistance, _ := geom.ClosestPoints(in.PickRay(), line)
		if rayDistance < 0 {
			return mgl64.Vec3{}, false
		}
		return line.PointAt(lineDistance).Add(handleOffset), true
	}
}

func MakeIdentityHandleSnapper() HandleSnapper {
	return func(_ *InputState, _ DragState, proposed mgl64.Vec3) (mgl64.Vec3, bool) {
		return proposed, true
	}
}

func MakeAbsoluteHandleSnapper(grid geom.Grid) HandleSnapper {
	return func(_ *InputState, _ DragState, proposed mgl64.Vec3) (mgl64.Vec3, bool) {
		return grid.Snap(proposed), true
	}
}

func MakeRelativeHandleSnapper(grid geom.Grid) HandleSnapper {
	return func(_ *InputState, state DragState, proposed mgl64.Vec3) (mgl64.Vec3, bool) {
		return grid.SnapRelative(state.InitialHandlePosition, proposed), true
	}
}

// MakeRelativeLineHandleSnapper snaps the distance travelled along line from the initial handle position.
func MakeRelativeLineHandleSnapper(grid geom.Grid, line geom.Line) HandleSnapper {
	return func(_ *InputState, state DragState, proposed mgl64.Vec3) (mgl64.Vec3, bool) {
		return grid.SnapToLine(geom.Line{Point: state.InitialHandlePosition, Direction: line.Direction}, proposed), true
	}
}

// MakeAbsoluteLineHandleSnapper snaps proposed to the grid and projects the result back onto line.
func MakeAbsoluteLineHandleSnapper(grid geom.Grid, line geom.Line) HandleSnapper {
	return func(_ *InputState, _ DragState, proposed mgl64.Vec3) (mgl64.Vec3, bool) {
		snapped := grid.Snap(proposed)
		d := line.Direction.Normalize()
		return line.Point.Add(d.Mul(snapped.Sub(line.Point).Dot(d))), true
	}
}

func MakeHandleSnapperFromSnapMode(grid geom.Grid, mode SnapMode) HandleSnapper {
	if mode == SnapAbsolute {
		return MakeAbsoluteHandleSnapper(grid)
	}
	return MakeRelativeHandleSnapper(grid)
}
