package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Grid struct {
	Size float64
}

func NewGrid(size float64) Grid {
	return Grid{Size: size}
}

func (g Grid) SnapScalar(f float64) float64 {
	if g.Size <= 0 {
		return f
	}
	return math.Round(f/g.Size) * g.Size
}

// Snap quantizes every component of v to a multiple of the grid size.
func (g Grid) Snap(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{g.SnapScalar(v.X()), g.SnapScalar(v.Y()), g.SnapScalar(v.Z())}
}

// SnapRelative snaps the offset between origin and v instead of v itself.
func (g Grid) SnapRelative(origin, v mgl64.Vec3) mgl64.Vec3 {
	return origin.Add(g.Snap(v.Sub(origin)))
}

// SnapToLine snaps the distance of v along the line, measured from its point.
func (g Grid) SnapToLine(l Line, v mgl64.Vec3) mgl64.Vec3 {
	d := l.Direction.Normalize()
	return l.Point.Add(d.Mul(g.SnapScalar(v.Sub(l.Point).Dot(d))))
}

// SnapAngle quantizes radians to multiples of step (radians). A zero step disables snapping.
func SnapAngle(angle, step float64) float64 {
	if step <= 0 {
		return angle
	}
	return math.Round(angle/step) * step
}
