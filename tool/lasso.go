package tool

import (
	"github.com/gekko3d/brushedit/geom"
	"github.com/gekko3d/brushedit/render"

	"github.com/go-gl/mathgl/mgl64"
)

// LassoDistance is how far in front of the camera the lasso plane lies.
const LassoDistance = 64.0

// Lasso is a free-form selection polygon drawn on a plane facing the camera.
type Lasso struct {
	camera *geom.Camera
	plane  geom.Plane
	points []mgl64.Vec3
}

// NewLasso starts a lasso on the plane orthogonal to the view direction at
// distance in front of the camera.
func NewLasso(camera *geom.Camera, distance float64) *Lasso {
	return &Lasso{
		camera: camera,
		plane:  geom.OrthogonalPlane(camera.DefaultPoint(distance), camera.Direction.Mul(-1)),
	}
}

func (l *Lasso) Plane() geom.Plane {
	return l.plane
}

// Update appends point unless it repeats the last one.
func (l *Lasso) Update(point mgl64.Vec3) {
	if n := len(l.points); n > 0 && geom.ApproxEqual(l.points[n-1], point, geom.Epsilon) {
		return
	}
	l.points = append(l.points, point)
}

func (l *Lasso) Points() []mgl64.Vec3 {
	return l.points
}

// Contains reports whether point projects into the lasso polygon on screen.
// Points behind a perspective camera are never contained.
func (l *Lasso) Contains(point mgl64.Vec3) bool {
	if len(l.points) < 3 {
		return false
	}
	projected := l.camera.Project(point)
	if l.camera.Projection == geom.Perspective && projected.Z() <= 0 {
		return false
	}
	polygon := make([]mgl64.Vec2, len(l.points))
	for i, p := range l.points {
		s := l.camera.Project(p)
		polygon[i] = mgl64.Vec2{s.X(), s.Y()}
	}
	return geom.PointInPolygon2D(mgl64.Vec2{projected.X(), projected.Y()}, polygon)
}

func (l *Lasso) Render(batch *render.Batch) {
	if len(l.points) < 2 {
		return
	}
	batch.Add(render.NewPolygon(render.RoleLasso, render.LassoColor, l.points))
}
