package transformtool

import (
	"math"

	"github.com/gekko3d/brushedit/geom"
	"github.com/gekko3d/brushedit/pick"
	"github.com/gekko3d/brushedit/render"

	"github.com/go-gl/mathgl/mgl64"
)

// HitArea is the part of the rotate handle under the pointer.
type HitArea int

const (
	AreaNone HitArea = iota
	AreaCenter
	AreaXAxis
	AreaYAxis
	AreaZAxis
)

func (a HitArea) String() string {
	switch a {
	case AreaCenter:
		return "center"
	case AreaXAxis:
		return "x"
	case AreaYAxis:
		return "y"
	case AreaZAxis:
		return "z"
	default:
		return "none"
	}
}

var areaAxes = [3]HitArea{AreaXAxis, AreaYAxis, AreaZAxis}

// Axis returns the rotation axis of a ring area.
func (a HitArea) Axis() mgl64.Vec3 {
	switch a {
	case AreaXAxis:
		return mgl64.Vec3{1, 0, 0}
	case AreaYAxis:
		return mgl64.Vec3{0, 1, 0}
	case AreaZAxis:
		return mgl64.Vec3{0, 0, 1}
	default:
		panic("transformtool: " + a.String() + " area has no axis")
	}
}

// RotateHandle is the rotation gizmo: a center point and one ring per axis.
// Sizes are in pixels so the handle keeps its screen size.
type RotateHandle struct {
	position mgl64.Vec3

	RingRadius    float64
	RingTolerance float64
	CenterRadius  float64
}

func NewRotateHandle() *RotateHandle {
	return &RotateHandle{RingRadius: 64, RingTolerance: 5, CenterRadius: 6}
}

func (h *RotateHandle) Position() mgl64.Vec3 {
	return h.position
}

func (h *RotateHandle) SetPosition(p mgl64.Vec3) {
	h.position = p
}

// Areas returns the rings that can be picked and drawn for a camera. An
// orthographic view only shows the ring around its view axis; the others
// would collapse into lines.
func (h *RotateHandle) Areas(camera *geom.Camera) []HitArea {
	if camera.Projection == geom.Orthographic {
		axis := geom.FirstAxis(camera.Direction)
		for i, area := range areaAxes {
			if axis[i] != 0 {
				return []HitArea{area}
			}
		}
	}
	return areaAxes[:]
}

// WorldRingRadius is the ring radius at the handle position in world units.
func (h *RotateHandle) WorldRingRadius(camera *geom.Camera) float64 {
	return h.RingRadius * camera.PixelSize(h.position)
}

// Pick adds a RotateHandleHit for the center and for each ring the ray passes.
func (h *RotateHandle) Pick(ray geom.Ray, camera *geom.Camera, result *pick.Result) {
	pixel := camera.PixelSize(h.position)

	if d, err := geom.DistanceRayPoint(ray, h.position); d > 0 && err <= h.CenterRadius*pixel {
		result.AddHit(pick.NewHit(pick.RotateHandleHit, d, ray.PointAt(d), AreaCenter, err))
	}

	radius := h.RingRadius * pixel
	for _, area := range h.Areas(camera) {
		plane := geom.OrthogonalPlane(h.position, area.Axis())
		t, ok := plane.IntersectRay(ray)
		if !ok {
			continue
		}
		hitPoint := ray.PointAt(t)
		err := math.Abs(hitPoint.Sub(h.position).Len() - radius)
		if err <= h.RingTolerance*pixel {
			result.AddHit(pick.NewHit(pick.RotateHandleHit, t, hitPoint, area, err))
		}
	}
}

func (h *RotateHandle) Render(camera *geom.Camera, batch *render.Batch, highlight HitArea) {
	colors := map[HitArea]render.Color{
		AreaXAxis: render.XAxisColor,
		AreaYAxis: render.YAxisColor,
		AreaZAxis: render.ZAxisColor,
	}
	radius := h.WorldRingRadius(camera)
	for _, area := range h.Areas(camera) {
		role, color := render.RoleHandle, colors[area]
		if area == highlight {
			role, color = render.RoleHighlight, render.HighlightColor
		}
		batch.Add(render.NewCircle(role, color, h.position, area.Axis(), radius))
	}
	role, color := render.RoleHandle, render.HandleColor
	if highlight == AreaCenter {
		role, color = render.RoleHighlight, render.HighlightColor
	}
	batch.Add(render.NewPoint(role, color, h.position, h.CenterRadius))
}

// RotationAngle returns the signed angle about axis that turns from-center into to-center.
func RotationAngle(center, axis, from, to mgl64.Vec3) float64 {
	n := axis.Normalize()
	a := from.Sub(center)
	b := to.Sub(center)
	a = a.Sub(n.Mul(a.Dot(n)))
	b = b.Sub(n.Mul(b.Dot(n)))
	if a.Len() < geom.Epsilon || b.Len() < geom.Epsilon {
		return 0
	}
	return math.Atan2(n.Dot(a.Cross(b)), a.Dot(b))
}

// RotationAbout returns the matrix rotating by angle radians about axis through center.
func RotationAbout(center, axis mgl64.Vec3, angle float64) mgl64.Mat4 {
	return mgl64.Translate3D(center.X(), center.Y(), center.Z()).
		Mul4(mgl64.HomogRotate3D(angle, axis.Normalize())).
		Mul4(mgl64.Translate3D(-center.X(), -center.Y(), -center.Z()))
}
