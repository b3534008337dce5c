package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the tolerance used for geometric coincidence tests.
const Epsilon = 1e-6

type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

func (r Ray) PointAt(distance float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(distance))
}

// Plane holds all points p with Normal.Dot(p) == Distance.
type Plane struct {
	Normal   mgl64.Vec3
	Distance float64
}

// OrthogonalPlane returns the plane through anchor with the given normal.
func OrthogonalPlane(anchor, normal mgl64.Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, Distance: n.Dot(anchor)}
}

func (p Plane) Anchor() mgl64.Vec3 {
	return p.Normal.Mul(p.Distance)
}

func (p Plane) PointDistance(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) - p.Distance
}

// IntersectRay returns the distance along the ray to the plane.
func (p Plane) IntersectRay(r Ray) (float64, bool) {
	denom := r.Direction.Dot(p.Normal)
	if math.Abs(denom) < 1e-12 {
		return 0, false
	}
	t := (p.Distance - r.Origin.Dot(p.Normal)) / denom
	if t < 0 {
		return 0, false
	}
	return t, true
}

type Line struct {
	Point     mgl64.Vec3
	Direction mgl64.Vec3
}

func (l Line) PointAt(distance float64) mgl64.Vec3 {
	return l.Point.Add(l.Direction.Mul(distance))
}

type Segment struct {
	Start mgl64.Vec3
	End   mgl64.Vec3
}

func (s Segment) Center() mgl64.Vec3 {
	return s.Start.Add(s.End).Mul(0.5)
}

func (s Segment) Transform(m mgl64.Mat4) Segment {
	return Segment{
		Start: mgl64.TransformCoordinate(s.Start, m),
		End:   mgl64.TransformCoordinate(s.End, m),
	}
}

type Polygon struct {
	Vertices []mgl64.Vec3
}

func (p Polygon) Center() mgl64.Vec3 {
	if len(p.Vertices) == 0 {
		return mgl64.Vec3{}
	}
	var c mgl64.Vec3
	for _, v := range p.Vertices {
		c = c.Add(v)
	}
	return c.Mul(1 / float64(len(p.Vertices)))
}

// Normal uses Newell's method, so it tolerates slightly non-planar input.
func (p Polygon) Normal() mgl64.Vec3 {
	var n mgl64.Vec3
	for i, cur := range p.Vertices {
		next := p.Vertices[(i+1)%len(p.Vertices)]
		n[0] += (cur.Y() - next.Y()) * (cur.Z() + next.Z())
		n[1] += (cur.Z() - next.Z()) * (cur.X() + next.X())
		n[2] += (cur.X() - next.X()) * (cur.Y() + next.Y())
	}
	if n.Len() == 0 {
		return n
	}
	return n.Normalize()
}

func (p Polygon) Transform(m mgl64.Mat4) Polygon {
	out := make([]mgl64.Vec3, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = mgl64.TransformCoordinate(v, m)
	}
	return Polygon{Vertices: out}
}

type Bounds struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

func BoundsOf(points []mgl64.Vec3) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b = b.Merge(p)
	}
	return b
}

func (b Bounds) Merge(p mgl64.Vec3) Bounds {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
	return b
}

func (b Bounds) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b Bounds) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// Axes are the six unit normals of a box side, in +X,-X,+Y,-Y,+Z,-Z order.
var Axes = [6]mgl64.Vec3{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// SideCenter returns the center of the side whose outward normal is Axes[side].
func (b Bounds) SideCenter(side int) mgl64.Vec3 {
	c := b.Center()
	axis := side / 2
	if side%2 == 0 {
		c[axis] = b.Max[axis]
	} else {
		c[axis] = b.Min[axis]
	}
	return c
}

// FirstAxis returns the unit axis most aligned with v, keeping its sign.
func FirstAxis(v mgl64.Vec3) mgl64.Vec3 {
	best := 0
	for i := 1; i < 3; i++ {
		if math.Abs(v[i]) > math.Abs(v[best]) {
			best = i
		}
	}
	var axis mgl64.Vec3
	if v[best] < 0 {
		axis[best] = -1
	} else {
		axis[best] = 1
	}
	return axis
}

// DistanceRayPoint returns the distance along the ray to the point closest to p and the
// distance between that point and p. Points behind the origin are measured from the origin.
func DistanceRayPoint(r Ray, p mgl64.Vec3) (rayDistance, distance float64) {
	t := p.Sub(r.Origin).Dot(r.Direction)
	if t < 0 {
		t = 0
	}
	return t, r.PointAt(t).Sub(p).Len()
}

// ClosestPoints returns the parameters t (on the ray) and s (on the line) of the closest
// points between the two, and the distance between those points.
func ClosestPoints(r Ray, l Line) (t, s, distance float64) {
	w := r.Origin.Sub(l.Point)
	a := r.Direction.Dot(r.Direction)
	b := r.Direction.Dot(l.Direction)
	e := l.Direction.Dot(l.Direction)
	f := l.Direction.Dot(w)

	det := a*e - b*b
	if det < 1e-12 {
		return 0, f / e, w.Sub(l.Direction.Mul(f / e)).Len()
	}

	c := r.Direction.Dot(w)
	t = (b*f - c*e) / det
	s = (a*f - b*c) / det
	return t, s, r.PointAt(t).Sub(l.PointAt(s)).Len()
}

// IntersectRayPolygon returns the distance along the ray to a convex planar polygon.
func IntersectRayPolygon(r Ray, poly Polygon) (float64, bool) {
	if len(poly.Vertices) < 3 {
		return 0, false
	}
	n := poly.Normal()
	if n.Len() == 0 {
		return 0, false
	}
	plane := OrthogonalPlane(poly.Vertices[0], n)
	t, ok := plane.IntersectRay(r)
	if !ok {
		return 0, false
	}
	hit := r.PointAt(t)
	for i, cur := range poly.Vertices {
		next := poly.Vertices[(i+1)%len(poly.Vertices)]
		if next.Sub(cur).Cross(hit.Sub(cur)).Dot(n) < -Epsilon {
			return 0, false
		}
	}
	return t, true
}

// PointInPolygon2D reports whether p lies inside the polygon using the even-odd rule.
func PointInPolygon2D(p mgl64.Vec2, poly []mgl64.Vec2) bool {
	if len(poly) < 3 {
		return false
	}
	inside := false
	j := len(poly) - 1
	for i := range poly {
		pi, pj := poly[i], poly[j]
		if (pi.Y() > p.Y()) != (pj.Y() > p.Y()) {
			x := (pj.X()-pi.X())*(p.Y()-pi.Y())/(pj.Y()-pi.Y()) + pi.X()
			if p.X() < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

func ApproxEqual(a, b mgl64.Vec3, epsilon float64) bool {
	return a.Sub(b).Len() <= epsilon
}
