package handles

import (
	"fmt"
	"strconv"

	"github.com/gekko3d/brushedit/geom"
	"github.com/gekko3d/brushedit/pick"

	"github.com/go-gl/mathgl/mgl64"
)

type Kind int

const (
	KindVertex Kind = iota
	KindEdge
	KindFace
	KindRotate
	KindScale
	KindShear
)

func (k Kind) String() string {
	switch k {
	case KindVertex:
		return "vertex"
	case KindEdge:
		return "edge"
	case KindFace:
		return "face"
	case KindRotate:
		return "rotate"
	case KindScale:
		return "scale"
	case KindShear:
		return "shear"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// HitType returns the pick hit type reported for handles of this kind.
func (k Kind) HitType() pick.HitType {
	switch k {
	case KindVertex:
		return pick.VertexHandleHit
	case KindEdge:
		return pick.EdgeHandleHit
	case KindFace:
		return pick.FaceHandleHit
	case KindRotate:
		return pick.RotateHandleHit
	case KindScale:
		return pick.ScaleHandleHit
	case KindShear:
		return pick.ShearHandleHit
	default:
		panic(fmt.Sprintf("no hit type for handle kind %d", int(k)))
	}
}

// Handle is a pickable part of a brush. Its identity is its geometry: two handles with the
// same kind and points are the same handle.
type Handle struct {
	Kind   Kind
	Points []mgl64.Vec3
}

type Key string

func Vertex(p mgl64.Vec3) Handle {
	return Handle{Kind: KindVertex, Points: []mgl64.Vec3{p}}
}

// Edge orders the endpoints so both directions of a segment map to the same handle.
func Edge(s geom.Segment) Handle {
	a, b := s.Start, s.End
	if lexLess(b, a) {
		a, b = b, a
	}
	return Handle{Kind: KindEdge, Points: []mgl64.Vec3{a, b}}
}

func lexLess(a, b mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func Face(p geom.Polygon) Handle {
	return Handle{Kind: KindFace, Points: append([]mgl64.Vec3(nil), p.Vertices...)}
}

// Point is a single point handle of the given kind, used by the bounds based tools.
func Point(kind Kind, p mgl64.Vec3) Handle {
	return Handle{Kind: kind, Points: []mgl64.Vec3{p}}
}

func (h Handle) Key() Key {
	buf := make([]byte, 0, 16+len(h.Points)*48)
	buf = strconv.AppendInt(buf, int64(h.Kind), 10)
	for _, p := range h.Points {
		for _, c := range p {
			buf = append(buf, ',')
			// +0 folds negative zero
			buf = strconv.AppendFloat(buf, c+0, 'g', -1, 64)
		}
	}
	return Key(buf)
}

// Position is the point a handle is drawn and dragged at.
func (h Handle) Position() mgl64.Vec3 {
	switch h.Kind {
	case KindEdge:
		return h.Segment().Center()
	case KindFace:
		return h.Polygon().Center()
	default:
		return h.Points[0]
	}
}

func (h Handle) Segment() geom.Segment {
	if h.Kind != KindEdge {
		panic(fmt.Sprintf("%s handle is not a segment", h.Kind))
	}
	return geom.Segment{Start: h.Points[0], End: h.Points[1]}
}

func (h Handle) Polygon() geom.Polygon {
	if h.Kind != KindFace {
		panic(fmt.Sprintf("%s handle is not a polygon", h.Kind))
	}
	return geom.Polygon{Vertices: h.Points}
}

// Translate returns the handle moved by delta.
func (h Handle) Translate(delta mgl64.Vec3) Handle {
	pts := make([]mgl64.Vec3, len(h.Points))
	for i, p := range h.Points {
		pts[i] = p.Add(delta)
	}
	return Handle{Kind: h.Kind, Points: pts}
}

// Coincident reports whether both handles lie within maxDistance of each other, comparing
// point by point.
func (h Handle) Coincident(o Handle, maxDistance float64) bool {
	if h.Kind != o.Kind || len(h.Points) != len(o.Points) {
		return false
	}
	for i := range h.Points {
		if !geom.ApproxEqual(h.Points[i], o.Points[i], maxDistance) {
			return false
		}
	}
	return true
}
