package pick

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// HitType is a bit set so filters can match several kinds at once.
type HitType uint64

const (
	NoType HitType = 0

	BrushHit HitType = 1 << iota
	VertexHandleHit
	EdgeHandleHit
	FaceHandleHit
	RotateHandleHit
	ScaleHandleHit
	ShearHandleHit

	AnyType HitType = ^HitType(0)
)

func (t HitType) String() string {
	switch t {
	case NoType:
		return "none"
	case BrushHit:
		return "brush"
	case VertexHandleHit:
		return "vertex-handle"
	case EdgeHandleHit:
		return "edge-handle"
	case FaceHandleHit:
		return "face-handle"
	case RotateHandleHit:
		return "rotate-handle"
	case ScaleHandleHit:
		return "scale-handle"
	case ShearHandleHit:
		return "shear-handle"
	default:
		return fmt.Sprintf("hit-types(%#x)", uint64(t))
	}
}

type Hit struct {
	Type     HitType
	Distance float64
	HitPoint mgl64.Vec3
	Target   any
	// Error is the distance between the ray and the target, used for proximity picks.
	Error float64
}

var NoHit = Hit{}

func NewHit(t HitType, distance float64, hitPoint mgl64.Vec3, target any, err float64) Hit {
	return Hit{Type: t, Distance: distance, HitPoint: hitPoint, Target: target, Error: err}
}

func (h Hit) IsMatch() bool {
	return h.Type != NoType
}

func (h Hit) HasType(t HitType) bool {
	return h.Type&t != 0
}

// TargetAs returns the hit target as T and panics if the target has a different type.
func TargetAs[T any](h Hit) T {
	v, ok := h.Target.(T)
	if !ok {
		var zero T
		panic(fmt.Sprintf("hit of type %s carries target %T, expected %T", h.Type, h.Target, zero))
	}
	return v
}

type Filter func(Hit) bool

func TypeFilter(t HitType) Filter {
	return func(h Hit) bool { return h.HasType(t) }
}

func And(filters ...Filter) Filter {
	return func(h Hit) bool {
		for _, f := range filters {
			if !f(h) {
				return false
			}
		}
		return true
	}
}

// Result keeps hits ordered by ascending distance. Hits at equal distance keep the
// order in which they were added.
type Result struct {
	hits []Hit
}

func NewResult() *Result {
	return &Result{}
}

func (r *Result) AddHit(h Hit) {
	i := sort.Search(len(r.hits), func(i int) bool {
		return r.hits[i].Distance > h.Distance
	})
	r.hits = append(r.hits, Hit{})
	copy(r.hits[i+1:], r.hits[i:])
	r.hits[i] = h
}

func (r *Result) Empty() bool {
	return len(r.hits) == 0
}

func (r *Result) Size() int {
	return len(r.hits)
}

func (r *Result) Clear() {
	r.hits = r.hits[:0]
}

// All returns every hit accepted by filter, nearest first.
func (r *Result) All(filter Filter) []Hit {
	var out []Hit
	for _, h := range r.hits {
		if filter(h) {
			out = append(out, h)
		}
	}
	return out
}

// First returns the nearest hit accepted by filter, or NoHit.
func (r *Result) First(filter Filter) Hit {
	for _, h := range r.hits {
		if filter(h) {
			return h
		}
	}
	return NoHit
}
