package pick

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_OrderedByDistance(t *testing.T) {
	r := NewResult()
	r.AddHit(NewHit(VertexHandleHit, 5, mgl64.Vec3{}, "far", 0))
	r.AddHit(NewHit(EdgeHandleHit, 1, mgl64.Vec3{}, "near", 0))
	r.AddHit(NewHit(VertexHandleHit, 3, mgl64.Vec3{}, "mid", 0))
	r.AddHit(NewHit(VertexHandleHit, 3, mgl64.Vec3{}, "mid-2", 0))

	require.Equal(t, 4, r.Size())

	all := r.All(TypeFilter(AnyType))
	var targets []string
	for _, h := range all {
		targets = append(targets, TargetAs[string](h))
	}
	assert.Equal(t, []string{"near", "mid", "mid-2", "far"}, targets)

	first := r.First(TypeFilter(VertexHandleHit))
	assert.Equal(t, "mid", first.Target)

	assert.Len(t, r.All(TypeFilter(VertexHandleHit)), 3)
	assert.Len(t, r.All(TypeFilter(VertexHandleHit|EdgeHandleHit)), 4)
}

func TestResult_FirstWithoutMatch(t *testing.T) {
	r := NewResult()
	r.AddHit(NewHit(BrushHit, 1, mgl64.Vec3{}, 1, 0))

	h := r.First(TypeFilter(FaceHandleHit))
	assert.False(t, h.IsMatch())
	assert.Equal(t, NoHit, h)

	r.Clear()
	assert.True(t, r.Empty())
}

func TestAndFilter(t *testing.T) {
	near := func(h Hit) bool { return h.Distance < 2 }
	f := And(TypeFilter(VertexHandleHit), near)

	assert.True(t, f(NewHit(VertexHandleHit, 1, mgl64.Vec3{}, nil, 0)))
	assert.False(t, f(NewHit(VertexHandleHit, 3, mgl64.Vec3{}, nil, 0)))
	assert.False(t, f(NewHit(EdgeHandleHit, 1, mgl64.Vec3{}, nil, 0)))
}

func TestTargetAs_PanicsOnMismatch(t *testing.T) {
	h := NewHit(VertexHandleHit, 1, mgl64.Vec3{}, 42, 0)
	assert.Equal(t, 42, TargetAs[int](h))
	assert.Panics(t, func() { TargetAs[string](h) })
}

func TestHitType_String(t *testing.T) {
	assert.Equal(t, "vertex-handle", VertexHandleHit.String())
	assert.Equal(t, "none", NoType.String())
}
