package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestBatch(t *testing.T) {
	b := NewBatch()
	b.Add(NewPoint(RoleHandle, HandleColor, mgl64.Vec3{1, 2, 3}, 3))
	b.Add(NewLine(RoleGuide, GuideColor, mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}))
	b.Add(NewPoint(RoleHandle, SelectedHandleColor, mgl64.Vec3{}, 3))

	assert.Equal(t, 3, b.Len())
	assert.Len(t, b.WithRole(RoleHandle), 2)
	assert.Len(t, b.WithRole(RoleLasso), 0)

	b.Clear()
	assert.Equal(t, 0, b.Len())
}

func TestNewPolygon_CopiesPoints(t *testing.T) {
	pts := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}}
	p := NewPolygon(RoleLasso, LassoColor, pts)
	pts[0] = mgl64.Vec3{9, 9, 9}
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, p.Points[0])
}

func TestContext_Reset(t *testing.T) {
	c := NewContext(nil)
	c.SetForceHideSelectionGuide()
	assert.True(t, c.ForceHideSelectionGuide)
	c.Reset()
	assert.False(t, c.ForceHideSelectionGuide)
}
