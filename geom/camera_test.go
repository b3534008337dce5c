package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func topDownCamera() *Camera {
	return NewOrthographicCamera(mgl64.Vec3{0, 0, 100}, mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, 1, 0}, 1, 200, 200)
}

func TestOrthographicCamera_PickRayAndProject(t *testing.T) {
	c := topDownCamera()

	ray := c.PickRay(150, 50)
	assert.True(t, ApproxEqual(mgl64.Vec3{50, 50, 100}, ray.Origin, 1e-9), "origin %v", ray.Origin)
	assert.True(t, ApproxEqual(mgl64.Vec3{0, 0, -1}, ray.Direction, 1e-9))

	screen := c.Project(mgl64.Vec3{50, 50, 0})
	assert.InDelta(t, 150.0, screen.X(), 1e-6)
	assert.InDelta(t, 50.0, screen.Y(), 1e-6)
	assert.InDelta(t, 100.0, screen.Z(), 1e-6)

	assert.Equal(t, 1.0, c.PixelSize(mgl64.Vec3{}))
}

func TestPerspectiveCamera_PickRayRoundTrip(t *testing.T) {
	c := NewPerspectiveCamera(mgl64.Vec3{0, -100, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1}, 90, 400, 300)

	center := c.PickRay(200, 150)
	assert.True(t, ApproxEqual(mgl64.Vec3{0, 1, 0}, center.Direction, 1e-9))

	p := mgl64.Vec3{10, 0, 5}
	screen := c.Project(p)
	ray := c.PickRay(screen.X(), screen.Y())
	_, d := DistanceRayPoint(ray, p)
	assert.Less(t, d, 1e-6)

	assert.InDelta(t, 100.0, screen.Z(), 1e-9)
	assert.InDelta(t, 2*100.0/300.0, c.PixelSize(p), 1e-9)
}

func TestCamera_DefaultPoint(t *testing.T) {
	c := topDownCamera()
	assert.Equal(t, mgl64.Vec3{0, 0, 36}, c.DefaultPoint(64))
}

func TestNewCameraYawPitch(t *testing.T) {
	c := NewCameraYawPitch(mgl64.Vec3{}, 0, 0, 60, 100, 100)
	assert.True(t, ApproxEqual(mgl64.Vec3{0, -1, 0}, c.Direction, 1e-9))
	assert.True(t, ApproxEqual(mgl64.Vec3{0, 0, 1}, c.Up, 1e-9))
}
