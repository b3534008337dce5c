package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Projection int

const (
	Perspective Projection = iota
	Orthographic
)

// Camera is a view into the map. Screen coordinates have their origin in the top left corner
// with y growing downwards.
type Camera struct {
	Projection Projection
	Position   mgl64.Vec3
	Direction  mgl64.Vec3
	Up         mgl64.Vec3

	FovDegrees float64 // perspective only
	Zoom       float64 // orthographic only, pixels per world unit
	Near, Far  float64

	Width, Height int
}

func NewPerspectiveCamera(position, direction, up mgl64.Vec3, fovDegrees float64, width, height int) *Camera {
	return &Camera{
		Projection: Perspective,
		Position:   position,
		Direction:  direction.Normalize(),
		Up:         up.Normalize(),
		FovDegrees: fovDegrees,
		Zoom:       1,
		Near:       1,
		Far:        8192,
		Width:      width,
		Height:     height,
	}
}

func NewOrthographicCamera(position, direction, up mgl64.Vec3, zoom float64, width, height int) *Camera {
	return &Camera{
		Projection: Orthographic,
		Position:   position,
		Direction:  direction.Normalize(),
		Up:         up.Normalize(),
		FovDegrees: 90,
		Zoom:       zoom,
		Near:       -8192,
		Far:        8192,
		Width:      width,
		Height:     height,
	}
}

// NewCameraYawPitch builds a Z-up perspective camera from yaw and pitch (radians).
// Pitch must stay strictly between -90 and 90 degrees.
func NewCameraYawPitch(position mgl64.Vec3, yaw, pitch, fovDegrees float64, width, height int) *Camera {
	forward := mgl64.Vec3{
		math.Cos(pitch) * math.Sin(yaw),
		-math.Cos(pitch) * math.Cos(yaw),
		math.Sin(pitch),
	}
	right := forward.Cross(mgl64.Vec3{0, 0, 1}).Normalize()
	up := right.Cross(forward)
	return NewPerspectiveCamera(position, forward, up, fovDegrees, width, height)
}

func (c *Camera) Right() mgl64.Vec3 {
	return c.Direction.Cross(c.Up).Normalize()
}

func (c *Camera) aspect() float64 {
	if c.Height == 0 {
		return 1
	}
	return float64(c.Width) / float64(c.Height)
}

func (c *Camera) tanHalfFov() float64 {
	return math.Tan(mgl64.DegToRad(c.FovDegrees) / 2)
}

// DefaultPoint returns the point at distance along the view direction.
func (c *Camera) DefaultPoint(distance float64) mgl64.Vec3 {
	return c.Position.Add(c.Direction.Mul(distance))
}

// PickRay returns the world ray under the given screen position.
func (c *Camera) PickRay(x, y float64) Ray {
	nx := (2*x)/float64(c.Width) - 1
	ny := 1 - (2*y)/float64(c.Height)

	right := c.Right()
	up := right.Cross(c.Direction)

	if c.Projection == Orthographic {
		halfW := float64(c.Width) / 2 / c.Zoom
		halfH := float64(c.Height) / 2 / c.Zoom
		origin := c.Position.Add(right.Mul(nx * halfW)).Add(up.Mul(ny * halfH))
		return Ray{Origin: origin, Direction: c.Direction}
	}

	tanHalf := c.tanHalfFov()
	dir := c.Direction.Add(right.Mul(nx * c.aspect() * tanHalf)).Add(up.Mul(ny * tanHalf))
	return Ray{Origin: c.Position, Direction: dir.Normalize()}
}

func (c *Camera) ViewMatrix() mgl64.Mat4 {
	up := c.Right().Cross(c.Direction)
	return mgl64.LookAtV(c.Position, c.Position.Add(c.Direction), up)
}

func (c *Camera) ProjectionMatrix() mgl64.Mat4 {
	if c.Projection == Orthographic {
		halfW := float64(c.Width) / 2 / c.Zoom
		halfH := float64(c.Height) / 2 / c.Zoom
		return mgl64.Ortho(-halfW, halfW, -halfH, halfH, c.Near, c.Far)
	}
	return mgl64.Perspective(mgl64.DegToRad(c.FovDegrees), c.aspect(), c.Near, c.Far)
}

// Project maps a world point to screen coordinates. Z holds the signed view depth, which
// is negative for points behind a perspective camera.
func (c *Camera) Project(p mgl64.Vec3) mgl64.Vec3 {
	win := mgl64.Project(p, c.ViewMatrix(), c.ProjectionMatrix(), 0, 0, c.Width, c.Height)
	depth := p.Sub(c.Position).Dot(c.Direction)
	return mgl64.Vec3{win.X(), float64(c.Height) - win.Y(), depth}
}

// PixelSize returns the world size of one screen pixel at p.
func (c *Camera) PixelSize(p mgl64.Vec3) float64 {
	if c.Projection == Orthographic {
		return 1 / c.Zoom
	}
	depth := math.Max(p.Sub(c.Position).Dot(c.Direction), c.Near)
	return 2 * depth * c.tanHalfFov() / float64(c.Height)
}
