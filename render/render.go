package render

import (
	"github.com/gekko3d/brushedit/geom"

	"github.com/go-gl/mathgl/mgl64"
)

type PrimitiveType int

const (
	PrimitivePoint PrimitiveType = iota
	PrimitiveLine
	PrimitivePolygon // closed outline
	PrimitiveCircle  // wireframe circle around Points[0] with Normal
)

// Role tells the renderer how a primitive should be styled.
type Role int

const (
	RoleHandle Role = iota
	RoleSelectedHandle
	RoleHighlight
	RoleGuide
	RoleLasso
	RoleDragHandle
)

type Color [4]float32

var (
	HandleColor         = Color{1, 1, 1, 1}
	SelectedHandleColor = Color{1, 0, 0, 1}
	HighlightColor      = Color{1, 1, 0, 1}
	GuideColor          = Color{1, 1, 0, 0.5}
	LassoColor          = Color{1, 1, 1, 0.4}
	XAxisColor          = Color{1, 0, 0, 1}
	YAxisColor          = Color{0, 1, 0, 1}
	ZAxisColor          = Color{0, 0, 1, 1}
)

// Primitive is a wireframe shape in world space, sized in pixels where applicable.
type Primitive struct {
	Type   PrimitiveType
	Role   Role
	Color  Color
	Points []mgl64.Vec3
	Normal mgl64.Vec3 // circles only
	Radius float64    // pixels for points, world units for circles
}

func NewPoint(role Role, color Color, p mgl64.Vec3, radius float64) Primitive {
	return Primitive{Type: PrimitivePoint, Role: role, Color: color, Points: []mgl64.Vec3{p}, Radius: radius}
}

func NewLine(role Role, color Color, start, end mgl64.Vec3) Primitive {
	return Primitive{Type: PrimitiveLine, Role: role, Color: color, Points: []mgl64.Vec3{start, end}}
}

func NewPolygon(role Role, color Color, points []mgl64.Vec3) Primitive {
	return Primitive{Type: PrimitivePolygon, Role: role, Color: color, Points: append([]mgl64.Vec3(nil), points...)}
}

func NewCircle(role Role, color Color, center, normal mgl64.Vec3, radius float64) Primitive {
	return Primitive{Type: PrimitiveCircle, Role: role, Color: color, Points: []mgl64.Vec3{center}, Normal: normal, Radius: radius}
}

// Batch collects the primitives produced for one frame.
type Batch struct {
	primitives []Primitive
}

func NewBatch() *Batch {
	return &Batch{}
}

func (b *Batch) Add(p Primitive) {
	b.primitives = append(b.primitives, p)
}

func (b *Batch) Primitives() []Primitive {
	return b.primitives
}

func (b *Batch) Len() int {
	return len(b.primitives)
}

// WithRole returns the primitives tagged with role, in submission order.
func (b *Batch) WithRole(role Role) []Primitive {
	var out []Primitive
	for _, p := range b.primitives {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out
}

func (b *Batch) Clear() {
	b.primitives = b.primitives[:0]
}

type Context struct {
	Camera *geom.Camera

	ForceShowSelectionGuide bool
	ForceHideSelectionGuide bool
	HideSelection           bool
}

func NewContext(camera *geom.Camera) *Context {
	return &Context{Camera: camera}
}

func (c *Context) SetForceHideSelectionGuide() {
	c.ForceHideSelectionGuide = true
}

// Reset clears the per-frame render options.
func (c *Context) Reset() {
	c.ForceShowSelectionGuide = false
	c.ForceHideSelectionGuide = false
	c.HideSelection = false
}
