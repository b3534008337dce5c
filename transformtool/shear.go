package transformtool

import (
	"github.com/gekko3d/brushedit/document"
	"github.com/gekko3d/brushedit/geom"
	"github.com/gekko3d/brushedit/handles"
	"github.com/gekko3d/brushedit/logging"
	"github.com/gekko3d/brushedit/pick"
	"github.com/gekko3d/brushedit/render"
	"github.com/gekko3d/brushedit/tool"

	"github.com/go-gl/mathgl/mgl64"
)

const ShearToolName = "shear"

// ShearObjectsTool slides one side of the selection bounds within its plane
// while the opposite side stays in place.
type ShearObjectsTool struct {
	tool.Base

	doc          document.Ref
	sides        *sideHandles
	handleRadius float64
	log          logging.Logger

	shearing   bool
	dragBounds geom.Bounds
	offset     mgl64.Vec3
}

func NewShearObjectsTool(doc document.Ref, handleRadius float64, logger logging.Logger) *ShearObjectsTool {
	t := &ShearObjectsTool{
		doc:          doc,
		sides:        newSideHandles(handles.KindShear),
		handleRadius: handleRadius,
		log:          logging.OrNop(logger),
	}
	t.Base = tool.NewBase(ShearToolName, false, t)
	return t
}

func (t *ShearObjectsTool) DoActivate() bool {
	if !t.doc.Valid() {
		t.log.Warnf("shear tool: cannot activate without a document")
		return false
	}
	t.Refresh()
	return true
}

func (t *ShearObjectsTool) DoDeactivate() bool {
	t.CancelShear()
	t.sides.clear()
	return true
}

func (t *ShearObjectsTool) Refresh() {
	doc, err := t.doc.Lock()
	if err != nil {
		t.sides.clear()
		return
	}
	t.sides.rebuild(doc)
}

func (t *ShearObjectsTool) Manager() *handles.Manager {
	return t.sides.manager
}

func (t *ShearObjectsTool) Bounds() (geom.Bounds, bool) {
	return t.sides.bounds, t.sides.valid
}

func (t *ShearObjectsTool) DocumentValid() bool {
	return t.doc.Valid()
}

func (t *ShearObjectsTool) Grid() geom.Grid {
	doc, err := t.doc.Lock()
	if err != nil {
		return geom.Grid{}
	}
	return doc.Grid()
}

func (t *ShearObjectsTool) Pick(ray geom.Ray, camera *geom.Camera, result *pick.Result) {
	t.sides.pick(ray, camera, t.handleRadius, result)
}

func (t *ShearObjectsTool) Side(h handles.Handle) int {
	return t.sides.side(h)
}

// BeginShear freezes the bounds the shear is measured against.
func (t *ShearObjectsTool) BeginShear() bool {
	doc, err := t.doc.Lock()
	if err != nil || !t.sides.valid {
		return false
	}
	doc.StartTransaction("Shear Objects")
	t.shearing = true
	t.dragBounds = t.sides.bounds
	t.offset = mgl64.Vec3{}
	return true
}

// Offset is the in-plane displacement of the dragged side since BeginShear.
func (t *ShearObjectsTool) Offset() mgl64.Vec3 {
	return t.offset
}

// Shear moves side by delta within its plane. The component of delta along
// the side normal is dropped.
func (t *ShearObjectsTool) Shear(side int, delta mgl64.Vec3) bool {
	if !t.shearing {
		panic("transformtool: Shear called outside a shear")
	}
	doc, err := t.doc.Lock()
	if err != nil {
		return false
	}
	normal := geom.Axes[side]
	delta = delta.Sub(normal.Mul(delta.Dot(normal)))
	if delta.Len() < geom.Epsilon {
		return false
	}
	if !doc.TransformObjects(shearMatrix(t.dragBounds, side, delta)) {
		return false
	}
	t.offset = t.offset.Add(delta)
	return true
}

// shearMatrix displaces every point by delta scaled with its distance from
// the side opposite to side, so the opposite side stays fixed and side
// itself moves by delta.
func shearMatrix(b geom.Bounds, side int, delta mgl64.Vec3) mgl64.Mat4 {
	axis := side / 2
	anchor := b.SideCenter(opposite(side))[axis]
	extent := b.SideCenter(side)[axis] - anchor
	m := mgl64.Ident4()
	for row := 0; row < 3; row++ {
		m.Set(row, axis, m.At(row, axis)+delta[row]/extent)
		m.Set(row, 3, -delta[row]*anchor/extent)
	}
	return m
}

func (t *ShearObjectsTool) CommitShear() {
	t.finish(func(doc document.Document) { doc.CommitTransaction() })
}

func (t *ShearObjectsTool) CancelShear() {
	t.finish(func(doc document.Document) { doc.RollbackTransaction() })
}

func (t *ShearObjectsTool) finish(f func(document.Document)) {
	if !t.shearing {
		return
	}
	t.shearing = false
	t.offset = mgl64.Vec3{}
	doc, err := t.doc.Lock()
	if err != nil {
		t.sides.clear()
		return
	}
	f(doc)
	t.sides.rebuild(doc)
}

func (t *ShearObjectsTool) Render(batch *render.Batch, highlight *handles.Handle) {
	t.sides.render(batch, t.handleRadius, highlight)
}

// ShearController drags the side handles of a ShearObjectsTool.
type ShearController struct {
	tool.NopController
	tool *ShearObjectsTool
	log  logging.Logger
}

func NewShearController(t *ShearObjectsTool, logger logging.Logger) *ShearController {
	return &ShearController{tool: t, log: logging.OrNop(logger)}
}

func (c *ShearController) Tool() tool.Tool {
	return c.tool
}

func (c *ShearController) Pick(in *tool.InputState, result *pick.Result) {
	c.tool.Pick(in.PickRay(), in.Camera(), result)
}

func (c *ShearController) AcceptMouseDrag(in *tool.InputState) tool.GestureTracker {
	if !in.MouseButtonsPressed(tool.MouseLeft) || !in.ModifierKeysPressed(tool.ModNone) {
		return nil
	}
	hit, h, ok := c.tool.sides.firstHit(in.PickResult())
	if !ok {
		return nil
	}
	side := c.tool.Side(h)
	if !c.tool.BeginShear() {
		return nil
	}
	return tool.CreateHandleDragTracker(&shearDragDelegate{tool: c.tool, side: side}, in, h.Position(), hit.HitPoint, c.log)
}

func (c *ShearController) Render(in *tool.InputState, ctx *render.Context, batch *render.Batch) {
	var highlight *handles.Handle
	if !in.AnyToolDragging() {
		if _, h, ok := c.tool.sides.firstHit(in.PickResult()); ok {
			highlight = &h
		}
	}
	c.tool.Render(batch, highlight)
}

// shearDragDelegate moves one side within its own plane.
type shearDragDelegate struct {
	tool *ShearObjectsTool
	side int
}

// Start keeps the dragged point on the side plane. A side seen edge-on in
// a 2D view moves along the screen direction within its plane instead.
func (d *shearDragDelegate) Start(in *tool.InputState, initialHandlePosition, handleOffset mgl64.Vec3) tool.HandlePositionProposer {
	normal := geom.Axes[d.side]
	grid := d.tool.Grid()
	camera := in.Camera()
	if camera.Projection == geom.Orthographic && normal.Dot(camera.Direction) == 0 {
		line := geom.Line{Point: initialHandlePosition, Direction: normal.Cross(camera.Direction)}
		return tool.MakeHandlePositionProposer(
			tool.MakeLineHandlePicker(line, handleOffset),
			tool.MakeRelativeLineHandleSnapper(grid, line),
		)
	}
	plane := geom.OrthogonalPlane(initialHandlePosition, normal)
	return tool.MakeHandlePositionProposer(
		tool.MakePlaneHandlePicker(plane, handleOffset),
		tool.MakeRelativeHandleSnapper(grid),
	)
}

func (d *shearDragDelegate) Update(in *tool.InputState, state tool.DragState, proposed mgl64.Vec3) tool.DragStatus {
	if !d.tool.DocumentValid() {
		return tool.DragCancel
	}
	if !d.tool.Shear(d.side, proposed.Sub(state.CurrentHandlePosition)) {
		return tool.DragDeny
	}
	return tool.DragContinue
}

func (d *shearDragDelegate) End(in *tool.InputState, state tool.DragState) {
	d.tool.CommitShear()
}

func (d *shearDragDelegate) Cancel(state tool.DragState) {
	d.tool.CancelShear()
}

func (d *shearDragDelegate) Render(in *tool.InputState, state tool.DragState, ctx *render.Context, batch *render.Batch) {
	start := state.InitialHandlePosition
	batch.Add(render.NewLine(render.RoleGuide, render.GuideColor, start, state.CurrentHandlePosition))
	batch.Add(render.NewPoint(render.RoleDragHandle, render.HighlightColor, state.CurrentHandlePosition, d.tool.handleRadius*2))
}

var (
	_ tool.Controller         = (*ShearController)(nil)
	_ tool.HandleDragDelegate = (*shearDragDelegate)(nil)
)
