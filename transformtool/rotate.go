// Package transformtool implements the whole-object transform tools: rotate,
// scale and shear of the selected brushes.
package transformtool

import (
	"github.com/gekko3d/brushedit/document"
	"github.com/gekko3d/brushedit/geom"
	"github.com/gekko3d/brushedit/logging"
	"github.com/gekko3d/brushedit/pick"
	"github.com/gekko3d/brushedit/render"
	"github.com/gekko3d/brushedit/tool"

	"github.com/go-gl/mathgl/mgl64"
)

const RotateToolName = "rotate"

// RotateObjectsTool rotates the selected brushes about a movable center.
type RotateObjectsTool struct {
	tool.Base

	doc       document.Ref
	handle    *RotateHandle
	angleStep float64
	log       logging.Logger

	rotating bool
	angle    float64
}

// NewRotateObjectsTool returns the tool. angleStepDegrees quantizes the
// rotation; zero disables snapping.
func NewRotateObjectsTool(doc document.Ref, angleStepDegrees float64, logger logging.Logger) *RotateObjectsTool {
	t := &RotateObjectsTool{
		doc:       doc,
		handle:    NewRotateHandle(),
		angleStep: mgl64.DegToRad(angleStepDegrees),
		log:       logging.OrNop(logger),
	}
	t.Base = tool.NewBase(RotateToolName, false, t)
	return t
}

func (t *RotateObjectsTool) DoActivate() bool {
	if !t.doc.Valid() {
		t.log.Warnf("rotate tool: cannot activate without a document")
		return false
	}
	t.ResetRotationCenter()
	return true
}

// DoDeactivate rolls back a rotation that is still open.
func (t *RotateObjectsTool) DoDeactivate() bool {
	t.CancelRotation()
	return true
}

func (t *RotateObjectsTool) Handle() *RotateHandle {
	return t.handle
}

func (t *RotateObjectsTool) DocumentValid() bool {
	return t.doc.Valid()
}

func (t *RotateObjectsTool) Grid() geom.Grid {
	doc, err := t.doc.Lock()
	if err != nil {
		return geom.Grid{}
	}
	return doc.Grid()
}

// AngleStep is the snapping step in radians.
func (t *RotateObjectsTool) AngleStep() float64 {
	return t.angleStep
}

func (t *RotateObjectsTool) RotationCenter() mgl64.Vec3 {
	return t.handle.Position()
}

func (t *RotateObjectsTool) SetRotationCenter(p mgl64.Vec3) {
	t.handle.SetPosition(p)
}

// ResetRotationCenter moves the center to the grid point nearest the middle of the selection.
func (t *RotateObjectsTool) ResetRotationCenter() {
	doc, err := t.doc.Lock()
	if err != nil {
		return
	}
	bounds, ok := doc.SelectionBounds()
	if !ok {
		t.handle.SetPosition(mgl64.Vec3{})
		return
	}
	t.handle.SetPosition(doc.Grid().Snap(bounds.Center()))
}

func (t *RotateObjectsTool) Pick(ray geom.Ray, camera *geom.Camera, result *pick.Result) {
	t.handle.Pick(ray, camera, result)
}

func (t *RotateObjectsTool) Rotating() bool {
	return t.rotating
}

// Angle is the rotation applied since BeginRotation, in radians.
func (t *RotateObjectsTool) Angle() float64 {
	return t.angle
}

func (t *RotateObjectsTool) BeginRotation() bool {
	doc, err := t.doc.Lock()
	if err != nil {
		return false
	}
	if len(doc.SelectedBrushes()) == 0 {
		return false
	}
	doc.StartTransaction("Rotate Objects")
	t.rotating = true
	t.angle = 0
	return true
}

// Rotate turns the selection so that its total rotation about axis becomes
// angle, snapped to the angle step. It reports false when nothing changed.
func (t *RotateObjectsTool) Rotate(axis mgl64.Vec3, angle float64) bool {
	if !t.rotating {
		panic("transformtool: Rotate called outside a rotation")
	}
	doc, err := t.doc.Lock()
	if err != nil {
		return false
	}
	snapped := geom.SnapAngle(angle, t.angleStep)
	delta := snapped - t.angle
	if delta == 0 {
		return false
	}
	if !doc.TransformObjects(RotationAbout(t.handle.Position(), axis, delta)) {
		return false
	}
	t.angle = snapped
	return true
}

func (t *RotateObjectsTool) CommitRotation() {
	t.finishRotation(func(doc document.Document) { doc.CommitTransaction() })
}

func (t *RotateObjectsTool) CancelRotation() {
	t.finishRotation(func(doc document.Document) { doc.RollbackTransaction() })
}

func (t *RotateObjectsTool) finishRotation(f func(document.Document)) {
	if !t.rotating {
		return
	}
	t.rotating = false
	t.angle = 0
	doc, err := t.doc.Lock()
	if err != nil {
		t.log.Warnf("rotate tool: document went away during rotation")
		return
	}
	f(doc)
}

// RotateController drags the rotation rings and the center of a RotateObjectsTool.
type RotateController struct {
	tool.NopController
	tool *RotateObjectsTool
	log  logging.Logger
}

func NewRotateController(t *RotateObjectsTool, logger logging.Logger) *RotateController {
	return &RotateController{tool: t, log: logging.OrNop(logger)}
}

func (c *RotateController) Tool() tool.Tool {
	return c.tool
}

func (c *RotateController) Pick(in *tool.InputState, result *pick.Result) {
	c.tool.Pick(in.PickRay(), in.Camera(), result)
}

func hitArea(result *pick.Result) (pick.Hit, HitArea) {
	hit := result.First(pick.TypeFilter(pick.RotateHandleHit))
	if !hit.IsMatch() {
		return hit, AreaNone
	}
	return hit, pick.TargetAs[HitArea](hit)
}

// MouseDoubleClick on the center puts it back in the middle of the selection.
func (c *RotateController) MouseDoubleClick(in *tool.InputState) bool {
	if !in.MouseButtonsPressed(tool.MouseLeft) {
		return false
	}
	if _, area := hitArea(in.PickResult()); area != AreaCenter {
		return false
	}
	c.tool.ResetRotationCenter()
	return true
}

func (c *RotateController) AcceptMouseDrag(in *tool.InputState) tool.GestureTracker {
	if !in.MouseButtonsPressed(tool.MouseLeft) || !in.CheckModifierKeys(tool.KeyDontCare, tool.KeyDontCare, tool.KeyNo) {
		return nil
	}
	hit, area := hitArea(in.PickResult())
	switch area {
	case AreaNone:
		return nil
	case AreaCenter:
		delegate := &centerDragDelegate{tool: c.tool, origin: c.tool.RotationCenter()}
		return tool.CreateMoveHandleDragTracker(delegate, in, c.tool.RotationCenter(), hit.HitPoint, c.log)
	default:
		if !c.tool.BeginRotation() {
			return nil
		}
		delegate := &RotateDragDelegate{tool: c.tool, axis: area.Axis(), area: area}
		return tool.CreateHandleDragTracker(delegate, in, hit.HitPoint, hit.HitPoint, c.log)
	}
}

func (c *RotateController) Render(in *tool.InputState, ctx *render.Context, batch *render.Batch) {
	highlight := AreaNone
	if !in.AnyToolDragging() {
		_, highlight = hitArea(in.PickResult())
	}
	c.tool.Handle().Render(in.Camera(), batch, highlight)
}

// RotateDragDelegate turns the selection while a ring is dragged. The
// dragged point stays on the plane of the ring.
type RotateDragDelegate struct {
	tool *RotateObjectsTool
	axis mgl64.Vec3
	area HitArea
}

func (d *RotateDragDelegate) Start(in *tool.InputState, initialHandlePosition, handleOffset mgl64.Vec3) tool.HandlePositionProposer {
	plane := geom.OrthogonalPlane(d.tool.RotationCenter(), d.axis)
	return tool.MakeHandlePositionProposer(
		tool.MakePlaneHandlePicker(plane, handleOffset),
		tool.MakeIdentityHandleSnapper(),
	)
}

func (d *RotateDragDelegate) Update(in *tool.InputState, state tool.DragState, proposed mgl64.Vec3) tool.DragStatus {
	if !d.tool.DocumentValid() {
		return tool.DragCancel
	}
	angle := RotationAngle(d.tool.RotationCenter(), d.axis, state.InitialHandlePosition, proposed)
	if !d.tool.Rotate(d.axis, angle) {
		return tool.DragDeny
	}
	return tool.DragContinue
}

func (d *RotateDragDelegate) End(in *tool.InputState, state tool.DragState) {
	d.tool.CommitRotation()
}

func (d *RotateDragDelegate) Cancel(state tool.DragState) {
	d.tool.CancelRotation()
}

func (d *RotateDragDelegate) Render(in *tool.InputState, state tool.DragState, ctx *render.Context, batch *render.Batch) {
	center := d.tool.RotationCenter()
	d.tool.Handle().Render(in.Camera(), batch, d.area)
	batch.Add(render.NewLine(render.RoleGuide, render.GuideColor, center, state.InitialHandlePosition))
	batch.Add(render.NewLine(render.RoleGuide, render.GuideColor, center, state.CurrentHandlePosition))
}

func (d *RotateDragDelegate) SetRenderOptions(in *tool.InputState, ctx *render.Context) {
	ctx.SetForceHideSelectionGuide()
}

// centerDragDelegate moves the rotation center, snapped to the grid.
type centerDragDelegate struct {
	tool   *RotateObjectsTool
	origin mgl64.Vec3
}

func (d *centerDragDelegate) Move(in *tool.InputState, state tool.DragState, proposed mgl64.Vec3) tool.DragStatus {
	d.tool.SetRotationCenter(proposed)
	return tool.DragContinue
}

func (d *centerDragDelegate) End(in *tool.InputState, state tool.DragState) {}

func (d *centerDragDelegate) Cancel(state tool.DragState) {
	d.tool.SetRotationCenter(d.origin)
}

func (d *centerDragDelegate) Render(in *tool.InputState, state tool.DragState, ctx *render.Context, batch *render.Batch) {
	d.tool.Handle().Render(in.Camera(), batch, AreaCenter)
}

func (d *centerDragDelegate) MakeDragHandleSnapper(in *tool.InputState, mode tool.SnapMode) tool.HandleSnapper {
	return tool.MakeAbsoluteHandleSnapper(d.tool.Grid())
}

var (
	_ tool.Controller         = (*RotateController)(nil)
	_ tool.HandleDragDelegate = (*RotateDragDelegate)(nil)
	_ tool.MoveDelegate       = (*centerDragDelegate)(nil)
)
