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

const ScaleToolName = "scale"

// ScaleObjectsTool stretches the selected brushes by dragging a side of their bounds.
type ScaleObjectsTool struct {
	tool.Base

	doc          document.Ref
	sides        *sideHandles
	handleRadius float64
	log          logging.Logger

	scaling bool
}

func NewScaleObjectsTool(doc document.Ref, handleRadius float64, logger logging.Logger) *ScaleObjectsTool {
	t := &ScaleObjectsTool{
		doc:          doc,
		sides:        newSideHandles(handles.KindScale),
		handleRadius: handleRadius,
		log:          logging.OrNop(logger),
	}
	t.Base = tool.NewBase(ScaleToolName, false, t)
	return t
}

func (t *ScaleObjectsTool) DoActivate() bool {
	if !t.doc.Valid() {
		t.log.Warnf("scale tool: cannot activate without a document")
		return false
	}
	t.Refresh()
	return true
}

// DoDeactivate rolls back a scale that is still open.
func (t *ScaleObjectsTool) DoDeactivate() bool {
	t.CancelScale()
	t.sides.clear()
	return true
}

// Refresh places the handles on the current selection bounds.
func (t *ScaleObjectsTool) Refresh() {
	doc, err := t.doc.Lock()
	if err != nil {
		t.sides.clear()
		return
	}
	t.sides.rebuild(doc)
}

func (t *ScaleObjectsTool) Manager() *handles.Manager {
	return t.sides.manager
}

func (t *ScaleObjectsTool) Bounds() (geom.Bounds, bool) {
	return t.sides.bounds, t.sides.valid
}

func (t *ScaleObjectsTool) DocumentValid() bool {
	return t.doc.Valid()
}

func (t *ScaleObjectsTool) Grid() geom.Grid {
	doc, err := t.doc.Lock()
	if err != nil {
		return geom.Grid{}
	}
	return doc.Grid()
}

func (t *ScaleObjectsTool) Pick(ray geom.Ray, camera *geom.Camera, result *pick.Result) {
	t.sides.pick(ray, camera, t.handleRadius, result)
}

// Side returns the bounds side a scale handle sits on.
func (t *ScaleObjectsTool) Side(h handles.Handle) int {
	return t.sides.side(h)
}

func (t *ScaleObjectsTool) BeginScale() bool {
	doc, err := t.doc.Lock()
	if err != nil || !t.sides.valid {
		return false
	}
	doc.StartTransaction("Scale Objects")
	t.scaling = true
	return true
}

// Scale moves a side of the bounds outwards by distance, keeping the
// opposite side in place. With symmetric set both sides move and the center
// stays in place. It reports false when the bounds would collapse or the
// document rejects the transform.
func (t *ScaleObjectsTool) Scale(side int, distance float64, symmetric bool) bool {
	if !t.scaling {
		panic("transformtool: Scale called outside a scale")
	}
	doc, err := t.doc.Lock()
	if err != nil {
		return false
	}
	b := t.sides.bounds
	axis := side / 2
	size := b.Size()[axis]
	anchor := b.SideCenter(opposite(side))[axis]
	newSize := size + distance
	if symmetric {
		anchor = b.Center()[axis]
		newSize = size + 2*distance
	}
	if size <= 0 || newSize <= geom.Epsilon {
		return false
	}
	if !doc.TransformObjects(scaleAlong(axis, anchor, newSize/size)) {
		return false
	}
	t.sides.rebuild(doc)
	return true
}

// scaleAlong scales by factor along one axis, keeping the plane at anchor fixed.
func scaleAlong(axis int, anchor, factor float64) mgl64.Mat4 {
	var offset mgl64.Vec3
	scale := mgl64.Vec3{1, 1, 1}
	offset[axis] = anchor
	scale[axis] = factor
	return mgl64.Translate3D(offset.X(), offset.Y(), offset.Z()).
		Mul4(mgl64.Scale3D(scale.X(), scale.Y(), scale.Z())).
		Mul4(mgl64.Translate3D(-offset.X(), -offset.Y(), -offset.Z()))
}

func (t *ScaleObjectsTool) CommitScale() {
	t.finish(func(doc document.Document) { doc.CommitTransaction() })
}

func (t *ScaleObjectsTool) CancelScale() {
	t.finish(func(doc document.Document) { doc.RollbackTransaction() })
}

func (t *ScaleObjectsTool) finish(f func(document.Document)) {
	if !t.scaling {
		return
	}
	t.scaling = false
	doc, err := t.doc.Lock()
	if err != nil {
		t.sides.clear()
		return
	}
	f(doc)
	t.sides.rebuild(doc)
}

func (t *ScaleObjectsTool) Render(batch *render.Batch, highlight *handles.Handle) {
	t.sides.render(batch, t.handleRadius, highlight)
}

// ScaleController drags the side handles of a ScaleObjectsTool. Alt scales
// symmetrically about the center.
type ScaleController struct {
	tool.NopController
	tool *ScaleObjectsTool
	log  logging.Logger
}

func NewScaleController(t *ScaleObjectsTool, logger logging.Logger) *ScaleController {
	return &ScaleController{tool: t, log: logging.OrNop(logger)}
}

func (c *ScaleController) Tool() tool.Tool {
	return c.tool
}

func (c *ScaleController) Pick(in *tool.InputState, result *pick.Result) {
	c.tool.Pick(in.PickRay(), in.Camera(), result)
}

func (c *ScaleController) AcceptMouseDrag(in *tool.InputState) tool.GestureTracker {
	if !in.MouseButtonsPressed(tool.MouseLeft) || !in.CheckModifierKeys(tool.KeyNo, tool.KeyNo, tool.KeyDontCare) {
		return nil
	}
	hit, h, ok := c.tool.sides.firstHit(in.PickResult())
	if !ok {
		return nil
	}
	side := c.tool.Side(h)
	if !c.tool.BeginScale() {
		return nil
	}
	return tool.CreateHandleDragTracker(&scaleDragDelegate{tool: c.tool, side: side}, in, h.Position(), hit.HitPoint, c.log)
}

func (c *ScaleController) Render(in *tool.InputState, ctx *render.Context, batch *render.Batch) {
	var highlight *handles.Handle
	if !in.AnyToolDragging() {
		if _, h, ok := c.tool.sides.firstHit(in.PickResult()); ok {
			highlight = &h
		}
	}
	c.tool.Render(batch, highlight)
}

// scaleDragDelegate moves one side along its normal.
type scaleDragDelegate struct {
	tool *ScaleObjectsTool
	side int
}

func (d *scaleDragDelegate) Start(in *tool.InputState, initialHandlePosition, handleOffset mgl64.Vec3) tool.HandlePositionProposer {
	line := geom.Line{Point: initialHandlePosition, Direction: geom.Axes[d.side]}
	return tool.MakeHandlePositionProposer(
		tool.MakeLineHandlePicker(line, handleOffset),
		tool.MakeRelativeLineHandleSnapper(d.tool.Grid(), line),
	)
}

func (d *scaleDragDelegate) Update(in *tool.InputState, state tool.DragState, proposed mgl64.Vec3) tool.DragStatus {
	if !d.tool.DocumentValid() {
		return tool.DragCancel
	}
	distance := proposed.Sub(state.CurrentHandlePosition).Dot(geom.Axes[d.side])
	if !d.tool.Scale(d.side, distance, in.ModifierKeysDown(tool.ModAlt)) {
		return tool.DragDeny
	}
	return tool.DragContinue
}

func (d *scaleDragDelegate) End(in *tool.InputState, state tool.DragState) {
	d.tool.CommitScale()
}

func (d *scaleDragDelegate) Cancel(state tool.DragState) {
	d.tool.CancelScale()
}

func (d *scaleDragDelegate) Render(in *tool.InputState, state tool.DragState, ctx *render.Context, batch *render.Batch) {
	d.tool.Render(batch, nil)
	batch.Add(render.NewPoint(render.RoleDragHandle, render.HighlightColor, state.CurrentHandlePosition, d.tool.handleRadius*2))
}

var (
	_ tool.Controller         = (*ScaleController)(nil)
	_ tool.HandleDragDelegate = (*scaleDragDelegate)(nil)
)
