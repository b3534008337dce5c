package objecttool

import (
	"github.com/gekko3d/brushedit/document"
	"github.com/gekko3d/brushedit/geom"
	"github.com/gekko3d/brushedit/logging"
	"github.com/gekko3d/brushedit/pick"
	"github.com/gekko3d/brushedit/render"
	"github.com/gekko3d/brushedit/tool"

	"github.com/go-gl/mathgl/mgl64"
)

// ExtrudeTool pushes or pulls one face of a selected brush along its normal.
type ExtrudeTool struct {
	tool.Base

	doc      document.Ref
	listener Listener
	log      logging.Logger

	extruding bool
	brush     document.BrushID
	face      geom.Polygon
	distance  float64
}

func NewExtrudeTool(doc document.Ref, logger logging.Logger) *ExtrudeTool {
	t := &ExtrudeTool{doc: doc, listener: nopListener{}, log: logging.OrNop(logger)}
	t.Base = tool.NewBase(ExtrudeToolName, true, nil)
	return t
}

func (t *ExtrudeTool) SetListener(l Listener) {
	t.listener = orNop(l)
}

func (t *ExtrudeTool) DocumentValid() bool {
	return t.doc.Valid()
}

func (t *ExtrudeTool) Grid() geom.Grid {
	doc, err := t.doc.Lock()
	if err != nil {
		return geom.Grid{}
	}
	return doc.Grid()
}

// Face returns the selected brush face under target, if any.
func (t *ExtrudeTool) Face(target document.BrushFace) (geom.Polygon, bool) {
	doc, err := t.doc.Lock()
	if err != nil {
		return geom.Polygon{}, false
	}
	b, ok := findBrush(doc.SelectedBrushes(), target.Brush)
	if !ok || target.Face < 0 || target.Face >= len(b.Faces) {
		return geom.Polygon{}, false
	}
	return b.FacePolygon(target.Face), true
}

func (t *ExtrudeTool) Extruding() bool {
	return t.extruding
}

// DragFace is the current position of the face being extruded.
func (t *ExtrudeTool) DragFace() geom.Polygon {
	return t.face
}

// Distance is how far the face moved along its normal since BeginExtrude.
func (t *ExtrudeTool) Distance() float64 {
	return t.distance
}

func (t *ExtrudeTool) BeginExtrude(target document.BrushFace) bool {
	face, ok := t.Face(target)
	if !ok {
		return false
	}
	doc, err := t.doc.Lock()
	if err != nil {
		return false
	}
	doc.StartTransaction("Resize Brushes")
	t.extruding = true
	t.brush = target.Brush
	t.face = face
	t.distance = 0
	return true
}

// Extrude moves the face by distance along its normal.
func (t *ExtrudeTool) Extrude(distance float64) bool {
	if !t.extruding {
		panic("objecttool: Extrude called outside an extrusion")
	}
	doc, err := t.doc.Lock()
	if err != nil {
		return false
	}
	delta := t.face.Normal().Mul(distance)
	m := mgl64.Translate3D(delta.X(), delta.Y(), delta.Z())
	moved := t.face.Transform(m)
	b, ok := findBrush(doc.SelectedBrushes(), t.brush)
	if !ok || !keepsVolume(b, t.face, moved) {
		return false
	}
	if !doc.TransformFaces([]geom.Polygon{t.face}, m) {
		return false
	}
	t.face = moved
	t.distance += distance
	return true
}

// keepsVolume reports whether every vertex of b off the face stays strictly
// behind the moved face.
func keepsVolume(b document.Brush, face, moved geom.Polygon) bool {
	normal := face.Normal()
	anchor := moved.Vertices[0]
	for _, v := range b.Vertices {
		onFace := false
		for _, f := range face.Vertices {
			if geom.ApproxEqual(v, f, geom.Epsilon) {
				onFace = true
				break
			}
		}
		if !onFace && normal.Dot(v.Sub(anchor)) >= -geom.Epsilon {
			return false
		}
	}
	return true
}

func (t *ExtrudeTool) EndExtrude() {
	t.finish(func(doc document.Document) { doc.CommitTransaction() })
}

func (t *ExtrudeTool) CancelExtrude() {
	t.finish(func(doc document.Document) { doc.RollbackTransaction() })
}

func (t *ExtrudeTool) finish(f func(document.Document)) {
	if !t.extruding {
		return
	}
	t.extruding = false
	t.face = geom.Polygon{}
	t.distance = 0
	doc, err := t.doc.Lock()
	if err != nil {
		t.log.Warnf("extrude tool: document went away during extrusion")
		return
	}
	f(doc)
	t.listener.DocumentChanged()
}

// ExtrudeController starts an extrusion on Shift drag and highlights the
// face that would be dragged while Shift is held.
type ExtrudeController struct {
	tool.NopController
	tool *ExtrudeTool
	log  logging.Logger
}

func NewExtrudeController(t *ExtrudeTool, logger logging.Logger) *ExtrudeController {
	return &ExtrudeController{tool: t, log: logging.OrNop(logger)}
}

func (c *ExtrudeController) Tool() tool.Tool {
	return c.tool
}

// hoveredFace returns the selected brush face under the pointer while Shift
// alone is held.
func (c *ExtrudeController) hoveredFace(in *tool.InputState) (pick.Hit, document.BrushFace, bool) {
	if !in.ModifierKeysPressed(tool.ModShift) {
		return pick.NoHit, document.BrushFace{}, false
	}
	hit, target, ok := brushHit(in.PickResult())
	if !ok {
		return hit, target, false
	}
	_, ok = c.tool.Face(target)
	return hit, target, ok
}

func (c *ExtrudeController) AcceptMouseDrag(in *tool.InputState) tool.GestureTracker {
	if !in.MouseButtonsPressed(tool.MouseLeft) {
		return nil
	}
	hit, target, ok := c.hoveredFace(in)
	if !ok || !c.tool.BeginExtrude(target) {
		return nil
	}
	delegate := &extrudeDragDelegate{tool: c.tool, normal: c.tool.DragFace().Normal()}
	return tool.CreateHandleDragTracker(delegate, in, hit.HitPoint, hit.HitPoint, c.log)
}

func (c *ExtrudeController) Render(in *tool.InputState, ctx *render.Context, batch *render.Batch) {
	if in.AnyToolDragging() {
		return
	}
	if _, target, ok := c.hoveredFace(in); ok {
		face, _ := c.tool.Face(target)
		batch.Add(render.NewPolygon(render.RoleHighlight, render.HighlightColor, face.Vertices))
	}
}

// extrudeDragDelegate keeps the dragged point on the line through the hit
// point along the face normal.
type extrudeDragDelegate struct {
	tool   *ExtrudeTool
	normal mgl64.Vec3
}

func (d *extrudeDragDelegate) Start(in *tool.InputState, initialHandlePosition, handleOffset mgl64.Vec3) tool.HandlePositionProposer {
	line := geom.Line{Point: initialHandlePosition, Direction: d.normal}
	return tool.MakeHandlePositionProposer(
		tool.MakeLineHandlePicker(line, handleOffset),
		tool.MakeRelativeLineHandleSnapper(d.tool.Grid(), line),
	)
}

func (d *extrudeDragDelegate) Update(in *tool.InputState, state tool.DragState, proposed mgl64.Vec3) tool.DragStatus {
	if !d.tool.DocumentValid() {
		return tool.DragCancel
	}
	if !d.tool.Extrude(proposed.Sub(state.CurrentHandlePosition).Dot(d.normal)) {
		return tool.DragDeny
	}
	return tool.DragContinue
}

func (d *extrudeDragDelegate) End(in *tool.InputState, state tool.DragState) {
	d.tool.EndExtrude()
}

func (d *extrudeDragDelegate) Cancel(state tool.DragState) {
	d.tool.CancelExtrude()
}

func (d *extrudeDragDelegate) Render(in *tool.InputState, state tool.DragState, ctx *render.Context, batch *render.Batch) {
	batch.Add(render.NewPolygon(render.RoleDragHandle, render.HighlightColor, d.tool.DragFace().Vertices))
}

var (
	_ tool.Controller         = (*ExtrudeController)(nil)
	_ tool.HandleDragDelegate = (*extrudeDragDelegate)(nil)
)
