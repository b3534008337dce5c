package brushedit

import (
	"github.com/gekko3d/brushedit/document"
	"github.com/gekko3d/brushedit/geom"
	"github.com/gekko3d/brushedit/logging"
	"github.com/gekko3d/brushedit/objecttool"
	"github.com/gekko3d/brushedit/pick"
	"github.com/gekko3d/brushedit/render"
	"github.com/gekko3d/brushedit/tool"
	"github.com/gekko3d/brushedit/transformtool"
	"github.com/gekko3d/brushedit/vertextool"
)

// MapView is one view onto the document. Platform input is recorded into its
// EventRecorder and replayed through the tool chain on Flush.
type MapView struct {
	toolBox   *MapViewToolBox
	doc       document.Ref
	connector *tool.Connector
	recorder  *tool.EventRecorder
	log       logging.Logger
}

var _ tool.EventProcessor = (*MapView)(nil)

func NewMapView(toolBox *MapViewToolBox, doc document.Ref, camera *geom.Camera, logger logging.Logger) *MapView {
	logger = logging.OrNop(logger)
	v := &MapView{
		toolBox:  toolBox,
		doc:      doc,
		recorder: tool.NewEventRecorder(),
		log:      logger,
	}
	v.connector = tool.NewConnector(toolBox.Box(), camera, v.pickDocument, logger)

	// Earlier controllers get the first chance at every event.
	v.connector.AddController(objecttool.NewMoveController(toolBox.MoveObjectsTool(), logger))
	v.connector.AddController(objecttool.NewExtrudeController(toolBox.ExtrudeTool(), logger))
	v.connector.AddController(transformtool.NewRotateController(toolBox.RotateObjectsTool(), logger))
	v.connector.AddController(transformtool.NewScaleController(toolBox.ScaleObjectsTool(), logger))
	v.connector.AddController(transformtool.NewShearController(toolBox.ShearObjectsTool(), logger))
	v.connector.AddController(vertextool.NewController(toolBox.VertexTool(), logger))
	v.connector.AddController(vertextool.NewController(toolBox.EdgeTool(), logger))
	v.connector.AddController(vertextool.NewController(toolBox.FaceTool(), logger))
	v.connector.AddController(objecttool.NewSelectionController(toolBox.SelectionTool()))
	return v
}

func (v *MapView) pickDocument(ray geom.Ray, result *pick.Result) {
	doc, err := v.doc.Lock()
	if err != nil {
		return
	}
	doc.Pick(ray, result)
}

func (v *MapView) ToolBox() *MapViewToolBox {
	return v.toolBox
}

func (v *MapView) Connector() *tool.Connector {
	return v.connector
}

// Recorder is where platform adapters record raw input.
func (v *MapView) Recorder() *tool.EventRecorder {
	return v.recorder
}

func (v *MapView) SetCamera(camera *geom.Camera) {
	v.connector.SetCamera(camera)
}

// Flush processes all recorded input.
func (v *MapView) Flush() {
	v.recorder.ProcessEvents(v)
}

func (v *MapView) ProcessKey(e tool.KeyEvent) {
	if e.Type == tool.KeyDown {
		switch e.Key {
		case tool.KeyEscape:
			v.Cancel()
			return
		case tool.KeyDelete, tool.KeyBackspace:
			if v.toolBox.AnyVertexToolActive() && !v.connector.Dragging() {
				v.toolBox.RemoveSelection()
				v.connector.UpdatePickResult()
			}
			return
		}
	}
	v.connector.ProcessKey(e)
}

func (v *MapView) ProcessMouse(e tool.MouseEvent) {
	v.connector.ProcessMouse(e)
}

func (v *MapView) ProcessScroll(e tool.ScrollEvent) {
	v.connector.ProcessScroll(e)
}

func (v *MapView) ProcessGesture(e tool.GestureEvent) {
	v.connector.ProcessGesture(e)
}

func (v *MapView) ProcessCancel(tool.CancelEvent) {
	v.Cancel()
}

// Cancel aborts the current drag, or else lets the tools cancel their state.
func (v *MapView) Cancel() bool {
	return v.connector.Cancel()
}

// Render draws the tool feedback of this view into batch.
func (v *MapView) Render(ctx *render.Context, batch *render.Batch) {
	ctx.Reset()
	v.connector.SetRenderOptions(ctx)
	v.connector.Render(ctx, batch)
}
