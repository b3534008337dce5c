// Package brushedit assembles the brush editing tools of a map view: the
// tool box with its exclusive and suppression rules, and the map view that
// feeds platform input through the tool chain.
package brushedit

import (
	"errors"
	"fmt"

	"github.com/gekko3d/brushedit/document"
	"github.com/gekko3d/brushedit/handles"
	"github.com/gekko3d/brushedit/logging"
	"github.com/gekko3d/brushedit/objecttool"
	"github.com/gekko3d/brushedit/tool"
	"github.com/gekko3d/brushedit/transformtool"
	"github.com/gekko3d/brushedit/vertextool"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrUnknownTool = errors.New("brushedit: unknown tool")

// Page names the tool options page shown next to the map view.
type Page string

const (
	PageMove   Page = "move"
	PageRotate Page = "rotate"
	PageScale  Page = "scale"
	PageShear  Page = "shear"
	PageVertex Page = "vertex"
	PageEdge   Page = "edge"
	PageFace   Page = "face"
)

// MapViewToolBox owns the tools of a map view. Rotate, scale, shear and
// the vertex, edge and face tools are modal: at most one of them is active,
// and while one is, the move and extrude tools are suppressed.
type MapViewToolBox struct {
	box *tool.Box
	doc document.Ref
	log logging.Logger

	moveObjects *objecttool.MoveObjectsTool
	extrude     *objecttool.ExtrudeTool
	selection   *objecttool.SelectionTool
	rotate      *transformtool.RotateObjectsTool
	scale       *transformtool.ScaleObjectsTool
	shear       *transformtool.ShearObjectsTool
	vertex      *vertextool.Tool
	edge        *vertextool.Tool
	face        *vertextool.Tool

	page         Page
	pageListener func(Page)
}

func NewMapViewToolBox(doc document.Ref, prefs Preferences, logger logging.Logger) *MapViewToolBox {
	logger = logging.OrNop(logger)
	config := vertextool.Config{
		HandleRadius:      prefs.HandleRadius,
		MaxHandleDistance: prefs.MaxHandleDistance,
		LassoDistance:     prefs.LassoDistance,
	}
	tb := &MapViewToolBox{
		box:         tool.NewBox(logger),
		doc:         doc,
		log:         logger,
		moveObjects: objecttool.NewMoveObjectsTool(doc, logger),
		extrude:     objecttool.NewExtrudeTool(doc, logger),
		selection:   objecttool.NewSelectionTool(doc, logger),
		rotate:      transformtool.NewRotateObjectsTool(doc, prefs.RotateAngleStep, logger),
		scale:       transformtool.NewScaleObjectsTool(doc, prefs.HandleRadius, logger),
		shear:       transformtool.NewShearObjectsTool(doc, prefs.HandleRadius, logger),
		vertex:      vertextool.New(handles.KindVertex, doc, config, logger),
		edge:        vertextool.New(handles.KindEdge, doc, config, logger),
		face:        vertextool.New(handles.KindFace, doc, config, logger),
	}
	tb.moveObjects.SetListener(tb)
	tb.extrude.SetListener(tb)
	tb.selection.SetListener(tb)

	tb.box.AddExclusiveGroup(tb.modalTools()...)
	for _, t := range tb.modalTools() {
		tb.box.SuppressWhileActive(t, tb.moveObjects, tb.extrude)
	}
	tb.box.AddTool(tb.selection)
	tb.box.SetObserver(tb)

	tb.updateToolPage()
	return tb
}

func (tb *MapViewToolBox) modalTools() []tool.Tool {
	return []tool.Tool{tb.rotate, tb.scale, tb.shear, tb.vertex, tb.edge, tb.face}
}

func (tb *MapViewToolBox) Box() *tool.Box                                      { return tb.box }
func (tb *MapViewToolBox) MoveObjectsTool() *objecttool.MoveObjectsTool        { return tb.moveObjects }
func (tb *MapViewToolBox) ExtrudeTool() *objecttool.ExtrudeTool                { return tb.extrude }
func (tb *MapViewToolBox) SelectionTool() *objecttool.SelectionTool            { return tb.selection }
func (tb *MapViewToolBox) RotateObjectsTool() *transformtool.RotateObjectsTool { return tb.rotate }
func (tb *MapViewToolBox) ScaleObjectsTool() *transformtool.ScaleObjectsTool   { return tb.scale }
func (tb *MapViewToolBox) ShearObjectsTool() *transformtool.ShearObjectsTool   { return tb.shear }
func (tb *MapViewToolBox) VertexTool() *vertextool.Tool                        { return tb.vertex }
func (tb *MapViewToolBox) EdgeTool() *vertextool.Tool                          { return tb.edge }
func (tb *MapViewToolBox) FaceTool() *vertextool.Tool                          { return tb.face }

// Tool returns the tool with the given name.
func (tb *MapViewToolBox) Tool(name string) (tool.Tool, error) {
	for _, t := range tb.box.Tools() {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
}

// ToggleTool toggles the named tool and reports whether it is active afterwards.
func (tb *MapViewToolBox) ToggleTool(name string) (bool, error) {
	t, err := tb.Tool(name)
	if err != nil {
		return false, err
	}
	tb.box.ToggleTool(t)
	return t.Active(), nil
}

func (tb *MapViewToolBox) ToggleRotateObjectsTool() { tb.box.ToggleTool(tb.rotate) }
func (tb *MapViewToolBox) ToggleScaleObjectsTool()  { tb.box.ToggleTool(tb.scale) }
func (tb *MapViewToolBox) ToggleShearObjectsTool()  { tb.box.ToggleTool(tb.shear) }
func (tb *MapViewToolBox) ToggleVertexTool()        { tb.box.ToggleTool(tb.vertex) }
func (tb *MapViewToolBox) ToggleEdgeTool()          { tb.box.ToggleTool(tb.edge) }
func (tb *MapViewToolBox) ToggleFaceTool()          { tb.box.ToggleTool(tb.face) }

func (tb *MapViewToolBox) RotateObjectsToolActive() bool { return tb.rotate.Active() }
func (tb *MapViewToolBox) ScaleObjectsToolActive() bool  { return tb.scale.Active() }
func (tb *MapViewToolBox) ShearObjectsToolActive() bool  { return tb.shear.Active() }
func (tb *MapViewToolBox) VertexToolActive() bool        { return tb.vertex.Active() }
func (tb *MapViewToolBox) EdgeToolActive() bool          { return tb.edge.Active() }
func (tb *MapViewToolBox) FaceToolActive() bool          { return tb.face.Active() }

func (tb *MapViewToolBox) AnyVertexToolActive() bool {
	return tb.VertexToolActive() || tb.EdgeToolActive() || tb.FaceToolActive()
}

func (tb *MapViewToolBox) AnyModalToolActive() bool {
	return tb.RotateObjectsToolActive() || tb.ScaleObjectsToolActive() || tb.ShearObjectsToolActive() ||
		tb.AnyVertexToolActive()
}

func (tb *MapViewToolBox) RotateToolAngle() float64 {
	tb.mustBeActive(tb.rotate)
	return tb.rotate.Angle()
}

func (tb *MapViewToolBox) RotateToolCenter() mgl64.Vec3 {
	tb.mustBeActive(tb.rotate)
	return tb.rotate.RotationCenter()
}

func (tb *MapViewToolBox) MoveRotationCenter(delta mgl64.Vec3) {
	tb.mustBeActive(tb.rotate)
	tb.rotate.SetRotationCenter(tb.rotate.RotationCenter().Add(delta))
}

func (tb *MapViewToolBox) mustBeActive(t tool.Tool) {
	if !t.Active() {
		panic(fmt.Sprintf("brushedit: %s tool is not active", t.Name()))
	}
}

// activeVertexTool returns the active vertex, edge or face tool.
func (tb *MapViewToolBox) activeVertexTool() *vertextool.Tool {
	for _, t := range []*vertextool.Tool{tb.vertex, tb.edge, tb.face} {
		if t.Active() {
			return t
		}
	}
	panic("brushedit: no vertex tool is active")
}

// MoveVertices moves the selected handles of the active vertex tool by delta,
// as the arrow keys do.
func (tb *MapViewToolBox) MoveVertices(delta mgl64.Vec3) vertextool.MoveResult {
	return tb.activeVertexTool().MoveSelection(delta)
}

// RemoveSelection removes the vertices of the selected handles of the active vertex tool.
func (tb *MapViewToolBox) RemoveSelection() bool {
	return tb.activeVertexTool().RemoveSelection()
}

// DeactivateAllTools deactivates every modal tool.
func (tb *MapViewToolBox) DeactivateAllTools() {
	tb.box.DeactivateAllTools()
}

func (tb *MapViewToolBox) ToolActivated(t tool.Tool) {
	tb.log.Debugf("tool %s activated", t.Name())
	tb.updateEditorContext()
	tb.updateToolPage()
}

func (tb *MapViewToolBox) ToolDeactivated(t tool.Tool) {
	tb.log.Debugf("tool %s deactivated", t.Name())
	tb.updateEditorContext()
	tb.updateToolPage()
}

// DocumentNewedOrLoaded resets the tools for a fresh document.
func (tb *MapViewToolBox) DocumentNewedOrLoaded() {
	tb.box.Interrupt()
	tb.DeactivateAllTools()
}

// SelectionChanged rebuilds the handles of the active modal tool.
func (tb *MapViewToolBox) SelectionChanged() {
	tb.refreshActiveTool()
	if tb.rotate.Active() {
		tb.rotate.ResetRotationCenter()
	}
	tb.updateToolPage()
}

// DocumentChanged rebuilds the handles of the active modal tool after an edit.
func (tb *MapViewToolBox) DocumentChanged() {
	tb.refreshActiveTool()
}

func (tb *MapViewToolBox) refreshActiveTool() {
	for _, t := range []*vertextool.Tool{tb.vertex, tb.edge, tb.face} {
		if t.Active() {
			t.Refresh()
		}
	}
	if tb.scale.Active() {
		tb.scale.Refresh()
	}
	if tb.shear.Active() {
		tb.shear.Refresh()
	}
}

// updateEditorContext recomputes the editor context from the tool state.
func (tb *MapViewToolBox) updateEditorContext() {
	doc, err := tb.doc.Lock()
	if err != nil {
		return
	}
	doc.EditorContext().BlockSelection = tb.AnyVertexToolActive()
}

func (tb *MapViewToolBox) updateToolPage() {
	page := PageMove
	switch {
	case tb.RotateObjectsToolActive():
		page = PageRotate
	case tb.ScaleObjectsToolActive():
		page = PageScale
	case tb.ShearObjectsToolActive():
		page = PageShear
	case tb.VertexToolActive():
		page = PageVertex
	case tb.EdgeToolActive():
		page = PageEdge
	case tb.FaceToolActive():
		page = PageFace
	}
	if page == tb.page {
		return
	}
	tb.page = page
	if tb.pageListener != nil {
		tb.pageListener(page)
	}
}

// Page is the tool page currently shown.
func (tb *MapViewToolBox) Page() Page {
	return tb.page
}

// SetPageListener registers f to be called whenever the shown page changes.
func (tb *MapViewToolBox) SetPageListener(f func(Page)) {
	tb.pageListener = f
}

var (
	_ tool.Observer       = (*MapViewToolBox)(nil)
	_ objecttool.Listener = (*MapViewToolBox)(nil)
)
