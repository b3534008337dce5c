package objecttool

import (
	"testing"

	"github.com/gekko3d/brushedit/document"
	"github.com/gekko3d/brushedit/geom"
	"github.com/gekko3d/brushedit/pick"
	"github.com/gekko3d/brushedit/render"
	"github.com/gekko3d/brushedit/tool"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// screen (x, y) maps to world (x-100, 100-y).
func topDownCamera() *geom.Camera {
	return geom.NewOrthographicCamera(mgl64.Vec3{0, 0, 100}, mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, 1, 0}, 1, 200, 200)
}

type listenerLog struct {
	selection int
	document  int
}

func (l *listenerLog) SelectionChanged() { l.selection++ }
func (l *listenerLog) DocumentChanged()  { l.document++ }

type fixture struct {
	doc       *document.Memory
	ref       document.Ref
	release   func()
	listener  *listenerLog
	connector *tool.Connector
	a, b      document.BrushID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{doc: document.NewMemory(geom.NewGrid(4)), listener: &listenerLog{}}
	f.a = f.doc.AddBrush(document.NewCuboid(mgl64.Vec3{0, 0, -8}, mgl64.Vec3{8, 8, 0}))
	f.b = f.doc.AddBrush(document.NewCuboid(mgl64.Vec3{16, 0, -8}, mgl64.Vec3{24, 8, 0}))
	f.ref, f.release = document.NewRef(f.doc)

	move := NewMoveObjectsTool(f.ref, nil)
	move.SetListener(f.listener)
	selection := NewSelectionTool(f.ref, nil)
	selection.SetListener(f.listener)

	f.connector = tool.NewConnector(tool.NewBox(nil), topDownCamera(), f.doc.Pick, nil)
	f.connector.AddController(NewMoveController(move, nil))
	f.connector.AddController(NewSelectionController(selection))
	return f
}

func (f *fixture) click(x, y float64, mods tool.ModifierKeys) {
	f.connector.SetModifierKeys(mods)
	f.connector.ProcessMouse(tool.MouseEvent{Type: tool.MouseClick, Button: tool.MouseLeft, X: x, Y: y})
	f.connector.SetModifierKeys(tool.ModNone)
}

func (f *fixture) drag(points ...[2]float64) {
	first := points[0]
	f.connector.ProcessMouse(tool.MouseEvent{Type: tool.MouseButtonDown, Button: tool.MouseLeft, X: first[0], Y: first[1]})
	f.connector.ProcessMouse(tool.MouseEvent{Type: tool.MouseDragStart, Button: tool.MouseLeft, X: first[0], Y: first[1]})
	for _, p := range points[1:] {
		f.connector.ProcessMouse(tool.MouseEvent{Type: tool.MouseDrag, Button: tool.MouseLeft, X: p[0], Y: p[1]})
	}
}

func (f *fixture) dragEnd(x, y float64) {
	f.connector.ProcessMouse(tool.MouseEvent{Type: tool.MouseDragEnd, Button: tool.MouseLeft, X: x, Y: y})
	f.connector.ProcessMouse(tool.MouseEvent{Type: tool.MouseButtonUp, Button: tool.MouseLeft, X: x, Y: y})
}

func (f *fixture) selected() []document.BrushID {
	return selectedIDs(f.doc)
}

func (f *fixture) bounds(t *testing.T, id document.BrushID) geom.Bounds {
	t.Helper()
	b, ok := f.doc.Brush(id)
	require.True(t, ok)
	return b.Bounds()
}

func TestObjectTools_InitiallyActive(t *testing.T) {
	f := newFixture(t)
	for _, c := range f.connector.Chain().Controllers() {
		assert.True(t, c.Tool().Active(), c.Tool().Name())
	}
	assert.True(t, NewExtrudeTool(f.ref, nil).Active())
}

func TestSelectionController_Click(t *testing.T) {
	f := newFixture(t)

	f.click(104, 96, tool.ModNone)
	assert.Equal(t, []document.BrushID{f.a}, f.selected())

	f.click(120, 96, tool.ModNone)
	assert.Equal(t, []document.BrushID{f.b}, f.selected())

	f.click(104, 96, tool.ModCtrlCmd)
	assert.Equal(t, []document.BrushID{f.a, f.b}, f.selected())

	f.click(104, 96, tool.ModCtrlCmd)
	assert.Equal(t, []document.BrushID{f.b}, f.selected())

	f.click(150, 150, tool.ModCtrlCmd)
	assert.Equal(t, []document.BrushID{f.b}, f.selected(), "Ctrl click into empty space keeps the selection")

	f.click(150, 150, tool.ModNone)
	assert.Empty(t, f.selected())
	assert.Equal(t, 5, f.listener.selection)
}

func TestSelectionController_CancelDeselects(t *testing.T) {
	f := newFixture(t)
	f.click(104, 96, tool.ModNone)
	require.NotEmpty(t, f.selected())

	assert.True(t, f.connector.Cancel())
	assert.Empty(t, f.selected())
	assert.False(t, f.connector.Cancel(), "nothing left to deselect")
}

func TestSelectionController_Blocked(t *testing.T) {
	f := newFixture(t)
	f.doc.EditorContext().BlockSelection = true

	f.click(104, 96, tool.ModNone)
	assert.Empty(t, f.selected())
	assert.Zero(t, f.listener.selection)
}

func TestMoveController_MovesSelection(t *testing.T) {
	f := newFixture(t)
	f.doc.SelectBrushes([]document.BrushID{f.a, f.b}, false)

	// 9 units snap to 8 relative to the grab point.
	f.drag([2]float64{104, 96}, [2]float64{113, 96})
	f.dragEnd(113, 96)

	assert.Equal(t, mgl64.Vec3{8, 0, -8}, f.bounds(t, f.a).Min)
	assert.Equal(t, mgl64.Vec3{24, 0, -8}, f.bounds(t, f.b).Min)
	assert.Equal(t, []string{"Move Objects"}, f.doc.History())
	assert.Equal(t, 1, f.listener.document)
}

func TestMoveController_SelectsUnselectedBrush(t *testing.T) {
	f := newFixture(t)
	f.doc.SelectBrushes([]document.BrushID{f.b}, false)

	f.drag([2]float64{104, 96}, [2]float64{108, 96})
	f.dragEnd(108, 96)

	assert.Equal(t, []document.BrushID{f.a}, f.selected())
	assert.Equal(t, mgl64.Vec3{4, 0, -8}, f.bounds(t, f.a).Min)
	assert.Equal(t, mgl64.Vec3{16, 0, -8}, f.bounds(t, f.b).Min)
	assert.Equal(t, 1, f.listener.selection)
}

func TestMoveController_RefusesUnselectedWhenBlocked(t *testing.T) {
	f := newFixture(t)
	f.doc.EditorContext().BlockSelection = true

	f.drag([2]float64{104, 96}, [2]float64{112, 96})
	assert.False(t, f.connector.Dragging())
	assert.Empty(t, f.doc.Operations())
}

func TestMoveController_CancelRestores(t *testing.T) {
	f := newFixture(t)
	f.doc.SelectBrushes([]document.BrushID{f.a}, false)

	f.drag([2]float64{104, 96}, [2]float64{112, 96})
	require.Equal(t, mgl64.Vec3{8, 0, -8}, f.bounds(t, f.a).Min)
	assert.True(t, f.connector.Cancel())

	assert.Equal(t, mgl64.Vec3{0, 0, -8}, f.bounds(t, f.a).Min)
	assert.Empty(t, f.doc.History())
	assert.False(t, f.doc.InTransaction())
}

type extrudeFixture struct {
	doc     *document.Memory
	brush   document.BrushID
	extrude *ExtrudeTool
	ctrl    *ExtrudeController
	in      *tool.InputState
}

func newExtrudeFixture(t *testing.T) *extrudeFixture {
	t.Helper()
	f := &extrudeFixture{doc: document.NewMemory(geom.NewGrid(4))}
	f.brush = f.doc.AddBrush(document.NewCuboid(mgl64.Vec3{0, 0, -8}, mgl64.Vec3{8, 8, 0}))
	f.doc.SelectBrushes([]document.BrushID{f.brush}, false)
	ref, _ := document.NewRef(f.doc)
	f.extrude = NewExtrudeTool(ref, nil)
	f.ctrl = NewExtrudeController(f.extrude, nil)
	f.in = tool.NewInputState(topDownCamera())
	f.in.MouseDown(tool.MouseLeft)
	return f
}

func (f *extrudeFixture) aim(origin, direction mgl64.Vec3) {
	ray := geom.Ray{Origin: origin, Direction: direction}
	result := pick.NewResult()
	f.doc.Pick(ray, result)
	f.in.SetPickRay(ray)
	f.in.SetPickResult(result)
}

var down = mgl64.Vec3{0, 0, -1}

func TestExtrudeController_RequiresShift(t *testing.T) {
	f := newExtrudeFixture(t)
	f.aim(mgl64.Vec3{4, 4, 100}, down)
	assert.Nil(t, f.ctrl.AcceptMouseDrag(f.in))

	f.in.SetModifierKeys(tool.ModShift)
	batch := render.NewBatch()
	f.ctrl.Render(f.in, render.NewContext(topDownCamera()), batch)
	require.Len(t, batch.WithRole(render.RoleHighlight), 1)
	assert.Len(t, batch.WithRole(render.RoleHighlight)[0].Points, 4)
}

func TestExtrudeController_PullsFaceAlongNormal(t *testing.T) {
	f := newExtrudeFixture(t)
	f.in.SetModifierKeys(tool.ModShift)
	f.aim(mgl64.Vec3{4, 4, 100}, down)

	tracker := f.ctrl.AcceptMouseDrag(f.in)
	require.NotNil(t, tracker)
	require.True(t, f.extrude.Extruding())

	// A horizontal ray at z=13 is closest to the normal line at 13, snapped to 12.
	f.aim(mgl64.Vec3{4, -100, 13}, mgl64.Vec3{0, 1, 0})
	assert.True(t, tracker.Update(f.in))
	assert.InDelta(t, 12, f.extrude.Distance(), 1e-9)

	// Pushing the face onto the bottom would flatten the brush.
	f.aim(mgl64.Vec3{4, -100, -8}, mgl64.Vec3{0, 1, 0})
	assert.True(t, tracker.Update(f.in))
	assert.InDelta(t, 12, f.extrude.Distance(), 1e-9)

	tracker.End(f.in)
	b, ok := f.doc.Brush(f.brush)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{8, 8, 12}, b.Bounds().Max)
	assert.Equal(t, []string{"Resize Brushes"}, f.doc.History())
	assert.False(t, f.extrude.Extruding())
}

func TestExtrudeController_CancelRestores(t *testing.T) {
	f := newExtrudeFixture(t)
	f.in.SetModifierKeys(tool.ModShift)
	f.aim(mgl64.Vec3{4, 4, 100}, down)
	tracker := f.ctrl.AcceptMouseDrag(f.in)
	require.NotNil(t, tracker)

	f.aim(mgl64.Vec3{4, -100, -4}, mgl64.Vec3{0, 1, 0})
	require.True(t, tracker.Update(f.in))
	assert.InDelta(t, -4, f.extrude.Distance(), 1e-9)

	tracker.Cancel()
	b, _ := f.doc.Brush(f.brush)
	assert.Equal(t, mgl64.Vec3{8, 8, 0}, b.Bounds().Max)
	assert.Empty(t, f.doc.History())
}

func TestExtrudeController_IgnoresUnselectedBrush(t *testing.T) {
	f := newExtrudeFixture(t)
	f.doc.DeselectAll()
	f.in.SetModifierKeys(tool.ModShift)
	f.aim(mgl64.Vec3{4, 4, 100}, down)
	assert.Nil(t, f.ctrl.AcceptMouseDrag(f.in))
}

func TestKeepsVolume(t *testing.T) {
	b := document.NewCuboid(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{8, 8, 8})
	top := b.FacePolygon(1)
	up := top.Transform(mgl64.Translate3D(0, 0, 4))
	through := top.Transform(mgl64.Translate3D(0, 0, -10))

	assert.True(t, keepsVolume(b, top, up))
	assert.False(t, keepsVolume(b, top, through))
}
