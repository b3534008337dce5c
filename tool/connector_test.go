package tool

import (
	"testing"

	"github.com/gekko3d/brushedit/geom"
	"github.com/gekko3d/brushedit/pick"
	"github.com/gekko3d/brushedit/render"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withoutPicks(log []string) []string {
	var out []string
	for _, e := range log {
		if e != "a:pick" && e != "b:pick" {
			out = append(out, e)
		}
	}
	return out
}

type connectorFixture struct {
	log       []string
	connector *Connector
	box       *Box
	a, b      *recordingController
	picks     int
}

func newConnectorFixture() *connectorFixture {
	f := &connectorFixture{}
	f.box = NewBox(nil)
	f.connector = NewConnector(f.box, topDownCamera(), func(ray geom.Ray, result *pick.Result) {
		f.picks++
		result.AddHit(pick.NewHit(pick.BrushHit, 1, ray.PointAt(1), "brush", 0))
	}, nil)
	f.a = &recordingController{tool: newFakeTool("a", true), name: "a", log: &f.log}
	f.b = &recordingController{tool: newFakeTool("b", true), name: "b", log: &f.log}
	f.connector.AddController(f.a)
	f.connector.AddController(f.b)
	return f
}

func TestConnector_ClickReportsButtonHeld(t *testing.T) {
	f := newConnectorFixture()
	f.b.consume = true
	f.connector.ProcessMouse(MouseEvent{Type: MouseButtonDown, Button: MouseLeft, X: 110, Y: 90})
	f.connector.ProcessMouse(MouseEvent{Type: MouseButtonUp, Button: MouseLeft, X: 110, Y: 90})
	assert.False(t, f.connector.Input().MouseButtonsDown(MouseLeft))
	f.connector.ProcessMouse(MouseEvent{Type: MouseClick, Button: MouseLeft, X: 110, Y: 90})

	assert.Equal(t, []string{"a:down", "b:down", "a:up", "b:up", "a:click", "b:click"}, withoutPicks(f.log))
	assert.Equal(t, MouseLeft, f.a.clickButtons)
	assert.Equal(t, MouseNone, f.connector.Input().MouseButtons())
}

func TestConnector_UpdatesPickResult(t *testing.T) {
	f := newConnectorFixture()
	f.connector.ProcessMouse(MouseEvent{Type: MouseMotion, X: 110, Y: 90})

	in := f.connector.Input()
	assert.Equal(t, 1, f.picks)
	assert.Equal(t, 1, in.PickResult().Size())
	assert.InDelta(t, 10, in.PickRay().Origin.X(), 1e-9)
	assert.InDelta(t, 110, in.MouseDX(), 1e-9)
	assert.Contains(t, f.log, "a:pick")
	assert.Contains(t, f.log, "b:move")
}

func TestConnector_DragLifecycle(t *testing.T) {
	f := newConnectorFixture()
	tracker := &recordingTracker{log: &f.log, allowed: 10}
	f.b.tracker = tracker

	f.connector.ProcessMouse(MouseEvent{Type: MouseDragStart, Button: MouseLeft, X: 100, Y: 100})
	require.True(t, f.connector.Dragging())
	assert.True(t, f.connector.Input().AnyToolDragging())

	// A second start while dragging is ignored.
	f.connector.ProcessMouse(MouseEvent{Type: MouseDragStart, Button: MouseLeft, X: 100, Y: 100})
	f.connector.ProcessMouse(MouseEvent{Type: MouseMotion, X: 101, Y: 100})
	f.connector.ProcessMouse(MouseEvent{Type: MouseDrag, Button: MouseLeft, X: 110, Y: 100})
	f.connector.ProcessMouse(MouseEvent{Type: MouseDragEnd, Button: MouseLeft, X: 110, Y: 100})

	assert.Equal(t, []string{"a:accept-drag", "b:accept-drag", "tracker:update", "tracker:end"}, withoutPicks(f.log))
	assert.False(t, f.connector.Dragging())
	assert.False(t, f.connector.Input().AnyToolDragging())
}

func TestConnector_TrackerEndsItself(t *testing.T) {
	f := newConnectorFixture()
	f.a.tracker = &recordingTracker{log: &f.log, allowed: 1}

	f.connector.ProcessMouse(MouseEvent{Type: MouseDragStart, Button: MouseLeft, X: 100, Y: 100})
	f.connector.ProcessMouse(MouseEvent{Type: MouseDrag, Button: MouseLeft, X: 105, Y: 100})
	f.connector.ProcessMouse(MouseEvent{Type: MouseDrag, Button: MouseLeft, X: 110, Y: 100})
	f.connector.ProcessMouse(MouseEvent{Type: MouseDrag, Button: MouseLeft, X: 115, Y: 100})
	f.connector.ProcessMouse(MouseEvent{Type: MouseDragEnd, Button: MouseLeft, X: 115, Y: 100})

	assert.Equal(t, []string{"a:accept-drag", "tracker:update", "tracker:update", "tracker:end"}, withoutPicks(f.log))
}

func TestConnector_CancelDuringDrag(t *testing.T) {
	f := newConnectorFixture()
	f.a.tracker = &recordingTracker{log: &f.log, allowed: 10}
	f.a.cancel = true

	f.connector.ProcessMouse(MouseEvent{Type: MouseDragStart, Button: MouseLeft, X: 100, Y: 100})
	f.connector.ProcessCancel(CancelEvent{})
	assert.False(t, f.connector.Dragging())
	f.connector.ProcessMouse(MouseEvent{Type: MouseDragEnd, Button: MouseLeft, X: 100, Y: 100})
	f.connector.ProcessCancel(CancelEvent{})

	assert.Equal(t, []string{"a:accept-drag", "tracker:cancel", "a:cancel"}, withoutPicks(f.log))
}

func TestConnector_ToolChangeCancelsDrag(t *testing.T) {
	f := newConnectorFixture()
	f.a.tracker = &recordingTracker{log: &f.log, allowed: 10}
	other := newFakeTool("other", false)
	f.box.AddExclusiveGroup(f.a.tool, other)

	f.connector.ProcessMouse(MouseEvent{Type: MouseDragStart, Button: MouseLeft, X: 100, Y: 100})
	require.True(t, f.connector.Dragging())
	require.True(t, f.box.ActivateTool(other))
	assert.False(t, f.connector.Dragging())
	assert.False(t, f.connector.Input().AnyToolDragging())

	f.connector.ProcessMouse(MouseEvent{Type: MouseDrag, Button: MouseLeft, X: 110, Y: 100})
	f.connector.ProcessMouse(MouseEvent{Type: MouseDragEnd, Button: MouseLeft, X: 110, Y: 100})
	assert.Equal(t, []string{"a:accept-drag", "tracker:cancel"}, withoutPicks(f.log))
}

func TestConnector_ModifierKeys(t *testing.T) {
	f := newConnectorFixture()
	f.connector.ProcessKey(KeyEvent{Type: KeyDown, Key: KeyShift})
	f.connector.ProcessKey(KeyEvent{Type: KeyDown, Key: KeyShift})
	f.connector.ProcessKey(KeyEvent{Type: KeyDown, Key: KeyEscape})
	assert.True(t, f.connector.Input().ModifierKeysPressed(ModShift))

	f.a.tracker = &recordingTracker{log: &f.log, allowed: 10}
	f.connector.ProcessMouse(MouseEvent{Type: MouseDragStart, Button: MouseLeft, X: 100, Y: 100})
	f.connector.ProcessKey(KeyEvent{Type: KeyUp, Key: KeyShift})
	assert.Equal(t, ModNone, f.connector.Input().ModifierKeys())

	assert.Equal(t, []string{"a:modifiers", "b:modifiers", "a:accept-drag", "tracker:modifiers"}, withoutPicks(f.log))
	assert.False(t, f.connector.SetModifierKeys(ModNone))
}

func TestConnector_SuppressedToolsSeeNothing(t *testing.T) {
	f := newConnectorFixture()
	modal := newFakeTool("modal", true)
	f.box.SuppressWhileActive(modal, f.a.tool)

	f.connector.ProcessMouse(MouseEvent{Type: MouseMotion, X: 100, Y: 100})
	assert.Equal(t, []string{"b:pick", "b:move"}, f.log)
}

func TestConnector_RenderIncludesTracker(t *testing.T) {
	f := newConnectorFixture()
	f.a.tracker = &recordingTracker{log: &f.log, allowed: 10}
	f.connector.ProcessMouse(MouseEvent{Type: MouseDragStart, Button: MouseLeft, X: 100, Y: 100})

	ctx := render.NewContext(f.connector.Input().Camera())
	f.connector.SetRenderOptions(ctx)
	f.connector.Render(ctx, render.NewBatch())
	assert.Equal(t, []string{"a:accept-drag", "tracker:options", "tracker:render"}, withoutPicks(f.log))
}

func TestConnector_ScrollAndGesture(t *testing.T) {
	f := newConnectorFixture()
	f.connector.ProcessScroll(ScrollEvent{Axis: ScrollVertical, Distance: 3})
	f.connector.ProcessGesture(GestureEvent{Type: GestureStart, X: 100, Y: 100})
	f.connector.ProcessGesture(GestureEvent{Type: GestureZoom, X: 100, Y: 100, Value: 2})
	f.connector.ProcessGesture(GestureEvent{Type: GestureEnd, X: 100, Y: 100})
	assert.False(t, f.connector.Dragging())
	assert.Zero(t, f.connector.Input().GestureZoom())
	assert.Equal(t, mgl64.Vec2{100, 100}, f.connector.Input().MousePosition())
}
