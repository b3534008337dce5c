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

// screen (x, y) maps to world (x-100, 100-y) on any z plane.
func topDownCamera() *geom.Camera {
	return geom.NewOrthographicCamera(mgl64.Vec3{0, 0, 100}, mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, 1, 0}, 1, 200, 200)
}

type fakeTool struct {
	Base
	refuseActivate   bool
	refuseDeactivate bool
	activations      int
	deactivations    int
	calls            *[]string
}

func newFakeTool(name string, active bool) *fakeTool {
	t := &fakeTool{}
	t.Base = NewBase(name, active, t)
	return t
}

func (t *fakeTool) DoActivate() bool {
	if t.refuseActivate {
		return false
	}
	t.activations++
	t.call("+")
	return true
}

func (t *fakeTool) DoDeactivate() bool {
	if t.refuseDeactivate {
		return false
	}
	t.deactivations++
	t.call("-")
	return true
}

func (t *fakeTool) call(sign string) {
	if t.calls != nil {
		*t.calls = append(*t.calls, sign+t.Name())
	}
}

// recordingController logs every event it receives and consumes according to its flags.
type recordingController struct {
	NopController
	tool    Tool
	name    string
	log     *[]string
	consume bool
	tracker GestureTracker
	cancel  bool

	clickButtons MouseButtons
}

func (c *recordingController) Tool() Tool { return c.tool }

func (c *recordingController) record(event string) {
	*c.log = append(*c.log, c.name+":"+event)
}

func (c *recordingController) Pick(in *InputState, result *pick.Result) {
	c.record("pick")
}

func (c *recordingController) ModifierKeyChange(in *InputState) {
	c.record("modifiers")
}

func (c *recordingController) MouseDown(in *InputState) bool {
	c.record("down")
	return c.consume
}

func (c *recordingController) MouseUp(in *InputState) bool {
	c.record("up")
	return c.consume
}

func (c *recordingController) MouseClick(in *InputState) bool {
	c.record("click")
	c.clickButtons = in.MouseButtons()
	return c.consume
}

func (c *recordingController) MouseDoubleClick(in *InputState) bool {
	c.record("double-click")
	return c.consume
}

func (c *recordingController) MouseMove(in *InputState) {
	c.record("move")
}

func (c *recordingController) AcceptMouseDrag(in *InputState) GestureTracker {
	c.record("accept-drag")
	return c.tracker
}

func (c *recordingController) Cancel() bool {
	c.record("cancel")
	return c.cancel
}

// recordingTracker accepts the first allowed updates and then ends the gesture.
type recordingTracker struct {
	log     *[]string
	allowed int
	updates int
}

func (t *recordingTracker) ModifierKeyChange(*InputState) {
	*t.log = append(*t.log, "tracker:modifiers")
}
func (t *recordingTracker) MouseScroll(*InputState) { *t.log = append(*t.log, "tracker:scroll") }
func (t *recordingTracker) Update(*InputState) bool {
	t.updates++
	*t.log = append(*t.log, "tracker:update")
	return t.updates <= t.allowed
}
func (t *recordingTracker) End(*InputState) { *t.log = append(*t.log, "tracker:end") }
func (t *recordingTracker) Cancel()         { *t.log = append(*t.log, "tracker:cancel") }
func (t *recordingTracker) SetRenderOptions(*InputState, *render.Context) {
	*t.log = append(*t.log, "tracker:options")
}
func (t *recordingTracker) Render(*InputState, *render.Context, *render.Batch) {
	*t.log = append(*t.log, "tracker:render")
}

type observerLog struct {
	events    []string
	anyModal  func() bool
	modalSeen []bool
}

func (o *observerLog) ToolActivated(t Tool) {
	o.events = append(o.events, "+"+t.Name())
	o.modalSeen = append(o.modalSeen, o.anyModal())
}

func (o *observerLog) ToolDeactivated(t Tool) {
	o.events = append(o.events, "-"+t.Name())
	o.modalSeen = append(o.modalSeen, o.anyModal())
}

func TestBase_ActivateDeactivate(t *testing.T) {
	tl := newFakeTool("a", false)
	assert.False(t, tl.Active())
	assert.True(t, tl.Activate())
	assert.True(t, tl.Active())
	assert.True(t, tl.Activate(), "activating an active tool is a no-op")
	assert.Equal(t, 1, tl.activations)

	assert.True(t, tl.Deactivate())
	assert.False(t, tl.Active())
	assert.Equal(t, 1, tl.deactivations)

	tl.refuseActivate = true
	assert.False(t, tl.Activate())
	assert.False(t, tl.Active())
}

func TestBox_ExclusiveActivationKeepsGroupActive(t *testing.T) {
	a := newFakeTool("a", false)
	b := newFakeTool("b", false)
	box := NewBox(nil)
	box.AddExclusiveGroup(a, b)

	obs := &observerLog{anyModal: func() bool { return a.Active() || b.Active() }}
	box.SetObserver(obs)

	require.True(t, box.ActivateTool(a))
	require.True(t, box.ActivateTool(b))
	assert.False(t, a.Active())
	assert.True(t, b.Active())
	assert.Equal(t, []string{"+a", "-a", "+b"}, obs.events)
	for i, seen := range obs.modalSeen {
		assert.True(t, seen, "observation %d saw no active modal tool", i)
	}
}

func TestBox_RefusedActivationLeavesPeers(t *testing.T) {
	a := newFakeTool("a", false)
	b := newFakeTool("b", false)
	box := NewBox(nil)
	box.AddExclusiveGroup(a, b)
	require.True(t, box.ActivateTool(a))

	b.refuseActivate = true
	assert.False(t, box.ActivateTool(b))
	assert.True(t, a.Active())
	assert.False(t, b.Active())
}

func TestBox_DeactivatesPeersBeforeActivating(t *testing.T) {
	var calls []string
	a := newFakeTool("a", false)
	b := newFakeTool("b", false)
	a.calls, b.calls = &calls, &calls
	box := NewBox(nil)
	box.AddExclusiveGroup(a, b)

	require.True(t, box.ActivateTool(a))
	require.True(t, box.ActivateTool(b))
	assert.Equal(t, []string{"+a", "-a", "+b"}, calls)
}

func TestBox_RefusedPeerDeactivationKeepsGroup(t *testing.T) {
	a := newFakeTool("a", false)
	b := newFakeTool("b", false)
	box := NewBox(nil)
	box.AddExclusiveGroup(a, b)
	require.True(t, box.ActivateTool(a))

	obs := &observerLog{anyModal: func() bool { return true }}
	box.SetObserver(obs)
	a.refuseDeactivate = true
	assert.False(t, box.ActivateTool(b))
	assert.True(t, a.Active())
	assert.False(t, b.Active())
	assert.Zero(t, b.activations)
	assert.Empty(t, obs.events)
}

func TestBox_RefusedActivationRestoresPeers(t *testing.T) {
	var calls []string
	a := newFakeTool("a", false)
	b := newFakeTool("b", false)
	a.calls, b.calls = &calls, &calls
	box := NewBox(nil)
	box.AddExclusiveGroup(a, b)
	require.True(t, box.ActivateTool(a))

	obs := &observerLog{anyModal: func() bool { return true }}
	box.SetObserver(obs)
	b.refuseActivate = true
	assert.False(t, box.ActivateTool(b))
	assert.Equal(t, []string{"+a", "-a", "+a"}, calls)
	assert.True(t, a.Active())
	assert.Empty(t, obs.events)
}

func TestBox_InterruptHandlersRunBeforeStateChanges(t *testing.T) {
	var calls []string
	a := newFakeTool("a", false)
	a.calls = &calls
	box := NewBox(nil)
	box.AddTool(a)
	box.AddInterruptHandler(func() { calls = append(calls, "interrupt") })

	require.True(t, box.ActivateTool(a))
	require.True(t, box.ActivateTool(a))
	require.True(t, box.DeactivateTool(a))
	assert.Equal(t, []string{"interrupt", "+a", "interrupt", "-a"}, calls)
}

func TestBox_SuppressionAndEligibility(t *testing.T) {
	move := newFakeTool("move", true)
	modal := newFakeTool("modal", false)
	box := NewBox(nil)
	box.SuppressWhileActive(modal, move)

	assert.True(t, box.Eligible(move))
	assert.False(t, box.Eligible(modal))

	box.ActivateTool(modal)
	assert.True(t, box.Suppressed(move))
	assert.False(t, box.Eligible(move))
	assert.True(t, move.Active(), "suppression keeps the active flag")
	assert.True(t, box.Eligible(modal))

	box.Disable()
	assert.False(t, box.Eligible(modal))
	box.Enable()

	box.DeactivateTool(modal)
	assert.True(t, box.Eligible(move))
}

func TestBox_ToggleAndDeactivateAll(t *testing.T) {
	move := newFakeTool("move", true)
	a := newFakeTool("a", false)
	b := newFakeTool("b", false)
	box := NewBox(nil)
	box.AddTool(move)
	box.AddExclusiveGroup(a, b)

	box.ToggleTool(a)
	assert.True(t, a.Active())
	box.ToggleTool(a)
	assert.False(t, a.Active())

	box.ActivateTool(b)
	box.DeactivateAllTools()
	assert.False(t, b.Active())
	assert.True(t, move.Active(), "tools outside exclusive groups stay active")
	assert.Len(t, box.Tools(), 3)
}

func TestChain_FirstConsumerWins(t *testing.T) {
	var log []string
	first := &recordingController{tool: newFakeTool("first", true), name: "first", log: &log}
	inactive := &recordingController{tool: newFakeTool("inactive", false), name: "inactive", log: &log, consume: true}
	second := &recordingController{tool: newFakeTool("second", true), name: "second", log: &log, consume: true}
	third := &recordingController{tool: newFakeTool("third", true), name: "third", log: &log, consume: true}

	chain := NewChain(nil)
	chain.Append(first)
	chain.Append(inactive)
	chain.Append(second)
	chain.Append(third)

	in := NewInputState(topDownCamera())
	assert.True(t, chain.MouseClick(in))
	assert.Equal(t, []string{"first:click", "second:click"}, log)

	log = nil
	chain.MouseMove(in)
	assert.Equal(t, []string{"first:move", "second:move", "third:move"}, log)

	log = nil
	third.tracker = &recordingTracker{log: &log}
	assert.Equal(t, third.tracker, chain.AcceptMouseDrag(in))
	assert.Equal(t, []string{"first:accept-drag", "second:accept-drag", "third:accept-drag"}, log)
}

func TestChain_NoTrackerReturnsNilInterface(t *testing.T) {
	var log []string
	chain := NewChain(nil)
	chain.Append(&recordingController{tool: newFakeTool("a", true), name: "a", log: &log})
	assert.Nil(t, chain.AcceptMouseDrag(NewInputState(topDownCamera())))
}

func TestGroup_DispatchesToMembers(t *testing.T) {
	var log []string
	tl := newFakeTool("group", true)
	a := &recordingController{tool: tl, name: "a", log: &log, cancel: true}
	b := &recordingController{tool: tl, name: "b", log: &log, consume: true}
	g := NewGroup(tl, a, b)

	in := NewInputState(topDownCamera())
	assert.True(t, g.MouseDown(in))
	assert.True(t, g.Cancel())
	assert.Equal(t, []string{"a:down", "b:down", "a:cancel", "b:cancel"}, log)
	assert.Equal(t, Tool(tl), g.Tool())
}

func TestInputState_Modifiers(t *testing.T) {
	in := NewInputState(nil)
	in.SetModifierKeys(ModShift | ModAlt)

	assert.True(t, in.ModifierKeysDown(ModShift))
	assert.True(t, in.ModifierKeysDown(ModShift|ModAlt))
	assert.False(t, in.ModifierKeysPressed(ModShift))
	assert.True(t, in.ModifierKeysPressed(ModShift|ModAlt))

	assert.True(t, in.CheckModifierKeys(KeyYes, KeyNo, KeyDontCare))
	assert.False(t, in.CheckModifierKeys(KeyNo, KeyDontCare, KeyDontCare))
	assert.True(t, in.CheckModifierKeys(KeyDontCare, KeyDontCare, KeyYes))

	in.MouseDown(MouseLeft)
	in.MouseDown(MouseRight)
	assert.True(t, in.MouseButtonsDown(MouseLeft))
	assert.False(t, in.MouseButtonsPressed(MouseLeft))
	in.MouseUp(MouseRight)
	assert.True(t, in.MouseButtonsPressed(MouseLeft))
}
