package tool

import (
	"testing"

	"github.com/gekko3d/brushedit/geom"
	"github.com/gekko3d/brushedit/render"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMoveDelegate struct {
	grid      geom.Grid
	proposals []mgl64.Vec3
	modes     []SnapMode
	ended     bool
	cancelled bool
}

func (d *recordingMoveDelegate) Move(in *InputState, state DragState, proposed mgl64.Vec3) DragStatus {
	d.proposals = append(d.proposals, proposed)
	return DragContinue
}

func (d *recordingMoveDelegate) End(*InputState, DragState) { d.ended = true }
func (d *recordingMoveDelegate) Cancel(DragState)           { d.cancelled = true }
func (d *recordingMoveDelegate) Render(*InputState, DragState, *render.Context, *render.Batch) {
}

func (d *recordingMoveDelegate) MakeDragHandleSnapper(in *InputState, mode SnapMode) HandleSnapper {
	d.modes = append(d.modes, mode)
	return MakeHandleSnapperFromSnapMode(d.grid, mode)
}

func pointAt(in *InputState, x, y float64) {
	in.MouseMove(x, y, 0, 0)
	in.SetPickRay(in.Camera().PickRay(x, y))
}

func assertVec(t *testing.T, expected, actual mgl64.Vec3) {
	t.Helper()
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], 1e-6, "component %d of %v", i, actual)
	}
}

func startMove(t *testing.T, d *recordingMoveDelegate, in *InputState, handle mgl64.Vec3) GestureTracker {
	t.Helper()
	tracker := CreateMoveHandleDragTracker(d, in, handle, handle, nil)
	require.NotNil(t, tracker)
	return tracker
}

func TestMoveTracker_RelativeSnapByDefault(t *testing.T) {
	d := &recordingMoveDelegate{grid: geom.NewGrid(4)}
	in := NewInputState(topDownCamera())
	pointAt(in, 101, 99)
	tracker := startMove(t, d, in, mgl64.Vec3{1, 1, 0})

	pointAt(in, 106, 99)
	assert.True(t, tracker.Update(in))
	require.Len(t, d.proposals, 1)
	assertVec(t, mgl64.Vec3{5, 1, 0}, d.proposals[0])
	assert.Equal(t, []SnapMode{SnapRelative}, d.modes)

	tracker.End(in)
	assert.True(t, d.ended)
}

func TestMoveTracker_CtrlSnapsAbsolute(t *testing.T) {
	d := &recordingMoveDelegate{grid: geom.NewGrid(4)}
	in := NewInputState(topDownCamera())
	pointAt(in, 101, 99)
	tracker := startMove(t, d, in, mgl64.Vec3{1, 1, 0})

	in.SetModifierKeys(ModCtrlCmd)
	pointAt(in, 111, 99)
	tracker.Update(in)
	require.Len(t, d.proposals, 1)
	assertVec(t, mgl64.Vec3{12, 0, 0}, d.proposals[0])
	assert.Equal(t, []SnapMode{SnapAbsolute}, d.modes)
}

func TestMoveTracker_ShiftConstrictsToDominantAxis(t *testing.T) {
	d := &recordingMoveDelegate{grid: geom.NewGrid(4)}
	in := NewInputState(topDownCamera())
	pointAt(in, 101, 99)
	tracker := startMove(t, d, in, mgl64.Vec3{1, 1, 0})

	in.SetModifierKeys(ModShift)
	pointAt(in, 110, 96)
	tracker.Update(in)
	require.Len(t, d.proposals, 1)
	assertVec(t, mgl64.Vec3{9, 1, 0}, d.proposals[0])
}

func TestMoveTracker_AltMovesVerticallyInPerspective(t *testing.T) {
	camera := geom.NewPerspectiveCamera(mgl64.Vec3{0, -100, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1}, 90, 200, 200)
	d := &recordingMoveDelegate{grid: geom.NewGrid(4)}
	in := NewInputState(camera)
	pointAt(in, 100, 100)
	tracker := startMove(t, d, in, mgl64.Vec3{0, 0, -8})

	// The horizontal plane lies below the upward ray: no proposal.
	pointAt(in, 100, 60)
	assert.True(t, tracker.Update(in))
	assert.Empty(t, d.proposals)

	in.SetModifierKeys(ModAlt)
	tracker.ModifierKeyChange(in)
	assert.True(t, tracker.Update(in))
	require.Len(t, d.proposals, 1)
	assertVec(t, mgl64.Vec3{0, 0, 40}, d.proposals[0])
}

func TestMoveTracker_Cancel(t *testing.T) {
	d := &recordingMoveDelegate{grid: geom.NewGrid(4)}
	in := NewInputState(topDownCamera())
	pointAt(in, 100, 100)
	tracker := startMove(t, d, in, mgl64.Vec3{})
	tracker.Cancel()
	assert.True(t, d.cancelled)
}

func TestSnapModeOf(t *testing.T) {
	in := NewInputState(nil)
	assert.Equal(t, SnapRelative, SnapModeOf(in))
	in.SetModifierKeys(ModCtrlCmd | ModShift)
	assert.Equal(t, SnapAbsolute, SnapModeOf(in))
}

func TestLasso(t *testing.T) {
	camera := topDownCamera()
	lasso := NewLasso(camera, LassoDistance)
	assert.InDelta(t, -36, lasso.Plane().PointDistance(mgl64.Vec3{}), 1e-9)

	lasso.Update(mgl64.Vec3{-10, -10, 36})
	lasso.Update(mgl64.Vec3{-10, -10, 36})
	lasso.Update(mgl64.Vec3{10, -10, 36})
	assert.False(t, lasso.Contains(mgl64.Vec3{}), "two points enclose nothing")
	lasso.Update(mgl64.Vec3{0, 10, 36})
	assert.Len(t, lasso.Points(), 3)

	assert.True(t, lasso.Contains(mgl64.Vec3{0, 0, 0}))
	assert.True(t, lasso.Contains(mgl64.Vec3{0, 0, -50}))
	assert.False(t, lasso.Contains(mgl64.Vec3{20, 0, 0}))

	batch := render.NewBatch()
	lasso.Render(batch)
	assert.Len(t, batch.WithRole(render.RoleLasso), 1)
}
