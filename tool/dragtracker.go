package tool

import (
	"time"

	"github.com/gekko3d/brushedit/logging"
	"github.com/gekko3d/brushedit/render"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// DragState is the per-drag record kept by a HandleDragTracker.
type DragState struct {
	ID                    string
	InitialHandlePosition mgl64.Vec3
	CurrentHandlePosition mgl64.Vec3
	HandleOffset          mgl64.Vec3
	StartedAt             time.Time
}

// Delta is the accumulated movement since the drag started.
func (s DragState) Delta() mgl64.Vec3 {
	return s.CurrentHandlePosition.Sub(s.InitialHandlePosition)
}

// DragStatus is the answer of a delegate to a proposed handle position.
type DragStatus int

const (
	// DragContinue accepts the proposal and advances the current handle position.
	DragContinue DragStatus = iota
	// DragDeny rejects the proposal; the drag continues unchanged.
	DragDeny
	// DragEnd finishes the drag as if the pointer was released.
	DragEnd
	// DragCancel finishes the drag and cancels it, e.g. when the document went away.
	DragCancel
)

func (s DragStatus) String() string {
	switch s {
	case DragContinue:
		return "continue"
	case DragDeny:
		return "deny"
	case DragEnd:
		return "end"
	case DragCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// HandleDragDelegate supplies the behavior of a HandleDragTracker.
type HandleDragDelegate interface {
	// Start returns the proposer for this drag, or nil to refuse it.
	Start(in *InputState, initialHandlePosition, handleOffset mgl64.Vec3) HandlePositionProposer
	Update(in *InputState, state DragState, proposed mgl64.Vec3) DragStatus
	End(in *InputState, state DragState)
	Cancel(state DragState)
	Render(in *InputState, state DragState, ctx *render.Context, batch *render.Batch)
}

// ModifierKeyChangeDelegate is implemented by delegates that switch
// proposers when modifiers change. Returning nil keeps the current proposer;
// a non-nil result replaces it and rebases the drag state.
type ModifierKeyChangeDelegate interface {
	ModifierKeyChange(in *InputState, state DragState) (HandlePositionProposer, DragState)
}

type RenderOptionsDelegate interface {
	SetRenderOptions(in *InputState, ctx *render.Context)
}

// HandleDragTracker drives a drag of a single handle position.
type HandleDragTracker struct {
	delegate  HandleDragDelegate
	proposer  HandlePositionProposer
	state     DragState
	cancelled bool
	log       logging.Logger
}

// CreateHandleDragTracker starts a drag at initialHandlePosition. The
// handle offset is the vector from the initial hit point to the handle.
// Returns nil when the delegate refuses the drag.
func CreateHandleDragTracker(delegate HandleDragDelegate, in *InputState, initialHandlePosition, initialHitPoint mgl64.Vec3, logger logging.Logger) GestureTracker {
	offset := initialHandlePosition.Sub(initialHitPoint)
	proposer := delegate.Start(in, initialHandlePosition, offset)
	if proposer == nil {
		return nil
	}
	t := &HandleDragTracker{
		delegate: delegate,
		proposer: proposer,
		state: DragState{
			ID:                    uuid.NewString(),
			InitialHandlePosition: initialHandlePosition,
			CurrentHandlePosition: initialHandlePosition,
			HandleOffset:          offset,
			StartedAt:             time.Now(),
		},
		log: logging.OrNop(logger),
	}
	t.log.Debugf("drag %s started at %v", t.state.ID, initialHandlePosition)
	return t
}

func (t *HandleDragTracker) State() DragState {
	return t.state
}

func (t *HandleDragTracker) ModifierKeyChange(in *InputState) {
	d, ok := t.delegate.(ModifierKeyChangeDelegate)
	if !ok {
		return
	}
	proposer, state := d.ModifierKeyChange(in, t.state)
	if proposer == nil {
		return
	}
	t.proposer = proposer
	t.state = state
}

func (t *HandleDragTracker) MouseScroll(*InputState) {}

func (t *HandleDragTracker) Update(in *InputState) bool {
	proposed, ok := t.proposer(in, t.state)
	if !ok || proposed == t.state.CurrentHandlePosition {
		return true
	}
	switch status := t.delegate.Update(in, t.state, proposed); status {
	case DragContinue:
		t.state.CurrentHandlePosition = proposed
		return true
	case DragDeny:
		return true
	case DragEnd:
		return false
	case DragCancel:
		t.cancelled = true
		return false
	default:
		panic("tool: unknown drag status " + status.String())
	}
}

func (t *HandleDragTracker) End(in *InputState) {
	if t.cancelled {
		t.log.Debugf("drag %s cancelled by delegate", t.state.ID)
		t.delegate.Cancel(t.state)
		return
	}
	t.log.Debugf("drag %s ended with delta %v", t.state.ID, t.state.Delta())
	t.delegate.End(in, t.state)
}

func (t *HandleDragTracker) Cancel() {
	t.log.Debugf("drag %s cancelled", t.state.ID)
	t.delegate.Cancel(t.state)
}

func (t *HandleDragTracker) SetRenderOptions(in *InputState, ctx *render.Context) {
	if d, ok := t.delegate.(RenderOptionsDelegate); ok {
		d.SetRenderOptions(in, ctx)
	}
}

func (t *HandleDragTracker) Render(in *InputState, ctx *render.Context, batch *render.Batch) {
	t.delegate.Render(in, t.state, ctx, batch)
}
