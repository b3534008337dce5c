package vertextool

import (
	"github.com/gekko3d/brushedit/document"
	"github.com/gekko3d/brushedit/handles"
	"github.com/gekko3d/brushedit/logging"
	"github.com/gekko3d/brushedit/pick"
	"github.com/gekko3d/brushedit/render"
	"github.com/gekko3d/brushedit/tool"

	"github.com/go-gl/mathgl/mgl64"
)

// NewController returns the controller of t: the move part followed by the select part.
func NewController(t *Tool, logger logging.Logger) *tool.Group {
	return tool.NewGroup(t, NewMovePart(t, logger), NewSelectPart(t, logger))
}

// SelectPart selects handles by click and by lasso.
type SelectPart struct {
	tool.NopController
	tool *Tool
	log  logging.Logger
}

func NewSelectPart(t *Tool, logger logging.Logger) *SelectPart {
	return &SelectPart{tool: t, log: logging.OrNop(logger)}
}

func (p *SelectPart) Tool() tool.Tool {
	return p.tool
}

func (p *SelectPart) Pick(in *tool.InputState, result *pick.Result) {
	p.tool.Pick(in.PickRay(), in.Camera(), result)
}

// MouseClick selects the first-hit group; Ctrl/Cmd adds to the selection.
// A click that hits no handle clears the handle selection.
func (p *SelectPart) MouseClick(in *tool.InputState) bool {
	if !in.MouseButtonsPressed(tool.MouseLeft) || !in.CheckModifierKeys(tool.KeyNo, tool.KeyDontCare, tool.KeyNo) {
		return false
	}
	hits := p.FirstHits(in.PickResult())
	if len(hits) == 0 {
		return p.tool.DeselectAll()
	}
	return p.tool.Select(hits, in.ModifierKeysPressed(tool.ModCtrlCmd))
}

// FirstHits returns the nearest handle hit together with every hit on a
// coincident handle, skipping handles whose brushes were already counted.
func (p *SelectPart) FirstHits(result *pick.Result) []pick.Hit {
	hitType := p.tool.Manager().HitType()
	first := result.First(pick.TypeFilter(hitType))
	if !first.IsMatch() {
		return nil
	}
	firstHandle := pick.TargetAs[handles.Handle](first)

	var out []pick.Hit
	visited := make(map[document.BrushID]bool)
	for _, hit := range result.All(pick.TypeFilter(hitType)) {
		h := pick.TargetAs[handles.Handle](hit)
		if !h.Coincident(firstHandle, p.tool.Config().MaxHandleDistance) {
			continue
		}
		fresh := true
		for _, id := range p.tool.Manager().IncidentBrushes(h) {
			if visited[id] {
				fresh = false
			}
			visited[id] = true
		}
		if fresh {
			out = append(out, hit)
		}
	}
	return out
}

// AcceptMouseDrag starts a lasso when the pointer is over no handle.
func (p *SelectPart) AcceptMouseDrag(in *tool.InputState) tool.GestureTracker {
	if !in.MouseButtonsPressed(tool.MouseLeft) || !in.CheckModifierKeys(tool.KeyNo, tool.KeyDontCare, tool.KeyNo) {
		return nil
	}
	if !in.PickResult().First(pick.TypeFilter(p.tool.Manager().HitType())).IsMatch() {
		lasso := tool.NewLasso(in.Camera(), p.tool.Config().LassoDistance)
		distance, ok := lasso.Plane().IntersectRay(in.PickRay())
		if !ok {
			return nil
		}
		initial := in.PickRay().PointAt(distance)
		return tool.CreateHandleDragTracker(&LassoDragDelegate{tool: p.tool, lasso: lasso}, in, initial, initial, p.log)
	}
	return nil
}

func (p *SelectPart) SetRenderOptions(in *tool.InputState, ctx *render.Context) {
	ctx.SetForceHideSelectionGuide()
}

func (p *SelectPart) Render(in *tool.InputState, ctx *render.Context, batch *render.Batch) {
	p.tool.RenderHandles(batch)
	if in.AnyToolDragging() {
		return
	}
	hit := in.PickResult().First(pick.TypeFilter(p.tool.Manager().HitType()))
	if !hit.IsMatch() {
		return
	}
	h := pick.TargetAs[handles.Handle](hit)
	p.tool.RenderHighlight(batch, h)
	if p.tool.Manager().Selected(h) {
		p.tool.RenderGuide(batch, h.Position())
	}
}

func (p *SelectPart) Cancel() bool {
	return p.tool.DeselectAll()
}

// LassoDragDelegate grows a lasso during the drag and selects what it encloses on release.
type LassoDragDelegate struct {
	tool  *Tool
	lasso *tool.Lasso
}

func (d *LassoDragDelegate) Start(in *tool.InputState, initialHandlePosition, handleOffset mgl64.Vec3) tool.HandlePositionProposer {
	d.lasso.Update(initialHandlePosition)
	return tool.MakeHandlePositionProposer(
		tool.MakePlaneHandlePicker(d.lasso.Plane(), handleOffset),
		tool.MakeIdentityHandleSnapper(),
	)
}

func (d *LassoDragDelegate) Update(in *tool.InputState, state tool.DragState, proposed mgl64.Vec3) tool.DragStatus {
	d.lasso.Update(proposed)
	return tool.DragContinue
}

// End selects with the additive flag taken from Ctrl/Cmd at release.
func (d *LassoDragDelegate) End(in *tool.InputState, state tool.DragState) {
	d.tool.SelectLasso(d.lasso, in.ModifierKeysDown(tool.ModCtrlCmd))
}

func (d *LassoDragDelegate) Cancel(state tool.DragState) {}

func (d *LassoDragDelegate) Render(in *tool.InputState, state tool.DragState, ctx *render.Context, batch *render.Batch) {
	d.lasso.Render(batch)
}

// MovePart drags the handles under the pointer.
type MovePart struct {
	tool.NopController
	tool *Tool
	log  logging.Logger
}

func NewMovePart(t *Tool, logger logging.Logger) *MovePart {
	return &MovePart{tool: t, log: logging.OrNop(logger)}
}

func (p *MovePart) Tool() tool.Tool {
	return p.tool
}

// AcceptMouseDrag requires the left button with no modifier or Alt alone.
func (p *MovePart) AcceptMouseDrag(in *tool.InputState) tool.GestureTracker {
	if !in.MouseButtonsPressed(tool.MouseLeft) {
		return nil
	}
	if !in.ModifierKeysPressed(tool.ModNone) && !in.ModifierKeysPressed(tool.ModAlt) {
		return nil
	}
	hits := in.PickResult().All(pick.TypeFilter(p.tool.Manager().HitType()))
	if len(hits) == 0 {
		return nil
	}
	if !p.tool.StartMove(hits) {
		return nil
	}
	hit := p.tool.FindDraggableHandle(hits)
	handlePosition, hitPoint := p.tool.HandlePositionAndHitPoint([]pick.Hit{hit})
	return tool.CreateMoveHandleDragTracker(&MoveDragDelegate{tool: p.tool}, in, handlePosition, hitPoint, p.log)
}

func (p *MovePart) Cancel() bool {
	return p.tool.DeselectAll()
}

// MoveDragDelegate forwards incremental deltas to the tool.
type MoveDragDelegate struct {
	tool *Tool
}

func (d *MoveDragDelegate) Move(in *tool.InputState, state tool.DragState, proposed mgl64.Vec3) tool.DragStatus {
	if !d.tool.DocumentValid() {
		return tool.DragCancel
	}
	switch d.tool.Move(proposed.Sub(state.CurrentHandlePosition)) {
	case MoveContinue:
		return tool.DragContinue
	case MoveDeny:
		return tool.DragDeny
	default:
		// Increments applied so far stay in the document.
		return tool.DragEnd
	}
}

func (d *MoveDragDelegate) End(in *tool.InputState, state tool.DragState) {
	d.tool.EndMove()
}

func (d *MoveDragDelegate) Cancel(state tool.DragState) {
	d.tool.CancelMove()
}

func (d *MoveDragDelegate) Render(in *tool.InputState, state tool.DragState, ctx *render.Context, batch *render.Batch) {
	d.tool.RenderDragHandle(batch)
}

func (d *MoveDragDelegate) SetRenderOptions(in *tool.InputState, ctx *render.Context) {
	ctx.SetForceHideSelectionGuide()
}

// MakeDragHandleSnapper honours absolute snapping only where the tool allows it.
func (d *MoveDragDelegate) MakeDragHandleSnapper(in *tool.InputState, mode tool.SnapMode) tool.HandleSnapper {
	if !d.tool.AllowAbsoluteSnapping() {
		mode = tool.SnapRelative
	}
	return tool.MakeHandleSnapperFromSnapMode(d.tool.Grid(), mode)
}

var (
	_ tool.MoveDelegate       = (*MoveDragDelegate)(nil)
	_ tool.HandleDragDelegate = (*LassoDragDelegate)(nil)
)
