// Package vertextool implements the vertex, edge and face editing tools. The
// three tools share one implementation and differ by their Strategy.
package vertextool

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

type Config struct {
	// HandleRadius is the pick and draw radius of a handle in pixels.
	HandleRadius float64
	// MaxHandleDistance is the distance below which two handles count as the same.
	MaxHandleDistance float64
	LassoDistance     float64
}

func DefaultConfig() Config {
	return Config{HandleRadius: 3, MaxHandleDistance: 0.25, LassoDistance: tool.LassoDistance}
}

// Tool edits the brush handles of one kind on the selected brushes.
type Tool struct {
	tool.Base

	strategy Strategy
	doc      document.Ref
	manager  *handles.Manager
	config   Config
	log      logging.Logger

	dragging           bool
	dragHandlePosition mgl64.Vec3
	dragSelection      []handles.Handle
}

func New(kind handles.Kind, doc document.Ref, config Config, logger logging.Logger) *Tool {
	strategy := StrategyFor(kind)
	t := &Tool{
		strategy: strategy,
		doc:      doc,
		manager:  handles.NewManager(kind),
		config:   config,
		log:      logging.OrNop(logger),
	}
	t.Base = tool.NewBase(kind.String(), false, t)
	return t
}

func (t *Tool) Kind() handles.Kind {
	return t.strategy.Kind()
}

func (t *Tool) Manager() *handles.Manager {
	return t.manager
}

func (t *Tool) Config() Config {
	return t.config
}

func (t *Tool) DocumentValid() bool {
	return t.doc.Valid()
}

func (t *Tool) DoActivate() bool {
	if !t.doc.Valid() {
		t.log.Warnf("%s tool: cannot activate without a document", t.Name())
		return false
	}
	t.Refresh()
	return true
}

// DoDeactivate rolls back a move that is still open.
func (t *Tool) DoDeactivate() bool {
	t.CancelMove()
	t.manager.Clear()
	return true
}

// Refresh rebuilds the handles from the selected brushes, keeping the
// selection of handles that still exist.
func (t *Tool) Refresh() {
	doc, err := t.doc.Lock()
	if err != nil {
		t.manager.Clear()
		return
	}
	t.manager.Rebuild(doc.SelectedBrushes(), t.manager.SelectedHandles())
}

func (t *Tool) Pick(ray geom.Ray, camera *geom.Camera, result *pick.Result) {
	t.manager.Pick(ray, camera, t.config.HandleRadius, result)
}

// Select selects the handles of hits.
func (t *Tool) Select(hits []pick.Hit, additive bool) bool {
	return t.manager.Select(hits, additive)
}

// SelectLasso selects the handles that project into the lasso.
func (t *Tool) SelectLasso(lasso *tool.Lasso, additive bool) bool {
	inside := t.manager.Inside(func(h handles.Handle) bool {
		return lasso.Contains(h.Position())
	})
	return t.manager.SelectHandles(inside, additive)
}

func (t *Tool) DeselectAll() bool {
	return t.manager.DeselectAll()
}

// FindIncidentBrushes returns the brushes contributing any of hs, without duplicates.
func (t *Tool) FindIncidentBrushes(hs []handles.Handle) []document.BrushID {
	seen := make(map[document.BrushID]bool)
	var out []document.BrushID
	for _, h := range hs {
		for _, id := range t.manager.IncidentBrushes(h) {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// HandlePositionAndHitPoint returns where the first hit's handle sits and where the ray hit it.
func (t *Tool) HandlePositionAndHitPoint(hits []pick.Hit) (mgl64.Vec3, mgl64.Vec3) {
	if len(hits) == 0 {
		panic("vertextool: no hits to take a handle position from")
	}
	h := t.manager.HandlesOf(hits[:1])[0]
	return h.Position(), hits[0].HitPoint
}

// FindDraggableHandle returns the first hit on a selected handle, or the first hit.
func (t *Tool) FindDraggableHandle(hits []pick.Hit) pick.Hit {
	for _, hit := range hits {
		if h := t.manager.HandlesOf([]pick.Hit{hit})[0]; t.manager.Selected(h) {
			return hit
		}
	}
	if len(hits) == 0 {
		return pick.NoHit
	}
	return hits[0]
}

func (t *Tool) AllowAbsoluteSnapping() bool {
	return t.strategy.AllowAbsoluteSnapping()
}

// Grid returns the document grid, or no grid when the document is gone.
func (t *Tool) Grid() geom.Grid {
	doc, err := t.doc.Lock()
	if err != nil {
		return geom.Grid{}
	}
	return doc.Grid()
}

func (t *Tool) Dragging() bool {
	return t.dragging
}

func (t *Tool) DragHandlePosition() mgl64.Vec3 {
	return t.dragHandlePosition
}

// StartMove prepares a drag of the handles of hits. Unless one of them is
// already selected they replace the selection. A document transaction stays
// open until EndMove or CancelMove.
func (t *Tool) StartMove(hits []pick.Hit) bool {
	if len(hits) == 0 {
		panic("vertextool: StartMove needs at least one hit")
	}
	doc, err := t.doc.Lock()
	if err != nil {
		t.log.Warnf("%s tool: refusing move: %v", t.Name(), err)
		return false
	}
	hs := t.manager.HandlesOf(hits)
	anySelected := false
	for _, h := range hs {
		if t.manager.Selected(h) {
			anySelected = true
			break
		}
	}
	if !anySelected {
		t.manager.SelectHandles(hs, false)
	}

	t.dragSelection = t.manager.SelectedHandles()
	if len(t.dragSelection) == 0 {
		return false
	}
	doc.StartTransaction(t.strategy.MoveActionName(len(t.dragSelection)))
	t.dragging = true
	t.dragHandlePosition, _ = t.HandlePositionAndHitPoint([]pick.Hit{t.FindDraggableHandle(hits)})
	t.log.Debugf("%s tool: moving %d handles", t.Name(), len(t.dragSelection))
	return true
}

// Move moves the selected handles by delta.
func (t *Tool) Move(delta mgl64.Vec3) MoveResult {
	doc, err := t.doc.Lock()
	if err != nil {
		t.log.Warnf("%s tool: move refused: %v", t.Name(), err)
		return MoveDeny
	}
	result, moved := t.strategy.Move(doc, t.manager.SelectedHandles(), delta)
	switch result {
	case MoveContinue:
		t.manager.Rebuild(doc.SelectedBrushes(), moved)
		t.dragHandlePosition = t.dragHandlePosition.Add(delta)
	case MoveCancel:
		t.manager.Rebuild(doc.SelectedBrushes(), moved)
	case MoveDeny:
		t.log.Debugf("%s tool: document denied move by %v", t.Name(), delta)
	}
	return result
}

func (t *Tool) EndMove() {
	t.finishMove(func(doc document.Document) { doc.CommitTransaction() })
}

// CancelMove rolls back every increment since StartMove and restores the selection.
func (t *Tool) CancelMove() {
	selection := t.dragSelection
	t.finishMove(func(doc document.Document) {
		doc.RollbackTransaction()
		t.manager.Rebuild(doc.SelectedBrushes(), selection)
	})
}

func (t *Tool) finishMove(f func(document.Document)) {
	if !t.dragging {
		return
	}
	t.dragging = false
	t.dragSelection = nil
	doc, err := t.doc.Lock()
	if err != nil {
		t.log.Warnf("%s tool: document went away during move", t.Name())
		t.manager.Clear()
		return
	}
	f(doc)
}

// MoveSelection moves the selected handles by delta as a single undoable
// step, e.g. for keyboard nudging.
func (t *Tool) MoveSelection(delta mgl64.Vec3) MoveResult {
	if !t.manager.AnySelected() {
		return MoveDeny
	}
	doc, err := t.doc.Lock()
	if err != nil {
		return MoveDeny
	}
	doc.StartTransaction(t.strategy.MoveActionName(t.manager.SelectedCount()))
	result := t.Move(delta)
	if result == MoveDeny {
		doc.RollbackTransaction()
	} else {
		doc.CommitTransaction()
	}
	return result
}

// RemoveSelection removes the vertices of the selected handles.
func (t *Tool) RemoveSelection() bool {
	selected := t.manager.SelectedHandles()
	if len(selected) == 0 {
		return false
	}
	doc, err := t.doc.Lock()
	if err != nil {
		return false
	}
	var positions []mgl64.Vec3
	seen := make(map[handles.Key]bool)
	for _, h := range selected {
		for _, p := range h.Points {
			v := handles.Vertex(p)
			if !seen[v.Key()] {
				seen[v.Key()] = true
				positions = append(positions, p)
			}
		}
	}
	doc.RemoveVertices(t.strategy.RemoveActionName(len(selected)), positions)
	t.manager.Rebuild(doc.SelectedBrushes(), nil)
	return true
}

func (t *Tool) RenderHandles(batch *render.Batch) {
	for _, h := range t.manager.All() {
		if t.manager.Selected(h) {
			renderHandle(batch, h, render.RoleSelectedHandle, render.SelectedHandleColor, t.config.HandleRadius)
		} else {
			renderHandle(batch, h, render.RoleHandle, render.HandleColor, t.config.HandleRadius)
		}
	}
}

func (t *Tool) RenderHighlight(batch *render.Batch, h handles.Handle) {
	renderHandle(batch, h, render.RoleHighlight, render.HighlightColor, t.config.HandleRadius*1.5)
}

// RenderGuide draws axis lines through position across the selection bounds.
func (t *Tool) RenderGuide(batch *render.Batch, position mgl64.Vec3) {
	doc, err := t.doc.Lock()
	if err != nil {
		return
	}
	bounds, ok := doc.SelectionBounds()
	if !ok {
		return
	}
	bounds = bounds.Merge(position)
	colors := [3]render.Color{render.XAxisColor, render.YAxisColor, render.ZAxisColor}
	for axis := 0; axis < 3; axis++ {
		start, end := position, position
		start[axis] = bounds.Min[axis]
		end[axis] = bounds.Max[axis]
		batch.Add(render.NewLine(render.RoleGuide, colors[axis], start, end))
	}
}

func (t *Tool) RenderDragHandle(batch *render.Batch) {
	batch.Add(render.NewPoint(render.RoleDragHandle, render.SelectedHandleColor, t.dragHandlePosition, t.config.HandleRadius*1.5))
	t.RenderGuide(batch, t.dragHandlePosition)
}

func renderHandle(batch *render.Batch, h handles.Handle, role render.Role, color render.Color, radius float64) {
	switch h.Kind {
	case handles.KindEdge:
		s := h.Segment()
		batch.Add(render.NewLine(role, color, s.Start, s.End))
	case handles.KindFace:
		batch.Add(render.NewPolygon(role, color, h.Points))
	}
	batch.Add(render.NewPoint(role, color, h.Position(), radius))
}
