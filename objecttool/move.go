package objecttool

import (
	"github.com/gekko3d/brushedit/document"
	"github.com/gekko3d/brushedit/geom"
	"github.com/gekko3d/brushedit/logging"
	"github.com/gekko3d/brushedit/render"
	"github.com/gekko3d/brushedit/tool"

	"github.com/go-gl/mathgl/mgl64"
)

// MoveObjectsTool translates the selected brushes.
type MoveObjectsTool struct {
	tool.Base

	doc      document.Ref
	listener Listener
	log      logging.Logger

	moving bool
	offset mgl64.Vec3
}

func NewMoveObjectsTool(doc document.Ref, logger logging.Logger) *MoveObjectsTool {
	t := &MoveObjectsTool{doc: doc, listener: nopListener{}, log: logging.OrNop(logger)}
	t.Base = tool.NewBase(MoveToolName, true, nil)
	return t
}

func (t *MoveObjectsTool) SetListener(l Listener) {
	t.listener = orNop(l)
}

func (t *MoveObjectsTool) DocumentValid() bool {
	return t.doc.Valid()
}

func (t *MoveObjectsTool) Grid() geom.Grid {
	doc, err := t.doc.Lock()
	if err != nil {
		return geom.Grid{}
	}
	return doc.Grid()
}

func (t *MoveObjectsTool) Moving() bool {
	return t.moving
}

// Offset is the translation applied since StartMove.
func (t *MoveObjectsTool) Offset() mgl64.Vec3 {
	return t.offset
}

// StartMove selects brush exclusively unless it is already selected and
// opens the move transaction.
func (t *MoveObjectsTool) StartMove(brush document.BrushID) bool {
	doc, err := t.doc.Lock()
	if err != nil {
		return false
	}
	if _, ok := findBrush(doc.SelectedBrushes(), brush); !ok {
		if doc.EditorContext().BlockSelection {
			return false
		}
		doc.SelectBrushes([]document.BrushID{brush}, false)
		t.listener.SelectionChanged()
	}
	doc.StartTransaction("Move Objects")
	t.moving = true
	t.offset = mgl64.Vec3{}
	return true
}

func (t *MoveObjectsTool) Move(delta mgl64.Vec3) bool {
	if !t.moving {
		panic("objecttool: Move called outside a move")
	}
	doc, err := t.doc.Lock()
	if err != nil {
		return false
	}
	if !doc.TransformObjects(mgl64.Translate3D(delta.X(), delta.Y(), delta.Z())) {
		return false
	}
	t.offset = t.offset.Add(delta)
	return true
}

func (t *MoveObjectsTool) EndMove() {
	t.finish(func(doc document.Document) { doc.CommitTransaction() })
}

func (t *MoveObjectsTool) CancelMove() {
	t.finish(func(doc document.Document) { doc.RollbackTransaction() })
}

func (t *MoveObjectsTool) finish(f func(document.Document)) {
	if !t.moving {
		return
	}
	t.moving = false
	t.offset = mgl64.Vec3{}
	doc, err := t.doc.Lock()
	if err != nil {
		t.log.Warnf("move tool: document went away during move")
		return
	}
	f(doc)
	t.listener.DocumentChanged()
}

// MoveController drags the brush under the pointer together with the rest
// of the selection.
type MoveController struct {
	tool.NopController
	tool *MoveObjectsTool
	log  logging.Logger
}

func NewMoveController(t *MoveObjectsTool, logger logging.Logger) *MoveController {
	return &MoveController{tool: t, log: logging.OrNop(logger)}
}

func (c *MoveController) Tool() tool.Tool {
	return c.tool
}

// AcceptMouseDrag needs the left button alone or with Ctrl/Cmd for absolute
// snapping or Alt for vertical movement.
func (c *MoveController) AcceptMouseDrag(in *tool.InputState) tool.GestureTracker {
	if !in.MouseButtonsPressed(tool.MouseLeft) || !in.CheckModifierKeys(tool.KeyNo, tool.KeyDontCare, tool.KeyDontCare) {
		return nil
	}
	hit, face, ok := brushHit(in.PickResult())
	if !ok {
		return nil
	}
	if !c.tool.StartMove(face.Brush) {
		return nil
	}
	return tool.CreateMoveHandleDragTracker(&moveDragDelegate{tool: c.tool}, in, hit.HitPoint, hit.HitPoint, c.log)
}

type moveDragDelegate struct {
	tool *MoveObjectsTool
}

func (d *moveDragDelegate) Move(in *tool.InputState, state tool.DragState, proposed mgl64.Vec3) tool.DragStatus {
	if !d.tool.DocumentValid() {
		return tool.DragCancel
	}
	if !d.tool.Move(proposed.Sub(state.CurrentHandlePosition)) {
		return tool.DragDeny
	}
	return tool.DragContinue
}

func (d *moveDragDelegate) End(in *tool.InputState, state tool.DragState) {
	d.tool.EndMove()
}

func (d *moveDragDelegate) Cancel(state tool.DragState) {
	d.tool.CancelMove()
}

func (d *moveDragDelegate) Render(in *tool.InputState, state tool.DragState, ctx *render.Context, batch *render.Batch) {
	batch.Add(render.NewLine(render.RoleGuide, render.GuideColor, state.InitialHandlePosition, state.CurrentHandlePosition))
}

func (d *moveDragDelegate) MakeDragHandleSnapper(in *tool.InputState, mode tool.SnapMode) tool.HandleSnapper {
	return tool.MakeHandleSnapperFromSnapMode(d.tool.Grid(), mode)
}

var (
	_ tool.Controller   = (*MoveController)(nil)
	_ tool.MoveDelegate = (*moveDragDelegate)(nil)
)
