package objecttool

import (
	"github.com/gekko3d/brushedit/document"
	"github.com/gekko3d/brushedit/logging"
	"github.com/gekko3d/brushedit/tool"
)

// SelectionTool selects brushes by clicking them.
type SelectionTool struct {
	tool.Base

	doc      document.Ref
	listener Listener
	log      logging.Logger
}

func NewSelectionTool(doc document.Ref, logger logging.Logger) *SelectionTool {
	t := &SelectionTool{doc: doc, listener: nopListener{}, log: logging.OrNop(logger)}
	t.Base = tool.NewBase(SelectionToolName, true, nil)
	return t
}

func (t *SelectionTool) SetListener(l Listener) {
	t.listener = orNop(l)
}

func (t *SelectionTool) lock() (document.Document, bool) {
	doc, err := t.doc.Lock()
	if err != nil {
		return nil, false
	}
	if doc.EditorContext().BlockSelection {
		t.log.Debugf("selection tool: selection is blocked")
		return nil, false
	}
	return doc, true
}

// Select makes brush the only selected brush.
func (t *SelectionTool) Select(brush document.BrushID) bool {
	doc, ok := t.lock()
	if !ok {
		return false
	}
	changed := doc.SelectBrushes([]document.BrushID{brush}, false)
	if changed {
		t.listener.SelectionChanged()
	}
	return true
}

// Toggle adds brush to the selection or removes it if it is already selected.
func (t *SelectionTool) Toggle(brush document.BrushID) bool {
	doc, ok := t.lock()
	if !ok {
		return false
	}
	var rest []document.BrushID
	found := false
	for _, id := range selectedIDs(doc) {
		if id == brush {
			found = true
			continue
		}
		rest = append(rest, id)
	}
	if found {
		doc.SelectBrushes(rest, false)
	} else {
		doc.SelectBrushes([]document.BrushID{brush}, true)
	}
	t.listener.SelectionChanged()
	return true
}

func (t *SelectionTool) DeselectAll() bool {
	doc, ok := t.lock()
	if !ok {
		return false
	}
	if !doc.DeselectAll() {
		return false
	}
	t.listener.SelectionChanged()
	return true
}

// SelectionController selects on click; Ctrl/Cmd toggles the clicked brush.
// A click into empty space without Ctrl/Cmd clears the selection.
type SelectionController struct {
	tool.NopController
	tool *SelectionTool
}

func NewSelectionController(t *SelectionTool) *SelectionController {
	return &SelectionController{tool: t}
}

func (c *SelectionController) Tool() tool.Tool {
	return c.tool
}

func (c *SelectionController) MouseClick(in *tool.InputState) bool {
	if !in.MouseButtonsPressed(tool.MouseLeft) || !in.CheckModifierKeys(tool.KeyNo, tool.KeyDontCare, tool.KeyNo) {
		return false
	}
	toggle := in.ModifierKeysDown(tool.ModCtrlCmd)
	_, face, ok := brushHit(in.PickResult())
	switch {
	case ok && toggle:
		return c.tool.Toggle(face.Brush)
	case ok:
		return c.tool.Select(face.Brush)
	case !toggle:
		return c.tool.DeselectAll()
	default:
		return false
	}
}

func (c *SelectionController) Cancel() bool {
	return c.tool.DeselectAll()
}

var _ tool.Controller = (*SelectionController)(nil)
