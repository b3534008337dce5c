// Package objecttool implements the always-on object tools of a map view:
// moving the selected brushes, extruding a brush face and selecting brushes
// by click.
package objecttool

import (
	"github.com/gekko3d/brushedit/document"
	"github.com/gekko3d/brushedit/pick"
)

const (
	MoveToolName      = "move"
	ExtrudeToolName   = "extrude"
	SelectionToolName = "selection"
)

// Listener is told when an object tool changed the document.
type Listener interface {
	SelectionChanged()
	DocumentChanged()
}

type nopListener struct{}

func (nopListener) SelectionChanged() {}
func (nopListener) DocumentChanged()  {}

func orNop(l Listener) Listener {
	if l == nil {
		return nopListener{}
	}
	return l
}

// brushHit returns the nearest brush face under the pointer.
func brushHit(result *pick.Result) (pick.Hit, document.BrushFace, bool) {
	hit := result.First(pick.TypeFilter(pick.BrushHit))
	if !hit.IsMatch() {
		return hit, document.BrushFace{}, false
	}
	return hit, pick.TargetAs[document.BrushFace](hit), true
}

func findBrush(brushes []document.Brush, id document.BrushID) (document.Brush, bool) {
	for _, b := range brushes {
		if b.ID == id {
			return b, true
		}
	}
	return document.Brush{}, false
}

func selectedIDs(doc document.Document) []document.BrushID {
	brushes := doc.SelectedBrushes()
	ids := make([]document.BrushID, len(brushes))
	for i, b := range brushes {
		ids[i] = b.ID
	}
	return ids
}
