// Package document defines the map document the editing tools mutate. The document is an
// external collaborator: tools reach it only through a Ref and never keep it between calls.
package document

import (
	"errors"

	"github.com/gekko3d/brushedit/geom"
	"github.com/gekko3d/brushedit/pick"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

var ErrStale = errors.New("document: reference is no longer valid")

type BrushID string

func NewBrushID() BrushID {
	return BrushID(uuid.NewString())
}

// Brush is a snapshot of a convex brush. Faces index into Vertices, counter-clockwise when
// seen from outside.
type Brush struct {
	ID       BrushID
	Vertices []mgl64.Vec3
	Faces    [][]int
}

func (b Brush) Clone() Brush {
	out := Brush{ID: b.ID, Vertices: append([]mgl64.Vec3(nil), b.Vertices...)}
	out.Faces = make([][]int, len(b.Faces))
	for i, f := range b.Faces {
		out.Faces[i] = append([]int(nil), f...)
	}
	return out
}

// Edges returns every edge once, in face order.
func (b Brush) Edges() []geom.Segment {
	seen := make(map[[2]int]bool)
	var out []geom.Segment
	for _, f := range b.Faces {
		for i := range f {
			a, c := f[i], f[(i+1)%len(f)]
			key := [2]int{min(a, c), max(a, c)}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, geom.Segment{Start: b.Vertices[a], End: b.Vertices[c]})
		}
	}
	return out
}

func (b Brush) FacePolygon(i int) geom.Polygon {
	f := b.Faces[i]
	pts := make([]mgl64.Vec3, len(f))
	for j, idx := range f {
		pts[j] = b.Vertices[idx]
	}
	return geom.Polygon{Vertices: pts}
}

func (b Brush) FacePolygons() []geom.Polygon {
	out := make([]geom.Polygon, len(b.Faces))
	for i := range b.Faces {
		out[i] = b.FacePolygon(i)
	}
	return out
}

func (b Brush) Bounds() geom.Bounds {
	return geom.BoundsOf(b.Vertices)
}

func (b Brush) HasVertex(p mgl64.Vec3) bool {
	return b.vertexIndex(p) >= 0
}

func (b Brush) vertexIndex(p mgl64.Vec3) int {
	for i, v := range b.Vertices {
		if geom.ApproxEqual(v, p, geom.Epsilon) {
			return i
		}
	}
	return -1
}

// BrushFace is the target of a BrushHit.
type BrushFace struct {
	Brush BrushID
	Face  int
}

type MoveVerticesResult struct {
	Success bool
	// HasRemainingVertices is false when every moved vertex was merged away.
	HasRemainingVertices bool
}

// EditorContext carries editor-wide flags derived from the tool state.
type EditorContext struct {
	BlockSelection bool
}

type Document interface {
	Grid() geom.Grid
	EditorContext() *EditorContext

	SelectedBrushes() []Brush
	SelectBrushes(ids []BrushID, additive bool) bool
	DeselectAll() bool
	SelectionBounds() (geom.Bounds, bool)
	Pick(ray geom.Ray, result *pick.Result)

	StartTransaction(name string)
	CommitTransaction()
	RollbackTransaction()

	MoveVertices(positions []mgl64.Vec3, delta mgl64.Vec3) MoveVerticesResult
	TransformEdges(edges []geom.Segment, m mgl64.Mat4) bool
	TransformFaces(faces []geom.Polygon, m mgl64.Mat4) bool
	TransformObjects(m mgl64.Mat4) bool
	RemoveVertices(commandName string, positions []mgl64.Vec3)
}

type refCell struct {
	doc Document
}

// Ref is a non-owning handle to a document. The owner invalidates every copy at once by
// calling the release function returned from NewRef.
type Ref struct {
	cell *refCell
}

func NewRef(doc Document) (Ref, func()) {
	cell := &refCell{doc: doc}
	return Ref{cell: cell}, func() { cell.doc = nil }
}

func (r Ref) Valid() bool {
	return r.cell != nil && r.cell.doc != nil
}

// Lock returns the document for the duration of one operation.
func (r Ref) Lock() (Document, error) {
	if !r.Valid() {
		return nil, ErrStale
	}
	return r.cell.doc, nil
}
