package vertextool

import (
	"fmt"

	"github.com/gekko3d/brushedit/document"
	"github.com/gekko3d/brushedit/geom"
	"github.com/gekko3d/brushedit/handles"

	"github.com/go-gl/mathgl/mgl64"
)

// MoveResult is a tool's answer to one incremental move.
type MoveResult int

const (
	MoveContinue MoveResult = iota
	MoveDeny
	// MoveCancel stops the drag but keeps the increments applied so far.
	MoveCancel
)

func (r MoveResult) String() string {
	switch r {
	case MoveContinue:
		return "continue"
	case MoveDeny:
		return "deny"
	case MoveCancel:
		return "cancel"
	default:
		return fmt.Sprintf("MoveResult(%d)", int(r))
	}
}

// Strategy holds what differs between the vertex, edge and face tools.
type Strategy interface {
	Kind() handles.Kind
	MoveActionName(count int) string
	RemoveActionName(count int) string
	AllowAbsoluteSnapping() bool
	// Move asks doc to move hs by delta and returns the handles at their new positions.
	Move(doc document.Document, hs []handles.Handle, delta mgl64.Vec3) (MoveResult, []handles.Handle)
}

// StrategyFor returns the strategy of a brush handle kind.
func StrategyFor(kind handles.Kind) Strategy {
	switch kind {
	case handles.KindVertex:
		return vertexStrategy{}
	case handles.KindEdge:
		return edgeStrategy{}
	case handles.KindFace:
		return faceStrategy{}
	default:
		panic(fmt.Sprintf("no vertex tool strategy for %s handles", kind))
	}
}

func plural(count int, one, many string) string {
	if count == 1 {
		return one
	}
	return many
}

func translated(hs []handles.Handle, delta mgl64.Vec3) []handles.Handle {
	out := make([]handles.Handle, len(hs))
	for i, h := range hs {
		out[i] = h.Translate(delta)
	}
	return out
}

type vertexStrategy struct{}

func (vertexStrategy) Kind() handles.Kind { return handles.KindVertex }

func (vertexStrategy) MoveActionName(count int) string {
	return plural(count, "Move Vertex", "Move Vertices")
}

func (vertexStrategy) RemoveActionName(count int) string {
	return plural(count, "Remove Brush Vertex", "Remove Brush Vertices")
}

func (vertexStrategy) AllowAbsoluteSnapping() bool { return true }

// Move reports MoveCancel when every moved vertex was merged into another one.
func (vertexStrategy) Move(doc document.Document, hs []handles.Handle, delta mgl64.Vec3) (MoveResult, []handles.Handle) {
	positions := make([]mgl64.Vec3, len(hs))
	for i, h := range hs {
		positions[i] = h.Position()
	}
	result := doc.MoveVertices(positions, delta)
	if !result.Success {
		return MoveDeny, hs
	}
	if !result.HasRemainingVertices {
		return MoveCancel, nil
	}
	return MoveContinue, translated(hs, delta)
}

type edgeStrategy struct{}

func (edgeStrategy) Kind() handles.Kind { return handles.KindEdge }

func (edgeStrategy) MoveActionName(count int) string {
	return plural(count, "Move Edge", "Move Edges")
}

func (edgeStrategy) RemoveActionName(count int) string {
	return plural(count, "Remove Brush Edge", "Remove Brush Edges")
}

func (edgeStrategy) AllowAbsoluteSnapping() bool { return false }

func (edgeStrategy) Move(doc document.Document, hs []handles.Handle, delta mgl64.Vec3) (MoveResult, []handles.Handle) {
	m := mgl64.Translate3D(delta.X(), delta.Y(), delta.Z())
	segments := make([]geom.Segment, len(hs))
	moved := make([]handles.Handle, len(hs))
	for i, h := range hs {
		segments[i] = h.Segment()
		moved[i] = handles.Edge(h.Segment().Transform(m))
	}
	if !doc.TransformEdges(segments, m) {
		return MoveDeny, hs
	}
	return MoveContinue, moved
}

type faceStrategy struct{}

func (faceStrategy) Kind() handles.Kind { return handles.KindFace }

func (faceStrategy) MoveActionName(count int) string {
	return plural(count, "Move Face", "Move Faces")
}

func (faceStrategy) RemoveActionName(count int) string {
	return plural(count, "Remove Brush Face", "Remove Brush Faces")
}

func (faceStrategy) AllowAbsoluteSnapping() bool { return false }

func (faceStrategy) Move(doc document.Document, hs []handles.Handle, delta mgl64.Vec3) (MoveResult, []handles.Handle) {
	m := mgl64.Translate3D(delta.X(), delta.Y(), delta.Z())
	polygons := make([]geom.Polygon, len(hs))
	moved := make([]handles.Handle, len(hs))
	for i, h := range hs {
		polygons[i] = h.Polygon()
		moved[i] = handles.Face(h.Polygon().Transform(m))
	}
	if !doc.TransformFaces(polygons, m) {
		return MoveDeny, hs
	}
	return MoveContinue, moved
}
