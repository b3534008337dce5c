package document

import (
	"fmt"
	"math"

	"github.com/gekko3d/brushedit/geom"
	"github.com/gekko3d/brushedit/pick"

	"github.com/go-gl/mathgl/mgl64"
)

type OperationKind string

const (
	OpMoveVertices     OperationKind = "move-vertices"
	OpTransformEdges   OperationKind = "transform-edges"
	OpTransformFaces   OperationKind = "transform-faces"
	OpTransformObjects OperationKind = "transform-objects"
	OpRemoveVertices   OperationKind = "remove-vertices"
)

// Operation records one mutation attempt against a Memory document.
type Operation struct {
	Kind     OperationKind
	Name     string
	Delta    mgl64.Vec3
	Matrix   mgl64.Mat4
	Accepted bool
}

type snapshot struct {
	name     string
	order    []BrushID
	brushes  map[BrushID]Brush
	selected map[BrushID]bool
}

// Memory is an in-memory Document. It is not safe for concurrent use.
type Memory struct {
	grid     geom.Grid
	context  EditorContext
	order    []BrushID
	brushes  map[BrushID]Brush
	selected map[BrushID]bool

	transactions []snapshot
	operations   []Operation
	history      []string
}

func NewMemory(grid geom.Grid) *Memory {
	return &Memory{
		grid:     grid,
		brushes:  make(map[BrushID]Brush),
		selected: make(map[BrushID]bool),
	}
}

// NewCuboid returns an axis aligned box brush with a fresh ID.
func NewCuboid(minP, maxP mgl64.Vec3) Brush {
	x0, y0, z0 := minP.X(), minP.Y(), minP.Z()
	x1, y1, z1 := maxP.X(), maxP.Y(), maxP.Z()
	return Brush{
		ID: NewBrushID(),
		Vertices: []mgl64.Vec3{
			{x0, y0, z0}, {x1, y0, z0}, {x1, y1, z0}, {x0, y1, z0},
			{x0, y0, z1}, {x1, y0, z1}, {x1, y1, z1}, {x0, y1, z1},
		},
		Faces: [][]int{
			{0, 3, 2, 1}, // bottom
			{4, 5, 6, 7}, // top
			{0, 1, 5, 4}, // front
			{2, 3, 7, 6}, // back
			{1, 2, 6, 5}, // right
			{3, 0, 4, 7}, // left
		},
	}
}

func (m *Memory) AddBrush(b Brush) BrushID {
	if b.ID == "" {
		b.ID = NewBrushID()
	}
	if _, ok := m.brushes[b.ID]; ok {
		panic(fmt.Sprintf("brush %s is already in the document", b.ID))
	}
	m.order = append(m.order, b.ID)
	m.brushes[b.ID] = b.Clone()
	return b.ID
}

func (m *Memory) Brush(id BrushID) (Brush, bool) {
	b, ok := m.brushes[id]
	if !ok {
		return Brush{}, false
	}
	return b.Clone(), true
}

func (m *Memory) Brushes() []Brush {
	out := make([]Brush, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.brushes[id].Clone())
	}
	return out
}

// Operations returns the mutation log, including rejected attempts.
func (m *Memory) Operations() []Operation {
	return append([]Operation(nil), m.operations...)
}

// History returns the names of committed top level transactions and commands.
func (m *Memory) History() []string {
	return append([]string(nil), m.history...)
}

func (m *Memory) InTransaction() bool {
	return len(m.transactions) > 0
}

func (m *Memory) Grid() geom.Grid {
	return m.grid
}

func (m *Memory) SetGrid(g geom.Grid) {
	m.grid = g
}

func (m *Memory) EditorContext() *EditorContext {
	return &m.context
}

func (m *Memory) SelectedBrushes() []Brush {
	var out []Brush
	for _, id := range m.order {
		if m.selected[id] {
			out = append(out, m.brushes[id].Clone())
		}
	}
	return out
}

func (m *Memory) SelectBrushes(ids []BrushID, additive bool) bool {
	changed := false
	if !additive {
		changed = m.DeselectAll()
	}
	for _, id := range ids {
		if _, ok := m.brushes[id]; !ok {
			continue
		}
		if !m.selected[id] {
			m.selected[id] = true
			changed = true
		}
	}
	return changed
}

func (m *Memory) DeselectAll() bool {
	if len(m.selected) == 0 {
		return false
	}
	m.selected = make(map[BrushID]bool)
	return true
}

func (m *Memory) SelectionBounds() (geom.Bounds, bool) {
	var pts []mgl64.Vec3
	for _, b := range m.SelectedBrushes() {
		pts = append(pts, b.Vertices...)
	}
	if len(pts) == 0 {
		return geom.Bounds{}, false
	}
	return geom.BoundsOf(pts), true
}

func (m *Memory) Pick(ray geom.Ray, result *pick.Result) {
	for _, id := range m.order {
		b := m.brushes[id]
		for i := range b.Faces {
			if d, ok := geom.IntersectRayPolygon(ray, b.FacePolygon(i)); ok {
				result.AddHit(pick.NewHit(pick.BrushHit, d, ray.PointAt(d), BrushFace{Brush: id, Face: i}, 0))
			}
		}
	}
}

func (m *Memory) StartTransaction(name string) {
	s := snapshot{
		name:     name,
		order:    append([]BrushID(nil), m.order...),
		brushes:  make(map[BrushID]Brush, len(m.brushes)),
		selected: make(map[BrushID]bool, len(m.selected)),
	}
	for id, b := range m.brushes {
		s.brushes[id] = b.Clone()
	}
	for id := range m.selected {
		s.selected[id] = true
	}
	m.transactions = append(m.transactions, s)
}

func (m *Memory) CommitTransaction() {
	if len(m.transactions) == 0 {
		panic("commit without an open transaction")
	}
	top := m.transactions[len(m.transactions)-1]
	m.transactions = m.transactions[:len(m.transactions)-1]
	if len(m.transactions) == 0 {
		m.history = append(m.history, top.name)
	}
}

func (m *Memory) RollbackTransaction() {
	if len(m.transactions) == 0 {
		panic("rollback without an open transaction")
	}
	top := m.transactions[len(m.transactions)-1]
	m.transactions = m.transactions[:len(m.transactions)-1]
	m.order = top.order
	m.brushes = top.brushes
	m.selected = top.selected
}

func (m *Memory) record(op Operation) {
	m.operations = append(m.operations, op)
	if op.Accepted && op.Kind != OpRemoveVertices && len(m.transactions) == 0 {
		m.history = append(m.history, string(op.Kind))
	}
}

func (m *Memory) MoveVertices(positions []mgl64.Vec3, delta mgl64.Vec3) MoveVerticesResult {
	op := Operation{Kind: OpMoveVertices, Delta: delta}
	updated := make(map[BrushID]Brush)
	remaining := false
	for _, b := range m.SelectedBrushes() {
		moved := make(map[int]bool)
		for _, p := range positions {
			if i := b.vertexIndex(p); i >= 0 {
				moved[i] = true
			}
		}
		if len(moved) == 0 {
			continue
		}
		for i := range moved {
			b.Vertices[i] = b.Vertices[i].Add(delta)
		}
		merged, survivors, ok := mergeMovedVertices(b, moved)
		if !ok {
			m.record(op)
			return MoveVerticesResult{}
		}
		if survivors > 0 {
			remaining = true
		}
		updated[b.ID] = merged
	}
	if len(updated) == 0 {
		m.record(op)
		return MoveVerticesResult{}
	}

	for id, b := range updated {
		m.brushes[id] = b
	}
	op.Accepted = true
	m.record(op)
	return MoveVerticesResult{Success: true, HasRemainingVertices: remaining}
}

// mergeMovedVertices folds every moved vertex that landed on an unmoved one into it and
// reports how many moved vertices survived on their own.
func mergeMovedVertices(b Brush, moved map[int]bool) (Brush, int, bool) {
	n := len(b.Vertices)
	target := make([]int, n)
	for i := range target {
		target[i] = i
	}
	for i := range moved {
		for j := 0; j < n; j++ {
			if moved[j] {
				continue
			}
			if geom.ApproxEqual(b.Vertices[i], b.Vertices[j], geom.Epsilon) {
				target[i] = j
				break
			}
		}
	}

	survivors := 0
	for i := range moved {
		if target[i] == i {
			survivors++
		}
	}

	newIndex := make([]int, n)
	var verts []mgl64.Vec3
	for i := 0; i < n; i++ {
		if target[i] == i {
			newIndex[i] = len(verts)
			verts = append(verts, b.Vertices[i])
		}
	}
	for i := 0; i < n; i++ {
		if target[i] != i {
			newIndex[i] = newIndex[target[i]]
		}
	}

	var faces [][]int
	for _, f := range b.Faces {
		var nf []int
		for _, idx := range f {
			ni := newIndex[idx]
			if len(nf) > 0 && nf[len(nf)-1] == ni {
				continue
			}
			nf = append(nf, ni)
		}
		if len(nf) > 1 && nf[0] == nf[len(nf)-1] {
			nf = nf[:len(nf)-1]
		}
		if len(nf) >= 3 {
			faces = append(faces, nf)
		}
	}

	out := Brush{ID: b.ID, Vertices: verts, Faces: faces}
	return out, survivors, validBrush(out)
}

// validBrush rejects brushes with coincident vertices, degenerate faces or too few parts
// to enclose a volume.
func validBrush(b Brush) bool {
	if len(b.Vertices) < 4 || len(b.Faces) < 4 {
		return false
	}
	for i := range b.Vertices {
		for j := i + 1; j < len(b.Vertices); j++ {
			if geom.ApproxEqual(b.Vertices[i], b.Vertices[j], geom.Epsilon) {
				return false
			}
		}
	}
	for i := range b.Faces {
		if b.FacePolygon(i).Normal().Len() == 0 {
			return false
		}
	}
	return true
}

func (m *Memory) transformIndices(kind OperationKind, mat mgl64.Mat4, match func(Brush) map[int]bool) bool {
	op := Operation{Kind: kind, Matrix: mat}
	updated := make(map[BrushID]Brush)
	for _, b := range m.SelectedBrushes() {
		indices := match(b)
		if len(indices) == 0 {
			continue
		}
		for i := range indices {
			b.Vertices[i] = mgl64.TransformCoordinate(b.Vertices[i], mat)
		}
		if !validBrush(b) {
			m.record(op)
			return false
		}
		updated[b.ID] = b
	}
	if len(updated) == 0 {
		m.record(op)
		return false
	}
	for id, b := range updated {
		m.brushes[id] = b
	}
	op.Accepted = true
	m.record(op)
	return true
}

func (m *Memory) TransformEdges(edges []geom.Segment, mat mgl64.Mat4) bool {
	return m.transformIndices(OpTransformEdges, mat, func(b Brush) map[int]bool {
		out := make(map[int]bool)
		for _, e := range edges {
			s, t := b.vertexIndex(e.Start), b.vertexIndex(e.End)
			if s >= 0 && t >= 0 {
				out[s], out[t] = true, true
			}
		}
		return out
	})
}

func (m *Memory) TransformFaces(faces []geom.Polygon, mat mgl64.Mat4) bool {
	return m.transformIndices(OpTransformFaces, mat, func(b Brush) map[int]bool {
		out := make(map[int]bool)
		for _, f := range faces {
			var idx []int
			for _, v := range f.Vertices {
				i := b.vertexIndex(v)
				if i < 0 {
					idx = nil
					break
				}
				idx = append(idx, i)
			}
			for _, i := range idx {
				out[i] = true
			}
		}
		return out
	})
}

func (m *Memory) TransformObjects(mat mgl64.Mat4) bool {
	if math.Abs(mat.Det()) < 1e-9 {
		m.record(Operation{Kind: OpTransformObjects, Matrix: mat})
		return false
	}
	mirrored := mat.Det() < 0
	ok := m.transformIndices(OpTransformObjects, mat, func(b Brush) map[int]bool {
		out := make(map[int]bool, len(b.Vertices))
		for i := range b.Vertices {
			out[i] = true
		}
		return out
	})
	if ok && mirrored {
		for id, b := range m.brushes {
			if !m.selected[id] {
				continue
			}
			for _, f := range b.Faces {
				for i, j := 0, len(f)-1; i < j; i, j = i+1, j-1 {
					f[i], f[j] = f[j], f[i]
				}
			}
		}
	}
	return ok
}

func (m *Memory) RemoveVertices(commandName string, positions []mgl64.Vec3) {
	op := Operation{Kind: OpRemoveVertices, Name: commandName}
	for _, b := range m.SelectedBrushes() {
		remove := make(map[int]bool)
		for _, p := range positions {
			if i := b.vertexIndex(p); i >= 0 {
				remove[i] = true
			}
		}
		if len(remove) == 0 {
			continue
		}
		pruned, ok := removeBrushVertices(b, remove)
		if !ok {
			continue
		}
		m.brushes[b.ID] = pruned
		op.Accepted = true
	}
	m.record(op)
	if op.Accepted && len(m.transactions) == 0 {
		m.history = append(m.history, commandName)
	}
}

func removeBrushVertices(b Brush, remove map[int]bool) (Brush, bool) {
	newIndex := make([]int, len(b.Vertices))
	var verts []mgl64.Vec3
	for i, v := range b.Vertices {
		if remove[i] {
			newIndex[i] = -1
			continue
		}
		newIndex[i] = len(verts)
		verts = append(verts, v)
	}
	var faces [][]int
	for _, f := range b.Faces {
		var nf []int
		for _, idx := range f {
			if newIndex[idx] >= 0 {
				nf = append(nf, newIndex[idx])
			}
		}
		if len(nf) >= 3 {
			faces = append(faces, nf)
		}
	}
	out := Brush{ID: b.ID, Vertices: verts, Faces: faces}
	return out, validBrush(out)
}
