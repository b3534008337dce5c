package handles

import (
	"fmt"

	"github.com/gekko3d/brushedit/document"
	"github.com/gekko3d/brushedit/geom"
	"github.com/gekko3d/brushedit/pick"
)

type entry struct {
	handle   Handle
	brushes  []document.BrushID
	selected bool
}

// Manager owns the candidate handles of one kind and their selection state. The selected
// handles are always a subset of the candidates.
type Manager struct {
	kind    Kind
	order   []Key
	entries map[Key]*entry

	selectedCount int
}

func NewManager(kind Kind) *Manager {
	return &Manager{
		kind:    kind,
		entries: make(map[Key]*entry),
	}
}

func (m *Manager) Kind() Kind {
	return m.kind
}

func (m *Manager) HitType() pick.HitType {
	return m.kind.HitType()
}

// Add registers h as a candidate incident to brush. Adding an existing handle only records
// the additional brush.
func (m *Manager) Add(h Handle, brush document.BrushID) {
	if h.Kind != m.kind {
		panic(fmt.Sprintf("cannot add %s handle to %s manager", h.Kind, m.kind))
	}
	k := h.Key()
	e, ok := m.entries[k]
	if !ok {
		e = &entry{handle: h}
		m.entries[k] = e
		m.order = append(m.order, k)
	}
	for _, b := range e.brushes {
		if b == brush {
			return
		}
	}
	e.brushes = append(e.brushes, brush)
}

// AddBrush registers every handle of this manager's kind found on b.
func (m *Manager) AddBrush(b document.Brush) {
	switch m.kind {
	case KindVertex:
		for _, v := range b.Vertices {
			m.Add(Vertex(v), b.ID)
		}
	case KindEdge:
		for _, e := range b.Edges() {
			m.Add(Edge(e), b.ID)
		}
	case KindFace:
		for _, f := range b.FacePolygons() {
			m.Add(Face(f), b.ID)
		}
	default:
		panic(fmt.Sprintf("%s handles are not derived from brushes", m.kind))
	}
}

func (m *Manager) Clear() {
	m.order = nil
	m.entries = make(map[Key]*entry)
	m.selectedCount = 0
}

// Rebuild replaces the candidates with the handles of brushes and reselects every handle in
// keepSelected that still exists.
func (m *Manager) Rebuild(brushes []document.Brush, keepSelected []Handle) {
	m.Clear()
	for _, b := range brushes {
		m.AddBrush(b)
	}
	for _, h := range keepSelected {
		m.selectHandle(h)
	}
}

func (m *Manager) Contains(h Handle) bool {
	_, ok := m.entries[h.Key()]
	return ok
}

func (m *Manager) Len() int {
	return len(m.order)
}

// All returns the candidates in insertion order.
func (m *Manager) All() []Handle {
	out := make([]Handle, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.entries[k].handle)
	}
	return out
}

func (m *Manager) Selected(h Handle) bool {
	e, ok := m.entries[h.Key()]
	return ok && e.selected
}

// AllSelected reports whether every handle is a selected candidate.
func (m *Manager) AllSelected(hs []Handle) bool {
	for _, h := range hs {
		if !m.Selected(h) {
			return false
		}
	}
	return true
}

func (m *Manager) AnySelected() bool {
	return m.selectedCount > 0
}

func (m *Manager) SelectedCount() int {
	return m.selectedCount
}

// SelectedHandles returns the selection in candidate insertion order, which is not the order
// in which the user selected the handles.
func (m *Manager) SelectedHandles() []Handle {
	out := make([]Handle, 0, m.selectedCount)
	for _, k := range m.order {
		if e := m.entries[k]; e.selected {
			out = append(out, e.handle)
		}
	}
	return out
}

// IncidentBrushes returns the brushes that contributed h.
func (m *Manager) IncidentBrushes(h Handle) []document.BrushID {
	e, ok := m.entries[h.Key()]
	if !ok {
		return nil
	}
	return append([]document.BrushID(nil), e.brushes...)
}

func (m *Manager) selectHandle(h Handle) bool {
	e, ok := m.entries[h.Key()]
	if !ok || e.selected {
		return false
	}
	e.selected = true
	m.selectedCount++
	return true
}

// SelectHandles selects hs, first clearing the selection unless additive is set. It
// returns true iff the selection changed.
func (m *Manager) SelectHandles(hs []Handle, additive bool) bool {
	changed := false
	if !additive {
		keep := make(map[Key]bool, len(hs))
		for _, h := range hs {
			keep[h.Key()] = true
		}
		for _, k := range m.order {
			if e := m.entries[k]; e.selected && !keep[k] {
				e.selected = false
				m.selectedCount--
				changed = true
			}
		}
	}
	for _, h := range hs {
		if !m.Contains(h) {
			panic(fmt.Sprintf("cannot select unknown %s handle %s", h.Kind, h.Key()))
		}
		if m.selectHandle(h) {
			changed = true
		}
	}
	return changed
}

// Select selects the handles targeted by hits. Every hit must carry this manager's hit type.
func (m *Manager) Select(hits []pick.Hit, additive bool) bool {
	return m.SelectHandles(m.HandlesOf(hits), additive)
}

func (m *Manager) DeselectAll() bool {
	if m.selectedCount == 0 {
		return false
	}
	for _, e := range m.entries {
		e.selected = false
	}
	m.selectedCount = 0
	return true
}

// HandlesOf extracts the handle targets of hits, panicking on a foreign hit type.
func (m *Manager) HandlesOf(hits []pick.Hit) []Handle {
	out := make([]Handle, 0, len(hits))
	for _, h := range hits {
		if !h.HasType(m.HitType()) {
			panic(fmt.Sprintf("%s manager received a %s hit", m.kind, h.Type))
		}
		out = append(out, pick.TargetAs[Handle](h))
	}
	return out
}

// Pick adds a hit for every candidate whose position lies within radius pixels of the ray.
func (m *Manager) Pick(ray geom.Ray, camera *geom.Camera, radius float64, result *pick.Result) {
	hitType := m.HitType()
	for _, k := range m.order {
		h := m.entries[k].handle
		pos := h.Position()
		rayDistance, distance := geom.DistanceRayPoint(ray, pos)
		if rayDistance <= 0 {
			continue
		}
		if distance <= radius*camera.PixelSize(pos) {
			result.AddHit(pick.NewHit(hitType, rayDistance, ray.PointAt(rayDistance), h, distance))
		}
	}
}

// Inside returns the candidates whose positions satisfy contains, in insertion order.
func (m *Manager) Inside(contains func(Handle) bool) []Handle {
	var out []Handle
	for _, k := range m.order {
		if h := m.entries[k].handle; contains(h) {
			out = append(out, h)
		}
	}
	return out
}
