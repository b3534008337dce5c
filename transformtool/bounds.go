package transformtool

import (
	"github.com/gekko3d/brushedit/document"
	"github.com/gekko3d/brushedit/geom"
	"github.com/gekko3d/brushedit/handles"
	"github.com/gekko3d/brushedit/pick"
	"github.com/gekko3d/brushedit/render"

	"github.com/go-gl/mathgl/mgl64"
)

// sideHandles keeps one point handle at the center of each side of the
// selection bounds. Sides are indexed like geom.Axes.
type sideHandles struct {
	manager *handles.Manager
	sides   map[handles.Key]int
	bounds  geom.Bounds
	valid   bool
}

func newSideHandles(kind handles.Kind) *sideHandles {
	return &sideHandles{manager: handles.NewManager(kind), sides: make(map[handles.Key]int)}
}

func (s *sideHandles) clear() {
	s.manager.Clear()
	s.sides = make(map[handles.Key]int)
	s.valid = false
}

func (s *sideHandles) rebuild(doc document.Document) {
	s.clear()
	bounds, ok := doc.SelectionBounds()
	if !ok {
		return
	}
	s.bounds, s.valid = bounds, true
	brushes := doc.SelectedBrushes()
	for side := range geom.Axes {
		h := handles.Point(s.manager.Kind(), bounds.SideCenter(side))
		for _, b := range brushes {
			s.manager.Add(h, b.ID)
		}
		s.sides[h.Key()] = side
	}
}

// side returns the side index of h.
func (s *sideHandles) side(h handles.Handle) int {
	side, ok := s.sides[h.Key()]
	if !ok {
		panic("transformtool: " + h.Kind.String() + " handle does not belong to the selection bounds")
	}
	return side
}

func (s *sideHandles) pick(ray geom.Ray, camera *geom.Camera, radius float64, result *pick.Result) {
	s.manager.Pick(ray, camera, radius, result)
}

// firstHit returns the nearest side handle hit.
func (s *sideHandles) firstHit(result *pick.Result) (pick.Hit, handles.Handle, bool) {
	hit := result.First(pick.TypeFilter(s.manager.HitType()))
	if !hit.IsMatch() {
		return hit, handles.Handle{}, false
	}
	return hit, pick.TargetAs[handles.Handle](hit), true
}

func (s *sideHandles) render(batch *render.Batch, radius float64, highlight *handles.Handle) {
	if !s.valid {
		return
	}
	for _, e := range boundsEdges(s.bounds) {
		batch.Add(render.NewLine(render.RoleGuide, render.GuideColor, e.Start, e.End))
	}
	for _, h := range s.manager.All() {
		if highlight != nil && h.Key() == highlight.Key() {
			batch.Add(render.NewPoint(render.RoleHighlight, render.HighlightColor, h.Position(), radius*2))
			continue
		}
		batch.Add(render.NewPoint(render.RoleHandle, render.HandleColor, h.Position(), radius))
	}
}

// boundsEdges returns the twelve edges of b.
func boundsEdges(b geom.Bounds) []geom.Segment {
	corner := func(i int) mgl64.Vec3 {
		var c mgl64.Vec3
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				c[axis] = b.Max[axis]
			} else {
				c[axis] = b.Min[axis]
			}
		}
		return c
	}
	var out []geom.Segment
	for i := 0; i < 8; i++ {
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) == 0 {
				out = append(out, geom.Segment{Start: corner(i), End: corner(i | 1<<axis)})
			}
		}
	}
	return out
}

// opposite returns the index of the side facing away from side.
func opposite(side int) int {
	return side ^ 1
}
