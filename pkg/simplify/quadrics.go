package simplify

import (
	"math"

	"github.com/philipparndt/meshsimplify/pkg/geometry"
)

// initQuadrics computes every triangle's plane, accumulates the plane
// quadrics into the corner vertices and caches the edge collapse errors.
// Degenerate triangles get a zero normal and contribute no error.
func (s *Simplifier) initQuadrics() {
	for i := range s.vertices {
		s.vertices[i].quadric = geometry.SymmetricQuadric{}
	}

	for i := range s.triangles {
		t := &s.triangles[i]
		if t.deleted {
			continue
		}
		p0 := s.vertices[t.v[0]].position
		p1 := s.vertices[t.v[1]].position
		p2 := s.vertices[t.v[2]].position

		n := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
		t.normal = n

		q := geometry.NewPlaneQuadric(n.X, n.Y, n.Z, -n.Dot(p0))
		for j := 0; j < 3; j++ {
			v := &s.vertices[t.v[j]]
			v.quadric = v.quadric.Add(q)
		}
	}

	for i := range s.triangles {
		if !s.triangles[i].deleted {
			s.updateEdgeErrors(&s.triangles[i])
		}
	}
}

// updateEdgeErrors recomputes the cached collapse cost of all three edges
func (s *Simplifier) updateEdgeErrors(t *triangle) {
	for j := 0; j < 3; j++ {
		t.err[j], _ = s.collapseError(t.v[j], t.v[(j+1)%3])
	}
	t.minErr = math.Min(t.err[0], math.Min(t.err[1], t.err[2]))
}

// collapseError returns the cost of merging vertices a and b and the
// position the merged vertex should take.
//
// The analytic minimizer of the summed quadric is used when it exists.
// Border edges and singular systems fall back to the cheapest of both
// endpoints and their midpoint, so a border vertex never leaves the border.
func (s *Simplifier) collapseError(a, b int) (float64, geometry.Vector3) {
	va := &s.vertices[a]
	vb := &s.vertices[b]
	q := va.quadric.Add(vb.quadric)
	border := va.border && vb.border

	if !border {
		if p, ok := q.Optimum(); ok {
			return q.Error(p), p
		}
	}

	pa := va.position
	pb := vb.position
	pm := pa.Midpoint(pb)

	ea := q.Error(pa)
	eb := q.Error(pb)
	em := q.Error(pm)
	cost := math.Min(ea, math.Min(eb, em))

	// Ties prefer the midpoint, then b
	p := pa
	if eb == cost {
		p = pb
	}
	if em == cost {
		p = pm
	}
	return cost, p
}
