package simplify

import (
	"fmt"

	"github.com/philipparndt/meshsimplify/pkg/geometry"
	"github.com/philipparndt/meshsimplify/pkg/mesh"
)

// vertex is a mesh vertex together with its accumulated error quadric and
// the slice of the reference array that lists its incident triangles
type vertex struct {
	position geometry.Vector3
	quadric  geometry.SymmetricQuadric
	refStart int
	refCount int
	// origin is the input index this vertex was created from
	origin int

	border     bool
	uvSeam     bool
	uvFoldover bool
}

type triangle struct {
	v        [3]int
	original [3]int
	origin int
	err      [3]float64
	minErr   float64
	normal   geometry.Vector3
	deleted  bool
	dirty    bool
}

// reference locates a vertex inside a triangle
type reference struct {
	tri  int
	slot int
}

// scratch holds per-collapse buffers, grown on demand and cleared per use
type scratch struct {
	deleted0 []bool
	deleted1 []bool
	ids      []int
	counts   []int
}

// Simplifier owns the working copy of one mesh being simplified.
// A Simplifier is not safe for concurrent use; simplify independent meshes
// with independent instances.
type Simplifier struct {
	vertices  []vertex
	triangles []triangle
	refs      []reference
	scratch   scratch

	// live is the number of triangles not yet deleted
	live        int
	initialized bool
	compacted   bool
	released    bool
	stats       Stats
}

// New creates a simplifier working on a copy of the given mesh.
// The indices must form whole triangles addressing existing vertices.
func New(vertices []geometry.Vector3, indices []int) (*Simplifier, error) {
	if err := mesh.ValidateIndices(len(vertices), indices); err != nil {
		return nil, err
	}

	s := &Simplifier{
		vertices:  make([]vertex, len(vertices)),
		triangles: make([]triangle, len(indices)/3),
	}
	for i, p := range vertices {
		s.vertices[i] = vertex{position: p, origin: i}
	}
	for i := range s.triangles {
		corners := [3]int{indices[3*i], indices[3*i+1], indices[3*i+2]}
		s.triangles[i] = triangle{v: corners, original: corners, origin: i}
	}
	s.live = len(s.triangles)

	return s, nil
}

// MarkUVSeam flags a vertex as lying on a texture seam.
// Seam flags are never derived from the geometry; callers that need
// seam-aware simplification must set them before running.
func (s *Simplifier) MarkUVSeam(vertex int) error {
	if err := s.checkVertex(vertex); err != nil {
		return err
	}
	s.vertices[vertex].uvSeam = true
	return nil
}

// MarkUVFoldover flags a vertex as lying on a texture foldover.
// Like seam flags these are caller input only.
func (s *Simplifier) MarkUVFoldover(vertex int) error {
	if err := s.checkVertex(vertex); err != nil {
		return err
	}
	s.vertices[vertex].uvFoldover = true
	return nil
}

func (s *Simplifier) checkVertex(vertex int) error {
	if s.released {
		return ErrReleased
	}
	if vertex < 0 || vertex >= len(s.vertices) {
		return fmt.Errorf("%w: vertex %d of %d", ErrIndexOutOfRange, vertex, len(s.vertices))
	}
	return nil
}

// VertexCount returns the number of vertices in the working set
func (s *Simplifier) VertexCount() int {
	return len(s.vertices)
}

// TriangleCount returns the number of triangles not yet deleted
func (s *Simplifier) TriangleCount() int {
	return s.live
}

// Position returns the current position of a vertex
func (s *Simplifier) Position(vertex int) geometry.Vector3 {
	return s.vertices[vertex].position
}

// IsBorder reports whether a vertex was classified as lying on a border edge
func (s *Simplifier) IsBorder(vertex int) bool {
	return s.vertices[vertex].border
}

// Stats returns the counters of the runs so far
func (s *Simplifier) Stats() Stats {
	return s.stats
}

// Release drops every working buffer. The simplifier cannot be used
// afterwards; copy results out with Result first.
func (s *Simplifier) Release() {
	s.vertices = nil
	s.triangles = nil
	s.refs = nil
	s.scratch = scratch{}
	s.live = 0
	s.released = true
}

// resetBools returns buf resized to n with every element false, growing the
// backing array geometrically
func resetBools(buf []bool, n int) []bool {
	if cap(buf) < n {
		return make([]bool, n, max(n, 2*cap(buf)))
	}
	buf = buf[:n]
	clear(buf)
	return buf
}
