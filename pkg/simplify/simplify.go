// Package simplify reduces the triangle count of a mesh by quadric error
// metric edge collapse.
//
// Every vertex carries a quadric summing the squared distances to the planes
// of its triangles. Collapsing an edge merges both endpoints into the point
// that minimizes their combined quadric. Passes over the triangles collapse
// every edge cheaper than a threshold that starts near zero and rises each
// pass, which approximates cheapest-first ordering without a priority queue.
//
// Border vertices only merge with border vertices, and collapses that would
// fold or degenerate a neighboring triangle are rejected. Vertices flagged
// with MarkUVSeam or MarkUVFoldover likewise only merge with vertices carrying
// the same flags.
package simplify

import (
	"errors"
	"fmt"

	"github.com/philipparndt/meshsimplify/pkg/geometry"
	"github.com/philipparndt/meshsimplify/pkg/mesh"
)

var (
	// ErrInvalidIndexCount is returned when the index list is not a multiple of three
	ErrInvalidIndexCount = mesh.ErrInvalidIndexCount
	// ErrIndexOutOfRange is returned when an index addresses a missing vertex
	ErrIndexOutOfRange = mesh.ErrIndexOutOfRange
	// ErrReleased is returned when a released simplifier is used
	ErrReleased = errors.New("simplifier already released")
)

// Stats counts the work done by a simplifier
type Stats struct {
	Iterations       int
	Collapses        int
	DeletedTriangles int
	FinalThreshold   float64
	TargetTriangles  int
}

// Result is a compacted, simplified mesh
type Result struct {
	Vertices []geometry.Vector3
	Indices  []int
	// VertexOrigins maps each output vertex to the input vertex it descends
	// from, so callers can carry per-vertex attributes over
	VertexOrigins []int
	// CornerOrigins holds, for each output triangle, the input vertices its
	// corners started as
	CornerOrigins [][3]int
	// TriangleOrigins maps each output triangle to its input triangle
	TriangleOrigins []int
	Stats           Stats
}

// TriangleCount returns the number of triangles in the result
func (r *Result) TriangleCount() int {
	return len(r.Indices) / 3
}

// Run simplifies towards the triangle count implied by opts.Quality and
// compacts the working set
func (s *Simplifier) Run(opts Options) (Stats, error) {
	return s.RunTarget(opts.TargetTriangleCount(s.live), opts)
}

// RunTarget simplifies until at most target triangles remain or the
// iteration budget is spent, then compacts the working set
func (s *Simplifier) RunTarget(target int, opts Options) (Stats, error) {
	if s.released {
		return Stats{}, ErrReleased
	}
	opts = opts.normalized()
	s.stats.TargetTriangles = max(target, 0)

	if len(s.vertices) >= 3 && len(s.triangles) > 0 {
		s.collapse(target, opts)
	}
	s.compact()

	return s.stats, nil
}

// Result copies the compacted mesh out of the working set
func (s *Simplifier) Result() (*Result, error) {
	if s.released {
		return nil, ErrReleased
	}
	if !s.compacted {
		s.compact()
	}

	r := &Result{
		Vertices:        make([]geometry.Vector3, len(s.vertices)),
		Indices:         make([]int, 0, len(s.triangles)*3),
		VertexOrigins:   make([]int, len(s.vertices)),
		CornerOrigins:   make([][3]int, len(s.triangles)),
		TriangleOrigins: make([]int, len(s.triangles)),
		Stats:           s.stats,
	}
	for i, v := range s.vertices {
		r.Vertices[i] = v.position
		r.VertexOrigins[i] = v.origin
	}
	for i, t := range s.triangles {
		r.Indices = append(r.Indices, t.v[0], t.v[1], t.v[2])
		r.CornerOrigins[i] = t.original
		r.TriangleOrigins[i] = t.origin
	}
	return r, nil
}

// Simplify reduces a mesh given as vertex positions and a flat list of
// triangle indices. Meshes with fewer than 3 vertices or no triangles are
// returned unchanged. Invalid indices are reported before any work is done.
func Simplify(vertices []geometry.Vector3, indices []int, opts Options) (*Result, error) {
	s, err := New(vertices, indices)
	if err != nil {
		return nil, fmt.Errorf("simplify: %w", err)
	}
	defer s.Release()

	if _, err := s.Run(opts); err != nil {
		return nil, fmt.Errorf("simplify: %w", err)
	}
	return s.Result()
}

// SimplifyFloat32 is Simplify for single precision vertex data.
// Computation happens in double precision.
func SimplifyFloat32(vertices [][3]float32, indices []int, opts Options) ([][3]float32, []int, error) {
	wide := make([]geometry.Vector3, len(vertices))
	for i, p := range vertices {
		wide[i] = geometry.FromFloat32(p)
	}

	r, err := Simplify(wide, indices, opts)
	if err != nil {
		return nil, nil, err
	}

	narrow := make([][3]float32, len(r.Vertices))
	for i, p := range r.Vertices {
		narrow[i] = p.Float32()
	}
	return narrow, r.Indices, nil
}

// SimplifySubmeshes simplifies a mesh split into several index lists. Only
// a single contiguous triangle list is supported: the first submesh is
// simplified and the others are ignored with a diagnostic on opts.Log.
func SimplifySubmeshes(vertices []geometry.Vector3, submeshes [][]int, opts Options) (*Result, error) {
	if len(submeshes) == 0 {
		return Simplify(vertices, nil, opts)
	}
	if len(submeshes) > 1 && opts.Log != nil {
		fmt.Fprintf(opts.Log, "simplify: mesh has %d submeshes, only the first is simplified\n", len(submeshes))
	}
	return Simplify(vertices, submeshes[0], opts)
}

// SimplifyMesh simplifies an indexed mesh and returns a new mesh
func SimplifyMesh(m *mesh.Mesh, opts Options) (*mesh.Mesh, Stats, error) {
	r, err := Simplify(m.Vertices, m.Indices, opts)
	if err != nil {
		return nil, Stats{}, err
	}
	return mesh.New(m.Name, r.Vertices, r.Indices), r.Stats, nil
}
