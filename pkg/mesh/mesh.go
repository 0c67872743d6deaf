// Package mesh provides an indexed triangle mesh: shared vertex positions and
// a flat list of vertex indices, three per triangle.
package mesh

import (
	"errors"
	"fmt"

	"github.com/philipparndt/meshsimplify/pkg/geometry"
	"github.com/philipparndt/meshsimplify/pkg/stl"
)

var (
	// ErrInvalidIndexCount is returned when the index list is not a multiple of three
	ErrInvalidIndexCount = errors.New("index count is not a multiple of 3")
	// ErrIndexOutOfRange is returned when a triangle references a missing vertex
	ErrIndexOutOfRange = errors.New("vertex index out of range")
)

// Mesh is an indexed triangle mesh
type Mesh struct {
	Name     string
	Vertices []geometry.Vector3
	Indices  []int
}

// New creates a mesh from vertex positions and triangle indices
func New(name string, vertices []geometry.Vector3, indices []int) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
}

// FromModel converts an STL triangle soup into an indexed mesh.
// Corners with identical positions are welded into one vertex, numbered in
// order of first appearance.
func FromModel(model *stl.Model) *Mesh {
	m := &Mesh{
		Name:     model.Name,
		Vertices: make([]geometry.Vector3, 0, len(model.Triangles)/2+3),
		Indices:  make([]int, 0, len(model.Triangles)*3),
	}

	lookup := make(map[geometry.Vector3]int, len(model.Triangles)/2+3)
	for _, triangle := range model.Triangles {
		for _, corner := range triangle.Vertices() {
			id, ok := lookup[corner]
			if !ok {
				id = len(m.Vertices)
				lookup[corner] = id
				m.Vertices = append(m.Vertices, corner)
			}
			m.Indices = append(m.Indices, id)
		}
	}

	return m
}

// ToModel expands the mesh into an STL triangle soup with recomputed normals
func (m *Mesh) ToModel() *stl.Model {
	model := stl.NewModel(m.Name)
	model.Triangles = make([]geometry.Triangle, 0, m.TriangleCount())
	for i := 0; i < m.TriangleCount(); i++ {
		model.AddTriangle(m.Triangle(i))
	}
	return model
}

// Validate checks that every index addresses an existing vertex
func (m *Mesh) Validate() error {
	return ValidateIndices(len(m.Vertices), m.Indices)
}

// ValidateIndices checks a flat triangle index list against a vertex count
func ValidateIndices(vertexCount int, indices []int) error {
	if len(indices)%3 != 0 {
		return fmt.Errorf("%w: got %d indices", ErrInvalidIndexCount, len(indices))
	}
	for i, idx := range indices {
		if idx < 0 || idx >= vertexCount {
			return fmt.Errorf("%w: triangle %d corner %d references vertex %d of %d",
				ErrIndexOutOfRange, i/3, i%3, idx, vertexCount)
		}
	}
	return nil
}

// TriangleCount returns the number of triangles
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// VertexCount returns the number of vertices
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Corners returns the vertex indices of triangle i
func (m *Mesh) Corners(i int) [3]int {
	return [3]int{m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]}
}

// Triangle returns triangle i with its face normal
func (m *Mesh) Triangle(i int) geometry.Triangle {
	c := m.Corners(i)
	return geometry.NewTriangleFromPoints(m.Vertices[c[0]], m.Vertices[c[1]], m.Vertices[c[2]])
}

// BoundingBox returns the bounds of the referenced vertices
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, idx := range m.Indices {
		bbox.Extend(m.Vertices[idx])
	}
	return bbox
}

// VertexNormals returns area-weighted vertex normals.
// Vertices without a non-degenerate incident triangle get the zero vector.
func (m *Mesh) VertexNormals() []geometry.Vector3 {
	normals := make([]geometry.Vector3, len(m.Vertices))
	for i := 0; i < m.TriangleCount(); i++ {
		c := m.Corners(i)
		p0, p1, p2 := m.Vertices[c[0]], m.Vertices[c[1]], m.Vertices[c[2]]
		// Unnormalized cross product weights by twice the area
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		for _, idx := range c {
			normals[idx] = normals[idx].Add(n)
		}
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	return normals
}

// Clone returns a deep copy of the mesh
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Name:     m.Name,
		Vertices: append([]geometry.Vector3(nil), m.Vertices...),
		Indices:  append([]int(nil), m.Indices...),
	}
}
