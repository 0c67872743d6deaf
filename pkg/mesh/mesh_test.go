package mesh

import (
	"errors"
	"math"
	"testing"

	"github.com/philipparndt/meshsimplify/pkg/geometry"
)

func quad() *Mesh {
	return New("quad",
		[]geometry.Vector3{
			geometry.NewVector3(0, 0, 0),
			geometry.NewVector3(1, 0, 0),
			geometry.NewVector3(1, 1, 0),
			geometry.NewVector3(0, 1, 0),
		},
		[]int{0, 1, 2, 0, 2, 3},
	)
}

func TestFromModelWeldsSharedCorners(t *testing.T) {
	model := quad().ToModel()
	if model.TriangleCount() != 2 {
		t.Fatalf("ToModel failed: expected 2 triangles, got %d", model.TriangleCount())
	}

	m := FromModel(model)
	if m.VertexCount() != 4 {
		t.Errorf("FromModel failed: expected 4 welded vertices, got %d", m.VertexCount())
	}

	expected := []int{0, 1, 2, 0, 2, 3}
	for i := range expected {
		if m.Indices[i] != expected[i] {
			t.Errorf("Index %d failed: expected %d, got %d", i, expected[i], m.Indices[i])
		}
	}
}

func TestToModelRecomputesNormals(t *testing.T) {
	model := quad().ToModel()
	expected := geometry.NewVector3(0, 0, 1)
	for i, tri := range model.Triangles {
		if tri.Normal != expected {
			t.Errorf("Normal %d failed: expected %v, got %v", i, expected, tri.Normal)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		indices []int
		want    error
	}{
		{"valid", []int{0, 1, 2}, nil},
		{"partial triangle", []int{0, 1}, ErrInvalidIndexCount},
		{"too large", []int{0, 1, 4}, ErrIndexOutOfRange},
		{"negative", []int{0, -1, 2}, ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New("", quad().Vertices, tt.indices)
			err := m.Validate()
			if tt.want == nil && err != nil {
				t.Errorf("Validate failed: expected nil, got %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Validate failed: expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestEdgesAndBorders(t *testing.T) {
	m := quad()

	edges := m.Edges()
	if len(edges) != 5 {
		t.Fatalf("Edges failed: expected 5, got %d", len(edges))
	}
	if edges[0] != (Edge{A: 0, B: 1, Faces: 1}) {
		t.Errorf("Edge order failed: expected {0 1 1}, got %v", edges[0])
	}
	if m.BorderEdgeCount() != 4 {
		t.Errorf("BorderEdgeCount failed: expected 4, got %d", m.BorderEdgeCount())
	}
	if got := m.BorderVertices(); len(got) != 4 {
		t.Errorf("BorderVertices failed: expected 4, got %v", got)
	}
}

func TestVertexNormals(t *testing.T) {
	m := quad()
	m.Vertices = append(m.Vertices, geometry.NewVector3(5, 5, 5))

	normals := m.VertexNormals()
	for i := 0; i < 4; i++ {
		if math.Abs(normals[i].Z-1) > 1e-12 {
			t.Errorf("Normal %d failed: expected +Z, got %v", i, normals[i])
		}
	}
	if !normals[4].IsZero() {
		t.Errorf("Unreferenced normal failed: expected zero, got %v", normals[4])
	}
}

func TestBoundingBoxIgnoresUnreferenced(t *testing.T) {
	m := quad()
	m.Vertices = append(m.Vertices, geometry.NewVector3(5, 5, 5))

	size := m.BoundingBox().Size()
	expected := geometry.NewVector3(1, 1, 0)
	if size != expected {
		t.Errorf("BoundingBox failed: expected size %v, got %v", expected, size)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := quad()
	c := m.Clone()
	c.Indices[0] = 3
	c.Vertices[0] = geometry.NewVector3(9, 9, 9)

	if m.Indices[0] != 0 || !m.Vertices[0].IsZero() {
		t.Errorf("Clone failed: original mesh was modified")
	}
}
