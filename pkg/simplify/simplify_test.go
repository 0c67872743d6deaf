package simplify

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/philipparndt/meshsimplify/pkg/geometry"
	"github.com/philipparndt/meshsimplify/pkg/mesh"
)

func checkBounds(t *testing.T, r *Result, vertexCount, triangleCount int) {
	t.Helper()

	if r.TriangleCount() > triangleCount {
		t.Errorf("Triangle bound failed: expected at most %d, got %d", triangleCount, r.TriangleCount())
	}
	if len(r.Vertices) > vertexCount {
		t.Errorf("Vertex bound failed: expected at most %d, got %d", vertexCount, len(r.Vertices))
	}
	if len(r.Indices)%3 != 0 {
		t.Fatalf("Index count failed: %d is not a multiple of 3", len(r.Indices))
	}
	for i, idx := range r.Indices {
		if idx < 0 || idx >= len(r.Vertices) {
			t.Fatalf("Index %d failed: %d out of range [0, %d)", i, idx, len(r.Vertices))
		}
	}
}

func TestSimplifyCube(t *testing.T) {
	vertices, indices := unitCube()
	opts := Options{Quality: 0.5, MaxIterationCount: 100, Aggressiveness: 7}

	r, err := Simplify(vertices, indices, opts)
	if err != nil {
		t.Fatalf("Simplify failed: %v", err)
	}

	checkBounds(t, r, 8, 12)
	if r.TriangleCount() > 6 {
		t.Errorf("Cube reduction failed: expected at most 6 triangles, got %d", r.TriangleCount())
	}
	if r.Stats.Iterations > 100 {
		t.Errorf("Iteration cap failed: ran %d passes", r.Stats.Iterations)
	}
}

func TestSimplifyQualityOneKeepsMesh(t *testing.T) {
	vertices, indices := uvSphere(12, 6)

	r, err := Simplify(vertices, indices, Options{Quality: 1})
	if err != nil {
		t.Fatalf("Simplify failed: %v", err)
	}

	if len(r.Indices) != len(indices) {
		t.Fatalf("Quality 1 failed: expected %d indices, got %d", len(indices), len(r.Indices))
	}
	for i := range indices {
		if r.Indices[i] != indices[i] {
			t.Fatalf("Index %d failed: expected %d, got %d", i, indices[i], r.Indices[i])
		}
	}
	for i := range vertices {
		if r.Vertices[i] != vertices[i] {
			t.Fatalf("Vertex %d failed: expected %v, got %v", i, vertices[i], r.Vertices[i])
		}
	}
	if r.Stats.Collapses != 0 {
		t.Errorf("Collapses failed: expected 0, got %d", r.Stats.Collapses)
	}
}

func TestSimplifyQualityZeroFloor(t *testing.T) {
	vertices, indices := uvSphere(16, 8)

	r, err := Simplify(vertices, indices, Options{Quality: 0, MaxIterationCount: 40})
	if err != nil {
		t.Fatalf("Simplify failed: %v", err)
	}

	checkBounds(t, r, len(vertices), len(indices)/3)
	if r.Stats.Iterations > 40 {
		t.Errorf("Iteration cap failed: expected at most 40 passes, got %d", r.Stats.Iterations)
	}
	if r.TriangleCount() >= len(indices)/3 {
		t.Errorf("Reduction failed: expected fewer than %d triangles, got %d", len(indices)/3, r.TriangleCount())
	}
}

func TestSimplifyBounds(t *testing.T) {
	sphereV, sphereI := uvSphere(16, 8)
	gridV, gridI := planarGrid(6)
	cubeV, cubeI := unitCube()

	tests := []struct {
		name     string
		vertices []geometry.Vector3
		indices  []int
		quality  float64
	}{
		{"sphere 0.3", sphereV, sphereI, 0.3},
		{"sphere 0.8", sphereV, sphereI, 0.8},
		{"grid 0.5", gridV, gridI, 0.5},
		{"grid 0.1", gridV, gridI, 0.1},
		{"cube 0.2", cubeV, cubeI, 0.2},
		{"quality above range", cubeV, cubeI, 3},
		{"quality below range", sphereV, sphereI, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Simplify(tt.vertices, tt.indices, Options{Quality: tt.quality})
			if err != nil {
				t.Fatalf("Simplify failed: %v", err)
			}
			checkBounds(t, r, len(tt.vertices), len(tt.indices)/3)
		})
	}
}

func TestSimplifyDoesNotFlipFaces(t *testing.T) {
	vertices, indices := uvSphere(16, 8)

	r, err := Simplify(vertices, indices, Options{Quality: 0.25})
	if err != nil {
		t.Fatalf("Simplify failed: %v", err)
	}
	if r.TriangleCount() >= len(indices)/3 {
		t.Fatalf("Reduction failed: expected fewer than %d triangles, got %d", len(indices)/3, r.TriangleCount())
	}

	for i := 0; i < r.TriangleCount(); i++ {
		n := faceNormal(r.Vertices, r.Indices, i)
		original := faceNormal(vertices, indices, r.TriangleOrigins[i])
		if n.IsZero() {
			t.Errorf("Triangle %d failed: degenerate face", i)
		}
		if d := n.Dot(original); d < minNormalAgreement-1e-9 {
			t.Errorf("Triangle %d failed: normal turned against its origin (dot %v)", i, d)
		}
	}
}

func TestSimplifyIsDeterministic(t *testing.T) {
	vertices, indices := uvSphere(16, 8)
	opts := Options{Quality: 0.4, Aggressiveness: 5}

	first, err := Simplify(vertices, indices, opts)
	if err != nil {
		t.Fatalf("Simplify failed: %v", err)
	}
	second, err := Simplify(vertices, indices, opts)
	if err != nil {
		t.Fatalf("Simplify failed: %v", err)
	}

	if len(first.Vertices) != len(second.Vertices) || len(first.Indices) != len(second.Indices) {
		t.Fatalf("Determinism failed: sizes differ (%d/%d vs %d/%d)",
			len(first.Vertices), len(first.Indices), len(second.Vertices), len(second.Indices))
	}
	for i := range first.Vertices {
		if first.Vertices[i] != second.Vertices[i] {
			t.Fatalf("Vertex %d failed: %v vs %v", i, first.Vertices[i], second.Vertices[i])
		}
	}
	for i := range first.Indices {
		if first.Indices[i] != second.Indices[i] {
			t.Fatalf("Index %d failed: %d vs %d", i, first.Indices[i], second.Indices[i])
		}
	}
}

func TestSimplifyDoesNotModifyInput(t *testing.T) {
	vertices, indices := uvSphere(12, 6)
	vertexCopy := append([]geometry.Vector3(nil), vertices...)
	indexCopy := append([]int(nil), indices...)

	if _, err := Simplify(vertices, indices, Options{Quality: 0.3}); err != nil {
		t.Fatalf("Simplify failed: %v", err)
	}

	for i := range vertices {
		if vertices[i] != vertexCopy[i] {
			t.Fatalf("Input vertex %d was modified", i)
		}
	}
	for i := range indices {
		if indices[i] != indexCopy[i] {
			t.Fatalf("Input index %d was modified", i)
		}
	}
}

func TestSimplifyInvalidInput(t *testing.T) {
	vertices, _ := unitCube()

	tests := []struct {
		name    string
		indices []int
		want    error
	}{
		{"partial triangle", []int{0, 1, 2, 3}, ErrInvalidIndexCount},
		{"index too large", []int{0, 1, 8}, ErrIndexOutOfRange},
		{"negative index", []int{0, -1, 2}, ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Simplify(vertices, tt.indices, DefaultOptions())
			if !errors.Is(err, tt.want) {
				t.Errorf("Simplify failed: expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSimplifyTrivialInput(t *testing.T) {
	tests := []struct {
		name     string
		vertices []geometry.Vector3
		indices  []int
	}{
		{"no vertices", nil, nil},
		{"two vertices", []geometry.Vector3{{}, {X: 1}}, nil},
		{"no triangles", []geometry.Vector3{{}, {X: 1}, {Y: 1}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Simplify(tt.vertices, tt.indices, DefaultOptions())
			if err != nil {
				t.Fatalf("Simplify failed: %v", err)
			}
			if r.TriangleCount() != 0 {
				t.Errorf("TriangleCount failed: expected 0, got %d", r.TriangleCount())
			}
			if r.Stats.Collapses != 0 {
				t.Errorf("Collapses failed: expected 0, got %d", r.Stats.Collapses)
			}
		})
	}
}

func TestSimplifyFloat32(t *testing.T) {
	vertices, indices := unitCube()
	narrow := make([][3]float32, len(vertices))
	for i, v := range vertices {
		narrow[i] = v.Float32()
	}

	outVertices, outIndices, err := SimplifyFloat32(narrow, indices, Options{Quality: 0.5})
	if err != nil {
		t.Fatalf("SimplifyFloat32 failed: %v", err)
	}
	if len(outIndices)/3 > 6 {
		t.Errorf("Reduction failed: expected at most 6 triangles, got %d", len(outIndices)/3)
	}
	for _, idx := range outIndices {
		if idx >= len(outVertices) {
			t.Fatalf("Index failed: %d out of range %d", idx, len(outVertices))
		}
	}
}

func TestSimplifySubmeshesUsesFirst(t *testing.T) {
	vertices, indices := unitCube()
	var log bytes.Buffer

	r, err := SimplifySubmeshes(vertices, [][]int{indices, {0, 1, 2}}, Options{Quality: 1, Log: &log})
	if err != nil {
		t.Fatalf("SimplifySubmeshes failed: %v", err)
	}

	if r.TriangleCount() != 12 {
		t.Errorf("TriangleCount failed: expected 12, got %d", r.TriangleCount())
	}
	if !strings.Contains(log.String(), "2 submeshes") {
		t.Errorf("Diagnostic failed: expected submesh warning, got %q", log.String())
	}
}

func TestSimplifyMesh(t *testing.T) {
	vertices, indices := uvSphere(16, 8)
	m := mesh.New("sphere", vertices, indices)

	out, stats, err := SimplifyMesh(m, Options{Quality: 0.5})
	if err != nil {
		t.Fatalf("SimplifyMesh failed: %v", err)
	}

	if out.Name != "sphere" {
		t.Errorf("Name failed: expected sphere, got %q", out.Name)
	}
	if err := out.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
	if out.TriangleCount() != m.TriangleCount()-stats.DeletedTriangles {
		t.Errorf("Stats failed: %d triangles minus %d deleted is not %d",
			m.TriangleCount(), stats.DeletedTriangles, out.TriangleCount())
	}
}

func TestSimplifyLogsPasses(t *testing.T) {
	vertices, indices := uvSphere(8, 4)
	var log bytes.Buffer

	r, err := Simplify(vertices, indices, Options{Quality: 0.5, Log: &log})
	if err != nil {
		t.Fatalf("Simplify failed: %v", err)
	}

	lines := strings.Count(log.String(), "\n")
	if lines != r.Stats.Iterations {
		t.Errorf("Log failed: expected %d lines, got %d", r.Stats.Iterations, lines)
	}
}
