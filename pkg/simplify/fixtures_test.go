package simplify

import (
	"math"

	"github.com/philipparndt/meshsimplify/pkg/geometry"
)

// unitCube returns a closed, outward wound cube with vertex index x+2y+4z
func unitCube() ([]geometry.Vector3, []int) {
	vertices := make([]geometry.Vector3, 8)
	for i := range vertices {
		vertices[i] = geometry.NewVector3(float64(i&1), float64(i>>1&1), float64(i>>2&1))
	}
	indices := []int{
		0, 2, 3, 0, 3, 1, // z = 0
		4, 5, 7, 4, 7, 6, // z = 1
		0, 1, 5, 0, 5, 4, // y = 0
		2, 6, 7, 2, 7, 3, // y = 1
		0, 4, 6, 0, 6, 2, // x = 0
		1, 3, 7, 1, 7, 5, // x = 1
	}
	return vertices, indices
}

// planarGrid returns an n by n vertex grid in the z = 0 plane with unit
// spacing, each cell split along its (x,y)-(x+1,y+1) diagonal
func planarGrid(n int) ([]geometry.Vector3, []int) {
	vertices := make([]geometry.Vector3, 0, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			vertices = append(vertices, geometry.NewVector3(float64(x), float64(y), 0))
		}
	}

	indices := make([]int, 0, (n-1)*(n-1)*6)
	for y := 0; y < n-1; y++ {
		for x := 0; x < n-1; x++ {
			a := y*n + x
			b := a + 1
			c := a + n + 1
			d := a + n
			indices = append(indices, a, b, c, a, c, d)
		}
	}
	return vertices, indices
}

// isGridBorder reports whether a grid vertex lies on the outer boundary
func isGridBorder(n, id int) bool {
	x, y := id%n, id/n
	return x == 0 || y == 0 || x == n-1 || y == n-1
}

// uvSphere returns a closed unit sphere with poles on the z axis
func uvSphere(slices, stacks int) ([]geometry.Vector3, []int) {
	vertices := []geometry.Vector3{geometry.NewVector3(0, 0, 1)}
	for i := 1; i < stacks; i++ {
		phi := math.Pi * float64(i) / float64(stacks)
		for j := 0; j < slices; j++ {
			theta := 2 * math.Pi * float64(j) / float64(slices)
			vertices = append(vertices, geometry.NewVector3(
				math.Sin(phi)*math.Cos(theta),
				math.Sin(phi)*math.Sin(theta),
				math.Cos(phi),
			))
		}
	}
	south := len(vertices)
	vertices = append(vertices, geometry.NewVector3(0, 0, -1))

	ring := func(i, j int) int {
		return 1 + (i-1)*slices + (j % slices)
	}

	var indices []int
	for j := 0; j < slices; j++ {
		indices = append(indices, 0, ring(1, j), ring(1, j+1))
	}
	for i := 1; i < stacks-1; i++ {
		for j := 0; j < slices; j++ {
			a, b := ring(i, j), ring(i, j+1)
			c, d := ring(i+1, j), ring(i+1, j+1)
			indices = append(indices, a, c, d, a, d, b)
		}
	}
	for j := 0; j < slices; j++ {
		indices = append(indices, south, ring(stacks-1, j+1), ring(stacks-1, j))
	}
	return vertices, indices
}

// faceNormal returns the unit normal of triangle i of an index list
func faceNormal(vertices []geometry.Vector3, indices []int, i int) geometry.Vector3 {
	p0 := vertices[indices[3*i]]
	p1 := vertices[indices[3*i+1]]
	p2 := vertices[indices[3*i+2]]
	return p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
}
