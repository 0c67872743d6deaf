package mesh

import "sort"

// Edge is an undirected edge between two vertices, A < B
type Edge struct {
	A, B int
	// Faces counts the triangles sharing the edge
	Faces int
}

func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// Edges returns every unique edge, ordered by (A, B)
func (m *Mesh) Edges() []Edge {
	counts := make(map[[2]int]int, len(m.Indices))
	for i := 0; i < m.TriangleCount(); i++ {
		c := m.Corners(i)
		for j := 0; j < 3; j++ {
			counts[edgeKey(c[j], c[(j+1)%3])]++
		}
	}

	edges := make([]Edge, 0, len(counts))
	for key, faces := range counts {
		edges = append(edges, Edge{A: key[0], B: key[1], Faces: faces})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})
	return edges
}

// BorderEdgeCount returns the number of edges used by exactly one triangle
func (m *Mesh) BorderEdgeCount() int {
	count := 0
	for _, e := range m.Edges() {
		if e.Faces == 1 {
			count++
		}
	}
	return count
}

// BorderVertices returns the sorted ids of vertices touching a border edge
func (m *Mesh) BorderVertices() []int {
	seen := make(map[int]bool)
	for _, e := range m.Edges() {
		if e.Faces == 1 {
			seen[e.A] = true
			seen[e.B] = true
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
