package simplify

// compact removes deleted triangles and vertices no triangle references, and
// renumbers both arrays contiguously. Running it again is a no-op.
//
// Vertices keep their quadrics and flags, so a compacted working set can be
// simplified further; the next rebuild recomputes the references.
func (s *Simplifier) compact() {
	s.removeDeletedTriangles()

	// remap holds the new index of every old vertex, -1 while unreferenced
	remap := s.scratch.ids[:0]
	for range s.vertices {
		remap = append(remap, -1)
	}
	for i := range s.triangles {
		for _, id := range s.triangles[i].v {
			remap[id] = 0
		}
	}

	dst := 0
	for i := range s.vertices {
		if remap[i] < 0 {
			continue
		}
		remap[i] = dst
		s.vertices[dst] = s.vertices[i]
		dst++
	}
	s.vertices = s.vertices[:dst]

	for i := range s.triangles {
		t := &s.triangles[i]
		for j := 0; j < 3; j++ {
			t.v[j] = remap[t.v[j]]
		}
	}

	for i := range s.vertices {
		s.vertices[i].refStart = 0
		s.vertices[i].refCount = 0
	}
	s.refs = s.refs[:0]
	s.scratch.ids = remap
	s.compacted = true
}
