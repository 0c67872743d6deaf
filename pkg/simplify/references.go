package simplify

// removeDeletedTriangles drops deleted triangles, keeping the order of the
// survivors. Triangle ids change, so references must be rebuilt afterwards.
func (s *Simplifier) removeDeletedTriangles() {
	dst := 0
	for i := range s.triangles {
		if s.triangles[i].deleted {
			continue
		}
		s.triangles[dst] = s.triangles[i]
		dst++
	}
	s.triangles = s.triangles[:dst]
}

// rebuildReferences recomputes every vertex's (refStart, refCount) slice and
// the flat reference array with a two-pass counting sort. Previous
// references are discarded, including slices appended by collapses.
func (s *Simplifier) rebuildReferences() {
	for i := range s.vertices {
		s.vertices[i].refStart = 0
		s.vertices[i].refCount = 0
	}

	for i := range s.triangles {
		t := &s.triangles[i]
		for j := 0; j < 3; j++ {
			s.vertices[t.v[j]].refCount++
		}
	}

	start := 0
	for i := range s.vertices {
		v := &s.vertices[i]
		v.refStart = start
		start += v.refCount
		v.refCount = 0
	}

	n := len(s.triangles) * 3
	if cap(s.refs) < n {
		s.refs = make([]reference, n)
	} else {
		s.refs = s.refs[:n]
	}

	for i := range s.triangles {
		t := &s.triangles[i]
		for j := 0; j < 3; j++ {
			v := &s.vertices[t.v[j]]
			s.refs[v.refStart+v.refCount] = reference{tri: i, slot: j}
			v.refCount++
		}
	}
}

// classifyBorders marks vertices lying on a border edge. For each vertex the
// corners of its incident triangles are tallied; a corner id seen exactly
// once belongs to an edge used by a single triangle.
//
// UV seam and foldover flags are left untouched.
func (s *Simplifier) classifyBorders() {
	for i := range s.vertices {
		s.vertices[i].border = false
	}

	for i := range s.vertices {
		v := &s.vertices[i]
		ids := s.scratch.ids[:0]
		counts := s.scratch.counts[:0]

		for k := 0; k < v.refCount; k++ {
			t := &s.triangles[s.refs[v.refStart+k].tri]
			for _, id := range t.v {
				ofs := 0
				for ofs < len(ids) && ids[ofs] != id {
					ofs++
				}
				if ofs == len(ids) {
					ids = append(ids, id)
					counts = append(counts, 1)
				} else {
					counts[ofs]++
				}
			}
		}

		for ofs, c := range counts {
			if c == 1 {
				s.vertices[ids[ofs]].border = true
			}
		}

		s.scratch.ids = ids
		s.scratch.counts = counts
	}
}
