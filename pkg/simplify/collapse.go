package simplify

import (
	"fmt"
	"math"

	"github.com/philipparndt/meshsimplify/pkg/geometry"
)

const (
	// maxEdgeAlignment rejects collapses that leave a triangle with two
	// nearly parallel edges at the merged vertex
	maxEdgeAlignment = 0.999
	// minNormalAgreement rejects collapses that turn a face by more than
	// roughly 78 degrees
	minNormalAgreement = 0.2
)

// phase is a step of the collapse state machine
type phase int

const (
	// phaseCheck decides whether to stop, rebuild, or scan
	phaseCheck phase = iota
	// phaseRebuild compacts triangles and rebuilds references
	phaseRebuild
	// phaseScan runs one collapse pass at the current threshold
	phaseScan
	// phaseDone ends the run
	phaseDone
)

func (p phase) String() string {
	switch p {
	case phaseCheck:
		return "check"
	case phaseRebuild:
		return "rebuild"
	case phaseScan:
		return "scan"
	case phaseDone:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// collapse runs collapse passes until at most target triangles remain or the
// iteration budget is spent
func (s *Simplifier) collapse(target int, opts Options) {
	iteration := 0
	state := phaseCheck

	for state != phaseDone {
		switch state {
		case phaseCheck:
			state = s.next(iteration, target, opts.MaxIterationCount)

		case phaseRebuild:
			s.rebuild()
			state = phaseScan

		case phaseScan:
			limit := threshold(iteration, opts.Aggressiveness)
			s.scan(limit, target)
			s.stats.Iterations++
			s.stats.FinalThreshold = limit
			if opts.Log != nil {
				fmt.Fprintf(opts.Log, "iteration %d: threshold=%g triangles=%d\n", iteration, limit, s.live)
			}
			iteration++
			state = phaseCheck
		}
	}
}

// next picks the phase following a completed pass
func (s *Simplifier) next(iteration, target, maxIterations int) phase {
	if s.live <= target || iteration >= maxIterations {
		return phaseDone
	}
	if iteration%rebuildInterval == 0 {
		return phaseRebuild
	}
	return phaseScan
}

// rebuild removes deleted triangles and rebuilds the reference index. The
// first rebuild of a working set also classifies borders and initializes
// the quadrics.
func (s *Simplifier) rebuild() {
	s.removeDeletedTriangles()
	s.rebuildReferences()

	if !s.initialized {
		s.classifyBorders()
		s.initQuadrics()
		s.initialized = true
	}
}

// scan is one pass over the triangles, collapsing every edge whose cached
// error is within the threshold and whose collapse passes validation
func (s *Simplifier) scan(threshold float64, target int) {
	for i := range s.triangles {
		s.triangles[i].dirty = false
	}

	for i := range s.triangles {
		t := &s.triangles[i]
		if t.deleted || t.dirty || t.minErr > threshold {
			continue
		}

		for j := 0; j < 3; j++ {
			if t.err[j] > threshold {
				continue
			}
			if s.tryCollapse(t.v[j], t.v[(j+1)%3]) {
				break
			}
		}

		if s.live <= target {
			return
		}
	}
}

// tryCollapse merges vertex i1 into i0 if the collapse keeps the surface
// valid, reporting whether it did
func (s *Simplifier) tryCollapse(i0, i1 int) bool {
	if i0 == i1 {
		return false
	}
	v0 := &s.vertices[i0]
	v1 := &s.vertices[i1]
	if v0.border != v1.border || v0.uvSeam != v1.uvSeam || v0.uvFoldover != v1.uvFoldover {
		return false
	}

	_, p := s.collapseError(i0, i1)

	s.scratch.deleted0 = resetBools(s.scratch.deleted0, v0.refCount)
	s.scratch.deleted1 = resetBools(s.scratch.deleted1, v1.refCount)
	if s.flipped(p, i0, i1, s.scratch.deleted0) || s.flipped(p, i1, i0, s.scratch.deleted1) {
		return false
	}

	v0.position = p
	v0.quadric = v0.quadric.Add(v1.quadric)

	start := len(s.refs)
	s.updateTriangles(i0, i0, s.scratch.deleted0)
	s.updateTriangles(i0, i1, s.scratch.deleted1)

	// The refs appended above form i0's new incident list; i1 is retired
	// until the next rebuild drops it for good.
	v0.refStart = start
	v0.refCount = len(s.refs) - start
	v1.refCount = 0

	s.stats.Collapses++
	return true
}

// flipped reports whether moving vertex i0 to p would fold or degenerate one
// of its triangles. Triangles that also contain i1 collapse with the edge and
// are flagged in deleted instead of being tested.
func (s *Simplifier) flipped(p geometry.Vector3, i0, i1 int, deleted []bool) bool {
	v := s.vertices[i0]
	for k := 0; k < v.refCount; k++ {
		r := s.refs[v.refStart+k]
		t := &s.triangles[r.tri]
		if t.deleted {
			continue
		}

		id1 := t.v[(r.slot+1)%3]
		id2 := t.v[(r.slot+2)%3]
		if id1 == i1 || id2 == i1 {
			deleted[k] = true
			continue
		}

		d1 := s.vertices[id1].position.Sub(p).Normalize()
		d2 := s.vertices[id2].position.Sub(p).Normalize()
		if math.Abs(d1.Dot(d2)) > maxEdgeAlignment {
			return true
		}

		n := d1.Cross(d2).Normalize()
		deleted[k] = false
		if n.Dot(t.normal) < minNormalAgreement {
			return true
		}
	}
	return false
}

// updateTriangles repoints the live triangles of vertex from to vertex to.
// Triangles flagged in deleted are removed; the others become dirty, get
// fresh edge errors and are appended to the reference array.
func (s *Simplifier) updateTriangles(to, from int, deleted []bool) {
	start := s.vertices[from].refStart
	count := s.vertices[from].refCount

	for k := 0; k < count; k++ {
		r := s.refs[start+k]
		t := &s.triangles[r.tri]
		if t.deleted {
			continue
		}
		if deleted[k] {
			t.deleted = true
			s.live--
			s.stats.DeletedTriangles++
			continue
		}

		t.v[r.slot] = to
		t.dirty = true
		s.updateEdgeErrors(t)
		s.refs = append(s.refs, r)
	}
}
