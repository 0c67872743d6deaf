package geometry

import (
	"math"
	"testing"
)

func TestPlaneQuadricError(t *testing.T) {
	// Plane z = 2
	q := NewPlaneQuadric(0, 0, 1, -2)

	tests := []struct {
		point    Vector3
		expected float64
	}{
		{NewVector3(0, 0, 2), 0},
		{NewVector3(5, -3, 2), 0},
		{NewVector3(0, 0, 5), 9},
		{NewVector3(1, 1, 0), 4},
	}

	for _, tt := range tests {
		if got := q.Error(tt.point); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Error(%v) failed: expected %v, got %v", tt.point, tt.expected, got)
		}
	}
}

func TestQuadricAddIsOrderIndependent(t *testing.T) {
	a := NewPlaneQuadric(1, 0, 0, -1)
	b := NewPlaneQuadric(0, 1, 0, -2)
	c := NewPlaneQuadric(0, 0, 1, -3)

	left := a.Add(b).Add(c)
	right := c.Add(a.Add(b))

	if left != right {
		t.Errorf("Add failed: expected %v, got %v", left, right)
	}
}

func TestQuadricOptimum(t *testing.T) {
	q := NewPlaneQuadric(1, 0, 0, -1).
		Add(NewPlaneQuadric(0, 1, 0, -2)).
		Add(NewPlaneQuadric(0, 0, 1, -3))

	p, ok := q.Optimum()
	if !ok {
		t.Fatalf("Optimum failed: expected a solution for three orthogonal planes")
	}

	expected := NewVector3(1, 2, 3)
	if p.Distance(expected) > 1e-12 {
		t.Errorf("Optimum failed: expected %v, got %v", expected, p)
	}
	if e := q.Error(p); math.Abs(e) > 1e-12 {
		t.Errorf("Error at optimum failed: expected 0, got %v", e)
	}
}

func TestQuadricOptimumSingular(t *testing.T) {
	// Two parallel planes leave the system singular
	q := NewPlaneQuadric(0, 0, 1, 0).Add(NewPlaneQuadric(0, 0, 1, -1))

	if _, ok := q.Optimum(); ok {
		t.Errorf("Optimum failed: expected singular system")
	}
	if det := q.Det1(); det != 0 {
		t.Errorf("Det1 failed: expected 0, got %v", det)
	}
}

func TestQuadricOptimumTiltedPlanes(t *testing.T) {
	n1 := NewVector3(1, 1, 0).Normalize()
	n2 := NewVector3(0, 1, 1).Normalize()
	n3 := NewVector3(1, 0, 1).Normalize()
	target := NewVector3(0.5, -1, 2)

	q := NewPlaneQuadric(n1.X, n1.Y, n1.Z, -n1.Dot(target)).
		Add(NewPlaneQuadric(n2.X, n2.Y, n2.Z, -n2.Dot(target))).
		Add(NewPlaneQuadric(n3.X, n3.Y, n3.Z, -n3.Dot(target)))

	p, ok := q.Optimum()
	if !ok {
		t.Fatalf("Optimum failed: expected a solution")
	}
	if p.Distance(target) > 1e-9 {
		t.Errorf("Optimum failed: expected %v, got %v", target, p)
	}
}
