package geometry

// SymmetricQuadric holds the upper triangle of a symmetric 4x4 error matrix,
// row by row:
//
//	0 1 2 3
//	  4 5 6
//	    7 8
//	      9
//
// The quadric of a plane ax+by+cz+d=0 measures squared distance to that plane.
// Sums of plane quadrics measure the summed squared distance to all of them.
type SymmetricQuadric [10]float64

// NewPlaneQuadric creates the rank-1 quadric of the plane ax+by+cz+d=0
func NewPlaneQuadric(a, b, c, d float64) SymmetricQuadric {
	return SymmetricQuadric{
		a * a, a * b, a * c, a * d,
		b * b, b * c, b * d,
		c * c, c * d,
		d * d,
	}
}

// Add returns the element-wise sum of two quadrics
func (q SymmetricQuadric) Add(other SymmetricQuadric) SymmetricQuadric {
	var r SymmetricQuadric
	for i := range q {
		r[i] = q[i] + other[i]
	}
	return r
}

// Det returns the determinant of the 3x3 matrix whose elements are taken
// from the given quadric slots, in row-major order
func (q SymmetricQuadric) Det(a11, a12, a13, a21, a22, a23, a31, a32, a33 int) float64 {
	return q[a11]*q[a22]*q[a33] + q[a13]*q[a21]*q[a32] + q[a12]*q[a23]*q[a31] -
		q[a13]*q[a22]*q[a31] - q[a11]*q[a23]*q[a32] - q[a12]*q[a21]*q[a33]
}

// Det1 is the determinant of the upper-left 3x3 block
func (q SymmetricQuadric) Det1() float64 { return q.Det(0, 1, 2, 1, 4, 5, 2, 5, 7) }

// Det2 is the Cramer numerator for x (with sign folded in by Optimum)
func (q SymmetricQuadric) Det2() float64 { return q.Det(1, 2, 3, 4, 5, 6, 5, 7, 8) }

// Det3 is the Cramer numerator for y
func (q SymmetricQuadric) Det3() float64 { return q.Det(0, 2, 3, 1, 5, 6, 2, 7, 8) }

// Det4 is the Cramer numerator for z (with sign folded in by Optimum)
func (q SymmetricQuadric) Det4() float64 { return q.Det(0, 1, 3, 1, 4, 6, 2, 5, 8) }

// Optimum returns the point minimizing the quadric error.
// ok is false when the 3x3 system is singular.
func (q SymmetricQuadric) Optimum() (p Vector3, ok bool) {
	det := q.Det1()
	if det == 0 {
		return Vector3{}, false
	}
	return Vector3{
		X: -1 / det * q.Det2(),
		Y: 1 / det * q.Det3(),
		Z: -1 / det * q.Det4(),
	}, true
}

// Error evaluates vᵗQv for v = (p, 1)
func (q SymmetricQuadric) Error(p Vector3) float64 {
	x, y, z := p.X, p.Y, p.Z
	return q[0]*x*x + 2*q[1]*x*y + 2*q[2]*x*z + 2*q[3]*x +
		q[4]*y*y + 2*q[5]*y*z + 2*q[6]*y +
		q[7]*z*z + 2*q[8]*z +
		q[9]
}
