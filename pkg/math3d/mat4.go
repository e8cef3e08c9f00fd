package math3d

import "math"

// Mat4 is a 4x4 transform stored column by column, so a point maps as
//
//	x' = m0*x + m4*y + m8*z + m12
//	y' = m1*x + m5*y + m9*z + m13
//	z' = m2*x + m6*y + m10*z + m14
//	w' = m3*x + m7*y + m11*z + m15
//
// and the translation lives in elements 12..14. Writing the sixteen floats
// in the order they appear in a camera export gives the matrix directly.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = v.X, v.Y, v.Z
	return m
}

// RotateX creates a rotation matrix around the X axis.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY creates a rotation matrix around the Y axis.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// LookAt returns the world-to-camera transform for a camera at eye looking
// towards center. The camera looks down its own -Z axis.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Mul returns a*b: applying the result applies b first, then a.
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// MulVec3 transforms p as a point and divides by w.
func (m Mat4) MulVec3(p Vec3) Vec3 {
	w := m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]
	if w == 0 {
		w = 1
	}
	return Vec3{
		(m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12]) / w,
		(m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13]) / w,
		(m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14]) / w,
	}
}

// MulVec3Dir transforms d as a direction, ignoring translation.
func (m Mat4) MulVec3Dir(d Vec3) Vec3 {
	return Vec3{
		m[0]*d.X + m[4]*d.Y + m[8]*d.Z,
		m[1]*d.X + m[5]*d.Y + m[9]*d.Z,
		m[2]*d.X + m[6]*d.Y + m[10]*d.Z,
	}
}

// Inverse inverts m by Gauss-Jordan elimination with partial pivoting.
// ok is false when m is singular.
func (m Mat4) Inverse() (inv Mat4, ok bool) {
	const eps = 1e-12

	a := m
	inv = Identity()
	at := func(mat *Mat4, row, col int) *float64 { return &mat[row+col*4] }

	for col := range 4 {
		pivot := col
		for row := col + 1; row < 4; row++ {
			if math.Abs(*at(&a, row, col)) > math.Abs(*at(&a, pivot, col)) {
				pivot = row
			}
		}
		if math.Abs(*at(&a, pivot, col)) < eps {
			return Mat4{}, false
		}
		if pivot != col {
			for k := range 4 {
				pa, ca := at(&a, pivot, k), at(&a, col, k)
				*pa, *ca = *ca, *pa
				pi, ci := at(&inv, pivot, k), at(&inv, col, k)
				*pi, *ci = *ci, *pi
			}
		}

		d := *at(&a, col, col)
		for k := range 4 {
			*at(&a, col, k) /= d
			*at(&inv, col, k) /= d
		}

		for row := range 4 {
			if row == col {
				continue
			}
			f := *at(&a, row, col)
			if f == 0 {
				continue
			}
			for k := range 4 {
				*at(&a, row, k) -= f * *at(&a, col, k)
				*at(&inv, row, k) -= f * *at(&inv, col, k)
			}
		}
	}
	return inv, true
}

// Translation extracts the translation component.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// ApproxEqual reports whether every element of a and b differs by at most eps.
func (a Mat4) ApproxEqual(b Mat4, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
