package geometry

import "math"

// RigidTransform3D is a rotation followed by a translation, stored as the
// 3x4 matrix [R | T].
type RigidTransform3D struct {
	R [3][3]float64
	T Point3D
}

// Identity3D returns the identity rigid transform.
func Identity3D() RigidTransform3D {
	return RigidTransform3D{R: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// AxisAngle builds a rigid transform rotating by angle radians about axis
// (Rodrigues' formula) and then translating by t. A zero axis yields a pure
// translation.
func AxisAngle(axis Point3D, angle float64, t Point3D) RigidTransform3D {
	out := Identity3D()
	out.T = t
	n := axis.Norm()
	if n == 0 {
		return out
	}
	k := axis.Mul(1 / n)
	c, s := math.Cos(angle), math.Sin(angle)
	v := 1 - c
	out.R = [3][3]float64{
		{c + k.X*k.X*v, k.X*k.Y*v - k.Z*s, k.X*k.Z*v + k.Y*s},
		{k.Y*k.X*v + k.Z*s, c + k.Y*k.Y*v, k.Y*k.Z*v - k.X*s},
		{k.Z*k.X*v - k.Y*s, k.Z*k.Y*v + k.X*s, c + k.Z*k.Z*v},
	}
	return out
}

// Apply applies the transform to a point.
func (t RigidTransform3D) Apply(p Point3D) Point3D {
	return Point3D{
		X: t.R[0][0]*p.X + t.R[0][1]*p.Y + t.R[0][2]*p.Z + t.T.X,
		Y: t.R[1][0]*p.X + t.R[1][1]*p.Y + t.R[1][2]*p.Z + t.T.Y,
		Z: t.R[2][0]*p.X + t.R[2][1]*p.Y + t.R[2][2]*p.Z + t.T.Z,
	}
}

// Inverse returns the inverse rigid transform.
func (t RigidTransform3D) Inverse() RigidTransform3D {
	var out RigidTransform3D
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.R[i][j] = t.R[j][i]
		}
	}
	rt := RigidTransform3D{R: out.R}.Apply(t.T)
	out.T = rt.Mul(-1)
	return out
}

// ToMatrix returns the transform as a [3][4]float64 array.
func (t RigidTransform3D) ToMatrix() [3][4]float64 {
	tv := [3]float64{t.T.X, t.T.Y, t.T.Z}
	var m [3][4]float64
	for i := 0; i < 3; i++ {
		copy(m[i][:3], t.R[i][:])
		m[i][3] = tv[i]
	}
	return m
}

// IsFinite reports whether every coefficient is finite.
func (t RigidTransform3D) IsFinite() bool {
	for i := range t.R {
		for j := range t.R[i] {
			if !isFinite(t.R[i][j]) {
				return false
			}
		}
	}
	return isFinite(t.T.X) && isFinite(t.T.Y) && isFinite(t.T.Z)
}
