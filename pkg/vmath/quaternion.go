package vmath

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Quaternion is a rotation with X,Y,Z and W components.
type Quaternion struct {
	X, Y, Z, W float32
}

func Identity() Quaternion {
	return Quaternion{W: 1}
}

// FromAxisAngle builds a rotation of angle radians around axis.
func FromAxisAngle(axis Vector3, angle float32) Quaternion {
	axis = axis.Normalize()
	half := angle / 2
	s := math32.Sin(half)
	return Quaternion{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: math32.Cos(half),
	}
}

// FromEuler builds a rotation from XYZ Euler angles in radians.
func FromEuler(euler Vector3) Quaternion {
	c1 := math32.Cos(euler.X / 2)
	c2 := math32.Cos(euler.Y / 2)
	c3 := math32.Cos(euler.Z / 2)
	s1 := math32.Sin(euler.X / 2)
	s2 := math32.Sin(euler.Y / 2)
	s3 := math32.Sin(euler.Z / 2)

	return Quaternion{
		X: s1*c2*c3 - c1*s2*s3,
		Y: c1*s2*c3 + s1*c2*s3,
		Z: c1*c2*s3 - s1*s2*c3,
		W: c1*c2*c3 + s1*s2*s3,
	}
}

func (q Quaternion) IsIdentity() bool {
	return q.X == 0 && q.Y == 0 && q.Z == 0 && q.W == 1
}

// Mul returns q*o: o is applied first, then q.
func (q Quaternion) Mul(o Quaternion) Quaternion {
	return Quaternion{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{-q.X, -q.Y, -q.Z, q.W}
}

func (q Quaternion) Length() float32 {
	return math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

func (q Quaternion) Normalize() Quaternion {
	l := q.Length()
	if l == 0 {
		return Identity()
	}
	inv := 1 / l
	return Quaternion{q.X * inv, q.Y * inv, q.Z * inv, q.W * inv}
}

// Rotate applies the rotation to v.
func (q Quaternion) Rotate(v Vector3) Vector3 {
	u := Vector3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Forward is the rotated -Z axis, the direction cameras look along.
func (q Quaternion) Forward() Vector3 {
	return q.Rotate(Vector3{0, 0, -1})
}

func (q Quaternion) Right() Vector3 {
	return q.Rotate(Vector3{1, 0, 0})
}

func (q Quaternion) Up() Vector3 {
	return q.Rotate(Vector3{0, 1, 0})
}

func (q Quaternion) ApproxEqual(o Quaternion) bool {
	// q and -q encode the same rotation
	d := q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
	return math32.Abs(math32.Abs(d)-1) <= Epsilon*10
}

func (q Quaternion) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", q.X, q.Y, q.Z, q.W)
}
