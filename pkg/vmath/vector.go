// Package vmath holds the float32 vector types shared by the scene, physics
// and audio layers.
package vmath

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Epsilon is the tolerance used by the approximate comparisons.
const Epsilon float32 = 1e-5

type Vector2 struct {
	X, Y float32
}

func Vec2(x, y float32) Vector2 {
	return Vector2{X: x, Y: y}
}

func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{v.X + o.X, v.Y + o.Y}
}

func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{v.X - o.X, v.Y - o.Y}
}

func (v Vector2) Scale(s float32) Vector2 {
	return Vector2{v.X * s, v.Y * s}
}

func (v Vector2) Dot(o Vector2) float32 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vector2) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

func (v Vector2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vector2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

type Vector3 struct {
	X, Y, Z float32
}

func Vec3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Zero is the origin.
func Zero() Vector3 { return Vector3{} }

// One is the unit scale.
func One() Vector3 { return Vector3{1, 1, 1} }

// Up is +Y, the engine's world up axis.
func Up() Vector3 { return Vector3{0, 1, 0} }

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector3) Mul(o Vector3) Vector3 {
	return Vector3{v.X * o.X, v.Y * o.Y, v.Z * o.Z}
}

// Div divides component-wise.
func (v Vector3) Div(o Vector3) Vector3 {
	return Vector3{v.X / o.X, v.Y / o.Y, v.Z / o.Z}
}

func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vector3) Negate() Vector3 {
	return Vector3{-v.X, -v.Y, -v.Z}
}

func (v Vector3) Dot(o Vector3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector3) LengthSquared() float32 {
	return v.Dot(v)
}

func (v Vector3) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Normalize returns the unit vector; the zero vector is returned unchanged.
func (v Vector3) Normalize() Vector3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

func (v Vector3) Distance(o Vector3) float32 {
	return v.Sub(o).Length()
}

func (v Vector3) Lerp(o Vector3, t float32) Vector3 {
	return v.Add(o.Sub(v).Scale(t))
}

func (v Vector3) Min(o Vector3) Vector3 {
	return Vector3{math32.Min(v.X, o.X), math32.Min(v.Y, o.Y), math32.Min(v.Z, o.Z)}
}

func (v Vector3) Max(o Vector3) Vector3 {
	return Vector3{math32.Max(v.X, o.X), math32.Max(v.Y, o.Y), math32.Max(v.Z, o.Z)}
}

func (v Vector3) Abs() Vector3 {
	return Vector3{math32.Abs(v.X), math32.Abs(v.Y), math32.Abs(v.Z)}
}

func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// ApproxEqual compares component-wise within Epsilon.
func (v Vector3) ApproxEqual(o Vector3) bool {
	return math32.Abs(v.X-o.X) <= Epsilon &&
		math32.Abs(v.Y-o.Y) <= Epsilon &&
		math32.Abs(v.Z-o.Z) <= Epsilon
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
