package vmath

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/require"
)

func TestVector3Basics(t *testing.T) {
	a := Vec3(1, 2, 3)
	b := Vec3(4, 5, 6)

	require.Equal(t, Vec3(5, 7, 9), a.Add(b))
	require.Equal(t, Vec3(-3, -3, -3), a.Sub(b))
	require.Equal(t, Vec3(2, 4, 6), a.Scale(2))
	require.Equal(t, Vec3(4, 2.5, 2), b.Div(Vec3(1, 2, 3)))
	require.Equal(t, float32(32), a.Dot(b))
	require.Equal(t, Vec3(-3, 6, -3), a.Cross(b))
	require.InDelta(t, 5, Vec3(3, 4, 0).Length(), 1e-6)
	require.True(t, Vec3(0, 0, 9).Normalize().ApproxEqual(Vec3(0, 0, 1)))
	require.True(t, Zero().Normalize().IsZero())
}

func TestQuaternionRotate(t *testing.T) {
	q := FromAxisAngle(Up(), math32.Pi/2)
	got := q.Rotate(Vec3(1, 0, 0))
	require.True(t, got.ApproxEqual(Vec3(0, 0, -1)), got.String())

	require.True(t, Identity().Forward().ApproxEqual(Vec3(0, 0, -1)))
	require.True(t, q.Mul(q.Conjugate()).ApproxEqual(Identity()))
}

func TestQuaternionMulComposes(t *testing.T) {
	quarter := FromAxisAngle(Up(), math32.Pi/2)
	half := quarter.Mul(quarter)
	require.True(t, half.ApproxEqual(FromAxisAngle(Up(), math32.Pi)))
	require.True(t, half.Rotate(Vec3(1, 0, 0)).ApproxEqual(Vec3(-1, 0, 0)))
}

func TestTransformApply(t *testing.T) {
	tr := NewTransform()
	tr.Location = Vec3(10, 0, 0)
	tr.Scale = Vec3(2, 2, 2)
	tr.Rotation = FromAxisAngle(Up(), math32.Pi/2)

	require.True(t, tr.Apply(Vec3(1, 0, 0)).ApproxEqual(Vec3(10, 0, -2)))

	composed := tr.Compose(At(Vec3(1, 0, 0)))
	require.True(t, composed.Location.ApproxEqual(Vec3(10, 0, -2)))
	require.Equal(t, Vec3(2, 2, 2), composed.Scale)
}
