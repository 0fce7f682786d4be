package physics

import (
	"github.com/chewxy/math32"

	"github.com/hexaengine/hexa/pkg/vmath"
)

const parallelEpsilon float32 = 1e-7

func intersectAABB(bmin, bmax, origin, dir vmath.Vector3, maxDist float32) (hit, bool) {
	tMin := float32(0)
	tMax := maxDist
	normal := vmath.Vector3{}

	o := [3]float32{origin.X, origin.Y, origin.Z}
	d := [3]float32{dir.X, dir.Y, dir.Z}
	lo := [3]float32{bmin.X, bmin.Y, bmin.Z}
	hi := [3]float32{bmax.X, bmax.Y, bmax.Z}

	for axis := 0; axis < 3; axis++ {
		if math32.Abs(d[axis]) < parallelEpsilon {
			if o[axis] < lo[axis] || o[axis] > hi[axis] {
				return hit{}, false
			}
			continue
		}
		inv := 1 / d[axis]
		t1 := (lo[axis] - o[axis]) * inv
		t2 := (hi[axis] - o[axis]) * inv
		sign := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tMin {
			tMin = t1
			normal = axisVector(axis, sign)
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return hit{}, false
		}
	}

	if normal.IsZero() {
		// origin is inside the box
		normal = dir.Normalize().Negate()
	}
	return hit{distance: tMin, normal: normal, triangle: -1}, true
}

func axisVector(axis int, sign float32) vmath.Vector3 {
	switch axis {
	case 0:
		return vmath.Vec3(sign, 0, 0)
	case 1:
		return vmath.Vec3(0, sign, 0)
	default:
		return vmath.Vec3(0, 0, sign)
	}
}

// intersectSphere accepts a non unit dir; distances are in multiples of dir.
func intersectSphere(radius float32, origin, dir vmath.Vector3, maxDist float32) (hit, bool) {
	a := dir.Dot(dir)
	b := origin.Dot(dir)
	c := origin.Dot(origin) - radius*radius
	if c > 0 && b > 0 {
		return hit{}, false
	}
	disc := b*b - a*c
	if disc < 0 {
		return hit{}, false
	}
	t := (-b - math32.Sqrt(disc)) / a
	if t < 0 {
		t = 0
	}
	if t > maxDist {
		return hit{}, false
	}
	point := origin.Add(dir.Scale(t))
	normal := point.Normalize()
	if normal.IsZero() {
		normal = dir.Normalize().Negate()
	}
	return hit{distance: t, normal: normal, triangle: -1}, true
}

// intersectTriangle is the Moller-Trumbore test; both sides of the triangle are solid.
func intersectTriangle(a, b, c, origin, dir vmath.Vector3, maxDist float32) (hit, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := dir.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < parallelEpsilon {
		return hit{}, false
	}
	inv := 1 / det
	s := origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return hit{}, false
	}
	q := s.Cross(e1)
	v := dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return hit{}, false
	}
	t := e2.Dot(q) * inv
	if t < 0 || t > maxDist {
		return hit{}, false
	}

	normal := e1.Cross(e2).Normalize()
	if normal.Dot(dir) > 0 {
		normal = normal.Negate()
	}
	return hit{distance: t, normal: normal}, true
}
