package physics

import (
	"fmt"

	"github.com/hexaengine/hexa/pkg/vmath"
)

type BodyType uint8

const (
	BodyStatic BodyType = iota
	BodyKinematic
	BodyDynamic
)

func (t BodyType) String() string {
	switch t {
	case BodyStatic:
		return "static"
	case BodyKinematic:
		return "kinematic"
	case BodyDynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("body_type(%d)", uint8(t))
	}
}

// Collision mask bits. A raycast hits a body, and two bodies touch, when
// their masks share a bit.
const (
	MaskNone    uint16 = 0
	MaskDefault uint16 = 1 << 0
	MaskAll     uint16 = 0xFFFF
)

// Body is a rigid body owned by a World. Bodies start dynamic with gravity
// enabled and no collider.
type Body struct {
	world     *World
	bodyType  BodyType
	transform vmath.Transform
	velocity  vmath.Vector3
	collision Collision
	offset    vmath.Vector3
	mask      uint16
	gravity   bool
	userData  any
}

func (b *Body) Type() BodyType { return b.bodyType }

func (b *Body) SetType(t BodyType) {
	b.bodyType = t
	if t == BodyStatic {
		b.velocity = vmath.Vector3{}
	}
}

func (b *Body) Transform() vmath.Transform { return b.transform }

func (b *Body) SetTransform(t vmath.Transform) { b.transform = t }

func (b *Body) Velocity() vmath.Vector3 { return b.velocity }

func (b *Body) SetVelocity(v vmath.Vector3) {
	if b.bodyType == BodyStatic {
		return
	}
	b.velocity = v
}

// SetCollider replaces the body's collider. offset is in body-local space.
func (b *Body) SetCollider(c Collision, offset vmath.Vector3) {
	b.collision = c
	b.offset = offset
}

func (b *Body) RemoveCollider() {
	b.collision = nil
	b.offset = vmath.Vector3{}
}

func (b *Body) Collider() (Collision, vmath.Vector3) { return b.collision, b.offset }

func (b *Body) SetCollisionMask(bits uint16) { b.mask = bits }

func (b *Body) CollisionMask() uint16 { return b.mask }

func (b *Body) SetGravityEnabled(state bool) { b.gravity = state }

func (b *Body) GravityEnabled() bool { return b.gravity }

// UserData is the value passed to CreateBody, usually the owning entity.
func (b *Body) UserData() any { return b.userData }

// Destroyed reports whether the body was removed from its world.
func (b *Body) Destroyed() bool { return b.world == nil }

func (b *Body) colliderCenter() vmath.Vector3 {
	return b.transform.Location.Add(b.transform.Rotation.Rotate(b.offset.Mul(b.transform.Scale)))
}

// worldBounds is the world axis aligned box around the scaled and rotated
// collider.
func (b *Body) worldBounds() (lo, hi vmath.Vector3) {
	localMin, localMax := b.collision.Bounds()
	center := b.colliderCenter()
	for i := range 8 {
		corner := localMin
		if i&1 != 0 {
			corner.X = localMax.X
		}
		if i&2 != 0 {
			corner.Y = localMax.Y
		}
		if i&4 != 0 {
			corner.Z = localMax.Z
		}
		p := center.Add(b.transform.Rotation.Rotate(corner.Mul(b.transform.Scale)))
		if i == 0 {
			lo, hi = p, p
			continue
		}
		lo, hi = lo.Min(p), hi.Max(p)
	}
	return lo, hi
}

func (b *Body) degenerateScale() bool {
	s := b.transform.Scale
	return s.X == 0 || s.Y == 0 || s.Z == 0
}
