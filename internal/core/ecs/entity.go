package ecs

import (
	"slices"

	"github.com/google/uuid"

	"github.com/hexaengine/hexa/internal/core/physics"
	"github.com/hexaengine/hexa/internal/core/render"
	"github.com/hexaengine/hexa/pkg/vmath"
)

// Behavior is an entity as seen by its world. *Entity implements it with
// empty hooks; game types embed Entity and override the hooks.
type Behavior interface {
	Base() *Entity
	OnStart()
	OnTick(dt float32)
	OnDestroy()
}

// Entity is a positioned object in a World made of components. The physics
// body exists while the entity is spawned and has a collision.
type Entity struct {
	id        uuid.UUID
	behavior  Behavior
	world     *World
	transform vmath.Transform

	components []Component
	node       *render.Node
	body       *physics.Body

	collision  physics.Collision
	offset     vmath.Vector3
	bodyType   physics.BodyType
	mask       uint16
	gravityOff bool

	started     bool
	tickEnabled bool
	destroyed   bool

	onDestroyed []func(Behavior)
}

var _ Behavior = (*Entity)(nil)

func NewEntity() *Entity {
	e := &Entity{}
	e.init()
	return e
}

// init fills defaults for entities built as zero values inside embedding
// types. It runs once.
func (e *Entity) init() {
	if e.id == uuid.Nil {
		e.id = uuid.New()
		e.transform = vmath.NewTransform()
		e.bodyType = physics.BodyDynamic
		e.mask = physics.MaskDefault
	}
}

func (e *Entity) Base() *Entity { return e }

func (e *Entity) ID() uuid.UUID {
	e.init()
	return e.id
}

func (e *Entity) OnStart() {}

func (e *Entity) OnTick(float32) {}

func (e *Entity) OnDestroy() {}

// World is the world the entity was spawned into, nil before spawn and
// after destruction.
func (e *Entity) World() *World { return e.world }

// Node is the entity's scene node while spawned.
func (e *Entity) Node() *render.Node { return e.node }

// Body is the entity's physics body, nil without a collision.
func (e *Entity) Body() *physics.Body { return e.body }

func (e *Entity) Started() bool { return e.started }

func (e *Entity) Destroyed() bool { return e.destroyed }

func (e *Entity) Components() []Component { return slices.Clone(e.components) }

func (e *Entity) SetTickEnabled(state bool) { e.tickEnabled = state }

func (e *Entity) TickEnabled() bool { return e.tickEnabled }

// OnDestroyed registers fn to run when the entity is destroyed.
func (e *Entity) OnDestroyed(fn func(Behavior)) {
	e.onDestroyed = append(e.onDestroyed, fn)
}

func (e *Entity) Transform() vmath.Transform {
	e.init()
	return e.transform
}

func (e *Entity) Location() vmath.Vector3 { return e.transform.Location }

func (e *Entity) Rotation() vmath.Quaternion {
	e.init()
	return e.transform.Rotation
}

func (e *Entity) Scale() vmath.Vector3 {
	e.init()
	return e.transform.Scale
}

func (e *Entity) SetTransform(t vmath.Transform) {
	e.init()
	e.transform = t
	e.pushTransform()
}

func (e *Entity) SetLocation(location vmath.Vector3) {
	e.init()
	e.transform.Location = location
	e.pushTransform()
}

func (e *Entity) Translate(translation vmath.Vector3) {
	e.SetLocation(e.transform.Location.Add(translation))
}

func (e *Entity) SetRotation(rotation vmath.Quaternion) {
	e.init()
	e.transform.Rotation = rotation
	e.pushTransform()
}

// Rotate turns the entity by angle radians around axis.
func (e *Entity) Rotate(axis vmath.Vector3, angle float32) {
	e.init()
	e.SetRotation(vmath.FromAxisAngle(axis, angle).Mul(e.transform.Rotation).Normalize())
}

func (e *Entity) SetScale(scale vmath.Vector3) {
	e.init()
	e.transform.Scale = scale
	e.pushTransform()
}

func (e *Entity) pushTransform() {
	if e.node != nil {
		e.node.SetTransform(e.transform)
	}
	if e.body != nil {
		e.body.SetTransform(e.transform)
	}
}

// pullBody copies the simulated body location back onto the entity.
func (e *Entity) pullBody() {
	if e.body == nil || e.body.Type() == physics.BodyStatic {
		return
	}
	e.transform.Location = e.body.Transform().Location
	if e.node != nil {
		e.node.SetTransform(e.transform)
	}
}

// SetCollision sets the collider with an offset from the entity origin.
func (e *Entity) SetCollision(collision physics.Collision, offset vmath.Vector3) {
	if collision == nil {
		e.RemoveCollision()
		return
	}
	e.init()
	e.collision = collision
	e.offset = offset
	if e.body != nil {
		e.body.SetCollider(collision, offset)
		return
	}
	e.createBody()
}

func (e *Entity) RemoveCollision() {
	e.collision = nil
	e.offset = vmath.Vector3{}
	e.destroyBody()
}

func (e *Entity) Collision() physics.Collision { return e.collision }

func (e *Entity) SetCollisionMask(bits uint16) {
	e.init()
	e.mask = bits
	if e.body != nil {
		e.body.SetCollisionMask(bits)
	}
}

func (e *Entity) CollisionMask() uint16 {
	e.init()
	return e.mask
}

func (e *Entity) SetGravityEnabled(state bool) {
	e.init()
	e.gravityOff = !state
	if e.body != nil {
		e.body.SetGravityEnabled(state)
	}
}

func (e *Entity) GravityEnabled() bool { return !e.gravityOff }

func (e *Entity) MakeBodyStatic() { e.setBodyType(physics.BodyStatic) }

func (e *Entity) MakeBodyDynamic() { e.setBodyType(physics.BodyDynamic) }

func (e *Entity) MakeBodyKinematic() { e.setBodyType(physics.BodyKinematic) }

func (e *Entity) BodyType() physics.BodyType {
	e.init()
	return e.bodyType
}

func (e *Entity) setBodyType(t physics.BodyType) {
	e.init()
	e.bodyType = t
	if e.body != nil {
		e.body.SetType(t)
	}
}

func (e *Entity) createBody() {
	if e.world == nil || e.world.physics == nil || e.collision == nil {
		return
	}
	b := e.world.physics.CreateBody(e.transform, e)
	b.SetType(e.bodyType)
	b.SetCollider(e.collision, e.offset)
	b.SetCollisionMask(e.mask)
	b.SetGravityEnabled(!e.gravityOff)
	e.body = b
}

func (e *Entity) destroyBody() {
	if e.body == nil {
		return
	}
	if e.world != nil && e.world.physics != nil {
		_ = e.world.physics.DestroyBody(e.body)
	}
	e.body = nil
}

// RemoveAllComponents destroys and detaches every component, last first.
func (e *Entity) RemoveAllComponents() {
	for len(e.components) > 0 {
		last := e.components[len(e.components)-1]
		e.components = e.components[:len(e.components)-1]
		last.OnDestroy()
		last.base().owner = nil
	}
}

// Destroy runs OnDestroy, removes every component, notifies OnDestroyed
// listeners and removes the entity from its world. Repeated calls do nothing.
func (e *Entity) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true

	e.self().OnDestroy()
	e.RemoveAllComponents()

	for _, fn := range e.onDestroyed {
		fn(e.self())
	}
	e.onDestroyed = nil

	if e.world != nil {
		e.world.remove(e)
	}
}

func (e *Entity) self() Behavior {
	if e.behavior != nil {
		return e.behavior
	}
	return e
}

func (e *Entity) start() {
	if e.started || e.destroyed {
		return
	}
	e.started = true
	e.self().OnStart()
	for _, c := range slices.Clone(e.components) {
		if e.destroyed {
			return
		}
		if c.base().owner == e && !c.base().started {
			startComponent(c)
		}
	}
}

func (e *Entity) tick(dt float32) {
	if !e.tickEnabled || !e.started || e.destroyed {
		return
	}
	e.self().OnTick(dt)
	for _, c := range slices.Clone(e.components) {
		if e.destroyed {
			return
		}
		if c.base().owner == e {
			c.OnTick(dt)
		}
	}
}
