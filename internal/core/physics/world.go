package physics

import (
	"slices"
	"sort"

	"github.com/chewxy/math32"

	"github.com/hexaengine/hexa/pkg/vmath"
)

// DefaultGravity points down the world up axis.
var DefaultGravity = vmath.Vec3(0, -9.81, 0)

// maxStepsPerUpdate bounds the catch-up work after a long frame.
const maxStepsPerUpdate = 8

type RaycastResult struct {
	Location vmath.Vector3
	Normal   vmath.Vector3
	// TriangleIndex is the hit triangle for mesh colliders, -1 otherwise.
	TriangleIndex int
	Distance      float32
	Body          *Body
}

// World is the physics simulation of one game world. It is driven from the
// main thread and is not safe for concurrent use.
//
// Contacts are resolved on world bounding boxes only: a dynamic body is pushed
// out of the static and kinematic bodies it overlaps and loses its velocity
// into them. Dynamic bodies pass through each other.
type World struct {
	gravity      vmath.Vector3
	tickInterval float32
	accumulator  float32
	bodies       []*Body
	steps        uint64
}

func NewWorld(gravity vmath.Vector3, tickInterval float32) *World {
	if tickInterval <= 0 {
		tickInterval = 1.0 / 60.0
	}
	return &World{gravity: gravity, tickInterval: tickInterval}
}

func (w *World) Gravity() vmath.Vector3 { return w.gravity }

func (w *World) SetGravity(g vmath.Vector3) { w.gravity = g }

func (w *World) TickInterval() float32 { return w.tickInterval }

// Steps is the number of fixed steps simulated so far.
func (w *World) Steps() uint64 { return w.steps }

func (w *World) CreateBody(transform vmath.Transform, userData any) *Body {
	b := &Body{
		world:     w,
		bodyType:  BodyDynamic,
		transform: transform,
		mask:      MaskDefault,
		gravity:   true,
		userData:  userData,
	}
	w.bodies = append(w.bodies, b)
	return b
}

func (w *World) DestroyBody(b *Body) error {
	if b == nil || b.world == nil {
		return nil
	}
	if b.world != w {
		return ErrForeignBody
	}
	w.bodies = slices.DeleteFunc(w.bodies, func(existing *Body) bool { return existing == b })
	b.world = nil
	return nil
}

func (w *World) Bodies() []*Body {
	return slices.Clone(w.bodies)
}

// Update advances the simulation by dt using fixed steps and returns the
// number of steps taken. Leftover time carries over to the next call.
func (w *World) Update(dt float32) int {
	if dt <= 0 {
		return 0
	}
	w.accumulator += dt
	steps := 0
	for w.accumulator >= w.tickInterval && steps < maxStepsPerUpdate {
		w.Step(w.tickInterval)
		w.accumulator -= w.tickInterval
		steps++
	}
	if steps == maxStepsPerUpdate {
		w.accumulator = 0
	}
	return steps
}

// Step integrates one step of dt seconds and then resolves contacts.
func (w *World) Step(dt float32) {
	for _, b := range w.bodies {
		switch b.bodyType {
		case BodyDynamic:
			if b.gravity {
				b.velocity = b.velocity.Add(w.gravity.Scale(dt))
			}
			b.transform.Location = b.transform.Location.Add(b.velocity.Scale(dt))
		case BodyKinematic:
			b.transform.Location = b.transform.Location.Add(b.velocity.Scale(dt))
		}
	}
	w.resolveContacts()
	w.steps++
}

func (w *World) resolveContacts() {
	for _, b := range w.bodies {
		if b.bodyType != BodyDynamic || b.collision == nil || b.degenerateScale() {
			continue
		}
		for _, other := range w.bodies {
			if other.bodyType == BodyDynamic || other.collision == nil || b.mask&other.mask == 0 {
				continue
			}
			bMin, bMax := b.worldBounds()
			oMin, oMax := other.worldBounds()
			push, ok := separation(bMin, bMax, oMin, oMax)
			if !ok {
				continue
			}
			b.transform.Location = b.transform.Location.Add(push)
			n := push.Normalize()
			if into := b.velocity.Dot(n); into < 0 {
				b.velocity = b.velocity.Sub(n.Scale(into))
			}
		}
	}
}

// separation is the shortest axis aligned move taking box a out of box b.
func separation(aMin, aMax, bMin, bMax vmath.Vector3) (vmath.Vector3, bool) {
	aLo := [3]float32{aMin.X, aMin.Y, aMin.Z}
	aHi := [3]float32{aMax.X, aMax.Y, aMax.Z}
	bLo := [3]float32{bMin.X, bMin.Y, bMin.Z}
	bHi := [3]float32{bMax.X, bMax.Y, bMax.Z}

	depth := math32.Inf(1)
	axis, sign := 0, float32(1)
	for i := range 3 {
		down := aHi[i] - bLo[i]
		up := bHi[i] - aLo[i]
		if down <= 0 || up <= 0 {
			return vmath.Vector3{}, false
		}
		if up < depth {
			depth, axis, sign = up, i, 1
		}
		if down < depth {
			depth, axis, sign = down, i, -1
		}
	}
	return axisVector(axis, sign).Scale(depth), true
}

// Raycast returns every collider crossed by the segment from -> to whose
// mask shares a bit with mask, nearest first.
func (w *World) Raycast(from, to vmath.Vector3, mask uint16) []RaycastResult {
	segment := to.Sub(from)
	length := segment.Length()
	if length == 0 {
		return nil
	}
	dir := segment.Scale(1 / length)

	var results []RaycastResult
	for _, b := range w.bodies {
		if b.collision == nil || b.mask&mask == 0 || b.degenerateScale() {
			continue
		}

		// Shapes are tested in unscaled collider space; the hit distance
		// stays in world units since localDir is not renormalized.
		scale := b.transform.Scale
		inv := b.transform.Rotation.Conjugate()
		localOrigin := inv.Rotate(from.Sub(b.colliderCenter())).Div(scale)
		localDir := inv.Rotate(dir).Div(scale)

		h, ok := b.collision.intersect(localOrigin, localDir, length)
		if !ok {
			continue
		}
		results = append(results, RaycastResult{
			Location:      from.Add(dir.Scale(h.distance)),
			Normal:        b.transform.Rotation.Rotate(h.normal.Div(scale)).Normalize(),
			TriangleIndex: h.triangle,
			Distance:      h.distance,
			Body:          b,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	return results
}
