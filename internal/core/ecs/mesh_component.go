package ecs

import (
	"fmt"

	"github.com/hexaengine/hexa/internal/core/asset"
	"github.com/hexaengine/hexa/internal/core/observability/log"
	"github.com/hexaengine/hexa/internal/core/physics"
	"github.com/hexaengine/hexa/internal/core/render"
	"github.com/hexaengine/hexa/pkg/vmath"
)

// MeshComponent shows a mesh on its owner's scene node and, depending on the
// mesh collision mode, gives the owner a matching collision.
type MeshComponent struct {
	ComponentBase

	mesh      *render.Mesh
	materials []*asset.Material
	visible   bool
	bodyType  physics.BodyType

	instance  *render.MeshInstance
	collision physics.Collision
}

func NewMeshComponent(mesh *render.Mesh, materials ...*asset.Material) *MeshComponent {
	return &MeshComponent{
		mesh:      mesh,
		materials: materials,
		visible:   true,
		bodyType:  physics.BodyDynamic,
	}
}

func (m *MeshComponent) Mesh() *render.Mesh { return m.mesh }

// Instance is the scene mesh instance while the component is started.
func (m *MeshComponent) Instance() *render.MeshInstance { return m.instance }

func (m *MeshComponent) Visible() bool { return m.visible }

func (m *MeshComponent) SetVisible(state bool) {
	m.visible = state
	if m.instance != nil {
		m.instance.SetVisible(state)
	}
}

// SetBodyType selects the owner's body type applied on start. Complex
// collisions are always static.
func (m *MeshComponent) SetBodyType(t physics.BodyType) { m.bodyType = t }

func (m *MeshComponent) Material(slot int) *asset.Material {
	if m.instance != nil {
		return m.instance.Material(slot)
	}
	if slot < 0 || slot >= len(m.materials) {
		return nil
	}
	return m.materials[slot]
}

func (m *MeshComponent) SetMaterial(slot int, material *asset.Material) bool {
	if m.mesh == nil || slot < 0 || slot >= m.mesh.MaterialCount() {
		return false
	}
	for len(m.materials) <= slot {
		m.materials = append(m.materials, nil)
	}
	m.materials[slot] = material
	if m.instance != nil {
		return m.instance.SetMaterial(slot, material)
	}
	return true
}

func (m *MeshComponent) OnStart() {
	owner := m.Owner()
	world := owner.World()
	if world == nil || owner.Node() == nil {
		return
	}

	inst, err := world.Scene().AttachMesh(owner.Node(), m.mesh, m.materials)
	if err != nil {
		world.logger.Error("failed attaching mesh", log.String("entity", owner.ID().String()), log.Error(err))
		return
	}
	inst.SetVisible(m.visible)
	m.instance = inst

	collision, err := m.buildCollision()
	if err != nil {
		world.logger.Error("failed building mesh collision", log.String("mesh", m.mesh.Name()), log.Error(err))
		return
	}
	if collision == nil {
		return
	}
	m.collision = collision

	bodyType := m.bodyType
	if m.mesh.CollisionMode() == render.CollisionComplex {
		bodyType = physics.BodyStatic
	}
	owner.setBodyType(bodyType)
	owner.SetCollision(collision, m.collisionOffset())
}

func (m *MeshComponent) buildCollision() (physics.Collision, error) {
	switch m.mesh.CollisionMode() {
	case render.CollisionDefault:
		return physics.NewBoxCollision(m.mesh.BoundsHalfSize()), nil
	case render.CollisionConvex:
		vertices, indices := m.mesh.Triangles()
		return physics.NewConvexMeshCollision(vertices, indices)
	case render.CollisionComplex:
		vertices, indices := m.mesh.Triangles()
		return physics.NewConcaveMeshCollision(vertices, indices)
	case render.CollisionNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown collision mode %d", m.mesh.CollisionMode())
	}
}

func (m *MeshComponent) collisionOffset() (offset vmath.Vector3) {
	if m.mesh.CollisionMode() == render.CollisionDefault {
		return m.mesh.BoundsCenter()
	}
	return offset
}

func (m *MeshComponent) OnDestroy() {
	owner := m.Owner()
	if owner == nil {
		return
	}
	if m.collision != nil && owner.Collision() == m.collision {
		owner.RemoveCollision()
	}
	m.collision = nil

	if m.instance != nil && owner.World() != nil {
		if scene := owner.World().Scene(); scene != nil && !scene.Closed() {
			_ = scene.DetachMesh(m.instance)
		}
	}
	m.instance = nil
}
