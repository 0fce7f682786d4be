package render

import (
	"fmt"
	"slices"

	"github.com/hexaengine/hexa/pkg/vmath"
)

type Vertex struct {
	Position vmath.Vector3
	UV       vmath.Vector2
	Normal   vmath.Vector3
}

// SubMesh is one material slot worth of geometry.
type SubMesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// Add appends geometry, rebasing the new indices past the existing vertices.
func (s *SubMesh) Add(vertices []Vertex, indices []uint32) {
	base := uint32(len(s.Vertices))
	s.Vertices = append(s.Vertices, vertices...)
	for _, idx := range indices {
		s.Indices = append(s.Indices, base+idx)
	}
}

// CollisionMode selects which collider a mesh component builds for its body.
type CollisionMode uint8

const (
	CollisionNone CollisionMode = iota
	// CollisionDefault is a box around the mesh bounds.
	CollisionDefault
	CollisionConvex
	CollisionComplex
)

// Mesh is immutable static geometry shared by every component that displays it.
type Mesh struct {
	name          string
	subMeshes     []SubMesh
	collisionMode CollisionMode
	boundsCenter  vmath.Vector3
	boundsHalf    vmath.Vector3
	instanced     bool
}

// NewMesh copies subMeshes and computes the bounds. When computeNormals is
// set, vertex normals are rebuilt from the triangles.
func NewMesh(name string, subMeshes []SubMesh, mode CollisionMode, computeNormals bool) (*Mesh, error) {
	m := &Mesh{name: name, collisionMode: mode}
	first := true
	var lo, hi vmath.Vector3

	for _, sm := range subMeshes {
		if len(sm.Indices)%3 != 0 {
			return nil, fmt.Errorf("mesh %s submesh %q: %d indices: %w", name, sm.Name, len(sm.Indices), ErrMeshEmpty)
		}
		for _, idx := range sm.Indices {
			if int(idx) >= len(sm.Vertices) {
				return nil, fmt.Errorf("mesh %s submesh %q: index %d out of range", name, sm.Name, idx)
			}
		}
		cp := SubMesh{
			Name:     sm.Name,
			Vertices: slices.Clone(sm.Vertices),
			Indices:  slices.Clone(sm.Indices),
		}
		if computeNormals {
			rebuildNormals(&cp)
		}
		for _, v := range cp.Vertices {
			if first {
				lo, hi = v.Position, v.Position
				first = false
				continue
			}
			lo = lo.Min(v.Position)
			hi = hi.Max(v.Position)
		}
		m.subMeshes = append(m.subMeshes, cp)
	}

	m.boundsCenter = lo.Add(hi).Scale(0.5)
	m.boundsHalf = hi.Sub(lo).Scale(0.5)
	return m, nil
}

func rebuildNormals(sm *SubMesh) {
	normals := make([]vmath.Vector3, len(sm.Vertices))
	for i := 0; i+2 < len(sm.Indices); i += 3 {
		a, b, c := sm.Indices[i], sm.Indices[i+1], sm.Indices[i+2]
		e1 := sm.Vertices[b].Position.Sub(sm.Vertices[a].Position)
		e2 := sm.Vertices[c].Position.Sub(sm.Vertices[a].Position)
		n := e1.Cross(e2)
		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}
	for i := range sm.Vertices {
		sm.Vertices[i].Normal = normals[i].Normalize()
	}
}

func (m *Mesh) Name() string { return m.name }

func (m *Mesh) MaterialCount() int { return len(m.subMeshes) }

func (m *Mesh) SubMeshes() []SubMesh { return slices.Clone(m.subMeshes) }

func (m *Mesh) CollisionMode() CollisionMode { return m.collisionMode }

func (m *Mesh) BoundsCenter() vmath.Vector3 { return m.boundsCenter }

func (m *Mesh) BoundsHalfSize() vmath.Vector3 { return m.boundsHalf }

func (m *Mesh) IsEmpty() bool {
	for _, sm := range m.subMeshes {
		if len(sm.Indices) > 0 {
			return false
		}
	}
	return true
}

func (m *Mesh) MakeInstanced() { m.instanced = true }

func (m *Mesh) Instanced() bool { return m.instanced }

// Triangles flattens every submesh into one position/index list, the form
// mesh colliders are built from.
func (m *Mesh) Triangles() ([]vmath.Vector3, []uint32) {
	var positions []vmath.Vector3
	var indices []uint32
	for _, sm := range m.subMeshes {
		base := uint32(len(positions))
		for _, v := range sm.Vertices {
			positions = append(positions, v.Position)
		}
		for _, idx := range sm.Indices {
			indices = append(indices, base+idx)
		}
	}
	return positions, indices
}
