package physics

import (
	"fmt"
	"slices"

	"github.com/hexaengine/hexa/pkg/vmath"
)

type Shape uint8

const (
	ShapeBox Shape = iota
	ShapeSphere
	ShapeConvexMesh
	ShapeConcaveMesh
)

func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeSphere:
		return "sphere"
	case ShapeConvexMesh:
		return "convex_mesh"
	case ShapeConcaveMesh:
		return "concave_mesh"
	default:
		return fmt.Sprintf("shape(%d)", uint8(s))
	}
}

// Collision is a collider shape in body-local space. Shapes are immutable
// after construction and may be shared between bodies.
type Collision interface {
	Shape() Shape
	// Bounds is the local axis aligned bounding box.
	Bounds() (min, max vmath.Vector3)

	intersect(origin, dir vmath.Vector3, maxDist float32) (hit, bool)
}

type hit struct {
	distance float32
	normal   vmath.Vector3
	triangle int
}

type BoxCollision struct {
	extent vmath.Vector3
}

// NewBoxCollision builds a box from its half extents.
func NewBoxCollision(extent vmath.Vector3) *BoxCollision {
	return &BoxCollision{extent: extent.Abs()}
}

func (b *BoxCollision) Shape() Shape { return ShapeBox }

func (b *BoxCollision) Extent() vmath.Vector3 { return b.extent }

func (b *BoxCollision) Bounds() (vmath.Vector3, vmath.Vector3) {
	return b.extent.Negate(), b.extent
}

func (b *BoxCollision) intersect(origin, dir vmath.Vector3, maxDist float32) (hit, bool) {
	return intersectAABB(b.extent.Negate(), b.extent, origin, dir, maxDist)
}

type SphereCollision struct {
	radius float32
}

func NewSphereCollision(radius float32) *SphereCollision {
	if radius < 0 {
		radius = -radius
	}
	return &SphereCollision{radius: radius}
}

func (s *SphereCollision) Shape() Shape { return ShapeSphere }

func (s *SphereCollision) Radius() float32 { return s.radius }

func (s *SphereCollision) Bounds() (vmath.Vector3, vmath.Vector3) {
	r := vmath.Vec3(s.radius, s.radius, s.radius)
	return r.Negate(), r
}

func (s *SphereCollision) intersect(origin, dir vmath.Vector3, maxDist float32) (hit, bool) {
	return intersectSphere(s.radius, origin, dir, maxDist)
}

// Face is one polygon of a convex mesh, as indices into its vertices.
type Face struct {
	Indices [3]uint32
}

type triangleMesh struct {
	vertices []vmath.Vector3
	indices  []uint32
	min, max vmath.Vector3
}

func newTriangleMesh(vertices []vmath.Vector3, indices []uint32) (triangleMesh, error) {
	if len(indices) < 3 || len(vertices) == 0 {
		return triangleMesh{}, ErrEmptyMesh
	}
	if len(indices)%3 != 0 {
		return triangleMesh{}, fmt.Errorf("index count %d is not a multiple of 3: %w", len(indices), ErrEmptyMesh)
	}
	for _, idx := range indices {
		if int(idx) >= len(vertices) {
			return triangleMesh{}, fmt.Errorf("index %d with %d vertices: %w", idx, len(vertices), ErrIndexOutOfRange)
		}
	}

	m := triangleMesh{
		vertices: slices.Clone(vertices),
		indices:  slices.Clone(indices),
		min:      vertices[0],
		max:      vertices[0],
	}
	for _, v := range m.vertices[1:] {
		m.min = m.min.Min(v)
		m.max = m.max.Max(v)
	}
	return m, nil
}

func (m *triangleMesh) TriangleCount() int { return len(m.indices) / 3 }

func (m *triangleMesh) Vertices() []vmath.Vector3 { return slices.Clone(m.vertices) }

func (m *triangleMesh) Indices() []uint32 { return slices.Clone(m.indices) }

func (m *triangleMesh) Bounds() (vmath.Vector3, vmath.Vector3) { return m.min, m.max }

func (m *triangleMesh) intersect(origin, dir vmath.Vector3, maxDist float32) (hit, bool) {
	if _, ok := intersectAABB(m.min, m.max, origin, dir, maxDist); !ok {
		return hit{}, false
	}

	best := hit{distance: maxDist, triangle: -1}
	found := false
	for tri := 0; tri < m.TriangleCount(); tri++ {
		a := m.vertices[m.indices[tri*3]]
		b := m.vertices[m.indices[tri*3+1]]
		c := m.vertices[m.indices[tri*3+2]]
		if h, ok := intersectTriangle(a, b, c, origin, dir, best.distance); ok {
			h.triangle = tri
			best = h
			found = true
		}
	}
	return best, found
}

// ConvexMeshCollision is a convex hull given as a triangle list. Each
// triangle becomes one face.
type ConvexMeshCollision struct {
	triangleMesh
	faces []Face
}

func NewConvexMeshCollision(vertices []vmath.Vector3, indices []uint32) (*ConvexMeshCollision, error) {
	mesh, err := newTriangleMesh(vertices, indices)
	if err != nil {
		return nil, fmt.Errorf("convex mesh: %w", err)
	}

	faces := make([]Face, 0, mesh.TriangleCount())
	for i := 0; i+2 < len(mesh.indices); i += 3 {
		faces = append(faces, Face{Indices: [3]uint32{mesh.indices[i], mesh.indices[i+1], mesh.indices[i+2]}})
	}
	return &ConvexMeshCollision{triangleMesh: mesh, faces: faces}, nil
}

func (c *ConvexMeshCollision) Shape() Shape { return ShapeConvexMesh }

func (c *ConvexMeshCollision) Faces() []Face { return slices.Clone(c.faces) }

// ConcaveMeshCollision is an arbitrary triangle soup, usually static level geometry.
type ConcaveMeshCollision struct {
	triangleMesh
}

func NewConcaveMeshCollision(vertices []vmath.Vector3, indices []uint32) (*ConcaveMeshCollision, error) {
	mesh, err := newTriangleMesh(vertices, indices)
	if err != nil {
		return nil, fmt.Errorf("concave mesh: %w", err)
	}
	return &ConcaveMeshCollision{triangleMesh: mesh}, nil
}

func (c *ConcaveMeshCollision) Shape() Shape { return ShapeConcaveMesh }
