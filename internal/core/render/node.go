package render

import (
	"slices"

	"github.com/hexaengine/hexa/pkg/vmath"
)

// Node is a scene graph node. Transforms are relative to the parent.
type Node struct {
	name      string
	scene     Scene
	parent    *Node
	children  []*Node
	transform vmath.Transform
	meshes    []*MeshInstance
	cameras   []*Camera
}

func newNode(scene Scene, name string, parent *Node) *Node {
	n := &Node{
		name:      name,
		scene:     scene,
		parent:    parent,
		transform: vmath.NewTransform(),
	}
	if parent != nil {
		parent.children = append(parent.children, n)
	}
	return n
}

func (n *Node) Name() string { return n.name }

func (n *Node) Scene() Scene { return n.scene }

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) Children() []*Node { return slices.Clone(n.children) }

func (n *Node) Transform() vmath.Transform { return n.transform }

func (n *Node) SetTransform(t vmath.Transform) { n.transform = t }

func (n *Node) SetLocation(v vmath.Vector3) { n.transform.Location = v }

func (n *Node) SetRotation(q vmath.Quaternion) { n.transform.Rotation = q }

func (n *Node) SetScale(v vmath.Vector3) { n.transform.Scale = v }

// WorldTransform composes the transforms from the root down to n.
func (n *Node) WorldTransform() vmath.Transform {
	if n.parent == nil {
		return n.transform
	}
	return n.parent.WorldTransform().Compose(n.transform)
}

func (n *Node) Meshes() []*MeshInstance { return slices.Clone(n.meshes) }

func (n *Node) Cameras() []*Camera { return slices.Clone(n.cameras) }

// AttachCamera moves camera onto n.
func (n *Node) AttachCamera(camera *Camera) {
	if camera.node == n {
		return
	}
	if camera.node != nil {
		camera.node.detachCamera(camera)
	}
	camera.node = n
	n.cameras = append(n.cameras, camera)
}

func (n *Node) detachCamera(camera *Camera) {
	n.cameras = slices.DeleteFunc(n.cameras, func(c *Camera) bool { return c == camera })
	camera.node = nil
}

func (n *Node) detachChild(child *Node) {
	n.children = slices.DeleteFunc(n.children, func(c *Node) bool { return c == child })
}

func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, child := range n.children {
		child.walk(fn)
	}
}

// MeshInstance is a mesh placed on a node.
type MeshInstance struct {
	mesh      *Mesh
	node      *Node
	materials []materialSlot
	visible   bool
}

func (m *MeshInstance) Mesh() *Mesh { return m.mesh }

func (m *MeshInstance) Node() *Node { return m.node }

func (m *MeshInstance) Visible() bool { return m.visible }

func (m *MeshInstance) SetVisible(state bool) { m.visible = state }
