package render

import "github.com/hexaengine/hexa/internal/core/asset"

// Backend is the renderer the game draws through. One backend serves every
// scene created during the process lifetime.
type Backend interface {
	CreateScene(name string) (Scene, error)
	Viewport() *Viewport
	// RenderOneFrame draws the viewport camera's scene once.
	RenderOneFrame() error
	Frames() uint64
	Shutdown() error
}

// Scene is the render side of a world: a node tree plus the objects
// attached to it.
type Scene interface {
	Name() string
	Root() *Node
	CreateNode(name string) (*Node, error)
	DestroyNode(node *Node) error
	CreateCamera(name string) (*Camera, error)
	DestroyCamera(camera *Camera) error
	AttachMesh(node *Node, mesh *Mesh, materials []*asset.Material) (*MeshInstance, error)
	DetachMesh(instance *MeshInstance) error
	Close() error
	Closed() bool
}
