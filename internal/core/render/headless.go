package render

import (
	"fmt"
	"slices"
	"sync"

	"github.com/hexaengine/hexa/internal/core/asset"
	"github.com/hexaengine/hexa/internal/core/observability/log"
)

var _ Backend = (*Headless)(nil)
var _ Scene = (*HeadlessScene)(nil)

// FrameStats describes the last frame drawn by a Headless backend.
type FrameStats struct {
	Scene   string
	Camera  string
	Meshes  int
	Visible int
}

// Headless is a Backend that keeps the scene graph in memory and draws
// nothing. It backs tests, dedicated servers and tools.
type Headless struct {
	mu       sync.Mutex
	logger   log.Log
	viewport *Viewport
	scenes   map[string]*HeadlessScene
	frames   uint64
	last     FrameStats
	shutdown bool
}

func NewHeadless(width, height int, logger log.Log) *Headless {
	return &Headless{
		logger:   logger.Named("Render"),
		viewport: NewViewport(width, height),
		scenes:   make(map[string]*HeadlessScene),
	}
}

func (h *Headless) CreateScene(name string) (Scene, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.shutdown {
		return nil, ErrNotInitialized
	}
	if _, exists := h.scenes[name]; exists {
		return nil, fmt.Errorf("scene %s: %w", name, ErrNameTaken)
	}
	s := &HeadlessScene{
		name:    name,
		backend: h,
		nodes:   make(map[string]*Node),
		cameras: make(map[string]*Camera),
	}
	s.root = newNode(s, "root", nil)
	h.scenes[name] = s
	h.logger.Debug("scene created", log.String("scene", name))
	return s, nil
}

func (h *Headless) removeScene(name string) {
	h.mu.Lock()
	delete(h.scenes, name)
	h.mu.Unlock()
}

func (h *Headless) Scenes() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, 0, len(h.scenes))
	for name := range h.scenes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (h *Headless) Viewport() *Viewport { return h.viewport }

func (h *Headless) RenderOneFrame() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.shutdown {
		return ErrNotInitialized
	}

	stats := FrameStats{}
	if cam := h.viewport.Camera(); cam != nil && cam.scene != nil && !cam.scene.Closed() {
		stats.Scene = cam.scene.Name()
		stats.Camera = cam.Name()
		cam.scene.Root().walk(func(n *Node) {
			for _, m := range n.meshes {
				stats.Meshes++
				if m.visible {
					stats.Visible++
				}
			}
		})
	}
	h.last = stats
	h.frames++
	return nil
}

func (h *Headless) Frames() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

func (h *Headless) LastFrame() FrameStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

func (h *Headless) Shutdown() error {
	h.mu.Lock()
	scenes := make([]*HeadlessScene, 0, len(h.scenes))
	for _, s := range h.scenes {
		scenes = append(scenes, s)
	}
	h.shutdown = true
	h.mu.Unlock()

	for _, s := range scenes {
		_ = s.Close()
	}
	h.viewport.SetCamera(nil)
	return nil
}

type HeadlessScene struct {
	name    string
	backend *Headless
	root    *Node
	nodes   map[string]*Node
	cameras map[string]*Camera
	closed  bool
}

func (s *HeadlessScene) Name() string { return s.name }

func (s *HeadlessScene) Root() *Node { return s.root }

func (s *HeadlessScene) Closed() bool { return s.closed }

// NodeCount excludes the root.
func (s *HeadlessScene) NodeCount() int { return len(s.nodes) }

func (s *HeadlessScene) CameraCount() int { return len(s.cameras) }

// CreateNode adds a child of the root. An empty name gets a generated one.
func (s *HeadlessScene) CreateNode(name string) (*Node, error) {
	if s.closed {
		return nil, ErrSceneClosed
	}
	if name == "" {
		name = fmt.Sprintf("node_%d", len(s.nodes)+1)
		for s.nodes[name] != nil {
			name += "_"
		}
	}
	if _, exists := s.nodes[name]; exists {
		return nil, fmt.Errorf("node %s: %w", name, ErrNameTaken)
	}
	n := newNode(s, name, s.root)
	s.nodes[name] = n
	return n, nil
}

// DestroyNode removes node and its subtree with everything attached.
func (s *HeadlessScene) DestroyNode(node *Node) error {
	if s.closed {
		return ErrSceneClosed
	}
	if node == nil {
		return nil
	}
	if node.scene != Scene(s) {
		return ErrForeignNode
	}
	if node == s.root {
		return ErrRootNode
	}
	if _, ok := s.nodes[node.name]; !ok {
		return nil
	}

	node.walk(func(n *Node) {
		for _, cam := range n.cameras {
			cam.node = nil
		}
		for _, m := range n.meshes {
			m.node = nil
		}
		n.meshes = nil
		n.cameras = nil
		delete(s.nodes, n.name)
	})
	if node.parent != nil {
		node.parent.detachChild(node)
		node.parent = nil
	}
	return nil
}

func (s *HeadlessScene) CreateCamera(name string) (*Camera, error) {
	if s.closed {
		return nil, ErrSceneClosed
	}
	if _, exists := s.cameras[name]; exists {
		return nil, fmt.Errorf("camera %s: %w", name, ErrNameTaken)
	}
	c := &Camera{
		name:  name,
		scene: s,
		fov:   DefaultFOV,
		near:  DefaultNearClip,
		far:   DefaultFarClip,
	}
	s.cameras[name] = c
	return c, nil
}

func (s *HeadlessScene) DestroyCamera(camera *Camera) error {
	if s.closed {
		return ErrSceneClosed
	}
	if camera == nil {
		return nil
	}
	if camera.scene != Scene(s) {
		return ErrForeignNode
	}
	if camera.node != nil {
		camera.node.detachCamera(camera)
	}
	if vp := s.backend.Viewport(); vp.Camera() == camera {
		vp.SetCamera(nil)
	}
	delete(s.cameras, camera.name)
	return nil
}

// AttachMesh places mesh on node. Missing material slots are left nil.
func (s *HeadlessScene) AttachMesh(node *Node, mesh *Mesh, materials []*asset.Material) (*MeshInstance, error) {
	if s.closed {
		return nil, ErrSceneClosed
	}
	if node == nil || node.scene != Scene(s) {
		return nil, ErrForeignNode
	}
	if mesh == nil || mesh.IsEmpty() {
		return nil, ErrMeshEmpty
	}
	if len(materials) > mesh.MaterialCount() {
		return nil, fmt.Errorf("mesh %s has %d slots, got %d materials: %w",
			mesh.Name(), mesh.MaterialCount(), len(materials), ErrMaterialCount)
	}

	inst := &MeshInstance{
		mesh:      mesh,
		node:      node,
		materials: make([]materialSlot, mesh.MaterialCount()),
		visible:   true,
	}
	for i, m := range materials {
		inst.materials[i].material = m
	}
	node.meshes = append(node.meshes, inst)
	return inst, nil
}

func (s *HeadlessScene) DetachMesh(instance *MeshInstance) error {
	if s.closed {
		return ErrSceneClosed
	}
	if instance == nil || instance.node == nil {
		return nil
	}
	if instance.node.scene != Scene(s) {
		return ErrForeignNode
	}
	node := instance.node
	node.meshes = slices.DeleteFunc(node.meshes, func(m *MeshInstance) bool { return m == instance })
	instance.node = nil
	return nil
}

// Close destroys every node and camera. A closed scene rejects all calls.
func (s *HeadlessScene) Close() error {
	if s.closed {
		return nil
	}
	for _, child := range s.root.Children() {
		_ = s.DestroyNode(child)
	}
	for _, cam := range s.cameras {
		_ = s.DestroyCamera(cam)
	}
	s.closed = true
	s.backend.removeScene(s.name)
	s.backend.logger.Debug("scene closed", log.String("scene", s.name))
	return nil
}
