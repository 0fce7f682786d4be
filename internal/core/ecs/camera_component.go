package ecs

import (
	"github.com/hexaengine/hexa/internal/core/observability/log"
	"github.com/hexaengine/hexa/internal/core/render"
	"github.com/hexaengine/hexa/pkg/vmath"
)

// CameraComponent owns a scene camera attached to its owner's node.
type CameraComponent struct {
	ComponentBase

	camera *render.Camera
	fov    float32
	near   float32
	far    float32
}

func NewCameraComponent() *CameraComponent {
	return &CameraComponent{
		fov:  render.DefaultFOV,
		near: render.DefaultNearClip,
		far:  render.DefaultFarClip,
	}
}

// Camera is the scene camera while the component is started.
func (c *CameraComponent) Camera() *render.Camera { return c.camera }

func (c *CameraComponent) FOV() float32 { return c.fov }

func (c *CameraComponent) SetFOV(deg float32) {
	c.fov = deg
	if c.camera != nil {
		c.camera.SetFOV(deg)
	}
}

func (c *CameraComponent) ClipDistances() (near, far float32) { return c.near, c.far }

func (c *CameraComponent) SetClipDistances(near, far float32) {
	c.near, c.far = near, far
	if c.camera != nil {
		c.camera.SetClipDistances(near, far)
	}
}

// WorldToViewport projects a world point into a width x height viewport.
func (c *CameraComponent) WorldToViewport(world vmath.Vector3, width, height int) (vmath.Vector2, bool) {
	if c.camera == nil {
		return vmath.Vector2{}, false
	}
	return c.camera.WorldToViewport(world, width, height)
}

// ViewportToWorld is the world direction through a normalized screen point.
func (c *CameraComponent) ViewportToWorld(screen vmath.Vector2, width, height int) vmath.Vector3 {
	if c.camera == nil {
		return vmath.Vector3{}
	}
	return c.camera.ViewportToWorld(screen, width, height)
}

func (c *CameraComponent) OnStart() {
	owner := c.Owner()
	world := owner.World()
	if world == nil || owner.Node() == nil {
		return
	}
	cam, err := world.Scene().CreateCamera(owner.ID().String())
	if err != nil {
		world.logger.Error("failed creating camera", log.String("entity", owner.ID().String()), log.Error(err))
		return
	}
	cam.SetFOV(c.fov)
	cam.SetClipDistances(c.near, c.far)
	owner.Node().AttachCamera(cam)
	c.camera = cam
}

func (c *CameraComponent) OnDestroy() {
	owner := c.Owner()
	if c.camera == nil || owner == nil || owner.World() == nil {
		c.camera = nil
		return
	}
	if scene := owner.World().Scene(); scene != nil && !scene.Closed() {
		_ = scene.DestroyCamera(c.camera)
	}
	c.camera = nil
}
