package render

import (
	"github.com/chewxy/math32"

	"github.com/hexaengine/hexa/pkg/vmath"
)

const (
	DefaultFOV      float32 = 45
	DefaultNearClip float32 = 1
	DefaultFarClip  float32 = 10000
	defaultAspect   float32 = 16.0 / 9.0
)

// Camera is a perspective camera looking down its node's -Z axis.
type Camera struct {
	name   string
	scene  Scene
	node   *Node
	fov    float32
	near   float32
	far    float32
	aspect float32
}

func (c *Camera) Name() string { return c.name }

func (c *Camera) Scene() Scene { return c.scene }

// Node is the node the camera is attached to, or nil.
func (c *Camera) Node() *Node { return c.node }

// FOV is the vertical field of view in degrees.
func (c *Camera) FOV() float32 { return c.fov }

func (c *Camera) SetFOV(deg float32) { c.fov = deg }

func (c *Camera) ClipDistances() (near, far float32) { return c.near, c.far }

func (c *Camera) SetClipDistances(near, far float32) {
	c.near, c.far = near, far
}

// SetAspectRatio fixes the aspect ratio; zero means follow the viewport.
func (c *Camera) SetAspectRatio(aspect float32) { c.aspect = aspect }

func (c *Camera) aspectFor(width, height int) float32 {
	if c.aspect > 0 {
		return c.aspect
	}
	if width <= 0 || height <= 0 {
		return defaultAspect
	}
	return float32(width) / float32(height)
}

func (c *Camera) worldTransform() vmath.Transform {
	if c.node == nil {
		return vmath.NewTransform()
	}
	return c.node.WorldTransform()
}

// WorldToViewport projects a world point into pixel coordinates of a
// width x height viewport. It reports false when the point is behind the
// camera or outside the frustum sides.
func (c *Camera) WorldToViewport(world vmath.Vector3, width, height int) (vmath.Vector2, bool) {
	t := c.worldTransform()
	view := t.Rotation.Conjugate().Rotate(world.Sub(t.Location))
	depth := -view.Z
	if depth < c.near || depth > c.far {
		return vmath.Vector2{}, false
	}

	tanHalf := math32.Tan(c.fov * math32.Pi / 360)
	ndcX := view.X / depth / (tanHalf * c.aspectFor(width, height))
	ndcY := view.Y / depth / tanHalf
	if ndcX < -1 || ndcX > 1 || ndcY < -1 || ndcY > 1 {
		return vmath.Vector2{}, false
	}

	halfW := float32(width) / 2
	halfH := float32(height) / 2
	return vmath.Vec2(halfW+halfW*ndcX, halfH-halfH*ndcY), true
}

// ViewportToWorld returns the world space direction of the ray through a
// normalized screen point (0,0 top left, 1,1 bottom right).
func (c *Camera) ViewportToWorld(screen vmath.Vector2, width, height int) vmath.Vector3 {
	tanHalf := math32.Tan(c.fov * math32.Pi / 360)
	ndcX := screen.X*2 - 1
	ndcY := 1 - screen.Y*2
	dir := vmath.Vec3(ndcX*tanHalf*c.aspectFor(width, height), ndcY*tanHalf, -1)
	return c.worldTransform().Rotation.Rotate(dir).Normalize()
}
