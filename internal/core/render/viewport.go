package render

type Viewport struct {
	width  int
	height int
	camera *Camera
}

func NewViewport(width, height int) *Viewport {
	return &Viewport{width: width, height: height}
}

func (v *Viewport) Size() (int, int) { return v.width, v.height }

func (v *Viewport) Resize(width, height int) {
	v.width, v.height = width, height
}

func (v *Viewport) Camera() *Camera { return v.camera }

// SetCamera selects the camera the next frames are drawn from; nil disables drawing.
func (v *Viewport) SetCamera(camera *Camera) { v.camera = camera }
