package vmath

// Transform is the location, rotation and scale of an entity or scene node.
type Transform struct {
	Location Vector3
	Rotation Quaternion
	Scale    Vector3
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{Rotation: Identity(), Scale: One()}
}

func At(location Vector3) Transform {
	t := NewTransform()
	t.Location = location
	return t
}

// Apply maps a point from local into parent space.
func (t Transform) Apply(p Vector3) Vector3 {
	return t.Rotation.Rotate(p.Mul(t.Scale)).Add(t.Location)
}

// Compose returns the transform of child expressed in t's parent space.
func (t Transform) Compose(child Transform) Transform {
	return Transform{
		Location: t.Apply(child.Location),
		Rotation: t.Rotation.Mul(child.Rotation).Normalize(),
		Scale:    t.Scale.Mul(child.Scale),
	}
}
