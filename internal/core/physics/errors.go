package physics

import "errors"

var (
	ErrEmptyMesh       = errors.New("mesh has no triangles")
	ErrIndexOutOfRange = errors.New("mesh index out of range")
	ErrForeignBody     = errors.New("body belongs to another physics world")
)
