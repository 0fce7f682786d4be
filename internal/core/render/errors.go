package render

import "errors"

var (
	ErrSceneClosed    = errors.New("scene is closed")
	ErrForeignNode    = errors.New("node belongs to another scene")
	ErrRootNode       = errors.New("root node cannot be destroyed")
	ErrNameTaken      = errors.New("name is already taken")
	ErrMeshEmpty      = errors.New("mesh has no geometry")
	ErrMaterialCount  = errors.New("material count does not match mesh")
	ErrNotInitialized = errors.New("render backend is not initialized")
)
