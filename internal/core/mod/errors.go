package mod

import "errors"

var (
	ErrInvalidInfo      = errors.New("invalid mod info")
	ErrNoFactory        = errors.New("no factory registered for mod")
	ErrFactoryExists    = errors.New("mod factory already registered")
	ErrVersionMismatch  = errors.New("target game version doesn't match")
	ErrMissingSignature = errors.New("mod directory has no meta file")
)
