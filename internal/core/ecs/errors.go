package ecs

import "errors"

var (
	ErrWorldClosed         = errors.New("world is closed")
	ErrWorldNotInitialized = errors.New("world is not initialized")
	ErrAlreadySpawned      = errors.New("entity is already spawned")
	ErrEntityDestroyed     = errors.New("entity is destroyed")
	ErrComponentExists     = errors.New("entity already has a component of this type")
	ErrNilComponent        = errors.New("component is nil")
	ErrNoAudio             = errors.New("world has no audio engine")
)
