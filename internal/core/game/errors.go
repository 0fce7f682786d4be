package game

import "errors"

var (
	ErrGameExists = errors.New("a game instance already exists")
	ErrNilWorld   = errors.New("world is nil")
)
