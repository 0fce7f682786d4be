package config

import "errors"

var (
	ErrInvalidConfig   = errors.New("invalid engine configuration")
	ErrInvalidSettings = errors.New("invalid settings file")
)
