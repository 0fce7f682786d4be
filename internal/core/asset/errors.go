package asset

import "errors"

var (
	ErrInvalidName       = errors.New("invalid asset name")
	ErrAssetNotFound     = errors.New("asset is not present on disk")
	ErrNameTaken         = errors.New("asset name is already taken")
	ErrParse             = errors.New("failed parsing asset descriptor")
	ErrUnknownModule     = errors.New("unknown module")
	ErrInvalidShader     = errors.New("invalid shader program")
	ErrSizeMismatch      = errors.New("pixel size does not match texture")
	ErrUnsupportedFormat = errors.New("unsupported texture format")
)
