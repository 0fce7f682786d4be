package audio

import "errors"

var (
	ErrNotInitialized = errors.New("audio engine is not initialized")
	ErrAudioNotFound  = errors.New("audio file does not exist")
	ErrNilAudio       = errors.New("audio is nil")
)
