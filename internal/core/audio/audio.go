package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// resampleQuality is passed to beep.Resample when a file's rate differs
// from the engine's.
const resampleQuality = 4

// Audio is a decoded sample held in memory.
type Audio struct {
	path          string
	buffer        *beep.Buffer
	looped        bool
	defaultVolume float32
}

// Load decodes a wav file through engine. Files are cached by absolute path.
func Load(engine *Engine, path string) (*Audio, error) {
	return engine.Load(path)
}

func decodeWav(path string, format beep.Format) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAudioNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	stream, fileFormat, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode wav %s: %w", filepath.Base(path), err)
	}
	defer stream.Close()

	var s beep.Streamer = stream
	if fileFormat.SampleRate != format.SampleRate {
		s = beep.Resample(resampleQuality, fileFormat.SampleRate, format.SampleRate, stream)
	}
	buffer := beep.NewBuffer(format)
	buffer.Append(s)
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("read wav %s: %w", filepath.Base(path), err)
	}

	return &Audio{path: path, buffer: buffer, defaultVolume: 1}, nil
}

func (a *Audio) Path() string { return a.path }

func (a *Audio) SetLooped(looped bool) { a.looped = looped }

func (a *Audio) Looped() bool { return a.looped }

// SetDefaultVolume sets the volume new sounds of this audio start with.
func (a *Audio) SetDefaultVolume(volume float32) { a.defaultVolume = volume }

func (a *Audio) DefaultVolume() float32 { return a.defaultVolume }

func (a *Audio) Duration() time.Duration {
	return a.buffer.Format().SampleRate.D(a.buffer.Len())
}

func (a *Audio) streamer() beep.Streamer {
	s := a.buffer.Streamer(0, a.buffer.Len())
	if a.looped {
		return beep.Loop(-1, s)
	}
	return s
}
