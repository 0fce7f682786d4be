package audio

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep"

	"github.com/hexaengine/hexa/internal/core/observability/log"
	"github.com/hexaengine/hexa/pkg/vmath"
)

const (
	DefaultSampleRate = beep.SampleRate(44100)
	pumpChunk         = 512
)

var _ beep.Streamer = (*Engine)(nil)

// Engine mixes every playing sound into one stereo stream. An output device
// plays it by pulling from Stream; headless runs advance it with Pump.
type Engine struct {
	mu          sync.Mutex
	logger      log.Log
	format      beep.Format
	mixer       *beep.Mixer
	listener    Listener
	voices      map[uint32]*voice
	nextID      uint32
	cache       map[string]*Audio
	channels    []*Channel
	initialized bool
}

func NewEngine(logger log.Log) *Engine {
	return &Engine{
		logger: logger.Named("Audio"),
		format: beep.Format{
			SampleRate:  DefaultSampleRate,
			NumChannels: 2,
			Precision:   2,
		},
		mixer:    &beep.Mixer{},
		listener: defaultListener(),
		voices:   make(map[uint32]*voice),
		cache:    make(map[string]*Audio),
	}
}

func (e *Engine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initialized {
		return nil
	}
	e.initialized = true
	e.logger.Debug("audio engine initialized", log.Int("sample_rate", int(e.format.SampleRate)))
	return nil
}

// Deinit stops everything and releases cached samples and channels.
func (e *Engine) Deinit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopAllLocked()
	e.cache = make(map[string]*Audio)
	e.channels = nil
	e.initialized = false
}

func (e *Engine) Initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized
}

func (e *Engine) Format() beep.Format { return e.format }

func (e *Engine) StopAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopAllLocked()
}

func (e *Engine) stopAllLocked() {
	for _, v := range e.voices {
		v.stopped = true
	}
	e.mixer.Clear()
	e.voices = make(map[uint32]*voice)
}

// Load decodes path or returns the cached sample for its absolute path.
func (e *Engine) Load(path string) (*Audio, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	e.mu.Lock()
	cached := e.cache[abs]
	e.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	a, err := decodeWav(abs, e.format)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if existing := e.cache[abs]; existing != nil {
		return existing, nil
	}
	e.cache[abs] = a
	return a, nil
}

// NewChannel creates a volume bus at full volume.
func (e *Engine) NewChannel(name string) *Channel {
	ch := &Channel{engine: e, name: name, volume: 1}
	e.mu.Lock()
	e.channels = append(e.channels, ch)
	e.mu.Unlock()
	return ch
}

func (e *Engine) SetListener(position, at, up vmath.Vector3) {
	e.mu.Lock()
	e.listener = Listener{Position: position, At: at, Up: up}
	e.mu.Unlock()
}

func (e *Engine) SetListenerUp(up vmath.Vector3) {
	e.mu.Lock()
	e.listener.Up = up
	e.mu.Unlock()
}

func (e *Engine) Listener() Listener {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listener
}

// Play starts a flat sound routed through ch; ch may be nil.
func (e *Engine) Play(a *Audio, ch *Channel) (SoundHandle, error) {
	return e.play(a, ch, false, vmath.Vector3{})
}

// Play3D starts a sound positioned in the world, attenuated and panned
// relative to the listener.
func (e *Engine) Play3D(a *Audio, ch *Channel, position vmath.Vector3) (SoundHandle, error) {
	return e.play(a, ch, true, position)
}

func (e *Engine) play(a *Audio, ch *Channel, spatial bool, position vmath.Vector3) (SoundHandle, error) {
	if a == nil {
		return SoundHandle{}, ErrNilAudio
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return SoundHandle{}, ErrNotInitialized
	}

	e.nextID++
	v := newVoice(e.nextID, a, ch)
	v.spatial = spatial
	v.position = position
	v.apply(e.listener)
	e.voices[v.id] = v
	e.mixer.Add(v)
	return SoundHandle{engine: e, id: v.id}, nil
}

// ActiveVoices is the number of sounds still playing or paused.
func (e *Engine) ActiveVoices() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.voices)
}

// Stream mixes the next len(samples) frames. It never drains: silence is
// produced while nothing plays.
func (e *Engine) Stream(samples [][2]float64) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		clear(samples)
		return len(samples), true
	}
	for _, v := range e.voices {
		v.apply(e.listener)
	}
	n, ok := e.mixer.Stream(samples)
	for id, v := range e.voices {
		if v.done {
			delete(e.voices, id)
		}
	}
	return n, ok
}

func (e *Engine) Err() error { return nil }

// Pump advances playback by d without an output device.
func (e *Engine) Pump(d time.Duration) {
	remaining := e.format.SampleRate.N(d)
	buf := make([][2]float64, pumpChunk)
	for remaining > 0 {
		n := min(remaining, pumpChunk)
		e.Stream(buf[:n])
		remaining -= n
	}
}

func (e *Engine) voice(id uint32) *voice {
	if id == 0 {
		return nil
	}
	return e.voices[id]
}
