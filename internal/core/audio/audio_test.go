package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/require"

	"github.com/hexaengine/hexa/internal/core/observability/log"
	"github.com/hexaengine/hexa/pkg/vmath"
)

func constant(n int, value float64) beep.Streamer {
	left := n
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if left == 0 {
			return 0, false
		}
		k := min(len(samples), left)
		for i := range samples[:k] {
			samples[i] = [2]float64{value, value}
		}
		left -= k
		return k, true
	})
}

func writeWav(t *testing.T, d time.Duration, value float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	format := beep.Format{SampleRate: DefaultSampleRate, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, constant(format.SampleRate.N(d), value), format))
	require.NoError(t, f.Close())
	return path
}

// firstSample is the left value of the first decoded frame of a.
func firstSample(t *testing.T, a *Audio) float64 {
	t.Helper()
	frame := make([][2]float64, 1)
	n, _ := a.buffer.Streamer(0, 1).Stream(frame)
	require.Equal(t, 1, n)
	return frame[0][0]
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(log.NewNop())
	require.NoError(t, e.Init())
	t.Cleanup(e.Deinit)
	return e
}

func TestLoadCachesByAbsolutePath(t *testing.T) {
	e := newEngine(t)
	path := writeWav(t, 100*time.Millisecond, 0.5)

	a, err := Load(e, path)
	require.NoError(t, err)
	require.InDelta(t, 100*time.Millisecond, a.Duration(), float64(time.Millisecond))
	require.Equal(t, float32(1), a.DefaultVolume())

	again, err := e.Load(path)
	require.NoError(t, err)
	require.Same(t, a, again)

	_, err = e.Load(filepath.Join(t.TempDir(), "missing.wav"))
	require.ErrorIs(t, err, ErrAudioNotFound)
}

func TestMixAppliesChannelAndSoundVolume(t *testing.T) {
	e := newEngine(t)
	a, err := e.Load(writeWav(t, 100*time.Millisecond, 0.5))
	require.NoError(t, err)
	sample := firstSample(t, a)
	require.Greater(t, sample, 0.1)

	general := e.NewChannel("general")
	general.SetVolume(0.5)

	h, err := e.Play(a, general)
	require.NoError(t, err)
	require.True(t, h.Playing())

	buf := make([][2]float64, 16)
	n, ok := e.Stream(buf)
	require.True(t, ok)
	require.Equal(t, 16, n)
	require.InDelta(t, sample*0.5, buf[0][0], 1e-4)

	h.SetVolume(2)
	require.Equal(t, float32(2), h.Volume())
	_, _ = e.Stream(buf)
	require.InDelta(t, sample, buf[0][1], 1e-4)

	h.SetPause(true)
	require.True(t, h.Paused())
	_, _ = e.Stream(buf)
	require.Zero(t, buf[0][0])
	require.True(t, h.Playing())
}

func TestFinishedAndStoppedSoundsLeaveTheMix(t *testing.T) {
	e := newEngine(t)
	short, err := e.Load(writeWav(t, 10*time.Millisecond, 0.5))
	require.NoError(t, err)

	h, err := e.Play(short, nil)
	require.NoError(t, err)
	e.Pump(50 * time.Millisecond)
	require.False(t, h.Playing())
	require.Zero(t, h.Volume())

	loopPath := writeWav(t, 10*time.Millisecond, 0.25)
	looped, err := e.Load(loopPath)
	require.NoError(t, err)
	looped.SetLooped(true)

	lh, err := e.Play(looped, nil)
	require.NoError(t, err)
	e.Pump(200 * time.Millisecond)
	require.True(t, lh.Playing())

	lh.Stop()
	require.False(t, lh.Playing())
	e.Pump(10 * time.Millisecond)
	require.Zero(t, e.ActiveVoices())

	SoundHandle{}.Stop()
	require.False(t, SoundHandle{}.Playing())
}

func TestSpatialSoundsAttenuateAndPan(t *testing.T) {
	e := newEngine(t)
	a, err := e.Load(writeWav(t, 100*time.Millisecond, 0.5))
	require.NoError(t, err)
	sample := firstSample(t, a)
	e.SetListener(vmath.Zero(), vmath.Vec3(0, 0, -1), vmath.Up())

	_, err = e.Play3D(a, nil, vmath.Vec3(3, 0, 0))
	require.NoError(t, err)

	buf := make([][2]float64, 8)
	_, _ = e.Stream(buf)
	// distance 3 attenuates to a third; the source is hard right
	require.InDelta(t, 0, buf[0][0], 1e-3)
	require.InDelta(t, sample/3, buf[0][1], 1e-3)
}

func TestEngineRequiresInit(t *testing.T) {
	e := NewEngine(log.NewNop())
	_, err := e.Play(&Audio{}, nil)
	require.ErrorIs(t, err, ErrNotInitialized)
	_, err = e.Play(nil, nil)
	require.ErrorIs(t, err, ErrNilAudio)

	buf := [][2]float64{{1, 1}}
	n, ok := e.Stream(buf)
	require.True(t, ok)
	require.Equal(t, 1, n)
	require.Zero(t, buf[0][0])
}

func TestStopAllClearsVoices(t *testing.T) {
	e := newEngine(t)
	a, err := e.Load(writeWav(t, 100*time.Millisecond, 0.5))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := e.Play(a, nil)
		require.NoError(t, err)
	}
	require.Equal(t, 3, e.ActiveVoices())
	e.StopAll()
	require.Zero(t, e.ActiveVoices())
}
