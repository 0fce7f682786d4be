package audio

import (
	"math"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/hexaengine/hexa/pkg/vmath"
)

// minDistance and rolloff shape the inverse distance attenuation of 3D sounds.
const (
	minDistance float32 = 1
	rolloff     float32 = 1
)

// voice is one playing sound. Its fields are guarded by the engine mutex,
// which is held while the mixer pulls samples.
type voice struct {
	id       uint32
	channel  *Channel
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	pan      *effects.Pan
	gain     float32
	spatial  bool
	position vmath.Vector3
	stopped  bool
	done     bool
}

func newVoice(id uint32, a *Audio, ch *Channel) *voice {
	v := &voice{id: id, channel: ch, gain: a.defaultVolume}
	v.ctrl = &beep.Ctrl{Streamer: a.streamer()}
	v.volume = &effects.Volume{Streamer: v.ctrl, Base: 2}
	v.pan = &effects.Pan{Streamer: v.volume}
	return v
}

func (v *voice) Stream(samples [][2]float64) (int, bool) {
	if v.stopped {
		v.done = true
		return 0, false
	}
	n, ok := v.pan.Stream(samples)
	if !ok {
		v.done = true
	}
	return n, ok
}

func (v *voice) Err() error {
	return v.ctrl.Err()
}

// apply recomputes the effect parameters from the voice gain, its channel
// and the listener.
func (v *voice) apply(l Listener) {
	gain := v.gain
	if v.channel != nil {
		gain *= v.channel.volume
	}
	pan := float32(0)
	if v.spatial {
		gain *= attenuation(l.Position.Distance(v.position))
		pan = l.panFor(v.position)
	}

	if gain <= 0 {
		v.volume.Silent = true
		v.volume.Volume = 0
	} else {
		v.volume.Silent = false
		v.volume.Volume = math.Log2(float64(gain))
	}
	v.pan.Pan = float64(pan)
}

func attenuation(distance float32) float32 {
	if distance <= minDistance {
		return 1
	}
	return minDistance / (minDistance + rolloff*(distance-minDistance))
}
