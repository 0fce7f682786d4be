package audio

// SoundHandle controls one playing sound. The zero value and handles of
// finished sounds are inert.
type SoundHandle struct {
	engine *Engine
	id     uint32
}

func (h SoundHandle) ID() uint32 { return h.id }

// Playing reports whether the sound is still in the mix, paused or not.
func (h SoundHandle) Playing() bool {
	if h.engine == nil {
		return false
	}
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	return h.engine.voice(h.id) != nil
}

func (h SoundHandle) Stop() {
	if h.engine == nil {
		return
	}
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	if v := h.engine.voice(h.id); v != nil {
		v.stopped = true
		delete(h.engine.voices, h.id)
	}
}

func (h SoundHandle) SetPause(pause bool) {
	if h.engine == nil {
		return
	}
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	if v := h.engine.voice(h.id); v != nil {
		v.ctrl.Paused = pause
	}
}

func (h SoundHandle) Paused() bool {
	if h.engine == nil {
		return false
	}
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	if v := h.engine.voice(h.id); v != nil {
		return v.ctrl.Paused
	}
	return false
}

func (h SoundHandle) SetVolume(volume float32) {
	if h.engine == nil {
		return
	}
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	if v := h.engine.voice(h.id); v != nil {
		v.gain = volume
		v.apply(h.engine.listener)
	}
}

// Volume is the sound's own volume, before channel and distance scaling.
func (h SoundHandle) Volume() float32 {
	if h.engine == nil {
		return 0
	}
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	if v := h.engine.voice(h.id); v != nil {
		return v.gain
	}
	return 0
}
