package audio

// Channel is a volume bus sounds are routed through.
type Channel struct {
	engine *Engine
	name   string
	volume float32
}

func (c *Channel) Name() string { return c.name }

func (c *Channel) SetVolume(volume float32) {
	c.engine.mu.Lock()
	c.volume = volume
	c.engine.mu.Unlock()
}

func (c *Channel) Volume() float32 {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	return c.volume
}
