package ecs

import (
	"fmt"
	"slices"
	"time"

	"github.com/hexaengine/hexa/internal/core/audio"
	"github.com/hexaengine/hexa/internal/core/observability/log"
	"github.com/hexaengine/hexa/internal/core/physics"
	"github.com/hexaengine/hexa/internal/core/render"
	"github.com/hexaengine/hexa/pkg/vmath"
)

// Hooks are optional callbacks a title attaches to a world.
type Hooks struct {
	OnStart func(w *World)
	OnTick  func(w *World, dt float32)
	OnClose func(w *World)
}

type Option func(*World)

func WithBackend(backend render.Backend) Option {
	return func(w *World) { w.backend = backend }
}

func WithLogger(logger log.Log) Option {
	return func(w *World) { w.logger = logger.Named("World") }
}

func WithGravity(gravity vmath.Vector3) Option {
	return func(w *World) { w.gravity = gravity }
}

// WithTickInterval sets the fixed physics step in seconds.
func WithTickInterval(seconds float32) Option {
	return func(w *World) { w.tickInterval = seconds }
}

// WithAudio sets the engine and channel used by PlaySound2D and PlaySound3D.
func WithAudio(engine *audio.Engine, channel *audio.Channel) Option {
	return func(w *World) {
		w.audio = engine
		w.channel = channel
	}
}

func WithHooks(hooks Hooks) Option {
	return func(w *World) { w.hooks = hooks }
}

// World owns one render scene and one physics simulation and the entities
// living in them. A closed world cannot be opened again.
type World struct {
	name   string
	logger log.Log

	backend      render.Backend
	scene        render.Scene
	physics      *physics.World
	gravity      vmath.Vector3
	tickInterval float32

	audio   *audio.Engine
	channel *audio.Channel

	hooks    Hooks
	entities []*Entity
	timers   timers
	now      time.Duration

	initialized bool
	started     bool
	closed      bool
}

func NewWorld(name string, opts ...Option) *World {
	w := &World{
		name:         name,
		logger:       log.Provide().Named("World"),
		gravity:      physics.DefaultGravity,
		tickInterval: 1.0 / 60.0,
		timers:       newTimers(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *World) Name() string { return w.name }

func (w *World) Scene() render.Scene { return w.scene }

func (w *World) Physics() *physics.World { return w.physics }

func (w *World) Started() bool { return w.started }

func (w *World) Closed() bool { return w.closed }

// Time is the simulated time since the world started ticking.
func (w *World) Time() time.Duration { return w.now }

// Init creates the scene and the physics world. Calling it again does nothing.
func (w *World) Init() error {
	if w.closed {
		return ErrWorldClosed
	}
	if w.initialized {
		return nil
	}
	if w.backend == nil {
		w.backend = render.NewHeadless(1280, 720, w.logger)
	}
	scene, err := w.backend.CreateScene(w.name)
	if err != nil {
		return fmt.Errorf("creating scene for world %s: %w", w.name, err)
	}
	w.scene = scene
	w.physics = physics.NewWorld(w.gravity, w.tickInterval)
	w.initialized = true
	return nil
}

// Start starts the world and every entity spawned so far.
func (w *World) Start() error {
	if w.closed {
		return ErrWorldClosed
	}
	if !w.initialized {
		return ErrWorldNotInitialized
	}
	if w.started {
		return nil
	}
	w.started = true
	if w.hooks.OnStart != nil {
		w.hooks.OnStart(w)
	}
	for _, e := range slices.Clone(w.entities) {
		if e.world == w {
			e.start()
		}
	}
	w.logger.Debug("world started", log.String("world", w.name), log.Int("entities", len(w.entities)))
	return nil
}

// Spawn places b in the world at transform. In a started world the entity
// starts immediately.
func (w *World) Spawn(b Behavior, transform vmath.Transform) error {
	if w.closed {
		return ErrWorldClosed
	}
	if !w.initialized {
		return ErrWorldNotInitialized
	}
	e := b.Base()
	e.init()
	if e.destroyed {
		return ErrEntityDestroyed
	}
	if e.world != nil {
		return ErrAlreadySpawned
	}

	node, err := w.scene.CreateNode(e.id.String())
	if err != nil {
		return fmt.Errorf("spawning entity %s: %w", e.id, err)
	}

	e.behavior = b
	e.world = w
	e.node = node
	e.transform = transform
	node.SetTransform(transform)
	e.createBody()
	w.entities = append(w.entities, e)

	if w.started {
		e.start()
	}
	return nil
}

func (w *World) remove(e *Entity) {
	w.entities = slices.DeleteFunc(w.entities, func(existing *Entity) bool { return existing == e })
	e.destroyBody()
	if e.node != nil && !w.scene.Closed() {
		if err := w.scene.DestroyNode(e.node); err != nil {
			w.logger.Warn("failed destroying entity node", log.String("entity", e.id.String()), log.Error(err))
		}
	}
	e.node = nil
	e.world = nil
}

// Entities lists spawned entities in spawn order.
func (w *World) Entities() []Behavior {
	out := make([]Behavior, 0, len(w.entities))
	for _, e := range w.entities {
		out = append(out, e.self())
	}
	return out
}

// EntitiesOf lists spawned entities of type T.
func EntitiesOf[T Behavior](w *World) []T {
	var out []T
	for _, e := range w.entities {
		if t, ok := e.self().(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// Tick advances timers, physics and every tick enabled entity by dt seconds.
func (w *World) Tick(dt float32) {
	if !w.started || w.closed || dt <= 0 {
		return
	}
	w.now += time.Duration(float64(dt) * float64(time.Second))
	w.timers.fire(w.now)
	if w.closed {
		return
	}

	if w.physics.Update(dt) > 0 {
		for _, e := range w.entities {
			e.pullBody()
		}
	}

	for _, e := range slices.Clone(w.entities) {
		if e.world == w {
			e.tick(dt)
		}
	}
	if w.hooks.OnTick != nil {
		w.hooks.OnTick(w, dt)
	}
}

// Close destroys every entity, drops timers and closes the scene.
func (w *World) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.hooks.OnClose != nil {
		w.hooks.OnClose(w)
	}
	for _, e := range slices.Clone(w.entities) {
		e.Destroy()
	}
	w.timers.reset()
	w.started = false

	if w.scene != nil {
		if err := w.scene.Close(); err != nil {
			return fmt.Errorf("closing world %s: %w", w.name, err)
		}
	}
	w.logger.Debug("world closed", log.String("world", w.name))
	return nil
}

// SetTimer runs fn after delay of world time, repeatedly when loop is set.
func (w *World) SetTimer(delay time.Duration, loop bool, fn func()) TimerHandle {
	if w.closed || fn == nil {
		return TimerHandle{}
	}
	return w.timers.set(w.now, delay, loop, fn)
}

func (w *World) ClearTimer(h TimerHandle) bool {
	return w.timers.clear(h)
}

// ActiveTimers counts pending timers.
func (w *World) ActiveTimers() int { return w.timers.len() }

// RaycastHit is a physics hit together with the entity owning the body.
type RaycastHit struct {
	physics.RaycastResult
	Entity Behavior
}

// Raycast casts from -> to against bodies matching mask, nearest first.
func (w *World) Raycast(from, to vmath.Vector3, mask uint16) []RaycastHit {
	if w.physics == nil {
		return nil
	}
	results := w.physics.Raycast(from, to, mask)
	hits := make([]RaycastHit, 0, len(results))
	for _, r := range results {
		hit := RaycastHit{RaycastResult: r}
		if e, ok := r.Body.UserData().(*Entity); ok {
			hit.Entity = e.self()
		}
		hits = append(hits, hit)
	}
	return hits
}

func (w *World) PlaySound2D(a *audio.Audio) (audio.SoundHandle, error) {
	if w.audio == nil {
		return audio.SoundHandle{}, ErrNoAudio
	}
	return w.audio.Play(a, w.channel)
}

func (w *World) PlaySound3D(a *audio.Audio, position vmath.Vector3) (audio.SoundHandle, error) {
	if w.audio == nil {
		return audio.SoundHandle{}, ErrNoAudio
	}
	return w.audio.Play3D(a, w.channel, position)
}
