package game

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/Masterminds/semver/v3"

	"github.com/hexaengine/hexa/internal/core/asset"
	"github.com/hexaengine/hexa/internal/core/audio"
	"github.com/hexaengine/hexa/internal/core/config"
	"github.com/hexaengine/hexa/internal/core/ecs"
	"github.com/hexaengine/hexa/internal/core/events/bus"
	"github.com/hexaengine/hexa/internal/core/input"
	"github.com/hexaengine/hexa/internal/core/mod"
	"github.com/hexaengine/hexa/internal/core/observability/log"
	"github.com/hexaengine/hexa/internal/core/render"
	"github.com/hexaengine/hexa/internal/core/savegame"
	"github.com/hexaengine/hexa/internal/core/table"
	"github.com/hexaengine/hexa/internal/core/tools"
)

const (
	// ModuleName is the asset module name of the game itself.
	ModuleName = "game"

	// DefaultProfile is the save game profile opened in the Starting stage.
	DefaultProfile = "soft fur dragon"
)

// DefaultVersion is the game version mods are matched against.
var DefaultVersion = semver.MustParse("0.1.0")

// DefaultLocalDirectories and DefaultGlobalDirectories are registered when
// the title does not provide its own resource directories.
var (
	DefaultLocalDirectories  = []string{"textures/actions"}
	DefaultGlobalDirectories = []string{
		"textures/ui",
		"textures/tiles",
		"textures/complex_tiles",
		"textures/characters",
		"meshes/characters",
		"meshes/items",
		"meshes/tiles",
		"audio/ambient",
		"audio/effects",
		"audio/music",
	}
)

var instance atomic.Pointer[Game]

// Instance returns the live game, or nil.
func Instance() *Game { return instance.Load() }

type Option func(*Game)

func WithEnv(env config.Env) Option {
	return func(g *Game) { g.env = env }
}

func WithLogger(logger log.Log) Option {
	return func(g *Game) { g.base = logger }
}

func WithBus(eventBus bus.EventBus) Option {
	return func(g *Game) { g.bus = eventBus }
}

func WithBackend(backend render.Backend) Option {
	return func(g *Game) { g.backend = backend }
}

func WithAudio(engine *audio.Engine) Option {
	return func(g *Game) { g.audio = engine }
}

// WithRegistry sets the mod factories; mod.DefaultRegistry is used otherwise.
func WithRegistry(registry *mod.Registry) Option {
	return func(g *Game) { g.registry = registry }
}

func WithVersion(version *semver.Version) Option {
	return func(g *Game) { g.version = version }
}

func WithTools(set *tools.Set) Option {
	return func(g *Game) { g.tools = set }
}

// WithOutput sets where tools print; os.Stdout by default.
func WithOutput(out io.Writer) Option {
	return func(g *Game) { g.out = out }
}

func WithProfile(profile string) Option {
	return func(g *Game) { g.profile = profile }
}

// Game drives a Title through the engine stages. Only one Game exists per
// process; it is itself the asset module named "game".
type Game struct {
	*asset.Module

	title   Title
	args    []string
	env     config.Env
	version *semver.Version
	profile string
	out     io.Writer

	base   log.Log
	logger log.Log

	bus      bus.EventBus
	backend  render.Backend
	audio    *audio.Engine
	db       *table.Database
	tools    *tools.Set
	registry *mod.Registry
	input    *input.State

	stage    atomic.Int32
	quitting atomic.Bool
	time     float64

	info       Info
	settings   config.SettingsObject
	saveGame   *savegame.SaveGame
	mods       []*mod.Mod
	tableFiles []moduleFiles
	watcher    *asset.Watcher

	white          *asset.Texture
	uvTest         *asset.Texture
	generalChannel *audio.Channel

	world        *ecs.World
	camera       *ecs.CameraComponent
	controlMu    sync.Mutex
	controllable input.Controllable

	mainMu    sync.Mutex
	mainCalls []func()
}

type moduleFiles struct {
	module string
	files  []string
}

// New creates the process game for title. args are the command line
// arguments including the program name.
func New(title Title, args []string, opts ...Option) (*Game, error) {
	g := &Game{
		title:    title,
		args:     args,
		env:      config.DefaultEnv(),
		version:  DefaultVersion,
		profile:  DefaultProfile,
		out:      os.Stdout,
		base:     log.Provide(),
		registry: mod.DefaultRegistry(),
		input:    input.NewState(),
		settings: config.NewSettings(),
		info:     Info{Title: defaultTitle},
	}
	for _, opt := range opts {
		opt(g)
	}
	if !instance.CompareAndSwap(nil, g) {
		return nil, ErrGameExists
	}

	g.logger = g.base.Named("Game")
	if g.bus == nil {
		g.bus = bus.New()
	}
	if g.backend == nil {
		g.backend = render.NewHeadless(1280, 720, g.base)
	}
	if g.audio == nil {
		g.audio = audio.NewEngine(g.base)
	}
	if g.tools == nil {
		g.tools = tools.Defaults()
	}
	g.db = table.NewDatabase(
		table.WithLogger(g.base),
		table.WithWorkers(g.env.TableWorkers),
		table.WithCreatable(func() bool { return g.Stage() == StageInitialization }),
	)
	g.Module = asset.NewModule(ModuleName, g.env.Root, g.moduleOptions(g)...)
	return g, nil
}

// Release frees the process singleton. Launch calls it on return.
func (g *Game) Release() {
	instance.CompareAndSwap(g, nil)
}

func (g *Game) moduleOptions(provider asset.DirectoryProvider) []asset.ModuleOption {
	opts := []asset.ModuleOption{
		asset.WithLogger(g.base),
		asset.WithLoadingStage(func() bool { return g.Stage() == StageLoading }),
		asset.WithLocator(asset.LocatorFunc(g.ModuleByName)),
		asset.WithFallbackTexture(g.UVTestTexture),
	}
	if provider != nil {
		opts = append(opts, asset.WithDirectoryProvider(provider))
	}
	if g.Module != nil {
		opts = append(opts, asset.WithResources(g.Resources()))
	}
	return opts
}

// OnAddResourceDirectories returns the title's directories when it provides
// them, the engine defaults otherwise.
func (g *Game) OnAddResourceDirectories() (local, global []string) {
	if p, ok := g.title.(asset.DirectoryProvider); ok {
		return p.OnAddResourceDirectories()
	}
	return DefaultLocalDirectories, DefaultGlobalDirectories
}

func (g *Game) Stage() Stage { return Stage(g.stage.Load()) }

func (g *Game) setStage(to Stage) {
	from := Stage(g.stage.Swap(int32(to)))
	g.logger.Debug("stage changed", log.Stringer("from", from), log.Stringer("to", to))
	g.publish(bus.TypeStageChanged, bus.StageChange{From: from.String(), To: to.String()})
}

func (g *Game) publish(typ string, data any) {
	if err := g.bus.Publish(bus.NewEvent(typ, ModuleName, data)); err != nil {
		g.logger.Warn("event handler failed", log.String("event", typ), log.Error(err))
	}
}

// Time is the seconds accumulated by the render loop.
func (g *Game) Time() float64 { return g.time }

func (g *Game) Args() []string { return g.args }

func (g *Game) Env() config.Env { return g.env }

func (g *Game) Info() Info { return g.info }

func (g *Game) Version() *semver.Version { return g.version }

func (g *Game) Settings() config.SettingsObject { return g.settings }

// SaveGame is nil before the Starting stage or when the save could not be opened.
func (g *Game) SaveGame() *savegame.SaveGame { return g.saveGame }

func (g *Game) Bus() bus.EventBus { return g.bus }

func (g *Game) Logger() log.Log { return g.logger }

func (g *Game) Backend() render.Backend { return g.backend }

func (g *Game) Audio() *audio.Engine { return g.audio }

func (g *Game) Database() *table.Database { return g.db }

func (g *Game) Tools() *tools.Set { return g.tools }

func (g *Game) Mods() []*mod.Mod { return g.mods }

// ModuleByName returns the game module or the loaded mod called name.
func (g *Game) ModuleByName(name string) (*asset.Module, bool) {
	if name == g.Name() {
		return g.Module, true
	}
	for _, m := range g.mods {
		if m.Name() == name {
			return m.Module, true
		}
	}
	return nil, false
}

// CreateTable registers a table; only allowed during Initialization.
func CreateTable[T any](g *Game, name string) (*table.Table[T], error) {
	return table.Create[T](g.db, name)
}

func GetTable[T any](g *Game, name string) (*table.Table[T], error) {
	return table.Get[T](g.db, name)
}

func (g *Game) WhiteTexture() *asset.Texture { return g.white }

func (g *Game) UVTestTexture() *asset.Texture { return g.uvTest }

func (g *Game) BasicMaterial() (*asset.Material, error) {
	return g.LoadMaterial("basic")
}

func (g *Game) GeneralChannel() *audio.Channel { return g.generalChannel }

// NewWorld builds a world bound to the game's backend, audio and physics
// settings. opts are applied last.
func (g *Game) NewWorld(name string, opts ...ecs.Option) *ecs.World {
	base := []ecs.Option{
		ecs.WithBackend(g.backend),
		ecs.WithLogger(g.base),
		ecs.WithAudio(g.audio, g.generalChannel),
		ecs.WithTickInterval(g.settings.Base().PhysicsTickInterval()),
	}
	return ecs.NewWorld(name, append(base, opts...)...)
}

// World is the open world, or nil.
func (g *Game) World() *ecs.World { return g.world }

// OpenWorld closes the current world and starts w.
func (g *Game) OpenWorld(w *ecs.World) error {
	if w == nil {
		g.logger.Warn("attempt to open a nil world")
		return ErrNilWorld
	}
	g.CloseWorld()
	if err := w.Init(); err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	g.world = w
	g.logger.Info("world opened", log.String("world", w.Name()))
	g.publish(bus.TypeWorldOpened, w.Name())
	return nil
}

// CloseWorld closes the open world, if any.
func (g *Game) CloseWorld() {
	w := g.world
	if w == nil {
		return
	}
	g.UseCamera(nil)
	if err := w.Close(); err != nil {
		g.logger.Error("failed closing world", log.String("world", w.Name()), log.Error(err))
	}
	g.world = nil
	g.logger.Info("world closed", log.String("world", w.Name()))
	g.publish(bus.TypeWorldClosed, w.Name())
}

// UseCamera renders through cam from the next frame on. Nil stops rendering.
func (g *Game) UseCamera(cam *ecs.CameraComponent) {
	g.camera = cam
	var rc *render.Camera
	if cam != nil {
		rc = cam.Camera()
	}
	g.backend.Viewport().SetCamera(rc)
}

func (g *Game) Camera() *ecs.CameraComponent { return g.camera }

// CallOnMainThread queues fn for the next render loop iteration. Safe for
// concurrent use.
func (g *Game) CallOnMainThread(fn func()) {
	g.mainMu.Lock()
	g.mainCalls = append(g.mainCalls, fn)
	g.mainMu.Unlock()
}

func (g *Game) drainMainThread() {
	g.mainMu.Lock()
	calls := g.mainCalls
	g.mainCalls = nil
	g.mainMu.Unlock()
	for _, fn := range calls {
		fn()
	}
}

// Quit ends the render loop after the current frame.
func (g *Game) Quit() { g.quitting.Store(true) }

func (g *Game) settingsPath() string {
	return g.env.Resolve(filepath.Clean(g.env.SettingsFile))
}
