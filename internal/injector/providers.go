package injector

import (
	"github.com/google/wire"

	"github.com/hexaengine/hexa/internal/core/config"
	"github.com/hexaengine/hexa/internal/core/events/bus"
	"github.com/hexaengine/hexa/internal/core/game"
	"github.com/hexaengine/hexa/internal/core/observability/log"
	"github.com/hexaengine/hexa/internal/inspector"
)

var ProviderSet = wire.NewSet(
	ProvideEnv,
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideBus,
	ProvideInspector,
)

// Runtime holds the services shared by the game and its tooling.
type Runtime struct {
	Env       config.Env
	Logger    *log.Logger
	Bus       bus.EventBus
	Inspector *inspector.Inspector
}

func ProvideEnv() (config.Env, error) {
	return config.LoadEnv()
}

func ProvideLogger(env config.Env) *log.Logger {
	return log.New(env.LogLevel)
}

func ProvideBus() bus.EventBus {
	return bus.New()
}

// ProvideInspector returns nil when HEXA_INSPECTOR_ADDR is not set.
func ProvideInspector(env config.Env, eventBus bus.EventBus, logger log.Log) *inspector.Inspector {
	if env.InspectorAddr == "" {
		return nil
	}
	return inspector.New(env.InspectorAddr, eventBus, logger)
}

// GameOptions binds a game to the runtime's services.
func (r *Runtime) GameOptions() []game.Option {
	return []game.Option{
		game.WithEnv(r.Env),
		game.WithLogger(r.Logger),
		game.WithBus(r.Bus),
	}
}
