package mod

import (
	"github.com/hexaengine/hexa/internal/core/asset"
	"github.com/hexaengine/hexa/internal/core/events/bus"
)

// Behavior is what a mod factory returns. Both hooks may fail; the game logs
// the failure under the "Mod Loader" category.
type Behavior interface {
	OnLoadingStage() error
	OnStart(eventBus bus.EventBus) error
}

// Mod is a module loaded from the mods folder together with its Info and
// the behavior built by its registered factory.
type Mod struct {
	*asset.Module

	info     Info
	dir      string
	behavior Behavior
}

func (m *Mod) Info() Info { return m.info }

// Dir is the mod's root directory, "mods/<name>".
func (m *Mod) Dir() string { return m.dir }

// Behavior returns the value built by the mod's factory.
func (m *Mod) Behavior() Behavior { return m.behavior }

func (m *Mod) OnLoadingStage() error {
	if m.behavior == nil {
		return nil
	}
	return m.behavior.OnLoadingStage()
}

func (m *Mod) OnStart(eventBus bus.EventBus) error {
	if m.behavior == nil {
		return nil
	}
	return m.behavior.OnStart(eventBus)
}

// OnAddResourceDirectories forwards to the behavior when it provides
// directories of its own.
func (m *Mod) OnAddResourceDirectories() (local, global []string) {
	if p, ok := m.behavior.(asset.DirectoryProvider); ok {
		return p.OnAddResourceDirectories()
	}
	return nil, nil
}

// Base is an embeddable no-op Behavior.
type Base struct{}

func (Base) OnLoadingStage() error        { return nil }
func (Base) OnStart(_ bus.EventBus) error { return nil }
