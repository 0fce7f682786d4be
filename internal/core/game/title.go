package game

import (
	"github.com/hexaengine/hexa/internal/core/config"
)

const defaultTitle = "Untitled Game"

// Info describes the running title.
type Info struct {
	Title string `json:"title"`
}

// Title is the game a developer builds on the engine. Every hook runs on the
// main loop goroutine; a hook error aborts the launch and unloads the game.
type Title interface {
	InitGameInfo(info *Info)

	OnInit(g *Game) error
	OnLoadingStage(g *Game) error
	OnStart(g *Game) error
	OnTick(g *Game, dt float32)
	OnUnloadingStage(g *Game)
}

// SettingsProvider is implemented by titles that extend config.Settings.
// The returned object is filled from the settings file and written back.
type SettingsProvider interface {
	NewSettings() config.SettingsObject
}

// TitleBase is an embeddable Title with no-op hooks.
type TitleBase struct{}

func (TitleBase) InitGameInfo(*Info)         {}
func (TitleBase) OnInit(*Game) error         { return nil }
func (TitleBase) OnLoadingStage(*Game) error { return nil }
func (TitleBase) OnStart(*Game) error        { return nil }
func (TitleBase) OnTick(*Game, float32)      {}
func (TitleBase) OnUnloadingStage(*Game)     {}
