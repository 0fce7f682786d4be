package game

import (
	"github.com/hexaengine/hexa/internal/core/ecs"
	"github.com/hexaengine/hexa/internal/core/input"
)

// Player is an entity that sees the world through its own camera once
// possessed. Titles embed it to add movement and controls.
type Player struct {
	ecs.Entity
	input.ControllableBase

	game   *Game
	camera *ecs.CameraComponent
}

func NewPlayer(g *Game) *Player {
	p := &Player{game: g}
	p.SetTickEnabled(true)
	p.camera, _ = ecs.CreateComponent(&p.Entity, ecs.NewCameraComponent())
	return p
}

func (p *Player) Camera() *ecs.CameraComponent { return p.camera }

func (p *Player) OnPossess() {
	p.game.UseCamera(p.camera)
}
