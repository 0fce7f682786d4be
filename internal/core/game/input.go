package game

import (
	"github.com/hexaengine/hexa/internal/core/input"
	"github.com/hexaengine/hexa/pkg/vmath"
)

// Possess routes input to c. The previous controllable is unpossessed first.
func (g *Game) Possess(c input.Controllable) {
	g.controlMu.Lock()
	prev := g.controllable
	g.controllable = c
	g.controlMu.Unlock()

	if prev != nil {
		prev.OnUnpossess()
	}
	if c != nil {
		c.OnPossess()
	}
}

func (g *Game) Controllable() input.Controllable {
	g.controlMu.Lock()
	defer g.controlMu.Unlock()
	return g.controllable
}

func (g *Game) Input() *input.State { return g.input }

func (g *Game) MousePosition() vmath.Vector2 { return g.input.MousePosition() }

// MouseDelta is the mouse movement since the last rendered frame.
func (g *Game) MouseDelta() vmath.Vector2 { return g.input.MouseDelta() }

// KeyPressed handles a key press from the window. Escape quits the game.
// Repeats only update the key state.
func (g *Game) KeyPressed(key input.KeyCode, repeat bool) {
	g.input.SetKey(key, true)
	if repeat {
		return
	}
	if key == input.KeyEscape {
		g.Quit()
		return
	}
	if c := g.Controllable(); c != nil {
		c.KeyDown(key)
	}
}

func (g *Game) KeyReleased(key input.KeyCode) {
	g.input.SetKey(key, false)
	if c := g.Controllable(); c != nil {
		c.KeyUp(key)
	}
}

func (g *Game) MousePressed(button input.MouseButton) {
	g.input.SetButton(button, true)
	if c := g.Controllable(); c != nil {
		c.MouseButtonDown(button)
	}
}

func (g *Game) MouseReleased(button input.MouseButton) {
	g.input.SetButton(button, false)
	if c := g.Controllable(); c != nil {
		c.MouseButtonUp(button)
	}
}

func (g *Game) MouseMoved(position, delta vmath.Vector2) {
	g.input.MoveMouse(position, delta)
}

func (g *Game) WheelRolled(y float32) {
	if c := g.Controllable(); c != nil {
		c.Scroll(y)
	}
}

// WindowResized resizes the viewport.
func (g *Game) WindowResized(width, height int) {
	g.backend.Viewport().Resize(width, height)
}
