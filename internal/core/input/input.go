package input

import (
	"fmt"
	"sync"

	"github.com/hexaengine/hexa/pkg/vmath"
)

type MouseButton uint8

const (
	MouseLeft   MouseButton = 1
	MouseMiddle MouseButton = 2
	MouseRight  MouseButton = 3
	MouseX1     MouseButton = 4
	MouseX2     MouseButton = 5
)

func (b MouseButton) String() string {
	switch b {
	case MouseLeft:
		return "left"
	case MouseMiddle:
		return "middle"
	case MouseRight:
		return "right"
	case MouseX1:
		return "x1"
	case MouseX2:
		return "x2"
	default:
		return fmt.Sprintf("mouse(%d)", uint8(b))
	}
}

// Controllable receives input while possessed by the game.
type Controllable interface {
	OnPossess()
	OnUnpossess()
	KeyDown(key KeyCode)
	KeyUp(key KeyCode)
	MouseButtonDown(button MouseButton)
	MouseButtonUp(button MouseButton)
	Scroll(delta float32)
}

// ControllableBase implements Controllable with no-ops for embedding.
type ControllableBase struct{}

func (ControllableBase) OnPossess()                  {}
func (ControllableBase) OnUnpossess()                {}
func (ControllableBase) KeyDown(KeyCode)             {}
func (ControllableBase) KeyUp(KeyCode)               {}
func (ControllableBase) MouseButtonDown(MouseButton) {}
func (ControllableBase) MouseButtonUp(MouseButton)   {}
func (ControllableBase) Scroll(float32)              {}

// State tracks held keys and buttons and the mouse position. Mouse delta
// accumulates until ResetMouseDelta.
type State struct {
	mu         sync.RWMutex
	keys       map[KeyCode]struct{}
	buttons    map[MouseButton]struct{}
	mousePos   vmath.Vector2
	mouseDelta vmath.Vector2
}

func NewState() *State {
	return &State{
		keys:    make(map[KeyCode]struct{}),
		buttons: make(map[MouseButton]struct{}),
	}
}

// SetKey records a key transition and reports whether the state changed.
func (s *State) SetKey(key KeyCode, down bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, held := s.keys[key]
	if down {
		s.keys[key] = struct{}{}
	} else {
		delete(s.keys, key)
	}
	return held != down
}

func (s *State) IsKeyDown(key KeyCode) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.keys[key]
	return ok
}

func (s *State) SetButton(button MouseButton, down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if down {
		s.buttons[button] = struct{}{}
	} else {
		delete(s.buttons, button)
	}
}

func (s *State) IsButtonDown(button MouseButton) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.buttons[button]
	return ok
}

func (s *State) MoveMouse(position, delta vmath.Vector2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mousePos = position
	s.mouseDelta = s.mouseDelta.Add(delta)
}

func (s *State) MousePosition() vmath.Vector2 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mousePos
}

func (s *State) MouseDelta() vmath.Vector2 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mouseDelta
}

func (s *State) ResetMouseDelta() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mouseDelta = vmath.Vector2{}
}
