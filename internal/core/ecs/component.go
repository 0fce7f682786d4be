package ecs

import "reflect"

// Component is a piece of behavior owned by one Entity. Implementations embed
// ComponentBase and override the hooks they need.
type Component interface {
	OnStart()
	OnTick(dt float32)
	OnDestroy()

	base() *ComponentBase
}

// ComponentBase carries the owner link and started flag of a component.
type ComponentBase struct {
	owner   *Entity
	started bool
}

func (c *ComponentBase) base() *ComponentBase { return c }

// Owner is the entity the component is attached to, nil once removed.
func (c *ComponentBase) Owner() *Entity { return c.owner }

func (c *ComponentBase) Started() bool { return c.started }

func (c *ComponentBase) OnStart() {}

func (c *ComponentBase) OnTick(float32) {}

func (c *ComponentBase) OnDestroy() {}

func startComponent(c Component) {
	c.base().started = true
	c.OnStart()
}

// CreateComponent attaches c to e. A second component of the same type is
// rejected. On a started entity the component starts immediately.
func CreateComponent[T Component](e *Entity, c T) (T, error) {
	var zero T
	if isNil(c) {
		return zero, ErrNilComponent
	}
	if e.destroyed {
		return zero, ErrEntityDestroyed
	}
	for _, existing := range e.components {
		if _, ok := existing.(T); ok {
			return zero, ErrComponentExists
		}
	}

	c.base().owner = e
	e.components = append(e.components, c)
	if e.started {
		startComponent(c)
	}
	return c, nil
}

// RemoveComponent destroys and detaches the first component of type T.
func RemoveComponent[T Component](e *Entity) bool {
	for i, existing := range e.components {
		if _, ok := existing.(T); ok {
			e.components = append(e.components[:i:i], e.components[i+1:]...)
			existing.OnDestroy()
			existing.base().owner = nil
			return true
		}
	}
	return false
}

// FindComponent returns the first component of type T.
func FindComponent[T Component](e *Entity) (T, bool) {
	for _, existing := range e.components {
		if c, ok := existing.(T); ok {
			return c, true
		}
	}
	var zero T
	return zero, false
}

// isNil also catches a nil pointer stored in the interface.
func isNil(c Component) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
