package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"
)

var (
	ErrToolExists = errors.New("tool already registered")
	ErrUsage      = errors.New("invalid tool arguments")
)

// Tool is a command line utility run instead of the game when argv[1]
// names it.
type Tool interface {
	Name() string
	Description() string
	Execute(ctx context.Context, args []string, out io.Writer) error
}

// Set holds the tools known to a game.
type Set struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewSet() *Set {
	return &Set{tools: make(map[string]Tool)}
}

// Defaults returns a set with the built-in help and comp tools.
func Defaults() *Set {
	s := NewSet()
	_ = s.Register(NewHelp(s))
	_ = s.Register(NewComp())
	return s
}

func (s *Set) Register(t Tool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tools[t.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrToolExists, t.Name())
	}
	s.tools[t.Name()] = t
	return nil
}

func (s *Set) Lookup(name string) (Tool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tools[name]
	return t, ok
}

// Names lists tool names in sorted order.
func (s *Set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.tools))
}

// Dispatch runs the tool named by args[1] with the remaining arguments.
// handled is false when args do not name a tool.
func (s *Set) Dispatch(ctx context.Context, args []string, out io.Writer) (handled bool, err error) {
	if len(args) < 2 {
		return false, nil
	}
	t, ok := s.Lookup(args[1])
	if !ok {
		return false, nil
	}
	return true, t.Execute(ctx, args[2:], out)
}
