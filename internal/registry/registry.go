// Package registry is a global registry of playable game modes. Modes
// register themselves in init() so the platform and CLI can list and
// instantiate them without importing the game packages directly.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tuigames/tui-bomber/internal/core"
)

// Game is what the platform needs to drive a mode: pure simulation with
// no terminal or transport dependencies. Input arrives as abstract
// actions; output is a screen buffer and a coarse state.
type Game interface {
	// ID is the stable identifier used for CLI commands and score rows.
	ID() string

	// Title is the display name shown in menus.
	Title() string

	// Reset starts a fresh match with the given screen size, tick rate
	// and RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into a pre-cleared screen buffer.
	Render(dst *core.Screen)

	// State reports score, pause and game-over flags.
	State() core.GameState
}

// GameInfo is the metadata of one registered mode.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a fresh instance of a mode.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a mode to the registry. Called from init(); panics on a
// duplicate ID.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f

	// Title comes from a throwaway instance.
	g := f()
	titles[id] = g.Title()
}

// List returns all registered modes sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a mode by ID.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}

	return f(), nil
}

// Exists reports whether a mode with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
