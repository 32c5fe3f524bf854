// Package registry provides a global registry of board variants.
// Variants register themselves in init() functions, allowing the platform
// to discover and instantiate games without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snakes-foxes/internal/config"
	"github.com/vovakirdan/snakes-foxes/internal/core"
	"github.com/vovakirdan/snakes-foxes/internal/multiplayer"
)

// Game is what the platform drives: a fixed-tick simulation fed with input
// frames that reports its state and publishes snapshots for drawing.
type Game interface {
	// ID returns the variant identifier (e.g., "classic").
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset starts a fresh game. The RuntimeConfig provides the RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one tick with hot-seat input: the
	// frame belongs to whichever player's turn it is.
	Step(in core.InputFrame) core.StepResult

	// State returns the current game state.
	State() core.GameState

	multiplayer.OnlineGame
}

// Info contains metadata about a registered variant.
type Info struct {
	ID           string
	Title        string
	Description  string
	Rings        int
	NodesPerRing int
}

// Factory creates a new game of one variant from the loaded configuration.
type Factory func(cfg config.GameConfig, logger *log.Logger) (Game, error)

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]Info)
	mu        sync.RWMutex
)

// Register adds a variant to the registry.
// Typically called from an init() function.
// Panics if a variant with the same ID is already registered.
func Register(info Info, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[info.ID]; exists {
		panic(fmt.Sprintf("registry: variant %q already registered", info.ID))
	}

	factories[info.ID] = f
	infos[info.ID] = info
}

// List returns information about all registered variants, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Lookup returns the metadata of a variant.
func Lookup(id string) (Info, bool) {
	mu.RLock()
	defer mu.RUnlock()

	info, ok := infos[id]
	return info, ok
}

// Create instantiates a new game of the given variant.
// Returns an error if the variant is not registered or cannot be built.
func Create(id string, cfg config.GameConfig, logger *log.Logger) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown variant %q", id)
	}

	g, err := f(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("registry: create %q: %w", id, err)
	}
	return g, nil
}

// Exists checks if a variant with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
