// Package registry provides a global registry of playable scenarios.
// Scenario packages register themselves in init() functions, allowing the
// CLI and the SSH server to discover them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/trapcrawl/internal/level"
)

// ScenarioInfo contains metadata about a registered scenario.
type ScenarioInfo struct {
	ID    string
	Title string
	Size  level.Size
}

var (
	providers = make(map[string]level.Provider)
	infos     = make(map[string]ScenarioInfo)
	mu        sync.RWMutex
)

// Register adds a scenario to the registry.
// Typically called from an init() function.
// Panics if the ID is already registered or the level does not load.
func Register(id string, p level.Provider) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := providers[id]; exists {
		panic(fmt.Sprintf("registry: scenario %q already registered", id))
	}

	// Load once up front so a broken built-in level fails at startup
	def, err := p.Load()
	if err != nil {
		panic(fmt.Sprintf("registry: scenario %q: %v", id, err))
	}

	providers[id] = p
	infos[id] = ScenarioInfo{
		ID:    id,
		Title: def.Title(),
		Size:  def.Size,
	}
}

// List returns information about all registered scenarios, sorted by ID.
func List() []ScenarioInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]ScenarioInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create loads a fresh definition of the scenario.
// Returns an error if the ID is not registered.
func Create(id string) (*level.Definition, error) {
	mu.RLock()
	p, ok := providers[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown scenario %q", id)
	}

	def, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("registry: scenario %q: %w", id, err)
	}
	return def, nil
}

// Exists checks if a scenario with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := providers[id]
	return ok
}
