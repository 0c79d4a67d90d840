// Package registry provides a global registry of puzzle games.
// Games register themselves in init() functions, allowing the CLI and the
// playback driver to discover them without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/codegrid/internal/engine"
	"github.com/vovakirdan/codegrid/internal/levels"
)

// ErrUnknownGame is returned when no game is registered under an id.
var ErrUnknownGame = errors.New("registry: unknown game")

// Game is one puzzle variant: its vocabulary, failure wording and goal.
// Games are pure logic; timing and rendering belong to the platform.
type Game interface {
	// ID matches the level pack's game field (e.g. "karel", "tank").
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Course is the course identifier the game is published under.
	Course() string

	// Description is a one-line summary of the puzzle.
	Description() string

	// Rules builds the engine rules for one level. The level has already
	// been validated for this game.
	Rules(l *levels.Level) *engine.Rules
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID          string
	Title       string
	Course      string
	Description string
}

var (
	games = make(map[string]Game)
	mu    sync.RWMutex
)

// Register adds a game to the registry.
// Panics if a game with the same ID is already registered.
func Register(g Game) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := games[g.ID()]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", g.ID()))
	}
	games[g.ID()] = g
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(games))
	for _, g := range games {
		result = append(result, GameInfo{
			ID:          g.ID(),
			Title:       g.Title(),
			Course:      g.Course(),
			Description: g.Description(),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Get returns the game registered under id.
func Get(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	g, ok := games[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownGame, id)
	}
	return g, nil
}

// ByCourse returns the game published under a course identifier.
func ByCourse(course string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	for _, g := range games {
		if g.Course() == course {
			return g, nil
		}
	}
	return nil, fmt.Errorf("%w: no game for course %q", ErrUnknownGame, course)
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := games[id]
	return ok
}
