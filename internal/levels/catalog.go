package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"sync"
)

//go:embed packs/*.yaml
var builtinPacks embed.FS

// ErrLevelNotFound is returned by Catalog.Get for an unknown game/id pair.
var ErrLevelNotFound = errors.New("levels: level not found")

// Catalog holds levels by game, ordered by id. Adding a level whose game and
// id already exist replaces the previous one.
type Catalog struct {
	mu     sync.RWMutex
	byGame map[string]map[int]*Level
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byGame: make(map[string]map[int]*Level)}
}

// Add stores a level.
func (c *Catalog) Add(l *Level) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.byGame[l.Game]
	if !ok {
		m = make(map[int]*Level)
		c.byGame[l.Game] = m
	}
	m[l.ID] = l
}

// AddPack stores every level of p.
func (c *Catalog) AddPack(p *Pack) {
	for _, l := range p.Levels {
		c.Add(l)
	}
}

// Get returns the level with the given id.
func (c *Catalog) Get(game string, id int) (*Level, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if l, ok := c.byGame[game][id]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("%w: %s level %d", ErrLevelNotFound, game, id)
}

// Levels returns the game's levels sorted by id.
func (c *Catalog) Levels(game string) []*Level {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m := c.byGame[game]
	out := make([]*Level, 0, len(m))
	for _, l := range m {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Games returns the ids of games with at least one level, sorted.
func (c *Catalog) Games() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.byGame))
	for g, m := range c.byGame {
		if len(m) > 0 {
			out = append(out, g)
		}
	}
	sort.Strings(out)
	return out
}

var (
	builtinOnce sync.Once
	builtin     *Catalog
	builtinErr  error
)

// Builtin returns a fresh catalog holding the embedded level packs. The packs
// are parsed once; callers may add to the returned catalog freely.
func Builtin() (*Catalog, error) {
	builtinOnce.Do(func() {
		builtin, builtinErr = loadBuiltin()
	})
	if builtinErr != nil {
		return nil, builtinErr
	}

	c := NewCatalog()
	builtin.mu.RLock()
	defer builtin.mu.RUnlock()
	for _, m := range builtin.byGame {
		for _, l := range m {
			c.Add(l)
		}
	}
	return c, nil
}

func loadBuiltin() (*Catalog, error) {
	c := NewCatalog()
	names, err := fs.Glob(builtinPacks, "packs/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("levels: list builtin packs: %w", err)
	}
	for _, name := range names {
		data, err := builtinPacks.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("levels: read %s: %w", name, err)
		}
		p, err := ParsePack(data, "builtin:"+path.Base(name))
		if err != nil {
			return nil, fmt.Errorf("levels: builtin %s: %w", path.Base(name), err)
		}
		c.AddPack(p)
	}
	return c, nil
}
