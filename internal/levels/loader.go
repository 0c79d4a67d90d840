package levels

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader reads level packs from a directory tree.
type Loader struct {
	Root string
}

// NewLoader creates a loader rooted at root.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively loads every .yaml/.yml pack under Root, in path order.
// A malformed pack aborts the load with an error naming the file.
func (l *Loader) LoadAll() ([]*Pack, error) {
	var paths []string

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if isSupportedExtension(strings.ToLower(filepath.Ext(path))) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("levels: walking directory %s: %w", l.Root, err)
	}

	sort.Strings(paths)

	packs := make([]*Pack, 0, len(paths))
	for _, path := range paths {
		p, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		packs = append(packs, p)
	}
	return packs, nil
}

// LoadFile loads a single pack file.
func (l *Loader) LoadFile(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("levels: reading file %s: %w", path, err)
	}

	p, err := ParsePack(data, path)
	if err != nil {
		return nil, fmt.Errorf("levels: parsing file %s: %w", path, err)
	}
	return p, nil
}

// Merge loads every pack under Root into c, replacing levels with the same
// game and id. It returns the number of levels added.
func (l *Loader) Merge(c *Catalog) (int, error) {
	packs, err := l.LoadAll()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range packs {
		c.AddPack(p)
		n += len(p.Levels)
	}
	return n, nil
}

func isSupportedExtension(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}
