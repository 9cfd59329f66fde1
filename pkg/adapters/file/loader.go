// Package file serves module definitions from a directory on disk.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/aretw0/walkthrough/pkg/domain"
)

// Extensions lists the accepted definition suffixes in lookup order.
var Extensions = []string{".yaml", ".yml", ".json"}

// Loader implements ports.ModuleLoader over *.yaml, *.yml and *.json files.
// The module id is the file name without its extension.
type Loader struct {
	dir string
}

// New creates a loader rooted at dir. The directory is read lazily.
func New(dir string) *Loader {
	return &Loader{dir: dir}
}

// Dir returns the root directory.
func (l *Loader) Dir() string { return l.dir }

// GetModule reads the definition of id.
func (l *Loader) GetModule(id string) ([]byte, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, fmt.Errorf("%w: %q", domain.ErrModuleNotFound, id)
	}
	for _, ext := range Extensions {
		data, err := os.ReadFile(filepath.Join(l.dir, id+ext))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read module %s: %w", id, err)
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrModuleNotFound, id)
}

// ListModules returns the ids of every definition file, sorted.
func (l *Loader) ListModules() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules in %s: %w", l.dir, err)
	}

	seen := make(map[string]struct{})
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if !slices.Contains(Extensions, ext) {
			continue
		}
		seen[strings.TrimSuffix(e.Name(), ext)] = struct{}{}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
