package memory

import (
	"fmt"
	"sort"

	"github.com/aretw0/walkthrough/pkg/domain"
)

// Loader implements ports.ModuleLoader using an in-memory map.
type Loader struct {
	modules map[string][]byte
}

// NewLoader creates a new Loader with the provided raw definitions (YAML or JSON).
func NewLoader(data map[string]string) *Loader {
	modules := make(map[string][]byte, len(data))
	for k, v := range data {
		modules[k] = []byte(v)
	}
	return &Loader{
		modules: modules,
	}
}

// GetModule retrieves the raw definition of a module by ID.
func (l *Loader) GetModule(id string) ([]byte, error) {
	content, ok := l.modules[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrModuleNotFound, id)
	}
	return content, nil
}

// ListModules returns all available module IDs.
func (l *Loader) ListModules() ([]string, error) {
	keys := make([]string, 0, len(l.modules))
	for k := range l.modules {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
