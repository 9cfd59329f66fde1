// Package samples ships the built-in module definitions written by "walkthrough init".
package samples

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/walkthrough/pkg/adapters/memory"
)

//go:embed modules/*.yaml
var files embed.FS

// Names returns the sample file names, sorted.
func Names() []string {
	entries, _ := fs.ReadDir(files, "modules")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// Loader serves the samples from memory.
func Loader() *memory.Loader {
	data := make(map[string]string)
	for _, name := range Names() {
		raw, _ := files.ReadFile("modules/" + name)
		data[strings.TrimSuffix(name, filepath.Ext(name))] = string(raw)
	}
	return memory.NewLoader(data)
}

// Write copies the samples into dir. Existing files are kept unless overwrite is set.
// It returns the paths it wrote.
func Write(dir string, overwrite bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	var written []string
	for _, name := range Names() {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil && !overwrite {
			continue
		}
		raw, err := files.ReadFile("modules/" + name)
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
