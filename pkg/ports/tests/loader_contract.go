package tests

import (
	"errors"
	"testing"

	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/ports"
)

// ModuleLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.ModuleLoader.
func ModuleLoaderContractTest(t *testing.T, loader ports.ModuleLoader, setupData map[string][]byte) {
	t.Helper()

	t.Run("GetModule_Success", func(t *testing.T) {
		for id, expectedContent := range setupData {
			content, err := loader.GetModule(id)
			if err != nil {
				t.Fatalf("unexpected error getting module %s: %v", id, err)
			}
			if string(content) != string(expectedContent) {
				t.Errorf("content mismatch for %s. got %q, want %q", id, content, expectedContent)
			}
		}
	})

	t.Run("GetModule_NotFound", func(t *testing.T) {
		_, err := loader.GetModule("non-existent-module")
		if !errors.Is(err, domain.ErrModuleNotFound) {
			t.Errorf("expected ErrModuleNotFound, got %v", err)
		}
	})

	t.Run("ListModules", func(t *testing.T) {
		ids, err := loader.ListModules()
		if err != nil {
			t.Fatalf("unexpected error listing modules: %v", err)
		}

		if len(ids) != len(setupData) {
			t.Errorf("expected %d modules, got %d", len(setupData), len(ids))
		}

		for i := 1; i < len(ids); i++ {
			if ids[i-1] > ids[i] {
				t.Errorf("list is not sorted: %v", ids)
				break
			}
		}

		lookup := make(map[string]bool)
		for _, id := range ids {
			lookup[id] = true
		}
		for id := range setupData {
			if !lookup[id] {
				t.Errorf("module %s missing from list", id)
			}
		}
	})
}
