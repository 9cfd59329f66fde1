package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/walkthrough/internal/compiler"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/ports"
)

// Result is the outcome for one module id.
type Result struct {
	ID     string
	Module domain.Module
	Err    error
}

// ValidateModules compiles every module the loader lists and checks that each
// definition declares the id it is stored under. It returns one Result per id
// and a summary error when any of them failed.
func ValidateModules(loader ports.ModuleLoader, parser *compiler.Parser) ([]Result, error) {
	ids, err := loader.ListModules()
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}

	results := make([]Result, 0, len(ids))
	var errors []string

	for _, id := range ids {
		res := Result{ID: id}
		res.Module, res.Err = validateOne(loader, parser, id)
		if res.Err != nil {
			errors = append(errors, fmt.Sprintf("%s: %v", id, res.Err))
		}
		results = append(results, res)
	}

	if len(ids) == 0 {
		return results, fmt.Errorf("no module definitions found")
	}
	if len(errors) > 0 {
		return results, fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return results, nil
}

func validateOne(loader ports.ModuleLoader, parser *compiler.Parser, id string) (domain.Module, error) {
	data, err := loader.GetModule(id)
	if err != nil {
		return domain.Module{}, err
	}
	m, err := parser.Parse(data)
	if err != nil {
		return domain.Module{}, err
	}
	if m.ID != id {
		return m, fmt.Errorf("declared id %q does not match %q", m.ID, id)
	}
	for _, s := range m.Timeline.Steps() {
		if strings.TrimSpace(s.Label) == "" {
			return m, fmt.Errorf("step %d has no label", s.Index)
		}
	}
	return m, nil
}
