package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/walkthrough/internal/dto"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/registry"
	"gopkg.in/yaml.v3"
)

// Parser is responsible for converting raw definition bytes into a Module.
type Parser struct {
	effects *registry.Registry
}

// NewParser creates a parser resolving custom effects in effects.
// A nil registry means the built-in effects only.
func NewParser(effects *registry.Registry) *Parser {
	if effects == nil {
		effects = registry.Default()
	}
	return &Parser{effects: effects}
}

// Parse decodes a definition and compiles it into a validated Module.
// JSON is detected by a leading '{'; anything else is read as YAML.
func (p *Parser) Parse(data []byte) (domain.Module, error) {
	var meta dto.ModuleMetadata

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&meta); err != nil {
			return domain.Module{}, fmt.Errorf("failed to parse module json: %w", err)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&meta); err != nil {
			return domain.Module{}, fmt.Errorf("failed to parse module yaml: %w", err)
		}
	}

	return p.Compile(meta)
}

// Compile turns decoded metadata into a validated Module.
func (p *Parser) Compile(meta dto.ModuleMetadata) (domain.Module, error) {
	if meta.ID == "" {
		return domain.Module{}, fmt.Errorf("module missing id")
	}

	interval, err := parseDuration(meta.Interval, 0)
	if err != nil {
		return domain.Module{}, fmt.Errorf("module %s: interval: %w", meta.ID, err)
	}
	cooldown, err := parseDuration(meta.Cooldown, 0)
	if err != nil {
		return domain.Module{}, fmt.Errorf("module %s: cooldown: %w", meta.ID, err)
	}

	steps := make([]domain.Step, len(meta.Steps))
	tags := make([]domain.Highlight, len(meta.Steps))
	for i, sm := range meta.Steps {
		eff, err := p.compileEffect(sm.Effect)
		if err != nil {
			return domain.Module{}, fmt.Errorf("module %s: step %d: %w", meta.ID, i, err)
		}
		steps[i] = domain.Step{Index: i, Label: sm.Label, Effect: eff}
		tags[i] = domain.Highlight(sm.Highlight)
	}

	timeline, err := domain.NewTimeline(steps...)
	if err != nil {
		return domain.Module{}, fmt.Errorf("module %s: %w", meta.ID, err)
	}

	var palette []domain.Highlight
	var idle domain.Highlight
	if meta.Highlights != nil {
		for _, h := range meta.Highlights.Palette {
			palette = append(palette, domain.Highlight(h))
		}
		idle = domain.Highlight(meta.Highlights.Idle)
	}
	if len(palette) == 0 {
		palette = domain.DefaultPalette()
	}
	if idle == "" {
		idle = palette[0]
	}
	// Steps without an explicit tag show the idle highlight.
	for i, tag := range tags {
		if tag == "" {
			tags[i] = idle
		}
	}

	highlights, err := domain.NewHighlightTable(palette, idle, tags, timeline.Len())
	if err != nil {
		return domain.Module{}, fmt.Errorf("module %s: %w", meta.ID, err)
	}

	initial := make([]domain.Item, len(meta.InitialItems))
	for i, it := range meta.InitialItems {
		initial[i] = domain.Item{Value: it.Value, Attrs: it.Attrs}
	}

	m := domain.Module{
		ID:           meta.ID,
		Title:        meta.Title,
		Description:  meta.Description,
		Timeline:     timeline,
		Highlights:   highlights,
		Interval:     interval,
		Cooldown:     cooldown,
		InitialItems: initial,
	}
	if err := m.Validate(); err != nil {
		return domain.Module{}, err
	}
	return m, nil
}

func (p *Parser) compileEffect(em *dto.EffectMetadata) (domain.Effect, error) {
	if em == nil {
		return domain.NoEffect(), nil
	}

	set := 0
	if em.Append != nil {
		set++
	}
	if em.Item != nil {
		set++
	}
	if em.Custom != "" {
		set++
	}
	if set > 1 {
		return domain.Effect{}, fmt.Errorf("effect must declare only one of append, item or custom")
	}

	switch {
	case em.Append != nil:
		return domain.AppendValue(*em.Append), nil
	case em.Item != nil:
		return domain.AppendItem(domain.Item{Value: em.Item.Value, Attrs: em.Item.Attrs}), nil
	case em.Custom != "":
		return p.effects.Build(em.Custom, em.Args)
	}
	return domain.NoEffect(), nil
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidInterval, err)
	}
	return d, nil
}
