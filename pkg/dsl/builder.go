package dsl

import (
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/registry"
)

// Builder manages the module construction.
type Builder struct {
	module  domain.Module
	palette []domain.Highlight
	idle    domain.Highlight
	steps   []*StepBuilder
	effects *registry.Registry
	errs    []error
}

// New creates a new module builder.
func New(id string) *Builder {
	return &Builder{
		module:  domain.Module{ID: id},
		effects: registry.Default(),
	}
}

// Title sets the human readable name.
func (b *Builder) Title(title string) *Builder {
	b.module.Title = title
	return b
}

// Description sets the markdown overview shown by inspect.
func (b *Builder) Description(desc string) *Builder {
	b.module.Description = desc
	return b
}

// Interval sets the autoplay tick spacing.
func (b *Builder) Interval(d time.Duration) *Builder {
	b.module.Interval = d
	return b
}

// Cooldown enables the auto-reset that long after autoplay completes.
func (b *Builder) Cooldown(d time.Duration) *Builder {
	b.module.Cooldown = d
	return b
}

// Palette declares the closed set of highlight tags. The first one is the
// idle tag unless Idle is called.
func (b *Builder) Palette(tags ...domain.Highlight) *Builder {
	b.palette = append([]domain.Highlight(nil), tags...)
	return b
}

// Idle sets the tag shown when no step is active.
func (b *Builder) Idle(tag domain.Highlight) *Builder {
	b.idle = tag
	return b
}

// Seed sets the initial demo items.
func (b *Builder) Seed(values ...string) *Builder {
	for _, v := range values {
		b.module.InitialItems = append(b.module.InitialItems, domain.Item{Value: v})
	}
	return b
}

// Registry replaces the registry used by StepBuilder.Effect.
func (b *Builder) Registry(r *registry.Registry) *Builder {
	if r != nil {
		b.effects = r
	}
	return b
}

// Step appends a new step to the timeline.
func (b *Builder) Step(label string) *StepBuilder {
	sb := &StepBuilder{
		step:    domain.Step{Index: len(b.steps), Label: label, Effect: domain.NoEffect()},
		builder: b,
	}
	b.steps = append(b.steps, sb)
	return sb
}

// Build validates and returns the module.
func (b *Builder) Build() (domain.Module, error) {
	if len(b.errs) > 0 {
		return domain.Module{}, fmt.Errorf("module %s: %w", b.module.ID, errors.Join(b.errs...))
	}

	palette := b.palette
	if len(palette) == 0 {
		palette = domain.DefaultPalette()
	}
	idle := b.idle
	if idle == "" {
		idle = palette[0]
	}

	steps := make([]domain.Step, len(b.steps))
	tags := make([]domain.Highlight, len(b.steps))
	for i, sb := range b.steps {
		steps[i] = sb.step
		tags[i] = sb.highlight
		if tags[i] == "" {
			tags[i] = idle
		}
	}

	timeline, err := domain.NewTimeline(steps...)
	if err != nil {
		return domain.Module{}, fmt.Errorf("module %s: %w", b.module.ID, err)
	}
	highlights, err := domain.NewHighlightTable(palette, idle, tags, len(steps))
	if err != nil {
		return domain.Module{}, fmt.Errorf("module %s: %w", b.module.ID, err)
	}

	m := b.module
	m.Timeline = timeline
	m.Highlights = highlights
	m.InitialItems = m.InitialSnapshot()
	if err := m.Validate(); err != nil {
		return domain.Module{}, err
	}
	return m, nil
}

// StepBuilder provides a fluent API for configuring a step.
type StepBuilder struct {
	step      domain.Step
	highlight domain.Highlight
	builder   *Builder
}

// Highlight tags the step. Untagged steps show the idle tag.
func (s *StepBuilder) Highlight(tag domain.Highlight) *StepBuilder {
	s.highlight = tag
	return s
}

// Append makes the step append a plain value to the demo data.
func (s *StepBuilder) Append(value string) *StepBuilder {
	s.step.Effect = domain.AppendValue(value)
	return s
}

// AppendItem makes the step append an item with attributes.
func (s *StepBuilder) AppendItem(item domain.Item) *StepBuilder {
	s.step.Effect = domain.AppendItem(item)
	return s
}

// Custom attaches an inline effect function.
func (s *StepBuilder) Custom(name string, fn domain.EffectFunc) *StepBuilder {
	s.step.Effect = domain.Custom(name, fn)
	return s
}

// Effect attaches a registered effect. Lookup errors surface from Build.
func (s *StepBuilder) Effect(name string, args map[string]any) *StepBuilder {
	eff, err := s.builder.effects.Build(name, args)
	if err != nil {
		s.builder.errs = append(s.builder.errs, fmt.Errorf("step %d: %w", s.step.Index, err))
		return s
	}
	s.step.Effect = eff
	return s
}

// Step closes this step and starts the next one.
func (s *StepBuilder) Step(label string) *StepBuilder {
	return s.builder.Step(label)
}

// Build finishes the module. It is shorthand for the parent Builder.Build.
func (s *StepBuilder) Build() (domain.Module, error) {
	return s.builder.Build()
}
