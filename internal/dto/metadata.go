package dto

// ModuleMetadata is the on-disk shape of a module definition (YAML or JSON).
type ModuleMetadata struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`

	// Durations use Go syntax ("1.5s", "800ms").
	Interval string `json:"interval" yaml:"interval"`
	Cooldown string `json:"cooldown,omitempty" yaml:"cooldown,omitempty"`

	Highlights   *HighlightMetadata `json:"highlights,omitempty" yaml:"highlights,omitempty"`
	InitialItems []ItemMetadata     `json:"initial_items,omitempty" yaml:"initial_items,omitempty"`
	Steps        []StepMetadata     `json:"steps" yaml:"steps"`
}

type HighlightMetadata struct {
	Palette []string `json:"palette" yaml:"palette"`
	Idle    string   `json:"idle" yaml:"idle"`
}

type ItemMetadata struct {
	Value string            `json:"value" yaml:"value"`
	Attrs map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

type StepMetadata struct {
	Label     string          `json:"label" yaml:"label"`
	Highlight string          `json:"highlight,omitempty" yaml:"highlight,omitempty"`
	Effect    *EffectMetadata `json:"effect,omitempty" yaml:"effect,omitempty"`
}

// EffectMetadata sets exactly one of Append, Item or Custom.
type EffectMetadata struct {
	Append *string        `json:"append,omitempty" yaml:"append,omitempty"`
	Item   *ItemMetadata  `json:"item,omitempty" yaml:"item,omitempty"`
	Custom string         `json:"custom,omitempty" yaml:"custom,omitempty"`
	Args   map[string]any `json:"args,omitempty" yaml:"args,omitempty"`
}
