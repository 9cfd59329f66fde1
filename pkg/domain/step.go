package domain

import "fmt"

// EffectKind classifies the side effect attached to a step.
type EffectKind string

const (
	// EffectNone means entering the step does not touch demo data.
	EffectNone EffectKind = ""
	// EffectAppend appends a single item to the demo data store.
	EffectAppend EffectKind = "append"
	// EffectCustom runs a resolved EffectFunc against the demo data store.
	EffectCustom EffectKind = "custom"
)

// Item is one entry of a module's demo data (e.g. a simulated chat message).
type Item struct {
	Value string            `json:"value" yaml:"value"`
	Attrs map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// Clone returns a deep copy of the item.
func (i Item) Clone() Item {
	out := Item{Value: i.Value}
	if len(i.Attrs) > 0 {
		out.Attrs = make(map[string]string, len(i.Attrs))
		for k, v := range i.Attrs {
			out.Attrs[k] = v
		}
	}
	return out
}

// Appender is the only write access an effect gets to demo data.
type Appender interface {
	Append(item Item)
}

// EffectContext is handed to custom effects when their step is first entered.
type EffectContext struct {
	Module  string
	Step    Step
	Session uint64
	Data    Appender
}

// EffectFunc implements a custom effect.
type EffectFunc func(ec EffectContext) error

// Effect is the tagged variant `none | appendDemoItem(value) | custom(fn)`.
type Effect struct {
	Kind EffectKind
	// Item is the payload of EffectAppend.
	Item Item
	// Name identifies custom effects in logs and events.
	Name string
	// Func is the resolved implementation of EffectCustom.
	Func EffectFunc
}

// NoEffect returns the empty effect.
func NoEffect() Effect { return Effect{Kind: EffectNone} }

// AppendItem returns an effect that appends item.
func AppendItem(item Item) Effect { return Effect{Kind: EffectAppend, Item: item} }

// AppendValue is shorthand for AppendItem(Item{Value: v}).
func AppendValue(v string) Effect { return AppendItem(Item{Value: v}) }

// Custom returns an effect backed by fn.
func Custom(name string, fn EffectFunc) Effect {
	return Effect{Kind: EffectCustom, Name: name, Func: fn}
}

// IsZero reports whether the effect does nothing.
func (e Effect) IsZero() bool { return e.Kind == EffectNone }

// String describes the effect for logs and inspection output.
func (e Effect) String() string {
	switch e.Kind {
	case EffectNone:
		return "none"
	case EffectAppend:
		return fmt.Sprintf("append(%q)", e.Item.Value)
	case EffectCustom:
		return fmt.Sprintf("custom(%s)", e.Name)
	default:
		return string(e.Kind)
	}
}

func (e Effect) validate() error {
	switch e.Kind {
	case EffectNone, EffectAppend:
		return nil
	case EffectCustom:
		if e.Func == nil {
			return fmt.Errorf("%w: custom effect %q has no implementation", ErrUnknownEffect, e.Name)
		}
		return nil
	default:
		return fmt.Errorf("%w: kind %q", ErrUnknownEffect, e.Kind)
	}
}

// Step is one immutable stop on a timeline.
type Step struct {
	Index  int
	Label  string
	Effect Effect
}

func (s Step) clone() Step {
	s.Effect.Item = s.Effect.Item.Clone()
	return s
}
