package dsl

import (
	"errors"
	"testing"
	"time"

	"github.com/aretw0/walkthrough/pkg/demo"
	"github.com/aretw0/walkthrough/pkg/domain"
)

func TestBuilder_SimpleModule(t *testing.T) {
	m, err := New("polling").
		Title("Short polling").
		Interval(time.Second).
		Cooldown(2*time.Second).
		Palette("none", "client", "server", "both").
		Seed("Welcome").
		Step("Client asks").Highlight("client").
		Step("Server answers").Highlight("server").Append("X").
		Step("Client shows").Highlight("both").
		Step("Done").
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if m.ID != "polling" || m.Title != "Short polling" {
		t.Errorf("unexpected identity %q/%q", m.ID, m.Title)
	}
	if m.Timeline.Len() != 4 {
		t.Fatalf("Expected 4 steps, got %d", m.Timeline.Len())
	}
	if m.Interval != time.Second || m.Cooldown != 2*time.Second {
		t.Errorf("unexpected timing %s/%s", m.Interval, m.Cooldown)
	}
	if got := m.Highlights.Tag(1); got != "server" {
		t.Errorf("Expected step 1 highlight 'server', got '%s'", got)
	}
	if got := m.Highlights.Tag(3); got != "none" {
		t.Errorf("Expected untagged step to use idle 'none', got '%s'", got)
	}
	s1, _ := m.Timeline.Step(1)
	if s1.Effect.String() != `append("X")` {
		t.Errorf("Expected append effect, got %s", s1.Effect)
	}
	if len(m.InitialItems) != 1 || m.InitialItems[0].Value != "Welcome" {
		t.Errorf("unexpected seed %v", m.InitialItems)
	}
}

func TestBuilder_RegisteredEffect(t *testing.T) {
	m, err := New("ws").
		Interval(time.Second).
		Step("push").Effect("append_message", map[string]any{"from": "server", "text": "hi"}).
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	s0, _ := m.Timeline.Step(0)
	store := demo.NewStore(nil)
	if err := s0.Effect.Func(domain.EffectContext{Module: m.ID, Step: s0, Data: store}); err != nil {
		t.Fatalf("effect failed: %v", err)
	}
	if got := store.Snapshot()[0].Value; got != "server: hi" {
		t.Errorf("Expected 'server: hi', got %q", got)
	}
}

func TestBuilder_Errors(t *testing.T) {
	_, err := New("x").Interval(time.Second).Build()
	if !errors.Is(err, domain.ErrEmptyTimeline) {
		t.Errorf("Expected ErrEmptyTimeline, got %v", err)
	}

	_, err = New("x").Step("a").Build()
	if !errors.Is(err, domain.ErrInvalidInterval) {
		t.Errorf("Expected ErrInvalidInterval, got %v", err)
	}

	_, err = New("x").Interval(time.Second).Step("a").Highlight("purple").Build()
	if !errors.Is(err, domain.ErrUnknownHighlight) {
		t.Errorf("Expected ErrUnknownHighlight, got %v", err)
	}

	_, err = New("x").Interval(time.Second).Step("a").Effect("missing", nil).Build()
	if !errors.Is(err, domain.ErrUnknownEffect) {
		t.Errorf("Expected ErrUnknownEffect, got %v", err)
	}
}
