package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventLoad       EventType = "load"
	EventCacheHit   EventType = "cache_hit"
	EventLoadError  EventType = "load_error"
	EventValidation EventType = "validation"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// LoadEvent describes a fixture lookup in the data manager.
type LoadEvent struct {
	EventBase
	Path     string        `json:"path"`
	Format   Format        `json:"format"`
	Forced   bool          `json:"forced,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// ValidationEvent describes one validation pass against a named schema.
type ValidationEvent struct {
	EventBase
	Schema   string `json:"schema"`
	Valid    bool   `json:"valid"`
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
}

// Hooks defines callbacks for engine observability.
// Nil callbacks are skipped.
type Hooks struct {
	OnLoad      func(context.Context, *LoadEvent)
	OnCacheHit  func(context.Context, *LoadEvent)
	OnLoadError func(context.Context, *LoadEvent)
	OnValidate  func(*ValidationEvent)
}

// Merge returns hooks that invoke h first and then other.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnLoad:      chainLoad(h.OnLoad, other.OnLoad),
		OnCacheHit:  chainLoad(h.OnCacheHit, other.OnCacheHit),
		OnLoadError: chainLoad(h.OnLoadError, other.OnLoadError),
		OnValidate:  chainValidate(h.OnValidate, other.OnValidate),
	}
}

func chainLoad(a, b func(context.Context, *LoadEvent)) func(context.Context, *LoadEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *LoadEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainValidate(a, b func(*ValidationEvent)) func(*ValidationEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e *ValidationEvent) {
		a(e)
		b(e)
	}
}
