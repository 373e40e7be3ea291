package domain

import (
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventGenerate      EventType = "generate"
	EventGenerateError EventType = "generate_error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// GenerateEvent describes one finished generation call.
type GenerateEvent struct {
	EventBase
	Symbol    Symbol        `json:"symbol"`
	// Defined is false when Symbol is not a compiled rule (a typo, or a rule
	// supplied only as a call-time override).
	Defined   bool          `json:"defined"`
	Overrides int           `json:"overrides,omitempty"`
	Length    int           `json:"length"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnGenerate func(*GenerateEvent)
	OnError    func(*GenerateEvent)
}

// Merge returns hooks that call h first, then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnGenerate: chain(h.OnGenerate, other.OnGenerate),
		OnError:    chain(h.OnError, other.OnError),
	}
}

func chain(a, b func(*GenerateEvent)) func(*GenerateEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e *GenerateEvent) {
		a(e)
		b(e)
	}
}
