package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSessionStart EventType = "session_start"
	EventSessionEnd   EventType = "session_end"
	EventTransition   EventType = "transition"
	EventRouterError  EventType = "router_error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// SessionEvent represents a session being started or ended.
type SessionEvent struct {
	EventBase
	// Existed is true when Start replaced a live session or End removed one.
	Existed bool `json:"existed"`
}

// TransitionEvent represents a committed navigation step.
type TransitionEvent struct {
	EventBase
	Kind     TransitionKind `json:"kind"`
	From     string         `json:"from"`
	To       string         `json:"to"`
	NodeKind string         `json:"node_kind"`
	Duration time.Duration  `json:"duration"`
	// PayloadErr is set when the render or action failed after the commit.
	PayloadErr error `json:"-"`
}

// ErrorEvent represents a rejected navigation event.
type ErrorEvent struct {
	EventBase
	Kind  TransitionKind `json:"kind"`
	Label string         `json:"label,omitempty"`
	Err   error          `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnSessionStart func(context.Context, *SessionEvent)
	OnSessionEnd   func(context.Context, *SessionEvent)
	OnTransition   func(context.Context, *TransitionEvent)
	OnRouterError  func(context.Context, *ErrorEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnSessionStart: chain(h.OnSessionStart, other.OnSessionStart),
		OnSessionEnd:   chain(h.OnSessionEnd, other.OnSessionEnd),
		OnTransition:   chain(h.OnTransition, other.OnTransition),
		OnRouterError:  chain(h.OnRouterError, other.OnRouterError),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
