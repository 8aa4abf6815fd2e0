package domain

import "context"

// Event is what an action leaf receives when it is selected.
type Event struct {
	SessionID string
	Label     string
	// Address of the selected action leaf.
	Address Address
}

// ActionFunc is an application supplied handler bound to an action leaf.
// The engine never inspects it; it is invoked at most once per transition.
type ActionFunc func(ctx context.Context, ev Event) error
