package ports

import "context"

// SessionStore holds the one mutable datum of a session: the serialized address of
// the submenu it currently occupies.
type SessionStore interface {
	// Start creates the session positioned at root, overwriting any previous state.
	// It reports whether a live session was replaced.
	Start(ctx context.Context, sessionID, root string) (bool, error)

	// Get returns the current address key.
	// Returns domain.ErrNotStarted if the session does not exist.
	Get(ctx context.Context, sessionID string) (string, error)

	// Set moves an existing session.
	// Returns domain.ErrNotStarted if the session does not exist.
	Set(ctx context.Context, sessionID, address string) error

	// End removes the session and reports whether it existed.
	// Ending an unknown session is not an error.
	End(ctx context.Context, sessionID string) (bool, error)

	// List returns the ids of all live sessions.
	List(ctx context.Context) ([]string, error)
}
