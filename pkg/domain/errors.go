package domain

import (
	"errors"
	"fmt"
)

// Compile-time configuration errors. They are always wrapped in a *CompileError.
var (
	ErrDuplicateLabel   = errors.New("duplicate label")
	ErrInvalidShape     = errors.New("invalid shape")
	ErrDelimiterInLabel = errors.New("label contains the address delimiter")
	ErrUnsupportedValue = errors.New("unsupported configuration value")
	ErrEmptyLabel       = errors.New("empty label")
	ErrReservedLabel    = errors.New("label is reserved")
	ErrInvalidNamespace = errors.New("invalid namespace")
	ErrAddressCollision = errors.New("address collides with another node")
	ErrInvalidStyle     = errors.New("invalid keyboard style")
)

// Runtime routing errors. They are always wrapped in a *RouterError.
var (
	// ErrNotStarted is returned for events of a session that has no active state.
	ErrNotStarted = errors.New("session not started")
	// ErrUnknownSelection is returned when a label is not a child of the current node.
	ErrUnknownSelection = errors.New("unknown selection")
	// ErrAlreadyAtRoot is returned when back is pressed on the root menu.
	ErrAlreadyAtRoot = errors.New("already at root")
)

// ErrPayload marks a failure of the gateway or of an action handler after the
// transition was committed.
var ErrPayload = errors.New("payload failed")

// CompileError reports a malformed menu configuration.
type CompileError struct {
	Address Address // level at which the problem was found
	Label   string  // offending entry, if any
	Err     error
}

func (e *CompileError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("compile %s: %v", e.Address, e.Err)
	}
	return fmt.Sprintf("compile %s: entry %q: %v", e.Address, e.Label, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// RouterError reports a rejected navigation event. The session store is left
// exactly as it was before the event.
type RouterError struct {
	Kind      error // one of ErrNotStarted, ErrUnknownSelection, ErrAlreadyAtRoot
	SessionID string
	Address   Address // current address, nil when the session is not started
	Label     string
	// Suggestion is the closest valid child label for unknown selections.
	Suggestion string
}

func (e *RouterError) Error() string {
	msg := fmt.Sprintf("session %q: %v", e.SessionID, e.Kind)
	if e.Label != "" {
		msg += fmt.Sprintf(" %q", e.Label)
	}
	if e.Address != nil {
		msg += " at " + e.Address.String()
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

func (e *RouterError) Unwrap() error { return e.Kind }

// IsRouterError reports whether err is a per-event routing rejection.
func IsRouterError(err error) bool {
	var re *RouterError
	return errors.As(err, &re)
}
