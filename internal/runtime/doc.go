// Package runtime implements the navigation state machine of a keyboard engine.
//
// States are addresses of submenus in a compiled domain.Tree. A Router applies
// start, select, back and end events to the positions kept by a session.Manager
// and renders the resulting replies through a ports.Gateway.
package runtime
