package domain

// TransitionKind is the event that produced a transition.
type TransitionKind string

const (
	TransitionStart  TransitionKind = "start"
	TransitionSelect TransitionKind = "select"
	TransitionBack   TransitionKind = "back"
	TransitionEnd    TransitionKind = "end"
)

// Transition is the committed outcome of one navigation event.
type Transition struct {
	SessionID string
	Kind      TransitionKind
	From      Address
	To        Address
	// Node is the node whose payload was invoked (the parent submenu for back).
	Node *Node
}

// Moved reports whether the session position changed.
func (t *Transition) Moved() bool {
	return !t.From.Equal(t.To)
}
