package ports

import (
	"context"

	"github.com/anaradzetski/keyboard/pkg/domain"
)

// Gateway is the messaging transport a keyboard engine talks to.
// The engine never learns how replies reach the user.
type Gateway interface {
	Render(ctx context.Context, sessionID string, reply domain.Reply) error
}

// TypingNotifier is implemented by gateways that can show a "typing" indicator.
// The engine calls Typing before every text or menu reply.
type TypingNotifier interface {
	Typing(ctx context.Context, sessionID string) error
}

// GatewayFunc adapts a function to the Gateway interface.
type GatewayFunc func(ctx context.Context, sessionID string, reply domain.Reply) error

func (f GatewayFunc) Render(ctx context.Context, sessionID string, reply domain.Reply) error {
	return f(ctx, sessionID, reply)
}
