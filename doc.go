/*
Package keyboard is a hierarchical, stateful menu-navigation engine for chat
interfaces.

A nested menu configuration is compiled once into an immutable tree of addressed
nodes. Every session (a chat, a conversation) then occupies one submenu of that
tree; button presses move it down, the reserved back button moves it up, and text
or action leaves answer without moving it.

# Concept

The engine never talks to a chat platform itself. Replies (menus with their button
grid, texts, notices) go to a ports.Gateway supplied by the host, and the host feeds
button events back through OnEvent. Session positions live in a ports.SessionStore:
in memory by default, or Redis when several replicas serve the same users.

# Usage

	cfg := menu.New().
		Sub("cat is somewhere here", menu.New().
			Text("deeper...", "<b>Oops, not here</b>")).
		Sub("or here...", menu.New().
			Sub("deeper...", menu.New().
				Action("cat!", sendCat)))

	kb, err := keyboard.New(cfg,
		keyboard.WithName("Cats"),
		keyboard.WithGateway(gw),
	)
	if err != nil {
		log.Fatal(err) // *domain.CompileError
	}

	_, _ = kb.Start(ctx, chatID)           // "Starting..." + root menu
	_, err = kb.OnEvent(ctx, chatID, text) // selection or back
	if domain.IsRouterError(err) {
		// unknown button, not started, back at root: state is unchanged
	}
	_ = kb.End(ctx, chatID) // "Finishing Cats..."

Menus can also be loaded from YAML with pkg/adapters/file and served over HTTP or
MCP with the adapters under pkg/adapters.
*/
package keyboard
