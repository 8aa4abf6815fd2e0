/*
Package menu provides the nested configuration a keyboard engine is compiled from.

Go maps have no order, so each level is an ordered list of entries. A fluent
builder keeps declarations readable:

	cfg := menu.New().
		Sub("cat is somewhere here", menu.New().
			Text("deeper...", "<b>Oops, not here</b>")).
		Sub("or here...", menu.New().
			Sub("deeper...", menu.New().
				Action("cat!", sendCat)))

The builder performs no validation; keyboard.New compiles the configuration and
reports every problem as a *domain.CompileError.
*/
package menu
