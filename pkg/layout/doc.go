/*
Package layout arranges button labels into rows.

A Shape is either a fixed row width or an explicit list of row lengths, optionally
closed by Remainder to absorb whatever labels are left:

	rows, err := layout.Layout(labels, layout.Rows(1, 2, layout.Remainder))

Markup converts rows into a domain.Keyboard for either reply or inline presentation.
*/
package layout
