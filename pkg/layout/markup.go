package layout

import "github.com/anaradzetski/keyboard/pkg/domain"

// Markup turns label rows into a keyboard of the requested style.
// Inline buttons carry dataPrefix+label as callback data; reply buttons carry none.
func Markup(rows [][]string, style domain.KeyboardStyle, dataPrefix string) *domain.Keyboard {
	if style == "" {
		style = domain.StyleReply
	}
	kb := &domain.Keyboard{
		Style: style,
		Rows:  make([][]domain.Button, len(rows)),
	}
	for i, row := range rows {
		buttons := make([]domain.Button, len(row))
		for j, label := range row {
			buttons[j] = domain.Button{Text: label}
			if style == domain.StyleInline {
				buttons[j].Data = dataPrefix + label
			}
		}
		kb.Rows[i] = buttons
	}
	return kb
}
