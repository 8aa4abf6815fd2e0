package domain

// ReplyKind tells the gateway why a reply was produced.
type ReplyKind string

const (
	// ReplyMenu carries a submenu title and its keyboard.
	ReplyMenu ReplyKind = "menu"
	// ReplyText carries the body of a text leaf.
	ReplyText ReplyKind = "text"
	// ReplyNotice is a session lifecycle message (start/finish).
	ReplyNotice ReplyKind = "notice"
)

// ParseMode is a formatting hint for the gateway.
type ParseMode string

const (
	ParsePlain    ParseMode = ""
	ParseHTML     ParseMode = "HTML"
	ParseMarkdown ParseMode = "Markdown"
)

// KeyboardStyle selects how buttons are presented by the gateway.
type KeyboardStyle string

const (
	// StyleReply buttons replace the user's keyboard and send their text back.
	StyleReply KeyboardStyle = "reply"
	// StyleInline buttons are attached to the message and send callback data back.
	StyleInline KeyboardStyle = "inline"
)

// Button is a single selectable entry.
type Button struct {
	Text string `json:"text"`
	// Data is the callback payload of inline buttons; empty for reply buttons.
	Data string `json:"data,omitempty"`
}

// Keyboard is a grid of buttons.
type Keyboard struct {
	Style KeyboardStyle `json:"style"`
	Rows  [][]Button    `json:"rows"`
}

// Labels flattens the keyboard into its button texts, row by row.
func (k *Keyboard) Labels() []string {
	if k == nil {
		return nil
	}
	var out []string
	for _, row := range k.Rows {
		for _, b := range row {
			out = append(out, b.Text)
		}
	}
	return out
}

// Reply is the content the engine asks the gateway to render for a session.
type Reply struct {
	Kind      ReplyKind `json:"kind"`
	Text      string    `json:"text"`
	ParseMode ParseMode `json:"parse_mode,omitempty"`
	Keyboard  *Keyboard `json:"keyboard,omitempty"`
	// RemoveKeyboard asks the gateway to drop a previously shown reply keyboard.
	RemoveKeyboard bool `json:"remove_keyboard,omitempty"`
}
