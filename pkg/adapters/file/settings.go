package file

import (
	"fmt"

	"github.com/anaradzetski/keyboard"
	"github.com/anaradzetski/keyboard/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Settings are the engine options a menu file may carry.
type Settings struct {
	Name         string               `mapstructure:"name"`
	Namespace    string               `mapstructure:"namespace"`
	Delimiter    string               `mapstructure:"delimiter"`
	BackLabel    string               `mapstructure:"back_label"`
	DefaultWidth int                  `mapstructure:"default_width"`
	Style        domain.KeyboardStyle `mapstructure:"style"`
	ParseMode    domain.ParseMode     `mapstructure:"parse_mode"`
	// StartNotice is nil when the file does not mention it.
	StartNotice *string `mapstructure:"start_notice"`
}

// DefaultSettings mirror the engine defaults.
func DefaultSettings() Settings {
	return Settings{
		Name:         domain.DefaultName,
		Namespace:    domain.DefaultNamespace,
		Delimiter:    domain.DefaultDelimiter,
		BackLabel:    domain.DefaultBackLabel,
		DefaultWidth: domain.DefaultRowWidth,
		Style:        domain.StyleReply,
		ParseMode:    domain.ParseHTML,
	}
}

func decodeSettings(n *yaml.Node, s *Settings) error {
	var raw map[string]any
	if err := n.Decode(&raw); err != nil {
		return fmt.Errorf("%w: line %d: settings: %w", ErrInvalidDocument, n.Line, err)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           s,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("%w: line %d: settings: %w", ErrInvalidDocument, n.Line, err)
	}

	switch s.Style {
	case domain.StyleReply, domain.StyleInline:
	default:
		return fmt.Errorf("%w: line %d: unknown keyboard style %q", ErrInvalidDocument, n.Line, s.Style)
	}
	return nil
}

// Options translates the settings into engine options.
func (s Settings) Options() []keyboard.Option {
	opts := []keyboard.Option{
		keyboard.WithName(s.Name),
		keyboard.WithNamespace(s.Namespace),
		keyboard.WithDelimiter(s.Delimiter),
		keyboard.WithBackLabel(s.BackLabel),
		keyboard.WithDefaultWidth(s.DefaultWidth),
		keyboard.WithStyle(s.Style),
		keyboard.WithParseMode(s.ParseMode),
	}
	if s.StartNotice != nil {
		opts = append(opts, keyboard.WithStartNotice(*s.StartNotice))
	}
	return opts
}

// Engine compiles the document into a keyboard engine. extra options are
// applied after the file settings and win over them.
func (d *Document) Engine(extra ...keyboard.Option) (*keyboard.Engine, error) {
	return keyboard.New(d.Menu, append(d.Settings.Options(), extra...)...)
}
