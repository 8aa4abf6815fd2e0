// Package sanitize cleans button events arriving from untrusted transports.
package sanitize

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxLabelSize bounds a single event; chat platforms cap buttons well below it.
const DefaultMaxLabelSize = 1024

var (
	ErrLabelTooLarge = errors.New("label exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("label contains invalid UTF-8 sequences")
)

// Label enforces a size limit, validates UTF-8 and strips control characters,
// including line breaks: a button label is always a single line.
// A non-positive limit selects DefaultMaxLabelSize.
func Label(input string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultMaxLabelSize
	}
	if len(input) > limit {
		// Rejected rather than truncated: a truncated label could address another button.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrLabelTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	if strings.IndexFunc(input, unicode.IsControl) < 0 {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}
