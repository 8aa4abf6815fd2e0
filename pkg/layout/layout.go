package layout

import (
	"errors"
	"fmt"

	"github.com/anaradzetski/keyboard/pkg/domain"
)

// Remainder, as the final explicit row length, consumes every remaining label.
const Remainder = -1

// Shape describes how a sequence of labels is cut into rows.
// Exactly one of Width or Rows is meaningful; a zero Shape means "use the default".
type Shape struct {
	Width int
	Rows  []int
}

// Fixed returns a shape with rows of w labels; the final row may be shorter.
func Fixed(w int) Shape {
	return Shape{Width: w}
}

// Rows returns a shape with explicit row lengths. Remainder may close the list.
func Rows(lengths ...int) Shape {
	return Shape{Rows: lengths}
}

// IsZero reports whether no shape was declared.
func (s Shape) IsZero() bool {
	return s.Width == 0 && s.Rows == nil
}

func (s Shape) String() string {
	if s.Rows != nil {
		return fmt.Sprintf("rows%v", s.Rows)
	}
	return fmt.Sprintf("width(%d)", s.Width)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidShape, fmt.Sprintf(format, args...))
}

// Layout partitions labels into rows left-to-right, top-to-bottom.
func Layout(labels []string, shape Shape) ([][]string, error) {
	if shape.Rows != nil {
		return explicit(labels, shape.Rows)
	}
	return fixed(labels, shape.Width)
}

func fixed(labels []string, w int) ([][]string, error) {
	if w <= 0 {
		return nil, invalid("row width must be positive, got %d", w)
	}
	rows := make([][]string, 0, (len(labels)+w-1)/w)
	for start := 0; start < len(labels); start += w {
		end := min(start+w, len(labels))
		rows = append(rows, clone(labels[start:end]))
	}
	return rows, nil
}

func explicit(labels []string, lengths []int) ([][]string, error) {
	if len(lengths) == 0 {
		return nil, invalid("empty row list")
	}

	var rows [][]string
	cur := 0
	for i, n := range lengths {
		if n == Remainder {
			if i != len(lengths)-1 {
				return nil, invalid("remainder marker must be the last row (found at %d)", i)
			}
			if cur < len(labels) {
				rows = append(rows, clone(labels[cur:]))
			}
			return rows, nil
		}
		if n <= 0 {
			return nil, invalid("row %d length must be positive, got %d", i, n)
		}
		if cur+n > len(labels) {
			return nil, invalid("rows request more than %d labels", len(labels))
		}
		rows = append(rows, clone(labels[cur:cur+n]))
		cur += n
	}
	if cur != len(labels) {
		return nil, invalid("rows cover %d of %d labels", cur, len(labels))
	}
	return rows, nil
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// ParseShape converts a configuration value into a Shape. It accepts an int, a
// slice of ints, a slice of arbitrary numeric values (as decoded from YAML/JSON) or
// a Shape.
func ParseShape(v any) (Shape, error) {
	switch val := v.(type) {
	case Shape:
		return val, nil
	case int:
		return Fixed(val), nil
	case []int:
		return Rows(val...), nil
	case []any:
		lengths := make([]int, len(val))
		for i, item := range val {
			n, err := toInt(item)
			if err != nil {
				return Shape{}, invalid("row %d: %v", i, err)
			}
			lengths[i] = n
		}
		return Rows(lengths...), nil
	default:
		n, err := toInt(v)
		if err != nil {
			return Shape{}, invalid("%v", err)
		}
		return Fixed(n), nil
	}
}

var errNotInteger = errors.New("not an integer")

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		// Whole floats come from JSON decoding.
		if n == float64(int64(n)) {
			return int(n), nil
		}
	}
	return 0, fmt.Errorf("%w: %v (%T)", errNotInteger, v, v)
}
