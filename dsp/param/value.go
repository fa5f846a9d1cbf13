package param

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the dynamic type held by a [Value].
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBool
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a discrete property value.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
	Bool bool
}

// Number returns a numeric value.
func Number(v float64) Value { return Value{Kind: KindNumber, Num: v} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Parse interprets text the way a property written on a command line or
// in a preset would be: "true"/"false" become booleans, anything that
// parses as a float becomes a number, the rest stays a string.
func Parse(text string) Value {
	s := strings.TrimSpace(text)
	switch strings.ToLower(s) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(f)
	}

	return String(s)
}

// AsFloat converts v to a number. Booleans map to 0/1.
func (v Value) AsFloat() (float64, error) {
	switch v.Kind {
	case KindNumber:
		return v.Num, nil
	case KindBool:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, fmt.Errorf("param: %q is not a number: %w", v.Str, ErrType)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("param: unsupported kind %v: %w", v.Kind, ErrType)
	}
}

// AsBool converts v to a boolean. Numbers are true when non-zero.
func (v Value) AsBool() (bool, error) {
	switch v.Kind {
	case KindBool:
		return v.Bool, nil
	case KindNumber:
		return v.Num != 0, nil
	case KindString:
		b, err := strconv.ParseBool(strings.TrimSpace(v.Str))
		if err != nil {
			return false, fmt.Errorf("param: %q is not a boolean: %w", v.Str, ErrType)
		}
		return b, nil
	default:
		return false, fmt.Errorf("param: unsupported kind %v: %w", v.Kind, ErrType)
	}
}

// AsString returns the textual form of v.
func (v Value) AsString() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	}
}
