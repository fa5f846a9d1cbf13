package biquad

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownType is returned for filter type names that have no design.
var ErrUnknownType = errors.New("biquad: unknown filter type")

// Type selects the coefficient formula set.
type Type int

const (
	Lowpass Type = iota
	Highpass
	LowShelf
	HighShelf
	Peak

	typeCount // sentinel for validation
)

var typeNames = [typeCount]string{
	"lowpass", "highpass", "lowshelving", "highshelving", "peak",
}

// String returns the canonical name of the type.
func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is a known filter type.
func (t Type) Valid() bool {
	return t >= 0 && t < typeCount
}

// Types returns all filter types in declaration order.
func Types() []Type {
	out := make([]Type, typeCount)
	for i := range out {
		out[i] = Type(i)
	}
	return out
}

// ParseType resolves a filter type name. Besides the canonical names it
// accepts "lowshelf", "highshelf" and "peaking".
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lowpass":
		return Lowpass, nil
	case "highpass":
		return Highpass, nil
	case "lowshelving", "lowshelf":
		return LowShelf, nil
	case "highshelving", "highshelf":
		return HighShelf, nil
	case "peak", "peaking":
		return Peak, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
}
