package dither

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// DitherType selects the noise added before rounding. The numeric values
// match the oversampling kernel's dither property (0..3).
type DitherType int

const (
	// DitherNone applies no dither (plain rounding).
	DitherNone DitherType = iota
	// DitherRectangular adds uniform noise on (-0.5, 0.5) quantization steps.
	DitherRectangular
	// DitherTriangular adds the sum of two uniform draws, a triangular PDF on (-1, 1).
	DitherTriangular
	// DitherHighPass adds the difference of the current and previous
	// uniform draw, pushing the dither noise towards Nyquist.
	DitherHighPass

	ditherTypeCount // sentinel for validation
)

var ditherTypeNames = [ditherTypeCount]string{
	"None", "Rectangular", "Triangular", "HighPass",
}

// String returns the name of the dither type.
func (dt DitherType) String() string {
	if dt >= 0 && dt < ditherTypeCount {
		return ditherTypeNames[dt]
	}
	return fmt.Sprintf("DitherType(%d)", dt)
}

// Valid reports whether dt is a known dither type.
func (dt DitherType) Valid() bool {
	return dt >= 0 && dt < ditherTypeCount
}

// ParseDitherType accepts the long names returned by String as well as
// the short forms "none", "rect", "tri" and "hp".
func ParseDitherType(s string) (DitherType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off", "":
		return DitherNone, nil
	case "rect", "rectangular":
		return DitherRectangular, nil
	case "tri", "triangular":
		return DitherTriangular, nil
	case "hp", "highpass":
		return DitherHighPass, nil
	default:
		return DitherNone, fmt.Errorf("dither: unknown dither type %q", s)
	}
}

// Generator draws dither noise for a number of channels. The high-pass
// variant keeps its previous draw per channel.
type Generator struct {
	typ  DitherType
	rng  *rand.Rand
	prev []float64
}

// NewGenerator returns a generator for channels channels. A nil rng is
// replaced by a randomly seeded PCG source.
func NewGenerator(typ DitherType, channels int, rng *rand.Rand) (*Generator, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("dither: invalid dither type: %d", typ)
	}
	if channels < 0 {
		return nil, fmt.Errorf("dither: channel count must be >= 0: %d", channels)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Generator{
		typ:  typ,
		rng:  rng,
		prev: make([]float64, channels),
	}, nil
}

// Type returns the configured dither type.
func (g *Generator) Type() DitherType { return g.typ }

// SetType switches the noise distribution. High-pass history is cleared.
func (g *Generator) SetType(typ DitherType) error {
	if !typ.Valid() {
		return fmt.Errorf("dither: invalid dither type: %d", typ)
	}
	if typ != g.typ {
		g.typ = typ
		g.Reset()
	}
	return nil
}

// Channels returns the number of channels with generator state.
func (g *Generator) Channels() int { return len(g.prev) }

// Resize adapts the per-channel state to channels. State is reset when
// the count changes.
func (g *Generator) Resize(channels int) {
	if channels == len(g.prev) {
		return
	}
	if cap(g.prev) >= channels {
		g.prev = g.prev[:channels]
	} else {
		g.prev = make([]float64, channels)
	}
	g.Reset()
}

// Grow adds cleared state for channels beyond the current count and
// leaves existing channels untouched. It never shrinks.
func (g *Generator) Grow(channels int) {
	if channels > len(g.prev) {
		g.prev = append(g.prev, make([]float64, channels-len(g.prev))...)
	}
}

// Reset clears the per-channel history.
func (g *Generator) Reset() {
	clear(g.prev)
}

// Next returns one dither sample for channel ch, in quantization steps.
func (g *Generator) Next(ch int) float64 {
	switch g.typ {
	case DitherRectangular:
		return g.rng.Float64() - 0.5
	case DitherTriangular:
		return g.rng.Float64() - 0.5 + g.rng.Float64() - 0.5
	case DitherHighPass:
		cur := g.rng.Float64() - 0.5
		d := cur - g.prev[ch]
		g.prev[ch] = cur
		return d
	default:
		return 0
	}
}
