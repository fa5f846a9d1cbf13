//nolint:funcorder
package dither

import (
	"fmt"
	"math"
)

// Step returns the quantization step 2^(1-w) for a word length of w bits
// over the [-1, 1) range.
func Step(wordLength int) float64 {
	return math.Exp2(float64(1 - wordLength))
}

// Quantize rounds x to the nearest multiple of step. Halves round up.
func Quantize(x, step float64) float64 {
	return step * math.Floor(x/step+0.5)
}

// Quantizer reduces the word length of multi-channel audio with optional
// dither and error-feedback noise shaping.
type Quantizer struct {
	wordLength int
	step       float64
	gen        *Generator
	shaper     *FIRShaper
}

// NewQuantizer creates a new Quantizer. The default configuration is:
// 16 bit, no dither, no noise shaping, one channel.
func NewQuantizer(opts ...Option) (*Quantizer, error) {
	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	gen, err := NewGenerator(cfg.ditherType, cfg.channels, cfg.rng)
	if err != nil {
		return nil, err
	}

	shaper, err := NewFIRShaper(cfg.order, cfg.channels)
	if err != nil {
		return nil, err
	}

	return &Quantizer{
		wordLength: cfg.wordLength,
		step:       Step(cfg.wordLength),
		gen:        gen,
		shaper:     shaper,
	}, nil
}

// ProcessSample quantizes one sample of channel ch.
func (q *Quantizer) ProcessSample(ch int, input float64) float64 {
	// 1. Subtract the filtered error history.
	shaped := q.shaper.Shape(ch, input)

	// 2. Add dither (in steps) and round.
	out := q.step * math.Floor(shaped/q.step+q.gen.Next(ch)+0.5)

	// 3. Record the error for the next sample.
	q.shaper.Record(ch, out-shaped)

	return out
}

// ProcessBlock quantizes every channel of in into out. The channel count
// of in determines the state layout; a change resets all history.
func (q *Quantizer) ProcessBlock(in, out [][]float64) {
	q.Resize(len(in))

	for ch := range in {
		src, dst := in[ch], out[ch]
		for i, x := range src {
			dst[i] = q.ProcessSample(ch, x)
		}
	}
}

// ProcessInPlace quantizes a single-channel buffer in place using channel 0.
func (q *Quantizer) ProcessInPlace(buf []float64) {
	if q.Channels() == 0 {
		q.Resize(1)
	}
	for i, x := range buf {
		buf[i] = q.ProcessSample(0, x)
	}
}

// Resize sets the channel count, resetting dither and shaping state when
// it changes.
func (q *Quantizer) Resize(channels int) {
	q.gen.Resize(channels)
	q.shaper.Resize(channels)
}

// Reset clears dither and noise-shaping history.
func (q *Quantizer) Reset() {
	q.gen.Reset()
	q.shaper.Reset()
}

// Getters.

// WordLength returns the target word length in bits.
func (q *Quantizer) WordLength() int { return q.wordLength }

// Step returns the quantization step.
func (q *Quantizer) Step() float64 { return q.step }

// DitherType returns the current dither type.
func (q *Quantizer) DitherType() DitherType { return q.gen.Type() }

// ShapingOrder returns the noise-shaping filter order (0 when off).
func (q *Quantizer) ShapingOrder() int { return q.shaper.Order() }

// Channels returns the channel count the state is laid out for.
func (q *Quantizer) Channels() int { return q.shaper.Channels() }

// Setters.

// SetWordLength changes the target word length.
func (q *Quantizer) SetWordLength(bits int) error {
	if bits <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWordLength, bits)
	}

	q.wordLength = bits
	q.step = Step(bits)

	return nil
}

// SetDitherType changes the dither noise.
func (q *Quantizer) SetDitherType(dt DitherType) error {
	return q.gen.SetType(dt)
}

// SetShapingOrder changes the noise-shaping filter. History is reset when
// the order changes.
func (q *Quantizer) SetShapingOrder(order int) error {
	return q.shaper.SetOrder(order)
}

// ShapingEnabled reports whether the error feedback is applied.
func (q *Quantizer) ShapingEnabled() bool { return q.shaper.Enabled() }

// SetShapingEnabled switches the error feedback without touching the
// filter. The error history keeps updating while it is off.
func (q *Quantizer) SetShapingEnabled(on bool) {
	q.shaper.SetEnabled(on)
}

// SetDot replaces the dot product used by the noise shaper.
func (q *Quantizer) SetDot(fn DotFunc) {
	q.shaper.SetDot(fn)
}
