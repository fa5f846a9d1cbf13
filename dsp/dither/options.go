package dither

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

const (
	defaultWordLength = 16
	defaultDitherType = DitherNone
	defaultOrder      = 0
	defaultChannels   = 1
)

// ErrInvalidWordLength reports a word length that yields no valid
// quantization step.
var ErrInvalidWordLength = errors.New("dither: word length must be > 0")

type config struct {
	wordLength int
	ditherType DitherType
	order      int
	channels   int
	rng        *rand.Rand
}

func defaultConfig() config {
	return config{
		wordLength: defaultWordLength,
		ditherType: defaultDitherType,
		order:      defaultOrder,
		channels:   defaultChannels,
	}
}

// Option configures a [Quantizer].
type Option func(*config) error

// WithWordLength sets the target word length in bits (default 16). Any
// positive value is accepted; the step is 2^(1-w).
func WithWordLength(bits int) Option {
	return func(cfg *config) error {
		if bits <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidWordLength, bits)
		}

		cfg.wordLength = bits

		return nil
	}
}

// WithDitherType sets the dither noise (default [DitherNone]).
func WithDitherType(dt DitherType) Option {
	return func(cfg *config) error {
		if !dt.Valid() {
			return fmt.Errorf("dither: invalid dither type: %d", dt)
		}

		cfg.ditherType = dt

		return nil
	}
}

// WithShapingOrder sets the noise-shaping filter order (default 0, off).
func WithShapingOrder(order int) Option {
	return func(cfg *config) error {
		if _, err := ShapingCoefficients(order); err != nil {
			return err
		}

		cfg.order = order

		return nil
	}
}

// WithChannels sets the initial channel count (default 1). The count
// follows the processed buffers afterwards.
func WithChannels(channels int) Option {
	return func(cfg *config) error {
		if channels <= 0 {
			return fmt.Errorf("dither: channel count must be > 0: %d", channels)
		}

		cfg.channels = channels

		return nil
	}
}

// WithRNG sets a deterministic random number generator for reproducible output.
func WithRNG(rng *rand.Rand) Option {
	return func(cfg *config) error {
		cfg.rng = rng
		return nil
	}
}
