//nolint:funcorder
package oversample

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-fxlab/dsp/dither"
	archregistry "github.com/cwbudde/algo-fxlab/dsp/oversample/internal/arch/registry"
)

const (
	defaultQ = 0.25
	defaultL = 1

	// MaxFactor bounds the oversampling factor.
	MaxFactor = 64
)

// Errors returned by the kernel.
var (
	ErrInvalidFactor  = errors.New("oversample: invalid oversampling factor")
	ErrInvalidChannel = errors.New("oversample: invalid channel")
	ErrBlockLength    = errors.New("oversample: block length exceeds work buffer")
)

// Option configures a [Kernel].
type Option func(*Kernel) error

// WithRNG sets a deterministic random number generator for the dither.
func WithRNG(rng *rand.Rand) Option {
	return func(k *Kernel) error {
		k.rng = rng
		return nil
	}
}

// Kernel quantizes blocks at an oversampled rate.
type Kernel struct {
	l int
	q float64

	rng    *rand.Rand
	gen    *dither.Generator
	shaper *dither.FIRShaper
	ops    archregistry.Ops

	prev    []float64 // previous input per channel
	work    []float64
	ready   int       // samples handed out by the last Workbuffer call
	scratch []float64 // len(work) * l oversampled samples
}

// New creates a kernel with q = 0.25, L = 1, no dither and no noise shaping.
func New(opts ...Option) (*Kernel, error) {
	k := &Kernel{
		l: defaultL,
		q: defaultQ,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(k); err != nil {
			return nil, err
		}
	}

	var err error
	k.gen, err = dither.NewGenerator(dither.DitherNone, 0, k.rng)
	if err != nil {
		return nil, err
	}

	k.shaper, err = dither.NewFIRShaper(0, 0)
	if err != nil {
		return nil, err
	}

	k.ops = selectBackend().Ops
	k.shaper.SetDot(k.ops.Dot)

	return k, nil
}

// Q returns the quantization step.
func (k *Kernel) Q() float64 { return k.q }

// SetQ sets the quantization step.
func (k *Kernel) SetQ(q float64) error {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return fmt.Errorf("oversample: quantization step must be > 0 and finite: %f", q)
	}
	k.q = q
	return nil
}

// SetWordLength sets the step for a word length of bits.
func (k *Kernel) SetWordLength(bits int) error {
	if bits <= 0 {
		return fmt.Errorf("%w: %d", dither.ErrInvalidWordLength, bits)
	}
	return k.SetQ(dither.Step(bits))
}

// Dither returns the dither type.
func (k *Kernel) Dither() dither.DitherType { return k.gen.Type() }

// SetDither selects the dither type (0 none, 1 rect, 2 tri, 3 high-pass).
func (k *Kernel) SetDither(t dither.DitherType) error {
	return k.gen.SetType(t)
}

// NsN returns the noise-shaping filter order (0 when off).
func (k *Kernel) NsN() int { return k.shaper.Order() }

// SetNsN selects the noise-shaping filter order. Shaping history is reset
// on change.
func (k *Kernel) SetNsN(order int) error {
	return k.shaper.SetOrder(order)
}

// L returns the oversampling factor.
func (k *Kernel) L() int { return k.l }

// SetL sets the oversampling factor and resizes the oversampled buffer.
func (k *Kernel) SetL(l int) error {
	if l < 1 || l > MaxFactor {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidFactor, l, MaxFactor)
	}
	if l == k.l {
		return nil
	}
	k.l = l
	k.scratch = make([]float64, len(k.work)*l)
	return nil
}

// Channels returns the channel count the state is laid out for.
func (k *Kernel) Channels() int { return len(k.prev) }

// Resize lays out per-channel state for channels. All state is reset when
// the count changes.
func (k *Kernel) Resize(channels int) {
	if channels == len(k.prev) {
		return
	}
	k.prev = make([]float64, channels)
	k.gen.Resize(channels)
	k.shaper.Resize(channels)
}

// grow adds cleared state up to channels without touching the channels
// already running.
func (k *Kernel) grow(channels int) {
	k.prev = append(k.prev, make([]float64, channels-len(k.prev))...)
	k.gen.Grow(channels)
	k.shaper.Grow(channels)
}

// Reset clears interpolation, dither and noise-shaping state.
func (k *Kernel) Reset() {
	clear(k.prev)
	k.gen.Reset()
	k.shaper.Reset()
}

// Workbuffer returns a view of n samples that the caller fills with input
// before ProcessBlock and reads the output from afterwards.
func (k *Kernel) Workbuffer(n int) []float64 {
	if len(k.work) < n {
		k.work = make([]float64, n)
	}
	if len(k.scratch) < len(k.work)*k.l {
		k.scratch = make([]float64, len(k.work)*k.l)
	}
	k.ready = n
	return k.work[:n]
}

// ProcessBlock processes the first n samples of the work buffer as
// channel ch. A channel beyond the current layout is added with cleared
// state; the other channels carry on. n must not exceed the length last
// requested from [Kernel.Workbuffer].
func (k *Kernel) ProcessBlock(ch, n int) error {
	if ch < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}
	if n < 0 || n > k.ready {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrBlockLength, n, k.ready)
	}
	if ch >= len(k.prev) {
		k.grow(ch + 1)
	}

	l := k.l
	up := k.scratch[:n*l]
	k.upsample(ch, k.work[:n], up)
	k.quantize(ch, up)
	k.decimate(up, k.work[:n])
	return nil
}

// upsample expands src by k.l with linear interpolation from the previous
// input. The last sub-sample of each group equals the input, so L = 1 is
// the identity.
func (k *Kernel) upsample(ch int, src, dst []float64) {
	l := k.l
	inv := 1 / float64(l)
	prev := k.prev[ch]
	for j, x := range src {
		d := (x - prev) * inv
		base := j * l
		for i := range l - 1 {
			dst[base+i] = prev + d*float64(i+1)
		}
		dst[base+l-1] = x
		prev = x
	}
	k.prev[ch] = prev
}

func (k *Kernel) quantize(ch int, buf []float64) {
	q := k.q
	for i, x := range buf {
		shaped := k.shaper.Shape(ch, x)
		out := q * math.Floor(shaped/q+k.gen.Next(ch)+0.5)
		k.shaper.Record(ch, out-shaped)
		buf[i] = out
	}
}

func (k *Kernel) decimate(src, dst []float64) {
	l := k.l
	if l == 1 {
		copy(dst, src)
		return
	}
	inv := 1 / float64(l)
	for j := range dst {
		dst[j] = k.ops.Sum(src[j*l:(j+1)*l]) * inv
	}
}
