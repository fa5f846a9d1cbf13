//nolint:funcorder
package signal

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-fxlab/dsp/param"
)

// ParamFadePeriod is the fade-and-hold period parameter, in seconds.
const ParamFadePeriod = "fadePeriod"

// FadeHoldDescriptors lists the automatable parameters of [FadeHold].
func FadeHoldDescriptors() []param.Descriptor {
	return []param.Descriptor{
		{Name: ParamFadePeriod, Default: 0, Min: 0, Max: 60},
	}
}

// Option configures a noise source.
type Option func(*noiseConfig)

type noiseConfig struct {
	rng *rand.Rand
}

// WithRNG sets the random source, making the output reproducible.
func WithRNG(rng *rand.Rand) Option {
	return func(c *noiseConfig) {
		if rng != nil {
			c.rng = rng
		}
	}
}

func applyNoiseOptions(opts []Option) noiseConfig {
	var c noiseConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return c
}

func bipolar(rng *rand.Rand) float64 {
	return 2*rng.Float64() - 1
}

// White writes independent uniform noise in [-1, 1) to every channel.
type White struct {
	rng *rand.Rand
}

// NewWhite creates a white noise source.
func NewWhite(opts ...Option) *White {
	c := applyNoiseOptions(opts)
	return &White{rng: c.rng}
}

// Process fills every channel of out.
func (w *White) Process(out [][]float64) {
	for _, dst := range out {
		for i := range dst {
			dst[i] = bipolar(w.rng)
		}
	}
}

// FadeHold is smoothed random noise: each channel holds a random target
// and crossfades linearly from the previous target to it over one fade
// period, then draws a new target. The first period fades from 0 to 0.
//
// All channels share the fade position, so their segment boundaries line
// up while the values stay independent.
type FadeHold struct {
	sampleRate float64
	rng        *rand.Rand
	from, to   []float64
	frame      []float64 // one output frame, reused by Process
	idx        int
}

// NewFadeHold creates a fade-and-hold source with the given channel count.
func NewFadeHold(sampleRate float64, channels int, opts ...Option) (*FadeHold, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("signal: fade-hold sample rate must be > 0: %f", sampleRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("signal: fade-hold channels must be > 0: %d", channels)
	}
	c := applyNoiseOptions(opts)
	return &FadeHold{
		sampleRate: sampleRate,
		rng:        c.rng,
		from:       make([]float64, channels),
		to:         make([]float64, channels),
		frame:      make([]float64, channels),
	}, nil
}

// Channels returns the number of independent outputs.
func (f *FadeHold) Channels() int { return len(f.from) }

// Resize changes the channel count. New channels start at 0.
func (f *FadeHold) Resize(channels int) {
	if channels == len(f.from) || channels <= 0 {
		return
	}
	f.from = resizeZero(f.from, channels)
	f.to = resizeZero(f.to, channels)
	f.frame = resizeZero(f.frame, channels)
}

func resizeZero(s []float64, n int) []float64 {
	if n <= cap(s) {
		old := len(s)
		s = s[:n]
		for i := old; i < n; i++ {
			s[i] = 0
		}
		return s
	}
	out := make([]float64, n)
	copy(out, s)
	return out
}

// maxFadePeriod bounds the period so an infinite fade time still holds.
const maxFadePeriod = 1 << 30

// Period converts a fade period in seconds to samples: round(fp·fs),
// never below 1.
func (f *FadeHold) Period(fadePeriod float64) int {
	n := math.Round(fadePeriod * f.sampleRate)
	switch {
	case !(n >= 1):
		return 1
	case n > maxFadePeriod:
		return maxFadePeriod
	}
	return int(n)
}

// Next writes one frame into frame, which must hold Channels values.
func (f *FadeHold) Next(fadePeriod float64, frame []float64) {
	period := f.Period(fadePeriod)
	wt := float64(f.idx) / float64(period)
	for ch := range f.from {
		frame[ch] = (1-wt)*f.from[ch] + wt*f.to[ch]
	}
	f.idx++
	if f.idx >= period {
		for ch := range f.from {
			f.from[ch] = f.to[ch]
			f.to[ch] = bipolar(f.rng)
		}
		f.idx = 0
	}
}

// Process renders a block, resizing to len(out) channels first.
// fadePeriod may vary per sample.
func (f *FadeHold) Process(out [][]float64, fadePeriod param.Values) {
	if len(out) == 0 {
		return
	}
	f.Resize(len(out))
	buf := f.frame
	for i := range out[0] {
		f.Next(fadePeriod.At(i), buf)
		for ch, v := range buf {
			out[ch][i] = v
		}
	}
}

// Reset clears all targets and restarts the fade.
func (f *FadeHold) Reset() {
	for ch := range f.from {
		f.from[ch] = 0
		f.to[ch] = 0
	}
	f.idx = 0
}
