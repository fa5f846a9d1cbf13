//nolint:funcorder
package dynamics

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-fxlab/dsp/core"
	"github.com/cwbudde/algo-fxlab/dsp/param"
)

const (
	// EnvelopeLength is the number of points in each envelope history.
	EnvelopeLength = 256

	defaultEnvelopeSubsampling = 2000

	powerAttack  = 0.01
	powerRelease = 0.005
	gainSmooth   = 0.01

	// SilenceDB is the gain applied below the noise threshold.
	SilenceDB = -1000.0
)

// Parameter names of the DRC kernel.
const (
	ParamLimiterThreshold = "limiterThreshold"
	ParamLimiterLevel     = "limiterLevel"
	ParamNoiseThreshold   = "noiseThreshold"
	ParamCompressionRatio = "compressionRatio"
)

// Descriptors lists the automatable parameters of [DRC].
func Descriptors() []param.Descriptor {
	return []param.Descriptor{
		{Name: ParamLimiterThreshold, Default: -10, Min: -90, Max: 0},
		{Name: ParamLimiterLevel, Default: -10, Min: -90, Max: 0},
		{Name: ParamNoiseThreshold, Default: -80, Min: -90, Max: 0},
		{Name: ParamCompressionRatio, Default: 2, Min: 0.01, Max: 1000},
	}
}

// Params holds one set of curve parameters, in dB except the ratio.
type Params struct {
	LimiterThreshold float64
	LimiterLevel     float64
	NoiseThreshold   float64
	CompressionRatio float64
}

// GainDB evaluates the static curve: the gain in dB applied to a signal
// at inLevel dB.
func GainDB(inLevel float64, p Params) float64 {
	switch {
	case inLevel > p.LimiterThreshold:
		return p.LimiterLevel - inLevel
	case inLevel > p.NoiseThreshold:
		return p.LimiterLevel - inLevel + (inLevel-p.LimiterThreshold)/p.CompressionRatio
	default:
		return SilenceDB
	}
}

// Envelope is one visualization update: the peak magnitude of the input
// and output over the last EnvelopeLength windows, oldest first.
type Envelope struct {
	Input  [EnvelopeLength]float32
	Output [EnvelopeLength]float32
}

// Option configures a [DRC].
type Option func(*DRC) error

// WithEnvelopeSubsampling sets the window length of one envelope point in
// samples (default 2000).
func WithEnvelopeSubsampling(n int) Option {
	return func(d *DRC) error {
		if n <= 0 {
			return fmt.Errorf("drc: envelope subsampling must be > 0: %d", n)
		}
		d.subsampling = n
		return nil
	}
}

// WithEnvelopeChannel delivers envelopes to ch. Sends never block: when
// ch is full the update is dropped and counted.
func WithEnvelopeChannel(ch chan<- Envelope) Option {
	return func(d *DRC) error {
		d.envCh = ch
		return nil
	}
}

// WithEnvelopeFunc delivers envelopes to fn, called on the audio
// goroutine. fn must not block.
func WithEnvelopeFunc(fn func(*Envelope)) Option {
	return func(d *DRC) error {
		d.envFn = fn
		return nil
	}
}

// DRC is the noise gate / compressor / limiter kernel.
type DRC struct {
	power float64
	gain  float64

	bypass      bool
	newYork     bool
	subsampling int

	count  int
	inMax  float64
	outMax float64
	env    Envelope

	envCh   chan<- Envelope
	envFn   func(*Envelope)
	dropped atomic.Uint64
}

// NewDRC creates a DRC with power and gain estimates at 1 (0 dB).
func NewDRC(opts ...Option) (*DRC, error) {
	d := &DRC{
		power:       1,
		gain:        1,
		subsampling: defaultEnvelopeSubsampling,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// SetBypass passes the input through unchanged. Envelope and gain
// tracking continue while bypassed.
func (d *DRC) SetBypass(b bool) { d.bypass = b }

// Bypass reports whether the kernel is bypassed.
func (d *DRC) Bypass() bool { return d.bypass }

// SetNewYorkStyle adds the dry input to the processed signal (parallel
// compression).
func (d *DRC) SetNewYorkStyle(b bool) { d.newYork = b }

// NewYorkStyle reports whether parallel compression is enabled.
func (d *DRC) NewYorkStyle() bool { return d.newYork }

// SetEnvelopeSubsampling changes the envelope window length.
func (d *DRC) SetEnvelopeSubsampling(n int) error {
	if n <= 0 {
		return fmt.Errorf("drc: envelope subsampling must be > 0: %d", n)
	}
	d.subsampling = n
	return nil
}

// EnvelopeSubsampling returns the envelope window length in samples.
func (d *DRC) EnvelopeSubsampling() int { return d.subsampling }

// Gain returns the current smoothed linear gain.
func (d *DRC) Gain() float64 { return d.gain }

// Power returns the current smoothed power estimate.
func (d *DRC) Power() float64 { return d.power }

// Dropped returns the number of envelope updates lost to a full channel.
// It is safe to call from any goroutine.
func (d *DRC) Dropped() uint64 { return d.dropped.Load() }

// Reset restores the initial power and gain and clears the envelopes.
func (d *DRC) Reset() {
	d.power = 1
	d.gain = 1
	d.count = 0
	d.inMax = 0
	d.outMax = 0
	d.env = Envelope{}
}

// Process runs one block. The power estimate is taken over the mean square
// of all channels and the same gain is applied to every channel.
func (d *DRC) Process(in, out [][]float64, limTh, limLvl, noiseTh, ratio param.Values) {
	if len(in) == 0 {
		return
	}
	invCh := 1 / float64(len(in))

	for i := range in[0] {
		var sq float64
		for ch := range in {
			x := in[ch][i]
			sq += x * x
			d.inMax = max(d.inMax, math.Abs(x))
		}
		sq *= invCh

		if sq > d.power {
			d.power = (1-powerAttack)*d.power + powerAttack*sq
		} else {
			d.power = (1-powerRelease)*d.power + powerRelease*sq
		}

		d.power = core.FlushDenormals(d.power)
		level := core.LinearPowerToDB(d.power)
		g := GainDB(level, Params{
			LimiterThreshold: limTh.At(i),
			LimiterLevel:     limLvl.At(i),
			NoiseThreshold:   noiseTh.At(i),
			CompressionRatio: ratio.At(i),
		})
		d.gain = (1-gainSmooth)*d.gain + gainSmooth*core.DBToLinear(g)

		for ch := range in {
			x := in[ch][i]
			y := x
			if !d.bypass {
				y = d.gain * x
				if d.newYork {
					y += x
				}
			}
			out[ch][i] = y
			d.outMax = max(d.outMax, math.Abs(y))
		}

		d.count++
		if d.count >= d.subsampling {
			d.pushEnvelope()
		}
	}
}

func (d *DRC) pushEnvelope() {
	d.count = 0

	copy(d.env.Input[:], d.env.Input[1:])
	d.env.Input[EnvelopeLength-1] = float32(d.inMax)
	copy(d.env.Output[:], d.env.Output[1:])
	d.env.Output[EnvelopeLength-1] = float32(d.outMax)
	d.inMax = 0
	d.outMax = 0

	if d.envFn != nil {
		d.envFn(&d.env)
	}
	if d.envCh != nil {
		select {
		case d.envCh <- d.env:
		default:
			d.dropped.Add(1)
		}
	}
}

// Envelope returns a copy of the current envelope histories.
func (d *DRC) Envelope() Envelope { return d.env }
