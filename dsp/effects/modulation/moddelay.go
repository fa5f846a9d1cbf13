//nolint:funcorder
package modulation

import (
	"fmt"
	"math"
	"math/rand/v2"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fxlab/dsp/core"
	"github.com/cwbudde/algo-fxlab/dsp/delay"
	"github.com/cwbudde/algo-fxlab/dsp/param"
	"github.com/cwbudde/algo-fxlab/dsp/signal"
)

// Parameter names of the modulated-delay kernel.
const (
	ParamDepth               = "depth"
	ParamModulationFrequency = "modulationFrequency"
)

const (
	tapCount   = 3
	tapSpacing = 0.008 // seconds between tap base delays

	defaultDepth     = 0.5
	defaultFrequency = 1.0
	maxFrequency     = 20.0

	// Mix gains follow their targets with this time constant.
	smoothingSeconds = 0.010
	// A pending tap reconfiguration is applied once the delay path is
	// below this gain.
	duckFloor = 1e-3
)

// Descriptors lists the automatable parameters of [ModDelay].
func Descriptors() []param.Descriptor {
	return []param.Descriptor{
		{Name: ParamDepth, Default: defaultDepth, Min: 0, Max: 1},
		{Name: ParamModulationFrequency, Default: defaultFrequency, Min: 0, Max: maxFrequency},
	}
}

// maxDelaySeconds is the longest tap delay any topology can request.
func maxDelaySeconds() float64 {
	var m float64
	for _, t := range Topologies() {
		m = max(m, 2*t.MaxDepth())
	}
	return m + tapSpacing*(tapCount-1)
}

// Option configures a [ModDelay].
type Option func(*modConfig) error

type modConfig struct {
	topology Topology
	rng      *rand.Rand
}

// WithTopology selects the initial effect (default Tremolo).
func WithTopology(t Topology) Option {
	return func(c *modConfig) error {
		if !t.Valid() {
			return fmt.Errorf("%w: %d", ErrUnknownTopology, int(t))
		}
		c.topology = t
		return nil
	}
}

// WithRNG seeds the chorus noise sources.
func WithRNG(rng *rand.Rand) Option {
	return func(c *modConfig) error {
		c.rng = rng
		return nil
	}
}

// ModDelay is the tremolo / vibrato / flanger / chorus kernel.
//
// Per sample, with depth d and LFO value s:
//
//	tremolo gain  (1 - d/2) + s·d/2
//	tap 0 delay   D·d + D·d·s (sine topologies) or D·d + D·d·n0 (chorus)
//	tap k delay   D·d + 0.008·k + D·d·nk (chorus only), k = 1, 2
//
// where D is the topology's maximum depth and nk are fade-and-hold noise
// values with a fade period of half a modulation cycle. The output sums
// the tremolo path, tap 0, taps 1+2 and the dry input, each through a
// smoothed gain.
type ModDelay struct {
	sampleRate float64
	topo       Topology
	bypass     bool

	lfo   *signal.LFO
	noise *signal.FadeHold
	lines [][tapCount]*delay.Line

	coef    float64
	cur     mix
	target  mix
	active  taps
	pending bool

	frame   [tapCount]float64
	gIn     []float64
	gDelay  []float64
	gChorus []float64
	delays  [tapCount][]float64
	tapOut  [tapCount][]float64
}

// NewModDelay creates the kernel for the given sample rate and channel count.
func NewModDelay(sampleRate float64, channels int, opts ...Option) (*ModDelay, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("modulation: sample rate must be > 0: %f", sampleRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("modulation: channels must be > 0: %d", channels)
	}

	cfg := modConfig{topology: Tremolo}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	lfo, err := signal.NewLFO(sampleRate, defaultFrequency)
	if err != nil {
		return nil, err
	}
	noise, err := signal.NewFadeHold(sampleRate, tapCount, signal.WithRNG(cfg.rng))
	if err != nil {
		return nil, err
	}

	m := &ModDelay{
		sampleRate: sampleRate,
		topo:       cfg.topology,
		lfo:        lfo,
		noise:      noise,
		coef:       math.Exp(-1 / (smoothingSeconds * sampleRate)),
	}
	if err := m.Resize(channels); err != nil {
		return nil, err
	}
	m.settle()
	return m, nil
}

// Topology returns the active effect.
func (m *ModDelay) Topology() Topology { return m.topo }

// SetTopology switches the effect. Gains crossfade; when the delay taps
// need a different configuration the delay path fades out first and the
// taps are retuned once it is silent.
func (m *ModDelay) SetTopology(t Topology) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownTopology, int(t))
	}
	m.topo = t
	m.retarget()
	return nil
}

// Bypass reports whether the kernel passes its input through.
func (m *ModDelay) Bypass() bool { return m.bypass }

// SetBypass fades all wet paths out and the dry path to unity. Delay
// lines and modulators keep running.
func (m *ModDelay) SetBypass(b bool) {
	m.bypass = b
	m.retarget()
}

// Channels returns the number of channels the delay lines are sized for.
func (m *ModDelay) Channels() int { return len(m.lines) }

// Resize changes the channel count, keeping existing channel history.
func (m *ModDelay) Resize(channels int) error {
	if channels <= 0 {
		return fmt.Errorf("modulation: channels must be > 0: %d", channels)
	}
	if channels < len(m.lines) {
		m.lines = m.lines[:channels]
		return nil
	}
	for len(m.lines) < channels {
		var set [tapCount]*delay.Line
		for k := range set {
			line, err := delay.ForDuration(maxDelaySeconds(), m.sampleRate)
			if err != nil {
				return err
			}
			set[k] = line
		}
		m.lines = append(m.lines, set)
	}
	return nil
}

// Reset clears the delay lines and modulators and jumps all gains to
// their targets.
func (m *ModDelay) Reset() {
	for _, set := range m.lines {
		for _, line := range set {
			line.Reset()
		}
	}
	m.lfo.Reset()
	m.noise.Reset()
	m.settle()
}

func (m *ModDelay) settle() {
	m.active = m.topo.taps()
	m.target = m.topo.mix(m.bypass)
	m.cur = m.target
	m.pending = false
}

func (m *ModDelay) delayPathGain() float64 {
	return math.Abs(m.cur.delay) + math.Abs(m.cur.chorus)
}

func (m *ModDelay) retarget() {
	m.target = m.topo.mix(m.bypass)
	want := m.topo.taps()
	switch {
	case want == m.active:
		m.pending = false
	case m.delayPathGain() < duckFloor:
		m.active = want
		m.pending = false
	default:
		m.pending = true
		m.target.delay = 0
		m.target.chorus = 0
	}
}

func (m *ModDelay) step() {
	if m.pending && m.delayPathGain() < duckFloor {
		m.active = m.topo.taps()
		m.target = m.topo.mix(m.bypass)
		m.pending = false
	}
	k := 1 - m.coef
	m.cur.tremolo += k * (m.target.tremolo - m.cur.tremolo)
	m.cur.delay += k * (m.target.delay - m.cur.delay)
	m.cur.chorus += k * (m.target.chorus - m.cur.chorus)
	m.cur.dry += k * (m.target.dry - m.cur.dry)
}

// Process runs one block. depth and modulationFrequency may be automated
// per sample; in and out may alias.
func (m *ModDelay) Process(in, out [][]float64, depth, freq param.Values) {
	if len(in) == 0 {
		return
	}
	if len(in) != len(m.lines) {
		_ = m.Resize(len(in))
	}
	n := len(in[0])
	m.gIn = core.EnsureLen(m.gIn, n)
	m.gDelay = core.EnsureLen(m.gDelay, n)
	m.gChorus = core.EnsureLen(m.gChorus, n)
	for k := range tapCount {
		m.delays[k] = core.EnsureLen(m.delays[k], n)
		m.tapOut[k] = core.EnsureLen(m.tapOut[k], n)
	}

	for i := range n {
		d := core.Clamp(finiteOr(depth.At(i), defaultDepth), 0, 1)
		f := core.Clamp(finiteOr(freq.At(i), defaultFrequency), 0, maxFrequency)
		_ = m.lfo.SetFrequency(f)

		m.step()
		s := m.lfo.Next()
		m.noise.Next(0.5/f, m.frame[:])

		md := m.active.maxDepth * d
		m.delays[0][i] = (md + md*(s*m.active.sine+m.frame[0]*m.active.noise)) * m.sampleRate
		for k := 1; k < tapCount; k++ {
			m.delays[k][i] = (md + tapSpacing*float64(k) + md*m.frame[k]*m.active.noise) * m.sampleRate
		}

		trem := (1 - 0.5*d) + 0.5*d*s
		m.gIn[i] = m.cur.tremolo*trem + m.cur.dry
		m.gDelay[i] = m.cur.delay
		m.gChorus[i] = m.cur.chorus
	}

	for ch := range in {
		x := in[ch][:n]
		for k, line := range m.lines[ch] {
			dst, dl := m.tapOut[k], m.delays[k]
			for i, v := range x {
				dst[i] = line.Process(v, dl[i])
			}
		}

		y := out[ch][:n]
		vecmath.MulBlock(y, x, m.gIn)
		vecmath.MulBlockInPlace(m.tapOut[0], m.gDelay)
		vecmath.AddBlockInPlace(y, m.tapOut[0])
		vecmath.AddBlockInPlace(m.tapOut[1], m.tapOut[2])
		vecmath.MulBlockInPlace(m.tapOut[1], m.gChorus)
		vecmath.AddBlockInPlace(y, m.tapOut[1])
	}
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
