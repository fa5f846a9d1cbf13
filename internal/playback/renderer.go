package playback

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-fxlab/dsp/core"
	"github.com/cwbudde/algo-fxlab/dsp/kernel"
	"github.com/cwbudde/algo-fxlab/dsp/param"
	"github.com/cwbudde/algo-fxlab/dsp/spectrum"
)

const bytesPerSample = 4

// ErrUnknownParameter is returned for names the kernel does not declare.
var ErrUnknownParameter = errors.New("playback: unknown parameter")

type rendererConfig struct {
	rampTime float64
	analyser *spectrum.Analyser
}

// Option configures a [Renderer].
type Option func(*rendererConfig) error

// WithRampTime sets how long parameter changes take (default 50 ms).
func WithRampTime(seconds float64) Option {
	return func(c *rendererConfig) error {
		if !(seconds >= 0) || math.IsInf(seconds, 0) {
			return fmt.Errorf("playback: ramp time must be >= 0: %v", seconds)
		}
		c.rampTime = seconds
		return nil
	}
}

// WithAnalyser feeds every rendered block, down-mixed, to a.
func WithAnalyser(a *spectrum.Analyser) Option {
	return func(c *rendererConfig) error {
		c.analyser = a
		return nil
	}
}

// Renderer runs a host block by block and serves the output as
// interleaved float32 little-endian PCM. Read belongs to the audio
// goroutine; SetParameter may be called from any goroutine.
type Renderer struct {
	host     *kernel.Host
	src      Source
	cfg      core.ProcessorConfig
	analyser *spectrum.Analyser

	targets atomic.Pointer[map[string]float64]
	names   []string
	ramps   []*param.Ramp
	rampBuf [][]float64
	block   param.Block

	in, out [][]float64
	pcm     []byte
	pos     int
	done    bool
}

// NewRenderer prepares a renderer for h fed by src. Parameters start at
// their declared defaults.
func NewRenderer(h *kernel.Host, src Source, opts ...Option) (*Renderer, error) {
	if h == nil || src == nil {
		return nil, errors.New("playback: nil host or source")
	}

	rc := rendererConfig{rampTime: param.DefaultRampTime}
	for _, opt := range opts {
		if err := opt(&rc); err != nil {
			return nil, err
		}
	}

	cfg := h.Config()
	descs := h.Describe().Parameters

	r := &Renderer{
		host:     h,
		src:      src,
		cfg:      cfg,
		analyser: rc.analyser,
		block:    make(param.Block, len(descs)),
		in:       core.EnsurePlanar(nil, cfg.Channels, cfg.BlockSize),
		out:      core.EnsurePlanar(nil, cfg.Channels, cfg.BlockSize),
		pcm:      make([]byte, 0, cfg.Channels*cfg.BlockSize*bytesPerSample),
	}

	initial := make(map[string]float64, len(descs))
	for _, d := range descs {
		ramp, err := param.NewRamp(cfg.SampleRate, d.Default, rc.rampTime)
		if err != nil {
			return nil, err
		}
		r.names = append(r.names, d.Name)
		r.ramps = append(r.ramps, ramp)
		r.rampBuf = append(r.rampBuf, make([]float64, cfg.BlockSize))
		initial[d.Name] = d.Default
	}
	r.targets.Store(&initial)

	return r, nil
}

// SetParameter ramps the named parameter to v.
func (r *Renderer) SetParameter(name string, v float64) error {
	return r.SetParameters(map[string]float64{name: v})
}

// SetParameters ramps several parameters at once. Nothing is changed if
// any name is unknown.
func (r *Renderer) SetParameters(values map[string]float64) error {
	for {
		old := r.targets.Load()
		next := maps.Clone(*old)
		for name, v := range values {
			if _, ok := next[name]; !ok {
				return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("playback: %q must be finite: %v", name, v)
			}
			next[name] = v
		}
		if r.targets.CompareAndSwap(old, &next) {
			return nil
		}
	}
}

// Parameter returns the target value of name.
func (r *Renderer) Parameter(name string) (float64, bool) {
	v, ok := (*r.targets.Load())[name]
	return v, ok
}

// Read fills p with whole samples of interleaved float32 PCM. It returns
// io.EOF once the host has been closed.
func (r *Renderer) Read(p []byte) (int, error) {
	n := 0
	for len(p)-n >= bytesPerSample {
		if r.pos == len(r.pcm) {
			if r.done || !r.renderBlock() {
				r.done = true
				if n == 0 {
					return 0, io.EOF
				}
				return n, nil
			}
		}
		c := copy(p[n:], r.pcm[r.pos:])
		c -= c % bytesPerSample
		n += c
		r.pos += c
	}
	return n, nil
}

// ReadBlock renders one block into dst as planar samples. dst must hold
// the configured channels and block size. It is the offline counterpart
// of Read and must not be mixed with it.
func (r *Renderer) ReadBlock(dst [][]float64) bool {
	if r.done || !r.renderBlock() {
		r.done = true
		return false
	}
	for ch := range dst {
		copy(dst[ch], r.out[ch%len(r.out)])
	}
	return true
}

func (r *Renderer) renderBlock() bool {
	targets := *r.targets.Load()
	for i, name := range r.names {
		ramp := r.ramps[i]
		if v := targets[name]; v != ramp.Target() {
			ramp.SetTarget(v)
		}
		r.block[name] = ramp.Fill(r.rampBuf[i])
	}

	r.src.Render(r.in)
	r.pcm = r.pcm[:0]
	r.pos = 0
	if !r.host.Process(r.in, r.out, r.block) {
		return false
	}

	if r.analyser != nil {
		r.analyser.WriteFrames(r.out)
	}

	for i := range r.out[0] {
		for _, ch := range r.out {
			r.pcm = binary.LittleEndian.AppendUint32(r.pcm, math.Float32bits(float32(ch[i])))
		}
	}
	return true
}
