package spectrum

import (
	"errors"
	"fmt"
	"math"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-fxlab/dsp/window"
)

// Analyser defaults.
const (
	DefaultFFTSize     = 1024
	DefaultSmoothing   = 0.3
	DefaultMinDecibels = -130.0
	DefaultMaxDecibels = -30.0
)

var (
	ErrInvalidFFTSize   = errors.New("spectrum: fft size must be a power of two >= 32")
	ErrInvalidSmoothing = errors.New("spectrum: smoothing must be in [0, 1)")
	ErrInvalidRange     = errors.New("spectrum: decibel range must satisfy min < max")
)

type config struct {
	fftSize     int
	smoothing   float64
	minDecibels float64
	maxDecibels float64
}

// Option configures an [Analyser].
type Option func(*config) error

// WithFFTSize sets the frame length.
func WithFFTSize(n int) Option {
	return func(c *config) error {
		if n < 32 || n&(n-1) != 0 {
			return fmt.Errorf("%w: %d", ErrInvalidFFTSize, n)
		}

		c.fftSize = n

		return nil
	}
}

// WithSmoothing sets the time constant applied between successive frames.
func WithSmoothing(s float64) Option {
	return func(c *config) error {
		if !(s >= 0 && s < 1) {
			return fmt.Errorf("%w: %v", ErrInvalidSmoothing, s)
		}

		c.smoothing = s

		return nil
	}
}

// WithDecibelRange sets the floor and ceiling used for reporting.
func WithDecibelRange(minDB, maxDB float64) Option {
	return func(c *config) error {
		if math.IsNaN(minDB) || math.IsNaN(maxDB) || minDB >= maxDB {
			return fmt.Errorf("%w: [%v, %v]", ErrInvalidRange, minDB, maxDB)
		}

		c.minDecibels = minDB
		c.maxDecibels = maxDB

		return nil
	}
}

// Analyser is safe for one writer and one reader running concurrently.
type Analyser struct {
	mu sync.Mutex

	cfg  config
	plan *algofft.Plan[complex128]

	ring []float64
	pos  int

	win      []float64
	frame    []float64
	spec     []complex128
	re, im   []float64
	power    []float64
	smoothed []float64
}

// NewAnalyser returns an analyser with the default settings unless
// overridden by opts.
func NewAnalyser(opts ...Option) (*Analyser, error) {
	cfg := config{
		fftSize:     DefaultFFTSize,
		smoothing:   DefaultSmoothing,
		minDecibels: DefaultMinDecibels,
		maxDecibels: DefaultMaxDecibels,
	}

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	plan, err := algofft.NewPlan64(cfg.fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan: %w", err)
	}

	win, err := window.Blackman(cfg.fftSize, window.WithPeriodic())
	if err != nil {
		return nil, fmt.Errorf("spectrum: window: %w", err)
	}

	n := cfg.fftSize
	bins := n / 2

	return &Analyser{
		cfg:      cfg,
		plan:     plan,
		ring:     make([]float64, n),
		win:      win,
		frame:    make([]float64, n),
		spec:     make([]complex128, n),
		re:       make([]float64, bins),
		im:       make([]float64, bins),
		power:    make([]float64, bins),
		smoothed: make([]float64, bins),
	}, nil
}

func (a *Analyser) FFTSize() int           { return a.cfg.fftSize }
func (a *Analyser) FrequencyBinCount() int { return a.cfg.fftSize / 2 }
func (a *Analyser) Smoothing() float64     { return a.cfg.smoothing }
func (a *Analyser) MinDecibels() float64   { return a.cfg.minDecibels }
func (a *Analyser) MaxDecibels() float64   { return a.cfg.maxDecibels }

// Write appends mono samples to the analysis window.
func (a *Analyser) Write(samples []float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, x := range samples {
		a.push(x)
	}
}

// WriteFrames appends planar audio, down-mixed to mono by averaging.
func (a *Analyser) WriteFrames(in [][]float64) {
	if len(in) == 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	scale := 1 / float64(len(in))

	for i := range in[0] {
		sum := 0.0
		for _, ch := range in {
			sum += ch[i]
		}

		a.push(sum * scale)
	}
}

func (a *Analyser) push(x float64) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		x = 0
	}

	a.ring[a.pos] = x

	a.pos++
	if a.pos == len(a.ring) {
		a.pos = 0
	}
}

// FloatFrequencyData analyses the current frame and writes up to
// FrequencyBinCount smoothed magnitudes in dB to dst. Values never fall
// below MinDecibels. It returns the number of bins written.
func (a *Analyser) FloatFrequencyData(dst []float64) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.analyse()

	n := min(len(dst), len(a.smoothed))
	for k := range n {
		dst[k] = a.toDecibels(a.smoothed[k])
	}

	return n
}

// ByteFrequencyData is like FloatFrequencyData but maps the decibel range
// linearly onto [0, 255].
func (a *Analyser) ByteFrequencyData(dst []byte) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.analyse()

	span := a.cfg.maxDecibels - a.cfg.minDecibels

	n := min(len(dst), len(a.smoothed))
	for k := range n {
		v := 255 * (a.toDecibels(a.smoothed[k]) - a.cfg.minDecibels) / span
		dst[k] = byte(math.Max(0, math.Min(255, math.Floor(v))))
	}

	return n
}

// Reset clears the sample history and smoothing state.
func (a *Analyser) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	clear(a.ring)
	clear(a.smoothed)
	a.pos = 0
}

func (a *Analyser) analyse() {
	n := len(a.ring)

	// Oldest sample first.
	copy(a.frame, a.ring[a.pos:])
	copy(a.frame[n-a.pos:], a.ring[:a.pos])

	_ = window.ApplyCoefficientsInPlace(a.frame, a.win)

	for i, x := range a.frame {
		a.spec[i] = complex(x, 0)
	}

	if err := a.plan.Forward(a.spec, a.spec); err != nil {
		return
	}

	for k := range a.re {
		a.re[k] = real(a.spec[k])
		a.im[k] = imag(a.spec[k])
	}

	vecmath.Power(a.power, a.re, a.im)

	s := a.cfg.smoothing
	scale := 1 / float64(n)

	for k, p := range a.power {
		mag := math.Sqrt(p) * scale
		v := s*a.smoothed[k] + (1-s)*mag

		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}

		a.smoothed[k] = v
	}
}

func (a *Analyser) toDecibels(mag float64) float64 {
	if mag <= 0 {
		return a.cfg.minDecibels
	}

	return math.Max(a.cfg.minDecibels, 20*math.Log10(mag))
}
