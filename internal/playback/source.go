package playback

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-fxlab/dsp/signal"
)

// Source fills one block of planar input.
type Source interface {
	Render(out [][]float64)
}

// Silence is a source of zeros, used for generator kernels.
type Silence struct{}

func (Silence) Render(out [][]float64) {
	for _, ch := range out {
		clear(ch)
	}
}

// Tone is a sine on every channel.
type Tone struct {
	osc *signal.LFO
	amp float64
}

// NewTone returns a sine of freqHz at amplitude amp.
func NewTone(sampleRate, freqHz, amp float64) (*Tone, error) {
	osc, err := signal.NewLFO(sampleRate, freqHz)
	if err != nil {
		return nil, fmt.Errorf("playback: tone: %w", err)
	}
	return &Tone{osc: osc, amp: amp}, nil
}

func (t *Tone) Render(out [][]float64) {
	if len(out) == 0 {
		return
	}
	for i := range out[0] {
		y := t.amp * t.osc.Next()
		for _, ch := range out {
			ch[i] = y
		}
	}
}

// Noise is independent white noise per channel.
type Noise struct {
	w   *signal.White
	amp float64
}

// NewNoise returns white noise at amplitude amp.
func NewNoise(amp float64, opts ...signal.Option) *Noise {
	return &Noise{w: signal.NewWhite(opts...), amp: amp}
}

func (n *Noise) Render(out [][]float64) {
	n.w.Process(out)
	for _, ch := range out {
		for i := range ch {
			ch[i] *= n.amp
		}
	}
}

// Loop repeats a planar buffer. Output channels beyond the buffer's
// channel count reuse its channels cyclically.
type Loop struct {
	data [][]float64
	pos  int
}

// NewLoop returns a source looping data.
func NewLoop(data [][]float64) (*Loop, error) {
	if len(data) == 0 || len(data[0]) == 0 {
		return nil, errors.New("playback: loop: empty buffer")
	}
	for _, ch := range data[1:] {
		if len(ch) != len(data[0]) {
			return nil, errors.New("playback: loop: channels differ in length")
		}
	}
	return &Loop{data: data}, nil
}

func (l *Loop) Render(out [][]float64) {
	if len(out) == 0 {
		return
	}
	n := len(l.data[0])
	for i := range out[0] {
		for ch, dst := range out {
			dst[i] = l.data[ch%len(l.data)][l.pos]
		}
		l.pos++
		if l.pos == n {
			l.pos = 0
		}
	}
}
