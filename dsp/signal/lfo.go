package signal

import (
	"fmt"
	"math"
)

// LFO is a sine low-frequency oscillator with a normalized phase
// accumulator in [0, 1).
type LFO struct {
	sampleRate float64
	freq       float64
	phase      float64
}

// NewLFO creates a sine LFO starting at phase 0.
func NewLFO(sampleRate, freqHz float64) (*LFO, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("signal: lfo sample rate must be > 0: %f", sampleRate)
	}
	l := &LFO{sampleRate: sampleRate}
	if err := l.SetFrequency(freqHz); err != nil {
		return nil, err
	}
	return l, nil
}

// SetFrequency changes the rate without resetting the phase.
func (l *LFO) SetFrequency(freqHz float64) error {
	if freqHz < 0 || math.IsNaN(freqHz) || math.IsInf(freqHz, 0) {
		return fmt.Errorf("signal: lfo frequency must be >= 0: %f", freqHz)
	}
	l.freq = freqHz
	return nil
}

// Frequency returns the rate in Hz.
func (l *LFO) Frequency() float64 { return l.freq }

// Phase returns the normalized phase.
func (l *LFO) Phase() float64 { return l.phase }

// Next returns sin(2π·phase) and advances by freq/fs.
func (l *LFO) Next() float64 {
	y := math.Sin(2 * math.Pi * l.phase)
	l.phase += l.freq / l.sampleRate
	if l.phase >= 1 {
		l.phase -= math.Floor(l.phase)
	}
	return y
}

// Reset returns the phase to 0.
func (l *LFO) Reset() { l.phase = 0 }
