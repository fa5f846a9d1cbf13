// Package delay provides a circular delay line with fractional reads.
package delay

import (
	"fmt"
	"math"
)

// Line is a circular delay line. Delays are counted from the most recent
// write: Read(0) returns the last written sample.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a delay line holding size samples, so delays up to size-1
// are addressable.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay: size must be > 0: %d", size)
	}
	return &Line{buffer: make([]float64, size)}, nil
}

// ForDuration returns a delay line that can hold maxSeconds at sampleRate
// plus one sample of headroom for the interpolation neighbour.
func ForDuration(maxSeconds, sampleRate float64) (*Line, error) {
	if maxSeconds < 0 || sampleRate <= 0 || math.IsNaN(maxSeconds) || math.IsInf(maxSeconds, 0) {
		return nil, fmt.Errorf("delay: invalid duration %g s at %g Hz", maxSeconds, sampleRate)
	}
	return New(int(math.Ceil(maxSeconds*sampleRate)) + 2)
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// MaxDelay returns the largest addressable delay in samples.
func (d *Line) MaxDelay() float64 {
	return float64(len(d.buffer) - 1)
}

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
	d.buffer[d.writePos] = sample
}

// Read reads an integer delay in samples. The delay is wrapped into the
// buffer length.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	readPos := (d.writePos - delay%size + size) % size
	return d.buffer[readPos]
}

// ReadFractional reads with linear interpolation. The delay is clamped to
// [0, MaxDelay].
func (d *Line) ReadFractional(delay float64) float64 {
	if !(delay > 0) {
		return d.Read(0)
	}
	maxDelay := d.MaxDelay()
	if delay >= maxDelay {
		return d.Read(len(d.buffer) - 1)
	}

	p := int(delay)
	t := delay - float64(p)
	x0 := d.Read(p)
	x1 := d.Read(p + 1)
	return x0 + t*(x1-x0)
}

// Process writes x and returns the sample delay samples ago, so a delay
// of 0 passes x through.
func (d *Line) Process(x, delay float64) float64 {
	d.Write(x)
	return d.ReadFractional(delay)
}

// Reset clears line state.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}
