package param

import (
	"fmt"
	"math"
)

// DefaultRampTime is the duration of a UI-initiated parameter change.
const DefaultRampTime = 0.050

// Ramp renders click-free automation for one parameter.
//
// SetTarget cancels any ramp in flight, holding the current value, and
// schedules an exponential ramp that lands exactly on the target after
// the ramp time. When start and target differ in sign or one of them is
// zero an exponential curve does not exist; a linear ramp is used instead.
type Ramp struct {
	sampleRate float64
	length     int

	current   float64
	target    float64
	factor    float64
	step      float64
	linear    bool
	remaining int
}

// NewRamp creates a settled ramp at initial.
func NewRamp(sampleRate, initial, rampTime float64) (*Ramp, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("param: ramp sample rate must be > 0 and finite: %f", sampleRate)
	}
	if rampTime < 0 || math.IsNaN(rampTime) || math.IsInf(rampTime, 0) {
		return nil, fmt.Errorf("param: ramp time must be >= 0 and finite: %f", rampTime)
	}

	return &Ramp{
		sampleRate: sampleRate,
		length:     max(1, int(math.Round(rampTime*sampleRate))),
		current:    initial,
		target:     initial,
	}, nil
}

// Value returns the current value.
func (r *Ramp) Value() float64 { return r.current }

// Target returns the value the ramp is heading to.
func (r *Ramp) Target() float64 { return r.target }

// Settled reports whether the ramp has reached its target.
func (r *Ramp) Settled() bool { return r.remaining == 0 }

// Jump sets the value immediately, cancelling any ramp.
func (r *Ramp) Jump(v float64) {
	r.current = v
	r.target = v
	r.remaining = 0
}

// SetTarget starts a new ramp from the current value to v.
func (r *Ramp) SetTarget(v float64) {
	r.target = v
	if v == r.current {
		r.remaining = 0
		return
	}

	r.remaining = r.length
	n := float64(r.length)

	if r.current == 0 || v == 0 || (r.current < 0) != (v < 0) {
		r.linear = true
		r.step = (v - r.current) / n
		return
	}

	r.linear = false
	r.factor = math.Pow(v/r.current, 1/n)
}

// Next advances the ramp by one sample and returns the new value.
func (r *Ramp) Next() float64 {
	if r.remaining == 0 {
		return r.current
	}

	r.remaining--
	switch {
	case r.remaining == 0:
		r.current = r.target
	case r.linear:
		r.current += r.step
	default:
		r.current *= r.factor
	}

	return r.current
}

// Fill renders len(dst) samples of automation into dst and returns the
// slice to send with the block: dst[:1] when the ramp is settled for the
// whole block, dst otherwise.
func (r *Ramp) Fill(dst []float64) Values {
	if len(dst) == 0 {
		return nil
	}
	if r.remaining == 0 {
		dst[0] = r.current
		return Values(dst[:1])
	}
	for i := range dst {
		dst[i] = r.Next()
	}
	return Values(dst)
}
