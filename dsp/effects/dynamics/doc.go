// Package dynamics provides the dynamic range control kernel.
//
// [DRC] combines a noise gate, a compressor and a limiter in one static
// curve with two knees. It tracks a smoothed power envelope of the
// channel-averaged signal, maps the level through the curve, smooths the
// resulting gain and periodically reports input and output peak
// envelopes for display.
package dynamics
