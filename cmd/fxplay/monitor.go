package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-fxlab/dsp/effects/dynamics"
	"github.com/cwbudde/algo-fxlab/dsp/spectrum"
)

const silenceDB = -120.0

// monitor prints host diagnostics as they arrive and refreshes a status
// line with the latest DRC levels and the spectral peak.
func (c *controller) monitor(ctx context.Context, envelopes <-chan dynamics.Envelope, a *spectrum.Analyser, sampleRate float64) error {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	var (
		last    dynamics.Envelope
		haveEnv bool
	)
	bins := make([]float64, a.FrequencyBinCount())

	for {
		select {
		case <-ctx.Done():
			c.printf("")
			return nil
		case d := <-c.host.Diagnostics():
			c.printf("%v", d)
		case e := <-envelopes:
			last, haveEnv = e, true
		case <-ticker.C:
			a.FloatFrequencyData(bins)
			hz, db := spectralPeak(bins, a.FFTSize(), sampleRate)
			line := fmt.Sprintf("peak %7.1f Hz %6.1f dB", hz, db)
			if haveEnv {
				in, out := envelopeLevels(last)
				line += fmt.Sprintf("  drc in %6.1f dB out %6.1f dB", in, out)
			}
			if n := c.host.Dropped(); n > 0 {
				line += fmt.Sprintf("  (%d diagnostics dropped)", n)
			}
			c.status("%s", line)
		}
	}
}

// spectralPeak returns the frequency and level of the loudest bin,
// skipping DC.
func spectralPeak(bins []float64, fftSize int, sampleRate float64) (float64, float64) {
	if len(bins) < 2 {
		return 0, math.Inf(-1)
	}
	peak := 1
	for i := 2; i < len(bins); i++ {
		if bins[i] > bins[peak] {
			peak = i
		}
	}
	return float64(peak) * sampleRate / float64(fftSize), bins[peak]
}

// envelopeLevels converts the newest envelope points to dB.
func envelopeLevels(e dynamics.Envelope) (in, out float64) {
	return toDB(float64(e.Input[dynamics.EnvelopeLength-1])),
		toDB(float64(e.Output[dynamics.EnvelopeLength-1]))
}

func toDB(x float64) float64 {
	if x <= 0 {
		return silenceDB
	}
	return max(20*math.Log10(x), silenceDB)
}
