package main

import (
	"fmt"

	"github.com/cwbudde/algo-fxlab/dsp/kernel"
	"github.com/cwbudde/algo-fxlab/dsp/signal"
	"github.com/cwbudde/algo-fxlab/internal/playback"
	"github.com/cwbudde/algo-fxlab/internal/wavfile"
)

// newSource picks the loop file, noise or the test sine, in that order.
// Source kernels get silence.
func newSource(ctx kernel.Context, desc kernel.Description, opts options) (playback.Source, error) {
	if desc.Source {
		return playback.Silence{}, nil
	}

	switch {
	case opts.loop != "":
		f, err := wavfile.Read(opts.loop)
		if err != nil {
			return nil, err
		}
		if f.SampleRate != int(ctx.SampleRate) {
			return nil, fmt.Errorf("%s is %d Hz, device runs at %v Hz", opts.loop, f.SampleRate, ctx.SampleRate)
		}
		return playback.NewLoop(f.Data)
	case opts.noise > 0:
		return playback.NewNoise(opts.noise, signal.WithRNG(ctx.RNG(1))), nil
	default:
		return playback.NewTone(ctx.SampleRate, opts.toneHz, opts.amp)
	}
}

func describeSource(opts options) string {
	switch {
	case opts.loop != "":
		return opts.loop
	case opts.noise > 0:
		return fmt.Sprintf("white noise at %.2f", opts.noise)
	default:
		return fmt.Sprintf("%.1f Hz sine at %.2f", opts.toneHz, opts.amp)
	}
}
