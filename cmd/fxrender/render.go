package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/algo-fxlab/dsp/core"
	"github.com/cwbudde/algo-fxlab/dsp/kernel"
	"github.com/cwbudde/algo-fxlab/dsp/param"
	"github.com/cwbudde/algo-fxlab/dsp/signal"
	"github.com/cwbudde/algo-fxlab/measure/noise"
)

// render runs input plus tail frames of silence through h block by block.
// It returns the output and the diagnostics the host raised.
func render(h *kernel.Host, input [][]float64, p param.Block, tail int) ([][]float64, []kernel.Diagnostic) {
	cfg := h.Config()
	frames := len(input[0])
	total := frames + tail

	out := make([][]float64, len(input))
	for ch := range out {
		out[ch] = make([]float64, total)
	}

	in := core.EnsurePlanar(nil, len(input), cfg.BlockSize)
	dst := make([][]float64, len(input))

	var diags []kernel.Diagnostic
	for start := 0; start < total; start += cfg.BlockSize {
		n := min(cfg.BlockSize, total-start)
		for ch := range in {
			in[ch] = in[ch][:n]
			clear(in[ch])
			if start < frames {
				copy(in[ch], input[ch][start:min(start+n, frames)])
			}
			dst[ch] = out[ch][start : start+n]
		}

		h.Process(in, dst, p)
		diags = drain(h, diags)
	}

	return out, diags
}

func drain(h *kernel.Host, diags []kernel.Diagnostic) []kernel.Diagnostic {
	for {
		select {
		case d := <-h.Diagnostics():
			diags = append(diags, d)
		default:
			return diags
		}
	}
}

// generate builds the test signal selected on the command line.
func generate(cfg core.ProcessorConfig, opts options) ([][]float64, error) {
	gen := signal.NewGenerator(cfg, signal.WithSeed(opts.seed))
	samples := int(opts.duration * cfg.SampleRate)

	var (
		mono []float64
		err  error
	)
	if opts.noise {
		mono, err = gen.WhiteNoise(opts.amp, samples)
	} else {
		mono, err = gen.Sine(opts.toneHz, opts.amp, samples)
	}
	if err != nil {
		return nil, err
	}

	return signal.Planar(mono, cfg.Channels), nil
}

// report prints, per channel, the energy the kernel added to the input
// below and above splitHz. Added energy past the input length is
// compared against silence.
func report(w io.Writer, input, output [][]float64, sampleRate, splitHz float64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "channel\tlow\thigh\tlow/high [dB]\n"); err != nil {
		return err
	}

	for ch := range output {
		in := make([]float64, len(output[ch]))
		copy(in, input[ch])

		e, err := noise.Error(in, output[ch])
		if err != nil {
			return err
		}
		b, err := noise.BandEnergy(e, sampleRate, splitHz)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(tw, "%d\t%.6g\t%.6g\t%.2f\n", ch, b.Low, b.High, b.RatioDB()); err != nil {
			return err
		}
	}

	return tw.Flush()
}
