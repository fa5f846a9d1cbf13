// Command fxplay plays a test signal or a looped WAV file through one
// effect kernel in real time.
//
// Usage:
//
//	fxplay [flags] [loop.wav]
//
// While playing, press b to toggle bypass and q to quit. With -preset the
// file is watched and re-applied whenever it is saved.
//
// Examples:
//
//	fxplay -kernel delays -set type=flanger -tone 220
//	fxplay -kernel drc -noise 0.3
//	fxplay -preset eq.json drums.wav
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	ossignal "os/signal"
	"slices"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-fxlab/dsp/core"
	"github.com/cwbudde/algo-fxlab/dsp/effects/dynamics"
	"github.com/cwbudde/algo-fxlab/dsp/kernel"
	"github.com/cwbudde/algo-fxlab/dsp/spectrum"
	"github.com/cwbudde/algo-fxlab/internal/playback"
	"github.com/cwbudde/algo-fxlab/internal/preset"
)

const (
	defaultKernel   = "distortion"
	statusInterval  = 250 * time.Millisecond
	envelopeBacklog = 64
)

type options struct {
	kernel     string
	presetPath string
	props      preset.Assignments
	params     preset.Assignments

	sampleRate int
	channels   int
	blockSize  int
	buffer     time.Duration
	seed       uint64

	toneHz   float64
	noise    float64
	amp      float64
	duration time.Duration
	loop     string
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("fxplay: ")

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("fxplay", flag.ContinueOnError)
	fs.StringVar(&opts.kernel, "kernel", "", "kernel name (default "+defaultKernel+", or the preset's kernel)")
	fs.StringVar(&opts.presetPath, "preset", "", "JSON preset to apply and watch for changes")
	fs.Var(&opts.props, "set", "set a kernel property, name=value (repeatable)")
	fs.Var(&opts.params, "param", "set a parameter target, name=value (repeatable)")
	fs.IntVar(&opts.sampleRate, "rate", 48000, "device sample rate in Hz")
	fs.IntVar(&opts.channels, "channels", 2, "device channel count")
	fs.IntVar(&opts.blockSize, "block", core.RenderQuantum, "processing block size in frames")
	fs.DurationVar(&opts.buffer, "buffer", playback.DefaultBufferDuration, "device buffer duration")
	fs.Uint64Var(&opts.seed, "seed", 0, "random seed for dither and noise (0 = random)")
	fs.Float64Var(&opts.toneHz, "tone", 440, "frequency of the test sine in Hz")
	fs.Float64Var(&opts.noise, "noise", 0, "play white noise at this amplitude instead of a sine")
	fs.Float64Var(&opts.amp, "amp", 0.3, "peak amplitude of the test sine")
	fs.DurationVar(&opts.duration, "duration", 0, "stop after this long (0 = until q)")
	fs.Usage = func() {
		out := fs.Output()
		_, _ = fmt.Fprintf(out, "Usage: fxplay [flags] [loop.wav]\n\n")
		_, _ = fmt.Fprintf(out, "Plays audio through one effect kernel. Keys: b bypass, q quit.\n\n")
		_, _ = fmt.Fprintf(out, "Kernels: %v\n\nFlags:\n", kernel.DefaultRegistry().Names())
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.loop = fs.Arg(0)
	default:
		fs.Usage()
		return options{}, errors.New("expected at most one loop file")
	}

	if opts.noise < 0 {
		return options{}, fmt.Errorf("noise amplitude must be >= 0: %v", opts.noise)
	}

	return opts, nil
}

func run(ctx context.Context, args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	p, err := buildPreset(opts)
	if err != nil {
		return err
	}

	envelopes := make(chan dynamics.Envelope, envelopeBacklog)
	kctx := kernel.NewContext(
		core.WithSampleRate(float64(opts.sampleRate)),
		core.WithBlockSize(opts.blockSize),
		core.WithChannels(opts.channels),
		core.WithSeed(opts.seed),
	)
	kctx.Envelopes = envelopes

	h, err := kernel.Open(kernel.DefaultRegistry(), p.Kernel, kctx)
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	src, err := newSource(kctx, h.Describe(), opts)
	if err != nil {
		return err
	}

	analyser, err := spectrum.NewAnalyser()
	if err != nil {
		return err
	}

	r, err := playback.NewRenderer(h, src, playback.WithAnalyser(analyser))
	if err != nil {
		return err
	}

	if err := applyPreset(h, r, p); err != nil {
		return err
	}

	player, err := playback.NewPlayer(r, opts.sampleRate, opts.channels, opts.buffer)
	if err != nil {
		return err
	}
	defer func() { _ = player.Close() }()

	g, gctx := errgroup.WithContext(ctx)
	gctx, cancel := context.WithCancel(gctx)
	defer cancel()

	if opts.duration > 0 {
		var stopTimer context.CancelFunc
		gctx, stopTimer = context.WithTimeout(gctx, opts.duration)
		defer stopTimer()
	}

	c := &controller{host: h, bypassable: slices.Contains(h.Describe().Properties, kernel.PropBypass)}

	keys, restore, err := openKeyboard()
	if err != nil {
		log.Printf("keyboard disabled: %v", err)
	} else {
		defer restore()
		g.Go(func() error {
			return c.keyLoop(gctx, keys, cancel)
		})
	}

	if opts.presetPath != "" {
		w, err := preset.NewWatcher(opts.presetPath)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return w.Run(gctx, func(p preset.Preset, err error) {
				if err == nil {
					err = reload(h, r, p)
				}
				if err != nil {
					c.printf("preset: %v", err)
					return
				}
				c.printf("preset reloaded")
			})
		})
	}

	g.Go(func() error {
		return c.monitor(gctx, envelopes, analyser, float64(opts.sampleRate))
	})

	player.Play()
	c.printf("playing %s through %s (b: bypass, q: quit)", describeSource(opts), p.Kernel)

	g.Go(func() error {
		ticker := time.NewTicker(statusInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if !player.Playing() {
					cancel()
					return player.Err()
				}
			}
		}
	})

	return g.Wait()
}

func buildPreset(opts options) (preset.Preset, error) {
	p := preset.New(defaultKernel)
	if opts.presetPath != "" {
		loaded, err := preset.Load(opts.presetPath)
		if err != nil {
			return preset.Preset{}, err
		}
		p = loaded
	}
	if opts.kernel != "" {
		if opts.presetPath != "" && opts.kernel != p.Kernel {
			return preset.Preset{}, fmt.Errorf("-kernel %s conflicts with preset kernel %s", opts.kernel, p.Kernel)
		}
		p.Kernel = opts.kernel
	}
	if err := p.Override(opts.props, opts.params); err != nil {
		return preset.Preset{}, err
	}
	return p, nil
}

// applyPreset checks p against the running kernel, posts its properties
// and ramps the renderer to its parameters.
func applyPreset(h *kernel.Host, r *playback.Renderer, p preset.Preset) error {
	if err := p.Check(h.Describe()); err != nil {
		return err
	}
	if err := p.Apply(h); err != nil {
		return err
	}
	if len(p.Parameters) == 0 {
		return nil
	}
	return r.SetParameters(p.Parameters)
}

// reload applies a preset read back from disk. Switching kernels needs a
// restart.
func reload(h *kernel.Host, r *playback.Renderer, p preset.Preset) error {
	if p.Kernel != h.Describe().Name {
		return fmt.Errorf("kernel changed to %s, restart to switch", p.Kernel)
	}
	return applyPreset(h, r, p)
}
