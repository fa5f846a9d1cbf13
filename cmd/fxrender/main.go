// Command fxrender runs a WAV file, or a generated test signal, through
// one effect kernel and writes the result as WAV.
//
// Usage:
//
//	fxrender [flags] [input.wav] output.wav
//
// Without an input file a sine (-tone) or white noise (-noise) of
// -duration seconds is generated.
//
// Examples:
//
//	fxrender -kernel qds -set w=8 -set dither=true -report 6000 in.wav out.wav
//	fxrender -kernel eq -set type=peak -param omegaC=0.3 -param gain=4 in.wav out.wav
//	fxrender -kernel delays -set type=chorus -tail 1 -tone 440 out.wav
//	fxrender -preset chorus.json in.wav out.wav
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cwbudde/algo-fxlab/dsp/core"
	"github.com/cwbudde/algo-fxlab/dsp/kernel"
	"github.com/cwbudde/algo-fxlab/internal/preset"
	"github.com/cwbudde/algo-fxlab/internal/wavfile"
)

const (
	defaultKernel   = "distortion"
	defaultBitDepth = 24
	defaultDuration = 2.0
	defaultToneHz   = 1000.0
	defaultAmp      = 0.5
)

type options struct {
	kernel     string
	presetPath string
	savePath   string
	props      preset.Assignments
	params     preset.Assignments

	sampleRate int
	channels   int
	blockSize  int
	bitDepth   int
	seed       uint64

	toneHz   float64
	noise    bool
	amp      float64
	duration float64
	tail     float64

	reportHz float64
	verbose  bool
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("fxrender: ")

	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	opts, files, err := parseFlags(args)
	if err != nil {
		return err
	}

	p, err := buildPreset(opts)
	if err != nil {
		return err
	}

	var input [][]float64
	output := files[len(files)-1]
	rate, bitDepth := opts.sampleRate, opts.bitDepth

	if len(files) == 2 {
		in, err := wavfile.Read(files[0])
		if err != nil {
			return err
		}
		input, rate = in.Data, in.SampleRate
		if bitDepth == 0 {
			bitDepth = in.BitDepth
		}
		if opts.verbose {
			log.Printf("input: %s, %d Hz, %d channels, %d-bit, %d frames",
				files[0], in.SampleRate, len(in.Data), in.BitDepth, in.Frames())
		}
	}
	if bitDepth == 0 {
		bitDepth = defaultBitDepth
	}

	channels := opts.channels
	if input != nil {
		channels = len(input)
	}

	ctx := kernel.NewContext(
		core.WithSampleRate(float64(rate)),
		core.WithBlockSize(opts.blockSize),
		core.WithChannels(channels),
		core.WithSeed(opts.seed),
	)

	if input == nil {
		input, err = generate(ctx.ProcessorConfig, opts)
		if err != nil {
			return err
		}
	}

	h, err := kernel.Open(kernel.DefaultRegistry(), p.Kernel, ctx)
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	if err := p.Check(h.Describe()); err != nil {
		return err
	}
	if err := p.Apply(h); err != nil {
		return err
	}

	tail := int(opts.tail * float64(rate))
	out, diags := render(h, input, p.Block(), tail)
	for _, d := range diags {
		log.Printf("warning: %v", d)
	}

	if opts.verbose {
		log.Printf("output: %s, %d Hz, %d channels, %d-bit, %d frames (%d blocks)",
			output, rate, len(out), bitDepth, len(out[0]), h.Blocks())
	}

	if err := wavfile.Write(output, out, rate, bitDepth); err != nil {
		return err
	}

	if opts.savePath != "" {
		if err := savePreset(opts.savePath, p); err != nil {
			return err
		}
	}

	if opts.reportHz > 0 {
		return report(os.Stdout, input, out, float64(rate), opts.reportHz)
	}

	return nil
}

func parseFlags(args []string) (options, []string, error) {
	var opts options

	fs := flag.NewFlagSet("fxrender", flag.ContinueOnError)
	fs.StringVar(&opts.kernel, "kernel", "", "kernel name (default "+defaultKernel+", or the preset's kernel)")
	fs.StringVar(&opts.presetPath, "preset", "", "load kernel, properties and parameters from a JSON preset")
	fs.StringVar(&opts.savePath, "save", "", "write the effective preset to this path")
	fs.Var(&opts.props, "set", "set a kernel property, name=value (repeatable)")
	fs.Var(&opts.params, "param", "set a block-constant parameter, name=value (repeatable)")
	fs.IntVar(&opts.sampleRate, "rate", 48000, "sample rate of generated signals in Hz")
	fs.IntVar(&opts.channels, "channels", 2, "channel count of generated signals")
	fs.IntVar(&opts.blockSize, "block", core.RenderQuantum, "processing block size in frames")
	fs.IntVar(&opts.bitDepth, "bits", 0, "output bit depth: 16, 24 or 32 (default: input depth, or 24)")
	fs.Uint64Var(&opts.seed, "seed", 1, "random seed for dither, noise and generated signals (0 = random)")
	fs.Float64Var(&opts.toneHz, "tone", defaultToneHz, "frequency of the generated sine in Hz")
	fs.BoolVar(&opts.noise, "noise", false, "generate white noise instead of a sine")
	fs.Float64Var(&opts.amp, "amp", defaultAmp, "peak amplitude of the generated signal")
	fs.Float64Var(&opts.duration, "duration", defaultDuration, "length of the generated signal in seconds")
	fs.Float64Var(&opts.tail, "tail", 0, "seconds of silence appended to let delays and reverbs ring out")
	fs.Float64Var(&opts.reportHz, "report", 0, "print the added noise energy below and above this frequency")
	fs.BoolVar(&opts.verbose, "v", false, "verbose output")
	fs.Usage = func() {
		out := fs.Output()
		_, _ = fmt.Fprintf(out, "Usage: fxrender [flags] [input.wav] output.wav\n\n")
		_, _ = fmt.Fprintf(out, "Runs audio through one effect kernel.\n")
		_, _ = fmt.Fprintf(out, "Without an input file a test signal is generated.\n\n")
		_, _ = fmt.Fprintf(out, "Kernels: %v\n\nFlags:\n", kernel.DefaultRegistry().Names())
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, nil, err
	}

	files := fs.Args()
	if len(files) < 1 || len(files) > 2 {
		fs.Usage()
		return options{}, nil, errors.New("expected [input.wav] output.wav")
	}

	switch opts.bitDepth {
	case 0, 16, 24, 32:
	default:
		return options{}, nil, fmt.Errorf("unsupported bit depth %d", opts.bitDepth)
	}
	if opts.tail < 0 {
		return options{}, nil, fmt.Errorf("tail must be >= 0: %v", opts.tail)
	}

	return opts, files, nil
}

// buildPreset merges the preset file, if any, with the command line.
// Command-line values win.
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

func savePreset(path string, p preset.Preset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create preset: %w", err)
	}
	if err := p.Save(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
