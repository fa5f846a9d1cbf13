package core

import (
	"errors"
	"fmt"
	"math"
)

// RenderQuantum is the block size audio runtimes call kernels with.
const RenderQuantum = 128

// ErrInvalidConfig reports a ProcessorConfig that cannot drive a kernel.
var ErrInvalidConfig = errors.New("core: invalid processor config")

// ProcessorConfig is the environment a kernel is instantiated in.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
	Channels   int
	// Seed feeds every random source of a kernel. Zero picks a random seed.
	Seed uint64
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns 48 kHz stereo at one render quantum.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 48000,
		BlockSize:  RenderQuantum,
		Channels:   2,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 && !math.IsInf(sampleRate, 0) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithChannels sets the initial channel count.
func WithChannels(channels int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if channels > 0 {
			cfg.Channels = channels
		}
	}
}

// WithSeed makes every random source of the kernel deterministic.
func WithSeed(seed uint64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		cfg.Seed = seed
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate reports whether cfg can drive a kernel.
func (cfg ProcessorConfig) Validate() error {
	switch {
	case !(cfg.SampleRate > 0) || math.IsInf(cfg.SampleRate, 0):
		return fmt.Errorf("%w: sample rate %v", ErrInvalidConfig, cfg.SampleRate)
	case cfg.BlockSize <= 0:
		return fmt.Errorf("%w: block size %d", ErrInvalidConfig, cfg.BlockSize)
	case cfg.Channels <= 0:
		return fmt.Errorf("%w: %d channels", ErrInvalidConfig, cfg.Channels)
	}
	return nil
}

// Nyquist returns half the sample rate.
func (cfg ProcessorConfig) Nyquist() float64 {
	return cfg.SampleRate / 2
}
