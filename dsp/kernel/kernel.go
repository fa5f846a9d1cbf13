package kernel

import (
	"math/rand/v2"

	"github.com/cwbudde/algo-fxlab/dsp/core"
	"github.com/cwbudde/algo-fxlab/dsp/effects/dynamics"
	"github.com/cwbudde/algo-fxlab/dsp/param"
)

// Description is what a kernel reports about itself: its automatable
// parameters and the names of its discrete properties.
type Description struct {
	Name       string
	Parameters []param.Descriptor
	Properties []string
	// Source kernels only write their outputs and ignore any input.
	Source bool
}

// Kernel is one block-processing unit. All methods are called from the
// audio goroutine; Process must not block, allocate unboundedly or do I/O.
type Kernel interface {
	Describe() Description
	// SetProperty applies a discrete property. Unknown names and values
	// that cannot be represented are rejected and leave the kernel as it was.
	SetProperty(name string, v param.Value) error
	// Process renders one block. in and out have the same channel count
	// and length; p holds every declared parameter. The result reports
	// whether the kernel wants to stay alive.
	Process(in, out [][]float64, p param.Block) bool
}

// Context is the environment a kernel is created in.
type Context struct {
	core.ProcessorConfig

	// Envelopes receives DRC visualization events. Sends never block;
	// events are dropped when the channel is full. Nil disables them.
	Envelopes chan<- dynamics.Envelope
}

// NewContext returns a context for the given processor options.
func NewContext(opts ...core.ProcessorOption) Context {
	return Context{ProcessorConfig: core.ApplyProcessorOptions(opts...)}
}

// RNG returns the random source for the given stream of a kernel. Streams
// with the same seed and index produce the same sequence; a zero seed
// picks a random one.
func (c Context) RNG(stream uint64) *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, stream^0x9e3779b97f4a7c15))
}
