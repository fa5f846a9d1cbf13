package kernel

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/cwbudde/algo-fxlab/dsp/core"
	"github.com/cwbudde/algo-fxlab/dsp/param"
)

const defaultDiagnosticBuffer = 16

// Contract violations reported through [Diagnostic].
var (
	ErrChannelMismatch = errors.New("kernel: input and output channel counts differ")
	ErrFrameMismatch   = errors.New("kernel: channel buffers differ in length")
	ErrBlockTooLong    = errors.New("kernel: block exceeds configured block size")
	ErrClosed          = errors.New("kernel: host closed")
)

// Diagnostic reports a problem detected on the audio goroutine.
type Diagnostic struct {
	Kernel string
	// Block is the zero-based index of the block the problem occurred in.
	Block uint64
	// Silenced is set when the block was replaced by silence.
	Silenced bool
	Err      error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: block %d: %v", d.Kernel, d.Block, d.Err)
}

func (d Diagnostic) Unwrap() error { return d.Err }

type hostConfig struct {
	diagnosticBuffer int
}

// HostOption configures a [Host].
type HostOption func(*hostConfig) error

// WithDiagnosticBuffer sets the capacity of the diagnostics channel
// (default 16). Diagnostics that do not fit are counted and dropped.
func WithDiagnosticBuffer(n int) HostOption {
	return func(c *hostConfig) error {
		if n <= 0 {
			return fmt.Errorf("kernel: diagnostic buffer must be > 0: %d", n)
		}
		c.diagnosticBuffer = n
		return nil
	}
}

// Host runs one kernel under the block contract. Post may be called from
// any goroutine; Process and Close belong to the audio goroutine.
type Host struct {
	kernel   Kernel
	desc     Description
	cfg      core.ProcessorConfig
	mailbox  *param.Mailbox
	resolver *param.Resolver

	diags   chan Diagnostic
	dropped atomic.Uint64
	closed  atomic.Bool
	block   atomic.Uint64
}

// NewHost wraps k. cfg bounds the block length the host accepts.
func NewHost(k Kernel, cfg core.ProcessorConfig, opts ...HostOption) (*Host, error) {
	if k == nil {
		return nil, errors.New("kernel: nil kernel")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hc := hostConfig{diagnosticBuffer: defaultDiagnosticBuffer}
	for _, opt := range opts {
		if err := opt(&hc); err != nil {
			return nil, err
		}
	}

	desc := k.Describe()

	return &Host{
		kernel:   k,
		desc:     desc,
		cfg:      cfg,
		mailbox:  param.NewMailbox(desc.Properties...),
		resolver: param.NewResolver(desc.Parameters),
		diags:    make(chan Diagnostic, hc.diagnosticBuffer),
	}, nil
}

// Open instantiates the kernel registered under name and wraps it.
func Open(r *Registry, name string, ctx Context, opts ...HostOption) (*Host, error) {
	k, err := r.New(name, ctx)
	if err != nil {
		return nil, err
	}
	return NewHost(k, ctx.ProcessorConfig, opts...)
}

// Describe returns the wrapped kernel's description.
func (h *Host) Describe() Description { return h.desc }

// Config returns the processor configuration the host enforces.
func (h *Host) Config() core.ProcessorConfig { return h.cfg }

// Post queues a property value for the next block. Only the latest value
// posted before a block boundary is applied. Unknown names are rejected
// here; bad values are reported as diagnostics when the block applies them.
func (h *Host) Post(name string, v param.Value) error {
	if h.closed.Load() {
		return ErrClosed
	}
	return h.mailbox.Post(name, v)
}

// Diagnostics returns the channel diagnostics are delivered on.
func (h *Host) Diagnostics() <-chan Diagnostic { return h.diags }

// Dropped returns the number of diagnostics lost to a full channel.
func (h *Host) Dropped() uint64 { return h.dropped.Load() }

// Blocks returns the number of blocks processed so far.
func (h *Host) Blocks() uint64 { return h.block.Load() }

// Process runs one block: pending properties are applied, the buffers and
// parameters are checked, and the kernel renders into out. On a contract
// violation out is silenced and a diagnostic is emitted. The result is
// false once the host has been closed.
func (h *Host) Process(in, out [][]float64, p param.Block) bool {
	if h.closed.Load() {
		core.ZeroPlanar(out)
		return false
	}

	defer h.block.Add(1)

	h.mailbox.Drain(h.apply)

	n, err := h.check(in, out)
	if err != nil {
		h.silence(out, err)
		return true
	}

	if len(out) == 0 || n == 0 {
		return true
	}

	resolved, err := h.resolver.Resolve(p, n)
	if err != nil {
		h.silence(out, err)
		return true
	}

	return h.kernel.Process(in, out, resolved)
}

func (h *Host) apply(name string, v param.Value) {
	if err := h.kernel.SetProperty(name, v); err != nil {
		h.report(Diagnostic{
			Kernel: h.desc.Name,
			Block:  h.block.Load(),
			Err:    fmt.Errorf("property %s=%s: %w", name, v.AsString(), err),
		})
	}
}

func (h *Host) check(in, out [][]float64) (int, error) {
	n, ok := core.Frames(out)
	if !ok {
		return 0, fmt.Errorf("%w: outputs", ErrFrameMismatch)
	}

	if !h.desc.Source {
		if len(in) != len(out) {
			return 0, fmt.Errorf("%w: %d in, %d out", ErrChannelMismatch, len(in), len(out))
		}

		m, ok := core.Frames(in)
		if !ok || (len(in) > 0 && m != n) {
			return 0, fmt.Errorf("%w: inputs", ErrFrameMismatch)
		}
	}

	if n > h.cfg.BlockSize {
		return 0, fmt.Errorf("%w: %d > %d", ErrBlockTooLong, n, h.cfg.BlockSize)
	}

	return n, nil
}

func (h *Host) silence(out [][]float64, err error) {
	core.ZeroPlanar(out)
	h.report(Diagnostic{Kernel: h.desc.Name, Block: h.block.Load(), Silenced: true, Err: err})
}

func (h *Host) report(d Diagnostic) {
	select {
	case h.diags <- d:
	default:
		h.dropped.Add(1)
	}
}

// Close tears the kernel down. It must not overlap a Process call.
// Further blocks are silent and Process reports false.
func (h *Host) Close() error {
	if h.closed.Swap(true) {
		return nil
	}

	if c, ok := h.kernel.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
