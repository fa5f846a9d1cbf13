package reverb

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-fxlab/dsp/conv"
)

// Convolution is a multichannel convolution reverb. Channel c of the
// input is convolved with impulse response channel c mod len(ir). The
// response is normalized to unit energy on construction.
//
// Bypassed, the dry signal passes at unity and the convolvers keep
// running, so the reverb tail is intact when bypass is released.
type Convolution struct {
	ir        [][]float64
	blockSize int
	engines   []*conv.StreamingOverlapAdd
	wet       []float64
	bypass    bool
}

// NewConvolution creates the kernel for blocks of at most blockSize
// samples. ir is copied.
func NewConvolution(ir [][]float64, blockSize int) (*Convolution, error) {
	if len(ir) == 0 {
		return nil, errors.New("reverb: empty impulse response")
	}
	cp := make([][]float64, len(ir))
	for ch, h := range ir {
		if len(h) == 0 {
			return nil, fmt.Errorf("reverb: impulse response channel %d is empty", ch)
		}
		cp[ch] = append([]float64(nil), h...)
	}
	NormalizeEnergy(cp)

	c := &Convolution{ir: cp, blockSize: blockSize}
	if err := c.Resize(len(cp)); err != nil {
		return nil, err
	}
	return c, nil
}

// Bypass reports whether the dry signal is passed through.
func (c *Convolution) Bypass() bool { return c.bypass }

// SetBypass switches between wet-only and dry-only output.
func (c *Convolution) SetBypass(b bool) { c.bypass = b }

// Channels returns the number of convolvers.
func (c *Convolution) Channels() int { return len(c.engines) }

// IRLength returns the impulse response length in samples.
func (c *Convolution) IRLength() int { return len(c.ir[0]) }

// Resize sets the number of processed channels.
func (c *Convolution) Resize(channels int) error {
	if channels <= 0 {
		return fmt.Errorf("reverb: channels must be > 0: %d", channels)
	}
	if channels <= len(c.engines) {
		c.engines = c.engines[:channels]
		return nil
	}
	for ch := len(c.engines); ch < channels; ch++ {
		e, err := conv.NewStreamingOverlapAdd(c.ir[ch%len(c.ir)], c.blockSize)
		if err != nil {
			return fmt.Errorf("reverb: channel %d: %w", ch, err)
		}
		c.engines = append(c.engines, e)
	}
	return nil
}

// Process convolves each channel of in into out. Blocks longer than the
// configured block size are rejected.
func (c *Convolution) Process(in, out [][]float64) error {
	if len(in) != len(c.engines) {
		if err := c.Resize(len(in)); err != nil {
			return err
		}
	}
	for ch, e := range c.engines {
		x := in[ch]
		if len(c.wet) < len(x) {
			c.wet = make([]float64, len(x))
		}
		wet := c.wet[:len(x)]
		if err := e.ProcessBlockTo(wet, x); err != nil {
			return fmt.Errorf("reverb: %w", err)
		}
		if c.bypass {
			copy(out[ch], x)
		} else {
			copy(out[ch], wet)
		}
	}
	return nil
}

// Reset clears all convolution tails.
func (c *Convolution) Reset() {
	for _, e := range c.engines {
		e.Reset()
	}
}
