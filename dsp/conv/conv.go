// Package conv provides a streaming FFT overlap-add convolver for
// block-based processing with long kernels, such as the room impulse
// responses used by the convolution reverb.
//
// Create one convolver per channel and feed it consecutive blocks:
//
//	c, err := conv.NewStreamingOverlapAdd(kernel, blockSize)
//	err = c.ProcessBlockTo(out, in)
package conv

import "errors"

// Errors returned by the convolver.
var (
	ErrEmptyKernel      = errors.New("conv: empty kernel")
	ErrLengthMismatch   = errors.New("conv: buffer length mismatch")
	ErrInvalidBlockSize = errors.New("conv: invalid block size")
)

// nextPowerOf2 returns the smallest power of two not below n, and 1 for n <= 1.
func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
