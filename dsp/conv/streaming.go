package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// StreamingOverlapAdd implements streaming FFT-based convolution using
// overlap-add. It keeps the convolution tail between calls so consecutive
// blocks form one continuous output.
//
// Blocks may be shorter than the configured block size (the last block of
// a file, for example); the tail advances by the actual block length.
type StreamingOverlapAdd struct {
	kernelFFT []complex128

	kernelLen int
	blockSize int
	fftSize   int

	plan *algofft.Plan[complex128]

	spectrum []complex128
	result   []float64

	// tail[i] is the pending contribution to the i-th next output sample.
	tail []float64
}

// NewStreamingOverlapAdd creates a streaming convolver for kernel with a
// maximum block length of blockSize.
func NewStreamingOverlapAdd(kernel []float64, blockSize int) (*StreamingOverlapAdd, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}

	kernelLen := len(kernel)
	fftSize := nextPowerOf2(blockSize + kernelLen - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	soa := &StreamingOverlapAdd{
		kernelFFT: make([]complex128, fftSize),
		kernelLen: kernelLen,
		blockSize: blockSize,
		fftSize:   fftSize,
		plan:      plan,
		spectrum:  make([]complex128, fftSize),
		result:    make([]float64, blockSize+kernelLen-1),
		tail:      make([]float64, kernelLen-1),
	}

	padded := make([]complex128, fftSize)
	for i, v := range kernel {
		padded[i] = complex(v, 0)
	}
	if err := plan.Forward(soa.kernelFFT, padded); err != nil {
		return nil, fmt.Errorf("conv: failed to compute kernel FFT: %w", err)
	}

	return soa, nil
}

// ProcessBlockTo convolves input and writes len(input) samples to output.
// input may be shorter than the block size; output must match its length.
// input and output may alias.
func (soa *StreamingOverlapAdd) ProcessBlockTo(output, input []float64) error {
	n := len(input)
	if n > soa.blockSize {
		return fmt.Errorf("%w: block of %d exceeds %d", ErrLengthMismatch, n, soa.blockSize)
	}
	if len(output) != n {
		return fmt.Errorf("%w: expected %d output samples, got %d", ErrLengthMismatch, n, len(output))
	}
	if n == 0 {
		return nil
	}

	for i := range soa.spectrum {
		soa.spectrum[i] = 0
	}
	for i, v := range input {
		soa.spectrum[i] = complex(v, 0)
	}

	if err := soa.plan.Forward(soa.spectrum, soa.spectrum); err != nil {
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}
	for i, k := range soa.kernelFFT {
		soa.spectrum[i] *= k
	}
	if err := soa.plan.Inverse(soa.spectrum, soa.spectrum); err != nil {
		return fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	resultLen := n + soa.kernelLen - 1
	res := soa.result[:resultLen]
	for i := range res {
		res[i] = real(soa.spectrum[i])
	}
	for i, v := range soa.tail {
		res[i] += v
	}

	copy(output, res[:n])

	// The remaining samples become the new tail. Positions past the old
	// tail length were already included above.
	copy(soa.tail, res[n:])

	return nil
}

// Reset clears the tail buffer (overlap state from previous blocks).
func (soa *StreamingOverlapAdd) Reset() {
	for i := range soa.tail {
		soa.tail[i] = 0
	}
}

// BlockSize returns the maximum block length.
func (soa *StreamingOverlapAdd) BlockSize() int {
	return soa.blockSize
}

// KernelLen returns the kernel length.
func (soa *StreamingOverlapAdd) KernelLen() int {
	return soa.kernelLen
}

// FFTSize returns the FFT size.
func (soa *StreamingOverlapAdd) FFTSize() int {
	return soa.fftSize
}
