// Package oversample implements word-length reduction at an oversampled
// rate.
//
// Each input sample is expanded to L sub-samples by first-order
// interpolation from the previous input, every sub-sample is quantized
// with optional dither and error-feedback noise shaping, and the L
// results are averaged back to one output sample. Spreading the
// quantization noise over an L times wider band lowers the in-band noise
// floor, which noise shaping can then push further upwards.
//
// The [Kernel] exposes the same small surface as a native inner loop
// would: scalar properties (Q, dither, noise-shaping order, L), a
// work buffer and a per-channel block call. The vector primitives of the
// loop come from a backend registry that picks a SIMD implementation when
// the CPU supports it.
package oversample
