// Package param delivers parameter updates to running kernels.
//
// Two kinds of parameters exist. Discrete properties (strings, numbers,
// booleans) are posted from a control goroutine into a [Mailbox] and
// picked up by the audio goroutine at the next block boundary; only the
// latest value posted before the boundary is applied. Automatable
// parameters arrive as a [Block]: one []float64 per name, either of
// length 1 (constant for the block) or of the block length (one value per
// sample).
//
// [Ramp] renders click-free automation on the control side: it cancels
// the ramp in flight and approaches the new target exponentially over
// 50 ms.
package param
