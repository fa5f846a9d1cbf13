// Package kernel defines the block-processing contract shared by every
// effect and source in this module, a registry of the built-in kernels
// and a [Host] that enforces the real-time contract around one kernel.
//
// A kernel is created from a [Context] through its registered [Factory].
// Discrete properties reach it through [Host.Post], which never blocks;
// they are applied at the start of the next block. Automatable parameters
// arrive with each block as a [param.Block] whose arrays hold either one
// value or one value per sample. Contract violations never reach the
// audio thread as errors: the host emits silence for the block and
// reports a [Diagnostic] on a bounded channel instead.
package kernel
