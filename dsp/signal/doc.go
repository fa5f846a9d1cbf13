// Package signal provides signal sources: the block-based white and
// fade-and-hold noise kernels, a sine LFO for modulation, and a small
// offline [Generator] for test tones.
package signal
