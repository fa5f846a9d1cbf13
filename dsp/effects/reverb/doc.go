// Package reverb provides a convolution reverb kernel and a synthetic
// impulse response generator.
//
// The synthetic response is noise shaped by a three-point envelope: a
// linear rise to a first knee, a linear rise to the peak and an
// exponential decay that halves over the remaining length.
package reverb
