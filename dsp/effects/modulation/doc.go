// Package modulation provides the modulated-delay kernel.
//
// [ModDelay] realizes four classic effects on one shared graph of three
// delay taps, a sine LFO and three fade-and-hold noise sources: tremolo,
// vibrato, flanger and chorus. The active [Topology] only changes mix
// gains and modulation scaling, so switching between effects is a matter
// of fading gains.
package modulation
