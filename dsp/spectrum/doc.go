// Package spectrum implements a real-time spectrum analyser.
//
// The [Analyser] keeps the most recent FFT frame of a mono signal, applies a
// periodic Blackman window and reports smoothed bin magnitudes in decibels.
// It is what the render and playback tools use for their spectrum views.
package spectrum
