// Package playback drives a [kernel.Host] in real time.
//
// A [Renderer] pulls blocks from a [Source], runs them through the host
// and serves the result as interleaved little-endian float32 PCM through
// io.Reader, the format the oto audio context consumes. Parameter changes
// from the control side are ramped over 50 ms before they reach the kernel.
package playback
