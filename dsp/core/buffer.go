package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// EnsurePlanar returns channels buffers of n samples each, reusing buf
// where possible.
func EnsurePlanar(buf [][]float64, channels, n int) [][]float64 {
	if channels <= 0 {
		return buf[:0]
	}
	if cap(buf) < channels {
		grown := make([][]float64, channels)
		copy(grown, buf[:cap(buf)])
		buf = grown
	}
	buf = buf[:channels]
	for ch := range buf {
		buf[ch] = EnsureLen(buf[ch], n)
	}
	return buf
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	clear(buf)
}

// ZeroPlanar clears every channel of buf.
func ZeroPlanar(buf [][]float64) {
	for _, ch := range buf {
		clear(ch)
	}
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto(dst, src []float64) int {
	return copy(dst, src)
}

// Frames returns the common length of all channels of buf. ok is false
// when the channels disagree. An empty buf has zero frames.
func Frames(buf [][]float64) (n int, ok bool) {
	if len(buf) == 0 {
		return 0, true
	}
	n = len(buf[0])
	for _, ch := range buf[1:] {
		if len(ch) != n {
			return n, false
		}
	}
	return n, true
}
