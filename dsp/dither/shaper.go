package dither

// DotFunc computes sum(a[i]*b[i]) over len(a) == len(b) elements.
type DotFunc func(a, b []float64) float64

func dotScalar(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// FIRShaper implements error-feedback noise shaping for several channels.
//
// The typical usage cycle per sample is:
//  1. shaped := shaper.Shape(ch, input)
//  2. quantized := round(shaped + dither)
//  3. shaper.Record(ch, quantized - shaped)
//
// History is stored newest first: hist[0] is the error of the previous
// sample. Storage for [MaxShapingOrder] taps is reserved up front, so
// changing the order never allocates.
//
// A disabled shaper passes input through Shape unchanged but keeps
// recording, so re-enabling it resumes from the live error history.
type FIRShaper struct {
	coeffs   [MaxShapingOrder]float64
	order    int
	disabled bool
	history  [][MaxShapingOrder]float64
	dot      DotFunc
}

// NewFIRShaper creates a shaper with the filter for order and channels
// channels of history.
func NewFIRShaper(order, channels int) (*FIRShaper, error) {
	s := &FIRShaper{
		history: make([][MaxShapingOrder]float64, channels),
		dot:     dotScalar,
	}
	if err := s.SetOrder(order); err != nil {
		return nil, err
	}
	return s, nil
}

// SetDot replaces the dot-product routine used by Shape. A nil fn restores
// the scalar loop.
func (s *FIRShaper) SetDot(fn DotFunc) {
	if fn == nil {
		fn = dotScalar
	}
	s.dot = fn
}

// Order returns the active filter order (0 when disabled).
func (s *FIRShaper) Order() int { return s.order }

// Enabled reports whether Shape subtracts the filtered history.
func (s *FIRShaper) Enabled() bool { return !s.disabled }

// SetEnabled switches the feedback subtraction. History is untouched.
func (s *FIRShaper) SetEnabled(on bool) { s.disabled = !on }

// SetOrder switches the coefficient set. History is reset when the order
// changes.
func (s *FIRShaper) SetOrder(order int) error {
	c, err := ShapingCoefficients(order)
	if err != nil {
		return err
	}
	if order == s.order && order != 0 {
		return nil
	}

	s.coeffs = [MaxShapingOrder]float64{}
	copy(s.coeffs[:], c)
	s.order = order
	s.Reset()

	return nil
}

// Channels returns the number of channels with history.
func (s *FIRShaper) Channels() int { return len(s.history) }

// Resize adapts history to channels, resetting it when the count changes.
func (s *FIRShaper) Resize(channels int) {
	if channels == len(s.history) {
		return
	}
	if cap(s.history) >= channels {
		s.history = s.history[:channels]
	} else {
		s.history = make([][MaxShapingOrder]float64, channels)
	}
	s.Reset()
}

// Grow appends cleared history for channels beyond the current count.
// Existing channels keep theirs.
func (s *FIRShaper) Grow(channels int) {
	if channels > len(s.history) {
		s.history = append(s.history, make([][MaxShapingOrder]float64, channels-len(s.history))...)
	}
}

// Shape subtracts the filtered error history of channel ch from input.
func (s *FIRShaper) Shape(ch int, input float64) float64 {
	if s.order == 0 || s.disabled {
		return input
	}
	return input - s.dot(s.coeffs[:s.order], s.history[ch][:s.order])
}

// Record shifts the history of channel ch and stores the newest error.
func (s *FIRShaper) Record(ch int, quantizationError float64) {
	if s.order == 0 {
		return
	}
	h := &s.history[ch]
	copy(h[1:s.order], h[:s.order-1])
	h[0] = quantizationError
}

// History returns the error history of channel ch, newest first.
func (s *FIRShaper) History(ch int) []float64 {
	return s.history[ch][:s.order]
}

// Reset clears the error history of every channel.
func (s *FIRShaper) Reset() {
	for i := range s.history {
		s.history[i] = [MaxShapingOrder]float64{}
	}
}
