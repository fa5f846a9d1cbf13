package reverb

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// DefaultIRLength is the length of the synthetic impulse response.
const DefaultIRLength = 0.200

// Envelope shapes the synthetic impulse response. Times are in seconds.
type Envelope struct {
	KneeTime, KneeLevel float64
	PeakTime, PeakLevel float64
	// End is where the decay has fallen to half of PeakLevel.
	End float64
}

// DefaultEnvelope returns the envelope for an impulse response of the
// given length: knee at 15 % (0.3), peak at 25 % (0.8), decay to the end.
func DefaultEnvelope(length float64) Envelope {
	return Envelope{
		KneeTime:  0.15 * length,
		KneeLevel: 0.3,
		PeakTime:  0.25 * length,
		PeakLevel: 0.8,
		End:       length,
	}
}

// Clamp orders the control points within [0, length] and bounds levels
// to [0, 1].
func (e Envelope) Clamp(length float64) Envelope {
	e.End = max(min(e.End, length), 0)
	e.PeakTime = max(min(e.PeakTime, e.End), 0)
	e.KneeTime = max(min(e.KneeTime, e.PeakTime), 0)
	e.KneeLevel = max(min(e.KneeLevel, 1), 0)
	e.PeakLevel = max(min(e.PeakLevel, 1), 0)
	return e
}

// At evaluates the envelope at time t.
func (e Envelope) At(t float64) float64 {
	if t < e.KneeTime {
		return e.KneeLevel * t / e.KneeTime
	}
	if t < e.PeakTime {
		c := (e.PeakLevel - e.KneeLevel) / (e.PeakTime - e.KneeTime)
		return (t-e.PeakTime)*c + e.PeakLevel
	}
	decay := e.End - e.PeakTime
	if decay <= 0 {
		return 0
	}
	return e.PeakLevel * math.Exp2(-(t-e.PeakTime)/decay)
}

// SyntheticIR returns a stereo DefaultIRLength impulse response shaped by
// DefaultEnvelope and seeded with seed.
func SyntheticIR(sampleRate float64, seed uint64) ([][]float64, error) {
	rng := rand.New(rand.NewPCG(seed, seed))
	return SyntheticIRWithEnvelope(sampleRate, DefaultIRLength, 2, DefaultEnvelope(DefaultIRLength), rng)
}

// SyntheticIRWithEnvelope returns channels independent noise responses of
// length seconds under env.
func SyntheticIRWithEnvelope(sampleRate, length float64, channels int, env Envelope, rng *rand.Rand) ([][]float64, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("reverb: sample rate must be > 0: %f", sampleRate)
	}
	n := int(sampleRate * length)
	if n <= 0 {
		return nil, fmt.Errorf("reverb: impulse response length must be > 0: %f s", length)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("reverb: channels must be > 0: %d", channels)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	ir := make([][]float64, channels)
	for ch := range ir {
		h := make([]float64, n)
		for i := range h {
			h[i] = (2*rng.Float64() - 1) * env.At(float64(i)/sampleRate)
		}
		ir[ch] = h
	}
	return ir, nil
}

// NormalizeEnergy scales all channels so the mean per-channel energy is 1,
// keeping the channel balance. A silent response is left unchanged.
func NormalizeEnergy(ir [][]float64) {
	if len(ir) == 0 {
		return
	}
	var energy float64
	for _, h := range ir {
		for _, v := range h {
			energy += v * v
		}
	}
	energy /= float64(len(ir))
	if energy == 0 {
		return
	}
	g := 1 / math.Sqrt(energy)
	for _, h := range ir {
		for i := range h {
			h[i] *= g
		}
	}
}
