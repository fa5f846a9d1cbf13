package modulation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTopology reports an unrecognized effect name.
var ErrUnknownTopology = errors.New("modulation: unknown topology")

// Topology selects the effect realized by [ModDelay].
type Topology int

const (
	Tremolo Topology = iota
	Vibrato
	Flanger
	Chorus
	topologyCount
)

type topologySpec struct {
	name string
	// maxDepth scales the depth parameter: a gain for tremolo, seconds of
	// delay otherwise.
	maxDepth float64
	delayWet float64
	dry      float64
	// maxFrequency is the upper end of the useful modulation rate.
	maxFrequency float64
}

var topologySpecs = [topologyCount]topologySpec{
	Tremolo: {name: "tremolo", maxDepth: 0.5, delayWet: 0, dry: 0, maxFrequency: 20},
	Vibrato: {name: "vibrato", maxDepth: 0.003, delayWet: 1, dry: 0, maxFrequency: 5},
	Flanger: {name: "flanger", maxDepth: 0.002, delayWet: 1, dry: 1, maxFrequency: 1},
	Chorus:  {name: "chorus", maxDepth: 0.015, delayWet: 0.3, dry: 1, maxFrequency: 5},
}

// Topologies returns all effects in declaration order.
func Topologies() []Topology {
	return []Topology{Tremolo, Vibrato, Flanger, Chorus}
}

// Valid reports whether t names a known effect.
func (t Topology) Valid() bool { return t >= 0 && t < topologyCount }

func (t Topology) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Topology(%d)", int(t))
	}
	return topologySpecs[t].name
}

// MaxDepth returns the modulation depth at depth = 1.
func (t Topology) MaxDepth() float64 { return topologySpecs[t].maxDepth }

// MaxFrequency returns the highest modulation rate offered for t, in Hz.
func (t Topology) MaxFrequency() float64 { return topologySpecs[t].maxFrequency }

// ParseTopology resolves an effect name, case-insensitively.
func ParseTopology(name string) (Topology, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for t := range topologyCount {
		if topologySpecs[t].name == n {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTopology, name)
}

// mix holds the four output gains of the graph.
type mix struct {
	tremolo float64
	delay   float64
	chorus  float64
	dry     float64
}

const chorusWet = 0.3

func (t Topology) mix(bypass bool) mix {
	if bypass {
		return mix{dry: 1}
	}
	m := mix{delay: topologySpecs[t].delayWet, dry: topologySpecs[t].dry}
	switch t {
	case Tremolo:
		m.tremolo = 1
	case Chorus:
		m.chorus = chorusWet
	}
	return m
}

// taps is the delay-path configuration: the depth scale and which
// modulator drives the taps.
type taps struct {
	maxDepth float64
	sine     float64
	noise    float64
}

func (t Topology) taps() taps {
	if t == Chorus {
		return taps{maxDepth: topologySpecs[t].maxDepth, noise: 1}
	}
	return taps{maxDepth: topologySpecs[t].maxDepth, sine: 1}
}
