package kernel

// DefaultRegistry returns a Registry holding every built-in kernel.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(qdsDescription.Name, newQDS)
	r.MustRegister(ovsDescription.Name, newOVS)
	r.MustRegister(eqDescription.Name, newEQ)
	r.MustRegister(drcDescription.Name, newDRC)
	r.MustRegister(distortionDescription.Name, newDistortion)
	r.MustRegister(noiseDescription.Name, newNoise)
	r.MustRegister(fadeNoiseDescription.Name, newFadeNoise)
	r.MustRegister(delaysDescription.Name, newDelays)
	r.MustRegister(fastconvDescription.Name, newFastconv)

	return r
}
