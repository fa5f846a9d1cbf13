package oversample

import (
	"sync"

	archregistry "github.com/cwbudde/algo-fxlab/dsp/oversample/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

var (
	backend         *archregistry.OpEntry
	backendInitOnce sync.Once
)

func selectBackend() *archregistry.OpEntry {
	backendInitOnce.Do(func() {
		backend = archregistry.Global.Lookup(cpu.DetectFeatures())
		if backend == nil {
			panic("oversample: no backend registered")
		}
	})
	return backend
}

// Backend returns the name of the inner-loop implementation in use.
func Backend() string {
	return selectBackend().Name
}
