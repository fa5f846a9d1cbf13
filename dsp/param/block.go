package param

import (
	"errors"
	"fmt"
)

var (
	// ErrLengthMismatch reports an automation array that is neither of
	// length 1 nor of the block length.
	ErrLengthMismatch = errors.New("param: automation length mismatch")
	// ErrUnknownProperty reports a discrete property the kernel does not declare.
	ErrUnknownProperty = errors.New("param: unknown property")
	// ErrType reports a property value of the wrong kind.
	ErrType = errors.New("param: wrong value type")
)

// Descriptor declares one automatable parameter of a kernel.
type Descriptor struct {
	Name    string
	Default float64
	Min     float64
	Max     float64
}

// Values is the automation of one parameter for one block.
type Values []float64

// At returns the value for sample i. A length-1 array is constant for
// the whole block.
func (v Values) At(i int) float64 {
	if len(v) == 1 {
		return v[0]
	}
	return v[i]
}

// Constant reports whether v holds one value for the whole block.
func (v Values) Constant() bool {
	return len(v) == 1
}

// Block maps parameter names to their automation for one block.
type Block map[string]Values

// Get returns the automation for name, or nil.
func (b Block) Get(name string) Values {
	return b[name]
}

// Validate checks every array in b against blockSize.
func (b Block) Validate(blockSize int) error {
	for name, v := range b {
		if len(v) != 1 && len(v) != blockSize {
			return fmt.Errorf("%w: %q has %d values for block of %d", ErrLengthMismatch, name, len(v), blockSize)
		}
	}
	return nil
}

// Resolver turns a possibly sparse [Block] into one holding every
// declared parameter, substituting defaults for missing entries. The
// default arrays are allocated once, so Resolve does not allocate in
// steady state.
type Resolver struct {
	descs    []Descriptor
	defaults map[string]Values
	resolved Block
}

// NewResolver prepares a resolver for the given descriptors.
func NewResolver(descs []Descriptor) *Resolver {
	r := &Resolver{
		descs:    append([]Descriptor(nil), descs...),
		defaults: make(map[string]Values, len(descs)),
		resolved: make(Block, len(descs)),
	}
	for _, d := range descs {
		r.defaults[d.Name] = Values{d.Default}
	}
	return r
}

// Descriptors returns the declared parameters.
func (r *Resolver) Descriptors() []Descriptor {
	return r.descs
}

// Resolve validates in against blockSize and fills defaults. The
// returned Block is owned by the resolver and reused by the next call.
func (r *Resolver) Resolve(in Block, blockSize int) (Block, error) {
	if err := in.Validate(blockSize); err != nil {
		return nil, err
	}

	for _, d := range r.descs {
		if v, ok := in[d.Name]; ok && len(v) > 0 {
			r.resolved[d.Name] = v
		} else {
			r.resolved[d.Name] = r.defaults[d.Name]
		}
	}

	return r.resolved, nil
}
