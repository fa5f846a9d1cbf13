package kernel

import (
	"errors"
	"fmt"
	"slices"
)

// Factory builds one kernel instance.
type Factory func(ctx Context) (Kernel, error)

// ErrUnknownKernel is returned for names no factory is registered under.
var ErrUnknownKernel = errors.New("kernel: unknown kernel")

var errDuplicateKernel = errors.New("kernel: duplicate kernel name")

// Registry maps kernel names to their factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return errors.New("kernel: empty kernel name")
	}

	if factory == nil {
		return errors.New("kernel: nil factory")
	}

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", errDuplicateKernel, name)
	}

	r.factories[name] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err.Error())
	}
}

// Lookup returns the factory for name, or nil.
func (r *Registry) Lookup(name string) Factory {
	return r.factories[name]
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// New instantiates the kernel registered under name.
func (r *Registry) New(name string, ctx Context) (Kernel, error) {
	factory := r.Lookup(name)
	if factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
	}

	if err := ctx.Validate(); err != nil {
		return nil, fmt.Errorf("kernel: %s: %w", name, err)
	}

	k, err := factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("kernel: %s: %w", name, err)
	}

	return k, nil
}
