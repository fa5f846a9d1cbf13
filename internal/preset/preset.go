// Package preset loads kernel presets from JSON files and watches them
// for changes.
//
// A preset names a kernel, its discrete properties and constant values
// for its automatable parameters:
//
//	{
//	  "version": "1.0.0",
//	  "kernel": "delays",
//	  "properties": {"type": "chorus", "bypass": false},
//	  "parameters": {"depth": 0.4, "modulationFrequency": 0.8}
//	}
package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/Masterminds/semver/v3"

	"github.com/cwbudde/algo-fxlab/dsp/kernel"
	"github.com/cwbudde/algo-fxlab/dsp/param"
)

// SupportedVersions is the range of preset format versions this build reads.
const SupportedVersions = ">= 1.0.0, < 2.0.0"

// CurrentVersion is written into new presets.
const CurrentVersion = "1.1.0"

var (
	ErrUnsupportedVersion = errors.New("preset: unsupported version")
	ErrInvalid            = errors.New("preset: invalid preset")
)

var supportedConstraint = mustConstraint(SupportedVersions)

func mustConstraint(expr string) *semver.Constraints {
	c, err := semver.NewConstraint(expr)
	if err != nil {
		panic(err)
	}
	return c
}

// Preset is one saved kernel configuration.
type Preset struct {
	Version    string             `json:"version"`
	Kernel     string             `json:"kernel"`
	Properties map[string]any     `json:"properties,omitempty"`
	Parameters map[string]float64 `json:"parameters,omitempty"`
}

// New returns an empty preset for kernelName at the current version.
func New(kernelName string) Preset {
	return Preset{Version: CurrentVersion, Kernel: kernelName}
}

// Parse decodes and validates a preset.
func Parse(r io.Reader) (Preset, error) {
	var p Preset

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&p); err != nil {
		return Preset{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if err := p.validate(); err != nil {
		return Preset{}, err
	}

	return p, nil
}

// Load reads the preset at path.
func Load(path string) (Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Preset{}, fmt.Errorf("preset: %w", err)
	}
	defer func() { _ = f.Close() }()

	p, err := Parse(f)
	if err != nil {
		return Preset{}, fmt.Errorf("%s: %w", path, err)
	}

	return p, nil
}

// Save writes p to w as indented JSON.
func (p Preset) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func (p Preset) validate() error {
	v, err := semver.NewVersion(p.Version)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedVersion, p.Version, err)
	}

	if !supportedConstraint.Check(v) {
		return fmt.Errorf("%w: %s not in %s", ErrUnsupportedVersion, v, SupportedVersions)
	}

	if p.Kernel == "" {
		return fmt.Errorf("%w: missing kernel", ErrInvalid)
	}

	if _, err := p.PropertyValues(); err != nil {
		return err
	}

	return nil
}

// PropertyValues converts the JSON property values to [param.Value].
func (p Preset) PropertyValues() (map[string]param.Value, error) {
	out := make(map[string]param.Value, len(p.Properties))

	for name, raw := range p.Properties {
		switch v := raw.(type) {
		case bool:
			out[name] = param.Bool(v)
		case float64:
			out[name] = param.Number(v)
		case string:
			out[name] = param.String(v)
		default:
			return nil, fmt.Errorf("%w: property %q has unsupported value %v", ErrInvalid, name, raw)
		}
	}

	return out, nil
}

// Block returns the parameters as block-constant automation.
func (p Preset) Block() param.Block {
	b := make(param.Block, len(p.Parameters))
	for name, v := range p.Parameters {
		b[name] = param.Values{v}
	}
	return b
}

// Check verifies that every property and parameter is declared by desc.
func (p Preset) Check(desc kernel.Description) error {
	if p.Kernel != desc.Name {
		return fmt.Errorf("%w: preset is for %q, not %q", ErrInvalid, p.Kernel, desc.Name)
	}

	for _, name := range slices.Sorted(maps.Keys(p.Properties)) {
		if !slices.Contains(desc.Properties, name) {
			return fmt.Errorf("%w: %s has no property %q", ErrInvalid, desc.Name, name)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(p.Parameters)) {
		if !slices.ContainsFunc(desc.Parameters, func(d param.Descriptor) bool { return d.Name == name }) {
			return fmt.Errorf("%w: %s has no parameter %q", ErrInvalid, desc.Name, name)
		}
	}

	return nil
}

// Apply posts every property to h in name order.
func (p Preset) Apply(h *kernel.Host) error {
	values, err := p.PropertyValues()
	if err != nil {
		return err
	}

	for _, name := range slices.Sorted(maps.Keys(values)) {
		if err := h.Post(name, values[name]); err != nil {
			return fmt.Errorf("preset: %w", err)
		}
	}

	return nil
}
