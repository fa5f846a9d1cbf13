package preset

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-fxlab/dsp/param"
)

// Assignment is one name=value pair given on a command line.
type Assignment struct {
	Name  string
	Value param.Value
}

// Assignments collects repeated name=value flags. It implements
// flag.Value.
type Assignments []Assignment

func (a *Assignments) String() string {
	if a == nil {
		return ""
	}
	parts := make([]string, len(*a))
	for i, x := range *a {
		parts[i] = x.Name + "=" + x.Value.AsString()
	}
	return strings.Join(parts, ",")
}

func (a *Assignments) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	*a = append(*a, Assignment{Name: name, Value: param.Parse(value)})
	return nil
}

// Override sets properties from props and parameters from params,
// replacing values already in p.
func (p *Preset) Override(props, params Assignments) error {
	if len(props) > 0 && p.Properties == nil {
		p.Properties = make(map[string]any, len(props))
	}
	for _, a := range props {
		p.Properties[a.Name] = jsonValue(a.Value)
	}

	if len(params) > 0 && p.Parameters == nil {
		p.Parameters = make(map[string]float64, len(params))
	}
	for _, a := range params {
		v, err := a.Value.AsFloat()
		if err != nil {
			return fmt.Errorf("preset: parameter %s: %w", a.Name, err)
		}
		p.Parameters[a.Name] = v
	}

	return nil
}

// jsonValue converts v to the type encoding/json decodes it back to.
func jsonValue(v param.Value) any {
	switch v.Kind {
	case param.KindBool:
		return v.Bool
	case param.KindNumber:
		return v.Num
	default:
		return v.Str
	}
}
