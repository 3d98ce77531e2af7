// Operation registry: fixed catalog of image operations with parameter schemas
package ops

import (
	"fmt"

	"gocv.io/x/gocv"
)

// ParamType enumerates the value types a parameter descriptor can declare.
type ParamType string

const (
	TypeInt   ParamType = "int"
	TypeFloat ParamType = "float"
	TypeBool  ParamType = "bool"
	TypeEnum  ParamType = "enum"
)

// ParamSpec describes one tunable parameter for UI generation and validation.
type ParamSpec struct {
	Name        string      `json:"name"`
	Type        ParamType   `json:"type"`
	Min         float64     `json:"min,omitempty"`
	Max         float64     `json:"max,omitempty"`
	Step        float64     `json:"step,omitempty"`
	Default     interface{} `json:"default"`
	Options     []string    `json:"options,omitempty"`
	Odd         bool        `json:"odd,omitempty"`
	Description string      `json:"description,omitempty"`
}

// Context carries the read-only run context every transform receives.
// Original is the run's unprocessed source buffer; transforms must never
// mutate or release it.
type Context struct {
	Original gocv.Mat
}

// Transform produces exactly one newly allocated BGRA result from a BGRA
// source. The source is never mutated or released by the callee; any
// intermediate Mat the callee allocates must be closed before returning.
type Transform func(src gocv.Mat, params map[string]interface{}, ctx Context) (gocv.Mat, error)

// Definition is one immutable registry entry.
type Definition struct {
	Kind        string
	Title       string
	Description string
	Params      []ParamSpec
	Transform   Transform
}

// Defaults seeds a fresh parameter map from the schema, with the odd-kernel
// coercion already applied.
func (d Definition) Defaults() map[string]interface{} {
	values := make(map[string]interface{}, len(d.Params))
	for _, spec := range d.Params {
		values[spec.Name] = spec.coerce(spec.Default)
	}
	return values
}

// Resolve produces the values handed to the transform: schema defaults
// overlaid with the supplied values, numerics clamped to bounds and coerced
// odd where the schema demands it. Keys not declared by the schema are
// dropped from the resolved view.
func (d Definition) Resolve(params map[string]interface{}) map[string]interface{} {
	resolved := make(map[string]interface{}, len(d.Params))
	for _, spec := range d.Params {
		value, ok := params[spec.Name]
		if !ok {
			value = spec.Default
		}
		resolved[spec.Name] = spec.coerce(value)
	}
	return resolved
}

// Coerce normalizes a single value against the named parameter's descriptor.
// Unknown names pass through unchanged.
func (d Definition) Coerce(name string, value interface{}) interface{} {
	for _, spec := range d.Params {
		if spec.Name == name {
			return spec.coerce(value)
		}
	}
	return value
}

func (s ParamSpec) coerce(value interface{}) interface{} {
	switch s.Type {
	case TypeInt:
		n := toInt(value, int(s.Min))
		n = clampInt(n, int(s.Min), int(s.Max))
		if s.Odd {
			n = CoerceOdd(n)
		}
		return n
	case TypeFloat:
		f := toFloat(value, s.Min)
		if f < s.Min {
			f = s.Min
		}
		if f > s.Max {
			f = s.Max
		}
		return f
	case TypeBool:
		if b, ok := value.(bool); ok {
			return b
		}
		if b, ok := s.Default.(bool); ok {
			return b
		}
		return false
	case TypeEnum:
		if str, ok := value.(string); ok {
			for _, opt := range s.Options {
				if opt == str {
					return str
				}
			}
		}
		if str, ok := s.Default.(string); ok {
			return str
		}
		if len(s.Options) > 0 {
			return s.Options[0]
		}
		return ""
	}
	return value
}

// CoerceOdd maps any integer to the nearest odd integer >= 1: values below
// one become one, even values are incremented by one.
func CoerceOdd(n int) int {
	if n < 1 {
		return 1
	}
	if n%2 == 0 {
		return n + 1
	}
	return n
}

func clampInt(n, min, max int) int {
	if max > min {
		if n < min {
			return min
		}
		if n > max {
			return max
		}
	}
	return n
}

func toInt(value interface{}, fallback int) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	}
	return fallback
}

func toFloat(value interface{}, fallback float64) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return fallback
}

// Registry is the process-wide, read-only operation table. It is fixed at
// construction; adding a capability means passing another Definition to
// NewRegistry, not mutating a live registry.
type Registry struct {
	order []string
	byKey map[string]Definition
}

// NewRegistry builds a registry from the given definitions. Kind collisions
// are a programming error.
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{
		order: make([]string, 0, len(defs)),
		byKey: make(map[string]Definition, len(defs)),
	}
	for _, def := range defs {
		if _, dup := r.byKey[def.Kind]; dup {
			panic(fmt.Sprintf("ops: duplicate operation kind %q", def.Kind))
		}
		r.order = append(r.order, def.Kind)
		r.byKey[def.Kind] = def
	}
	return r
}

// Lookup resolves a kind to its definition.
func (r *Registry) Lookup(kind string) (Definition, bool) {
	def, ok := r.byKey[kind]
	return def, ok
}

// Kinds returns the operation kinds in registration order. The order is
// stable and drives the "add operation" list in the UI.
func (r *Registry) Kinds() []string {
	kinds := make([]string, len(r.order))
	copy(kinds, r.order)
	return kinds
}

// Len reports the number of registered operations.
func (r *Registry) Len() int {
	return len(r.order)
}
