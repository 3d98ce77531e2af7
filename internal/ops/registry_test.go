package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceOdd(t *testing.T) {
	cases := map[int]int{
		-3: 1,
		0:  1,
		1:  1,
		2:  3,
		4:  5,
		5:  5,
		10: 11,
	}
	for in, want := range cases {
		assert.Equal(t, want, CoerceOdd(in), "CoerceOdd(%d)", in)
	}
}

func TestRegistryLookupAndOrder(t *testing.T) {
	r := NewRegistry(
		Definition{Kind: "alpha"},
		Definition{Kind: "beta"},
		Definition{Kind: "gamma"},
	)

	assert.Equal(t, []string{"alpha", "beta", "gamma"}, r.Kinds())
	assert.Equal(t, 3, r.Len())

	def, ok := r.Lookup("beta")
	require.True(t, ok)
	assert.Equal(t, "beta", def.Kind)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistryDuplicateKindPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewRegistry(Definition{Kind: "dup"}, Definition{Kind: "dup"})
	})
}

func TestDefaultsApplyOddCoercion(t *testing.T) {
	def := Definition{
		Kind: "blur",
		Params: []ParamSpec{
			{Name: "kernel_size", Type: TypeInt, Min: 1, Max: 31, Default: 4, Odd: true},
			{Name: "sigma", Type: TypeFloat, Min: 0.1, Max: 10, Default: 1.5},
		},
	}

	values := def.Defaults()
	assert.Equal(t, 5, values["kernel_size"])
	assert.Equal(t, 1.5, values["sigma"])
}

func TestResolveClampsAndCoerces(t *testing.T) {
	def := Definition{
		Kind: "blur",
		Params: []ParamSpec{
			{Name: "kernel_size", Type: TypeInt, Min: 1, Max: 31, Default: 5, Odd: true},
			{Name: "sigma", Type: TypeFloat, Min: 0.1, Max: 10, Default: 1.5},
			{Name: "shape", Type: TypeEnum, Options: []string{"rect", "ellipse"}, Default: "rect"},
			{Name: "fast", Type: TypeBool, Default: true},
		},
	}

	resolved := def.Resolve(map[string]interface{}{
		"kernel_size": 100,
		"sigma":       -4.0,
		"shape":       "bogus",
		"fast":        false,
		"stray":       "never read",
	})

	assert.Equal(t, 31, resolved["kernel_size"])
	assert.Equal(t, 0.1, resolved["sigma"])
	assert.Equal(t, "rect", resolved["shape"])
	assert.Equal(t, false, resolved["fast"])
	assert.NotContains(t, resolved, "stray")
}

func TestResolveCoercesEvenToNextOdd(t *testing.T) {
	def := Definition{
		Kind: "blur",
		Params: []ParamSpec{
			{Name: "kernel_size", Type: TypeInt, Min: 1, Max: 31, Default: 5, Odd: true},
		},
	}

	resolved := def.Resolve(map[string]interface{}{"kernel_size": 4})
	assert.Equal(t, 5, resolved["kernel_size"])

	resolved = def.Resolve(map[string]interface{}{"kernel_size": 1})
	assert.Equal(t, 1, resolved["kernel_size"])
}

func TestResolveAcceptsJSONNumbers(t *testing.T) {
	def := Definition{
		Kind: "blur",
		Params: []ParamSpec{
			{Name: "kernel_size", Type: TypeInt, Min: 1, Max: 31, Default: 5, Odd: true},
		},
	}

	// JSON unmarshals numbers as float64.
	resolved := def.Resolve(map[string]interface{}{"kernel_size": float64(8)})
	assert.Equal(t, 9, resolved["kernel_size"])
}

func TestBuiltinCatalog(t *testing.T) {
	r := Builtin()

	for _, kind := range []string{"grayscale", "invert", "gaussian_blur", "threshold", "niblack", "sauvola", "blend_original"} {
		_, ok := r.Lookup(kind)
		assert.True(t, ok, "builtin registry should contain %s", kind)
	}

	blur, ok := r.Lookup("gaussian_blur")
	require.True(t, ok)
	var kernelSpec *ParamSpec
	for i := range blur.Params {
		if blur.Params[i].Name == "kernel_size" {
			kernelSpec = &blur.Params[i]
		}
	}
	require.NotNil(t, kernelSpec)
	assert.True(t, kernelSpec.Odd)
}
