// Package nn implements the parameterized modules the named layer applies:
// Embedding, Linear and MultiHeadAttention.
//
// Modules compute positionally on raw tensors. A module parameter may carry
// axis names (see RefineNames); the modules themselves ignore them and leave
// their interpretation to package named.
package nn

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/born-ml/named/internal/tensor"
)

// Module is the base interface for all neural network components.
type Module interface {
	// Parameters returns all trainable parameters, keyed by their names.
	Parameters() []*Parameter
}

// FindParameter returns the parameter of m called name, or nil.
func FindParameter(m Module, name string) *Parameter {
	for _, p := range m.Parameters() {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// RefineNames attaches axis names to the parameter of m called param.
//
// Example:
//
//	layer := nn.NewLinear(10, 3, backend)
//	err := nn.RefineNames(layer, "weight", "label", "dim") // weight is [out=label, in=dim]
func RefineNames(m Module, param string, axisNames ...string) error {
	p := FindParameter(m, param)
	if p == nil {
		return fmt.Errorf("refine names: module has no parameter %q", param)
	}
	return p.RefineNames(axisNames...)
}

// Option configures module construction.
type Option func(*options)

type options struct {
	rng *rand.Rand
}

// WithRand makes weight initialization draw from rng, for reproducible runs.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

func buildOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.rng == nil {
		//nolint:gosec // math/rand is appropriate for ML weight initialization
		o.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return o
}

// xavier returns a float32 tensor with Xavier/Glorot uniform values:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out))).
func xavier(fanIn, fanOut int, shape tensor.Shape, device tensor.Device, rng *rand.Rand) *tensor.RawTensor {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	t := tensor.MustRaw(shape, tensor.Float32, device)
	data := t.AsFloat32()
	for i := range data {
		data[i] = float32((rng.Float64()*2.0 - 1.0) * bound)
	}
	return t
}

// normal returns a float32 tensor with values from N(0, 1).
func normal(shape tensor.Shape, device tensor.Device, rng *rand.Rand) *tensor.RawTensor {
	t := tensor.MustRaw(shape, tensor.Float32, device)
	data := t.AsFloat32()
	for i := range data {
		data[i] = float32(rng.NormFloat64())
	}
	return t
}
