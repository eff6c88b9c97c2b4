package nn

import (
	"fmt"

	"github.com/born-ml/named/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input tensor with shape [..., in_features]
//   - W is the weight with shape [out..., in_features]
//   - b is the bias with shape [out...]
//   - y is the output tensor with shape [..., out...]
//
// The output is usually a single axis (NewLinear); NewLinearShaped splits it
// into several, which lets a named weight such as ("head", "label", "dim")
// produce two output axes.
//
// Weights are initialized using Xavier/Glorot initialization.
// Biases are initialized to zeros.
type Linear struct {
	inFeatures int
	outShape   tensor.Shape
	weight     *Parameter
	bias       *Parameter
	backend    tensor.Backend
}

// NewLinear creates a new Linear layer mapping inFeatures to outFeatures.
func NewLinear(inFeatures, outFeatures int, backend tensor.Backend, opts ...Option) *Linear {
	return NewLinearShaped(inFeatures, tensor.Shape{outFeatures}, backend, opts...)
}

// NewLinearShaped creates a Linear layer whose output features form outShape.
func NewLinearShaped(inFeatures int, outShape tensor.Shape, backend tensor.Backend, opts ...Option) *Linear {
	o := buildOptions(opts)
	outFeatures := outShape.NumElements()

	weightShape := append(outShape.Clone(), inFeatures)
	weight := xavier(inFeatures, outFeatures, weightShape, backend.Device(), o.rng)
	bias := tensor.MustRaw(outShape, tensor.Float32, backend.Device())

	return &Linear{
		inFeatures: inFeatures,
		outShape:   outShape.Clone(),
		weight:     NewParameter("weight", weight),
		bias:       NewParameter("bias", bias),
		backend:    backend,
	}
}

// Validate checks that input can be passed to Forward.
func (l *Linear) Validate(input *tensor.RawTensor) error {
	shape := input.Shape()
	if len(shape) == 0 {
		return fmt.Errorf("linear: expected at least 1D input, got a scalar")
	}
	if got := shape[len(shape)-1]; got != l.inFeatures {
		return fmt.Errorf("linear: expected input with %d features, got %d", l.inFeatures, got)
	}
	if input.DType() != tensor.Float32 {
		return fmt.Errorf("linear: expected float32 input, got %s", input.DType())
	}
	return nil
}

// Forward computes the output of the linear layer.
//
// Input shape: [..., in_features]
// Output shape: [..., out...]
func (l *Linear) Forward(input *tensor.RawTensor) *tensor.RawTensor {
	if err := l.Validate(input); err != nil {
		panic(err.Error())
	}

	inShape := input.Shape()
	lead := inShape[:len(inShape)-1]
	rows := lead.NumElements()
	outFeatures := l.outShape.NumElements()

	// [rows, in] @ [in, out] = [rows, out]
	x2d := l.backend.Reshape(input, tensor.Shape{rows, l.inFeatures})
	w2d := l.backend.Reshape(l.weight.Tensor(), tensor.Shape{outFeatures, l.inFeatures})
	output := l.backend.MatMul(x2d, l.backend.Transpose(w2d))

	if l.bias != nil {
		b := l.backend.Reshape(l.bias.Tensor(), tensor.Shape{1, outFeatures})
		output = l.backend.Add(output, b)
	}

	outShape := append(lead.Clone(), l.outShape...)
	return l.backend.Reshape(output, outShape)
}

// Parameters returns [weight, bias].
func (l *Linear) Parameters() []*Parameter {
	if l.bias != nil {
		return []*Parameter{l.weight, l.bias}
	}
	return []*Parameter{l.weight}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutShape returns the shape of the output features.
func (l *Linear) OutShape() tensor.Shape {
	return l.outShape.Clone()
}
