package nn

import (
	"fmt"

	"github.com/born-ml/named/internal/names"
	"github.com/born-ml/named/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// A parameter may carry axis names describing its own axes, e.g. a Linear
// weight named ("label", "dim") maps an input axis "dim" to an output axis
// "label".
type Parameter struct {
	name   string           // Parameter name (e.g., "weight", "bias")
	tensor *tensor.RawTensor // The parameter tensor
	axes   names.Names      // Optional axis names, nil when unnamed
}

// NewParameter creates a new parameter.
func NewParameter(name string, t *tensor.RawTensor) *Parameter {
	return &Parameter{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.RawTensor {
	return p.tensor
}

// AxisNames returns the parameter's axis names, or nil if it is unnamed.
func (p *Parameter) AxisNames() names.Names {
	return p.axes.Clone()
}

// IsNamed reports whether axis names were attached.
func (p *Parameter) IsNamed() bool {
	return p.axes != nil
}

// RefineNames attaches axis names; they must label every axis uniquely.
func (p *Parameter) RefineNames(axisNames ...string) error {
	n := names.Of(axisNames...)
	if err := names.Validate(n, p.tensor.Rank()); err != nil {
		return err
	}
	p.axes = n
	return nil
}

// CheckLoad reports whether Load would accept t and axisNames, without
// changing the parameter.
func (p *Parameter) CheckLoad(t *tensor.RawTensor, axisNames names.Names) error {
	if !t.Shape().Equal(p.tensor.Shape()) || t.DType() != p.tensor.DType() {
		return fmt.Errorf("parameter %s: cannot load %s%v into %s%v",
			p.name, t.DType(), t.Shape(), p.tensor.DType(), p.tensor.Shape())
	}
	if axisNames != nil {
		if err := names.Validate(axisNames, t.Rank()); err != nil {
			return err
		}
	}
	return nil
}

// Load copies t into the parameter. Shape and dtype must match; axis names
// are replaced when given.
func (p *Parameter) Load(t *tensor.RawTensor, axisNames names.Names) error {
	if err := p.CheckLoad(t, axisNames); err != nil {
		return err
	}
	if axisNames != nil {
		p.axes = axisNames.Clone()
	}
	copy(p.tensor.Bytes(), t.Bytes())
	return nil
}
