package named

import (
	"github.com/pkg/errors"

	"github.com/born-ml/named/internal/names"
	"github.com/born-ml/named/internal/tensor"
)

// Checks run before any backend call so that the backends, which panic on
// invalid input, only ever see well-formed arguments.

func positional(op Kind, dim Dim, rank int) (int, error) {
	if dim.IsNamed() {
		return 0, names.NameErrorf(op.String(), "selector %v needs named ops, call Activate first", dim)
	}
	axis, err := tensor.NormalizeDim(dim.Position(), rank)
	if err != nil {
		return 0, errors.Wrap(err, op.String())
	}
	return axis, nil
}

func checkIndices(op Kind, index *tensor.RawTensor, bound int) error {
	if index.DType() != tensor.Int32 {
		return errors.Errorf("%s: index must be int32, got %s", op, index.DType())
	}
	for i, v := range index.AsInt32() {
		if v < 0 || int(v) >= bound {
			return errors.Errorf("%s: index %d at position %d out of bounds [0, %d)", op, v, i, bound)
		}
	}
	return nil
}

func checkNotEmpty(op Kind, tensors []*Tensor) error {
	if len(tensors) == 0 {
		return errors.Errorf("%s: at least one tensor required", op)
	}
	for i, t := range tensors {
		if t == nil {
			return errors.Errorf("%s: tensor %d is nil", op, i)
		}
	}
	return nil
}

// checkSameShape checks that every tensor matches the first one in rank and
// dtype, and in size on every axis except skip (-1 to compare all axes).
func checkSameShape(op Kind, tensors []*Tensor, skip int) error {
	first := tensors[0]
	shape := first.Shape()
	for i, t := range tensors[1:] {
		if t.DType() != first.DType() {
			return errors.Errorf("%s: tensor %d has dtype %s, expected %s", op, i+1, t.DType(), first.DType())
		}
		other := t.Shape()
		if len(other) != len(shape) {
			return errors.Errorf("%s: tensor %d has rank %d, expected %d", op, i+1, len(other), len(shape))
		}
		for d := range shape {
			if d != skip && other[d] != shape[d] {
				return errors.Errorf("%s: tensor %d has size %d on axis %d, expected %d", op, i+1, other[d], d, shape[d])
			}
		}
	}
	return nil
}

func checkBroadcast(op Kind, from, to tensor.Shape) error {
	if len(to) < len(from) {
		return errors.Errorf("%s: cannot expand shape %v to fewer axes %v", op, from, to)
	}
	offset := len(to) - len(from)
	for i, size := range from {
		if size != 1 && size != to[offset+i] {
			return errors.Errorf("%s: cannot expand axis %d from %d to %d", op, i, size, to[offset+i])
		}
	}
	return nil
}

func checkFloat(op Kind, t *Tensor) error {
	if !t.DType().IsFloat() {
		return errors.Errorf("%s: expected a float tensor, got %s", op, t.DType())
	}
	return nil
}

// checkFresh reports a NameError if name is empty or already in taken.
func checkFresh(op Kind, name string, taken names.Names) error {
	if name == "" {
		return names.NameErrorf(op.String(), "new axis name must not be empty")
	}
	if taken.Contains(name) {
		return names.NameErrorf(op.String(), "new axis name %q already in %v", name, taken)
	}
	return nil
}

func checkNamed(op Kind, tensors ...*Tensor) error {
	for _, t := range tensors {
		if !t.IsNamed() {
			return names.NameErrorf(op.String(), "tensor of shape %v is unnamed", t.Shape())
		}
	}
	return nil
}
