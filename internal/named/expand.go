package named

import (
	"github.com/born-ml/named/internal/names"
	"github.com/born-ml/named/internal/tensor"
)

// ExpandAs broadcasts x to the names and shape of other. Every name of x must
// appear in other; the axes of x are moved into other's order and the missing
// ones are broadcast.
//
// Example:
//
//	x: (batch=32,), other: (batch=32, repr=10) -> (batch=32, repr=10)
func (o *namedOps) ExpandAs(x, other *Tensor) (*Tensor, error) {
	if !x.IsNamed() || !other.IsNamed() {
		return o.orig.ExpandAs(x, other)
	}

	op := KindExpandAs.String()
	xShape, target := x.Shape(), other.Shape()
	for i, name := range x.names {
		j := other.names.Index(name)
		if j < 0 {
			return nil, names.NameErrorf(op, "name %q of %v not in target %v", name, x.names, other.names)
		}
		if xShape[i] != 1 && xShape[i] != target[j] {
			return nil, names.AlignmentErrorf(op, "axis %q has size %d, cannot expand to %d", name, xShape[i], target[j])
		}
	}

	// Reorder x's axes as they appear in other, then give the absent ones size 1.
	order := names.Matching(other.names, x.names)
	perm, err := names.Permutation(x.names, order)
	if err != nil {
		return nil, err
	}
	raw := permute(x.backend, x.raw, perm)

	viewShape := make(tensor.Shape, len(other.names))
	for j, name := range other.names {
		viewShape[j] = 1
		if i := x.names.Index(name); i >= 0 {
			viewShape[j] = xShape[i]
		}
	}
	raw = x.backend.Reshape(raw, viewShape)

	out, err := o.orig.ExpandAs(Wrap(raw, x.backend), other.Unname())
	if err != nil {
		return nil, err
	}
	return withNames(out.raw, out.backend, other.names.Clone()), nil
}
