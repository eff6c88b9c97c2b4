package named

import (
	"github.com/born-ml/named/internal/names"
)

// Cat concatenates tensors along their merge axes into one axis called
// newName.
//
// dim holds either one merge name shared by every input or one merge name per
// input. The remaining names must form the same set in every input, with the
// same sizes; inputs are aligned to the first one, whose order the result
// keeps.
//
// Example:
//
//	(batch=32, dim_first=10), (batch=32, dim_second=20),
//	Named("dim_first", "dim_second"), "dim" -> (batch=32, dim=30)
func (o *namedOps) Cat(tensors []*Tensor, dim Dim, newName string) (*Tensor, error) {
	if !dim.IsNamed() {
		return o.orig.Cat(tensors, dim, newName)
	}

	op := KindCat.String()
	if err := checkNotEmpty(KindCat, tensors); err != nil {
		return nil, err
	}
	if err := checkNamed(KindCat, tensors...); err != nil {
		return nil, err
	}
	merge, err := mergeNames(op, dim, len(tensors))
	if err != nil {
		return nil, err
	}
	for i, t := range tensors {
		if !t.names.Contains(merge[i]) {
			return nil, names.NameErrorf(op, "merge name %q not in input %d %v", merge[i], i, t.names)
		}
	}

	first := tensors[0]
	rest := first.names.Without(merge[0])
	if err := checkFresh(KindCat, newName, rest); err != nil {
		return nil, err
	}
	pos := first.names.Index(merge[0])

	aligned := make([]*Tensor, len(tensors))
	for i, t := range tensors {
		if other := t.names.Without(merge[i]); !other.SameSet(rest) {
			return nil, names.AlignmentErrorf(op, "input %d keeps names %v, expected %v", i, other, rest)
		}
		for _, name := range rest {
			want, _ := first.Size(name)
			if got, _ := t.Size(name); got != want {
				return nil, names.AlignmentErrorf(op, "axis %q of input %d has size %d, expected %d", name, i, got, want)
			}
		}

		target := first.names.ReplaceAt(pos, merge[i])
		perm, err := names.Permutation(t.names, target)
		if err != nil {
			return nil, err
		}
		aligned[i] = Wrap(permute(t.backend, t.raw, perm), t.backend)
	}

	out, err := o.orig.Cat(aligned, Axis(pos), newName)
	if err != nil {
		return nil, err
	}
	return withNames(out.raw, out.backend, first.names.ReplaceAt(pos, newName)), nil
}

func mergeNames(op string, dim Dim, n int) ([]string, error) {
	sel := dim.Names()
	switch len(sel) {
	case 1:
		merge := make([]string, n)
		for i := range merge {
			merge[i] = sel[0]
		}
		return merge, nil
	case n:
		return sel, nil
	default:
		return nil, names.NameErrorf(op, "expected one merge name or %d, got %v", n, dim)
	}
}

// Stack joins tensors with identical names along a new trailing axis.
// dim holds the new axis name.
//
// Example:
//
//	(batch=32, dim=10) x2, Named("length") -> (batch=32, dim=10, length=2)
func (o *namedOps) Stack(tensors []*Tensor, dim Dim) (*Tensor, error) {
	if !dim.IsNamed() {
		return o.orig.Stack(tensors, dim)
	}

	op := KindStack.String()
	name, err := dim.single(op)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty(KindStack, tensors); err != nil {
		return nil, err
	}
	if err := checkNamed(KindStack, tensors...); err != nil {
		return nil, err
	}

	first := tensors[0]
	for i, t := range tensors[1:] {
		if !t.names.Equal(first.names) {
			return nil, names.AlignmentErrorf(op, "input %d is named %v, expected %v", i+1, t.names, first.names)
		}
	}
	if err := checkFresh(KindStack, name, first.names); err != nil {
		return nil, err
	}

	out, err := o.orig.Stack(unnamed(tensors), Axis(first.Rank()))
	if err != nil {
		return nil, err
	}
	return withNames(out.raw, out.backend, first.names.Append(name)), nil
}
