package named

import (
	"github.com/born-ml/named/internal/names"
	"github.com/born-ml/named/internal/tensor"
)

// Index replaces axis d of x by the axes of index, in place.
//
// Example:
//
//	x: (x=32, y=10, z=10), d: "z", index: (w=3,) -> (x=32, y=10, w=3)
func (o *namedOps) Index(x *Tensor, dim Dim, index *Tensor) (*Tensor, error) {
	if !dim.IsNamed() {
		return o.orig.Index(x, dim, index)
	}

	op := KindIndex.String()
	d, err := dim.single(op)
	if err != nil {
		return nil, err
	}
	if err := checkNamed(KindIndex, x, index); err != nil {
		return nil, err
	}
	pos, err := x.Axis(d)
	if err != nil {
		return nil, names.NameErrorf(op, "name %q not in %v", d, x.names)
	}
	kept := x.names.Without(d)
	for _, name := range index.names {
		if kept.Contains(name) {
			return nil, names.NameErrorf(op, "index name %q collides with %v", name, kept)
		}
	}

	out, err := o.orig.Index(x.Unname(), Axis(pos), index.Unname())
	if err != nil {
		return nil, err
	}
	return withNames(out.raw, out.backend, x.names.ReplaceAt(pos, index.names...)), nil
}

// Gather picks elements of x along axis g at the positions held by index.
//
// The other axes of x must all appear in index, in any order and with equal
// sizes; they are matched by name. Axes only index has are appended. The
// result is named (shared..., extra...) with the shared names in x's order,
// and out[s..., k...] = x[s..., g=index[s..., k...]].
//
// An empty Named() selector gathers along the only axis of x that index
// does not name.
//
// Example:
//
//	x: (batch=32, length=10), index: (batch=32,) -> (batch=32,) along length
func (o *namedOps) Gather(x *Tensor, dim Dim, index *Tensor) (*Tensor, error) {
	if !dim.IsNamed() {
		return o.orig.Gather(x, dim, index)
	}

	op := KindGather.String()
	if err := checkNamed(KindGather, x, index); err != nil {
		return nil, err
	}
	g, err := gatherTarget(op, dim, x.names, index.names)
	if err != nil {
		return nil, err
	}
	if index.names.Contains(g) {
		return nil, names.AlignmentErrorf(op, "index %v must not name the gathered axis %q", index.names, g)
	}

	shared := x.names.Without(g)
	xShape, iShape := x.Shape(), index.Shape()
	for _, name := range shared {
		j := index.names.Index(name)
		if j < 0 {
			return nil, names.AlignmentErrorf(op, "name %q of %v missing from index %v", name, x.names, index.names)
		}
		if size := xShape[x.names.Index(name)]; size != iShape[j] {
			return nil, names.AlignmentErrorf(op, "axis %q has size %d in data but %d in index", name, size, iShape[j])
		}
	}
	extra := index.names.Without(shared...)

	b := x.backend

	// data -> (shared..., g)
	dataPerm, err := names.Permutation(x.names, shared.Append(g))
	if err != nil {
		return nil, err
	}
	data := permute(b, x.raw, dataPerm)

	// index -> (shared..., extra...) -> (shared..., prod(extra))
	idxPerm, err := names.Align(x.names, index.names, shared)
	if err != nil {
		return nil, err
	}
	idx := permute(b, index.raw, idxPerm)

	sharedShape := make(tensor.Shape, len(shared))
	for i, name := range shared {
		sharedShape[i] = xShape[x.names.Index(name)]
	}
	extraShape := make(tensor.Shape, len(extra))
	for i, name := range extra {
		extraShape[i] = iShape[index.names.Index(name)]
	}
	idx = b.Reshape(idx, append(sharedShape.Clone(), extraShape.NumElements()))

	out, err := o.orig.Gather(Wrap(data, b), Axis(-1), Wrap(idx, b))
	if err != nil {
		return nil, err
	}

	outShape := append(sharedShape.Clone(), extraShape...)
	raw := out.backend.Reshape(out.raw, outShape)
	return withNames(raw, out.backend, shared.Append(extra...)), nil
}

func gatherTarget(op string, dim Dim, data, index names.Names) (string, error) {
	switch sel := dim.Names(); len(sel) {
	case 0:
		candidates := data.Without(index...)
		if len(candidates) != 1 {
			return "", names.NameErrorf(op, "cannot infer the gathered axis of %v from index %v", data, index)
		}
		return candidates[0], nil
	case 1:
		if !data.Contains(sel[0]) {
			return "", names.NameErrorf(op, "name %q not in %v", sel[0], data)
		}
		return sel[0], nil
	default:
		return "", names.NameErrorf(op, "expected one axis name to gather along, got %v", dim)
	}
}
