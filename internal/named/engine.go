package named

import (
	"github.com/pkg/errors"

	"github.com/born-ml/named/internal/nn"
	"github.com/born-ml/named/internal/tensor"
)

// engineOps is the positional implementation of Ops. It ignores axis names
// and returns unnamed tensors.
type engineOps struct {
	backend tensor.Backend
}

// EngineOps returns the positional entry points computing on backend.
func EngineOps(backend tensor.Backend) Ops {
	return &engineOps{backend: backend}
}

func (o *engineOps) Backend() tensor.Backend {
	return o.backend
}

func (o *engineOps) Embedding(e *nn.Embedding, x *Tensor, _ string) (*Tensor, error) {
	if err := e.Validate(x.raw); err != nil {
		return nil, errors.WithStack(err)
	}
	return Wrap(e.Forward(x.raw), x.backend), nil
}

func (o *engineOps) Index(x *Tensor, dim Dim, index *Tensor) (*Tensor, error) {
	axis, err := positional(KindIndex, dim, x.Rank())
	if err != nil {
		return nil, err
	}
	if err := checkIndices(KindIndex, index.raw, x.Shape()[axis]); err != nil {
		return nil, err
	}
	return Wrap(x.backend.IndexSelect(x.raw, axis, index.raw), x.backend), nil
}

func (o *engineOps) Gather(x *Tensor, dim Dim, index *Tensor) (*Tensor, error) {
	axis, err := positional(KindGather, dim, x.Rank())
	if err != nil {
		return nil, err
	}

	xShape, iShape := x.Shape(), index.Shape()
	if len(iShape) != len(xShape) {
		return nil, errors.Errorf("%s: index rank %d != input rank %d", KindGather, len(iShape), len(xShape))
	}
	for d := range xShape {
		if d != axis && iShape[d] != xShape[d] {
			return nil, errors.Errorf("%s: index size %d on axis %d, expected %d", KindGather, iShape[d], d, xShape[d])
		}
	}
	if err := checkIndices(KindGather, index.raw, xShape[axis]); err != nil {
		return nil, err
	}
	return Wrap(x.backend.Gather(x.raw, axis, index.raw), x.backend), nil
}

func (o *engineOps) ExpandAs(x, other *Tensor) (*Tensor, error) {
	if err := checkBroadcast(KindExpandAs, x.Shape(), other.Shape()); err != nil {
		return nil, err
	}
	return Wrap(x.backend.Expand(x.raw, other.Shape()), x.backend), nil
}

func (o *engineOps) Arange(n int, _ string) (*Tensor, error) {
	if n <= 0 {
		return nil, errors.Errorf("%s: length must be positive, got %d", KindArange, n)
	}
	return Wrap(o.backend.Arange(n), o.backend), nil
}

func (o *engineOps) Cat(tensors []*Tensor, dim Dim, _ string) (*Tensor, error) {
	if err := checkNotEmpty(KindCat, tensors); err != nil {
		return nil, err
	}
	first := tensors[0]
	axis, err := positional(KindCat, dim, first.Rank())
	if err != nil {
		return nil, err
	}
	if err := checkSameShape(KindCat, tensors, axis); err != nil {
		return nil, err
	}
	return Wrap(first.backend.Cat(raws(tensors), axis), first.backend), nil
}

func (o *engineOps) Stack(tensors []*Tensor, dim Dim) (*Tensor, error) {
	if err := checkNotEmpty(KindStack, tensors); err != nil {
		return nil, err
	}
	first := tensors[0]
	// The new axis may be inserted after the last one.
	axis, err := positional(KindStack, dim, first.Rank()+1)
	if err != nil {
		return nil, err
	}
	if err := checkSameShape(KindStack, tensors, -1); err != nil {
		return nil, err
	}
	return Wrap(first.backend.Stack(raws(tensors), axis), first.backend), nil
}

func (o *engineOps) Linear(l *nn.Linear, x *Tensor) (*Tensor, error) {
	if err := l.Validate(x.raw); err != nil {
		return nil, errors.WithStack(err)
	}
	return Wrap(l.Forward(x.raw), x.backend), nil
}

// SelfAttention takes x as (length, batch, embed), the sequence-first layout,
// and runs the batch-first module on its transpose.
func (o *engineOps) SelfAttention(m *nn.MultiHeadAttention, x *Tensor, _ string) (*Tensor, *Tensor, error) {
	if x.Rank() != 3 {
		return nil, nil, errors.Errorf("%s: expected (length, batch, embed) input, got shape %v", KindSelfAttention, x.Shape())
	}
	b := x.backend
	batchFirst := b.Transpose(x.raw, 1, 0, 2)
	if err := m.Validate(batchFirst, batchFirst, batchFirst); err != nil {
		return nil, nil, errors.WithStack(err)
	}

	out, weights := m.ForwardWithWeights(batchFirst, batchFirst, batchFirst)
	return Wrap(b.Transpose(out, 1, 0, 2), b), Wrap(weights, b), nil
}

func (o *engineOps) LeakyReLU(x *Tensor, slope float64) (*Tensor, error) {
	if err := checkFloat(KindLeakyReLU, x); err != nil {
		return nil, err
	}
	return Wrap(x.backend.LeakyReLU(x.raw, slope), x.backend), nil
}

func (o *engineOps) ZerosLike(x *Tensor) (*Tensor, error) {
	return Wrap(x.backend.Zeros(x.Shape(), x.DType()), x.backend), nil
}

func raws(tensors []*Tensor) []*tensor.RawTensor {
	out := make([]*tensor.RawTensor, len(tensors))
	for i, t := range tensors {
		out[i] = t.raw
	}
	return out
}
