// Package named attaches ordered axis names to raw tensors and implements the
// name-aware versions of a closed set of operations: embedding lookup,
// advanced indexing, gather, expand, range construction, concatenation,
// stacking, linear application, and multi-head self-attention.
//
// Every operation is an entry point of Ops. EngineOps provides the positional
// defaults; NamedOps wraps an Ops with the name-aware adapters. A Controller
// swaps one for the other, and the package-level functions dispatch through
// the default controller.
//
// Example:
//
//	backend := cpu.New()
//	named.Activate()
//	defer named.Deactivate()
//
//	x, _ := named.New(raw, backend, "batch", "length")
//	emb, _ := named.Embedding(embedding, x, "emb") // (batch, length, emb)
package named

import (
	"fmt"
	"log/slog"

	"github.com/born-ml/named/internal/names"
	"github.com/born-ml/named/internal/tensor"
)

// Tensor is a raw tensor, the backend that computes on it, and an optional
// sequence of axis names.
//
// When names are set, there is exactly one unique name per axis. A Tensor
// never changes after construction; renaming returns a new Tensor sharing the
// same raw storage.
type Tensor struct {
	raw     *tensor.RawTensor
	backend tensor.Backend
	names   names.Names
}

// New wraps raw with the given axis names.
// Returns a NameError if the names do not label every axis uniquely.
// A rank-0 tensor built with no names is named by the empty sequence.
func New(raw *tensor.RawTensor, backend tensor.Backend, axisNames ...string) (*Tensor, error) {
	n := names.Of(axisNames...)
	if n == nil {
		n = names.Names{}
	}
	if err := names.Validate(n, raw.Rank()); err != nil {
		return nil, err
	}
	return &Tensor{raw: raw, backend: backend, names: n}, nil
}

// Wrap wraps raw without names.
func Wrap(raw *tensor.RawTensor, backend tensor.Backend) *Tensor {
	return &Tensor{raw: raw, backend: backend}
}

// MustNew is New for names known to be valid. It panics on error.
func MustNew(raw *tensor.RawTensor, backend tensor.Backend, axisNames ...string) *Tensor {
	t, err := New(raw, backend, axisNames...)
	if err != nil {
		panic(err)
	}
	return t
}

// withNames returns a tensor over raw carrying n, which callers have derived
// from already validated inputs.
func withNames(raw *tensor.RawTensor, backend tensor.Backend, n names.Names) *Tensor {
	return &Tensor{raw: raw, backend: backend, names: n}
}

// Raw returns the underlying raw tensor.
func (t *Tensor) Raw() *tensor.RawTensor {
	return t.raw
}

// Backend returns the backend that computes on t.
func (t *Tensor) Backend() tensor.Backend {
	return t.backend
}

// Names returns a copy of the axis names, or nil if t is unnamed.
func (t *Tensor) Names() names.Names {
	return t.names.Clone()
}

// IsNamed reports whether t carries axis names.
func (t *Tensor) IsNamed() bool {
	return t.names != nil
}

// Shape returns the shape of t.
func (t *Tensor) Shape() tensor.Shape {
	return t.raw.Shape()
}

// Rank returns the number of axes.
func (t *Tensor) Rank() int {
	return t.raw.Rank()
}

// DType returns the element type.
func (t *Tensor) DType() tensor.DataType {
	return t.raw.DType()
}

// Axis returns the position of the axis called name.
func (t *Tensor) Axis(name string) (int, error) {
	if !t.IsNamed() {
		return 0, names.NameErrorf("axis", "tensor of shape %v is unnamed", t.Shape())
	}
	i := t.names.Index(name)
	if i < 0 {
		return 0, names.NameErrorf("axis", "name %q not in %v", name, t.names)
	}
	return i, nil
}

// Size returns the length of the axis called name.
func (t *Tensor) Size(name string) (int, error) {
	i, err := t.Axis(name)
	if err != nil {
		return 0, err
	}
	return t.Shape()[i], nil
}

// RefineNames names the axes of an unnamed tensor. On a named tensor the
// names must equal the existing ones.
func (t *Tensor) RefineNames(axisNames ...string) (*Tensor, error) {
	n := names.Of(axisNames...)
	if t.IsNamed() && !t.names.Equal(n) {
		return nil, names.NameErrorf("refine_names", "cannot refine %v to %v", t.names, n)
	}
	return New(t.raw, t.backend, n...)
}

// Rename returns t with axes renamed according to mapping.
func (t *Tensor) Rename(mapping map[string]string) (*Tensor, error) {
	if !t.IsNamed() {
		return nil, names.NameErrorf("rename", "tensor of shape %v is unnamed", t.Shape())
	}
	n, err := names.Rename(t.names, mapping)
	if err != nil {
		return nil, err
	}
	return withNames(t.raw, t.backend, n), nil
}

// AlignTo returns t with its axes permuted into the given name order.
// order must hold exactly the names of t.
func (t *Tensor) AlignTo(order ...string) (*Tensor, error) {
	if !t.IsNamed() {
		return nil, names.NameErrorf("align_to", "tensor of shape %v is unnamed", t.Shape())
	}
	to := names.Of(order...)
	perm, err := names.Permutation(t.names, to)
	if err != nil {
		return nil, err
	}
	return withNames(permute(t.backend, t.raw, perm), t.backend, to), nil
}

// Unname returns t without names, sharing the raw storage.
func (t *Tensor) Unname() *Tensor {
	return Wrap(t.raw, t.backend)
}

// String returns a short description of the names and shape.
func (t *Tensor) String() string {
	if !t.IsNamed() {
		return fmt.Sprintf("Tensor(shape=%v, dtype=%s)", t.Shape(), t.DType())
	}
	return fmt.Sprintf("Tensor(names=%v, shape=%v, dtype=%s)", t.names, t.Shape(), t.DType())
}

// LogValue implements slog.LogValuer.
func (t *Tensor) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("names", t.names.String()),
		slog.Any("shape", t.Shape()),
		slog.String("dtype", t.DType().String()),
	)
}

// permute transposes raw unless perm is the identity.
func permute(b tensor.Backend, raw *tensor.RawTensor, perm []int) *tensor.RawTensor {
	if names.IsIdentity(perm) {
		return raw
	}
	return b.Transpose(raw, perm...)
}
