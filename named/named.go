// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package named adds dimension names to Born tensors.
//
// A named tensor keeps one name per axis. Operations called through this
// package line axes up by name instead of position once the named entry
// points are activated:
//
//	if err := named.Activate(); err != nil {
//	    log.Fatal(err)
//	}
//	defer named.Deactivate()
//
//	x := named.MustNew(raw, backend, "batch", "dim")      // (batch=32, dim=10)
//	layer := nn.NewLinear(10, 3, backend)
//	_ = nn.RefineNames(layer, "weight", "label", "dim")
//	y, err := named.Linear(layer, x)                      // (batch=32, label=3)
//
// Calls that use no names behave exactly as the positional entry points.
// Errors are a *NameError when a name is missing, empty or duplicated, an
// *AlignmentError when names or sizes cannot be matched, and a *StateError
// on activating twice or deactivating while inactive.
package named

import (
	"github.com/born-ml/named/internal/named"
	"github.com/born-ml/named/internal/names"
	"github.com/born-ml/named/nn"
	"github.com/born-ml/named/tensor"
)

// Tensor is a raw tensor with optional per-axis names.
type Tensor = named.Tensor

// Names is an ordered sequence of unique axis names.
type Names = names.Names

// Dim selects axes by position (Axis) or by name (Named).
type Dim = named.Dim

// Ops is the set of entry points the package-level functions dispatch to.
type Ops = named.Ops

// Kind identifies an entry point.
type Kind = named.Kind

// Controller installs and removes the named entry points.
type Controller = named.Controller

// State is the activation state of a Controller.
type State = named.State

// Activation states.
const (
	Unpatched = named.Unpatched
	Patched   = named.Patched
)

// Error kinds.
type (
	NameError      = names.NameError
	AlignmentError = names.AlignmentError
	StateError     = names.StateError
)

// SelfAttentionKeySuffix marks the key copy of the length axis in attention
// weights.
const SelfAttentionKeySuffix = named.SelfAttentionKeySuffix

// New names the axes of raw; no names leaves it unnamed.
func New(raw *tensor.RawTensor, backend tensor.Backend, axisNames ...string) (*Tensor, error) {
	return named.New(raw, backend, axisNames...)
}

// MustNew is New that panics on invalid names.
func MustNew(raw *tensor.RawTensor, backend tensor.Backend, axisNames ...string) *Tensor {
	return named.MustNew(raw, backend, axisNames...)
}

// Wrap returns raw as an unnamed tensor.
func Wrap(raw *tensor.RawTensor, backend tensor.Backend) *Tensor {
	return named.Wrap(raw, backend)
}

// Axis selects an axis by position.
func Axis(i int) Dim { return named.Axis(i) }

// Named selects axes by name.
func Named(axisNames ...string) Dim { return named.Named(axisNames...) }

// EngineOps returns the positional entry points computing on backend.
func EngineOps(backend tensor.Backend) Ops { return named.EngineOps(backend) }

// NamedOps returns the named entry points over base.
func NamedOps(base Ops) Ops { return named.NamedOps(base) }

// NewController returns an unpatched controller over base.
func NewController(base Ops) *Controller { return named.NewController(base) }

// Default returns the controller behind the package-level functions.
func Default() *Controller { return named.Default() }

// Activate installs the named entry points process-wide.
func Activate() error { return named.Activate() }

// Deactivate restores the entry points saved by Activate.
func Deactivate() error { return named.Deactivate() }

// IsActive reports whether the named entry points are installed.
func IsActive() bool { return named.IsActive() }

// IsNameError reports whether err wraps a *NameError.
func IsNameError(err error) bool { return names.IsNameError(err) }

// IsAlignmentError reports whether err wraps an *AlignmentError.
func IsAlignmentError(err error) bool { return names.IsAlignmentError(err) }

// IsStateError reports whether err wraps a *StateError.
func IsStateError(err error) bool { return names.IsStateError(err) }

// Embedding looks up x in e and appends an axis called name.
func Embedding(e *nn.Embedding, x *Tensor, name string) (*Tensor, error) {
	return named.Embedding(e, x, name)
}

// Index replaces the selected axis of x by the axes of index.
func Index(x *Tensor, dim Dim, index *Tensor) (*Tensor, error) {
	return named.Index(x, dim, index)
}

// Gather picks elements of x along the selected axis at index.
func Gather(x *Tensor, dim Dim, index *Tensor) (*Tensor, error) {
	return named.Gather(x, dim, index)
}

// ExpandAs broadcasts x to the names and shape of other.
func ExpandAs(x, other *Tensor) (*Tensor, error) {
	return named.ExpandAs(x, other)
}

// Arange returns 0..n-1 on an axis called name.
func Arange(n int, name string) (*Tensor, error) {
	return named.Arange(n, name)
}

// Cat concatenates tensors along the selected axes into newName.
func Cat(tensors []*Tensor, dim Dim, newName string) (*Tensor, error) {
	return named.Cat(tensors, dim, newName)
}

// Stack joins tensors along a new axis.
func Stack(tensors []*Tensor, dim Dim) (*Tensor, error) {
	return named.Stack(tensors, dim)
}

// Linear applies l along the axis its weight names as input.
func Linear(l *nn.Linear, x *Tensor) (*Tensor, error) {
	return named.Linear(l, x)
}

// SelfAttention attends x to itself with m and returns the output and the
// head-averaged weights.
func SelfAttention(m *nn.MultiHeadAttention, x *Tensor, name string) (*Tensor, *Tensor, error) {
	return named.SelfAttention(m, x, name)
}

// LeakyReLU applies max(x, slope*x) elementwise.
func LeakyReLU(x *Tensor, slope float64) (*Tensor, error) {
	return named.LeakyReLU(x, slope)
}

// ZerosLike returns zeros with the shape, dtype and names of x.
func ZerosLike(x *Tensor) (*Tensor, error) {
	return named.ZerosLike(x)
}
