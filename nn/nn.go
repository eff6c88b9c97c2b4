// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the layers named tensors are applied to.
//
// A layer's parameters may carry axis names. Refining the weight of a Linear
// layer to ("label", "dim") makes named.Linear consume the "dim" axis of its
// input and produce a "label" axis in its place:
//
//	layer := nn.NewLinear(10, 3, backend)
//	if err := nn.RefineNames(layer, "weight", "label", "dim"); err != nil {
//	    log.Fatal(err)
//	}
package nn

import (
	"math/rand"

	"github.com/born-ml/named/internal/nn"
	"github.com/born-ml/named/tensor"
)

// Module is anything that owns parameters.
type Module = nn.Module

// Parameter is a named, trainable tensor with optional axis names.
type Parameter = nn.Parameter

// Option configures layer construction.
type Option = nn.Option

// Embedding maps integer ids to rows of a weight table.
type Embedding = nn.Embedding

// Linear implements y = x @ W.T + b.
type Linear = nn.Linear

// MultiHeadAttention implements batch-first multi-head attention.
type MultiHeadAttention = nn.MultiHeadAttention

// WithRand draws initial weights from rng.
func WithRand(rng *rand.Rand) Option {
	return nn.WithRand(rng)
}

// NewEmbedding creates a table of numEmbeddings vectors of size embeddingDim.
func NewEmbedding(numEmbeddings, embeddingDim int, backend tensor.Backend, opts ...Option) *Embedding {
	return nn.NewEmbedding(numEmbeddings, embeddingDim, backend, opts...)
}

// NewEmbeddingWithWeight creates an embedding over an existing table.
func NewEmbeddingWithWeight(weight *tensor.RawTensor, backend tensor.Backend) (*Embedding, error) {
	return nn.NewEmbeddingWithWeight(weight, backend)
}

// NewLinear creates a Linear layer mapping inFeatures to outFeatures.
func NewLinear(inFeatures, outFeatures int, backend tensor.Backend, opts ...Option) *Linear {
	return nn.NewLinear(inFeatures, outFeatures, backend, opts...)
}

// NewLinearShaped creates a Linear layer whose output features form outShape.
func NewLinearShaped(inFeatures int, outShape tensor.Shape, backend tensor.Backend, opts ...Option) *Linear {
	return nn.NewLinearShaped(inFeatures, outShape, backend, opts...)
}

// NewMultiHeadAttention creates attention over embedDim split into numHeads.
func NewMultiHeadAttention(embedDim, numHeads int, backend tensor.Backend, opts ...Option) (*MultiHeadAttention, error) {
	return nn.NewMultiHeadAttention(embedDim, numHeads, backend, opts...)
}

// FindParameter returns the parameter of m called name, or nil.
func FindParameter(m Module, name string) *Parameter {
	return nn.FindParameter(m, name)
}

// RefineNames names the axes of the parameter of m called param.
func RefineNames(m Module, param string, axisNames ...string) error {
	return nn.RefineNames(m, param, axisNames...)
}
