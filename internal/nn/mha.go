package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/named/internal/tensor"
)

// MultiHeadAttention implements the multi-head attention mechanism.
//
// Architecture:
//
//	MHA(Q, K, V) = Concat(head_1, ..., head_h) * W_O
//	head_i = SDPA(Q*W_Q_i, K*W_K_i, V*W_V_i)
//
// Inputs are batch-first: [batch, seq, embed_dim].
//
// Example:
//
//	mha := nn.NewMultiHeadAttention(40, 8, backend)
//	output, weights := mha.ForwardWithWeights(x, x, x) // self-attention
type MultiHeadAttention struct {
	WQ       *Linear // Query projection [embed_dim, embed_dim]
	WK       *Linear // Key projection [embed_dim, embed_dim]
	WV       *Linear // Value projection [embed_dim, embed_dim]
	WO       *Linear // Output projection [embed_dim, embed_dim]
	NumHeads int
	HeadDim  int
	EmbedDim int
	backend  tensor.Backend
}

// NewMultiHeadAttention creates a new multi-head attention module.
//
// embedDim must be divisible by numHeads; the head dimension is embedDim / numHeads.
func NewMultiHeadAttention(embedDim, numHeads int, backend tensor.Backend, opts ...Option) (*MultiHeadAttention, error) {
	if numHeads <= 0 || embedDim%numHeads != 0 {
		return nil, fmt.Errorf("multi-head attention: embed_dim (%d) must be divisible by num_heads (%d)", embedDim, numHeads)
	}

	return &MultiHeadAttention{
		WQ:       NewLinear(embedDim, embedDim, backend, opts...),
		WK:       NewLinear(embedDim, embedDim, backend, opts...),
		WV:       NewLinear(embedDim, embedDim, backend, opts...),
		WO:       NewLinear(embedDim, embedDim, backend, opts...),
		NumHeads: numHeads,
		HeadDim:  embedDim / numHeads,
		EmbedDim: embedDim,
		backend:  backend,
	}, nil
}

// Validate checks that query, key and value can be passed to Forward.
func (m *MultiHeadAttention) Validate(query, key, value *tensor.RawTensor) error {
	for i, t := range []*tensor.RawTensor{query, key, value} {
		shape := t.Shape()
		if len(shape) != 3 {
			return fmt.Errorf("multi-head attention: input %d must be 3D [batch, seq, embed], got %v", i, shape)
		}
		if shape[2] != m.EmbedDim {
			return fmt.Errorf("multi-head attention: input %d has embed dim %d, expected %d", i, shape[2], m.EmbedDim)
		}
		if t.DType() != tensor.Float32 {
			return fmt.Errorf("multi-head attention: input %d must be float32, got %s", i, t.DType())
		}
	}
	if query.Shape()[0] != key.Shape()[0] || key.Shape()[0] != value.Shape()[0] {
		return fmt.Errorf("multi-head attention: batch sizes differ")
	}
	if key.Shape()[1] != value.Shape()[1] {
		return fmt.Errorf("multi-head attention: key and value lengths differ")
	}
	return nil
}

// Forward computes multi-head attention and returns the attended values [batch, seq_q, embed_dim].
func (m *MultiHeadAttention) Forward(query, key, value *tensor.RawTensor) *tensor.RawTensor {
	out, _ := m.ForwardWithWeights(query, key, value)
	return out
}

// ForwardWithWeights computes multi-head attention and also returns the
// attention weights averaged over heads.
//
// Returns:
//   - output: [batch, seq_q, embed_dim]
//   - weights: [batch, seq_q, seq_k]
func (m *MultiHeadAttention) ForwardWithWeights(query, key, value *tensor.RawTensor) (*tensor.RawTensor, *tensor.RawTensor) {
	if err := m.Validate(query, key, value); err != nil {
		panic(err.Error())
	}
	b := m.backend
	batch := query.Shape()[0]
	seqQ := query.Shape()[1]
	seqK := key.Shape()[1]

	// 1. Project and split heads: [batch, seq, embed] -> [batch, heads, seq, head_dim]
	q := m.splitHeads(m.WQ.Forward(query), batch, seqQ)
	k := m.splitHeads(m.WK.Forward(key), batch, seqK)
	v := m.splitHeads(m.WV.Forward(value), batch, seqK)

	// 2. Scaled dot-product attention
	attnOut, weights := ScaledDotProductAttention(b, q, k, v, 0)

	// 3. Merge heads: [batch, heads, seq_q, head_dim] -> [batch, seq_q, embed]
	attnOut = b.Reshape(b.Transpose(attnOut, 0, 2, 1, 3), tensor.Shape{batch, seqQ, m.EmbedDim})

	// 4. Output projection
	output := m.WO.Forward(attnOut)

	return output, b.MeanDim(weights, 1, false)
}

func (m *MultiHeadAttention) splitHeads(x *tensor.RawTensor, batch, seq int) *tensor.RawTensor {
	b := m.backend
	x = b.Reshape(x, tensor.Shape{batch, seq, m.NumHeads, m.HeadDim})
	return b.Transpose(x, 0, 2, 1, 3)
}

// Parameters returns all trainable parameters (WQ, WK, WV, WO weights and biases).
func (m *MultiHeadAttention) Parameters() []*Parameter {
	params := make([]*Parameter, 0, 8)
	params = append(params, m.WQ.Parameters()...)
	params = append(params, m.WK.Parameters()...)
	params = append(params, m.WV.Parameters()...)
	params = append(params, m.WO.Parameters()...)
	return params
}

// ScaledDotProductAttention computes softmax(QK^T * scale) V.
//
// Parameters:
//   - query: [batch, heads, seq_q, head_dim]
//   - key: [batch, heads, seq_k, head_dim]
//   - value: [batch, heads, seq_k, head_dim]
//   - scale: scaling factor (0 for auto-compute as 1/sqrt(head_dim))
//
// Returns:
//   - output: [batch, heads, seq_q, head_dim]
//   - weights: [batch, heads, seq_q, seq_k]
func ScaledDotProductAttention(b tensor.Backend, query, key, value *tensor.RawTensor, scale float64) (*tensor.RawTensor, *tensor.RawTensor) {
	if scale == 0 {
		scale = 1.0 / math.Sqrt(float64(query.Shape()[3]))
	}

	kT := b.Transpose(key, 0, 1, 3, 2)
	scores := b.MulScalar(b.BatchMatMul(query, kT), scale)
	weights := b.Softmax(scores, -1)

	return b.BatchMatMul(weights, value), weights
}
