package nn

import (
	"fmt"

	"github.com/born-ml/named/internal/tensor"
)

// Embedding is a lookup table that maps discrete indices to dense vectors.
//
// Architecture:
//   - Weight: [NumEmbed, EmbedDim]
//   - Forward: indices [batch, seq] -> embeddings [batch, seq, EmbedDim]
//
// Example:
//
//	embed := nn.NewEmbedding(10000, 256, backend)
//	embeddings := embed.Forward(indices) // indices: int32 [2, 5] -> [2, 5, 256]
type Embedding struct {
	Weight   *Parameter // Embedding weight matrix [NumEmbed, EmbedDim]
	NumEmbed int        // Number of embeddings (vocabulary size)
	EmbedDim int        // Embedding dimension (vector size)
	backend  tensor.Backend
}

// NewEmbedding creates an Embedding layer with weights drawn from N(0, 1).
func NewEmbedding(numEmbeddings, embeddingDim int, backend tensor.Backend, opts ...Option) *Embedding {
	o := buildOptions(opts)
	weight := normal(tensor.Shape{numEmbeddings, embeddingDim}, backend.Device(), o.rng)

	return &Embedding{
		Weight:   NewParameter("weight", weight),
		NumEmbed: numEmbeddings,
		EmbedDim: embeddingDim,
		backend:  backend,
	}
}

// NewEmbeddingWithWeight creates an Embedding layer with pre-initialized weights
// of shape [numEmbeddings, embeddingDim].
func NewEmbeddingWithWeight(weight *tensor.RawTensor, backend tensor.Backend) (*Embedding, error) {
	shape := weight.Shape()
	if len(shape) != 2 {
		return nil, fmt.Errorf("embedding weight must be 2D, got shape %v", shape)
	}

	return &Embedding{
		Weight:   NewParameter("weight", weight),
		NumEmbed: shape[0],
		EmbedDim: shape[1],
		backend:  backend,
	}, nil
}

// Validate checks that indices can be looked up without panicking the backend.
func (e *Embedding) Validate(indices *tensor.RawTensor) error {
	if indices.DType() != tensor.Int32 {
		return fmt.Errorf("embedding: indices must be int32, got %s", indices.DType())
	}
	for _, idx := range indices.AsInt32() {
		if idx < 0 || int(idx) >= e.NumEmbed {
			return fmt.Errorf("embedding: index %d out of bounds [0, %d)", idx, e.NumEmbed)
		}
	}
	return nil
}

// Forward maps each index to its embedding vector.
//
// indices: int32 tensor of any shape [...]; returns [..., EmbedDim].
// Panics if any index is out of bounds [0, NumEmbed).
func (e *Embedding) Forward(indices *tensor.RawTensor) *tensor.RawTensor {
	return e.backend.Embedding(e.Weight.Tensor(), indices)
}

// Parameters returns the list of trainable parameters.
func (e *Embedding) Parameters() []*Parameter {
	return []*Parameter{e.Weight}
}
