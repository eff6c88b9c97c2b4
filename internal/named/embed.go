package named

import (
	"github.com/born-ml/named/internal/nn"
)

// Embedding appends an axis called name holding the embedding vectors.
// Indices (batch, length) become (batch, length, name).
func (o *namedOps) Embedding(e *nn.Embedding, x *Tensor, name string) (*Tensor, error) {
	if !x.IsNamed() {
		return o.orig.Embedding(e, x, name)
	}
	if err := checkFresh(KindEmbedding, name, x.names); err != nil {
		return nil, err
	}

	out, err := o.orig.Embedding(e, x.Unname(), name)
	if err != nil {
		return nil, err
	}
	return withNames(out.raw, out.backend, x.names.Append(name)), nil
}
