// Package pipeline runs a small attention tagger over named tensors.
//
// Every tensor the tagger touches carries axis names, and every layer call
// goes through a named.Ops. The model lines its axes up by name, so it needs
// the named entry points (named.NamedOps, or the ones installed by
// named.Activate); the positional ones reject its broadcasts.
package pipeline

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/born-ml/named/internal/experiment"
	"github.com/born-ml/named/internal/named"
	"github.com/born-ml/named/internal/nn"
	"github.com/born-ml/named/internal/tensor"
)

// Axis names used by the tagger.
const (
	AxisLength  = "length"
	AxisBatch   = "batch"
	AxisRepr    = "repr"
	AxisAttn    = "self_attn_repr"
	AxisFeature = "feature"
	AxisLabel   = "label"
)

// Tagger embeds tokens, adds position embeddings, attends over the sequence
// and scores every token against a fixed label set.
type Tagger struct {
	Embed    *nn.Embedding
	Position *nn.Embedding
	Attn     *nn.MultiHeadAttention
	Head     *nn.Linear

	labels []string
	slope  float64
	maxLen int
	logger *slog.Logger
}

// Output holds the results of one forward pass.
type Output struct {
	Logits   *named.Tensor // (length, batch, label)
	Weights  *named.Tensor // (batch, length, length_T)
	Sentence *named.Tensor // (batch, label), logits of each text's last token
}

// NewTagger builds a tagger from cfg with weights drawn from rng.
func NewTagger(cfg experiment.ModelConfig, backend tensor.Backend, rng *rand.Rand, logger *slog.Logger) (*Tagger, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := []nn.Option{nn.WithRand(rng)}

	attn, err := nn.NewMultiHeadAttention(cfg.EmbedDim, cfg.NumHeads, backend, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build attention: %w", err)
	}

	t := &Tagger{
		Embed:    nn.NewEmbedding(cfg.VocabSize, cfg.EmbedDim, backend, opts...),
		Position: nn.NewEmbedding(cfg.MaxLength, cfg.EmbedDim, backend, opts...),
		Attn:     attn,
		Head:     nn.NewLinear(2*cfg.EmbedDim, len(cfg.Labels), backend, opts...),
		labels:   append([]string(nil), cfg.Labels...),
		slope:    cfg.LeakySlope,
		maxLen:   cfg.MaxLength,
		logger:   logger,
	}
	if err := nn.RefineNames(t.Head, "weight", AxisLabel, AxisFeature); err != nil {
		return nil, err
	}
	return t, nil
}

// Labels returns the label set, in logit order.
func (t *Tagger) Labels() []string {
	return append([]string(nil), t.labels...)
}

// MaxLength returns the longest sequence the position table covers.
func (t *Tagger) MaxLength() int {
	return t.maxLen
}

// Forward scores batch with the entry points in ops.
func (t *Tagger) Forward(ops named.Ops, batch *Batch) (*Output, error) {
	ids := batch.IDs
	length, err := ids.Size(AxisLength)
	if err != nil {
		return nil, err
	}
	if length > t.maxLen {
		return nil, fmt.Errorf("sequence length %d exceeds position table of %d", length, t.maxLen)
	}

	emb, err := ops.Embedding(t.Embed, ids, AxisRepr)
	if err != nil {
		return nil, fmt.Errorf("token embedding: %w", err)
	}

	positions, err := ops.Arange(length, AxisLength)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	pos, err := ops.Embedding(t.Position, positions, AxisRepr)
	if err != nil {
		return nil, fmt.Errorf("position embedding: %w", err)
	}
	pos, err = ops.ExpandAs(pos, emb)
	if err != nil {
		return nil, fmt.Errorf("position embedding: %w", err)
	}
	x, err := named.New(ops.Backend().Add(emb.Raw(), pos.Raw()), ops.Backend(), emb.Names()...)
	if err != nil {
		return nil, err
	}

	attn, weights, err := ops.SelfAttention(t.Attn, x, AxisAttn)
	if err != nil {
		return nil, fmt.Errorf("self attention: %w", err)
	}
	attn, err = ops.LeakyReLU(attn, t.slope)
	if err != nil {
		return nil, err
	}

	features, err := ops.Cat([]*named.Tensor{attn, x}, named.Named(AxisAttn, AxisRepr), AxisFeature)
	if err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}
	logits, err := ops.Linear(t.Head, features)
	if err != nil {
		return nil, fmt.Errorf("head: %w", err)
	}

	sentence, err := t.lastToken(ops, logits, batch.Lengths)
	if err != nil {
		return nil, fmt.Errorf("sentence logits: %w", err)
	}

	t.logger.Debug("forward",
		slog.Any("logits", logits),
		slog.Any("weights", weights),
		slog.Any("sentence", sentence))

	return &Output{Logits: logits, Weights: weights, Sentence: sentence}, nil
}

// lastToken gathers the logits of the last real token of every text.
func (t *Tagger) lastToken(ops named.Ops, logits *named.Tensor, lengths []int) (*named.Tensor, error) {
	numLabels := len(t.labels)
	data := make([]int32, len(lengths)*numLabels)
	for b, n := range lengths {
		for l := 0; l < numLabels; l++ {
			data[b*numLabels+l] = int32(max(n-1, 0)) //nolint:gosec // G115: n is a sequence length.
		}
	}
	raw, err := tensor.FromSlice(data, tensor.Shape{len(lengths), numLabels})
	if err != nil {
		return nil, err
	}
	index, err := named.New(raw, ops.Backend(), AxisBatch, AxisLabel)
	if err != nil {
		return nil, err
	}
	return ops.Gather(logits, named.Named(), index)
}

// Prediction is the best label of one token.
type Prediction struct {
	Token int32
	Label string
	Score float32
}

// Predict returns, for every text of batch, the best label of each of its
// tokens. Padding is skipped.
func (t *Tagger) Predict(ops named.Ops, batch *Batch) ([][]Prediction, error) {
	out, err := t.Forward(ops, batch)
	if err != nil {
		return nil, err
	}
	return t.Decode(out, batch)
}

// Decode picks the best label of every token from the logits of out.
func (t *Tagger) Decode(out *Output, batch *Batch) ([][]Prediction, error) {
	logits, err := out.Logits.AlignTo(AxisBatch, AxisLength, AxisLabel)
	if err != nil {
		return nil, err
	}

	shape := logits.Shape()
	length, numLabels := shape[1], shape[2]
	values := logits.Raw().AsFloat32()
	preds := make([][]Prediction, len(batch.Lengths))
	for b, n := range batch.Lengths {
		preds[b] = make([]Prediction, n)
		for i := 0; i < n; i++ {
			row := values[(b*length+i)*numLabels : (b*length+i+1)*numLabels]
			best := argmax(row)
			preds[b][i] = Prediction{Token: batch.Tokens[b][i], Label: t.labels[best], Score: row[best]}
		}
	}
	return preds, nil
}

func argmax(row []float32) int {
	best, score := 0, float32(math.Inf(-1))
	for i, v := range row {
		if v > score {
			best, score = i, v
		}
	}
	return best
}
