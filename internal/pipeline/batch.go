package pipeline

import (
	"fmt"

	"github.com/born-ml/named/internal/named"
	"github.com/born-ml/named/internal/tensor"
	"github.com/born-ml/named/internal/tokenizer"
)

// PadID fills the positions past the end of shorter texts.
const PadID int32 = 0

// Batch is a set of tokenized texts.
type Batch struct {
	Texts   []string
	Tokens  [][]int32     // ids of each text, without padding
	Lengths []int         // tokens kept per text
	IDs     *named.Tensor // (length, batch) int32, right-padded with PadID
}

// NewBatch tokenizes texts, keeping at most maxLength tokens per text.
//
// Each text becomes one (length,) row; the rows are stacked along a new
// batch axis.
func NewBatch(ops named.Ops, tok tokenizer.Tokenizer, texts []string, vocabSize, maxLength int) (*Batch, error) {
	ids, lengths, err := tokenizer.Indices(tok, texts, vocabSize, maxLength, PadID)
	if err != nil {
		return nil, err
	}

	length := ids.Shape()[1]
	data := ids.AsInt32()
	rows := make([]*named.Tensor, len(texts))
	tokens := make([][]int32, len(texts))
	for i := range texts {
		row := data[i*length : (i+1)*length]
		tokens[i] = append([]int32(nil), row[:lengths[i]]...)

		raw, err := tensor.FromSlice(row, tensor.Shape{length})
		if err != nil {
			return nil, err
		}
		if rows[i], err = named.New(raw, ops.Backend(), AxisLength); err != nil {
			return nil, err
		}
	}

	stacked, err := ops.Stack(rows, named.Named(AxisBatch))
	if err != nil {
		return nil, fmt.Errorf("failed to stack batch: %w", err)
	}

	return &Batch{
		Texts:   append([]string(nil), texts...),
		Tokens:  tokens,
		Lengths: lengths,
		IDs:     stacked,
	}, nil
}

// Size returns the number of texts.
func (b *Batch) Size() int {
	return len(b.Lengths)
}
