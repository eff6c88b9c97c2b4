package tokenizer

import (
	"fmt"

	"github.com/born-ml/named/internal/tensor"
)

// Tokenizer is the core interface for text tokenization.
type Tokenizer interface {
	// Encode converts text to token IDs.
	Encode(text string) ([]int32, error)

	// Decode converts token IDs back to text.
	Decode(tokens []int32) (string, error)

	// VocabSize returns the total vocabulary size.
	VocabSize() int

	// Name returns the tokenizer name.
	Name() string
}

// New returns the tiktoken tokenizer for encoding, or a Hash tokenizer of
// fallbackVocab ids when the encoding cannot be loaded (e.g. offline).
// The returned error reports why the fallback was used.
func New(encoding string, fallbackVocab int) (Tokenizer, error) {
	tok, err := NewTikToken(encoding)
	if err != nil {
		return NewHash(fallbackVocab), err
	}
	return tok, nil
}

// Indices tokenizes each text and returns an int32 tensor of shape
// [len(texts), length] together with the token count of every text.
//
// Texts longer than maxLength tokens are truncated (maxLength <= 0 keeps
// everything); shorter ones are right-padded with pad. Token ids are folded
// into [0, vocabSize) so they index an embedding table of that size.
func Indices(tok Tokenizer, texts []string, vocabSize, maxLength int, pad int32) (*tensor.RawTensor, []int, error) {
	if len(texts) == 0 {
		return nil, nil, fmt.Errorf("no texts to tokenize")
	}
	if vocabSize <= 0 || pad < 0 || int(pad) >= vocabSize {
		return nil, nil, fmt.Errorf("pad id %d outside vocabulary of %d", pad, vocabSize)
	}

	rows := make([][]int32, len(texts))
	lengths := make([]int, len(texts))
	length := 0
	for i, text := range texts {
		ids, err := tok.Encode(text)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode text %d: %w", i, err)
		}
		if maxLength > 0 && len(ids) > maxLength {
			ids = ids[:maxLength]
		}
		rows[i] = ids
		lengths[i] = len(ids)
		length = max(length, len(ids))
	}
	if length == 0 {
		return nil, nil, fmt.Errorf("texts produced no tokens")
	}

	data := make([]int32, len(texts)*length)
	for i, ids := range rows {
		row := data[i*length : (i+1)*length]
		for j := range row {
			row[j] = pad
			if j < len(ids) {
				row[j] = ids[j] % int32(vocabSize) //nolint:gosec // G115: vocabSize is a tensor dimension.
			}
		}
	}

	raw, err := tensor.FromSlice(data, tensor.Shape{len(texts), length})
	if err != nil {
		return nil, nil, err
	}
	return raw, lengths, nil
}
