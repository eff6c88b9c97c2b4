package tokenizer

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// Hash is a whitespace tokenizer that maps each word to a hashed id.
// It needs no vocabulary files and cannot decode.
type Hash struct {
	vocab int
}

// NewHash returns a Hash tokenizer producing ids in [0, vocab).
func NewHash(vocab int) *Hash {
	return &Hash{vocab: max(vocab, 1)}
}

// Encode splits text on whitespace and hashes every word.
func (h *Hash) Encode(text string) ([]int32, error) {
	words := strings.Fields(text)
	ids := make([]int32, len(words))
	for i, w := range words {
		f := fnv.New32a()
		_, _ = f.Write([]byte(w))
		ids[i] = int32(f.Sum32() % uint32(h.vocab)) //nolint:gosec // G115: result < vocab.
	}
	return ids, nil
}

// Decode is not supported: hashing loses the words.
func (h *Hash) Decode([]int32) (string, error) {
	return "", fmt.Errorf("hash tokenizer cannot decode")
}

// VocabSize returns the number of distinct ids.
func (h *Hash) VocabSize() int {
	return h.vocab
}

// Name returns "hash".
func (h *Hash) Name() string {
	return "hash"
}
