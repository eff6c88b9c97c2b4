package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Vocabulary sizes of the supported encodings, excluding special tokens.
var tiktokenVocab = map[string]int{
	"cl100k_base": 100256, // GPT-4, GPT-3.5-turbo
	"p50k_base":   50257,  // GPT-3, Codex
	"r50k_base":   50257,  // GPT-3, davinci
}

var _ Tokenizer = (*TikToken)(nil)

// TikToken wraps the pkoukk/tiktoken-go library for OpenAI tokenizers.
//
// Special tokens such as <|endoftext|> are encoded as ordinary text, so every
// id lies below VocabSize.
type TikToken struct {
	encoding *tiktoken.Tiktoken
	name     string
	vocab    int
}

// NewTikToken creates a TikToken tokenizer for one of the encodings
// "cl100k_base", "p50k_base" or "r50k_base".
//
// tiktoken-go fetches the BPE ranks on first use and caches them in
// TIKTOKEN_CACHE_DIR, so the first call may need network access.
func NewTikToken(encodingName string) (*TikToken, error) {
	vocab, ok := tiktokenVocab[encodingName]
	if !ok {
		return nil, fmt.Errorf("unsupported tiktoken encoding %q", encodingName)
	}

	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}

	return &TikToken{encoding: encoding, name: encodingName, vocab: vocab}, nil
}

// Encode converts text to token IDs.
func (t *TikToken) Encode(text string) ([]int32, error) {
	tokens := t.encoding.EncodeOrdinary(text)

	result := make([]int32, len(tokens))
	for i, tok := range tokens {
		result[i] = int32(tok) //nolint:gosec // G115: Token ID fits in int32 - vocab size < 2^31.
	}
	return result, nil
}

// Decode converts token IDs back to text.
func (t *TikToken) Decode(tokens []int32) (string, error) {
	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		if tok < 0 || int(tok) >= t.vocab {
			return "", fmt.Errorf("token %d at position %d outside vocabulary of %d", tok, i, t.vocab)
		}
		ids[i] = int(tok)
	}
	return t.encoding.Decode(ids), nil
}

// VocabSize returns the number of ordinary tokens.
func (t *TikToken) VocabSize() int {
	return t.vocab
}

// Name returns the encoding name.
func (t *TikToken) Name() string {
	return t.name
}
