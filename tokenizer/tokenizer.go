// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tokenizer turns text into token ids for named embedding lookups.
//
// Example usage:
//
//	import "github.com/born-ml/named/tokenizer"
//
//	tok, err := tokenizer.New("cl100k_base", 4096)
//	if err != nil {
//	    log.Printf("using %s tokenizer: %v", tok.Name(), err)
//	}
//	ids, lengths, err := tokenizer.Indices(tok, texts, 4096, 64, 0)
package tokenizer

import (
	"github.com/born-ml/named/internal/tokenizer"
	"github.com/born-ml/named/tensor"
)

// Tokenizer is the core interface for text tokenization.
type Tokenizer = tokenizer.Tokenizer

// New returns the tiktoken tokenizer for encoding, falling back to a hash
// tokenizer of fallbackVocab ids. The error reports why the fallback was used.
func New(encoding string, fallbackVocab int) (Tokenizer, error) {
	return tokenizer.New(encoding, fallbackVocab)
}

// NewTikToken creates a new TikToken tokenizer with the specified encoding.
//
// Supported encodings: "cl100k_base" (GPT-4), "p50k_base" and "r50k_base" (GPT-3).
func NewTikToken(encodingName string) (Tokenizer, error) {
	tok, err := tokenizer.NewTikToken(encodingName)
	if err != nil {
		return nil, err
	}
	return tok, nil
}

// NewHash creates a tokenizer hashing whitespace-separated words into vocab ids.
func NewHash(vocab int) Tokenizer {
	return tokenizer.NewHash(vocab)
}

// Indices tokenizes texts into a right-padded [len(texts), length] int32
// tensor and returns the token count of every text.
func Indices(tok Tokenizer, texts []string, vocabSize, maxLength int, pad int32) (*tensor.RawTensor, []int, error) {
	return tokenizer.Indices(tok, texts, vocabSize, maxLength, pad)
}
