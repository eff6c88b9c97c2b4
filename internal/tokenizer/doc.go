// Package tokenizer turns text into the int32 token ids the embedding layer
// looks up.
//
// Implementations:
//   - TikToken: BPE tokenizer used by GPT-3/GPT-4 (cl100k_base, p50k_base)
//   - Hash: whitespace words hashed into a fixed vocabulary, for offline runs
//
// Example usage:
//
//	tok, err := tokenizer.NewTikToken("cl100k_base")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// [2, length] int32 ids folded into a 4096-entry table, padded with 0.
//	ids, lengths, err := tokenizer.Indices(tok, []string{"Hello, world!", "Hi"}, 4096, 64, 0)
package tokenizer
