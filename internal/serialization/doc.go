// Package serialization saves and loads named parameters in SafeTensors
// format.
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON, tensor entries plus "__metadata__"]
//	  [Tensor data: raw bytes, in header order]
//
// Axis names are kept in the metadata under "born.names.<tensor>" as a
// comma-separated list, and "born.sha256" holds the SHA-256 checksum of the
// data section. Files without these keys load as unnamed tensors and skip
// the checksum check, so any SafeTensors file with supported dtypes reads.
//
// Example usage:
//
//	entries := []serialization.Entry{{Name: "head.weight", Tensor: w, Names: names.Of("label", "feature")}}
//	if err := serialization.Save("tagger.safetensors", entries, nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	f, err := serialization.Load("tagger.safetensors")
package serialization
