// Package names implements name sequences for tensor axes and the alignment
// rules between them.
//
// A Names value is an ordered sequence of unique, non-empty axis labels;
// position i labels axis i. The package does not depend on any tensor
// representation, so every rule here is testable on plain sequences.
package names

import (
	"slices"
	"strings"
)

// Names is an ordered sequence of axis names.
type Names []string

// Of returns a Names holding the given names.
func Of(names ...string) Names {
	return Names(slices.Clone(names))
}

// Validate checks that names label exactly rank axes, each name non-empty and unique.
func Validate(names Names, rank int) error {
	if len(names) != rank {
		return NameErrorf("validate", "got %d names %v for a tensor of rank %d", len(names), names, rank)
	}
	return names.checkUnique("validate")
}

func (n Names) checkUnique(op string) error {
	seen := make(map[string]struct{}, len(n))
	for i, name := range n {
		if name == "" {
			return NameErrorf(op, "empty name at position %d in %v", i, n)
		}
		if _, dup := seen[name]; dup {
			return NameErrorf(op, "duplicate name %q in %v", name, n)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Rename returns a copy of seq with names replaced according to mapping.
// Every key of mapping must be present in seq and the result must stay unique.
func Rename(seq Names, mapping map[string]string) (Names, error) {
	out := seq.Clone()
	for from, to := range mapping {
		i := seq.Index(from)
		if i < 0 {
			return nil, NameErrorf("rename", "name %q not in %v", from, seq)
		}
		out[i] = to
	}
	if err := out.checkUnique("rename"); err != nil {
		return nil, err
	}
	return out, nil
}

// Clone returns a copy of n.
func (n Names) Clone() Names {
	if n == nil {
		return nil
	}
	return slices.Clone(n)
}

// Index returns the position of name, or -1.
func (n Names) Index(name string) int {
	return slices.Index(n, name)
}

// Contains reports whether name is in n.
func (n Names) Contains(name string) bool {
	return n.Index(name) >= 0
}

// Equal reports whether n and other hold the same names in the same order.
func (n Names) Equal(other Names) bool {
	return slices.Equal(n, other)
}

// SameSet reports whether n and other hold the same names, in any order.
func (n Names) SameSet(other Names) bool {
	if len(n) != len(other) {
		return false
	}
	for _, name := range n {
		if !other.Contains(name) {
			return false
		}
	}
	return true
}

// Without returns n with the given names removed, preserving order.
func (n Names) Without(drop ...string) Names {
	out := make(Names, 0, len(n))
	for _, name := range n {
		if !slices.Contains(drop, name) {
			out = append(out, name)
		}
	}
	return out
}

// ReplaceAt returns n with the name at position i replaced by repl (zero or more names).
func (n Names) ReplaceAt(i int, repl ...string) Names {
	out := make(Names, 0, len(n)-1+len(repl))
	out = append(out, n[:i]...)
	out = append(out, repl...)
	out = append(out, n[i+1:]...)
	return out
}

// Append returns n followed by extra.
func (n Names) Append(extra ...string) Names {
	out := make(Names, 0, len(n)+len(extra))
	out = append(out, n...)
	return append(out, extra...)
}

// String formats n as a tuple, e.g. "(batch, length)".
func (n Names) String() string {
	return "(" + strings.Join(n, ", ") + ")"
}
