package names

// Align computes a permutation of b's axes that places the names in on in the
// same relative order they have in a. The remaining axes of b follow in their
// original order. Applying the result with a positional transpose yields
// b.Permute(perm).
//
// Every name in on must be present in both a and b.
func Align(a, b Names, on []string) ([]int, error) {
	for _, name := range on {
		if !a.Contains(name) {
			return nil, AlignmentErrorf("align", "name %q missing from %v", name, a)
		}
		if !b.Contains(name) {
			return nil, AlignmentErrorf("align", "name %q missing from %v", name, b)
		}
	}

	perm := make([]int, 0, len(b))
	// Shared names in a's order.
	for _, name := range a {
		if contains(on, name) {
			perm = append(perm, b.Index(name))
		}
	}
	for i, name := range b {
		if !contains(on, name) {
			perm = append(perm, i)
		}
	}
	return perm, nil
}

// Matching returns the names present in both a and b, in a's order.
func Matching(a, b Names) Names {
	out := make(Names, 0, min(len(a), len(b)))
	for _, name := range a {
		if b.Contains(name) {
			out = append(out, name)
		}
	}
	return out
}

// Permutation returns perm such that from.Permute(perm) equals to.
// Both sequences must hold the same set of names.
func Permutation(from, to Names) ([]int, error) {
	if !from.SameSet(to) {
		return nil, AlignmentErrorf("permute", "name sets differ: %v vs %v", from, to)
	}
	perm := make([]int, len(to))
	for i, name := range to {
		perm[i] = from.Index(name)
	}
	return perm, nil
}

// Permute returns n reordered so that position i holds n[perm[i]].
func (n Names) Permute(perm []int) Names {
	out := make(Names, len(perm))
	for i, p := range perm {
		out[i] = n[p]
	}
	return out
}

// IsIdentity reports whether perm leaves every axis in place.
func IsIdentity(perm []int) bool {
	for i, p := range perm {
		if i != p {
			return false
		}
	}
	return true
}

func contains(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}
