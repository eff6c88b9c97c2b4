package named

import (
	"github.com/born-ml/named/internal/names"
	"github.com/born-ml/named/internal/nn"
)

// SelfAttentionKeySuffix marks the key copy of the length axis in attention
// weights: weights over (length, length) are named (length, length+suffix).
const SelfAttentionKeySuffix = "_T"

// Linear applies l along the axis its weight names as input.
//
// A weight named (out..., in) consumes the axis of x called in and puts the
// out axes in its place; the other axes keep their order. An unnamed weight
// is applied positionally to the last axis.
//
// Example:
//
//	weight: (label=3, dim=10), x: (batch=32, dim=10) -> (batch=32, label=3)
func (o *namedOps) Linear(l *nn.Linear, x *Tensor) (*Tensor, error) {
	weight := l.Weight()
	if !weight.IsNamed() || !x.IsNamed() {
		return o.orig.Linear(l, x)
	}

	op := KindLinear.String()
	wn := weight.AxisNames()
	in, outNames := wn[len(wn)-1], wn[:len(wn)-1]
	pos := x.names.Index(in)
	if pos < 0 {
		return nil, names.NameErrorf(op, "weight input name %q not in %v", in, x.names)
	}
	kept := x.names.Without(in)
	for _, name := range outNames {
		if kept.Contains(name) {
			return nil, names.NameErrorf(op, "weight output name %q already in %v", name, kept)
		}
	}

	// Move the input axis last, apply, then put the output axes back at pos.
	moved := kept.Append(in)
	toLast, err := names.Permutation(x.names, moved)
	if err != nil {
		return nil, err
	}
	out, err := o.orig.Linear(l, Wrap(permute(x.backend, x.raw, toLast), x.backend))
	if err != nil {
		return nil, err
	}

	result := x.names.ReplaceAt(pos, outNames...)
	back, err := names.Permutation(kept.Append(outNames...), result)
	if err != nil {
		return nil, err
	}
	return withNames(permute(out.backend, out.raw, back), out.backend, result), nil
}

// SelfAttention attends x, named (length, batch, repr), to itself with m.
//
// Returns the output named (length, batch, name) and the head-averaged
// weights named (batch, length, length+SelfAttentionKeySuffix).
func (o *namedOps) SelfAttention(m *nn.MultiHeadAttention, x *Tensor, name string) (*Tensor, *Tensor, error) {
	if !x.IsNamed() {
		return o.orig.SelfAttention(m, x, name)
	}

	op := KindSelfAttention.String()
	if x.Rank() != 3 {
		return nil, nil, names.NameErrorf(op, "expected (length, batch, repr), got %v", x.names)
	}
	length, batch := x.names[0], x.names[1]
	if err := checkFresh(KindSelfAttention, name, names.Of(length, batch)); err != nil {
		return nil, nil, err
	}
	key := length + SelfAttentionKeySuffix
	if key == batch {
		return nil, nil, names.NameErrorf(op, "key axis name %q collides with batch axis", key)
	}

	out, weights, err := o.orig.SelfAttention(m, x.Unname(), name)
	if err != nil {
		return nil, nil, err
	}
	return withNames(out.raw, out.backend, names.Of(length, batch, name)),
		withNames(weights.raw, weights.backend, names.Of(batch, length, key)), nil
}
