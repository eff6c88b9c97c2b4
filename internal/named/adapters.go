package named

import (
	"github.com/born-ml/named/internal/tensor"
)

// namedOps implements Ops with the name-aware adapters. Each adapter checks
// and derives names first, strips them, and delegates the numeric work to
// orig. Calls that use no names go to orig unchanged.
type namedOps struct {
	orig Ops
}

// NamedOps returns the name-aware entry points backed by base.
//
// It can be passed around explicitly instead of activating the default
// controller:
//
//	ops := named.NamedOps(named.EngineOps(cpu.New()))
//	out, err := ops.Cat(ts, named.Named("dim"), "cat_dim")
func NamedOps(base Ops) Ops {
	return &namedOps{orig: base}
}

func (o *namedOps) Backend() tensor.Backend {
	return o.orig.Backend()
}

func unnamed(tensors []*Tensor) []*Tensor {
	out := make([]*Tensor, len(tensors))
	for i, t := range tensors {
		out[i] = t.Unname()
	}
	return out
}
