package named

import "github.com/born-ml/named/internal/names"

// Arange names the range's only axis. An empty name builds an unnamed range.
func (o *namedOps) Arange(n int, name string) (*Tensor, error) {
	if name == "" {
		return o.orig.Arange(n, name)
	}

	out, err := o.orig.Arange(n, name)
	if err != nil {
		return nil, err
	}
	return withNames(out.raw, out.backend, names.Of(name)), nil
}

// ZerosLike keeps the names of x.
func (o *namedOps) ZerosLike(x *Tensor) (*Tensor, error) {
	out, err := o.orig.ZerosLike(x.Unname())
	if err != nil {
		return nil, err
	}
	return withNames(out.raw, out.backend, x.names.Clone()), nil
}

// LeakyReLU keeps the names of x.
func (o *namedOps) LeakyReLU(x *Tensor, slope float64) (*Tensor, error) {
	out, err := o.orig.LeakyReLU(x.Unname(), slope)
	if err != nil {
		return nil, err
	}
	return withNames(out.raw, out.backend, x.names.Clone()), nil
}
