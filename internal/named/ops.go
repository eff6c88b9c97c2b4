package named

import (
	"github.com/born-ml/named/internal/nn"
	"github.com/born-ml/named/internal/tensor"
)

// Kind identifies one entry point of Ops.
type Kind int

// Entry points.
const (
	KindEmbedding Kind = iota
	KindIndex
	KindGather
	KindExpandAs
	KindArange
	KindCat
	KindStack
	KindLinear
	KindSelfAttention
	KindLeakyReLU
	KindZerosLike
)

var kindNames = [...]string{
	KindEmbedding:     "embedding",
	KindIndex:         "index",
	KindGather:        "gather",
	KindExpandAs:      "expand_as",
	KindArange:        "arange",
	KindCat:           "cat",
	KindStack:         "stack",
	KindLinear:        "linear",
	KindSelfAttention: "self_attention",
	KindLeakyReLU:     "leaky_relu",
	KindZerosLike:     "zeros_like",
}

// String returns the entry point name, as used in error messages.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds returns every entry point of Ops.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Ops is the closed set of entry points the named layer redefines.
//
// Calls with unnamed tensors and positional Dims behave like the Born
// backends. The name-aware implementation (NamedOps) applies the rules of
// each adapter and falls back to the wrapped Ops otherwise.
type Ops interface {
	// Embedding looks up the rows of e for the int32 indices in x.
	// Named: appends an axis called name.
	Embedding(e *nn.Embedding, x *Tensor, name string) (*Tensor, error)

	// Index replaces the selected axis of x by the axes of index, picking
	// slices of x at the indexed positions.
	Index(x *Tensor, dim Dim, index *Tensor) (*Tensor, error)

	// Gather picks, along the selected axis of x, the elements named by index.
	Gather(x *Tensor, dim Dim, index *Tensor) (*Tensor, error)

	// ExpandAs broadcasts x to the shape of other.
	ExpandAs(x, other *Tensor) (*Tensor, error)

	// Arange returns the int32 vector 0..n-1.
	// Named: the single axis is called name.
	Arange(n int, name string) (*Tensor, error)

	// Cat concatenates tensors along the selected axis.
	// Named: the merged axis is called newName.
	Cat(tensors []*Tensor, dim Dim, newName string) (*Tensor, error)

	// Stack joins tensors of one shape along a new axis.
	// Named: dim holds the name of the new trailing axis.
	Stack(tensors []*Tensor, dim Dim) (*Tensor, error)

	// Linear applies l to the last axis of x.
	// Named: a named weight (out..., in) maps the axis called in.
	Linear(l *nn.Linear, x *Tensor) (*Tensor, error)

	// SelfAttention attends x, laid out as (length, batch, repr), to itself.
	// Returns the output (length, batch, repr') and the head-averaged
	// weights (batch, length, length').
	SelfAttention(m *nn.MultiHeadAttention, x *Tensor, name string) (*Tensor, *Tensor, error)

	// LeakyReLU computes max(0, x) + slope * min(0, x) element-wise.
	LeakyReLU(x *Tensor, slope float64) (*Tensor, error)

	// ZerosLike returns zeros with the shape and dtype of x.
	ZerosLike(x *Tensor) (*Tensor, error)

	// Backend returns the backend used for tensors the entry points create.
	Backend() tensor.Backend
}
