package named

import (
	"math/rand"
	"testing"

	"github.com/born-ml/named/internal/backend/cpu"
	"github.com/born-ml/named/internal/names"
	"github.com/born-ml/named/internal/nn"
	"github.com/born-ml/named/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	t       *testing.T
	backend *cpu.CPUBackend
	rng     *rand.Rand
	ops     Ops
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := cpu.New()
	return &fixture{
		t:       t,
		backend: backend,
		rng:     rand.New(rand.NewSource(7)),
		ops:     NamedOps(EngineOps(backend)),
	}
}

func (f *fixture) randn(shape tensor.Shape, axisNames ...string) *Tensor {
	f.t.Helper()
	raw, err := tensor.Randn(shape, f.rng)
	require.NoError(f.t, err)
	return f.wrap(raw, axisNames...)
}

func (f *fixture) randint(n int, shape tensor.Shape, axisNames ...string) *Tensor {
	f.t.Helper()
	raw, err := tensor.RandInt(n, shape, f.rng)
	require.NoError(f.t, err)
	return f.wrap(raw, axisNames...)
}

func (f *fixture) ints(data []int32, shape tensor.Shape, axisNames ...string) *Tensor {
	f.t.Helper()
	raw, err := tensor.FromSlice(data, shape)
	require.NoError(f.t, err)
	return f.wrap(raw, axisNames...)
}

func (f *fixture) floats(data []float32, shape tensor.Shape, axisNames ...string) *Tensor {
	f.t.Helper()
	raw, err := tensor.FromSlice(data, shape)
	require.NoError(f.t, err)
	return f.wrap(raw, axisNames...)
}

func (f *fixture) wrap(raw *tensor.RawTensor, axisNames ...string) *Tensor {
	f.t.Helper()
	if len(axisNames) == 0 {
		return Wrap(raw, f.backend)
	}
	x, err := New(raw, f.backend, axisNames...)
	require.NoError(f.t, err)
	return x
}

func hasNames(t *testing.T, x *Tensor, want ...string) {
	t.Helper()
	assert.Equal(t, names.Of(want...), x.Names())
}

func hasShape(t *testing.T, x *Tensor, want ...int) {
	t.Helper()
	assert.Equal(t, tensor.Shape(want), x.Shape())
}

func TestNew(t *testing.T) {
	backend := cpu.New()
	raw := tensor.MustRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)

	x, err := New(raw, backend, "batch", "length")
	require.NoError(t, err)
	assert.True(t, x.IsNamed())
	assert.Equal(t, len(x.Names()), x.Rank())
	hasNames(t, x, "batch", "length")

	size, err := x.Size("length")
	require.NoError(t, err)
	assert.Equal(t, 3, size)

	_, err = x.Size("time")
	assert.True(t, names.IsNameError(err))

	tests := []struct {
		name  string
		names []string
	}{
		{"too few", []string{"batch"}},
		{"too many", []string{"a", "b", "c"}},
		{"duplicate", []string{"a", "a"}},
		{"empty", []string{"a", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(raw, backend, tt.names...)
			assert.True(t, names.IsNameError(err), "got %v", err)
		})
	}

	assert.Panics(t, func() { MustNew(raw, backend, "a") })
}

func TestNew_Scalar(t *testing.T) {
	backend := cpu.New()
	raw, err := tensor.FromSlice([]float32{3}, tensor.Shape{})
	require.NoError(t, err)

	x, err := New(raw, backend)
	require.NoError(t, err)
	assert.True(t, x.IsNamed())
	assert.Empty(t, x.Names())
	assert.NotNil(t, x.Names())

	assert.False(t, Wrap(raw, backend).IsNamed())

	_, err = New(raw, backend, "a")
	assert.True(t, names.IsNameError(err))
}

func TestTensor_Renaming(t *testing.T) {
	f := newFixture(t)
	x := f.randn(tensor.Shape{2, 3})
	assert.False(t, x.IsNamed())
	assert.Nil(t, x.Names())

	refined, err := x.RefineNames("batch", "repr")
	require.NoError(t, err)
	hasNames(t, refined, "batch", "repr")
	assert.Same(t, x.Raw(), refined.Raw())

	_, err = refined.RefineNames("a", "b")
	assert.True(t, names.IsNameError(err))

	renamed, err := refined.Rename(map[string]string{"repr": "dim"})
	require.NoError(t, err)
	hasNames(t, renamed, "batch", "dim")
	hasNames(t, refined, "batch", "repr")

	_, err = x.Rename(map[string]string{"a": "b"})
	assert.True(t, names.IsNameError(err))

	assert.False(t, refined.Unname().IsNamed())
	assert.Contains(t, refined.String(), "(batch, repr)")
}

func TestTensor_AlignTo(t *testing.T) {
	f := newFixture(t)
	x := f.floats([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, "a", "b")

	y, err := x.AlignTo("b", "a")
	require.NoError(t, err)
	hasNames(t, y, "b", "a")
	hasShape(t, y, 3, 2)
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, y.Raw().AsFloat32())

	_, err = x.AlignTo("a", "c")
	assert.True(t, names.IsAlignmentError(err))
}

func TestEmbedding(t *testing.T) {
	f := newFixture(t)
	x := f.randint(10, tensor.Shape{10, 10}, "batch", "length")
	emb := nn.NewEmbedding(10, 20, f.backend, nn.WithRand(f.rng))

	out, err := f.ops.Embedding(emb, x, "emb")
	require.NoError(t, err)
	hasNames(t, out, "batch", "length", "emb")
	hasShape(t, out, 10, 10, 20)

	_, err = f.ops.Embedding(emb, x, "length")
	assert.True(t, names.IsNameError(err))
	_, err = f.ops.Embedding(emb, x, "")
	assert.True(t, names.IsNameError(err))

	bad := f.ints([]int32{10}, tensor.Shape{1}, "batch")
	_, err = f.ops.Embedding(emb, bad, "emb")
	assert.Error(t, err)
}

func TestIndex(t *testing.T) {
	f := newFixture(t)
	x := f.randn(tensor.Shape{32, 10, 10}, "x", "y", "z")
	index := f.randint(10, tensor.Shape{3}, "w")

	out, err := f.ops.Index(x, Named("z"), index)
	require.NoError(t, err)
	hasNames(t, out, "x", "y", "w")
	hasShape(t, out, 32, 10, 3)

	// Replacement happens in place, not at the end.
	mid, err := f.ops.Index(x, Named("y"), f.randint(10, tensor.Shape{4, 5}, "u", "v"))
	require.NoError(t, err)
	hasNames(t, mid, "x", "u", "v", "z")
	hasShape(t, mid, 32, 4, 5, 10)

	_, err = f.ops.Index(x, Named("q"), index)
	assert.True(t, names.IsNameError(err))

	_, err = f.ops.Index(x, Named("z"), f.randint(10, tensor.Shape{3}, "y"))
	assert.True(t, names.IsNameError(err))
}

func TestIndex_Values(t *testing.T) {
	f := newFixture(t)
	x := f.floats([]float32{0, 1, 2, 10, 11, 12}, tensor.Shape{2, 3}, "row", "col")
	index := f.ints([]int32{2, 0}, tensor.Shape{2}, "pick")

	out, err := f.ops.Index(x, Named("col"), index)
	require.NoError(t, err)
	hasNames(t, out, "row", "pick")
	assert.Equal(t, []float32{2, 0, 12, 10}, out.Raw().AsFloat32())
}

func TestGather_InferredTarget(t *testing.T) {
	f := newFixture(t)
	x := f.randn(tensor.Shape{32, 10}, "batch", "length")

	byBatch, err := f.ops.Gather(x, Named(), f.randint(10, tensor.Shape{32}, "batch"))
	require.NoError(t, err)
	hasNames(t, byBatch, "batch")
	hasShape(t, byBatch, 32)

	byLength, err := f.ops.Gather(x, Named(), f.randint(32, tensor.Shape{10}, "length"))
	require.NoError(t, err)
	hasNames(t, byLength, "length")
	hasShape(t, byLength, 10)
}

func TestGather_ExplicitTarget(t *testing.T) {
	f := newFixture(t)
	x := f.randn(tensor.Shape{32, 10}, "batch", "length")

	out, err := f.ops.Gather(x, Named("length"), f.randint(10, tensor.Shape{32}, "batch"))
	require.NoError(t, err)
	hasNames(t, out, "batch")

	out, err = f.ops.Gather(x, Named("batch"), f.randint(32, tensor.Shape{10}, "length"))
	require.NoError(t, err)
	hasNames(t, out, "length")
}

func TestGather_Values(t *testing.T) {
	f := newFixture(t)
	// x[b, l] = 10*b + l
	x := f.floats([]float32{0, 1, 2, 10, 11, 12}, tensor.Shape{2, 3}, "batch", "length")

	out, err := f.ops.Gather(x, Named("length"), f.ints([]int32{2, 0}, tensor.Shape{2}, "batch"))
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 10}, out.Raw().AsFloat32())

	out, err = f.ops.Gather(x, Named("batch"), f.ints([]int32{1, 0, 1}, tensor.Shape{3}, "length"))
	require.NoError(t, err)
	assert.Equal(t, []float32{10, 1, 12}, out.Raw().AsFloat32())
}

func TestGather_Transposed(t *testing.T) {
	f := newFixture(t)
	// x[a, b, g] = 100*a + 10*b + g
	data := make([]float32, 0, 2*3*4)
	for a := 0; a < 2; a++ {
		for b := 0; b < 3; b++ {
			for g := 0; g < 4; g++ {
				data = append(data, float32(100*a+10*b+g))
			}
		}
	}
	x := f.floats(data, tensor.Shape{2, 3, 4}, "a", "b", "g")

	// Index presents the shared axes as (b, a) plus an extra axis k.
	idx := make([]int32, 0, 3*2*2)
	for b := 0; b < 3; b++ {
		for a := 0; a < 2; a++ {
			idx = append(idx, int32(b), int32(3-a))
		}
	}
	index := f.ints(idx, tensor.Shape{3, 2, 2}, "b", "a", "k")

	out, err := f.ops.Gather(x, Named("g"), index)
	require.NoError(t, err)
	hasNames(t, out, "a", "b", "k")
	hasShape(t, out, 2, 3, 2)

	got := out.Raw().AsFloat32()
	for a := 0; a < 2; a++ {
		for b := 0; b < 3; b++ {
			base := (a*3 + b) * 2
			assert.Equal(t, float32(100*a+10*b+b), got[base])
			assert.Equal(t, float32(100*a+10*b+3-a), got[base+1])
		}
	}
}

func TestGather_Errors(t *testing.T) {
	f := newFixture(t)
	x := f.randn(tensor.Shape{4, 5}, "batch", "length")

	tests := []struct {
		name      string
		dim       Dim
		index     *Tensor
		alignment bool
	}{
		{"target not in data", Named("time"), f.randint(5, tensor.Shape{4}, "batch"), false},
		{"cannot infer", Named(), f.randint(5, tensor.Shape{3}, "k"), false},
		{"two targets", Named("batch", "length"), f.randint(5, tensor.Shape{4}, "batch"), false},
		{"target in index", Named("length"), f.randint(5, tensor.Shape{4, 5}, "batch", "length"), true},
		{"shared missing", Named("length"), f.randint(5, tensor.Shape{3}, "k"), true},
		{"size mismatch", Named("length"), f.randint(5, tensor.Shape{3}, "batch"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ops.Gather(x, tt.dim, tt.index)
			require.Error(t, err)
			if tt.alignment {
				assert.True(t, names.IsAlignmentError(err), "got %v", err)
			} else {
				assert.True(t, names.IsNameError(err), "got %v", err)
			}
		})
	}

	_, err := f.ops.Gather(x, Named("length"), f.randint(5, tensor.Shape{4}))
	assert.True(t, names.IsNameError(err))
}

func TestExpandAs(t *testing.T) {
	f := newFixture(t)
	x := f.floats([]float32{1, 2}, tensor.Shape{2}, "batch")
	other := f.randn(tensor.Shape{2, 3}, "batch", "repr")

	out, err := f.ops.ExpandAs(x, other)
	require.NoError(t, err)
	hasNames(t, out, "batch", "repr")
	hasShape(t, out, 2, 3)
	assert.Equal(t, []float32{1, 1, 1, 2, 2, 2}, out.Raw().AsFloat32())

	big, err := f.ops.ExpandAs(f.randn(tensor.Shape{32}, "batch"), f.randn(tensor.Shape{32, 10}, "batch", "repr"))
	require.NoError(t, err)
	hasShape(t, big, 32, 10)

	_, err = f.ops.ExpandAs(f.randn(tensor.Shape{2}, "time"), other)
	assert.True(t, names.IsNameError(err))

	_, err = f.ops.ExpandAs(f.randn(tensor.Shape{5}, "batch"), other)
	assert.True(t, names.IsAlignmentError(err))
}

func TestExpandAs_Reorders(t *testing.T) {
	f := newFixture(t)
	x := f.floats([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, "a", "b")
	other := f.randn(tensor.Shape{3, 4, 2}, "b", "c", "a")

	out, err := f.ops.ExpandAs(x, other)
	require.NoError(t, err)
	hasNames(t, out, "b", "c", "a")
	hasShape(t, out, 3, 4, 2)

	got := out.Raw().AsFloat32()
	// out[b, c, a] = x[a, b]
	assert.Equal(t, float32(4), got[0*8+0*2+1])
	assert.Equal(t, float32(3), got[2*8+3*2+0])
}

func TestArange(t *testing.T) {
	f := newFixture(t)

	out, err := f.ops.Arange(32, "batch")
	require.NoError(t, err)
	hasNames(t, out, "batch")
	hasShape(t, out, 32)
	assert.Equal(t, int32(31), out.Raw().AsInt32()[31])

	plain, err := f.ops.Arange(3, "")
	require.NoError(t, err)
	assert.False(t, plain.IsNamed())

	_, err = f.ops.Arange(0, "batch")
	assert.Error(t, err)
}

func TestCat(t *testing.T) {
	f := newFixture(t)
	t1 := f.randn(tensor.Shape{32, 10}, "batch", "dim_first")
	t2 := f.randn(tensor.Shape{32, 20}, "batch", "dim_second")

	out, err := f.ops.Cat([]*Tensor{t1, t2}, Named("dim_first", "dim_second"), "dim")
	require.NoError(t, err)
	hasNames(t, out, "batch", "dim")
	hasShape(t, out, 32, 30)
}

func TestCat_OneName(t *testing.T) {
	f := newFixture(t)
	t1 := f.randn(tensor.Shape{32, 10}, "batch", "dim")
	t2 := f.randn(tensor.Shape{32, 20}, "batch", "dim")

	out, err := f.ops.Cat([]*Tensor{t1, t2}, Named("dim"), "cat_dim")
	require.NoError(t, err)
	hasNames(t, out, "batch", "cat_dim")
	hasShape(t, out, 32, 30)
}

func TestCat_AlignsInputs(t *testing.T) {
	f := newFixture(t)
	t1 := f.floats([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, "batch", "dim")
	// Same batch rows presented as (dim, batch).
	t2 := f.floats([]float32{5, 7, 6, 8}, tensor.Shape{2, 2}, "dim", "batch")

	out, err := f.ops.Cat([]*Tensor{t1, t2}, Named("dim"), "dim")
	require.NoError(t, err)
	hasNames(t, out, "batch", "dim")
	assert.Equal(t, []float32{1, 2, 5, 6, 3, 4, 7, 8}, out.Raw().AsFloat32())
}

func TestCat_Errors(t *testing.T) {
	f := newFixture(t)
	t1 := f.randn(tensor.Shape{32, 10}, "batch_first", "dim_first")
	t2 := f.randn(tensor.Shape{32, 20}, "batch_second", "dim_second")

	_, err := f.ops.Cat([]*Tensor{t1, t2}, Named("dim_first", "dim_second"), "dim")
	assert.True(t, names.IsAlignmentError(err), "got %v", err)

	a := f.randn(tensor.Shape{32, 10}, "batch", "dim")
	b := f.randn(tensor.Shape{16, 10}, "batch", "dim")
	_, err = f.ops.Cat([]*Tensor{a, b}, Named("dim"), "cat_dim")
	assert.True(t, names.IsAlignmentError(err))

	_, err = f.ops.Cat([]*Tensor{a, a}, Named("time"), "cat_dim")
	assert.True(t, names.IsNameError(err))

	_, err = f.ops.Cat([]*Tensor{a, a}, Named("dim"), "batch")
	assert.True(t, names.IsNameError(err))

	_, err = f.ops.Cat([]*Tensor{a, a, a}, Named("dim", "dim"), "cat_dim")
	assert.True(t, names.IsNameError(err))

	_, err = f.ops.Cat(nil, Named("dim"), "cat_dim")
	assert.Error(t, err)
}

func TestStack(t *testing.T) {
	f := newFixture(t)
	t1 := f.randn(tensor.Shape{32, 10}, "batch", "dim")
	t2 := f.randn(tensor.Shape{32, 10}, "batch", "dim")

	out, err := f.ops.Stack([]*Tensor{t1, t2}, Named("length"))
	require.NoError(t, err)
	hasNames(t, out, "batch", "dim", "length")
	hasShape(t, out, 32, 10, 2)

	swapped := f.randn(tensor.Shape{10, 32}, "dim", "batch")
	_, err = f.ops.Stack([]*Tensor{t1, swapped}, Named("length"))
	assert.True(t, names.IsAlignmentError(err))

	_, err = f.ops.Stack([]*Tensor{t1, t2}, Named("dim"))
	assert.True(t, names.IsNameError(err))
}

func TestLinear(t *testing.T) {
	f := newFixture(t)
	layer := nn.NewLinear(10, 3, f.backend, nn.WithRand(f.rng))
	require.NoError(t, nn.RefineNames(layer, "weight", "label", "dim"))
	x := f.randn(tensor.Shape{32, 10}, "batch", "dim")

	out, err := f.ops.Linear(layer, x)
	require.NoError(t, err)
	hasShape(t, out, 32, 3)
	hasNames(t, out, "batch", "label")
}

func TestLinear_InnerAxis(t *testing.T) {
	f := newFixture(t)
	layer := nn.NewLinear(2, 1, f.backend, nn.WithRand(f.rng))
	copy(layer.Weight().Tensor().AsFloat32(), []float32{1, 10})
	require.NoError(t, nn.RefineNames(layer, "weight", "score", "dim"))

	// x[dim, batch]; the layer must sum x[0, b] + 10*x[1, b].
	x := f.floats([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, "dim", "batch")
	out, err := f.ops.Linear(layer, x)
	require.NoError(t, err)
	hasNames(t, out, "score", "batch")
	hasShape(t, out, 1, 3)
	assert.Equal(t, []float32{41, 52, 63}, out.Raw().AsFloat32())
}

func TestLinear_SplitOutput(t *testing.T) {
	f := newFixture(t)
	layer := nn.NewLinearShaped(10, tensor.Shape{4, 3}, f.backend, nn.WithRand(f.rng))
	require.NoError(t, nn.RefineNames(layer, "weight", "head", "label", "dim"))

	out, err := f.ops.Linear(layer, f.randn(tensor.Shape{10, 32}, "dim", "batch"))
	require.NoError(t, err)
	hasNames(t, out, "head", "label", "batch")
	hasShape(t, out, 4, 3, 32)
}

func TestLinear_Errors(t *testing.T) {
	f := newFixture(t)
	layer := nn.NewLinear(10, 3, f.backend, nn.WithRand(f.rng))
	require.NoError(t, nn.RefineNames(layer, "weight", "label", "dim"))

	_, err := f.ops.Linear(layer, f.randn(tensor.Shape{32, 10}, "batch", "repr"))
	assert.True(t, names.IsNameError(err))

	_, err = f.ops.Linear(layer, f.randn(tensor.Shape{3, 10}, "label", "dim"))
	assert.True(t, names.IsNameError(err))
}

func TestLinear_UnnamedWeight(t *testing.T) {
	f := newFixture(t)
	layer := nn.NewLinear(10, 3, f.backend, nn.WithRand(f.rng))

	out, err := f.ops.Linear(layer, f.randn(tensor.Shape{32, 10}, "batch", "dim"))
	require.NoError(t, err)
	hasShape(t, out, 32, 3)
	assert.False(t, out.IsNamed())
}

func TestSelfAttention(t *testing.T) {
	f := newFixture(t)
	mha, err := nn.NewMultiHeadAttention(40, 8, f.backend, nn.WithRand(f.rng))
	require.NoError(t, err)
	x := f.randn(tensor.Shape{13, 32, 40}, "length", "batch", "repr")

	out, weights, err := f.ops.SelfAttention(mha, x, "self_attn_repr")
	require.NoError(t, err)
	hasNames(t, out, "length", "batch", "self_attn_repr")
	hasShape(t, out, 13, 32, 40)
	hasNames(t, weights, "batch", "length", "length_T")
	hasShape(t, weights, 32, 13, 13)
}

func TestSelfAttention_Errors(t *testing.T) {
	f := newFixture(t)
	mha, err := nn.NewMultiHeadAttention(4, 2, f.backend, nn.WithRand(f.rng))
	require.NoError(t, err)

	_, _, err = f.ops.SelfAttention(mha, f.randn(tensor.Shape{3, 4}, "length", "repr"), "out")
	assert.True(t, names.IsNameError(err))

	x := f.randn(tensor.Shape{3, 2, 4}, "length", "batch", "repr")
	_, _, err = f.ops.SelfAttention(mha, x, "batch")
	assert.True(t, names.IsNameError(err))

	_, _, err = f.ops.SelfAttention(mha, f.randn(tensor.Shape{3, 2, 4}, "t", "t_T", "repr"), "out")
	assert.True(t, names.IsNameError(err))

	_, _, err = f.ops.SelfAttention(mha, f.randn(tensor.Shape{3, 2, 5}, "length", "batch", "repr"), "out")
	assert.Error(t, err)
}

func TestElementwiseKeepNames(t *testing.T) {
	f := newFixture(t)
	x := f.randn(tensor.Shape{32, 10}, "batch", "repr")

	act, err := f.ops.LeakyReLU(x, 0.01)
	require.NoError(t, err)
	hasNames(t, act, "batch", "repr")

	zeros, err := f.ops.ZerosLike(x)
	require.NoError(t, err)
	hasNames(t, zeros, "batch", "repr")
	assert.Equal(t, make([]float32, 320), zeros.Raw().AsFloat32())

	_, err = f.ops.LeakyReLU(f.randint(3, tensor.Shape{2}, "batch"), 0.01)
	assert.Error(t, err)
}

func TestFallback(t *testing.T) {
	f := newFixture(t)
	base := EngineOps(f.backend)

	x := f.floats([]float32{0, 1, 2, 10, 11, 12}, tensor.Shape{2, 3})
	index := f.ints([]int32{2, 0, 1, 1}, tensor.Shape{2, 2})

	want, err := base.Gather(x, Axis(1), index)
	require.NoError(t, err)
	got, err := f.ops.Gather(x, Axis(1), index)
	require.NoError(t, err)
	assert.Equal(t, want.Raw().AsFloat32(), got.Raw().AsFloat32())
	assert.False(t, got.IsNamed())

	t1 := f.randn(tensor.Shape{2, 3})
	out, err := f.ops.Cat([]*Tensor{t1, t1}, Axis(0), "")
	require.NoError(t, err)
	hasShape(t, out, 4, 3)

	stacked, err := f.ops.Stack([]*Tensor{t1, t1}, Axis(0))
	require.NoError(t, err)
	hasShape(t, stacked, 2, 2, 3)

	picked, err := f.ops.Index(t1, Axis(-1), f.ints([]int32{0}, tensor.Shape{1}))
	require.NoError(t, err)
	hasShape(t, picked, 2, 1)

	expanded, err := f.ops.ExpandAs(f.randn(tensor.Shape{3}), t1)
	require.NoError(t, err)
	hasShape(t, expanded, 2, 3)
}

func TestEngineOps_RejectsNamedSelectors(t *testing.T) {
	f := newFixture(t)
	base := EngineOps(f.backend)
	x := f.randn(tensor.Shape{2, 3}, "batch", "dim")

	_, err := base.Cat([]*Tensor{x, x}, Named("dim"), "cat_dim")
	assert.True(t, names.IsNameError(err))

	out, err := base.Cat([]*Tensor{x, x}, Axis(1), "")
	require.NoError(t, err)
	assert.False(t, out.IsNamed())
	hasShape(t, out, 2, 6)
}

func TestEngineOps_Validation(t *testing.T) {
	f := newFixture(t)
	base := EngineOps(f.backend)
	x := f.randn(tensor.Shape{2, 3})

	_, err := base.Gather(x, Axis(1), f.ints([]int32{3, 0}, tensor.Shape{2, 1}))
	assert.Error(t, err)
	_, err = base.Gather(x, Axis(1), f.ints([]int32{0}, tensor.Shape{1}))
	assert.Error(t, err)
	_, err = base.Index(x, Axis(2), f.ints([]int32{0}, tensor.Shape{1}))
	assert.Error(t, err)
	_, err = base.Cat([]*Tensor{x, f.randn(tensor.Shape{3, 3})}, Axis(1), "")
	assert.Error(t, err)
	_, err = base.Stack([]*Tensor{x, f.randn(tensor.Shape{3, 2})}, Axis(0))
	assert.Error(t, err)
	_, err = base.ExpandAs(f.randn(tensor.Shape{2}), x)
	assert.Error(t, err)
	_, _, err = base.SelfAttention(nil, x, "")
	assert.Error(t, err)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "gather", KindGather.String())
	assert.Equal(t, "zeros_like", KindZerosLike.String())
	assert.Equal(t, "unknown", Kind(-1).String())
	assert.Len(t, Kinds(), 11)
}

func TestDim(t *testing.T) {
	assert.Equal(t, "axis(1)", Axis(1).String())
	assert.Equal(t, "named(a, b)", Named("a", "b").String())
	assert.True(t, Named().IsNamed())
	assert.False(t, Axis(0).IsNamed())
	assert.Equal(t, 2, Axis(2).Position())
	assert.Equal(t, []string{"a"}, Named("a").Names())
}
