package tensor

// Backend defines the positional operations a compute backend must implement.
// Every method addresses axes by index; invalid arguments panic, so callers
// validate first.
//
// Implementations:
//   - CPU: pure Go (internal/backend/cpu)
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor

	// Scalar and unary operations.
	MulScalar(x *RawTensor, scalar float64) *RawTensor
	LeakyReLU(x *RawTensor, slope float64) *RawTensor

	// Matrix operations.
	// MatMul: [M, K] @ [K, N] -> [M, N].
	// BatchMatMul: [B, M, K] @ [B, K, N] -> [B, M, N].
	MatMul(a, b *RawTensor) *RawTensor
	BatchMatMul(a, b *RawTensor) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor
	Expand(x *RawTensor, shape Shape) *RawTensor // broadcast to shape
	Unsqueeze(x *RawTensor, dim int) *RawTensor  // add dimension of size 1

	// Softmax along a dimension.
	Softmax(x *RawTensor, dim int) *RawTensor

	// Reduction: mean along a dimension.
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor

	// Manipulation operations.
	Cat(tensors []*RawTensor, dim int) *RawTensor   // concatenate along dimension
	Stack(tensors []*RawTensor, dim int) *RawTensor // join along a new dimension

	// Indexing operations.
	Gather(x *RawTensor, dim int, index *RawTensor) *RawTensor      // torch.gather semantics
	IndexSelect(x *RawTensor, dim int, index *RawTensor) *RawTensor // replace dim by index's shape
	Embedding(weight, indices *RawTensor) *RawTensor                // lookup rows by indices

	// Creation.
	Zeros(shape Shape, dtype DataType) *RawTensor
	Arange(n int) *RawTensor // int32 values 0..n-1

	// Metadata
	Name() string
	Device() Device
}
