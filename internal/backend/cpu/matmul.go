package cpu

import (
	"fmt"

	"github.com/born-ml/named/internal/parallel"
	"github.com/born-ml/named/internal/tensor"
)

// MatMul performs matrix multiplication: (M, K) @ (K, N) -> (M, N).
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]
	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}

	return cpu.batched(a, b, tensor.Shape{m, n}, 1, m, k, n)
}

// BatchMatMul performs batched matrix multiplication.
// The last two dimensions are the matrix dimensions; leading (batch)
// dimensions must match.
//
// For 3D: [B, M, K] @ [B, K, N] -> [B, M, N]
func (cpu *CPUBackend) BatchMatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()
	ndim := len(aShape)

	if ndim < 3 {
		panic(fmt.Sprintf("BatchMatMul: inputs must be at least 3D, got %dD", ndim))
	}
	if len(bShape) != ndim {
		panic(fmt.Sprintf("BatchMatMul: dimension mismatch, got %dD and %dD", ndim, len(bShape)))
	}

	batchSize := 1
	for i := 0; i < ndim-2; i++ {
		if aShape[i] != bShape[i] {
			panic(fmt.Sprintf("BatchMatMul: batch dimension mismatch at dim %d: %d vs %d", i, aShape[i], bShape[i]))
		}
		batchSize *= aShape[i]
	}

	m, k := aShape[ndim-2], aShape[ndim-1]
	kAlt, n := bShape[ndim-2], bShape[ndim-1]
	if k != kAlt {
		panic(fmt.Sprintf("BatchMatMul: inner dimension mismatch: %d vs %d", k, kAlt))
	}

	outShape := make(tensor.Shape, ndim)
	copy(outShape, aShape[:ndim-2])
	outShape[ndim-2] = m
	outShape[ndim-1] = n

	return cpu.batched(a, b, outShape, batchSize, m, k, n)
}

func (cpu *CPUBackend) batched(a, b *tensor.RawTensor, outShape tensor.Shape, batch, m, k, n int) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("matmul: dtype mismatch %s vs %s", a.DType(), b.DType()))
	}

	result := tensor.MustRaw(outShape, a.DType(), cpu.device)
	switch a.DType() {
	case tensor.Float32:
		matmul(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), batch, m, k, n, cpu.parallel)
	case tensor.Float64:
		matmul(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), batch, m, k, n, cpu.parallel)
	case tensor.Int32:
		matmul(result.AsInt32(), a.AsInt32(), b.AsInt32(), batch, m, k, n, cpu.parallel)
	case tensor.Int64:
		matmul(result.AsInt64(), a.AsInt64(), b.AsInt64(), batch, m, k, n, cpu.parallel)
	default:
		panic(fmt.Sprintf("matmul: unsupported dtype %s", a.DType()))
	}
	return result
}

// matmul computes C[b,i,j] = sum_k A[b,i,k] * B[b,k,j] with an i-k-j loop
// order. Output rows are independent and split across workers.
func matmul[T tensor.Element](c, a, b []T, batch, m, k, n int, cfg parallel.Config) {
	parallel.For(batch*m, func(r int) {
		bi, i := r/m, r%m
		aOff, bOff := bi*m*k, bi*k*n
		row := c[r*n : (r+1)*n]
		for p := 0; p < k; p++ {
			av := a[aOff+i*k+p]
			bRow := b[bOff+p*n : bOff+(p+1)*n]
			for j, bv := range bRow {
				row[j] += av * bv
			}
		}
	}, cfg)
}
