package cpu

import (
	"fmt"

	"github.com/born-ml/named/internal/tensor"
)

// Gather selects elements along dim using index tensor.
// Similar to torch.gather(input, dim, index).
//
// The index tensor must have dtype int32 and its shape must match input shape
// except at the gather dimension, where it can differ.
//
// Example:
//
//	input: [3, 4, 5] with values
//	index: [3, 4, 2] (int32 indices)
//	dim: 2
//	output: [3, 4, 2] where output[i,j,k] = input[i,j,index[i,j,k]]
func (cpu *CPUBackend) Gather(x *tensor.RawTensor, dim int, index *tensor.RawTensor) *tensor.RawTensor {
	if index.DType() != tensor.Int32 {
		panic(fmt.Sprintf("gather: index tensor must have dtype int32, got %s", index.DType()))
	}

	xShape := x.Shape()
	ndim := len(xShape)
	dim, err := tensor.NormalizeDim(dim, ndim)
	if err != nil {
		panic(fmt.Sprintf("gather: %v", err))
	}

	indexShape := index.Shape()
	if len(indexShape) != ndim {
		panic(fmt.Sprintf("gather: index rank %d != input rank %d", len(indexShape), ndim))
	}
	for i := 0; i < ndim; i++ {
		if i != dim && indexShape[i] != xShape[i] {
			panic(fmt.Sprintf("gather: index shape mismatch at dim %d: %d != %d", i, indexShape[i], xShape[i]))
		}
	}

	result := tensor.MustRaw(indexShape, x.DType(), cpu.device)

	size := x.DType().Size()
	indices := index.AsInt32()
	outStrides := indexShape.ComputeStrides()
	srcStrides := x.Strides()
	out := result.Bytes()
	in := x.Bytes()

	for i, iv := range indices {
		idx := int(iv)
		if idx < 0 || idx >= xShape[dim] {
			panic(fmt.Sprintf("gather: index %d out of bounds [0, %d) at position %d", idx, xShape[dim], i))
		}

		src := 0
		rem := i
		for d, s := range outStrides {
			coord := rem / s
			rem %= s
			if d == dim {
				coord = idx
			}
			src += coord * srcStrides[d]
		}
		copy(out[i*size:(i+1)*size], in[src*size:(src+1)*size])
	}

	return result
}

// IndexSelect replaces dimension dim of x by the shape of index, picking
// x's slices at the indexed positions.
//
// Output shape: x.shape[:dim] + index.shape + x.shape[dim+1:].
//
// Example:
//
//	x: [32, 10, 10], index: [3] (int32), dim: 2
//	output: [32, 10, 3] where output[i,j,k] = x[i,j,index[k]]
func (cpu *CPUBackend) IndexSelect(x *tensor.RawTensor, dim int, index *tensor.RawTensor) *tensor.RawTensor {
	if index.DType() != tensor.Int32 {
		panic(fmt.Sprintf("index_select: index tensor must have dtype int32, got %s", index.DType()))
	}

	xShape := x.Shape()
	dim, err := tensor.NormalizeDim(dim, len(xShape))
	if err != nil {
		panic(fmt.Sprintf("index_select: %v", err))
	}

	outShape := make(tensor.Shape, 0, len(xShape)-1+index.Rank())
	outShape = append(outShape, xShape[:dim]...)
	outShape = append(outShape, index.Shape()...)
	outShape = append(outShape, xShape[dim+1:]...)
	result := tensor.MustRaw(outShape, x.DType(), cpu.device)

	size := x.DType().Size()
	outer, inner := splitAt(xShape, dim)
	block := inner * size
	indices := index.AsInt32()
	out := result.Bytes()
	in := x.Bytes()

	pos := 0
	for o := 0; o < outer; o++ {
		base := o * xShape[dim] * block
		for _, iv := range indices {
			idx := int(iv)
			if idx < 0 || idx >= xShape[dim] {
				panic(fmt.Sprintf("index_select: index %d out of bounds [0, %d)", idx, xShape[dim]))
			}
			copy(out[pos:pos+block], in[base+idx*block:base+(idx+1)*block])
			pos += block
		}
	}

	return result
}

// Embedding performs embedding lookup.
// weight: [numEmbeddings, embeddingDim]
// indices: any shape of int32 indices
// output: [...indices.shape, embeddingDim]
func (cpu *CPUBackend) Embedding(weight, indices *tensor.RawTensor) *tensor.RawTensor {
	if indices.DType() != tensor.Int32 {
		panic(fmt.Sprintf("embedding: indices must be int32, got %s", indices.DType()))
	}

	weightShape := weight.Shape()
	if len(weightShape) != 2 {
		panic(fmt.Sprintf("embedding: weight must be 2D, got shape %v", weightShape))
	}

	// Embedding is IndexSelect over the rows of the table.
	return cpu.IndexSelect(weight, 0, indices)
}
