package cpu

import (
	"fmt"

	"github.com/born-ml/named/internal/tensor"
)

// Cat concatenates tensors along the specified dimension.
//
// All tensors must have the same shape except along the concatenation dimension.
// Supports negative dim indexing (-1 = last dimension).
//
// Example:
//
//	// a: [2, 3], b: [2, 5]
//	c := backend.Cat([]*tensor.RawTensor{a, b}, 1) // Shape: [2, 8]
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}

	shape := tensors[0].Shape()
	ndim := len(shape)
	dtype := tensors[0].DType()

	dim, err := tensor.NormalizeDim(dim, ndim)
	if err != nil {
		panic(fmt.Sprintf("cat: %v", err))
	}

	totalDim := 0
	for i, t := range tensors {
		tShape := t.Shape()
		if len(tShape) != ndim {
			panic(fmt.Sprintf("cat: tensor %d has %d dimensions, expected %d", i, len(tShape), ndim))
		}
		if t.DType() != dtype {
			panic(fmt.Sprintf("cat: tensor %d has dtype %s, expected %s", i, t.DType(), dtype))
		}

		for d := 0; d < ndim; d++ {
			if d == dim {
				totalDim += tShape[d]
			} else if tShape[d] != shape[d] {
				panic(fmt.Sprintf("cat: tensor %d dimension %d is %d, expected %d", i, d, tShape[d], shape[d]))
			}
		}
	}

	outShape := shape.Clone()
	outShape[dim] = totalDim
	result := tensor.MustRaw(outShape, dtype, cpu.device)

	// Each input contributes a contiguous block of shape[dim]*inner elements per outer index.
	size := dtype.Size()
	outer, inner := splitAt(shape, dim)
	out := result.Bytes()
	pos := 0
	for o := 0; o < outer; o++ {
		for _, t := range tensors {
			block := t.Shape()[dim] * inner * size
			copy(out[pos:pos+block], t.Bytes()[o*block:(o+1)*block])
			pos += block
		}
	}

	return result
}

// Stack joins tensors of identical shape along a new dimension inserted at dim.
// dim may equal the input rank, which appends a trailing dimension.
func (cpu *CPUBackend) Stack(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("stack: at least one tensor required")
	}

	shape := tensors[0].Shape()
	expanded := make([]*tensor.RawTensor, len(tensors))
	for i, t := range tensors {
		if !t.Shape().Equal(shape) {
			panic(fmt.Sprintf("stack: tensor %d has shape %v, expected %v", i, t.Shape(), shape))
		}
		expanded[i] = cpu.Unsqueeze(t, dim)
	}

	if dim < 0 {
		dim += len(shape) + 1
	}
	return cpu.Cat(expanded, dim)
}
