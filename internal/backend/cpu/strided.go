package cpu

import (
	"github.com/born-ml/named/internal/tensor"
)

// broadcastStrides computes strides for reading inShape as if it had outShape.
// Shapes are aligned from the right; padded and size-1 dimensions get stride 0.
func broadcastStrides(inShape, outShape tensor.Shape) []int {
	outDim := len(outShape)
	strides := make([]int, outDim)

	offset := outDim - len(inShape)
	origStrides := inShape.ComputeStrides()

	for i := 0; i < outDim; i++ {
		inIdx := i - offset
		switch {
		case inIdx < 0:
			strides[i] = 0
		case inShape[inIdx] == 1:
			strides[i] = 0
		default:
			strides[i] = origStrides[inIdx]
		}
	}

	return strides
}

// sourceIndex maps a flat output index to a flat source index.
// outStrides are the output's row-major strides, srcStrides the per-output-axis
// strides into the source.
func sourceIndex(outIdx int, outStrides, srcStrides []int) int {
	flat := 0
	for i, s := range outStrides {
		coord := outIdx / s
		outIdx %= s
		flat += coord * srcStrides[i]
	}
	return flat
}

// copyStrided fills dst element by element from src, reading src through srcStrides.
// It works on bytes, so it is dtype-agnostic.
func copyStrided(dst, src *tensor.RawTensor, srcStrides []int) {
	size := dst.DType().Size()
	outStrides := dst.Shape().ComputeStrides()
	out := dst.Bytes()
	in := src.Bytes()

	n := dst.NumElements()
	for i := 0; i < n; i++ {
		j := sourceIndex(i, outStrides, srcStrides)
		copy(out[i*size:(i+1)*size], in[j*size:(j+1)*size])
	}
}

// splitAt returns the product of the dimensions before dim and after dim.
func splitAt(shape tensor.Shape, dim int) (outer, inner int) {
	outer, inner = 1, 1
	for _, d := range shape[:dim] {
		outer *= d
	}
	for _, d := range shape[dim+1:] {
		inner *= d
	}
	return outer, inner
}
