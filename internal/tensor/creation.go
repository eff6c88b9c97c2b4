package tensor

import (
	"fmt"
	"math/rand"
)

// FromSlice creates a RawTensor holding a copy of data.
//
// Example:
//
//	r, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
func FromSlice[T Element](data []T, shape Shape) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	raw, err := NewRaw(shape, dataTypeOf[T](), CPU)
	if err != nil {
		return nil, err
	}
	copy(Data[T](raw), data)
	return raw, nil
}

// Zeros creates a zero-filled tensor.
func Zeros(shape Shape, dtype DataType) (*RawTensor, error) {
	return NewRaw(shape, dtype, CPU)
}

// Randn fills a new float32 tensor with samples from N(0, 1) drawn from rng.
// Note: uses math/rand (not crypto/rand), appropriate for ML purposes.
func Randn(shape Shape, rng *rand.Rand) (*RawTensor, error) {
	raw, err := NewRaw(shape, Float32, CPU)
	if err != nil {
		return nil, err
	}
	data := raw.AsFloat32()
	for i := range data {
		data[i] = float32(rng.NormFloat64())
	}
	return raw, nil
}

// RandInt fills a new int32 tensor with values uniformly drawn from [0, n).
func RandInt(n int, shape Shape, rng *rand.Rand) (*RawTensor, error) {
	if n <= 0 {
		return nil, fmt.Errorf("randint: upper bound must be positive, got %d", n)
	}
	raw, err := NewRaw(shape, Int32, CPU)
	if err != nil {
		return nil, err
	}
	data := raw.AsInt32()
	for i := range data {
		data[i] = int32(rng.Intn(n)) //nolint:gosec // G115: bounded by n, an int32-sized vocabulary.
	}
	return raw, nil
}
