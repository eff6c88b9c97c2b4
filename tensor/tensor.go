// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes the raw tensors and compute backends that named
// tensors are built on.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/named/backend/cpu"
//	    "github.com/born-ml/named/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
//	    y := backend.Add(x, x)
//	}
package tensor

import (
	"math/rand"

	"github.com/born-ml/named/internal/tensor"
)

// RawTensor is a contiguous, row-major buffer with a shape and dtype.
type RawTensor = tensor.RawTensor

// Shape is the size of every axis.
type Shape = tensor.Shape

// DataType is the element type of a tensor.
type DataType = tensor.DataType

// Device is where a tensor's memory lives.
type Device = tensor.Device

// Element constrains the Go types a tensor can hold.
type Element = tensor.Element

// Backend performs the numeric work behind every operation.
//
// Implementations:
//   - backend/cpu: pure Go
type Backend = tensor.Backend

// Supported data types.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
	Int32   = tensor.Int32
	Int64   = tensor.Int64
)

// CPU is the host device.
const CPU = tensor.CPU

// FromSlice creates a CPU tensor holding a copy of data.
func FromSlice[T Element](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// Data returns the elements of r as a []T sharing r's memory.
func Data[T Element](r *RawTensor) []T {
	return tensor.Data[T](r)
}

// Zeros creates a zero-filled tensor.
func Zeros(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.Zeros(shape, dtype)
}

// Randn creates a float32 tensor of standard normal samples drawn from rng.
func Randn(shape Shape, rng *rand.Rand) (*RawTensor, error) {
	return tensor.Randn(shape, rng)
}

// RandInt creates an int32 tensor of values in [0, n) drawn from rng.
func RandInt(n int, shape Shape, rng *rand.Rand) (*RawTensor, error) {
	return tensor.RandInt(n, shape, rng)
}
