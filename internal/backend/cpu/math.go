package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/named/internal/tensor"
)

type binaryOp int

const (
	opAdd binaryOp = iota
	opMul
)

func (op binaryOp) String() string {
	if op == opAdd {
		return "add"
	}
	return "mul"
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary(opAdd, a, b)
}

// Mul performs element-wise multiplication with NumPy-style broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary(opMul, a, b)
}

func (cpu *CPUBackend) binary(op binaryOp, a, b *tensor.RawTensor) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", op, a.DType(), b.DType()))
	}
	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	result := tensor.MustRaw(outShape, a.DType(), cpu.device)
	switch a.DType() {
	case tensor.Float32:
		binaryBroadcast[float32](op, result, a, b)
	case tensor.Float64:
		binaryBroadcast[float64](op, result, a, b)
	case tensor.Int32:
		binaryBroadcast[int32](op, result, a, b)
	case tensor.Int64:
		binaryBroadcast[int64](op, result, a, b)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, a.DType()))
	}
	return result
}

func binaryBroadcast[T tensor.Element](op binaryOp, result, a, b *tensor.RawTensor) {
	out := tensor.Data[T](result)
	aData := tensor.Data[T](a)
	bData := tensor.Data[T](b)

	outShape := result.Shape()
	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)

	for i := range out {
		x := aData[sourceIndex(i, outStrides, aStrides)]
		y := bData[sourceIndex(i, outStrides, bStrides)]
		if op == opAdd {
			out[i] = x + y
		} else {
			out[i] = x * y
		}
	}
}

// MulScalar multiplies every element by scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	result := tensor.MustRaw(x.Shape(), x.DType(), cpu.device)
	switch x.DType() {
	case tensor.Float32:
		mapInto(result.AsFloat32(), x.AsFloat32(), func(v float32) float32 { return v * float32(scalar) })
	case tensor.Float64:
		mapInto(result.AsFloat64(), x.AsFloat64(), func(v float64) float64 { return v * scalar })
	case tensor.Int32:
		mapInto(result.AsInt32(), x.AsInt32(), func(v int32) int32 { return int32(float64(v) * scalar) })
	case tensor.Int64:
		mapInto(result.AsInt64(), x.AsInt64(), func(v int64) int64 { return int64(float64(v) * scalar) })
	default:
		panic(fmt.Sprintf("mulscalar: unsupported dtype %s", x.DType()))
	}
	return result
}

// LeakyReLU computes max(0, x) + slope * min(0, x) element-wise.
func (cpu *CPUBackend) LeakyReLU(x *tensor.RawTensor, slope float64) *tensor.RawTensor {
	result := tensor.MustRaw(x.Shape(), x.DType(), cpu.device)
	switch x.DType() {
	case tensor.Float32:
		s := float32(slope)
		mapInto(result.AsFloat32(), x.AsFloat32(), func(v float32) float32 {
			if v < 0 {
				return v * s
			}
			return v
		})
	case tensor.Float64:
		mapInto(result.AsFloat64(), x.AsFloat64(), func(v float64) float64 {
			if v < 0 {
				return v * slope
			}
			return v
		})
	default:
		panic(fmt.Sprintf("leaky_relu: unsupported dtype %s (only float32/float64 supported)", x.DType()))
	}
	return result
}

func mapInto[T tensor.Element](dst, src []T, f func(T) T) {
	for i, v := range src {
		dst[i] = f(v)
	}
}

// Softmax computes softmax along dim.
// Softmax(x_i) = exp(x_i - max) / sum(exp(x_j - max)) over the dimension.
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	dim, err := tensor.NormalizeDim(dim, len(shape))
	if err != nil {
		panic(fmt.Sprintf("softmax: %v", err))
	}

	result := tensor.MustRaw(shape, x.DType(), cpu.device)
	outer, inner := splitAt(shape, dim)
	switch x.DType() {
	case tensor.Float32:
		softmax(result.AsFloat32(), x.AsFloat32(), outer, shape[dim], inner)
	case tensor.Float64:
		softmax(result.AsFloat64(), x.AsFloat64(), outer, shape[dim], inner)
	default:
		panic(fmt.Sprintf("softmax: unsupported dtype %s (only float32/float64 supported)", x.DType()))
	}
	return result
}

func softmax[T float32 | float64](dst, src []T, outer, size, inner int) {
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*size*inner + in

			maxVal := src[base]
			for k := 1; k < size; k++ {
				maxVal = max(maxVal, src[base+k*inner])
			}

			var sum float64
			for k := 0; k < size; k++ {
				e := math.Exp(float64(src[base+k*inner] - maxVal))
				dst[base+k*inner] = T(e)
				sum += e
			}
			for k := 0; k < size; k++ {
				dst[base+k*inner] = T(float64(dst[base+k*inner]) / sum)
			}
		}
	}
}

// MeanDim averages x along dim.
func (cpu *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	dim, err := tensor.NormalizeDim(dim, len(shape))
	if err != nil {
		panic(fmt.Sprintf("meandim: %v", err))
	}

	outShape := make(tensor.Shape, 0, len(shape))
	outShape = append(outShape, shape[:dim]...)
	if keepDim {
		outShape = append(outShape, 1)
	}
	outShape = append(outShape, shape[dim+1:]...)

	result := tensor.MustRaw(outShape, x.DType(), cpu.device)
	outer, inner := splitAt(shape, dim)
	switch x.DType() {
	case tensor.Float32:
		mean(result.AsFloat32(), x.AsFloat32(), outer, shape[dim], inner)
	case tensor.Float64:
		mean(result.AsFloat64(), x.AsFloat64(), outer, shape[dim], inner)
	default:
		panic(fmt.Sprintf("meandim: unsupported dtype %s (only float32/float64 supported)", x.DType()))
	}
	return result
}

func mean[T float32 | float64](dst, src []T, outer, size, inner int) {
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			var sum T
			for k := 0; k < size; k++ {
				sum += src[o*size*inner+k*inner+in]
			}
			dst[o*inner+in] = sum / T(size)
		}
	}
}
