// Copyright 2025 The vex Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package value

import (
	"github.com/vex-org/vex/dtype"
	"github.com/vex-org/vex/layout"
)

// Const returns a scalar holding the given Go value.
func Const(ctx Context, v any) Scalar {
	return must(AsScalar(must(ctx.Constant(v))))
}

// Index returns a scalar of the index type holding i.
func Index(ctx Context, i int) Scalar {
	return Const(ctx, int32(i))
}

// Zero allocates a zero-initialized scalar of type dt.
func Zero(ctx Context, dt dtype.DataType) Scalar {
	return must(AsScalar(must(ctx.Allocate(dt, layout.Scalar()))))
}

// NewVector allocates a zero-initialized vector of n elements of type dt.
func NewVector(ctx Context, dt dtype.DataType, n int) Vector {
	return must(AsVector(must(ctx.Allocate(dt, layout.New(n)))))
}

// NewMatrix allocates a zero-initialized row-major matrix.
func NewMatrix(ctx Context, dt dtype.DataType, rows, cols int) Matrix {
	return must(AsMatrix(must(ctx.Allocate(dt, layout.New(rows, cols)))))
}

// writePhysical fills freshly allocated storage with host data given in
// physical (storage) order, by storing one constant per element. The
// logical index of physical position i is recovered through the layout.
func writePhysical[T dtype.GoDataType](ctx Context, v Value, data []T) {
	lay := v.Layout()
	for idx := range lay.Indices() {
		linear := must(lay.LinearIndex(idx))
		idxVals := make([]Value, len(idx))
		for d, i := range idx {
			idxVals[d] = Index(ctx, i).Value()
		}
		elem := must(ctx.Offset(v, idxVals))
		mustOK(ctx.Store(elem, Const(ctx, data[linear]).Value()))
	}
}

// VectorOf allocates a vector holding a copy of the given host values.
func VectorOf[T dtype.GoDataType](ctx Context, data []T) Vector {
	vec := NewVector(ctx, dtype.FromGoType[T](), len(data))
	writePhysical(ctx, vec.Value(), data)
	return vec
}

// MatrixOf allocates a matrix with the given layout, filled with host data
// in physical (storage) order.
func MatrixOf[T dtype.GoDataType](ctx Context, lay layout.Layout, data []T) Matrix {
	mat := must(AsMatrix(must(ctx.Allocate(dtype.FromGoType[T](), lay))))
	writePhysical(ctx, mat.Value(), data)
	return mat
}

// TensorOf allocates a tensor with the given layout, filled with host data
// in physical (storage) order.
func TensorOf[T dtype.GoDataType](ctx Context, lay layout.Layout, data []T) Tensor {
	t := must(AsTensor(must(ctx.Allocate(dtype.FromGoType[T](), lay))))
	writePhysical(ctx, t.Value(), data)
	return t
}
