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
	"github.com/vex-org/vex/errdefs"
	"github.com/vex-org/vex/layout"
)

// Tensor is a view over a value of any positive rank.
type Tensor struct {
	val Value
}

// AsTensor wraps a value of rank 1 or higher.
func AsTensor(v Value) (Tensor, error) {
	if err := v.check("tensor view"); err != nil {
		return Tensor{}, err
	}
	if v.Rank() < 1 {
		return Tensor{}, errdefs.Dimension("tensor view: value %s has rank %d", v, v.Rank())
	}
	return Tensor{val: v}, nil
}

// MustTensor wraps a value of rank 1 or higher, panicking on misuse.
func MustTensor(v Value) Tensor {
	return must(AsTensor(v))
}

// Value underlying the view.
func (t Tensor) Value() Value {
	return t.val
}

// Type of the tensor elements.
func (t Tensor) Type() dtype.DataType {
	return t.val.Type()
}

// Rank is the number of logical dimensions.
func (t Tensor) Rank() int {
	return t.val.Rank()
}

// Extent of logical dimension d.
func (t Tensor) Extent(d int) int {
	return t.val.Layout().Extent(d)
}

// At returns an element view at the given index, sharing the tensor
// storage. One scalar per logical dimension.
func (t Tensor) At(idx ...Scalar) Scalar {
	return must(AsScalar(must(t.val.Offset(idx...))))
}

// Slice fixes dimensions to constants, returning a reduced-rank aliasing
// view. One slicer per logical dimension.
func (t Tensor) Slice(fixed ...layout.Slicer) Value {
	return must(t.val.Slice(fixed...))
}

// For runs body for every logical index vector in row-major order.
func (t Tensor) For(body func(idx []Scalar)) {
	For(t.val, body)
}
