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

// Package ops provides backend-agnostic algorithms over values. Each
// algorithm is written once against the view API and works under any
// context: executed eagerly or emitted as IR.
package ops

import (
	"github.com/vex-org/vex/dtype"
	"github.com/vex-org/vex/errdefs"
	"github.com/vex-org/vex/value"
)

// Accumulate returns init plus the sum of all elements of v, in the common
// type of the two.
func Accumulate(v value.Vector, init value.Scalar) value.Scalar {
	common := dtype.Promote(v.Type(), init.Type())
	acc := init.Cast(common)
	v.For(func(i value.Scalar) {
		acc.AddAssign(v.At(i))
	})
	return acc
}

// Dot returns the inner product of two equally sized vectors.
func Dot(x, y value.Vector) value.Scalar {
	if x.Len() != y.Len() {
		panic(errdefs.Dimension("dot: vectors of %d and %d elements", x.Len(), y.Len()))
	}
	common := dtype.Promote(x.Type(), y.Type())
	acc := value.Zero(x.Value().Context(), common)
	x.For(func(i value.Scalar) {
		acc.AddAssign(x.At(i).Mul(y.At(i)))
	})
	return acc
}

// Fill sets every element of v to s, cast to the element type of v.
func Fill(v value.Value, s value.Scalar) {
	src := s
	if s.Type() != v.Type() {
		src = s.Cast(v.Type())
	}
	value.For(v, func(idx []value.Scalar) {
		elem := value.MustScalar(mustOffset(v, idx))
		elem.Assign(src)
	})
}

// Copy assigns the content of src to dst element-wise. Shapes and element
// types must match; layouts may differ.
func Copy(dst, src value.Value) {
	if err := dst.Assign(src); err != nil {
		panic(err)
	}
}

func mustOffset(v value.Value, idx []value.Scalar) value.Value {
	elem, err := v.Offset(idx...)
	if err != nil {
		panic(err)
	}
	return elem
}
