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
)

// Vector is a rank-1 view over a value.
type Vector struct {
	val Value
}

// AsVector wraps a rank-1 value.
func AsVector(v Value) (Vector, error) {
	if err := v.check("vector view"); err != nil {
		return Vector{}, err
	}
	if v.Rank() != 1 {
		return Vector{}, errdefs.Dimension("vector view: value %s has rank %d", v, v.Rank())
	}
	return Vector{val: v}, nil
}

// MustVector wraps a rank-1 value, panicking on misuse.
func MustVector(v Value) Vector {
	return must(AsVector(v))
}

// Value underlying the view.
func (v Vector) Value() Value {
	return v.val
}

// Type of the vector elements.
func (v Vector) Type() dtype.DataType {
	return v.val.Type()
}

// Len is the number of elements.
func (v Vector) Len() int {
	return v.val.Layout().Extent(0)
}

// At returns an element view at index i, sharing the vector storage.
func (v Vector) At(i Scalar) Scalar {
	return must(AsScalar(must(v.val.Offset(i))))
}

// For runs body for every index in order 0..Len-1.
func (v Vector) For(body func(i Scalar)) {
	For(v.val, func(idx []Scalar) {
		body(idx[0])
	})
}
