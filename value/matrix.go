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

// Matrix is a rank-2 view over a value.
type Matrix struct {
	val Value
}

// AsMatrix wraps a rank-2 value.
func AsMatrix(v Value) (Matrix, error) {
	if err := v.check("matrix view"); err != nil {
		return Matrix{}, err
	}
	if v.Rank() != 2 {
		return Matrix{}, errdefs.Dimension("matrix view: value %s has rank %d", v, v.Rank())
	}
	return Matrix{val: v}, nil
}

// MustMatrix wraps a rank-2 value, panicking on misuse.
func MustMatrix(v Value) Matrix {
	return must(AsMatrix(v))
}

// Value underlying the view.
func (m Matrix) Value() Value {
	return m.val
}

// Type of the matrix elements.
func (m Matrix) Type() dtype.DataType {
	return m.val.Type()
}

// Rows is the number of rows.
func (m Matrix) Rows() int {
	return m.val.Layout().Extent(0)
}

// Columns is the number of columns.
func (m Matrix) Columns() int {
	return m.val.Layout().Extent(1)
}

// At returns an element view at (row, col), sharing the matrix storage.
func (m Matrix) At(row, col Scalar) Scalar {
	return must(AsScalar(must(m.val.Offset(row, col))))
}

// Row returns the row at a constant position as an aliasing vector.
func (m Matrix) Row(i int) Vector {
	return must(AsVector(must(m.val.Slice(layout.At(i), layout.All))))
}

// Column returns the column at a constant position as an aliasing vector.
func (m Matrix) Column(i int) Vector {
	return must(AsVector(must(m.val.Slice(layout.All, layout.At(i)))))
}

// For runs body for every (row, col) in row-major order.
func (m Matrix) For(body func(row, col Scalar)) {
	For(m.val, func(idx []Scalar) {
		body(idx[0], idx[1])
	})
}
