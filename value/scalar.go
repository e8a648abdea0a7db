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
	"github.com/vex-org/vex/kernels"
)

// Typed views are ergonomic wrappers over Value: they validate rank once at
// construction and translate arithmetic and indexing syntax into context
// calls. Unlike the Context surface, view methods panic with the typed
// error on misuse; a failed construction has no recoverable state anyway.

func must[T any](x T, err error) T {
	if err != nil {
		panic(err)
	}
	return x
}

func mustOK(err error) {
	if err != nil {
		panic(err)
	}
}

// Scalar is a rank-0 view over a value.
type Scalar struct {
	val Value
}

// AsScalar wraps a rank-0 value.
func AsScalar(v Value) (Scalar, error) {
	if err := v.check("scalar view"); err != nil {
		return Scalar{}, err
	}
	if v.Rank() != 0 {
		return Scalar{}, errdefs.Dimension("scalar view: value %s has rank %d", v, v.Rank())
	}
	return Scalar{val: v}, nil
}

// MustScalar wraps a rank-0 value, panicking on misuse.
func MustScalar(v Value) Scalar {
	return must(AsScalar(v))
}

// Value underlying the view.
func (s Scalar) Value() Value {
	return s.val
}

// Type of the scalar element.
func (s Scalar) Type() dtype.DataType {
	return s.val.Type()
}

func (s Scalar) binary(op kernels.Op, o Scalar) Scalar {
	res := must(s.val.ctx.BinaryOp(op, s.val, o.val))
	return must(AsScalar(res))
}

// Add returns s + o, promoted to the common type.
func (s Scalar) Add(o Scalar) Scalar { return s.binary(kernels.OpAdd, o) }

// Sub returns s - o.
func (s Scalar) Sub(o Scalar) Scalar { return s.binary(kernels.OpSub, o) }

// Mul returns s * o.
func (s Scalar) Mul(o Scalar) Scalar { return s.binary(kernels.OpMul, o) }

// Div returns s / o.
func (s Scalar) Div(o Scalar) Scalar { return s.binary(kernels.OpDiv, o) }

// Mod returns s % o. Integer operands only.
func (s Scalar) Mod(o Scalar) Scalar { return s.binary(kernels.OpMod, o) }

// Eq returns the boolean scalar s == o.
func (s Scalar) Eq(o Scalar) Scalar { return s.binary(kernels.OpEq, o) }

// Ne returns the boolean scalar s != o.
func (s Scalar) Ne(o Scalar) Scalar { return s.binary(kernels.OpNe, o) }

// Lt returns the boolean scalar s < o.
func (s Scalar) Lt(o Scalar) Scalar { return s.binary(kernels.OpLt, o) }

// Le returns the boolean scalar s <= o.
func (s Scalar) Le(o Scalar) Scalar { return s.binary(kernels.OpLe, o) }

// Gt returns the boolean scalar s > o.
func (s Scalar) Gt(o Scalar) Scalar { return s.binary(kernels.OpGt, o) }

// Ge returns the boolean scalar s >= o.
func (s Scalar) Ge(o Scalar) Scalar { return s.binary(kernels.OpGe, o) }

// Cast converts the scalar to the element type dt. The result is fresh
// storage, never an alias of s.
func (s Scalar) Cast(to dtype.DataType) Scalar {
	return must(AsScalar(must(s.val.ctx.Cast(s.val, to))))
}

// Assign stores o into the location viewed by s.
func (s Scalar) Assign(o Scalar) {
	mustOK(s.val.Assign(o.val))
}

// AddAssign stores s + o back into s.
func (s Scalar) AddAssign(o Scalar) {
	s.Assign(s.Add(o))
}
