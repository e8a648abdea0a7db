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

// Package kernels implements host scalar kernels.
//
// Both the eager backend and the reference executor of emitted modules
// evaluate operators through this package, so a computation produces
// bit-identical results on either path by construction.
package kernels

import (
	"github.com/vex-org/vex/dtype"
	"github.com/vex-org/vex/errdefs"
)

// Op is a binary operator.
type Op int

// Binary operators supported by all backends.
const (
	OpInvalid Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

var opNames = [...]string{
	OpInvalid: "invalid",
	OpAdd:     "add",
	OpSub:     "sub",
	OpMul:     "mul",
	OpDiv:     "div",
	OpMod:     "mod",
	OpEq:      "eq",
	OpNe:      "ne",
	OpLt:      "lt",
	OpLe:      "le",
	OpGt:      "gt",
	OpGe:      "ge",
}

// String representation of the operator.
func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return "invalid"
	}
	return opNames[op]
}

// IsComparison returns true if the operator yields a boolean.
func (op Op) IsComparison() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return true
	}
	return false
}

// ResultType returns the element type produced by applying op to operands
// of the given (already promoted) type.
func ResultType(op Op, operand dtype.DataType) dtype.DataType {
	if op.IsComparison() {
		return dtype.Bool
	}
	return operand
}

func binAlgebra[T dtype.AlgebraType](op Op, x, y T) (any, error) {
	switch op {
	case OpAdd:
		return x + y, nil
	case OpSub:
		return x - y, nil
	case OpMul:
		return x * y, nil
	case OpDiv:
		return x / y, nil
	case OpEq:
		return x == y, nil
	case OpNe:
		return x != y, nil
	case OpLt:
		return x < y, nil
	case OpLe:
		return x <= y, nil
	case OpGt:
		return x > y, nil
	case OpGe:
		return x >= y, nil
	}
	return nil, errdefs.TypeMismatch("kernels: operator %s not supported on %T operands", op, x)
}

func binInteger[T dtype.IntegerType](op Op, x, y T) (any, error) {
	switch op {
	case OpDiv, OpMod:
		if y == 0 {
			return nil, errdefs.IllegalState("kernels: integer %s of %v by zero", op, x)
		}
		if op == OpMod {
			return x % y, nil
		}
		return x / y, nil
	}
	return binAlgebra(op, x, y)
}

func binBool(op Op, x, y bool) (any, error) {
	switch op {
	case OpEq:
		return x == y, nil
	case OpNe:
		return x != y, nil
	}
	return nil, errdefs.TypeMismatch("kernels: operator %s not supported on bool operands", op)
}

func binAs[T dtype.GoDataType](x, y any) (T, T, error) {
	xt, okx := x.(T)
	yt, oky := y.(T)
	if !okx || !oky {
		var zero T
		return zero, zero, errdefs.TypeMismatch("kernels: %T and %T operands for %s elements", x, y, dtype.FromGoType[T]())
	}
	return xt, yt, nil
}

func binaryAlgebra[T dtype.AlgebraType](op Op, x, y any) (any, error) {
	xt, yt, err := binAs[T](x, y)
	if err != nil {
		return nil, err
	}
	return binAlgebra(op, xt, yt)
}

func binaryInteger[T dtype.IntegerType](op Op, x, y any) (any, error) {
	xt, yt, err := binAs[T](x, y)
	if err != nil {
		return nil, err
	}
	return binInteger(op, xt, yt)
}

// Binary applies op to two host scalars of element type dt.
// Both operands must already have the Go type corresponding to dt.
func Binary(op Op, dt dtype.DataType, x, y any) (any, error) {
	switch dt {
	case dtype.Bool:
		xt, yt, err := binAs[bool](x, y)
		if err != nil {
			return nil, err
		}
		return binBool(op, xt, yt)
	case dtype.Int8:
		return binaryInteger[int8](op, x, y)
	case dtype.Uint8:
		return binaryInteger[uint8](op, x, y)
	case dtype.Int16:
		return binaryInteger[int16](op, x, y)
	case dtype.Int32:
		return binaryInteger[int32](op, x, y)
	case dtype.Int64:
		return binaryInteger[int64](op, x, y)
	case dtype.Float32:
		return binaryAlgebra[float32](op, x, y)
	case dtype.Float64:
		return binaryAlgebra[float64](op, x, y)
	}
	return nil, errdefs.TypeMismatch("kernels: operator %s not supported on %s operands", op, dt)
}
