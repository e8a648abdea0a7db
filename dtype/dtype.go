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

// Package dtype defines the element types that a value can store.
package dtype

// DataType is the element type of a value.
type DataType uint8

// Element types supported by both backends.
const (
	Invalid DataType = iota
	Bool
	Int8
	Uint8
	Int16
	Int32
	Int64
	Float32
	Float64
)

var names = [...]string{
	Invalid: "invalid",
	Bool:    "bool",
	Int8:    "int8",
	Uint8:   "uint8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Float32: "float32",
	Float64: "float64",
}

var sizes = [...]int{
	Invalid: 0,
	Bool:    1,
	Int8:    1,
	Uint8:   1,
	Int16:   2,
	Int32:   4,
	Int64:   8,
	Float32: 4,
	Float64: 8,
}

// String representation of the data type. Matches the Go type name.
func (dt DataType) String() string {
	if int(dt) >= len(names) {
		return "invalid"
	}
	return names[dt]
}

// Size of one element in bytes.
func (dt DataType) Size() int {
	if int(dt) >= len(sizes) {
		return 0
	}
	return sizes[dt]
}

// IsFloat returns true for floating point types.
func (dt DataType) IsFloat() bool {
	return dt == Float32 || dt == Float64
}

// IsInteger returns true for integer types.
func (dt DataType) IsInteger() bool {
	switch dt {
	case Int8, Uint8, Int16, Int32, Int64:
		return true
	}
	return false
}

// IsNumeric returns true for types supporting arithmetic operators.
func (dt DataType) IsNumeric() bool {
	return dt.IsInteger() || dt.IsFloat()
}

type (
	// GoDataType is the set of Go types that can be stored in a value.
	GoDataType interface {
		bool | int8 | uint8 | int16 | int32 | int64 | float32 | float64
	}

	// AlgebraType is the set of Go types supporting arithmetic operators.
	AlgebraType interface {
		int8 | uint8 | int16 | int32 | int64 | float32 | float64
	}

	// IntegerType is the set of Go integer types.
	IntegerType interface {
		int8 | uint8 | int16 | int32 | int64
	}

	// FloatType is the set of Go floating point types.
	FloatType interface {
		float32 | float64
	}
)

// FromGoType returns the data type storing values of the Go type T.
func FromGoType[T GoDataType]() DataType {
	var zero T
	return FromGoValue(zero)
}

// FromGoValue returns the data type storing the given Go value.
// Returns Invalid if the value is not a supported scalar.
func FromGoValue(v any) DataType {
	switch v.(type) {
	case bool:
		return Bool
	case int8:
		return Int8
	case uint8:
		return Uint8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case float32:
		return Float32
	case float64:
		return Float64
	}
	return Invalid
}

// Index is the data type of loop induction variables and offsets.
const Index = Int32

// promotion rank: wider wins, floats dominate integers.
var promoRank = [...]int{
	Invalid: 0,
	Bool:    0,
	Int8:    1,
	Uint8:   2,
	Int16:   3,
	Int32:   4,
	Int64:   5,
	Float32: 6,
	Float64: 7,
}

// Promote returns the common type of a binary operation between x and y:
// the wider operand wins and floating point dominates integers.
// Bool does not promote with numeric types; the result is then Invalid.
func Promote(x, y DataType) DataType {
	if x == y {
		return x
	}
	if !x.IsNumeric() || !y.IsNumeric() {
		return Invalid
	}
	if promoRank[x] >= promoRank[y] {
		return x
	}
	return y
}
