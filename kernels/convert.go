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

package kernels

import (
	"github.com/vex-org/vex/dtype"
	"github.com/vex-org/vex/errdefs"
)

func convertTo[T dtype.AlgebraType](v any) (T, error) {
	switch x := v.(type) {
	case int8:
		return T(x), nil
	case uint8:
		return T(x), nil
	case int16:
		return T(x), nil
	case int32:
		return T(x), nil
	case int64:
		return T(x), nil
	case float32:
		return T(x), nil
	case float64:
		return T(x), nil
	}
	var zero T
	return zero, errdefs.TypeMismatch("kernels: cannot convert %T value %v to %s", v, v, dtype.FromGoType[T]())
}

// Convert a host scalar to the element type dt. Numeric conversions follow
// Go conversion semantics (truncating or widening); bool converts only to
// bool.
func Convert(v any, to dtype.DataType) (any, error) {
	if b, ok := v.(bool); ok {
		if to == dtype.Bool {
			return b, nil
		}
		return nil, errdefs.TypeMismatch("kernels: cannot convert bool to %s", to)
	}
	switch to {
	case dtype.Int8:
		return convertTo[int8](v)
	case dtype.Uint8:
		return convertTo[uint8](v)
	case dtype.Int16:
		return convertTo[int16](v)
	case dtype.Int32:
		return convertTo[int32](v)
	case dtype.Int64:
		return convertTo[int64](v)
	case dtype.Float32:
		return convertTo[float32](v)
	case dtype.Float64:
		return convertTo[float64](v)
	}
	return nil, errdefs.TypeMismatch("kernels: cannot convert %T value %v to %s", v, v, to)
}

// Zero returns the zero host scalar of the element type dt.
func Zero(dt dtype.DataType) (any, error) {
	switch dt {
	case dtype.Bool:
		return false, nil
	case dtype.Int8:
		return int8(0), nil
	case dtype.Uint8:
		return uint8(0), nil
	case dtype.Int16:
		return int16(0), nil
	case dtype.Int32:
		return int32(0), nil
	case dtype.Int64:
		return int64(0), nil
	case dtype.Float32:
		return float32(0), nil
	case dtype.Float64:
		return float64(0), nil
	}
	return nil, errdefs.TypeMismatch("kernels: no zero value for %s", dt)
}
