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
	"slices"

	"github.com/vex-org/vex/dtype"
	"github.com/vex-org/vex/errdefs"
	"github.com/vex-org/vex/layout"
)

// Buffer is a typed host buffer of elements, addressed linearly.
type Buffer struct {
	dt   dtype.DataType
	data any
}

// NewBuffer returns a zero-initialized buffer of n elements of type dt.
func NewBuffer(dt dtype.DataType, n int) (*Buffer, error) {
	buf := &Buffer{dt: dt}
	switch dt {
	case dtype.Bool:
		buf.data = make([]bool, n)
	case dtype.Int8:
		buf.data = make([]int8, n)
	case dtype.Uint8:
		buf.data = make([]uint8, n)
	case dtype.Int16:
		buf.data = make([]int16, n)
	case dtype.Int32:
		buf.data = make([]int32, n)
	case dtype.Int64:
		buf.data = make([]int64, n)
	case dtype.Float32:
		buf.data = make([]float32, n)
	case dtype.Float64:
		buf.data = make([]float64, n)
	default:
		return nil, errdefs.TypeMismatch("kernels: cannot allocate a buffer of %s elements", dt)
	}
	return buf, nil
}

// FromSlice returns a buffer holding a copy of the given host values.
func FromSlice[T dtype.GoDataType](vals []T) *Buffer {
	return &Buffer{dt: dtype.FromGoType[T](), data: slices.Clone(vals)}
}

// BufferOver wraps a host slice without copying, or returns nil if data is
// not a supported element slice.
func BufferOver(data any) *Buffer {
	switch d := data.(type) {
	case []bool:
		return &Buffer{dt: dtype.Bool, data: d}
	case []int8:
		return &Buffer{dt: dtype.Int8, data: d}
	case []uint8:
		return &Buffer{dt: dtype.Uint8, data: d}
	case []int16:
		return &Buffer{dt: dtype.Int16, data: d}
	case []int32:
		return &Buffer{dt: dtype.Int32, data: d}
	case []int64:
		return &Buffer{dt: dtype.Int64, data: d}
	case []float32:
		return &Buffer{dt: dtype.Float32, data: d}
	case []float64:
		return &Buffer{dt: dtype.Float64, data: d}
	}
	return nil
}

// Type of the buffer elements.
func (b *Buffer) Type() dtype.DataType {
	return b.dt
}

// Len is the number of elements in the buffer.
func (b *Buffer) Len() int {
	switch data := b.data.(type) {
	case []bool:
		return len(data)
	case []int8:
		return len(data)
	case []uint8:
		return len(data)
	case []int16:
		return len(data)
	case []int32:
		return len(data)
	case []int64:
		return len(data)
	case []float32:
		return len(data)
	case []float64:
		return len(data)
	}
	return 0
}

// Get returns the host scalar stored at linear position i.
func (b *Buffer) Get(i int) any {
	switch data := b.data.(type) {
	case []bool:
		return data[i]
	case []int8:
		return data[i]
	case []uint8:
		return data[i]
	case []int16:
		return data[i]
	case []int32:
		return data[i]
	case []int64:
		return data[i]
	case []float32:
		return data[i]
	case []float64:
		return data[i]
	}
	return nil
}

// Set stores a host scalar at linear position i. The value must have the
// exact Go type of the buffer elements.
func (b *Buffer) Set(i int, v any) error {
	ok := false
	switch data := b.data.(type) {
	case []bool:
		var x bool
		if x, ok = v.(bool); ok {
			data[i] = x
		}
	case []int8:
		var x int8
		if x, ok = v.(int8); ok {
			data[i] = x
		}
	case []uint8:
		var x uint8
		if x, ok = v.(uint8); ok {
			data[i] = x
		}
	case []int16:
		var x int16
		if x, ok = v.(int16); ok {
			data[i] = x
		}
	case []int32:
		var x int32
		if x, ok = v.(int32); ok {
			data[i] = x
		}
	case []int64:
		var x int64
		if x, ok = v.(int64); ok {
			data[i] = x
		}
	case []float32:
		var x float32
		if x, ok = v.(float32); ok {
			data[i] = x
		}
	case []float64:
		var x float64
		if x, ok = v.(float64); ok {
			data[i] = x
		}
	}
	if !ok {
		return errdefs.TypeMismatch("kernels: cannot store %T value %v into a %s buffer", v, v, b.dt)
	}
	return nil
}

// Data returns the underlying slice. The slice is shared with the buffer.
func (b *Buffer) Data() any {
	return b.data
}

// ReadLogical reads the elements addressed by lay out of the buffer.
// A rank-0 layout yields a host scalar; otherwise a flat slice holding the
// elements in row-major logical order.
func ReadLogical(b *Buffer, lay layout.Layout) (any, error) {
	if lay.Rank() == 0 {
		return b.Get(lay.Offset()), nil
	}
	out, err := NewBuffer(b.dt, lay.Count())
	if err != nil {
		return nil, err
	}
	i := 0
	for idx := range lay.Indices() {
		linear, err := lay.LinearIndex(idx)
		if err != nil {
			return nil, err
		}
		if err := out.Set(i, b.Get(linear)); err != nil {
			return nil, err
		}
		i++
	}
	return out.Data(), nil
}

// WriteLogical writes host data into the elements addressed by lay.
// A rank-0 layout accepts a host scalar; otherwise a flat slice holding the
// elements in row-major logical order.
func WriteLogical(b *Buffer, lay layout.Layout, data any) error {
	if lay.Rank() == 0 {
		return b.Set(lay.Offset(), data)
	}
	src := BufferOver(data)
	if src == nil {
		return errdefs.TypeMismatch("kernels: cannot write %T into a %s buffer of shape %s", data, b.dt, lay)
	}
	if src.Len() != lay.Count() {
		return errdefs.Dimension("kernels: %d host elements for layout %s holding %d", src.Len(), lay, lay.Count())
	}
	i := 0
	for idx := range lay.Indices() {
		linear, err := lay.LinearIndex(idx)
		if err != nil {
			return err
		}
		if err := b.Set(linear, src.Get(i)); err != nil {
			return err
		}
		i++
	}
	return nil
}
