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
	"fmt"
	"slices"

	"github.com/vex-org/vex/dtype"
	"github.com/vex-org/vex/errdefs"
	"github.com/vex-org/vex/layout"
)

// Value is a type-tagged handle to a storage location. A value does not own
// its storage: it is a reference valid for the lifetime of whichever
// allocation produced it. The zero Value is unallocated; any use of it
// fails with an illegal state error.
type Value struct {
	ctx   Context
	dt    dtype.DataType
	lay   layout.Layout
	store Storage
}

// New returns a value over existing storage. Backends use it to mint the
// values their primitives return.
func New(ctx Context, dt dtype.DataType, lay layout.Layout, store Storage) Value {
	return Value{ctx: ctx, dt: dt, lay: lay, store: store}
}

// Context under which the value was created.
func (v Value) Context() Context {
	return v.ctx
}

// Type of the value elements.
func (v Value) Type() dtype.DataType {
	return v.dt
}

// Layout of the value.
func (v Value) Layout() layout.Layout {
	return v.lay
}

// Rank is the number of logical dimensions.
func (v Value) Rank() int {
	return v.lay.Rank()
}

// Storage backing the value, or nil if unallocated.
func (v Value) Storage() Storage {
	return v.store
}

// IsValid returns true if the value has been allocated.
func (v Value) IsValid() bool {
	return v.store != nil
}

// String representation of the value type and shape.
func (v Value) String() string {
	if !v.IsValid() {
		return "<unallocated>"
	}
	return fmt.Sprintf("%s%v", v.dt, v.lay.Extents())
}

func (v Value) check(op string) error {
	if !v.IsValid() {
		return errdefs.IllegalState("%s: value is unallocated", op)
	}
	return nil
}

// Slice fixes logical dimensions to constants, returning a reduced-rank
// view sharing the storage of v. One slicer per logical dimension.
func (v Value) Slice(fixed ...layout.Slicer) (Value, error) {
	if err := v.check("slice"); err != nil {
		return Value{}, err
	}
	sliced, err := v.lay.Slice(fixed...)
	if err != nil {
		return Value{}, err
	}
	return Value{ctx: v.ctx, dt: v.dt, lay: sliced, store: v.store}, nil
}

// Offset returns an element view at the given logical index, sharing the
// storage of v. One scalar index per logical dimension.
func (v Value) Offset(idx ...Scalar) (Value, error) {
	if err := v.check("offset"); err != nil {
		return Value{}, err
	}
	idxVals := make([]Value, len(idx))
	for i, s := range idx {
		idxVals[i] = s.Value()
	}
	return v.ctx.Offset(v, idxVals)
}

// Assign copies the logical shape and element-wise content of src into v
// through the active context. Shapes and element types must match.
func (v Value) Assign(src Value) error {
	if err := v.check("assign"); err != nil {
		return err
	}
	if err := src.check("assign"); err != nil {
		return err
	}
	if v.dt != src.dt {
		return errdefs.TypeMismatch("assign: cannot assign %s to %s", src, v)
	}
	if !slices.Equal(v.lay.Extents(), src.lay.Extents()) {
		return errdefs.Dimension("assign: cannot assign %s to %s", src, v)
	}
	if v.Rank() == 0 {
		return v.ctx.Store(v, src)
	}
	return v.ctx.For(v.lay.Extents(), func(idx []Value) error {
		srcElem, err := v.ctx.Offset(src, idx)
		if err != nil {
			return err
		}
		dstElem, err := v.ctx.Offset(v, idx)
		if err != nil {
			return err
		}
		return v.ctx.Store(dstElem, srcElem)
	})
}

// Get reads the host scalar held by a rank-0 value. It fails with a type
// mismatch if T is not the stored element type, and with an illegal state
// error if the value is unallocated or the backend holds no host values.
func Get[T dtype.GoDataType](v Value) (T, error) {
	var zero T
	if err := v.check("get"); err != nil {
		return zero, err
	}
	if v.Rank() != 0 {
		return zero, errdefs.Dimension("get: value %s is not a scalar", v)
	}
	if want := dtype.FromGoType[T](); want != v.dt {
		return zero, errdefs.TypeMismatch("get: value holds %s elements, not %s", v.dt, want)
	}
	raw, err := readHost(v)
	if err != nil {
		return zero, err
	}
	return raw.(T), nil
}

// TryGet is Get returning an empty result instead of failing.
func TryGet[T dtype.GoDataType](v Value) (T, bool) {
	x, err := Get[T](v)
	return x, err == nil
}

// Read reads all elements of a value into a flat slice in row-major
// logical order.
func Read[T dtype.GoDataType](v Value) ([]T, error) {
	if err := v.check("read"); err != nil {
		return nil, err
	}
	if want := dtype.FromGoType[T](); want != v.dt {
		return nil, errdefs.TypeMismatch("read: value holds %s elements, not %s", v.dt, want)
	}
	if v.Rank() == 0 {
		x, err := Get[T](v)
		if err != nil {
			return nil, err
		}
		return []T{x}, nil
	}
	raw, err := readHost(v)
	if err != nil {
		return nil, err
	}
	return raw.([]T), nil
}

func readHost(v Value) (any, error) {
	hr, ok := v.ctx.(HostReader)
	if !ok {
		return nil, errdefs.IllegalState("get: backend %s holds no host values", v.ctx.Name())
	}
	return hr.ReadHost(v)
}
