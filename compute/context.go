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

// Package compute implements the eager backend: every primitive executes
// immediately against host memory and returns a value already holding a
// concrete result.
//
// Results produced here are the ground truth that the codegen backend is
// tested against.
package compute

import (
	"fmt"
	"iter"
	"slices"

	"github.com/vex-org/vex/base/ordered"
	"github.com/vex-org/vex/dtype"
	"github.com/vex-org/vex/errdefs"
	"github.com/vex-org/vex/kernels"
	"github.com/vex-org/vex/layout"
	"github.com/vex-org/vex/value"
)

// Context executes DSL primitives eagerly over host buffers.
type Context struct {
	globals *ordered.Map[string, value.Value]
}

var (
	_ value.Context    = (*Context)(nil)
	_ value.HostReader = (*Context)(nil)
)

// New returns a new eager evaluation context.
func New() *Context {
	return &Context{globals: ordered.NewMap[string, value.Value]()}
}

// Name identifies the backend.
func (ctx *Context) Name() string {
	return "compute"
}

// bufferStorage backs a value with host memory. The element position is
// fully described by the value layout.
type bufferStorage struct {
	buf *kernels.Buffer
}

// StorageString returns a short debug representation.
func (s *bufferStorage) StorageString() string {
	return fmt.Sprintf("host[%d x %s]", s.buf.Len(), s.buf.Type())
}

func storageOf(v value.Value) (*bufferStorage, error) {
	store, ok := v.Storage().(*bufferStorage)
	if !ok {
		return nil, errdefs.IllegalState("compute: value %s was not allocated by this backend", v)
	}
	return store, nil
}

// Allocate returns a zero-initialized value over fresh host memory.
func (ctx *Context) Allocate(dt dtype.DataType, lay layout.Layout) (value.Value, error) {
	buf, err := kernels.NewBuffer(dt, lay.Count())
	if err != nil {
		return value.Value{}, err
	}
	return value.New(ctx, dt, lay, &bufferStorage{buf: buf}), nil
}

// GlobalAllocate returns a value over persistent storage identified by
// name, owned by the context for its whole lifetime. Allocating the same
// name again returns the same storage; a conflicting type or shape fails.
func (ctx *Context) GlobalAllocate(name string, dt dtype.DataType, lay layout.Layout, init any) (value.Value, error) {
	if prev, ok := ctx.globals.Load(name); ok {
		if prev.Type() != dt || !slices.Equal(prev.Layout().Extents(), lay.Extents()) {
			return value.Value{}, errdefs.IllegalState("global %q already allocated as %s, cannot reallocate as %s%v", name, prev, dt, lay.Extents())
		}
		return prev, nil
	}
	v, err := ctx.Allocate(dt, lay)
	if err != nil {
		return value.Value{}, err
	}
	if init != nil {
		store, err := storageOf(v)
		if err != nil {
			return value.Value{}, err
		}
		if err := writePhysical(store.buf, init); err != nil {
			return value.Value{}, err
		}
	}
	ctx.globals.Store(name, v)
	return v, nil
}

// writePhysical fills a fresh buffer with init data given in physical
// (storage) order: a Go scalar for single-element buffers, a flat slice
// otherwise.
func writePhysical(buf *kernels.Buffer, init any) error {
	src := kernels.BufferOver(init)
	if src == nil {
		if buf.Len() != 1 {
			return errdefs.Dimension("compute: scalar initializer %v for a buffer of %d elements", init, buf.Len())
		}
		return buf.Set(0, init)
	}
	if src.Len() != buf.Len() {
		return errdefs.Dimension("compute: %d initializer elements for a buffer of %d elements", src.Len(), buf.Len())
	}
	for i := 0; i < buf.Len(); i++ {
		if err := buf.Set(i, src.Get(i)); err != nil {
			return err
		}
	}
	return nil
}

// Globals returns the persistent named values of the context, in the
// order they were first allocated.
func (ctx *Context) Globals() iter.Seq2[string, value.Value] {
	return ctx.globals.Iter()
}

// Constant returns a scalar value holding the given Go value.
func (ctx *Context) Constant(v any) (value.Value, error) {
	dt := dtype.FromGoValue(v)
	if dt == dtype.Invalid {
		return value.Value{}, errdefs.TypeMismatch("compute: %T value %v is not a supported constant", v, v)
	}
	cst, err := ctx.Allocate(dt, layout.Scalar())
	if err != nil {
		return value.Value{}, err
	}
	store, err := storageOf(cst)
	if err != nil {
		return value.Value{}, err
	}
	if err := store.buf.Set(0, v); err != nil {
		return value.Value{}, err
	}
	return cst, nil
}

// ReadHost returns the host contents of a value: a Go scalar for rank 0,
// a flat slice in row-major logical order otherwise.
func (ctx *Context) ReadHost(v value.Value) (any, error) {
	store, err := storageOf(v)
	if err != nil {
		return nil, err
	}
	return kernels.ReadLogical(store.buf, v.Layout())
}

// hostScalar reads the host scalar behind a rank-0 value.
func (ctx *Context) hostScalar(v value.Value) (any, error) {
	if v.Rank() != 0 {
		return nil, errdefs.Dimension("compute: value %s is not a scalar", v)
	}
	store, err := storageOf(v)
	if err != nil {
		return nil, err
	}
	return store.buf.Get(v.Layout().Offset()), nil
}

// hostIndex reads an integer scalar used as a logical index.
func (ctx *Context) hostIndex(v value.Value) (int, error) {
	if !v.Type().IsInteger() {
		return 0, errdefs.TypeMismatch("compute: index value %s is not an integer", v)
	}
	raw, err := ctx.hostScalar(v)
	if err != nil {
		return 0, err
	}
	wide, err := kernels.Convert(raw, dtype.Int64)
	if err != nil {
		return 0, err
	}
	return int(wide.(int64)), nil
}
