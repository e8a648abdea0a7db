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

package compute

import (
	"github.com/vex-org/vex/dtype"
	"github.com/vex-org/vex/errdefs"
	"github.com/vex-org/vex/kernels"
	"github.com/vex-org/vex/layout"
	"github.com/vex-org/vex/value"
)

// BinaryOp evaluates op over two scalar operands. The operands promote to
// their common type; the result is fresh storage.
func (ctx *Context) BinaryOp(op kernels.Op, x, y value.Value) (value.Value, error) {
	xv, err := ctx.hostScalar(x)
	if err != nil {
		return value.Value{}, err
	}
	yv, err := ctx.hostScalar(y)
	if err != nil {
		return value.Value{}, err
	}
	common := dtype.Promote(x.Type(), y.Type())
	if common == dtype.Invalid {
		return value.Value{}, errdefs.TypeMismatch("compute: no common type for %s %s %s", x, op, y)
	}
	xc, err := kernels.Convert(xv, common)
	if err != nil {
		return value.Value{}, err
	}
	yc, err := kernels.Convert(yv, common)
	if err != nil {
		return value.Value{}, err
	}
	res, err := kernels.Binary(op, common, xc, yc)
	if err != nil {
		return value.Value{}, err
	}
	return ctx.Constant(res)
}

// Cast converts a scalar to the element type dt. The result is fresh
// storage, never an alias of x.
func (ctx *Context) Cast(x value.Value, to dtype.DataType) (value.Value, error) {
	xv, err := ctx.hostScalar(x)
	if err != nil {
		return value.Value{}, err
	}
	res, err := kernels.Convert(xv, to)
	if err != nil {
		return value.Value{}, err
	}
	return ctx.Constant(res)
}

// Offset returns an element view of x at the given logical index, sharing
// the storage of x.
func (ctx *Context) Offset(x value.Value, idx []value.Value) (value.Value, error) {
	store, err := storageOf(x)
	if err != nil {
		return value.Value{}, err
	}
	lay := x.Layout()
	if len(idx) != lay.Rank() {
		return value.Value{}, errdefs.Dimension("compute: %d indices into value %s", len(idx), x)
	}
	fixed := make([]layout.Slicer, len(idx))
	for d, iv := range idx {
		i, err := ctx.hostIndex(iv)
		if err != nil {
			return value.Value{}, err
		}
		fixed[d] = layout.At(i)
	}
	elem, err := lay.Slice(fixed...)
	if err != nil {
		return value.Value{}, err
	}
	return value.New(ctx, x.Type(), elem, store), nil
}

// Store writes the scalar src into the storage location dst. Element types
// must match exactly.
func (ctx *Context) Store(dst, src value.Value) error {
	if dst.Type() != src.Type() {
		return errdefs.TypeMismatch("compute: cannot store %s into %s", src, dst)
	}
	sv, err := ctx.hostScalar(src)
	if err != nil {
		return err
	}
	if dst.Rank() != 0 {
		return errdefs.Dimension("compute: store destination %s is not a scalar", dst)
	}
	store, err := storageOf(dst)
	if err != nil {
		return err
	}
	return store.buf.Set(dst.Layout().Offset(), sv)
}
