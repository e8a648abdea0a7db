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

// Package codegen implements the emitting backend: every primitive appends
// instructions to an IR module instead of executing. Running an algorithm
// body under this context compiles it.
//
// Layouts never survive into the emitted module: element addressing is
// lowered to explicit index arithmetic, so two layouts mapping an index to
// the same linear offset emit the same access.
package codegen

import (
	"fmt"
	"iter"
	"slices"

	"go.uber.org/multierr"

	"github.com/vex-org/vex/base/ordered"
	"github.com/vex-org/vex/dtype"
	"github.com/vex-org/vex/errdefs"
	"github.com/vex-org/vex/ir"
	"github.com/vex-org/vex/layout"
	"github.com/vex-org/vex/value"
)

// Context emits DSL primitives as IR instructions.
type Context struct {
	module *ir.Module

	fn  *ir.Func
	cur *ir.Block

	globals   *ordered.Map[string, value.Value]
	instance  *ir.Instance
	nextBlock int

	errs error
}

var _ value.Context = (*Context)(nil)

// New returns a context emitting into a fresh module.
func New(moduleName string) *Context {
	return &Context{
		module:  ir.NewModule(moduleName),
		globals: ordered.NewMap[string, value.Value](),
	}
}

// Name identifies the backend.
func (ctx *Context) Name() string {
	return "codegen"
}

// Module returns the emitted module, or the accumulated construction
// errors if any primitive failed.
func (ctx *Context) Module() (*ir.Module, error) {
	if ctx.errs != nil {
		return nil, ctx.errs
	}
	return ctx.module, nil
}

// recordErr keeps construction errors so that Module fails even when a
// caller dropped the error of an individual primitive.
func (ctx *Context) recordErr(err error) error {
	ctx.errs = multierr.Append(ctx.errs, err)
	return err
}

// regionStorage backs a value with a whole IR region; the value layout
// addresses elements inside it.
type regionStorage struct {
	region *ir.Region
}

// StorageString returns a short debug representation.
func (s *regionStorage) StorageString() string {
	return fmt.Sprintf("%s %s[%d]", s.region.Kind, s.region.Name, s.region.Size)
}

// addrStorage backs an element view whose address was computed at emission
// time into a register.
type addrStorage struct {
	addr ir.Reg
	base *ir.Region
}

// StorageString returns a short debug representation.
func (s *addrStorage) StorageString() string {
	return fmt.Sprintf("addr %s in %s", s.addr, s.base.Name)
}

// immStorage backs a constant. Constants are pure operands: they occupy no
// region and cannot be stored into.
type immStorage struct {
	imm any
}

// StorageString returns a short debug representation.
func (s *immStorage) StorageString() string {
	return fmt.Sprintf("imm %v", s.imm)
}

// inFunction fails unless emission is inside a function body.
func (ctx *Context) inFunction(op string) error {
	if ctx.fn == nil {
		return ctx.recordErr(errdefs.Construction("codegen: %s outside a function body", op))
	}
	return nil
}

// Allocate returns a value over a fresh zeroed local region of the current
// function.
func (ctx *Context) Allocate(dt dtype.DataType, lay layout.Layout) (value.Value, error) {
	if err := ctx.inFunction("allocate"); err != nil {
		return value.Value{}, err
	}
	loc := ctx.fn.NewLocal("v", dt, lay.Count())
	return value.New(ctx, dt, lay, &regionStorage{region: loc}), nil
}

// GlobalAllocate returns a value over a module global. The same name yields
// the same global; a conflicting type or shape fails.
func (ctx *Context) GlobalAllocate(name string, dt dtype.DataType, lay layout.Layout, init any) (value.Value, error) {
	if prev, ok := ctx.globals.Load(name); ok {
		if prev.Type() != dt || !slices.Equal(prev.Layout().Extents(), lay.Extents()) {
			return value.Value{}, ctx.recordErr(errdefs.IllegalState("global %q already allocated as %s, cannot reallocate as %s%v", name, prev, dt, lay.Extents()))
		}
		return prev, nil
	}
	g, err := ctx.module.AddGlobal(&ir.Global{Name: name, Type: dt, Size: lay.Count(), Init: init})
	if err != nil {
		return value.Value{}, ctx.recordErr(err)
	}
	ref := &ir.Region{Kind: ir.RegionGlobal, Name: g.Name, Type: g.Type, Size: g.Size}
	v := value.New(ctx, dt, lay, &regionStorage{region: ref})
	ctx.globals.Store(name, v)
	return v, nil
}

// Globals returns the module globals declared through this context, in
// the order they were first allocated.
func (ctx *Context) Globals() iter.Seq2[string, value.Value] {
	return ctx.globals.Iter()
}

// Constant returns a scalar value holding the given Go value. Constants
// emit no instructions; they become immediate operands at their use sites.
func (ctx *Context) Constant(v any) (value.Value, error) {
	dt := dtype.FromGoValue(v)
	if dt == dtype.Invalid {
		return value.Value{}, ctx.recordErr(errdefs.TypeMismatch("codegen: %T value %v is not a supported constant", v, v))
	}
	return value.New(ctx, dt, layout.Scalar(), &immStorage{imm: v}), nil
}

// addrOf emits the address of the element viewed by a rank-0 value.
func (ctx *Context) addrOf(v value.Value) (ir.Operand, error) {
	if v.Rank() != 0 {
		return ir.Operand{}, errdefs.Dimension("codegen: value %s is not a scalar", v)
	}
	switch store := v.Storage().(type) {
	case *addrStorage:
		return ir.RegOp(store.addr), nil
	case *regionStorage:
		dst := ctx.fn.NewReg()
		ctx.cur.Emit(ir.AddrOp{Dst: dst, Base: store.region, Index: ir.Imm(int32(v.Layout().Offset()))})
		return ir.RegOp(dst), nil
	case *immStorage:
		return ir.Operand{}, errdefs.IllegalState("codegen: constant %v has no address", store.imm)
	}
	return ir.Operand{}, errdefs.IllegalState("codegen: value %s was not emitted by this backend", v)
}

// scalarOperand emits whatever is needed to read a rank-0 value and
// returns the operand holding it.
func (ctx *Context) scalarOperand(v value.Value) (ir.Operand, error) {
	if store, ok := v.Storage().(*immStorage); ok {
		return ir.Imm(store.imm), nil
	}
	addr, err := ctx.addrOf(v)
	if err != nil {
		return ir.Operand{}, err
	}
	dst := ctx.fn.NewReg()
	ctx.cur.Emit(ir.LoadOp{Dst: dst, Type: v.Type(), Addr: addr})
	return ir.RegOp(dst), nil
}

// convertOperand emits a cast unless the operand already has the type.
func (ctx *Context) convertOperand(op ir.Operand, from, to dtype.DataType) ir.Operand {
	if from == to {
		return op
	}
	dst := ctx.fn.NewReg()
	ctx.cur.Emit(ir.CastOp{Dst: dst, To: to, X: op})
	return ir.RegOp(dst)
}

// spill writes an operand into a fresh rank-0 local so the result is
// addressable like any other value.
func (ctx *Context) spill(op ir.Operand, dt dtype.DataType) (value.Value, error) {
	v, err := ctx.Allocate(dt, layout.Scalar())
	if err != nil {
		return value.Value{}, err
	}
	addr, err := ctx.addrOf(v)
	if err != nil {
		return value.Value{}, err
	}
	ctx.cur.Emit(ir.StoreOp{Addr: addr, Val: op})
	return v, nil
}
