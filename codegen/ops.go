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

package codegen

import (
	"github.com/vex-org/vex/dtype"
	"github.com/vex-org/vex/errdefs"
	"github.com/vex-org/vex/ir"
	"github.com/vex-org/vex/kernels"
	"github.com/vex-org/vex/layout"
	"github.com/vex-org/vex/value"
)

// BinaryOp emits op over two scalar operands. Operands are cast to their
// common type first; the result spills to a fresh local.
func (ctx *Context) BinaryOp(op kernels.Op, x, y value.Value) (value.Value, error) {
	if err := ctx.inFunction("binary op"); err != nil {
		return value.Value{}, err
	}
	common := dtype.Promote(x.Type(), y.Type())
	if common == dtype.Invalid {
		return value.Value{}, ctx.recordErr(errdefs.TypeMismatch("codegen: no common type for %s %s %s", x, op, y))
	}
	xOp, err := ctx.scalarOperand(x)
	if err != nil {
		return value.Value{}, ctx.recordErr(err)
	}
	yOp, err := ctx.scalarOperand(y)
	if err != nil {
		return value.Value{}, ctx.recordErr(err)
	}
	xOp = ctx.convertOperand(xOp, x.Type(), common)
	yOp = ctx.convertOperand(yOp, y.Type(), common)
	dst := ctx.fn.NewReg()
	ctx.cur.Emit(ir.BinOp{Dst: dst, Op: op, Type: common, X: xOp, Y: yOp})
	res, err := ctx.spill(ir.RegOp(dst), kernels.ResultType(op, common))
	if err != nil {
		return value.Value{}, ctx.recordErr(err)
	}
	return res, nil
}

// Cast emits a conversion of a scalar to the element type dt, spilled to a
// fresh local so the result never aliases x.
func (ctx *Context) Cast(x value.Value, to dtype.DataType) (value.Value, error) {
	if err := ctx.inFunction("cast"); err != nil {
		return value.Value{}, err
	}
	xOp, err := ctx.scalarOperand(x)
	if err != nil {
		return value.Value{}, ctx.recordErr(err)
	}
	dst := ctx.fn.NewReg()
	ctx.cur.Emit(ir.CastOp{Dst: dst, To: to, X: xOp})
	res, err := ctx.spill(ir.RegOp(dst), to)
	if err != nil {
		return value.Value{}, ctx.recordErr(err)
	}
	return res, nil
}

// Offset emits the address computation for an element of x, folding the
// layout into explicit index arithmetic:
//
//	linear = base + sum_d idx[d] * stride[d]
//
// Constant indices fold into the base at emission time.
func (ctx *Context) Offset(x value.Value, idx []value.Value) (value.Value, error) {
	if err := ctx.inFunction("offset"); err != nil {
		return value.Value{}, err
	}
	lay := x.Layout()
	if len(idx) != lay.Rank() {
		return value.Value{}, ctx.recordErr(errdefs.Dimension("codegen: %d indices into value %s", len(idx), x))
	}
	store, ok := x.Storage().(*regionStorage)
	if !ok {
		return value.Value{}, ctx.recordErr(errdefs.IllegalState("codegen: cannot index into %s", x))
	}
	base := int32(lay.Offset())
	linear := ir.Operand{}
	haveReg := false
	for d, iv := range idx {
		if !iv.Type().IsInteger() {
			return value.Value{}, ctx.recordErr(errdefs.TypeMismatch("codegen: index value %s is not an integer", iv))
		}
		if imm, ok := iv.Storage().(*immStorage); ok {
			wide, err := kernels.Convert(imm.imm, dtype.Int64)
			if err != nil {
				return value.Value{}, ctx.recordErr(err)
			}
			i := int(wide.(int64))
			if i < 0 || i >= lay.Extent(d) {
				return value.Value{}, ctx.recordErr(errdefs.Dimension("codegen: index %d out of range for extents %v in dimension %d", i, lay.Extents(), d))
			}
			base += int32(i * lay.Stride(d))
			continue
		}
		iOp, err := ctx.scalarOperand(iv)
		if err != nil {
			return value.Value{}, ctx.recordErr(err)
		}
		iOp = ctx.convertOperand(iOp, iv.Type(), dtype.Index)
		if stride := lay.Stride(d); stride != 1 {
			dst := ctx.fn.NewReg()
			ctx.cur.Emit(ir.BinOp{Dst: dst, Op: kernels.OpMul, Type: dtype.Index, X: iOp, Y: ir.Imm(int32(stride))})
			iOp = ir.RegOp(dst)
		}
		if !haveReg {
			linear, haveReg = iOp, true
			continue
		}
		dst := ctx.fn.NewReg()
		ctx.cur.Emit(ir.BinOp{Dst: dst, Op: kernels.OpAdd, Type: dtype.Index, X: linear, Y: iOp})
		linear = ir.RegOp(dst)
	}
	index := ir.Imm(base)
	if haveReg {
		index = linear
		if base != 0 {
			dst := ctx.fn.NewReg()
			ctx.cur.Emit(ir.BinOp{Dst: dst, Op: kernels.OpAdd, Type: dtype.Index, X: linear, Y: ir.Imm(base)})
			index = ir.RegOp(dst)
		}
	}
	dst := ctx.fn.NewReg()
	ctx.cur.Emit(ir.AddrOp{Dst: dst, Base: store.region, Index: index})
	return value.New(ctx, x.Type(), layout.Scalar(), &addrStorage{addr: dst, base: store.region}), nil
}

// Store emits a write of the scalar src into the location dst. Element
// types must match exactly.
func (ctx *Context) Store(dst, src value.Value) error {
	if err := ctx.inFunction("store"); err != nil {
		return err
	}
	if dst.Type() != src.Type() {
		return ctx.recordErr(errdefs.TypeMismatch("codegen: cannot store %s into %s", src, dst))
	}
	srcOp, err := ctx.scalarOperand(src)
	if err != nil {
		return ctx.recordErr(err)
	}
	addr, err := ctx.addrOf(dst)
	if err != nil {
		return ctx.recordErr(err)
	}
	ctx.cur.Emit(ir.StoreOp{Addr: addr, Val: srcOp})
	return nil
}
