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
	"fmt"

	"github.com/vex-org/vex/dtype"
	"github.com/vex-org/vex/errdefs"
	"github.com/vex-org/vex/ir"
	"github.com/vex-org/vex/kernels"
	"github.com/vex-org/vex/layout"
	"github.com/vex-org/vex/value"
)

// For emits one counted loop per extent, innermost last. The body callback
// runs exactly once per nesting level: the values it receives view the
// induction locals, so the emitted instructions address a different element
// on every iteration at run time.
func (ctx *Context) For(extents []int, body func(idx []value.Value) error) error {
	if err := ctx.inFunction("for"); err != nil {
		return err
	}
	return ctx.emitLoops(extents, nil, body)
}

func (ctx *Context) emitLoops(extents []int, idx []value.Value, body func(idx []value.Value) error) error {
	if len(extents) == 0 {
		return body(idx)
	}
	ctx.nextBlock++
	n := ctx.nextBlock
	iLoc := ctx.fn.NewLocal("i", dtype.Index, 1)
	iVal := value.New(ctx, dtype.Index, layout.Scalar(), &regionStorage{region: iLoc})

	// Reset the induction local: it is fresh storage, but an enclosing loop
	// re-enters this code on every outer iteration.
	iAddr, err := ctx.addrOf(iVal)
	if err != nil {
		return ctx.recordErr(err)
	}
	ctx.cur.Emit(ir.StoreOp{Addr: iAddr, Val: ir.Imm(int32(0))})

	header := ctx.fn.NewBlock(fmt.Sprintf("loop%d.header", n))
	bodyBlock := ctx.fn.NewBlock(fmt.Sprintf("loop%d.body", n))
	exit := ctx.fn.NewBlock(fmt.Sprintf("loop%d.exit", n))
	ctx.cur.Term = ir.Br{Target: header}

	ctx.cur = header
	iOp, err := ctx.scalarOperand(iVal)
	if err != nil {
		return ctx.recordErr(err)
	}
	cond := ctx.fn.NewReg()
	ctx.cur.Emit(ir.BinOp{Dst: cond, Op: kernels.OpLt, Type: dtype.Index, X: iOp, Y: ir.Imm(int32(extents[0]))})
	ctx.cur.Term = ir.CondBr{Cond: ir.RegOp(cond), Then: bodyBlock, Else: exit}

	ctx.cur = bodyBlock
	if err := ctx.emitLoops(extents[1:], append(idx, iVal), body); err != nil {
		return err
	}

	// Latch: increment and loop back, from wherever the body left emission.
	latchAddr, err := ctx.addrOf(iVal)
	if err != nil {
		return ctx.recordErr(err)
	}
	latchOp, err := ctx.scalarOperand(iVal)
	if err != nil {
		return ctx.recordErr(err)
	}
	next := ctx.fn.NewReg()
	ctx.cur.Emit(ir.BinOp{Dst: next, Op: kernels.OpAdd, Type: dtype.Index, X: latchOp, Y: ir.Imm(int32(1))})
	ctx.cur.Emit(ir.StoreOp{Addr: latchAddr, Val: ir.RegOp(next)})
	ctx.cur.Term = ir.Br{Target: header}

	ctx.cur = exit
	return nil
}

// conditional tracks an emitted chain. After If returns, the insertion
// point already sits in the merge block; ElseIf and Else temporarily
// redirect emission into the pending else block, then restore it.
type conditional struct {
	ctx    *Context
	merge  *ir.Block
	pend   *ir.Block
	closed bool
}

var _ value.Conditional = (*conditional)(nil)

// If emits a branch on cond: body instructions run only when the boolean
// scalar is true. Emission continues in the merge block, so instructions
// appended after the chain run unconditionally.
func (ctx *Context) If(cond func() (value.Value, error), body func() error) (value.Conditional, error) {
	if err := ctx.inFunction("if"); err != nil {
		return nil, err
	}
	ctx.nextBlock++
	n := ctx.nextBlock
	merge := &ir.Block{Label: fmt.Sprintf("if%d.merge", n)}
	chain := &conditional{ctx: ctx, merge: merge}
	if err := chain.arm(cond, body, n, 0); err != nil {
		return nil, err
	}
	// The merge block goes last so the dump reads in source order; emission
	// into it is already valid before then.
	ctx.appendBlock(merge)
	ctx.cur = merge
	return chain, nil
}

// arm emits one condition and body into the current block, leaving a
// pending else block terminated by a jump to merge.
func (c *conditional) arm(cond func() (value.Value, error), body func() error, n, depth int) error {
	ctx := c.ctx
	cv, err := cond()
	if err != nil {
		return ctx.recordErr(err)
	}
	if cv.Type() != dtype.Bool {
		return ctx.recordErr(errdefs.TypeMismatch("codegen: condition %s is not boolean", cv))
	}
	condOp, err := ctx.scalarOperand(cv)
	if err != nil {
		return ctx.recordErr(err)
	}
	then := ctx.fn.NewBlock(fmt.Sprintf("if%d.then%d", n, depth))
	pend := &ir.Block{
		Label: fmt.Sprintf("if%d.else%d", n, depth),
		Term:  ir.Br{Target: c.merge},
	}
	ctx.appendBlock(pend)
	ctx.cur.Term = ir.CondBr{Cond: condOp, Then: then, Else: pend}

	ctx.cur = then
	if err := body(); err != nil {
		return ctx.recordErr(err)
	}
	ctx.cur.Term = ir.Br{Target: c.merge}

	c.pend = pend
	return nil
}

// ElseIf emits a further condition inside the pending else block.
func (c *conditional) ElseIf(cond func() (value.Value, error), body func() error) (value.Conditional, error) {
	ctx := c.ctx
	if c.closed {
		return nil, ctx.recordErr(errdefs.Construction("codegen: ElseIf after Else"))
	}
	saved := ctx.cur
	ctx.cur = c.pend
	ctx.cur.Term = nil
	ctx.nextBlock++
	if err := c.arm(cond, body, ctx.nextBlock, 0); err != nil {
		ctx.cur = saved
		return nil, err
	}
	ctx.cur = saved
	return c, nil
}

// Else emits the fallback body inside the pending else block.
func (c *conditional) Else(body func() error) error {
	ctx := c.ctx
	if c.closed {
		return ctx.recordErr(errdefs.Construction("codegen: multiple Else on one chain"))
	}
	c.closed = true
	saved := ctx.cur
	ctx.cur = c.pend
	if err := body(); err != nil {
		ctx.cur = saved
		return ctx.recordErr(err)
	}
	ctx.cur.Term = ir.Br{Target: c.merge}
	ctx.cur = saved
	return nil
}

// appendBlock adds an already-built block to the function.
func (ctx *Context) appendBlock(b *ir.Block) {
	ctx.fn.Blocks = append(ctx.fn.Blocks, b)
}
