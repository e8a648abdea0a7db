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

package ir

import (
	"github.com/vex-org/vex/dtype"
	"github.com/vex-org/vex/errdefs"
	"github.com/vex-org/vex/kernels"
)

// Instance is an instantiated module ready to execute. Globals are
// materialized once per instance and persist across calls; two calls on the
// same instance observe each other's global writes.
type Instance struct {
	module  *Module
	globals map[string]*kernels.Buffer
}

// NewInstance materializes the globals of a module.
func NewInstance(m *Module) (*Instance, error) {
	in := &Instance{module: m, globals: make(map[string]*kernels.Buffer)}
	for name, g := range m.globals {
		buf, err := newRegionBuffer(g.Type, g.Size, g.Init)
		if err != nil {
			return nil, err
		}
		in.globals[name] = buf
	}
	return in, nil
}

// Module returns the module this instance runs.
func (in *Instance) Module() *Module {
	return in.module
}

// newRegionBuffer allocates a region buffer, filling it with init data
// given in physical order when init is not nil.
func newRegionBuffer(dt dtype.DataType, size int, init any) (*kernels.Buffer, error) {
	buf, err := kernels.NewBuffer(dt, size)
	if err != nil {
		return nil, err
	}
	if init == nil {
		return buf, nil
	}
	src := kernels.BufferOver(init)
	if src == nil {
		if size != 1 {
			return nil, errdefs.Dimension("ir: scalar initializer %v for a region of %d elements", init, size)
		}
		return buf, buf.Set(0, init)
	}
	if src.Len() != size {
		return nil, errdefs.Dimension("ir: %d initializer elements for a region of %d elements", src.Len(), size)
	}
	for i := 0; i < size; i++ {
		if err := buf.Set(i, src.Get(i)); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// pointer is the runtime value of an address register.
type pointer struct {
	buf *kernels.Buffer
	idx int
}

// frame is the per-call execution state of one function.
type frame struct {
	instance *Instance
	fn       *Func
	regs     map[Reg]any
	regions  map[*Region]*kernels.Buffer
}

// Call executes a function by name. Arguments and the result are region
// contents in physical order: one flat buffer per parameter. Rank-0
// parameters accept a Go scalar.
func (in *Instance) Call(name string, args ...any) (*kernels.Buffer, error) {
	fn := in.module.Func(name)
	if fn == nil {
		return nil, errdefs.IllegalState("ir: module %s has no function %q", in.module.Name, name)
	}
	if len(args) != len(fn.Params) {
		return nil, errdefs.Dimension("ir: function %s called with %d arguments, takes %d", name, len(args), len(fn.Params))
	}
	fr := &frame{
		instance: in,
		fn:       fn,
		regs:     make(map[Reg]any),
		regions:  make(map[*Region]*kernels.Buffer),
	}
	for i, p := range fn.Params {
		buf, err := newRegionBuffer(p.Type, p.Size, args[i])
		if err != nil {
			return nil, err
		}
		fr.regions[p] = buf
	}
	if fn.Result != nil {
		buf, err := newRegionBuffer(fn.Result.Type, fn.Result.Size, nil)
		if err != nil {
			return nil, err
		}
		fr.regions[fn.Result] = buf
	}
	for _, loc := range fn.Locals {
		buf, err := newRegionBuffer(loc.Type, loc.Size, nil)
		if err != nil {
			return nil, err
		}
		fr.regions[loc] = buf
	}
	if err := fr.run(); err != nil {
		return nil, err
	}
	if fn.Result == nil {
		return nil, nil
	}
	return fr.regions[fn.Result], nil
}

// run executes blocks from the entry until a return terminator.
func (fr *frame) run() error {
	block := fr.fn.Entry()
	for {
		for _, instr := range block.Instrs {
			if err := fr.step(instr); err != nil {
				return err
			}
		}
		switch term := block.Term.(type) {
		case Br:
			block = term.Target
		case CondBr:
			cond, err := fr.operand(term.Cond)
			if err != nil {
				return err
			}
			taken, ok := cond.(bool)
			if !ok {
				return errdefs.TypeMismatch("ir: condbr on a %T condition in %s", cond, block.Label)
			}
			if taken {
				block = term.Then
			} else {
				block = term.Else
			}
		case Ret:
			return nil
		default:
			return errdefs.IllegalState("ir: block %s of %s has no terminator", block.Label, fr.fn.Name)
		}
	}
}

func (fr *frame) operand(o Operand) (any, error) {
	if !o.IsReg() {
		return o.Value(), nil
	}
	v, ok := fr.regs[o.Reg()]
	if !ok {
		return nil, errdefs.IllegalState("ir: register %s read before assignment in %s", o.Reg(), fr.fn.Name)
	}
	return v, nil
}

func (fr *frame) pointerOperand(o Operand) (pointer, error) {
	v, err := fr.operand(o)
	if err != nil {
		return pointer{}, err
	}
	p, ok := v.(pointer)
	if !ok {
		return pointer{}, errdefs.TypeMismatch("ir: operand %s holds a %T, not an address", o, v)
	}
	return p, nil
}

// region resolves a region reference to its backing buffer: the frame for
// params, result and locals, the instance for globals.
func (fr *frame) region(r *Region) (*kernels.Buffer, error) {
	if r.Kind == RegionGlobal {
		if buf, ok := fr.instance.globals[r.Name]; ok {
			return buf, nil
		}
		// Globals declared after instantiation are materialized on first
		// touch so they still persist across calls.
		g := fr.instance.module.Global(r.Name)
		if g == nil {
			return nil, errdefs.IllegalState("ir: unknown global %q", r.Name)
		}
		buf, err := newRegionBuffer(g.Type, g.Size, g.Init)
		if err != nil {
			return nil, err
		}
		fr.instance.globals[r.Name] = buf
		return buf, nil
	}
	buf, ok := fr.regions[r]
	if !ok {
		return nil, errdefs.IllegalState("ir: region %s is not part of frame %s", r, fr.fn.Name)
	}
	return buf, nil
}

func (fr *frame) step(instr Instr) error {
	switch i := instr.(type) {
	case BinOp:
		x, err := fr.operand(i.X)
		if err != nil {
			return err
		}
		y, err := fr.operand(i.Y)
		if err != nil {
			return err
		}
		res, err := kernels.Binary(i.Op, i.Type, x, y)
		if err != nil {
			return err
		}
		fr.regs[i.Dst] = res
	case CastOp:
		x, err := fr.operand(i.X)
		if err != nil {
			return err
		}
		res, err := kernels.Convert(x, i.To)
		if err != nil {
			return err
		}
		fr.regs[i.Dst] = res
	case AddrOp:
		buf, err := fr.region(i.Base)
		if err != nil {
			return err
		}
		idx, err := fr.indexOperand(i.Index)
		if err != nil {
			return err
		}
		if idx < 0 || idx >= buf.Len() {
			return errdefs.Dimension("ir: address %d out of range for region %s of %d elements", idx, i.Base, buf.Len())
		}
		fr.regs[i.Dst] = pointer{buf: buf, idx: idx}
	case LoadOp:
		p, err := fr.pointerOperand(i.Addr)
		if err != nil {
			return err
		}
		fr.regs[i.Dst] = p.buf.Get(p.idx)
	case StoreOp:
		p, err := fr.pointerOperand(i.Addr)
		if err != nil {
			return err
		}
		v, err := fr.operand(i.Val)
		if err != nil {
			return err
		}
		return p.buf.Set(p.idx, v)
	default:
		return errdefs.IllegalState("ir: unknown instruction %T", instr)
	}
	return nil
}

// indexOperand evaluates an operand used as an element index.
func (fr *frame) indexOperand(o Operand) (int, error) {
	v, err := fr.operand(o)
	if err != nil {
		return 0, err
	}
	wide, err := kernels.Convert(v, dtype.Int64)
	if err != nil {
		return 0, errdefs.TypeMismatch("ir: operand %s holds a %T, not an index", o, v)
	}
	return int(wide.(int64)), nil
}
