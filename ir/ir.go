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

// Package ir defines the low-level module representation emitted by the
// codegen backend.
//
// A module holds named globals and functions. A function body is a list of
// basic blocks over virtual registers in static single-assignment form:
// every register is written by exactly one instruction. Memory is addressed
// through regions, flat element arrays with no layout information left;
// layouts are folded into explicit index arithmetic during emission.
package ir

import (
	"fmt"

	"github.com/vex-org/vex/dtype"
	"github.com/vex-org/vex/errdefs"
	"github.com/vex-org/vex/kernels"
)

type (
	// Module is a compiled unit: named globals plus functions.
	Module struct {
		Name string

		globals map[string]*Global
		funcs   []*Func
	}

	// Global is a module-level region with optional initial contents given
	// in physical order (a Go scalar for single-element regions, a flat
	// slice otherwise). A nil Init zero-initializes.
	Global struct {
		Name string
		Type dtype.DataType
		Size int
		Init any
	}

	// RegionKind tells where a region lives within a function frame.
	RegionKind int

	// Region is a flat array of elements addressable by a function:
	// a parameter, the result, a local, or a module global.
	Region struct {
		Kind RegionKind
		Name string
		Type dtype.DataType
		Size int
	}

	// Func is a function under construction or fully built. Parameters and
	// result are regions filled and read by the caller; locals are fresh,
	// zeroed regions per invocation.
	Func struct {
		Name   string
		Params []*Region
		Result *Region
		Locals []*Region
		Blocks []*Block

		nextReg   Reg
		nextLocal int
	}

	// Block is a basic block: instructions followed by one terminator.
	Block struct {
		Label  string
		Instrs []Instr
		Term   Term
	}
)

// Region kinds.
const (
	RegionParam RegionKind = iota
	RegionResult
	RegionLocal
	RegionGlobal
)

var regionKindNames = [...]string{
	RegionParam:  "param",
	RegionResult: "result",
	RegionLocal:  "local",
	RegionGlobal: "global",
}

// String returns the region kind name.
func (k RegionKind) String() string {
	return regionKindNames[k]
}

// NewModule returns an empty module.
func NewModule(name string) *Module {
	return &Module{Name: name, globals: make(map[string]*Global)}
}

// AddGlobal registers a global, failing on a name that is already bound to
// a different type or size.
func (m *Module) AddGlobal(g *Global) (*Global, error) {
	if prev, ok := m.globals[g.Name]; ok {
		if prev.Type != g.Type || prev.Size != g.Size {
			return nil, errdefs.IllegalState("ir: global %q already declared as %s[%d]", g.Name, prev.Type, prev.Size)
		}
		return prev, nil
	}
	m.globals[g.Name] = g
	return g, nil
}

// Global returns the global with the given name, or nil.
func (m *Module) Global(name string) *Global {
	return m.globals[name]
}

// AddFunc appends a new empty function with an entry block.
func (m *Module) AddFunc(name string, result *Region, params []*Region) (*Func, error) {
	for _, f := range m.funcs {
		if f.Name == name {
			return nil, errdefs.IllegalState("ir: function %q already declared", name)
		}
	}
	f := &Func{Name: name, Params: params, Result: result}
	f.NewBlock("entry")
	m.funcs = append(m.funcs, f)
	return f, nil
}

// Func returns the function with the given name, or nil.
func (m *Module) Func(name string) *Func {
	for _, f := range m.funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Funcs returns the functions in declaration order.
func (m *Module) Funcs() []*Func {
	return m.funcs
}

// NewReg returns a fresh virtual register.
func (f *Func) NewReg() Reg {
	f.nextReg++
	return f.nextReg
}

// NewBlock appends a new empty block to the function.
func (f *Func) NewBlock(label string) *Block {
	b := &Block{Label: label}
	f.Blocks = append(f.Blocks, b)
	return b
}

// Entry is the block execution starts in.
func (f *Func) Entry() *Block {
	return f.Blocks[0]
}

// NewLocal appends a fresh local region of the given element type and size.
func (f *Func) NewLocal(name string, dt dtype.DataType, size int) *Region {
	f.nextLocal++
	if name == "" {
		name = "t"
	}
	loc := &Region{
		Kind: RegionLocal,
		Name: fmt.Sprintf("%s.%d", name, f.nextLocal),
		Type: dt,
		Size: size,
	}
	f.Locals = append(f.Locals, loc)
	return loc
}

// Emit appends an instruction to the block.
func (b *Block) Emit(instr Instr) {
	b.Instrs = append(b.Instrs, instr)
}

type (
	// Reg is a virtual register. Register 0 is never assigned.
	Reg int

	// Operand is either a virtual register or a typed immediate.
	Operand struct {
		reg Reg
		imm any
	}

	// Instr is a non-terminating instruction.
	Instr interface {
		isInstr()
		String() string
	}

	// BinOp applies a binary operator to two operands of the common type
	// and writes the result register.
	BinOp struct {
		Dst  Reg
		Op   kernels.Op
		Type dtype.DataType
		X, Y Operand
	}

	// CastOp converts an operand to another element type.
	CastOp struct {
		Dst Reg
		To  dtype.DataType
		X   Operand
	}

	// AddrOp writes the address of element Index of region Base into the
	// result register.
	AddrOp struct {
		Dst   Reg
		Base  *Region
		Index Operand
	}

	// LoadOp reads the element behind an address operand.
	LoadOp struct {
		Dst  Reg
		Type dtype.DataType
		Addr Operand
	}

	// StoreOp writes a value operand to the element behind an address
	// operand.
	StoreOp struct {
		Addr Operand
		Val  Operand
	}

	// Term ends a basic block.
	Term interface {
		isTerm()
		String() string
	}

	// Br branches unconditionally.
	Br struct {
		Target *Block
	}

	// CondBr branches on a boolean operand.
	CondBr struct {
		Cond Operand
		Then *Block
		Else *Block
	}

	// Ret returns from the function. The result is whatever the result
	// region holds.
	Ret struct{}
)

// RegOp returns a register operand.
func RegOp(r Reg) Operand {
	return Operand{reg: r}
}

// Imm returns an immediate operand holding a Go scalar.
func Imm(v any) Operand {
	return Operand{imm: v}
}

// IsReg returns true for register operands.
func (o Operand) IsReg() bool {
	return o.imm == nil
}

// Reg returns the register of a register operand.
func (o Operand) Reg() Reg {
	return o.reg
}

// Value returns the Go scalar of an immediate operand.
func (o Operand) Value() any {
	return o.imm
}

func (BinOp) isInstr()   {}
func (CastOp) isInstr()  {}
func (AddrOp) isInstr()  {}
func (LoadOp) isInstr()  {}
func (StoreOp) isInstr() {}

func (Br) isTerm()     {}
func (CondBr) isTerm() {}
func (Ret) isTerm()    {}
