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
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/maps"

	vexfmt "github.com/vex-org/vex/base/fmt"
)

// String returns a stable textual dump of the module. Globals are listed in
// name order, functions in declaration order.
func (m *Module) String() string {
	var s strings.Builder
	fmt.Fprintf(&s, "module %s\n", m.Name)
	names := maps.Keys(m.globals)
	slices.Sort(names)
	for _, name := range names {
		s.WriteString(m.globals[name].String())
		s.WriteString("\n")
	}
	for _, f := range m.funcs {
		s.WriteString("\n")
		s.WriteString(f.String())
	}
	return s.String()
}

// String returns the global declaration line.
func (g *Global) String() string {
	s := fmt.Sprintf("global @%s %s[%d]", g.Name, g.Type, g.Size)
	if g.Init != nil {
		s += fmt.Sprintf(" = %v", g.Init)
	}
	return s
}

// String returns the region as it appears in instruction operands.
func (r *Region) String() string {
	prefix := "%"
	if r.Kind == RegionGlobal {
		prefix = "@"
	}
	return fmt.Sprintf("%s%s", prefix, r.Name)
}

func (r *Region) decl() string {
	return fmt.Sprintf("%s %s[%d]", r.String(), r.Type, r.Size)
}

// String returns the function with all its blocks.
func (f *Func) String() string {
	var s strings.Builder
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.decl()
	}
	result := "void"
	if f.Result != nil {
		result = f.Result.decl()
	}
	fmt.Fprintf(&s, "func %s(%s) -> %s {\n", f.Name, strings.Join(params, ", "), result)
	for _, loc := range f.Locals {
		s.WriteString(vexfmt.Indent(fmt.Sprintf("local %s\n", loc.decl())))
	}
	for _, b := range f.Blocks {
		s.WriteString(vexfmt.IndentSkip(1, b.String()))
	}
	s.WriteString("}\n")
	return s.String()
}

// String returns the block label followed by its indented body.
func (b *Block) String() string {
	var s strings.Builder
	fmt.Fprintf(&s, "%s:\n", b.Label)
	for _, instr := range b.Instrs {
		fmt.Fprintf(&s, "%s\n", instr)
	}
	if b.Term != nil {
		fmt.Fprintf(&s, "%s\n", b.Term)
	}
	return s.String()
}

// String returns the register name.
func (r Reg) String() string {
	return fmt.Sprintf("%%r%d", int(r))
}

// String returns the operand: a register name or a typed immediate.
func (o Operand) String() string {
	if o.IsReg() {
		return o.reg.String()
	}
	return fmt.Sprintf("%v:%T", o.imm, o.imm)
}

// String returns the instruction in assembly form.
func (i BinOp) String() string {
	return fmt.Sprintf("%s = %s.%s %s, %s", i.Dst, i.Op, i.Type, i.X, i.Y)
}

// String returns the instruction in assembly form.
func (i CastOp) String() string {
	return fmt.Sprintf("%s = cast.%s %s", i.Dst, i.To, i.X)
}

// String returns the instruction in assembly form.
func (i AddrOp) String() string {
	return fmt.Sprintf("%s = addr %s, %s", i.Dst, i.Base, i.Index)
}

// String returns the instruction in assembly form.
func (i LoadOp) String() string {
	return fmt.Sprintf("%s = load.%s %s", i.Dst, i.Type, i.Addr)
}

// String returns the instruction in assembly form.
func (i StoreOp) String() string {
	return fmt.Sprintf("store %s, %s", i.Addr, i.Val)
}

// String returns the terminator in assembly form.
func (t Br) String() string {
	return fmt.Sprintf("br %s", t.Target.Label)
}

// String returns the terminator in assembly form.
func (t CondBr) String() string {
	return fmt.Sprintf("condbr %s, %s, %s", t.Cond, t.Then.Label, t.Else.Label)
}

// String returns the terminator in assembly form.
func (t Ret) String() string {
	return "ret"
}
