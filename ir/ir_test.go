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

package ir_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vex-org/vex/dtype"
	"github.com/vex-org/vex/errdefs"
	"github.com/vex-org/vex/ir"
	"github.com/vex-org/vex/kernels"
)

// addOne builds: func addone(x float64[1]) -> out float64[1] { out[0] = x[0] + 1 }
func addOne(t *testing.T) *ir.Module {
	t.Helper()
	m := ir.NewModule("test")
	x := &ir.Region{Kind: ir.RegionParam, Name: "x", Type: dtype.Float64, Size: 1}
	out := &ir.Region{Kind: ir.RegionResult, Name: "out", Type: dtype.Float64, Size: 1}
	f, err := m.AddFunc("addone", out, []*ir.Region{x})
	if err != nil {
		t.Fatal(err)
	}
	entry := f.Entry()
	xAddr, loaded, sum, outAddr := f.NewReg(), f.NewReg(), f.NewReg(), f.NewReg()
	entry.Emit(ir.AddrOp{Dst: xAddr, Base: x, Index: ir.Imm(int32(0))})
	entry.Emit(ir.LoadOp{Dst: loaded, Type: dtype.Float64, Addr: ir.RegOp(xAddr)})
	entry.Emit(ir.BinOp{Dst: sum, Op: kernels.OpAdd, Type: dtype.Float64, X: ir.RegOp(loaded), Y: ir.Imm(float64(1))})
	entry.Emit(ir.AddrOp{Dst: outAddr, Base: out, Index: ir.Imm(int32(0))})
	entry.Emit(ir.StoreOp{Addr: ir.RegOp(outAddr), Val: ir.RegOp(sum)})
	entry.Term = ir.Ret{}
	return m
}

func TestExecStraightLine(t *testing.T) {
	in, err := ir.NewInstance(addOne(t))
	if err != nil {
		t.Fatal(err)
	}
	res, err := in.Call("addone", float64(41))
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Get(0); got != float64(42) {
		t.Errorf("addone(41) = %v, want 42", got)
	}
}

// sumVector builds a loop summing a float64[4] parameter into a scalar
// result, with an int32 induction local.
func sumVector(t *testing.T) *ir.Module {
	t.Helper()
	m := ir.NewModule("test")
	x := &ir.Region{Kind: ir.RegionParam, Name: "x", Type: dtype.Float64, Size: 4}
	out := &ir.Region{Kind: ir.RegionResult, Name: "out", Type: dtype.Float64, Size: 1}
	f, err := m.AddFunc("sum", out, []*ir.Region{x})
	if err != nil {
		t.Fatal(err)
	}
	i := f.NewLocal("i", dtype.Int32, 1)

	entry := f.Entry()
	header := f.NewBlock("header")
	body := f.NewBlock("body")
	exit := f.NewBlock("exit")
	entry.Term = ir.Br{Target: header}

	iAddr := f.NewReg()
	iVal := f.NewReg()
	cond := f.NewReg()
	header.Emit(ir.AddrOp{Dst: iAddr, Base: i, Index: ir.Imm(int32(0))})
	header.Emit(ir.LoadOp{Dst: iVal, Type: dtype.Int32, Addr: ir.RegOp(iAddr)})
	header.Emit(ir.BinOp{Dst: cond, Op: kernels.OpLt, Type: dtype.Int32, X: ir.RegOp(iVal), Y: ir.Imm(int32(4))})
	header.Term = ir.CondBr{Cond: ir.RegOp(cond), Then: body, Else: exit}

	xAddr, xVal := f.NewReg(), f.NewReg()
	outAddr, acc, sum := f.NewReg(), f.NewReg(), f.NewReg()
	next := f.NewReg()
	body.Emit(ir.AddrOp{Dst: xAddr, Base: x, Index: ir.RegOp(iVal)})
	body.Emit(ir.LoadOp{Dst: xVal, Type: dtype.Float64, Addr: ir.RegOp(xAddr)})
	body.Emit(ir.AddrOp{Dst: outAddr, Base: out, Index: ir.Imm(int32(0))})
	body.Emit(ir.LoadOp{Dst: acc, Type: dtype.Float64, Addr: ir.RegOp(outAddr)})
	body.Emit(ir.BinOp{Dst: sum, Op: kernels.OpAdd, Type: dtype.Float64, X: ir.RegOp(acc), Y: ir.RegOp(xVal)})
	body.Emit(ir.StoreOp{Addr: ir.RegOp(outAddr), Val: ir.RegOp(sum)})
	body.Emit(ir.BinOp{Dst: next, Op: kernels.OpAdd, Type: dtype.Int32, X: ir.RegOp(iVal), Y: ir.Imm(int32(1))})
	body.Emit(ir.StoreOp{Addr: ir.RegOp(iAddr), Val: ir.RegOp(next)})
	body.Term = ir.Br{Target: header}

	exit.Term = ir.Ret{}
	return m
}

func TestExecLoop(t *testing.T) {
	in, err := ir.NewInstance(sumVector(t))
	if err != nil {
		t.Fatal(err)
	}
	res, err := in.Call("sum", []float64{1, 2, 3, 4})
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Get(0); got != float64(10) {
		t.Errorf("sum = %v, want 10", got)
	}
	// Locals are zeroed per call: a second call starts over.
	res, err = in.Call("sum", []float64{5, 5, 5, 5})
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Get(0); got != float64(20) {
		t.Errorf("second sum = %v, want 20", got)
	}
}

// bumpCounter builds a function incrementing a global counter and returning
// its new value.
func bumpCounter(t *testing.T) *ir.Module {
	t.Helper()
	m := ir.NewModule("test")
	count, err := m.AddGlobal(&ir.Global{Name: "count", Type: dtype.Int32, Size: 1})
	if err != nil {
		t.Fatal(err)
	}
	countRef := &ir.Region{Kind: ir.RegionGlobal, Name: count.Name, Type: count.Type, Size: count.Size}
	out := &ir.Region{Kind: ir.RegionResult, Name: "out", Type: dtype.Int32, Size: 1}
	f, err := m.AddFunc("bump", out, nil)
	if err != nil {
		t.Fatal(err)
	}
	entry := f.Entry()
	addr, val, next, outAddr := f.NewReg(), f.NewReg(), f.NewReg(), f.NewReg()
	entry.Emit(ir.AddrOp{Dst: addr, Base: countRef, Index: ir.Imm(int32(0))})
	entry.Emit(ir.LoadOp{Dst: val, Type: dtype.Int32, Addr: ir.RegOp(addr)})
	entry.Emit(ir.BinOp{Dst: next, Op: kernels.OpAdd, Type: dtype.Int32, X: ir.RegOp(val), Y: ir.Imm(int32(1))})
	entry.Emit(ir.StoreOp{Addr: ir.RegOp(addr), Val: ir.RegOp(next)})
	entry.Emit(ir.AddrOp{Dst: outAddr, Base: out, Index: ir.Imm(int32(0))})
	entry.Emit(ir.StoreOp{Addr: ir.RegOp(outAddr), Val: ir.RegOp(next)})
	entry.Term = ir.Ret{}
	return m
}

func TestGlobalPersistsAcrossCalls(t *testing.T) {
	m := bumpCounter(t)
	in, err := ir.NewInstance(m)
	if err != nil {
		t.Fatal(err)
	}
	for want := int32(1); want <= 3; want++ {
		res, err := in.Call("bump")
		if err != nil {
			t.Fatal(err)
		}
		if got := res.Get(0); got != want {
			t.Errorf("bump = %v, want %d", got, want)
		}
	}
	// A fresh instance re-materializes the global.
	fresh, err := ir.NewInstance(m)
	if err != nil {
		t.Fatal(err)
	}
	res, err := fresh.Call("bump")
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Get(0); got != int32(1) {
		t.Errorf("bump on fresh instance = %v, want 1", got)
	}
}

func TestGlobalConflict(t *testing.T) {
	m := ir.NewModule("test")
	if _, err := m.AddGlobal(&ir.Global{Name: "g", Type: dtype.Int32, Size: 4}); err != nil {
		t.Fatal(err)
	}
	g, err := m.AddGlobal(&ir.Global{Name: "g", Type: dtype.Int32, Size: 4})
	if err != nil {
		t.Fatal(err)
	}
	if g != m.Global("g") {
		t.Error("re-adding a global did not return the existing declaration")
	}
	if _, err := m.AddGlobal(&ir.Global{Name: "g", Type: dtype.Float64, Size: 4}); !errdefs.IsIllegalState(err) {
		t.Errorf("conflicting global: got %v, want an illegal state error", err)
	}
}

func TestCallErrors(t *testing.T) {
	in, err := ir.NewInstance(addOne(t))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := in.Call("missing"); !errdefs.IsIllegalState(err) {
		t.Errorf("unknown function: got %v, want an illegal state error", err)
	}
	if _, err := in.Call("addone"); !errdefs.IsDimension(err) {
		t.Errorf("missing argument: got %v, want a dimension error", err)
	}
}

func TestModuleDump(t *testing.T) {
	m := sumVector(t)
	dump := m.String()
	for _, want := range []string{
		"module test",
		"func sum(%x float64[4]) -> %out float64[1] {",
		"local %i.1 int32[1]",
		"header:",
		"condbr",
		"br header",
		"ret",
	} {
		if !strings.Contains(dump, want) {
			t.Errorf("module dump is missing %q:\n%s", want, dump)
		}
	}
	if diff := cmp.Diff(dump, m.String()); diff != "" {
		t.Errorf("module dump is not stable:\n%s", diff)
	}
}
