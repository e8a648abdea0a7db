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

package kernels_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vex-org/vex/dtype"
	"github.com/vex-org/vex/errdefs"
	"github.com/vex-org/vex/kernels"
	"github.com/vex-org/vex/layout"
)

func TestBinary(t *testing.T) {
	tests := []struct {
		op   kernels.Op
		dt   dtype.DataType
		x, y any
		want any
	}{
		{kernels.OpAdd, dtype.Float64, float64(1.5), float64(2), float64(3.5)},
		{kernels.OpSub, dtype.Int32, int32(1), int32(2), int32(-1)},
		{kernels.OpMul, dtype.Int8, int8(3), int8(4), int8(12)},
		{kernels.OpDiv, dtype.Int32, int32(7), int32(2), int32(3)},
		{kernels.OpDiv, dtype.Float32, float32(7), float32(2), float32(3.5)},
		{kernels.OpMod, dtype.Int32, int32(-7), int32(3), int32(-1)},
		{kernels.OpLt, dtype.Int32, int32(1), int32(2), true},
		{kernels.OpGe, dtype.Float64, float64(2), float64(2), true},
		{kernels.OpNe, dtype.Uint8, uint8(1), uint8(1), false},
		{kernels.OpEq, dtype.Bool, true, true, true},
	}
	for _, test := range tests {
		got, err := kernels.Binary(test.op, test.dt, test.x, test.y)
		if err != nil {
			t.Errorf("%v %s %v: %v", test.x, test.op, test.y, err)
			continue
		}
		if got != test.want {
			t.Errorf("%v %s %v = %v, want %v", test.x, test.op, test.y, got, test.want)
		}
	}
}

func TestBinaryErrors(t *testing.T) {
	if _, err := kernels.Binary(kernels.OpMod, dtype.Float64, float64(1), float64(2)); !errdefs.IsTypeMismatch(err) {
		t.Errorf("float modulo: got %v, want a type mismatch error", err)
	}
	if _, err := kernels.Binary(kernels.OpAdd, dtype.Bool, true, false); !errdefs.IsTypeMismatch(err) {
		t.Errorf("bool addition: got %v, want a type mismatch error", err)
	}
	if _, err := kernels.Binary(kernels.OpAdd, dtype.Int32, int64(1), int32(2)); err == nil {
		t.Error("mismatched operand type accepted")
	}
}

func TestIntegerZeroDivisor(t *testing.T) {
	if _, err := kernels.Binary(kernels.OpDiv, dtype.Int32, int32(1), int32(0)); !errdefs.IsIllegalState(err) {
		t.Errorf("integer division by zero: got %v, want an illegal state error", err)
	}
	if _, err := kernels.Binary(kernels.OpMod, dtype.Int64, int64(5), int64(0)); !errdefs.IsIllegalState(err) {
		t.Errorf("integer modulo by zero: got %v, want an illegal state error", err)
	}
	// Floating point division by zero keeps IEEE semantics.
	got, err := kernels.Binary(kernels.OpDiv, dtype.Float64, float64(1), float64(0))
	if err != nil {
		t.Fatal(err)
	}
	if got != math.Inf(1) {
		t.Errorf("1.0 / 0.0 = %v, want +Inf", got)
	}
}

func TestResultType(t *testing.T) {
	if got := kernels.ResultType(kernels.OpAdd, dtype.Float32); got != dtype.Float32 {
		t.Errorf("add result = %s", got)
	}
	if got := kernels.ResultType(kernels.OpLt, dtype.Float32); got != dtype.Bool {
		t.Errorf("comparison result = %s", got)
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		v    any
		to   dtype.DataType
		want any
	}{
		{int32(10), dtype.Float32, float32(10)},
		{float64(3.9), dtype.Int32, int32(3)},
		{float64(-3.9), dtype.Int32, int32(-3)},
		{int64(300), dtype.Int8, int8(44)},
		{uint8(255), dtype.Int16, int16(255)},
		{true, dtype.Bool, true},
	}
	for _, test := range tests {
		got, err := kernels.Convert(test.v, test.to)
		if err != nil {
			t.Errorf("convert %v to %s: %v", test.v, test.to, err)
			continue
		}
		if got != test.want {
			t.Errorf("convert %v to %s = %v, want %v", test.v, test.to, got, test.want)
		}
	}
	if _, err := kernels.Convert(true, dtype.Int32); !errdefs.IsTypeMismatch(err) {
		t.Errorf("bool to int: got %v, want a type mismatch error", err)
	}
	if _, err := kernels.Convert(int32(1), dtype.Bool); !errdefs.IsTypeMismatch(err) {
		t.Errorf("int to bool: got %v, want a type mismatch error", err)
	}
}

func TestBufferReadWriteLogical(t *testing.T) {
	lay, err := layout.NewOrdered([]int{2, 3}, layout.Order{1, 0})
	if err != nil {
		t.Fatal(err)
	}
	// Logical shape is (3, 2) stored column major.
	buf, err := kernels.NewBuffer(dtype.Int32, lay.Count())
	if err != nil {
		t.Fatal(err)
	}
	if err := kernels.WriteLogical(buf, lay, []int32{1, 2, 3, 4, 5, 6}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int32{1, 3, 5, 2, 4, 6}, buf.Data()); diff != "" {
		t.Errorf("physical storage (-want +got):\n%s", diff)
	}
	back, err := kernels.ReadLogical(buf, lay)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int32{1, 2, 3, 4, 5, 6}, back); diff != "" {
		t.Errorf("logical read (-want +got):\n%s", diff)
	}
}

func TestBufferSetTypeStrict(t *testing.T) {
	buf, err := kernels.NewBuffer(dtype.Int32, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := buf.Set(0, int64(1)); !errdefs.IsTypeMismatch(err) {
		t.Errorf("wrong element type: got %v, want a type mismatch error", err)
	}
}
