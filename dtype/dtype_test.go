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

package dtype_test

import (
	"testing"

	"github.com/vex-org/vex/dtype"
)

func TestFromGoType(t *testing.T) {
	if got := dtype.FromGoType[float32](); got != dtype.Float32 {
		t.Errorf("FromGoType[float32] = %s", got)
	}
	if got := dtype.FromGoType[bool](); got != dtype.Bool {
		t.Errorf("FromGoType[bool] = %s", got)
	}
	if got := dtype.FromGoValue("nope"); got != dtype.Invalid {
		t.Errorf("FromGoValue(string) = %s, want invalid", got)
	}
}

func TestSize(t *testing.T) {
	tests := []struct {
		dt   dtype.DataType
		want int
	}{
		{dtype.Bool, 1},
		{dtype.Int8, 1},
		{dtype.Uint8, 1},
		{dtype.Int16, 2},
		{dtype.Int32, 4},
		{dtype.Int64, 8},
		{dtype.Float32, 4},
		{dtype.Float64, 8},
	}
	for _, test := range tests {
		if got := test.dt.Size(); got != test.want {
			t.Errorf("%s.Size() = %d, want %d", test.dt, got, test.want)
		}
	}
}

func TestPromote(t *testing.T) {
	tests := []struct {
		x, y, want dtype.DataType
	}{
		{dtype.Int32, dtype.Int32, dtype.Int32},
		{dtype.Int8, dtype.Int64, dtype.Int64},
		{dtype.Int64, dtype.Float32, dtype.Float32},
		{dtype.Float32, dtype.Float64, dtype.Float64},
		{dtype.Uint8, dtype.Int16, dtype.Int16},
		{dtype.Bool, dtype.Bool, dtype.Bool},
		{dtype.Bool, dtype.Int32, dtype.Invalid},
		{dtype.Invalid, dtype.Int32, dtype.Invalid},
	}
	for _, test := range tests {
		if got := dtype.Promote(test.x, test.y); got != test.want {
			t.Errorf("Promote(%s, %s) = %s, want %s", test.x, test.y, got, test.want)
		}
		if got := dtype.Promote(test.y, test.x); got != test.want {
			t.Errorf("Promote(%s, %s) = %s, want %s", test.y, test.x, got, test.want)
		}
	}
}

func TestClassifiers(t *testing.T) {
	if !dtype.Float32.IsFloat() || dtype.Float32.IsInteger() {
		t.Error("float32 misclassified")
	}
	if !dtype.Uint8.IsInteger() || dtype.Uint8.IsFloat() {
		t.Error("uint8 misclassified")
	}
	if dtype.Bool.IsNumeric() {
		t.Error("bool classified as numeric")
	}
}
