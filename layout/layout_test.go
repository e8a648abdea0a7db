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

package layout_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vex-org/vex/errdefs"
	"github.com/vex-org/vex/layout"
)

func TestRowMajor(t *testing.T) {
	lay := layout.New(2, 3, 4)
	if got := lay.Count(); got != 24 {
		t.Errorf("count = %d, want 24", got)
	}
	if diff := cmp.Diff([]int{12, 4, 1}, []int{lay.Stride(0), lay.Stride(1), lay.Stride(2)}); diff != "" {
		t.Errorf("strides (-want +got):\n%s", diff)
	}
	linear, err := lay.LinearIndex([]int{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if linear != 23 {
		t.Errorf("linear(1,2,3) = %d, want 23", linear)
	}
}

func TestScalar(t *testing.T) {
	lay := layout.Scalar()
	if lay.Rank() != 0 || lay.Count() != 1 {
		t.Errorf("scalar layout: rank %d count %d", lay.Rank(), lay.Count())
	}
	linear, err := lay.LinearIndex(nil)
	if err != nil {
		t.Fatal(err)
	}
	if linear != 0 {
		t.Errorf("scalar linear = %d", linear)
	}
}

func TestChannelMajor(t *testing.T) {
	// Physical extents (channels, rows, columns) with logical shape
	// (rows, columns, channels).
	lay, err := layout.NewOrdered([]int{3, 4, 5}, layout.ChannelMajorOrder3D)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{4, 5, 3}, lay.Extents()); diff != "" {
		t.Errorf("logical extents (-want +got):\n%s", diff)
	}
	// Walking a channel touches strided positions: the channel dimension is
	// outermost in storage.
	if got := lay.Stride(2); got != 20 {
		t.Errorf("channel stride = %d, want 20", got)
	}
	if got := lay.Stride(1); got != 1 {
		t.Errorf("column stride = %d, want 1", got)
	}
}

func TestNewOrderedRejectsBadOrder(t *testing.T) {
	if _, err := layout.NewOrdered([]int{2, 2}, layout.Order{0, 0}); !errdefs.IsDimension(err) {
		t.Errorf("duplicate order: got %v, want a dimension error", err)
	}
	if _, err := layout.NewOrdered([]int{2, 2}, layout.Order{0, 1, 2}); !errdefs.IsDimension(err) {
		t.Errorf("rank mismatch: got %v, want a dimension error", err)
	}
}

func TestSliceFoldsOffset(t *testing.T) {
	lay := layout.New(2, 3, 4)
	plane, err := lay.Slice(layout.At(1), layout.All, layout.All)
	if err != nil {
		t.Fatal(err)
	}
	if plane.Rank() != 2 || plane.Offset() != 12 {
		t.Errorf("plane rank %d offset %d, want rank 2 offset 12", plane.Rank(), plane.Offset())
	}
	row, err := plane.Slice(layout.At(2), layout.All)
	if err != nil {
		t.Fatal(err)
	}
	if row.Offset() != 20 {
		t.Errorf("row offset = %d, want 20", row.Offset())
	}
	linear, err := row.LinearIndex([]int{3})
	if err != nil {
		t.Fatal(err)
	}
	if want, _ := lay.LinearIndex([]int{1, 2, 3}); linear != want {
		t.Errorf("sliced linear = %d, want %d", linear, want)
	}
}

func TestSliceKeepsRelativeOrder(t *testing.T) {
	// Slicing the channel-major layout down to one channel leaves a
	// row-major plane; slicing out a row leaves a contiguous vector.
	lay, err := layout.NewOrdered([]int{3, 4, 5}, layout.ChannelMajorOrder3D)
	if err != nil {
		t.Fatal(err)
	}
	plane, err := lay.Slice(layout.All, layout.All, layout.At(1))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(layout.RowMajorOrder(2), plane.Order()); diff != "" {
		t.Errorf("plane order (-want +got):\n%s", diff)
	}
	if plane.Offset() != 20 {
		t.Errorf("plane offset = %d, want 20", plane.Offset())
	}
}

func TestSliceOutOfRange(t *testing.T) {
	lay := layout.New(2, 3)
	if _, err := lay.Slice(layout.At(2), layout.All); !errdefs.IsDimension(err) {
		t.Errorf("out of range slice: got %v, want a dimension error", err)
	}
	if _, err := lay.Slice(layout.All); !errdefs.IsDimension(err) {
		t.Errorf("missing slicer: got %v, want a dimension error", err)
	}
}

func TestIndicesOrder(t *testing.T) {
	lay := layout.New(2, 2)
	var got [][]int
	for idx := range lay.Indices() {
		got = append(got, idx)
	}
	want := [][]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("index order (-want +got):\n%s", diff)
	}
}

func TestIndicesEmpty(t *testing.T) {
	lay := layout.New(2, 0, 3)
	for idx := range lay.Indices() {
		t.Fatalf("empty layout yielded index %v", idx)
	}
}

func TestLinearIndexErrors(t *testing.T) {
	lay := layout.New(2, 3)
	if _, err := lay.LinearIndex([]int{1}); !errdefs.IsDimension(err) {
		t.Errorf("short index: got %v, want a dimension error", err)
	}
	if _, err := lay.LinearIndex([]int{1, 3}); !errdefs.IsDimension(err) {
		t.Errorf("out of range: got %v, want a dimension error", err)
	}
}
