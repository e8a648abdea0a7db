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

// Package layout describes the logical shape and physical placement of
// multi-dimensional values.
//
// A layout maps a logical index vector to a linear element offset:
//
//	linear = base + sum_d idx[d] * stride[d]
//
// where strides are expressed per logical dimension. The dimension order
// records which logical dimension is stored at each physical position, so
// arbitrary major orders (row major, channel major, ...) address the same
// logical shape. Layouts are immutable; all operations return new values.
package layout

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/vex-org/vex/errdefs"
)

// Order is a dimension order: order[p] is the logical dimension stored at
// physical position p. Physical position 0 is the outermost (slowest
// varying) storage dimension.
type Order []int

// RowMajorOrder returns the identity order for the given rank: logical and
// physical dimensions coincide.
func RowMajorOrder(rank int) Order {
	order := make(Order, rank)
	for i := range order {
		order[i] = i
	}
	return order
}

// ChannelMajorOrder3D stores a logical (row, column, channel) shape with
// the channel dimension outermost.
var ChannelMajorOrder3D = Order{2, 0, 1}

func (o Order) isPermutation() bool {
	seen := make([]bool, len(o))
	for _, d := range o {
		if d < 0 || d >= len(o) || seen[d] {
			return false
		}
		seen[d] = true
	}
	return true
}

// Layout is the memory layout of a multi-dimensional value.
// The zero Layout is the layout of a scalar.
type Layout struct {
	extents []int
	strides []int
	order   Order
	offset  int
}

// Scalar returns the rank-0 layout.
func Scalar() Layout {
	return Layout{}
}

// New returns a contiguous row-major layout with the given logical extents.
// New panics if an extent is negative.
func New(extents ...int) Layout {
	for _, n := range extents {
		if n < 0 {
			panic(fmt.Sprintf("layout.New: negative extent %d in %v", n, extents))
		}
	}
	rank := len(extents)
	lay := Layout{
		extents: slices.Clone(extents),
		strides: make([]int, rank),
		order:   RowMajorOrder(rank),
	}
	stride := 1
	for d := rank - 1; d >= 0; d-- {
		lay.strides[d] = stride
		stride *= extents[d]
	}
	return lay
}

// NewOrdered returns a layout from extents given in physical (storage)
// order and a dimension order mapping physical positions to logical
// dimensions. Storage is contiguous over the physical extents.
func NewOrdered(physical []int, order Order) (Layout, error) {
	if len(physical) != len(order) {
		return Layout{}, errdefs.Dimension("layout: %d physical extents but dimension order %v has length %d", len(physical), order, len(order))
	}
	if !order.isPermutation() {
		return Layout{}, errdefs.Dimension("layout: dimension order %v is not a permutation of [0,%d)", order, len(order))
	}
	rank := len(physical)
	lay := Layout{
		extents: make([]int, rank),
		strides: make([]int, rank),
		order:   slices.Clone(order),
	}
	stride := 1
	for p := rank - 1; p >= 0; p-- {
		if physical[p] < 0 {
			return Layout{}, errdefs.Dimension("layout: negative extent %d in %v", physical[p], physical)
		}
		lay.extents[order[p]] = physical[p]
		lay.strides[order[p]] = stride
		stride *= physical[p]
	}
	return lay, nil
}

// Rank is the number of logical dimensions.
func (l Layout) Rank() int {
	return len(l.extents)
}

// Extents returns a copy of the logical extents.
func (l Layout) Extents() []int {
	return slices.Clone(l.extents)
}

// Extent of logical dimension d.
func (l Layout) Extent(d int) int {
	return l.extents[d]
}

// Stride, in elements, of logical dimension d.
func (l Layout) Stride(d int) int {
	return l.strides[d]
}

// Order returns a copy of the dimension order.
func (l Layout) Order() Order {
	if l.order == nil {
		return Order{}
	}
	return slices.Clone(l.order)
}

// Offset is the base element offset of the layout.
func (l Layout) Offset() int {
	return l.offset
}

// Count is the total number of logical elements.
func (l Layout) Count() int {
	count := 1
	for _, n := range l.extents {
		count *= n
	}
	return count
}

// LinearIndex maps a logical index vector to a linear element offset.
func (l Layout) LinearIndex(idx []int) (int, error) {
	if len(idx) != l.Rank() {
		return 0, errdefs.Dimension("layout: index %v has length %d but layout %s has rank %d", idx, len(idx), l, l.Rank())
	}
	linear := l.offset
	for d, i := range idx {
		if i < 0 || i >= l.extents[d] {
			return 0, errdefs.Dimension("layout: index %v out of range for extents %v in dimension %d", idx, l.extents, d)
		}
		linear += i * l.strides[d]
	}
	return linear, nil
}

// Slicer selects either all positions of a dimension or a single one.
type Slicer struct {
	all   bool
	index int
}

// All keeps a dimension in a slice.
var All = Slicer{all: true}

// At fixes a dimension to a constant position, removing it from the slice.
func At(i int) Slicer {
	return Slicer{index: i}
}

// IsAll returns true if the slicer keeps its dimension.
func (s Slicer) IsAll() bool {
	return s.all
}

// Index of the fixed position. Only meaningful when IsAll is false.
func (s Slicer) Index() int {
	return s.index
}

// String representation of the slicer.
func (s Slicer) String() string {
	if s.all {
		return "all"
	}
	return fmt.Sprint(s.index)
}

// Slice returns the reduced-rank layout obtained by fixing the dimensions
// for which the slicer is not All. The base offset absorbs the contribution
// of fixed dimensions; strides of the remaining dimensions are unchanged,
// so the sliced layout addresses exactly the same storage as the unsliced
// layout with those dimensions held constant.
func (l Layout) Slice(fixed ...Slicer) (Layout, error) {
	if len(fixed) != l.Rank() {
		return Layout{}, errdefs.Dimension("layout: %d slicers for layout %s of rank %d", len(fixed), l, l.Rank())
	}
	sliced := Layout{offset: l.offset}
	var keptPhys []int
	for d, s := range fixed {
		if s.IsAll() {
			sliced.extents = append(sliced.extents, l.extents[d])
			sliced.strides = append(sliced.strides, l.strides[d])
			keptPhys = append(keptPhys, l.physicalPosition(d))
			continue
		}
		if s.index < 0 || s.index >= l.extents[d] {
			return Layout{}, errdefs.Dimension("layout: slice position %d out of range for extents %v in dimension %d", s.index, l.extents, d)
		}
		sliced.offset += s.index * l.strides[d]
	}
	sliced.order = relativeOrder(keptPhys)
	return sliced, nil
}

// physicalPosition returns the physical position of logical dimension d.
func (l Layout) physicalPosition(d int) int {
	for p, ld := range l.order {
		if ld == d {
			return p
		}
	}
	return d
}

// relativeOrder rebuilds a dimension order from the physical positions of
// the kept logical dimensions, preserving their relative storage order.
func relativeOrder(keptPhys []int) Order {
	ranked := slices.Clone(keptPhys)
	slices.Sort(ranked)
	order := make(Order, len(keptPhys))
	for p, phys := range ranked {
		order[p] = slices.Index(keptPhys, phys)
	}
	return order
}

// Indices iterates over all logical index vectors in row-major order: the
// last logical dimension varies fastest. The yielded slice is a copy owned
// by the consumer.
func (l Layout) Indices() iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if l.Count() == 0 {
			return
		}
		idx := make([]int, l.Rank())
		for {
			if !yield(slices.Clone(idx)) {
				return
			}
			d := l.Rank() - 1
			for ; d >= 0; d-- {
				idx[d]++
				if idx[d] < l.extents[d] {
					break
				}
				idx[d] = 0
			}
			if d < 0 {
				return
			}
		}
	}
}

// String representation of the layout.
func (l Layout) String() string {
	var s strings.Builder
	fmt.Fprintf(&s, "%v", l.extents)
	if l.order != nil && !slices.Equal(l.order, RowMajorOrder(l.Rank())) {
		fmt.Fprintf(&s, " order %v", []int(l.order))
	}
	fmt.Fprintf(&s, " strides %v", l.strides)
	if l.offset != 0 {
		fmt.Fprintf(&s, " offset %d", l.offset)
	}
	return s.String()
}
