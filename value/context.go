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

// Package value defines typed multi-dimensional values and the context
// contract under which they are evaluated.
//
// An algorithm is written once against values and typed views. Every
// operation routes through the active Context: the compute backend executes
// it immediately against host memory, the codegen backend appends the
// equivalent instructions to a module instead. The same algorithm body,
// re-invoked with a different context, therefore yields either a concrete
// result or an emitted module with identical semantics.
//
// A context is not safe for concurrent construction; callers serialize
// externally or use one context per goroutine.
package value

import (
	"github.com/vex-org/vex/dtype"
	"github.com/vex-org/vex/kernels"
	"github.com/vex-org/vex/layout"
)

type (
	// Storage is an opaque reference to where a value lives. Its concrete
	// meaning depends on the backend: host memory for the compute context,
	// an IR-level region or address for the codegen context.
	Storage interface {
		// StorageString returns a short debug representation.
		StorageString() string
	}

	// Param declares a function parameter or result.
	Param struct {
		Name   string
		Type   dtype.DataType
		Layout layout.Layout
	}

	// Body is a function body callback. It receives one value per declared
	// parameter and returns the result value.
	Body func(args []Value) (Value, error)

	// Func is an invokable built by Context.Func. Arguments and results are
	// host data: Go scalars for rank-0 parameters, flat slices in row-major
	// logical order otherwise.
	Func interface {
		// Name of the function.
		Name() string

		// Call invokes the function with host arguments.
		Call(args ...any) (any, error)
	}

	// Conditional is a conditional chain under construction. Conditions are
	// tested in declaration order and at most one body runs (or is emitted
	// to run). Conditions after the first are thunks so that the backend
	// controls when, and whether, they are evaluated.
	Conditional interface {
		// ElseIf appends a condition and body to the chain.
		ElseIf(cond func() (Value, error), body func() error) (Conditional, error)

		// Else terminates the chain with an unconditional branch.
		// At most one Else is permitted.
		Else(body func() error) error
	}

	// Context is the capability set shared by all backends. Exactly one
	// context is active for the duration of a DSL construction.
	Context interface {
		// Name identifies the backend.
		Name() string

		// Allocate returns a value backed by scoped, transient storage,
		// zero-initialized.
		Allocate(dt dtype.DataType, lay layout.Layout) (Value, error)

		// GlobalAllocate returns a value backed by persistent storage
		// identified by name. Allocating the same name twice yields the
		// same storage; a conflicting type or shape is an error.
		// init holds the initial contents in physical order (a Go scalar
		// for rank 0, a flat slice otherwise); nil zero-initializes.
		GlobalAllocate(name string, dt dtype.DataType, lay layout.Layout, init any) (Value, error)

		// Constant returns a scalar value holding the given Go value.
		Constant(v any) (Value, error)

		// BinaryOp applies a binary arithmetic or comparison operator.
		// Operands promote to their common type first; comparisons yield
		// Bool.
		BinaryOp(op kernels.Op, x, y Value) (Value, error)

		// Cast converts x to the element type dt, truncating or widening.
		// The result is fresh storage, never an alias of x.
		Cast(x Value, to dtype.DataType) (Value, error)

		// Offset returns an element view of x at the given logical index,
		// sharing the storage of x. One scalar index per logical dimension.
		Offset(x Value, idx []Value) (Value, error)

		// Store writes the scalar src into the storage location dst.
		Store(dst, src Value) error

		// For runs body once per logical index vector, in row-major order
		// with the last dimension varying fastest. The codegen backend
		// invokes body exactly once per nesting level to emit a true loop.
		For(extents []int, body func(idx []Value) error) error

		// If starts a conditional chain.
		If(cond func() (Value, error), body func() error) (Conditional, error)

		// Func builds an invokable function with the declared signature.
		Func(name string, result *Param, params []*Param, body Body) (Func, error)
	}

	// HostReader is implemented by backends whose values hold concrete host
	// data that can be read during construction.
	HostReader interface {
		// ReadHost returns the host contents of a value: a Go scalar for
		// rank 0, a flat slice in row-major logical order otherwise.
		ReadHost(v Value) (any, error)
	}
)

// InvokeFor calls f only when ctx is the concrete backend type B. It lets
// backend-specific code (host assertions, module dumps) sit inside an
// algorithm body without breaking backend agnosticism.
func InvokeFor[B Context](ctx Context, f func(B)) {
	if b, ok := ctx.(B); ok {
		f(b)
	}
}
