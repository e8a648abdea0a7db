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

package compute

import (
	"slices"

	"github.com/vex-org/vex/dtype"
	"github.com/vex-org/vex/errdefs"
	"github.com/vex-org/vex/kernels"
	"github.com/vex-org/vex/layout"
	"github.com/vex-org/vex/value"
)

// For runs body once per logical index vector of the given extents, in
// row-major order with the last dimension varying fastest. Indices are
// passed to the body as scalar values of the index type.
func (ctx *Context) For(extents []int, body func(idx []value.Value) error) error {
	lay := layout.New(extents...)
	for idx := range lay.Indices() {
		idxVals := make([]value.Value, len(idx))
		for d, i := range idx {
			iv, err := ctx.Constant(int32(i))
			if err != nil {
				return err
			}
			idxVals[d] = iv
		}
		if err := body(idxVals); err != nil {
			return err
		}
	}
	return nil
}

// conditional tracks an eager chain: once a condition has matched, later
// conditions are not evaluated and later bodies do not run.
type conditional struct {
	ctx     *Context
	matched bool
	closed  bool
}

var _ value.Conditional = (*conditional)(nil)

// If evaluates cond and runs body when it is true, starting a chain.
func (ctx *Context) If(cond func() (value.Value, error), body func() error) (value.Conditional, error) {
	chain := &conditional{ctx: ctx}
	if err := chain.arm(cond, body); err != nil {
		return nil, err
	}
	return chain, nil
}

// arm evaluates one condition thunk and runs its body on a match.
func (c *conditional) arm(cond func() (value.Value, error), body func() error) error {
	cv, err := cond()
	if err != nil {
		return err
	}
	if cv.Type() != dtype.Bool {
		return errdefs.TypeMismatch("compute: condition %s is not boolean", cv)
	}
	raw, err := c.ctx.hostScalar(cv)
	if err != nil {
		return err
	}
	if !raw.(bool) {
		return nil
	}
	c.matched = true
	return body()
}

// ElseIf appends a condition and body. The condition thunk is only
// evaluated when no earlier condition matched.
func (c *conditional) ElseIf(cond func() (value.Value, error), body func() error) (value.Conditional, error) {
	if c.closed {
		return nil, errdefs.Construction("compute: ElseIf after Else")
	}
	if c.matched {
		return c, nil
	}
	if err := c.arm(cond, body); err != nil {
		return nil, err
	}
	return c, nil
}

// Else terminates the chain, running body when nothing matched.
func (c *conditional) Else(body func() error) error {
	if c.closed {
		return errdefs.Construction("compute: multiple Else on one chain")
	}
	c.closed = true
	if c.matched {
		return nil
	}
	c.matched = true
	return body()
}

// function re-runs its body eagerly on every call, with fresh argument and
// result storage per invocation.
type function struct {
	ctx    *Context
	name   string
	result *value.Param
	params []*value.Param
	body   value.Body
}

var _ value.Func = (*function)(nil)

// Func builds an invokable running body under this context.
func (ctx *Context) Func(name string, result *value.Param, params []*value.Param, body value.Body) (value.Func, error) {
	if result == nil {
		return nil, errdefs.Construction("compute: function %s has no declared result", name)
	}
	return &function{ctx: ctx, name: name, result: result, params: params, body: body}, nil
}

// Name of the function.
func (f *function) Name() string {
	return f.name
}

// Call copies host arguments into fresh storage, runs the body, and copies
// the result back out as host data.
func (f *function) Call(args ...any) (any, error) {
	if len(args) != len(f.params) {
		return nil, errdefs.Dimension("compute: function %s called with %d arguments, takes %d", f.name, len(args), len(f.params))
	}
	argVals := make([]value.Value, len(args))
	for i, p := range f.params {
		v, err := f.ctx.Allocate(p.Type, p.Layout)
		if err != nil {
			return nil, err
		}
		store, err := storageOf(v)
		if err != nil {
			return nil, err
		}
		if err := kernels.WriteLogical(store.buf, p.Layout, args[i]); err != nil {
			return nil, err
		}
		argVals[i] = v
	}
	res, err := f.body(argVals)
	if err != nil {
		return nil, err
	}
	if !res.IsValid() {
		return nil, errdefs.IllegalState("compute: function %s returned no value", f.name)
	}
	if res.Type() != f.result.Type {
		return nil, errdefs.TypeMismatch("compute: function %s returned %s, declared %s", f.name, res, f.result.Type)
	}
	if !slices.Equal(res.Layout().Extents(), f.result.Layout.Extents()) {
		return nil, errdefs.Dimension("compute: function %s returned %s, declared %s%v", f.name, res, f.result.Type, f.result.Layout.Extents())
	}
	return f.ctx.ReadHost(res)
}
