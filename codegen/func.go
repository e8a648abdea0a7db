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

package codegen

import (
	"github.com/vex-org/vex/errdefs"
	"github.com/vex-org/vex/ir"
	"github.com/vex-org/vex/kernels"
	"github.com/vex-org/vex/value"
)

// Func emits a function: body runs exactly once, against values viewing
// the parameter regions, and everything it does through the context becomes
// the function body. The returned invokable runs the emitted code.
func (ctx *Context) Func(name string, result *value.Param, params []*value.Param, body value.Body) (value.Func, error) {
	if ctx.fn != nil {
		return nil, ctx.recordErr(errdefs.Construction("codegen: function %s emitted inside function %s", name, ctx.fn.Name))
	}
	if result == nil {
		return nil, ctx.recordErr(errdefs.Construction("codegen: function %s has no declared result", name))
	}
	resultRegion := &ir.Region{
		Kind: ir.RegionResult,
		Name: result.Name,
		Type: result.Type,
		Size: result.Layout.Count(),
	}
	paramRegions := make([]*ir.Region, len(params))
	args := make([]value.Value, len(params))
	for i, p := range params {
		paramRegions[i] = &ir.Region{
			Kind: ir.RegionParam,
			Name: p.Name,
			Type: p.Type,
			Size: p.Layout.Count(),
		}
	}
	fn, err := ctx.module.AddFunc(name, resultRegion, paramRegions)
	if err != nil {
		return nil, ctx.recordErr(err)
	}
	ctx.fn = fn
	ctx.cur = fn.Entry()
	defer func() {
		ctx.fn = nil
		ctx.cur = nil
	}()
	for i, p := range params {
		args[i] = value.New(ctx, p.Type, p.Layout, &regionStorage{region: paramRegions[i]})
	}
	res, err := body(args)
	if err != nil {
		return nil, ctx.recordErr(err)
	}
	if !res.IsValid() {
		return nil, ctx.recordErr(errdefs.IllegalState("codegen: function %s returned no value", name))
	}
	if res.Type() != result.Type {
		return nil, ctx.recordErr(errdefs.TypeMismatch("codegen: function %s returned %s, declared %s", name, res, result.Type))
	}
	out := value.New(ctx, result.Type, result.Layout, &regionStorage{region: resultRegion})
	if err := out.Assign(res); err != nil {
		return nil, ctx.recordErr(err)
	}
	ctx.cur.Term = ir.Ret{}
	return &function{ctx: ctx, name: name, result: result, params: params}, nil
}

// function runs an emitted IR function through the reference executor. All
// functions of one context share a single module instance, so they observe
// the same globals.
type function struct {
	ctx    *Context
	name   string
	result *value.Param
	params []*value.Param
}

var _ value.Func = (*function)(nil)

// Name of the function.
func (f *function) Name() string {
	return f.name
}

// instance lazily instantiates the module shared by all functions emitted
// under the context.
func (ctx *Context) instantiate() (*ir.Instance, error) {
	m, err := ctx.Module()
	if err != nil {
		return nil, err
	}
	if ctx.instance == nil {
		in, err := ir.NewInstance(m)
		if err != nil {
			return nil, err
		}
		ctx.instance = in
	}
	return ctx.instance, nil
}

// Call converts logical host arguments to region contents, executes the
// emitted function, and converts the result region back.
func (f *function) Call(args ...any) (any, error) {
	in, err := f.ctx.instantiate()
	if err != nil {
		return nil, err
	}
	if len(args) != len(f.params) {
		return nil, errdefs.Dimension("codegen: function %s called with %d arguments, takes %d", f.name, len(args), len(f.params))
	}
	physArgs := make([]any, len(args))
	for i, p := range f.params {
		buf, err := kernels.NewBuffer(p.Type, p.Layout.Count())
		if err != nil {
			return nil, err
		}
		if err := kernels.WriteLogical(buf, p.Layout, args[i]); err != nil {
			return nil, err
		}
		physArgs[i] = buf.Data()
	}
	res, err := in.Call(f.name, physArgs...)
	if err != nil {
		return nil, err
	}
	return kernels.ReadLogical(res, f.result.Layout)
}
