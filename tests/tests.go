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

// Package tests runs the same programs under both backends and checks that
// they agree bit for bit. The eager backend is the oracle: whatever it
// computes is what the emitted module must compute.
package tests

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vex-org/vex/codegen"
	"github.com/vex-org/vex/compute"
	"github.com/vex-org/vex/value"
)

// Program declares a function to run under both backends. Body is invoked
// once per backend with that backend's context.
type Program struct {
	Name   string
	Result *value.Param
	Params []*value.Param
	Body   func(ctx value.Context) value.Body
}

// CallBoth builds the program under the eager and the emitting backend,
// calls both with the same arguments, and requires exactly equal results.
// It returns the agreed result.
func CallBoth(t *testing.T, p Program, args ...any) any {
	t.Helper()

	eagerCtx := compute.New()
	eagerFn, err := eagerCtx.Func(p.Name, p.Result, p.Params, p.Body(eagerCtx))
	require.NoError(t, err)
	eager, err := eagerFn.Call(args...)
	require.NoError(t, err)

	emitCtx := codegen.New(p.Name)
	emitFn, err := emitCtx.Func(p.Name, p.Result, p.Params, p.Body(emitCtx))
	require.NoError(t, err)
	_, err = emitCtx.Module()
	require.NoError(t, err)
	compiled, err := emitFn.Call(args...)
	require.NoError(t, err)

	require.Equal(t, eager, compiled, "backends disagree on %s", p.Name)
	return eager
}
