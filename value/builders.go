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

package value

// For runs body once per logical index vector of v, in row-major order
// with the last dimension varying fastest. Under the compute backend the
// body physically runs per index tuple; under the codegen backend it is
// invoked exactly once per nesting level to emit a loop.
func For(v Value, body func(idx []Scalar)) {
	mustOK(v.check("for"))
	mustOK(v.ctx.For(v.lay.Extents(), func(idx []Value) error {
		scalars := make([]Scalar, len(idx))
		for i, iv := range idx {
			scalars[i] = must(AsScalar(iv))
		}
		body(scalars)
		return nil
	}))
}

// IfChain is a conditional chain built from typed views.
type IfChain struct {
	chain Conditional
}

// If starts a conditional chain: body runs (or is emitted to run) only when
// the boolean scalar cond is true.
func If(cond Scalar, body func()) *IfChain {
	ctx := cond.val.ctx
	chain := must(ctx.If(
		func() (Value, error) { return cond.val, nil },
		func() error { body(); return nil },
	))
	return &IfChain{chain: chain}
}

// ElseIf appends a condition and body. The condition is a thunk: the
// compute backend only evaluates it when no earlier condition matched, and
// the codegen backend emits it inside the chain's branch structure.
func (c *IfChain) ElseIf(cond func() Scalar, body func()) *IfChain {
	c.chain = must(c.chain.ElseIf(
		func() (Value, error) { return cond().val, nil },
		func() error { body(); return nil },
	))
	return c
}

// Else terminates the chain with an unconditional branch.
func (c *IfChain) Else(body func()) {
	mustOK(c.chain.Else(func() error { body(); return nil }))
}
