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

package errdefs_test

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/vex-org/vex/errdefs"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		err  error
		is   func(error) bool
		isnt []func(error) bool
	}{
		{
			err:  errdefs.Dimension("rank %d", 3),
			is:   errdefs.IsDimension,
			isnt: []func(error) bool{errdefs.IsTypeMismatch, errdefs.IsIllegalState, errdefs.IsConstruction},
		},
		{
			err:  errdefs.TypeMismatch("want %s", "int32"),
			is:   errdefs.IsTypeMismatch,
			isnt: []func(error) bool{errdefs.IsDimension},
		},
		{
			err:  errdefs.IllegalState("unallocated"),
			is:   errdefs.IsIllegalState,
			isnt: []func(error) bool{errdefs.IsConstruction},
		},
		{
			err:  errdefs.Construction("two else branches"),
			is:   errdefs.IsConstruction,
			isnt: []func(error) bool{errdefs.IsIllegalState},
		},
	}
	for _, test := range tests {
		if !test.is(test.err) {
			t.Errorf("%v does not match its own kind", test.err)
		}
		for _, isnt := range test.isnt {
			if isnt(test.err) {
				t.Errorf("%v matches a foreign kind", test.err)
			}
		}
	}
}

func TestWrapped(t *testing.T) {
	err := errors.Wrap(errdefs.Dimension("rank %d", 3), "building tensor")
	if !errdefs.IsDimension(err) {
		t.Errorf("wrapped error lost its kind: %v", err)
	}
}

func TestNilDoesNotMatch(t *testing.T) {
	if errdefs.IsDimension(nil) {
		t.Error("nil classified as a dimension error")
	}
}
