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

// Package errdefs defines the error taxonomy shared by all backends.
//
// All errors are fatal to the construction that raised them: the caller
// aborts and propagates. Messages name the failing operation and the
// operand shapes or types so that the DSL call site can be pinpointed.
package errdefs

import (
	goerrors "errors"

	"github.com/pkg/errors"
)

// Kind classifies an error.
type Kind int

const (
	// KindDimension reports a rank or shape mismatch.
	KindDimension Kind = iota + 1
	// KindTypeMismatch reports an element type mismatch.
	KindTypeMismatch
	// KindIllegalState reports use of unallocated storage or backend misuse.
	KindIllegalState
	// KindConstruction reports malformed builder state.
	KindConstruction
)

var kindNames = map[Kind]string{
	KindDimension:    "dimension error",
	KindTypeMismatch: "type mismatch",
	KindIllegalState: "illegal state",
	KindConstruction: "construction error",
}

// String representation of the kind.
func (k Kind) String() string {
	name, ok := kindNames[k]
	if !ok {
		return "unknown error"
	}
	return name
}

// Error is an error tagged with a kind.
type Error struct {
	kind Kind
	err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.kind.String() + ": " + e.err.Error()
}

// Kind of the error.
func (e *Error) Kind() Kind {
	return e.kind
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.err
}

func newError(kind Kind, format string, args ...any) error {
	return &Error{kind: kind, err: errors.Errorf(format, args...)}
}

// Dimension returns a new rank/shape mismatch error.
func Dimension(format string, args ...any) error {
	return newError(KindDimension, format, args...)
}

// TypeMismatch returns a new element type mismatch error.
func TypeMismatch(format string, args ...any) error {
	return newError(KindTypeMismatch, format, args...)
}

// IllegalState returns a new illegal state error.
func IllegalState(format string, args ...any) error {
	return newError(KindIllegalState, format, args...)
}

// Construction returns a new construction error.
func Construction(format string, args ...any) error {
	return newError(KindConstruction, format, args...)
}

func is(err error, kind Kind) bool {
	var e *Error
	if !goerrors.As(err, &e) {
		return false
	}
	return e.kind == kind
}

// IsDimension returns true if err is a dimension error.
func IsDimension(err error) bool { return is(err, KindDimension) }

// IsTypeMismatch returns true if err is a type mismatch error.
func IsTypeMismatch(err error) bool { return is(err, KindTypeMismatch) }

// IsIllegalState returns true if err is an illegal state error.
func IsIllegalState(err error) bool { return is(err, KindIllegalState) }

// IsConstruction returns true if err is a construction error.
func IsConstruction(err error) bool { return is(err, KindConstruction) }
