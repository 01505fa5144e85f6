// Copyright 2024 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package moerr defines the error type shared by every package of this
// module.  Errors carry a stable numeric code so that callers can test
// the category without string matching.
package moerr

import (
	"context"
	"fmt"
)

const (
	// 0 - 99 is OK.
	Ok uint16 = 0

	// Group 1: internal errors
	ErrStart    uint16 = 20100
	ErrInternal uint16 = 20101
	ErrNYI      uint16 = 20102
	ErrOOM      uint16 = 20103

	// Group 2: bad arguments
	ErrInvalidArg uint16 = 20203

	// Group 4: unexpected state
	ErrInvalidState uint16 = 20400
	ErrDuplicate    uint16 = 20401

	ErrEnd uint16 = 65535
)

type Error struct {
	code    uint16
	message string
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) ErrorCode() uint16 {
	return e.code
}

func (e *Error) Succeeded() bool {
	return e.code < ErrStart
}

// Is supports errors.Is against another moerr with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.code == e.code
}

func newError(_ context.Context, code uint16, msg string) *Error {
	return &Error{code: code, message: msg}
}

func NewInternalError(ctx context.Context, msg string, args ...any) *Error {
	return newError(ctx, ErrInternal, "internal error: "+fmt.Sprintf(msg, args...))
}

func NewNYI(ctx context.Context, msg string, args ...any) *Error {
	return newError(ctx, ErrNYI, fmt.Sprintf(msg, args...)+" not yet implemented")
}

func NewOOM(ctx context.Context) *Error {
	return newError(ctx, ErrOOM, "out of memory")
}

func NewInvalidArg(ctx context.Context, arg string, val any) *Error {
	return newError(ctx, ErrInvalidArg, fmt.Sprintf("invalid argument %s, bad value %v", arg, val))
}

func NewInvalidState(ctx context.Context, msg string, args ...any) *Error {
	return newError(ctx, ErrInvalidState, "invalid state "+fmt.Sprintf(msg, args...))
}

func NewDuplicate(ctx context.Context, msg string, args ...any) *Error {
	return newError(ctx, ErrDuplicate, "duplicate "+fmt.Sprintf(msg, args...))
}

// NoCtx constructors are for infrastructure code with no request
// context at hand.

func NewInternalErrorNoCtx(msg string, args ...any) *Error {
	return NewInternalError(context.Background(), msg, args...)
}

func NewOOMNoCtx() *Error {
	return NewOOM(context.Background())
}

func NewInvalidStateNoCtx(msg string, args ...any) *Error {
	return NewInvalidState(context.Background(), msg, args...)
}

func NewDuplicateNoCtx(msg string, args ...any) *Error {
	return NewDuplicate(context.Background(), msg, args...)
}

// IsMoErrCode reports whether e is a moerr with the given code.
func IsMoErrCode(e error, rc uint16) bool {
	if e == nil {
		return rc == Ok
	}
	me, ok := e.(*Error)
	return ok && me.code == rc
}
