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

package types

import "fmt"

type T uint8

const (
	// T_any matches any input type during function resolution.
	T_any T = 0

	T_bool    T = 10
	T_int32   T = 22
	T_int64   T = 23
	T_float64 T = 33
	T_varchar T = 61
)

// Type describes a column type.  Size is the fixed element size in
// bytes; booleans are bit packed in vectors, Size 1 refers to their
// scalar form.
type Type struct {
	Oid  T
	Size int32
}

func New(oid T) Type {
	return Type{Oid: oid, Size: oid.FixedLength()}
}

func (t T) ToType() Type {
	return New(t)
}

func (t T) FixedLength() int32 {
	switch t {
	case T_bool:
		return 1
	case T_int32:
		return 4
	case T_int64, T_float64:
		return 8
	default:
		return 0
	}
}

func (t T) String() string {
	switch t {
	case T_any:
		return "ANY"
	case T_bool:
		return "BOOL"
	case T_int32:
		return "INT32"
	case T_int64:
		return "INT64"
	case T_float64:
		return "FLOAT64"
	case T_varchar:
		return "VARCHAR"
	}
	return fmt.Sprintf("unexpected_type[%d]", uint8(t))
}

func (t Type) String() string {
	return t.Oid.String()
}
