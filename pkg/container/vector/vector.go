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

package vector

import (
	"fmt"

	"github.com/matrixorigin/mocompute/pkg/common/bitmap"
	"github.com/matrixorigin/mocompute/pkg/common/mpool"
	"github.com/matrixorigin/mocompute/pkg/container/nulls"
	"github.com/matrixorigin/mocompute/pkg/container/types"
)

const (
	FLAT     = iota // flat vector, one value per row
	CONSTANT        // const vector, a single value for every row
)

// Vector represents a column.  A flat vector addresses rows
// [offset, offset+length) of its buffers; the validity indicator, when
// present, covers the same index space.  A const vector is the scalar
// shape: one value, possibly the const NULL.
//
// Boolean vectors pack their values one bit per row so a validity
// result can alias an input's indicator buffer without copying.
type Vector struct {
	class int
	typ   types.Type

	length int
	offset int64

	// data holds the packed values of a boolean vector.  col holds
	// materialized values of other fixed types; the validity kernels
	// never look at it.
	data *bitmap.Bitmap
	col  any

	nsp *nulls.Nulls

	// nullCnt caches the number of NULL rows in the addressed window,
	// -1 when not yet known.  Kernels branch on the cached value so a
	// no-null fast path never touches the indicator.
	nullCnt int64

	// isNull marks a const vector as the const NULL.
	isNull bool

	// cantFreeData marks window views that do not own their buffers.
	cantFreeData bool
}

func NewVector(typ types.Type) *Vector {
	return &Vector{class: FLAT, typ: typ, nullCnt: -1}
}

// NewBoolVector allocates a flat boolean vector of length rows with
// every bit writable, the destination shape for pre-allocated kernels.
func NewBoolVector(mp *mpool.MPool, length int) (*Vector, error) {
	data, err := bitmap.New(mp, int64(length))
	if err != nil {
		return nil, err
	}
	return &Vector{
		class:   FLAT,
		typ:     types.T_bool.ToType(),
		length:  length,
		data:    data,
		nullCnt: -1,
	}, nil
}

// NewConstVector returns a const vector of length rows.
func NewConstVector(typ types.Type, length int) *Vector {
	return &Vector{class: CONSTANT, typ: typ, length: length}
}

// NewConstNull returns the const NULL of the given type.
func NewConstNull(typ types.Type, length int) *Vector {
	return &Vector{class: CONSTANT, typ: typ, length: length, isNull: true, nullCnt: -1}
}

func (v *Vector) Length() int {
	return v.length
}

func (v *Vector) SetLength(n int) {
	v.length = n
}

// Offset returns the vector's element offset into its buffers.
func (v *Vector) Offset() int64 {
	return v.offset
}

func (v *Vector) GetType() types.Type {
	return v.typ
}

func (v *Vector) GetNulls() *nulls.Nulls {
	return v.nsp
}

func (v *Vector) SetNulls(nsp *nulls.Nulls) {
	v.nsp = nsp
	v.nullCnt = -1
}

// SetNullCount records a known NULL count so later reads can skip the
// indicator.
func (v *Vector) SetNullCount(n int) {
	v.nullCnt = int64(n)
}

// NullCount returns the number of NULL rows in the addressed window,
// counting the indicator once and caching the result.  No indicator
// means zero.
func (v *Vector) NullCount() int {
	if v.IsConst() {
		if v.isNull {
			return v.length
		}
		return 0
	}
	if v.nullCnt >= 0 {
		return int(v.nullCnt)
	}
	ind := nulls.Validity(v.nsp)
	if ind == nil {
		v.nullCnt = 0
		return 0
	}
	w := ind.Slice(v.offset, int64(v.length))
	defer w.Free()
	v.nullCnt = int64(v.length - w.Count())
	return int(v.nullCnt)
}

func (v *Vector) IsConst() bool {
	return v.class == CONSTANT
}

func (v *Vector) IsConstNull() bool {
	return v.class == CONSTANT && v.isNull
}

// IsNullAt reports whether row i of the addressed window is NULL.
func (v *Vector) IsNullAt(i int) bool {
	if v.IsConst() {
		return v.isNull
	}
	return nulls.Contains(v.nsp, uint64(v.offset+int64(i)))
}

// SetCol attaches materialized column values.  The validity kernels
// only consult length and nulls.
func SetCol(v *Vector, col any) {
	v.col = col
}

func (v *Vector) Col() any {
	return v.col
}

// SetData attaches a packed boolean value bitmap, replacing any held
// one.
func (v *Vector) SetData(data *bitmap.Bitmap) {
	if v.data != nil {
		v.data.Free()
	}
	v.data = data
}

// MustBoolCol returns a window over the packed values of a flat
// boolean vector, restricted to the addressed rows.  The window shares
// the buffer; the caller frees it when done.
func MustBoolCol(v *Vector) *bitmap.Bitmap {
	if v.typ.Oid != types.T_bool || v.IsConst() {
		panic(fmt.Sprintf("unexpected access of %s vector as bool column", v.typ))
	}
	return v.data.Slice(v.offset, int64(v.length))
}

// GetBoolAt reads one value of a boolean vector.
func (v *Vector) GetBoolAt(i int) bool {
	if v.IsConst() {
		return v.col.([]bool)[0]
	}
	return v.data.Contains(uint64(v.offset + int64(i)))
}

// Window returns a zero-copy view of rows [from, to).  The view shares
// buffers with v and must not outlive it.
func (v *Vector) Window(from, to int) *Vector {
	if from < 0 || to < from || to > v.length {
		panic(fmt.Sprintf("vector window [%d, %d) out of range %d", from, to, v.length))
	}
	if v.IsConst() {
		w := *v
		w.length = to - from
		w.cantFreeData = true
		return &w
	}
	nullCnt := int64(-1)
	if v.nullCnt == 0 {
		nullCnt = 0
	}
	return &Vector{
		class:        v.class,
		typ:          v.typ,
		length:       to - from,
		offset:       v.offset + int64(from),
		data:         v.data,
		col:          v.col,
		nsp:          v.nsp,
		nullCnt:      nullCnt,
		cantFreeData: true,
	}
}

// Free releases the vector's buffers.  Window views release nothing.
func (v *Vector) Free(_ *mpool.MPool) {
	if v.cantFreeData {
		return
	}
	if v.data != nil {
		v.data.Free()
		v.data = nil
	}
	nulls.Free(v.nsp)
	v.nsp = nil
	v.col = nil
	v.length = 0
}

func (v *Vector) String() string {
	if v.IsConstNull() {
		return fmt.Sprintf("%s-const[null]", v.typ)
	}
	if v.IsConst() {
		return fmt.Sprintf("%s-const[%v]", v.typ, v.col)
	}
	return fmt.Sprintf("%s-flat[len=%d off=%d nulls=%s]",
		v.typ, v.length, v.offset, nulls.String(v.nsp))
}
