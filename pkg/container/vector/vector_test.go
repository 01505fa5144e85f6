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
	"testing"

	"github.com/matrixorigin/mocompute/pkg/common/mpool"
	"github.com/matrixorigin/mocompute/pkg/container/nulls"
	"github.com/matrixorigin/mocompute/pkg/container/types"
	"github.com/stretchr/testify/require"
)

func TestBoolVectorPacking(t *testing.T) {
	mp := mpool.MustNewZero()
	v, err := NewBoolVector(mp, 10)
	require.NoError(t, err)
	defer v.Free(mp)

	w := MustBoolCol(v)
	w.Add(0)
	w.Add(3)
	w.Add(9)
	w.Free()

	require.True(t, v.GetBoolAt(0))
	require.False(t, v.GetBoolAt(1))
	require.True(t, v.GetBoolAt(3))
	require.True(t, v.GetBoolAt(9))
}

func TestVectorWindow(t *testing.T) {
	mp := mpool.MustNewZero()
	v, err := NewBoolVector(mp, 16)
	require.NoError(t, err)
	defer v.Free(mp)
	col := MustBoolCol(v)
	col.AddRange(4, 8)
	col.Free()

	w := v.Window(3, 11)
	require.Equal(t, 8, w.Length())
	require.Equal(t, int64(3), w.Offset())
	require.False(t, w.GetBoolAt(0)) // absolute row 3
	require.True(t, w.GetBoolAt(1))  // absolute row 4
	require.True(t, w.GetBoolAt(4))
	require.False(t, w.GetBoolAt(5))

	// the window over a window composes offsets
	ww := w.Window(1, 5)
	require.Equal(t, int64(4), ww.Offset())
	require.True(t, ww.GetBoolAt(0))

	// views free nothing; the parent still owns its buffers
	w.Free(mp)
	require.True(t, v.GetBoolAt(4))

	require.Panics(t, func() { v.Window(5, 3) })
	require.Panics(t, func() { v.Window(0, 17) })
}

func TestVectorNullCount(t *testing.T) {
	mp := mpool.MustNewZero()
	v := NewVector(types.T_int64.ToType())
	v.SetLength(10)
	require.Equal(t, 0, v.NullCount()) // no indicator

	nsp, err := nulls.Build(mp, 10, 2, 5)
	require.NoError(t, err)
	v.SetNulls(nsp)
	require.Equal(t, 2, v.NullCount())

	// the count is cached; later indicator writes are not observed
	nsp.Np.Remove(7)
	require.Equal(t, 2, v.NullCount())
	v.SetNulls(nsp)
	require.Equal(t, 3, v.NullCount())
	v.Free(mp)
}

func TestVectorWindowNullCount(t *testing.T) {
	mp := mpool.MustNewZero()
	v := NewVector(types.T_int64.ToType())
	v.SetLength(12)
	nsp, err := nulls.Build(mp, 12, 1, 9)
	require.NoError(t, err)
	v.SetNulls(nsp)
	defer v.Free(mp)

	w := v.Window(2, 8)
	require.Equal(t, 0, w.NullCount()) // rows 2..7 hold no NULL
	require.Equal(t, 1, v.Window(0, 4).NullCount())
	require.Equal(t, 2, v.Window(0, 12).NullCount())

	// a known zero propagates into views
	z := NewVector(types.T_int64.ToType())
	z.SetLength(6)
	z.SetNullCount(0)
	require.Equal(t, 0, z.Window(1, 5).NullCount())
}

func TestConstVector(t *testing.T) {
	v := NewConstVector(types.T_int64.ToType(), 7)
	SetCol(v, []int64{42})
	require.True(t, v.IsConst())
	require.False(t, v.IsConstNull())
	require.False(t, v.IsNullAt(3))
	require.Equal(t, 0, v.NullCount())
	require.Equal(t, 7, v.Length())

	n := NewConstNull(types.T_float64.ToType(), 5)
	require.True(t, n.IsConstNull())
	require.True(t, n.IsNullAt(0))
	require.Equal(t, 5, n.NullCount())

	require.Panics(t, func() { MustBoolCol(v) })
}
