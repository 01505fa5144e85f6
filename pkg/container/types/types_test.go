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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeBasics(t *testing.T) {
	typ := T_int64.ToType()
	require.Equal(t, T_int64, typ.Oid)
	require.Equal(t, int32(8), typ.Size)
	require.Equal(t, "INT64", typ.String())

	require.Equal(t, int32(1), T_bool.FixedLength())
	require.Equal(t, int32(4), T_int32.FixedLength())
	require.Equal(t, int32(0), T_varchar.FixedLength())
	require.Equal(t, "ANY", T_any.String())
}

func TestEncodeDecodeInt64(t *testing.T) {
	v := int64(-123456789)
	bs := EncodeInt64(&v)
	require.Equal(t, 8, len(bs))
	require.Equal(t, v, DecodeInt64(bs))

	u := uint64(987654321)
	require.Equal(t, u, DecodeUint64(EncodeUint64(&u)))
}

func TestEncodeDecodeSlice(t *testing.T) {
	vs := []int64{1, -2, 3}
	bs := EncodeSlice(vs)
	require.Equal(t, 24, len(bs))
	require.Equal(t, vs, DecodeSlice[int64](bs))

	// the cast shares storage with the source slice
	vs[1] = 42
	require.Equal(t, int64(42), DecodeSlice[int64](bs)[1])

	fs := []float64{1.5, -2.25}
	require.Equal(t, fs, DecodeSlice[float64](EncodeSlice(fs)))

	require.Nil(t, EncodeSlice([]int32(nil)))
	require.Nil(t, DecodeSlice[int32](nil))
}
