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

package operator

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/matrixorigin/mocompute/pkg/container/nulls"
	"github.com/matrixorigin/mocompute/pkg/container/types"
	"github.com/matrixorigin/mocompute/pkg/container/vector"
	"github.com/matrixorigin/mocompute/pkg/testutil"
	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/require"
)

func boolShell(length int) *vector.Vector {
	out := vector.NewVector(types.T_bool.ToType())
	out.SetLength(length)
	return out
}

func boolsOf(v *vector.Vector) []bool {
	out := make([]bool, v.Length())
	for i := range out {
		out[i] = v.GetBoolAt(i)
	}
	return out
}

func TestIsValidScalar(t *testing.T) {
	proc := testutil.NewProc()

	out := proc.AllocScalarVector(types.T_bool.ToType())
	require.NoError(t, IsValid(proc, testutil.MakeScalarInt64(42, 1), out))
	require.Equal(t, []bool{true}, out.Col())

	out = proc.AllocScalarVector(types.T_bool.ToType())
	require.NoError(t, IsValid(proc, testutil.MakeScalarNull(types.T_int64, 1), out))
	require.Equal(t, []bool{false}, out.Col())
}

func TestIsNullScalar(t *testing.T) {
	proc := testutil.NewProc()

	out := proc.AllocScalarVector(types.T_bool.ToType())
	require.NoError(t, IsNull(proc, testutil.MakeScalarInt64(42, 1), out))
	require.Equal(t, []bool{false}, out.Col())

	out = proc.AllocScalarVector(types.T_bool.ToType())
	require.NoError(t, IsNull(proc, testutil.MakeScalarNull(types.T_varchar, 1), out))
	require.Equal(t, []bool{true}, out.Col())
}

func TestIsValidAliasesIndicator(t *testing.T) {
	proc := testutil.NewProc()
	present := []bool{true, false, true, true, false, true, true, false,
		true, false, false, true, true, true, false, true}
	in := testutil.MakeValidityVector(present)
	ind := nulls.Validity(in.GetNulls())
	refs := ind.Buf().Refs()

	before := proc.Mp().CurrNB()
	out := boolShell(len(present))
	require.NoError(t, IsValid(proc, in, out))
	require.Equal(t, before, proc.Mp().CurrNB(), "aliasing must not allocate")
	require.Equal(t, refs+1, ind.Buf().Refs())
	require.Equal(t, present, boolsOf(out))

	// row offset 0 shares the indicator storage from its first byte
	// at bit offset 0
	res := vector.MustBoolCol(out)
	defer res.Free()
	require.Equal(t, int64(0), res.BitOffset())
	require.Same(t, &ind.Buf().Bytes()[0], &res.Buf().Bytes()[0])
}

func TestIsValidAliasesByteAlignedWindow(t *testing.T) {
	proc := testutil.NewProc()
	present := make([]bool, 24)
	for i := range present {
		present[i] = i%3 != 0
	}
	in := testutil.MakeValidityVector(present)
	ind := nulls.Validity(in.GetNulls())

	w := in.Window(8, 24)
	out := boolShell(16)
	require.NoError(t, IsValid(proc, w, out))
	require.Equal(t, present[8:24], boolsOf(out))

	// byte-aligned row offset shares from byte offset/8, bit 0
	res := vector.MustBoolCol(out)
	defer res.Free()
	require.Equal(t, int64(0), res.BitOffset())
	require.Same(t, &ind.Buf().Bytes()[1], &res.Buf().Bytes()[0])
}

func TestIsValidUnalignedWindow(t *testing.T) {
	proc := testutil.NewProc()
	pattern := []bool{true, false, true, true, false, true, true, false, true, false}
	present := append([]bool{true, true, true}, pattern...)
	in := testutil.MakeValidityVector(present)
	ind := nulls.Validity(in.GetNulls())

	w := in.Window(3, 13)
	out := boolShell(10)
	require.NoError(t, IsValid(proc, w, out))
	require.Equal(t, pattern, boolsOf(out))

	// a non byte-aligned offset shares from the containing byte with
	// the output window starting at bit offset%8
	res := vector.MustBoolCol(out)
	defer res.Free()
	require.Equal(t, int64(3), res.BitOffset())
	require.Same(t, &ind.Buf().Bytes()[0], &res.Buf().Bytes()[0])

	// the complement goes through a real copy, never an alias
	out2, err := proc.AllocBoolVector(10)
	require.NoError(t, err)
	defer out2.Free(proc.Mp())
	require.NoError(t, IsNull(proc, w, out2))
	for i, p := range pattern {
		require.Equal(t, !p, out2.GetBoolAt(i))
	}
}

func TestIsValidSynthesizesWithoutIndicator(t *testing.T) {
	proc := testutil.NewProc()
	in := testutil.MakeInt64Vector([]int64{1, 2, 3, 4, 5}, nil)

	before := proc.Mp().CurrNB()
	out := boolShell(5)
	require.NoError(t, IsValid(proc, in, out))
	require.Greater(t, proc.Mp().CurrNB(), before, "synthesized bitmap is a fresh allocation")
	require.Equal(t, []bool{true, true, true, true, true}, boolsOf(out))
	out.Free(proc.Mp())

	out2, err := proc.AllocBoolVector(5)
	require.NoError(t, err)
	defer out2.Free(proc.Mp())
	require.NoError(t, IsNull(proc, in, out2))
	require.Equal(t, []bool{false, false, false, false, false}, boolsOf(out2))
}

func TestIsNullSkipsIndicatorWhenNoNulls(t *testing.T) {
	proc := testutil.NewProc()
	present := []bool{true, true, true, true, true, true}
	in := testutil.MakeValidityVector(present)

	// corrupt the indicator behind the cached zero count; the fill
	// path must not look at it
	nulls.Validity(in.GetNulls()).Remove(2)

	out, err := proc.AllocBoolVector(6)
	require.NoError(t, err)
	defer out.Free(proc.Mp())
	require.NoError(t, IsNull(proc, in, out))
	require.Equal(t, []bool{false, false, false, false, false, false}, boolsOf(out))
}

func TestIsValidOutputIsFrozen(t *testing.T) {
	proc := testutil.NewProc()
	in := testutil.MakeValidityVector([]bool{true, false, true})

	out := boolShell(3)
	require.NoError(t, IsValid(proc, in, out))
	res := vector.MustBoolCol(out)
	defer res.Free()
	require.True(t, res.IsReadOnly())
	require.Panics(t, func() { res.Add(1) })
}

func TestIsNullIntoSharedBatchBuffer(t *testing.T) {
	proc := testutil.NewProc()

	big, err := proc.AllocBoolVector(64)
	require.NoError(t, err)
	defer big.Free(proc.Mp())
	col := vector.MustBoolCol(big)
	col.AddRange(0, 64)
	col.Free()

	pat1 := make([]bool, 17)
	pat2 := make([]bool, 17)
	for i := range pat1 {
		pat1[i] = i%2 == 0
		pat2[i] = i%5 != 0
	}
	require.NoError(t, IsNull(proc, testutil.MakeValidityVector(pat1), big.Window(3, 20)))
	require.NoError(t, IsNull(proc, testutil.MakeValidityVector(pat2), big.Window(20, 37)))

	for i := 0; i < 3; i++ {
		require.True(t, big.GetBoolAt(i), "guard bit %d", i)
	}
	for i := 37; i < 64; i++ {
		require.True(t, big.GetBoolAt(i), "guard bit %d", i)
	}
	for i := range pat1 {
		require.Equal(t, !pat1[i], big.GetBoolAt(3+i))
		require.Equal(t, !pat2[i], big.GetBoolAt(20+i))
	}
}

func TestValidityComplement(t *testing.T) {
	proc := testutil.NewProc()
	rng := rand.New(rand.NewSource(11))
	for offset := 0; offset < 8; offset++ {
		for _, length := range []int{1, 5, 11, 29} {
			present := make([]bool, offset+length)
			for i := range present {
				present[i] = rng.Intn(2) == 1
			}
			in := testutil.MakeValidityVector(present).Window(offset, offset+length)

			valid := boolShell(length)
			require.NoError(t, IsValid(proc, in, valid))
			null, err := proc.AllocBoolVector(length)
			require.NoError(t, err)
			require.NoError(t, IsNull(proc, in, null))

			for i := 0; i < length; i++ {
				require.NotEqual(t, valid.GetBoolAt(i), null.GetBoolAt(i),
					"offset=%d length=%d row %d", offset, length, i)
				require.Equal(t, present[offset+i], valid.GetBoolAt(i))
			}
			null.Free(proc.Mp())
		}
	}
}

func TestIsValidConcurrentChunks(t *testing.T) {
	proc := testutil.NewProc()
	const rows, chunk = 1024, 128
	present := make([]bool, rows)
	rng := rand.New(rand.NewSource(7))
	for i := range present {
		present[i] = rng.Intn(4) != 0
	}
	in := testutil.MakeValidityVector(present)

	p, err := ants.NewPool(4)
	require.NoError(t, err)
	defer p.Release()

	outs := make([]*vector.Vector, rows/chunk)
	var wg sync.WaitGroup
	for c := range outs {
		c := c
		wg.Add(1)
		require.NoError(t, p.Submit(func() {
			defer wg.Done()
			out := boolShell(chunk)
			if err := IsValid(proc, in.Window(c*chunk, (c+1)*chunk), out); err != nil {
				t.Error(err)
				return
			}
			outs[c] = out
		}))
	}
	wg.Wait()

	for c, out := range outs {
		require.NotNil(t, out)
		for i := 0; i < chunk; i++ {
			require.Equal(t, present[c*chunk+i], out.GetBoolAt(i))
		}
	}
}
