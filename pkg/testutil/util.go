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

// Package testutil builds the fixtures kernel tests run against.
package testutil

import (
	"context"

	"github.com/matrixorigin/mocompute/pkg/common/bitmap"
	"github.com/matrixorigin/mocompute/pkg/common/mpool"
	"github.com/matrixorigin/mocompute/pkg/container/nulls"
	"github.com/matrixorigin/mocompute/pkg/container/types"
	"github.com/matrixorigin/mocompute/pkg/container/vector"
	"github.com/matrixorigin/mocompute/pkg/vm/process"
)

// TestUtilMp backs every fixture allocation.
var TestUtilMp = mpool.MustNewZero()

func NewProc() *process.Process {
	return process.New(context.Background(), TestUtilMp)
}

func makeVector(typ types.T, col any, size int, nullRows []uint64) *vector.Vector {
	v := vector.NewVector(typ.ToType())
	v.SetLength(size)
	vector.SetCol(v, col)
	if nullRows != nil {
		nsp, err := nulls.Build(TestUtilMp, size, nullRows...)
		if err != nil {
			panic(err)
		}
		v.SetNulls(nsp)
		v.SetNullCount(len(nullRows))
	}
	return v
}

func MakeInt64Vector(values []int64, nullRows []uint64) *vector.Vector {
	return makeVector(types.T_int64, values, len(values), nullRows)
}

func MakeFloat64Vector(values []float64, nullRows []uint64) *vector.Vector {
	return makeVector(types.T_float64, values, len(values), nullRows)
}

func MakeVarcharVector(values []string, nullRows []uint64) *vector.Vector {
	return makeVector(types.T_varchar, values, len(values), nullRows)
}

// MakeBoolVector packs values one bit per row.
func MakeBoolVector(values []bool, nullRows []uint64) *vector.Vector {
	v := makeVector(types.T_bool, nil, len(values), nullRows)
	data, err := bitmap.New(TestUtilMp, int64(len(values)))
	if err != nil {
		panic(err)
	}
	for i, b := range values {
		if b {
			data.Add(uint64(i))
		}
	}
	v.SetData(data)
	return v
}

// MakeValidityVector builds a vector of size rows whose indicator
// holds exactly the given presence bits, the raw shape the validity
// kernels care about.
func MakeValidityVector(present []bool) *vector.Vector {
	size := len(present)
	v := vector.NewVector(types.T_int64.ToType())
	v.SetLength(size)
	nsp, err := nulls.NewWithSize(TestUtilMp, size)
	if err != nil {
		panic(err)
	}
	nullCnt := 0
	for i, p := range present {
		if !p {
			nsp.Np.Remove(uint64(i))
			nullCnt++
		}
	}
	v.SetNulls(nsp)
	v.SetNullCount(nullCnt)
	return v
}

func MakeScalarInt64(value int64, length int) *vector.Vector {
	v := vector.NewConstVector(types.T_int64.ToType(), length)
	vector.SetCol(v, []int64{value})
	return v
}

func MakeScalarNull(typ types.T, length int) *vector.Vector {
	return vector.NewConstNull(typ.ToType(), length)
}
