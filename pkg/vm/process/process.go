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

// Package process carries the per-invocation execution context a
// kernel runs under: the request context and the memory pool every
// output buffer comes from.
package process

import (
	"context"

	"github.com/matrixorigin/mocompute/pkg/common/bitmap"
	"github.com/matrixorigin/mocompute/pkg/common/mpool"
	"github.com/matrixorigin/mocompute/pkg/container/types"
	"github.com/matrixorigin/mocompute/pkg/container/vector"
)

type Process struct {
	Ctx context.Context
	mp  *mpool.MPool
}

func New(ctx context.Context, mp *mpool.MPool) *Process {
	return &Process{Ctx: ctx, mp: mp}
}

func (proc *Process) Mp() *mpool.MPool {
	return proc.mp
}

// AllocBitmap allocates a zeroed bitmap of nbits from the process
// pool.
func (proc *Process) AllocBitmap(nbits int64) (*bitmap.Bitmap, error) {
	return bitmap.New(proc.mp, nbits)
}

// AllocBoolVector allocates the destination vector for a kernel
// registered with pre-allocated output.
func (proc *Process) AllocBoolVector(length int) (*vector.Vector, error) {
	return vector.NewBoolVector(proc.mp, length)
}

// AllocScalarVector returns a const vector shell of the given type.
func (proc *Process) AllocScalarVector(typ types.Type) *vector.Vector {
	return vector.NewConstVector(typ, 1)
}
