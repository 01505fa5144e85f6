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

// Package nulls wraps the packed validity indicator a vector uses to
// track NULL values.  A set bit marks a present row, a cleared bit a
// NULL; a nil indicator means no NULL is tracked and every row is
// present.
package nulls

import (
	"fmt"

	"github.com/matrixorigin/mocompute/pkg/common/bitmap"
	"github.com/matrixorigin/mocompute/pkg/common/mpool"
)

type Nulls struct {
	Np *bitmap.Bitmap
}

// NewWithSize allocates an indicator of size bits with every row
// marked present.
func NewWithSize(mp *mpool.MPool, size int) (*Nulls, error) {
	np, err := bitmap.New(mp, int64(size))
	if err != nil {
		return nil, err
	}
	if size > 0 {
		np.AddRange(0, uint64(size))
	}
	return &Nulls{Np: np}, nil
}

// Build allocates an indicator of size bits with the given rows marked
// NULL.
func Build(mp *mpool.MPool, size int, nullRows ...uint64) (*Nulls, error) {
	nsp, err := NewWithSize(mp, size)
	if err != nil {
		return nil, err
	}
	for _, row := range nullRows {
		nsp.Np.Remove(row)
	}
	return nsp, nil
}

// Any returns true if any row is NULL.
func Any(nsp *Nulls) bool {
	if nsp == nil || nsp.Np == nil {
		return false
	}
	return nsp.Np.Count() != int(nsp.Np.Len())
}

// Contains returns true if row is NULL.
func Contains(nsp *Nulls, row uint64) bool {
	if nsp == nil || nsp.Np == nil {
		return false
	}
	return !nsp.Np.Contains(row)
}

// Count returns the number of NULL rows.
func Count(nsp *Nulls) int {
	if nsp == nil || nsp.Np == nil {
		return 0
	}
	return int(nsp.Np.Len()) - nsp.Np.Count()
}

// Validity exposes the indicator bitmap, nil when nothing is tracked.
func Validity(nsp *Nulls) *bitmap.Bitmap {
	if nsp == nil {
		return nil
	}
	return nsp.Np
}

// Window returns the indicator restricted to rows [from, from+length),
// sharing the underlying buffer.
func Window(nsp *Nulls, from, length int64) *Nulls {
	if nsp == nil || nsp.Np == nil {
		return nil
	}
	return &Nulls{Np: nsp.Np.Slice(from, length)}
}

func Free(nsp *Nulls) {
	if nsp == nil {
		return
	}
	nsp.Np.Free()
	nsp.Np = nil
}

func String(nsp *Nulls) string {
	if nsp == nil || nsp.Np == nil {
		return "[]"
	}
	rows := make([]uint64, 0)
	for i := int64(0); i < nsp.Np.Len(); i++ {
		if !nsp.Np.Contains(uint64(i)) {
			rows = append(rows, uint64(i))
		}
	}
	return fmt.Sprintf("%v", rows)
}
