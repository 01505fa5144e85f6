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

// Package mpool is the memory accounting pool.  Every buffer a kernel
// allocates comes out of an MPool so that usage is attributable and
// capped.  The pool does not own a free list; it tracks bytes and
// enforces the cap, the Go allocator does the rest.
package mpool

import (
	"fmt"
	"sync/atomic"

	"github.com/matrixorigin/mocompute/pkg/common/moerr"
)

// NoFixed means no cap is enforced on the pool.
const NoFixed int64 = 0

// Stats of an mpool.  All fields are updated atomically, a pool is
// safe for concurrent use.
type MPoolStats struct {
	NumAlloc      atomic.Int64 // number of allocations
	NumFree       atomic.Int64 // number of frees
	NumCurrBytes  atomic.Int64 // bytes allocated and not freed
	HighWaterMark atomic.Int64 // max value of NumCurrBytes
}

func (s *MPoolStats) Report(tab string) string {
	if s.HighWaterMark.Load() == 0 {
		return ""
	}
	ret := fmt.Sprintf("%s allocations : %d\n", tab, s.NumAlloc.Load())
	ret += fmt.Sprintf("%s frees : %d\n", tab, s.NumFree.Load())
	ret += fmt.Sprintf("%s current bytes : %d\n", tab, s.NumCurrBytes.Load())
	ret += fmt.Sprintf("%s high water mark : %d\n", tab, s.HighWaterMark.Load())
	return ret
}

func (s *MPoolStats) RecordAlloc(sz int64) int64 {
	s.NumAlloc.Add(1)
	curr := s.NumCurrBytes.Add(sz)
	for hwm := s.HighWaterMark.Load(); curr > hwm; hwm = s.HighWaterMark.Load() {
		if s.HighWaterMark.CompareAndSwap(hwm, curr) {
			break
		}
	}
	return curr
}

func (s *MPoolStats) RecordFree(sz int64) int64 {
	s.NumFree.Add(1)
	return s.NumCurrBytes.Add(-sz)
}

type MPool struct {
	name  string
	cap   int64
	stats MPoolStats
}

// NewMPool creates a named pool.  cap of NoFixed means unbounded.
func NewMPool(name string, cap int64) (*MPool, error) {
	if cap < 0 {
		return nil, moerr.NewInternalErrorNoCtx("mpool cap %d", cap)
	}
	return &MPool{name: name, cap: cap}, nil
}

// MustNewZero creates an unbounded pool, panicking on failure.  Test
// and tool code only.
func MustNewZero() *MPool {
	mp, err := NewMPool("zero-cap", NoFixed)
	if err != nil {
		panic(err)
	}
	return mp
}

func (mp *MPool) Name() string {
	return mp.name
}

func (mp *MPool) Cap() int64 {
	return mp.cap
}

// CurrNB returns the bytes currently held out of the pool.
func (mp *MPool) CurrNB() int64 {
	return mp.stats.NumCurrBytes.Load()
}

func (mp *MPool) Stats() *MPoolStats {
	return &mp.stats
}

func (mp *MPool) Report() string {
	return fmt.Sprintf("pool %s:\n%s", mp.name, mp.stats.Report("    "))
}

// Alloc allocates sz bytes, zeroed.  A negative size is a caller bug,
// exceeding the cap is an OOM the caller must handle.
func (mp *MPool) Alloc(sz int) ([]byte, error) {
	if sz < 0 {
		return nil, moerr.NewInternalErrorNoCtx("mpool alloc size %d", sz)
	}
	if sz == 0 {
		return nil, nil
	}
	if mp.cap != NoFixed && mp.CurrNB()+int64(sz) > mp.cap {
		return nil, moerr.NewOOMNoCtx()
	}
	mp.stats.RecordAlloc(int64(sz))
	return make([]byte, sz), nil
}

// Free returns bytes to the pool.  Only accounting happens here; the
// storage itself is reclaimed by GC.
func (mp *MPool) Free(bs []byte) {
	if len(bs) == 0 {
		return
	}
	mp.stats.RecordFree(int64(len(bs)))
}
