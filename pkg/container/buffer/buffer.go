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

// Package buffer provides the reference counted byte buffer shared
// between containers.  A buffer with more than one owner is immutable;
// whoever wants to write must hold the only reference.
package buffer

import (
	"sync/atomic"

	"github.com/matrixorigin/mocompute/pkg/common/mpool"
)

type Buffer struct {
	data []byte
	refs *atomic.Int64

	// root is the full allocation, kept so that a slice view can
	// still free the storage it shares.  nil for foreign buffers.
	root []byte
	mp   *mpool.MPool
}

// New allocates a zeroed buffer of size bytes from mp with a reference
// count of one.
func New(mp *mpool.MPool, size int) (*Buffer, error) {
	data, err := mp.Alloc(size)
	if err != nil {
		return nil, err
	}
	b := &Buffer{data: data, refs: new(atomic.Int64), root: data, mp: mp}
	b.refs.Store(1)
	return b, nil
}

// FromBytes wraps bytes the caller owns.  The buffer is reference
// counted like any other but never returns storage to a pool.
func FromBytes(data []byte) *Buffer {
	b := &Buffer{data: data, refs: new(atomic.Int64)}
	b.refs.Store(1)
	return b
}

func (b *Buffer) Bytes() []byte {
	return b.data
}

func (b *Buffer) Len() int {
	return len(b.data)
}

func (b *Buffer) Refs() int64 {
	return b.refs.Load()
}

// Shared reports whether the storage has more than one live owner.
// Writers must check this before any mutation.
func (b *Buffer) Shared() bool {
	return b.refs.Load() > 1
}

// Retain adds an owner and returns b.
func (b *Buffer) Retain() *Buffer {
	b.refs.Add(1)
	return b
}

// Release drops an owner.  The storage goes back to its pool when the
// last owner releases.
func (b *Buffer) Release() {
	if b == nil {
		return
	}
	if n := b.refs.Add(-1); n == 0 {
		if b.mp != nil {
			b.mp.Free(b.root)
		}
		b.data = nil
		b.root = nil
	} else if n < 0 {
		panic("release of a dead buffer")
	}
}

// Slice returns a view of b.data[off : off+length] sharing storage and
// reference count with b.  The view counts as a new owner.
func (b *Buffer) Slice(off, length int) *Buffer {
	if off < 0 || length < 0 || off+length > len(b.data) {
		panic("buffer slice out of range")
	}
	nb := &Buffer{data: b.data[off : off+length], refs: b.refs, root: b.root, mp: b.mp}
	nb.refs.Add(1)
	return nb
}
