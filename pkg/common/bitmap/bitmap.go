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

// Package bitmap implements the packed bitmap backing null indicators
// and boolean columns.  A Bitmap is a logical window (offset, length)
// in bits over a reference counted byte buffer; the buffer may hold
// unrelated bits outside the window and may be shared between owners.
// Windows that alias bits owned elsewhere are marked read only and any
// mutation through them panics.
package bitmap

import (
	"bytes"
	"fmt"
	"math/bits"

	"github.com/matrixorigin/mocompute/pkg/common/mpool"
	"github.com/matrixorigin/mocompute/pkg/container/buffer"
	"github.com/matrixorigin/mocompute/pkg/container/types"
)

type Bitmap struct {
	buf *buffer.Buffer
	// offset is the window's starting bit inside buf, kept below 8:
	// windows are always byte sliced on creation.
	offset int64
	length int64

	// ro marks a window that aliases bits owned elsewhere.  Engines
	// may share a writable buffer across disjoint windows, so the
	// guard is the aliasing mark, not the reference count.
	ro bool
}

// New allocates a zeroed bitmap of length bits from mp.  The window
// starts at bit 0 and the caller is the only owner.
func New(mp *mpool.MPool, length int64) (*Bitmap, error) {
	if length < 0 {
		panic("bitmap: negative length")
	}
	buf, err := buffer.New(mp, int((length+7)/8))
	if err != nil {
		return nil, err
	}
	return &Bitmap{buf: buf, length: length}, nil
}

// FromBuffer wraps an existing buffer as a bitmap window without
// copying.  offset is a bit offset into buf and may exceed 8; the
// window is re-sliced to the containing byte.  buf gains an owner.
func FromBuffer(buf *buffer.Buffer, offset, length int64) *Bitmap {
	checkRange(offset, length)
	start := offset >> 3
	nbytes := (offset+length+7)/8 - start
	return &Bitmap{
		buf:    buf.Slice(int(start), int(nbytes)),
		offset: offset & 7,
		length: length,
	}
}

// Len returns the number of bits in the window.
func (n *Bitmap) Len() int64 {
	return n.length
}

// BitOffset returns the window's starting bit within its first byte,
// always in [0, 8).
func (n *Bitmap) BitOffset() int64 {
	return n.offset
}

// Buf exposes the backing buffer, shared ownership included.
func (n *Bitmap) Buf() *buffer.Buffer {
	return n.buf
}

// Free releases this window's ownership of the backing buffer.
func (n *Bitmap) Free() {
	if n == nil || n.buf == nil {
		return
	}
	n.buf.Release()
	n.buf = nil
	n.length = 0
	n.offset = 0
}

// MarkReadOnly freezes the window; any later mutation panics.  Alias
// producers call this before handing the window to a second owner.
func (n *Bitmap) MarkReadOnly() {
	n.ro = true
}

func (n *Bitmap) IsReadOnly() bool {
	return n.ro
}

func (n *Bitmap) mustOwn() {
	if n.ro {
		panic("bitmap: write to a read-only aliased buffer")
	}
}

func (n *Bitmap) checkRow(row uint64) {
	if int64(row) >= n.length {
		panic(fmt.Sprintf("bitmap: row %d out of range %d", row, n.length))
	}
}

// Contains returns true if the bit at row is set.
func (n *Bitmap) Contains(row uint64) bool {
	if int64(row) >= n.length {
		return false
	}
	return GetBit(n.buf.Bytes(), n.offset+int64(row))
}

func (n *Bitmap) Add(row uint64) {
	n.checkRow(row)
	n.mustOwn()
	SetBit(n.buf.Bytes(), n.offset+int64(row))
}

func (n *Bitmap) Remove(row uint64) {
	if int64(row) >= n.length {
		return
	}
	n.mustOwn()
	ClearBit(n.buf.Bytes(), n.offset+int64(row))
}

// AddRange sets the bits in [start, end).
func (n *Bitmap) AddRange(start, end uint64) {
	if start >= end {
		return
	}
	n.checkRow(end - 1)
	n.mustOwn()
	SetRange(n.buf.Bytes(), n.offset+int64(start), int64(end-start), true)
}

// RemoveRange clears the bits in [start, end).
func (n *Bitmap) RemoveRange(start, end uint64) {
	if end > uint64(n.length) {
		end = uint64(n.length)
	}
	if start >= end {
		return
	}
	n.mustOwn()
	SetRange(n.buf.Bytes(), n.offset+int64(start), int64(end-start), false)
}

// CopyFrom overwrites this window with src's bits.  Lengths must
// match; alignments are free to differ.
func (n *Bitmap) CopyFrom(src *Bitmap) {
	if n.length != src.length {
		panic("bitmap: copy between windows of different lengths")
	}
	n.mustOwn()
	CopyRange(src.buf.Bytes(), src.offset, n.length, n.buf.Bytes(), n.offset)
}

// InvertFrom overwrites this window with the complement of src's bits.
func (n *Bitmap) InvertFrom(src *Bitmap) {
	if n.length != src.length {
		panic("bitmap: invert between windows of different lengths")
	}
	n.mustOwn()
	InvertRange(src.buf.Bytes(), src.offset, n.length, n.buf.Bytes(), n.offset)
}

// Slice returns a window of length bits starting at bit from, sharing
// the buffer.  The view is byte sliced, so its BitOffset stays in
// [0, 8).
func (n *Bitmap) Slice(from, length int64) *Bitmap {
	checkRange(from, length)
	if from+length > n.length {
		panic("bitmap: slice out of range")
	}
	abs := n.offset + from
	start := abs >> 3
	nbytes := (abs+length+7)/8 - start
	return &Bitmap{
		buf:    n.buf.Slice(int(start), int(nbytes)),
		offset: abs & 7,
		length: length,
		ro:     n.ro,
	}
}

// Clone copies the window into a freshly allocated bitmap at bit
// offset 0.
func (n *Bitmap) Clone(mp *mpool.MPool) (*Bitmap, error) {
	m, err := New(mp, n.length)
	if err != nil {
		return nil, err
	}
	CopyRange(n.buf.Bytes(), n.offset, n.length, m.buf.Bytes(), 0)
	return m, nil
}

// Count returns the number of set bits in the window.
func (n *Bitmap) Count() int {
	if n == nil || n.length == 0 {
		return 0
	}
	data := n.buf.Bytes()
	first, last := n.offset>>3, (n.offset+n.length-1)>>3
	firstMask := ^preceding_mask_8[n.offset&7]
	lastMask := preceding_mask_8[(n.offset+n.length-1)&7+1]
	if first == last {
		return bits.OnesCount8(data[first] & firstMask & lastMask)
	}
	cnt := bits.OnesCount8(data[first] & firstMask)
	for k := first + 1; k < last; k++ {
		cnt += bits.OnesCount8(data[k])
	}
	return cnt + bits.OnesCount8(data[last]&lastMask)
}

// IsEmpty returns true if no bit in the window is set.
func (n *Bitmap) IsEmpty() bool {
	return n.Count() == 0
}

// IsSame reports bitwise equality of two windows of equal length.
func (n *Bitmap) IsSame(m *Bitmap) bool {
	if n.length != m.length {
		return false
	}
	for i := int64(0); i < n.length; i++ {
		if GetBit(n.buf.Bytes(), n.offset+i) != GetBit(m.buf.Bytes(), m.offset+i) {
			return false
		}
	}
	return true
}

// ToArray returns the positions of the set bits.
func (n *Bitmap) ToArray() []uint64 {
	var rows []uint64
	if n == nil {
		return rows
	}
	for i := int64(0); i < n.length; i++ {
		if GetBit(n.buf.Bytes(), n.offset+i) {
			rows = append(rows, uint64(i))
		}
	}
	return rows
}

func (n *Bitmap) String() string {
	return fmt.Sprintf("%v", n.ToArray())
}

// Marshal packs the logical window, re-based to bit offset 0, after a
// length header.
func (n *Bitmap) Marshal() []byte {
	var w bytes.Buffer
	u := n.length
	w.Write(types.EncodeInt64(&u))
	packed := make([]byte, (n.length+7)/8)
	CopyRange(n.buf.Bytes(), n.offset, n.length, packed, 0)
	w.Write(packed)
	return w.Bytes()
}

// Unmarshal reads a bitmap produced by Marshal.  The result wraps the
// input bytes without copying.
func (n *Bitmap) Unmarshal(data []byte) {
	n.Free()
	n.length = types.DecodeInt64(data[:8])
	n.offset = 0
	n.buf = buffer.FromBytes(data[8 : 8+(n.length+7)/8])
}
