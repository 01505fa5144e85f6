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

package bitmap

import "unsafe"

// Range operations over packed bits in byte slices.  Offsets and
// lengths are in bits and need not be byte aligned; bits outside the
// addressed window are never read or written, the surrounding bytes
// may belong to someone else.

// preceding_mask_8[i] selects the i low bits of a byte.
var preceding_mask_8 = [9]byte{0x00, 0x01, 0x03, 0x07, 0x0F, 0x1F, 0x3F, 0x7F, 0xFF}

func checkRange(offset, length int64) {
	if offset < 0 || length < 0 {
		panic("bitmap: negative bit range")
	}
}

func GetBit(data []byte, i int64) bool {
	return data[i>>3]&(1<<(i&7)) != 0
}

func SetBit(data []byte, i int64) {
	data[i>>3] |= 1 << (i & 7)
}

func ClearBit(data []byte, i int64) {
	data[i>>3] &^= 1 << (i & 7)
}

func SetBitTo(data []byte, i int64, value bool) {
	if value {
		SetBit(data, i)
	} else {
		ClearBit(data, i)
	}
}

// SetRange sets length bits starting at bit offset to value.  Partial
// first and last bytes are masked, whole bytes in between are filled
// directly.
func SetRange(data []byte, offset, length int64, value bool) {
	checkRange(offset, length)
	if length == 0 {
		return
	}
	var fill byte
	if value {
		fill = 0xFF
	}
	first, last := offset>>3, (offset+length-1)>>3
	firstMask := ^preceding_mask_8[offset&7]
	lastMask := preceding_mask_8[(offset+length-1)&7+1]
	if first == last {
		mask := firstMask & lastMask
		data[first] = (data[first] &^ mask) | (fill & mask)
		return
	}
	data[first] = (data[first] &^ firstMask) | (fill & firstMask)
	for k := first + 1; k < last; k++ {
		data[k] = fill
	}
	data[last] = (data[last] &^ lastMask) | (fill & lastMask)
}

// CopyRange copies length bits from src starting at srcOff into dst
// starting at dstOff.  The two windows may have unrelated alignments.
// If src and dst share storage and the windows overlap, the result is
// the same as copying through an intermediate buffer.
func CopyRange(src []byte, srcOff, length int64, dst []byte, dstOff int64) {
	transferRange(src, srcOff, length, dst, dstOff, false)
}

// InvertRange is CopyRange writing the complement of every source bit.
func InvertRange(src []byte, srcOff, length int64, dst []byte, dstOff int64) {
	transferRange(src, srcOff, length, dst, dstOff, true)
}

func transferRange(src []byte, srcOff, length int64, dst []byte, dstOff int64, invert bool) {
	checkRange(srcOff, length)
	checkRange(dstOff, length)
	if length == 0 {
		return
	}
	if overlapsBehind(src, srcOff, dst, dstOff, length) {
		for i := length - 1; i >= 0; i-- {
			SetBitTo(dst, dstOff+i, GetBit(src, srcOff+i) != invert)
		}
		return
	}
	if srcOff&7 == dstOff&7 {
		transferAligned(src, srcOff, length, dst, dstOff, invert)
		return
	}
	for i := int64(0); i < length; i++ {
		SetBitTo(dst, dstOff+i, GetBit(src, srcOff+i) != invert)
	}
}

// transferAligned handles windows that agree on their sub-byte shift:
// masked head and tail, byte-at-a-time body.
func transferAligned(src []byte, srcOff, length int64, dst []byte, dstOff int64, invert bool) {
	var flip byte
	if invert {
		flip = 0xFF
	}
	sb, db := srcOff>>3, dstOff>>3
	nbytes := (srcOff+length-1)>>3 - sb + 1
	firstMask := ^preceding_mask_8[srcOff&7]
	lastMask := preceding_mask_8[(srcOff+length-1)&7+1]
	if nbytes == 1 {
		mask := firstMask & lastMask
		dst[db] = (dst[db] &^ mask) | ((src[sb] ^ flip) & mask)
		return
	}
	dst[db] = (dst[db] &^ firstMask) | ((src[sb] ^ flip) & firstMask)
	for k := int64(1); k < nbytes-1; k++ {
		dst[db+k] = src[sb+k] ^ flip
	}
	dst[db+nbytes-1] = (dst[db+nbytes-1] &^ lastMask) | ((src[sb+nbytes-1] ^ flip) & lastMask)
}

// overlapsBehind reports whether dst's bit window overlaps src's and
// starts after it, the one case where an ascending copy would read
// bits it already wrote.  Windows in unrelated allocations compare on
// raw addresses; a false positive there only costs the fast path.
func overlapsBehind(src []byte, srcOff int64, dst []byte, dstOff, length int64) bool {
	if len(src) == 0 || len(dst) == 0 {
		return false
	}
	s := uintptr(unsafe.Pointer(&src[srcOff>>3]))*8 + uintptr(srcOff&7)
	d := uintptr(unsafe.Pointer(&dst[dstOff>>3]))*8 + uintptr(dstOff&7)
	return d > s && d < s+uintptr(length)
}
