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

// Package operator implements the validity kernels: is_valid and
// is_null, the presence/absence pair over any null-tracking input.
package operator

import (
	"github.com/matrixorigin/mocompute/pkg/container/nulls"
	"github.com/matrixorigin/mocompute/pkg/container/vector"
	"github.com/matrixorigin/mocompute/pkg/vm/process"
)

// IsValid fills out with the boolean "is present" column of in.
//
// It manages its own output buffer.  With an indicator present the
// output aliases the indicator bytes: a byte-aligned row offset shares
// the buffer from byte offset/8 at bit offset 0, any other offset
// shares from the containing byte with the output's bit offset set to
// offset%8.  Without an indicator every row is present and a fresh
// bitmap is synthesized.  There is no path that copies an existing
// indicator.
func IsValid(proc *process.Process, in, out *vector.Vector) error {
	if in.IsConst() {
		vector.SetCol(out, []bool{!in.IsConstNull()})
		return nil
	}

	length := int64(in.Length())
	if ind := nulls.Validity(in.GetNulls()); ind != nil {
		view := ind.Slice(in.Offset(), length)
		view.MarkReadOnly()
		out.SetData(view)
		return nil
	}

	data, err := proc.AllocBitmap(length)
	if err != nil {
		return err
	}
	if length > 0 {
		data.AddRange(0, uint64(length))
	}
	out.SetData(data)
	return nil
}

// IsNull fills out with the boolean "is absent" column of in, the
// complement of IsValid.  The destination buffer is pre-allocated by
// the engine and may be a window of a larger batch buffer; the kernel
// writes at the destination's own bit offset and never aliases the
// input.
func IsNull(_ *process.Process, in, out *vector.Vector) error {
	if in.IsConst() {
		vector.SetCol(out, []bool{in.IsConstNull()})
		return nil
	}

	length := uint64(in.Length())
	dst := vector.MustBoolCol(out)
	defer dst.Free()

	ind := nulls.Validity(in.GetNulls())
	if ind == nil || in.NullCount() == 0 {
		dst.RemoveRange(0, length)
		return nil
	}

	src := ind.Slice(in.Offset(), int64(length))
	defer src.Free()
	dst.InvertFrom(src)
	return nil
}
