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

package function

import (
	"github.com/matrixorigin/mocompute/pkg/container/types"
	"github.com/matrixorigin/mocompute/pkg/sql/plan/function/operator"
)

// The built-in functions.  is_valid assigns its own output so it can
// alias the input indicator and therefore cannot target a shared
// slice; is_null only fills or inverts into its destination, so the
// engine may batch it across windows of one output buffer.
var supportedFunctions = []*Function{
	{
		Name:               "is_valid",
		Arity:              1,
		Args:               []types.T{types.T_any},
		RetTyp:             types.T_bool,
		NullHandling:       OutputNotNull,
		MemAllocation:      NoPrealloc,
		CanWriteIntoSlices: false,
		Fn:                 operator.IsValid,
	},
	{
		Name:               "is_null",
		Arity:              1,
		Args:               []types.T{types.T_any},
		RetTyp:             types.T_bool,
		NullHandling:       OutputNotNull,
		MemAllocation:      Prealloc,
		CanWriteIntoSlices: true,
		Fn:                 operator.IsNull,
	},
}

func init() {
	for _, f := range supportedFunctions {
		if err := Register(f); err != nil {
			panic(err)
		}
	}
}
