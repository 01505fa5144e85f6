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

// Package function is the kernel registry.  Each function is a plain
// descriptor value registered once at init time and looked up by name
// for every invocation; the descriptor tells the engine how the kernel
// must be called.
package function

import (
	"github.com/matrixorigin/mocompute/pkg/common/moerr"
	"github.com/matrixorigin/mocompute/pkg/container/types"
	"github.com/matrixorigin/mocompute/pkg/container/vector"
	"github.com/matrixorigin/mocompute/pkg/logutil"
	"github.com/matrixorigin/mocompute/pkg/vm/process"
)

type NullHandling uint8

const (
	// NullIntersection lets the engine derive the output indicator
	// from the inputs, the default for elementwise kernels.
	NullIntersection NullHandling = iota
	// OutputNotNull kernels produce fully defined outputs; the engine
	// must not allocate or propagate an indicator for their results.
	OutputNotNull
)

type MemAllocation uint8

const (
	// Prealloc kernels receive an engine-allocated destination
	// buffer.
	Prealloc MemAllocation = iota
	// NoPrealloc kernels assign their own output buffer, which may
	// alias an input.
	NoPrealloc
)

// ExecFn runs a kernel over one input and one pre-shaped output.
type ExecFn func(proc *process.Process, in, out *vector.Vector) error

// Function describes one kernel to the dispatch engine.  Descriptors
// are immutable after registration.
type Function struct {
	Name   string
	Arity  int
	Args   []types.T // T_any imposes no constraint
	RetTyp types.T

	NullHandling  NullHandling
	MemAllocation MemAllocation
	// CanWriteIntoSlices marks kernels whose output may be a window
	// of a larger shared batch buffer.
	CanWriteIntoSlices bool

	Fn ExecFn
}

var registry = map[string]*Function{}

// Register adds f to the registry.  A name collision is a setup bug,
// reported as an error so init paths can fail loudly.
func Register(f *Function) error {
	if f.Name == "" || f.Fn == nil || f.Arity != len(f.Args) {
		return moerr.NewInvalidStateNoCtx("malformed function descriptor %q", f.Name)
	}
	if _, ok := registry[f.Name]; ok {
		return moerr.NewDuplicateNoCtx("function %s", f.Name)
	}
	registry[f.Name] = f
	logutil.Debugf("registered function %s, arity %d, return %s", f.Name, f.Arity, f.RetTyp)
	return nil
}

// Get looks a function up by name.
func Get(name string) (*Function, error) {
	f, ok := registry[name]
	if !ok {
		return nil, moerr.NewInvalidStateNoCtx("function %s not registered", name)
	}
	return f, nil
}

// Run invokes a unary function on in, shaping the output according to
// the descriptor: const inputs get a const result, Prealloc kernels
// get an allocated destination, NoPrealloc kernels get an empty shell
// to fill.  OutputNotNull results carry no indicator.
func Run(proc *process.Process, name string, in *vector.Vector) (*vector.Vector, error) {
	f, err := Get(name)
	if err != nil {
		return nil, err
	}
	if f.Arity != 1 {
		return nil, moerr.NewInternalError(proc.Ctx, "function %s has arity %d, called with 1 input", name, f.Arity)
	}
	if f.Args[0] != types.T_any && f.Args[0] != in.GetType().Oid {
		return nil, moerr.NewInvalidArg(proc.Ctx, name, in.GetType().String())
	}

	var out *vector.Vector
	switch {
	case in.IsConst():
		out = proc.AllocScalarVector(f.RetTyp.ToType())
		out.SetLength(in.Length())
	case f.MemAllocation == Prealloc:
		if f.RetTyp != types.T_bool {
			return nil, moerr.NewNYI(proc.Ctx, "pre-allocated output of type %s", f.RetTyp)
		}
		out, err = proc.AllocBoolVector(in.Length())
		if err != nil {
			return nil, err
		}
	default:
		out = vector.NewVector(f.RetTyp.ToType())
		out.SetLength(in.Length())
	}

	if err := f.Fn(proc, in, out); err != nil {
		out.Free(proc.Mp())
		return nil, err
	}
	return out, nil
}
