// Copyright 2025 go-simt Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package lower converts kernel-dialect operations on blocked-layout
// tensors into flat per-thread register lists and vectorized memory
// instructions.
//
// Each rule decodes its operands into one thread's element list in the
// canonical enumeration order, computes a new flat list, and re-encodes it
// as an aggregate value. The enumeration order is shared by every rule, so
// tensor values of the same type always align slot for slot.
package lower

import (
	"errors"
	"fmt"

	"github.com/ajroetker/go-simt/ir"
	"github.com/ajroetker/go-simt/kernel"
	"github.com/ajroetker/go-simt/simt"
)

// ErrNoMatch reports that a rewrite rule does not apply to an operation.
// The driver treats it as "try something else", not as a failure.
var ErrNoMatch = errors.New("pattern does not apply")

// ErrUnsupported reports that an operation matched a rule but names a
// construct the target cannot lower (unimplemented layout kind, value-
// returning kernel, mismatched operand layouts). The driver escalates it
// to a pass failure.
var ErrUnsupported = errors.New("unsupported construct")

// Context carries the per-module configuration every rule needs. It is
// built once per module and threaded explicitly; there is no ambient
// state.
type Context struct {
	NumWarps int
}

// NewContext reads the module-level configuration. A missing warp-count
// attribute is a configuration error and aborts the compile.
func NewContext(mod *kernel.Module) (Context, error) {
	numWarps, err := mod.NumWarps()
	if err != nil {
		return Context{}, err
	}
	return Context{NumWarps: numWarps}, nil
}

// ConvertType maps a kernel-dialect tensor type to its target
// representation: a struct of elemsPerThread converted element types for a
// blocked layout. Matrix-accumulator and shared-memory layouts are
// unimplemented and report ErrUnsupported rather than producing a
// malformed aggregate.
func ConvertType(t kernel.TensorType) (ir.Type, error) {
	switch l := t.Layout.(type) {
	case simt.BlockedLayout:
		return ir.NewStruct(t.Elem, l.ElemsPerThread(t.Shape)), nil
	case simt.MmaLayout:
		return nil, fmt.Errorf("%w: mma layout on %s", ErrUnsupported, t)
	case simt.SharedLayout:
		return nil, fmt.Errorf("%w: shared layout on %s", ErrUnsupported, t)
	}
	return nil, fmt.Errorf("%w: unknown layout on %s", ErrUnsupported, t)
}
