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

// Package kernel is the source-level dialect the lowering pass consumes:
// tensor-typed operations whose distribution across the SIMT hierarchy is
// described by a layout attribute on the tensor type.
package kernel

import (
	"fmt"
	"strings"

	"github.com/ajroetker/go-simt/ir"
	"github.com/ajroetker/go-simt/simt"
)

// TensorType is a ranked tensor with a distribution layout attached.
// The layout is a compile-time attribute of the type, not runtime state.
type TensorType struct {
	Shape  []int64
	Elem   ir.Type
	Layout simt.Layout
}

// Rank returns the number of dimensions.
func (t TensorType) Rank() int { return len(t.Shape) }

func (t TensorType) String() string {
	dims := make([]string, len(t.Shape))
	for i, s := range t.Shape {
		dims[i] = fmt.Sprintf("%d", s)
	}
	return fmt.Sprintf("tensor<%sx%s, %s>", strings.Join(dims, "x"), t.Elem, t.Layout.Kind())
}

// Blocked returns the blocked layout of the tensor, or false when the
// tensor carries a different layout kind.
func (t TensorType) Blocked() (simt.BlockedLayout, bool) {
	bl, ok := t.Layout.(simt.BlockedLayout)
	return bl, ok
}

// SameLayout reports whether two tensor types carry the same layout.
func (t TensorType) SameLayout(o TensorType) bool {
	a, aok := t.Blocked()
	b, bok := o.Blocked()
	if !aok || !bok {
		return t.Layout == nil && o.Layout == nil
	}
	return intsEqual(a.SizePerThread, b.SizePerThread) &&
		intsEqual(a.ThreadsPerWarp, b.ThreadsPerWarp) &&
		intsEqual(a.WarpsPerCTA, b.WarpsPerCTA) &&
		intsEqual(a.Order, b.Order)
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
