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

package kernel

import (
	"testing"

	"github.com/ajroetker/go-simt/ir"
	"github.com/ajroetker/go-simt/simt"
)

func blocked1D(spt, tpw, wpc int) simt.BlockedLayout {
	return simt.BlockedLayout{
		SizePerThread:  []int{spt},
		ThreadsPerWarp: []int{tpw},
		WarpsPerCTA:    []int{wpc},
		Order:          []int{0},
	}
}

func TestModuleNumWarps(t *testing.T) {
	m := NewModule(4)
	n, err := m.NumWarps()
	if err != nil {
		t.Fatalf("NumWarps: %v", err)
	}
	if n != 4 {
		t.Errorf("NumWarps = %d, want 4", n)
	}

	delete(m.Attrs, AttrNumWarps)
	if _, err := m.NumWarps(); err == nil {
		t.Error("NumWarps with missing attribute did not error")
	}
}

func TestTensorTypeString(t *testing.T) {
	ty := TensorType{
		Shape:  []int64{16, 64},
		Elem:   ir.Float{Bits: 16},
		Layout: blocked1D(1, 32, 1),
	}
	if got, want := ty.String(), "tensor<16x64xf16, blocked>"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestSameLayout(t *testing.T) {
	a := TensorType{Shape: []int64{32}, Elem: ir.Float{Bits: 32}, Layout: blocked1D(4, 8, 1)}
	b := TensorType{Shape: []int64{64}, Elem: ir.Int{Bits: 32}, Layout: blocked1D(4, 8, 1)}
	if !a.SameLayout(b) {
		t.Error("identical blocked layouts reported as different")
	}

	c := b
	c.Layout = blocked1D(2, 16, 1)
	if a.SameLayout(c) {
		t.Error("different blocked layouts reported as same")
	}

	d := b
	d.Layout = simt.MmaLayout{Version: 2}
	if a.SameLayout(d) {
		t.Error("blocked layout reported same as mma layout")
	}
}
