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

import "fmt"

// AttrNumWarps is the module attribute naming the kernel's warp count.
const AttrNumWarps = "simt.num-warps"

// Kernel is one kernel function body: ops in program order, ending in a
// Return.
type Kernel struct {
	Name string
	Ops  []Op
}

// Module is the compilation unit handed to the lowering pass.
type Module struct {
	Attrs   map[string]int64
	Kernels []*Kernel
}

// NewModule returns a module carrying the given warp count.
func NewModule(numWarps int) *Module {
	return &Module{Attrs: map[string]int64{AttrNumWarps: int64(numWarps)}}
}

// NumWarps reads the module's warp-count attribute. A missing attribute is
// a configuration error: the caller must abort the compile.
func (m *Module) NumWarps() (int, error) {
	n, ok := m.Attrs[AttrNumWarps]
	if !ok {
		return 0, fmt.Errorf("kernel: module is missing the %s attribute", AttrNumWarps)
	}
	return int(n), nil
}
