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

package lower

import (
	"fmt"

	"github.com/ajroetker/go-simt/ir"
)

// unpackValues reads the n scalar constituents of an aggregate value in
// slot order. It never reorders.
func unpackValues(b *ir.Builder, agg ir.Value, n int) []ir.Value {
	st, ok := agg.Type.(ir.Struct)
	if !ok {
		panic(fmt.Errorf("lower: unpack of non-aggregate value of type %s", agg.Type))
	}
	if len(st.Fields) != n {
		panic(fmt.Errorf("lower: aggregate has %d fields, want %d", len(st.Fields), n))
	}
	vals := make([]ir.Value, n)
	for i := 0; i < n; i++ {
		vals[i] = b.ExtractValue(agg, i)
	}
	return vals
}

// packValues builds a fresh aggregate of type st from a flat element list
// in slot order.
func packValues(b *ir.Builder, vals []ir.Value, st ir.Struct) ir.Value {
	if len(vals) != len(st.Fields) {
		panic(fmt.Errorf("lower: packing %d values into aggregate of %d fields", len(vals), len(st.Fields)))
	}
	agg := b.Undef(st)
	for i, v := range vals {
		agg = b.InsertValue(agg, v, i)
	}
	return agg
}
