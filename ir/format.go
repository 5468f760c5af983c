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

package ir

import (
	"fmt"
	"strings"
)

func ref(v Value) string { return fmt.Sprintf("%%%d", v.ID) }

// Format renders one instruction as text.
func Format(in Instr) string {
	res := in.Result()
	switch in := in.(type) {
	case *IConst:
		return fmt.Sprintf("%s = const %s %d", ref(res), res.Type, in.Val)
	case *BinOp:
		return fmt.Sprintf("%s = %s %s %s, %s", ref(res), in.Op, res.Type, ref(in.X), ref(in.Y))
	case *Undef:
		return fmt.Sprintf("%s = undef %s", ref(res), res.Type)
	case *ExtractValue:
		return fmt.Sprintf("%s = extractvalue %s, %d", ref(res), ref(in.Agg), in.Index)
	case *InsertValue:
		return fmt.Sprintf("%s = insertvalue %s, %s, %d", ref(res), ref(in.Agg), ref(in.Elem), in.Index)
	case *ExtractElement:
		return fmt.Sprintf("%s = extractelement %s, %s", ref(res), ref(in.Vec), ref(in.Index))
	case *InsertElement:
		return fmt.Sprintf("%s = insertelement %s, %s, %s", ref(res), ref(in.Vec), ref(in.Elem), ref(in.Index))
	case *Bitcast:
		return fmt.Sprintf("%s = bitcast %s to %s", ref(res), ref(in.X), res.Type)
	case *ThreadID:
		return fmt.Sprintf("%s = thread_id", ref(res))
	case *InlineAsm:
		args := make([]string, len(in.Args))
		for i, a := range in.Args {
			args[i] = ref(a)
		}
		return fmt.Sprintf("%s = asm %q, %q (%s)", ref(res), in.Asm, in.Constraints, strings.Join(args, ", "))
	}
	return fmt.Sprintf("<unknown instr %T>", in)
}

// String renders the function: signature, launch bound, then one
// instruction per line.
func (f *Func) String() string {
	var sb strings.Builder
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("%s: %s", ref(p), p.Type)
	}
	fmt.Fprintf(&sb, "func %s(%s)", f.Name, strings.Join(params, ", "))
	if f.MaxThreads > 0 {
		fmt.Fprintf(&sb, " maxntid(%d)", f.MaxThreads)
	}
	sb.WriteString(" {\n")
	for _, in := range f.Instrs {
		sb.WriteString("  ")
		sb.WriteString(Format(in))
		sb.WriteString("\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}
