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
	"strings"
	"testing"
)

func TestBuilderArithEval(t *testing.T) {
	fn := NewFunc("arith")
	b := NewBuilder(fn)

	tid := b.ThreadID()
	lane := b.URem(tid, b.Index(32))
	warp := b.UDiv(tid, b.Index(32))
	sum := b.Add(b.Mul(warp, b.Index(100)), lane)

	it, err := Eval(fn, 70)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	got, err := it.Scalar(sum)
	if err != nil {
		t.Fatalf("Scalar: %v", err)
	}
	if got != 2*100+6 {
		t.Errorf("sum = %d, want 206", got)
	}
}

func TestBuilderAggregates(t *testing.T) {
	fn := NewFunc("agg")
	b := NewBuilder(fn)

	st := NewStruct(Index, 3)
	agg := b.Undef(st)
	for i := 0; i < 3; i++ {
		agg = b.InsertValue(agg, b.Index(int64(10+i)), i)
	}
	mid := b.ExtractValue(agg, 1)

	it, err := Eval(fn, 0)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	got, err := it.Scalar(mid)
	if err != nil {
		t.Fatalf("Scalar: %v", err)
	}
	if got != 11 {
		t.Errorf("field 1 = %d, want 11", got)
	}
}

func TestBuilderVectorLanes(t *testing.T) {
	fn := NewFunc("vec")
	b := NewBuilder(fn)

	vt := Vector{Elem: Index, N: 4}
	v := b.Undef(vt)
	for i := 0; i < 4; i++ {
		v = b.InsertElement(v, b.Index(int64(i*i)), b.Index(int64(i)))
	}
	lane2 := b.ExtractElement(v, b.Index(2))

	it, err := Eval(fn, 0)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	got, err := it.Scalar(lane2)
	if err != nil {
		t.Fatalf("Scalar: %v", err)
	}
	if got != 4 {
		t.Errorf("lane 2 = %d, want 4", got)
	}
}

func TestBuilderTypeChecks(t *testing.T) {
	fn := NewFunc("bad")
	b := NewBuilder(fn)
	x := b.Index(1)
	y := b.IConst(Int{Bits: 64}, 2)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on mismatched operand types")
		}
	}()
	b.Add(x, y)
}

func TestEvalAsmNotInterpretable(t *testing.T) {
	fn := NewFunc("asm")
	b := NewBuilder(fn)
	b.InlineAsm("mov.u32 $0, 0x0;", "=r", Int{Bits: 32}, true)
	if _, err := Eval(fn, 0); err == nil {
		t.Fatal("expected error interpreting inline asm")
	}
}

func TestEvalParams(t *testing.T) {
	fn := NewFunc("params")
	b := NewBuilder(fn)
	st := NewStruct(Index, 2)
	p := fn.AddParam(st)
	sum := b.Add(b.ExtractValue(p, 0), b.ExtractValue(p, 1))

	it, err := EvalParams(fn, 0, []Datum{
		{Agg: true, Elems: []Datum{{Int: 40}, {Int: 2}}},
	})
	if err != nil {
		t.Fatalf("EvalParams: %v", err)
	}
	got, err := it.Scalar(sum)
	if err != nil {
		t.Fatalf("Scalar: %v", err)
	}
	if got != 42 {
		t.Errorf("sum = %d, want 42", got)
	}
}

func TestTypeStringsAndSame(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{Int{Bits: 32}, "i32"},
		{Float{Bits: 16}, "f16"},
		{Ptr{Elem: Float{Bits: 32}, AddrSpace: 1}, "ptr<f32, 1>"},
		{Vector{Elem: Float{Bits: 16}, N: 2}, "vec<2 x f16>"},
		{Struct{Fields: []Type{Int{Bits: 1}, Int{Bits: 32}}}, "{i1, i32}"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
		if !Same(tt.typ, tt.typ) {
			t.Errorf("Same(%s, %s) = false", tt.typ, tt.typ)
		}
	}
	if Same(Int{Bits: 32}, Int{Bits: 64}) {
		t.Error("Same(i32, i64) = true")
	}
	if Same(NewStruct(Index, 2), NewStruct(Index, 3)) {
		t.Error("Same on different field counts = true")
	}
}

func TestFuncString(t *testing.T) {
	fn := NewFunc("kernel0")
	fn.MaxThreads = 64
	b := NewBuilder(fn)
	b.Add(b.Index(1), b.Index(2))
	s := fn.String()
	for _, want := range []string{"func kernel0", "maxntid(64)", "= add i32"} {
		if !strings.Contains(s, want) {
			t.Errorf("Func.String() missing %q:\n%s", want, s)
		}
	}
}
