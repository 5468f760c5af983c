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

import "fmt"

// Builder appends instructions to a function and hands back their result
// values. Type errors in operands are programming errors and panic.
type Builder struct {
	fn *Func
}

// NewBuilder returns a builder appending to fn.
func NewBuilder(fn *Func) *Builder {
	return &Builder{fn: fn}
}

// Func returns the function under construction.
func (b *Builder) Func() *Func { return b.fn }

func (b *Builder) emit(in Instr) Value {
	b.fn.Instrs = append(b.fn.Instrs, in)
	return in.Result()
}

// IConst emits an integer constant of type t.
func (b *Builder) IConst(t Type, v int64) Value {
	if _, ok := t.(Int); !ok {
		panic(fmt.Errorf("ir: IConst of non-integer type %s", t))
	}
	return b.emit(&IConst{Val: v, Res: b.fn.newValue(t)})
}

// Index emits an index-typed constant.
func (b *Builder) Index(v int64) Value {
	return b.IConst(Index, v)
}

func (b *Builder) bin(op BinKind, x, y Value) Value {
	if !Same(x.Type, y.Type) {
		panic(fmt.Errorf("ir: %s operand types %s and %s differ", op, x.Type, y.Type))
	}
	return b.emit(&BinOp{Op: op, X: x, Y: y, Res: b.fn.newValue(x.Type)})
}

// Add emits x + y.
func (b *Builder) Add(x, y Value) Value { return b.bin(OpAdd, x, y) }

// Mul emits x * y.
func (b *Builder) Mul(x, y Value) Value { return b.bin(OpMul, x, y) }

// UDiv emits the unsigned quotient x / y.
func (b *Builder) UDiv(x, y Value) Value { return b.bin(OpUDiv, x, y) }

// URem emits the unsigned remainder x % y.
func (b *Builder) URem(x, y Value) Value { return b.bin(OpURem, x, y) }

// Undef emits an uninitialized value of type t.
func (b *Builder) Undef(t Type) Value {
	return b.emit(&Undef{Res: b.fn.newValue(t)})
}

// ExtractValue emits a read of struct field i.
func (b *Builder) ExtractValue(agg Value, i int) Value {
	st, ok := agg.Type.(Struct)
	if !ok {
		panic(fmt.Errorf("ir: ExtractValue from non-struct type %s", agg.Type))
	}
	if i < 0 || i >= len(st.Fields) {
		panic(fmt.Errorf("ir: ExtractValue index %d out of range for %s", i, st))
	}
	return b.emit(&ExtractValue{Agg: agg, Index: i, Res: b.fn.newValue(st.Fields[i])})
}

// InsertValue emits a copy of agg with field i replaced by elem.
func (b *Builder) InsertValue(agg, elem Value, i int) Value {
	st, ok := agg.Type.(Struct)
	if !ok {
		panic(fmt.Errorf("ir: InsertValue into non-struct type %s", agg.Type))
	}
	if i < 0 || i >= len(st.Fields) {
		panic(fmt.Errorf("ir: InsertValue index %d out of range for %s", i, st))
	}
	if !Same(st.Fields[i], elem.Type) {
		panic(fmt.Errorf("ir: InsertValue of %s into field of type %s", elem.Type, st.Fields[i]))
	}
	return b.emit(&InsertValue{Agg: agg, Elem: elem, Index: i, Res: b.fn.newValue(st)})
}

// ExtractElement emits a read of one vector lane.
func (b *Builder) ExtractElement(vec, index Value) Value {
	vt, ok := vec.Type.(Vector)
	if !ok {
		panic(fmt.Errorf("ir: ExtractElement from non-vector type %s", vec.Type))
	}
	return b.emit(&ExtractElement{Vec: vec, Index: index, Res: b.fn.newValue(vt.Elem)})
}

// InsertElement emits a copy of vec with the lane at index replaced by elem.
func (b *Builder) InsertElement(vec, elem, index Value) Value {
	vt, ok := vec.Type.(Vector)
	if !ok {
		panic(fmt.Errorf("ir: InsertElement into non-vector type %s", vec.Type))
	}
	if !Same(vt.Elem, elem.Type) {
		panic(fmt.Errorf("ir: InsertElement of %s into vector of %s", elem.Type, vt.Elem))
	}
	return b.emit(&InsertElement{Vec: vec, Elem: elem, Index: index, Res: b.fn.newValue(vt)})
}

// Bitcast emits a reinterpretation of x as type t.
func (b *Builder) Bitcast(x Value, t Type) Value {
	return b.emit(&Bitcast{X: x, Res: b.fn.newValue(t)})
}

// ThreadID emits a read of the flat hardware thread index, index-typed.
func (b *Builder) ThreadID() Value {
	return b.emit(&ThreadID{Res: b.fn.newValue(Index)})
}

// InlineAsm emits a raw target instruction sequence producing a value of
// type ret.
func (b *Builder) InlineAsm(asm, constraints string, ret Type, sideEffects bool, args ...Value) Value {
	return b.emit(&InlineAsm{
		Asm:         asm,
		Constraints: constraints,
		Args:        args,
		SideEffects: sideEffects,
		Res:         b.fn.newValue(ret),
	})
}
