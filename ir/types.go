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

// Package ir is the target-level instruction representation the lowering
// rules emit into: scalar SSA values, fixed-length vectors, positional
// structs, and raw target inline-instruction sequences.
//
// It is deliberately small. Lowered kernel bodies are straight-line code;
// there are no basic blocks or branches. Divergence-free conditional
// behavior is expressed inside predicated inline instructions.
package ir

import (
	"fmt"
	"strings"
)

// Type is the closed set of value types lowering produces.
type Type interface {
	String() string
}

// Int is an integer type of the given bit width. Bits of 1 is the predicate
// (boolean) type.
type Int struct {
	Bits int
}

func (t Int) String() string { return fmt.Sprintf("i%d", t.Bits) }

// Float is a floating-point type of the given bit width.
type Float struct {
	Bits int
}

func (t Float) String() string { return fmt.Sprintf("f%d", t.Bits) }

// Ptr is a pointer into the given address space.
type Ptr struct {
	Elem      Type
	AddrSpace int
}

func (t Ptr) String() string {
	if t.AddrSpace != 0 {
		return fmt.Sprintf("ptr<%s, %d>", t.Elem, t.AddrSpace)
	}
	return fmt.Sprintf("ptr<%s>", t.Elem)
}

// Vector is a fixed-length vector of a scalar element type.
type Vector struct {
	Elem Type
	N    int
}

func (t Vector) String() string { return fmt.Sprintf("vec<%d x %s>", t.N, t.Elem) }

// Struct is an ordered aggregate with positional fields. One thread's share
// of a tensor value is a Struct of elemsPerThread scalar fields.
type Struct struct {
	Fields []Type
}

func (t Struct) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Index is the integer type used for all index arithmetic. The lowered
// index bitwidth is fixed at 32.
var Index = Int{Bits: 32}

// Bool is the predicate type.
var Bool = Int{Bits: 1}

// NewStruct builds a struct of n repetitions of elem.
func NewStruct(elem Type, n int) Struct {
	fields := make([]Type, n)
	for i := range fields {
		fields[i] = elem
	}
	return Struct{Fields: fields}
}

// BitWidth returns the width in bits of a scalar Int or Float type.
// Other types panic: callers must only ask for widths of scalar elements.
func BitWidth(t Type) int {
	switch t := t.(type) {
	case Int:
		return t.Bits
	case Float:
		return t.Bits
	}
	panic(fmt.Errorf("ir: no scalar bit width for type %s", t))
}

// Same reports structural type equality.
func Same(a, b Type) bool {
	switch a := a.(type) {
	case Int:
		b, ok := b.(Int)
		return ok && a.Bits == b.Bits
	case Float:
		b, ok := b.(Float)
		return ok && a.Bits == b.Bits
	case Ptr:
		b, ok := b.(Ptr)
		return ok && a.AddrSpace == b.AddrSpace && Same(a.Elem, b.Elem)
	case Vector:
		b, ok := b.(Vector)
		return ok && a.N == b.N && Same(a.Elem, b.Elem)
	case Struct:
		b, ok := b.(Struct)
		if !ok || len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if !Same(a.Fields[i], b.Fields[i]) {
				return false
			}
		}
		return true
	}
	return false
}
