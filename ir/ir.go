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

// ValueID identifies an SSA value within a function.
type ValueID uint32

// InvalidValue is the zero ValueID; no instruction produces it.
const InvalidValue ValueID = 0

// Value is an SSA value: an identity plus its type. Values are produced by
// exactly one instruction and never mutated.
type Value struct {
	ID   ValueID
	Type Type
}

// Valid reports whether v names a real value.
func (v Value) Valid() bool { return v.ID != InvalidValue }

// Func is a lowered kernel body: straight-line instructions in emission
// order.
type Func struct {
	Name string

	// MaxThreads is the launch bound recorded for the target
	// (warpSize * numWarps). Consumed by downstream metadata emission.
	MaxThreads int

	Params []Value
	Instrs []Instr

	nextID ValueID
}

// NewFunc returns an empty function.
func NewFunc(name string) *Func {
	return &Func{Name: name}
}

// AddParam appends a parameter of type t and returns its value.
func (f *Func) AddParam(t Type) Value {
	v := f.newValue(t)
	f.Params = append(f.Params, v)
	return v
}

func (f *Func) newValue(t Type) Value {
	f.nextID++
	return Value{ID: f.nextID, Type: t}
}

// BinKind enumerates the binary arithmetic operations lowering emits.
// Division and remainder are unsigned: every index is non-negative.
type BinKind int

const (
	OpAdd BinKind = iota
	OpMul
	OpUDiv
	OpURem
)

func (k BinKind) String() string {
	switch k {
	case OpAdd:
		return "add"
	case OpMul:
		return "mul"
	case OpUDiv:
		return "udiv"
	case OpURem:
		return "urem"
	}
	return "bin?"
}

// Instr is one emitted instruction. Instructions that produce a value
// report it through Result.
type Instr interface {
	Result() Value
}

// IConst materializes an integer constant of its result type.
type IConst struct {
	Val int64
	Res Value
}

func (i *IConst) Result() Value { return i.Res }

// BinOp is a two-operand arithmetic instruction.
type BinOp struct {
	Op   BinKind
	X, Y Value
	Res  Value
}

func (i *BinOp) Result() Value { return i.Res }

// Undef produces an uninitialized value of its result type, to be filled by
// InsertValue or InsertElement.
type Undef struct {
	Res Value
}

func (i *Undef) Result() Value { return i.Res }

// ExtractValue reads struct field Index.
type ExtractValue struct {
	Agg   Value
	Index int
	Res   Value
}

func (i *ExtractValue) Result() Value { return i.Res }

// InsertValue produces a copy of Agg with field Index replaced by Elem.
type InsertValue struct {
	Agg, Elem Value
	Index     int
	Res       Value
}

func (i *InsertValue) Result() Value { return i.Res }

// ExtractElement reads one lane of a vector at a dynamic index.
type ExtractElement struct {
	Vec, Index Value
	Res        Value
}

func (i *ExtractElement) Result() Value { return i.Res }

// InsertElement produces a copy of Vec with the lane at Index replaced.
type InsertElement struct {
	Vec, Elem, Index Value
	Res              Value
}

func (i *InsertElement) Result() Value { return i.Res }

// Bitcast reinterprets the bits of X as the result type. Source and result
// types must have equal total width.
type Bitcast struct {
	X   Value
	Res Value
}

func (i *Bitcast) Result() Value { return i.Res }

// ThreadID reads the flat hardware thread index of the executing thread.
type ThreadID struct {
	Res Value
}

func (i *ThreadID) Result() Value { return i.Res }

// InlineAsm is a raw target instruction sequence with explicit register
// constraints, in the target's inline-assembly syntax. Args bind to the
// input constraints in order; the result binds the output constraints,
// as a Struct when there is more than one output word.
type InlineAsm struct {
	Asm         string
	Constraints string
	Args        []Value
	SideEffects bool
	Res         Value
}

func (i *InlineAsm) Result() Value { return i.Res }
