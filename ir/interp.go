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

// Datum is a concrete runtime value during interpretation: a scalar integer
// or an aggregate (struct fields or vector lanes).
type Datum struct {
	Int   int64
	Elems []Datum
	Agg   bool
}

func scalar(v int64) Datum { return Datum{Int: v} }

// Interp evaluates the arithmetic and aggregate subset of a lowered
// function for one concrete thread. It exists so tests can check that
// emitted index expressions agree with the closed-form enumeration for
// every thread.
//
// Inline assembly and bit casts touch target state and are not
// interpretable; reaching one is an error.
type Interp struct {
	vals map[ValueID]Datum
}

// Eval interprets fn for the given flat thread index. Parameters are
// seeded with zero values of their type.
func Eval(fn *Func, threadID int64) (*Interp, error) {
	return EvalParams(fn, threadID, nil)
}

// EvalParams interprets fn with the given parameter data, positionally.
// Parameters beyond len(params) are seeded with zero values.
func EvalParams(fn *Func, threadID int64, params []Datum) (*Interp, error) {
	it := &Interp{vals: make(map[ValueID]Datum, len(fn.Instrs))}
	for i, p := range fn.Params {
		if i < len(params) {
			it.vals[p.ID] = params[i]
		} else {
			it.vals[p.ID] = undefDatum(p.Type)
		}
	}
	for _, in := range fn.Instrs {
		d, err := it.step(in, threadID)
		if err != nil {
			return nil, err
		}
		it.vals[in.Result().ID] = d
	}
	return it, nil
}

// Value returns the evaluated datum for v.
func (it *Interp) Value(v Value) (Datum, bool) {
	d, ok := it.vals[v.ID]
	return d, ok
}

// Scalar returns the evaluated integer for a scalar value v.
func (it *Interp) Scalar(v Value) (int64, error) {
	d, ok := it.vals[v.ID]
	if !ok {
		return 0, fmt.Errorf("ir: value %d was never defined", v.ID)
	}
	if d.Agg {
		return 0, fmt.Errorf("ir: value %d is an aggregate, not a scalar", v.ID)
	}
	return d.Int, nil
}

func (it *Interp) get(v Value) (Datum, error) {
	d, ok := it.vals[v.ID]
	if !ok {
		return Datum{}, fmt.Errorf("ir: operand %d used before definition", v.ID)
	}
	return d, nil
}

func (it *Interp) step(in Instr, threadID int64) (Datum, error) {
	switch in := in.(type) {
	case *IConst:
		return scalar(in.Val), nil

	case *ThreadID:
		return scalar(threadID), nil

	case *BinOp:
		x, err := it.get(in.X)
		if err != nil {
			return Datum{}, err
		}
		y, err := it.get(in.Y)
		if err != nil {
			return Datum{}, err
		}
		switch in.Op {
		case OpAdd:
			return scalar(x.Int + y.Int), nil
		case OpMul:
			return scalar(x.Int * y.Int), nil
		case OpUDiv:
			if y.Int == 0 {
				return Datum{}, fmt.Errorf("ir: division by zero")
			}
			return scalar(int64(uint64(x.Int) / uint64(y.Int))), nil
		case OpURem:
			if y.Int == 0 {
				return Datum{}, fmt.Errorf("ir: remainder by zero")
			}
			return scalar(int64(uint64(x.Int) % uint64(y.Int))), nil
		}
		return Datum{}, fmt.Errorf("ir: unknown binary op %v", in.Op)

	case *Undef:
		return undefDatum(in.Res.Type), nil

	case *ExtractValue:
		agg, err := it.get(in.Agg)
		if err != nil {
			return Datum{}, err
		}
		if !agg.Agg || in.Index >= len(agg.Elems) {
			return Datum{}, fmt.Errorf("ir: ExtractValue index %d out of range", in.Index)
		}
		return agg.Elems[in.Index], nil

	case *InsertValue:
		agg, err := it.get(in.Agg)
		if err != nil {
			return Datum{}, err
		}
		elem, err := it.get(in.Elem)
		if err != nil {
			return Datum{}, err
		}
		if !agg.Agg || in.Index >= len(agg.Elems) {
			return Datum{}, fmt.Errorf("ir: InsertValue index %d out of range", in.Index)
		}
		out := Datum{Agg: true, Elems: make([]Datum, len(agg.Elems))}
		copy(out.Elems, agg.Elems)
		out.Elems[in.Index] = elem
		return out, nil

	case *ExtractElement:
		vec, err := it.get(in.Vec)
		if err != nil {
			return Datum{}, err
		}
		idx, err := it.get(in.Index)
		if err != nil {
			return Datum{}, err
		}
		if !vec.Agg || idx.Int < 0 || idx.Int >= int64(len(vec.Elems)) {
			return Datum{}, fmt.Errorf("ir: ExtractElement index %d out of range", idx.Int)
		}
		return vec.Elems[idx.Int], nil

	case *InsertElement:
		vec, err := it.get(in.Vec)
		if err != nil {
			return Datum{}, err
		}
		elem, err := it.get(in.Elem)
		if err != nil {
			return Datum{}, err
		}
		idx, err := it.get(in.Index)
		if err != nil {
			return Datum{}, err
		}
		if !vec.Agg || idx.Int < 0 || idx.Int >= int64(len(vec.Elems)) {
			return Datum{}, fmt.Errorf("ir: InsertElement index %d out of range", idx.Int)
		}
		out := Datum{Agg: true, Elems: make([]Datum, len(vec.Elems))}
		copy(out.Elems, vec.Elems)
		out.Elems[idx.Int] = elem
		return out, nil

	case *Bitcast:
		return Datum{}, fmt.Errorf("ir: bitcast is not interpretable")

	case *InlineAsm:
		return Datum{}, fmt.Errorf("ir: inline asm is not interpretable")
	}
	return Datum{}, fmt.Errorf("ir: unknown instruction %T", in)
}

func undefDatum(t Type) Datum {
	switch t := t.(type) {
	case Vector:
		return Datum{Agg: true, Elems: make([]Datum, t.N)}
	case Struct:
		return Datum{Agg: true, Elems: make([]Datum, len(t.Fields))}
	}
	return Datum{}
}
