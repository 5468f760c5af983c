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
	"github.com/ajroetker/go-simt/kernel"
	"github.com/ajroetker/go-simt/simt"
)

// lowerParam binds a tensor-typed kernel argument to a function parameter
// of its converted aggregate form.
func lowerParam(rw *rewriter, op kernel.Op) (ir.Value, error) {
	p, ok := op.(*kernel.Param)
	if !ok {
		return ir.Value{}, ErrNoMatch
	}
	ty, err := ConvertType(p.Out)
	if err != nil {
		return ir.Value{}, err
	}
	return rw.b.Func().AddParam(ty), nil
}

// lowerMakeRange materializes an arithmetic sequence directly into the
// thread's registers: each owned slot's 1-D coordinate plus the range
// start.
func lowerMakeRange(rw *rewriter, op kernel.Op) (ir.Value, error) {
	mr, ok := op.(*kernel.MakeRange)
	if !ok {
		return ir.Value{}, ErrNoMatch
	}
	layout, ok := mr.Out.Blocked()
	if !ok {
		return ir.Value{}, fmt.Errorf("%w: %s layout on make_range result", ErrUnsupported, mr.Out.Layout.Kind())
	}
	elemTy, ok := mr.Out.Elem.(ir.Int)
	if !ok || elemTy.Bits != 32 {
		// No widening or narrowing is performed; an earlier stage produced
		// an invalid type.
		panic(fmt.Errorf("lower: make_range element type %s, want i32", mr.Out.Elem))
	}

	start := rw.b.IConst(elemTy, int64(mr.Start))
	idxs := emitIndices(rw.b, layout, mr.Out.Shape)
	retVals := make([]ir.Value, len(idxs))
	for n, coord := range idxs {
		if len(coord) != 1 {
			panic(fmt.Errorf("lower: make_range enumerated rank-%d coordinate", len(coord)))
		}
		retVals[n] = rw.b.Add(coord[0], start)
	}
	st, err := convertedStruct(mr.Out)
	if err != nil {
		return ir.Value{}, err
	}
	return packValues(rw.b, retVals, st), nil
}

// lowerSplat packs one repeated integer constant into every owned slot.
func lowerSplat(rw *rewriter, op kernel.Op) (ir.Value, error) {
	sp, ok := op.(*kernel.Splat)
	if !ok {
		return ir.Value{}, ErrNoMatch
	}
	if _, ok := sp.Out.Blocked(); !ok {
		return ir.Value{}, fmt.Errorf("%w: %s layout on splat result", ErrUnsupported, sp.Out.Layout.Kind())
	}
	elemTy, ok := sp.Out.Elem.(ir.Int)
	if !ok {
		return ir.Value{}, fmt.Errorf("%w: splat of non-integer element type %s", ErrUnsupported, sp.Out.Elem)
	}
	st, err := convertedStruct(sp.Out)
	if err != nil {
		return ir.Value{}, err
	}
	vals := make([]ir.Value, len(st.Fields))
	for i := range vals {
		vals[i] = rw.b.IConst(elemTy, sp.Value)
	}
	return packValues(rw.b, vals, st), nil
}

// lowerView re-marshals the source elements into the result aggregate. The
// element list is unchanged; only the aggregate type differs.
func lowerView(rw *rewriter, op kernel.Op) (ir.Value, error) {
	vw, ok := op.(*kernel.View)
	if !ok {
		return ir.Value{}, ErrNoMatch
	}
	layout, ok := vw.Out.Blocked()
	if !ok {
		return ir.Value{}, fmt.Errorf("%w: %s layout on view result", ErrUnsupported, vw.Out.Layout.Kind())
	}
	src, err := rw.operand(vw.Src)
	if err != nil {
		return ir.Value{}, err
	}
	elems := layout.ElemsPerThread(vw.Out.Shape)
	st, err := convertedStruct(vw.Out)
	if err != nil {
		return ir.Value{}, err
	}
	vals := unpackValues(rw.b, src, elems)
	return packValues(rw.b, vals, st), nil
}

// lowerReturn handles kernel termination. Kernels return nothing; a
// value-returning terminator is reported, never silently dropped.
func lowerReturn(rw *rewriter, op kernel.Op) (ir.Value, error) {
	ret, ok := op.(*kernel.Return)
	if !ok {
		return ir.Value{}, ErrNoMatch
	}
	if len(ret.Operands) > 0 {
		return ir.Value{}, fmt.Errorf("%w: kernel returns %d operands, only empty return is supported",
			ErrUnsupported, len(ret.Operands))
	}
	return ir.Value{}, nil
}

// lowerBroadcast replicates elements along the source's size-1 dimensions
// to the result shape.
//
// Both shapes are expressed in a doubled "logical" form
// [repeats_0..repeats_{R-1}, tile_0..tile_{R-1}] so that linear-index
// arithmetic over it yields the fan-out directly: each source slot is
// scattered to every result slot whose coordinate agrees on non-broadcast
// dimensions and ranges over the broadcast ones.
func lowerBroadcast(rw *rewriter, op kernel.Op) (ir.Value, error) {
	bc, ok := op.(*kernel.Broadcast)
	if !ok {
		return ir.Value{}, ErrNoMatch
	}
	srcTy := bc.Src.ResultType()
	resultTy := bc.Out
	srcLayout, srcOK := srcTy.Blocked()
	resultLayout, resOK := resultTy.Blocked()
	if !srcOK || !resOK {
		return ir.Value{}, fmt.Errorf("%w: broadcast requires blocked layouts", ErrUnsupported)
	}
	if !srcTy.SameLayout(resultTy) {
		return ir.Value{}, fmt.Errorf("%w: broadcast source and result layouts differ", ErrUnsupported)
	}
	rank := srcTy.Rank()
	if rank != resultTy.Rank() {
		return ir.Value{}, fmt.Errorf("%w: broadcast source rank %d, result rank %d", ErrUnsupported, rank, resultTy.Rank())
	}

	srcShape := srcTy.Shape
	resultShape := resultTy.Shape
	srcLogical := make([]int64, 2*rank)
	resultLogical := make([]int64, 2*rank)
	var broadcastDims []int
	var broadcastSizes []int64
	duplicates := int64(1)
	for d := 0; d < rank; d++ {
		stride := int64(resultLayout.SizePerThread[d] * resultLayout.ThreadsPerWarp[d] * resultLayout.WarpsPerCTA[d])
		if resultShape[d]%stride != 0 {
			panic(fmt.Errorf("lower: broadcast result extent %d not divisible by layout tiling %d", resultShape[d], stride))
		}
		repeats := resultShape[d] / stride
		if srcShape[d] != resultShape[d] {
			if srcShape[d] != 1 {
				panic(fmt.Errorf("lower: broadcast dimension %d has source extent %d, want 1", d, srcShape[d]))
			}
			broadcastDims = append(broadcastDims, d)
			broadcastSizes = append(broadcastSizes, repeats*int64(resultLayout.SizePerThread[d]))
			srcLogical[d] = 1
			srcLogical[d+rank] = 1
			duplicates *= repeats * int64(resultLayout.SizePerThread[d])
		} else {
			srcLogical[d] = repeats
			srcLogical[d+rank] = int64(resultLayout.SizePerThread[d])
		}
		resultLogical[d] = repeats
		resultLogical[d+rank] = int64(resultLayout.SizePerThread[d])
	}

	src, err := rw.operand(bc.Src)
	if err != nil {
		return ir.Value{}, err
	}
	srcElems := srcLayout.ElemsPerThread(srcShape)
	srcVals := unpackValues(rw.b, src, srcElems)
	resultElems := resultLayout.ElemsPerThread(resultShape)
	resultVals := make([]ir.Value, resultElems)
	for i := 0; i < srcElems; i++ {
		srcMulti := simt.MultiDimIndex(int64(i), srcLogical)
		for j := int64(0); j < duplicates; j++ {
			resultMulti := make([]int64, len(srcMulti))
			copy(resultMulti, srcMulti)
			bcastMulti := simt.MultiDimIndex(j, broadcastSizes)
			for bi, d := range broadcastDims {
				// The doubled form splits each broadcast coordinate into
				// its repeat part and its in-tile part.
				tile := int64(resultLayout.SizePerThread[d])
				resultMulti[d] = bcastMulti[bi] / tile
				resultMulti[d+rank] = bcastMulti[bi] % tile
			}
			linear := simt.LinearIndex(resultMulti, resultLogical)
			resultVals[linear] = srcVals[i]
		}
	}
	st, err := convertedStruct(resultTy)
	if err != nil {
		return ir.Value{}, err
	}
	return packValues(rw.b, resultVals, st), nil
}
