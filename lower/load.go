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
	"github.com/ajroetker/go-simt/ptx"
)

// TransactionPlan describes how one group of consecutive enumeration-order
// slots becomes a single hardware memory transaction.
//
// WordBits * NumWords covers ElemBits * VecWidth, with the word width
// bounded below by 32 bits and above by the total group width.
type TransactionPlan struct {
	VecWidth int // slots per transaction
	ElemBits int // bit width of one element
	WordBits int // bit width of one transaction word
	NumWords int // words per transaction
}

// PlanTransaction chooses word width and word count for a group of
// vecWidth elements of elemBits each.
func PlanTransaction(elemBits, vecWidth int) TransactionPlan {
	maxWord := max(32, elemBits)
	totalBits := elemBits * vecWidth
	wordBits := min(totalBits, maxWord)
	numWords := max(1, totalBits/wordBits)
	return TransactionPlan{
		VecWidth: vecWidth,
		ElemBits: elemBits,
		WordBits: wordBits,
		NumWords: numWords,
	}
}

// ElemsPerWord returns how many elements one transaction word carries.
func (p TransactionPlan) ElemsPerWord() int { return p.WordBits / p.ElemBits }

// loadQualifiers applies volatility, cache, and eviction hints to a load
// instruction. Hints the target cannot honor degrade to no hint.
func loadQualifiers(in *ptx.Instr, op *kernel.Load) {
	if op.IsVolatile {
		in.Volatile()
	}
	in.Global()
	switch op.Cache {
	case kernel.CacheCA:
		in.Qual("ca")
	case kernel.CacheCG:
		in.Qual("cg")
	}
	switch op.Evict {
	case kernel.EvictFirst:
		in.Qual("L1::evict_first")
	case kernel.EvictLast:
		in.Qual("L1::evict_last")
	}
}

// lowerLoad groups per-thread elements into vector transactions and emits
// one predicated load instruction per group.
//
// Grouping assumes consecutive enumeration-order slots along the
// fastest-varying dimension are contiguous in memory, which the index
// enumerator guarantees for a blocked layout. Masked-off slots must yield
// the fallback values; those are moved into the destination registers by
// conditional moves ahead of the load, so no branch is emitted and the
// warp never diverges.
func lowerLoad(rw *rewriter, op kernel.Op) (ir.Value, error) {
	ld, ok := op.(*kernel.Load)
	if !ok {
		return ir.Value{}, ErrNoMatch
	}
	resultTy := ld.Out
	layout, ok := resultTy.Blocked()
	if !ok {
		return ir.Value{}, fmt.Errorf("%w: load only accepts a blocked result layout, got %s",
			ErrUnsupported, resultTy.Layout.Kind())
	}

	elemTy := resultTy.Elem
	numElems := layout.ElemsPerThread(resultTy.Shape)
	vecWidth := layout.SizePerThread[layout.Order[0]]
	plan := PlanTransaction(ir.BitWidth(elemTy), vecWidth)

	ptrStruct, err := rw.operand(ld.Ptr)
	if err != nil {
		return ir.Value{}, err
	}
	maskStruct, err := rw.operand(ld.Mask)
	if err != nil {
		return ir.Value{}, err
	}
	otherStruct, err := rw.operand(ld.Other)
	if err != nil {
		return ir.Value{}, err
	}
	b := rw.b
	ptrVals := unpackValues(b, ptrStruct, numElems)
	maskVals := unpackValues(b, maskStruct, numElems)
	otherVals := unpackValues(b, otherStruct, numElems)

	// Fast path: a fallback that is one repeated integer constant becomes
	// an immediate instead of being threaded through registers. A non-splat
	// constant fallback takes the general register path below.
	otherSplat, otherIsSplatInt := splatIntFallback(ld.Other, elemTy)
	if otherIsSplatInt && plan.WordBits < 64 {
		// Truncate to the word width so a sign-extended value becomes the
		// word's two's-complement bit pattern.
		otherSplat &= int64(1)<<plan.WordBits - 1
	}

	wordTy := ir.Int{Bits: plan.WordBits}
	wordVecTy := ir.Vector{Elem: elemTy, N: plan.ElemsPerWord()}

	loadedVals := make([]ir.Value, 0, numElems)
	for i := 0; i < numElems; i += vecWidth {
		pred := maskVals[i]
		addr := ptrVals[i]

		// Operand numbering in the asm text: outputs $0..numWords-1, then
		// the predicate, the pointer, and any fallback words.
		predIdx := plan.NumWords
		ptrIdx := plan.NumWords + 1

		var block ptx.Block
		ldInstr := ptx.NewInstr("ld").Predicated(predIdx)
		loadQualifiers(ldInstr, ld)
		if plan.NumWords > 1 {
			ldInstr.Vec(plan.NumWords)
		}
		ldInstr.B(plan.WordBits)
		resultRegs := make([]string, plan.NumWords)
		for w := 0; w < plan.NumWords; w++ {
			resultRegs[w] = ptx.Reg(w)
		}
		ldInstr.ResultGroup(resultRegs...)
		ldInstr.Operand(ptx.Addr(ptx.Reg(ptrIdx), 0))
		block.Add(ldInstr)

		// One conditional move per word seeds the destination registers
		// with the fallback values for masked-off threads.
		var others []ir.Value
		elemsPerWord := plan.ElemsPerWord()
		for w := 0; w < plan.NumWords; w++ {
			mov := ptx.NewInstr("mov").PredicatedNot(predIdx).U(plan.WordBits)
			mov.Operand(ptx.Reg(w))
			if otherIsSplatInt {
				mov.Operand(ptx.Imm(otherSplat))
			} else {
				fallback := b.Undef(wordVecTy)
				for s := 0; s < elemsPerWord; s++ {
					fallback = b.InsertElement(fallback, otherVals[i+w*elemsPerWord+s], b.Index(int64(s)))
				}
				mov.Operand(ptx.Reg(ptrIdx + 1 + len(others)))
				others = append(others, b.Bitcast(fallback, wordTy))
			}
			block.Add(mov)
		}

		var retTy ir.Type = wordTy
		if plan.NumWords > 1 {
			retTy = ir.NewStruct(wordTy, plan.NumWords)
		}
		var cons ptx.Constraints
		for w := 0; w < plan.NumWords; w++ {
			cons.Output(plan.WordBits)
		}
		cons.Pred().Ptr()
		for range others {
			cons.Input(plan.WordBits)
		}

		args := append([]ir.Value{pred, addr}, others...)
		ret := b.InlineAsm(block.String(), cons.String(), retTy, true, args...)

		// Split the returned words back into element vectors and scatter
		// them into the flat result list in the group's slot order.
		words := make([]ir.Value, plan.NumWords)
		for w := 0; w < plan.NumWords; w++ {
			word := ret
			if plan.NumWords > 1 {
				word = b.ExtractValue(ret, w)
			}
			words[w] = b.Bitcast(word, wordVecTy)
		}
		for s := 0; s < vecWidth; s++ {
			lane := b.Index(int64(s % elemsPerWord))
			loadedVals = append(loadedVals, b.ExtractElement(words[s/elemsPerWord], lane))
		}
	}

	st, err := convertedStruct(resultTy)
	if err != nil {
		return ir.Value{}, err
	}
	return packValues(b, loadedVals, st), nil
}

// splatIntFallback recognizes a fallback operand defined as a repeated
// integer constant.
func splatIntFallback(other kernel.TensorOp, elemTy ir.Type) (int64, bool) {
	if _, ok := elemTy.(ir.Int); !ok {
		return 0, false
	}
	sp, ok := other.(*kernel.Splat)
	if !ok {
		return 0, false
	}
	return sp.Value, true
}
