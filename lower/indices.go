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
	"github.com/ajroetker/go-simt/simt"
)

// delinearize splits a runtime linear index into per-dimension coordinate
// values against compile-time radices, iterated in the given dimension
// order (order[0] fastest-varying). The result is indexed by the original
// dimension.
func delinearize(b *ir.Builder, linear ir.Value, shape, order []int) []ir.Value {
	rank := len(shape)
	if rank != len(order) {
		panic(fmt.Errorf("lower: order rank %d does not match shape rank %d", len(order), rank))
	}
	coords := make([]ir.Value, rank)
	remained := linear
	for i := 0; i < rank; i++ {
		d := order[i]
		size := b.Index(int64(shape[d]))
		coords[d] = b.URem(remained, size)
		if i != rank-1 {
			remained = b.UDiv(remained, size)
		}
	}
	return coords
}

// emitIndices enumerates, for the executing thread, the logical coordinate
// of every owned register slot, in canonical slot order.
//
// The per-slot offsets relative to the thread's tile base are compile-time
// constants; only the base depends on the runtime thread index. Slots of
// one contiguous per-thread tile come out adjacent, which the load rule
// relies on when grouping slots into vector transactions.
//
// Must agree slot for slot with simt.ThreadIndices.
func emitIndices(b *ir.Builder, layout simt.BlockedLayout, shape []int64) [][]ir.Value {
	rank := layout.Rank()
	if rank != len(shape) {
		panic(fmt.Errorf("lower: shape rank %d does not match layout rank %d", len(shape), rank))
	}

	threadID := b.ThreadID()
	warpSize := b.Index(simt.WarpSize)
	lane := b.URem(threadID, warpSize)
	warp := b.UDiv(threadID, warpSize)

	warpCoord := delinearize(b, warp, layout.WarpsPerCTA, layout.Order)
	laneCoord := delinearize(b, lane, layout.ThreadsPerWarp, layout.Order)

	// base[d] = (laneCoord[d] + warpCoord[d]*threadsPerWarp[d]) * sizePerThread[d]
	base := make([]ir.Value, rank)
	for d := 0; d < rank; d++ {
		threadsPerWarpD := b.Index(int64(layout.ThreadsPerWarp[d]))
		sizePerThreadD := b.Index(int64(layout.SizePerThread[d]))
		base[d] = b.Mul(sizePerThreadD,
			b.Add(laneCoord[d], b.Mul(warpCoord[d], threadsPerWarpD)))
	}

	repeats := layout.BlockRepeats(shape)
	tileTotal := layout.SizePerThreadTotal()
	elems := layout.ElemsPerThread(shape)

	indices := make([][]ir.Value, elems)
	for n := 0; n < elems; n++ {
		tileCoord := simt.MultiDimIndex(n/tileTotal, repeats)
		inTile := simt.MultiDimIndex(n%tileTotal, layout.SizePerThread)
		coord := make([]ir.Value, rank)
		for d := 0; d < rank; d++ {
			stride := layout.SizePerThread[d] * layout.ThreadsPerWarp[d] * layout.WarpsPerCTA[d]
			offset := tileCoord[d]*stride + inTile[d]
			coord[d] = b.Add(base[d], b.Index(int64(offset)))
		}
		indices[n] = coord
	}
	return indices
}
