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

package simt

// ThreadIndices enumerates the logical coordinates owned by one thread, in
// canonical slot order. The result has ElemsPerThread entries of rank
// coordinates each.
//
// Slot order is chosen so that the SizePerThreadTotal slots of one
// contiguous per-thread tile are adjacent, which lets memory lowering group
// them into a single vector transaction without re-sorting.
//
// The same enumeration, expressed over runtime SSA values instead of a
// concrete threadID, is emitted by the lowering package; the two must agree
// slot for slot.
func ThreadIndices(layout BlockedLayout, shape []int64, threadID int) [][]int {
	rank := layout.Rank()
	lane := threadID % WarpSize
	warp := threadID / WarpSize

	warpCoord := MultiDimIndexOrdered(warp, layout.WarpsPerCTA, layout.Order)
	laneCoord := MultiDimIndexOrdered(lane, layout.ThreadsPerWarp, layout.Order)

	// First element of this thread's tile per dimension, before block repeats.
	base := make([]int, rank)
	for d := 0; d < rank; d++ {
		base[d] = (laneCoord[d] + warpCoord[d]*layout.ThreadsPerWarp[d]) * layout.SizePerThread[d]
	}

	repeats := layout.BlockRepeats(shape)
	tileTotal := layout.SizePerThreadTotal()
	elems := layout.ElemsPerThread(shape)

	indices := make([][]int, elems)
	for n := 0; n < elems; n++ {
		tileCoord := MultiDimIndex(n/tileTotal, repeats)
		inTile := MultiDimIndex(n%tileTotal, layout.SizePerThread)
		coord := make([]int, rank)
		for d := 0; d < rank; d++ {
			stride := layout.SizePerThread[d] * layout.ThreadsPerWarp[d] * layout.WarpsPerCTA[d]
			coord[d] = base[d] + tileCoord[d]*stride + inTile[d]
		}
		indices[n] = coord
	}
	return indices
}
