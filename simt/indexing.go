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

import "fmt"

// Integer covers the index types the mixed-radix helpers operate on.
type Integer interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64
}

// MultiDimIndex decomposes a linear index into per-dimension coordinates
// under shape, dimension 0 varying slowest (row-major).
func MultiDimIndex[T Integer](linear T, shape []T) []T {
	rank := len(shape)
	stride := T(1)
	for i := 1; i < rank; i++ {
		stride *= shape[i]
	}
	coords := make([]T, rank)
	remain := linear
	for i := 0; i < rank; i++ {
		coords[i] = remain / stride
		remain = remain % stride
		if i != rank-1 {
			stride /= shape[i+1]
		}
	}
	return coords
}

// LinearIndex is the exact inverse of MultiDimIndex:
// sum(coords[d] * stride[d]) with stride[d] = prod(shape[d+1:]).
func LinearIndex[T Integer](coords, shape []T) T {
	if len(coords) != len(shape) {
		panic(fmt.Errorf("simt: coordinate rank %d does not match shape rank %d", len(coords), len(shape)))
	}
	rank := len(shape)
	stride := T(1)
	for i := 1; i < rank; i++ {
		stride *= shape[i]
	}
	var linear T
	for i := 0; i < rank; i++ {
		linear += coords[i] * stride
		if i != rank-1 {
			stride /= shape[i+1]
		}
	}
	return linear
}

// MultiDimIndexOrdered decomposes linear against shape iterated in the given
// dimension order (order[0] fastest-varying). The result is indexed by the
// original dimension: result[order[i]] is the i-th fastest coordinate.
func MultiDimIndexOrdered[T Integer](linear T, shape []T, order []int) []T {
	rank := len(shape)
	if rank != len(order) {
		panic(fmt.Errorf("simt: order rank %d does not match shape rank %d", len(order), rank))
	}
	// Reorder so the fastest-varying dimension becomes the innermost
	// (last) radix of the row-major decomposition.
	reordered := make([]T, rank)
	for i := 0; i < rank; i++ {
		reordered[rank-1-i] = shape[order[i]]
	}
	decomposed := MultiDimIndex(linear, reordered)
	coords := make([]T, rank)
	for i := 0; i < rank; i++ {
		coords[order[i]] = decomposed[rank-1-i]
	}
	return coords
}
