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

// Package simt describes how tensor values are distributed across a SIMT
// execution hierarchy (thread blocks, warps, threads) and provides the
// index arithmetic the lowering rules are built on.
//
// All layout parameters are compile-time constants: a Layout is an attribute
// of a tensor type, never runtime state. Shapes must divide evenly by the
// layout's tiling; uneven division is an invariant violation and panics.
package simt

import "fmt"

// WarpSize is the number of threads executing in lockstep. Fixed hardware
// constant for all supported targets.
const WarpSize = 32

// LayoutKind discriminates the layout variants a tensor type may carry.
type LayoutKind int

const (
	// KindBlocked is the register-tile layout: elements are distributed
	// round-robin across warps and lanes, sizePerThread contiguous elements
	// at a time per dimension.
	KindBlocked LayoutKind = iota
	// KindMma is the matrix-accumulator layout produced by tensor-core
	// operations. Recognized but not lowered.
	KindMma
	// KindShared is the shared-memory layout. Recognized but not lowered.
	KindShared
)

func (k LayoutKind) String() string {
	switch k {
	case KindBlocked:
		return "blocked"
	case KindMma:
		return "mma"
	case KindShared:
		return "shared"
	}
	return fmt.Sprintf("LayoutKind(%d)", int(k))
}

// Layout is the closed set of distribution schemes a tensor type can carry.
// Lowering rules check Kind explicitly and report unsupported kinds instead
// of type-asserting.
type Layout interface {
	Kind() LayoutKind
}

// BlockedLayout describes the register-tile distribution of a tensor.
// Per dimension d: SizePerThread[d] elements are owned contiguously by one
// thread, ThreadsPerWarp[d] lanes and WarpsPerCTA[d] warps replicate that
// tile, and Order lists dimensions fastest-varying first.
//
// A BlockedLayout is immutable once constructed.
type BlockedLayout struct {
	SizePerThread  []int
	ThreadsPerWarp []int
	WarpsPerCTA    []int
	Order          []int
}

func (BlockedLayout) Kind() LayoutKind { return KindBlocked }

// Rank returns the number of dimensions the layout describes.
func (l BlockedLayout) Rank() int { return len(l.SizePerThread) }

// ElemsPerThread returns how many elements of a tensor with the given shape
// one thread owns: prod(shape[d] / (threadsPerWarp[d] * warpsPerCTA[d])).
func (l BlockedLayout) ElemsPerThread(shape []int64) int {
	if len(shape) != l.Rank() {
		panic(fmt.Errorf("simt: shape rank %d does not match layout rank %d", len(shape), l.Rank()))
	}
	elems := 1
	for d := range shape {
		elems *= evenDiv(int(shape[d]), l.ThreadsPerWarp[d]*l.WarpsPerCTA[d])
	}
	return elems
}

// BlockRepeats returns, per dimension, how many times the full
// thread-hierarchy tile repeats to cover the shape:
// shape[d] / (sizePerThread[d] * threadsPerWarp[d] * warpsPerCTA[d]).
// This is the outer radix of the slot enumeration.
func (l BlockedLayout) BlockRepeats(shape []int64) []int {
	if len(shape) != l.Rank() {
		panic(fmt.Errorf("simt: shape rank %d does not match layout rank %d", len(shape), l.Rank()))
	}
	repeats := make([]int, len(shape))
	for d := range shape {
		repeats[d] = evenDiv(int(shape[d]), l.SizePerThread[d]*l.ThreadsPerWarp[d]*l.WarpsPerCTA[d])
	}
	return repeats
}

// SizePerThreadTotal returns prod(SizePerThread), the number of slots in one
// contiguous per-thread tile.
func (l BlockedLayout) SizePerThreadTotal() int {
	total := 1
	for _, s := range l.SizePerThread {
		total *= s
	}
	return total
}

// NumThreads returns the number of threads the layout spans per CTA.
func (l BlockedLayout) NumThreads() int {
	n := 1
	for d := range l.ThreadsPerWarp {
		n *= l.ThreadsPerWarp[d] * l.WarpsPerCTA[d]
	}
	return n
}

// MmaLayout marks a tensor as living in matrix-accumulator registers.
// Lowering it is unimplemented; type conversion must report unsupported.
type MmaLayout struct {
	Version int
}

func (MmaLayout) Kind() LayoutKind { return KindMma }

// SharedLayout marks a tensor as living in shared memory.
// Lowering it is unimplemented; type conversion must report unsupported.
type SharedLayout struct {
	Vec, PerPhase, MaxPhase int
	Order                   []int
}

func (SharedLayout) Kind() LayoutKind { return KindShared }

// evenDiv divides a by b and panics on a non-zero remainder. Shapes that do
// not divide by the layout tiling indicate an invalid type from an earlier
// stage.
func evenDiv(a, b int) int {
	if b == 0 || a%b != 0 {
		panic(fmt.Errorf("simt: %d is not evenly divisible by %d", a, b))
	}
	return a / b
}
