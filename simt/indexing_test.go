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

import (
	"reflect"
	"testing"
)

func TestMultiDimIndex(t *testing.T) {
	tests := []struct {
		name   string
		linear int
		shape  []int
		want   []int
	}{
		{"rank1", 5, []int{8}, []int{5}},
		{"rank2", 5, []int{2, 4}, []int{1, 1}},
		{"rank3", 23, []int{2, 3, 4}, []int{1, 2, 3}},
		{"zero", 0, []int{4, 4}, []int{0, 0}},
		{"last", 15, []int{4, 4}, []int{3, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MultiDimIndex(tt.linear, tt.shape)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MultiDimIndex(%d, %v) = %v, want %v", tt.linear, tt.shape, got, tt.want)
			}
		})
	}
}

func TestLinearIndexRoundTrip(t *testing.T) {
	shapes := [][]int{
		{6},
		{2, 4},
		{3, 5, 7},
		{2, 2, 2, 2},
	}
	for _, shape := range shapes {
		total := 1
		for _, s := range shape {
			total *= s
		}
		for i := 0; i < total; i++ {
			coords := MultiDimIndex(i, shape)
			back := LinearIndex(coords, shape)
			if back != i {
				t.Errorf("shape %v: LinearIndex(MultiDimIndex(%d)) = %d", shape, i, back)
			}
			again := MultiDimIndex(back, shape)
			if !reflect.DeepEqual(again, coords) {
				t.Errorf("shape %v: round trip of coords %v gave %v", shape, coords, again)
			}
		}
	}
}

func TestLinearIndexRankMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on rank mismatch")
		}
	}()
	LinearIndex([]int{1, 2}, []int{4})
}

func TestMultiDimIndexOrdered(t *testing.T) {
	// order {1, 0}: dimension 1 varies fastest.
	shape := []int{2, 4}
	order := []int{1, 0}
	want := [][]int{
		{0, 0}, {0, 1}, {0, 2}, {0, 3},
		{1, 0}, {1, 1}, {1, 2}, {1, 3},
	}
	for linear, coords := range want {
		got := MultiDimIndexOrdered(linear, shape, order)
		if !reflect.DeepEqual(got, coords) {
			t.Errorf("MultiDimIndexOrdered(%d) = %v, want %v", linear, got, coords)
		}
	}

	// order {0, 1}: dimension 0 varies fastest.
	order = []int{0, 1}
	want = [][]int{
		{0, 0}, {1, 0},
		{0, 1}, {1, 1},
		{0, 2}, {1, 2},
		{0, 3}, {1, 3},
	}
	for linear, coords := range want {
		got := MultiDimIndexOrdered(linear, shape, order)
		if !reflect.DeepEqual(got, coords) {
			t.Errorf("MultiDimIndexOrdered(%d) = %v, want %v", linear, got, coords)
		}
	}
}

func TestMultiDimIndexOrderedBijective(t *testing.T) {
	shape := []int{3, 4, 5}
	order := []int{2, 0, 1}
	seen := make(map[[3]int]int)
	for linear := 0; linear < 60; linear++ {
		c := MultiDimIndexOrdered(linear, shape, order)
		key := [3]int{c[0], c[1], c[2]}
		if prev, dup := seen[key]; dup {
			t.Fatalf("coordinate %v produced by both %d and %d", c, prev, linear)
		}
		seen[key] = linear
		for d := range c {
			if c[d] < 0 || c[d] >= shape[d] {
				t.Fatalf("coordinate %v out of bounds for shape %v", c, shape)
			}
		}
	}
	if len(seen) != 60 {
		t.Errorf("got %d distinct coordinates, want 60", len(seen))
	}
}
