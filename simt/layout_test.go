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

func TestElemsPerThread(t *testing.T) {
	tests := []struct {
		name   string
		layout BlockedLayout
		shape  []int64
		want   int
	}{
		{
			name: "1d single warp",
			layout: BlockedLayout{
				SizePerThread:  []int{4},
				ThreadsPerWarp: []int{8},
				WarpsPerCTA:    []int{1},
				Order:          []int{0},
			},
			shape: []int64{32},
			want:  4,
		},
		{
			name: "2d",
			layout: BlockedLayout{
				SizePerThread:  []int{2, 2},
				ThreadsPerWarp: []int{4, 8},
				WarpsPerCTA:    []int{2, 1},
				Order:          []int{1, 0},
			},
			shape: []int64{16, 16},
			want:  4, // (16/8) * (16/8)
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.layout.ElemsPerThread(tt.shape); got != tt.want {
				t.Errorf("ElemsPerThread = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBlockRepeats(t *testing.T) {
	layout := BlockedLayout{
		SizePerThread:  []int{2, 2},
		ThreadsPerWarp: []int{4, 8},
		WarpsPerCTA:    []int{2, 1},
		Order:          []int{1, 0},
	}
	got := layout.BlockRepeats([]int64{32, 32})
	want := []int{2, 2} // 32/(2*4*2), 32/(2*8*1)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BlockRepeats = %v, want %v", got, want)
	}
}

func TestElemsPerThreadUnevenPanics(t *testing.T) {
	layout := BlockedLayout{
		SizePerThread:  []int{1},
		ThreadsPerWarp: []int{8},
		WarpsPerCTA:    []int{1},
		Order:          []int{0},
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for shape not divisible by layout tiling")
		}
	}()
	layout.ElemsPerThread([]int64{12})
}

func TestLayoutKinds(t *testing.T) {
	var l Layout = BlockedLayout{}
	if l.Kind() != KindBlocked {
		t.Errorf("BlockedLayout.Kind = %v", l.Kind())
	}
	l = MmaLayout{Version: 2}
	if l.Kind() != KindMma {
		t.Errorf("MmaLayout.Kind = %v", l.Kind())
	}
	l = SharedLayout{}
	if l.Kind() != KindShared {
		t.Errorf("SharedLayout.Kind = %v", l.Kind())
	}
	if KindBlocked.String() != "blocked" || KindMma.String() != "mma" || KindShared.String() != "shared" {
		t.Error("LayoutKind string names changed")
	}
}
