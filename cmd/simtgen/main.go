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

// simtgen inspects blocked-layout lowering: it prints per-thread element
// ownership tables and the lowered instruction stream for a demo kernel.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ajroetker/go-simt/ir"
	"github.com/ajroetker/go-simt/kernel"
	"github.com/ajroetker/go-simt/lower"
	"github.com/ajroetker/go-simt/simt"
)

type layoutFlags struct {
	shape          []int64
	sizePerThread  []int
	threadsPerWarp []int
	warpsPerCTA    []int
	order          []int
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64SliceVar(&f.shape, "shape", []int64{32}, "tensor shape, comma separated")
	cmd.Flags().IntSliceVar(&f.sizePerThread, "size-per-thread", []int{1}, "contiguous elements per thread, per dimension")
	cmd.Flags().IntSliceVar(&f.threadsPerWarp, "threads-per-warp", []int{32}, "lanes per warp, per dimension")
	cmd.Flags().IntSliceVar(&f.warpsPerCTA, "warps-per-cta", []int{1}, "warps per thread block, per dimension")
	cmd.Flags().IntSliceVar(&f.order, "order", []int{0}, "dimension iteration order, fastest first")
}

func (f *layoutFlags) layout() (simt.BlockedLayout, error) {
	l := simt.BlockedLayout{
		SizePerThread:  f.sizePerThread,
		ThreadsPerWarp: f.threadsPerWarp,
		WarpsPerCTA:    f.warpsPerCTA,
		Order:          f.order,
	}
	rank := len(f.shape)
	if l.Rank() != rank || len(l.ThreadsPerWarp) != rank || len(l.WarpsPerCTA) != rank || len(l.Order) != rank {
		return simt.BlockedLayout{}, fmt.Errorf("layout parameter ranks do not all match shape rank %d", rank)
	}
	return l, nil
}

func newIndicesCmd() *cobra.Command {
	var flags layoutFlags
	var thread int
	cmd := &cobra.Command{
		Use:   "indices",
		Short: "Print the logical coordinates each thread owns",
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := flags.layout()
			if err != nil {
				return err
			}
			threads := layout.NumThreads()
			first, last := 0, threads
			if thread >= 0 {
				first, last = thread, thread+1
			}
			for t := first; t < last; t++ {
				fmt.Printf("thread %d:", t)
				for _, coord := range simt.ThreadIndices(layout, flags.shape, t) {
					fmt.Printf(" %v", coord)
				}
				fmt.Println()
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&thread, "thread", -1, "print only this thread (default: all)")
	return cmd
}

func newLowerCmd() *cobra.Command {
	var flags layoutFlags
	var elemBits, numWarps int
	var cache, evict string
	var volatile bool
	caser := cases.Title(language.English)
	cmd := &cobra.Command{
		Use:   "lower",
		Short: "Lower a demo masked-load kernel and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := flags.layout()
			if err != nil {
				return err
			}
			elemTy := ir.Float{Bits: elemBits}
			tensor := func(elem ir.Type) kernel.TensorType {
				return kernel.TensorType{Shape: flags.shape, Elem: elem, Layout: layout}
			}
			ptr := &kernel.Param{Name: "ptr", Out: tensor(ir.Ptr{Elem: elemTy, AddrSpace: 1})}
			mask := &kernel.Param{Name: "mask", Out: tensor(ir.Bool)}
			other := &kernel.Param{Name: "other", Out: tensor(elemTy)}
			ld := &kernel.Load{
				Ptr: ptr, Mask: mask, Other: other,
				Cache:      parseCache(cache),
				Evict:      parseEvict(evict),
				IsVolatile: volatile,
				Out:        tensor(elemTy),
			}
			mod := kernel.NewModule(numWarps)
			mod.Kernels = append(mod.Kernels, &kernel.Kernel{
				Name: "demo_load",
				Ops:  []kernel.Op{ptr, mask, other, ld, &kernel.Return{}},
			})

			fns, err := lower.LowerModule(mod)
			if err != nil {
				return err
			}
			vecWidth := layout.SizePerThread[layout.Order[0]]
			plan := lower.PlanTransaction(elemBits, vecWidth)
			fmt.Printf("%s Policy: %d x b%d words per transaction, %d slots\n",
				caser.String(fmt.Sprintf("cache %s, evict %s", parseCache(cache), parseEvict(evict))),
				plan.NumWords, plan.WordBits, plan.VecWidth)
			for _, fn := range fns {
				fmt.Print(fn)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&elemBits, "elem-bits", 32, "element width in bits")
	cmd.Flags().IntVar(&numWarps, "num-warps", 1, "warps per thread block")
	cmd.Flags().StringVar(&cache, "cache", "none", "cache hint: none, ca, cg")
	cmd.Flags().StringVar(&evict, "evict", "normal", "eviction hint: normal, evict_first, evict_last")
	cmd.Flags().BoolVar(&volatile, "volatile", false, "emit a volatile load")
	return cmd
}

func parseCache(s string) kernel.CacheModifier {
	switch s {
	case "ca":
		return kernel.CacheCA
	case "cg":
		return kernel.CacheCG
	}
	return kernel.CacheNone
}

func parseEvict(s string) kernel.EvictionPolicy {
	switch s {
	case "evict_first":
		return kernel.EvictFirst
	case "evict_last":
		return kernel.EvictLast
	}
	return kernel.EvictNormal
}

func main() {
	root := &cobra.Command{
		Use:           "simtgen",
		Short:         "Blocked-layout lowering inspector",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newIndicesCmd(), newLowerCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
