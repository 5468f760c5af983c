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
	"errors"
	"fmt"

	"github.com/ajroetker/go-simt/ir"
	"github.com/ajroetker/go-simt/kernel"
	"github.com/ajroetker/go-simt/simt"
)

// rewriteFunc lowers one operation. It returns the replacement aggregate
// value (invalid for ops with no result), ErrNoMatch when the rule does
// not apply, or a failure the driver escalates.
type rewriteFunc func(rw *rewriter, op kernel.Op) (ir.Value, error)

// patterns is the dispatch table of rewrite rules, keyed by operation
// name.
func patterns() map[string]rewriteFunc {
	return map[string]rewriteFunc{
		"param":      lowerParam,
		"make_range": lowerMakeRange,
		"splat":      lowerSplat,
		"broadcast":  lowerBroadcast,
		"view":       lowerView,
		"load":       lowerLoad,
		"return":     lowerReturn,
	}
}

// rewriter holds the per-kernel lowering state: the builder appending to
// the replacement function and the mapping from source ops to their
// lowered aggregate values.
type rewriter struct {
	ctx     Context
	b       *ir.Builder
	lowered map[kernel.Op]ir.Value
}

// operand returns the lowered aggregate for a source operand. Operands are
// consumed in program order, so a missing entry means the input was not in
// topological order.
func (rw *rewriter) operand(op kernel.TensorOp) (ir.Value, error) {
	v, ok := rw.lowered[op]
	if !ok {
		return ir.Value{}, fmt.Errorf("operand %s was not lowered before its use", op.OpName())
	}
	return v, nil
}

// convertedStruct converts a tensor type and narrows to the aggregate form.
func convertedStruct(t kernel.TensorType) (ir.Struct, error) {
	ty, err := ConvertType(t)
	if err != nil {
		return ir.Struct{}, err
	}
	st, ok := ty.(ir.Struct)
	if !ok {
		return ir.Struct{}, fmt.Errorf("%w: %s does not convert to an aggregate", ErrUnsupported, t)
	}
	return st, nil
}

// LowerKernel lowers one kernel body to a target-level function.
func LowerKernel(ctx Context, k *kernel.Kernel) (*ir.Func, error) {
	fn := ir.NewFunc(k.Name)
	// Launch-bound metadata for downstream nvvm annotation.
	fn.MaxThreads = simt.WarpSize * ctx.NumWarps

	rw := &rewriter{
		ctx:     ctx,
		b:       ir.NewBuilder(fn),
		lowered: make(map[kernel.Op]ir.Value),
	}
	table := patterns()
	for _, op := range k.Ops {
		rule, ok := table[op.OpName()]
		if !ok {
			return nil, fmt.Errorf("lower %s: no rewrite rule registered", op.OpName())
		}
		v, err := rule(rw, op)
		if errors.Is(err, ErrNoMatch) {
			return nil, fmt.Errorf("lower %s: no rule matched: %w", op.OpName(), err)
		}
		if err != nil {
			return nil, fmt.Errorf("lower %s: %w", op.OpName(), err)
		}
		if v.Valid() {
			rw.lowered[op] = v
		}
	}
	return fn, nil
}

// LowerModule lowers every kernel in the module. Configuration errors and
// rule failures abort the pass.
func LowerModule(mod *kernel.Module) ([]*ir.Func, error) {
	ctx, err := NewContext(mod)
	if err != nil {
		return nil, err
	}
	fns := make([]*ir.Func, 0, len(mod.Kernels))
	for _, k := range mod.Kernels {
		fn, err := LowerKernel(ctx, k)
		if err != nil {
			return nil, fmt.Errorf("kernel %s: %w", k.Name, err)
		}
		fns = append(fns, fn)
	}
	return fns, nil
}
