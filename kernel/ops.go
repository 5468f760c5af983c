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

package kernel

// Op is one source-level operation. Ops form a DAG through their operand
// references; a kernel body lists them in program order.
type Op interface {
	// OpName is the printable operation name.
	OpName() string
}

// TensorOp is an op producing one tensor-typed result.
type TensorOp interface {
	Op
	ResultType() TensorType
}

// CacheModifier is the L1 cache hint on a memory access. Unsupported
// values degrade to CacheNone rather than faulting.
type CacheModifier int

const (
	CacheNone CacheModifier = iota
	CacheCA                 // cache at all levels
	CacheCG                 // cache at global level
)

func (c CacheModifier) String() string {
	switch c {
	case CacheCA:
		return "ca"
	case CacheCG:
		return "cg"
	}
	return "none"
}

// EvictionPolicy is the L1 eviction hint on a memory access. Unsupported
// values degrade to EvictNormal rather than faulting.
type EvictionPolicy int

const (
	EvictNormal EvictionPolicy = iota
	EvictFirst
	EvictLast
)

func (e EvictionPolicy) String() string {
	switch e {
	case EvictFirst:
		return "evict_first"
	case EvictLast:
		return "evict_last"
	}
	return "normal"
}

// Param is a tensor-typed kernel argument. It lowers to a function
// parameter carrying the tensor's aggregate form.
type Param struct {
	Name string
	Out  TensorType
}

func (*Param) OpName() string            { return "param" }
func (op *Param) ResultType() TensorType { return op.Out }

// MakeRange materializes the arithmetic sequence [Start, End) as a rank-1
// tensor. The element type must be a 32-bit integer.
type MakeRange struct {
	Start, End int32
	Out        TensorType
}

func (*MakeRange) OpName() string            { return "make_range" }
func (op *MakeRange) ResultType() TensorType { return op.Out }

// Splat materializes a tensor whose elements all equal one integer
// constant. Loads recognize a Splat fallback operand and inline the
// constant as an immediate.
type Splat struct {
	Value int64
	Out   TensorType
}

func (*Splat) OpName() string            { return "splat" }
func (op *Splat) ResultType() TensorType { return op.Out }

// Broadcast replicates Src along its size-1 dimensions to the result
// shape. Source and result must carry the same layout and rank.
type Broadcast struct {
	Src TensorOp
	Out TensorType
}

func (*Broadcast) OpName() string            { return "broadcast" }
func (op *Broadcast) ResultType() TensorType { return op.Out }

// View reinterprets Src with a new shape. Element count is preserved; the
// lowering is purely structural.
type View struct {
	Src TensorOp
	Out TensorType
}

func (*View) OpName() string            { return "view" }
func (op *View) ResultType() TensorType { return op.Out }

// Load reads one element per owned pointer, predicated by Mask; masked-off
// slots yield the matching Other element. Ptr, Mask, and Other share the
// result type's layout and shape, so their slots align one for one.
type Load struct {
	Ptr, Mask, Other TensorOp
	Cache            CacheModifier
	Evict            EvictionPolicy
	IsVolatile       bool
	Out              TensorType
}

func (*Load) OpName() string            { return "load" }
func (op *Load) ResultType() TensorType { return op.Out }

// Return terminates a kernel. Kernels return nothing; any operand is a
// lowering failure, reported rather than dropped.
type Return struct {
	Operands []TensorOp
}

func (*Return) OpName() string { return "return" }
