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

// Package ptx builds PTX inline-instruction text from structured pieces:
// opcode, qualifier chain, operand placeholders, and register constraints.
// Keeping the instruction-selection policy (word width, vector width,
// cache hints) out of string plumbing makes it testable on its own.
package ptx

import (
	"fmt"
	"strings"
)

// Reg returns the placeholder for inline-asm operand n.
func Reg(n int) string { return fmt.Sprintf("$%d", n) }

// Imm returns an integer immediate in hex form. The unsigned bit pattern
// is printed, so negative values come out as two's complement rather than
// a signed "0x-" form no assembler accepts.
func Imm(v int64) string { return fmt.Sprintf("0x%x", uint64(v)) }

// Addr returns a memory operand around a register placeholder with a
// constant byte offset.
func Addr(reg string, offset int) string { return fmt.Sprintf("[ %s + %d]", reg, offset) }

// Instr is one PTX instruction under construction. Methods return the
// receiver so qualifier chains read like the emitted text.
type Instr struct {
	pred     string
	opcode   string
	quals    []string
	operands []string
}

// NewInstr starts an instruction with the given opcode.
func NewInstr(opcode string) *Instr {
	return &Instr{opcode: opcode}
}

// Predicated guards the instruction on operand n being true.
func (i *Instr) Predicated(n int) *Instr {
	i.pred = "@" + Reg(n)
	return i
}

// PredicatedNot guards the instruction on operand n being false.
func (i *Instr) PredicatedNot(n int) *Instr {
	i.pred = "@!" + Reg(n)
	return i
}

// Qual appends a raw qualifier such as "volatile" or "L1::evict_first".
func (i *Instr) Qual(q string) *Instr {
	i.quals = append(i.quals, q)
	return i
}

// Global marks the access as global address space.
func (i *Instr) Global() *Instr { return i.Qual("global") }

// Volatile marks the access volatile.
func (i *Instr) Volatile() *Instr { return i.Qual("volatile") }

// Vec appends the vector-width qualifier ".vN".
func (i *Instr) Vec(n int) *Instr { return i.Qual(fmt.Sprintf("v%d", n)) }

// B appends the untyped word-size qualifier ".bW".
func (i *Instr) B(width int) *Instr { return i.Qual(fmt.Sprintf("b%d", width)) }

// U appends the unsigned word-size qualifier ".uW".
func (i *Instr) U(width int) *Instr { return i.Qual(fmt.Sprintf("u%d", width)) }

// ResultGroup appends a braced destination register list.
func (i *Instr) ResultGroup(regs ...string) *Instr {
	i.operands = append(i.operands, "{"+strings.Join(regs, ",")+"}")
	return i
}

// Operand appends one source or destination operand.
func (i *Instr) Operand(s string) *Instr {
	i.operands = append(i.operands, s)
	return i
}

// String renders the instruction, terminated with a semicolon.
func (i *Instr) String() string {
	var sb strings.Builder
	if i.pred != "" {
		sb.WriteString(i.pred)
		sb.WriteString(" ")
	}
	sb.WriteString(i.opcode)
	for _, q := range i.quals {
		sb.WriteString(".")
		sb.WriteString(q)
	}
	if len(i.operands) > 0 {
		sb.WriteString(" ")
		sb.WriteString(strings.Join(i.operands, ", "))
	}
	sb.WriteString(";")
	return sb.String()
}

// Block is a short sequence of instructions emitted as one inline-asm
// payload.
type Block struct {
	instrs []*Instr
}

// Add appends an instruction to the block.
func (b *Block) Add(i *Instr) *Block {
	b.instrs = append(b.instrs, i)
	return b
}

// String joins the block's instructions with continuation indentation.
func (b *Block) String() string {
	parts := make([]string, len(b.instrs))
	for idx, in := range b.instrs {
		parts[idx] = in.String()
	}
	return strings.Join(parts, "\n        ")
}

// Constraints accumulates the inline-asm constraint string matching the
// operand order of a Block.
type Constraints struct {
	parts []string
}

// widthLetter maps a word width in bits to its register constraint letter.
func widthLetter(bits int) string {
	switch {
	case bits == 64:
		return "l"
	case bits == 32:
		return "r"
	default:
		return "c"
	}
}

// Output adds a write-only register constraint for a word of the given
// width.
func (c *Constraints) Output(bits int) *Constraints {
	c.parts = append(c.parts, "="+widthLetter(bits))
	return c
}

// Input adds a register constraint for a word of the given width.
func (c *Constraints) Input(bits int) *Constraints {
	c.parts = append(c.parts, widthLetter(bits))
	return c
}

// Pred adds a predicate-register constraint.
func (c *Constraints) Pred() *Constraints {
	c.parts = append(c.parts, "b")
	return c
}

// Ptr adds a pointer-register constraint.
func (c *Constraints) Ptr() *Constraints {
	c.parts = append(c.parts, "l")
	return c
}

// String renders the comma-joined constraint list.
func (c *Constraints) String() string {
	return strings.Join(c.parts, ",")
}
