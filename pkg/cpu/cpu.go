// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cpu

// EcallHandler is the host-supplied delegate invoked on ECALL. It
// receives the CPU and memory the ECALL trapped out of and the PC of the
// ECALL instruction itself; returning a non-nil *Trap aborts tick(), most
// commonly with Stop to end a test program.
type EcallHandler func(c *CPU, m Memory, pc uint64) *Trap

// reservation is the LR/SC state: a reservation is valid after any LR and
// is invalidated by any SC, successful or not.
type reservation struct {
	addr  uint64
	valid bool
}

// CPU is the architectural state of a single hart: integer and
// floating-point register files, the CSR file, the program counter, and
// the reservation set LR/SC operate against. The CPU does not own its
// memory; Tick is handed a Memory explicitly, so one image can be shared
// or swapped under the hart by the host.
type CPU struct {
	pc   uint64
	x    [32]uint64
	f    [32]uint64
	xlen int
	csr  [4096]uint64
	res  reservation

	ecallHandler EcallHandler

	// steps counts retired instructions, for diagnostics.
	steps uint64
}

// New returns a CPU with pc = 0, all registers zero, FCSR zero, and the
// reservation cleared.
func New() *CPU {
	return &CPU{xlen: 64}
}

// SetPC initialises the program counter, normally to an image's entry
// point once a loader has populated memory.
func (c *CPU) SetPC(addr uint64) { c.pc = addr }

// PC returns the current program counter.
func (c *CPU) PC() uint64 { return c.pc }

// SetEcallHandler installs (or, passed nil, removes) the ECALL delegate.
func (c *CPU) SetEcallHandler(h EcallHandler) { c.ecallHandler = h }

// Steps returns the number of instructions retired so far.
func (c *CPU) Steps() uint64 { return c.steps }

// X returns the value of integer register n (x0 always reads zero).
func (c *CPU) X(n int) uint64 {
	if n == 0 {
		return 0
	}
	return c.x[n]
}

// SetX writes integer register n, discarding writes to x0 so the
// x0-reads-zero rule holds without special-casing every call site.
// Callers must have already routed the value through signExtend /
// signExtend32; SetX itself cannot re-derive sign extension since the
// correct bit to extend from depends on the producing instruction's
// width.
func (c *CPU) SetX(n int, v uint64) {
	if n == 0 {
		return
	}
	c.x[n] = v
}

// F returns the raw 64-bit bit pattern of floating-point register n.
func (c *CPU) F(n int) uint64 { return c.f[n] }

// SetF writes the raw 64-bit bit pattern of floating-point register n. FP32
// handlers must NaN-box through SetF32, not call this directly with a
// half-written pattern.
func (c *CPU) SetF(n int, v uint64) { c.f[n] = v }

// F32 reads floating-point register n as a single-precision bit pattern
// (low 32 bits).
func (c *CPU) F32(n int) uint32 { return uint32(c.f[n]) }

// SetF32 NaN-boxes v into floating-point register n: bits [63:32] are
// forced to all ones.
func (c *CPU) SetF32(n int, v uint32) {
	c.f[n] = 0xffffffff00000000 | uint64(v)
}

// Tick executes one instruction: fetch, (expand if compressed,) decode,
// execute, advance pc, force x0 to zero. A nil return means the
// instruction retired; a *Trap is returned verbatim with no recovery
// attempted, leaving resume-or-stop to the host.
func (c *CPU) Tick(m Memory) *Trap {
	c.csr[CSRTime]++

	pc := c.pc
	word, length, t := fetch(c, m, pc)
	if t != nil {
		return t
	}

	in, t := decode(word)
	if t != nil {
		return t
	}
	in.length = uint64(length)
	in.raw = word

	if t := in.fn(c, m, in); t != nil {
		return t
	}

	if c.pc == pc {
		c.pc = pc + uint64(length)
	}
	c.x[0] = 0
	c.steps++
	return nil
}

// fetch reads the instruction at pc, expanding a compressed halfword into
// its canonical 32-bit encoding. It returns the canonical word and the original
// instruction's length in bytes (2 or 4), which the caller needs to
// compute the fall-through pc and to ground branch/jump targets at the
// original (not expanded) instruction address.
func fetch(c *CPU, m Memory, pc uint64) (word uint32, length int, t *Trap) {
	half, trap := m.ReadHalf(pc)
	if trap != nil {
		return 0, 0, &Trap{Kind: InstructionAccessFault, Payload: pc}
	}
	if half&0x3 == 0x3 {
		hi, trap := m.ReadHalf(pc + 2)
		if trap != nil {
			return 0, 0, &Trap{Kind: InstructionAccessFault, Payload: pc}
		}
		return uint32(half) | uint32(hi)<<16, 4, nil
	}
	return expandCompressed(half), 2, nil
}
