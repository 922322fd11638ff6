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

import "math/bits"

// RV64M. Divide-by-zero and signed overflow are pure value substitutions
// per the base ISA manual, never traps.

func execMUL(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), c.X(int(in.rs1))*c.X(int(in.rs2)))
	return nil
}

func execMULH(c *CPU, _ Memory, in *inst) *Trap {
	a, b := int64(c.X(int(in.rs1))), int64(c.X(int(in.rs2)))
	c.SetX(int(in.rd), mulhSigned(a, b))
	return nil
}

// mulhSigned computes the high 64 bits of the signed 128-bit product a*b
// from the unsigned 128-bit product, correcting for the sign of each
// operand (math/bits has no signed 64x64->128 multiply).
func mulhSigned(a, b int64) uint64 {
	hi, _ := bits.Mul64(uint64(a), uint64(b))
	if a < 0 {
		hi -= uint64(b)
	}
	if b < 0 {
		hi -= uint64(a)
	}
	return hi
}

func execMULHU(c *CPU, _ Memory, in *inst) *Trap {
	hi, _ := bits.Mul64(c.X(int(in.rs1)), c.X(int(in.rs2)))
	c.SetX(int(in.rd), hi)
	return nil
}

func execMULHSU(c *CPU, _ Memory, in *inst) *Trap {
	a := int64(c.X(int(in.rs1)))
	b := c.X(int(in.rs2))
	hi, _ := bits.Mul64(uint64(a), b)
	if a < 0 {
		hi -= b
	}
	c.SetX(int(in.rd), hi)
	return nil
}

func execMULW(c *CPU, _ Memory, in *inst) *Trap {
	a := int32(uint32(c.X(int(in.rs1))))
	b := int32(uint32(c.X(int(in.rs2))))
	c.SetX(int(in.rd), signExtend32(uint64(uint32(a*b))))
	return nil
}

// Divide-by-zero yields quotient -1 and remainder = dividend; the
// most-negative-over-minus-one overflow yields quotient = dividend and
// remainder 0.

func execDIV(c *CPU, _ Memory, in *inst) *Trap {
	a, b := int64(c.X(int(in.rs1))), int64(c.X(int(in.rs2)))
	switch {
	case b == 0:
		c.SetX(int(in.rd), ^uint64(0))
	case a == -1<<63 && b == -1:
		c.SetX(int(in.rd), uint64(a))
	default:
		c.SetX(int(in.rd), uint64(a/b))
	}
	return nil
}

func execDIVU(c *CPU, _ Memory, in *inst) *Trap {
	a, b := c.X(int(in.rs1)), c.X(int(in.rs2))
	if b == 0 {
		c.SetX(int(in.rd), ^uint64(0))
		return nil
	}
	c.SetX(int(in.rd), a/b)
	return nil
}

func execREM(c *CPU, _ Memory, in *inst) *Trap {
	a, b := int64(c.X(int(in.rs1))), int64(c.X(int(in.rs2)))
	switch {
	case b == 0:
		c.SetX(int(in.rd), uint64(a))
	case a == -1<<63 && b == -1:
		c.SetX(int(in.rd), 0)
	default:
		c.SetX(int(in.rd), uint64(a%b))
	}
	return nil
}

func execREMU(c *CPU, _ Memory, in *inst) *Trap {
	a, b := c.X(int(in.rs1)), c.X(int(in.rs2))
	if b == 0 {
		c.SetX(int(in.rd), a)
		return nil
	}
	c.SetX(int(in.rd), a%b)
	return nil
}

func execDIVW(c *CPU, _ Memory, in *inst) *Trap {
	a, b := int32(uint32(c.X(int(in.rs1)))), int32(uint32(c.X(int(in.rs2))))
	switch {
	case b == 0:
		c.SetX(int(in.rd), ^uint64(0))
	case a == -1<<31 && b == -1:
		c.SetX(int(in.rd), signExtend32(uint64(uint32(a))))
	default:
		c.SetX(int(in.rd), signExtend32(uint64(uint32(a/b))))
	}
	return nil
}

func execDIVUW(c *CPU, _ Memory, in *inst) *Trap {
	a, b := uint32(c.X(int(in.rs1))), uint32(c.X(int(in.rs2)))
	if b == 0 {
		c.SetX(int(in.rd), ^uint64(0))
		return nil
	}
	c.SetX(int(in.rd), signExtend32(uint64(a/b)))
	return nil
}

func execREMW(c *CPU, _ Memory, in *inst) *Trap {
	a, b := int32(uint32(c.X(int(in.rs1)))), int32(uint32(c.X(int(in.rs2))))
	switch {
	case b == 0:
		c.SetX(int(in.rd), signExtend32(uint64(uint32(a))))
	case a == -1<<31 && b == -1:
		c.SetX(int(in.rd), 0)
	default:
		c.SetX(int(in.rd), signExtend32(uint64(uint32(a%b))))
	}
	return nil
}

func execREMUW(c *CPU, _ Memory, in *inst) *Trap {
	a, b := uint32(c.X(int(in.rs1))), uint32(c.X(int(in.rs2)))
	if b == 0 {
		c.SetX(int(in.rd), signExtend32(uint64(a)))
		return nil
	}
	c.SetX(int(in.rd), signExtend32(uint64(a%b)))
	return nil
}
