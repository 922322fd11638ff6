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

import "math"

// RV64F. A single occupies the low 32 bits of its register; every write
// goes through SetF32 so the high bits end up NaN-boxed, and every read
// consumes only the low 32 bits.

const (
	canonicalNaN32  uint32 = 0x7fc00000
	signalingNaN32  uint32 = 0x7fff0000
	f32SignMask     uint32 = 0x80000000
	f32MagnitudeBit uint32 = 0x7fffffff
)

func f32(c *CPU, n uint64) float32 { return math.Float32frombits(c.F32(int(n))) }

func setF32(c *CPU, n uint64, v float32) { c.SetF32(int(n), math.Float32bits(v)) }

func execFADDS(c *CPU, _ Memory, in *inst) *Trap {
	setF32(c, in.rd, f32(c, in.rs1)+f32(c, in.rs2))
	return nil
}

func execFSUBS(c *CPU, _ Memory, in *inst) *Trap {
	setF32(c, in.rd, f32(c, in.rs1)-f32(c, in.rs2))
	return nil
}

func execFMULS(c *CPU, _ Memory, in *inst) *Trap {
	setF32(c, in.rd, f32(c, in.rs1)*f32(c, in.rs2))
	return nil
}

func execFDIVS(c *CPU, _ Memory, in *inst) *Trap {
	dividend, divisor := f32(c, in.rs1), f32(c, in.rs2)
	switch {
	case divisor == 0 && !math.Signbit(float64(divisor)):
		setF32(c, in.rd, float32(math.Inf(1)))
		c.setFcsrDZ()
	case divisor == 0:
		setF32(c, in.rd, float32(math.Inf(-1)))
		c.setFcsrDZ()
	default:
		setF32(c, in.rd, dividend/divisor)
	}
	return nil
}

func execFSQRTS(c *CPU, _ Memory, in *inst) *Trap {
	v := f32(c, in.rs1)
	if v >= 0 {
		setF32(c, in.rd, float32(math.Sqrt(float64(v))))
	} else {
		setF32(c, in.rd, math.Float32frombits(canonicalNaN32))
		c.setFcsrNV()
	}
	return nil
}

func execFLW(c *CPU, m Memory, in *inst) *Trap {
	v, t := m.ReadWord(c.X(int(in.rs1)) + in.imm)
	if t != nil {
		return t
	}
	c.SetF32(int(in.rd), v)
	return nil
}

func execFSW(c *CPU, m Memory, in *inst) *Trap {
	return m.WriteWord(c.X(int(in.rs1))+in.imm, c.F32(int(in.rs2)))
}

func execFMVXW(c *CPU, _ Memory, in *inst) *Trap {
	bits := c.F32(int(in.rs1))
	if bits == 0xffc00000 {
		bits = canonicalNaN32
	}
	c.SetX(int(in.rd), signExtend(uint64(bits), 31))
	return nil
}

func execFMVWX(c *CPU, _ Memory, in *inst) *Trap {
	c.SetF32(int(in.rd), uint32(c.X(int(in.rs1))))
	return nil
}

func execFSGNJS(c *CPU, _ Memory, in *inst) *Trap {
	a, b := c.F32(int(in.rs1)), c.F32(int(in.rs2))
	c.SetF32(int(in.rd), b&f32SignMask|a&f32MagnitudeBit)
	return nil
}

func execFSGNJNS(c *CPU, _ Memory, in *inst) *Trap {
	a, b := c.F32(int(in.rs1)), c.F32(int(in.rs2))
	c.SetF32(int(in.rd), (b&f32SignMask)^f32SignMask|a&f32MagnitudeBit)
	return nil
}

func execFSGNJXS(c *CPU, _ Memory, in *inst) *Trap {
	a, b := c.F32(int(in.rs1)), c.F32(int(in.rs2))
	c.SetF32(int(in.rd), (a^b)&f32SignMask|a&f32MagnitudeBit)
	return nil
}

func execFEQS(c *CPU, _ Memory, in *inst) *Trap {
	v1, v2 := f32(c, in.rs1), f32(c, in.rs2)
	if isSignalingNaN32(c.F32(int(in.rs1))) || isSignalingNaN32(c.F32(int(in.rs2))) {
		c.setFcsrNV()
	}
	c.SetX(int(in.rd), boolToReg(v1 == v2))
	return nil
}

func execFLES(c *CPU, _ Memory, in *inst) *Trap {
	v1, v2 := f32(c, in.rs1), f32(c, in.rs2)
	if math.IsNaN(float64(v1)) || math.IsNaN(float64(v2)) {
		c.setFcsrNV()
	}
	c.SetX(int(in.rd), boolToReg(v1 <= v2))
	return nil
}

func execFLTS(c *CPU, _ Memory, in *inst) *Trap {
	v1, v2 := f32(c, in.rs1), f32(c, in.rs2)
	if math.IsNaN(float64(v1)) || math.IsNaN(float64(v2)) {
		c.setFcsrNV()
	}
	c.SetX(int(in.rd), boolToReg(v1 < v2))
	return nil
}

func boolToReg(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func isSignalingNaN32(bits uint32) bool { return bits == signalingNaN32 }

func execFCVTSW(c *CPU, _ Memory, in *inst) *Trap {
	setF32(c, in.rd, float32(int32(c.X(int(in.rs1)))))
	return nil
}

func execFCVTSWU(c *CPU, _ Memory, in *inst) *Trap {
	setF32(c, in.rd, float32(uint32(c.X(int(in.rs1)))))
	return nil
}

func execFCVTSL(c *CPU, _ Memory, in *inst) *Trap {
	setF32(c, in.rd, float32(int64(c.X(int(in.rs1)))))
	return nil
}

func execFCVTSLU(c *CPU, _ Memory, in *inst) *Trap {
	setF32(c, in.rd, float32(c.X(int(in.rs1))))
	return nil
}

func execFCVTWS(c *CPU, _ Memory, in *inst) *Trap {
	v := f32(c, in.rs1)
	c.SetX(int(in.rd), signExtend(uint64(uint32(floatToI32(float64(v), c))), 31))
	return nil
}

func execFCVTWUS(c *CPU, _ Memory, in *inst) *Trap {
	v := f32(c, in.rs1)
	c.SetX(int(in.rd), signExtend(uint64(floatToU32(float64(v), c)), 31))
	return nil
}

func execFCVTLS(c *CPU, _ Memory, in *inst) *Trap {
	v := f32(c, in.rs1)
	c.SetX(int(in.rd), uint64(floatToI64(float64(v), c)))
	return nil
}

func execFCVTLUS(c *CPU, _ Memory, in *inst) *Trap {
	v := f32(c, in.rs1)
	c.SetX(int(in.rd), floatToU64(float64(v), c))
	return nil
}

func execFMINS(c *CPU, _ Memory, in *inst) *Trap {
	v1, v2 := f32(c, in.rs1), f32(c, in.rs2)
	setF32(c, in.rd, fminF32(c, v1, v2))
	return nil
}

func execFMAXS(c *CPU, _ Memory, in *inst) *Trap {
	v1, v2 := f32(c, in.rs1), f32(c, in.rs2)
	setF32(c, in.rd, fmaxF32(c, v1, v2))
	return nil
}

// fminF32/fmaxF32 implement RISC-V's quiet-NaN-propagating min/max:
// if both operands are NaN, the canonical NaN is produced
// and NV is set when either was signalling; if exactly one is NaN, the
// other (non-NaN) operand is returned; -0 compares less than +0.
func fminF32(c *CPU, v1, v2 float32) float32 {
	n1, n2 := math.IsNaN(float64(v1)), math.IsNaN(float64(v2))
	if n1 && n2 {
		if isSignalingNaN32(math.Float32bits(v1)) || isSignalingNaN32(math.Float32bits(v2)) {
			c.setFcsrNV()
		}
		return math.Float32frombits(canonicalNaN32)
	}
	if n1 {
		return v2
	}
	if n2 {
		return v1
	}
	if v1 == 0 && v2 == 0 {
		if math.Signbit(float64(v1)) {
			return v1
		}
		return v2
	}
	if v1 < v2 {
		return v1
	}
	return v2
}

func fmaxF32(c *CPU, v1, v2 float32) float32 {
	n1, n2 := math.IsNaN(float64(v1)), math.IsNaN(float64(v2))
	if n1 && n2 {
		if isSignalingNaN32(math.Float32bits(v1)) || isSignalingNaN32(math.Float32bits(v2)) {
			c.setFcsrNV()
		}
		return math.Float32frombits(canonicalNaN32)
	}
	if n1 {
		return v2
	}
	if n2 {
		return v1
	}
	if v1 == 0 && v2 == 0 {
		if math.Signbit(float64(v1)) {
			return v2
		}
		return v1
	}
	if v1 > v2 {
		return v1
	}
	return v2
}

func execFCLASSS(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), fclass(float64(f32(c, in.rs1)), isSignalingNaN32(c.F32(int(in.rs1))), 0x1p-126))
	return nil
}

// fclass implements FCLASS.S/FCLASS.D, producing the one-hot bit pattern
// the ISA manual defines for -inf/-normal/-subnormal/-0/+0/+subnormal/+normal/
// +inf/signalling-NaN/quiet-NaN. subnormalBoundary is the smallest
// positive normal value of the source type (2^-126 for single, 2^-1022
// for double), since a value promoted from float32 to float64 must be
// classified against the subnormal range of its original width.
func fclass(v float64, signaling bool, subnormalBoundary float64) uint64 {
	switch {
	case math.IsNaN(v):
		if signaling {
			return 1 << 8
		}
		return 1 << 9
	case math.IsInf(v, -1):
		return 1 << 0
	case math.IsInf(v, 1):
		return 1 << 7
	case v == 0:
		if math.Signbit(v) {
			return 1 << 3
		}
		return 1 << 4
	case math.Signbit(v):
		if isSubnormal(v, subnormalBoundary) {
			return 1 << 2
		}
		return 1 << 1
	default:
		if isSubnormal(v, subnormalBoundary) {
			return 1 << 5
		}
		return 1 << 6
	}
}

func isSubnormal(v, boundary float64) bool {
	a := math.Abs(v)
	return a > 0 && a < boundary
}

// FMADD.S/FMSUB.S/FNMADD.S/FNMSUB.S: evaluated as ±(a*b)±c, the sign
// table fixed by the opcode.

func execFMADDS(c *CPU, _ Memory, in *inst) *Trap {
	setF32(c, in.rd, f32(c, in.rs1)*f32(c, in.rs2)+f32(c, in.rs3))
	return nil
}

func execFMSUBS(c *CPU, _ Memory, in *inst) *Trap {
	setF32(c, in.rd, f32(c, in.rs1)*f32(c, in.rs2)-f32(c, in.rs3))
	return nil
}

func execFNMADDS(c *CPU, _ Memory, in *inst) *Trap {
	setF32(c, in.rd, -(f32(c, in.rs1)*f32(c, in.rs2))-f32(c, in.rs3))
	return nil
}

func execFNMSUBS(c *CPU, _ Memory, in *inst) *Trap {
	setF32(c, in.rd, -(f32(c, in.rs1)*f32(c, in.rs2))+f32(c, in.rs3))
	return nil
}
