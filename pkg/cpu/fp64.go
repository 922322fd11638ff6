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

// RV64D: the F operator set on 64-bit IEEE doubles stored bit-exact in
// the register file, no boxing involved.

const (
	canonicalNaN64  uint64 = 0x7ff8000000000000
	signalingNaN64  uint64 = 0x7fff000000000000
	f64SignMask     uint64 = 0x8000000000000000
	f64MagnitudeBit uint64 = 0x7fffffffffffffff
)

func f64(c *CPU, n uint64) float64 { return math.Float64frombits(c.F(int(n))) }

func setF64(c *CPU, n uint64, v float64) { c.SetF(int(n), math.Float64bits(v)) }

func execFADDD(c *CPU, _ Memory, in *inst) *Trap {
	setF64(c, in.rd, f64(c, in.rs1)+f64(c, in.rs2))
	return nil
}

func execFSUBD(c *CPU, _ Memory, in *inst) *Trap {
	setF64(c, in.rd, f64(c, in.rs1)-f64(c, in.rs2))
	return nil
}

func execFMULD(c *CPU, _ Memory, in *inst) *Trap {
	setF64(c, in.rd, f64(c, in.rs1)*f64(c, in.rs2))
	return nil
}

func execFDIVD(c *CPU, _ Memory, in *inst) *Trap {
	dividend, divisor := f64(c, in.rs1), f64(c, in.rs2)
	switch {
	case divisor == 0 && !math.Signbit(divisor):
		setF64(c, in.rd, math.Inf(1))
		c.setFcsrDZ()
	case divisor == 0:
		setF64(c, in.rd, math.Inf(-1))
		c.setFcsrDZ()
	default:
		setF64(c, in.rd, dividend/divisor)
	}
	return nil
}

func execFSQRTD(c *CPU, _ Memory, in *inst) *Trap {
	v := f64(c, in.rs1)
	if v >= 0 {
		setF64(c, in.rd, math.Sqrt(v))
	} else {
		setF64(c, in.rd, math.Float64frombits(canonicalNaN64))
		c.setFcsrNV()
	}
	return nil
}

func execFLD(c *CPU, m Memory, in *inst) *Trap {
	v, t := m.ReadDouble(c.X(int(in.rs1)) + in.imm)
	if t != nil {
		return t
	}
	c.SetF(int(in.rd), v)
	return nil
}

func execFSD(c *CPU, m Memory, in *inst) *Trap {
	return m.WriteDouble(c.X(int(in.rs1))+in.imm, c.F(int(in.rs2)))
}

func execFMVXD(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), c.F(int(in.rs1)))
	return nil
}

func execFMVDX(c *CPU, _ Memory, in *inst) *Trap {
	c.SetF(int(in.rd), c.X(int(in.rs1)))
	return nil
}

func execFSGNJD(c *CPU, _ Memory, in *inst) *Trap {
	a, b := c.F(int(in.rs1)), c.F(int(in.rs2))
	c.SetF(int(in.rd), b&f64SignMask|a&f64MagnitudeBit)
	return nil
}

func execFSGNJND(c *CPU, _ Memory, in *inst) *Trap {
	a, b := c.F(int(in.rs1)), c.F(int(in.rs2))
	c.SetF(int(in.rd), (b&f64SignMask)^f64SignMask|a&f64MagnitudeBit)
	return nil
}

func execFSGNJXD(c *CPU, _ Memory, in *inst) *Trap {
	a, b := c.F(int(in.rs1)), c.F(int(in.rs2))
	c.SetF(int(in.rd), (a^b)&f64SignMask|a&f64MagnitudeBit)
	return nil
}

func execFEQD(c *CPU, _ Memory, in *inst) *Trap {
	v1, v2 := f64(c, in.rs1), f64(c, in.rs2)
	if isSignalingNaN64(c.F(int(in.rs1))) || isSignalingNaN64(c.F(int(in.rs2))) {
		c.setFcsrNV()
	}
	c.SetX(int(in.rd), boolToReg(v1 == v2))
	return nil
}

func execFLED(c *CPU, _ Memory, in *inst) *Trap {
	v1, v2 := f64(c, in.rs1), f64(c, in.rs2)
	if math.IsNaN(v1) || math.IsNaN(v2) {
		c.setFcsrNV()
	}
	c.SetX(int(in.rd), boolToReg(v1 <= v2))
	return nil
}

func execFLTD(c *CPU, _ Memory, in *inst) *Trap {
	v1, v2 := f64(c, in.rs1), f64(c, in.rs2)
	if math.IsNaN(v1) || math.IsNaN(v2) {
		c.setFcsrNV()
	}
	c.SetX(int(in.rd), boolToReg(v1 < v2))
	return nil
}

func isSignalingNaN64(bits uint64) bool { return bits == signalingNaN64 }

func execFCVTDW(c *CPU, _ Memory, in *inst) *Trap {
	setF64(c, in.rd, float64(int32(c.X(int(in.rs1)))))
	return nil
}

func execFCVTDWU(c *CPU, _ Memory, in *inst) *Trap {
	setF64(c, in.rd, float64(uint32(c.X(int(in.rs1)))))
	return nil
}

func execFCVTDL(c *CPU, _ Memory, in *inst) *Trap {
	setF64(c, in.rd, float64(int64(c.X(int(in.rs1)))))
	return nil
}

func execFCVTDLU(c *CPU, _ Memory, in *inst) *Trap {
	setF64(c, in.rd, float64(c.X(int(in.rs1))))
	return nil
}

// execFCVTDS expands a single to a double, promoting an input NaN (any
// payload) to the canonical double NaN.
func execFCVTDS(c *CPU, _ Memory, in *inst) *Trap {
	v := f32(c, in.rs1)
	if math.IsNaN(float64(v)) {
		setF64(c, in.rd, math.Float64frombits(canonicalNaN64))
		return nil
	}
	setF64(c, in.rd, float64(v))
	return nil
}

// execFCVTSD narrows a double to a single via host conversion, then
// NaN-boxes the result.
func execFCVTSD(c *CPU, _ Memory, in *inst) *Trap {
	v := f64(c, in.rs1)
	setF32(c, in.rd, float32(v))
	return nil
}

func execFCVTWD(c *CPU, _ Memory, in *inst) *Trap {
	v := f64(c, in.rs1)
	c.SetX(int(in.rd), signExtend(uint64(uint32(floatToI32(v, c))), 31))
	return nil
}

func execFCVTWUD(c *CPU, _ Memory, in *inst) *Trap {
	v := f64(c, in.rs1)
	c.SetX(int(in.rd), signExtend(uint64(floatToU32(v, c)), 31))
	return nil
}

func execFCVTLD(c *CPU, _ Memory, in *inst) *Trap {
	v := f64(c, in.rs1)
	c.SetX(int(in.rd), uint64(floatToI64(v, c)))
	return nil
}

func execFCVTLUD(c *CPU, _ Memory, in *inst) *Trap {
	v := f64(c, in.rs1)
	c.SetX(int(in.rd), floatToU64(v, c))
	return nil
}

func execFMIND(c *CPU, _ Memory, in *inst) *Trap {
	setF64(c, in.rd, fminF64(c, f64(c, in.rs1), f64(c, in.rs2)))
	return nil
}

func execFMAXD(c *CPU, _ Memory, in *inst) *Trap {
	setF64(c, in.rd, fmaxF64(c, f64(c, in.rs1), f64(c, in.rs2)))
	return nil
}

func fminF64(c *CPU, v1, v2 float64) float64 {
	n1, n2 := math.IsNaN(v1), math.IsNaN(v2)
	if n1 && n2 {
		if isSignalingNaN64(math.Float64bits(v1)) || isSignalingNaN64(math.Float64bits(v2)) {
			c.setFcsrNV()
		}
		return math.Float64frombits(canonicalNaN64)
	}
	if n1 {
		return v2
	}
	if n2 {
		return v1
	}
	if v1 == 0 && v2 == 0 {
		if math.Signbit(v1) {
			return v1
		}
		return v2
	}
	if v1 < v2 {
		return v1
	}
	return v2
}

func fmaxF64(c *CPU, v1, v2 float64) float64 {
	n1, n2 := math.IsNaN(v1), math.IsNaN(v2)
	if n1 && n2 {
		if isSignalingNaN64(math.Float64bits(v1)) || isSignalingNaN64(math.Float64bits(v2)) {
			c.setFcsrNV()
		}
		return math.Float64frombits(canonicalNaN64)
	}
	if n1 {
		return v2
	}
	if n2 {
		return v1
	}
	if v1 == 0 && v2 == 0 {
		if math.Signbit(v1) {
			return v2
		}
		return v1
	}
	if v1 > v2 {
		return v1
	}
	return v2
}

func execFCLASSD(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), fclass(f64(c, in.rs1), isSignalingNaN64(c.F(int(in.rs1))), 0x1p-1022))
	return nil
}

// FMADD.D/FMSUB.D/FNMADD.D/FNMSUB.D: evaluated as ±(a*b)±c, the same
// sign table as the single-precision forms.

func execFMADDD(c *CPU, _ Memory, in *inst) *Trap {
	setF64(c, in.rd, f64(c, in.rs1)*f64(c, in.rs2)+f64(c, in.rs3))
	return nil
}

func execFMSUBD(c *CPU, _ Memory, in *inst) *Trap {
	setF64(c, in.rd, f64(c, in.rs1)*f64(c, in.rs2)-f64(c, in.rs3))
	return nil
}

func execFNMADDD(c *CPU, _ Memory, in *inst) *Trap {
	setF64(c, in.rd, -(f64(c, in.rs1)*f64(c, in.rs2))-f64(c, in.rs3))
	return nil
}

func execFNMSUBD(c *CPU, _ Memory, in *inst) *Trap {
	setF64(c, in.rd, -(f64(c, in.rs1)*f64(c, in.rs2))+f64(c, in.rs3))
	return nil
}
