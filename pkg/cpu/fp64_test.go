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

import (
	"math"
	"testing"
)

func setupF64(rs1, rs2 float64) (*CPU, *inst) {
	c := New()
	setF64(c, 0xB, rs1)
	setF64(c, 0xC, rs2)
	return c, &inst{rd: 0xA, rs1: 0xB, rs2: 0xC}
}

func TestFADDSUBMULDIVD(t *testing.T) {
	tests := []struct {
		desc string
		fn   handlerFunc
		a, b float64
		want float64
	}{
		{desc: "fadd.d", fn: execFADDD, a: 1.5, b: 2.25, want: 3.75},
		{desc: "fsub.d", fn: execFSUBD, a: 5, b: 2, want: 3},
		{desc: "fmul.d", fn: execFMULD, a: 3, b: 4, want: 12},
		{desc: "fdiv.d", fn: execFDIVD, a: 6, b: 2, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			c, in := setupF64(tt.a, tt.b)
			if trap := tt.fn(c, nil, in); trap != nil {
				t.Fatalf("%s => trap %v", tt.desc, trap)
			}
			if got := f64(c, 0xA); got != tt.want {
				t.Errorf("%s => %v; want %v", tt.desc, got, tt.want)
			}
		})
	}
}

func TestFDIVDByZero(t *testing.T) {
	c, in := setupF64(1, 0)
	execFDIVD(c, nil, in)
	if got := f64(c, 0xA); !math.IsInf(got, 1) {
		t.Errorf("1/+0 => %v; want +Inf", got)
	}
	if c.readFflags()&fflagDZ == 0 {
		t.Error("1/+0 must set DZ")
	}
}

func TestFCVTDSPromotesNaN(t *testing.T) {
	c := New()
	setF32(c, 0xB, math.Float32frombits(signalingNaN32))
	in := &inst{rd: 0xA, rs1: 0xB}
	execFCVTDS(c, nil, in)
	if got := c.F(0xA); got != canonicalNaN64 {
		t.Errorf("fcvt.d.s(signalingNaN) => %#x; want canonical double NaN %#x", got, canonicalNaN64)
	}
}

func TestFCVTSDNarrowsAndBoxes(t *testing.T) {
	c := New()
	setF64(c, 0xB, 3.5)
	in := &inst{rd: 0xA, rs1: 0xB}
	execFCVTSD(c, nil, in)
	if got := f32(c, 0xA); got != 3.5 {
		t.Errorf("fcvt.s.d(3.5) => %v; want 3.5", got)
	}
	if c.F(0xA)>>32 != 0xffffffff {
		t.Error("fcvt.s.d must NaN-box the result")
	}
}

func TestFMinMaxDNaNHandling(t *testing.T) {
	nan := math.Float64frombits(canonicalNaN64)

	c, in := setupF64(nan, 5.0)
	execFMIND(c, nil, in)
	if got := f64(c, 0xA); got != 5.0 {
		t.Errorf("fmin.d(qNaN, 5) => %v; want 5", got)
	}

	c, in = setupF64(nan, nan)
	execFMAXD(c, nil, in)
	if got := c.F(0xA); got != canonicalNaN64 {
		t.Errorf("fmax.d(qNaN, qNaN) => %#x; want canonical NaN", got)
	}
}

func TestFCLASSD(t *testing.T) {
	tests := []struct {
		desc string
		v    float64
		want uint64
	}{
		{desc: "-inf", v: math.Inf(-1), want: 1 << 0},
		{desc: "+inf", v: math.Inf(1), want: 1 << 7},
		{desc: "-0", v: math.Copysign(0, -1), want: 1 << 3},
		{desc: "+normal", v: 1.0, want: 1 << 6},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			c := New()
			setF64(c, 0xB, tt.v)
			in := &inst{rd: 0xA, rs1: 0xB}
			execFCLASSD(c, nil, in)
			if got := c.X(0xA); got != tt.want {
				t.Errorf("fclass.d(%v) => %#x; want %#x", tt.v, got, tt.want)
			}
		})
	}
}

func TestFMADDD(t *testing.T) {
	c := New()
	setF64(c, 0xB, 2)
	setF64(c, 0xC, 3)
	setF64(c, 0xD, 1)
	in := &inst{rd: 0xA, rs1: 0xB, rs2: 0xC, rs3: 0xD}
	execFMADDD(c, nil, in)
	if got := f64(c, 0xA); got != 7 {
		t.Errorf("fmadd.d(2,3,1) => %v; want 7", got)
	}
}

func TestFCVTLUDSmallNegativeSaturates(t *testing.T) {
	c := New()
	setF64(c, 0xB, -0.5)
	in := &inst{rd: 0xA, rs1: 0xB}
	execFCVTLUD(c, nil, in)
	if got := c.X(0xA); got != 0 {
		t.Errorf("fcvt.lu.d(-0.5) => %d; want 0", got)
	}
	if c.readFflags()&fflagNX == 0 {
		t.Error("fcvt.lu.d(-0.5) is inexact and must set NX")
	}
	if c.readFflags()&fflagNV != 0 {
		t.Error("fcvt.lu.d(-0.5) must not set NV: only inputs <= -1 are invalid")
	}
}

func TestFCVTLDOverflowSaturates(t *testing.T) {
	c := New()
	setF64(c, 0xB, 1e30)
	in := &inst{rd: 0xA, rs1: 0xB}
	execFCVTLD(c, nil, in)
	if got := int64(c.X(0xA)); got != math.MaxInt64 {
		t.Errorf("fcvt.l.d overflow => %d; want MaxInt64", got)
	}
	if c.readFflags()&fflagNV == 0 {
		t.Error("fcvt.l.d overflow must set NV")
	}
}
