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

import "testing"

func TestAMO(t *testing.T) {
	tests := []struct {
		desc     string
		fn       handlerFunc
		initial  uint64
		rs2      uint64
		wantMem  uint64
		wantRd   uint64
		isWord32 bool
	}{
		{desc: "amoadd.w", fn: execAMOADDW, initial: 3, rs2: 4, wantMem: 7, wantRd: 3, isWord32: true},
		{desc: "amoadd.d", fn: execAMOADDD, initial: 3, rs2: 4, wantMem: 7, wantRd: 3},
		{desc: "amoswap.w", fn: execAMOSWAPW, initial: 3, rs2: 9, wantMem: 9, wantRd: 3, isWord32: true},
		{desc: "amoxor.d", fn: execAMOXORD, initial: 0xff, rs2: 0x0f, wantMem: 0xf0, wantRd: 0xff},
		{desc: "amoand.d", fn: execAMOANDD, initial: 0xff, rs2: 0x0f, wantMem: 0x0f, wantRd: 0xff},
		{desc: "amoor.d", fn: execAMOORD, initial: 0xf0, rs2: 0x0f, wantMem: 0xff, wantRd: 0xf0},
		{desc: "amomax.d", fn: execAMOMAXD, initial: 3, rs2: 9, wantMem: 9, wantRd: 3},
		{desc: "amomin.d", fn: execAMOMIND, initial: 3, rs2: 9, wantMem: 3, wantRd: 3},
		{desc: "amomaxu.d", fn: execAMOMAXUD, initial: 0xffffffffffffffff, rs2: 9, wantMem: 0xffffffffffffffff, wantRd: 0xffffffffffffffff},
		{desc: "amominu.d", fn: execAMOMINUD, initial: 0xffffffffffffffff, rs2: 9, wantMem: 9, wantRd: 0xffffffffffffffff},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			c := New()
			mem := NewFlatMemory(16)
			if tt.isWord32 {
				mem.WriteWord(0, uint32(tt.initial))
			} else {
				mem.WriteDouble(0, tt.initial)
			}
			c.x[0xB] = 0 // rs1: address
			c.x[0xC] = tt.rs2
			in := &inst{fn: tt.fn, rd: 0xA, rs1: 0xB, rs2: 0xC}
			if trap := tt.fn(c, mem, in); trap != nil {
				t.Fatalf("%s => trap %v", tt.desc, trap)
			}
			if got := c.X(0xA); got != tt.wantRd {
				t.Errorf("%s rd => %#x; want %#x", tt.desc, got, tt.wantRd)
			}
			var gotMem uint64
			if tt.isWord32 {
				v, _ := mem.ReadWord(0)
				gotMem = uint64(v)
			} else {
				gotMem, _ = mem.ReadDouble(0)
			}
			if gotMem != tt.wantMem {
				t.Errorf("%s mem => %#x; want %#x", tt.desc, gotMem, tt.wantMem)
			}
		})
	}
}

func TestLRSCSuccess(t *testing.T) {
	c := New()
	mem := NewFlatMemory(16)
	mem.WriteDouble(0, 42)
	c.x[0xB] = 0 // rs1: address

	lr := &inst{fn: execLRD, rd: 0xA, rs1: 0xB}
	if trap := execLRD(c, mem, lr); trap != nil {
		t.Fatalf("lr.d => trap %v", trap)
	}
	if got := c.X(0xA); got != 42 {
		t.Fatalf("lr.d loaded => %d; want 42", got)
	}
	if !c.res.valid || c.res.addr != 0 {
		t.Fatalf("lr.d did not arm reservation: %+v", c.res)
	}

	c.x[0xC] = 99
	sc := &inst{fn: execSCD, rd: 0xA, rs1: 0xB, rs2: 0xC}
	if trap := execSCD(c, mem, sc); trap != nil {
		t.Fatalf("sc.d => trap %v", trap)
	}
	if got := c.X(0xA); got != 0 {
		t.Errorf("sc.d on live reservation must report success (0): got %d", got)
	}
	if got, _ := mem.ReadDouble(0); got != 99 {
		t.Errorf("sc.d must have written through: got %d; want 99", got)
	}
	if c.res.valid {
		t.Error("sc.d must clear the reservation regardless of outcome")
	}
}

func TestSCWithoutReservationFails(t *testing.T) {
	c := New()
	mem := NewFlatMemory(16)
	mem.WriteDouble(0, 42)
	c.x[0xB] = 0
	c.x[0xC] = 99

	sc := &inst{fn: execSCD, rd: 0xA, rs1: 0xB, rs2: 0xC}
	if trap := execSCD(c, mem, sc); trap != nil {
		t.Fatalf("sc.d => trap %v", trap)
	}
	if got := c.X(0xA); got != 1 {
		t.Errorf("sc.d with no live reservation must report failure (1): got %d", got)
	}
	if got, _ := mem.ReadDouble(0); got != 42 {
		t.Errorf("failed sc.d must not write through: got %d; want 42", got)
	}
}

func TestSCToDifferentAddressFails(t *testing.T) {
	c := New()
	mem := NewFlatMemory(16)
	c.x[0xB] = 0
	lr := &inst{fn: execLRD, rd: 0xA, rs1: 0xB}
	execLRD(c, mem, lr)

	c.x[0xB] = 8 // a different reservation address
	c.x[0xC] = 99
	sc := &inst{fn: execSCD, rd: 0xA, rs1: 0xB, rs2: 0xC}
	execSCD(c, mem, sc)
	if got := c.X(0xA); got != 1 {
		t.Errorf("sc.d to a different address must fail: got %d", got)
	}
}
