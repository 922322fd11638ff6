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

func TestFlatMemoryRoundTrip(t *testing.T) {
	m := NewFlatMemory(64)

	if err := m.WriteByte(3, 0xAB); err != nil {
		t.Fatal(err)
	}
	if v, _ := m.ReadByte(3); v != 0xAB {
		t.Errorf("byte => %#x; want 0xAB", v)
	}

	if err := m.WriteHalf(10, 0xBEEF); err != nil {
		t.Fatal(err)
	}
	if v, _ := m.ReadHalf(10); v != 0xBEEF {
		t.Errorf("half => %#x; want 0xBEEF", v)
	}

	if err := m.WriteWord(20, 0xDEADBEEF); err != nil {
		t.Fatal(err)
	}
	if v, _ := m.ReadWord(20); v != 0xDEADBEEF {
		t.Errorf("word => %#x; want 0xDEADBEEF", v)
	}

	if err := m.WriteDouble(32, 0x0102030405060708); err != nil {
		t.Fatal(err)
	}
	if v, _ := m.ReadDouble(32); v != 0x0102030405060708 {
		t.Errorf("double => %#x; want 0x0102030405060708", v)
	}
}

func TestFlatMemoryLittleEndian(t *testing.T) {
	m := NewFlatMemory(16)
	m.WriteWord(0, 0x11223344)
	if m.Bytes[0] != 0x44 || m.Bytes[3] != 0x11 {
		t.Errorf("word layout => % x; want little-endian", m.Bytes[:4])
	}
}

func TestFlatMemoryFaults(t *testing.T) {
	m := NewFlatMemory(8)

	if trap := m.WriteWord(6, 1); trap == nil || trap.Kind != StoreAccessFault || trap.Payload != 6 {
		t.Errorf("straddling store => %v; want StoreAccessFault(6)", trap)
	}
	if _, trap := m.ReadDouble(8); trap == nil || trap.Kind != LoadAccessFault {
		t.Errorf("out-of-range load => %v; want LoadAccessFault", trap)
	}
	// Address arithmetic near the top of the address space must not wrap
	// back into bounds.
	if _, trap := m.ReadWord(^uint64(0) - 1); trap == nil || trap.Kind != LoadAccessFault {
		t.Errorf("wrapping load => %v; want LoadAccessFault", trap)
	}
}

func TestFetchFaultIsInstructionAccessFault(t *testing.T) {
	c := New()
	mem := NewFlatMemory(4)
	c.SetPC(100)

	trap := c.Tick(mem)
	if trap == nil || trap.Kind != InstructionAccessFault || trap.Payload != 100 {
		t.Fatalf("fetch past the end => %v; want InstructionAccessFault(100)", trap)
	}
}
