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

// RV64A. Each AMO is a load-modify-store through the Memory interface; a
// single hart has no concurrent accessor, so the sequence is atomic by
// construction without any locking.

func amoW(c *CPU, m Memory, in *inst, op func(old, rs2 uint32) uint32) *Trap {
	addr := c.X(int(in.rs1))
	old, t := m.ReadWord(addr)
	if t != nil {
		return t
	}
	if t := m.WriteWord(addr, op(old, uint32(c.X(int(in.rs2))))); t != nil {
		return t
	}
	c.SetX(int(in.rd), signExtend(uint64(old), 31))
	return nil
}

func amoD(c *CPU, m Memory, in *inst, op func(old, rs2 uint64) uint64) *Trap {
	addr := c.X(int(in.rs1))
	old, t := m.ReadDouble(addr)
	if t != nil {
		return t
	}
	if t := m.WriteDouble(addr, op(old, c.X(int(in.rs2)))); t != nil {
		return t
	}
	c.SetX(int(in.rd), old)
	return nil
}

func execAMOADDW(c *CPU, m Memory, in *inst) *Trap {
	return amoW(c, m, in, func(old, rs2 uint32) uint32 { return old + rs2 })
}
func execAMOADDD(c *CPU, m Memory, in *inst) *Trap {
	return amoD(c, m, in, func(old, rs2 uint64) uint64 { return old + rs2 })
}

func execAMOANDW(c *CPU, m Memory, in *inst) *Trap {
	return amoW(c, m, in, func(old, rs2 uint32) uint32 { return old & rs2 })
}
func execAMOANDD(c *CPU, m Memory, in *inst) *Trap {
	return amoD(c, m, in, func(old, rs2 uint64) uint64 { return old & rs2 })
}

func execAMOORW(c *CPU, m Memory, in *inst) *Trap {
	return amoW(c, m, in, func(old, rs2 uint32) uint32 { return old | rs2 })
}
func execAMOORD(c *CPU, m Memory, in *inst) *Trap {
	return amoD(c, m, in, func(old, rs2 uint64) uint64 { return old | rs2 })
}

func execAMOXORW(c *CPU, m Memory, in *inst) *Trap {
	return amoW(c, m, in, func(old, rs2 uint32) uint32 { return old ^ rs2 })
}
func execAMOXORD(c *CPU, m Memory, in *inst) *Trap {
	return amoD(c, m, in, func(old, rs2 uint64) uint64 { return old ^ rs2 })
}

func execAMOSWAPW(c *CPU, m Memory, in *inst) *Trap {
	return amoW(c, m, in, func(_, rs2 uint32) uint32 { return rs2 })
}
func execAMOSWAPD(c *CPU, m Memory, in *inst) *Trap {
	return amoD(c, m, in, func(_, rs2 uint64) uint64 { return rs2 })
}

func execAMOMAXW(c *CPU, m Memory, in *inst) *Trap {
	return amoW(c, m, in, func(old, rs2 uint32) uint32 {
		if int32(rs2) >= int32(old) {
			return rs2
		}
		return old
	})
}
func execAMOMAXD(c *CPU, m Memory, in *inst) *Trap {
	return amoD(c, m, in, func(old, rs2 uint64) uint64 {
		if int64(rs2) >= int64(old) {
			return rs2
		}
		return old
	})
}

func execAMOMINW(c *CPU, m Memory, in *inst) *Trap {
	return amoW(c, m, in, func(old, rs2 uint32) uint32 {
		if int32(rs2) <= int32(old) {
			return rs2
		}
		return old
	})
}
func execAMOMIND(c *CPU, m Memory, in *inst) *Trap {
	return amoD(c, m, in, func(old, rs2 uint64) uint64 {
		if int64(rs2) <= int64(old) {
			return rs2
		}
		return old
	})
}

func execAMOMAXUW(c *CPU, m Memory, in *inst) *Trap {
	return amoW(c, m, in, func(old, rs2 uint32) uint32 {
		if rs2 >= old {
			return rs2
		}
		return old
	})
}
func execAMOMAXUD(c *CPU, m Memory, in *inst) *Trap {
	return amoD(c, m, in, func(old, rs2 uint64) uint64 {
		if rs2 >= old {
			return rs2
		}
		return old
	})
}

func execAMOMINUW(c *CPU, m Memory, in *inst) *Trap {
	return amoW(c, m, in, func(old, rs2 uint32) uint32 {
		if rs2 <= old {
			return rs2
		}
		return old
	})
}
func execAMOMINUD(c *CPU, m Memory, in *inst) *Trap {
	return amoD(c, m, in, func(old, rs2 uint64) uint64 {
		if rs2 <= old {
			return rs2
		}
		return old
	})
}

// execLRW/execLRD perform the reserved load and arm the reservation at the
// loaded address.

func execLRW(c *CPU, m Memory, in *inst) *Trap {
	addr := c.X(int(in.rs1))
	v, t := m.ReadWord(addr)
	if t != nil {
		return t
	}
	c.SetX(int(in.rd), signExtend(uint64(v), 31))
	c.res = reservation{addr: addr, valid: true}
	return nil
}

func execLRD(c *CPU, m Memory, in *inst) *Trap {
	addr := c.X(int(in.rs1))
	v, t := m.ReadDouble(addr)
	if t != nil {
		return t
	}
	c.SetX(int(in.rd), v)
	c.res = reservation{addr: addr, valid: true}
	return nil
}

// execSCW/execSCD check the reservation, store on match, and report
// success (0) or failure (1) in x[rd]. The reservation is cleared in
// either case; the ISA permits a failing SC to leave it set, but a
// one-shot lifecycle is simpler and indistinguishable on a single hart.
func execSCW(c *CPU, m Memory, in *inst) *Trap {
	addr := c.X(int(in.rs1))
	if c.res.valid && c.res.addr == addr {
		if t := m.WriteWord(addr, uint32(c.X(int(in.rs2)))); t != nil {
			return t
		}
		c.SetX(int(in.rd), 0)
	} else {
		c.SetX(int(in.rd), 1)
	}
	c.res = reservation{}
	return nil
}

func execSCD(c *CPU, m Memory, in *inst) *Trap {
	addr := c.X(int(in.rs1))
	if c.res.valid && c.res.addr == addr {
		if t := m.WriteDouble(addr, c.X(int(in.rs2))); t != nil {
			return t
		}
		c.SetX(int(in.rd), 0)
	} else {
		c.SetX(int(in.rd), 1)
	}
	c.res = reservation{}
	return nil
}
