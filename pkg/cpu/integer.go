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

// RV64I base integer set plus Zicsr. W-suffix results are routed through
// signExtend32 and narrow signed loads through signExtend, so every x[rd]
// write lands in canonical sign-extended form; full-width 64-bit results
// are written as computed.

func execADD(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), c.X(int(in.rs1))+c.X(int(in.rs2)))
	return nil
}

func execSUB(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), c.X(int(in.rs1))-c.X(int(in.rs2)))
	return nil
}

func execSLL(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), c.X(int(in.rs1))<<(c.X(int(in.rs2))&0x3f))
	return nil
}

func execSLT(c *CPU, _ Memory, in *inst) *Trap {
	if int64(c.X(int(in.rs1))) < int64(c.X(int(in.rs2))) {
		c.SetX(int(in.rd), 1)
	} else {
		c.SetX(int(in.rd), 0)
	}
	return nil
}

func execSLTU(c *CPU, _ Memory, in *inst) *Trap {
	if c.X(int(in.rs1)) < c.X(int(in.rs2)) {
		c.SetX(int(in.rd), 1)
	} else {
		c.SetX(int(in.rd), 0)
	}
	return nil
}

func execXOR(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), c.X(int(in.rs1))^c.X(int(in.rs2)))
	return nil
}

func execSRL(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), c.X(int(in.rs1))>>(c.X(int(in.rs2))&0x3f))
	return nil
}

func execSRA(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), uint64(int64(c.X(int(in.rs1)))>>(c.X(int(in.rs2))&0x3f)))
	return nil
}

func execOR(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), c.X(int(in.rs1))|c.X(int(in.rs2)))
	return nil
}

func execAND(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), c.X(int(in.rs1))&c.X(int(in.rs2)))
	return nil
}

func execADDI(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), c.X(int(in.rs1))+in.imm)
	return nil
}

func execSLTI(c *CPU, _ Memory, in *inst) *Trap {
	if int64(c.X(int(in.rs1))) < int64(in.imm) {
		c.SetX(int(in.rd), 1)
	} else {
		c.SetX(int(in.rd), 0)
	}
	return nil
}

func execSLTIU(c *CPU, _ Memory, in *inst) *Trap {
	if c.X(int(in.rs1)) < in.imm {
		c.SetX(int(in.rd), 1)
	} else {
		c.SetX(int(in.rd), 0)
	}
	return nil
}

func execXORI(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), c.X(int(in.rs1))^in.imm)
	return nil
}

func execORI(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), c.X(int(in.rs1))|in.imm)
	return nil
}

func execANDI(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), c.X(int(in.rs1))&in.imm)
	return nil
}

func execSLLI(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), c.X(int(in.rs1))<<(in.imm&0x3f))
	return nil
}

func execSRLI(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), c.X(int(in.rs1))>>(in.imm&0x3f))
	return nil
}

func execSRAI(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), uint64(int64(c.X(int(in.rs1)))>>(in.imm&0x3f)))
	return nil
}

// W-suffix variants: compute on the low 32 bits, sign-extend to 64.

func execADDW(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), signExtend32(c.X(int(in.rs1))+c.X(int(in.rs2))))
	return nil
}

func execSUBW(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), signExtend32(c.X(int(in.rs1))-c.X(int(in.rs2))))
	return nil
}

func execSLLW(c *CPU, _ Memory, in *inst) *Trap {
	shamt := c.X(int(in.rs2)) & 0x1f
	c.SetX(int(in.rd), signExtend32(uint64(uint32(c.X(int(in.rs1)))<<shamt)))
	return nil
}

func execSRLW(c *CPU, _ Memory, in *inst) *Trap {
	shamt := c.X(int(in.rs2)) & 0x1f
	c.SetX(int(in.rd), signExtend32(uint64(uint32(c.X(int(in.rs1)))>>shamt)))
	return nil
}

func execSRAW(c *CPU, _ Memory, in *inst) *Trap {
	shamt := c.X(int(in.rs2)) & 0x1f
	c.SetX(int(in.rd), signExtend32(uint64(uint32(int32(uint32(c.X(int(in.rs1))))>>shamt))))
	return nil
}

func execADDIW(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), signExtend32(c.X(int(in.rs1))+in.imm))
	return nil
}

func execSLLIW(c *CPU, _ Memory, in *inst) *Trap {
	shamt := in.imm & 0x1f
	c.SetX(int(in.rd), signExtend32(uint64(uint32(c.X(int(in.rs1)))<<shamt)))
	return nil
}

func execSRLIW(c *CPU, _ Memory, in *inst) *Trap {
	shamt := in.imm & 0x1f
	c.SetX(int(in.rd), signExtend32(uint64(uint32(c.X(int(in.rs1)))>>shamt)))
	return nil
}

func execSRAIW(c *CPU, _ Memory, in *inst) *Trap {
	shamt := in.imm & 0x1f
	c.SetX(int(in.rd), signExtend32(uint64(uint32(int32(uint32(c.X(int(in.rs1))))>>shamt))))
	return nil
}

// Branches compare rs1/rs2 and, taken, set pc relative to the branch
// instruction's own address, which is c.PC() at the point the handler
// runs, since Tick only advances pc after the handler returns without
// having touched it itself.

func execBranch(c *CPU, in *inst, taken bool) {
	if taken {
		c.pc = c.PC() + in.imm
	}
}

func execBEQ(c *CPU, _ Memory, in *inst) *Trap {
	execBranch(c, in, c.X(int(in.rs1)) == c.X(int(in.rs2)))
	return nil
}

func execBNE(c *CPU, _ Memory, in *inst) *Trap {
	execBranch(c, in, c.X(int(in.rs1)) != c.X(int(in.rs2)))
	return nil
}

func execBLT(c *CPU, _ Memory, in *inst) *Trap {
	execBranch(c, in, int64(c.X(int(in.rs1))) < int64(c.X(int(in.rs2))))
	return nil
}

func execBGE(c *CPU, _ Memory, in *inst) *Trap {
	execBranch(c, in, int64(c.X(int(in.rs1))) >= int64(c.X(int(in.rs2))))
	return nil
}

func execBLTU(c *CPU, _ Memory, in *inst) *Trap {
	execBranch(c, in, c.X(int(in.rs1)) < c.X(int(in.rs2)))
	return nil
}

func execBGEU(c *CPU, _ Memory, in *inst) *Trap {
	execBranch(c, in, c.X(int(in.rs1)) >= c.X(int(in.rs2)))
	return nil
}

// Jumps: JAL/JALR write the return address then set pc from the
// instruction's own address (JAL) or from rs1 (JALR).

func execJAL(c *CPU, _ Memory, in *inst) *Trap {
	pc := c.PC()
	c.SetX(int(in.rd), pc+in.length)
	c.pc = pc + in.imm
	return nil
}

func execJALR(c *CPU, _ Memory, in *inst) *Trap {
	pc := c.PC()
	target := (c.X(int(in.rs1)) + in.imm) &^ 1
	c.SetX(int(in.rd), pc+in.length)
	c.pc = target
	return nil
}

func execLUI(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), in.imm)
	return nil
}

func execAUIPC(c *CPU, _ Memory, in *inst) *Trap {
	c.SetX(int(in.rd), c.PC()+in.imm)
	return nil
}

// Loads read 1/2/4/8 bytes at x[rs1]+imm, extending to 64 bits.

func execLB(c *CPU, m Memory, in *inst) *Trap {
	v, t := m.ReadByte(c.X(int(in.rs1)) + in.imm)
	if t != nil {
		return t
	}
	c.SetX(int(in.rd), signExtend(uint64(v), 7))
	return nil
}

func execLBU(c *CPU, m Memory, in *inst) *Trap {
	v, t := m.ReadByte(c.X(int(in.rs1)) + in.imm)
	if t != nil {
		return t
	}
	c.SetX(int(in.rd), uint64(v))
	return nil
}

func execLH(c *CPU, m Memory, in *inst) *Trap {
	v, t := m.ReadHalf(c.X(int(in.rs1)) + in.imm)
	if t != nil {
		return t
	}
	c.SetX(int(in.rd), signExtend(uint64(v), 15))
	return nil
}

func execLHU(c *CPU, m Memory, in *inst) *Trap {
	v, t := m.ReadHalf(c.X(int(in.rs1)) + in.imm)
	if t != nil {
		return t
	}
	c.SetX(int(in.rd), uint64(v))
	return nil
}

func execLW(c *CPU, m Memory, in *inst) *Trap {
	v, t := m.ReadWord(c.X(int(in.rs1)) + in.imm)
	if t != nil {
		return t
	}
	c.SetX(int(in.rd), signExtend(uint64(v), 31))
	return nil
}

func execLWU(c *CPU, m Memory, in *inst) *Trap {
	v, t := m.ReadWord(c.X(int(in.rs1)) + in.imm)
	if t != nil {
		return t
	}
	c.SetX(int(in.rd), uint64(v))
	return nil
}

func execLD(c *CPU, m Memory, in *inst) *Trap {
	v, t := m.ReadDouble(c.X(int(in.rs1)) + in.imm)
	if t != nil {
		return t
	}
	c.SetX(int(in.rd), v)
	return nil
}

// Stores write the low 1/2/4/8 bytes of x[rs2].

func execSB(c *CPU, m Memory, in *inst) *Trap {
	return m.WriteByte(c.X(int(in.rs1))+in.imm, uint8(c.X(int(in.rs2))))
}

func execSH(c *CPU, m Memory, in *inst) *Trap {
	return m.WriteHalf(c.X(int(in.rs1))+in.imm, uint16(c.X(int(in.rs2))))
}

func execSW(c *CPU, m Memory, in *inst) *Trap {
	return m.WriteWord(c.X(int(in.rs1))+in.imm, uint32(c.X(int(in.rs2))))
}

func execSD(c *CPU, m Memory, in *inst) *Trap {
	return m.WriteDouble(c.X(int(in.rs1))+in.imm, c.X(int(in.rs2)))
}

// System instructions: ECALL delegates to the host hook if one is
// installed; EBREAK, FENCE, FENCE.I, SFENCE.VMA and WFI are no-ops in this
// single-hart, non-virtual-memory core.

func execECALL(c *CPU, m Memory, in *inst) *Trap {
	if c.ecallHandler == nil {
		return nil
	}
	return c.ecallHandler(c, m, c.PC())
}

func execEBREAK(_ *CPU, _ Memory, _ *inst) *Trap {
	return nil
}

func execFence(_ *CPU, _ Memory, _ *inst) *Trap {
	return nil
}

func execSFENCEVMA(_ *CPU, _ Memory, _ *inst) *Trap {
	return nil
}

func execWFI(_ *CPU, _ Memory, _ *inst) *Trap {
	return nil
}

// execMRET returns from machine mode: pc <- mepc, and mstatus.MIE <-
// mstatus.MPIE, MPIE <- 1, MPP <- 0, MPRV <- 0. Bit positions per the
// privileged spec: MIE=3, MPIE=7, MPP=[12:11], MPRV=17.
func execMRET(c *CPU, _ Memory, _ *inst) *Trap {
	const (
		mieBit  = 1 << 3
		mpieBit = 1 << 7
		mppMask = 0x3 << 11
		mprvBit = 1 << 17
	)
	status := c.csr[CSRMstatus]
	mpie := status & mpieBit
	status &^= mieBit
	if mpie != 0 {
		status |= mieBit
	}
	status |= mpieBit
	status &^= mppMask
	status &^= mprvBit
	c.csr[CSRMstatus] = status
	c.pc = c.csr[CSRMepc]
	return nil
}

// CSR ops read the addressed CSR into x[rd] then write back per the op.
// Writes to x0 are discarded by the zero-restore at the end of Tick(), so
// no special casing is needed here for CSRRW x0, ...: SetX already no-ops
// the write to x0, matching "writes to x0 are discarded implicitly".

func execCSRRW(c *CPU, _ Memory, in *inst) *Trap {
	addr := uint16(in.imm)
	old := c.ReadCSR(addr)
	c.WriteCSR(addr, c.X(int(in.rs1)))
	c.SetX(int(in.rd), old)
	return nil
}

func execCSRRS(c *CPU, _ Memory, in *inst) *Trap {
	addr := uint16(in.imm)
	old := c.ReadCSR(addr)
	if in.rs1 != 0 {
		c.WriteCSR(addr, old|c.X(int(in.rs1)))
	}
	c.SetX(int(in.rd), old)
	return nil
}

func execCSRRC(c *CPU, _ Memory, in *inst) *Trap {
	addr := uint16(in.imm)
	old := c.ReadCSR(addr)
	if in.rs1 != 0 {
		c.WriteCSR(addr, old&^c.X(int(in.rs1)))
	}
	c.SetX(int(in.rd), old)
	return nil
}

func execCSRRWI(c *CPU, _ Memory, in *inst) *Trap {
	addr := uint16(in.imm)
	old := c.ReadCSR(addr)
	c.WriteCSR(addr, in.rs1)
	c.SetX(int(in.rd), old)
	return nil
}

func execCSRRSI(c *CPU, _ Memory, in *inst) *Trap {
	addr := uint16(in.imm)
	old := c.ReadCSR(addr)
	if in.rs1 != 0 {
		c.WriteCSR(addr, old|in.rs1)
	}
	c.SetX(int(in.rd), old)
	return nil
}

func execCSRRCI(c *CPU, _ Memory, in *inst) *Trap {
	addr := uint16(in.imm)
	old := c.ReadCSR(addr)
	if in.rs1 != 0 {
		c.WriteCSR(addr, old&^in.rs1)
	}
	c.SetX(int(in.rd), old)
	return nil
}
