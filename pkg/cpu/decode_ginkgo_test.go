package cpu

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// Classification specs for the main decoder: feed an encoded word, assert
// on the named case it lands in.
var _ = Describe("decode", func() {
	It("reports IllegalInstruction for an unassigned opcode", func() {
		_, trap := decode(0x0000007F)
		Expect(trap).NotTo(BeNil())
		Expect(trap.Kind).To(Equal(IllegalInstruction))
		Expect(trap.Payload).To(Equal(uint64(0x0000007F)))
	})

	It("reports IllegalInstruction for the reserved-compressed sentinel", func() {
		_, trap := decode(0xFFFFFFFF)
		Expect(trap).NotTo(BeNil())
		Expect(trap.Kind).To(Equal(IllegalInstruction))
	})

	It("separates add from mul on funct7", func() {
		in, trap := decode(encodeR(opOp, 0x0, 0x00, 1, 2, 3))
		Expect(trap).To(BeNil())
		Expect(in.name).To(Equal("add"))

		in, trap = decode(encodeR(opOp, 0x0, 0x01, 1, 2, 3))
		Expect(trap).To(BeNil())
		Expect(in.name).To(Equal("mul"))

		in, trap = decode(encodeR(opOp, 0x0, 0x20, 1, 2, 3))
		Expect(trap).To(BeNil())
		Expect(in.name).To(Equal("sub"))
	})

	It("separates srli from srai on the immediate's high bits", func() {
		in, trap := decode(encodeI(opOpImm, 0x5, 1, 2, 0x01F))
		Expect(trap).To(BeNil())
		Expect(in.name).To(Equal("srli"))

		in, trap = decode(encodeI(opOpImm, 0x5, 1, 2, 0x41F))
		Expect(trap).To(BeNil())
		Expect(in.name).To(Equal("srai"))
	})

	It("rejects a shift immediate with a malformed funct7", func() {
		_, trap := decode(encodeI(opOpImm, 0x1, 1, 2, 0x800))
		Expect(trap).NotTo(BeNil())
		Expect(trap.Kind).To(Equal(IllegalInstruction))
	})

	It("dispatches AMO on funct5 and the width field", func() {
		in, trap := decode(encodeR(opAMO, 0x2, 0x00<<2, 1, 2, 3))
		Expect(trap).To(BeNil())
		Expect(in.name).To(Equal("amoadd.w"))

		in, trap = decode(encodeR(opAMO, 0x3, 0x1C<<2, 1, 2, 3))
		Expect(trap).To(BeNil())
		Expect(in.name).To(Equal("amomaxu.d"))

		_, trap = decode(encodeR(opAMO, 0x0, 0x00, 1, 2, 3))
		Expect(trap).NotTo(BeNil())
		Expect(trap.Kind).To(Equal(IllegalInstruction))
	})

	It("matches the system instructions on funct3 and word[31:20]", func() {
		in, trap := decode(0x00000073)
		Expect(trap).To(BeNil())
		Expect(in.name).To(Equal("ecall"))

		in, trap = decode(0x00100073)
		Expect(trap).To(BeNil())
		Expect(in.name).To(Equal("ebreak"))

		in, trap = decode(0x30200073)
		Expect(trap).To(BeNil())
		Expect(in.name).To(Equal("mret"))
	})

	It("extracts the CSR address into the immediate field", func() {
		in, trap := decode(encodeI(opSystem, 0x1, 10, 5, uint64(CSRMstatus)))
		Expect(trap).To(BeNil())
		Expect(in.name).To(Equal("csrrw"))
		Expect(in.imm).To(Equal(uint64(CSRMstatus)))
		Expect(in.rd).To(BeNumerically("==", 10))
		Expect(in.rs1).To(BeNumerically("==", 5))
	})

	It("splits the OP-FP space between single and double on funct7 bit 0", func() {
		in, trap := decode(encodeR(opOpFP, 0, 0x00, 1, 2, 3))
		Expect(trap).To(BeNil())
		Expect(in.name).To(Equal("fadd.s"))

		in, trap = decode(encodeR(opOpFP, 0, 0x01, 1, 2, 3))
		Expect(trap).To(BeNil())
		Expect(in.name).To(Equal("fadd.d"))
	})

	It("decodes the fused multiply-add opcodes with rs3", func() {
		in, trap := decode(encodeR(opMadd, 0, 0, 1, 2, 3) | 4<<27)
		Expect(trap).To(BeNil())
		Expect(in.name).To(Equal("fmadd.s"))
		Expect(in.rs3).To(BeNumerically("==", 4))
	})
})
