package cpu

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// Classification specs for the RVC expander: feed a halfword, assert on
// the base instruction it becomes.
var _ = Describe("expandCompressed", func() {
	It("treats an all-zero halfword as a reserved encoding", func() {
		Expect(expandCompressed(0x0000)).To(Equal(uint32(0xFFFFFFFF)))
	})

	It("expands C.NOP to addi x0, x0, 0", func() {
		word := expandCompressed(0x0001)
		in, trap := decode(word)
		Expect(trap).To(BeNil())
		Expect(in.name).To(Equal("addi"))
		Expect(in.rd).To(BeNumerically("==", 0))
		Expect(in.rs1).To(BeNumerically("==", 0))
		Expect(in.imm).To(BeNumerically("==", 0))
	})

	It("expands C.MV rd, rs2 to add rd, x0, rs2", func() {
		// in[15:13]=100 (funct3), in[12]=0, rd/rs1=1, rs2=2, quadrant=2.
		word := expandCompressed(0x808A)
		in, trap := decode(word)
		Expect(trap).To(BeNil())
		Expect(in.name).To(Equal("add"))
		Expect(in.rd).To(BeNumerically("==", 1))
		Expect(in.rs1).To(BeNumerically("==", 0))
		Expect(in.rs2).To(BeNumerically("==", 2))
	})

	It("treats C.JR with rs1=0 as reserved", func() {
		// same funct3/quadrant as C.MV but with rd/rs1=0 and rs2=0.
		Expect(expandCompressed(0x8002)).To(Equal(uint32(0xFFFFFFFF)))
	})

	It("expands C.ADDI4SPN with a zero immediate as reserved", func() {
		Expect(expandCompressed(0x0000)).To(Equal(uint32(0xFFFFFFFF)))
	})

	It("round-trips through decode() to an IllegalInstruction trap for a reserved form", func() {
		_, trap := decode(expandCompressed(0x8002))
		Expect(trap).NotTo(BeNil())
		Expect(trap.Kind).To(Equal(IllegalInstruction))
	})
})
