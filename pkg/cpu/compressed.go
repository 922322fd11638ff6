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

// expandCompressed rewrites a 16-bit compressed halfword into the canonical
// 32-bit encoding of the equivalent base instruction, which the caller
// then hands to decode() exactly as if it had been fetched directly.
// Because both paths run through the same decode table and the same
// handlers, a compressed instruction and its expansion produce identical
// architectural state apart from the pc advance.
//
// Reserved encodings return the 0xFFFFFFFF sentinel so decode() reports
// IllegalInstruction. Bit-scatter formulas are transcribed from the RVC
// table (riscv-spec-v2.2.pdf §16.8).
func expandCompressed(in uint16) uint32 {
	if in == 0 {
		return 0xFFFFFFFF
	}

	switch in>>11&0x1c | in&0x3 {
	case 0x00: // C.ADDI4SPN (RES, nzuimm=0)
		imm, r := decodeCIW(in)
		imm = imm&0xc0>>2 | imm&0x3c<<4 | imm&0x2<<1 | imm&0x1<<3
		if imm == 0 {
			return 0xFFFFFFFF
		}
		return encodeI(opOpImm, 0, uint32(r), regSP, imm)
	case 0x04: // C.FLD (RV32/64); C.LQ (RV128)
		imm, r1, r2 := decodeCL(in)
		imm = (imm<<6 | imm<<1) & 0xf8
		return encodeI(opLoadFP, 0x3, uint32(r2), uint32(r1), imm)
	case 0x08: // C.LW
		imm, r1, r2 := decodeCL(in)
		imm = (imm<<5 | imm) & 0x3e << 1
		return encodeI(opLoad, 0x2, uint32(r2), uint32(r1), imm)
	case 0x0C: // C.LD (RV64)
		imm, r1, r2 := decodeCL(in)
		imm = (imm<<6 | imm<<1) & 0xf8
		return encodeI(opLoad, 0x3, uint32(r2), uint32(r1), imm)
	case 0x10: // reserved
		return 0xFFFFFFFF
	case 0x14: // C.FSD (RV32/64); C.SQ (RV128)
		imm, r1, r2 := decodeCS(in)
		imm = (imm<<5 | imm) << 1 & 0xf8
		return encodeS(opStoreFP, 0x3, uint32(r1), uint32(r2), imm)
	case 0x18: // C.SW
		imm, r1, r2 := decodeCS(in)
		imm = (imm<<5 | imm) << 1 & 0x7c
		return encodeS(opStore, 0x2, uint32(r1), uint32(r2), imm)
	case 0x1C: // C.SD (RV64)
		imm, r1, r2 := decodeCS(in)
		imm = (imm<<5 | imm) << 1 & 0xf8
		return encodeS(opStore, 0x3, uint32(r1), uint32(r2), imm)
	case 0x01: // C.NOP; C.ADDI (HINT, nzimm=0)
		imm, r := decodeCI(in)
		return encodeI(opOpImm, 0, uint32(r), uint32(r), signExtend(imm, 5))
	case 0x05: // C.ADDIW (RV64; RES, rd=0)
		imm, r := decodeCI(in)
		if r == 0 {
			return 0xFFFFFFFF
		}
		imm = signExtend(imm, 5)
		return encodeI(opOpImm32, 0, uint32(r), uint32(r), imm)
	case 0x09: // C.LI (HINT, rd=0)
		imm, r := decodeCI(in)
		return encodeI(opOpImm, 0, uint32(r), regZero, signExtend(imm, 5))
	case 0x0D: // C.ADDI16SP (RES, nzimm=0); C.LUI (RES, nzimm=0; HINT, rd=0)
		imm, r := decodeCI(in)
		if r != 2 {
			if imm == 0 {
				return 0xFFFFFFFF
			}
			return encodeU(opLui, uint32(r), signExtend(imm<<12, 17))
		}
		imm = signExtend(imm&0x20<<4|imm&0x10|imm&0x8<<3|imm&0x6<<6|imm&0x1<<5, 9)
		if imm == 0 {
			return 0xFFFFFFFF
		}
		return encodeI(opOpImm, 0, regSP, regSP, imm)
	case 0x11:
		switch in >> 10 & 0x3 {
		case 0x00: // C.SRLI
			shamt, r := decodeShiftCB(in)
			return encodeI(opOpImm, 0x5, uint32(r), uint32(r), shamt&0x3f)
		case 0x01: // C.SRAI
			shamt, r := decodeShiftCB(in)
			return encodeI(opOpImm, 0x5, uint32(r), uint32(r), 0x400|shamt&0x3f)
		case 0x02: // C.ANDI
			imm, r := decodeShiftCB(in)
			return encodeI(opOpImm, 0x7, uint32(r), uint32(r), signExtend(imm, 5))
		}
		_, r1, r2 := decodeCS(in)
		switch (in >> 8 & 0x1c) | (in >> 5 & 0x3) {
		case 0xc: // C.SUB
			return encodeR(opOp, 0x0, 0x20, uint32(r1), uint32(r1), uint32(r2))
		case 0xd: // C.XOR
			return encodeR(opOp, 0x4, 0x00, uint32(r1), uint32(r1), uint32(r2))
		case 0xe: // C.OR
			return encodeR(opOp, 0x6, 0x00, uint32(r1), uint32(r1), uint32(r2))
		case 0xf: // C.AND
			return encodeR(opOp, 0x7, 0x00, uint32(r1), uint32(r1), uint32(r2))
		case 0x1c: // C.SUBW
			return encodeR(opOp32, 0x0, 0x20, uint32(r1), uint32(r1), uint32(r2))
		case 0x1d: // C.ADDW
			return encodeR(opOp32, 0x0, 0x00, uint32(r1), uint32(r1), uint32(r2))
		}
		return 0xFFFFFFFF // reserved (0x1e, 0x1f)
	case 0x15: // C.J
		imm := decodeCJ(in)
		imm = signExtend(imm&0x200>>5|imm&0x40<<4|imm&0x5a0<<1|imm&0x10<<3|imm&0xe|imm&1<<5, 11)
		return encodeJ(opJal, regZero, imm)
	case 0x19: // C.BEQZ
		imm, r := decodeCB(in)
		imm = imm&0x80<<1 | imm&0x60>>2 | imm&0x18<<3 | imm&0x6 | imm&0x1<<5
		imm = signExtend(imm, 8)
		return encodeB(opBranch, 0x0, uint32(r), regZero, imm)
	case 0x1D: // C.BNEZ
		imm, r := decodeCB(in)
		imm = imm&0x80<<1 | imm&0x60>>2 | imm&0x18<<3 | imm&0x6 | imm&0x1<<5
		imm = signExtend(imm, 8)
		return encodeB(opBranch, 0x1, uint32(r), regZero, imm)
	case 0x02: // C.SLLI (HINT, rd=0)
		shamt, r := decodeCI(in)
		return encodeI(opOpImm, 0x1, uint32(r), uint32(r), shamt&0x3f)
	case 0x06: // C.FLDSP
		imm, r := decodeCI(in)
		imm = (imm<<6 | imm) & 0x1f8
		return encodeI(opLoadFP, 0x3, uint32(r), regSP, imm)
	case 0x0A: // C.LWSP (RES, rd=0)
		imm, r := decodeCI(in)
		if r == 0 {
			return 0xFFFFFFFF
		}
		imm = (imm<<6 | imm) & 0xfc
		return encodeI(opLoad, 0x2, uint32(r), regSP, imm)
	case 0x0E: // C.LDSP (RV64; RES, rd=0)
		imm, r := decodeCI(in)
		if r == 0 {
			return 0xFFFFFFFF
		}
		imm = (imm<<6 | imm) & 0x1f8
		return encodeI(opLoad, 0x3, uint32(r), regSP, imm)
	case 0x12:
		r1, r2 := decodeCR(in)
		b := in & 0x1000
		switch {
		case b == 0 && r2 == 0: // C.JR (RES, rs1=0)
			if r1 == 0 {
				return 0xFFFFFFFF
			}
			return encodeI(opJalr, 0, regZero, uint32(r1), 0)
		case b == 0: // C.MV
			return encodeR(opOp, 0, 0, uint32(r1), regZero, uint32(r2))
		case b == 0x1000 && r1 == 0 && r2 == 0: // C.EBREAK
			return encodeI(opSystem, 0, 0, 0, 1)
		case b == 0x1000 && r2 == 0: // C.JALR
			return encodeI(opJalr, 0, regRA, uint32(r1), 0)
		default: // C.ADD
			return encodeR(opOp, 0, 0, uint32(r1), uint32(r1), uint32(r2))
		}
	case 0x16: // C.FSDSP
		imm, r := decodeCSS(in)
		imm = (imm<<6 | imm) & 0x1f8
		return encodeS(opStoreFP, 0x3, regSP, uint32(r), imm)
	case 0x1A: // C.SWSP
		imm, r := decodeCSS(in)
		imm = (imm<<6 | imm) & 0xfc
		return encodeS(opStore, 0x2, regSP, uint32(r), imm)
	case 0x1E: // C.SDSP (RV64)
		imm, r := decodeCSS(in)
		imm = (imm<<6 | imm) & 0x1f8
		return encodeS(opStore, 0x3, regSP, uint32(r), imm)
	}

	return 0xFFFFFFFF
}

const (
	regZero uint32 = 0
	regRA   uint32 = 1
	regSP   uint32 = 2
)

func decodeCR(in uint16) (r1, r2 uint64) {
	return uint64(in >> 7 & 0x1f), uint64(in >> 2 & 0x1f)
}

func decodeCI(in uint16) (imm, r uint64) {
	return uint64(in>>7&0x20 | in>>2&0x1f), uint64(in >> 7 & 0x1f)
}

func decodeCSS(in uint16) (imm, r uint64) {
	return uint64(in >> 7 & 0x3f), uint64(in >> 2 & 0x1f)
}

// rvcRegOffset maps RVC's 3-bit compressed register numbers onto the full
// 5-bit register space (x8..x15).
const rvcRegOffset = 8

func decodeCIW(in uint16) (imm, r uint64) {
	return uint64(in >> 5 & 0xff), uint64(in>>2&0x7) + rvcRegOffset
}

func decodeCL(in uint16) (imm, r1, r2 uint64) {
	return uint64(in>>8&0x1c | in>>5&0x3), uint64(in>>7&0x7) + rvcRegOffset, uint64(in>>2&0x7) + rvcRegOffset
}

func decodeCS(in uint16) (imm, r1, r2 uint64) {
	return uint64(in>>8&0x1c | in>>5&0x3), uint64(in>>7&0x7) + rvcRegOffset, uint64(in>>2&0x7) + rvcRegOffset
}

func decodeCB(in uint16) (imm, r uint64) {
	return uint64(in>>5&0xe0 | in>>2&0x1f), uint64(in>>7&0x7) + rvcRegOffset
}

// decodeShiftCB decodes the CB specialization used by the shift-immediate
// compressed forms, whose shift amount includes a bit scattered up at
// in[12].
func decodeShiftCB(in uint16) (shamt, r uint64) {
	return uint64(in&0x1000>>7 | in>>2&0x1f), uint64(in>>7&0x7) + rvcRegOffset
}

func decodeCJ(in uint16) (offset uint64) {
	return uint64((in >> 2) & 0x7ff)
}

// encodeR/encodeI/encodeS/encodeB/encodeU/encodeJ build a canonical 32-bit
// instruction word from its fields, the inverse of parseR/parseI/... in
// fields.go. imm values are pre-shifted/sign-extended by the caller; only
// the bits each format actually encodes are consulted.
func encodeR(opcode, funct3, funct7, rd, rs1, rs2 uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeI(opcode, funct3, rd, rs1 uint32, imm uint64) uint32 {
	return uint32(imm&0xfff)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeS(opcode, funct3, rs1, rs2 uint32, imm uint64) uint32 {
	i := uint32(imm)
	return (i>>5&0x7f)<<25 | rs2<<20 | rs1<<15 | funct3<<12 | (i&0x1f)<<7 | opcode
}

func encodeB(opcode, funct3, rs1, rs2 uint32, imm uint64) uint32 {
	i := uint32(imm)
	return (i>>12&0x1)<<31 | (i>>5&0x3f)<<25 | rs2<<20 | rs1<<15 | funct3<<12 | (i>>1&0xf)<<8 | (i>>11&0x1)<<7 | opcode
}

func encodeU(opcode, rd uint32, imm uint64) uint32 {
	return uint32(imm)&0xfffff000 | rd<<7 | opcode
}

func encodeJ(opcode, rd uint32, imm uint64) uint32 {
	i := uint32(imm)
	return (i>>20&0x1)<<31 | (i>>1&0x3ff)<<21 | (i>>11&0x1)<<20 | (i>>12&0xff)<<12 | rd<<7 | opcode
}
