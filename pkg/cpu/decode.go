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

// Base opcodes (word[6:0]), named the way the ISA manual names them.
const (
	opLoad     uint32 = 0x03
	opLoadFP   uint32 = 0x07
	opMiscMem  uint32 = 0x0F
	opOpImm    uint32 = 0x13
	opAuipc    uint32 = 0x17
	opOpImm32  uint32 = 0x1B
	opStore    uint32 = 0x23
	opStoreFP  uint32 = 0x27
	opAMO      uint32 = 0x2F
	opOp       uint32 = 0x33
	opLui      uint32 = 0x37
	opOp32     uint32 = 0x3B
	opMadd     uint32 = 0x43
	opMsub     uint32 = 0x47
	opNmsub    uint32 = 0x4B
	opNmadd    uint32 = 0x4F
	opOpFP     uint32 = 0x53
	opBranch   uint32 = 0x63
	opJalr     uint32 = 0x67
	opJal      uint32 = 0x6F
	opSystem   uint32 = 0x73
)

// decode classifies a canonical 32-bit instruction word into a handler plus
// its operand fields. It never itself executes anything.
// word == 0xFFFFFFFF is the reserved-encoding sentinel the compressed
// expander produces for a reserved compressed form; it always decodes to
// IllegalInstruction so that path doesn't need special-casing at every
// call site.
func decode(word uint32) (*inst, *Trap) {
	if word == 0xFFFFFFFF {
		return nil, trap(IllegalInstruction, uint64(word))
	}

	opcode := word & 0x7f
	funct3 := word >> 12 & 0x7
	funct7 := word >> 25 & 0x7f

	switch opcode {
	case opLui:
		rd, imm := parseU(word)
		return &inst{fn: execLUI, name: "lui", rd: rd, imm: imm}, nil

	case opAuipc:
		rd, imm := parseU(word)
		return &inst{fn: execAUIPC, name: "auipc", rd: rd, imm: imm}, nil

	case opJal:
		rd, imm := parseJ(word)
		return &inst{fn: execJAL, name: "jal", rd: rd, imm: imm}, nil

	case opJalr:
		rd, rs1, imm := parseI(word)
		if funct3 != 0 {
			break
		}
		return &inst{fn: execJALR, name: "jalr", rd: rd, rs1: rs1, imm: imm}, nil

	case opBranch:
		rs1, rs2, imm := parseB(word)
		fn, name := decodeBranch(funct3)
		if fn == nil {
			break
		}
		return &inst{fn: fn, name: name, rs1: rs1, rs2: rs2, imm: imm}, nil

	case opLoad:
		rd, rs1, imm := parseI(word)
		fn, name := decodeLoad(funct3)
		if fn == nil {
			break
		}
		return &inst{fn: fn, name: name, rd: rd, rs1: rs1, imm: imm}, nil

	case opStore:
		rs1, rs2, imm := parseS(word)
		fn, name := decodeStore(funct3)
		if fn == nil {
			break
		}
		return &inst{fn: fn, name: name, rs1: rs1, rs2: rs2, imm: imm}, nil

	case opOpImm:
		rd, rs1, imm := parseI(word)
		fn, name, ok := decodeOpImm(funct3, funct7, word)
		if !ok {
			break
		}
		return &inst{fn: fn, name: name, rd: rd, rs1: rs1, imm: imm}, nil

	case opOpImm32:
		rd, rs1, imm := parseI(word)
		fn, name, ok := decodeOpImm32(funct3, funct7)
		if !ok {
			break
		}
		return &inst{fn: fn, name: name, rd: rd, rs1: rs1, imm: imm}, nil

	case opOp:
		rd, rs1, rs2 := parseR(word)
		fn, name, ok := decodeOp(funct3, funct7)
		if !ok {
			break
		}
		return &inst{fn: fn, name: name, rd: rd, rs1: rs1, rs2: rs2}, nil

	case opOp32:
		rd, rs1, rs2 := parseR(word)
		fn, name, ok := decodeOp32(funct3, funct7)
		if !ok {
			break
		}
		return &inst{fn: fn, name: name, rd: rd, rs1: rs1, rs2: rs2}, nil

	case opMiscMem:
		return &inst{fn: execFence, name: "fence"}, nil

	case opAMO:
		return decodeAMO(word, funct3, funct7)

	case opSystem:
		return decodeSystem(word, funct3)

	case opLoadFP:
		rd, rs1, imm := parseI(word)
		switch funct3 {
		case 0x2:
			return &inst{fn: execFLW, name: "flw", rd: rd, rs1: rs1, imm: imm}, nil
		case 0x3:
			return &inst{fn: execFLD, name: "fld", rd: rd, rs1: rs1, imm: imm}, nil
		}

	case opStoreFP:
		rs1, rs2, imm := parseS(word)
		switch funct3 {
		case 0x2:
			return &inst{fn: execFSW, name: "fsw", rs1: rs1, rs2: rs2, imm: imm}, nil
		case 0x3:
			return &inst{fn: execFSD, name: "fsd", rs1: rs1, rs2: rs2, imm: imm}, nil
		}

	case opMadd, opMsub, opNmsub, opNmadd:
		return decodeFMA(word, opcode, funct7)

	case opOpFP:
		return decodeOpFP(word, funct7, funct3)
	}

	return nil, trap(IllegalInstruction, uint64(word))
}

func decodeBranch(funct3 uint32) (handlerFunc, string) {
	switch funct3 {
	case 0x0:
		return execBEQ, "beq"
	case 0x1:
		return execBNE, "bne"
	case 0x4:
		return execBLT, "blt"
	case 0x5:
		return execBGE, "bge"
	case 0x6:
		return execBLTU, "bltu"
	case 0x7:
		return execBGEU, "bgeu"
	}
	return nil, ""
}

func decodeLoad(funct3 uint32) (handlerFunc, string) {
	switch funct3 {
	case 0x0:
		return execLB, "lb"
	case 0x1:
		return execLH, "lh"
	case 0x2:
		return execLW, "lw"
	case 0x3:
		return execLD, "ld"
	case 0x4:
		return execLBU, "lbu"
	case 0x5:
		return execLHU, "lhu"
	case 0x6:
		return execLWU, "lwu"
	}
	return nil, ""
}

func decodeStore(funct3 uint32) (handlerFunc, string) {
	switch funct3 {
	case 0x0:
		return execSB, "sb"
	case 0x1:
		return execSH, "sh"
	case 0x2:
		return execSW, "sw"
	case 0x3:
		return execSD, "sd"
	}
	return nil, ""
}

func decodeOpImm(funct3, funct7 uint32, word uint32) (handlerFunc, string, bool) {
	switch funct3 {
	case 0x0:
		return execADDI, "addi", true
	case 0x1:
		if funct7>>1 != 0 {
			return nil, "", false
		}
		return execSLLI, "slli", true
	case 0x2:
		return execSLTI, "slti", true
	case 0x3:
		return execSLTIU, "sltiu", true
	case 0x4:
		return execXORI, "xori", true
	case 0x5:
		switch funct7 >> 1 {
		case 0x00:
			return execSRLI, "srli", true
		case 0x10:
			return execSRAI, "srai", true
		}
		return nil, "", false
	case 0x6:
		return execORI, "ori", true
	case 0x7:
		return execANDI, "andi", true
	}
	return nil, "", false
}

func decodeOpImm32(funct3, funct7 uint32) (handlerFunc, string, bool) {
	switch funct3 {
	case 0x0:
		return execADDIW, "addiw", true
	case 0x1:
		if funct7 != 0 {
			return nil, "", false
		}
		return execSLLIW, "slliw", true
	case 0x5:
		switch funct7 {
		case 0x00:
			return execSRLIW, "srliw", true
		case 0x20:
			return execSRAIW, "sraiw", true
		}
	}
	return nil, "", false
}

func decodeOp(funct3, funct7 uint32) (handlerFunc, string, bool) {
	if funct7 == 0x01 {
		switch funct3 {
		case 0x0:
			return execMUL, "mul", true
		case 0x1:
			return execMULH, "mulh", true
		case 0x2:
			return execMULHSU, "mulhsu", true
		case 0x3:
			return execMULHU, "mulhu", true
		case 0x4:
			return execDIV, "div", true
		case 0x5:
			return execDIVU, "divu", true
		case 0x6:
			return execREM, "rem", true
		case 0x7:
			return execREMU, "remu", true
		}
		return nil, "", false
	}
	switch funct3 {
	case 0x0:
		switch funct7 {
		case 0x00:
			return execADD, "add", true
		case 0x20:
			return execSUB, "sub", true
		}
	case 0x1:
		return execSLL, "sll", true
	case 0x2:
		return execSLT, "slt", true
	case 0x3:
		return execSLTU, "sltu", true
	case 0x4:
		return execXOR, "xor", true
	case 0x5:
		switch funct7 {
		case 0x00:
			return execSRL, "srl", true
		case 0x20:
			return execSRA, "sra", true
		}
	case 0x6:
		return execOR, "or", true
	case 0x7:
		return execAND, "and", true
	}
	return nil, "", false
}

func decodeOp32(funct3, funct7 uint32) (handlerFunc, string, bool) {
	if funct7 == 0x01 {
		switch funct3 {
		case 0x0:
			return execMULW, "mulw", true
		case 0x4:
			return execDIVW, "divw", true
		case 0x5:
			return execDIVUW, "divuw", true
		case 0x6:
			return execREMW, "remw", true
		case 0x7:
			return execREMUW, "remuw", true
		}
		return nil, "", false
	}
	switch funct3 {
	case 0x0:
		switch funct7 {
		case 0x00:
			return execADDW, "addw", true
		case 0x20:
			return execSUBW, "subw", true
		}
	case 0x1:
		return execSLLW, "sllw", true
	case 0x5:
		switch funct7 {
		case 0x00:
			return execSRLW, "srlw", true
		case 0x20:
			return execSRAW, "sraw", true
		}
	}
	return nil, "", false
}

func decodeSystem(word uint32, funct3 uint32) (*inst, *Trap) {
	if funct3 == 0 {
		switch word >> 20 {
		case 0x0:
			return &inst{fn: execECALL, name: "ecall"}, nil
		case 0x1:
			return &inst{fn: execEBREAK, name: "ebreak"}, nil
		case 0x302:
			return &inst{fn: execMRET, name: "mret"}, nil
		case 0x105:
			return &inst{fn: execWFI, name: "wfi"}, nil
		}
		if word>>25 == 0x09 {
			return &inst{fn: execSFENCEVMA, name: "sfence.vma"}, nil
		}
		return nil, trap(IllegalInstruction, uint64(word))
	}

	csrAddr, rs, rd := parseCSR(word)
	switch funct3 {
	case 0x1:
		return &inst{fn: execCSRRW, name: "csrrw", rd: rd, rs1: rs, imm: uint64(csrAddr)}, nil
	case 0x2:
		return &inst{fn: execCSRRS, name: "csrrs", rd: rd, rs1: rs, imm: uint64(csrAddr)}, nil
	case 0x3:
		return &inst{fn: execCSRRC, name: "csrrc", rd: rd, rs1: rs, imm: uint64(csrAddr)}, nil
	case 0x5:
		return &inst{fn: execCSRRWI, name: "csrrwi", rd: rd, rs1: rs, imm: uint64(csrAddr)}, nil
	case 0x6:
		return &inst{fn: execCSRRSI, name: "csrrsi", rd: rd, rs1: rs, imm: uint64(csrAddr)}, nil
	case 0x7:
		return &inst{fn: execCSRRCI, name: "csrrci", rd: rd, rs1: rs, imm: uint64(csrAddr)}, nil
	}
	return nil, trap(IllegalInstruction, uint64(word))
}

func decodeAMO(word uint32, funct3, funct7 uint32) (*inst, *Trap) {
	rd, rs1, rs2 := parseR(word)
	funct5 := funct7 >> 2
	var width int
	switch funct3 {
	case 0x2:
		width = 32
	case 0x3:
		width = 64
	default:
		return nil, trap(IllegalInstruction, uint64(word))
	}
	fn, name, ok := decodeAMOOp(funct5, width)
	if !ok {
		return nil, trap(IllegalInstruction, uint64(word))
	}
	return &inst{fn: fn, name: name, rd: rd, rs1: rs1, rs2: rs2}, nil
}

func decodeAMOOp(funct5 uint32, width int) (handlerFunc, string, bool) {
	type entry struct {
		fn32, fn64 handlerFunc
		name       string
	}
	table := map[uint32]entry{
		0x00: {execAMOADDW, execAMOADDD, "amoadd"},
		0x01: {execAMOSWAPW, execAMOSWAPD, "amoswap"},
		0x02: {execLRW, execLRD, "lr"},
		0x03: {execSCW, execSCD, "sc"},
		0x04: {execAMOXORW, execAMOXORD, "amoxor"},
		0x08: {execAMOORW, execAMOORD, "amoor"},
		0x0C: {execAMOANDW, execAMOANDD, "amoand"},
		0x10: {execAMOMINW, execAMOMIND, "amomin"},
		0x14: {execAMOMAXW, execAMOMAXD, "amomax"},
		0x18: {execAMOMINUW, execAMOMINUD, "amominu"},
		0x1C: {execAMOMAXUW, execAMOMAXUD, "amomaxu"},
	}
	e, ok := table[funct5]
	if !ok {
		return nil, "", false
	}
	if width == 32 {
		return e.fn32, e.name + ".w", true
	}
	return e.fn64, e.name + ".d", true
}

func decodeFMA(word uint32, opcode, funct7 uint32) (*inst, *Trap) {
	rd, rs1, rs2, rs3 := parseR4(word)
	double := funct7&0x3 == 1
	var fn handlerFunc
	var name string
	switch opcode {
	case opMadd:
		fn, name = execFMADDS, "fmadd.s"
		if double {
			fn, name = execFMADDD, "fmadd.d"
		}
	case opMsub:
		fn, name = execFMSUBS, "fmsub.s"
		if double {
			fn, name = execFMSUBD, "fmsub.d"
		}
	case opNmsub:
		fn, name = execFNMSUBS, "fnmsub.s"
		if double {
			fn, name = execFNMSUBD, "fnmsub.d"
		}
	case opNmadd:
		fn, name = execFNMADDS, "fnmadd.s"
		if double {
			fn, name = execFNMADDD, "fnmadd.d"
		}
	}
	return &inst{fn: fn, name: name, rd: rd, rs1: rs1, rs2: rs2, rs3: rs3}, nil
}

func decodeOpFP(word uint32, funct7, funct3 uint32) (*inst, *Trap) {
	rd, rs1, rs2 := parseR(word)
	rm := funct3
	switch funct7 {
	case 0x00:
		return &inst{fn: execFADDS, name: "fadd.s", rd: rd, rs1: rs1, rs2: rs2}, nil
	case 0x04:
		return &inst{fn: execFSUBS, name: "fsub.s", rd: rd, rs1: rs1, rs2: rs2}, nil
	case 0x08:
		return &inst{fn: execFMULS, name: "fmul.s", rd: rd, rs1: rs1, rs2: rs2}, nil
	case 0x0C:
		return &inst{fn: execFDIVS, name: "fdiv.s", rd: rd, rs1: rs1, rs2: rs2}, nil
	case 0x2C:
		if rs2 != 0 {
			break
		}
		return &inst{fn: execFSQRTS, name: "fsqrt.s", rd: rd, rs1: rs1}, nil
	case 0x10:
		switch rm {
		case 0x0:
			return &inst{fn: execFSGNJS, name: "fsgnj.s", rd: rd, rs1: rs1, rs2: rs2}, nil
		case 0x1:
			return &inst{fn: execFSGNJNS, name: "fsgnjn.s", rd: rd, rs1: rs1, rs2: rs2}, nil
		case 0x2:
			return &inst{fn: execFSGNJXS, name: "fsgnjx.s", rd: rd, rs1: rs1, rs2: rs2}, nil
		}
	case 0x14:
		switch rm {
		case 0x0:
			return &inst{fn: execFMINS, name: "fmin.s", rd: rd, rs1: rs1, rs2: rs2}, nil
		case 0x1:
			return &inst{fn: execFMAXS, name: "fmax.s", rd: rd, rs1: rs1, rs2: rs2}, nil
		}
	case 0x60:
		switch rs2 {
		case 0x0:
			return &inst{fn: execFCVTWS, name: "fcvt.w.s", rd: rd, rs1: rs1}, nil
		case 0x1:
			return &inst{fn: execFCVTWUS, name: "fcvt.wu.s", rd: rd, rs1: rs1}, nil
		case 0x2:
			return &inst{fn: execFCVTLS, name: "fcvt.l.s", rd: rd, rs1: rs1}, nil
		case 0x3:
			return &inst{fn: execFCVTLUS, name: "fcvt.lu.s", rd: rd, rs1: rs1}, nil
		}
	case 0x70:
		switch rm {
		case 0x0:
			return &inst{fn: execFMVXW, name: "fmv.x.w", rd: rd, rs1: rs1}, nil
		case 0x1:
			return &inst{fn: execFCLASSS, name: "fclass.s", rd: rd, rs1: rs1}, nil
		}
	case 0x50:
		switch rm {
		case 0x0:
			return &inst{fn: execFLES, name: "fle.s", rd: rd, rs1: rs1, rs2: rs2}, nil
		case 0x1:
			return &inst{fn: execFLTS, name: "flt.s", rd: rd, rs1: rs1, rs2: rs2}, nil
		case 0x2:
			return &inst{fn: execFEQS, name: "feq.s", rd: rd, rs1: rs1, rs2: rs2}, nil
		}
	case 0x68:
		switch rs2 {
		case 0x0:
			return &inst{fn: execFCVTSW, name: "fcvt.s.w", rd: rd, rs1: rs1}, nil
		case 0x1:
			return &inst{fn: execFCVTSWU, name: "fcvt.s.wu", rd: rd, rs1: rs1}, nil
		case 0x2:
			return &inst{fn: execFCVTSL, name: "fcvt.s.l", rd: rd, rs1: rs1}, nil
		case 0x3:
			return &inst{fn: execFCVTSLU, name: "fcvt.s.lu", rd: rd, rs1: rs1}, nil
		}
	case 0x78:
		if rs2 == 0 {
			return &inst{fn: execFMVWX, name: "fmv.w.x", rd: rd, rs1: rs1}, nil
		}

	case 0x01:
		return &inst{fn: execFADDD, name: "fadd.d", rd: rd, rs1: rs1, rs2: rs2}, nil
	case 0x05:
		return &inst{fn: execFSUBD, name: "fsub.d", rd: rd, rs1: rs1, rs2: rs2}, nil
	case 0x09:
		return &inst{fn: execFMULD, name: "fmul.d", rd: rd, rs1: rs1, rs2: rs2}, nil
	case 0x0D:
		return &inst{fn: execFDIVD, name: "fdiv.d", rd: rd, rs1: rs1, rs2: rs2}, nil
	case 0x2D:
		if rs2 != 0 {
			break
		}
		return &inst{fn: execFSQRTD, name: "fsqrt.d", rd: rd, rs1: rs1}, nil
	case 0x11:
		switch rm {
		case 0x0:
			return &inst{fn: execFSGNJD, name: "fsgnj.d", rd: rd, rs1: rs1, rs2: rs2}, nil
		case 0x1:
			return &inst{fn: execFSGNJND, name: "fsgnjn.d", rd: rd, rs1: rs1, rs2: rs2}, nil
		case 0x2:
			return &inst{fn: execFSGNJXD, name: "fsgnjx.d", rd: rd, rs1: rs1, rs2: rs2}, nil
		}
	case 0x15:
		switch rm {
		case 0x0:
			return &inst{fn: execFMIND, name: "fmin.d", rd: rd, rs1: rs1, rs2: rs2}, nil
		case 0x1:
			return &inst{fn: execFMAXD, name: "fmax.d", rd: rd, rs1: rs1, rs2: rs2}, nil
		}
	case 0x20:
		if rs2 == 1 {
			return &inst{fn: execFCVTSD, name: "fcvt.s.d", rd: rd, rs1: rs1}, nil
		}
	case 0x21:
		if rs2 == 0 {
			return &inst{fn: execFCVTDS, name: "fcvt.d.s", rd: rd, rs1: rs1}, nil
		}
	case 0x51:
		switch rm {
		case 0x0:
			return &inst{fn: execFLED, name: "fle.d", rd: rd, rs1: rs1, rs2: rs2}, nil
		case 0x1:
			return &inst{fn: execFLTD, name: "flt.d", rd: rd, rs1: rs1, rs2: rs2}, nil
		case 0x2:
			return &inst{fn: execFEQD, name: "feq.d", rd: rd, rs1: rs1, rs2: rs2}, nil
		}
	case 0x61:
		switch rs2 {
		case 0x0:
			return &inst{fn: execFCVTWD, name: "fcvt.w.d", rd: rd, rs1: rs1}, nil
		case 0x1:
			return &inst{fn: execFCVTWUD, name: "fcvt.wu.d", rd: rd, rs1: rs1}, nil
		case 0x2:
			return &inst{fn: execFCVTLD, name: "fcvt.l.d", rd: rd, rs1: rs1}, nil
		case 0x3:
			return &inst{fn: execFCVTLUD, name: "fcvt.lu.d", rd: rd, rs1: rs1}, nil
		}
	case 0x69:
		switch rs2 {
		case 0x0:
			return &inst{fn: execFCVTDW, name: "fcvt.d.w", rd: rd, rs1: rs1}, nil
		case 0x1:
			return &inst{fn: execFCVTDWU, name: "fcvt.d.wu", rd: rd, rs1: rs1}, nil
		case 0x2:
			return &inst{fn: execFCVTDL, name: "fcvt.d.l", rd: rd, rs1: rs1}, nil
		case 0x3:
			return &inst{fn: execFCVTDLU, name: "fcvt.d.lu", rd: rd, rs1: rs1}, nil
		}
	case 0x71:
		switch rm {
		case 0x0:
			return &inst{fn: execFMVXD, name: "fmv.x.d", rd: rd, rs1: rs1}, nil
		case 0x1:
			return &inst{fn: execFCLASSD, name: "fclass.d", rd: rd, rs1: rs1}, nil
		}
	case 0x79:
		if rs2 == 0 {
			return &inst{fn: execFMVDX, name: "fmv.d.x", rd: rd, rs1: rs1}, nil
		}
	}
	return nil, trap(IllegalInstruction, uint64(word))
}
