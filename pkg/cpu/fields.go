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

// inst is a decoded instruction: the handler to run plus its operand
// fields. Handlers are immutable descriptors selected by the decoder
// rather than methods on a polymorphic instruction hierarchy.
type inst struct {
	fn                handlerFunc
	name              string
	rs1, rs2, rs3, rd uint64
	imm               uint64 // pre-sign-extended where the format calls for it
	raw               uint32 // the encoded word, kept for diagnostics
	length            uint64 // 2 or 4: the length of the instruction as fetched,
	// before compressed expansion. JAL/JALR need this to compute the
	// return address, since a compressed jump expands to a canonical
	// 32-bit encoding that no longer carries its own original width.
}

// handlerFunc is the contract every instruction handler satisfies:
// mutate CPU/memory state in response to one decoded instruction, signalling
// a structured Trap instead of panicking. It does not itself decode
// opcodes.
type handlerFunc func(c *CPU, m Memory, in *inst) *Trap

// parseR extracts the R-type fields: rd/rs1/rs2.
func parseR(word uint32) (rd, rs1, rs2 uint64) {
	w := uint64(word)
	return w >> 7 & 0x1f, w >> 15 & 0x1f, w >> 20 & 0x1f
}

// parseR4 extracts the four-register fused-multiply-add fields, adding rs3.
func parseR4(word uint32) (rd, rs1, rs2, rs3 uint64) {
	rd, rs1, rs2 = parseR(word)
	rs3 = uint64(word) >> 27 & 0x1f
	return
}

// parseI extracts the I-type fields with imm sign-extended to 64 bits from
// bit 11 of the 12-bit immediate.
func parseI(word uint32) (rd, rs1, imm uint64) {
	w := uint64(word)
	rd = w >> 7 & 0x1f
	rs1 = w >> 15 & 0x1f
	imm = signExtend(w>>20&0xfff, 11)
	return
}

// parseS extracts the S-type fields (store instructions): imm is
// {word[31:25], word[11:7]}, sign-extended from bit 11.
func parseS(word uint32) (rs1, rs2, imm uint64) {
	w := uint64(word)
	rs1 = w >> 15 & 0x1f
	rs2 = w >> 20 & 0x1f
	imm = signExtend(w>>25&0x7f<<5|w>>7&0x1f, 11)
	return
}

// parseB extracts the B-type fields (branches): imm is
// {word[31],word[7],word[30:25],word[11:8],0}, sign-extended from bit 12.
func parseB(word uint32) (rs1, rs2, imm uint64) {
	w := uint64(word)
	rs1 = w >> 15 & 0x1f
	rs2 = w >> 20 & 0x1f
	imm = signExtend(
		w>>19&0x1000|
			w<<4&0x800|
			w>>20&0x7e0|
			w>>7&0x1e,
		12)
	return
}

// parseU extracts the U-type fields (LUI/AUIPC): imm is word[31:12]<<12,
// sign-extended from bit 31.
func parseU(word uint32) (rd, imm uint64) {
	w := uint64(word)
	rd = w >> 7 & 0x1f
	imm = signExtend(w&0xfffff000, 31)
	return
}

// parseJ extracts the J-type fields (JAL): imm is
// {word[31],word[19:12],word[20],word[30:21],0}, sign-extended from bit 20.
func parseJ(word uint32) (rd, imm uint64) {
	w := uint64(word)
	rd = w >> 7 & 0x1f
	imm = signExtend(
		w>>11&0x100000|
			w&0xff000|
			w>>9&0x800|
			w>>20&0x7fe,
		20)
	return
}

// parseCSR extracts the CSR-type fields: the 12-bit CSR address, the
// source register (or 5-bit uimm, aliased into the same field), and rd.
func parseCSR(word uint32) (csrAddr uint16, rs, rd uint64) {
	w := uint64(word)
	csrAddr = uint16(w >> 20 & 0xfff)
	rs = w >> 15 & 0x1f
	rd = w >> 7 & 0x1f
	return
}
