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

import "math"

// signExtend extends the given bit (counting from 0) in v, producing a
// 64-bit two's complement value. This is the single helper every writer of
// x[rd] must go through so the RV64 canonical sign-extension rule can't
// be bypassed by an ad-hoc cast.
func signExtend(v uint64, bit int) uint64 {
	b := signBits[bit]
	if v&b.signBit != 0 {
		return v | b.ones
	}
	return v
}

var signBits = [64]struct {
	signBit uint64
	ones    uint64
}{}

func init() {
	b := uint64(1)
	ones := uint64(math.MaxUint64)
	for i := range signBits {
		signBits[i].signBit = b
		signBits[i].ones = ones
		b <<= 1
		ones <<= 1
	}
}

// signExtend32 sign-extends the low 32 bits of v to 64 bits. Every W-suffix
// instruction computes its result in 32 bits and must route it through this
// helper before storing to x[rd].
func signExtend32(v uint64) uint64 {
	return uint64(int64(int32(uint32(v))))
}
