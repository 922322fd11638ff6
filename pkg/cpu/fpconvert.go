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

// Saturating float-to-integer conversions shared by FCVT.W/WU/L/LU.S and
// the .D forms. NaN and out-of-range inputs saturate and raise NV;
// non-integral in-range inputs truncate toward zero and raise NX.

func floatToI32(v float64, c *CPU) int32 {
	switch {
	case math.IsNaN(v):
		c.setFcsrNV()
		return math.MaxInt32
	case v >= 2147483648.0:
		c.setFcsrNV()
		return math.MaxInt32
	case v < -2147483648.0:
		c.setFcsrNV()
		return math.MinInt32
	}
	result := int32(v)
	if v != math.Trunc(v) {
		c.setFcsrNX()
	}
	return result
}

func floatToU32(v float64, c *CPU) uint32 {
	switch {
	case math.IsNaN(v):
		c.setFcsrNV()
		return math.MaxUint32
	case v <= -1:
		c.setFcsrNV()
		return 0
	case v < 0:
		// saturates to 0, but a fractional input is still inexact
		if v != math.Trunc(v) {
			c.setFcsrNX()
		}
		return 0
	case v >= 4294967296.0:
		c.setFcsrNV()
		return math.MaxUint32
	}
	result := uint32(v)
	if v != math.Trunc(v) {
		c.setFcsrNX()
	}
	return result
}

func floatToI64(v float64, c *CPU) int64 {
	switch {
	case math.IsNaN(v):
		c.setFcsrNV()
		return math.MaxInt64
	case v >= 9223372036854775808.0:
		c.setFcsrNV()
		return math.MaxInt64
	case v < -9223372036854775808.0:
		c.setFcsrNV()
		return math.MinInt64
	}
	result := int64(v)
	if v != math.Trunc(v) {
		c.setFcsrNX()
	}
	return result
}

func floatToU64(v float64, c *CPU) uint64 {
	switch {
	case math.IsNaN(v):
		c.setFcsrNV()
		return math.MaxUint64
	case v <= -1:
		c.setFcsrNV()
		return 0
	case v < 0:
		// saturates to 0, but a fractional input is still inexact
		if v != math.Trunc(v) {
			c.setFcsrNX()
		}
		return 0
	case v >= 18446744073709551616.0:
		c.setFcsrNV()
		return math.MaxUint64
	}
	result := uint64(v)
	if v != math.Trunc(v) {
		c.setFcsrNX()
	}
	return result
}
