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

func TestSstatusMasksMstatus(t *testing.T) {
	c := New()
	c.WriteCSR(CSRMstatus, ^uint64(0))
	if got := c.ReadCSR(CSRSstatus); got != maskSstatus {
		t.Errorf("sstatus => %#x; want %#x (masked view of mstatus)", got, maskSstatus)
	}

	c = New()
	c.WriteCSR(CSRSstatus, ^uint64(0))
	if got := c.csr[CSRMstatus]; got != maskSstatus {
		t.Errorf("writing sstatus must only touch masked bits of mstatus: got %#x; want %#x", got, maskSstatus)
	}
	if got := c.ReadCSR(CSRMideleg); got != 0 {
		t.Errorf("writing sstatus must not leak into unrelated CSRs: mideleg => %#x", got)
	}
}

func TestSieSipMaskMie(t *testing.T) {
	c := New()
	c.WriteCSR(CSRMie, ^uint64(0))
	if got := c.ReadCSR(CSRSie); got != maskSie {
		t.Errorf("sie => %#x; want %#x", got, maskSie)
	}

	c.WriteCSR(CSRSip, ^uint64(0))
	if got := c.ReadCSR(CSRSip); got != maskSip {
		t.Errorf("sip => %#x; want %#x", got, maskSip)
	}
}

func TestMidelegMasked(t *testing.T) {
	c := New()
	c.WriteCSR(CSRMideleg, ^uint64(0))
	if got := c.ReadCSR(CSRMideleg); got != maskMideleg {
		t.Errorf("mideleg => %#x; want %#x", got, maskMideleg)
	}
}

func TestFflagsFrmAliasFcsr(t *testing.T) {
	c := New()
	c.WriteCSR(CSRFflags, fflagNV|fflagNX)
	c.WriteCSR(CSRFrm, 0x5)

	if got := c.ReadCSR(CSRFflags); got != fflagNV|fflagNX {
		t.Errorf("fflags => %#x; want %#x", got, fflagNV|fflagNX)
	}
	if got := c.ReadCSR(CSRFrm); got != 0x5 {
		t.Errorf("frm => %#x; want 0x5", got)
	}
	if got := c.ReadCSR(CSRFcsr); got != (0x5<<5)|fflagNV|fflagNX {
		t.Errorf("fcsr => %#x; want the union of fflags/frm", got)
	}
}

func TestAliasedCSRNamesOmitsTime(t *testing.T) {
	for _, name := range AliasedCSRNames() {
		if name == "time" {
			t.Error("AliasedCSRNames must not include the free-running counter")
		}
	}
	if len(AliasedCSRNames()) == 0 {
		t.Error("AliasedCSRNames must list the aliased CSRs this core special-cases")
	}
}

func TestUnlistedCSRIsPlainStorage(t *testing.T) {
	const mscratch = 0x340
	c := New()
	c.WriteCSR(mscratch, 0x1234)
	if got := c.ReadCSR(mscratch); got != 0x1234 {
		t.Errorf("plain CSR storage => %#x; want 0x1234", got)
	}
}
