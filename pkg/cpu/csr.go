package cpu

import (
	"sort"

	"github.com/samber/lo"
)

// CSR addresses recognised specially by this core. Every other address in
// the 4096-entry file is plain storage.
const (
	CSRFflags  uint16 = 0x001
	CSRFrm     uint16 = 0x002
	CSRFcsr    uint16 = 0x003
	CSRSstatus uint16 = 0x100
	CSRSie     uint16 = 0x104
	CSRSip     uint16 = 0x144
	CSRMstatus uint16 = 0x300
	CSRMideleg uint16 = 0x303
	CSRMie     uint16 = 0x304
	CSRMepc    uint16 = 0x341
	CSRMip     uint16 = 0x344
	CSRTime    uint16 = 0xC01
)

// Masks for the aliased CSRs.
const (
	maskSstatus uint64 = 0x80000003000de162
	maskSie     uint64 = 0x222
	maskSip     uint64 = 0x222
	maskMideleg uint64 = 0x666 // qemu's mideleg mask
)

// csrNames backs a small debug helper; it is not consulted by the
// interpreter.
var csrNames = map[uint16]string{
	CSRFflags:  "fflags",
	CSRFrm:     "frm",
	CSRFcsr:    "fcsr",
	CSRSstatus: "sstatus",
	CSRSie:     "sie",
	CSRSip:     "sip",
	CSRMstatus: "mstatus",
	CSRMideleg: "mideleg",
	CSRMie:     "mie",
	CSRMepc:    "mepc",
	CSRMip:     "mip",
	CSRTime:    "time",
}

// AliasedCSRNames returns the names of the CSRs this core recognises
// specially (the aliased views, their backing registers, mideleg and mepc),
// leaving out the time counter, sorted by address. It exists for
// diagnostics/debug dumps, not for the interpreter's own use.
func AliasedCSRNames() []string {
	addrs := lo.Keys(csrNames)
	addrs = lo.Filter(addrs, func(a uint16, _ int) bool { return a != CSRTime })
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	names := make([]string, 0, len(addrs))
	for _, a := range addrs {
		names = append(names, csrNames[a])
	}
	return names
}

// ReadCSR returns the addressed CSR's value, applying the read-side mask
// or alias where one exists.
func (c *CPU) ReadCSR(addr uint16) uint64 {
	switch addr {
	case CSRFflags:
		return c.readFflags()
	case CSRFrm:
		return c.csr[CSRFcsr] >> 5 & 0x7
	case CSRSstatus:
		return c.csr[CSRMstatus] & maskSstatus
	case CSRSie:
		return c.csr[CSRMie] & maskSie
	case CSRSip:
		return c.csr[CSRMip] & maskSip
	case CSRFcsr:
		return c.csr[CSRFcsr] & 0xff
	default:
		return c.csr[addr]
	}
}

// WriteCSR writes the addressed CSR, applying the write-side mask or alias:
// for aliased CSRs this clears exactly the masked bits of the backing CSR
// and ORs in the masked value, leaving the rest of the backing register
// untouched.
func (c *CPU) WriteCSR(addr uint16, value uint64) {
	switch addr {
	case CSRFflags:
		c.writeFflags(value)
	case CSRFrm:
		c.csr[CSRFcsr] &^= 0xe0
		c.csr[CSRFcsr] |= value << 5 & 0xe0
	case CSRSstatus:
		c.csr[CSRMstatus] &^= maskSstatus
		c.csr[CSRMstatus] |= value & maskSstatus
	case CSRSie:
		c.csr[CSRMie] &^= maskSie
		c.csr[CSRMie] |= value & maskSie
	case CSRSip:
		c.csr[CSRMip] &^= maskSip
		c.csr[CSRMip] |= value & maskSip
	case CSRMideleg:
		c.csr[addr] = value & maskMideleg
	default:
		c.csr[addr] = value
	}
}

// readFflags and writeFflags share backing storage with frm inside fcsr:
// bits [4:0] are fflags, bits [7:5] are frm. Go has no portable way to
// read the host FPU's sticky exception flags, so the backing CSR alone is
// authoritative; handlers set the bits explicitly.
func (c *CPU) readFflags() uint64 {
	return c.csr[CSRFcsr] & 0x1f
}

func (c *CPU) writeFflags(value uint64) {
	c.csr[CSRFcsr] &^= 0x1f
	c.csr[CSRFcsr] |= value & 0x1f
}

// fflags bits: NV, DZ, OF, UF, NX.
const (
	fflagNV uint64 = 1 << 4
	fflagDZ uint64 = 1 << 3
	fflagOF uint64 = 1 << 2
	fflagUF uint64 = 1 << 1
	fflagNX uint64 = 1 << 0
)

func (c *CPU) setFcsrNV() { c.writeFflags(c.readFflags() | fflagNV) }
func (c *CPU) setFcsrDZ() { c.writeFflags(c.readFflags() | fflagDZ) }
func (c *CPU) setFcsrNX() { c.writeFflags(c.readFflags() | fflagNX) }
