package cpu

import "fmt"

// Kind is the taxonomy of traps a handler can raise. Only the members this
// core actually needs to raise are given semantics; the rest of the base ISA
// taxonomy (page faults, misalignment, the U/S-mode ECALL variants,
// interrupts) is represented so callers can match on it, but the core never
// produces them.
type Kind int

const (
	// IllegalInstruction is raised by the decoder when a fetched word
	// matches no supported opcode. Payload is the raw instruction word.
	IllegalInstruction Kind = iota
	// LoadAccessFault is raised when a load falls outside the memory's
	// backing store. Payload is the faulting address.
	LoadAccessFault
	// StoreAccessFault is raised when a store falls outside the memory's
	// backing store. Payload is the faulting address.
	StoreAccessFault
	// InstructionAccessFault is raised when fetch itself fails. Payload
	// is the PC that could not be fetched.
	InstructionAccessFault
	// Breakpoint is reserved for EBREAK once a debugger is wired in; the
	// core currently treats EBREAK as a no-op and never raises this.
	Breakpoint
	// Stop is a host-defined termination signalled from the ECALL hook.
	// Payload is host-defined; the riscv-tests convention is that x[10]
	// (a0) carries 0 for success and a nonzero odd value for failure.
	Stop

	// InstructionAddrMisaligned through the end of this block are part
	// of the base ISA trap taxonomy but are never raised by this core,
	// which simulates no virtual memory, interrupts or privilege
	// enforcement.
	InstructionAddrMisaligned
	LoadAddrMisaligned
	StoreAddrMisaligned
	EnvironmentCallFromU
	EnvironmentCallFromS
	EnvironmentCallFromM
	InstructionPageFault
	LoadPageFault
	StorePageFault
	SupervisorSoftwareInterrupt
	MachineSoftwareInterrupt
	SupervisorTimerInterrupt
	MachineTimerInterrupt
	SupervisorExternalInterrupt
	MachineExternalInterrupt
)

func (k Kind) String() string {
	switch k {
	case IllegalInstruction:
		return "IllegalInstruction"
	case LoadAccessFault:
		return "LoadAccessFault"
	case StoreAccessFault:
		return "StoreAccessFault"
	case InstructionAccessFault:
		return "InstructionAccessFault"
	case Breakpoint:
		return "Breakpoint"
	case Stop:
		return "Stop"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Trap carries a taxonomy member and a 64-bit payload out of Tick. It
// satisfies error for callers that want to log or wrap it.
type Trap struct {
	Kind    Kind
	Payload uint64
}

func (t *Trap) Error() string {
	return fmt.Sprintf("%s(%#x)", t.Kind, t.Payload)
}

// trap is a small constructor used throughout the executors.
func trap(kind Kind, payload uint64) *Trap {
	return &Trap{Kind: kind, Payload: payload}
}
