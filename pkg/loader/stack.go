package loader

import "github.com/google/riscv64-core/pkg/cpu"

// BuildInitialStack lays out argc/argv/envp at the top of mem the way a
// RISC-V Linux-style _start expects to find them, and returns the initial
// stack pointer.
//
// Layout, growing down from top: argv/env C-strings, then (8-byte aligned)
// two null words (the terminator of an empty auxv, then the envp
// terminator), envp pointers (reverse order), a null word, argv pointers
// (reverse order), argc.
func BuildInitialStack(mem *cpu.FlatMemory, top uint64, argv, env []string) uint64 {
	sp := top

	pushCString := func(s string) uint64 {
		b := []byte(s)
		sp -= uint64(len(b) + 1)
		copy(mem.Bytes[sp:], b)
		mem.Bytes[sp+uint64(len(b))] = 0
		return sp
	}
	pushUint64 := func(v uint64) {
		sp -= 8
		mem.Bytes[sp+0] = byte(v)
		mem.Bytes[sp+1] = byte(v >> 8)
		mem.Bytes[sp+2] = byte(v >> 16)
		mem.Bytes[sp+3] = byte(v >> 24)
		mem.Bytes[sp+4] = byte(v >> 32)
		mem.Bytes[sp+5] = byte(v >> 40)
		mem.Bytes[sp+6] = byte(v >> 48)
		mem.Bytes[sp+7] = byte(v >> 56)
	}

	var envAddrs, argvAddrs []uint64
	for i := len(env) - 1; i >= 0; i-- {
		envAddrs = append(envAddrs, pushCString(env[i]))
	}
	for i := len(argv) - 1; i >= 0; i-- {
		argvAddrs = append(argvAddrs, pushCString(argv[i]))
	}

	sp &^= 0x7 // 8-byte align before the pointer tables

	pushUint64(0) // auxv terminator (auxv itself is empty: no vDSO/interpreter in this core)
	pushUint64(0) // envp terminator
	for _, a := range envAddrs {
		pushUint64(a)
	}
	pushUint64(0) // argv terminator
	for _, a := range argvAddrs {
		pushUint64(a)
	}
	pushUint64(uint64(len(argv)))

	return sp
}
