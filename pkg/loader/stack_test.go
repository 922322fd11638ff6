package loader

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/google/riscv64-core/pkg/cpu"
)

func readDouble(t *testing.T, m *cpu.FlatMemory, addr uint64) uint64 {
	t.Helper()
	v, trap := m.ReadDouble(addr)
	if trap != nil {
		t.Fatalf("read at %#x => %v", addr, trap)
	}
	return v
}

func readCString(t *testing.T, m *cpu.FlatMemory, addr uint64) string {
	t.Helper()
	var b []byte
	for {
		c, trap := m.ReadByte(addr)
		if trap != nil {
			t.Fatalf("read at %#x => %v", addr, trap)
		}
		if c == 0 {
			return string(b)
		}
		b = append(b, c)
		addr++
	}
}

func TestBuildInitialStack(t *testing.T) {
	mem := cpu.NewFlatMemory(4096)
	argv := []string{"prog", "hello", "world"}
	env := []string{"A=B", "TERM=dumb"}

	sp := BuildInitialStack(mem, 4096, argv, env)

	if sp%8 != 0 {
		t.Fatalf("sp => %#x; want 8-byte aligned", sp)
	}
	if got := readDouble(t, mem, sp); got != uint64(len(argv)) {
		t.Fatalf("argc => %d; want %d", got, len(argv))
	}

	var gotArgv []string
	addr := sp + 8
	for ; ; addr += 8 {
		p := readDouble(t, mem, addr)
		if p == 0 {
			break
		}
		gotArgv = append(gotArgv, readCString(t, mem, p))
	}
	if diff := cmp.Diff(argv, gotArgv); diff != "" {
		t.Errorf("argv mismatch (-want +got):\n%s", diff)
	}

	var gotEnv []string
	for addr += 8; ; addr += 8 {
		p := readDouble(t, mem, addr)
		if p == 0 {
			break
		}
		gotEnv = append(gotEnv, readCString(t, mem, p))
	}
	if diff := cmp.Diff(env, gotEnv); diff != "" {
		t.Errorf("envp mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildInitialStackEmpty(t *testing.T) {
	mem := cpu.NewFlatMemory(256)
	sp := BuildInitialStack(mem, 256, nil, nil)

	if got := readDouble(t, mem, sp); got != 0 {
		t.Errorf("argc => %d; want 0", got)
	}
	if got := readDouble(t, mem, sp+8); got != 0 {
		t.Errorf("argv terminator => %#x; want 0", got)
	}
}
