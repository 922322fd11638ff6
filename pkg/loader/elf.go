// Package loader parses RISC-V ELF binaries into a form pkg/cpu can
// execute: a flat list of PT_LOAD segments plus an entry point. Loading by
// program header rather than by section means partially file-backed
// segments (BSS) get their tail zeroed rather than left at whatever the
// destination memory already held.
package loader

import (
	"debug/elf"
	"fmt"
	"io"
)

// Segment is one PT_LOAD program header: Data holds the file-backed prefix
// of the segment, and MemSize (which may exceed len(Data)) is the total
// in-memory footprint including BSS.
type Segment struct {
	VirtAddr uint64
	Data     []byte
	MemSize  uint64
	Flags    elf.ProgFlag
}

// Image is a loaded ELF binary ready to be copied into a cpu.Memory.
type Image struct {
	EntryPoint uint64
	Segments   []Segment
}

// Load opens path as a 64-bit RISC-V ELF binary and returns its PT_LOAD
// segments and entry point.
func Load(path string) (*Image, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open %s: %w", path, err)
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS64 {
		return nil, fmt.Errorf("loader: %s is not a 64-bit ELF file", path)
	}
	if f.Machine != elf.EM_RISCV {
		return nil, fmt.Errorf("loader: %s is not a RISC-V ELF file (machine %v)", path, f.Machine)
	}

	img := &Image{EntryPoint: f.Entry}
	for _, phdr := range f.Progs {
		if phdr.Type != elf.PT_LOAD {
			continue
		}
		data := make([]byte, phdr.Filesz)
		if phdr.Filesz > 0 {
			n, err := phdr.ReadAt(data, 0)
			if err != nil && err != io.EOF {
				return nil, fmt.Errorf("loader: read segment at %#x: %w", phdr.Vaddr, err)
			}
			if uint64(n) != phdr.Filesz {
				return nil, fmt.Errorf("loader: short read for segment at %#x: got %d, want %d", phdr.Vaddr, n, phdr.Filesz)
			}
		}
		img.Segments = append(img.Segments, Segment{
			VirtAddr: phdr.Vaddr,
			Data:     data,
			MemSize:  phdr.Memsz,
			Flags:    phdr.Flags,
		})
	}
	return img, nil
}

// LoadSections is the simpler, section-based alternative to Load: it copies
// every SHF_ALLOC section at its address. SHT_NOBITS sections (.bss) come
// back as zero-filled Data of the section's size; gaps between sections
// are not part of the image. It suits non-PIE test binaries (the
// riscv-tests ISA suite images this core targets). cmd/rv64run exposes it
// as --mode-sections.
func LoadSections(path string) (*Image, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open %s: %w", path, err)
	}
	defer f.Close()

	img := &Image{EntryPoint: f.Entry}
	for _, s := range f.Sections {
		if s.Flags&elf.SHF_ALLOC == 0 {
			continue
		}
		data := make([]byte, s.Size)
		if s.Type != elf.SHT_NOBITS {
			if _, err := s.ReadAt(data, 0); err != nil && err != io.EOF {
				return nil, fmt.Errorf("loader: read section %s at %#x: %w", s.Name, s.Addr, err)
			}
		}
		img.Segments = append(img.Segments, Segment{VirtAddr: s.Addr, Data: data, MemSize: s.Size})
	}
	return img, nil
}
