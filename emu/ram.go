// Package emu provides functional Y64 emulation.
package emu

import "fmt"

// RAM is a fixed-size byte-array device. The bus only ever presents
// in-range relative addresses for valid mappings, but stray direct calls
// outside [0, size) are tolerated: reads return 0 and writes are dropped.
type RAM struct {
	data []byte
}

// NewRAM creates a RAM of the given size in bytes.
func NewRAM(size uint64) (*RAM, error) {
	if size == 0 {
		return nil, fmt.Errorf("ram: size must be non-zero")
	}
	return &RAM{data: make([]byte, size)}, nil
}

// Size returns the RAM size in bytes.
func (r *RAM) Size() uint64 {
	return uint64(len(r.data))
}

// Read returns the byte at addr, or 0 when addr is out of range.
func (r *RAM) Read(addr uint64) byte {
	if addr >= uint64(len(r.data)) {
		return 0
	}
	return r.data[addr]
}

// Write stores a byte at addr. Out-of-range writes are dropped.
func (r *RAM) Write(addr uint64, data byte) {
	if addr >= uint64(len(r.data)) {
		return
	}
	r.data[addr] = data
}

// Peek reads a byte without modeling a device access. Used by trace
// capture and tests.
func (r *RAM) Peek(addr uint64) byte {
	return r.Read(addr)
}

// LoadBytes copies a program segment into RAM starting at addr. Unlike
// Write it fails loudly when the segment overflows the array.
func (r *RAM) LoadBytes(addr uint64, b []byte) error {
	if addr+uint64(len(b)) > uint64(len(r.data)) || addr+uint64(len(b)) < addr {
		return fmt.Errorf("ram: segment [%#x, %#x) overflows %d-byte memory",
			addr, addr+uint64(len(b)), len(r.data))
	}
	copy(r.data[addr:], b)
	return nil
}
