// Package emu provides functional Y64 emulation.
package emu

// Device is the contract every bus-mapped peripheral satisfies, RAM
// included. Accesses use device-relative addresses; the bus performs the
// absolute-to-relative translation.
type Device interface {
	// Read returns the byte at the device-relative address.
	Read(addr uint64) byte

	// Write stores a byte at the device-relative address.
	Write(addr uint64, data byte)
}
