// Package emu provides functional Y64 emulation.
package emu

import "fmt"

// BusResult carries the outcome of a single bus access: the byte moved and
// an address-decode status of StatAOK or StatADR.
type BusResult struct {
	Data byte
	Stat Stat
}

type mapping struct {
	device Device
	start  uint64
	end    uint64 // exclusive
}

// Bus is the address-decode fabric. It routes byte-level accesses to the
// device whose registered range covers the absolute address, translating to
// a device-relative address on the way through.
//
// Mappings are scanned in registration order and the first match wins.
// Overlapping registrations are accepted; the earlier one shadows the
// later. The bus holds non-owning references: devices must outlive it.
type Bus struct {
	mappings []mapping
}

// NewBus creates a bus with no devices mapped.
func NewBus() *Bus {
	return &Bus{}
}

// Register maps device over the absolute address range [start, end).
// Registration order is preserved; ranges are never coalesced or reordered.
func (b *Bus) Register(device Device, start, end uint64) error {
	if start >= end {
		return fmt.Errorf("bus: register requires start < end, got [%#x, %#x)", start, end)
	}
	b.mappings = append(b.mappings, mapping{device: device, start: start, end: end})
	return nil
}

func (b *Bus) find(addr uint64) *mapping {
	for i := range b.mappings {
		m := &b.mappings[i]
		if addr >= m.start && addr < m.end {
			return m
		}
	}
	return nil
}

// Read returns the byte at the absolute address, or {0, StatADR} when no
// mapping covers it.
func (b *Bus) Read(addr uint64) BusResult {
	m := b.find(addr)
	if m == nil {
		return BusResult{Data: 0, Stat: StatADR}
	}
	return BusResult{Data: m.device.Read(addr - m.start), Stat: StatAOK}
}

// Write stores a byte at the absolute address. On a miss it returns
// {0, StatADR} and no device observes any side effect.
func (b *Bus) Write(addr uint64, data byte) BusResult {
	m := b.find(addr)
	if m == nil {
		return BusResult{Data: 0, Stat: StatADR}
	}
	m.device.Write(addr-m.start, data)
	return BusResult{Data: data, Stat: StatAOK}
}
