// Package trace provides per-cycle state snapshots and their JSON
// encoding for the batch driver.
package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/sarchlab/y64sim/emu"
	"github.com/sarchlab/y64sim/insts"
)

// Trace status encoding.
const (
	StatAOK = 1
	StatHLT = 2
	StatADR = 3
	StatINS = 4
)

// EncodeStat maps a processor status to its trace integer.
func EncodeStat(s emu.Stat) int {
	switch s {
	case emu.StatAOK:
		return StatAOK
	case emu.StatHLT:
		return StatHLT
	case emu.StatADR:
		return StatADR
	case emu.StatINS:
		return StatINS
	}
	return StatINS
}

// CondCodes is the snapshot form of the arithmetic flags, 0 or 1 each.
type CondCodes struct {
	OF int `json:"OF"`
	SF int `json:"SF"`
	ZF int `json:"ZF"`
}

// Snapshot records the architectural state after one cycle. Register and
// memory words are reported as signed 64-bit values; the memory map keys
// byte offsets (decimal strings) of 8-byte-aligned words and omits zero
// words to shrink output.
type Snapshot struct {
	CC   CondCodes        `json:"CC"`
	Mem  map[string]int64 `json:"MEM"`
	PC   uint64           `json:"PC"`
	Reg  map[string]int64 `json:"REG"`
	Stat int              `json:"STAT"`
}

// Capture snapshots the CPU and RAM state.
func Capture(cpu *emu.CPU, ram *emu.RAM) Snapshot {
	cc := cpu.ConditionCodes()
	snap := Snapshot{
		CC:   CondCodes{OF: b2i(cc.OF), SF: b2i(cc.SF), ZF: b2i(cc.ZF)},
		Mem:  map[string]int64{},
		PC:   cpu.PC(),
		Reg:  make(map[string]int64, insts.RegisterCount),
		Stat: EncodeStat(cpu.Stat()),
	}

	for id, v := range cpu.RegFile().Values() {
		snap.Reg[insts.Register(id).String()] = int64(v)
	}

	for addr := uint64(0); addr+8 <= ram.Size(); addr += 8 {
		var word uint64
		for i := uint64(0); i < 8; i++ {
			word |= uint64(ram.Peek(addr+i)) << (i * 8)
		}
		if word != 0 {
			snap.Mem[strconv.FormatUint(addr, 10)] = int64(word)
		}
	}

	return snap
}

// Recorder accumulates per-cycle snapshots.
type Recorder struct {
	snapshots []Snapshot
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{snapshots: make([]Snapshot, 0)}
}

// Record captures and stores one snapshot.
func (r *Recorder) Record(cpu *emu.CPU, ram *emu.RAM) {
	r.snapshots = append(r.snapshots, Capture(cpu, ram))
}

// Len returns the number of recorded snapshots.
func (r *Recorder) Len() int {
	return len(r.snapshots)
}

// Snapshots returns the recorded snapshots in cycle order.
func (r *Recorder) Snapshots() []Snapshot {
	return r.snapshots
}

// WriteJSON emits the snapshots as a single JSON array. An empty recorder
// emits [].
func (r *Recorder) WriteJSON(w io.Writer) error {
	out, err := json.Marshal(r.snapshots)
	if err != nil {
		return fmt.Errorf("failed to encode trace: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("failed to write trace: %w", err)
	}
	return nil
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
