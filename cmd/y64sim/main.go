// Package main provides the batch Y64 emulator driver. It reads a .yo
// object file from standard input, runs the program against bare RAM, and
// writes a JSON array of per-cycle state snapshots to standard output.
package main

import (
	"fmt"
	"os"

	"github.com/sarchlab/y64sim/config"
	"github.com/sarchlab/y64sim/emu"
	"github.com/sarchlab/y64sim/loader"
	"github.com/sarchlab/y64sim/machine"
	"github.com/sarchlab/y64sim/trace"
)

// slackBytes is extra RAM reserved past the program image for stack and
// data when the program is larger than the default arena.
const slackBytes = 1 << 13

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "y64sim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	prog, err := loader.Parse(os.Stdin)
	if err != nil {
		return err
	}

	if len(prog.Segments) == 0 {
		fmt.Print("[]")
		return nil
	}

	cfg := config.Default()
	if required := prog.Extent() + slackBytes; required > cfg.MemorySize {
		cfg.MemorySize = required
	}

	m, err := machine.New(cfg)
	if err != nil {
		return err
	}
	if err := m.LoadProgram(prog); err != nil {
		return err
	}

	recorder := trace.NewRecorder()
	for cycle := 0; cycle < cfg.MaxCycles && m.CPU().Stat() == emu.StatAOK; cycle++ {
		m.Step()
		recorder.Record(m.CPU(), m.RAM())
	}

	return recorder.WriteJSON(os.Stdout)
}
