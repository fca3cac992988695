// Package main provides the interactive Y64 emulator driver. It loads a
// .yo object file, instantiates the full peripheral set (PPU, joystick,
// timer) and renders the framebuffer to the terminal while the program
// runs.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sarchlab/y64sim/config"
	"github.com/sarchlab/y64sim/loader"
	"github.com/sarchlab/y64sim/machine"
	"github.com/sarchlab/y64sim/ppu"
)

var (
	configPath = flag.String("config", "", "Path to configuration JSON file")
	maxCycles  = flag.Int("cycles", 0, "Override the cycle cap")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: y64term [options] <program.yo>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "y64term: %v\n", err)
		os.Exit(1)
	}
}

func run(programPath string) error {
	prog, err := loader.Load(programPath)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			return err
		}
	}
	cfg.Peripherals = true
	if *maxCycles > 0 {
		cfg.MaxCycles = *maxCycles
	}

	// The peripheral map starts at the joystick base; RAM must stay
	// below it. Programs for the interactive driver fit in that arena.
	if *configPath == "" {
		cfg.MemorySize = machine.JoystickBase
	}
	if required := prog.Extent(); required > cfg.MemorySize {
		return fmt.Errorf("program needs %#x bytes but RAM ends at %#x",
			required, cfg.MemorySize)
	}

	var opts []machine.Option
	if cfg.Render {
		opts = append(opts, machine.WithRenderFunc(renderFrame))
	}

	m, err := machine.New(cfg, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()

	// The joystick leaves the terminal in raw mode; make sure it is
	// restored on a signal-driven teardown too.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		_ = m.Close()
		os.Exit(1)
	}()

	if err := m.LoadProgram(prog); err != nil {
		return err
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "Loaded: %s\n", programPath)
		fmt.Fprintf(os.Stderr, "Segments: %d\n", len(prog.Segments))
		fmt.Fprintf(os.Stderr, "Memory: %d bytes\n", cfg.MemorySize)
	}

	cycles := m.Run()

	if *verbose {
		fmt.Fprintf(os.Stderr, "\nCycles: %d\n", cycles)
		fmt.Fprintf(os.Stderr, "Status: %v\n", m.CPU().Stat())
		fmt.Fprintf(os.Stderr, "PC: %#x\n", m.CPU().PC())
	}

	return nil
}

// renderFrame draws a presented frame as '#'/' ' rows, homing the cursor
// and clearing the screen first.
func renderFrame(frame []byte) {
	var out []byte
	out = append(out, "\x1b[H\x1b[2J"...)

	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			if ppu.PixelOn(frame, x, y) {
				out = append(out, '#')
			} else {
				out = append(out, ' ')
			}
		}
		out = append(out, '\n')
	}

	os.Stdout.Write(out)
}
