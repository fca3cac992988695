// Package machine assembles the Y64 emulator: CPU, bus, RAM and the
// memory-mapped peripherals, plus the cooperative scheduler loop that
// drives them.
package machine

import (
	"fmt"
	"io"
	"time"

	"github.com/sarchlab/y64sim/config"
	"github.com/sarchlab/y64sim/emu"
	"github.com/sarchlab/y64sim/loader"
	"github.com/sarchlab/y64sim/periph"
	"github.com/sarchlab/y64sim/ppu"
)

// Default address map. RAM occupies [0, memory size).
const (
	JoystickBase = 0x2000
	JoystickEnd  = 0x2001
	PPUBase      = 0x3000
	PPUEnd       = PPUBase + ppu.MemSize
	TimerBase    = 0x4000
	TimerEnd     = 0x4001
)

// Machine owns the emulator components for its full lifetime. The bus
// holds non-owning references into it.
type Machine struct {
	bus *emu.Bus
	cpu *emu.CPU
	ram *emu.RAM

	ppu      *ppu.PPU
	joystick *periph.Joystick
	timer    *periph.Timer

	maxCycles int
}

// Option configures machine construction.
type Option func(*options)

type options struct {
	renderFunc    ppu.RenderFunc
	joystickInput io.Reader
	timerNow      func() time.Time
}

// WithRenderFunc installs the PPU presentation hook.
func WithRenderFunc(f ppu.RenderFunc) Option {
	return func(o *options) {
		o.renderFunc = f
	}
}

// WithJoystickInput reads joystick keys from r instead of standard input.
func WithJoystickInput(r io.Reader) Option {
	return func(o *options) {
		o.joystickInput = r
	}
}

// WithTimerNow sets the timer's clock source.
func WithTimerNow(now func() time.Time) Option {
	return func(o *options) {
		o.timerNow = now
	}
}

// New builds a machine per the configuration: RAM at address 0 always;
// joystick, PPU and timer at their fixed bases when cfg.Peripherals is
// set.
func New(cfg *config.Config, opts ...Option) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// The bus scans first-match in registration order and RAM is mapped
	// first, so RAM reaching past JoystickBase would shadow every
	// peripheral.
	if cfg.Peripherals && cfg.MemorySize > JoystickBase {
		return nil, fmt.Errorf(
			"machine: memory size %#x overlaps the peripheral map at %#x",
			cfg.MemorySize, JoystickBase)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	ram, err := emu.NewRAM(cfg.MemorySize)
	if err != nil {
		return nil, err
	}

	bus := emu.NewBus()
	m := &Machine{
		bus:       bus,
		ram:       ram,
		maxCycles: cfg.MaxCycles,
	}

	if err := bus.Register(ram, 0, ram.Size()); err != nil {
		return nil, fmt.Errorf("machine: mapping ram: %w", err)
	}

	if cfg.Peripherals {
		var joyOpts []periph.JoystickOption
		if o.joystickInput != nil {
			joyOpts = append(joyOpts, periph.WithInput(o.joystickInput))
		}
		m.joystick = periph.NewJoystick(joyOpts...)

		var ppuOpts []ppu.Option
		if o.renderFunc != nil {
			ppuOpts = append(ppuOpts, ppu.WithRenderFunc(o.renderFunc))
		}
		m.ppu = ppu.New(bus, ppuOpts...)

		var timerOpts []periph.TimerOption
		if o.timerNow != nil {
			timerOpts = append(timerOpts, periph.WithNow(o.timerNow))
		}
		m.timer = periph.NewTimer(timerOpts...)

		if err := bus.Register(m.joystick, JoystickBase, JoystickEnd); err != nil {
			return nil, fmt.Errorf("machine: mapping joystick: %w", err)
		}
		if err := bus.Register(m.ppu, PPUBase, PPUEnd); err != nil {
			return nil, fmt.Errorf("machine: mapping ppu: %w", err)
		}
		if err := bus.Register(m.timer, TimerBase, TimerEnd); err != nil {
			return nil, fmt.Errorf("machine: mapping timer: %w", err)
		}
	}

	m.cpu = emu.NewCPU(bus)
	return m, nil
}

// LoadProgram copies every program segment into RAM.
func (m *Machine) LoadProgram(prog *loader.Program) error {
	for _, seg := range prog.Segments {
		if err := m.ram.LoadBytes(seg.Addr, seg.Data); err != nil {
			return err
		}
	}
	return nil
}

// Step runs one scheduler iteration: a CPU cycle (a no-op once the status
// has left AOK), then the PPU, joystick and timer updates in that order.
func (m *Machine) Step() {
	m.cpu.RunCycle()
	if m.ppu != nil {
		m.ppu.Update()
	}
	if m.joystick != nil {
		m.joystick.Update()
	}
	if m.timer != nil {
		m.timer.Update()
	}
}

// Run steps the machine until the CPU status leaves AOK or the cycle cap
// is reached, and returns the number of iterations taken.
func (m *Machine) Run() int {
	cycles := 0
	for cycles < m.maxCycles && m.cpu.Stat() == emu.StatAOK {
		m.Step()
		cycles++
	}
	return cycles
}

// Close releases peripheral resources, restoring the terminal state the
// joystick captured. Safe to call more than once.
func (m *Machine) Close() error {
	if m.joystick == nil {
		return nil
	}
	return m.joystick.Close()
}

// CPU returns the machine's processor.
func (m *Machine) CPU() *emu.CPU {
	return m.cpu
}

// RAM returns the machine's memory device.
func (m *Machine) RAM() *emu.RAM {
	return m.ram
}

// Bus returns the machine's address-decode fabric.
func (m *Machine) Bus() *emu.Bus {
	return m.bus
}

// PPU returns the picture processing unit, or nil without peripherals.
func (m *Machine) PPU() *ppu.PPU {
	return m.ppu
}

// Joystick returns the joystick device, or nil without peripherals.
func (m *Machine) Joystick() *periph.Joystick {
	return m.joystick
}

// Timer returns the timer device, or nil without peripherals.
func (m *Machine) Timer() *periph.Timer {
	return m.timer
}
