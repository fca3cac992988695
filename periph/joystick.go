// Package periph provides the Y64 input and timing peripherals.
package periph

import (
	"io"
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// Joystick button bits. Bits 1-0 are reserved.
const (
	BitAUp   = 1 << 7
	BitADown = 1 << 6
	BitBUp   = 1 << 5
	BitBDown = 1 << 4
	BitStart = 1 << 3
	BitReset = 1 << 2
)

// Joystick is a single-byte input port. Each update it drains pending
// keyboard input and rebuilds the button bit-field for this frame:
// 'w'/'W' A-up, 's'/'S' A-down, up-arrow B-up, down-arrow B-down,
// 'e'/'E' start, 'r'/'R' reset. Writes are ignored.
//
// When the input stream is a terminal, construction puts it into raw
// non-blocking mode and Close restores the saved attributes. Callers must
// arrange for Close to run on every termination path.
type Joystick struct {
	input io.Reader
	state byte

	fd      uintptr
	origSet bool
	orig    unix.Termios
}

// JoystickOption configures a Joystick.
type JoystickOption func(*Joystick)

// WithInput reads key bytes from r instead of standard input. No terminal
// mode changes are made.
func WithInput(r io.Reader) JoystickOption {
	return func(j *Joystick) {
		j.input = r
	}
}

// NewJoystick creates a joystick. With no options it reads standard input
// and, when stdin is a terminal, switches it to raw non-blocking mode.
func NewJoystick(opts ...JoystickOption) *Joystick {
	j := &Joystick{}
	for _, opt := range opts {
		opt(j)
	}
	if j.input == nil {
		j.input = os.Stdin
		j.setRawMode(os.Stdin.Fd())
	}
	return j
}

// setRawMode saves the current terminal attributes and clears canonical
// mode and echo, with VMIN and VTIME zero so reads never block.
func (j *Joystick) setRawMode(fd uintptr) {
	if err := termios.Tcgetattr(fd, &j.orig); err != nil {
		return
	}

	raw := j.orig
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 0
	if err := termios.Tcsetattr(fd, termios.TCIFLUSH, &raw); err != nil {
		return
	}

	j.fd = fd
	j.origSet = true
}

// Close restores the terminal attributes saved at construction. Safe to
// call when no mode change was made, and safe to call more than once.
func (j *Joystick) Close() error {
	if !j.origSet {
		return nil
	}
	j.origSet = false
	return termios.Tcsetattr(j.fd, termios.TCIFLUSH, &j.orig)
}

// Read returns the current button bit-field.
func (j *Joystick) Read(addr uint64) byte {
	return j.state
}

// Write is ignored; the joystick is input-only.
func (j *Joystick) Write(addr uint64, data byte) {
}

// Update clears the bit-field and rescans whatever input is pending.
func (j *Joystick) Update() {
	j.state = 0

	buf := j.drain()
	for i := 0; i < len(buf); i++ {
		c := buf[i]

		// Arrow keys arrive as ESC [ A / ESC [ B.
		if c == 0x1b && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				j.state |= BitBUp
			case 'B':
				j.state |= BitBDown
			}
			i += 2
			continue
		}

		switch c {
		case 'w', 'W':
			j.state |= BitAUp
		case 's', 'S':
			j.state |= BitADown
		case 'e', 'E':
			j.state |= BitStart
		case 'r', 'R':
			j.state |= BitReset
		}
	}
}

// drain reads every pending byte from the input stream without blocking;
// the raw-mode VMIN/VTIME settings make terminal reads return immediately
// when nothing is pending.
func (j *Joystick) drain() []byte {
	var pending []byte
	var chunk [64]byte
	for {
		n, err := j.input.Read(chunk[:])
		if n > 0 {
			pending = append(pending, chunk[:n]...)
		}
		if n == 0 || err != nil {
			return pending
		}
	}
}
