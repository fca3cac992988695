// Package loader provides .yo object-file loading for Y64 programs.
//
// The .yo format is line-oriented text. A program-bearing line has the
// shape `ADDR: HEX_BLOB | comment`: the text before the colon is a
// hexadecimal load address (optional 0x/0X prefix), the text between the
// colon and the pipe is the byte payload with any non-hex characters
// ignored, and the remainder is discarded. Lines lacking either separator
// or carrying no payload bytes are skipped silently.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Segment is a run of program bytes with its load address.
type Segment struct {
	// Addr is the absolute address where the bytes should be loaded.
	Addr uint64
	// Data contains the segment bytes.
	Data []byte
}

// Program is a parsed .yo object file ready for loading into memory.
type Program struct {
	// Segments holds the program-bearing lines in file order.
	Segments []Segment
}

// Extent returns one past the highest address any segment touches. Used to
// size memory for the program.
func (p *Program) Extent() uint64 {
	var extent uint64
	for _, seg := range p.Segments {
		if end := seg.Addr + uint64(len(seg.Data)); end > extent {
			extent = end
		}
	}
	return extent
}

// Load parses a .yo object file from disk.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open object file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Parse reads .yo text and returns the program segments. Malformed lines
// are skipped; only a read failure produces an error.
func Parse(r io.Reader) (*Program, error) {
	prog := &Program{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			continue
		}
		pipe := strings.IndexByte(line[colon:], '|')
		if pipe < 0 {
			continue
		}
		pipe += colon

		data := parseHexBlob(line[colon+1 : pipe])
		if len(data) == 0 {
			continue
		}

		addr, err := parseAddress(line[:colon])
		if err != nil {
			continue
		}

		prog.Segments = append(prog.Segments, Segment{Addr: addr, Data: data})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read object file: %w", err)
	}

	return prog, nil
}

// parseHexBlob extracts byte values from a payload string, ignoring every
// non-hex-digit character and consuming digit pairs left to right.
func parseHexBlob(blob string) []byte {
	var digits []byte
	for i := 0; i < len(blob); i++ {
		if isHexDigit(blob[i]) {
			digits = append(digits, blob[i])
		}
	}

	data := make([]byte, 0, len(digits)/2)
	for i := 0; i+1 < len(digits); i += 2 {
		v, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			break
		}
		data = append(data, byte(v))
	}
	return data
}

func parseAddress(token string) (uint64, error) {
	cleaned := strings.TrimSpace(token)
	if rest, ok := strings.CutPrefix(cleaned, "0x"); ok {
		cleaned = rest
	} else if rest, ok := strings.CutPrefix(cleaned, "0X"); ok {
		cleaned = rest
	}
	if cleaned == "" {
		return 0, fmt.Errorf("empty address token")
	}
	return strconv.ParseUint(cleaned, 16, 64)
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}
