// Package main provides the entry point for y64sim.
// y64sim is a five-stage sequential emulator for a Y86-64-patterned
// teaching ISA.
//
// For the batch CLI, use: go run ./cmd/y64sim
// For the interactive CLI, use: go run ./cmd/y64term
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("y64sim - Y64 teaching-ISA emulator")
	fmt.Println("")
	fmt.Println("Drivers:")
	fmt.Println("  go run ./cmd/y64sim  < program.yo   Batch: JSON trace to stdout")
	fmt.Println("  go run ./cmd/y64term   program.yo   Interactive: terminal rendering")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use one of the drivers above instead.")
	}
}
