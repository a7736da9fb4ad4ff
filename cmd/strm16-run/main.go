// Command strm16-run executes a raw machine-code binary to completion and
// prints the final register file and flags.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"

	"strm16/emulator"
)

var (
	quiet   = flag.Bool("q", false, "suppress the final register/flag dump")
	traced  = flag.Bool("t", false, "keep a full trace index and dump it on exit")
	maxStep = flag.Int("max-steps", 0, "abort after this many instructions (0 = unbounded)")
)

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: strm16-run [-q] [-t] [-max-steps N] <program.bin>")
		os.Exit(1)
	}

	program, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "read program:", err)
		os.Exit(1)
	}

	var emu *emulator.Emulator
	var trace *emulator.TraceIndex
	if *traced {
		emu, trace, err = emulator.NewTraced(program)
	} else {
		emu, err = emulator.New(program, nil)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "load program:", err)
		os.Exit(1)
	}

	steps := 0
	for {
		status, err := emu.Step()
		if err != nil {
			fmt.Fprintln(os.Stderr, "execution fault:", err)
			os.Exit(1)
		}
		steps++
		if status == emulator.Halted {
			break
		}
		if *maxStep > 0 && steps >= *maxStep {
			fmt.Fprintf(os.Stderr, "aborted after %d steps\n", steps)
			os.Exit(1)
		}
	}

	if !*quiet {
		dumpFinalState(emu)
	}
	if trace != nil {
		spew.Dump(trace)
	}
}

func dumpFinalState(emu *emulator.Emulator) {
	fmt.Printf("pc=%04x carry=%v zero=%v\n", emu.PC, emu.ALU.Flags.Carry, emu.ALU.Flags.Zero)
	for i := byte(0); i < 16; i++ {
		v, _ := emu.Regs.Get(i)
		fmt.Printf("r%-2d = %04x\n", i, v)
	}
}
