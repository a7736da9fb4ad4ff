// Command strm16-debug is an interactive TUI inspector: it loads a raw
// machine-code binary, runs it one instruction at a time under operator
// control, and renders the surrounding memory page and register state
// after every step.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"strm16/emulator"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: strm16-debug <program.bin>")
		os.Exit(1)
	}

	program, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "read program:", err)
		os.Exit(1)
	}

	emu, err := emulator.New(program, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load program:", err)
		os.Exit(1)
	}

	result, err := tea.NewProgram(model{emu: emu}).Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "run debugger:", err)
		os.Exit(1)
	}

	final := result.(model)
	if final.error != nil {
		fmt.Println("Error:", final.error)
		os.Exit(1)
	}
}
