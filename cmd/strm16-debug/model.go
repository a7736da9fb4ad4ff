package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"strm16/emulator"
)

// model is the TUI's state: an emulator instance plus enough bookkeeping
// to render a scrolling memory page table and a status panel after every
// step.
type model struct {
	emu    *emulator.Emulator
	offset uint16 // not read by the rendering; the page table is centred on PC
	prevPC uint16
	status emulator.Status
	error  error
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case " ", "j":
			if m.status == emulator.Halted {
				return m, nil
			}
			m.prevPC = m.emu.PC
			status, err := m.emu.Step()
			if err != nil {
				m.error = err
				return m, tea.Quit
			}
			m.status = status
		}
	}
	return m, nil
}

func (m model) renderPage(start uint16) string {
	s := fmt.Sprintf("%04x | ", start)
	for i := 0; i < 16; i++ {
		b, err := m.emu.Memory.Byte(start + uint16(i))
		if err != nil {
			break
		}
		if start+uint16(i) == m.emu.PC {
			s += fmt.Sprintf("[%02x] ", b)
		} else {
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

func (m model) renderStatus() string {
	var flags string
	for _, flag := range []bool{m.emu.ALU.Flags.Carry, m.emu.ALU.Flags.Zero} {
		if flag {
			flags += "/ "
		} else {
			flags += "  "
		}
	}

	var regs strings.Builder
	for i := byte(0); i < 16; i++ {
		v, _ := m.emu.Regs.Get(i)
		fmt.Fprintf(&regs, "r%-2d: %04x\n", i, v)
	}

	return fmt.Sprintf("PC: %04x (%04x)\nstatus: %s\nC Z\n%s\n%s", m.emu.PC, m.prevPC, m.status, flags, regs.String())
}

func (m model) pageTable() string {
	header := "addr | "
	for b := 0; b < 16; b++ {
		header += fmt.Sprintf("  %01x  ", b)
	}

	rows := []string{header}
	base := (m.emu.PC / 16) * 16
	for i := -2; i <= 2; i++ {
		addr := int(base) + i*16
		if addr < 0 {
			continue
		}
		rows = append(rows, m.renderPage(uint16(addr)))
	}
	return strings.Join(rows, "\n")
}

func (m model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.pageTable(),
			m.renderStatus(),
		),
		"",
		spew.Sdump(m.emu.ALU.Flags),
	)
}
