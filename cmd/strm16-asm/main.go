// Command strm16-asm assembles a line-oriented textual program into a raw
// machine-code binary. Syntax is deliberately minimal: one mnemonic per
// line, e.g. "LoadI r0 1337", "Add r0 r1", "Halt". It exists to produce
// test fixtures for strm16-run and strm16-debug, not as a general-purpose
// front end.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"strm16/isa"
)

var out = flag.String("o", "a.bin", "output binary path")

var mnemonics = map[string]isa.Kind{
	"nop": isa.Nop, "loadi": isa.LoadI, "load": isa.Load, "store": isa.Store,
	"cpy": isa.Cpy, "jmp": isa.Jmp, "jmpc": isa.JmpC, "jmpz": isa.JmpZ,
	"add": isa.Add, "sub": isa.Sub, "addc": isa.AddC, "subc": isa.SubC,
	"and": isa.And, "loadh": isa.LoadH, "loadl": isa.LoadL,
	"storeh": isa.StoreH, "storel": isa.StoreL, "halt": isa.Halt,
}

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: strm16-asm [-o out.bin] <source.asm>")
		os.Exit(1)
	}

	src, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "open source:", err)
		os.Exit(1)
	}
	defer src.Close()

	var program []byte
	scanner := bufio.NewScanner(src)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		instr, ok, err := parseLine(scanner.Text())
		if err != nil {
			fmt.Fprintf(os.Stderr, "line %d: %v\n", lineNo, err)
			os.Exit(1)
		}
		if !ok {
			continue
		}
		bs, err := isa.Assemble(instr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "line %d: %v\n", lineNo, err)
			os.Exit(1)
		}
		program = append(program, bs...)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "read source:", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, program, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "write output:", err)
		os.Exit(1)
	}
}

func parseLine(line string) (isa.Instruction, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, ";") {
		return isa.Instruction{}, false, nil
	}

	fields := strings.Fields(line)
	kind, ok := mnemonics[strings.ToLower(fields[0])]
	if !ok {
		return isa.Instruction{}, false, fmt.Errorf("unknown mnemonic %q", fields[0])
	}

	args := fields[1:]
	switch {
	case kind.HasImmediate():
		if len(args) != 2 {
			return isa.Instruction{}, false, fmt.Errorf("%s needs <reg> <immediate>", fields[0])
		}
		reg, err := parseReg(args[0])
		if err != nil {
			return isa.Instruction{}, false, err
		}
		imm, err := strconv.ParseUint(args[1], 0, 16)
		if err != nil {
			return isa.Instruction{}, false, fmt.Errorf("bad immediate %q: %w", args[1], err)
		}
		return isa.NewImmediate(kind, reg, uint16(imm)), true, nil

	case len(args) == 0:
		return isa.NewInstructionA(kind, 0), true, nil

	case len(args) == 1:
		reg, err := parseReg(args[0])
		if err != nil {
			return isa.Instruction{}, false, err
		}
		return isa.NewInstructionA(kind, reg), true, nil

	case len(args) == 2:
		a, err := parseReg(args[0])
		if err != nil {
			return isa.Instruction{}, false, err
		}
		b, err := parseReg(args[1])
		if err != nil {
			return isa.Instruction{}, false, err
		}
		return isa.NewInstruction(kind, a, b), true, nil

	default:
		return isa.Instruction{}, false, fmt.Errorf("too many operands for %s", fields[0])
	}
}

func parseReg(s string) (byte, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "r")
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil || n > 15 {
		return 0, fmt.Errorf("bad register %q", s)
	}
	return byte(n), nil
}
