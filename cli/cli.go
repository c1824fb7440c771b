// Package cli implements the scisa front-end: mode selection and the thin
// drivers wiring the assembler, linker, object codec and VM together.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mortie/scisa/asm"
	"github.com/mortie/scisa/disasm"
	"github.com/mortie/scisa/sce"
	"github.com/mortie/scisa/vm"
)

// RAM and I/O layout of the reference machine. The terminal device sits on
// the last RAM byte; I/O is searched first, so byte accesses to 255 hit
// the terminal while word accesses still reach RAM.
const (
	RAMSize      = 256
	TerminalAddr = 255
)

// StepBatch is how many instructions the run driver executes per Step call.
const StepBatch = 1024

// NewMachine builds the reference 8-bit machine for an SCE image: 256
// bytes of RAM at 0 preloaded with the DATA section, the terminal device
// at 255 writing to term, and the TEXT section as program memory.
func NewMachine(obj *sce.Object, term io.Writer) *vm.CPU[uint8] {
	cpu := vm.New[uint8]()
	ram := make([]byte, RAMSize)
	copy(ram, obj.Data)
	cpu.DMem = append(cpu.DMem, vm.MappedMem[uint8]{Start: 0, Data: ram})
	cpu.IO = append(cpu.IO, vm.MappedIO[uint8]{
		Start: TerminalAddr,
		Size:  1,
		IO:    &vm.TextIO{W: term},
	})
	cpu.PMem = obj.Text
	return cpu
}

// Main dispatches the command line and returns the process exit code.
func Main(args []string) int {
	if len(args) < 2 {
		usage(args[0])
		return 1
	}

	mode, rest := args[1], args[2:]
	switch mode {
	case "run":
		if len(rest) == 1 {
			return runFile(rest[0])
		}
	case "dbg":
		if len(rest) == 1 {
			return dbgFile(rest[0])
		}
	case "dis":
		if len(rest) == 1 {
			return disFile(rest[0])
		}
	case "asm":
		if len(rest) <= 2 {
			return asmFiles(rest)
		}
	}

	usage(args[0])
	return 1
}

func usage(argv0 string) {
	fmt.Printf("Usage: %s run <file>\n", argv0)
	fmt.Printf("Usage: %s dbg <file>\n", argv0)
	fmt.Printf("Usage: %s dis <file>\n", argv0)
	fmt.Printf("Usage: %s asm [infile] [outfile]\n", argv0)
}

// runFile executes an SCE image until the VM halts. The VM always halts
// with an error condition; even normal completion is "PC out of bounds",
// so run always exits 1.
func runFile(path string) int {
	obj, err := sce.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %s\n", path, err)
		return 1
	}

	cpu := NewMachine(obj, os.Stderr)
	for cpu.Err == nil {
		cpu.Step(StepBatch)
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", cpu.Err)
	return 1
}

// dbgFile single-steps an SCE image, one instruction per line of stdin,
// dumping the CPU state after each step.
func dbgFile(path string) int {
	obj, err := sce.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %s\n", path, err)
		return 1
	}

	cpu := NewMachine(obj, os.Stderr)
	DumpCPU(os.Stdout, cpu)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		cpu.Step(1)
		if cpu.Err != nil {
			fmt.Printf("Error: %s\n", cpu.Err)
			return 1
		}
		DumpCPU(os.Stdout, cpu)
	}
	return 1
}

// DumpCPU prints the register file, the flag bits and the disassembly of
// the next instruction.
func DumpCPU(w io.Writer, cpu *vm.CPU[uint8]) {
	fmt.Fprintf(w, "PC %d; SP %d\n", cpu.PC, cpu.SP)
	fmt.Fprintf(w, "ACC %d; X %d; Y %d\n", cpu.Acc, cpu.X, cpu.Y)
	fmt.Fprintf(w, "Z%d C%d N%d V%d\n",
		b2i(cpu.Flags.Zero()), b2i(cpu.Flags.Carry()),
		b2i(cpu.Flags.Negative()), b2i(cpu.Flags.Overflow()))

	var next []byte
	if int(cpu.PC) < len(cpu.PMem) {
		next = cpu.PMem[cpu.PC:]
	}
	text, _ := disasm.Instruction(next)
	fmt.Fprintln(w, text)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// disFile dumps the disassembly of an SCE image's TEXT section.
func disFile(path string) int {
	obj, err := sce.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %s\n", path, err)
		return 1
	}

	for i := 0; i < len(obj.Text); {
		text, n := disasm.Instruction(obj.Text[i:])
		fmt.Printf("%3d\t%s\n", i, text)
		i += n
	}
	return 0
}

// asmFiles assembles and links source into an SCE image. With no
// arguments it reads stdin and writes stdout; one argument names the
// input file; two name input and output.
func asmFiles(args []string) int {
	in, out := io.Reader(os.Stdin), io.Writer(os.Stdout)
	name := "<stdin>"

	if len(args) >= 1 {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open %s: %s\n", args[0], err)
			return 1
		}
		defer f.Close()
		in, name = f, args[0]
	}
	if len(args) >= 2 {
		f, err := os.Create(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create %s: %s\n", args[1], err)
			return 1
		}
		defer f.Close()
		out = f
	}

	return Assemble(name, in, out)
}

// Assemble runs the assembler and linker over src and writes the SCE
// image to out.
func Assemble(name string, src io.Reader, out io.Writer) int {
	a, err := asm.Assemble(name, src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Assembler error: %s\n", err)
		return 1
	}
	if err := asm.Link(a); err != nil {
		fmt.Fprintf(os.Stderr, "Linker error: %s\n", err)
		return 1
	}

	obj := &sce.Object{Text: a.Text().Content, Data: a.Data().Content}
	if err := sce.Encode(out, obj); err != nil {
		fmt.Fprintf(os.Stderr, "Output error: %s\n", err)
		return 1
	}
	return 0
}
