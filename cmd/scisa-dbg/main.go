// Command scisa-dbg is an interactive terminal debugger for SCISA
// programs: registers, flags, disassembly and RAM in one screen,
// stepped from the keyboard.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/mortie/scisa/cli"
	"github.com/mortie/scisa/disasm"
	"github.com/mortie/scisa/sce"
	"github.com/mortie/scisa/vm"
)

type debugger struct {
	app *tview.Application

	cpu  *vm.CPU[uint8]
	ram  []byte
	term *bytes.Buffer

	stateView  *tview.TextView
	disasmView *tview.TextView
	termView   *tview.TextView
	ramView    *tview.Table
}

func newDebugger(obj *sce.Object) *debugger {
	term := &bytes.Buffer{}
	cpu := cli.NewMachine(obj, term)

	d := &debugger{
		app:  tview.NewApplication(),
		cpu:  cpu,
		ram:  cpu.DMem[0].Data,
		term: term,
	}

	d.stateView = tview.NewTextView().SetDynamicColors(true)
	d.stateView.SetTitle("CPU").SetBorder(true)

	d.disasmView = tview.NewTextView().SetDynamicColors(true)
	d.disasmView.SetTitle("Disassembly").SetBorder(true)

	d.termView = tview.NewTextView()
	d.termView.SetTitle("Terminal").SetBorder(true)

	d.ramView = tview.NewTable().SetBorders(false)
	d.ramView.SetTitle("RAM").SetBorder(true)

	rightPane := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(d.stateView, 0, 1, false).
		AddItem(d.disasmView, 0, 3, false).
		AddItem(d.termView, 0, 1, false)

	flex := tview.NewFlex().
		AddItem(d.ramView, 0, 2, true).
		AddItem(rightPane, 0, 1, false)

	d.app.SetRoot(flex, true)
	d.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC, tcell.KeyEscape:
			d.app.Stop()
			return nil
		}
		switch event.Rune() {
		case 'n', ' ':
			d.cpu.Step(1)
			d.draw()
			return nil
		case 'c':
			// Run until the VM halts; a program that loops forever
			// keeps this loop running.
			for d.cpu.Err == nil {
				d.cpu.Step(cli.StepBatch)
			}
			d.draw()
			return nil
		case 'q':
			d.app.Stop()
			return nil
		}
		return event
	})

	return d
}

func (d *debugger) drawState() {
	sv := d.stateView
	sv.Clear()
	cpu := d.cpu
	fmt.Fprintf(sv, "PC %3d  SP %3d\n", cpu.PC, cpu.SP)
	fmt.Fprintf(sv, "ACC %3d  X %3d  Y %3d\n", cpu.Acc, cpu.X, cpu.Y)
	fmt.Fprintf(sv, "Z%d C%d N%d V%d\n",
		b2i(cpu.Flags.Zero()), b2i(cpu.Flags.Carry()),
		b2i(cpu.Flags.Negative()), b2i(cpu.Flags.Overflow()))
	if cpu.Err != nil {
		fmt.Fprintf(sv, "[red]halted: %s[-]\n", cpu.Err)
	}
}

func (d *debugger) drawDisasm() {
	dv := d.disasmView
	dv.Clear()
	for i := 0; i < len(d.cpu.PMem); {
		text, n := disasm.Instruction(d.cpu.PMem[i:])
		cursor := "  "
		if i == int(d.cpu.PC) {
			cursor = "[yellow]> "
		}
		fmt.Fprintf(dv, "%s%3d  %s[-]\n", cursor, i, text)
		i += n
	}
}

func (d *debugger) drawRAM() {
	const width = 16
	for i, b := range d.ram {
		cell := tview.NewTableCell(fmt.Sprintf("%02x", b))
		if b == 0 {
			cell.SetTextColor(tcell.ColorDimGray)
		}
		if i == int(d.cpu.SP) {
			cell.SetAttributes(tcell.AttrReverse)
		}
		d.ramView.SetCell(i/width, i%width, cell)
	}
}

func (d *debugger) drawTerm() {
	d.termView.SetText(strings.ToValidUTF8(d.term.String(), "."))
}

func (d *debugger) draw() {
	d.drawState()
	d.drawDisasm()
	d.drawRAM()
	d.drawTerm()
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// load reads an SCE image; a .s file is assembled in-process first.
func load(path string) (*sce.Object, error) {
	if !strings.HasSuffix(path, ".s") {
		return sce.Load(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := &bytes.Buffer{}
	if code := cli.Assemble(path, f, buf); code != 0 {
		return nil, fmt.Errorf("failed to assemble %q", path)
	}
	return sce.Decode(buf)
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s <file.sce | file.s>\n", os.Args[0])
		os.Exit(1)
	}

	obj, err := load(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to load %s: %s.", flag.Arg(0), err)
	}

	d := newDebugger(obj)
	d.draw()
	if err := d.app.Run(); err != nil {
		log.Fatal(err)
	}
}
