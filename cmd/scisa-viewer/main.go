// Command scisa-viewer renders a running SCISA machine in a window: the
// RAM grid, the register file and the terminal output, advancing the CPU
// a few instructions per frame.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/bitmapfont/v3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/mortie/scisa/cli"
	"github.com/mortie/scisa/disasm"
	"github.com/mortie/scisa/sce"
	"github.com/mortie/scisa/vm"
)

const initialScreenWidth, initialScreenHeight = 640, 480

// stepsPerFrame keeps the RAM animation watchable; hold shift to go fast.
const stepsPerFrame = 4

var fontFace = text.NewGoXFace(bitmapfont.Face)

// Game implements ebiten.Game interface.
type Game struct {
	cpu    *vm.CPU[uint8]
	ram    []byte
	term   *bytes.Buffer
	paused bool
}

// Update proceeds the game state.
// Update is called every tick (1/60 [s] by default).
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if g.paused && !inpututil.IsKeyJustPressed(ebiten.KeyN) {
		return nil
	}

	steps := stepsPerFrame
	if g.paused {
		steps = 1
	} else if ebiten.IsKeyPressed(ebiten.KeyShiftLeft) {
		steps = cli.StepBatch
	}
	g.cpu.Step(steps)
	return nil
}

// Draw draws the game screen.
// Draw is called every frame (typically 1/60[s] for 60Hz display).
func (g *Game) Draw(screen *ebiten.Image) {
	lines := make([]string, 0, 24)

	const width = 16
	var sb strings.Builder
	for i, b := range g.ram {
		if i%width == 0 && i != 0 {
			lines = append(lines, sb.String())
			sb.Reset()
		}
		fmt.Fprintf(&sb, "%02x ", b)
	}
	lines = append(lines, sb.String(), "")

	cpu := g.cpu
	lines = append(lines,
		fmt.Sprintf("PC %3d  SP %3d  ACC %3d  X %3d  Y %3d", cpu.PC, cpu.SP, cpu.Acc, cpu.X, cpu.Y),
		fmt.Sprintf("Z%d C%d N%d V%d",
			b2i(cpu.Flags.Zero()), b2i(cpu.Flags.Carry()),
			b2i(cpu.Flags.Negative()), b2i(cpu.Flags.Overflow())),
	)

	var next []byte
	if int(cpu.PC) < len(cpu.PMem) {
		next = cpu.PMem[cpu.PC:]
	}
	ins, _ := disasm.Instruction(next)
	lines = append(lines, "next: "+ins)

	if cpu.Err != nil {
		lines = append(lines, "halted: "+cpu.Err.Error())
	}
	lines = append(lines, "", "term: "+strings.ToValidUTF8(g.term.String(), "."))

	textOp := &text.DrawOptions{}
	textOp.GeoM.Translate(8, 8)
	textOp.LineSpacing = fontFace.Metrics().HLineGap + fontFace.Metrics().HAscent + fontFace.Metrics().HDescent
	textOp.ColorScale.ScaleWithColor(color.RGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff})

	text.Draw(screen, strings.Join(lines, "\n"), fontFace, textOp)
}

// Layout takes the outside size (e.g., the window size) and returns the (logical) screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return initialScreenWidth, initialScreenHeight
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s <file.sce>\n", os.Args[0])
		os.Exit(1)
	}

	obj, err := sce.Load(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to load %s: %s.", flag.Arg(0), err)
	}

	term := &bytes.Buffer{}
	cpu := cli.NewMachine(obj, term)
	game := &Game{
		cpu:    cpu,
		ram:    cpu.DMem[0].Data,
		term:   term,
		paused: true,
	}

	ebiten.SetWindowSize(initialScreenWidth, initialScreenHeight)
	ebiten.SetWindowTitle("SCISA")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
