// Command scisa is the SCISA toolchain front-end: assemble, run,
// single-step or disassemble SCE images.
package main

import (
	"os"

	"github.com/mortie/scisa/cli"
)

func main() {
	os.Exit(cli.Main(os.Args))
}
