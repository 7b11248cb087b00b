// Command nesgo runs the nesgo emulator core against an iNES ROM
// image, either for a fixed number of instructions (headless) or in a
// window via internal/display.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/nescore/nesgo/internal/display"
	"github.com/nescore/nesgo/internal/emuerr"
	"github.com/nescore/nesgo/internal/emulator"
)

func main() {
	var (
		romFile    = flag.String("rom", "", "path to an iNES ROM file")
		steps      = flag.Int("steps", 0, "run this many CPU instructions headless, then exit (0 = unlimited)")
		stopOnBRK  = flag.Bool("stop-on-brk", true, "in headless mode, stop when the CPU executes BRK")
		snapshot   = flag.String("snapshot", "", "write a PPM snapshot of the final frame to this path")
		showWindow = flag.Bool("display", false, "open a window and run interactively instead of headless")
		scale      = flag.Int("scale", 2, "window scale factor (only with -display)")
		showVer    = flag.Bool("version", false, "print version information and exit")
	)
	flag.Parse()

	if *showVer {
		printVersion()
		return
	}

	if *romFile == "" {
		fmt.Fprintln(os.Stderr, "nesgo: -rom is required")
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(*romFile)
	if err != nil {
		glog.Exitf("nesgo: read ROM: %v", err)
	}

	e := emulator.New()
	if err := e.Load(data); err != nil {
		if emuerr.Is(err, emuerr.InvalidCartridge) {
			glog.Exitf("nesgo: invalid cartridge: %v", err)
		}
		glog.Exitf("nesgo: load ROM: %v", err)
	}
	e.Reset()

	if *showWindow {
		if err := display.NewWindow(e, *scale).Run("nesgo"); err != nil {
			glog.Exitf("nesgo: display: %v", err)
		}
		return
	}

	runHeadless(e, *steps, *stopOnBRK)

	if *snapshot != "" {
		if err := writePPM(e, *snapshot); err != nil {
			glog.Exitf("nesgo: snapshot: %v", err)
		}
	}
}

func runHeadless(e *emulator.Emulator, steps int, stopOnBRK bool) {
	for i := 0; steps == 0 || i < steps; i++ {
		e.Step()
		if stopOnBRK && e.BRKHit() {
			glog.Infof("nesgo: stopped on BRK after %d instructions (%s)", i+1, e.CPUState())
			return
		}
	}
}

func writePPM(e *emulator.Emulator, path string) error {
	const w, h = 256, 240
	buf := make([]uint8, w*h*3)
	e.Frame(buf)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "P3\n%d %d\n255\n", w, h); err != nil {
		return err
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 3
			if _, err := fmt.Fprintf(f, "%d %d %d ", buf[i], buf[i+1], buf[i+2]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(f); err != nil {
			return err
		}
	}
	return nil
}
