// Command ricones runs an iNES cartridge image through the ricones core and
// blits the resulting frame buffer to an SDL2 window.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/rincewound/ricones/diag"
	"github.com/rincewound/ricones/nes"
)

func init() {
	runtime.LockOSThread()
}

var (
	scale    int
	trace    bool
	headless bool
	logLines int
)

var rootCmd = &cobra.Command{
	Use:   "ricones [rom]",
	Short: "ricones - a cycle-budgeted NES core",
	Long: `ricones runs an iNES cartridge image through the Rico CPU, scanline
PPU and byte-addressed bus and presents the resulting frame buffer in an
SDL2 window.

FLAGS:
  --scale     integer window scale factor, applied to the 320x240 frame
  --trace     log a nestest-shaped line for every retired instruction
  --headless  run the orchestrator without opening a window, for scripted
              smoke-testing against a ROM
  --log-lines size of the retained diagnostic ring`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runROM(args[0])
	},
}

func runROM(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("ricones: opening rom: %w", err)
	}
	defer f.Close()

	cart, err := nes.LoadINES(f)
	if err != nil {
		return fmt.Errorf("ricones: loading rom: %w", err)
	}
	if cart.Mapper != 0 {
		return fmt.Errorf("ricones: unsupported mapper %d", cart.Mapper)
	}

	log := diag.NewRing(logLines)
	orch := nes.NewOrchestrator(cart, log)
	orch.CPU.Trace = trace

	if headless {
		return orch.Run(nullSink{}, func() bool { return false })
	}
	return runWindowed(orch)
}

// nullSink discards presented frames; used by --headless to drive the core
// to a halt (illegal opcode, bus fault) without any display dependency.
type nullSink struct{}

func (nullSink) Present(*[nes.FrameWidth * nes.FrameHeight]uint32) error {
	return nil
}

func runWindowed(orch *nes.Orchestrator) error {
	if err := sdl.Init(sdl.INIT_EVERYTHING); err != nil {
		return fmt.Errorf("ricones: unable to init sdl: %s", err)
	}
	defer sdl.Quit()

	win, err := newDisplayWindow(orch, scale)
	if err != nil {
		return fmt.Errorf("ricones: unable to create window: %s", err)
	}
	defer win.Free()

	return orch.Run(win, win.shouldQuit)
}

func main() {
	rootCmd.Flags().IntVar(&scale, "scale", 2, "window scale factor")
	rootCmd.Flags().BoolVar(&trace, "trace", false, "log a trace line per retired instruction")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "run without a window")
	rootCmd.Flags().IntVar(&logLines, "log-lines", 4096, "diagnostic ring capacity")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
