package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"boycore-dx/internal/bus"
	"boycore-dx/internal/cartridge"
	"boycore-dx/internal/cpu"
	"boycore-dx/internal/debug"
	"boycore-dx/internal/devkit"
	"boycore-dx/internal/display"
	"boycore-dx/internal/joypad"
	"boycore-dx/internal/ppu"
	"boycore-dx/internal/scheduler"
	"boycore-dx/internal/serial"
	"boycore-dx/internal/timer"
)

func main() {
	romPath := flag.String("rom", "", "Path to ROM file")
	scale := flag.Int("scale", 3, "Display scale (1-6)")
	unlimited := flag.Bool("unlimited", false, "Run at unlimited speed (no frame limit)")
	enableLog := flag.Bool("log", false, "Enable logging (disabled by default)")
	tracePath := flag.String("trace", "", "Write a per-step PC trace to this file (truncated on open)")
	enableDevkit := flag.Bool("devkit", false, "Show the Fyne debug overlay")
	flag.Parse()

	if *romPath == "" {
		fmt.Println("Usage: boycore-dx -rom <path-to-rom.gb>")
		fmt.Println("  -rom <path>     Path to ROM file (required)")
		fmt.Println("  -scale <1-6>    Display scale (default: 3)")
		fmt.Println("  -unlimited      Run at unlimited speed")
		fmt.Println("  -log            Enable logging (disabled by default)")
		fmt.Println("  -trace <path>   Write a per-step PC trace to this file (truncated on open)")
		fmt.Println("  -devkit         Show the Fyne debug overlay")
		os.Exit(1)
	}

	if *scale < 1 || *scale > 6 {
		fmt.Fprintf(os.Stderr, "Error: scale must be between 1 and 6\n")
		os.Exit(1)
	}

	romData, err := os.ReadFile(*romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ROM file: %v\n", err)
		os.Exit(1)
	}

	cart, err := cartridge.Load(romData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ROM: %v\n", err)
		os.Exit(1)
	}

	var logger *debug.Logger
	if *enableLog {
		logger = debug.NewLogger(10000)
		logger.SetComponentEnabled(debug.ComponentCPU, true)
		logger.SetComponentEnabled(debug.ComponentBus, true)
		logger.SetComponentEnabled(debug.ComponentPPU, true)
		logger.SetComponentEnabled(debug.ComponentScheduler, true)
		logger.SetComponentEnabled(debug.ComponentCartridge, true)
		logger.SetComponentEnabled(debug.ComponentSystem, true)
		logger.SetMinLevel(debug.LogLevelInfo)
	}

	var trace *debug.TraceWriter
	if *tracePath != "" {
		trace, err = debug.NewTraceWriter(*tracePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening trace file: %v\n", err)
			os.Exit(1)
		}
		defer trace.Close()
	}

	b := bus.New(cart)
	b.SetLogger(logger)

	pad := joypad.New()
	pad.SetBus(b)
	ser := serial.New()
	ser.SetBus(b)
	tim := timer.New()
	tim.SetBus(b)
	gpu := ppu.New()

	b.Joypad = pad
	b.Serial = ser
	b.Timer = tim
	b.PPU = gpu

	c := cpu.New(b)
	c.Logger = logger
	c.Trace = trace

	win, err := display.New(*scale, pad)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating display: %v\n", err)
		os.Exit(1)
	}
	defer win.Close()

	var overlay *devkit.Overlay
	if *enableDevkit {
		overlay = devkit.New()
		overlay.Show()
	}

	sched := scheduler.New(c, b, gpu, win)
	sched.Logger = logger
	sched.FrameLimit = !*unlimited

	fmt.Println("boycore-dx")
	fmt.Printf("ROM loaded: %s (%s)\n", *romPath, cart.Header.Title)
	fmt.Printf("Frame limit: %v, display scale: %dx\n", !*unlimited, *scale)
	fmt.Println("Controls: arrow keys, Z=A, X=B, Enter=Start, Shift=Select, Esc=quit")

	if overlay != nil {
		runWithOverlay(sched, c, overlay)
		return
	}

	if err := sched.Run(); err != nil {
		reportFatal(err)
		os.Exit(1)
	}
}

// runWithOverlay drives the scheduler frame-by-frame so the devkit
// overlay can be refreshed alongside the SDL2 display each iteration.
func runWithOverlay(sched *scheduler.Scheduler, c *cpu.CPU, overlay *devkit.Overlay) {
	for {
		quit, err := sched.RunFrame()
		if err != nil {
			reportFatal(err)
			os.Exit(1)
		}
		overlay.Update(devkit.Snapshot(c, c.LastOpcode), sched.LastFrame)
		if quit {
			return
		}
	}
}

// reportFatal prints a FaultError's faulting PC (per the CLI contract:
// exit code 1 with the faulting PC on stderr) or the error as-is.
func reportFatal(err error) {
	var fault *cpu.FaultError
	if errors.As(err, &fault) {
		fmt.Fprintf(os.Stderr, "%v\n", fault)
		return
	}
	fmt.Fprintf(os.Stderr, "%v\n", err)
}
