// Package scheduler drives the step loop: it accumulates CPU cycles,
// synthesizes VBlank at the frame boundary, and hands the composited
// frame to a display sink.
package scheduler

import (
	"fmt"
	"time"

	"boycore-dx/internal/bus"
	"boycore-dx/internal/cpu"
	"boycore-dx/internal/debug"
	"boycore-dx/internal/ppu"
)

// FrameBudget is the number of machine cycles (1 = 4 T-states) per
// frame: 70224 T-states / 4.
const FrameBudget = 70224 / 4

// DisplaySink receives a composited frame. Present returns false to
// request shutdown (e.g. the user closed the window).
type DisplaySink interface {
	Present(frame [ppu.ScreenHeight][ppu.ScreenWidth]uint8) bool
}

// Scheduler ties the CPU, bus and PPU together and paces frames against
// a target rate.
type Scheduler struct {
	CPU  *cpu.CPU
	Bus  *bus.Bus
	PPU  *ppu.PPU
	Sink DisplaySink

	Logger *debug.Logger

	TargetFPS   float64
	FrameLimit  bool
	lastFrameAt time.Time

	cycleAccumulator uint32

	// LastFrame is the most recently composited frame, exposed for
	// collaborators (like the devkit overlay) that render alongside the
	// primary display sink.
	LastFrame [ppu.ScreenHeight][ppu.ScreenWidth]uint8

	FPS           float64
	frameCount    uint64
	fpsWindowFrom time.Time
}

// New creates a scheduler wired to the given components.
func New(c *cpu.CPU, b *bus.Bus, p *ppu.PPU, sink DisplaySink) *Scheduler {
	now := time.Now()
	return &Scheduler{
		CPU:           c,
		Bus:           b,
		PPU:           p,
		Sink:          sink,
		TargetFPS:     59.7,
		FrameLimit:    true,
		lastFrameAt:   now,
		fpsWindowFrom: now,
	}
}

// Run drives frames until the CPU faults or the display sink signals
// shutdown, returning the fault error (if any).
func (s *Scheduler) Run() error {
	for {
		quit, err := s.RunFrame()
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// RunFrame steps the CPU until a full frame budget of cycles has been
// consumed, then renders and presents the frame. It returns quit=true
// when the display sink requests shutdown.
func (s *Scheduler) RunFrame() (quit bool, err error) {
	for s.cycleAccumulator < FrameBudget {
		cycles, stepErr := s.CPU.Step()
		if stepErr != nil {
			return false, fmt.Errorf("scheduler: fatal CPU fault: %w", stepErr)
		}
		s.cycleAccumulator += cycles
	}
	s.cycleAccumulator -= FrameBudget

	frame := s.PPU.Render(s.Bus.VRAM, s.Bus.OAM)
	s.LastFrame = frame
	s.Bus.RequestInterrupt(cpu.InterruptVBlank)

	s.updateFPS()
	s.pace()

	if s.Logger != nil {
		s.Logger.Logf(debug.ComponentScheduler, debug.LogLevelDebug, "frame presented, fps=%.1f", s.FPS)
	}

	if s.Sink == nil {
		return false, nil
	}
	return !s.Sink.Present(frame), nil
}

func (s *Scheduler) updateFPS() {
	s.frameCount++
	now := time.Now()
	elapsed := now.Sub(s.fpsWindowFrom)
	if elapsed >= time.Second {
		s.FPS = float64(s.frameCount) / elapsed.Seconds()
		s.frameCount = 0
		s.fpsWindowFrom = now
	}
}

func (s *Scheduler) pace() {
	if !s.FrameLimit {
		s.lastFrameAt = time.Now()
		return
	}
	target := time.Duration(float64(time.Second) / s.TargetFPS)
	elapsed := time.Since(s.lastFrameAt)
	if elapsed < target {
		time.Sleep(target - elapsed)
	}
	s.lastFrameAt = time.Now()
}
