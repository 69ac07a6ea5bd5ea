package nes

import (
	"fmt"

	"github.com/rincewound/ricones/diag"
)

// NTSC frame timing: 262 scanlines/frame at roughly 113.667 CPU cycles per
// scanline. This core rounds up and drives a fixed 240-iteration loop of
// cpu.Execute(114) per frame. The loop is not tied to the PPU's own line
// counter: the PPU counts 256 pixels per line at 3 pixels per cycle, so one
// Execute(114) advances it by about 1.34 lines, and it wraps after line 245.
const (
	cyclesPerScanline uint64 = 114
	scanlinesPerFrame        = 240
)

// oamDMAPort is a one-byte Handler mounted at $4014. Writing it triggers the
// sprite DMA copy; it is registered ahead of the APU's wider $4000-$4017
// range so "first registered wins" gives it priority over that range.
type oamDMAPort struct {
	bus *Bus
}

func (p *oamDMAPort) Read(local uint16) (byte, error) {
	return 0, nil
}

func (p *oamDMAPort) Write(local uint16, v byte) error {
	return p.bus.TriggerOAMDMA(v)
}

// Orchestrator owns one assembled console: a Bus wiring together RAM, PPU,
// APU, and a loaded Cartridge, and the CPU driving it. Run presents a
// caller-supplied sink with the PPU's frame buffer once per 240-scanline
// cycle budget, the unit spec.md calls a frame.
type Orchestrator struct {
	Bus *Bus
	CPU *CPU
	PPU *PPU
	APU *APU

	log *diag.Ring
}

// NewOrchestrator assembles a console around cart and returns it ready to
// run, with the CPU already reset to its power-on state.
func NewOrchestrator(cart *Cartridge, log *diag.Ring) *Orchestrator {
	bus := NewBus(log)

	ram := NewRAM()
	ppu := NewPPU(log)
	apu := NewAPU(log)

	bus.Register(0x0000, 0x1FFF, ram)
	bus.Register(0x4014, 0x4014, &oamDMAPort{bus: bus})
	bus.Register(0x4000, 0x4017, apu)
	bus.Register(0x2000, 0x3FFF, ppu)
	bus.Register(0x8000, 0xFFFF, cart)

	cpu := NewCPU(bus, log)

	return &Orchestrator{
		Bus: bus,
		CPU: cpu,
		PPU: ppu,
		APU: apu,
		log: log,
	}
}

// FrameSink receives a completed frame buffer. The window/display layer in
// cmd/ricones implements this; tests can use a no-op or a recording stub.
type FrameSink interface {
	Present(frame *[FrameWidth * FrameHeight]uint32) error
}

// Run drives the console until quit reports true or the CPU halts on an
// illegal opcode or unmapped fetch, presenting a frame to sink after every
// 240-iteration cpu.Execute(114) cycle.
func (o *Orchestrator) Run(sink FrameSink, quit func() bool) error {
	for !quit() {
		if err := o.Frame(); err != nil {
			return err
		}
		if err := sink.Present(&o.PPU.Frame); err != nil {
			return fmt.Errorf("nes: presenting frame: %w", err)
		}
	}
	return nil
}

// Frame retires exactly one frame's worth of CPU cycles: 240 iterations of
// Execute(114), the NTSC scanline count rounded up to a fixed per-scanline
// budget.
func (o *Orchestrator) Frame() error {
	for i := 0; i < scanlinesPerFrame; i++ {
		if _, err := o.CPU.Execute(cyclesPerScanline); err != nil {
			return err
		}
	}
	return nil
}

// Press forwards a controller button press to port 0 or 1.
func (o *Orchestrator) Press(port int, button Button) {
	o.controller(port).Press(button)
}

// Release forwards a controller button release to port 0 or 1.
func (o *Orchestrator) Release(port int, button Button) {
	o.controller(port).Release(button)
}

func (o *Orchestrator) controller(port int) *Controller {
	if port == 1 {
		return o.APU.Controller2
	}
	return o.APU.Controller1
}
