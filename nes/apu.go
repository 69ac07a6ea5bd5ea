package nes

import "github.com/rincewound/ricones/diag"

// APU occupies the $4000-$4017 window. Audio synthesis (pulse/triangle/noise
// channels, the frame sequencer, DMC) is a non-goal of this core, so the
// register surface is kept — reads and writes at every address in the
// window are accepted without error — but nothing downstream of $4015's
// channel-enable bits or the pulse/triangle/noise registers is implemented;
// those writes are retained only as diagnostic log entries.
//
// $4016 and $4017 are carved out of the window and forwarded to the two
// controller ports, since those two addresses are the one part of this
// range a test ROM can actually observe behaving like real hardware.
type APU struct {
	log *diag.Ring

	Controller1 *Controller
	Controller2 *Controller
}

// NewAPU builds a stub APU logging through log, with two unconnected
// controller ports.
func NewAPU(log *diag.Ring) *APU {
	return &APU{
		log:         log,
		Controller1: &Controller{},
		Controller2: &Controller{},
	}
}

// Read implements Handler. local is relative to $4000, so $4016 arrives as
// 0x16 and $4017 as 0x17.
func (a *APU) Read(local uint16) (byte, error) {
	switch local {
	case 0x16:
		return byte(a.Controller1.Read()), nil
	case 0x17:
		return byte(a.Controller2.Read()), nil
	default:
		a.log.Infof(nil, "apu: stub register read at $%04X", local+0x4000)
		return 0, nil
	}
}

// Write implements Handler. A write to $4016 strobes both controller ports,
// matching real hardware wiring the strobe line to both pads at once.
func (a *APU) Write(local uint16, v byte) error {
	switch local {
	case 0x16:
		a.Controller1.Write(v)
		a.Controller2.Write(v)
	default:
		a.log.Infof(nil, "apu: stub register write $%02X at $%04X", v, local+0x4000)
	}
	return nil
}

// Button identifies one of the eight standard controller buttons, in the
// shift-register order the real hardware reports them in.
type Button byte

const (
	A Button = iota
	B
	Select
	Start
	Up
	Down
	Left
	Right
)

// Controller is the $4016/$4017 port behind APU.Controller1/Controller2:
// each Read advances a read head through the eight latched button states,
// and a Write with bit 0 set resets the head to the first button and holds
// it there (strobe high) until a write with bit 0 clear is seen. Orchestrator
// drives Press/Release from its own Press/Release methods, which is the one
// path into the button array — nothing inside the APU/bus layer itself ever
// sets a button state, only reads it back through the shift register.
type Controller struct {
	buttons [8]Button
	head    byte
	strobe  byte
}

func (c *Controller) Read() Button {
	var value Button
	if c.head < 8 {
		value = c.buttons[c.head]
	} else {
		value = 0
	}
	c.head++
	if c.strobe&1 == 1 {
		c.head = 0
	}
	return value
}

func (c *Controller) Write(value byte) {
	c.strobe = value
	if c.strobe&1 == 1 {
		c.head = 0
	}
}

func (c *Controller) Press(button Button) {
	c.buttons[button] = 1
}

func (c *Controller) Release(button Button) {
	c.buttons[button] = 0
}
