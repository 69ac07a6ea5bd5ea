package nes

import "github.com/rincewound/ricones/diag"

// ╔═════════════════╤═══════╤═════════════════════════════════════╗
// ║ Local addr      │ Name  │ Behavior                             ║
// ╠═════════════════╪═══════╪═════════════════════════════════════╣
// ║ 0 ($2000)       │ CTRL  │ write: bit 2 VRAM +1/+32, bit 7 NMI  ║
// ║ 1 ($2001)       │ MASK  │ write: rendering enables, logged     ║
// ║ 2 ($2002)       │ STATUS│ read: clears VBlank + addr latch     ║
// ║ 3 ($2003)       │ OAMADDR│ write: OAM pointer, logged           ║
// ║ 4 ($2004)       │ OAMDATA│ read/write: stubbed OAM byte         ║
// ║ 5 ($2005)       │ SCROLL│ write ×2: X then Y                   ║
// ║ 6 ($2006)       │ ADDR  │ write ×2: high byte then low byte    ║
// ║ 7 ($2007)       │ DATA  │ write: vram[addr], then addr += step ║
// ╚═════════════════╧═══════╧═════════════════════════════════════╝
//
// The Bus mounts the PPU across the whole $2000-$3FFF mirror (every 8 bytes
// repeats the same 8 registers), so Read/Write take the local address modulo
// 8 rather than assuming an 8-byte region.

// PpuCtrl is the write-only mirror of $2000.
type PpuCtrl byte

const (
	ctrlVRAMIncrement32 PpuCtrl = 1 << 2
	ctrlGenerateNMI     PpuCtrl = 1 << 7
)

// PpuMask is the write-only mirror of $2001. Rendering toggles are logged
// only — nothing in this core conditions drawing on them.
type PpuMask byte

// PpuStatus is the read-back value of $2002.
type PpuStatus byte

const (
	StatusSpriteOverflow PpuStatus = 0x20
	StatusSprite0Hit     PpuStatus = 0x40
	StatusVBlank         PpuStatus = 0x80
)

const (
	// FrameWidth and FrameHeight are the dimensions of the presented frame
	// buffer. The visible NES picture is 256x240; it is centered in a wider
	// 320-pixel buffer so overscan-adjacent display sinks don't need to
	// special-case the letterboxing themselves.
	FrameWidth  = 320
	FrameHeight = 240

	vramSize = 16 * 1024
	vramMask = 0x3FFF

	visibleLines = 224 // scanlines 0..223 are rendered
	vblankLine   = 225 // VBlank set on the transition into this line
	resetLine    = 245 // past this line, the frame wraps back to line 0
)

// PPU implements the register window at $2000-$2007 (mirrored through
// $3FFF) and holds the OAM that the $4014 DMA (Bus.TriggerOAMDMA, reached
// through a separate handler) copies into, and advances a pixel/scanline state
// machine proportional to the CPU cycles it is ticked with. Pattern and
// attribute combining is not implemented: the visible scanlines fill the
// frame buffer with the last-fetched nametable byte reinterpreted as a
// palette index, which is enough to exercise the timing without a real
// rendering pipeline.
type PPU struct {
	log *diag.Ring

	Ctrl   PpuCtrl
	Mask   PpuMask
	Status PpuStatus

	oamAddr byte
	oam     [256]byte

	vram     [vramSize]byte
	vramAddr uint16
	addrHigh bool // never set; $2006 sequencing is tracked by latch below
	latch    bool // shared write-toggle for $2005/$2006, cleared by $2002 read

	scrollX, scrollY byte

	line, pixel int

	// Frame is the shared output buffer, WIDTH x HEIGHT 0x00RRGGBB pixels.
	// The PPU only ever writes the central 256x240 region.
	Frame [FrameWidth * FrameHeight]uint32
}

// NewPPU builds a PPU logging through log.
func NewPPU(log *diag.Ring) *PPU {
	return &PPU{log: log}
}

// Read implements Handler for the $2000-$3FFF window.
func (p *PPU) Read(local uint16) (byte, error) {
	switch local % 8 {
	case 2:
		v := byte(p.Status)
		p.Status &^= StatusVBlank
		p.latch = false
		return v, nil
	case 4:
		return p.oam[p.oamAddr], nil
	default:
		p.log.Infof(nil, "ppu: read of write-only register at local $%04X", local)
		return 0, nil
	}
}

// Write implements Handler for the $2000-$3FFF window.
func (p *PPU) Write(local uint16, v byte) error {
	switch local % 8 {
	case 0:
		p.Ctrl = PpuCtrl(v)
	case 1:
		p.Mask = PpuMask(v)
		p.log.Infof(nil, "ppu: mask write $%02X", v)
	case 2:
		err := &BadAddress{Addr: local + 0x2000, Write: true}
		p.log.Fatalf(nil, "ppu: %v", err)
		return err
	case 3:
		p.oamAddr = v
		p.log.Infof(nil, "ppu: oamaddr set to $%02X", v)
	case 4:
		p.oam[p.oamAddr] = v
		p.oamAddr++
	case 5:
		if !p.latch {
			p.scrollX = v
		} else {
			p.scrollY = v
		}
		p.latch = !p.latch
	case 6:
		if !p.latch {
			p.vramAddr = uint16(v) << 8
		} else {
			p.vramAddr = p.vramAddr&0xFF00 | uint16(v)
		}
		p.latch = !p.latch
	case 7:
		p.vram[p.vramAddr&vramMask] = v
		p.advanceVRAMAddr()
	}
	return nil
}

func (p *PPU) advanceVRAMAddr() {
	step := uint16(1)
	if p.Ctrl&ctrlVRAMIncrement32 != 0 {
		step = 32
	}
	p.vramAddr += step
	if p.vramAddr > vramMask {
		p.vramAddr -= vramMask
	}
}

// Tick advances the pixel/scanline state machine by cycles CPU cycles (3
// pixels per cycle), filling visible scanlines with a placeholder color and
// reporting NMI on the transition into VBlank.
func (p *PPU) Tick(cycles uint64) Interrupt {
	signal := NoInterrupt

	p.pixel += int(cycles) * 3
	for p.pixel >= 256 {
		p.pixel -= 256
		if p.line < visibleLines {
			p.renderLine(p.line)
		}
		p.line++

		if p.line == vblankLine && p.Status&StatusVBlank == 0 {
			p.Status |= StatusVBlank
			if p.Ctrl&ctrlGenerateNMI != 0 {
				signal = NMI
			}
		}
		if p.line > resetLine {
			p.line = 0
			p.Status &^= StatusVBlank
		}
	}

	return signal
}

// renderLine fills one row of the central 256x240 visible region with the
// nametable byte the scanline's VRAM pointer currently references, used as
// an index into the NES master palette — a placeholder in place of real
// pattern/attribute compositing.
func (p *PPU) renderLine(line int) {
	const xOffset = (FrameWidth - 256) / 2
	color := Palette[p.vram[p.vramAddr&vramMask]%byte(len(Palette))]

	row := line * FrameWidth
	for x := 0; x < 256; x++ {
		p.Frame[row+xOffset+x] = color
	}
}
