package nes

import (
	"fmt"

	"github.com/rincewound/ricones/diag"
)

// ╔═════════════════╤═══════╤═════════════════════════╤═══════════╗
// ║ Address Range   │ Size  │ Purpose                 │ Kind      ║
// ╠═════════════════╪═══════╪═════════════════════════╪═══════════╣
// ║ 0x8000 - 0xFFFF │ 32768 │ PRG-ROM (NROM)          │ Cartridge ║
// ╠═════════════════╪═══════╪═════════════════════════╪═══════════╣
// ║ 0x4014          │ 1     │ Sprite DMA trigger      │   PPU     ║
// ╟╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌┼╌╌╌╌╌╌╌┼╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌┤           ║
// ║ 0x4000 - 0x4017 │ 24    │ APU / controllers (stub)│  Stub     ║
// ╠═════════════════╪═══════╪═════════════════════════╪═══════════╣
// ║ 0x2000 - 0x3FFF │ 8192  │ PPU registers, mirrored │   PPU     ║
// ╠═════════════════╪═══════╪═════════════════════════╪═══════════╣
// ║ 0x0000 - 0x1FFF │ 8192  │ 2KiB RAM, mirrored      │   RAM     ║
// ╚═════════════════╧═══════╧═════════════════════════╧═══════════╝

// BadAddress is returned by a Handler (or by the Bus itself, when no
// Handler claims an address) to report a miss against the address space. The
// CPU treats a BadAddress on fetch or operand read as fatal; on write it is
// logged and execution continues, emulating an open bus.
type BadAddress struct {
	Addr  uint16
	Write bool
}

func (e *BadAddress) Error() string {
	verb := "read"
	if e.Write {
		verb = "write"
	}
	return fmt.Sprintf("bus: unmapped %s at $%04X", verb, e.Addr)
}

// Handler services reads and writes for one region of the address space.
// Addresses passed to a Handler are already translated into its local
// coordinate space (address minus the region's begin): handlers never see
// the absolute bus address, so a RAM or ROM handler can be written, and
// tested, without any knowledge of where the Bus mounted it.
type Handler interface {
	Read(local uint16) (byte, error)
	Write(local uint16, v byte) error
}

// Interrupt is a signal a Ticker can raise back to the Bus while advancing.
type Interrupt int

const (
	// NoInterrupt means the tick produced nothing the CPU needs to act on.
	NoInterrupt Interrupt = iota
	// NMI is raised by the PPU on the transition into VBlank.
	NMI
)

// Ticker is implemented by handlers that need to advance internal state in
// step with CPU cycles (only the PPU, today). A Ticker may report at most
// one Interrupt per Tick call.
type Ticker interface {
	Tick(cycles uint64) Interrupt
}

type region struct {
	begin, end uint16
	handler    Handler
}

func (r region) contains(addr uint16) bool {
	return addr >= r.begin && addr <= r.end
}

// Bus is a byte-addressed address space with range-based dispatch to
// handler regions. Regions are searched in registration order; the first
// whose closed range contains the address services the access ("first
// registered wins"), so overlapping registrations are a configuration
// choice, not an error.
//
// This replaces the source's reference-counted, interior-mutable bus
// wrapper: Bus is a plain owning container, and sprite DMA (which needs to
// read and write the bus while servicing a bus write) is modeled as a
// method the Bus exposes to itself rather than a handle threaded back in
// through a wrapper.
type Bus struct {
	regions []region
	tickers []Ticker
	log     *diag.Ring

	ppu *PPU // kept directly for the $4014 OAM DMA fast path
}

// NewBus builds an empty Bus. Call Register for each handler before use.
func NewBus(log *diag.Ring) *Bus {
	return &Bus{log: log}
}

// Register attaches handler to the closed range [begin, end]. If handler
// also implements Ticker, it is added to the tick broadcast list exactly
// once Register is called (no separate registration step needed).
//
// Exactly one handler should service any given address; if ranges overlap,
// the earliest Register call wins per the "first registered wins" rule.
func (b *Bus) Register(begin, end uint16, handler Handler) {
	b.regions = append(b.regions, region{begin: begin, end: end, handler: handler})
	if t, ok := handler.(Ticker); ok {
		b.tickers = append(b.tickers, t)
	}
	if p, ok := handler.(*PPU); ok {
		b.ppu = p
	}
}

// find returns the handler that owns addr along with its region's base
// address, so callers can translate into local coordinates without a
// second scan over regions.
func (b *Bus) find(addr uint16) (Handler, uint16) {
	for _, r := range b.regions {
		if r.contains(addr) {
			return r.handler, r.begin
		}
	}
	return nil, 0
}

// Read8 forwards a read to the handler that owns addr, translating addr
// into that handler's local coordinate space first.
func (b *Bus) Read8(addr uint16) (byte, error) {
	h, begin := b.find(addr)
	if h == nil {
		return 0, &BadAddress{Addr: addr}
	}

	v, err := h.Read(addr - begin)
	if err != nil {
		return 0, err
	}
	return v, nil
}

// Write8 forwards a write to the handler that owns addr. A write to an
// unmapped address is logged and reported as BadAddress, but — unlike a
// read miss — is not fatal to the caller; this emulates tying an open bus.
func (b *Bus) Write8(addr uint16, v byte) error {
	h, begin := b.find(addr)
	if h == nil {
		err := &BadAddress{Addr: addr, Write: true}
		b.log.Warnf(nil, "bus: %v", err)
		return err
	}

	return h.Write(addr-begin, v)
}

// Read16 performs two sequential Read8 calls at addr and addr+1, composing
// the result little-endian (low byte at addr, high byte at addr+1). This is
// the one place earlier source revisions disagreed on byte order; read16 is
// always little-endian here, since the reset vector, indirect addressing,
// and JSR's stack layout all assume it.
func (b *Bus) Read16(addr uint16) (uint16, error) {
	lo, err := b.Read8(addr)
	if err != nil {
		return 0, err
	}
	hi, err := b.Read8(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// Tick forwards cycles (CPU cycles, not PPU pixels) to every registered
// Ticker and reports back the strongest interrupt any of them raised. It is
// the Bus's responsibility to broadcast, not the CPU's — the CPU only knows
// it retired some cycles.
func (b *Bus) Tick(cycles uint64) Interrupt {
	signal := NoInterrupt
	for _, t := range b.tickers {
		if i := t.Tick(cycles); i != NoInterrupt {
			signal = i
		}
	}
	return signal
}

// TriggerOAMDMA performs the 256-byte sprite DMA copy from $XX00-$XXFF (page
// selected by the byte written to $4014) into the PPU's OAM. It is invoked
// by the one-byte handler the Orchestrator mounts at $4014, which holds a
// pointer back to this Bus, since the transfer needs to read arbitrary bus
// addresses while also being the thing $4014's write ultimately does;
// modeling it as a Bus method on itself avoids the source's
// reference-counted bus-wrapper workaround.
func (b *Bus) TriggerOAMDMA(page byte) error {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		v, err := b.Read8(base + uint16(i))
		if err != nil {
			return err
		}
		if b.ppu != nil {
			b.ppu.oam[byte(i)+b.ppu.oamAddr] = v
		}
	}
	return nil
}
