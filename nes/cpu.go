package nes

import (
	"errors"
	"fmt"

	"github.com/rincewound/ricones/diag"
	"github.com/sirupsen/logrus"
)

const (
	nmiVector uint16 = 0xFFFA
	stackHi   uint16 = 0x0100

	resetPC = 0x8000
	resetS  = 0xFD
	resetP  = Flags(0x34)

	nmiCycles uint64 = 7

	// oamDMARegister is the absolute bus address a write to which triggers
	// the 256-byte sprite DMA transfer (see Bus.TriggerOAMDMA). The real
	// cost alternates 513/514 cycles depending on CPU cycle parity; this
	// core always charges the even case.
	oamDMARegister uint16 = 0x4014
	oamDMACycles   uint64 = 513
)

var errIllegalOpcode = errors.New("cpu: illegal opcode")

// Flags are the bits of the CPU's status register P: N V - B D I Z C.
type Flags byte

const (
	// FlagCarry holds the carry out of ADC/compare/shift instructions.
	FlagCarry Flags = 1 << iota

	// FlagZero is set when an instruction's result is zero.
	FlagZero

	// FlagInterruptDisable masks IRQs; NMI ignores it. Set by SEI, cleared
	// by CLI, and forced on when an NMI is serviced.
	FlagInterruptDisable

	// FlagDecimal is togglable by SED/CLD but has no effect on ADC/SBC —
	// the NES 6502 variant never implements decimal mode.
	FlagDecimal

	// FlagBreak distinguishes a pushed-by-instruction status byte from one
	// pushed by an interrupt line; only meaningful once on the stack.
	FlagBreak

	// FlagUnused is always 1 once pushed to the stack.
	FlagUnused

	// FlagOverflow is set on signed overflow in ADC/SBC.
	FlagOverflow

	// FlagNegative mirrors bit 7 of an instruction's result.
	FlagNegative
)

// CPU is the Rico core: an MOS-6502-derived instruction set without decimal
// mode, driving a Bus through a fetch-dispatch-retire loop.
type CPU struct {
	A, X, Y byte
	PC      uint16
	S       byte
	P       Flags

	bus *Bus
	log *diag.Ring

	nmiPending bool

	// Trace, when set, logs a nestest-shaped trace line for every retired
	// instruction through log at Info level.
	Trace bool
}

// NewCPU builds a CPU wired to bus, logging through log, and resets it to
// power-on state.
func NewCPU(bus *Bus, log *diag.Ring) *CPU {
	c := &CPU{bus: bus, log: log}
	c.Reset()
	return c
}

// Reset restores power-on register state. PC goes straight to the
// cartridge entry point at $8000 — reading a reset vector is a refinement
// this core does not implement.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.PC = resetPC
	c.S = resetS
	c.P = resetP
	c.nmiPending = false
}

// Execute retires instructions until the cycle budget is met or exceeded,
// then ticks the bus exactly once with the full retired count. If the tick
// reports an NMI, it is serviced at the start of the *next* Execute call —
// the current budget's instructions have already committed their effects.
func (c *CPU) Execute(budget uint64) (uint64, error) {
	var retired uint64

	if c.nmiPending {
		c.nmiPending = false
		if err := c.serviceNMI(); err != nil {
			return 0, err
		}
		retired += nmiCycles
	}

	for retired < budget {
		cycles, err := c.step()
		if err != nil {
			return retired, err
		}
		retired += cycles
	}

	if sig := c.bus.Tick(retired); sig == NMI {
		c.nmiPending = true
	}

	return retired, nil
}

func (c *CPU) step() (uint64, error) {
	pc := c.PC
	opcode, err := c.bus.Read8(pc)
	if err != nil {
		c.fatal("fetch fault", opcode, err)
		return 0, err
	}
	c.PC++

	inst := instructions[opcode]
	if inst.Name == "" {
		c.fatal("illegal opcode", opcode, nil)
		return 0, fmt.Errorf("%w: $%02X at $%04X", errIllegalOpcode, opcode, pc)
	}

	addr, crossed, err := c.resolveAddress(inst)
	if err != nil {
		c.fatal("operand fault", opcode, err)
		return 0, err
	}

	extra, err := c.perform(inst, addr)
	if err != nil {
		c.fatal("operand fault", opcode, err)
		return 0, err
	}

	cycles := uint64(inst.Cycles)
	if crossed && inst.PageCycles > 0 {
		cycles += uint64(inst.PageCycles)
	}
	cycles += extra

	if c.Trace {
		c.log.Infof(nil, "%s", traceLine(pc, opcode, inst, c.A, c.X, c.Y, byte(c.P), c.S, cycles))
	}

	return cycles, nil
}

func (c *CPU) fatal(reason string, opcode byte, err error) {
	fields := logrus.Fields{
		"pc":     fmt.Sprintf("$%04X", c.PC),
		"opcode": fmt.Sprintf("$%02X", opcode),
		"a":      c.A,
		"x":      c.X,
		"y":      c.Y,
		"s":      c.S,
		"p":      fmt.Sprintf("$%02X", byte(c.P)),
	}
	if err != nil {
		c.log.Fatalf(fields, "cpu: %s: %v", reason, err)
		return
	}
	c.log.Fatalf(fields, "cpu: %s", reason)
}

func pageCrossed(base, addr uint16) bool {
	return base&0xFF00 != addr&0xFF00
}

// resolveAddress computes the effective address for inst, advancing PC past
// each operand byte it consumes — by the time it returns, PC points at the
// next opcode, exactly as if the instruction's fixed length had been added.
func (c *CPU) resolveAddress(inst Instruction) (addr uint16, crossed bool, err error) {
	switch inst.Mode {
	case Implied, Accumulator:
		return 0, false, nil

	case Immediate:
		addr = c.PC
		c.PC++
		return addr, false, nil

	case ZeroPage:
		b, err := c.bus.Read8(c.PC)
		if err != nil {
			return 0, false, err
		}
		c.PC++
		return uint16(b), false, nil

	case ZeroPageIndexedX:
		b, err := c.bus.Read8(c.PC)
		if err != nil {
			return 0, false, err
		}
		c.PC++
		return uint16(b + c.X), false, nil

	case ZeroPageIndexedY:
		b, err := c.bus.Read8(c.PC)
		if err != nil {
			return 0, false, err
		}
		c.PC++
		return uint16(b + c.Y), false, nil

	case Absolute:
		w, err := c.bus.Read16(c.PC)
		if err != nil {
			return 0, false, err
		}
		c.PC += 2
		return w, false, nil

	case IndexedX:
		base, err := c.bus.Read16(c.PC)
		if err != nil {
			return 0, false, err
		}
		c.PC += 2
		addr = base + uint16(c.X)
		return addr, pageCrossed(base, addr), nil

	case IndexedY:
		base, err := c.bus.Read16(c.PC)
		if err != nil {
			return 0, false, err
		}
		c.PC += 2
		addr = base + uint16(c.Y)
		return addr, pageCrossed(base, addr), nil

	case Relative:
		b, err := c.bus.Read8(c.PC)
		if err != nil {
			return 0, false, err
		}
		c.PC++
		return c.PC + uint16(int8(b)), false, nil

	case PreIndexedIndirect:
		zp, err := c.bus.Read8(c.PC)
		if err != nil {
			return 0, false, err
		}
		c.PC++
		ptr := zp + c.X
		lo, err := c.bus.Read8(uint16(ptr))
		if err != nil {
			return 0, false, err
		}
		hi, err := c.bus.Read8(uint16(ptr + 1))
		if err != nil {
			return 0, false, err
		}
		return uint16(hi)<<8 | uint16(lo), false, nil

	case PostIndexedIndirect:
		zp, err := c.bus.Read8(c.PC)
		if err != nil {
			return 0, false, err
		}
		c.PC++
		lo, err := c.bus.Read8(uint16(zp))
		if err != nil {
			return 0, false, err
		}
		hi, err := c.bus.Read8(uint16(zp + 1))
		if err != nil {
			return 0, false, err
		}
		base := uint16(hi)<<8 | uint16(lo)
		addr = base + uint16(c.Y)
		return addr, pageCrossed(base, addr), nil
	}

	return 0, false, nil
}

// perform executes inst against the already-resolved addr, returning any
// cycles beyond inst.Cycles/PageCycles a branch earns by being taken.
func (c *CPU) perform(inst Instruction, addr uint16) (extra uint64, err error) {
	switch inst.Name {
	case "NOP":

	case "LDA":
		v, e := c.bus.Read8(addr)
		if e != nil {
			return 0, e
		}
		c.A = v
		c.updateZN(c.A)
	case "LDX":
		v, e := c.bus.Read8(addr)
		if e != nil {
			return 0, e
		}
		c.X = v
		c.updateZN(c.X)
	case "LDY":
		v, e := c.bus.Read8(addr)
		if e != nil {
			return 0, e
		}
		c.Y = v
		c.updateZN(c.Y)

	case "STA":
		err = c.bus.Write8(addr, c.A)
		if err == nil && addr == oamDMARegister {
			extra = oamDMACycles
		}
	case "STX":
		err = c.bus.Write8(addr, c.X)
		if err == nil && addr == oamDMARegister {
			extra = oamDMACycles
		}
	case "STY":
		err = c.bus.Write8(addr, c.Y)
		if err == nil && addr == oamDMARegister {
			extra = oamDMACycles
		}

	case "TAX":
		c.X = c.A
		c.updateZN(c.X)
	case "TAY":
		c.Y = c.A
		c.updateZN(c.Y)
	case "TXA":
		c.A = c.X
		c.updateZN(c.A)
	case "TYA":
		c.A = c.Y
		c.updateZN(c.A)
	case "TSX":
		c.X = c.S
		c.updateZN(c.X)
	case "TXS":
		c.S = c.X // TXS does not touch the flags

	case "INX":
		c.X++
		c.updateZN(c.X)
	case "INY":
		c.Y++
		c.updateZN(c.Y)
	case "DEX":
		c.X--
		c.updateZN(c.X)
	case "DEY":
		c.Y--
		c.updateZN(c.Y)

	case "INC":
		v, e := c.bus.Read8(addr)
		if e != nil {
			return 0, e
		}
		v++
		c.updateZN(v)
		err = c.bus.Write8(addr, v)
	case "DEC":
		v, e := c.bus.Read8(addr)
		if e != nil {
			return 0, e
		}
		v--
		c.updateZN(v)
		err = c.bus.Write8(addr, v)

	case "ADC":
		v, e := c.bus.Read8(addr)
		if e != nil {
			return 0, e
		}
		c.doAdd(v)
	case "SBC":
		v, e := c.bus.Read8(addr)
		if e != nil {
			return 0, e
		}
		c.doAdd(v ^ 0xFF)

	case "AND":
		v, e := c.bus.Read8(addr)
		if e != nil {
			return 0, e
		}
		c.A &= v
		c.updateZN(c.A)
	case "ORA":
		v, e := c.bus.Read8(addr)
		if e != nil {
			return 0, e
		}
		c.A |= v
		c.updateZN(c.A)
	case "EOR":
		v, e := c.bus.Read8(addr)
		if e != nil {
			return 0, e
		}
		c.A ^= v
		c.updateZN(c.A)

	case "CMP":
		v, e := c.bus.Read8(addr)
		if e != nil {
			return 0, e
		}
		c.compare(c.A, v)
	case "CPX":
		v, e := c.bus.Read8(addr)
		if e != nil {
			return 0, e
		}
		c.compare(c.X, v)
	case "CPY":
		v, e := c.bus.Read8(addr)
		if e != nil {
			return 0, e
		}
		c.compare(c.Y, v)

	case "ASL":
		c.A = c.doAsl(c.A)
	case "LSR":
		c.A = c.doLsr(c.A)

	case "BIT":
		v, e := c.bus.Read8(addr)
		if e != nil {
			return 0, e
		}
		c.testBit(v)

	case "JMP":
		c.PC = addr
	case "JSR":
		if e := c.pushAddress(c.PC - 1); e != nil {
			return 0, e
		}
		c.PC = addr
	case "RTS":
		ret, e := c.pullAddress()
		if e != nil {
			return 0, e
		}
		c.PC = ret + 1

	case "BPL":
		extra = c.branch(c.P&FlagNegative == 0, addr)
	case "BMI":
		extra = c.branch(c.P&FlagNegative != 0, addr)
	case "BVC":
		extra = c.branch(c.P&FlagOverflow == 0, addr)
	case "BVS":
		extra = c.branch(c.P&FlagOverflow != 0, addr)
	case "BCC":
		extra = c.branch(c.P&FlagCarry == 0, addr)
	case "BCS":
		extra = c.branch(c.P&FlagCarry != 0, addr)
	case "BNE":
		extra = c.branch(c.P&FlagZero == 0, addr)
	case "BEQ":
		extra = c.branch(c.P&FlagZero != 0, addr)

	case "SEI":
		c.P |= FlagInterruptDisable
	case "CLI":
		c.P &^= FlagInterruptDisable
	case "SED":
		c.P |= FlagDecimal
	case "CLD":
		c.P &^= FlagDecimal
	case "SEC":
		c.P |= FlagCarry
	case "CLC":
		c.P &^= FlagCarry
	}

	// A write to an address no handler claims has already been logged by
	// Bus.Write8; like an open bus, it does not halt execution.
	var bad *BadAddress
	if errors.As(err, &bad) && bad.Write {
		if h, _ := c.bus.find(bad.Addr); h == nil {
			err = nil
		}
	}

	return extra, err
}

// branch applies the displacement when taken is true and reports how many
// cycles beyond the instruction's base cost the branch earns: 1 for a
// same-page branch, 2 if it crosses a page. A not-taken branch earns none —
// PC has already advanced past the two-byte instruction via resolveAddress.
func (c *CPU) branch(taken bool, target uint16) uint64 {
	if !taken {
		return 0
	}
	extra := uint64(1)
	if pageCrossed(c.PC, target) {
		extra = 2
	}
	c.PC = target
	return extra
}

func (c *CPU) push(v byte) error {
	err := c.bus.Write8(stackHi|uint16(c.S), v)
	c.S--
	return err
}

func (c *CPU) pull() (byte, error) {
	c.S++
	return c.bus.Read8(stackHi | uint16(c.S))
}

func (c *CPU) pushAddress(v uint16) error {
	if err := c.push(byte(v >> 8)); err != nil {
		return err
	}
	return c.push(byte(v))
}

func (c *CPU) pullAddress() (uint16, error) {
	lo, err := c.pull()
	if err != nil {
		return 0, err
	}
	hi, err := c.pull()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// serviceNMI pushes PC high-then-low, pushes P with the break bit clear,
// sets the interrupt-disable flag, and loads PC from the NMI vector.
func (c *CPU) serviceNMI() error {
	if err := c.pushAddress(c.PC); err != nil {
		return err
	}
	if err := c.push(byte(c.P&^FlagBreak) | byte(FlagUnused)); err != nil {
		return err
	}
	c.P |= FlagInterruptDisable

	addr, err := c.bus.Read16(nmiVector)
	if err != nil {
		return err
	}
	c.PC = addr
	return nil
}

func (c *CPU) updateZN(v byte) {
	if v == 0 {
		c.P |= FlagZero
	} else {
		c.P &^= FlagZero
	}
	if v&0x80 != 0 {
		c.P |= FlagNegative
	} else {
		c.P &^= FlagNegative
	}
}

func (c *CPU) compare(reg, operand byte) {
	if reg >= operand {
		c.P |= FlagCarry
	} else {
		c.P &^= FlagCarry
	}
	if reg == operand {
		c.P |= FlagZero
	} else {
		c.P &^= FlagZero
	}
	c.updateNegative(reg - operand)
}

func (c *CPU) updateNegative(v byte) {
	if v&0x80 != 0 {
		c.P |= FlagNegative
	} else {
		c.P &^= FlagNegative
	}
}

// doAdd implements ADC directly and SBC via the caller XORing the operand
// with 0xFF first — the standard two's-complement identity that lets one
// helper serve both, carrying the same carry/overflow derivation either way.
func (c *CPU) doAdd(v byte) {
	a := c.A
	carryIn := uint16(0)
	if c.P&FlagCarry != 0 {
		carryIn = 1
	}

	sum := uint16(a) + uint16(v) + carryIn
	r := byte(sum)

	if sum&0x100 != 0 {
		c.P |= FlagCarry
	} else {
		c.P &^= FlagCarry
	}
	if (a^r)&(v^r)&0x80 != 0 {
		c.P |= FlagOverflow
	} else {
		c.P &^= FlagOverflow
	}

	c.A = r
	c.updateZN(c.A)
}

func (c *CPU) doAsl(v byte) byte {
	if v&0x80 != 0 {
		c.P |= FlagCarry
	} else {
		c.P &^= FlagCarry
	}
	v <<= 1
	c.updateZN(v)
	return v
}

func (c *CPU) doLsr(v byte) byte {
	if v&0x01 != 0 {
		c.P |= FlagCarry
	} else {
		c.P &^= FlagCarry
	}
	v >>= 1
	c.updateZN(v)
	return v
}

func (c *CPU) testBit(v byte) {
	if v&0x80 != 0 {
		c.P |= FlagNegative
	} else {
		c.P &^= FlagNegative
	}
	if v&0x40 != 0 {
		c.P |= FlagOverflow
	} else {
		c.P &^= FlagOverflow
	}
	if c.A&v == 0 {
		c.P |= FlagZero
	} else {
		c.P &^= FlagZero
	}
}
