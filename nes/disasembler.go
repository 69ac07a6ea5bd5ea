package nes

import "fmt"

// traceLine renders one retired instruction in a nestest-log-compatible
// shape: address, mnemonic, and register snapshot. It intentionally drops
// the source's byte-accurate operand/column formatting (no PPU dot/scanline
// columns, no resolved-address annotations) since this core's --trace flag
// is a debugging aid, not a golden-log comparison target.
func traceLine(pc uint16, opcode byte, inst Instruction, a, x, y, p, s byte, cycles uint64) string {
	return fmt.Sprintf("%04X  %02X %-4s  A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d",
		pc, opcode, inst.Name, a, x, y, p, s, cycles)
}
