package nes

import (
	"testing"

	"github.com/rincewound/ricones/diag"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	frames int
	last   *[FrameWidth * FrameHeight]uint32
}

func (s *recordingSink) Present(frame *[FrameWidth * FrameHeight]uint32) error {
	s.frames++
	s.last = frame
	return nil
}

func newTestOrchestrator(prg ...byte) *Orchestrator {
	bank := make([]byte, 32768)
	copy(bank, prg)
	return NewOrchestrator(&Cartridge{PRG: bank}, diag.NewRing(64))
}

func TestOrchestratorFrameRunsFixedScanlineBudget(t *testing.T) {
	o := newTestOrchestrator(0xEA, 0x4C, 0x00, 0x80) // NOP ; JMP $8000, loops forever

	err := o.Frame()
	require.NoError(t, err)
}

func TestOrchestratorRunStopsOnQuit(t *testing.T) {
	o := newTestOrchestrator(0xEA, 0x4C, 0x00, 0x80) // NOP ; JMP $8000
	sink := &recordingSink{}

	calls := 0
	quit := func() bool {
		calls++
		return calls > 3
	}

	err := o.Run(sink, quit)
	require.NoError(t, err)
	require.Equal(t, 3, sink.frames)
}

func TestOrchestratorRunHaltsOnIllegalOpcode(t *testing.T) {
	o := newTestOrchestrator(0x02) // illegal
	sink := &recordingSink{}

	err := o.Run(sink, func() bool { return false })
	require.Error(t, err)
}

func TestOrchestratorOAMDMAThroughSTA(t *testing.T) {
	// STA $4014 with A holding the source page (page 0x02, zero-filled RAM).
	// Only checks that the DMA completes without a fault inside a budget of
	// LDA + STA + oamDMACycles.
	o := newTestOrchestrator(0xA9, 0x02, 0x8D, 0x14, 0x40) // LDA #$02 ; STA $4014

	_, err := o.CPU.Execute(2 + 4 + oamDMACycles)
	require.NoError(t, err)
}

func TestOrchestratorControllerPortsRoundTrip(t *testing.T) {
	o := newTestOrchestrator(0xEA)

	o.Press(0, A)
	o.APU.Controller1.Write(1) // strobe high resets the shift-register head
	require.Equal(t, Button(1), o.APU.Controller1.Read(), "A is pressed")

	o.Release(0, A)
	o.APU.Controller1.Write(1)
	require.Equal(t, Button(0), o.APU.Controller1.Read(), "A released")
}
